package repository

import (
	"code_quest_backend/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository 提交审计记录，只增不改
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByUser(userID uint, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) FindByUserAndChallenge(userID, challengeID uint, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}
