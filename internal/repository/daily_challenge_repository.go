package repository

import (
	"code_quest_backend/internal/model"

	"gorm.io/gorm"
)

type DailyChallengeRepository struct {
	DB *gorm.DB
}

func NewDailyChallengeRepository(db *gorm.DB) *DailyChallengeRepository {
	return &DailyChallengeRepository{DB: db}
}

func (r *DailyChallengeRepository) FindByDate(date string) (*model.DailyChallenge, error) {
	var daily model.DailyChallenge
	err := r.DB.Where("date = ?", date).First(&daily).Error
	if err != nil {
		return nil, err
	}
	return &daily, nil
}

// Create 依赖 date 唯一索引，并发创建同一天时由调用方处理冲突后重读
func (r *DailyChallengeRepository) Create(daily *model.DailyChallenge) error {
	return r.DB.Create(daily).Error
}
