package repository

import (
	"code_quest_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletedChallengeRepository 用户已通过挑战的集合。
// 集合唯一性由复合主键在存储层保证，不做应用层数组扫描
type CompletedChallengeRepository struct {
	DB *gorm.DB
}

func NewCompletedChallengeRepository(db *gorm.DB) *CompletedChallengeRepository {
	return &CompletedChallengeRepository{DB: db}
}

// AddIfAbsent 原子地把挑战加入已完成集合。
// 返回 true 表示首次通过（本次插入生效），false 表示此前已通过
func (r *CompletedChallengeRepository) AddIfAbsent(tx *gorm.DB, userID, challengeID uint) (bool, error) {
	cc := model.CompletedChallenge{
		UserID:      userID,
		ChallengeID: challengeID,
		CompletedAt: time.Now(),
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cc)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CompletedChallengeRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CompletedChallenge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FindIDsByUser 返回用户已通过的挑战ID集合，用于列表页 O(1) 判断
func (r *CompletedChallengeRepository) FindIDsByUser(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.CompletedChallenge{}).
		Where("user_id = ?", userID).
		Pluck("challenge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	solved := make(map[uint]bool, len(ids))
	for _, id := range ids {
		solved[id] = true
	}
	return solved, nil
}
