package repository

import (
	"code_quest_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

// FindAllOrdered 按目录顺序返回全部徽章
func (r *BadgeRepository) FindAllOrdered() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("sort_order ASC, id ASC").Find(&badges).Error
	return badges, err
}

// FindIDsByUser 返回用户已持有的徽章ID集合
func (r *BadgeRepository) FindIDsByUser(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	owned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Award 授予徽章。复合主键加 DoNothing 保证集合语义，重复授予不报错也不重复
func (r *BadgeRepository) Award(tx *gorm.DB, userID, badgeID uint) error {
	ub := model.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ub).Error
}

// FindByUser 返回用户已获得的徽章详情，按目录顺序
func (r *BadgeRepository) FindByUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("badges.sort_order ASC, badges.id ASC").
		Find(&badges).Error
	return badges, err
}
