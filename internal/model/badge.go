package model

import "time"

type BadgeCriteria string

const (
	CriteriaPoints      BadgeCriteria = "POINTS"
	CriteriaSolvedTotal BadgeCriteria = "SOLVED_TOTAL"
	CriteriaStreak      BadgeCriteria = "STREAK"
)

// Badge 徽章目录条目，对核心逻辑只读
// swagger:model Badge
type Badge struct {
	BaseModel
	Name          string        `gorm:"size:100;unique;not null" json:"name"`
	Description   string        `gorm:"size:255" json:"description"`
	Icon          string        `gorm:"size:50" json:"icon"`
	Color         string        `gorm:"size:50" json:"color"`
	CriteriaType  BadgeCriteria `gorm:"type:enum('POINTS','SOLVED_TOTAL','STREAK');not null" json:"criteriaType"`
	CriteriaValue int           `gorm:"not null" json:"criteriaValue"`
	SortOrder     int           `gorm:"default:0" json:"sortOrder"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户已获得的徽章，复合主键保证不重复、只增不减
// swagger:model UserBadge
type UserBadge struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	BadgeID   uint      `gorm:"primaryKey;autoIncrement:false" json:"badgeId"`
	AwardedAt time.Time `gorm:"not null" json:"awardedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
