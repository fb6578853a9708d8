package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"Name"`
	Email    string   `gorm:"size:100;unique;not null" json:"Email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','admin');default:'student'" json:"Role"`

	// 闯关进度字段，只允许 ProgressionService 在事务内修改
	Points         int        `gorm:"default:0" json:"Points"`
	CurrentStreak  int        `gorm:"default:0" json:"CurrentStreak"`
	LongestStreak  int        `gorm:"default:0" json:"LongestStreak"`
	LastSolvedDate *time.Time `json:"LastSolvedDate,omitempty"`

	Disabled  bool      `gorm:"default:false" json:"Disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

// CompletedChallenge 记录用户已通过的挑战，复合主键保证集合语义（同一挑战最多一行）
// swagger:model CompletedChallenge
type CompletedChallenge struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ChallengeID uint      `gorm:"primaryKey;autoIncrement:false" json:"challengeId"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (CompletedChallenge) TableName() string {
	return "completed_challenges"
}
