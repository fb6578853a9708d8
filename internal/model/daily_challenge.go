package model

// DailyChallenge 每日一题，date 为不带时区的日历日期键，
// 唯一索引保证每天最多一条
// swagger:model DailyChallenge
type DailyChallenge struct {
	BaseModel
	Date        string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	ChallengeID uint   `gorm:"not null" json:"challengeId"`
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}
