package model

type SubmissionStatus string

const (
	SubmissionPassed SubmissionStatus = "PASSED"
	SubmissionFailed SubmissionStatus = "FAILED"
	// SubmissionError 保留给未形成评测结论的异常记录，评测引擎本身只产出 PASSED/FAILED
	SubmissionError SubmissionStatus = "ERROR"
)

// Submission 一次评测的审计记录，创建后不再修改
// swagger:model Submission
type Submission struct {
	UUIDBase
	UserID       uint             `gorm:"index;not null" json:"userId"`
	ChallengeID  uint             `gorm:"index;not null" json:"challengeId"`
	Language     string           `gorm:"size:30;not null" json:"language"`
	Code         string           `gorm:"type:text;not null" json:"code"`
	Status       SubmissionStatus `gorm:"type:enum('PASSED','FAILED','ERROR');not null" json:"status"`
	PassedCases  int              `gorm:"default:0" json:"passedCases"`
	TotalCases   int              `gorm:"default:0" json:"totalCases"`
	PointsEarned int              `gorm:"default:0" json:"pointsEarned"`
}

func (Submission) TableName() string {
	return "submissions"
}
