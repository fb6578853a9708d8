package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Challenge 编程挑战题目，评测期间视为不可变
// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Difficulty       Difficulty `gorm:"type:enum('EASY','MEDIUM','HARD');default:'EASY'" json:"difficulty"`
	Points           int        `gorm:"default:0" json:"points"`
	AllowedLanguages []string   `gorm:"serializer:json;type:json" json:"allowedLanguages"`
	StarterCode      string     `gorm:"type:text" json:"starterCode"`

	// 按 OrderIndex 排序，顺序决定评测结果数组的位置对应关系
	TestCases []TestCase `gorm:"constraint:OnDelete:CASCADE" json:"testCases,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// AllowsLanguage 判断该挑战是否允许指定语言提交
func (c *Challenge) AllowsLanguage(language string) bool {
	for _, l := range c.AllowedLanguages {
		if l == language {
			return true
		}
	}
	return false
}

// TestCase 挑战的单个测试用例。IsHidden 只控制对外展示时的脱敏，
// 不影响该用例是否被执行和计分
// swagger:model TestCase
type TestCase struct {
	BaseModel
	ChallengeID    uint   `gorm:"index;not null" json:"-"`
	OrderIndex     int    `gorm:"not null;default:0" json:"orderIndex"`
	Input          string `gorm:"type:text" json:"input"`
	ExpectedOutput string `gorm:"type:text" json:"expectedOutput"`
	IsHidden       bool   `gorm:"default:false" json:"isHidden"`
}

func (TestCase) TableName() string {
	return "test_cases"
}
