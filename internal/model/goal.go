package model

import "time"

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
	DifficultyExpert DifficultyLevel = "expert"
)

// ValidDifficulty 判断难度等级是否在允许的枚举范围内
func ValidDifficulty(d DifficultyLevel) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

type Goal struct {
	BaseModel
	UserID             uint            `gorm:"index;not null" json:"userId"`
	Title              string          `gorm:"size:255;not null" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	Category           string          `gorm:"size:100;index" json:"category"`
	Difficulty         DifficultyLevel `gorm:"size:20;default:'medium'" json:"difficulty"`
	TargetDate         *time.Time      `json:"targetDate"`
	ProgressPercentage int             `gorm:"default:0" json:"progressPercentage"`
	IsCompleted        bool            `gorm:"default:false" json:"isCompleted"`
	CompletedAt        *time.Time      `json:"completedAt"`

	// 删除目标时级联删除其下挑战
	Challenges []Challenge `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Goal) TableName() string {
	return "goals"
}
