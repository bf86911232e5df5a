package model

import (
	"encoding/json"
	"strings"
)

type ChallengeStatus string

// 挑战状态使用统一的闭合枚举
const (
	ChallengeNotStarted ChallengeStatus = "not_started"
	ChallengeInProgress ChallengeStatus = "in_progress"
	ChallengeCompleted  ChallengeStatus = "completed"
)

func ValidChallengeStatus(s ChallengeStatus) bool {
	switch s {
	case ChallengeNotStarted, ChallengeInProgress, ChallengeCompleted:
		return true
	}
	return false
}

type Challenge struct {
	BaseModel
	Title            string          `gorm:"size:255;not null" json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	Instructions     string          `gorm:"type:text" json:"instructions"`
	Category         string          `gorm:"size:100;index" json:"category"`
	Difficulty       DifficultyLevel `gorm:"size:20;default:'medium'" json:"difficulty"`
	GoalID           *uint           `gorm:"index" json:"goalId"` // 可为空，允许独立挑战
	Status           ChallengeStatus `gorm:"size:20;default:'not_started'" json:"status"`
	PointsReward     int             `gorm:"default:10" json:"pointsReward"`
	MaxAttempts      int             `gorm:"default:3" json:"maxAttempts"`
	EstimatedMinutes int             `gorm:"default:0" json:"estimatedMinutes"`
	Tags             string          `gorm:"size:255" json:"tags"` // 逗号分隔
	Prerequisites    json.RawMessage `gorm:"type:json" json:"prerequisites"` // JSON: []string
	TestCases        json.RawMessage `gorm:"type:json" json:"testCases"`     // JSON: []TestCase
	IsActive         bool            `gorm:"default:true" json:"isActive"`

	Submissions []Submission `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// TagList 返回去除空项后的标签切片
func (c *Challenge) TagList() []string {
	if c.Tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(c.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
