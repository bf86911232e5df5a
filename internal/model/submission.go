package model

import "time"

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionRejected  SubmissionStatus = "rejected"
)

func ValidSubmissionStatus(s SubmissionStatus) bool {
	switch s {
	case SubmissionPending, SubmissionCompleted, SubmissionRejected:
		return true
	}
	return false
}

// IsTerminal 判断状态是否为终态（已评审）
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionCompleted || s == SubmissionRejected
}

type Submission struct {
	BaseModel
	ChallengeID   uint             `gorm:"index;not null" json:"challengeId"`
	UserID        uint             `gorm:"index;not null" json:"userId"`
	Content       string           `gorm:"type:text" json:"content"`
	URL           string           `gorm:"size:512" json:"url"`
	Notes         string           `gorm:"type:text" json:"notes"`
	Status        SubmissionStatus `gorm:"size:20;default:'pending'" json:"status"`
	Score         int              `gorm:"default:0" json:"score"`
	Feedback      string           `gorm:"type:text" json:"feedback"`
	ReviewerNotes string           `gorm:"type:text" json:"reviewerNotes"`
	Attachment    string           `gorm:"size:512" json:"attachment"`
	ReviewedAt    *time.Time       `json:"reviewedAt"`
	SubmittedAt   time.Time        `json:"submittedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}
