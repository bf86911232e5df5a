package model

import (
	"encoding/json"
	"time"
)

type PeerReview struct {
	BaseModel
	ReviewerID     uint            `gorm:"index;not null" json:"reviewerId"`
	RevieweeID     uint            `gorm:"index;not null" json:"revieweeId"`
	SubmissionID   uint            `gorm:"index;not null" json:"submissionId"`
	ReviewText     string          `gorm:"type:text" json:"reviewText"`
	Rating         int             `gorm:"default:0" json:"rating"`
	CriteriaScores json.RawMessage `gorm:"type:json" json:"criteriaScores"` // 按评审维度存储的分数
	IsCompleted    bool            `gorm:"default:false" json:"isCompleted"`
	CompletedAt    *time.Time      `json:"completedAt"`
}

func (PeerReview) TableName() string {
	return "peer_reviews"
}
