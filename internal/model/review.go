package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewStatusComplete ReviewStatus = "COMPLETE"
	ReviewStatusVague    ReviewStatus = "VAGUE"
	ReviewStatusDenied   ReviewStatus = "DENIED"
	ReviewStatusDelayed  ReviewStatus = "DELAYED"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusComplete, ReviewStatusVague, ReviewStatusDenied, ReviewStatusDelayed:
		return true
	}
	return false
}

type AnalystReview struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ResponseID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"response_id"`
	Status     ReviewStatus `gorm:"type:review_status;not null" json:"status"`
	Remarks    string       `gorm:"type:text;not null" json:"remarks"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (AnalystReview) TableName() string {
	return "analyst_reviews"
}

func (r *AnalystReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
