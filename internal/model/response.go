package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RTIResponse struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	RTIRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"rti_request_id"`
	ReplyText    string    `gorm:"type:text;not null" json:"reply_text"`
	DateReplied  time.Time `gorm:"type:date;not null" json:"date_replied"`
	IsDelayed    bool      `gorm:"not null;default:false" json:"is_delayed"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RTIResponse) TableName() string {
	return "rti_responses"
}

func (r *RTIResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
