package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusFiled        RequestStatus = "Filed"
	RequestStatusAcknowledged RequestStatus = "Acknowledged"
	RequestStatusResponded    RequestStatus = "Responded"
)

type RTIRequest struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReferenceNumber         string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference_number"`
	ApplicantName           string     `gorm:"type:varchar(200);not null" json:"applicant_name"`
	DateFiled               time.Time  `gorm:"type:date;not null" json:"date_filed"`
	Subject                 string     `gorm:"type:text;not null" json:"subject"`
	PanchayatID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"panchayat_id"`
	OriginalApplication     *string    `gorm:"type:text" json:"original_application"`
	AcknowledgementDocument *string    `gorm:"type:text" json:"acknowledgement_document"`
	AcknowledgementDate     *time.Time `gorm:"type:date" json:"acknowledgement_date"`
	ResponseDocument        *string    `gorm:"type:text" json:"response_document"`
	ResponseDate            *time.Time `gorm:"type:date" json:"response_date"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RTIRequest) TableName() string {
	return "rti_requests"
}

func (r *RTIRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Status is derived from document presence and never stored.
func (r *RTIRequest) Status() RequestStatus {
	if r.ResponseDocument != nil && *r.ResponseDocument != "" {
		return RequestStatusResponded
	}
	if r.AcknowledgementDocument != nil && *r.AcknowledgementDocument != "" {
		return RequestStatusAcknowledged
	}
	return RequestStatusFiled
}
