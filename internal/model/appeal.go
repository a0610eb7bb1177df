package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppealType string

const (
	AppealTypeFirst  AppealType = "FIRST"
	AppealTypeSecond AppealType = "SECOND"
)

type AppealStatus string

const (
	AppealStatusPending     AppealStatus = "PENDING"
	AppealStatusUnderReview AppealStatus = "UNDER_REVIEW"
	AppealStatusDecided     AppealStatus = "DECIDED"
)

func (s AppealStatus) Valid() bool {
	switch s {
	case AppealStatusPending, AppealStatusUnderReview, AppealStatusDecided:
		return true
	}
	return false
}

// CanTransitionTo allows only forward movement through
// PENDING -> UNDER_REVIEW -> DECIDED. DECIDED is terminal.
func (s AppealStatus) CanTransitionTo(next AppealStatus) bool {
	switch s {
	case AppealStatusPending:
		return next == AppealStatusUnderReview || next == AppealStatusDecided
	case AppealStatusUnderReview:
		return next == AppealStatusDecided
	default:
		return false
	}
}

var ErrMalformedAppeal = errors.New("malformed appeal")

// Appeal covers both tiers: a FIRST appeal references its RTI request,
// a SECOND appeal references its FIRST appeal and reaches the request
// only transitively.
type Appeal struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	AppealType       AppealType   `gorm:"type:appeal_type;not null" json:"appeal_type"`
	Status           AppealStatus `gorm:"type:appeal_status;not null;default:PENDING" json:"status"`
	RTIRequestID     *uuid.UUID   `gorm:"type:uuid" json:"rti_request_id"`
	ParentAppealID   *uuid.UUID   `gorm:"type:uuid" json:"parent_appeal_id"`
	ReferenceNumber  string       `gorm:"type:varchar(100);not null" json:"reference_number"`
	DateFiled        time.Time    `gorm:"type:date;not null" json:"date_filed"`
	RequestDocument  string       `gorm:"type:text;not null" json:"request_document"`
	ResponseDocument *string      `gorm:"type:text" json:"response_document"`
	DecisionRemarks  *string      `gorm:"type:text" json:"decision_remarks"`
	DecidedAt        *time.Time   `json:"decided_at"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appeal) TableName() string {
	return "appeals"
}

func (a *Appeal) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Validate enforces the per-type shape: a FIRST appeal carries an RTI
// request and no parent, a SECOND appeal carries a parent and no
// direct request.
func (a *Appeal) Validate() error {
	switch a.AppealType {
	case AppealTypeFirst:
		if a.RTIRequestID == nil || a.ParentAppealID != nil {
			return ErrMalformedAppeal
		}
	case AppealTypeSecond:
		if a.ParentAppealID == nil || a.RTIRequestID != nil {
			return ErrMalformedAppeal
		}
	default:
		return ErrMalformedAppeal
	}
	if a.RequestDocument == "" {
		return ErrMalformedAppeal
	}
	return nil
}
