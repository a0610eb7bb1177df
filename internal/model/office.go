package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PanchayatOffice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	District  string    `gorm:"type:varchar(200);not null" json:"district"`
	State     string    `gorm:"type:varchar(200);not null" json:"state"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PanchayatOffice) TableName() string {
	return "panchayat_offices"
}

func (o *PanchayatOffice) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
