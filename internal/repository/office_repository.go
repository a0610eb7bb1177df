package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rti-service/internal/model"
)

type OfficeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

func (r *OfficeRepository) Create(ctx context.Context, office *model.PanchayatOffice) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *OfficeRepository) GetByID(ctx context.Context, id string) (*model.PanchayatOffice, error) {
	var office model.PanchayatOffice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (r *OfficeRepository) List(ctx context.Context) ([]model.PanchayatOffice, error) {
	var offices []model.PanchayatOffice
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&offices).Error
	return offices, err
}
