package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rti-service/internal/model"
)

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(ctx context.Context, response *model.RTIResponse) error {
	err := r.db.WithContext(ctx).Create(response).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// GetByRequestID treats a missing response as a valid empty state.
func (r *ResponseRepository) GetByRequestID(ctx context.Context, requestID uuid.UUID) (*model.RTIResponse, error) {
	var response model.RTIResponse
	err := r.db.WithContext(ctx).Where("rti_request_id = ?", requestID).First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &response, nil
}
