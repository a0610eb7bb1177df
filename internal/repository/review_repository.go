package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rti-service/internal/model"
)

// ErrDuplicate signals a store-level uniqueness violation; the indexes
// are the final arbiter for concurrent check-then-insert races.
var ErrDuplicate = errors.New("duplicate record")

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.AnalystReview) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// GetByResponseID treats a missing review as a valid empty state.
func (r *ReviewRepository) GetByResponseID(ctx context.Context, responseID uuid.UUID) (*model.AnalystReview, error) {
	var review model.AnalystReview
	err := r.db.WithContext(ctx).Where("response_id = ?", responseID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}
