package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rti-service/internal/model"
)

type AppealRepository struct {
	db *gorm.DB
}

func NewAppealRepository(db *gorm.DB) *AppealRepository {
	return &AppealRepository{db: db}
}

func (r *AppealRepository) GetByID(ctx context.Context, id string) (*model.Appeal, error) {
	var appeal model.Appeal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appeal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

func (r *AppealRepository) HasFirstForRequest(ctx context.Context, requestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Appeal{}).
		Where("rti_request_id = ? AND appeal_type = ?", requestID, model.AppealTypeFirst).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFirstByRequestID treats a missing first appeal as a valid empty state.
func (r *AppealRepository) GetFirstByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	err := r.db.WithContext(ctx).
		Where("rti_request_id = ? AND appeal_type = ?", requestID, model.AppealTypeFirst).
		First(&appeal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appeal, nil
}

// GetSecondByParentID treats a missing second appeal as a valid empty state.
func (r *AppealRepository) GetSecondByParentID(ctx context.Context, parentID uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	err := r.db.WithContext(ctx).
		Where("parent_appeal_id = ? AND appeal_type = ?", parentID, model.AppealTypeSecond).
		First(&appeal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appeal, nil
}

// CreateFirst re-checks uniqueness inside the transaction to close the
// race between the eligibility gate and the insert.
func (r *AppealRepository) CreateFirst(ctx context.Context, appeal *model.Appeal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Appeal{}).
			Where("rti_request_id = ? AND appeal_type = ?", appeal.RTIRequestID, model.AppealTypeFirst).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *AppealRepository) CreateSecond(ctx context.Context, appeal *model.Appeal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Appeal{}).
			Where("parent_appeal_id = ? AND appeal_type = ?", appeal.ParentAppealID, model.AppealTypeSecond).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *AppealRepository) Update(ctx context.Context, appeal *model.Appeal) error {
	return r.db.WithContext(ctx).Save(appeal).Error
}

func (r *AppealRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Appeal, error) {
	var appeals []model.Appeal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appeals).Error
	return appeals, err
}
