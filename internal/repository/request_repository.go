package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rti-service/internal/model"
)

// RequestPageSize is the fixed page size for request listings.
const RequestPageSize = 5

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, request *model.RTIRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*model.RTIRequest, error) {
	var request model.RTIRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Update(ctx context.Context, request *model.RTIRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

type RequestSort string

const (
	RequestSortDateDesc RequestSort = "date_desc"
	RequestSortDateAsc  RequestSort = "date_asc"
	RequestSortStatus   RequestSort = "status"
)

type RequestListFilter struct {
	Text         *string
	PanchayatID  *string
	ReviewStatus *model.ReviewStatus
}

type RequestPage struct {
	Items      []model.RTIRequest `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// ClampPage keeps a 1-indexed page inside [1, totalPages]; out-of-range
// pages never error.
func ClampPage(page int, totalCount int64, pageSize int) int {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func (r *RequestRepository) List(ctx context.Context, filter RequestListFilter, sort RequestSort, page int) (*RequestPage, error) {
	query := r.db.WithContext(ctx).Model(&model.RTIRequest{})

	needsReviewJoin := filter.ReviewStatus != nil || sort == RequestSortStatus
	if needsReviewJoin {
		query = query.
			Joins("LEFT JOIN rti_responses resp ON resp.rti_request_id = rti_requests.id").
			Joins("LEFT JOIN analyst_reviews rev ON rev.response_id = resp.id")
	}

	if filter.Text != nil && *filter.Text != "" {
		pattern := "%" + *filter.Text + "%"
		query = query.Where(
			"rti_requests.reference_number ILIKE ? OR rti_requests.applicant_name ILIKE ? OR rti_requests.subject ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.PanchayatID != nil && *filter.PanchayatID != "" {
		query = query.Where("rti_requests.panchayat_id = ?", *filter.PanchayatID)
	}

	// Requests without a review are excluded when filtering on it.
	if filter.ReviewStatus != nil {
		query = query.Where("rev.status = ?", *filter.ReviewStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	switch sort {
	case RequestSortDateAsc:
		query = query.Order("rti_requests.date_filed ASC")
	case RequestSortStatus:
		query = query.Order("rev.status ASC")
	default:
		query = query.Order("rti_requests.date_filed DESC")
	}

	page = ClampPage(page, total, RequestPageSize)

	var requests []model.RTIRequest
	err := query.
		Select("rti_requests.*").
		Offset((page - 1) * RequestPageSize).
		Limit(RequestPageSize).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + RequestPageSize - 1) / RequestPageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	return &RequestPage{
		Items:      requests,
		Page:       page,
		PageSize:   RequestPageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
