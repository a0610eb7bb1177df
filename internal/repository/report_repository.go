package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rti-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type StatusCountRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type OfficeCountRow struct {
	Office string `json:"office"`
	Count  int64  `json:"count"`
}

type MonthCountRow struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

func (r *ReportRepository) CountRequests(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RTIRequest{}).
		Where("date_filed BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}

// ResponseTotals counts responses, and delayed responses, under
// requests filed in range.
func (r *ReportRepository) ResponseTotals(ctx context.Context, from, to time.Time) (total, delayed int64, err error) {
	base := r.db.WithContext(ctx).Table("rti_responses resp").
		Joins("JOIN rti_requests req ON req.id = resp.rti_request_id").
		Where("req.date_filed BETWEEN ? AND ?", from, to)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = base.Session(&gorm.Session{}).Where("resp.is_delayed = ?", true).Count(&delayed).Error
	return total, delayed, err
}

func (r *ReportRepository) ReviewStatusCounts(ctx context.Context, from, to time.Time) ([]StatusCountRow, error) {
	var rows []StatusCountRow
	err := r.db.WithContext(ctx).Table("analyst_reviews rev").
		Select("rev.status::text AS status, COUNT(*) AS count").
		Joins("JOIN rti_responses resp ON resp.id = rev.response_id").
		Joins("JOIN rti_requests req ON req.id = resp.rti_request_id").
		Where("req.date_filed BETWEEN ? AND ?", from, to).
		Group("rev.status").
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) RequestsPerOffice(ctx context.Context, from, to time.Time) ([]OfficeCountRow, error) {
	var rows []OfficeCountRow
	err := r.db.WithContext(ctx).Table("rti_requests req").
		Select("o.name AS office, COUNT(*) AS count").
		Joins("JOIN panchayat_offices o ON o.id = req.panchayat_id").
		Where("req.date_filed BETWEEN ? AND ?", from, to).
		Group("o.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) MonthlyTrend(ctx context.Context, from, to time.Time) ([]MonthCountRow, error) {
	var rows []MonthCountRow
	err := r.db.WithContext(ctx).Table("rti_requests").
		Select("date_trunc('month', date_filed) AS month, COUNT(*) AS count").
		Where("date_filed BETWEEN ? AND ?", from, to).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

// AppealStatusCounts restricts appeals to the range transitively through
// their RTI request; second appeals reach it through the parent appeal.
func (r *ReportRepository) AppealStatusCounts(ctx context.Context, appealType model.AppealType, from, to time.Time) ([]StatusCountRow, error) {
	query := r.db.WithContext(ctx).Table("appeals a").
		Select("a.status::text AS status, COUNT(*) AS count").
		Where("a.appeal_type = ?", appealType)

	if appealType == model.AppealTypeSecond {
		query = query.
			Joins("JOIN appeals parent ON parent.id = a.parent_appeal_id").
			Joins("JOIN rti_requests req ON req.id = parent.rti_request_id")
	} else {
		query = query.Joins("JOIN rti_requests req ON req.id = a.rti_request_id")
	}

	var rows []StatusCountRow
	err := query.
		Where("req.date_filed BETWEEN ? AND ?", from, to).
		Group("a.status").
		Scan(&rows).Error
	return rows, err
}
