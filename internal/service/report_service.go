package service

import (
	"context"
	"math"
	"time"

	"github.com/samber/lo"

	"rti-service/internal/model"
	"rti-service/internal/repository"
)

type ReportStore interface {
	CountRequests(ctx context.Context, from, to time.Time) (int64, error)
	ResponseTotals(ctx context.Context, from, to time.Time) (total, delayed int64, err error)
	ReviewStatusCounts(ctx context.Context, from, to time.Time) ([]repository.StatusCountRow, error)
	RequestsPerOffice(ctx context.Context, from, to time.Time) ([]repository.OfficeCountRow, error)
	MonthlyTrend(ctx context.Context, from, to time.Time) ([]repository.MonthCountRow, error)
	AppealStatusCounts(ctx context.Context, appealType model.AppealType, from, to time.Time) ([]repository.StatusCountRow, error)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

// FiscalYearStart returns April 1 of the fiscal year containing today.
func FiscalYearStart(today time.Time) time.Time {
	year := today.Year()
	if today.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, today.Location())
}

type CountItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type MonthItem struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type Summary struct {
	From                     string      `json:"from"`
	To                       string      `json:"to"`
	TotalRequests            int64       `json:"total_requests"`
	TotalResponses           int64       `json:"total_responses"`
	DelayedResponses         int64       `json:"delayed_responses"`
	DelayedPercentage        float64     `json:"delayed_percentage"`
	ReviewStatusCounts       []CountItem `json:"review_status_counts"`
	RequestsPerOffice        []CountItem `json:"requests_per_office"`
	MonthlyTrend             []MonthItem `json:"monthly_trend"`
	FirstAppealCount         int64       `json:"first_appeal_count"`
	SecondAppealCount        int64       `json:"second_appeal_count"`
	FirstAppealStatusCounts  []CountItem `json:"first_appeal_status_counts"`
	SecondAppealStatusCounts []CountItem `json:"second_appeal_status_counts"`
}

type Renderer interface {
	Configured() bool
	Render(ctx context.Context, summary interface{}) ([]byte, error)
}

// ReportService is the single aggregation source for both the dashboard
// and the exported report.
type ReportService struct {
	store    ReportStore
	renderer Renderer
	now      func() time.Time
}

func NewReportService(store ReportStore, renderer Renderer) *ReportService {
	return &ReportService{
		store:    store,
		renderer: renderer,
		now:      time.Now,
	}
}

func (s *ReportService) ComputeSummary(ctx context.Context, principal model.Principal, rng *DateRange) (*Summary, error) {
	if !principal.IsAnalyst() {
		return nil, ErrPermissionDenied
	}

	today := s.now()
	from, to := FiscalYearStart(today), today
	if rng != nil {
		from, to = rng.From, rng.To
	}
	if to.Before(from) {
		return nil, ErrInvalidInput
	}

	totalRequests, err := s.store.CountRequests(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totalResponses, delayed, err := s.store.ResponseTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	reviewRows, err := s.store.ReviewStatusCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	officeRows, err := s.store.RequestsPerOffice(ctx, from, to)
	if err != nil {
		return nil, err
	}

	trendRows, err := s.store.MonthlyTrend(ctx, from, to)
	if err != nil {
		return nil, err
	}

	firstRows, err := s.store.AppealStatusCounts(ctx, model.AppealTypeFirst, from, to)
	if err != nil {
		return nil, err
	}

	secondRows, err := s.store.AppealStatusCounts(ctx, model.AppealTypeSecond, from, to)
	if err != nil {
		return nil, err
	}

	firstCounts := statusItems(firstRows)
	secondCounts := statusItems(secondRows)

	return &Summary{
		From:               from.Format("2006-01-02"),
		To:                 to.Format("2006-01-02"),
		TotalRequests:      totalRequests,
		TotalResponses:     totalResponses,
		DelayedResponses:   delayed,
		DelayedPercentage:  delayedPercentage(delayed, totalResponses),
		ReviewStatusCounts: statusItems(reviewRows),
		RequestsPerOffice: lo.Map(officeRows, func(row repository.OfficeCountRow, _ int) CountItem {
			return CountItem{Label: row.Office, Count: row.Count}
		}),
		MonthlyTrend: lo.Map(trendRows, func(row repository.MonthCountRow, _ int) MonthItem {
			return MonthItem{Month: row.Month.Format("2006-01"), Count: row.Count}
		}),
		FirstAppealCount:         sumCounts(firstCounts),
		SecondAppealCount:        sumCounts(secondCounts),
		FirstAppealStatusCounts:  firstCounts,
		SecondAppealStatusCounts: secondCounts,
	}, nil
}

// ExportReport renders the same summary the dashboard serves.
func (s *ReportService) ExportReport(ctx context.Context, principal model.Principal, rng *DateRange) ([]byte, *Summary, error) {
	summary, err := s.ComputeSummary(ctx, principal, rng)
	if err != nil {
		return nil, nil, err
	}

	if s.renderer == nil || !s.renderer.Configured() {
		return nil, summary, nil
	}

	pdf, err := s.renderer.Render(ctx, summary)
	if err != nil {
		return nil, nil, err
	}
	return pdf, summary, nil
}

func statusItems(rows []repository.StatusCountRow) []CountItem {
	return lo.Map(rows, func(row repository.StatusCountRow, _ int) CountItem {
		return CountItem{Label: row.Status, Count: row.Count}
	})
}

func sumCounts(items []CountItem) int64 {
	return lo.SumBy(items, func(item CountItem) int64 { return item.Count })
}

func delayedPercentage(delayed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(delayed)/float64(total)*100*100) / 100
}
