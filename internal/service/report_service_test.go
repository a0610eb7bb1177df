package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rti-service/internal/model"
	"rti-service/internal/repository"
)

type fakeReportStore struct {
	requests   int64
	responses  int64
	delayed    int64
	reviewRows []repository.StatusCountRow
	officeRows []repository.OfficeCountRow
	trendRows  []repository.MonthCountRow
	firstRows  []repository.StatusCountRow
	secondRows []repository.StatusCountRow
	lastFrom   time.Time
	lastTo     time.Time
}

func (s *fakeReportStore) CountRequests(_ context.Context, from, to time.Time) (int64, error) {
	s.lastFrom, s.lastTo = from, to
	return s.requests, nil
}

func (s *fakeReportStore) ResponseTotals(_ context.Context, _, _ time.Time) (int64, int64, error) {
	return s.responses, s.delayed, nil
}

func (s *fakeReportStore) ReviewStatusCounts(_ context.Context, _, _ time.Time) ([]repository.StatusCountRow, error) {
	return s.reviewRows, nil
}

func (s *fakeReportStore) RequestsPerOffice(_ context.Context, _, _ time.Time) ([]repository.OfficeCountRow, error) {
	return s.officeRows, nil
}

func (s *fakeReportStore) MonthlyTrend(_ context.Context, _, _ time.Time) ([]repository.MonthCountRow, error) {
	return s.trendRows, nil
}

func (s *fakeReportStore) AppealStatusCounts(_ context.Context, appealType model.AppealType, _, _ time.Time) ([]repository.StatusCountRow, error) {
	if appealType == model.AppealTypeFirst {
		return s.firstRows, nil
	}
	return s.secondRows, nil
}

var analystPrincipal = model.Principal{Role: model.RoleAnalyst}

func TestFiscalYearStart(t *testing.T) {
	cases := []struct {
		today time.Time
		want  time.Time
	}{
		// Before April the fiscal year started the previous calendar year.
		{time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		if got := FiscalYearStart(tc.today); !got.Equal(tc.want) {
			t.Errorf("FiscalYearStart(%s) = %s, want %s", tc.today.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestComputeSummaryDefaultRange(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, nil)
	svc.now = fixedNow(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))

	summary, err := svc.ComputeSummary(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if summary.From != "2023-04-01" {
		t.Errorf("default from = %s, want 2023-04-01", summary.From)
	}
	if summary.To != "2024-02-15" {
		t.Errorf("default to = %s, want 2024-02-15", summary.To)
	}
	if !store.lastFrom.Equal(time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("store queried with from = %s", store.lastFrom)
	}
}

func TestComputeSummaryDelayedPercentage(t *testing.T) {
	store := &fakeReportStore{requests: 10, responses: 10, delayed: 3}
	svc := NewReportService(store, nil)

	summary, err := svc.ComputeSummary(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	if summary.DelayedPercentage != 30.0 {
		t.Errorf("DelayedPercentage = %v, want 30.0", summary.DelayedPercentage)
	}
}

func TestDelayedPercentageRounding(t *testing.T) {
	if got := delayedPercentage(1, 3); got != 33.33 {
		t.Errorf("delayedPercentage(1, 3) = %v, want 33.33", got)
	}
	if got := delayedPercentage(0, 0); got != 0 {
		t.Errorf("delayedPercentage(0, 0) = %v, want 0", got)
	}
	if got := delayedPercentage(2, 3); got != 66.67 {
		t.Errorf("delayedPercentage(2, 3) = %v, want 66.67", got)
	}
}

func TestComputeSummarySeries(t *testing.T) {
	store := &fakeReportStore{
		requests: 12,
		reviewRows: []repository.StatusCountRow{
			{Status: "DENIED", Count: 2},
			{Status: "COMPLETE", Count: 5},
		},
		officeRows: []repository.OfficeCountRow{
			{Office: "Mannarkkad Grama Panchayat", Count: 8},
			{Office: "Karimba Grama Panchayat", Count: 4},
		},
		trendRows: []repository.MonthCountRow{
			{Month: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Count: 7},
			{Month: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Count: 5},
		},
		firstRows: []repository.StatusCountRow{
			{Status: "PENDING", Count: 3},
			{Status: "DECIDED", Count: 1},
		},
		secondRows: []repository.StatusCountRow{
			{Status: "PENDING", Count: 1},
		},
	}
	svc := NewReportService(store, nil)

	summary, err := svc.ComputeSummary(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if summary.FirstAppealCount != 4 {
		t.Errorf("FirstAppealCount = %d, want 4", summary.FirstAppealCount)
	}
	if summary.SecondAppealCount != 1 {
		t.Errorf("SecondAppealCount = %d, want 1", summary.SecondAppealCount)
	}
	if len(summary.ReviewStatusCounts) != 2 {
		t.Fatalf("ReviewStatusCounts length = %d", len(summary.ReviewStatusCounts))
	}
	if summary.RequestsPerOffice[0].Label != "Mannarkkad Grama Panchayat" {
		t.Errorf("office ordering not preserved: %+v", summary.RequestsPerOffice)
	}
	if summary.MonthlyTrend[0].Month != "2024-04" {
		t.Errorf("trend month formatting: %+v", summary.MonthlyTrend)
	}
}

func TestComputeSummaryAccessControl(t *testing.T) {
	svc := NewReportService(&fakeReportStore{}, nil)

	_, err := svc.ComputeSummary(context.Background(), model.Principal{Role: model.RoleStaff}, nil)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("staff access should be denied, got %v", err)
	}
}

func TestComputeSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewReportService(&fakeReportStore{}, nil)

	rng := &DateRange{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := svc.ComputeSummary(context.Background(), analystPrincipal, rng); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted range should be invalid, got %v", err)
	}
}

type fakeRenderer struct {
	configured bool
	payloads   []interface{}
}

func (r *fakeRenderer) Configured() bool { return r.configured }

func (r *fakeRenderer) Render(_ context.Context, summary interface{}) ([]byte, error) {
	r.payloads = append(r.payloads, summary)
	return []byte("%PDF-1.4"), nil
}

func TestExportReportSharesSummary(t *testing.T) {
	store := &fakeReportStore{requests: 5, responses: 4, delayed: 1}
	renderer := &fakeRenderer{configured: true}
	svc := NewReportService(store, renderer)

	pdf, summary, err := svc.ExportReport(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("expected rendered bytes")
	}

	// The renderer receives exactly what the dashboard serves.
	dashboard, err := svc.ComputeSummary(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	if summary.DelayedPercentage != dashboard.DelayedPercentage || summary.TotalRequests != dashboard.TotalRequests {
		t.Error("export and dashboard figures must match")
	}
}

func TestExportReportWithoutRenderer(t *testing.T) {
	svc := NewReportService(&fakeReportStore{}, &fakeRenderer{configured: false})

	pdf, summary, err := svc.ExportReport(context.Background(), analystPrincipal, nil)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	if pdf != nil {
		t.Error("no renderer configured, pdf must be nil")
	}
	if summary == nil {
		t.Error("summary must still be computed")
	}
}
