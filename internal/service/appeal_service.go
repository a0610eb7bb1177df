package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rti-service/internal/model"
	"rti-service/internal/repository"
	"rti-service/internal/storage"
	"rti-service/internal/utils"
)

// AppealStore is the slice of the record store the appeal rules need.
type AppealStore interface {
	GetByID(ctx context.Context, id string) (*model.Appeal, error)
	HasFirstForRequest(ctx context.Context, requestID uuid.UUID) (bool, error)
	GetFirstByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Appeal, error)
	GetSecondByParentID(ctx context.Context, parentID uuid.UUID) (*model.Appeal, error)
	CreateFirst(ctx context.Context, appeal *model.Appeal) error
	CreateSecond(ctx context.Context, appeal *model.Appeal) error
	Update(ctx context.Context, appeal *model.Appeal) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Appeal, error)
}

type RequestGetter interface {
	GetByID(ctx context.Context, id string) (*model.RTIRequest, error)
}

type DocumentUploader interface {
	Upload(ctx context.Context, category, filename string, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// CanFileFirstAppeal is the single eligibility predicate shared by the
// create path and the detail view's can_file_first flag.
func CanFileFirstAppeal(ctx context.Context, store AppealStore, rti *model.RTIRequest, now time.Time) (bool, error) {
	if now.Before(FirstAppealEligibleOn(rti.DateFiled)) {
		return false, nil
	}
	exists, err := store.HasFirstForRequest(ctx, rti.ID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

type AppealService struct {
	appeals   AppealStore
	requests  RequestGetter
	documents DocumentUploader
	policy    DocumentPolicy
	now       func() time.Time
}

func NewAppealService(appeals AppealStore, requests RequestGetter, documents DocumentUploader, policy DocumentPolicy) *AppealService {
	return &AppealService{
		appeals:   appeals,
		requests:  requests,
		documents: documents,
		policy:    policy,
		now:       time.Now,
	}
}

type FileAppealInput struct {
	ReferenceNumber string
	Filename        string
	Document        io.Reader
	Size            int64
}

func (s *AppealService) CreateFirstAppeal(ctx context.Context, principal model.Principal, requestID string, input FileAppealInput) (*model.Appeal, error) {
	rti, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reference := utils.NormalizeReference(input.ReferenceNumber)
	if reference == "" {
		return nil, validationErr("reference_number", "reference number is required")
	}
	if err := s.policy.ValidateFilename("request_document", input.Filename); err != nil {
		return nil, err
	}

	now := s.now()
	eligibleOn := FirstAppealEligibleOn(rti.DateFiled)
	if now.Before(eligibleOn) {
		return nil, &TooEarlyError{EligibleOn: eligibleOn}
	}

	exists, err := s.appeals.HasFirstForRequest(ctx, rti.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAppeal
	}

	document, err := s.documents.Upload(ctx, storage.CategoryFirstAppealReq, input.Filename, input.Document, input.Size)
	if err != nil {
		return nil, err
	}

	requestRef := rti.ID
	appeal := &model.Appeal{
		UserID:          principal.UserID,
		AppealType:      model.AppealTypeFirst,
		Status:          model.AppealStatusPending,
		RTIRequestID:    &requestRef,
		ReferenceNumber: reference,
		DateFiled:       now,
		RequestDocument: document,
	}
	if err := appeal.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	// The duplicate check is repeated inside the store transaction;
	// the partial unique index is the final arbiter under concurrency.
	if err := s.appeals.CreateFirst(ctx, appeal); err != nil {
		_ = s.documents.Remove(ctx, document)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAppeal
		}
		return nil, err
	}

	return appeal, nil
}

func (s *AppealService) CreateSecondAppeal(ctx context.Context, principal model.Principal, parentID string, input FileAppealInput) (*model.Appeal, error) {
	parent, err := s.appeals.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if parent.AppealType != model.AppealTypeFirst {
		return nil, ErrInvalidParent
	}

	reference := utils.NormalizeReference(input.ReferenceNumber)
	if reference == "" {
		return nil, validationErr("reference_number", "reference number is required")
	}
	if err := s.policy.ValidateFilename("request_document", input.Filename); err != nil {
		return nil, err
	}

	existing, err := s.appeals.GetSecondByParentID(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAppeal
	}

	document, err := s.documents.Upload(ctx, storage.CategorySecondAppealReq, input.Filename, input.Document, input.Size)
	if err != nil {
		return nil, err
	}

	parentRef := parent.ID
	appeal := &model.Appeal{
		UserID:          principal.UserID,
		AppealType:      model.AppealTypeSecond,
		Status:          model.AppealStatusPending,
		ParentAppealID:  &parentRef,
		ReferenceNumber: reference,
		DateFiled:       s.now(),
		RequestDocument: document,
	}
	if err := appeal.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	if err := s.appeals.CreateSecond(ctx, appeal); err != nil {
		_ = s.documents.Remove(ctx, document)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAppeal
		}
		return nil, err
	}

	return appeal, nil
}

func (s *AppealService) GetByID(ctx context.Context, principal model.Principal, id string) (*model.Appeal, error) {
	appeal, err := s.appeals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !principal.IsAnalyst() && appeal.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}

	return appeal, nil
}

func (s *AppealService) ListMine(ctx context.Context, principal model.Principal) ([]model.Appeal, error) {
	return s.appeals.ListByUserID(ctx, principal.UserID)
}

// UpdateStatus advances an appeal through PENDING -> UNDER_REVIEW ->
// DECIDED; regression is rejected and decisions are terminal.
func (s *AppealService) UpdateStatus(ctx context.Context, principal model.Principal, id string, status model.AppealStatus, remarks *string) (*model.Appeal, error) {
	if !principal.IsAnalyst() {
		return nil, ErrPermissionDenied
	}
	if !status.Valid() {
		return nil, ErrInvalidInput
	}

	appeal, err := s.appeals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !appeal.Status.CanTransitionTo(status) {
		return nil, ErrConflict
	}

	appeal.Status = status
	if remarks != nil {
		appeal.DecisionRemarks = remarks
	}
	if status == model.AppealStatusDecided {
		decidedAt := s.now()
		appeal.DecidedAt = &decidedAt
	}

	if err := s.appeals.Update(ctx, appeal); err != nil {
		return nil, err
	}

	return appeal, nil
}
