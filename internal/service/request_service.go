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

type RequestStore interface {
	Create(ctx context.Context, request *model.RTIRequest) error
	GetByID(ctx context.Context, id string) (*model.RTIRequest, error)
	Update(ctx context.Context, request *model.RTIRequest) error
	List(ctx context.Context, filter repository.RequestListFilter, sort repository.RequestSort, page int) (*repository.RequestPage, error)
}

type OfficeStore interface {
	Create(ctx context.Context, office *model.PanchayatOffice) error
	GetByID(ctx context.Context, id string) (*model.PanchayatOffice, error)
	List(ctx context.Context) ([]model.PanchayatOffice, error)
}

type ResponseStore interface {
	Create(ctx context.Context, response *model.RTIResponse) error
	GetByRequestID(ctx context.Context, requestID uuid.UUID) (*model.RTIResponse, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *model.AnalystReview) error
	GetByResponseID(ctx context.Context, responseID uuid.UUID) (*model.AnalystReview, error)
}

type RequestService struct {
	requests  RequestStore
	offices   OfficeStore
	responses ResponseStore
	reviews   ReviewStore
	appeals   AppealStore
	documents DocumentUploader
	policy    DocumentPolicy
	now       func() time.Time
}

func NewRequestService(
	requests RequestStore,
	offices OfficeStore,
	responses ResponseStore,
	reviews ReviewStore,
	appeals AppealStore,
	documents DocumentUploader,
	policy DocumentPolicy,
) *RequestService {
	return &RequestService{
		requests:  requests,
		offices:   offices,
		responses: responses,
		reviews:   reviews,
		appeals:   appeals,
		documents: documents,
		policy:    policy,
		now:       time.Now,
	}
}

type CreateOfficeInput struct {
	Name     string
	District string
	State    string
}

func (s *RequestService) CreateOffice(ctx context.Context, input CreateOfficeInput) (*model.PanchayatOffice, error) {
	if input.Name == "" {
		return nil, validationErr("name", "name is required")
	}
	if input.District == "" {
		return nil, validationErr("district", "district is required")
	}
	if input.State == "" {
		return nil, validationErr("state", "state is required")
	}

	office := &model.PanchayatOffice{
		Name:     input.Name,
		District: input.District,
		State:    input.State,
	}
	if err := s.offices.Create(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *RequestService) ListOffices(ctx context.Context) ([]model.PanchayatOffice, error) {
	return s.offices.List(ctx)
}

type CreateRequestInput struct {
	ReferenceNumber string
	ApplicantName   string
	DateFiled       string
	Subject         string
	PanchayatID     string
	Filename        string
	Document        io.Reader
	Size            int64
}

func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*model.RTIRequest, error) {
	reference := utils.NormalizeReference(input.ReferenceNumber)
	if reference == "" {
		return nil, validationErr("reference_number", "reference number is required")
	}
	if input.ApplicantName == "" {
		return nil, validationErr("applicant_name", "applicant name is required")
	}
	if input.Subject == "" {
		return nil, validationErr("subject", "subject is required")
	}

	dateFiled, err := time.Parse("2006-01-02", input.DateFiled)
	if err != nil {
		return nil, validationErr("date_filed", "expected YYYY-MM-DD")
	}

	office, err := s.offices.GetByID(ctx, input.PanchayatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErr("panchayat_id", "unknown panchayat office")
		}
		return nil, err
	}

	// Original application is optional; validate only when a file was sent.
	var original *string
	if input.Filename != "" {
		if err := s.policy.ValidateFilename("original_application", input.Filename); err != nil {
			return nil, err
		}
		object, err := s.documents.Upload(ctx, storage.CategoryOriginal, input.Filename, input.Document, input.Size)
		if err != nil {
			return nil, err
		}
		original = &object
	}

	request := &model.RTIRequest{
		ReferenceNumber:     reference,
		ApplicantName:       input.ApplicantName,
		DateFiled:           dateFiled,
		Subject:             input.Subject,
		PanchayatID:         office.ID,
		OriginalApplication: original,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if original != nil {
			_ = s.documents.Remove(ctx, *original)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return request, nil
}

type AttachAcknowledgementInput struct {
	Date     string
	Filename string
	Document io.Reader
	Size     int64
}

// AttachAcknowledgement records the acknowledgement once; a second
// attempt conflicts.
func (s *RequestService) AttachAcknowledgement(ctx context.Context, id string, input AttachAcknowledgementInput) (*model.RTIRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if request.AcknowledgementDocument != nil {
		return nil, ErrConflict
	}

	ackDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, validationErr("acknowledgement_date", "expected YYYY-MM-DD")
	}
	if err := s.policy.ValidateFilename("acknowledgement_document", input.Filename); err != nil {
		return nil, err
	}

	object, err := s.documents.Upload(ctx, storage.CategoryAcknowledgement, input.Filename, input.Document, input.Size)
	if err != nil {
		return nil, err
	}

	request.AcknowledgementDocument = &object
	request.AcknowledgementDate = &ackDate

	if err := s.requests.Update(ctx, request); err != nil {
		_ = s.documents.Remove(ctx, object)
		return nil, err
	}

	return request, nil
}

type AttachResponseInput struct {
	Date      string
	ReplyText string
	IsDelayed bool
	Filename  string
	Document  io.Reader
	Size      int64
}

// AttachResponse stores the response document on the request and
// creates the one-to-one RTIResponse record.
func (s *RequestService) AttachResponse(ctx context.Context, id string, input AttachResponseInput) (*model.RTIRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if request.ResponseDocument != nil {
		return nil, ErrConflict
	}
	if input.ReplyText == "" {
		return nil, validationErr("reply_text", "reply text is required")
	}

	respDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, validationErr("response_date", "expected YYYY-MM-DD")
	}
	if err := s.policy.ValidateFilename("response_document", input.Filename); err != nil {
		return nil, err
	}

	object, err := s.documents.Upload(ctx, storage.CategoryResponse, input.Filename, input.Document, input.Size)
	if err != nil {
		return nil, err
	}

	request.ResponseDocument = &object
	request.ResponseDate = &respDate

	if err := s.requests.Update(ctx, request); err != nil {
		_ = s.documents.Remove(ctx, object)
		return nil, err
	}

	response := &model.RTIResponse{
		RTIRequestID: request.ID,
		ReplyText:    input.ReplyText,
		DateReplied:  respDate,
		IsDelayed:    input.IsDelayed,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return request, nil
}

type CreateReviewInput struct {
	Status  string
	Remarks string
}

func (s *RequestService) CreateReview(ctx context.Context, principal model.Principal, requestID string, input CreateReviewInput) (*model.AnalystReview, error) {
	if !principal.IsAnalyst() {
		return nil, ErrPermissionDenied
	}

	status := model.ReviewStatus(input.Status)
	if !status.Valid() {
		return nil, validationErr("status", "unknown review status")
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	response, err := s.responses.GetByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, validationErr("response", "request has no response to review")
	}

	review := &model.AnalystReview{
		ResponseID: response.ID,
		Status:     status,
		Remarks:    input.Remarks,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return review, nil
}

func (s *RequestService) List(ctx context.Context, filter repository.RequestListFilter, sort repository.RequestSort, page int) (*repository.RequestPage, error) {
	return s.requests.List(ctx, filter, sort, page)
}

type RequestDetails struct {
	Request      *model.RTIRequest    `json:"request"`
	Status       model.RequestStatus  `json:"status"`
	Response     *model.RTIResponse   `json:"response,omitempty"`
	Review       *model.AnalystReview `json:"review,omitempty"`
	FirstAppeal  *model.Appeal        `json:"first_appeal,omitempty"`
	SecondAppeal *model.Appeal        `json:"second_appeal,omitempty"`
	CanFileFirst bool                 `json:"can_file_first"`
}

// GetDetails assembles the request with its optional linked records;
// missing links are a valid empty state, never an error.
func (s *RequestService) GetDetails(ctx context.Context, id string) (*RequestDetails, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	details := &RequestDetails{
		Request: request,
		Status:  request.Status(),
	}

	response, err := s.responses.GetByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	details.Response = response

	if response != nil {
		review, err := s.reviews.GetByResponseID(ctx, response.ID)
		if err != nil {
			return nil, err
		}
		details.Review = review
	}

	first, err := s.appeals.GetFirstByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	details.FirstAppeal = first

	if first != nil {
		second, err := s.appeals.GetSecondByParentID(ctx, first.ID)
		if err != nil {
			return nil, err
		}
		details.SecondAppeal = second
	}

	// Same predicate the create path uses; the two must never drift.
	canFile, err := CanFileFirstAppeal(ctx, s.appeals, request, s.now())
	if err != nil {
		return nil, err
	}
	details.CanFileFirst = canFile

	return details, nil
}
