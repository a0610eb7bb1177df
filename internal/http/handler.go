package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rti-service/internal/http/middleware"
	"rti-service/internal/model"
	"rti-service/internal/repository"
	"rti-service/internal/service"
)

type Handler struct {
	authService    *service.AuthService
	requestService *service.RequestService
	appealService  *service.AppealService
	reportService  *service.ReportService
	log            zerolog.Logger
}

func NewHandler(
	authService *service.AuthService,
	requestService *service.RequestService,
	appealService *service.AppealService,
	reportService *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authService:    authService,
		requestService: requestService,
		appealService:  appealService,
		reportService:  reportService,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	r.POST("/auth/login", h.login)

	// Listing and detail are open per office-staff workflow.
	r.GET("/offices", h.listOffices)
	r.GET("/requests", h.listRequests)
	r.GET("/requests/:id", h.getRequestDetails)

	protected := r.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", h.logout)
		protected.POST("/offices", h.createOffice)
		protected.POST("/requests", h.createRequest)
		protected.POST("/requests/:id/acknowledgement", h.attachAcknowledgement)
		protected.POST("/requests/:id/response", h.attachResponse)
		protected.POST("/requests/:id/appeals/first", h.createFirstAppeal)
		protected.POST("/appeals/:id/second", h.createSecondAppeal)
		protected.GET("/appeals", h.listMyAppeals)
		protected.GET("/appeals/:id", h.getAppeal)
	}

	analyst := protected.Group("/")
	analyst.Use(middleware.RequireAnalyst())
	{
		analyst.POST("/requests/:id/review", h.createReview)
		analyst.PUT("/appeals/:id/status", h.updateAppealStatus)
		analyst.GET("/analyst/dashboard", h.dashboard)
		analyst.GET("/analyst/reports/rti", h.exportReport)
	}
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

// Tokens are stateless; logout is a client-side discard.
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"message": "logged out"}))
}

func (h *Handler) createOffice(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		District string `json:"district" binding:"required"`
		State    string `json:"state" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	office, err := h.requestService.CreateOffice(c.Request.Context(), service.CreateOfficeInput{
		Name:     req.Name,
		District: req.District,
		State:    req.State,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(office))
}

func (h *Handler) listOffices(c *gin.Context) {
	offices, err := h.requestService.ListOffices(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(offices))
}

func (h *Handler) createRequest(c *gin.Context) {
	var input service.CreateRequestInput
	input.ReferenceNumber = c.PostForm("reference_number")
	input.ApplicantName = c.PostForm("applicant_name")
	input.DateFiled = c.PostForm("date_filed")
	input.Subject = c.PostForm("subject")
	input.PanchayatID = c.PostForm("panchayat_id")

	// Original application is optional on filing.
	file, header, err := c.Request.FormFile("document")
	if err == nil {
		defer file.Close()
		input.Filename = header.Filename
		input.Document = file
		input.Size = header.Size
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, errorResponse("invalid document upload"))
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(request))
}

func (h *Handler) listRequests(c *gin.Context) {
	filter := repository.RequestListFilter{}

	if text := strings.TrimSpace(c.Query("text")); text != "" {
		filter.Text = &text
	}
	if panchayatID := strings.TrimSpace(c.Query("panchayat_id")); panchayatID != "" {
		filter.PanchayatID = &panchayatID
	}
	if reviewStatus := strings.TrimSpace(c.Query("review_status")); reviewStatus != "" {
		status := model.ReviewStatus(strings.ToUpper(reviewStatus))
		filter.ReviewStatus = &status
	}

	sort := repository.RequestSort(strings.TrimSpace(c.Query("sort")))
	switch sort {
	case repository.RequestSortDateAsc, repository.RequestSortDateDesc, repository.RequestSortStatus:
	default:
		sort = repository.RequestSortDateDesc
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	result, err := h.requestService.List(c.Request.Context(), filter, sort, page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) getRequestDetails(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
		return
	}

	details, err := h.requestService.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(details))
}

func (h *Handler) attachAcknowledgement(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
		return
	}

	file, header, ok := h.requireFile(c, "document")
	if !ok {
		return
	}
	defer file.Close()

	request, err := h.requestService.AttachAcknowledgement(c.Request.Context(), id, service.AttachAcknowledgementInput{
		Date:     c.PostForm("acknowledgement_date"),
		Filename: header.Filename,
		Document: file,
		Size:     header.Size,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(request))
}

func (h *Handler) attachResponse(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
		return
	}

	file, header, ok := h.requireFile(c, "document")
	if !ok {
		return
	}
	defer file.Close()

	isDelayed := c.PostForm("is_delayed") == "true"

	request, err := h.requestService.AttachResponse(c.Request.Context(), id, service.AttachResponseInput{
		Date:      c.PostForm("response_date"),
		ReplyText: c.PostForm("reply_text"),
		IsDelayed: isDelayed,
		Filename:  header.Filename,
		Document:  file,
		Size:      header.Size,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(request))
}

func (h *Handler) createReview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	review, err := h.requestService.CreateReview(c.Request.Context(), principal, id, service.CreateReviewInput{
		Status:  req.Status,
		Remarks: req.Remarks,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(review))
}

func (h *Handler) createFirstAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
		return
	}

	file, header, ok := h.requireFile(c, "document")
	if !ok {
		return
	}
	defer file.Close()

	appeal, err := h.appealService.CreateFirstAppeal(c.Request.Context(), principal, id, service.FileAppealInput{
		ReferenceNumber: c.PostForm("reference_number"),
		Filename:        header.Filename,
		Document:        file,
		Size:            header.Size,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(appeal))
}

func (h *Handler) createSecondAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	file, header, ok := h.requireFile(c, "document")
	if !ok {
		return
	}
	defer file.Close()

	appeal, err := h.appealService.CreateSecondAppeal(c.Request.Context(), principal, id, service.FileAppealInput{
		ReferenceNumber: c.PostForm("reference_number"),
		Filename:        header.Filename,
		Document:        file,
		Size:            header.Size,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(appeal))
}

func (h *Handler) listMyAppeals(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	appeals, err := h.appealService.ListMine(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(appeals))
}

func (h *Handler) getAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	appeal, err := h.appealService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(appeal))
}

func (h *Handler) updateAppealStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	var req struct {
		Status  string  `json:"status" binding:"required"`
		Remarks *string `json:"remarks"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.AppealStatus(strings.ToUpper(req.Status))
	appeal, err := h.appealService.UpdateStatus(c.Request.Context(), principal, id, status, req.Remarks)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(appeal))
}

func (h *Handler) dashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	rng, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	summary, err := h.reportService.ComputeSummary(c.Request.Context(), principal, rng)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(summary))
}

func (h *Handler) exportReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	rng, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	pdf, summary, err := h.reportService.ExportReport(c.Request.Context(), principal, rng)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Without a configured renderer the raw summary is still exportable.
	if pdf == nil {
		c.JSON(http.StatusOK, successResponse(summary))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="rti-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) requireFile(c *gin.Context, field string) (multipart.File, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("document upload is required"))
		return nil, nil, false
	}
	return file, header, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var tooEarly *service.TooEarlyError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.As(err, &tooEarly):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       tooEarly.Error(),
			"eligible_on": tooEarly.EligibleOn.Format("2006-01-02"),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidParent):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, service.ErrDuplicateAppeal), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func parseDateRange(c *gin.Context) (*service.DateRange, error) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("both from and to are required")
	}

	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, errors.New("invalid from date")
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, errors.New("invalid to date")
	}

	return &service.DateRange{From: fromDate, To: toDate}, nil
}
