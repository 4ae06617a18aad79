package handler

import (
	paymentapp "github.com/aqarcrm/backend/internal/application/payment"
	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/interfaces/http/dto"
	"github.com/aqarcrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionPaymentHandler handles collection payment API endpoints
type CollectionPaymentHandler struct {
	BaseHandler
	service *paymentapp.CollectionPaymentService
}

// NewCollectionPaymentHandler creates a new CollectionPaymentHandler
func NewCollectionPaymentHandler(service *paymentapp.CollectionPaymentService) *CollectionPaymentHandler {
	return &CollectionPaymentHandler{service: service}
}

// CreateCollectionPaymentRequest is the request body for creating an installment.
// The payment number is generated server-side and cannot be supplied.
type CreateCollectionPaymentRequest struct {
	ContractID   string  `json:"contract_id" binding:"required,uuid"`
	UnitID       string  `json:"unit_id" binding:"omitempty,uuid"`
	PropertyID   string  `json:"property_id" binding:"omitempty,uuid"`
	TenantID     string  `json:"tenant_id" binding:"required,uuid"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	LateFee      float64 `json:"late_fee" binding:"omitempty,gte=0"`
	DueDateStart string  `json:"due_date_start" binding:"required,datetime=2006-01-02"`
	DueDateEnd   string  `json:"due_date_end" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateCollectionPaymentRequest is the request body for partial updates.
type UpdateCollectionPaymentRequest struct {
	Amount       *float64 `json:"amount" binding:"omitempty,gte=0"`
	LateFee      *float64 `json:"late_fee" binding:"omitempty,gte=0"`
	DueDateStart string   `json:"due_date_start" binding:"omitempty,datetime=2006-01-02"`
	DueDateEnd   string   `json:"due_date_end" binding:"omitempty,datetime=2006-01-02"`
}

// PostponeCollectionPaymentRequest is the request body for granting a delay.
type PostponeCollectionPaymentRequest struct {
	Days   int    `json:"days" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CollectionPaymentListFilter is the query filter for listing installments.
type CollectionPaymentListFilter struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=COLLECTED POSTPONED OVERDUE DUE UPCOMING"`
	ContractID string `form:"contract_id" binding:"omitempty,uuid"`
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	MonthYear  string `form:"month_year" binding:"omitempty,len=7"`
	DueFrom    string `form:"due_from" binding:"omitempty,datetime=2006-01-02"`
	DueTo      string `form:"due_to" binding:"omitempty,datetime=2006-01-02"`
}

// Create creates a new collection payment
func (h *CollectionPaymentHandler) Create(c *gin.Context) {
	var req CreateCollectionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contractID, _ := uuid.Parse(req.ContractID)
	tenantID, _ := uuid.Parse(req.TenantID)
	unitID, err := parseUUIDOrNil(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}
	propertyID, err := parseUUIDOrNil(req.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	dueDateStart, err := parseDate(req.DueDateStart)
	if err != nil {
		h.BadRequest(c, "Invalid due_date_start")
		return
	}
	dueDateEnd, err := parseOptionalDate(req.DueDateEnd)
	if err != nil {
		h.BadRequest(c, "Invalid due_date_end")
		return
	}

	appReq := paymentapp.CreateCollectionPaymentRequest{
		ContractID:   contractID,
		UnitID:       unitID,
		PropertyID:   propertyID,
		TenantID:     tenantID,
		Amount:       decimal.NewFromFloat(req.Amount),
		LateFee:      decimal.NewFromFloat(req.LateFee),
		DueDateStart: dueDateStart,
	}
	if dueDateEnd != nil {
		appReq.DueDateEnd = *dueDateEnd
	}

	resp, err := h.service.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns one collection payment with its derived status
func (h *CollectionPaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns collection payments, optionally narrowed to one derived status
func (h *CollectionPaymentHandler) List(c *gin.Context) {
	var req CollectionPaymentListFilter
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ApplyDefaults()

	filter, err := h.toFilter(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *collection.CollectionStatus
	if req.Status != "" {
		s := collection.CollectionStatus(req.Status)
		status = &s
	}

	result, err := h.service.List(c.Request.Context(), filter, status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Summary returns the per-status counts for the dashboard
func (h *CollectionPaymentHandler) Summary(c *gin.Context) {
	summary, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update applies partial field changes to an uncollected payment
func (h *CollectionPaymentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req UpdateCollectionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := paymentapp.UpdateCollectionPaymentRequest{}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		appReq.Amount = &amount
	}
	if req.LateFee != nil {
		lateFee := decimal.NewFromFloat(*req.LateFee)
		appReq.LateFee = &lateFee
	}
	if appReq.DueDateStart, err = parseOptionalDate(req.DueDateStart); err != nil {
		h.BadRequest(c, "Invalid due_date_start")
		return
	}
	if appReq.DueDateEnd, err = parseOptionalDate(req.DueDateEnd); err != nil {
		h.BadRequest(c, "Invalid due_date_end")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Postpone grants a delay on an uncollected, unpostponed payment
func (h *CollectionPaymentHandler) Postpone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req PostponeCollectionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Postpone(c.Request.Context(), id, paymentapp.PostponeRequest{
		Days:   req.Days,
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Collect marks the payment collected, generating the receipt number and the
// ledger entry in one transaction
func (h *CollectionPaymentHandler) Collect(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.service.MarkCollected(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete always refuses: collection payments are financial records
func (h *CollectionPaymentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CollectionPaymentHandler) toFilter(req CollectionPaymentListFilter) (collection.Filter, error) {
	filter := collection.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}

	var err error
	if filter.ContractID, err = parseOptionalUUID(req.ContractID); err != nil {
		return filter, err
	}
	if filter.TenantID, err = parseOptionalUUID(req.TenantID); err != nil {
		return filter, err
	}
	if filter.PropertyID, err = parseOptionalUUID(req.PropertyID); err != nil {
		return filter, err
	}
	if req.MonthYear != "" {
		monthYear := req.MonthYear
		filter.MonthYear = &monthYear
	}
	if filter.DueFrom, err = parseOptionalDate(req.DueFrom); err != nil {
		return filter, err
	}
	if filter.DueTo, err = parseOptionalDate(req.DueTo); err != nil {
		return filter, err
	}
	return filter, nil
}
