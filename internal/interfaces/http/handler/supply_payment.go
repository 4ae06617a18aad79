package handler

import (
	"context"

	paymentapp "github.com/aqarcrm/backend/internal/application/payment"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/aqarcrm/backend/internal/interfaces/http/dto"
	"github.com/aqarcrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyPaymentHandler handles supply payment API endpoints
type SupplyPaymentHandler struct {
	BaseHandler
	service *paymentapp.SupplyPaymentService
}

// NewSupplyPaymentHandler creates a new SupplyPaymentHandler
func NewSupplyPaymentHandler(service *paymentapp.SupplyPaymentService) *SupplyPaymentHandler {
	return &SupplyPaymentHandler{service: service}
}

// CreateSupplyPaymentRequest is the request body for creating an owner payment.
// CommissionRate is optional; when absent the configured default rate applies.
type CreateSupplyPaymentRequest struct {
	OwnerID              string   `json:"owner_id" binding:"required,uuid"`
	PropertyID           string   `json:"property_id" binding:"omitempty,uuid"`
	ContractID           string   `json:"contract_id" binding:"omitempty,uuid"`
	GrossAmount          float64  `json:"gross_amount" binding:"required,gt=0"`
	CommissionRate       *float64 `json:"commission_rate" binding:"omitempty,gte=0,lte=1"`
	MaintenanceDeduction float64  `json:"maintenance_deduction" binding:"omitempty,gte=0"`
	OtherDeductions      float64  `json:"other_deductions" binding:"omitempty,gte=0"`
	DueDate              string   `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// UpdateSupplyPaymentRequest is the request body for partial updates.
type UpdateSupplyPaymentRequest struct {
	GrossAmount          *float64 `json:"gross_amount" binding:"omitempty,gte=0"`
	CommissionRate       *float64 `json:"commission_rate" binding:"omitempty,gte=0,lte=1"`
	MaintenanceDeduction *float64 `json:"maintenance_deduction" binding:"omitempty,gte=0"`
	OtherDeductions      *float64 `json:"other_deductions" binding:"omitempty,gte=0"`
	DueDate              string   `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// ApprovalDecisionRequest records an approval or rejection decision.
type ApprovalDecisionRequest struct {
	DecidedBy string `json:"decided_by" binding:"required,uuid"`
	Reason    string `json:"reason" binding:"omitempty,max=500"`
}

// SupplyPaymentListFilter is the query filter for listing owner payments.
type SupplyPaymentListFilter struct {
	dto.ListRequest
	Status         string `form:"status" binding:"omitempty,oneof=collected worth_collecting pending"`
	OwnerID        string `form:"owner_id" binding:"omitempty,uuid"`
	PropertyID     string `form:"property_id" binding:"omitempty,uuid"`
	ContractID     string `form:"contract_id" binding:"omitempty,uuid"`
	ApprovalStatus string `form:"approval_status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	DueFrom        string `form:"due_from" binding:"omitempty,datetime=2006-01-02"`
	DueTo          string `form:"due_to" binding:"omitempty,datetime=2006-01-02"`
}

// Create creates a new supply payment
func (h *SupplyPaymentHandler) Create(c *gin.Context) {
	var req CreateSupplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ownerID, _ := uuid.Parse(req.OwnerID)
	propertyID, err := parseUUIDOrNil(req.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}
	contractID, err := parseUUIDOrNil(req.ContractID)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "Invalid due_date")
		return
	}

	appReq := paymentapp.CreateSupplyPaymentRequest{
		OwnerID:              ownerID,
		PropertyID:           propertyID,
		ContractID:           contractID,
		GrossAmount:          decimal.NewFromFloat(req.GrossAmount),
		MaintenanceDeduction: decimal.NewFromFloat(req.MaintenanceDeduction),
		OtherDeductions:      decimal.NewFromFloat(req.OtherDeductions),
		DueDate:              dueDate,
	}
	if req.CommissionRate != nil {
		rate := decimal.NewFromFloat(*req.CommissionRate)
		appReq.CommissionRate = &rate
	}

	resp, err := h.service.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns one supply payment with its derived status
func (h *SupplyPaymentHandler) Get(c *gin.Context) {
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

// List returns supply payments, optionally narrowed to one derived status
func (h *SupplyPaymentHandler) List(c *gin.Context) {
	var req SupplyPaymentListFilter
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

	var status *supply.SupplyStatus
	if req.Status != "" {
		s := supply.SupplyStatus(req.Status)
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
func (h *SupplyPaymentHandler) Summary(c *gin.Context) {
	summary, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update applies partial field changes to a pending payment
func (h *SupplyPaymentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req UpdateSupplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := paymentapp.UpdateSupplyPaymentRequest{}
	if req.GrossAmount != nil {
		gross := decimal.NewFromFloat(*req.GrossAmount)
		appReq.GrossAmount = &gross
	}
	if req.CommissionRate != nil {
		rate := decimal.NewFromFloat(*req.CommissionRate)
		appReq.CommissionRate = &rate
	}
	if req.MaintenanceDeduction != nil {
		maintenance := decimal.NewFromFloat(*req.MaintenanceDeduction)
		appReq.MaintenanceDeduction = &maintenance
	}
	if req.OtherDeductions != nil {
		other := decimal.NewFromFloat(*req.OtherDeductions)
		appReq.OtherDeductions = &other
	}
	if appReq.DueDate, err = parseOptionalDate(req.DueDate); err != nil {
		h.BadRequest(c, "Invalid due_date")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid records the payment as made to the owner
func (h *SupplyPaymentHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve moves the approval workflow to approved
func (h *SupplyPaymentHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject moves the approval workflow to rejected
func (h *SupplyPaymentHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

// decide handles the shared shape of the two approval endpoints.
func (h *SupplyPaymentHandler) decide(c *gin.Context, decision func(ctx context.Context, id uuid.UUID, req paymentapp.ApprovalDecisionRequest) (*paymentapp.SupplyPaymentResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	decidedBy, _ := uuid.Parse(req.DecidedBy)
	resp, err := decision(c.Request.Context(), id, paymentapp.ApprovalDecisionRequest{
		DecidedBy: decidedBy,
		Reason:    req.Reason,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a pending payment; a collected payment is refused
func (h *SupplyPaymentHandler) Delete(c *gin.Context) {
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

func (h *SupplyPaymentHandler) toFilter(req SupplyPaymentListFilter) (supply.Filter, error) {
	filter := supply.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}

	var err error
	if filter.OwnerID, err = parseOptionalUUID(req.OwnerID); err != nil {
		return filter, err
	}
	if filter.PropertyID, err = parseOptionalUUID(req.PropertyID); err != nil {
		return filter, err
	}
	if filter.ContractID, err = parseOptionalUUID(req.ContractID); err != nil {
		return filter, err
	}
	if req.ApprovalStatus != "" {
		approval := supply.ApprovalStatus(req.ApprovalStatus)
		filter.ApprovalStatus = &approval
	}
	if filter.DueFrom, err = parseOptionalDate(req.DueFrom); err != nil {
		return filter, err
	}
	if filter.DueTo, err = parseOptionalDate(req.DueTo); err != nil {
		return filter, err
	}
	return filter, nil
}
