package payment

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCollectionPaymentRequest carries the fields for a new installment.
// The payment number is always generated; callers cannot supply one.
type CreateCollectionPaymentRequest struct {
	ContractID   uuid.UUID       `json:"contract_id"`
	UnitID       uuid.UUID       `json:"unit_id"`
	PropertyID   uuid.UUID       `json:"property_id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Amount       decimal.Decimal `json:"amount"`
	LateFee      decimal.Decimal `json:"late_fee"`
	DueDateStart time.Time       `json:"due_date_start"`
	DueDateEnd   time.Time       `json:"due_date_end"`
}

// UpdateCollectionPaymentRequest carries partial updates. Nil fields are left
// untouched.
type UpdateCollectionPaymentRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	LateFee      *decimal.Decimal `json:"late_fee"`
	DueDateStart *time.Time       `json:"due_date_start"`
	DueDateEnd   *time.Time       `json:"due_date_end"`
}

// PostponeRequest grants a delay on a collection payment.
type PostponeRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// CollectionPaymentResponse is the read model for a collection payment. The
// status field is derived at response time against the current grace period.
type CollectionPaymentResponse struct {
	ID             uuid.UUID                   `json:"id"`
	PaymentNumber  string                      `json:"payment_number"`
	ReceiptNumber  *string                     `json:"receipt_number,omitempty"`
	ContractID     uuid.UUID                   `json:"contract_id"`
	UnitID         uuid.UUID                   `json:"unit_id"`
	PropertyID     uuid.UUID                   `json:"property_id"`
	TenantID       uuid.UUID                   `json:"tenant_id"`
	Amount         decimal.Decimal             `json:"amount"`
	LateFee        decimal.Decimal             `json:"late_fee"`
	TotalAmount    decimal.Decimal             `json:"total_amount"`
	DueDateStart   time.Time                   `json:"due_date_start"`
	DueDateEnd     time.Time                   `json:"due_date_end"`
	MonthYear      string                      `json:"month_year"`
	PaidDate       *time.Time                  `json:"paid_date,omitempty"`
	CollectionDate *time.Time                  `json:"collection_date,omitempty"`
	DelayDuration  int                         `json:"delay_duration"`
	DelayReason    string                      `json:"delay_reason,omitempty"`
	Status         collection.CollectionStatus `json:"status"`
	Version        int                         `json:"version"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func toCollectionResponse(cp *collection.CollectionPayment, now time.Time, graceDays int) CollectionPaymentResponse {
	return CollectionPaymentResponse{
		ID:             cp.ID,
		PaymentNumber:  cp.PaymentNumber,
		ReceiptNumber:  cp.ReceiptNumber,
		ContractID:     cp.ContractID,
		UnitID:         cp.UnitID,
		PropertyID:     cp.PropertyID,
		TenantID:       cp.TenantID,
		Amount:         cp.Amount,
		LateFee:        cp.LateFee,
		TotalAmount:    cp.TotalAmount,
		DueDateStart:   cp.DueDateStart,
		DueDateEnd:     cp.DueDateEnd,
		MonthYear:      cp.MonthYear,
		PaidDate:       cp.PaidDate,
		CollectionDate: cp.CollectionDate,
		DelayDuration:  cp.DelayDuration,
		DelayReason:    cp.DelayReason,
		Status:         cp.StatusAt(now, graceDays),
		Version:        cp.Version,
		CreatedAt:      cp.CreatedAt,
		UpdatedAt:      cp.UpdatedAt,
	}
}

// CollectionStatusSummary is the dashboard view: one count per derived status.
type CollectionStatusSummary struct {
	Counts map[collection.CollectionStatus]int64 `json:"counts"`
	Total  int64                                 `json:"total"`
	AsOf   time.Time                             `json:"as_of"`
}

// CreateSupplyPaymentRequest carries the fields for a new owner payment.
// CommissionRate is optional; when nil the configured default rate applies.
type CreateSupplyPaymentRequest struct {
	OwnerID              uuid.UUID        `json:"owner_id"`
	PropertyID           uuid.UUID        `json:"property_id"`
	ContractID           uuid.UUID        `json:"contract_id"`
	GrossAmount          decimal.Decimal  `json:"gross_amount"`
	CommissionRate       *decimal.Decimal `json:"commission_rate"`
	MaintenanceDeduction decimal.Decimal  `json:"maintenance_deduction"`
	OtherDeductions      decimal.Decimal  `json:"other_deductions"`
	DueDate              time.Time        `json:"due_date"`
}

// UpdateSupplyPaymentRequest carries partial updates. Nil fields are left
// untouched; any amount change recomputes the net through the fee calculator.
type UpdateSupplyPaymentRequest struct {
	GrossAmount          *decimal.Decimal `json:"gross_amount"`
	CommissionRate       *decimal.Decimal `json:"commission_rate"`
	MaintenanceDeduction *decimal.Decimal `json:"maintenance_deduction"`
	OtherDeductions      *decimal.Decimal `json:"other_deductions"`
	DueDate              *time.Time       `json:"due_date"`
}

// ApprovalDecisionRequest records an approval or rejection.
type ApprovalDecisionRequest struct {
	DecidedBy uuid.UUID `json:"decided_by"`
	Reason    string    `json:"reason,omitempty"`
}

// SupplyPaymentResponse is the read model for a supply payment.
type SupplyPaymentResponse struct {
	ID                   uuid.UUID             `json:"id"`
	PaymentNumber        string                `json:"payment_number"`
	OwnerID              uuid.UUID             `json:"owner_id"`
	PropertyID           uuid.UUID             `json:"property_id"`
	ContractID           uuid.UUID             `json:"contract_id"`
	GrossAmount          decimal.Decimal       `json:"gross_amount"`
	CommissionRate       decimal.Decimal       `json:"commission_rate"`
	CommissionAmount     decimal.Decimal       `json:"commission_amount"`
	MaintenanceDeduction decimal.Decimal       `json:"maintenance_deduction"`
	OtherDeductions      decimal.Decimal       `json:"other_deductions"`
	NetAmount            decimal.Decimal       `json:"net_amount"`
	DueDate              time.Time             `json:"due_date"`
	PaidDate             *time.Time            `json:"paid_date,omitempty"`
	ApprovalStatus       supply.ApprovalStatus `json:"approval_status"`
	ApprovedBy           *uuid.UUID            `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time            `json:"approved_at,omitempty"`
	RejectReason         string                `json:"reject_reason,omitempty"`
	Status               supply.SupplyStatus   `json:"status"`
	Version              int                   `json:"version"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

func toSupplyResponse(sp *supply.SupplyPayment, now time.Time) SupplyPaymentResponse {
	return SupplyPaymentResponse{
		ID:                   sp.ID,
		PaymentNumber:        sp.PaymentNumber,
		OwnerID:              sp.OwnerID,
		PropertyID:           sp.PropertyID,
		ContractID:           sp.ContractID,
		GrossAmount:          sp.GrossAmount,
		CommissionRate:       sp.CommissionRate,
		CommissionAmount:     sp.CommissionAmount,
		MaintenanceDeduction: sp.MaintenanceDeduction,
		OtherDeductions:      sp.OtherDeductions,
		NetAmount:            sp.NetAmount,
		DueDate:              sp.DueDate,
		PaidDate:             sp.PaidDate,
		ApprovalStatus:       sp.ApprovalStatus,
		ApprovedBy:           sp.ApprovedBy,
		ApprovedAt:           sp.ApprovedAt,
		RejectReason:         sp.RejectReason,
		Status:               sp.StatusAt(now),
		Version:              sp.Version,
		CreatedAt:            sp.CreatedAt,
		UpdatedAt:            sp.UpdatedAt,
	}
}

// SupplyStatusSummary is the dashboard view for supply payments.
type SupplyStatusSummary struct {
	Counts map[supply.SupplyStatus]int64 `json:"counts"`
	Total  int64                         `json:"total"`
	AsOf   time.Time                     `json:"as_of"`
}
