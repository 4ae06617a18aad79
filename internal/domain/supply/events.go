package supply

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyPaymentCreatedEvent is raised when a new owner payout is scheduled
type SupplyPaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	DueDate       time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *SupplyPaymentCreatedEvent) EventType() string {
	return "SupplyPaymentCreated"
}

// NewSupplyPaymentCreatedEvent creates a new SupplyPaymentCreatedEvent
func NewSupplyPaymentCreatedEvent(sp *SupplyPayment) *SupplyPaymentCreatedEvent {
	return &SupplyPaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyPaymentCreated", "SupplyPayment", sp.ID),
		PaymentID:       sp.ID,
		PaymentNumber:   sp.PaymentNumber,
		OwnerID:         sp.OwnerID,
		NetAmount:       sp.NetAmount,
		DueDate:         sp.DueDate,
	}
}

// SupplyPaymentPaidEvent is raised when a payout reaches its terminal state
type SupplyPaymentPaidEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	PaidDate      time.Time       `json:"paid_date"`
}

// EventType returns the event type name
func (e *SupplyPaymentPaidEvent) EventType() string {
	return "SupplyPaymentPaid"
}

// NewSupplyPaymentPaidEvent creates a new SupplyPaymentPaidEvent
func NewSupplyPaymentPaidEvent(sp *SupplyPayment) *SupplyPaymentPaidEvent {
	paidDate := time.Now()
	if sp.PaidDate != nil {
		paidDate = *sp.PaidDate
	}
	return &SupplyPaymentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyPaymentPaid", "SupplyPayment", sp.ID),
		PaymentID:       sp.ID,
		PaymentNumber:   sp.PaymentNumber,
		OwnerID:         sp.OwnerID,
		NetAmount:       sp.NetAmount,
		PaidDate:        paidDate,
	}
}

// SupplyPaymentApprovedEvent is raised when the approval workflow completes
type SupplyPaymentApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber string    `json:"payment_number"`
	ApprovedBy    uuid.UUID `json:"approved_by"`
}

// EventType returns the event type name
func (e *SupplyPaymentApprovedEvent) EventType() string {
	return "SupplyPaymentApproved"
}

// NewSupplyPaymentApprovedEvent creates a new SupplyPaymentApprovedEvent
func NewSupplyPaymentApprovedEvent(sp *SupplyPayment) *SupplyPaymentApprovedEvent {
	var approvedBy uuid.UUID
	if sp.ApprovedBy != nil {
		approvedBy = *sp.ApprovedBy
	}
	return &SupplyPaymentApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyPaymentApproved", "SupplyPayment", sp.ID),
		PaymentID:       sp.ID,
		PaymentNumber:   sp.PaymentNumber,
		ApprovedBy:      approvedBy,
	}
}
