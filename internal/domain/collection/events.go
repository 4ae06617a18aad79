package collection

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionPaymentCreatedEvent is raised when a billing schedule produces a new installment
type CollectionPaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	ContractID    uuid.UUID       `json:"contract_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DueDateStart  time.Time       `json:"due_date_start"`
	MonthYear     string          `json:"month_year"`
}

// EventType returns the event type name
func (e *CollectionPaymentCreatedEvent) EventType() string {
	return "CollectionPaymentCreated"
}

// NewCollectionPaymentCreatedEvent creates a new CollectionPaymentCreatedEvent
func NewCollectionPaymentCreatedEvent(cp *CollectionPayment) *CollectionPaymentCreatedEvent {
	return &CollectionPaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CollectionPaymentCreated", "CollectionPayment", cp.ID),
		PaymentID:       cp.ID,
		PaymentNumber:   cp.PaymentNumber,
		ContractID:      cp.ContractID,
		TenantID:        cp.TenantID,
		TotalAmount:     cp.TotalAmount,
		DueDateStart:    cp.DueDateStart,
		MonthYear:       cp.MonthYear,
	}
}

// CollectionPaymentPostponedEvent is raised when a delay is granted
type CollectionPaymentPostponedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber string    `json:"payment_number"`
	DelayDuration int       `json:"delay_duration"`
	DelayReason   string    `json:"delay_reason"`
}

// EventType returns the event type name
func (e *CollectionPaymentPostponedEvent) EventType() string {
	return "CollectionPaymentPostponed"
}

// NewCollectionPaymentPostponedEvent creates a new CollectionPaymentPostponedEvent
func NewCollectionPaymentPostponedEvent(cp *CollectionPayment, days int, reason string) *CollectionPaymentPostponedEvent {
	return &CollectionPaymentPostponedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CollectionPaymentPostponed", "CollectionPayment", cp.ID),
		PaymentID:       cp.ID,
		PaymentNumber:   cp.PaymentNumber,
		DelayDuration:   days,
		DelayReason:     reason,
	}
}

// CollectionPaymentCollectedEvent is raised when a payment reaches its terminal state
type CollectionPaymentCollectedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID       `json:"payment_id"`
	PaymentNumber  string          `json:"payment_number"`
	ReceiptNumber  string          `json:"receipt_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CollectionDate time.Time       `json:"collection_date"`
}

// EventType returns the event type name
func (e *CollectionPaymentCollectedEvent) EventType() string {
	return "CollectionPaymentCollected"
}

// NewCollectionPaymentCollectedEvent creates a new CollectionPaymentCollectedEvent
func NewCollectionPaymentCollectedEvent(cp *CollectionPayment) *CollectionPaymentCollectedEvent {
	receiptNumber := ""
	if cp.ReceiptNumber != nil {
		receiptNumber = *cp.ReceiptNumber
	}
	collectionDate := time.Now()
	if cp.CollectionDate != nil {
		collectionDate = *cp.CollectionDate
	}
	return &CollectionPaymentCollectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CollectionPaymentCollected", "CollectionPayment", cp.ID),
		PaymentID:       cp.ID,
		PaymentNumber:   cp.PaymentNumber,
		ReceiptNumber:   receiptNumber,
		TotalAmount:     cp.TotalAmount,
		CollectionDate:  collectionDate,
	}
}
