package collection

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionPayment represents a scheduled amount owed by a tenant for a
// rental period. Its lifecycle status is never stored: callers derive it via
// StatusAt or filter through the compiled predicates in the repository.
type CollectionPayment struct {
	shared.BaseAggregateRoot
	PaymentNumber string  `json:"payment_number"` // Immutable once set
	ReceiptNumber *string `json:"receipt_number"` // Generated only once collected

	// Foreign references, owned by other modules
	ContractID uuid.UUID `json:"contract_id"`
	UnitID     uuid.UUID `json:"unit_id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"` // The renter who owes the amount

	Amount      decimal.Decimal `json:"amount"`
	LateFee     decimal.Decimal `json:"late_fee"`
	TotalAmount decimal.Decimal `json:"total_amount"` // Always Amount + LateFee after any write

	DueDateStart time.Time `json:"due_date_start"` // Grace-evaluation anchor
	DueDateEnd   time.Time `json:"due_date_end"`   // Overdue-fee anchor
	MonthYear    string    `json:"month_year"`     // Derived once at creation, never recomputed

	PaidDate       *time.Time `json:"paid_date"`       // When money changed hands
	CollectionDate *time.Time `json:"collection_date"` // Authoritative terminal marker
	DelayDuration  int        `json:"delay_duration"`  // Granted postponement in days, 0 = none
	DelayReason    string     `json:"delay_reason"`
}

// NewCollectionPayment creates a new collection payment. Dates are truncated
// to day granularity so stored values compare cleanly against the compiled
// status predicates. now supplies the creation instant from the caller's clock.
func NewCollectionPayment(
	paymentNumber string,
	contractID, unitID, propertyID, tenantID uuid.UUID,
	amount valueobject.Money,
	lateFee valueobject.Money,
	dueDateStart, dueDateEnd time.Time,
	now time.Time,
) (*CollectionPayment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if lateFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LATE_FEE", "Late fee cannot be negative")
	}
	if dueDateStart.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date start is required")
	}
	if !dueDateEnd.IsZero() && dueDateEnd.Before(dueDateStart) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date end cannot precede due date start")
	}

	start := shared.DateOnly(dueDateStart)
	end := dueDateEnd
	if !end.IsZero() {
		end = shared.DateOnly(end)
	}

	cp := &CollectionPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		ContractID:        contractID,
		UnitID:            unitID,
		PropertyID:        propertyID,
		TenantID:          tenantID,
		Amount:            amount.Amount(),
		LateFee:           lateFee.Amount(),
		DueDateStart:      start,
		DueDateEnd:        end,
		MonthYear:         start.Format("01-2006"),
	}
	cp.recalcTotal()

	cp.AddDomainEvent(NewCollectionPaymentCreatedEvent(cp))

	return cp, nil
}

// recalcTotal re-derives the stored total. Every mutation funnels through
// this so TotalAmount can never drift from Amount + LateFee.
func (cp *CollectionPayment) recalcTotal() {
	cp.TotalAmount = cp.Amount.Add(cp.LateFee)
}

// touch refreshes the update timestamp. The version advances in the
// repository when the record is saved under the optimistic lock, once per
// save regardless of how many mutators ran.
func (cp *CollectionPayment) touch() {
	cp.UpdatedAt = time.Now()
}

// StatusAt derives the lifecycle status at the given instant with the given
// grace period. Pure read, idempotent for an unmutated record.
func (cp *CollectionPayment) StatusAt(now time.Time, graceDays int) CollectionStatus {
	return deriveStatus(statusFields{
		CollectionDate: cp.CollectionDate,
		DelayDuration:  cp.DelayDuration,
		DueDateStart:   cp.DueDateStart,
	}, now, graceDays)
}

// IsCollected returns true once the authoritative terminal marker is set.
func (cp *CollectionPayment) IsCollected() bool {
	return cp.CollectionDate != nil
}

// IsPostponed returns true while a granted delay is in effect.
func (cp *CollectionPayment) IsPostponed() bool {
	return cp.DelayDuration > 0
}

// SetAmounts updates the base charge and late fee and re-derives the total.
func (cp *CollectionPayment) SetAmounts(amount, lateFee valueobject.Money) error {
	if cp.IsCollected() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected payment")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if lateFee.IsNegative() {
		return shared.NewDomainError("INVALID_LATE_FEE", "Late fee cannot be negative")
	}

	cp.Amount = amount.Amount()
	cp.LateFee = lateFee.Amount()
	cp.recalcTotal()
	cp.touch()

	return nil
}

// ApplyLateFee sets the late fee and re-derives the total.
func (cp *CollectionPayment) ApplyLateFee(lateFee valueobject.Money) error {
	if cp.IsCollected() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected payment")
	}
	if lateFee.IsNegative() {
		return shared.NewDomainError("INVALID_LATE_FEE", "Late fee cannot be negative")
	}

	cp.LateFee = lateFee.Amount()
	cp.recalcTotal()
	cp.touch()

	return nil
}

// Reschedule moves the due window. MonthYear is intentionally left untouched:
// it is derived once at creation and pins the billing period the installment
// was issued for.
func (cp *CollectionPayment) Reschedule(dueDateStart, dueDateEnd time.Time) error {
	if cp.IsCollected() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected payment")
	}
	if dueDateStart.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date start is required")
	}
	if !dueDateEnd.IsZero() && dueDateEnd.Before(dueDateStart) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date end cannot precede due date start")
	}

	cp.DueDateStart = shared.DateOnly(dueDateStart)
	if dueDateEnd.IsZero() {
		cp.DueDateEnd = dueDateEnd
	} else {
		cp.DueDateEnd = shared.DateOnly(dueDateEnd)
	}
	cp.touch()

	return nil
}

// Postpone grants an explicit delay. Legal only when the payment is neither
// collected nor already postponed; it never touches the collection marker.
func (cp *CollectionPayment) Postpone(days int, reason string) error {
	if cp.IsCollected() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot postpone an already collected payment")
	}
	if cp.IsPostponed() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Payment is already postponed")
	}
	if days <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Postponement must be at least one day")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Postponement reason is required")
	}

	cp.DelayDuration = days
	cp.DelayReason = reason
	cp.touch()

	cp.AddDomainEvent(NewCollectionPaymentPostponedEvent(cp, days, reason))

	return nil
}

// MarkCollected records the payment as collected at the given instant. This
// is the only terminal operation; no transition out of it exists.
func (cp *CollectionPayment) MarkCollected(now time.Time, receiptNumber string) error {
	if cp.IsCollected() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Payment is already collected")
	}
	if receiptNumber == "" {
		return shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number is required")
	}

	collectedAt := now
	cp.CollectionDate = &collectedAt
	cp.PaidDate = &collectedAt
	cp.ReceiptNumber = &receiptNumber
	cp.touch()

	cp.AddDomainEvent(NewCollectionPaymentCollectedEvent(cp))

	return nil
}

// GetAmountMoney returns the base charge as Money
func (cp *CollectionPayment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneySAR(cp.Amount)
}

// GetLateFeeMoney returns the late fee as Money
func (cp *CollectionPayment) GetLateFeeMoney() valueobject.Money {
	return valueobject.NewMoneySAR(cp.LateFee)
}

// GetTotalAmountMoney returns the derived total as Money
func (cp *CollectionPayment) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneySAR(cp.TotalAmount)
}
