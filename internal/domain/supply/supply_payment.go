package supply

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalStatus tracks the approval workflow. It is deliberately independent
// of the derived payment status: an unapproved payment can still become
// worth_collecting, and approval never flips the lifecycle state.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// SupplyPayment represents a scheduled net amount owed to a property owner
// after fees and deductions. NetAmount is recomputed by the FeeCalculator
// collaborator on every create/update; the entity never computes it itself
// and callers can never set it directly.
type SupplyPayment struct {
	shared.BaseAggregateRoot
	PaymentNumber string `json:"payment_number"`

	OwnerID    uuid.UUID `json:"owner_id"`
	PropertyID uuid.UUID `json:"property_id"`
	ContractID uuid.UUID `json:"contract_id"`

	GrossAmount          decimal.Decimal `json:"gross_amount"`
	CommissionRate       decimal.Decimal `json:"commission_rate"`
	CommissionAmount     decimal.Decimal `json:"commission_amount"`
	MaintenanceDeduction decimal.Decimal `json:"maintenance_deduction"`
	OtherDeductions      decimal.Decimal `json:"other_deductions"`
	NetAmount            decimal.Decimal `json:"net_amount"`

	DueDate  time.Time  `json:"due_date"`
	PaidDate *time.Time `json:"paid_date"` // Presence means terminal collected state

	ApprovalStatus ApprovalStatus `json:"approval_status"`
	ApprovedBy     *uuid.UUID     `json:"approved_by"`
	ApprovedAt     *time.Time     `json:"approved_at"`
	RejectReason   string         `json:"reject_reason"`
}

// NewSupplyPayment creates a new supply payment. The calculator computes the
// stored commission and net amount from the raw inputs.
func NewSupplyPayment(
	paymentNumber string,
	ownerID, propertyID, contractID uuid.UUID,
	gross, commissionRate, maintenanceDeduction, otherDeductions decimal.Decimal,
	dueDate time.Time,
	calc FeeCalculator,
) (*SupplyPayment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	if calc == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fee calculator is required")
	}

	net, commission, err := calc.CalculateNetAmount(gross, commissionRate, maintenanceDeduction, otherDeductions)
	if err != nil {
		return nil, err
	}

	sp := &SupplyPayment{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		PaymentNumber:        paymentNumber,
		OwnerID:              ownerID,
		PropertyID:           propertyID,
		ContractID:           contractID,
		GrossAmount:          gross,
		CommissionRate:       commissionRate,
		CommissionAmount:     commission,
		MaintenanceDeduction: maintenanceDeduction,
		OtherDeductions:      otherDeductions,
		NetAmount:            net,
		DueDate:              shared.DateOnly(dueDate),
		ApprovalStatus:       ApprovalPending,
	}

	sp.AddDomainEvent(NewSupplyPaymentCreatedEvent(sp))

	return sp, nil
}

// touch refreshes the update timestamp. The version advances in the
// repository when the record is saved under the optimistic lock.
func (sp *SupplyPayment) touch() {
	sp.UpdatedAt = time.Now()
}

// StatusAt derives the lifecycle status at the given instant. Pure read.
func (sp *SupplyPayment) StatusAt(now time.Time) SupplyStatus {
	return deriveStatus(statusFields{
		PaidDate: sp.PaidDate,
		DueDate:  sp.DueDate,
	}, now)
}

// IsPaid returns true once the terminal marker is set.
func (sp *SupplyPayment) IsPaid() bool {
	return sp.PaidDate != nil
}

// SetAmounts replaces the raw amounts and recomputes commission and net
// through the calculator. The stored net is never settable any other way.
func (sp *SupplyPayment) SetAmounts(gross, commissionRate, maintenanceDeduction, otherDeductions decimal.Decimal, calc FeeCalculator) error {
	if sp.IsPaid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected supply payment")
	}
	if calc == nil {
		return shared.NewDomainError("INVALID_INPUT", "Fee calculator is required")
	}

	net, commission, err := calc.CalculateNetAmount(gross, commissionRate, maintenanceDeduction, otherDeductions)
	if err != nil {
		return err
	}

	sp.GrossAmount = gross
	sp.CommissionRate = commissionRate
	sp.CommissionAmount = commission
	sp.MaintenanceDeduction = maintenanceDeduction
	sp.OtherDeductions = otherDeductions
	sp.NetAmount = net
	sp.touch()

	return nil
}

// Reschedule moves the due date.
func (sp *SupplyPayment) Reschedule(dueDate time.Time) error {
	if sp.IsPaid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot modify an already collected supply payment")
	}
	if dueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	sp.DueDate = shared.DateOnly(dueDate)
	sp.touch()

	return nil
}

// MarkPaid records the payment as made to the owner. Terminal: no transition
// out of collected exists.
func (sp *SupplyPayment) MarkPaid(now time.Time) error {
	if sp.IsPaid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Supply payment is already collected")
	}

	paidAt := now
	sp.PaidDate = &paidAt
	sp.touch()

	sp.AddDomainEvent(NewSupplyPaymentPaidEvent(sp))

	return nil
}

// Approve moves the approval workflow to approved. Only legal from pending.
func (sp *SupplyPayment) Approve(approvedBy uuid.UUID, now time.Time) error {
	if sp.ApprovalStatus != ApprovalPending {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Approval already decided")
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approving user ID is required")
	}

	approvedAt := now
	sp.ApprovalStatus = ApprovalApproved
	sp.ApprovedBy = &approvedBy
	sp.ApprovedAt = &approvedAt
	sp.touch()

	sp.AddDomainEvent(NewSupplyPaymentApprovedEvent(sp))

	return nil
}

// RejectApproval moves the approval workflow to rejected. Only legal from pending.
func (sp *SupplyPayment) RejectApproval(rejectedBy uuid.UUID, reason string, now time.Time) error {
	if sp.ApprovalStatus != ApprovalPending {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Approval already decided")
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejecting user ID is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is required")
	}

	rejectedAt := now
	sp.ApprovalStatus = ApprovalRejected
	sp.ApprovedBy = &rejectedBy
	sp.ApprovedAt = &rejectedAt
	sp.RejectReason = reason
	sp.touch()

	return nil
}
