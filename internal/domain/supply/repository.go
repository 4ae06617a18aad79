package supply

import (
	"context"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for supply payment queries
type Filter struct {
	shared.Filter
	OwnerID        *uuid.UUID      // Filter by property owner
	PropertyID     *uuid.UUID      // Filter by property
	ContractID     *uuid.UUID      // Filter by contract
	ApprovalStatus *ApprovalStatus // Filter by approval workflow state
	DueFrom        *time.Time      // Filter by due date range start
	DueTo          *time.Time      // Filter by due date range end
}

// SupplyPaymentRepository defines the interface for supply payment persistence.
// Unlike collection payments, a supply payment may be deleted while it is
// still pending; the repository rejects deletion once the paid marker is set.
type SupplyPaymentRepository interface {
	// FindByID finds a supply payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SupplyPayment, error)

	// FindByPaymentNumber finds a supply payment by its generated number
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*SupplyPayment, error)

	// FindAll finds supply payments with filtering
	FindAll(ctx context.Context, filter Filter) ([]SupplyPayment, error)

	// FindByStatus finds payments matching the compiled set-level predicate
	// for the derived status at the given instant.
	FindByStatus(ctx context.Context, status SupplyStatus, now time.Time, filter Filter) ([]SupplyPayment, error)

	// Count counts supply payments matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)

	// CountByStatus counts payments matching the compiled predicate for one status
	CountByStatus(ctx context.Context, status SupplyStatus, now time.Time, filter Filter) (int64, error)

	// StatusCounts returns one count per derived status at the given instant.
	StatusCounts(ctx context.Context, now time.Time) (map[SupplyStatus]int64, error)

	// Save creates or updates a supply payment
	Save(ctx context.Context, payment *SupplyPayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *SupplyPayment) error

	// Delete removes a pending supply payment. Returns an illegal-transition
	// error when the payment is already collected.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByPaymentNumber checks if a payment number is already taken
	ExistsByPaymentNumber(ctx context.Context, paymentNumber string) (bool, error)

	// GeneratePaymentNumber generates the next year-scoped payment number (SUP-YYYY-NNNNNN)
	GeneratePaymentNumber(ctx context.Context) (string, error)
}
