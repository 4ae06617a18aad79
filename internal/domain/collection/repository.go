package collection

import (
	"context"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for collection payment queries
type Filter struct {
	shared.Filter
	ContractID *uuid.UUID // Filter by contract
	TenantID   *uuid.UUID // Filter by renter
	PropertyID *uuid.UUID // Filter by property
	MonthYear  *string    // Filter by billing period
	DueFrom    *time.Time // Filter by due date range start
	DueTo      *time.Time // Filter by due date range end
}

// CollectionPaymentRepository defines the interface for collection payment persistence.
//
// The interface deliberately exposes no Delete: collection payments are
// financial records and must be retained unconditionally.
type CollectionPaymentRepository interface {
	// FindByID finds a collection payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CollectionPayment, error)

	// FindByPaymentNumber finds a collection payment by its generated number
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*CollectionPayment, error)

	// FindAll finds collection payments with filtering
	FindAll(ctx context.Context, filter Filter) ([]CollectionPayment, error)

	// FindByStatus finds payments matching the compiled set-level predicate
	// for the derived status at the given instant and grace period.
	FindByStatus(ctx context.Context, status CollectionStatus, now time.Time, graceDays int, filter Filter) ([]CollectionPayment, error)

	// Count counts collection payments matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)

	// CountByStatus counts payments matching the compiled predicate for one status
	CountByStatus(ctx context.Context, status CollectionStatus, now time.Time, graceDays int, filter Filter) (int64, error)

	// StatusCounts returns the dashboard summary: one count per derived status,
	// evaluated against the same instant and grace period.
	StatusCounts(ctx context.Context, now time.Time, graceDays int) (map[CollectionStatus]int64, error)

	// Save creates or updates a collection payment
	Save(ctx context.Context, payment *CollectionPayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *CollectionPayment) error

	// ExistsByPaymentNumber checks if a payment number is already taken
	ExistsByPaymentNumber(ctx context.Context, paymentNumber string) (bool, error)

	// GeneratePaymentNumber generates the next year-scoped payment number (PAY-YYYY-NNNNNN)
	GeneratePaymentNumber(ctx context.Context) (string, error)

	// GenerateReceiptNumber generates the next year-scoped receipt number (REC-YYYY-NNNNNN)
	GenerateReceiptNumber(ctx context.Context) (string, error)
}
