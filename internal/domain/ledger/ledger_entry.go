package ledger

import (
	"context"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the accounting direction of a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	return t == EntryDebit || t == EntryCredit
}

// LedgerEntry is one append-only financial record. Entries are never updated
// or deleted once written.
type LedgerEntry struct {
	shared.BaseEntity
	TransactionNumber string          `json:"transaction_number"`
	EntryType         EntryType       `json:"entry_type"`
	Amount            decimal.Decimal `json:"amount"`
	Reference         string          `json:"reference"` // Source document number
	Description       string          `json:"description"`
	RecordedAt        time.Time       `json:"recorded_at"`
}

// NewLedgerEntry creates a new ledger entry for the given source document.
func NewLedgerEntry(transactionNumber string, entryType EntryType, amount decimal.Decimal, reference, description string, recordedAt time.Time) (*LedgerEntry, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Entry type must be DEBIT or CREDIT")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Ledger amount cannot be negative")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Ledger reference is required")
	}

	return &LedgerEntry{
		BaseEntity:        shared.NewBaseEntity(),
		TransactionNumber: transactionNumber,
		EntryType:         entryType,
		Amount:            amount,
		Reference:         reference,
		Description:       description,
		RecordedAt:        recordedAt,
	}, nil
}

// TransactionRecorder appends a ledger entry. The collection service invokes
// it exactly once per successful collection, inside the same database
// transaction as the payment update, and never on a rejected transition.
type TransactionRecorder interface {
	Record(ctx context.Context, entry *LedgerEntry) error
}

// LedgerRepository defines the interface for ledger persistence. Append-only:
// no update or delete exists.
type LedgerRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, entry *LedgerEntry) error

	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByReference finds all entries recorded against a source document number
	FindByReference(ctx context.Context, reference string) ([]LedgerEntry, error)

	// GenerateTransactionNumber generates the next year-scoped transaction number (TXN-YYYY-NNNNNNNN)
	GenerateTransactionNumber(ctx context.Context) (string, error)
}
