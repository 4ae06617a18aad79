package payment

import (
	"context"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the repositories touched
// by a collection. Marking a payment collected writes the payment and the
// ledger entry atomically: both happen or neither does, which is what makes
// the ledger record exactly-once.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// CollectionPaymentRepo returns the collection payment repository scoped to the current transaction
	CollectionPaymentRepo() collection.CollectionPaymentRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() ledger.LedgerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	collectionRepo collection.CollectionPaymentRepository
	ledgerRepo     ledger.LedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	collectionRepo collection.CollectionPaymentRepository,
	ledgerRepo ledger.LedgerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		collectionRepo: collectionRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CollectionPaymentRepo returns the collection payment repository.
func (s *NoOpTransactionScope) CollectionPaymentRepo() collection.CollectionPaymentRepository {
	return s.collectionRepo
}

// LedgerRepo returns the ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() ledger.LedgerRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
