package persistence

import (
	"context"

	"github.com/aqarcrm/backend/internal/application/payment"
	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements payment.TransactionScope using GORM
// transactions. Every repository handed to the callback is bound to the same
// *gorm.DB transaction, so the payment update and the ledger append commit or
// roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos payment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories builds repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) CollectionPaymentRepo() collection.CollectionPaymentRepository {
	return NewGormCollectionPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) LedgerRepo() ledger.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// Ensure GormTransactionScope implements payment.TransactionScope
var _ payment.TransactionScope = (*GormTransactionScope)(nil)
