package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/aqarcrm/backend/internal/domain/ledger"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerRepository implements LedgerRepository using GORM. The table is
// append-only; the repository exposes no update or delete.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Record appends a new ledger entry
func (r *GormLedgerRepository) Record(ctx context.Context, entry *ledger.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateSaveError(err)
	}
	return nil
}

// FindByID finds a ledger entry by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds all entries recorded against a source document number
func (r *GormLedgerRepository) FindByReference(ctx context.Context, reference string) ([]ledger.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("recorded_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// GenerateTransactionNumber generates the next year-scoped transaction number
func (r *GormLedgerRepository) GenerateTransactionNumber(ctx context.Context) (string, error) {
	return nextSequenceNumber(ctx, r.db, &models.LedgerEntryModel{}, "transaction_number",
		prefixTransaction, time.Now().Year(), seqWidthTransaction)
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ ledger.LedgerRepository = (*GormLedgerRepository)(nil)
