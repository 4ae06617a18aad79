package models

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for ledger entries. Append-only.
type LedgerEntryModel struct {
	BaseModel
	TransactionNumber string          `gorm:"size:32;uniqueIndex;not null"`
	EntryType         string          `gorm:"size:8;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Reference         string          `gorm:"size:32;not null;index"`
	Description       string          `gorm:"size:500"`
	RecordedAt        time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for LedgerEntryModel
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to the domain entity
func (m *LedgerEntryModel) ToDomain() *ledger.LedgerEntry {
	return &ledger.LedgerEntry{
		BaseEntity:        m.BaseModel.ToDomain(),
		TransactionNumber: m.TransactionNumber,
		EntryType:         ledger.EntryType(m.EntryType),
		Amount:            m.Amount,
		Reference:         m.Reference,
		Description:       m.Description,
		RecordedAt:        m.RecordedAt,
	}
}

// LedgerEntryModelFromDomain converts the domain entity to the persistence model
func LedgerEntryModelFromDomain(e *ledger.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		TransactionNumber: e.TransactionNumber,
		EntryType:         string(e.EntryType),
		Amount:            e.Amount,
		Reference:         e.Reference,
		Description:       e.Description,
		RecordedAt:        e.RecordedAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
