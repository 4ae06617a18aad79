package models

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionPaymentModel is the persistence model for collection payments.
// No status column exists: status is derived, never stored.
type CollectionPaymentModel struct {
	AggregateModel
	PaymentNumber string  `gorm:"size:32;uniqueIndex;not null"`
	ReceiptNumber *string `gorm:"size:32;uniqueIndex"`

	ContractID uuid.UUID `gorm:"type:uuid;not null;index"`
	UnitID     uuid.UUID `gorm:"type:uuid"`
	PropertyID uuid.UUID `gorm:"type:uuid;index"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	LateFee     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	DueDateStart time.Time `gorm:"not null;index"`
	DueDateEnd   time.Time
	MonthYear    string `gorm:"size:7;index"`

	PaidDate       *time.Time
	CollectionDate *time.Time `gorm:"index"`
	DelayDuration  int        `gorm:"not null;default:0"`
	DelayReason    string     `gorm:"size:500"`
}

// TableName returns the table name for CollectionPaymentModel
func (CollectionPaymentModel) TableName() string {
	return "collection_payments"
}

// ToDomain converts the persistence model to the domain aggregate
func (m *CollectionPaymentModel) ToDomain() *collection.CollectionPayment {
	cp := &collection.CollectionPayment{
		PaymentNumber:  m.PaymentNumber,
		ReceiptNumber:  m.ReceiptNumber,
		ContractID:     m.ContractID,
		UnitID:         m.UnitID,
		PropertyID:     m.PropertyID,
		TenantID:       m.TenantID,
		Amount:         m.Amount,
		LateFee:        m.LateFee,
		TotalAmount:    m.TotalAmount,
		DueDateStart:   m.DueDateStart,
		DueDateEnd:     m.DueDateEnd,
		MonthYear:      m.MonthYear,
		PaidDate:       m.PaidDate,
		CollectionDate: m.CollectionDate,
		DelayDuration:  m.DelayDuration,
		DelayReason:    m.DelayReason,
	}
	m.PopulateAggregateRoot(&cp.BaseAggregateRoot)
	return cp
}

// CollectionPaymentModelFromDomain converts the domain aggregate to the persistence model
func CollectionPaymentModelFromDomain(cp *collection.CollectionPayment) *CollectionPaymentModel {
	m := &CollectionPaymentModel{
		PaymentNumber:  cp.PaymentNumber,
		ReceiptNumber:  cp.ReceiptNumber,
		ContractID:     cp.ContractID,
		UnitID:         cp.UnitID,
		PropertyID:     cp.PropertyID,
		TenantID:       cp.TenantID,
		Amount:         cp.Amount,
		LateFee:        cp.LateFee,
		TotalAmount:    cp.TotalAmount,
		DueDateStart:   cp.DueDateStart,
		DueDateEnd:     cp.DueDateEnd,
		MonthYear:      cp.MonthYear,
		PaidDate:       cp.PaidDate,
		CollectionDate: cp.CollectionDate,
		DelayDuration:  cp.DelayDuration,
		DelayReason:    cp.DelayReason,
	}
	m.FromDomainAggregateRoot(cp.BaseAggregateRoot)
	return m
}
