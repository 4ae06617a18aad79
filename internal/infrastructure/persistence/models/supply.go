package models

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyPaymentModel is the persistence model for supply payments.
type SupplyPaymentModel struct {
	AggregateModel
	PaymentNumber string `gorm:"size:32;uniqueIndex;not null"`

	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID `gorm:"type:uuid;index"`
	ContractID uuid.UUID `gorm:"type:uuid;index"`

	GrossAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CommissionRate       decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	MaintenanceDeduction decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OtherDeductions      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NetAmount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	DueDate  time.Time `gorm:"not null;index"`
	PaidDate *time.Time

	ApprovalStatus string     `gorm:"size:16;not null;default:'PENDING'"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	RejectReason   string `gorm:"size:500"`
}

// TableName returns the table name for SupplyPaymentModel
func (SupplyPaymentModel) TableName() string {
	return "supply_payments"
}

// ToDomain converts the persistence model to the domain aggregate
func (m *SupplyPaymentModel) ToDomain() *supply.SupplyPayment {
	sp := &supply.SupplyPayment{
		PaymentNumber:        m.PaymentNumber,
		OwnerID:              m.OwnerID,
		PropertyID:           m.PropertyID,
		ContractID:           m.ContractID,
		GrossAmount:          m.GrossAmount,
		CommissionRate:       m.CommissionRate,
		CommissionAmount:     m.CommissionAmount,
		MaintenanceDeduction: m.MaintenanceDeduction,
		OtherDeductions:      m.OtherDeductions,
		NetAmount:            m.NetAmount,
		DueDate:              m.DueDate,
		PaidDate:             m.PaidDate,
		ApprovalStatus:       supply.ApprovalStatus(m.ApprovalStatus),
		ApprovedBy:           m.ApprovedBy,
		ApprovedAt:           m.ApprovedAt,
		RejectReason:         m.RejectReason,
	}
	m.PopulateAggregateRoot(&sp.BaseAggregateRoot)
	return sp
}

// SupplyPaymentModelFromDomain converts the domain aggregate to the persistence model
func SupplyPaymentModelFromDomain(sp *supply.SupplyPayment) *SupplyPaymentModel {
	m := &SupplyPaymentModel{
		PaymentNumber:        sp.PaymentNumber,
		OwnerID:              sp.OwnerID,
		PropertyID:           sp.PropertyID,
		ContractID:           sp.ContractID,
		GrossAmount:          sp.GrossAmount,
		CommissionRate:       sp.CommissionRate,
		CommissionAmount:     sp.CommissionAmount,
		MaintenanceDeduction: sp.MaintenanceDeduction,
		OtherDeductions:      sp.OtherDeductions,
		NetAmount:            sp.NetAmount,
		DueDate:              sp.DueDate,
		PaidDate:             sp.PaidDate,
		ApprovalStatus:       sp.ApprovalStatus.String(),
		ApprovedBy:           sp.ApprovedBy,
		ApprovedAt:           sp.ApprovedAt,
		RejectReason:         sp.RejectReason,
	}
	m.FromDomainAggregateRoot(sp.BaseAggregateRoot)
	return m
}
