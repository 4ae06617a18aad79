package supply

import (
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeCalculator computes the net amount owed to a property owner. It lives
// behind an interface so commission-rate policy can evolve independently of
// the payment entity; every create/update of a supply payment funnels its
// amounts through this collaborator.
type FeeCalculator interface {
	// CalculateNetAmount returns (net, commission) where
	// commission = gross * commissionRate and
	// net = gross - commission - maintenanceDeduction - otherDeductions.
	CalculateNetAmount(gross decimal.Decimal, commissionRate decimal.Decimal, maintenanceDeduction, otherDeductions decimal.Decimal) (net decimal.Decimal, commission decimal.Decimal, err error)
}

// StandardFeeCalculator is the default commission policy: a flat rate applied
// to the gross amount.
type StandardFeeCalculator struct{}

// NewStandardFeeCalculator creates the default fee calculator.
func NewStandardFeeCalculator() *StandardFeeCalculator {
	return &StandardFeeCalculator{}
}

// CalculateNetAmount implements FeeCalculator.
func (c *StandardFeeCalculator) CalculateNetAmount(gross, commissionRate, maintenanceDeduction, otherDeductions decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Gross amount cannot be negative")
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_CONFIGURATION", "Commission rate must be between 0 and 1")
	}
	if maintenanceDeduction.IsNegative() || otherDeductions.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Deductions cannot be negative")
	}

	commission := gross.Mul(commissionRate).Round(2)
	net := gross.Sub(commission).Sub(maintenanceDeduction).Sub(otherDeductions)
	return net, commission, nil
}

var _ FeeCalculator = (*StandardFeeCalculator)(nil)
