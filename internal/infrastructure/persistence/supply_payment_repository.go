package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplyPaymentRepository implements SupplyPaymentRepository using GORM
type GormSupplyPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplyPaymentRepository creates a new GormSupplyPaymentRepository
func NewGormSupplyPaymentRepository(db *gorm.DB) *GormSupplyPaymentRepository {
	return &GormSupplyPaymentRepository{db: db}
}

// FindByID finds a supply payment by ID
func (r *GormSupplyPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.SupplyPayment, error) {
	var model models.SupplyPaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentNumber finds a supply payment by its generated number
func (r *GormSupplyPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*supply.SupplyPayment, error) {
	var model models.SupplyPaymentModel
	if err := r.db.WithContext(ctx).Where("payment_number = ?", paymentNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds supply payments with filtering
func (r *GormSupplyPaymentRepository) FindAll(ctx context.Context, filter supply.Filter) ([]supply.SupplyPayment, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplyPaymentModel{}), filter)
	return r.find(query, filter)
}

// FindByStatus finds payments matching the compiled set-level predicate for
// the derived status at the given instant.
func (r *GormSupplyPaymentRepository) FindByStatus(ctx context.Context, status supply.SupplyStatus, now time.Time, filter supply.Filter) ([]supply.SupplyPayment, error) {
	clause, args, err := supply.StatusClause(status, now)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.SupplyPaymentModel{}).
		Where(clause, args...)
	query = r.applyFilter(query, filter)
	return r.find(query, filter)
}

// Count counts supply payments matching the filter
func (r *GormSupplyPaymentRepository) Count(ctx context.Context, filter supply.Filter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplyPaymentModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus counts payments matching the compiled predicate for one status
func (r *GormSupplyPaymentRepository) CountByStatus(ctx context.Context, status supply.SupplyStatus, now time.Time, filter supply.Filter) (int64, error) {
	clause, args, err := supply.StatusClause(status, now)
	if err != nil {
		return 0, err
	}

	var total int64
	query := r.db.WithContext(ctx).
		Model(&models.SupplyPaymentModel{}).
		Where(clause, args...)
	query = r.applyFilter(query, filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// StatusCounts returns one count per derived status at the given instant
func (r *GormSupplyPaymentRepository) StatusCounts(ctx context.Context, now time.Time) (map[supply.SupplyStatus]int64, error) {
	counts := make(map[supply.SupplyStatus]int64, len(supply.AllStatuses()))
	for _, status := range supply.AllStatuses() {
		count, err := r.CountByStatus(ctx, status, now, supply.Filter{})
		if err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

// Save creates or updates a supply payment
func (r *GormSupplyPaymentRepository) Save(ctx context.Context, payment *supply.SupplyPayment) error {
	model := models.SupplyPaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateSaveError(err)
	}
	return nil
}

// SaveWithLock saves with optimistic locking
func (r *GormSupplyPaymentRepository) SaveWithLock(ctx context.Context, payment *supply.SupplyPayment) error {
	result := r.db.WithContext(ctx).
		Model(&models.SupplyPaymentModel{}).
		Where("id = ? AND version = ?", payment.ID, payment.Version).
		Updates(map[string]interface{}{
			"gross_amount":          payment.GrossAmount,
			"commission_rate":       payment.CommissionRate,
			"commission_amount":     payment.CommissionAmount,
			"maintenance_deduction": payment.MaintenanceDeduction,
			"other_deductions":      payment.OtherDeductions,
			"net_amount":            payment.NetAmount,
			"due_date":              payment.DueDate,
			"paid_date":             payment.PaidDate,
			"approval_status":       payment.ApprovalStatus.String(),
			"approved_by":           payment.ApprovedBy,
			"approved_at":           payment.ApprovedAt,
			"reject_reason":         payment.RejectReason,
			"version":               payment.Version + 1,
			"updated_at":            payment.UpdatedAt,
		})

	if result.Error != nil {
		return translateSaveError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	payment.IncrementVersion()
	return nil
}

// Delete removes a pending supply payment. A collected payment is a financial
// record and is never removed; the guard here backs up the service-level check.
func (r *GormSupplyPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.SupplyPaymentModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if model.PaidDate != nil {
			return shared.NewDomainError("ILLEGAL_TRANSITION", "Cannot delete a collected supply payment")
		}
		return tx.Delete(&models.SupplyPaymentModel{}, "id = ?", id).Error
	})
}

// ExistsByPaymentNumber checks if a payment number is already taken
func (r *GormSupplyPaymentRepository) ExistsByPaymentNumber(ctx context.Context, paymentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SupplyPaymentModel{}).
		Where("payment_number = ?", paymentNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePaymentNumber generates the next year-scoped payment number
func (r *GormSupplyPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	return nextSequenceNumber(ctx, r.db, &models.SupplyPaymentModel{}, "payment_number",
		prefixSupplyPayment, time.Now().Year(), seqWidthPayment)
}

func (r *GormSupplyPaymentRepository) find(query *gorm.DB, filter supply.Filter) ([]supply.SupplyPayment, error) {
	query = applySort(query, filter.OrderBy, filter.OrderDir, supplySortColumns, "due_date ASC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.SupplyPaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]supply.SupplyPayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// applyFilter applies filter options to the query
func (r *GormSupplyPaymentRepository) applyFilter(query *gorm.DB, filter supply.Filter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", filter.ApprovalStatus.String())
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	return query
}

// supplySortColumns is the whitelist of sortable columns.
var supplySortColumns = map[string]bool{
	"created_at":     true,
	"due_date":       true,
	"payment_number": true,
	"net_amount":     true,
	"gross_amount":   true,
}

// Ensure GormSupplyPaymentRepository implements SupplyPaymentRepository
var _ supply.SupplyPaymentRepository = (*GormSupplyPaymentRepository)(nil)
