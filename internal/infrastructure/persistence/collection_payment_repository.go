package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionPaymentRepository implements CollectionPaymentRepository using GORM.
// It deliberately has no delete method of any kind.
type GormCollectionPaymentRepository struct {
	db *gorm.DB
}

// NewGormCollectionPaymentRepository creates a new GormCollectionPaymentRepository
func NewGormCollectionPaymentRepository(db *gorm.DB) *GormCollectionPaymentRepository {
	return &GormCollectionPaymentRepository{db: db}
}

// FindByID finds a collection payment by ID
func (r *GormCollectionPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.CollectionPayment, error) {
	var model models.CollectionPaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentNumber finds a collection payment by its generated number
func (r *GormCollectionPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*collection.CollectionPayment, error) {
	var model models.CollectionPaymentModel
	if err := r.db.WithContext(ctx).Where("payment_number = ?", paymentNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds collection payments with filtering
func (r *GormCollectionPaymentRepository) FindAll(ctx context.Context, filter collection.Filter) ([]collection.CollectionPayment, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CollectionPaymentModel{}), filter)
	return r.find(query, filter)
}

// FindByStatus finds payments matching the compiled set-level predicate for
// the derived status. The predicate comes from the same rule table as the
// row evaluator, so the result set is exactly the set StatusAt would classify.
func (r *GormCollectionPaymentRepository) FindByStatus(ctx context.Context, status collection.CollectionStatus, now time.Time, graceDays int, filter collection.Filter) ([]collection.CollectionPayment, error) {
	clause, args, err := collection.StatusClause(status, now, graceDays)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.CollectionPaymentModel{}).
		Where(clause, args...)
	query = r.applyFilter(query, filter)
	return r.find(query, filter)
}

// Count counts collection payments matching the filter
func (r *GormCollectionPaymentRepository) Count(ctx context.Context, filter collection.Filter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CollectionPaymentModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus counts payments matching the compiled predicate for one status
func (r *GormCollectionPaymentRepository) CountByStatus(ctx context.Context, status collection.CollectionStatus, now time.Time, graceDays int, filter collection.Filter) (int64, error) {
	clause, args, err := collection.StatusClause(status, now, graceDays)
	if err != nil {
		return 0, err
	}

	var total int64
	query := r.db.WithContext(ctx).
		Model(&models.CollectionPaymentModel{}).
		Where(clause, args...)
	query = r.applyFilter(query, filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// StatusCounts returns one count per derived status, all evaluated against
// the same instant and grace period. The compiled predicates are mutually
// exclusive and exhaustive, so the counts sum to the table total.
func (r *GormCollectionPaymentRepository) StatusCounts(ctx context.Context, now time.Time, graceDays int) (map[collection.CollectionStatus]int64, error) {
	counts := make(map[collection.CollectionStatus]int64, len(collection.AllStatuses()))
	for _, status := range collection.AllStatuses() {
		count, err := r.CountByStatus(ctx, status, now, graceDays, collection.Filter{})
		if err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

// Save creates or updates a collection payment. A duplicate generated number
// surfaces as SEQUENCE_CONFLICT for the service to retry.
func (r *GormCollectionPaymentRepository) Save(ctx context.Context, payment *collection.CollectionPayment) error {
	model := models.CollectionPaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateSaveError(err)
	}
	return nil
}

// SaveWithLock saves with optimistic locking. The stored version must still
// match the version the aggregate was loaded with; on success the version
// advances by one.
func (r *GormCollectionPaymentRepository) SaveWithLock(ctx context.Context, payment *collection.CollectionPayment) error {
	result := r.db.WithContext(ctx).
		Model(&models.CollectionPaymentModel{}).
		Where("id = ? AND version = ?", payment.ID, payment.Version).
		Updates(map[string]interface{}{
			"receipt_number":  payment.ReceiptNumber,
			"amount":          payment.Amount,
			"late_fee":        payment.LateFee,
			"total_amount":    payment.TotalAmount,
			"due_date_start":  payment.DueDateStart,
			"due_date_end":    payment.DueDateEnd,
			"paid_date":       payment.PaidDate,
			"collection_date": payment.CollectionDate,
			"delay_duration":  payment.DelayDuration,
			"delay_reason":    payment.DelayReason,
			"version":         payment.Version + 1,
			"updated_at":      payment.UpdatedAt,
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

// ExistsByPaymentNumber checks if a payment number is already taken
func (r *GormCollectionPaymentRepository) ExistsByPaymentNumber(ctx context.Context, paymentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CollectionPaymentModel{}).
		Where("payment_number = ?", paymentNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePaymentNumber generates the next year-scoped payment number
func (r *GormCollectionPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	return nextSequenceNumber(ctx, r.db, &models.CollectionPaymentModel{}, "payment_number",
		prefixCollectionPayment, time.Now().Year(), seqWidthPayment)
}

// GenerateReceiptNumber generates the next year-scoped receipt number
func (r *GormCollectionPaymentRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	return nextSequenceNumber(ctx, r.db, &models.CollectionPaymentModel{}, "receipt_number",
		prefixReceipt, time.Now().Year(), seqWidthPayment)
}

// find applies ordering and pagination and maps the rows to domain aggregates.
func (r *GormCollectionPaymentRepository) find(query *gorm.DB, filter collection.Filter) ([]collection.CollectionPayment, error) {
	query = applySort(query, filter.OrderBy, filter.OrderDir, collectionSortColumns, "due_date_start ASC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.CollectionPaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]collection.CollectionPayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// applyFilter applies filter options to the query
func (r *GormCollectionPaymentRepository) applyFilter(query *gorm.DB, filter collection.Filter) *gorm.DB {
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.MonthYear != nil {
		query = query.Where("month_year = ?", *filter.MonthYear)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date_start >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date_start <= ?", *filter.DueTo)
	}
	return query
}

// collectionSortColumns is the whitelist of sortable columns.
var collectionSortColumns = map[string]bool{
	"created_at":     true,
	"due_date_start": true,
	"payment_number": true,
	"total_amount":   true,
	"month_year":     true,
}

// Ensure GormCollectionPaymentRepository implements CollectionPaymentRepository
var _ collection.CollectionPaymentRepository = (*GormCollectionPaymentRepository)(nil)
