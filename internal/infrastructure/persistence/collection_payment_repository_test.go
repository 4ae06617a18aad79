package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/shared/valueobject"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// evalNow is the pinned evaluation instant shared by the status filter tests.
var evalNow = time.Date(2026, 8, 31, 11, 30, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database for testing.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey,
// the same behavior the postgres driver provides in production.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CollectionPaymentModel{},
		&models.SupplyPaymentModel{},
		&models.SettingModel{},
		&models.LedgerEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestPayment(t *testing.T, paymentNumber string, dueDateStart time.Time) *collection.CollectionPayment {
	t.Helper()
	cp, err := collection.NewCollectionPayment(
		paymentNumber,
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		valueobject.NewMoneySARFromFloat(2500),
		valueobject.ZeroSAR(),
		dueDateStart, dueDateStart.AddDate(0, 0, 5),
		evalNow,
	)
	require.NoError(t, err)
	return cp
}

func TestCollectionPaymentRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	t.Run("saves and reloads a payment", func(t *testing.T) {
		cp := newTestPayment(t, "PAY-2026-000101", evalNow.AddDate(0, 0, 10))
		require.NoError(t, repo.Save(ctx, cp))

		found, err := repo.FindByID(ctx, cp.ID)
		require.NoError(t, err)
		assert.Equal(t, cp.ID, found.ID)
		assert.Equal(t, "PAY-2026-000101", found.PaymentNumber)
		assert.Equal(t, "09-2026", found.MonthYear)
		assert.True(t, found.TotalAmount.Equal(cp.TotalAmount))
		assert.Equal(t, 1, found.Version)

		byNumber, err := repo.FindByPaymentNumber(ctx, "PAY-2026-000101")
		require.NoError(t, err)
		assert.Equal(t, cp.ID, byNumber.ID)
	})

	t.Run("returns NOT_FOUND for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, shared.IsCode(err, "NOT_FOUND"))
	})

	t.Run("duplicate payment number surfaces as sequence conflict", func(t *testing.T) {
		first := newTestPayment(t, "PAY-2026-000102", evalNow)
		require.NoError(t, repo.Save(ctx, first))

		second := newTestPayment(t, "PAY-2026-000102", evalNow)
		err := repo.Save(ctx, second)
		assert.True(t, shared.IsCode(err, "SEQUENCE_CONFLICT"))
	})
}

func TestCollectionPaymentRepository_SequenceNumbers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	t.Run("starts at one and zero-pads to six digits", func(t *testing.T) {
		number, err := repo.GeneratePaymentNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PAY-%d-000001", year), number)
	})

	t.Run("advances past the highest stored number", func(t *testing.T) {
		cp := newTestPayment(t, fmt.Sprintf("PAY-%d-000041", year), evalNow)
		require.NoError(t, repo.Save(ctx, cp))

		number, err := repo.GeneratePaymentNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PAY-%d-000042", year), number)
	})

	t.Run("previous years do not leak into the current scope", func(t *testing.T) {
		old := newTestPayment(t, fmt.Sprintf("PAY-%d-999999", year-1), evalNow)
		require.NoError(t, repo.Save(ctx, old))

		number, err := repo.GeneratePaymentNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PAY-%d-000042", year), number)
	})

	t.Run("receipt numbers run on their own sequence", func(t *testing.T) {
		number, err := repo.GenerateReceiptNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("REC-%d-000001", year), number)
	})
}

func TestCollectionPaymentRepository_OptimisticLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	cp := newTestPayment(t, "PAY-2026-000201", evalNow.AddDate(0, 0, 3))
	require.NoError(t, repo.Save(ctx, cp))

	first, err := repo.FindByID(ctx, cp.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, cp.ID)
	require.NoError(t, err)

	t.Run("save advances the version", func(t *testing.T) {
		require.NoError(t, first.SetAmounts(valueobject.NewMoneySARFromFloat(3000), valueobject.ZeroSAR()))
		require.NoError(t, repo.SaveWithLock(ctx, first))
		assert.Equal(t, 2, first.Version)

		reloaded, err := repo.FindByID(ctx, cp.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.Version)
		assert.True(t, reloaded.Amount.Equal(first.Amount))
	})

	t.Run("stale copy is rejected", func(t *testing.T) {
		require.NoError(t, second.SetAmounts(valueobject.NewMoneySARFromFloat(100), valueobject.ZeroSAR()))
		err := repo.SaveWithLock(ctx, second)
		assert.True(t, shared.IsCode(err, "CONCURRENCY_CONFLICT"))

		reloaded, err := repo.FindByID(ctx, cp.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Amount.Equal(first.Amount), "losing write must not land")
	})
}

// TestCollectionPaymentRepository_StatusFilterMatchesEvaluator seeds payments
// across the interesting due-date offsets in every marker combination, then
// checks that for each status the set FindByStatus returns is exactly the set
// the row evaluator classifies into that status. Run for two grace periods so
// the boundary between DUE and OVERDUE actually moves.
func TestCollectionPaymentRepository_StatusFilterMatchesEvaluator(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	dueOffsets := []int{-30, -10, -8, -7, -6, -3, -1, 0, 1, 3, 10}
	seq := 0
	for _, offset := range dueOffsets {
		for _, variant := range []string{"plain", "postponed", "collected"} {
			seq++
			cp := newTestPayment(t, fmt.Sprintf("PAY-2026-9%05d", seq), evalNow.AddDate(0, 0, offset))
			switch variant {
			case "postponed":
				require.NoError(t, cp.Postpone(5, "tenant travelling"))
			case "collected":
				require.NoError(t, cp.MarkCollected(evalNow, fmt.Sprintf("REC-2026-9%05d", seq)))
			}
			require.NoError(t, repo.Save(ctx, cp))
		}
	}

	wide := collection.Filter{Filter: shared.Filter{Page: 1, PageSize: 100}}
	all, err := repo.FindAll(ctx, wide)
	require.NoError(t, err)
	require.Len(t, all, len(dueOffsets)*3)

	for _, graceDays := range []int{7, 3} {
		t.Run(fmt.Sprintf("grace_%d_days", graceDays), func(t *testing.T) {
			expected := make(map[collection.CollectionStatus]map[uuid.UUID]bool)
			for _, status := range collection.AllStatuses() {
				expected[status] = make(map[uuid.UUID]bool)
			}
			for i := range all {
				expected[all[i].StatusAt(evalNow, graceDays)][all[i].ID] = true
			}

			for _, status := range collection.AllStatuses() {
				rows, err := repo.FindByStatus(ctx, status, evalNow, graceDays, wide)
				require.NoError(t, err)

				got := make(map[uuid.UUID]bool, len(rows))
				for i := range rows {
					got[rows[i].ID] = true
					assert.Equal(t, status, rows[i].StatusAt(evalNow, graceDays),
						"row returned for %s must evaluate to %s", status, status)
				}
				assert.Equal(t, expected[status], got, "set mismatch for status %s", status)

				count, err := repo.CountByStatus(ctx, status, evalNow, graceDays, collection.Filter{})
				require.NoError(t, err)
				assert.Equal(t, int64(len(expected[status])), count)
			}

			counts, err := repo.StatusCounts(ctx, evalNow, graceDays)
			require.NoError(t, err)
			var sum int64
			for _, c := range counts {
				sum += c
			}
			assert.Equal(t, int64(len(all)), sum, "status counts must partition the table")
		})
	}
}

// A postponed installment is postponed immediately, not only once its due date
// arrives. Both query paths must agree on that.
func TestCollectionPaymentRepository_PostponedVisibleBeforeDueDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	cp := newTestPayment(t, "PAY-2026-000301", evalNow.AddDate(0, 0, 14))
	require.NoError(t, cp.Postpone(10, "owner requested deferral"))
	require.NoError(t, repo.Save(ctx, cp))

	wide := collection.Filter{Filter: shared.Filter{Page: 1, PageSize: 100}}

	postponed, err := repo.FindByStatus(ctx, collection.StatusPostponed, evalNow, 7, wide)
	require.NoError(t, err)
	require.Len(t, postponed, 1)
	assert.Equal(t, cp.ID, postponed[0].ID)

	upcoming, err := repo.FindByStatus(ctx, collection.StatusUpcoming, evalNow, 7, wide)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	assert.Equal(t, collection.StatusPostponed, cp.StatusAt(evalNow, 7))
}

func TestCollectionPaymentRepository_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	for i := 0; i < 3; i++ {
		cp := newTestPayment(t, fmt.Sprintf("PAY-2026-0004%02d", i), evalNow.AddDate(0, 0, 30*i))
		cp.TenantID = tenantID
		require.NoError(t, repo.Save(ctx, cp))
	}
	other := newTestPayment(t, "PAY-2026-000499", evalNow)
	require.NoError(t, repo.Save(ctx, other))

	t.Run("filters by tenant", func(t *testing.T) {
		filter := collection.Filter{Filter: shared.Filter{Page: 1, PageSize: 100}, TenantID: &tenantID}
		rows, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, rows, 3)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("filters by billing period", func(t *testing.T) {
		period := "10-2026"
		filter := collection.Filter{Filter: shared.Filter{Page: 1, PageSize: 100}, MonthYear: &period}
		rows, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, period, rows[0].MonthYear)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := collection.Filter{Filter: shared.Filter{Page: 1, PageSize: 2, OrderBy: "payment_number", OrderDir: "asc"}, TenantID: &tenantID}
		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page1, 2)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})
}
