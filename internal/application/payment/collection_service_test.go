package payment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aqarcrm/backend/internal/domain/collection"
	"github.com/aqarcrm/backend/internal/domain/ledger"
	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, 8, 31, 11, 30, 0, 0, time.UTC)

// fakeCollectionRepo is an in-memory CollectionPaymentRepository. Status
// filtering is evaluated through the row evaluator, which is good enough for
// service-level tests; the storage predicates are covered by the repository
// tests.
type fakeCollectionRepo struct {
	payments   map[uuid.UUID]*collection.CollectionPayment
	paySeq     int
	receiptSeq int
	saveErrs   []error // popped on each Save, for conflict injection
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{payments: make(map[uuid.UUID]*collection.CollectionPayment)}
}

func (r *fakeCollectionRepo) FindByID(_ context.Context, id uuid.UUID) (*collection.CollectionPayment, error) {
	cp, ok := r.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cp, nil
}

func (r *fakeCollectionRepo) FindByPaymentNumber(_ context.Context, paymentNumber string) (*collection.CollectionPayment, error) {
	for _, cp := range r.payments {
		if cp.PaymentNumber == paymentNumber {
			return cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCollectionRepo) FindAll(_ context.Context, _ collection.Filter) ([]collection.CollectionPayment, error) {
	out := make([]collection.CollectionPayment, 0, len(r.payments))
	for _, cp := range r.payments {
		out = append(out, *cp)
	}
	return out, nil
}

func (r *fakeCollectionRepo) FindByStatus(_ context.Context, status collection.CollectionStatus, now time.Time, graceDays int, _ collection.Filter) ([]collection.CollectionPayment, error) {
	var out []collection.CollectionPayment
	for _, cp := range r.payments {
		if cp.StatusAt(now, graceDays) == status {
			out = append(out, *cp)
		}
	}
	return out, nil
}

func (r *fakeCollectionRepo) Count(_ context.Context, _ collection.Filter) (int64, error) {
	return int64(len(r.payments)), nil
}

func (r *fakeCollectionRepo) CountByStatus(ctx context.Context, status collection.CollectionStatus, now time.Time, graceDays int, filter collection.Filter) (int64, error) {
	matched, err := r.FindByStatus(ctx, status, now, graceDays, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *fakeCollectionRepo) StatusCounts(ctx context.Context, now time.Time, graceDays int) (map[collection.CollectionStatus]int64, error) {
	counts := make(map[collection.CollectionStatus]int64)
	for _, status := range collection.AllStatuses() {
		n, err := r.CountByStatus(ctx, status, now, graceDays, collection.Filter{})
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

func (r *fakeCollectionRepo) Save(_ context.Context, cp *collection.CollectionPayment) error {
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	r.payments[cp.ID] = cp
	return nil
}

func (r *fakeCollectionRepo) SaveWithLock(_ context.Context, cp *collection.CollectionPayment) error {
	r.payments[cp.ID] = cp
	return nil
}

func (r *fakeCollectionRepo) ExistsByPaymentNumber(_ context.Context, paymentNumber string) (bool, error) {
	for _, cp := range r.payments {
		if cp.PaymentNumber == paymentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCollectionRepo) GeneratePaymentNumber(_ context.Context) (string, error) {
	r.paySeq++
	return fmt.Sprintf("PAY-2026-%06d", r.paySeq), nil
}

func (r *fakeCollectionRepo) GenerateReceiptNumber(_ context.Context) (string, error) {
	r.receiptSeq++
	return fmt.Sprintf("REC-2026-%06d", r.receiptSeq), nil
}

// fakeLedgerRepo is an in-memory LedgerRepository.
type fakeLedgerRepo struct {
	entries []ledger.LedgerEntry
	txnSeq  int
}

func (r *fakeLedgerRepo) Record(_ context.Context, entry *ledger.LedgerEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.LedgerEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return &r.entries[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLedgerRepo) FindByReference(_ context.Context, reference string) ([]ledger.LedgerEntry, error) {
	var out []ledger.LedgerEntry
	for _, e := range r.entries {
		if e.Reference == reference {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) GenerateTransactionNumber(_ context.Context) (string, error) {
	r.txnSeq++
	return fmt.Sprintf("TXN-2026-%08d", r.txnSeq), nil
}

// fakeStore is a map-backed settings.Store.
type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) GetString(_ context.Context, key, fallback string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (s *fakeStore) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	raw, err := s.GetString(ctx, key, fmt.Sprintf("%d", fallback))
	if err != nil {
		return 0, err
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, shared.ErrInvalidConfiguration
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

type collectionFixture struct {
	service *CollectionPaymentService
	repo    *fakeCollectionRepo
	ledger  *fakeLedgerRepo
	store   *fakeStore
}

func newCollectionFixture() collectionFixture {
	repo := newFakeCollectionRepo()
	ledgerRepo := &fakeLedgerRepo{}
	store := newFakeStore()
	service := NewCollectionPaymentService(
		repo,
		store,
		NewNoOpTransactionScope(repo, ledgerRepo),
		WithCollectionClock(shared.NewFixedClock(evalNow)),
	)
	return collectionFixture{service: service, repo: repo, ledger: ledgerRepo, store: store}
}

func createRequest(dueDateStart time.Time) CreateCollectionPaymentRequest {
	return CreateCollectionPaymentRequest{
		ContractID:   uuid.New(),
		UnitID:       uuid.New(),
		PropertyID:   uuid.New(),
		TenantID:     uuid.New(),
		Amount:       decimal.NewFromInt(5000),
		LateFee:      decimal.NewFromInt(0),
		DueDateStart: dueDateStart,
		DueDateEnd:   dueDateStart.AddDate(0, 1, 0),
	}
}

func TestCollectionPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("generates number and derives status", func(t *testing.T) {
		f := newCollectionFixture()

		resp, err := f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, 10)))
		require.NoError(t, err)
		assert.Equal(t, "PAY-2026-000001", resp.PaymentNumber)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, collection.StatusUpcoming, resp.Status)
		assert.Equal(t, "09-2026", resp.MonthYear)
	})

	t.Run("retries on number collision", func(t *testing.T) {
		f := newCollectionFixture()
		f.repo.saveErrs = []error{shared.ErrSequenceConflict, shared.ErrSequenceConflict}

		resp, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)
		// Two collisions burned two numbers.
		assert.Equal(t, "PAY-2026-000003", resp.PaymentNumber)
	})

	t.Run("surfaces conflict after bounded retries", func(t *testing.T) {
		f := newCollectionFixture()
		f.repo.saveErrs = []error{shared.ErrSequenceConflict, shared.ErrSequenceConflict, shared.ErrSequenceConflict}

		_, err := f.service.Create(ctx, createRequest(evalNow))
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "SEQUENCE_CONFLICT"))
	})
}

func TestCollectionPaymentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes total", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)

		lateFee := decimal.NewFromInt(250)
		resp, err := f.service.Update(ctx, created.ID, UpdateCollectionPaymentRequest{LateFee: &lateFee})
		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(5250)))
	})

	t.Run("rejected once collected", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)
		_, err = f.service.MarkCollected(ctx, created.ID)
		require.NoError(t, err)

		amount := decimal.NewFromInt(1)
		_, err = f.service.Update(ctx, created.ID, UpdateCollectionPaymentRequest{Amount: &amount})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "ILLEGAL_TRANSITION"))
	})
}

func TestCollectionPaymentService_Postpone(t *testing.T) {
	ctx := context.Background()

	t.Run("grants delay", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, -20)))
		require.NoError(t, err)

		resp, err := f.service.Postpone(ctx, created.ID, PostponeRequest{Days: 14, Reason: "tenant traveling"})
		require.NoError(t, err)
		assert.Equal(t, collection.StatusPostponed, resp.Status)
		assert.Equal(t, 14, resp.DelayDuration)
	})

	t.Run("rejected after collection", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)
		_, err = f.service.MarkCollected(ctx, created.ID)
		require.NoError(t, err)

		_, err = f.service.Postpone(ctx, created.ID, PostponeRequest{Days: 7, Reason: "late"})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "ILLEGAL_TRANSITION"))
	})
}

func TestCollectionPaymentService_MarkCollected(t *testing.T) {
	ctx := context.Background()

	t.Run("generates receipt and records ledger entry once", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)

		resp, err := f.service.MarkCollected(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, collection.StatusCollected, resp.Status)
		require.NotNil(t, resp.ReceiptNumber)
		assert.Equal(t, "REC-2026-000001", *resp.ReceiptNumber)

		require.Len(t, f.ledger.entries, 1)
		entry := f.ledger.entries[0]
		assert.Equal(t, ledger.EntryCredit, entry.EntryType)
		assert.Equal(t, resp.PaymentNumber, entry.Reference)
		assert.True(t, entry.Amount.Equal(resp.TotalAmount))
	})

	t.Run("rejected transition records nothing", func(t *testing.T) {
		f := newCollectionFixture()
		created, err := f.service.Create(ctx, createRequest(evalNow))
		require.NoError(t, err)
		_, err = f.service.MarkCollected(ctx, created.ID)
		require.NoError(t, err)

		_, err = f.service.MarkCollected(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "ILLEGAL_TRANSITION"))
		assert.Len(t, f.ledger.entries, 1)
	})
}

func TestCollectionPaymentService_Delete(t *testing.T) {
	f := newCollectionFixture()
	created, err := f.service.Create(context.Background(), createRequest(evalNow))
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "DELETION_NOT_ALLOWED"))

	// The record is untouched.
	_, err = f.service.Get(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestCollectionPaymentService_GraceChangeTakesEffect(t *testing.T) {
	ctx := context.Background()
	f := newCollectionFixture()

	// Due 5 days ago: inside the default 7-day grace window.
	created, err := f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, -5)))
	require.NoError(t, err)
	assert.Equal(t, collection.StatusDue, created.Status)

	// Tighten the grace period; the very next read reclassifies.
	require.NoError(t, f.store.Set(ctx, "payment_due_days", "3"))
	resp, err := f.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, collection.StatusOverdue, resp.Status)
}

func TestCollectionPaymentService_StatusSummary(t *testing.T) {
	ctx := context.Background()
	f := newCollectionFixture()

	_, err := f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, -20))) // overdue
	require.NoError(t, err)
	_, err = f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, -2))) // due
	require.NoError(t, err)
	_, err = f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, 10))) // upcoming
	require.NoError(t, err)
	collected, err := f.service.Create(ctx, createRequest(evalNow))
	require.NoError(t, err)
	_, err = f.service.MarkCollected(ctx, collected.ID)
	require.NoError(t, err)

	summary, err := f.service.StatusSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(1), summary.Counts[collection.StatusOverdue])
	assert.Equal(t, int64(1), summary.Counts[collection.StatusDue])
	assert.Equal(t, int64(1), summary.Counts[collection.StatusUpcoming])
	assert.Equal(t, int64(1), summary.Counts[collection.StatusCollected])
	assert.Equal(t, int64(0), summary.Counts[collection.StatusPostponed])
}

func TestCollectionPaymentService_ListByStatus(t *testing.T) {
	ctx := context.Background()
	f := newCollectionFixture()

	_, err := f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, -20)))
	require.NoError(t, err)
	_, err = f.service.Create(ctx, createRequest(evalNow.AddDate(0, 0, 10)))
	require.NoError(t, err)

	status := collection.StatusOverdue
	result, err := f.service.List(ctx, collection.Filter{Filter: shared.DefaultFilter()}, &status)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, collection.StatusOverdue, result.Items[0].Status)
	assert.Equal(t, int64(1), result.Total)

	bogus := collection.CollectionStatus("PAID")
	_, err = f.service.List(ctx, collection.Filter{}, &bogus)
	assert.Error(t, err)
}
