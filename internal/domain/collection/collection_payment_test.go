package collection

import (
	"testing"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"github.com/aqarcrm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayment(t *testing.T) *CollectionPayment {
	cp, err := NewCollectionPayment(
		"PAY-2026-000001",
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		valueobject.NewMoneySARFromFloat(2500.00),
		valueobject.ZeroSAR(),
		evalNow.AddDate(0, 0, -3),
		evalNow.AddDate(0, 0, 27),
		evalNow,
	)
	require.NoError(t, err)
	return cp
}

func createCollectedPayment(t *testing.T) *CollectionPayment {
	cp := createTestPayment(t)
	require.NoError(t, cp.MarkCollected(evalNow, "REC-2026-000001"))
	return cp
}

func TestNewCollectionPayment(t *testing.T) {
	t.Run("valid payment", func(t *testing.T) {
		cp := createTestPayment(t)

		assert.Equal(t, "PAY-2026-000001", cp.PaymentNumber)
		assert.Nil(t, cp.ReceiptNumber)
		assert.Nil(t, cp.CollectionDate)
		assert.Nil(t, cp.PaidDate)
		assert.Zero(t, cp.DelayDuration)
		assert.Len(t, cp.GetDomainEvents(), 1)
	})

	t.Run("total equals amount plus late fee", func(t *testing.T) {
		cp, err := NewCollectionPayment(
			"PAY-2026-000002",
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			valueobject.NewMoneySARFromFloat(2500.00),
			valueobject.NewMoneySARFromFloat(125.50),
			evalNow, evalNow.AddDate(0, 1, 0),
			evalNow,
		)
		require.NoError(t, err)
		assert.True(t, cp.TotalAmount.Equal(decimal.NewFromFloat(2625.50)))
	})

	t.Run("zero late fee defaults total to amount", func(t *testing.T) {
		cp := createTestPayment(t)
		assert.True(t, cp.TotalAmount.Equal(cp.Amount))
	})

	t.Run("month year derived from due date start", func(t *testing.T) {
		start := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
		cp, err := NewCollectionPayment(
			"PAY-2026-000003",
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			valueobject.NewMoneySARFromFloat(1000),
			valueobject.ZeroSAR(),
			start, start.AddDate(0, 1, -1),
			evalNow,
		)
		require.NoError(t, err)
		assert.Equal(t, "03-2026", cp.MonthYear)
	})

	t.Run("dates truncated to day granularity", func(t *testing.T) {
		cp := createTestPayment(t)
		assert.Equal(t, 0, cp.DueDateStart.Hour())
		assert.Equal(t, 0, cp.DueDateStart.Minute())
	})

	t.Run("validation failures", func(t *testing.T) {
		amount := valueobject.NewMoneySARFromFloat(1000)
		fee := valueobject.ZeroSAR()
		start := evalNow
		end := evalNow.AddDate(0, 1, 0)

		_, err := NewCollectionPayment("", uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, fee, start, end, evalNow)
		assert.Error(t, err)

		_, err = NewCollectionPayment("PAY-2026-000004", uuid.Nil, uuid.New(), uuid.New(), uuid.New(), amount, fee, start, end, evalNow)
		assert.Error(t, err)

		_, err = NewCollectionPayment("PAY-2026-000004", uuid.New(), uuid.New(), uuid.New(), uuid.New(), valueobject.NewMoneySARFromFloat(-1), fee, start, end, evalNow)
		assert.Error(t, err)

		_, err = NewCollectionPayment("PAY-2026-000004", uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, fee, time.Time{}, end, evalNow)
		assert.Error(t, err)

		_, err = NewCollectionPayment("PAY-2026-000004", uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, fee, end, start, evalNow)
		assert.Error(t, err)
	})
}

func TestCollectionPayment_SetAmounts(t *testing.T) {
	t.Run("recomputes total on every update", func(t *testing.T) {
		cp := createTestPayment(t)

		err := cp.SetAmounts(valueobject.NewMoneySARFromFloat(3000), valueobject.NewMoneySARFromFloat(150))
		require.NoError(t, err)
		assert.True(t, cp.TotalAmount.Equal(decimal.NewFromFloat(3150)))

		err = cp.ApplyLateFee(valueobject.NewMoneySARFromFloat(300))
		require.NoError(t, err)
		assert.True(t, cp.TotalAmount.Equal(decimal.NewFromFloat(3300)))
	})

	t.Run("rejects negative amounts without mutating total", func(t *testing.T) {
		cp := createTestPayment(t)
		before := cp.TotalAmount

		err := cp.SetAmounts(valueobject.NewMoneySARFromFloat(-10), valueobject.ZeroSAR())
		assert.Error(t, err)
		assert.True(t, cp.TotalAmount.Equal(before))
	})

	t.Run("rejected on collected payment", func(t *testing.T) {
		cp := createCollectedPayment(t)
		err := cp.SetAmounts(valueobject.NewMoneySARFromFloat(1), valueobject.ZeroSAR())
		require.Error(t, err)
		assertIllegalTransition(t, err)
	})
}

func TestCollectionPayment_Reschedule(t *testing.T) {
	cp := createTestPayment(t)
	originalMonthYear := cp.MonthYear

	newStart := evalNow.AddDate(0, 2, 0)
	err := cp.Reschedule(newStart, newStart.AddDate(0, 1, -1))
	require.NoError(t, err)

	// MonthYear pins the original billing period
	assert.Equal(t, originalMonthYear, cp.MonthYear)
}

func TestCollectionPayment_Postpone(t *testing.T) {
	t.Run("grants delay without touching collection marker", func(t *testing.T) {
		cp := createTestPayment(t)

		err := cp.Postpone(5, "tenant travelling")
		require.NoError(t, err)

		assert.Equal(t, 5, cp.DelayDuration)
		assert.Equal(t, "tenant travelling", cp.DelayReason)
		assert.Nil(t, cp.CollectionDate)
		assert.Equal(t, StatusPostponed, cp.StatusAt(evalNow, 7))
	})

	t.Run("rejected when already postponed", func(t *testing.T) {
		cp := createTestPayment(t)
		require.NoError(t, cp.Postpone(5, "first"))

		err := cp.Postpone(3, "second")
		require.Error(t, err)
		assertIllegalTransition(t, err)
		assert.Equal(t, 5, cp.DelayDuration)
	})

	t.Run("rejected when already collected", func(t *testing.T) {
		cp := createCollectedPayment(t)

		err := cp.Postpone(3, "late")
		require.Error(t, err)
		assertIllegalTransition(t, err)
	})

	t.Run("rejects non-positive days and missing reason", func(t *testing.T) {
		cp := createTestPayment(t)
		assert.Error(t, cp.Postpone(0, "reason"))
		assert.Error(t, cp.Postpone(-3, "reason"))
		assert.Error(t, cp.Postpone(3, ""))
	})
}

func TestCollectionPayment_MarkCollected(t *testing.T) {
	t.Run("sets both lifecycle markers and receipt", func(t *testing.T) {
		cp := createTestPayment(t)

		err := cp.MarkCollected(evalNow, "REC-2026-000042")
		require.NoError(t, err)

		require.NotNil(t, cp.CollectionDate)
		require.NotNil(t, cp.PaidDate)
		assert.Equal(t, evalNow, *cp.CollectionDate)
		assert.Equal(t, evalNow, *cp.PaidDate)
		require.NotNil(t, cp.ReceiptNumber)
		assert.Equal(t, "REC-2026-000042", *cp.ReceiptNumber)
		assert.Equal(t, StatusCollected, cp.StatusAt(evalNow, 7))
	})

	t.Run("terminal: second collection rejected", func(t *testing.T) {
		cp := createCollectedPayment(t)

		err := cp.MarkCollected(evalNow, "REC-2026-000099")
		require.Error(t, err)
		assertIllegalTransition(t, err)
		assert.Equal(t, "REC-2026-000001", *cp.ReceiptNumber)
	})

	t.Run("overrides postponement", func(t *testing.T) {
		cp := createTestPayment(t)
		require.NoError(t, cp.Postpone(5, "tenant travelling"))
		require.NoError(t, cp.MarkCollected(evalNow, "REC-2026-000002"))
		assert.Equal(t, StatusCollected, cp.StatusAt(evalNow, 7))
	})
}

func TestCollectionPayment_StatusAt(t *testing.T) {
	t.Run("idempotent on unmutated record", func(t *testing.T) {
		cp := createTestPayment(t)
		assert.Equal(t, cp.StatusAt(evalNow, 7), cp.StatusAt(evalNow, 7))
	})

	t.Run("grace change re-evaluates immediately", func(t *testing.T) {
		cp, err := NewCollectionPayment(
			"PAY-2026-000010",
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			valueobject.NewMoneySARFromFloat(1000),
			valueobject.ZeroSAR(),
			evalNow.AddDate(0, 0, -5), evalNow.AddDate(0, 0, 25),
			evalNow,
		)
		require.NoError(t, err)

		assert.Equal(t, StatusDue, cp.StatusAt(evalNow, 7))
		assert.Equal(t, StatusOverdue, cp.StatusAt(evalNow, 3))
	})
}

// All guard rejections carry the ILLEGAL_TRANSITION code.
func assertIllegalTransition(t *testing.T, err error) {
	t.Helper()
	assert.True(t, shared.IsCode(err, "ILLEGAL_TRANSITION"), "expected ILLEGAL_TRANSITION, got %v", err)
}
