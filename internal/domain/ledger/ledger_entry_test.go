package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerEntry(t *testing.T) {
	recordedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	t.Run("valid entry", func(t *testing.T) {
		entry, err := NewLedgerEntry("TXN-2026-00000001", EntryCredit, decimal.NewFromInt(1500), "PAY-2026-000042", "Rent collected", recordedAt)
		require.NoError(t, err)
		assert.Equal(t, "TXN-2026-00000001", entry.TransactionNumber)
		assert.Equal(t, EntryCredit, entry.EntryType)
		assert.Equal(t, recordedAt, entry.RecordedAt)
	})

	t.Run("validation failures", func(t *testing.T) {
		_, err := NewLedgerEntry("", EntryCredit, decimal.NewFromInt(1), "PAY-2026-000001", "", recordedAt)
		assert.Error(t, err)
		_, err = NewLedgerEntry("TXN-2026-00000001", EntryType("TRANSFER"), decimal.NewFromInt(1), "PAY-2026-000001", "", recordedAt)
		assert.Error(t, err)
		_, err = NewLedgerEntry("TXN-2026-00000001", EntryDebit, decimal.NewFromInt(-1), "PAY-2026-000001", "", recordedAt)
		assert.Error(t, err)
		_, err = NewLedgerEntry("TXN-2026-00000001", EntryDebit, decimal.NewFromInt(1), "", "", recordedAt)
		assert.Error(t, err)
	})
}
