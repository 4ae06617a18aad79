package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Document number prefixes. Every generated identifier is
// {PREFIX}-{year}-{zero-padded sequence}.
const (
	prefixCollectionPayment = "PAY"
	prefixReceipt           = "REC"
	prefixSupplyPayment     = "SUP"
	prefixTransaction       = "TXN"

	seqWidthPayment     = 6
	seqWidthTransaction = 8
)

// nextSequenceNumber computes the next year-scoped document number for one
// (prefix, year) pair by scanning the highest existing number in the column.
// Zero padding keeps lexicographic order equal to numeric order, so a string
// DESC scan finds the maximum.
//
// Two concurrent generators can produce the same candidate. The number
// columns carry unique indexes, so the loser fails at insert with a
// duplicate-key error; translateSaveError maps that to SEQUENCE_CONFLICT and
// the service retries with a fresh number.
func nextSequenceNumber(ctx context.Context, db *gorm.DB, model any, column, prefix string, year, width int) (string, error) {
	scope := fmt.Sprintf("%s-%d-", prefix, year)

	var last sql.NullString
	err := db.WithContext(ctx).
		Model(model).
		Select(column).
		Where(column+" LIKE ?", scope+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	next := int64(1)
	if last.Valid && last.String != "" {
		parts := strings.Split(last.String, "-")
		if len(parts) == 3 {
			var n int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &n); parseErr == nil {
				next = n + 1
			}
		}
	}

	return fmt.Sprintf("%s%0*d", scope, width, next), nil
}

// translateSaveError maps duplicate-key violations on generated number
// columns to the retryable sequence conflict error.
func translateSaveError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrSequenceConflict
	}
	return err
}
