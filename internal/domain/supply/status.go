package supply

import (
	"strings"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
)

// SupplyStatus is the derived lifecycle state of a supply payment. Like the
// collection side it is never stored; it is a function of the paid marker and
// the due date at the evaluation instant. There is no grace period and no
// postponement on this pipeline.
type SupplyStatus string

const (
	StatusCollected       SupplyStatus = "collected"
	StatusWorthCollecting SupplyStatus = "worth_collecting"
	StatusPending         SupplyStatus = "pending"
)

// AllStatuses returns every supply status in rule order.
func AllStatuses() []SupplyStatus {
	statuses := make([]SupplyStatus, 0, len(statusRules))
	for _, rule := range statusRules {
		statuses = append(statuses, rule.status)
	}
	return statuses
}

// IsValid checks if the status is a valid SupplyStatus
func (s SupplyStatus) IsValid() bool {
	switch s {
	case StatusCollected, StatusWorthCollecting, StatusPending:
		return true
	}
	return false
}

// String returns the string representation of SupplyStatus
func (s SupplyStatus) String() string {
	return string(s)
}

// IsTerminal returns true for the one terminal state
func (s SupplyStatus) IsTerminal() bool {
	return s == StatusCollected
}

type statusFields struct {
	PaidDate *time.Time
	DueDate  time.Time
}

type predicate struct {
	matches func(f statusFields, today time.Time) bool
	sql     func(today time.Time) (string, []any)
	negSQL  func(today time.Time) (string, []any)
}

type statusRule struct {
	status SupplyStatus
	when   predicate
}

// statusRules is the ordered rule table for supply payments. Same
// construction as the collection side: one table drives both the row
// evaluator and the compiled storage predicates.
var statusRules = []statusRule{
	{
		status: StatusCollected,
		when: predicate{
			matches: func(f statusFields, _ time.Time) bool {
				return f.PaidDate != nil
			},
			sql: func(_ time.Time) (string, []any) {
				return "paid_date IS NOT NULL", nil
			},
			negSQL: func(_ time.Time) (string, []any) {
				return "paid_date IS NULL", nil
			},
		},
	},
	{
		status: StatusWorthCollecting,
		when: predicate{
			matches: func(f statusFields, today time.Time) bool {
				return !shared.DateOnly(f.DueDate).After(today)
			},
			sql: func(today time.Time) (string, []any) {
				return "due_date <= ?", []any{today}
			},
			negSQL: func(today time.Time) (string, []any) {
				return "due_date > ?", []any{today}
			},
		},
	},
	{
		status: StatusPending,
		when: predicate{
			matches: func(_ statusFields, _ time.Time) bool {
				return true
			},
			sql: func(_ time.Time) (string, []any) {
				return "1 = 1", nil
			},
			negSQL: func(_ time.Time) (string, []any) {
				return "1 = 0", nil
			},
		},
	},
}

func deriveStatus(f statusFields, now time.Time) SupplyStatus {
	today := shared.DateOnly(now)
	for _, rule := range statusRules {
		if rule.when.matches(f, today) {
			return rule.status
		}
	}
	return StatusPending
}

// StatusClause compiles the storage-level filter equivalent to status at the
// given instant: the rule's own condition AND the negation of every rule
// ahead of it in the table.
func StatusClause(status SupplyStatus, now time.Time) (string, []any, error) {
	today := shared.DateOnly(now)
	var parts []string
	var args []any
	for _, rule := range statusRules {
		if rule.status == status {
			sql, sqlArgs := rule.when.sql(today)
			parts = append(parts, sql)
			args = append(args, sqlArgs...)
			return strings.Join(parts, " AND "), args, nil
		}
		neg, negArgs := rule.when.negSQL(today)
		parts = append(parts, neg)
		args = append(args, negArgs...)
	}
	return "", nil, shared.NewDomainError("INVALID_INPUT", "Unknown supply payment status: "+string(status))
}
