package collection

import (
	"strings"
	"time"

	"github.com/aqarcrm/backend/internal/domain/shared"
)

// CollectionStatus is the derived lifecycle state of a collection payment.
// It is never stored; it is a function of the record's dates, the delay
// marker and the configured grace period at the evaluation instant.
type CollectionStatus string

const (
	StatusCollected CollectionStatus = "COLLECTED"
	StatusPostponed CollectionStatus = "POSTPONED"
	StatusOverdue   CollectionStatus = "OVERDUE"
	StatusDue       CollectionStatus = "DUE"
	StatusUpcoming  CollectionStatus = "UPCOMING"
)

// AllStatuses returns every collection status in rule order.
func AllStatuses() []CollectionStatus {
	statuses := make([]CollectionStatus, 0, len(statusRules))
	for _, rule := range statusRules {
		statuses = append(statuses, rule.status)
	}
	return statuses
}

// IsValid checks if the status is a valid CollectionStatus
func (s CollectionStatus) IsValid() bool {
	switch s {
	case StatusCollected, StatusPostponed, StatusOverdue, StatusDue, StatusUpcoming:
		return true
	}
	return false
}

// String returns the string representation of CollectionStatus
func (s CollectionStatus) String() string {
	return string(s)
}

// IsTerminal returns true for the one terminal state
func (s CollectionStatus) IsTerminal() bool {
	return s == StatusCollected
}

// statusFields is the field set status derivation reads from a payment.
type statusFields struct {
	CollectionDate *time.Time
	DelayDuration  int
	DueDateStart   time.Time
}

// predicate is one elementary condition expressed in both evaluation forms:
// a row-level match function and a storage-level SQL fragment. The negated
// SQL form is spelled out explicitly because NOT over nullable columns does
// not round-trip mechanically (NOT delay_duration > 0 must keep NULL rows).
type predicate struct {
	matches func(f statusFields, today time.Time, graceDays int) bool
	sql     func(today time.Time, graceDays int) (string, []any)
	negSQL  func(today time.Time, graceDays int) (string, []any)
}

// statusRule binds a status to its positive condition. The full filter for a
// status is compiled as the conjunction of this rule's condition with the
// negation of every rule ahead of it, which is exactly what "first match
// wins" means for the row evaluator. Declaring the table once keeps the two
// evaluation paths from drifting apart.
type statusRule struct {
	status CollectionStatus
	when   predicate
}

// graceCutoff is the oldest due date that is still inside the grace window.
func graceCutoff(today time.Time, graceDays int) time.Time {
	return today.AddDate(0, 0, -graceDays)
}

// statusRules is the ordered rule table for collection payments.
//
// Postponement is visible regardless of the due date: a future-dated
// installment with a granted delay classifies as POSTPONED in both the row
// evaluator and the set-level filter. The alternative (postponed only from
// the due date onward) would have made the two forms disagree for
// future-dated postponed installments.
var statusRules = []statusRule{
	{
		status: StatusCollected,
		when: predicate{
			matches: func(f statusFields, _ time.Time, _ int) bool {
				return f.CollectionDate != nil
			},
			sql: func(_ time.Time, _ int) (string, []any) {
				return "collection_date IS NOT NULL", nil
			},
			negSQL: func(_ time.Time, _ int) (string, []any) {
				return "collection_date IS NULL", nil
			},
		},
	},
	{
		status: StatusPostponed,
		when: predicate{
			matches: func(f statusFields, _ time.Time, _ int) bool {
				return f.DelayDuration > 0
			},
			sql: func(_ time.Time, _ int) (string, []any) {
				return "delay_duration > 0", nil
			},
			negSQL: func(_ time.Time, _ int) (string, []any) {
				return "(delay_duration IS NULL OR delay_duration <= 0)", nil
			},
		},
	},
	{
		status: StatusOverdue,
		when: predicate{
			matches: func(f statusFields, today time.Time, graceDays int) bool {
				return shared.DateOnly(f.DueDateStart).Before(graceCutoff(today, graceDays))
			},
			sql: func(today time.Time, graceDays int) (string, []any) {
				return "due_date_start < ?", []any{graceCutoff(today, graceDays)}
			},
			negSQL: func(today time.Time, graceDays int) (string, []any) {
				return "due_date_start >= ?", []any{graceCutoff(today, graceDays)}
			},
		},
	},
	{
		status: StatusDue,
		when: predicate{
			matches: func(f statusFields, today time.Time, _ int) bool {
				return !shared.DateOnly(f.DueDateStart).After(today)
			},
			sql: func(today time.Time, _ int) (string, []any) {
				return "due_date_start <= ?", []any{today}
			},
			negSQL: func(today time.Time, _ int) (string, []any) {
				return "due_date_start > ?", []any{today}
			},
		},
	},
	{
		status: StatusUpcoming,
		when: predicate{
			matches: func(_ statusFields, _ time.Time, _ int) bool {
				return true
			},
			sql: func(_ time.Time, _ int) (string, []any) {
				return "1 = 1", nil
			},
			negSQL: func(_ time.Time, _ int) (string, []any) {
				return "1 = 0", nil
			},
		},
	},
}

// deriveStatus evaluates the rule table against one record, first match wins.
func deriveStatus(f statusFields, now time.Time, graceDays int) CollectionStatus {
	today := shared.DateOnly(now)
	for _, rule := range statusRules {
		if rule.when.matches(f, today, graceDays) {
			return rule.status
		}
	}
	// The last rule matches unconditionally.
	return StatusUpcoming
}

// StatusClause compiles the storage-level filter equivalent to status at the
// given instant: the rule's own condition AND the negation of every rule
// ahead of it in the table. The returned fragment uses ? placeholders and is
// portable across the supported dialects.
func StatusClause(status CollectionStatus, now time.Time, graceDays int) (string, []any, error) {
	today := shared.DateOnly(now)
	var parts []string
	var args []any
	for _, rule := range statusRules {
		if rule.status == status {
			sql, sqlArgs := rule.when.sql(today, graceDays)
			parts = append(parts, sql)
			args = append(args, sqlArgs...)
			return strings.Join(parts, " AND "), args, nil
		}
		neg, negArgs := rule.when.negSQL(today, graceDays)
		parts = append(parts, neg)
		args = append(args, negArgs...)
	}
	return "", nil, shared.NewDomainError("INVALID_INPUT", "Unknown collection payment status: "+string(status))
}
