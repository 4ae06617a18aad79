package settings

import (
	"context"
	"time"
)

// Well-known configuration keys.
const (
	// KeyPaymentDueDays is the grace period in days after due_date_start
	// before a collection payment classifies as overdue.
	KeyPaymentDueDays = "payment_due_days"

	// KeyDefaultCommissionRate is the fallback commission rate applied to
	// supply payments when a request does not carry one.
	KeyDefaultCommissionRate = "default_commission_rate"
)

// Defaults applied when a key has never been written.
const (
	DefaultPaymentDueDays    = 7
	DefaultCommissionRate    = "0.05"
	DefaultCommissionRateKey = KeyDefaultCommissionRate
)

// Setting is a single global, mutable configuration entry.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the persistence interface for settings.
type Repository interface {
	// Get returns the setting for key, or nil when it has never been written.
	Get(ctx context.Context, key string) (*Setting, error)

	// Set writes the setting, creating it when absent.
	Set(ctx context.Context, key, value string) error

	// All returns every stored setting.
	All(ctx context.Context) ([]Setting, error)
}

// Cache is the invalidation-capable cache the store reads through.
// Implementations must make Delete visible before returning: a grace-period
// change that is still readable from cache after Set returns changes which
// payments classify as overdue, which is a correctness bug, not a staleness
// nuisance.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Must be synchronous.
	Delete(ctx context.Context, key string) error
}

// Store is what the rule engine and services consume. Reads are cached;
// writes invalidate synchronously so no reader observes a stale value after
// Set returns.
type Store interface {
	// GetString returns the value for key, or fallback when unset.
	GetString(ctx context.Context, key, fallback string) (string, error)

	// GetInt returns the value for key parsed as a non-negative integer, or
	// fallback when unset. Negative or non-numeric stored values surface as
	// INVALID_CONFIGURATION.
	GetInt(ctx context.Context, key string, fallback int) (int, error)

	// Set validates and writes the value, invalidating the cache before
	// returning.
	Set(ctx context.Context, key, value string) error
}
