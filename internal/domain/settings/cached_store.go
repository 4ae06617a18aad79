package settings

import (
	"context"
	"strconv"

	"github.com/aqarcrm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CachedStore is the read-through Store implementation:
// 1. check cache
// 2. on miss, fetch from repository and populate cache
// 3. on write, persist first, then invalidate before returning
type CachedStore struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
}

// CachedStoreOption is a functional option for configuring the store
type CachedStoreOption func(*CachedStore)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) CachedStoreOption {
	return func(s *CachedStore) {
		s.logger = logger
	}
}

// NewCachedStore creates a new cached settings store
func NewCachedStore(repo Repository, cache Cache, opts ...CachedStoreOption) *CachedStore {
	s := &CachedStore{
		repo:   repo,
		cache:  cache,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetString returns the value for key, or fallback when unset.
func (s *CachedStore) GetString(ctx context.Context, key, fallback string) (string, error) {
	if value, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return value, nil
	} else if err != nil {
		// A broken cache degrades to repository reads; it must not take
		// status derivation down with it.
		s.logger.Warn("settings cache read failed, falling back to repository",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return fallback, nil
	}

	if err := s.cache.Set(ctx, key, setting.Value); err != nil {
		s.logger.Warn("settings cache populate failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return setting.Value, nil
}

// GetInt returns the value for key parsed as a non-negative integer.
func (s *CachedStore) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	raw, err := s.GetString(ctx, key, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_CONFIGURATION", "Setting "+key+" is not a number: "+raw)
	}
	if value < 0 {
		return 0, shared.NewDomainError("INVALID_CONFIGURATION", "Setting "+key+" cannot be negative")
	}

	return value, nil
}

// Set persists the value and synchronously invalidates the cache. The
// invalidation error is returned, not swallowed: a write that leaves a stale
// cached grace period behind must be visible to the caller.
func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Setting key cannot be empty")
	}
	if err := validateKnownKey(key, value); err != nil {
		return err
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return shared.NewDomainError("INVALID_CONFIGURATION", "Setting written but cache invalidation failed for "+key)
	}

	return nil
}

// validateKnownKey rejects values that would poison the rule engine.
func validateKnownKey(key, value string) error {
	switch key {
	case KeyPaymentDueDays:
		n, err := strconv.Atoi(value)
		if err != nil {
			return shared.NewDomainError("INVALID_CONFIGURATION", "payment_due_days must be an integer")
		}
		if n < 0 {
			return shared.NewDomainError("INVALID_CONFIGURATION", "payment_due_days cannot be negative")
		}
	case KeyDefaultCommissionRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return shared.NewDomainError("INVALID_CONFIGURATION", "default_commission_rate must be numeric")
		}
		if rate < 0 || rate > 1 {
			return shared.NewDomainError("INVALID_CONFIGURATION", "default_commission_rate must be between 0 and 1")
		}
	}
	return nil
}

var _ Store = (*CachedStore)(nil)
