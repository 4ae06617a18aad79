package settings

import (
	"context"

	domainsettings "github.com/aqarcrm/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// SettingValue is the read model for one configuration entry.
type SettingValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Service exposes typed access to the configuration store. Writes take
// effect on the next read: the store invalidates its cache synchronously.
type Service struct {
	store  domainsettings.Store
	logger *zap.Logger
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new settings service
func NewService(store domainsettings.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value for a key, falling back to the built-in default for
// the well-known keys.
func (s *Service) Get(ctx context.Context, key string) (*SettingValue, error) {
	fallback := ""
	switch key {
	case domainsettings.KeyPaymentDueDays:
		fallback = "7"
	case domainsettings.KeyDefaultCommissionRate:
		fallback = domainsettings.DefaultCommissionRate
	}

	value, err := s.store.GetString(ctx, key, fallback)
	if err != nil {
		return nil, err
	}

	return &SettingValue{Key: key, Value: value}, nil
}

// Set validates and writes a value. The store rejects values that would
// poison status derivation (negative grace period, out-of-range rate).
func (s *Service) Set(ctx context.Context, key, value string) (*SettingValue, error) {
	if err := s.store.Set(ctx, key, value); err != nil {
		return nil, err
	}

	s.logger.Info("setting updated",
		zap.String("key", key),
		zap.String("value", value),
	)

	return &SettingValue{Key: key, Value: value}, nil
}
