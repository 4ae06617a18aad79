package cache

import (
	"fmt"

	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/aqarcrm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SettingsCacheFactory creates settings caches based on configuration
type SettingsCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SettingsCacheFactoryOption is a functional option for configuring the factory
type SettingsCacheFactoryOption func(*SettingsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SettingsCacheFactoryOption {
	return func(f *SettingsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) SettingsCacheFactoryOption {
	return func(f *SettingsCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSettingsCacheFactory creates a new factory
func NewSettingsCacheFactory(cfg config.RedisConfig, opts ...SettingsCacheFactoryOption) *SettingsCacheFactory {
	f := &SettingsCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed settings cache
func (f *SettingsCacheFactory) CreateRedisCache() (settings.Cache, error) {
	cache, err := NewRedisSettingsCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis settings cache: %w", err)
	}
	return cache, nil
}

// CreateCache creates a settings cache, trying Redis first and falling back
// to in-memory when Redis is unavailable and fallback is allowed.
// WARNING: an in-memory cache does not propagate invalidations across process
// instances; a grace-period change made on one instance is not visible on the
// others until their entries expire.
func (f *SettingsCacheFactory) CreateCache() (settings.Cache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis settings cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for settings cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory settings cache. "+
		"Configuration changes will not propagate across instances.",
		zap.Error(err),
	)
	return NewInMemorySettingsCache(), nil
}
