package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/redis/go-redis/v9"
)

const (
	settingsKeyPrefix = "settings:"
	settingsTTL       = 10 * time.Minute
	connectTimeout    = 5 * time.Second
)

// RedisConfig holds Redis connection settings for the cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSettingsCache implements settings.Cache backed by Redis, so every
// process instance observes an invalidation immediately. DEL is synchronous
// on the Redis side, which satisfies the invalidation contract.
type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSettingsCache creates a Redis-backed settings cache. It pings the
// server so an unreachable Redis fails fast at startup instead of on the
// first read.
func NewRedisSettingsCache(cfg RedisConfig) (*RedisSettingsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSettingsCache{
		client: client,
		ttl:    settingsTTL,
	}, nil
}

func (c *RedisSettingsCache) cacheKey(key string) string {
	return settingsKeyPrefix + key
}

// Get retrieves a cached value
func (c *RedisSettingsCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.cacheKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value with the cache TTL
func (c *RedisSettingsCache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.cacheKey(key), value, c.ttl).Err()
}

// Delete removes a key
func (c *RedisSettingsCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.cacheKey(key)).Err()
}

// Close releases the Redis connection
func (c *RedisSettingsCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSettingsCache implements settings.Cache
var _ settings.Cache = (*RedisSettingsCache)(nil)
