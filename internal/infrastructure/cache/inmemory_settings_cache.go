package cache

import (
	"context"
	"sync"

	"github.com/aqarcrm/backend/internal/domain/settings"
)

// InMemorySettingsCache implements settings.Cache using a process-local map.
// Suitable for single-instance deployments and tests. Delete is trivially
// synchronous, which satisfies the invalidation contract.
type InMemorySettingsCache struct {
	values sync.Map // map[string]string
}

// NewInMemorySettingsCache creates a new in-memory settings cache
func NewInMemorySettingsCache() *InMemorySettingsCache {
	return &InMemorySettingsCache{}
}

// Get retrieves a cached value
func (c *InMemorySettingsCache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := c.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return value.(string), true, nil
}

// Set stores a value
func (c *InMemorySettingsCache) Set(_ context.Context, key, value string) error {
	c.values.Store(key, value)
	return nil
}

// Delete removes a key
func (c *InMemorySettingsCache) Delete(_ context.Context, key string) error {
	c.values.Delete(key)
	return nil
}

// Ensure InMemorySettingsCache implements settings.Cache
var _ settings.Cache = (*InMemorySettingsCache)(nil)
