package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mindfulplate/backend/internal/domain"
)

// cacheItem is a single cached record with its expiration
type cacheItem struct {
	record     domain.NutrientRecord
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory nutrient cache with TTL support.
// Concurrent writers for the same key are safe; last writer wins.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup
// goroutine.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a record by normalized name.
func (c *MemoryCache) Get(ctx context.Context, normalizedName string) (*domain.NutrientRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[normalizedName]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	record := item.record
	return &record, nil
}

// Set stores a record with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, normalizedName string, record *domain.NutrientRecord, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stored := *record
	stored.CachedAt = time.Now()

	c.data[normalizedName] = cacheItem{
		record:     stored,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a record from the cache.
func (c *MemoryCache) Delete(ctx context.Context, normalizedName string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, normalizedName)
	return nil
}

// Exists checks if a key is present and not expired.
func (c *MemoryCache) Exists(ctx context.Context, normalizedName string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[normalizedName]
	if !exists {
		return false, nil
	}

	if time.Now().After(item.expiration) {
		return false, nil
	}

	return true, nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
