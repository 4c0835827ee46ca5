// Package memcache implements an in-process ports.ProcessCache.
package memcache

import (
	"sync"

	"go.trai.ch/bale/internal/core/ports"
)

var _ ports.ProcessCache = (*Cache)(nil)

// Cache is a process-wide key-value cache. It only saves reloads of the
// manifest and configuration; dropping it changes performance, not behavior.
type Cache struct {
	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{values: make(map[string]any)}
}

// Fetch returns the cached value, or ok=false when absent.
func (c *Cache) Fetch(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Store caches the value under the key.
func (c *Cache) Store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Delete removes the key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}
