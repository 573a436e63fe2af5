package cache

import (
	"context"
	"sync"
	"time"

	"pagelens/internal/domain"
)

// MemoryCache is an in-process TTL cache. It is the default backend and the
// one tests use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	stopOnce sync.Once
	stop     chan struct{}
}

type memoryEntry struct {
	value     *domain.RawExtraction
	expiresAt time.Time
}

// NewMemoryCache creates a memory cache and starts a background sweep that
// evicts expired entries once a minute. Call Close to stop the sweep.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached extraction for key, or found=false when the key is
// absent or expired. Expired entries are deleted lazily here and by the sweep.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.RawExtraction, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock in case another caller replaced it
		if current, ok := c.entries[key]; ok && time.Now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key for ttl. Non-positive ttl values are ignored.
func (c *MemoryCache) Set(_ context.Context, key string, value *domain.RawExtraction, ttl time.Duration) {
	if ttl <= 0 || value == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Invalidate removes key from the cache
func (c *MemoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of live entries, counting not-yet-swept expired ones
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	return nil
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
