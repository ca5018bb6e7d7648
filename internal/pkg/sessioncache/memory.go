package sessioncache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryCache is a process-local Cache backed by a map with TTL expiry and a
// periodic sweep. Lookups are idempotent reads and population is
// last-writer-wins, so concurrent requests for the same token race safely.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewMemoryCache creates a MemoryCache with the given TTL and starts a sweep
// goroutine that removes expired entries every sweepInterval. Zero values
// fall back to the package defaults.
func NewMemoryCache(ttl, sweepInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	return c
}

// Get returns the cached identity for a token, or ErrNotFound when absent or
// expired. Expired entries are dropped lazily here as well, so a Get between
// sweeps never returns stale data.
func (c *MemoryCache) Get(_ context.Context, token string) (*Identity, error) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return nil, ErrNotFound
	}

	identity := entry.identity
	return &identity, nil
}

// Set stores the identity for a token with the configured TTL.
func (c *MemoryCache) Set(_ context.Context, token string, identity Identity) error {
	c.mu.Lock()
	c.entries[token] = memoryEntry{
		identity:  identity,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

// Delete removes the entry for a token, used on logout.
func (c *MemoryCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	delete(c.entries, token)
	c.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache) sweep() {
	now := c.now()
	c.mu.Lock()
	for token, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, token)
		}
	}
	c.mu.Unlock()
}
