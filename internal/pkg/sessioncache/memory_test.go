package sessioncache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(5*time.Minute, 10*time.Minute)
	defer c.Close()

	ctx := context.Background()
	identity := Identity{UserID: "u-1", Email: "maya@pathpiper.dev", Role: "student"}

	_, err := c.Get(ctx, "token-a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "token-a", identity))

	got, err := c.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, identity, *got)

	// Returned value is a copy, mutating it must not affect the cache
	got.Role = "mentor"
	again, err := c.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, "student", again.Role)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(5*time.Minute, 10*time.Minute)
	defer c.Close()

	clock := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "token-a", Identity{UserID: "u-1"}))

	clock = clock.Add(4 * time.Minute)
	_, err := c.Get(ctx, "token-a")
	assert.NoError(t, err, "entry should still be live before the TTL")

	clock = clock.Add(2 * time.Minute)
	_, err = c.Get(ctx, "token-a")
	assert.ErrorIs(t, err, ErrNotFound, "entry should expire after the TTL")

	// The lazy expiry in Get must have dropped the entry
	c.mu.RLock()
	_, ok := c.entries["token-a"]
	c.mu.RUnlock()
	assert.False(t, ok)
}

func TestMemoryCacheSweep(t *testing.T) {
	c := NewMemoryCache(5*time.Minute, 10*time.Minute)
	defer c.Close()

	clock := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "stale", Identity{UserID: "u-1"}))

	clock = clock.Add(6 * time.Minute)
	require.NoError(t, c.Set(ctx, "fresh", Identity{UserID: "u-2"}))

	c.sweep()

	c.mu.RLock()
	_, staleOK := c.entries["stale"]
	_, freshOK := c.entries["fresh"]
	c.mu.RUnlock()
	assert.False(t, staleOK)
	assert.True(t, freshOK)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(5*time.Minute, 10*time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "token-a", Identity{UserID: "u-1"}))
	require.NoError(t, c.Delete(ctx, "token-a"))

	_, err := c.Get(ctx, "token-a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent token is not an error
	assert.NoError(t, c.Delete(ctx, "token-a"))
}

func TestMemoryCacheCloseIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestMemoryCacheDefaults(t *testing.T) {
	c := NewMemoryCache(0, 0)
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.ttl)
}
