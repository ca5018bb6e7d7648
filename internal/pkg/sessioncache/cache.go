// Package sessioncache caches resolved session identities keyed by raw token
// value, so the hot path of request authentication avoids a full token
// validation and profile lookup on every call. The Cache interface keeps the
// backend injectable: the in-memory store serves a single process, the Redis
// store a multi-process deployment.
package sessioncache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a resolved identity stays cached.
const DefaultTTL = 5 * time.Minute

// DefaultSweepInterval is how often the in-memory store drops expired
// entries.
const DefaultSweepInterval = 10 * time.Minute

// ErrNotFound is returned when no live entry exists for a token.
var ErrNotFound = errors.New("session cache entry not found")

// Identity is the resolved user behind a session token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Cache is the injectable token-to-identity cache. Entries expire by TTL;
// Delete exists so logout can invalidate eagerly instead of waiting out the
// TTL.
type Cache interface {
	Get(ctx context.Context, token string) (*Identity, error)
	Set(ctx context.Context, token string, identity Identity) error
	Delete(ctx context.Context, token string) error
	Close() error
}
