package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer. Implementations may be
// Redis-backed or in-memory; repositories only depend on this interface.
type Cache interface {
	// Get looks up key and unmarshals the stored value into dest.
	// Returns (true, nil) on a hit; on a miss dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
