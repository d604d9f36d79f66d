package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("key not found")

// Cache is the key/value port behind the planned checkpoint cache. Values are
// opaque bytes; callers own serialization and key naming.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached value, an error wrapping ErrCacheMiss if not found, or any other error on failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
