package tenantcache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound is returned by Get when the key is absent or expired.
	ErrKeyNotFound = errors.New("cache key not found")

	// ErrCacheClosed is returned when operating on a closed cache.
	ErrCacheClosed = errors.New("cache closed")
)

// Cache is the generic key-value capability every backend implements.
// Keys are opaque strings; values are opaque bytes. A zero TTL means the
// entry does not expire.
type Cache interface {
	// Get retrieves a value. Returns ErrKeyNotFound on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key under the given prefix. This is the
	// primitive the tenant-aware decorator builds its scoped Clear on.
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases resources held by the backend.
	Close() error
}
