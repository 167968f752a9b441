package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the port for caching operations. The redis adapter is
// the production implementation.
type Cache interface {
	// Get retrieves an item, returning ErrCacheMiss when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores an item, overwriting any existing value. A zero
	// expiration caches indefinitely where the adapter supports it.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes an item; absent keys are not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}
