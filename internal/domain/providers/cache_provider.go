package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheProvider defines the interface for the request working-set store.
// Uploaded patient batches live here under a session key with a TTL; nothing
// in the core persists beyond that window.
type CacheProvider interface {
	// Get retrieves a value, or ErrCacheMiss when the key is absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiration
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present
	Exists(ctx context.Context, key string) (bool, error)
}
