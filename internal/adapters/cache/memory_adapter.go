package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/providers"
)

// MemoryAdapter is an in-process CacheProvider used when Redis is not
// configured. Entries expire lazily on access; good enough for single-node
// development, not for anything shared.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from the map
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok || entry.expired() {
		return nil, providers.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with an expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	a.mu.Lock()
	a.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	a.mu.Unlock()
	return nil
}

// Delete removes a value
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key is present and unexpired
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()
	return ok && !entry.expired(), nil
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}
