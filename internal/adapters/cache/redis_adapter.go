package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/providers"
	redisclient "github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/clients/redis"
)

// RedisAdapter backs the session working-set store with Redis. TTL handling
// is delegated to Redis key expiry.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get retrieves a value, mapping an expired or absent key to ErrCacheMiss
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q from cache: %w", key, err)
	}
	return result, nil
}

// Set stores a value under the key with the given expiry
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := a.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %q to cache: %w", key, err)
	}
	return nil
}

// Delete removes the key; deleting an absent key is not an error
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from cache: %w", key, err)
	}
	return nil
}

// Exists reports whether the key is present and unexpired
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	count, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %q in cache: %w", key, err)
	}
	return count > 0, nil
}
