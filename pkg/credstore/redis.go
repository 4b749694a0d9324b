package credstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend on a Redis server. Suitable for hosts that
// share credential state across processes (kiosk fleets, session brokers).
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a Redis-backed storage. An optional keyPrefix is
// prepended to every key in addition to the Store's own app-code namespace.
func NewRedisBackend(client *redis.Client, keyPrefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: keyPrefix}
}

// Get retrieves the value stored under key
func (b *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	value, err := b.client.Get(ctx, b.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key with an optional ttl
func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.client.Set(ctx, b.prefix+key, value, ttl).Err()
}

// Remove deletes the value stored under key
func (b *RedisBackend) Remove(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.prefix+key).Err()
}
