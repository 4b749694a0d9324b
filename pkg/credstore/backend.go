package credstore

import (
	"context"
	"time"
)

// Backend is a flat string key-value storage. Implementations must return
// ErrNotFound for absent keys and treat Remove of an absent key as a no-op.
type Backend interface {
	// Get retrieves the value stored under key
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A non-zero ttl makes the entry expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Remove deletes the value stored under key
	Remove(ctx context.Context, key string) error
}
