package sessions

import (
	"context"
	"time"
)

// Store is the external key-value service holding flow state. Expiry is the
// store's responsibility; the broker never sweeps.
type Store interface {
	// Put stores value under key for ttl.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns errors.ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Taker is implemented by stores that can atomically read and remove a key.
type Taker interface {
	// Take returns the value for key and deletes it in one step, or
	// errors.ErrNotFound when the key is absent or expired.
	Take(ctx context.Context, key string) ([]byte, error)
}
