package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Store is the key-value capability the repositories are built on.
// A ttl of zero on Set means the entry never expires. TTL reports the
// remaining lifetime of a key, zero when the key has no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}
