package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "event:1", `{"id":"1"}`, 0))

	val, err := store.Get(ctx, "event:1")
	require.NoError(t, err)
	require.Equal(t, `{"id":"1"}`, val)

	require.NoError(t, store.Delete(ctx, "event:1"))

	_, err = store.Get(ctx, "event:1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "event:1", "a", 0))
	require.NoError(t, store.Set(ctx, "event:2", "b", 0))
	require.NoError(t, store.Set(ctx, "app:1", "c", 0))

	keys, err := store.Keys(ctx, "event:")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"event:1", "event:2"}, keys)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "event:1", "a", time.Hour))

	ttl, err := store.TTL(ctx, "event:1")
	require.NoError(t, err)
	require.Equal(t, time.Hour, ttl)

	now = now.Add(2 * time.Hour)

	_, err = store.Get(ctx, "event:1")
	require.ErrorIs(t, err, ErrNotFound)

	keys, err := store.Keys(ctx, "event:")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestMemoryStoreTTLWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "user:1", "a", 0))

	ttl, err := store.TTL(ctx, "user:1")
	require.NoError(t, err)
	require.Zero(t, ttl)

	_, err = store.TTL(ctx, "user:missing")
	require.ErrorIs(t, err, ErrNotFound)
}
