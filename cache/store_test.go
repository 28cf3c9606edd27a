package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(time.Minute, 0)
	t.Cleanup(store.Stop)
	return store
}

func TestMemoryStoreSetGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	value, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	value, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("first"), 0))
	require.NoError(t, store.Set(ctx, "k", []byte("second"), 0))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("first"), value)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// An expired entry no longer blocks a fresh write.
	require.NoError(t, store.Set(ctx, "k", []byte("v2"), 0))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), value)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Remove(ctx, "missing"), ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Remove(ctx, "k"))
	assert.ErrorIs(t, store.Remove(ctx, "k"), ErrKeyNotFound)
}

func TestMemoryStorePurge(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, store.Purge(ctx))

	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreJanitorSweeps(t *testing.T) {
	store := NewMemoryStore(time.Minute, 5*time.Millisecond)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	assert.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		_, ok := store.entries["k"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}
