package credstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionlab/authkit/pkg/credstore"
)

func TestMemoryBackend_SetGetRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := credstore.NewMemoryBackend(0)
	t.Cleanup(func() { _ = backend.Close() })

	_, err := backend.Get(ctx, "missing")
	assert.ErrorIs(t, err, credstore.ErrNotFound)

	require.NoError(t, backend.Set(ctx, "k", "v", 0))
	value, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, backend.Remove(ctx, "k"))
	_, err = backend.Get(ctx, "k")
	assert.ErrorIs(t, err, credstore.ErrNotFound)

	// Removing an absent key is a no-op
	assert.NoError(t, backend.Remove(ctx, "k"))
}

func TestMemoryBackend_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := credstore.NewMemoryBackend(0)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := backend.Get(ctx, "k")
	assert.ErrorIs(t, err, credstore.ErrNotFound)
	assert.Zero(t, backend.Len())
}

func TestMemoryBackend_CleanupLoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := credstore.NewMemoryBackend(10 * time.Millisecond)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Set(ctx, "short", "v", time.Millisecond))
	require.NoError(t, backend.Set(ctx, "long", "v", time.Hour))

	assert.Eventually(t, func() bool {
		return backend.Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryBackend_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := credstore.NewMemoryBackend(0)
	t.Cleanup(func() { _ = backend.Close() })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = backend.Set(ctx, "k", "v", 0)
				_, _ = backend.Get(ctx, "k")
				_ = backend.Remove(ctx, "k")
			}
		}()
	}
	wg.Wait()
}
