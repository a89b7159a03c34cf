package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReturnsCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	key := testKey("2024-01-01", "default", 0)

	sum := 72
	rec := createTestRecord("2024-01-01", "default", 0, "H\x00")
	rec.Kind = KindASCII
	rec.Checksum = &sum
	require.NoError(t, s.Put(ctx, key, rec))

	// Mutating the caller's value must not reach the store.
	*rec.Checksum = 1

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got.Checksum)
	assert.Equal(t, 72, *got.Checksum)

	*got.Checksum = 2
	again, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 72, *again.Checksum)
}

func TestMemory_InstancesAreIsolated(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	key := testKey("2024-01-01", "default", 0)
	require.NoError(t, a.Put(context.Background(), key, createTestRecord("2024-01-01", "default", 0, "1")))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestMemory_KeysSorted(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for _, h := range []int{10, 2, 0} {
		require.NoError(t, s.Put(ctx, testKey("2024-01-01", "default", h), createTestRecord("2024-01-01", "default", h, "1")))
	}
	assert.Equal(t, []string{
		"signal:2024-01-01:default:00",
		"signal:2024-01-01:default:02",
		"signal:2024-01-01:default:10",
	}, s.Keys())
}

func TestMemory_ConcurrentWriters(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for h := 0; h < 24; h++ {
		wg.Add(1)
		go func(h int) {
			defer wg.Done()
			_ = s.Put(ctx, testKey("2024-01-01", "default", h), createTestRecord("2024-01-01", "default", h, "1"))
		}(h)
	}
	wg.Wait()

	assert.Equal(t, 24, s.Len())
	require.NoError(t, s.DeleteRange(ctx, "signal:2024-01-01:"))
	assert.Equal(t, 0, s.Len())
}
