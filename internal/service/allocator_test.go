package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
)

func TestAllocatorNext_ContiguousFromOne(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	want := []string{"B-0001", "B-0002", "B-0003", "B-0004", "B-0005"}
	for _, expected := range want {
		id, err := allocator.Next(ctx, sequence.Building)
		require.NoError(t, err)
		assert.Equal(t, expected, id)
	}
}

func TestAllocatorNext_IndependentCounters(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	buildingID, err := allocator.Next(ctx, sequence.Building)
	require.NoError(t, err)
	roomID, err := allocator.Next(ctx, sequence.Room)
	require.NoError(t, err)

	assert.Equal(t, "B-0001", buildingID)
	assert.Equal(t, "R-0001", roomID)
}

func TestAllocatorNext_MeterAndMainMeterShareOnlyThePrefix(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	meterID, err := allocator.Next(ctx, sequence.Meter)
	require.NoError(t, err)
	mainMeterID, err := allocator.Next(ctx, sequence.MainMeter)
	require.NoError(t, err)

	// Same rendered id, separate counters: the two live in different tables.
	assert.Equal(t, "M-0001", meterID)
	assert.Equal(t, "M-0001", mainMeterID)
}

func TestAllocatorNext_ConcurrentAllocationsDistinct(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := allocator.Next(ctx, sequence.Tenant)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateWithID_RetriesOnDisplayIDCollision(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	attempts := 0
	id, err := allocator.CreateWithID(ctx, sequence.Building, func(_ context.Context, displayID string) error {
		attempts++
		if attempts == 1 {
			return store.ErrDisplayIDTaken
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	// The colliding allocation is burned; the retry got the next number.
	assert.Equal(t, "B-0002", id)
}

func TestCreateWithID_ExhaustsRetries(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	_, err := allocator.CreateWithID(ctx, sequence.Building, func(context.Context, string) error {
		return store.ErrDisplayIDTaken
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestCreateWithID_NonCollisionErrorIsNotRetried(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	boom := errors.New("constraint violated")
	attempts := 0
	_, err := allocator.CreateWithID(ctx, sequence.Building, func(context.Context, string) error {
		attempts++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestResync_RaisesCounterPastPersistedIDs(t *testing.T) {
	seqs := newMemSequenceRepo()
	allocator := NewAllocator(seqs, logger.Nop())
	ctx := context.Background()

	err := allocator.Resync(ctx, sequence.Building, func(context.Context) (string, error) {
		return "B-0042", nil
	})
	require.NoError(t, err)

	id, err := allocator.Next(ctx, sequence.Building)
	require.NoError(t, err)
	assert.Equal(t, "B-0043", id)
}

func TestResync_EmptyTableIsANoOp(t *testing.T) {
	allocator := NewAllocator(newMemSequenceRepo(), logger.Nop())
	ctx := context.Background()

	err := allocator.Resync(ctx, sequence.Building, func(context.Context) (string, error) {
		return "", store.ErrNotFound
	})
	require.NoError(t, err)

	id, err := allocator.Next(ctx, sequence.Building)
	require.NoError(t, err)
	assert.Equal(t, "B-0001", id)
}

func TestResync_MalformedPersistedIDFailsClosed(t *testing.T) {
	seqs := newMemSequenceRepo()
	allocator := NewAllocator(seqs, logger.Nop())
	ctx := context.Background()

	for _, malformed := range []string{"B-12", "X-0001", "b-0001", "B0001", "B-00a1"} {
		err := allocator.Resync(ctx, sequence.Building, func(context.Context) (string, error) {
			return malformed, nil
		})
		assert.ErrorIs(t, err, ErrMalformedSequenceState, "id %q", malformed)
	}

	// The counter must be untouched after the failures.
	assert.Zero(t, seqs.counters[string(sequence.Building)])
}

func TestResync_DoesNotLowerAnAdvancedCounter(t *testing.T) {
	seqs := newMemSequenceRepo()
	allocator := NewAllocator(seqs, logger.Nop())
	ctx := context.Background()

	for range 10 {
		_, err := allocator.Next(ctx, sequence.Building)
		require.NoError(t, err)
	}

	err := allocator.Resync(ctx, sequence.Building, func(context.Context) (string, error) {
		return "B-0003", nil
	})
	require.NoError(t, err)

	id, err := allocator.Next(ctx, sequence.Building)
	require.NoError(t, err)
	assert.Equal(t, "B-0011", id)
}
