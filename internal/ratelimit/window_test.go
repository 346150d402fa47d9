package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowAdmitsUpToCapacity(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(Quota{Capacity: 5, Window: 10 * time.Second})

	for i := 0; i < 5; i++ {
		admitted, _ := w.TryConsume(start)
		require.True(t, admitted, "admission %d should succeed", i+1)
	}

	admitted, nextFree := w.TryConsume(start)
	require.False(t, admitted)
	require.Equal(t, start.Add(10*time.Second), nextFree)
}

func TestWindowSlotFreesWhenOldestExpires(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(Quota{Capacity: 5, Window: 10 * time.Second})

	for i := 0; i < 5; i++ {
		admitted, _ := w.TryConsume(start)
		require.True(t, admitted)
	}

	admitted, _ := w.TryConsume(start.Add(10*time.Second - time.Millisecond))
	require.False(t, admitted, "no slot frees before the oldest entry ages out")

	admitted, _ = w.TryConsume(start.Add(10 * time.Second))
	require.True(t, admitted, "slot frees once the oldest entry ages out")
}

func TestWindowSlidesRatherThanResets(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(Quota{Capacity: 2, Window: 10 * time.Second})

	admitted, _ := w.TryConsume(start)
	require.True(t, admitted)
	admitted, _ = w.TryConsume(start.Add(6 * time.Second))
	require.True(t, admitted)

	// t=11s: the first entry expired, the second is still inside.
	admitted, _ = w.TryConsume(start.Add(11 * time.Second))
	require.True(t, admitted)

	admitted, nextFree := w.TryConsume(start.Add(11 * time.Second))
	require.False(t, admitted)
	require.Equal(t, start.Add(16*time.Second), nextFree)
}

func TestWindowInUsePrunesLazily(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(Quota{Capacity: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		admitted, _ := w.TryConsume(start.Add(time.Duration(i) * time.Second))
		require.True(t, admitted)
	}

	require.Equal(t, 3, w.InUse(start.Add(30*time.Second)))
	require.Equal(t, 1, w.InUse(start.Add(61*time.Second)))
	require.Equal(t, 0, w.InUse(start.Add(2*time.Minute)))
}

func TestWindowUnrecordReleasesSlot(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(Quota{Capacity: 1, Window: time.Minute})

	admitted, _ := w.TryConsume(start)
	require.True(t, admitted)

	w.unrecord(start)
	admitted, _ = w.TryConsume(start.Add(time.Second))
	require.True(t, admitted, "handed-back slot should be reusable")
}

func TestWindowDefaultsClampInvalidQuota(t *testing.T) {
	w := NewWindow(Quota{Capacity: 0, Window: 0})
	require.Equal(t, 1, w.Capacity())

	admitted, _ := w.TryConsume(time.Now().UTC())
	require.True(t, admitted)
}
