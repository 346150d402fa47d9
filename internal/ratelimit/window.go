package ratelimit

import (
	"time"
)

// Quota describes one upstream quota tier.
type Quota struct {
	Capacity int
	Window   time.Duration
}

// Taskdeck's documented per-credential quotas. Exact values are
// configurable; these mirror the service defaults.
var (
	DefaultAppQuota  = Quota{Capacity: 300, Window: 10 * time.Second}
	DefaultUserQuota = Quota{Capacity: 100, Window: 10 * time.Second}
)

// Window tracks consumption against a single quota using a sliding log of
// admission timestamps. At no instant does the number of admissions within
// the trailing Window duration exceed Capacity.
//
// Window is not safe for concurrent use on its own; the Limiter serializes
// access for the dual-window case.
type Window struct {
	capacity int
	duration time.Duration
	log      []time.Time
}

// NewWindow creates a sliding window for the given quota.
func NewWindow(q Quota) *Window {
	capacity := q.Capacity
	if capacity < 1 {
		capacity = 1
	}
	duration := q.Window
	if duration <= 0 {
		duration = 10 * time.Second
	}
	return &Window{
		capacity: capacity,
		duration: duration,
		log:      make([]time.Time, 0, capacity),
	}
}

// TryConsume admits and records now iff fewer than capacity admissions fall
// within (now-duration, now]. When denied, the returned time is the earliest
// instant a slot frees (oldest logged entry plus the window duration), so
// callers can compute a wait deadline without polling.
func (w *Window) TryConsume(now time.Time) (bool, time.Time) {
	w.prune(now)
	if len(w.log) < w.capacity {
		w.log = append(w.log, now)
		return true, time.Time{}
	}
	return false, w.log[0].Add(w.duration)
}

// admissible reports whether a consume at now would be admitted, without
// recording anything. The returned time is meaningful only when denied.
func (w *Window) admissible(now time.Time) (bool, time.Time) {
	w.prune(now)
	if len(w.log) < w.capacity {
		return true, time.Time{}
	}
	return false, w.log[0].Add(w.duration)
}

// record appends an admission timestamp. Callers must have established
// admissibility first.
func (w *Window) record(now time.Time) {
	w.log = append(w.log, now)
}

// unrecord removes the most recent admission matching ts. Used to hand back
// a slot that was reserved for a caller that was cancelled before it could
// observe the admission.
func (w *Window) unrecord(ts time.Time) {
	for i := len(w.log) - 1; i >= 0; i-- {
		if w.log[i].Equal(ts) {
			w.log = append(w.log[:i], w.log[i+1:]...)
			return
		}
	}
}

// prune drops entries that have aged out of the window. Pruning is lazy:
// it happens on every call rather than on a timer.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-w.duration)
	idx := 0
	for idx < len(w.log) && !w.log[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		w.log = append(w.log[:0], w.log[idx:]...)
	}
}

// InUse returns the number of admissions currently inside the window.
func (w *Window) InUse(now time.Time) int {
	w.prune(now)
	return len(w.log)
}

// Capacity returns the configured capacity.
func (w *Window) Capacity() int {
	return w.capacity
}
