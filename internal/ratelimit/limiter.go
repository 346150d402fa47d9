package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/deckhand/deckhand/internal/metrics"
)

// Limiter admits outbound calls against two independent quota windows: one
// scoped to the application credential, one to the user session. A call is
// admitted only when both windows have room at the same instant.
//
// Contending callers are served strictly in arrival order. While any caller
// is queued, later arrivals queue behind it even if they would fit — a
// newly-eligible late caller must not jump ahead of an earlier one still
// waiting on the slower window.
//
// State is process-wide and never persisted; construct one Limiter and share
// it across call sites.
type Limiter struct {
	mu    sync.Mutex
	app   *Window
	user  *Window
	queue *list.List

	timer *time.Timer
	clock func() time.Time
}

type waiter struct {
	ready      chan struct{}
	elem       *list.Element
	admitted   bool
	admittedAt time.Time
}

// NewLimiter creates a limiter over the two quota tiers.
func NewLimiter(app, user Quota) *Limiter {
	return &Limiter{
		app:   NewWindow(app),
		user:  NewWindow(user),
		queue: list.New(),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Acquire blocks until the caller is admitted by both windows or ctx is
// done. A cancelled caller consumes no quota and leaks no reserved slot.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	l.mu.Lock()
	if l.queue.Len() == 0 {
		if l.consumeBothLocked(l.now()) {
			l.emitOccupancyLocked()
			l.mu.Unlock()
			metrics.RecordAdmission(0)
			return nil
		}
	}

	w := &waiter{ready: make(chan struct{})}
	w.elem = l.queue.PushBack(w)
	l.dispatchLocked()
	l.mu.Unlock()

	select {
	case <-w.ready:
		metrics.RecordAdmission(time.Since(start))
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		if w.admitted {
			// Admission raced with cancellation. Hand the reserved slot
			// back and let a successor take it.
			l.app.unrecord(w.admittedAt)
			l.user.unrecord(w.admittedAt)
		} else {
			l.queue.Remove(w.elem)
		}
		l.dispatchLocked()
		l.mu.Unlock()
		metrics.RecordAdmissionAbandoned()
		return ctx.Err()
	}
}

// consumeBothLocked admits at now iff both windows have room, recording the
// admission in each. Checking before recording keeps the pair atomic: a
// caller never holds a slot in one window while blocked on the other.
func (l *Limiter) consumeBothLocked(now time.Time) bool {
	okApp, _ := l.app.admissible(now)
	okUser, _ := l.user.admissible(now)
	if !okApp || !okUser {
		return false
	}
	l.app.record(now)
	l.user.record(now)
	return true
}

// dispatchLocked serves the queue head while capacity allows, then arms a
// single wake timer for the earliest instant the head could be admitted.
// Only the head is ever examined; a blocked head parks the whole queue.
func (l *Limiter) dispatchLocked() {
	now := l.now()
	for l.queue.Len() > 0 {
		front := l.queue.Front()
		head := front.Value.(*waiter)

		okApp, nextApp := l.app.admissible(now)
		okUser, nextUser := l.user.admissible(now)
		if okApp && okUser {
			l.app.record(now)
			l.user.record(now)
			head.admitted = true
			head.admittedAt = now
			l.queue.Remove(front)
			close(head.ready)
			continue
		}

		var wakeAt time.Time
		if !okApp {
			wakeAt = nextApp
		}
		if !okUser && nextUser.After(wakeAt) {
			wakeAt = nextUser
		}
		l.retimeLocked(now, wakeAt)
		l.emitOccupancyLocked()
		metrics.SetQueueDepth(l.queue.Len())
		return
	}

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.emitOccupancyLocked()
	metrics.SetQueueDepth(0)
}

func (l *Limiter) emitOccupancyLocked() {
	now := l.now()
	metrics.SetWindowOccupancy("app", l.app.InUse(now), l.app.Capacity())
	metrics.SetWindowOccupancy("user", l.user.InUse(now), l.user.Capacity())
}

func (l *Limiter) retimeLocked(now, at time.Time) {
	if l.timer != nil {
		l.timer.Stop()
	}
	d := at.Sub(now)
	if d < 0 {
		d = 0
	}
	l.timer = time.AfterFunc(d, l.wake)
}

func (l *Limiter) wake() {
	l.mu.Lock()
	l.dispatchLocked()
	l.mu.Unlock()
}

func (l *Limiter) now() time.Time {
	return l.clock()
}

// Stats is a point-in-time view of limiter occupancy.
type Stats struct {
	AppInUse     int `json:"app_in_use"`
	AppCapacity  int `json:"app_capacity"`
	UserInUse    int `json:"user_in_use"`
	UserCapacity int `json:"user_capacity"`
	Waiting      int `json:"waiting"`
}

// Stats reports current window occupancy and queue depth.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	return Stats{
		AppInUse:     l.app.InUse(now),
		AppCapacity:  l.app.Capacity(),
		UserInUse:    l.user.InUse(now),
		UserCapacity: l.user.Capacity(),
		Waiting:      l.queue.Len(),
	}
}

// Waiting returns the number of suspended acquirers.
func (l *Limiter) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len()
}
