package ratelimit

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/metrics"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 30 * time.Second
)

// Executor wraps an outbound operation with limiter admission and bounded,
// classified retry. Throttled and transient failures are retried with
// exponential backoff plus jitter, re-acquiring admission before every
// attempt. Everything else surfaces on first occurrence; retrying an
// ambiguous operation (a create that may have partially succeeded) is the
// caller's call, not ours.
type Executor struct {
	Limiter     *Limiter
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *logging.Logger
}

// NewExecutor returns an executor with defaults applied.
func NewExecutor(limiter *Limiter) *Executor {
	return &Executor{
		Limiter:     limiter,
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// Do acquires admission and runs op, which must perform exactly one
// upstream call and classify its outcome (ThrottledError, TransientError,
// or any other error) before returning.
func (e *Executor) Do(ctx context.Context, op func(context.Context) error) error {
	maxAttempts := e.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}

	// Throttled and transient failures draw from one shared attempt budget;
	// the cap bounds total upstream pressure per call, not retries per
	// failure class.
	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.sleep(ctx, e.backoff(attempt-1, last)); err != nil {
				return err
			}
		}

		if e.Limiter != nil {
			if err := e.Limiter.Acquire(ctx); err != nil {
				return err
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var throttled *ThrottledError
		var transient *TransientError
		switch {
		case errors.As(err, &throttled):
			metrics.RecordRetry("throttled", attempt)
			e.logRetry("upstream throttled despite local admission", attempt, err)
		case errors.As(err, &transient):
			metrics.RecordRetry("transient", attempt)
			e.logRetry("transient upstream failure", attempt, err)
		default:
			return err
		}
		last = err
	}

	metrics.RecordRetriesExhausted(maxAttempts)
	return &ExhaustedError{Attempts: maxAttempts, Last: last}
}

// Call runs a value-returning operation through the executor.
func Call[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, func(ctx context.Context) error {
		value, err := op(ctx)
		if err != nil {
			return err
		}
		out = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// backoff computes the delay before the given retry. An explicit
// Retry-After from the upstream takes precedence over the exponential
// schedule; jitter spreads retries from concurrent callers apart.
func (e *Executor) backoff(retry int, last error) time.Duration {
	base := e.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	ceiling := e.MaxDelay
	if ceiling <= 0 {
		ceiling = defaultMaxDelay
	}

	delay := base << (retry - 1)
	if delay > ceiling || delay <= 0 {
		delay = ceiling
	}

	var throttled *ThrottledError
	if errors.As(last, &throttled) && throttled.RetryAfter > delay {
		delay = throttled.RetryAfter
		if delay > ceiling {
			delay = ceiling
		}
	}

	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}

// sleep waits for d or until ctx is done, whichever is first.
func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) logRetry(msg string, attempt int, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Warn(msg,
		zap.Int("attempt", attempt),
		zap.Int("max_attempts", e.MaxAttempts),
		zap.Error(err),
	)
}
