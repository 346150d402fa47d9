package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testExecutor() *Executor {
	e := NewExecutor(NewLimiter(Quota{Capacity: 100, Window: time.Second}, Quota{Capacity: 100, Window: time.Second}))
	e.BaseDelay = time.Millisecond
	e.MaxDelay = 5 * time.Millisecond
	return e
}

func TestExecutorRetriesThrottledThenSucceeds(t *testing.T) {
	e := testExecutor()

	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return &ThrottledError{}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls, "throttled twice then success means exactly three invocations")
}

func TestExecutorExhaustsBoundedRetries(t *testing.T) {
	e := testExecutor()
	e.MaxAttempts = 4

	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &ThrottledError{}
	})

	require.Equal(t, 4, calls)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 4, exhausted.Attempts)
	var throttled *ThrottledError
	require.ErrorAs(t, exhausted.Last, &throttled)
}

func TestExecutorMixedFailuresShareAttemptBudget(t *testing.T) {
	e := testExecutor()
	e.MaxAttempts = 3

	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls%2 == 1 {
			return &ThrottledError{}
		}
		return &TransientError{Err: errors.New("connection reset")}
	})

	// Alternating failure classes do not stretch the cap; three attempts
	// total, regardless of class.
	require.Equal(t, 3, calls)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, exhausted.Attempts)
}

func TestExecutorRetriesTransientFailures(t *testing.T) {
	e := testExecutor()

	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &TransientError{Err: errors.New("connection reset")}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestExecutorNeverRetriesOtherFailures(t *testing.T) {
	e := testExecutor()

	sentinel := errors.New("invalid request: missing title")
	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	require.Equal(t, 1, calls, "non-throttle failures must not be retried")
	require.ErrorIs(t, err, sentinel)
}

func TestExecutorBackoffHonorsCancellation(t *testing.T) {
	e := testExecutor()
	e.BaseDelay = 5 * time.Second
	e.MaxDelay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := e.Do(ctx, func(ctx context.Context) error {
		calls++
		return &ThrottledError{}
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, calls)
	require.Less(t, time.Since(start), time.Second, "cancellation must interrupt the backoff wait")
}

func TestExecutorRespectsRetryAfter(t *testing.T) {
	e := testExecutor()
	e.MaxAttempts = 2

	start := time.Now()
	err := e.Do(context.Background(), func(ctx context.Context) error {
		return &ThrottledError{RetryAfter: 100 * time.Millisecond}
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond,
		"an explicit Retry-After outweighs the exponential schedule")
}

func TestExecutorReacquiresAdmissionBeforeRetry(t *testing.T) {
	// One slot per window: the retry cannot run until the first admission
	// ages out, proving each attempt passes through the limiter.
	e := NewExecutor(NewLimiter(Quota{Capacity: 1, Window: 150 * time.Millisecond}, Quota{Capacity: 1, Window: 150 * time.Millisecond}))
	e.BaseDelay = time.Millisecond
	e.MaxDelay = time.Millisecond

	calls := 0
	start := time.Now()
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &ThrottledError{}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestCallReturnsValue(t *testing.T) {
	e := testExecutor()

	value, err := Call(context.Background(), e, func(ctx context.Context) (string, error) {
		return "TD-42", nil
	})
	require.NoError(t, err)
	require.Equal(t, "TD-42", value)
}

func TestCallPropagatesClassifiedError(t *testing.T) {
	e := testExecutor()
	e.MaxAttempts = 1

	_, err := Call(context.Background(), e, func(ctx context.Context) (int, error) {
		return 0, &ThrottledError{}
	})
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 1, exhausted.Attempts)
}

func TestExecutorWithoutLimiterStillBounds(t *testing.T) {
	e := &Executor{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

	calls := 0
	err := e.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &TransientError{Err: errors.New("timeout")}
	})

	require.Equal(t, 3, calls)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
}
