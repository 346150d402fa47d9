package ratelimit

import (
	"fmt"
	"time"
)

// ThrottledError reports that the upstream rejected a call for exceeding
// quota despite local admission. Server-side bookkeeping can diverge from
// ours, so this is treated as a correction signal and retried.
type ThrottledError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ThrottledError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("upstream throttled, retry after %s", e.RetryAfter)
	}
	return "upstream throttled"
}

func (e *ThrottledError) Unwrap() error { return e.Err }

// TransientError reports a network or transport fault that is worth
// retrying with backoff.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient upstream failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ExhaustedError is surfaced when the bounded retry budget runs out. Last
// holds the final classified error observed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
