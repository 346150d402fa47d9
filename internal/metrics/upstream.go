package metrics

import (
	"strconv"

	"github.com/deckhand/deckhand/internal/observability"
)

// Retry pipeline metric names
const (
	RetriesTotal          = "upstream_retries_total"
	RetriesExhaustedTotal = "upstream_retries_exhausted_total"
)

// RecordRetry records a retryable upstream failure about to be retried.
// The class label is "throttled" or "transient".
func RecordRetry(class string, attempt int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RetriesTotal,
			1,
			map[string]string{
				"class":   class,
				"attempt": strconv.Itoa(attempt),
			},
		)
	}
}

// RecordRetriesExhausted records an operation that failed after its final
// attempt.
func RecordRetriesExhausted(attempts int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RetriesExhaustedTotal,
			1,
			map[string]string{
				"attempts": strconv.Itoa(attempts),
			},
		)
	}
}
