// Package metrics emits Prometheus-convention counters, gauges, and
// histograms through the shared telemetry system. All emitters are no-ops
// until the telemetry system is initialized, so library code can record
// unconditionally.
package metrics

import (
	"time"

	"github.com/deckhand/deckhand/internal/observability"
)

// Admission pipeline metric names
var (
	AdmissionsTotal      = "limiter_admissions_total"
	AdmissionWaitMs      = "limiter_admission_wait_ms"
	AdmissionsRefused    = "limiter_admissions_abandoned_total"
	QueueDepth           = "limiter_queue_depth"
	WindowOccupancyRatio = "limiter_window_occupancy_ratio"
)

// RecordAdmission records one admitted call and how long it waited for a
// slot in both quota windows.
func RecordAdmission(wait time.Duration) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(AdmissionsTotal, 1, nil)
		_ = observability.TelemetrySystem.Histogram(AdmissionWaitMs, wait, nil)
	}
}

// RecordAdmissionAbandoned records a caller that gave up (context done)
// before a slot opened.
func RecordAdmissionAbandoned() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(AdmissionsRefused, 1, nil)
	}
}

// SetQueueDepth sets the current number of callers parked behind the
// quota windows.
func SetQueueDepth(depth int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(QueueDepth, float64(depth), nil)
	}
}

// SetWindowOccupancy sets the in-use fraction of a quota window. The tier
// label is "app" or "user".
func SetWindowOccupancy(tier string, inUse, capacity int) {
	if observability.TelemetrySystem == nil || capacity <= 0 {
		return
	}
	_ = observability.TelemetrySystem.Gauge(
		WindowOccupancyRatio,
		float64(inUse)/float64(capacity),
		map[string]string{
			"tier": tier,
		},
	)
}
