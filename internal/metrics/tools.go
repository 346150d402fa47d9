package metrics

import (
	"time"

	"github.com/deckhand/deckhand/internal/observability"
)

// Tool registry metric names
const (
	ToolInvocationsTotal   = "tool_invocations_total"
	ToolInvocationDuration = "tool_invocation_duration_ms"
	ToolUnknownTotal       = "tool_unknown_total"
)

// RecordToolInvocation records a registry invocation with its outcome and
// wall-clock duration.
func RecordToolInvocation(tool string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ToolInvocationsTotal,
			1,
			map[string]string{
				"tool":   tool,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			ToolInvocationDuration,
			duration,
			map[string]string{
				"tool": tool,
			},
		)
	}
}

// RecordUnknownTool records an invocation of a name with no registered
// tool. Unlabelled; caller-supplied names are unbounded.
func RecordUnknownTool() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(ToolUnknownTotal, 1, nil)
	}
}
