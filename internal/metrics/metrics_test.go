package metrics

import (
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhand/deckhand/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{
		Enabled: true,
		Emitter: collector,
	})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})

	return collector
}

func TestRecordAdmissionEmitsCounterAndWaitHistogram(t *testing.T) {
	collector := setupTelemetry(t)

	RecordAdmission(25 * time.Millisecond)

	assert.Greater(t, collector.CountMetricsByName(AdmissionsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(AdmissionWaitMs), 0)
}

func TestQueueDepthAndOccupancyGauges(t *testing.T) {
	collector := setupTelemetry(t)

	SetQueueDepth(3)
	SetWindowOccupancy("app", 150, 300)
	SetWindowOccupancy("user", 50, 100)

	assert.Greater(t, collector.CountMetricsByName(QueueDepth), 0)
	assert.Equal(t, 2, collector.CountMetricsByName(WindowOccupancyRatio))
}

func TestSetWindowOccupancyIgnoresZeroCapacity(t *testing.T) {
	collector := setupTelemetry(t)

	SetWindowOccupancy("app", 0, 0)

	assert.Zero(t, collector.CountMetricsByName(WindowOccupancyRatio))
}

func TestRecordRetryCountsByClass(t *testing.T) {
	collector := setupTelemetry(t)

	RecordRetry("throttled", 1)
	RecordRetry("transient", 2)
	RecordRetriesExhausted(5)

	assert.Equal(t, 2, collector.CountMetricsByName(RetriesTotal))
	assert.Equal(t, 1, collector.CountMetricsByName(RetriesExhaustedTotal))
}

func TestRecordToolInvocationEmitsCounterAndDuration(t *testing.T) {
	collector := setupTelemetry(t)

	RecordToolInvocation("get_task", true, 10*time.Millisecond)
	RecordToolInvocation("get_task", false, 5*time.Millisecond)
	RecordUnknownTool()

	assert.Equal(t, 2, collector.CountMetricsByName(ToolInvocationsTotal))
	assert.Equal(t, 2, collector.CountMetricsByName(ToolInvocationDuration))
	assert.Equal(t, 1, collector.CountMetricsByName(ToolUnknownTotal))
}

func TestRecordErrorEmitsCodeAndEndpointCounters(t *testing.T) {
	collector := setupTelemetry(t)

	RecordError("NOT_FOUND", 404)
	RecordErrorByEndpoint("/api/v1/tools/get_task", "NOT_FOUND")
	RecordPanic()

	assert.Greater(t, collector.CountMetricsByName(ErrorsTotalName), 0)
	assert.Greater(t, collector.CountMetricsByName(ErrorsByEndpointName), 0)
	assert.Greater(t, collector.CountMetricsByName(PanicsTotalName), 0)
}

func TestEmittersAreNoOpsWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})

	// Must not panic
	RecordAdmission(time.Millisecond)
	RecordAdmissionAbandoned()
	SetQueueDepth(1)
	SetWindowOccupancy("app", 1, 10)
	RecordRetry("throttled", 1)
	RecordRetriesExhausted(3)
	RecordToolInvocation("get_task", true, time.Millisecond)
	RecordUnknownTool()
	RecordError("INTERNAL_ERROR", 500)
	RecordErrorByEndpoint("/", "INTERNAL_ERROR")
	RecordPanic()
}
