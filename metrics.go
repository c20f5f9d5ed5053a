package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/http"
	"github.com/curacel/langfuse-go/pkg/metrics"
)

// Metrics is an optional interface for SDK telemetry. metrics.Prometheus
// implements it.
//
// Names emitted by the SDK:
//
//	langfuse.http.requests, langfuse.http.errors, langfuse.http.status.{code}
//	langfuse.http.retries, langfuse.http.failures, langfuse.http.duration
//	langfuse.circuit.rejected, langfuse.circuit.state.{key}
//	langfuse.ingestion.sent, langfuse.ingestion.rejected, langfuse.ingestion.failures
//	langfuse.async.pending, langfuse.async_errors.total, langfuse.async_errors.dropped
//	langfuse.id.generated, langfuse.id.fallback_used
type Metrics interface {
	// IncrementCounter increments a counter metric.
	IncrementCounter(name string, value int64)
	// RecordDuration records a duration metric.
	RecordDuration(name string, duration time.Duration)
	// SetGauge sets a gauge metric.
	SetGauge(name string, value float64)
}

var (
	_ Metrics      = (*metrics.Prometheus)(nil)
	_ http.Metrics = Metrics(nil)
)

// circuitStateGauge maps a status onto the gauge value reported for it:
// 0 closed, 1 half-open, 2 open.
func circuitStateGauge(s http.CircuitStatus) float64 {
	switch s {
	case http.CircuitOpen:
		return 2
	case http.CircuitHalfOpen:
		return 1
	default:
		return 0
	}
}
