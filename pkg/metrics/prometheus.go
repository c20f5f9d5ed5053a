// Package metrics exports SDK telemetry to Prometheus.
//
// The SDK reports metrics by dotted name, e.g. "langfuse.http.retries" or
// "langfuse.http.status.503". Prometheus adapts those names onto three
// vectors labelled by metric name:
//
//	langfuse_sdk_events_total{metric="langfuse.http.retries"}
//	langfuse_sdk_duration_seconds{metric="langfuse.http.duration"}
//	langfuse_sdk_gauge{metric="langfuse.async.pending"}
//
// Usage:
//
//	reg := prometheus.NewRegistry()
//	client, err := langfuse.New(cfg, langfuse.WithMetrics(metrics.NewPrometheus(reg)))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every exported series.
const Namespace = "langfuse_sdk"

// MetricLabel is the label carrying the SDK metric name.
const MetricLabel = "metric"

// DefaultBuckets are the duration histogram buckets in seconds.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 60}

// Prometheus implements the SDK Metrics interface on a Prometheus registerer.
// It is safe for concurrent use.
type Prometheus struct {
	counters  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	gauges    *prometheus.GaugeVec
}

// Option configures Prometheus.
type Option func(*options)

type options struct {
	buckets     []float64
	constLabels prometheus.Labels
}

// WithBuckets overrides DefaultBuckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithConstLabels attaches labels to every series, e.g. the service name.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// NewPrometheus registers the SDK collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer. It panics if the collectors are already
// registered with reg.
func NewPrometheus(reg prometheus.Registerer, opts ...Option) *Prometheus {
	o := options{buckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Prometheus{
		counters: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   Namespace,
				Name:        "events_total",
				Help:        "Langfuse SDK counters by metric name.",
				ConstLabels: o.constLabels,
			},
			[]string{MetricLabel},
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   Namespace,
				Name:        "duration_seconds",
				Help:        "Langfuse SDK durations by metric name.",
				Buckets:     o.buckets,
				ConstLabels: o.constLabels,
			},
			[]string{MetricLabel},
		),
		gauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   Namespace,
				Name:        "gauge",
				Help:        "Langfuse SDK gauges by metric name.",
				ConstLabels: o.constLabels,
			},
			[]string{MetricLabel},
		),
	}
}

// IncrementCounter adds value to the named counter. Negative values are ignored.
func (p *Prometheus) IncrementCounter(name string, value int64) {
	if value <= 0 {
		return
	}
	p.counters.WithLabelValues(name).Add(float64(value))
}

// RecordDuration observes d in seconds.
func (p *Prometheus) RecordDuration(name string, d time.Duration) {
	p.durations.WithLabelValues(name).Observe(d.Seconds())
}

// SetGauge sets the named gauge.
func (p *Prometheus) SetGauge(name string, value float64) {
	p.gauges.WithLabelValues(name).Set(value)
}

// Collectors returns the underlying collectors, for callers that manage
// registration themselves.
func (p *Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.counters, p.durations, p.gauges}
}
