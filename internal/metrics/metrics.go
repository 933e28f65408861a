// Package metrics exposes Prometheus instrumentation for the review session:
// queue calls, image analyses, human decisions, and report exports.
//
// All recording methods are safe on a nil *Metrics so systems can run
// without instrumentation in tests.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lumen"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	QueueCalls       *prometheus.CounterVec
	QueueDuration    *prometheus.HistogramVec
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	Backlog          prometheus.Gauge
	Decisions        *prometheus.CounterVec
	Exports          *prometheus.CounterVec
	registry         *prometheus.Registry
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		QueueCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_calls_total",
			Help:      "Queue backend calls by action and outcome.",
		}, []string{"action", "outcome"}),
		QueueDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_call_duration_seconds",
			Help:      "Duration of queue backend calls in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"action"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Image analyses by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a single image fetch and classification in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		Backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analysis_backlog",
			Help:      "Records waiting for or undergoing analysis.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Human review decisions by kind.",
		}, []string{"decision"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Report exports by outcome.",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		m.QueueCalls,
		m.QueueDuration,
		m.Analyses,
		m.AnalysisDuration,
		m.Backlog,
		m.Decisions,
		m.Exports,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQueueCall records one backend call.
func (m *Metrics) ObserveQueueCall(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.QueueCalls.WithLabelValues(action, outcome).Inc()
	m.QueueDuration.WithLabelValues(action).Observe(d.Seconds())
}

// ObserveAnalysis records one completed analysis.
func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(d.Seconds())
}

// AddBacklog adjusts the analysis backlog gauge.
func (m *Metrics) AddBacklog(delta int) {
	if m == nil {
		return
	}
	m.Backlog.Add(float64(delta))
}

// IncDecision counts a confirm or deny.
func (m *Metrics) IncDecision(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

// IncExport counts an export attempt.
func (m *Metrics) IncExport(outcome string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(outcome).Inc()
}
