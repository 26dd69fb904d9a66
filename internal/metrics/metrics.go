// Package metrics registers the Prometheus metrics recorded while the harness
// runs: one counter and histogram per tool call and per model call. There is
// no listener; Write renders the text exposition for a one-shot dump.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all Prometheus metrics owned by the harness. A fresh
// prometheus.Registry is used per instance so tests stay hermetic.
type Metrics struct {
	// registry gathers everything registered below.
	registry *prometheus.Registry

	// toolCallsTotal counts tool invocations, partitioned by tool and outcome.
	toolCallsTotal *prometheus.CounterVec

	// toolErrorsTotal counts failed tool invocations by tool and error kind.
	toolErrorsTotal *prometheus.CounterVec

	// toolDurationSeconds records wall-clock duration of each tool call.
	toolDurationSeconds *prometheus.HistogramVec

	// modelRequestsTotal counts model calls, partitioned by call and outcome.
	modelRequestsTotal *prometheus.CounterVec

	// modelDurationSeconds records wall-clock duration of each model call.
	modelDurationSeconds *prometheus.HistogramVec

	// queriesTotal counts harness iterations by dispatch result.
	queriesTotal *prometheus.CounterVec
}

// New registers all metrics against a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		toolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsai",
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Total number of tool calls, partitioned by tool and outcome.",
		}, []string{"tool", "outcome"}),

		toolErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsai",
			Subsystem: "tool",
			Name:      "errors_total",
			Help:      "Total number of failed tool calls, partitioned by tool and error kind.",
		}, []string{"tool", "kind"}),

		toolDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "awsai",
			Subsystem: "tool",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of tool calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),

		modelRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsai",
			Subsystem: "model",
			Name:      "requests_total",
			Help:      "Total number of model calls, partitioned by call type and outcome.",
		}, []string{"call", "outcome"}),

		modelDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "awsai",
			Subsystem: "model",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of model calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"call"}),

		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "awsai",
			Subsystem: "harness",
			Name:      "queries_total",
			Help:      "Total number of harness queries, partitioned by whether a tool was dispatched.",
		}, []string{"dispatched"}),
	}
}

// ObserveTool records one tool call. kind is empty on success.
func (m *Metrics) ObserveTool(tool string, ok bool, kind string, elapsed time.Duration) {
	m.toolCallsTotal.WithLabelValues(tool, outcome(ok)).Inc()
	if !ok {
		m.toolErrorsTotal.WithLabelValues(tool, kind).Inc()
	}
	m.toolDurationSeconds.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveModel records one model call of the given type ("respond", "select").
func (m *Metrics) ObserveModel(call string, ok bool, elapsed time.Duration) {
	m.modelRequestsTotal.WithLabelValues(call, outcome(ok)).Inc()
	m.modelDurationSeconds.WithLabelValues(call).Observe(elapsed.Seconds())
}

// ObserveQuery records one harness iteration.
func (m *Metrics) ObserveQuery(dispatched bool) {
	label := "false"
	if dispatched {
		label = "true"
	}
	m.queriesTotal.WithLabelValues(label).Inc()
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// Write renders every gathered metric family in the Prometheus text format.
func (m *Metrics) Write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeError
}
