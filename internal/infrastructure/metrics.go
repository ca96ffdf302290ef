package infrastructure

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "femstats"

// RunMetrics collects per-run counters and writes them in the Prometheus
// text format, ready for a node_exporter textfile collector.
type RunMetrics struct {
	registry *prometheus.Registry

	RowsLoaded       prometheus.Gauge
	ValuesCoerced    *prometheus.CounterVec
	ValuesResolved   *prometheus.CounterVec
	Steps            *prometheus.CounterVec
	StepDuration     *prometheus.GaugeVec
	ArtifactsWritten prometheus.Counter
}

// NewRunMetrics creates the metric set on a private registry.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "rows_loaded",
			Help:      "Number of case rows loaded from the input sheet.",
		}),
		ValuesCoerced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "values_coerced_missing_total",
			Help:      "Values that could not be parsed and were coerced to missing.",
		}, []string{"column"}),
		ValuesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "values_resolved_sentinel_total",
			Help:      "Categorical values replaced with the sentinel category.",
		}, []string{"column"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "steps_total",
			Help:      "Pipeline steps by final status.",
		}, []string{"status"}),
		StepDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Wall-clock duration of each pipeline step.",
		}, []string{"step"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "artifacts_written_total",
			Help:      "Output files written by the run.",
		}),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.ValuesCoerced,
		m.ValuesResolved,
		m.Steps,
		m.StepDuration,
		m.ArtifactsWritten,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
