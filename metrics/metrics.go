// Package metrics exposes gate reports as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/archgate/analyzer"
)

const namespace = "archgate"

// Metrics holds gate collectors registered on a private registry
type Metrics struct {
	registry    *prometheus.Registry
	modules     prometheus.Gauge
	edges       *prometheus.GaugeVec
	violations  *prometheus.GaugeVec
	parseErrors *prometheus.GaugeVec
	passed      prometheus.Gauge
	runs        *prometheus.CounterVec
}

// New creates gate metrics
func New() *Metrics {
	ret := &Metrics{
		registry: prometheus.NewRegistry(),
		modules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "modules",
			Help:      "Number of modules in the last analyzed source tree.",
		}),
		edges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edges",
			Help:      "Import edges of the last run by kind.",
		}, []string{"kind"}),
		violations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "violations",
			Help:      "Violations of the last run by rule.",
		}, []string{"rule"}),
		parseErrors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_errors",
			Help:      "Per-module findings of the last run by kind.",
		}, []string{"kind"}),
		passed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "passed",
			Help:      "1 when the last run passed, 0 otherwise.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed gate runs by result.",
		}, []string{"result"}),
	}
	ret.registry.MustRegister(ret.modules, ret.edges, ret.violations, ret.parseErrors, ret.passed, ret.runs)
	return ret
}

// Registry returns the registry holding gate collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records the outcome of one run, replacing values of the previous one
func (m *Metrics) Observe(report *analyzer.Report) {
	m.modules.Set(float64(report.Modules))
	m.edges.Reset()
	m.edges.WithLabelValues("checked").Set(float64(report.TotalEdgesChecked))
	m.edges.WithLabelValues("external").Set(float64(report.ExternalEdges))
	m.edges.WithLabelValues("unresolved").Set(float64(report.UnresolvedEdges))
	m.violations.Reset()
	for _, violation := range report.Violations {
		m.violations.WithLabelValues(violation.Rule).Inc()
	}
	m.parseErrors.Reset()
	for _, parseErr := range report.ParseErrors {
		m.parseErrors.WithLabelValues(string(parseErr.Kind)).Inc()
	}
	result := "failed"
	m.passed.Set(0)
	if report.Passed() {
		result = "passed"
		m.passed.Set(1)
	}
	m.runs.WithLabelValues(result).Inc()
}

// WriteTextfile writes metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", filename, err)
	}
	return nil
}
