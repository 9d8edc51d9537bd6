// Package metrics exports gate results in Prometheus text format for the
// node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// TextfileExporter writes one snapshot of gate metrics per run
type TextfileExporter struct {
	path string
}

// NewTextfileExporter creates an exporter writing to path (must end in .prom)
func NewTextfileExporter(path string) *TextfileExporter {
	return &TextfileExporter{path: path}
}

// Export registers the run's metrics on a fresh registry and writes them atomically
func (e *TextfileExporter) Export(report *entities.GateReport, set *entities.PublishSet) error {
	reg, err := Collect(report, set)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(e.path, reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", e.path, err)
	}
	return nil
}

// Collect builds a registry describing one gate run
func Collect(report *entities.GateReport, set *entities.PublishSet) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	status := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pypi_gate_passed",
		Help: "1 if the last PyPI publish gate run passed, 0 if it failed",
	})
	checks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pypi_gate_checks",
		Help: "Checks recorded by the last gate run, by rule and result",
	}, []string{"rule", "result"})
	violations := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pypi_gate_violations",
		Help: "Violations recorded by the last gate run",
	})
	publishable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pypi_gate_publish_set_packages",
		Help: "Packages admitted to the publish set by the last gate run",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pypi_gate_last_run_timestamp_seconds",
		Help: "Unix time of the last gate run",
	})

	for _, c := range []prometheus.Collector{status, checks, violations, publishable, lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register gate metric: %w", err)
		}
	}

	if report.Passed() {
		status.Set(1)
	}
	for _, c := range report.Checks {
		checks.WithLabelValues(string(c.Rule), string(c.Result)).Inc()
	}
	violations.Set(float64(len(report.Violations)))
	if set != nil {
		publishable.Set(float64(len(set.Packages)))
	}
	if ts, err := time.Parse(time.RFC3339Nano, report.Timestamp); err == nil {
		lastRun.Set(float64(ts.Unix()))
	}

	return reg, nil
}
