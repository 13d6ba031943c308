// Package metrics exports suite outcomes as Prometheus metrics.
package metrics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var _ stepreport.Observer = (*Collector)(nil)

// Collector observes finished cases and records them in its own registry.
type Collector struct {
	registry     *prometheus.Registry
	casesTotal   *prometheus.CounterVec
	stepsTotal   *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec
}

// NewCollector initializes a collector whose metrics carry the suite label.
func NewCollector(suite string) *Collector {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"suite": suite}
	collector := &Collector{
		registry: registry,
		casesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "stepreport_cases_total",
				Help:        "Total number of cases by outcome and status",
				ConstLabels: constLabels,
			},
			[]string{"outcome", "status"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "stepreport_steps_total",
				Help:        "Total number of steps by label",
				ConstLabels: constLabels,
			},
			[]string{"label"},
		),
		caseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "stepreport_case_duration_seconds",
				Help:        "Case duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(collector.casesTotal, collector.stepsTotal, collector.caseDuration)
	return collector
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CaseFinished records a case outcome, its status and each of its steps.
func (c *Collector) CaseFinished(result stepreport.CaseResult) {
	outcome := result.Outcome.String()
	c.casesTotal.WithLabelValues(outcome, result.Case.Status().String()).Inc()
	c.caseDuration.WithLabelValues(outcome).Observe(result.Duration.Seconds())
	for _, step := range result.Case.Steps() {
		c.stepsTotal.WithLabelValues(step.Label()).Inc()
	}
}

// Write writes all metrics to a Prometheus text file.
func (c *Collector) Write(path string) error {
	metricFamilies, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("could not gather metrics: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range metricFamilies {
		if err := enc.Encode(family); err != nil {
			return fmt.Errorf("could not encode %s: %w", family.GetName(), err)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create metrics directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
