package metrics

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const namespace = "speclab"

// PrometheusExporter keeps the latest run's metrics in a private registry.
// They can be scraped through Handler, written to a writer on every Export,
// or written to a textfile-collector file on Close.
type PrometheusExporter struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	writer   io.Writer
	filePath string

	runs         prometheus.Counter
	specs        *prometheus.GaugeVec
	retried      prometheus.Gauge
	runDuration  prometheus.Gauge
	quantiles    *prometheus.GaugeVec
	specDuration *prometheus.GaugeVec
	specAttempts *prometheus.GaugeVec
	suiteSpecs   *prometheus.GaugeVec
	speedBuckets *prometheus.GaugeVec
}

// PrometheusOption is a functional option for PrometheusExporter
type PrometheusOption func(*PrometheusExporter)

// WithPrometheusWriter writes the text exposition format to w on every Export
func WithPrometheusWriter(w io.Writer) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.writer = w
	}
}

// WithPrometheusFile writes the registry to path on Close, in the format
// read by node_exporter's textfile collector
func WithPrometheusFile(path string) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.filePath = path
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter
func NewPrometheusExporter(opts ...PrometheusOption) *PrometheusExporter {
	p := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of reports exported.",
		}),
		specs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "specs",
			Help:      "Specs in the last exported report by status.",
		}, []string{"status"}),
		retried: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "specs_retried",
			Help:      "Specs that needed more than one attempt.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Sum of spec durations.",
		}),
		quantiles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spec_duration_quantile_seconds",
			Help:      "Spec duration distribution.",
		}, []string{"quantile"}),
		specDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spec_duration_seconds",
			Help:      "Duration of the last attempt of each spec.",
		}, []string{"spec", "status"}),
		specAttempts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spec_attempts",
			Help:      "Attempts used by each spec.",
		}, []string{"spec"}),
		suiteSpecs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suite_specs",
			Help:      "Specs declared directly in each suite by status.",
		}, []string{"suite", "status"}),
		speedBuckets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "specs_by_speed",
			Help:      "Ran specs by speed classification.",
		}, []string{"speed"}),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.registry.MustRegister(
		p.runs, p.specs, p.retried, p.runDuration, p.quantiles,
		p.specDuration, p.specAttempts, p.suiteSpecs, p.speedBuckets,
	)
	return p
}

// Registry exposes the exporter's registry
func (p *PrometheusExporter) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format
func (p *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Export exports aggregated metrics
func (p *PrometheusExporter) Export(m *AggregateMetrics) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runs.Inc()
	p.specs.WithLabelValues("passed").Set(float64(m.PassedCount))
	p.specs.WithLabelValues("failed").Set(float64(m.FailedCount))
	p.specs.WithLabelValues("ignored").Set(float64(m.IgnoredCount))
	p.retried.Set(float64(m.RetriedCount))
	p.runDuration.Set(m.TotalDurationMs / 1000)

	p.quantiles.WithLabelValues("min").Set(m.MinDurationMs / 1000)
	p.quantiles.WithLabelValues("max").Set(m.MaxDurationMs / 1000)
	p.quantiles.WithLabelValues("avg").Set(m.AvgDurationMs / 1000)
	p.quantiles.WithLabelValues("0.5").Set(m.P50DurationMs / 1000)
	p.quantiles.WithLabelValues("0.95").Set(m.P95DurationMs / 1000)
	p.quantiles.WithLabelValues("0.99").Set(m.P99DurationMs / 1000)

	p.speedBuckets.Reset()
	for speed, n := range m.BySpeed {
		p.speedBuckets.WithLabelValues(speed).Set(float64(n))
	}

	p.suiteSpecs.Reset()
	for name, sa := range m.BySuite {
		p.suiteSpecs.WithLabelValues(name, "passed").Set(float64(sa.PassedCount))
		p.suiteSpecs.WithLabelValues(name, "failed").Set(float64(sa.FailedCount))
		p.suiteSpecs.WithLabelValues(name, "ignored").Set(float64(sa.IgnoredCount))
	}

	if p.writer != nil {
		return p.write(p.writer)
	}
	return nil
}

// ExportSingle records a single spec metric
func (p *PrometheusExporter) ExportSingle(m *SpecMetrics) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m.Status != "ignored" {
		p.specDuration.WithLabelValues(m.FullName, m.Status).Set(m.DurationMs / 1000)
	}
	p.specAttempts.WithLabelValues(m.FullName).Set(float64(m.Attempts))
	return nil
}

func (p *PrometheusExporter) write(w io.Writer) error {
	families, err := p.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// Close writes the metrics file when one was configured
func (p *PrometheusExporter) Close() error {
	if p.filePath == "" {
		return nil
	}
	if dir := filepath.Dir(p.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(p.filePath, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
