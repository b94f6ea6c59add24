// Package metrics turns finished speclab reports into exportable metrics.
package metrics

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// Durations are recorded in microseconds, from 1us up to one minute.
const (
	minRecordable = 1
	maxRecordable = 60_000_000
	sigFigs       = 3
)

// SpecMetrics represents metrics collected from a single spec
type SpecMetrics struct {
	Name       string    `json:"name"`
	FullName   string    `json:"full_name"`
	Suite      string    `json:"suite"`
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	DurationMs float64   `json:"duration_ms"`
	Speed      string    `json:"speed,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AggregateMetrics represents metrics aggregated over every recorded spec.
// Duration statistics only cover specs that ran.
type AggregateMetrics struct {
	Runs            int64                      `json:"runs"`
	TotalSpecs      int64                      `json:"total_specs"`
	PassedCount     int64                      `json:"passed_count"`
	FailedCount     int64                      `json:"failed_count"`
	IgnoredCount    int64                      `json:"ignored_count"`
	RetriedCount    int64                      `json:"retried_count"`
	TotalDurationMs float64                    `json:"total_duration_ms"`
	MinDurationMs   float64                    `json:"min_duration_ms"`
	MaxDurationMs   float64                    `json:"max_duration_ms"`
	AvgDurationMs   float64                    `json:"avg_duration_ms"`
	P50DurationMs   float64                    `json:"p50_duration_ms"`
	P95DurationMs   float64                    `json:"p95_duration_ms"`
	P99DurationMs   float64                    `json:"p99_duration_ms"`
	BySpeed         map[string]int64           `json:"by_speed"`
	BySuite         map[string]*SuiteAggregate `json:"by_suite"`
}

// SuiteAggregate represents aggregated metrics for the specs declared
// directly in one suite
type SuiteAggregate struct {
	Name          string  `json:"name"`
	TotalSpecs    int64   `json:"total_specs"`
	PassedCount   int64   `json:"passed_count"`
	FailedCount   int64   `json:"failed_count"`
	IgnoredCount  int64   `json:"ignored_count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`

	ran int64
}

// Exporter is the interface for metrics exporters
type Exporter interface {
	// Export exports metrics to the target destination
	Export(metrics *AggregateMetrics) error

	// ExportSingle exports a single spec metric
	ExportSingle(metric *SpecMetrics) error

	// Close closes the exporter and flushes any buffered data
	Close() error
}

// Collector collects metrics from finished reports
type Collector struct {
	metrics   []*SpecMetrics
	aggregate *AggregateMetrics
	histogram *hdrhistogram.Histogram
	exporters []Exporter
}

// NewCollector creates a new metrics collector
func NewCollector(exporters ...Exporter) *Collector {
	return &Collector{
		metrics:   make([]*SpecMetrics, 0),
		exporters: exporters,
		histogram: hdrhistogram.New(minRecordable, maxRecordable, sigFigs),
		aggregate: &AggregateMetrics{
			BySpeed: make(map[string]int64),
			BySuite: make(map[string]*SuiteAggregate),
		},
	}
}

// Record records every spec of a finished report and forwards each one to
// the exporters.
func (c *Collector) Record(r *suite.Report) {
	if r == nil {
		return
	}
	c.aggregate.Runs++
	r.Root.Walk(func(s *suite.SuiteResult) {
		for _, sp := range s.Specs {
			m := &SpecMetrics{
				Name:       sp.Name,
				FullName:   sp.FullName,
				Suite:      s.FullName,
				Status:     string(sp.Status),
				Attempts:   sp.Attempts,
				DurationMs: durationMs(sp.Duration),
				Timestamp:  r.End,
			}
			if !sp.Ignored() {
				m.Speed = sp.Speed.String()
			}
			c.RecordSpec(m)
		}
	})
}

// RecordSpec records a single spec metric
func (c *Collector) RecordSpec(m *SpecMetrics) {
	c.metrics = append(c.metrics, m)
	c.updateAggregate(m)

	for _, exp := range c.exporters {
		_ = exp.ExportSingle(m)
	}
}

// Report lets a Collector act as a suite reporter: the report is recorded
// and flushed to every exporter.
func (c *Collector) Report(r *suite.Report) error {
	c.Record(r)
	return c.Flush()
}

func (c *Collector) updateAggregate(m *SpecMetrics) {
	a := c.aggregate
	a.TotalSpecs++

	sa, ok := a.BySuite[m.Suite]
	if !ok {
		sa = &SuiteAggregate{Name: m.Suite}
		a.BySuite[m.Suite] = sa
	}
	sa.TotalSpecs++

	switch suite.Status(m.Status) {
	case suite.StatusPassed:
		a.PassedCount++
		sa.PassedCount++
	case suite.StatusFailed:
		a.FailedCount++
		sa.FailedCount++
	default:
		a.IgnoredCount++
		sa.IgnoredCount++
		return
	}

	if m.Attempts > 1 {
		a.RetriedCount++
	}
	if m.Speed != "" {
		a.BySpeed[m.Speed]++
	}

	ran := a.PassedCount + a.FailedCount
	a.TotalDurationMs += m.DurationMs
	if ran == 1 || m.DurationMs < a.MinDurationMs {
		a.MinDurationMs = m.DurationMs
	}
	if m.DurationMs > a.MaxDurationMs {
		a.MaxDurationMs = m.DurationMs
	}
	a.AvgDurationMs = a.TotalDurationMs / float64(ran)

	_ = c.histogram.RecordValue(clampMicros(m.DurationMs))
	a.P50DurationMs = float64(c.histogram.ValueAtQuantile(50)) / 1000
	a.P95DurationMs = float64(c.histogram.ValueAtQuantile(95)) / 1000
	a.P99DurationMs = float64(c.histogram.ValueAtQuantile(99)) / 1000

	sa.ran++
	sa.AvgDurationMs = (sa.AvgDurationMs*float64(sa.ran-1) + m.DurationMs) / float64(sa.ran)
	if m.DurationMs > sa.MaxDurationMs {
		sa.MaxDurationMs = m.DurationMs
	}
}

// GetAggregate returns the aggregated metrics
func (c *Collector) GetAggregate() *AggregateMetrics {
	return c.aggregate
}

// Specs returns the recorded spec metrics in recording order
func (c *Collector) Specs() []*SpecMetrics {
	return c.metrics
}

// Slowest returns up to n ran specs ordered by descending duration
func (c *Collector) Slowest(n int) []*SpecMetrics {
	var ran []*SpecMetrics
	for _, m := range c.metrics {
		if suite.Status(m.Status) != suite.StatusIgnored {
			ran = append(ran, m)
		}
	}
	sort.SliceStable(ran, func(i, j int) bool {
		return ran[i].DurationMs > ran[j].DurationMs
	})
	if n >= 0 && len(ran) > n {
		ran = ran[:n]
	}
	return ran
}

// Flush exports all aggregated metrics
func (c *Collector) Flush() error {
	for _, exp := range c.exporters {
		if err := exp.Export(c.aggregate); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all exporters
func (c *Collector) Close() error {
	for _, exp := range c.exporters {
		if err := exp.Close(); err != nil {
			return err
		}
	}
	return nil
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func clampMicros(ms float64) int64 {
	us := int64(ms * 1000)
	if us < minRecordable {
		us = minRecordable
	}
	if us > maxRecordable {
		us = maxRecordable
	}
	return us
}
