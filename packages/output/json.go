package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// Document is the JSON form of a report. The stats and the flat test lists
// follow the mocha JSON reporter; Suite keeps the full tree so the report can
// be loaded back.
type Document struct {
	RunID     string          `json:"runId"`
	Version   string          `json:"version,omitempty"`
	Precision suite.Precision `json:"precision"`
	Stats     Stats           `json:"stats"`
	Tests     []TestEntry     `json:"tests"`
	Passing   []TestEntry     `json:"passing"`
	Pending   []TestEntry     `json:"pending"`
	Failing   []TestEntry     `json:"failing"`
	Suite     SuiteEntry      `json:"suite"`
}

// Stats summarizes a run. Duration is in the report's precision units.
type Stats struct {
	Suites   int       `json:"suites"`
	Tests    int       `json:"tests"`
	Passing  int       `json:"passing"`
	Pending  int       `json:"pending"`
	Failing  int       `json:"failing"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int64     `json:"duration"`
}

// TestEntry is one spec. Duration is in precision units, DurationNs exact.
type TestEntry struct {
	Title      string       `json:"title"`
	FullTitle  string       `json:"fullTitle"`
	Order      int          `json:"order"`
	Status     suite.Status `json:"status"`
	Duration   int64        `json:"duration"`
	DurationNs int64        `json:"durationNs"`
	Attempts   int          `json:"attempts"`
	Speed      suite.Speed  `json:"speed"`
	SlowNs     int64        `json:"slowNs,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// SuiteEntry is one node of the suite tree.
type SuiteEntry struct {
	Name            string       `json:"name"`
	FullName        string       `json:"fullName"`
	Depth           int          `json:"depth"`
	Skipped         bool         `json:"skipped,omitempty"`
	Passing         int          `json:"passing"`
	Failing         int          `json:"failing"`
	Pending         int          `json:"pending"`
	DurationNs      int64        `json:"durationNs"`
	SuiteDurationNs int64        `json:"suiteDurationNs"`
	Start           *time.Time   `json:"start,omitempty"`
	End             *time.Time   `json:"end,omitempty"`
	Specs           []TestEntry  `json:"specs"`
	Suites          []SuiteEntry `json:"suites"`
}

// NewDocument converts a report into its JSON form.
func NewDocument(r *suite.Report, version string) *Document {
	doc := &Document{
		RunID:     r.RunID,
		Version:   version,
		Precision: r.Precision,
		Tests:     []TestEntry{},
		Passing:   []TestEntry{},
		Pending:   []TestEntry{},
		Failing:   []TestEntry{},
		Suite:     suiteEntry(&r.Root, r.Precision),
	}

	for _, sp := range r.Root.AllSpecs() {
		e := testEntry(sp, r.Precision)
		doc.Tests = append(doc.Tests, e)
		switch sp.Status {
		case suite.StatusPassed:
			doc.Passing = append(doc.Passing, e)
		case suite.StatusFailed:
			doc.Failing = append(doc.Failing, e)
		default:
			doc.Pending = append(doc.Pending, e)
		}
	}

	suites := 0
	r.Root.Walk(func(*suite.SuiteResult) { suites++ })
	doc.Stats = Stats{
		Suites:   suites,
		Tests:    len(doc.Tests),
		Passing:  len(doc.Passing),
		Pending:  len(doc.Pending),
		Failing:  len(doc.Failing),
		Start:    r.Start,
		End:      r.End,
		Duration: r.Precision.Units(r.Root.Duration),
	}
	return doc
}

func testEntry(sp suite.SpecResult, p suite.Precision) TestEntry {
	return TestEntry{
		Title:      sp.Name,
		FullTitle:  sp.FullName,
		Order:      sp.Order,
		Status:     sp.Status,
		Duration:   p.Units(sp.Duration),
		DurationNs: int64(sp.Duration),
		Attempts:   sp.Attempts,
		Speed:      sp.Speed,
		SlowNs:     int64(sp.Slow),
		Error:      sp.Error,
	}
}

func suiteEntry(s *suite.SuiteResult, p suite.Precision) SuiteEntry {
	e := SuiteEntry{
		Name:            s.Name,
		FullName:        s.FullName,
		Depth:           s.Depth,
		Skipped:         s.Skipped,
		Passing:         s.Passing,
		Failing:         s.Failing,
		Pending:         s.Ignored,
		DurationNs:      int64(s.Duration),
		SuiteDurationNs: int64(s.SuiteDuration),
		Specs:           make([]TestEntry, 0, len(s.Specs)),
		Suites:          make([]SuiteEntry, 0, len(s.Suites)),
	}
	if !s.Start.IsZero() {
		start, end := s.Start, s.End
		e.Start, e.End = &start, &end
	}
	for _, sp := range s.Specs {
		e.Specs = append(e.Specs, testEntry(sp, p))
	}
	for i := range s.Suites {
		e.Suites = append(e.Suites, suiteEntry(&s.Suites[i], p))
	}
	return e
}

// Report rebuilds the suite report the document was created from.
func (d *Document) Report() *suite.Report {
	return &suite.Report{
		RunID:     d.RunID,
		Precision: d.Precision,
		Start:     d.Stats.Start,
		End:       d.Stats.End,
		Root:      d.Suite.result(),
	}
}

func (e *SuiteEntry) result() suite.SuiteResult {
	res := suite.SuiteResult{
		Name:          e.Name,
		FullName:      e.FullName,
		Depth:         e.Depth,
		Skipped:       e.Skipped,
		Passing:       e.Passing,
		Failing:       e.Failing,
		Ignored:       e.Pending,
		Duration:      time.Duration(e.DurationNs),
		SuiteDuration: time.Duration(e.SuiteDurationNs),
		Specs:         make([]suite.SpecResult, 0, len(e.Specs)),
		Suites:        make([]suite.SuiteResult, 0, len(e.Suites)),
	}
	if e.Start != nil {
		res.Start = *e.Start
	}
	if e.End != nil {
		res.End = *e.End
	}
	for _, t := range e.Specs {
		res.Specs = append(res.Specs, suite.SpecResult{
			Name:     t.Title,
			FullName: t.FullTitle,
			Order:    t.Order,
			Status:   t.Status,
			Error:    t.Error,
			Duration: time.Duration(t.DurationNs),
			Attempts: t.Attempts,
			Speed:    t.Speed,
			Slow:     time.Duration(t.SlowNs),
		})
	}
	for i := range e.Suites {
		res.Suites = append(res.Suites, e.Suites[i].result())
	}
	return res
}

// JSONReporter writes the report as a Document, compact or indented.
type JSONReporter struct {
	*settings
	pretty bool
}

func (f *JSONReporter) Report(r *suite.Report) error {
	encoder := json.NewEncoder(f.writer)
	if f.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(NewDocument(r, f.version))
}

// Decode validates data against the report schema and loads it.
func Decode(data []byte) (*suite.Report, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return doc.Report(), nil
}

// LoadReport reads and decodes a JSON report file.
func LoadReport(path string) (*suite.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
