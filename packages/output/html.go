package output

import (
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

//go:embed templates/report.html.tmpl
var htmlTemplate string

// HTMLOutput is the data handed to the report template.
type HTMLOutput struct {
	Version        string
	RunID          string
	Name           string
	Summary        HTMLSummary
	Suites         []HTMLSuite
	Duration       string
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	SkippedPercent float64
}

// HTMLSummary represents the totals for HTML output
type HTMLSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// HTMLSuite is one suite flattened for the template, indented by depth.
type HTMLSuite struct {
	Name     string
	Indent   int
	Duration string
	Tests    []HTMLTest
}

// HTMLTest represents a single spec for HTML output
type HTMLTest struct {
	Name        string
	Duration    string
	Attempts    int
	Error       string
	StatusClass string
	SpeedClass  string
}

// HTMLReporter renders a standalone HTML page.
type HTMLReporter struct {
	*settings
}

func (f *HTMLReporter) Report(r *suite.Report) error {
	out := newHTMLOutput(r, f.version)

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return tmpl.Execute(f.writer, out)
}

func newHTMLOutput(r *suite.Report, version string) HTMLOutput {
	root := r.Root
	total := root.Total()
	out := HTMLOutput{
		Version: version,
		RunID:   r.RunID,
		Name:    root.Name,
		Summary: HTMLSummary{
			Total:   total,
			Passed:  root.Passing,
			Failed:  root.Failing,
			Skipped: root.Ignored,
		},
		Duration: r.Precision.Format(root.Duration),
	}
	started := r.Start
	if started.IsZero() {
		started = time.Now()
	}
	out.Time = started.Format("2006-01-02 15:04:05")
	if total > 0 {
		out.PassedPercent = float64(root.Passing) / float64(total) * 100
		out.FailedPercent = float64(root.Failing) / float64(total) * 100
		out.SkippedPercent = float64(root.Ignored) / float64(total) * 100
	}

	root.Walk(func(s *suite.SuiteResult) {
		hs := HTMLSuite{
			Name:     s.Name,
			Indent:   s.Depth * 24,
			Duration: r.Precision.Format(s.Duration),
		}
		for _, sp := range s.Specs {
			ht := HTMLTest{
				Name:        sp.Name,
				Attempts:    sp.Attempts,
				Error:       sp.Error,
				StatusClass: string(sp.Status),
			}
			if !sp.Ignored() {
				ht.Duration = r.Precision.Format(sp.Duration)
				ht.SpeedClass = sp.Speed.String()
			}
			hs.Tests = append(hs.Tests, ht)
		}
		out.Suites = append(out.Suites, hs)
	})
	return out
}
