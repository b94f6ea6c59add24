package output

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableReporter prints the suite tree as a go-pretty table with a totals
// footer.
type TableReporter struct {
	*settings
}

func (f *TableReporter) Report(r *suite.Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(f.writer)
	t.SetTitle(r.Root.Name)

	t.AppendHeader(table.Row{"Type", "Name", "Duration", "Passed", "Failed", "Ignored", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Name", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Ignored", Align: text.AlignRight},
	})

	r.Root.Walk(func(s *suite.SuiteResult) {
		t.AppendRow(table.Row{
			"Suite",
			strings.Repeat("  ", s.Depth) + s.Name,
			r.Precision.Format(s.Duration),
			s.Passing,
			s.Failing,
			s.Ignored,
			suiteStatus(s),
		})
		for _, sp := range s.Specs {
			row := table.Row{"Spec", strings.Repeat("  ", s.Depth+1) + sp.Name, "", "", "", "", specStatus(sp)}
			if !sp.Ignored() {
				row[2] = r.Precision.Format(sp.Duration)
			}
			t.AppendRow(row)
		}
	})

	switch {
	case f.noColor:
		t.SetStyle(table.StyleLight)
	case r.Root.Failing > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case r.Root.Ignored > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d specs", r.Root.Total()),
		r.Precision.Format(r.Root.Duration),
		r.Root.Passing,
		r.Root.Failing,
		r.Root.Ignored,
		suiteStatus(&r.Root),
	})

	t.Render()
	return nil
}

func suiteStatus(s *suite.SuiteResult) string {
	switch {
	case s.Failing > 0:
		return "FAIL"
	case s.Skipped || (s.Passing == 0 && s.Ignored > 0):
		return "SKIP"
	default:
		return "PASS"
	}
}

func specStatus(sp suite.SpecResult) string {
	switch sp.Status {
	case suite.StatusPassed:
		if sp.Attempts > 1 {
			return fmt.Sprintf("PASS (%d attempts)", sp.Attempts)
		}
		return "PASS"
	case suite.StatusFailed:
		return "FAIL"
	default:
		return "SKIP"
	}
}
