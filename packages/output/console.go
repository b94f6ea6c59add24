package output

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// SpecReporter prints the suite tree with a mark and colored duration per
// spec, followed by a summary and numbered failure details.
type SpecReporter struct {
	*settings
}

func (f *SpecReporter) Report(r *suite.Report) error {
	p := newPalette(f.noColor)
	w := f.writer

	var failures []string
	fmt.Fprintf(w, "\n")
	var walk func(s *suite.SuiteResult, depth int)
	walk = func(s *suite.SuiteResult, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s%s\n", indent, s.Name)
		for _, sp := range s.Specs {
			switch sp.Status {
			case suite.StatusPassed:
				fmt.Fprintf(w, "%s  %s %s %s\n", indent, p.green("✓"), p.dim(sp.Name),
					p.speed(sp.Speed, r.Precision.Format(sp.Duration)))
			case suite.StatusFailed:
				failures = append(failures, fmt.Sprintf("%d) %s: %s", len(failures)+1, sp.FullName, sp.Error))
				fmt.Fprintf(w, "%s  %s\n", indent, p.red(fmt.Sprintf("%d) %s", len(failures), sp.Name)))
			default:
				fmt.Fprintf(w, "%s  %s %s\n", indent, p.cyan("-"), p.dim(sp.Name))
			}
		}
		for i := range s.Suites {
			walk(&s.Suites[i], depth+1)
		}
	}
	walk(&r.Root, 0)

	root := r.Root
	fmt.Fprintf(w, "\n")
	if root.Failing == 0 {
		fmt.Fprintf(w, "%s %s %s\n", p.green("✓"),
			p.green(fmt.Sprintf("%d test%s completed", root.Passing, plural(root.Passing))),
			p.dim(r.Precision.Format(root.Duration)))
	} else {
		// Same totals as the error Run returns.
		fmt.Fprintf(w, "%s%s\n",
			p.red(fmt.Sprintf("✖ %s", r.Err())),
			p.dim(":"))
	}
	if root.Ignored > 0 {
		fmt.Fprintf(w, "%s\n", p.cyan(fmt.Sprintf("%d test%s ignored", root.Ignored, plural(root.Ignored))))
	}
	if len(failures) > 0 {
		fmt.Fprintf(w, "\n")
		for _, line := range failures {
			fmt.Fprintf(w, "%s\n", p.red(line))
		}
	}
	fmt.Fprintf(w, "\n")
	return nil
}
