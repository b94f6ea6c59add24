package output

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// MinReporter prints only the totals and the failures.
type MinReporter struct {
	*settings
}

func (f *MinReporter) Report(r *suite.Report) error {
	p := newPalette(f.noColor)
	w := f.writer
	root := r.Root

	fmt.Fprintf(w, "\n")
	if root.Passing > 0 {
		fmt.Fprintf(w, "%s %s\n",
			p.green(fmt.Sprintf("%d test%s complete", root.Passing, plural(root.Passing))),
			p.dim(r.Precision.Format(root.Duration)))
	}
	if root.Ignored > 0 {
		fmt.Fprintf(w, "%s\n", p.dim(fmt.Sprintf("%d test%s pending", root.Ignored, plural(root.Ignored))))
	}
	if root.Failing > 0 {
		fmt.Fprintf(w, "%s\n\n", p.red(fmt.Sprintf("%d test%s failed", root.Failing, plural(root.Failing))))
		for i, sp := range root.Failures() {
			fmt.Fprintf(w, "%s\n", p.red(fmt.Sprintf("%d) %s", i+1, sp.FullName)))
			fmt.Fprintf(w, "%s\n\n", p.red(fmt.Sprintf("%s  Error: %s", strings.Repeat(" ", len(fmt.Sprint(i+1))), sp.Error)))
		}
	}
	fmt.Fprintf(w, "\n")
	return nil
}

// DotReporter prints one character per spec: a dot colored by speed for a
// pass, ! for a failure and a comma for an ignored spec.
type DotReporter struct {
	*settings
}

func (f *DotReporter) Report(r *suite.Report) error {
	p := newPalette(f.noColor)
	w := f.writer

	var dots strings.Builder
	for _, sp := range r.Root.AllSpecs() {
		switch sp.Status {
		case suite.StatusPassed:
			dots.WriteString(p.speed(sp.Speed, "."))
		case suite.StatusFailed:
			dots.WriteString(p.red("!"))
		default:
			dots.WriteString(p.cyan(","))
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", dots.String())
	fmt.Fprintf(w, "%s\n", p.green(fmt.Sprintf("%d passing", r.Root.Passing)))
	fmt.Fprintf(w, "%s\n", p.cyan(fmt.Sprintf("%d pending", r.Root.Ignored)))
	fmt.Fprintf(w, "%s\n\n", p.red(fmt.Sprintf("%d failed", r.Root.Failing)))
	return nil
}

// ListReporter prints every spec on its own line with its full name.
type ListReporter struct {
	*settings
}

func (f *ListReporter) Report(r *suite.Report) error {
	p := newPalette(f.noColor)
	w := f.writer

	fmt.Fprintf(w, "\n")
	for _, sp := range r.Root.AllSpecs() {
		switch sp.Status {
		case suite.StatusPassed:
			fmt.Fprintf(w, "✓ %s%s\n", p.green(sp.FullName), p.dim(": "+r.Precision.Format(sp.Duration)))
		case suite.StatusFailed:
			fmt.Fprintf(w, "✖ %s\n", p.red(sp.FullName+": "+sp.Error))
		default:
			fmt.Fprintf(w, "  %s\n", p.dim(sp.FullName))
		}
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s\n", p.green(fmt.Sprintf("%d passing %s", r.Root.Passing, r.Precision.Format(r.Root.Duration))))
	fmt.Fprintf(w, "%s\n", p.cyan(fmt.Sprintf("%d pending", r.Root.Ignored)))
	fmt.Fprintf(w, "%s\n\n", p.red(fmt.Sprintf("%d failed", r.Root.Failing)))
	return nil
}
