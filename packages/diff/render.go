package diff

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/fatih/color"
)

//go:embed templates/diff.html.tmpl
var htmlTemplate string

var diffTemplate = template.Must(template.New("diff").Parse(htmlTemplate))

// WriteConsole prints a colored comparison.
func WriteConsole(w io.Writer, r *Result, noColor bool) error {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	green, red, yellow, cyan, bold := mk(color.FgGreen), mk(color.FgRed), mk(color.FgYellow), mk(color.FgCyan), mk(color.Bold)
	plain := func(a ...any) string { return fmt.Sprint(a...) }

	fmt.Fprintf(w, "\n%s\n", bold("Test Results Comparison"))
	fmt.Fprintf(w, "  %s: %s\n", cyan("File 1"), r.File1)
	fmt.Fprintf(w, "  %s: %s\n\n", cyan("File 2"), r.File2)

	s := r.Summary
	fmt.Fprintf(w, "%s\n", bold("Summary"))
	fmt.Fprintf(w, "  Total Tests:    %d\n", s.TotalTests)
	if s.Improved > 0 {
		fmt.Fprintf(w, "  Improved:       %s\n", green(s.Improved))
	}
	if s.Regressed > 0 {
		fmt.Fprintf(w, "  Regressed:      %s\n", red(s.Regressed))
	}
	if s.Unchanged > 0 {
		fmt.Fprintf(w, "  Unchanged:      %d\n", s.Unchanged)
	}
	if s.NewTests > 0 {
		fmt.Fprintf(w, "  New Tests:      %s\n", cyan(s.NewTests))
	}
	if s.RemovedTests > 0 {
		fmt.Fprintf(w, "  Removed Tests:  %s\n", yellow(s.RemovedTests))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", bold("Duration"))
	fmt.Fprintf(w, "  Total (File 1): %.0fms\n", s.TotalDuration1)
	fmt.Fprintf(w, "  Total (File 2): %.0fms\n", s.TotalDuration2)
	fmt.Fprintf(w, "  Avg (File 1):   %.0fms\n", s.AvgDuration1)
	fmt.Fprintf(w, "  Avg (File 2):   %.0fms\n", s.AvgDuration2)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", bold("Test Details"))
	for _, c := range r.Comparisons {
		symbol, paint := "=", plain
		switch c.Change {
		case Improved:
			symbol, paint = "↑", green
		case Regressed:
			symbol, paint = "↓", red
		case New:
			symbol, paint = "+", cyan
		case Removed:
			symbol, paint = "-", yellow
		}

		switch {
		case c.InFile1 && c.InFile2:
			change := ""
			if c.DurationChange > 0 {
				change = fmt.Sprintf("+%.1f%%", c.DurationChange)
			} else if c.DurationChange < 0 {
				change = fmt.Sprintf("%.1f%%", c.DurationChange)
			}
			status := ""
			if c.Status1 != c.Status2 {
				status = fmt.Sprintf(" [%s → %s]", c.Status1, c.Status2)
			}
			fmt.Fprintf(w, "  %s %s  %.0fms → %.0fms %s%s\n", paint(symbol), c.Name, c.Duration1, c.Duration2, paint(change), status)
		case c.InFile1:
			fmt.Fprintf(w, "  %s %s  (removed)\n", paint(symbol), c.Name)
		default:
			fmt.Fprintf(w, "  %s %s  (new, %.0fms)\n", paint(symbol), c.Name, c.Duration2)
		}
	}
	fmt.Fprintln(w)

	if s.ThresholdPercent > 0 {
		if s.ThresholdPassed {
			fmt.Fprintf(w, "%s Threshold check passed (max regression: %.1f%%)\n", green("✓"), s.ThresholdPercent)
		} else {
			fmt.Fprintf(w, "%s Threshold check failed (some tests exceeded %.1f%% regression)\n", red("✗"), s.ThresholdPercent)
		}
	}
	return nil
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteHTML renders the result as a standalone HTML page.
func WriteHTML(w io.Writer, r *Result) error {
	return diffTemplate.Execute(w, r)
}
