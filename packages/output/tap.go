package output

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// TAPReporter formats results in TAP (Test Anything Protocol) version 13.
type TAPReporter struct {
	*settings
}

func (f *TAPReporter) Report(r *suite.Report) error {
	w := f.writer
	specs := r.Root.AllSpecs()

	fmt.Fprintf(w, "TAP version 13\n")
	fmt.Fprintf(w, "1..%d\n", len(specs))

	for i, sp := range specs {
		n := i + 1
		switch sp.Status {
		case suite.StatusIgnored:
			fmt.Fprintf(w, "ok %d - %s # SKIP\n", n, sp.FullName)
		case suite.StatusFailed:
			fmt.Fprintf(w, "not ok %d - %s\n", n, sp.FullName)
			fmt.Fprintf(w, "  ---\n")
			fmt.Fprintf(w, "  message: %s\n", escapeYAML(sp.Error))
			fmt.Fprintf(w, "  severity: fail\n")
			fmt.Fprintf(w, "  attempts: %d\n", sp.Attempts)
			fmt.Fprintf(w, "  duration_ms: %d\n", sp.Duration.Milliseconds())
			fmt.Fprintf(w, "  ...\n")
		default:
			fmt.Fprintf(w, "ok %d - %s\n", n, sp.FullName)
		}
	}

	fmt.Fprintf(w, "# tests %d\n", len(specs))
	fmt.Fprintf(w, "# pass %d\n", r.Root.Passing)
	fmt.Fprintf(w, "# fail %d\n", r.Root.Failing)
	fmt.Fprintf(w, "# skip %d\n", r.Root.Ignored)
	return nil
}

func escapeYAML(s string) string {
	// quote when the message contains YAML indicators
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
