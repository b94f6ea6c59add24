package output

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// RustReporter mimics the cargo test listing, naming each spec by its
// snake_cased suite path.
type RustReporter struct {
	*settings
}

func (f *RustReporter) Report(r *suite.Report) error {
	p := newPalette(f.noColor)
	w := f.writer
	root := r.Root

	var failed []string
	var walk func(s *suite.SuiteResult, prefix string)
	walk = func(s *suite.SuiteResult, prefix string) {
		for _, sp := range s.Specs {
			path := prefix + "::" + snakeCase(sp.Name)
			switch sp.Status {
			case suite.StatusPassed:
				fmt.Fprintf(w, "test %s ... %s\n", path, p.green("ok"))
			case suite.StatusFailed:
				fmt.Fprintf(w, "test %s ... %s\n", path, p.red("FAILED"))
				failed = append(failed, path)
			default:
				fmt.Fprintf(w, "test %s ... %s\n", path, p.cyan("ignored"))
			}
		}
		for i := range s.Suites {
			walk(&s.Suites[i], prefix+"::"+snakeCase(s.Suites[i].Name))
		}
	}

	total := root.Total()
	fmt.Fprintf(w, "\nrunning %d test%s\n\n", total, plural(total))
	walk(&root, snakeCase(root.Name))
	fmt.Fprintf(w, "\n")

	passed := p.green(fmt.Sprintf("%d passed", root.Passing))
	ignored := p.cyan(fmt.Sprintf("%d ignored", root.Ignored))
	if len(failed) == 0 {
		fmt.Fprintf(w, "test result: ok. %s; 0 failed; %s; 0 measured; 0 filtered out; finished in %s\n\n",
			passed, ignored, r.Precision.Format(root.Duration))
		return nil
	}

	fmt.Fprintf(w, "%s\n", p.red("failures:"))
	for _, path := range failed {
		fmt.Fprintf(w, "    %s\n", p.red(path))
	}
	fmt.Fprintf(w, "\ntest result: %s. %s; %s; %s; 0 measured; 0 filtered out; finished in %s\n\n",
		p.red("FAILED"), passed, p.red(fmt.Sprintf("%d failed", root.Failing)), ignored,
		r.Precision.Format(root.Duration))
	return nil
}

// snakeCase lowercases s and joins its words with underscores. Word breaks
// are non-alphanumeric runs and lower-to-upper transitions.
func snakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	pendingSep := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = b.Len() > 0
			prevLower = false
			continue
		}
		if unicode.IsUpper(r) && prevLower {
			pendingSep = true
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}
