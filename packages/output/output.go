package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
)

// DefaultFormat is used when no reporter is configured.
const DefaultFormat = "spec"

type settings struct {
	writer  io.Writer
	noColor bool
	version string
}

// Option configures a reporter.
type Option func(*settings)

// WithWriter sets where the reporter writes. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.writer = w
	}
}

// WithNoColor disables ANSI colors.
func WithNoColor(nc bool) Option {
	return func(s *settings) {
		s.noColor = nc
	}
}

// WithVersion stamps the tool version into formats that carry one.
func WithVersion(v string) Option {
	return func(s *settings) {
		s.version = v
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{writer: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type factory func(*settings) suite.Reporter

var formats = map[string]factory{
	"spec":        func(s *settings) suite.Reporter { return &SpecReporter{settings: s} },
	"min":         func(s *settings) suite.Reporter { return &MinReporter{settings: s} },
	"dot":         func(s *settings) suite.Reporter { return &DotReporter{settings: s} },
	"list":        func(s *settings) suite.Reporter { return &ListReporter{settings: s} },
	"rust":        func(s *settings) suite.Reporter { return &RustReporter{settings: s} },
	"tap":         func(s *settings) suite.Reporter { return &TAPReporter{settings: s} },
	"json":        func(s *settings) suite.Reporter { return &JSONReporter{settings: s} },
	"json-pretty": func(s *settings) suite.Reporter { return &JSONReporter{settings: s, pretty: true} },
	"junit":       func(s *settings) suite.Reporter { return &JUnitReporter{settings: s} },
	"html":        func(s *settings) suite.Reporter { return &HTMLReporter{settings: s} },
	"table":       func(s *settings) suite.Reporter { return &TableReporter{settings: s} },
}

// Formats lists the reporter names accepted by New.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the reporter registered under format. An empty format selects
// DefaultFormat.
func New(format string, opts ...Option) (suite.Reporter, error) {
	if format == "" {
		format = DefaultFormat
	}
	f, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown reporter %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
	return f(newSettings(opts)), nil
}

// NewFile returns a reporter that renders format into path, creating parent
// directories as needed. ANSI escapes are stripped from the file contents.
func NewFile(format, path string, opts ...Option) (suite.Reporter, error) {
	if _, err := New(format); err != nil {
		return nil, err
	}
	return suite.ReporterFunc(func(r *suite.Report) error {
		var buf bytes.Buffer
		rep, err := New(format, append(opts, WithWriter(&buf))...)
		if err != nil {
			return err
		}
		if err := rep.Report(r); err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(stripansi.Strip(buf.String())), 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	}), nil
}

// palette hands out color functions honoring the noColor setting.
type palette struct {
	green  func(a ...any) string
	red    func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string
	dim    func(a ...any) string
	bold   func(a ...any) string
}

func newPalette(noColor bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		green:  mk(color.FgGreen),
		red:    mk(color.FgRed),
		yellow: mk(color.FgYellow),
		cyan:   mk(color.FgCyan),
		dim:    mk(color.Faint),
		bold:   mk(color.Bold),
	}
}

// speed colors a formatted duration: fast green, on time yellow, slow red.
func (p palette) speed(sp suite.Speed, s string) string {
	switch sp {
	case suite.Slow:
		return p.red(s)
	case suite.OnTime:
		return p.yellow(s)
	default:
		return p.green(s)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
