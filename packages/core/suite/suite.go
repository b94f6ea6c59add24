package suite

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/state"
	"github.com/abdul-hamid-achik/speclab/packages/logging"
)

// HookMode controls how before_each/after_each reach nested suites.
type HookMode int

const (
	// HookInherit lets a suite without its own before_each/after_each use
	// the nearest ancestor's.
	HookInherit HookMode = iota
	// HookChain runs every ancestor's before_each outermost first, then
	// the suite's own; after_each runs innermost first.
	HookChain
)

func (m HookMode) String() string {
	if m == HookChain {
		return "chain"
	}
	return "inherit"
}

// ParseHookMode accepts "inherit" (or empty) and "chain".
func ParseHookMode(s string) (HookMode, error) {
	switch s {
	case "", "inherit":
		return HookInherit, nil
	case "chain":
		return HookChain, nil
	default:
		return HookInherit, fmt.Errorf("unknown hook mode %q", s)
	}
}

// Suite is a named group of specs and nested suites. Only the root's
// reporter, precision, hook mode and logger are used; Run forces them onto
// the rest of the tree.
type Suite struct {
	name      string
	only      bool
	ctx       *SuiteContext
	precision Precision
	depth     int
	isolated  bool
	hookMode  HookMode
	reporter  Reporter
	logger    *slog.Logger
	clock     func() time.Time

	// parent is set when the suite is grafted into another one.
	parent *Suite

	suiteDuration time.Duration
	totalDuration time.Duration
	start         time.Time
	end           time.Time

	done    bool
	outcome error
	report  *Report
}

func newSuite(name string, build func(*SuiteContext)) *Suite {
	s := &Suite{
		name:   name,
		ctx:    newSuiteContext(),
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	s.ctx.owner = s
	if build != nil {
		build(s.ctx)
	}
	return s
}

// Describe creates a suite and runs build immediately to populate it.
func Describe(name string, build func(*SuiteContext)) *Suite {
	return newSuite(name, build)
}

// DescribeSkip creates a suite that will not run.
func DescribeSkip(name string, build func(*SuiteContext)) *Suite {
	return newSuite(name, build).Skip()
}

// DescribeOnly creates a suite focused among its siblings.
func DescribeOnly(name string, build func(*SuiteContext)) *Suite {
	s := newSuite(name, build)
	s.only = true
	return s
}

func (s *Suite) Retries(n int) *Suite {
	s.ctx.Retries(n)
	return s
}

func (s *Suite) Slow(ms int64) *Suite {
	s.ctx.Slow(ms)
	return s
}

func (s *Suite) Skip() *Suite {
	s.ctx.Skip()
	return s
}

// Only focuses the suite among its siblings.
func (s *Suite) Only() *Suite {
	s.only = true
	return s
}

// State gives the suite an isolated store holding v. Descendants share it
// unless they isolate themselves. It panics if v cannot be serialized, the
// same way a malformed declaration would.
func (s *Suite) State(v any) *Suite {
	store, err := state.NewWith(v)
	if err != nil {
		panic(fmt.Sprintf("suite %q: %v", s.name, err))
	}
	return s.UseState(store)
}

// UseState gives the suite an isolated, caller-owned store.
func (s *Suite) UseState(store *state.Store) *Suite {
	if store == nil {
		store = state.New()
	}
	s.ctx.store = store
	s.isolated = true
	return s
}

// InheritState makes the suite share its parent's store again.
func (s *Suite) InheritState() *Suite {
	s.isolated = false
	return s
}

// WithReporter selects the reporter Run hands the finished report to.
func (s *Suite) WithReporter(r Reporter) *Suite {
	s.reporter = r
	return s
}

func (s *Suite) WithPrecision(p Precision) *Suite {
	s.precision = p
	return s
}

func (s *Suite) Nano() *Suite   { return s.WithPrecision(Nano) }
func (s *Suite) Micro() *Suite  { return s.WithPrecision(Micro) }
func (s *Suite) Millis() *Suite { return s.WithPrecision(Milli) }
func (s *Suite) Sec() *Suite    { return s.WithPrecision(Sec) }

// ChainHooks switches the run to chained before_each/after_each.
func (s *Suite) ChainHooks() *Suite {
	return s.WithHookMode(HookChain)
}

func (s *Suite) WithHookMode(m HookMode) *Suite {
	s.hookMode = m
	return s
}

// WithLogger sets the logger used for pass boundaries, attempts and reporter
// errors. A nil logger restores the no-op default.
func (s *Suite) WithLogger(l *slog.Logger) *Suite {
	if l == nil {
		l = logging.NewNop()
	}
	s.logger = l
	return s
}

func (s *Suite) Name() string { return s.name }

func (s *Suite) Depth() int { return s.depth }

func (s *Suite) Precision() Precision { return s.precision }

func (s *Suite) HookMode() HookMode { return s.hookMode }

// Context returns the suite's declared contents.
func (s *Suite) Context() *SuiteContext { return s.ctx }

// Duration is the elapsed time of the suite's own specs and all descendants.
func (s *Suite) Duration() time.Duration { return s.totalDuration }

// SuiteDuration is the elapsed time of the suite's own specs only.
func (s *Suite) SuiteDuration() time.Duration { return s.suiteDuration }

// Report returns the report built by Run, or nil before Run.
func (s *Suite) Report() *Report { return s.report }

// Result returns the root result of the last run, or nil before Run.
func (s *Suite) Result() *SuiteResult {
	if s.report == nil {
		return nil
	}
	return &s.report.Root
}
