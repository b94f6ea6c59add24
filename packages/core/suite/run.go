package suite

import (
	"time"

	"github.com/google/uuid"
)

// Run executes the suite tree rooted at s and hands the finished report to
// the configured reporter. It returns nil when no spec failed and a
// *RunError otherwise. A suite runs once; later calls return the first
// outcome without executing anything.
func (s *Suite) Run() error {
	if s.done {
		return s.outcome
	}
	log := s.logger.With("suite", s.name)

	assignDepth(s, 0)
	next := 1
	assignOrder(s, &next)
	resolveSkips(s)
	resolveHooks(s, nil, nil, s.hookMode)
	shareState(s)
	propagatePrecision(s, s.precision)
	resolveOverrides(s, nil, nil)
	log.Debug("tree prepared", "specs", next-1, "hookMode", s.hookMode, "precision", s.precision)

	ex := &executor{clock: s.clock, log: s.logger}
	start := s.clock()
	if s.ctx.skip {
		log.Debug("root suite skipped")
	} else {
		ex.suite(s)
	}
	end := s.clock()

	aggregate(s)
	classifySpeeds(s)

	s.report = &Report{
		RunID:     uuid.NewString(),
		Precision: s.precision,
		Start:     start,
		End:       end,
		Root:      snapshotSuite(s, ""),
	}
	log.Debug("run finished",
		"runId", s.report.RunID,
		"passed", s.ctx.passed,
		"failed", s.ctx.failed,
		"ignored", s.ctx.ignored,
		"duration", s.totalDuration,
	)

	if s.reporter != nil {
		if err := s.reporter.Report(s.report); err != nil {
			log.Error("reporter failed", "error", err)
		}
	}

	s.done = true
	s.outcome = s.report.Err()
	return s.outcome
}

func assignDepth(s *Suite, depth int) {
	s.depth = depth
	for _, child := range s.ctx.suites {
		assignDepth(child, depth+1)
	}
}

// assignOrder numbers specs pre-order: a suite's own specs before those of
// its children.
func assignOrder(s *Suite, next *int) {
	for _, sp := range s.ctx.specs {
		sp.order = *next
		*next++
	}
	for _, child := range s.ctx.suites {
		assignOrder(child, next)
	}
}

// resolveSkips applies skip and only per node. A skipped suite skips
// everything beneath it. Otherwise an only among the direct specs skips the
// other direct specs, and an only among the direct child suites skips the
// other child suites; the two groups are resolved independently.
func resolveSkips(s *Suite) {
	ctx := s.ctx
	if ctx.skip {
		for _, sp := range ctx.specs {
			sp.skip = true
		}
		for _, child := range ctx.suites {
			child.ctx.skip = true
		}
	} else {
		focusSpecs(ctx.specs)
		focusSuites(ctx.suites)
	}
	for _, child := range ctx.suites {
		resolveSkips(child)
	}
}

func focusSpecs(specs []*Spec) {
	focused := false
	for _, sp := range specs {
		if sp.only {
			focused = true
			break
		}
	}
	if !focused {
		return
	}
	for _, sp := range specs {
		if !sp.only {
			sp.skip = true
		}
	}
}

func focusSuites(suites []*Suite) {
	focused := false
	for _, child := range suites {
		if child.only {
			focused = true
			break
		}
	}
	if !focused {
		return
	}
	for _, child := range suites {
		if !child.only {
			child.ctx.skip = true
		}
	}
}

// resolveHooks computes the before_each/after_each sequence each suite runs
// around its specs, given the parent's resolved sequences.
func resolveHooks(s *Suite, before, after []Hook, mode HookMode) {
	ctx := s.ctx
	switch mode {
	case HookChain:
		ctx.eachBefore = appendHook(append([]Hook(nil), before...), ctx.beforeEach)
		ctx.eachAfter = append(appendHook(nil, ctx.afterEach), after...)
	default:
		ctx.eachBefore = before
		if ctx.beforeEach != nil {
			ctx.eachBefore = []Hook{ctx.beforeEach}
		}
		ctx.eachAfter = after
		if ctx.afterEach != nil {
			ctx.eachAfter = []Hook{ctx.afterEach}
		}
	}
	for _, child := range ctx.suites {
		resolveHooks(child, ctx.eachBefore, ctx.eachAfter, mode)
	}
}

func appendHook(hooks []Hook, h Hook) []Hook {
	if h == nil {
		return hooks
	}
	return append(hooks, h)
}

// shareState points every non-isolated child at its parent's store.
func shareState(s *Suite) {
	for _, child := range s.ctx.suites {
		if !child.isolated {
			child.ctx.store = s.ctx.store
		}
		shareState(child)
	}
}

func propagatePrecision(s *Suite, p Precision) {
	s.precision = p
	for _, child := range s.ctx.suites {
		propagatePrecision(child, p)
	}
}

// resolveOverrides fixes each spec's retry budget and slow threshold: the
// spec's own value, else the nearest suite's, else none.
func resolveOverrides(s *Suite, retries *int, slow *time.Duration) {
	ctx := s.ctx
	if ctx.retries != nil {
		retries = ctx.retries
	}
	if ctx.slow != nil {
		slow = ctx.slow
	}
	for _, sp := range ctx.specs {
		sc := sp.ctx
		sc.budget = 0
		switch {
		case sc.retries != nil:
			sc.budget = *sc.retries
		case retries != nil:
			sc.budget = *retries
		}
		sc.threshold, sc.hasSlow = 0, false
		switch {
		case sc.slow != nil:
			sc.threshold, sc.hasSlow = *sc.slow, true
		case slow != nil:
			sc.threshold, sc.hasSlow = *slow, true
		}
	}
	for _, child := range ctx.suites {
		resolveOverrides(child, retries, slow)
	}
}
