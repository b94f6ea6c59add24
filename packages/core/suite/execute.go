package suite

import (
	"log/slog"
	"time"
)

type executor struct {
	clock func() time.Time
	log   *slog.Logger
}

// suite runs before_all, the suite's own specs, its non-skipped children and
// finally after_all.
func (e *executor) suite(s *Suite) {
	ctx := s.ctx
	s.start = e.clock()
	e.log.Debug("entering suite", "suite", s.name, "depth", s.depth)

	if ctx.beforeAll != nil {
		ctx.beforeAll(ctx.store)
	}
	for _, sp := range ctx.specs {
		if sp.skip {
			continue
		}
		e.spec(s, sp)
	}
	for _, child := range ctx.suites {
		if child.ctx.skip {
			continue
		}
		e.suite(child)
	}
	if ctx.afterAll != nil {
		ctx.afterAll(ctx.store)
	}

	s.end = e.clock()
}

// spec runs up to 1+budget attempts and keeps only the last one.
func (e *executor) spec(s *Suite, sp *Spec) {
	ctx := s.ctx
	sc := sp.ctx
	sc.store = ctx.store

	attempts := 1 + sc.budget
	for i := 0; i < attempts; i++ {
		for _, h := range ctx.eachBefore {
			h(ctx.store)
		}
		sc.attempts++

		start := e.clock()
		err := callBody(sp.body, sc)
		elapsed := s.precision.Truncate(e.clock().Sub(start))

		for _, h := range ctx.eachAfter {
			h(ctx.store)
		}

		sp.ran = true
		sp.duration = elapsed
		sp.err = nil
		if err != nil {
			sp.err = &SpecFailure{Spec: sp.name, Attempts: sc.attempts, Err: err}
		}
		e.log.Debug("spec attempt",
			"spec", sp.name,
			"attempt", sc.attempts,
			"of", attempts,
			"duration", elapsed,
			"error", err,
		)
		if err == nil {
			return
		}
	}
}

// callBody treats a nil body as an empty, passing spec.
func callBody(body Body, sc *SpecContext) error {
	if body == nil {
		return nil
	}
	return body(sc)
}

// aggregate fills counters and durations bottom-up. A suite's own duration
// covers its specs; the total adds every descendant.
func aggregate(s *Suite) {
	ctx := s.ctx
	ctx.passed, ctx.failed, ctx.ignored = 0, 0, 0

	var own time.Duration
	for _, sp := range ctx.specs {
		switch {
		case !sp.ran:
			ctx.ignored++
		case sp.err == nil:
			ctx.passed++
		default:
			ctx.failed++
		}
		own += sp.duration
	}
	s.suiteDuration = own

	total := own
	for _, child := range ctx.suites {
		aggregate(child)
		ctx.passed += child.ctx.passed
		ctx.failed += child.ctx.failed
		ctx.ignored += child.ctx.ignored
		total += child.totalDuration
	}
	s.totalDuration = total
}

func classifySpeeds(s *Suite) {
	for _, sp := range s.ctx.specs {
		if sp.ran {
			sp.ctx.speed = classify(sp.duration, sp.ctx.threshold, sp.ctx.hasSlow)
		}
	}
	for _, child := range s.ctx.suites {
		classifySpeeds(child)
	}
}

// snapshotSuite copies the live tree into detached results.
func snapshotSuite(s *Suite, prefix string) SuiteResult {
	ctx := s.ctx
	full := joinName(prefix, s.name)
	res := SuiteResult{
		Name:          s.name,
		FullName:      full,
		Depth:         s.depth,
		Skipped:       ctx.skip,
		Passing:       ctx.passed,
		Failing:       ctx.failed,
		Ignored:       ctx.ignored,
		Duration:      s.totalDuration,
		SuiteDuration: s.suiteDuration,
		Start:         s.start,
		End:           s.end,
		Specs:         make([]SpecResult, 0, len(ctx.specs)),
		Suites:        make([]SuiteResult, 0, len(ctx.suites)),
	}
	for _, sp := range ctx.specs {
		res.Specs = append(res.Specs, snapshotSpec(sp, full))
	}
	for _, child := range ctx.suites {
		res.Suites = append(res.Suites, snapshotSuite(child, full))
	}
	return res
}

func snapshotSpec(sp *Spec, prefix string) SpecResult {
	sc := sp.ctx
	res := SpecResult{
		Name:     sp.name,
		FullName: joinName(prefix, sp.name),
		Order:    sp.order,
		Status:   StatusIgnored,
		Attempts: sc.attempts,
	}
	if !sp.ran {
		return res
	}
	res.Duration = sp.duration
	res.Speed = sc.speed
	if sc.hasSlow {
		res.Slow = sc.threshold
	}
	if sp.err != nil {
		res.Status = StatusFailed
		res.Error = sp.err.Error()
	} else {
		res.Status = StatusPassed
	}
	return res
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}
