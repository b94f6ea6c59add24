package suite

import (
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/state"
)

// Body is a spec's test function. Returning a non-nil error fails the
// attempt.
type Body func(*SpecContext) error

// Spec is a single test case. Specs are created through SuiteContext.It and
// friends; the returned pointer chains per-spec overrides.
type Spec struct {
	name  string
	order int
	only  bool
	skip  bool
	body  Body
	ctx   *SpecContext

	ran      bool
	err      error
	duration time.Duration
}

func newSpec(name string, body Body) *Spec {
	sp := &Spec{name: name, body: body}
	sp.ctx = &SpecContext{spec: sp}
	return sp
}

// Retries allows n additional attempts after a failure. It takes precedence
// over any suite-level setting.
func (sp *Spec) Retries(n int) *Spec {
	if n < 0 {
		n = 0
	}
	sp.ctx.retries = &n
	return sp
}

// Slow sets the slow threshold in milliseconds for this spec.
func (sp *Spec) Slow(ms int64) *Spec {
	d := time.Duration(ms) * time.Millisecond
	sp.ctx.slow = &d
	return sp
}

// Skip excludes the spec from the run.
func (sp *Spec) Skip() *Spec {
	sp.skip = true
	return sp
}

// Only focuses the spec among its siblings.
func (sp *Spec) Only() *Spec {
	sp.only = true
	return sp
}

func (sp *Spec) Name() string { return sp.name }

// Order is the spec's position in the pre-order walk, starting at 1. It is
// zero until Run has indexed the tree.
func (sp *Spec) Order() int { return sp.order }

// Skipped reports whether the spec was excluded, either directly or through
// only/skip resolution.
func (sp *Spec) Skipped() bool { return sp.skip }

// Err returns the last attempt's failure, or nil.
func (sp *Spec) Err() error { return sp.err }

func (sp *Spec) Duration() time.Duration { return sp.duration }

// Context returns the spec's runtime handle.
func (sp *Spec) Context() *SpecContext { return sp.ctx }

// SpecContext is handed to a spec body while it runs.
type SpecContext struct {
	spec     *Spec
	store    *state.Store
	retries  *int
	slow     *time.Duration
	attempts int
	speed    Speed

	// resolved before execution
	budget    int
	threshold time.Duration
	hasSlow   bool
}

// State returns the store shared with the owning suite.
func (c *SpecContext) State() *state.Store { return c.store }

// Attempts is the number of times the body has been entered, including the
// current attempt.
func (c *SpecContext) Attempts() int { return c.attempts }

// Speed is only meaningful after the run has finished.
func (c *SpecContext) Speed() Speed { return c.speed }

func (c *SpecContext) Name() string { return c.spec.name }

// Retries is the effective retry budget once Run has resolved overrides.
func (c *SpecContext) Retries() int { return c.budget }

// SlowThreshold is the effective slow threshold and whether one applies.
func (c *SpecContext) SlowThreshold() (time.Duration, bool) {
	return c.threshold, c.hasSlow
}
