package suite

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/state"
)

// Hook is a setup or teardown callback. It receives the suite's shared state.
type Hook func(*state.Store)

// SuiteContext is what a suite builder populates: hooks, specs, child suites
// and suite-level overrides.
type SuiteContext struct {
	owner *Suite
	store *state.Store

	beforeAll  Hook
	beforeEach Hook
	afterAll   Hook
	afterEach  Hook

	specs  []*Spec
	suites []*Suite

	retries *int
	slow    *time.Duration
	skip    bool

	passed  int
	failed  int
	ignored int

	// before_each/after_each chains resolved for this node
	eachBefore []Hook
	eachAfter  []Hook
}

func newSuiteContext() *SuiteContext {
	return &SuiteContext{store: state.New()}
}

// It appends a spec.
func (c *SuiteContext) It(name string, body Body) *Spec {
	sp := newSpec(name, body)
	c.specs = append(c.specs, sp)
	return sp
}

// ItSkip appends a spec that will not run.
func (c *SuiteContext) ItSkip(name string, body Body) *Spec {
	return c.It(name, body).Skip()
}

// ItOnly appends a focused spec.
func (c *SuiteContext) ItOnly(name string, body Body) *Spec {
	return c.It(name, body).Only()
}

// Describe builds a nested suite immediately and adds it as a child.
func (c *SuiteContext) Describe(name string, build func(*SuiteContext)) *Suite {
	return c.DescribeImport(Describe(name, build))
}

func (c *SuiteContext) DescribeSkip(name string, build func(*SuiteContext)) *Suite {
	return c.DescribeImport(DescribeSkip(name, build))
}

func (c *SuiteContext) DescribeOnly(name string, build func(*SuiteContext)) *Suite {
	return c.DescribeImport(DescribeOnly(name, build))
}

// DescribeImport grafts an already built suite as a child without running
// its builder again. A suite can be grafted once, and only before it has
// run; grafting it a second time, after a run, or under itself panics.
func (c *SuiteContext) DescribeImport(s *Suite) *Suite {
	if err := c.canGraft(s); err != nil {
		panic(err)
	}
	s.parent = c.owner
	c.suites = append(c.suites, s)
	return s
}

func (c *SuiteContext) canGraft(s *Suite) error {
	switch {
	case s.parent != nil:
		return fmt.Errorf("suite: %q is already imported into %q", s.name, s.parent.name)
	case s.done:
		return fmt.Errorf("suite: %q has already run", s.name)
	}
	for p := c.owner; p != nil; p = p.parent {
		if p == s {
			return fmt.Errorf("suite: %q cannot be imported into itself", s.name)
		}
	}
	return nil
}

func (c *SuiteContext) DescribeImportSkip(s *Suite) *Suite {
	return c.DescribeImport(s).Skip()
}

func (c *SuiteContext) DescribeImportOnly(s *Suite) *Suite {
	c.DescribeImport(s).only = true
	return s
}

// BeforeAll runs once before the suite's specs. A second call replaces the
// first.
func (c *SuiteContext) BeforeAll(h Hook) *SuiteContext {
	c.beforeAll = h
	return c
}

// BeforeEach runs before every attempt of every spec in the suite and, unless
// they define their own, in its descendants.
func (c *SuiteContext) BeforeEach(h Hook) *SuiteContext {
	c.beforeEach = h
	return c
}

// AfterAll runs once after the suite's specs and child suites.
func (c *SuiteContext) AfterAll(h Hook) *SuiteContext {
	c.afterAll = h
	return c
}

// AfterEach runs after every attempt of every spec in the suite.
func (c *SuiteContext) AfterEach(h Hook) *SuiteContext {
	c.afterEach = h
	return c
}

// Retries sets the retry budget for specs in this suite and below that have
// no closer override.
func (c *SuiteContext) Retries(n int) *SuiteContext {
	if n < 0 {
		n = 0
	}
	c.retries = &n
	return c
}

// Slow sets the slow threshold in milliseconds for specs in this suite and
// below that have no closer override.
func (c *SuiteContext) Slow(ms int64) *SuiteContext {
	d := time.Duration(ms) * time.Millisecond
	c.slow = &d
	return c
}

// Skip excludes the whole suite.
func (c *SuiteContext) Skip() *SuiteContext {
	c.skip = true
	return c
}

// State returns the suite's store. Before Run this is the suite's own store;
// during and after Run it is whichever store the suite shares.
func (c *SuiteContext) State() *state.Store { return c.store }

func (c *SuiteContext) Specs() []*Spec { return c.specs }

func (c *SuiteContext) Suites() []*Suite { return c.suites }

// Counts returns the aggregated passed, failed and ignored totals.
func (c *SuiteContext) Counts() (passed, failed, ignored int) {
	return c.passed, c.failed, c.ignored
}
