package suite

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/state"
	"github.com/abdul-hamid-achik/speclab/packages/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(*SpecContext) error { return nil }

func fail(msg string) Body {
	return func(*SpecContext) error { return errors.New(msg) }
}

// fakeClock only moves when a test advances it.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func appendEntry(entry string) Hook {
	return func(st *state.Store) {
		entries, _ := state.Get[[]string](st)
		_ = state.Set(st, append(entries, entry))
	}
}

func TestRun_OnlyScenario(t *testing.T) {
	var ran []string
	record := func(name string) Body {
		return func(*SpecContext) error {
			ran = append(ran, name)
			return nil
		}
	}

	s := Describe("A", func(c *SuiteContext) {
		c.It("p1", record("p1"))
		c.ItOnly("p2", record("p2"))
		c.It("p3", record("p3"))
	})

	require.NoError(t, s.Run())
	passed, failed, ignored := s.Context().Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 2, ignored)
	assert.Equal(t, []string{"p2"}, ran)

	res := s.Result()
	require.NotNil(t, res)
	assert.Equal(t, StatusIgnored, res.Specs[0].Status)
	assert.Equal(t, StatusPassed, res.Specs[1].Status)
	assert.Equal(t, StatusIgnored, res.Specs[2].Status)
}

func TestRun_OnlyAtDepth(t *testing.T) {
	s := Describe("root", func(c *SuiteContext) {
		c.Describe("level1", func(c *SuiteContext) {
			c.Describe("level2", func(c *SuiteContext) {
				c.It("a", ok)
				c.It("b", ok)
				c.ItOnly("c", ok)
				c.It("d", ok)
			})
		})
	})

	require.NoError(t, s.Run())
	passed, _, ignored := s.Context().Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 3, ignored)
}

func TestRun_OnlyResolvedPerNode(t *testing.T) {
	var ran []string
	record := func(name string) Body {
		return func(*SpecContext) error {
			ran = append(ran, name)
			return nil
		}
	}

	s := Describe("root", func(c *SuiteContext) {
		c.It("root spec", record("root spec"))
		c.DescribeOnly("focused", func(c *SuiteContext) {
			c.It("f1", record("f1"))
		})
		c.Describe("unfocused", func(c *SuiteContext) {
			c.ItOnly("deep only", record("deep only"))
		})
	})

	require.NoError(t, s.Run())

	// suite-level only does not touch the root's own specs, and a deeper
	// only does not rescue a suite skipped by its parent's only
	assert.Equal(t, []string{"root spec", "f1"}, ran)
	passed, failed, ignored := s.Context().Counts()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, ignored)
}

func TestRun_RetriesAlwaysFailing(t *testing.T) {
	for _, k := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("retries=%d", k), func(t *testing.T) {
			calls := 0
			var sp *Spec
			s := Describe("retry", func(c *SuiteContext) {
				sp = c.It("flaky", func(sc *SpecContext) error {
					calls++
					return fmt.Errorf("attempt %d failed", sc.Attempts())
				}).Retries(k)
			})

			err := s.Run()
			var runErr *RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, 1, runErr.Failed)
			assert.Equal(t, k+1, calls)
			assert.Equal(t, k+1, sp.Context().Attempts())

			res := s.Result().Specs[0]
			assert.Equal(t, StatusFailed, res.Status)
			assert.Equal(t, fmt.Sprintf("attempt %d failed", k+1), res.Error)

			var failure *SpecFailure
			require.ErrorAs(t, sp.Err(), &failure)
			assert.Equal(t, k+1, failure.Attempts)
		})
	}
}

func TestRun_RetriesStopAtFirstSuccess(t *testing.T) {
	for j := 1; j <= 4; j++ {
		t.Run(fmt.Sprintf("succeeds on attempt %d", j), func(t *testing.T) {
			var sp *Spec
			s := Describe("retry", func(c *SuiteContext) {
				sp = c.It("eventually", func(sc *SpecContext) error {
					if sc.Attempts() < j {
						return errors.New("not yet")
					}
					return nil
				}).Retries(3)
			})

			require.NoError(t, s.Run())
			assert.Equal(t, j, sp.Context().Attempts())
			assert.NoError(t, sp.Err())
			assert.Equal(t, StatusPassed, s.Result().Specs[0].Status)
			assert.Empty(t, s.Result().Specs[0].Error)
		})
	}
}

func TestRun_RetryKeepsLastDuration(t *testing.T) {
	clk := newFakeClock()
	var sp *Spec
	s := Describe("timing", func(c *SuiteContext) {
		sp = c.It("third time lucky", func(sc *SpecContext) error {
			clk.Advance(time.Duration(sc.Attempts()) * 10 * time.Millisecond)
			if sc.Attempts() < 3 {
				return errors.New("nope")
			}
			return nil
		}).Retries(2)
	})
	s.clock = clk.Now

	require.NoError(t, s.Run())
	assert.Equal(t, 3, sp.Context().Attempts())
	assert.Equal(t, 30*time.Millisecond, sp.Duration())
	assert.Equal(t, 30*time.Millisecond, s.Result().Specs[0].Duration)
	assert.Equal(t, 30*time.Millisecond, s.SuiteDuration())
}

func TestRun_SkipPropagates(t *testing.T) {
	hookRan := false
	s := Describe("root", func(c *SuiteContext) {
		c.It("runs", ok)
		c.DescribeSkip("skipped", func(c *SuiteContext) {
			c.BeforeAll(func(*state.Store) { hookRan = true })
			c.It("a", ok)
			c.Describe("nested", func(c *SuiteContext) {
				c.It("b", fail("never"))
				c.DescribeOnly("focused", func(c *SuiteContext) {
					c.ItOnly("c", ok)
				})
			})
		})
	})

	require.NoError(t, s.Run())
	assert.False(t, hookRan)

	passed, failed, ignored := s.Context().Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 3, ignored)

	skipped := s.Result().Suites[0]
	assert.True(t, skipped.Skipped)
	for _, sp := range skipped.AllSpecs() {
		assert.Equal(t, StatusIgnored, sp.Status, sp.Name)
		assert.Zero(t, sp.Attempts, sp.Name)
	}
	skipped.Walk(func(r *SuiteResult) {
		assert.True(t, r.Skipped, r.Name)
	})
}

func TestRun_SkippedRootRunsNothing(t *testing.T) {
	var events []string
	s := DescribeSkip("root", func(c *SuiteContext) {
		c.BeforeAll(func(*state.Store) { events = append(events, "before_all") })
		c.AfterAll(func(*state.Store) { events = append(events, "after_all") })
		c.It("a", ok)
	})

	require.NoError(t, s.Run())
	assert.Empty(t, events)
	_, _, ignored := s.Context().Counts()
	assert.Equal(t, 1, ignored)
}

func TestRun_BeforeAllOrder(t *testing.T) {
	var seen []string
	s := Describe("A", func(c *SuiteContext) {
		c.BeforeAll(appendEntry("A"))
		c.Describe("sibling", func(c *SuiteContext) {
			c.BeforeAll(appendEntry("sibling"))
		})
		c.Describe("B", func(c *SuiteContext) {
			c.BeforeAll(appendEntry("B"))
			c.It("s", func(sc *SpecContext) error {
				entries, err := state.Get[[]string](sc.State())
				if err != nil {
					return err
				}
				seen = entries
				return nil
			})
		})
	}).State([]string{})

	require.NoError(t, s.Run())
	require.Len(t, seen, 3)
	assert.Equal(t, "A", seen[0])
	assert.Equal(t, "B", seen[len(seen)-1])
}

func TestRun_EmptySuiteRunsAllHooksOnce(t *testing.T) {
	before, after := 0, 0
	s := Describe("empty", func(c *SuiteContext) {
		c.BeforeAll(func(*state.Store) { before++ })
		c.AfterAll(func(*state.Store) { after++ })
	})

	require.NoError(t, s.Run())
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
	assert.Zero(t, s.Result().Total())
}

func TestRun_HookOrder(t *testing.T) {
	var events []string
	hook := func(name string) Hook {
		return func(*state.Store) { events = append(events, name) }
	}
	body := func(name string) Body {
		return func(*SpecContext) error {
			events = append(events, name)
			return nil
		}
	}

	build := func() *Suite {
		return Describe("outer", func(c *SuiteContext) {
			c.BeforeAll(hook("outer:before_all"))
			c.BeforeEach(hook("outer:before_each"))
			c.AfterEach(hook("outer:after_each"))
			c.AfterAll(hook("outer:after_all"))
			c.It("o", body("o"))
			c.Describe("inner", func(c *SuiteContext) {
				c.BeforeEach(hook("inner:before_each"))
				c.It("i", body("i"))
			})
			c.Describe("bare", func(c *SuiteContext) {
				c.It("b", body("b"))
			})
		})
	}

	t.Run("inherit", func(t *testing.T) {
		events = nil
		require.NoError(t, build().Run())
		assert.Equal(t, []string{
			"outer:before_all",
			"outer:before_each", "o", "outer:after_each",
			"inner:before_each", "i", "outer:after_each",
			"outer:before_each", "b", "outer:after_each",
			"outer:after_all",
		}, events)
	})

	t.Run("chain", func(t *testing.T) {
		events = nil
		require.NoError(t, build().ChainHooks().Run())
		assert.Equal(t, []string{
			"outer:before_all",
			"outer:before_each", "o", "outer:after_each",
			"outer:before_each", "inner:before_each", "i", "outer:after_each",
			"outer:before_each", "b", "outer:after_each",
			"outer:after_all",
		}, events)
	})

	t.Run("chain after_each innermost first", func(t *testing.T) {
		events = nil
		s := Describe("outer", func(c *SuiteContext) {
			c.AfterEach(hook("outer"))
			c.Describe("inner", func(c *SuiteContext) {
				c.AfterEach(hook("inner"))
				c.It("i", body("i"))
			})
		}).ChainHooks()
		require.NoError(t, s.Run())
		assert.Equal(t, []string{"i", "inner", "outer"}, events)
	})

	t.Run("hooks run on every attempt", func(t *testing.T) {
		events = nil
		s := Describe("retry", func(c *SuiteContext) {
			c.BeforeEach(hook("before"))
			c.AfterEach(hook("after"))
			c.It("flaky", fail("x")).Retries(1)
		})
		require.Error(t, s.Run())
		assert.Equal(t, []string{"before", "after", "before", "after"}, events)
	})

	t.Run("last hook wins", func(t *testing.T) {
		events = nil
		s := Describe("replace", func(c *SuiteContext) {
			c.BeforeEach(hook("first")).BeforeEach(hook("second"))
			c.It("x", body("x"))
		})
		require.NoError(t, s.Run())
		assert.Equal(t, []string{"second", "x"}, events)
	})
}

func TestRun_StateSharing(t *testing.T) {
	t.Run("shared by default", func(t *testing.T) {
		root := Describe("root", func(c *SuiteContext) {
			c.Describe("child", func(c *SuiteContext) {
				c.It("writes", func(sc *SpecContext) error {
					return state.Set(sc.State(), 42)
				})
			})
		}).State(0)

		require.NoError(t, root.Run())
		got, err := state.Get[int](root.Context().State())
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("isolated child", func(t *testing.T) {
		var child *Suite
		root := Describe("root", func(c *SuiteContext) {
			child = c.Describe("child", func(c *SuiteContext) {
				c.It("writes", func(sc *SpecContext) error {
					return state.Set(sc.State(), "child")
				})
			}).State("fresh")
		}).State("root")

		require.NoError(t, root.Run())
		got, err := state.Get[string](root.Context().State())
		require.NoError(t, err)
		assert.Equal(t, "root", got)

		childVal, err := state.Get[string](child.Context().State())
		require.NoError(t, err)
		assert.Equal(t, "child", childVal)
	})

	t.Run("inherit state reverts isolation", func(t *testing.T) {
		root := Describe("root", func(c *SuiteContext) {
			c.Describe("child", func(c *SuiteContext) {
				c.It("writes", func(sc *SpecContext) error {
					return state.Set(sc.State(), "child")
				})
			}).State("fresh").InheritState()
		}).State("root")

		require.NoError(t, root.Run())
		got, err := state.Get[string](root.Context().State())
		require.NoError(t, err)
		assert.Equal(t, "child", got)
	})

	t.Run("mismatched read fails the spec", func(t *testing.T) {
		s := Describe("root", func(c *SuiteContext) {
			c.It("reads wrong type", func(sc *SpecContext) error {
				_, err := state.Get[int](sc.State())
				return err
			})
		}).State("text")

		err := s.Run()
		require.Error(t, err)
		assert.Contains(t, s.Result().Specs[0].Error, "cannot read string as int")
	})
}

func TestRun_Overrides(t *testing.T) {
	var a, b, c, d *Spec
	s := Describe("root", func(sc *SuiteContext) {
		sc.Retries(1).Slow(100)
		a = sc.It("root default", ok)
		b = sc.It("own override", ok).Retries(5).Slow(10)
		sc.Describe("child", func(sc *SuiteContext) {
			sc.Retries(2)
			c = sc.It("child default", ok)
			sc.Describe("grandchild", func(sc *SuiteContext) {
				d = sc.It("grandchild default", ok)
			})
		})
	})

	require.NoError(t, s.Run())

	assert.Equal(t, 1, a.Context().Retries())
	assert.Equal(t, 5, b.Context().Retries())
	assert.Equal(t, 2, c.Context().Retries())
	assert.Equal(t, 2, d.Context().Retries())

	th, has := a.Context().SlowThreshold()
	assert.True(t, has)
	assert.Equal(t, 100*time.Millisecond, th)
	th, _ = b.Context().SlowThreshold()
	assert.Equal(t, 10*time.Millisecond, th)
	th, _ = d.Context().SlowThreshold()
	assert.Equal(t, 100*time.Millisecond, th)
}

func TestRun_SpeedClassification(t *testing.T) {
	clk := newFakeClock()
	sleep := func(d time.Duration) Body {
		return func(*SpecContext) error {
			clk.Advance(d)
			return nil
		}
	}

	s := Describe("speed", func(c *SuiteContext) {
		c.Slow(100)
		c.It("fast", sleep(50*time.Millisecond))
		c.It("on time", sleep(51*time.Millisecond))
		c.It("at threshold", sleep(100*time.Millisecond))
		c.It("slow", sleep(101*time.Millisecond))
		c.Describe("no threshold", func(c *SuiteContext) {
			c.It("own fast", sleep(2*time.Second)).Slow(5000)
		})
	})
	s.clock = clk.Now

	unbounded := Describe("unbounded", func(c *SuiteContext) {
		c.It("always fast", sleep(time.Hour))
	})
	unbounded.clock = clk.Now

	require.NoError(t, s.Run())
	require.NoError(t, unbounded.Run())

	specs := s.Result().AllSpecs()
	require.Len(t, specs, 5)
	assert.Equal(t, Fast, specs[0].Speed)
	assert.Equal(t, OnTime, specs[1].Speed)
	assert.Equal(t, OnTime, specs[2].Speed)
	assert.Equal(t, Slow, specs[3].Speed)
	assert.Equal(t, Fast, specs[4].Speed)
	assert.Equal(t, 100*time.Millisecond, specs[0].Slow)

	assert.Equal(t, Fast, unbounded.Result().Specs[0].Speed)
	assert.Zero(t, unbounded.Result().Specs[0].Slow)
}

func TestRun_PrecisionPropagation(t *testing.T) {
	clk := newFakeClock()
	var child *Suite
	s := Describe("root", func(c *SuiteContext) {
		child = c.Describe("child", func(c *SuiteContext) {
			c.It("work", func(*SpecContext) error {
				clk.Advance(12*time.Millisecond + 345*time.Microsecond)
				return nil
			})
		}).Sec()
	}).Millis()
	s.clock = clk.Now

	require.NoError(t, s.Run())
	assert.Equal(t, Milli, child.Precision())
	assert.Equal(t, 12*time.Millisecond, s.Result().Suites[0].Duration)
	assert.Equal(t, 12*time.Millisecond, s.Duration())
	assert.Zero(t, s.SuiteDuration())
	assert.Equal(t, Milli, s.Report().Precision)
}

func TestRun_OrderAndDepth(t *testing.T) {
	var specs []*Spec
	var inner *Suite
	s := Describe("root", func(c *SuiteContext) {
		c.Describe("first", func(c *SuiteContext) {
			specs = append(specs, c.It("f1", ok))
			inner = c.Describe("inner", func(c *SuiteContext) {
				specs = append(specs, c.It("i1", ok))
			})
		})
		specs = append(specs, c.It("r1", ok))
		specs = append(specs, c.ItSkip("r2", ok))
	})

	require.NoError(t, s.Run())
	assert.Equal(t, 3, specs[0].Order())
	assert.Equal(t, 4, specs[1].Order())
	assert.Equal(t, 1, specs[2].Order())
	assert.Equal(t, 2, specs[3].Order())
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 2, inner.Depth())
	assert.Equal(t, "root first inner i1", s.Result().Suites[0].Suites[0].Specs[0].FullName)
}

func TestRun_TotalsMatchDeclared(t *testing.T) {
	s := Describe("root", func(c *SuiteContext) {
		c.It("pass", ok)
		c.It("fail", fail("boom"))
		c.ItSkip("skip", ok)
		c.Describe("child", func(c *SuiteContext) {
			c.It("pass", ok)
			c.ItOnly("focus fail", fail("bad"))
			c.DescribeSkip("gone", func(c *SuiteContext) {
				c.It("x", ok)
				c.It("y", ok)
			})
		})
	})

	err := s.Run()
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "2 of 7 tests failed", err.Error())
	assert.Equal(t, 7, runErr.Total)

	passed, failed, ignored := s.Context().Counts()
	assert.Equal(t, 7, passed+failed+ignored)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 2, failed)
	assert.Equal(t, 4, ignored)
	assert.Len(t, s.Result().AllSpecs(), 7)
	assert.Len(t, s.Result().Failures(), 2)
}

func TestRun_Import(t *testing.T) {
	shared := Describe("shared", func(c *SuiteContext) {
		c.It("imported", ok)
	})
	builds := 0
	s := Describe("root", func(c *SuiteContext) {
		builds++
		c.DescribeImport(shared)
		c.DescribeImportSkip(Describe("skipped import", func(c *SuiteContext) {
			c.It("never", fail("x"))
		}))
	})

	require.NoError(t, s.Run())
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, shared.Depth())
	passed, _, ignored := s.Context().Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, ignored)

	t.Run("import only", func(t *testing.T) {
		s := Describe("root", func(c *SuiteContext) {
			c.Describe("other", func(c *SuiteContext) { c.It("o", ok) })
			c.DescribeImportOnly(Describe("focused", func(c *SuiteContext) { c.It("f", ok) }))
		})
		require.NoError(t, s.Run())
		passed, _, ignored := s.Context().Counts()
		assert.Equal(t, 1, passed)
		assert.Equal(t, 1, ignored)
	})
}

func TestDescribeImport_Once(t *testing.T) {
	t.Run("twice", func(t *testing.T) {
		shared := Describe("shared", func(c *SuiteContext) { c.It("a", ok) })
		first := Describe("first", func(c *SuiteContext) { c.DescribeImport(shared) })

		assert.PanicsWithError(t, `suite: "shared" is already imported into "first"`, func() {
			Describe("second", func(c *SuiteContext) { c.DescribeImport(shared) })
		})
		assert.PanicsWithError(t, `suite: "shared" is already imported into "first"`, func() {
			first.Context().DescribeImport(shared)
		})
		assert.Len(t, first.Context().Suites(), 1)
	})

	t.Run("after a run", func(t *testing.T) {
		var sp *Spec
		done := Describe("done", func(c *SuiteContext) { sp = c.It("a", ok) })
		require.NoError(t, done.Run())

		assert.PanicsWithError(t, `suite: "done" has already run`, func() {
			Describe("root", func(c *SuiteContext) { c.DescribeImport(done) })
		})
		assert.Equal(t, 1, sp.Context().Attempts())
	})

	t.Run("into itself", func(t *testing.T) {
		outer := Describe("outer", nil)
		inner := outer.Context().Describe("inner", nil)

		assert.PanicsWithError(t, `suite: "outer" cannot be imported into itself`, func() {
			inner.Context().DescribeImport(outer)
		})
		assert.PanicsWithError(t, `suite: "outer" cannot be imported into itself`, func() {
			outer.Context().DescribeImport(outer)
		})
	})

	t.Run("only flag untouched on refusal", func(t *testing.T) {
		shared := Describe("shared", nil)
		Describe("first", func(c *SuiteContext) { c.DescribeImport(shared) })
		assert.Panics(t, func() {
			Describe("second", func(c *SuiteContext) { c.DescribeImportOnly(shared) })
		})
		assert.False(t, shared.only)
	})
}

func TestRun_Reporter(t *testing.T) {
	t.Run("receives counts matching the outcome", func(t *testing.T) {
		var got *Report
		s := Describe("root", func(c *SuiteContext) {
			c.It("a", ok)
			c.It("b", fail("nope"))
		}).WithReporter(ReporterFunc(func(r *Report) error {
			got = r
			return nil
		}))

		err := s.Run()
		require.Error(t, err)
		require.NotNil(t, got)
		assert.NotEmpty(t, got.RunID)
		assert.False(t, got.Success())
		assert.Equal(t, 1, got.Root.Passing)
		assert.Equal(t, 1, got.Root.Failing)
		assert.Equal(t, err.Error(), got.Err().Error())
		assert.False(t, got.End.Before(got.Start))
	})

	t.Run("reporter error is logged not returned", func(t *testing.T) {
		var logs bytes.Buffer
		s := Describe("root", func(c *SuiteContext) {
			c.It("a", ok)
		}).
			WithReporter(ReporterFunc(func(*Report) error { return errors.New("disk full") })).
			WithLogger(logging.New(-8, &logs))

		require.NoError(t, s.Run())
		assert.Contains(t, logs.String(), "reporter failed")
		assert.Contains(t, logs.String(), "disk full")
	})

	t.Run("multi reporter", func(t *testing.T) {
		calls := 0
		count := ReporterFunc(func(*Report) error { calls++; return nil })
		broken := ReporterFunc(func(*Report) error { return errors.New("first") })
		err := MultiReporter(count, broken, nil, count).Report(&Report{})
		assert.EqualError(t, err, "first")
		assert.Equal(t, 2, calls)
	})

	t.Run("results are detached", func(t *testing.T) {
		s := Describe("root", func(c *SuiteContext) {
			c.It("a", ok)
		})
		require.NoError(t, s.Run())
		res := s.Result()
		res.Specs[0].Name = "changed"
		assert.Equal(t, "a", s.Context().Specs()[0].Name())
	})
}

func TestRun_RunsOnce(t *testing.T) {
	calls := 0
	s := Describe("root", func(c *SuiteContext) {
		c.It("a", func(*SpecContext) error {
			calls++
			return errors.New("x")
		})
	})

	first := s.Run()
	second := s.Run()
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestRun_NilBodyPasses(t *testing.T) {
	s := Describe("root", func(c *SuiteContext) {
		c.It("pending", nil)
	})
	require.NoError(t, s.Run())
	assert.Equal(t, StatusPassed, s.Result().Specs[0].Status)
}

func TestSuite_StatePanicsOnUnencodable(t *testing.T) {
	assert.Panics(t, func() { Describe("root", nil).State(func() {}) })
}

func TestParseHookMode(t *testing.T) {
	m, err := ParseHookMode("chain")
	require.NoError(t, err)
	assert.Equal(t, HookChain, m)
	assert.Equal(t, "chain", m.String())

	m, err = ParseHookMode("")
	require.NoError(t, err)
	assert.Equal(t, HookInherit, m)

	_, err = ParseHookMode("stack")
	assert.True(t, strings.Contains(err.Error(), "stack"))
}
