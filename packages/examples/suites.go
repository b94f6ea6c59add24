package examples

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/state"
	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

func init() {
	register("simple", "two passing specs against one function", simple)
	register("nested", "suites inside suites", nested)
	register("hooks", "before/after hooks at every level", hooks)
	register("state", "a counter threaded through hooks and specs", counter)
	register("retry", "a spec that needs several attempts", retry)
	register("slow", "speed classification against slow thresholds", slow)
	register("only", "focusing a single spec", only)
	register("skip", "skipped specs and suites", skip)
	register("import", "suites built elsewhere and grafted in", imports)
	register("failure", "a failing spec and its error", failure)
	register("dynamic", "specs declared in a loop", dynamic)
}

func addOne(n int) int { return n + 1 }

func expectEqual[T comparable](got, want T) error {
	if got != want {
		return fmt.Errorf("expected %v to equal %v", got, want)
	}
	return nil
}

func simple() *suite.Suite {
	return suite.Describe("addOne()", func(c *suite.SuiteContext) {
		c.It("should return 1 when passed 0", func(*suite.SpecContext) error {
			return expectEqual(addOne(0), 1)
		})
		c.It("should return 2 when passed 1", func(*suite.SpecContext) error {
			return expectEqual(addOne(1), 2)
		})
	}).Millis()
}

func nested() *suite.Suite {
	return suite.Describe("math", func(c *suite.SuiteContext) {
		c.Describe("addOne()", func(c *suite.SuiteContext) {
			c.It("should return 1 when passed 0", func(*suite.SpecContext) error {
				return expectEqual(addOne(0), 1)
			})
		})
		c.Describe("strings", func(c *suite.SuiteContext) {
			c.Describe("ToUpper()", func(c *suite.SuiteContext) {
				c.It("should upper-case ascii", func(*suite.SpecContext) error {
					return expectEqual(strings.ToUpper("lab"), "LAB")
				})
			})
		})
	}).Micro()
}

// hookLog is appended to by every hook so the last spec can check the order.
type hookLog struct {
	Calls []string
}

func record(name string) suite.Hook {
	return func(s *state.Store) {
		log, err := state.Get[hookLog](s)
		if err != nil && !errors.Is(err, state.ErrEmpty) {
			return
		}
		log.Calls = append(log.Calls, name)
		_ = state.Set(s, log)
	}
}

func hooks() *suite.Suite {
	return suite.Describe("hooks", func(c *suite.SuiteContext) {
		c.BeforeAll(record("before_all")).
			BeforeEach(record("before_each")).
			AfterEach(record("after_each")).
			AfterAll(record("after_all"))

		c.It("runs after before_all and before_each", func(sc *suite.SpecContext) error {
			log, err := state.Get[hookLog](sc.State())
			if err != nil {
				return err
			}
			return expectEqual(strings.Join(log.Calls, ","), "before_all,before_each")
		})
		c.It("sees the previous spec's after_each", func(sc *suite.SpecContext) error {
			log, err := state.Get[hookLog](sc.State())
			if err != nil {
				return err
			}
			return expectEqual(strings.Join(log.Calls, ","), "before_all,before_each,after_each,before_each")
		})
	}).State(hookLog{})
}

type tally struct {
	Hits int
}

func bump(s *state.Store) {
	t, _ := state.Get[tally](s)
	t.Hits++
	_ = state.Set(s, t)
}

func counter() *suite.Suite {
	return suite.Describe("counter", func(c *suite.SuiteContext) {
		c.BeforeEach(bump)
		c.It("counts the first before_each", func(sc *suite.SpecContext) error {
			t, err := state.Get[tally](sc.State())
			if err != nil {
				return err
			}
			return expectEqual(t.Hits, 1)
		})
		c.Describe("child sharing the parent's state", func(c *suite.SuiteContext) {
			c.It("keeps counting", func(sc *suite.SpecContext) error {
				t, err := state.Get[tally](sc.State())
				if err != nil {
					return err
				}
				return expectEqual(t.Hits, 2)
			})
		})
		c.Describe("child with its own state", func(c *suite.SuiteContext) {
			c.It("starts from its own value", func(sc *suite.SpecContext) error {
				t, err := state.Get[tally](sc.State())
				if err != nil {
					return err
				}
				return expectEqual(t.Hits, 101)
			})
		}).State(tally{Hits: 100})
	}).State(tally{})
}

func retry() *suite.Suite {
	return suite.Describe("retry", func(c *suite.SuiteContext) {
		c.It("should pass on the tenth attempt", func(sc *suite.SpecContext) error {
			if sc.Attempts() < 10 {
				return fmt.Errorf("only %d attempts so far", sc.Attempts())
			}
			return nil
		}).Retries(9).Slow(1000)
		c.It("inherits the suite budget", func(sc *suite.SpecContext) error {
			if sc.Attempts() < 3 {
				return errors.New("flaky")
			}
			return nil
		})
	}).Retries(2)
}

func slow() *suite.Suite {
	return suite.Describe("slow", func(c *suite.SuiteContext) {
		c.It("is fast", func(*suite.SpecContext) error {
			return nil
		})
		c.It("is on time", func(*suite.SpecContext) error {
			time.Sleep(35 * time.Millisecond)
			return nil
		})
		c.It("is slow", func(*suite.SpecContext) error {
			time.Sleep(60 * time.Millisecond)
			return nil
		})
	}).Slow(50).Millis()
}

func only() *suite.Suite {
	return suite.Describe("only", func(c *suite.SuiteContext) {
		c.It("is ignored", func(*suite.SpecContext) error {
			return errors.New("should not run")
		})
		c.ItOnly("is the only one that runs", func(*suite.SpecContext) error {
			return nil
		})
		c.It("is ignored too", func(*suite.SpecContext) error {
			return errors.New("should not run")
		})
	})
}

func skip() *suite.Suite {
	return suite.Describe("skip", func(c *suite.SuiteContext) {
		c.It("runs", func(*suite.SpecContext) error { return nil })
		c.ItSkip("is skipped", func(*suite.SpecContext) error {
			return errors.New("should not run")
		})
		c.DescribeSkip("skipped suite", func(c *suite.SuiteContext) {
			c.It("never runs", func(*suite.SpecContext) error {
				return errors.New("should not run")
			})
		})
	})
}

func imports() *suite.Suite {
	upper := suite.Describe("ToUpper()", func(c *suite.SuiteContext) {
		c.It("should upper-case", func(*suite.SpecContext) error {
			return expectEqual(strings.ToUpper("go"), "GO")
		})
	})
	lower := suite.Describe("ToLower()", func(c *suite.SuiteContext) {
		c.It("should lower-case", func(*suite.SpecContext) error {
			return expectEqual(strings.ToLower("GO"), "go")
		})
	})
	return suite.Describe("import", func(c *suite.SuiteContext) {
		c.DescribeImport(upper)
		c.DescribeImport(lower)
	})
}

func failure() *suite.Suite {
	return suite.Describe("failure", func(c *suite.SuiteContext) {
		c.It("should return 2 when passed 0", func(*suite.SpecContext) error {
			return expectEqual(addOne(0), 2)
		})
		c.It("passes", func(*suite.SpecContext) error {
			return nil
		})
	})
}

func dynamic() *suite.Suite {
	return suite.Describe("dynamic", func(c *suite.SuiteContext) {
		for i := 0; i < 5; i++ {
			c.It(fmt.Sprintf("addOne(%d) == %d", i, i+1), func(*suite.SpecContext) error {
				return expectEqual(addOne(i), i+1)
			})
		}
	})
}
