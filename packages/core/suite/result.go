package suite

import "time"

// Status is the outcome of a single spec.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusIgnored Status = "ignored"
)

// SpecResult is a detached snapshot of one spec after a run.
type SpecResult struct {
	Name     string
	FullName string
	Order    int
	Status   Status
	Error    string
	Duration time.Duration
	Attempts int
	Speed    Speed
	// Slow is the threshold the spec was classified against, zero if none.
	Slow time.Duration
}

func (r SpecResult) Passed() bool  { return r.Status == StatusPassed }
func (r SpecResult) Failed() bool  { return r.Status == StatusFailed }
func (r SpecResult) Ignored() bool { return r.Status == StatusIgnored }

// SuiteResult is a detached snapshot of one suite after a run. Duration
// covers the suite and its descendants, SuiteDuration only its own specs.
type SuiteResult struct {
	Name          string
	FullName      string
	Depth         int
	Skipped       bool
	Passing       int
	Failing       int
	Ignored       int
	Duration      time.Duration
	SuiteDuration time.Duration
	Start         time.Time
	End           time.Time
	Specs         []SpecResult
	Suites        []SuiteResult
}

// Total is the number of specs declared in the suite and below.
func (r *SuiteResult) Total() int {
	return r.Passing + r.Failing + r.Ignored
}

// Walk visits r and every descendant suite in pre-order.
func (r *SuiteResult) Walk(fn func(*SuiteResult)) {
	fn(r)
	for i := range r.Suites {
		r.Suites[i].Walk(fn)
	}
}

// AllSpecs returns every spec result in execution order.
func (r *SuiteResult) AllSpecs() []SpecResult {
	var out []SpecResult
	r.Walk(func(s *SuiteResult) {
		out = append(out, s.Specs...)
	})
	return out
}

// Failures returns the failed spec results in execution order.
func (r *SuiteResult) Failures() []SpecResult {
	var out []SpecResult
	for _, sp := range r.AllSpecs() {
		if sp.Failed() {
			out = append(out, sp)
		}
	}
	return out
}

// Report is what reporters receive: the root result plus run metadata.
type Report struct {
	RunID     string
	Precision Precision
	Start     time.Time
	End       time.Time
	Root      SuiteResult
}

// Success reports whether no spec failed.
func (r *Report) Success() bool {
	return r.Root.Failing == 0
}

// Err returns the error Run produced for this report.
func (r *Report) Err() error {
	if r.Success() {
		return nil
	}
	return &RunError{Failed: r.Root.Failing, Total: r.Root.Total()}
}
