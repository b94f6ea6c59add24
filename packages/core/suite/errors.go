package suite

import "fmt"

// SpecFailure records a spec body that returned an error. It is stored on
// the spec and its result; Run never returns it directly.
type SpecFailure struct {
	Spec     string
	Attempts int
	Err      error
}

func (e *SpecFailure) Error() string {
	return e.Err.Error()
}

func (e *SpecFailure) Unwrap() error {
	return e.Err
}

// RunError is the only error Run returns. Total counts every declared spec,
// including ignored ones.
type RunError struct {
	Failed int
	Total  int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%d of %d tests failed", e.Failed, e.Total)
}
