package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/speclab/packages/core/config"
	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/diff"
	"github.com/abdul-hamid-achik/speclab/packages/output"
)

// Exit codes for speclab CLI
const (
	// ExitSuccess indicates all specs passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more specs failed, or a diff
	// threshold was exceeded
	ExitTestFailure = 1

	// ExitParseError indicates a report file that could not be read or
	// failed schema validation
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError pins an error to a specific exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var runErr *suite.RunError
	if errors.As(err, &runErr) || errors.Is(err, diff.ErrThresholdExceeded) {
		return ExitTestFailure
	}
	var valErr *output.ValidationError
	if errors.As(err, &valErr) {
		return ExitParseError
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	return ExitTestFailure
}
