// Package notify sends webhook notifications about finished speclab runs.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when specs fail
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every spec passes
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and on the first
	// passing run after a failure
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn parses a notification policy name. Empty means failure.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch n := NotifyOn(strings.ToLower(strings.TrimSpace(s))); n {
	case "":
		return NotifyFailure, nil
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return n, nil
	}
	return "", fmt.Errorf("unknown notify policy %q (want always, failure, success or recovery)", s)
}

// RunSummary represents the summary of a run for notifications
type RunSummary struct {
	RunID         string        `json:"run_id"`
	Suite         string        `json:"suite"`
	TotalTests    int           `json:"total_tests"`
	PassedTests   int           `json:"passed_tests"`
	FailedTests   int           `json:"failed_tests"`
	IgnoredTests  int           `json:"ignored_tests"`
	Duration      time.Duration `json:"duration"`
	FinishedAt    time.Time     `json:"finished_at"`
	FailedResults []FailedTest  `json:"failed_results,omitempty"`
	IsRecovery    bool          `json:"is_recovery,omitempty"`
}

// FailedTest represents a failed spec for notifications
type FailedTest struct {
	Name     string `json:"name"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

// SummaryFromReport condenses a report into a RunSummary
func SummaryFromReport(r *suite.Report) *RunSummary {
	root := r.Root
	s := &RunSummary{
		RunID:        r.RunID,
		Suite:        root.Name,
		TotalTests:   root.Total(),
		PassedTests:  root.Passing,
		FailedTests:  root.Failing,
		IgnoredTests: root.Ignored,
		Duration:     root.Duration,
		FinishedAt:   r.End,
	}
	for _, f := range root.Failures() {
		s.FailedResults = append(s.FailedResults, FailedTest{
			Name:     f.FullName,
			Attempts: f.Attempts,
			Error:    f.Error,
		})
	}
	return s
}

func (s *RunSummary) headline() string {
	switch {
	case s.FailedTests > 0:
		return fmt.Sprintf("%d of %d tests failed", s.FailedTests, s.TotalTests)
	case s.IsRecovery:
		return "Tests recovered!"
	default:
		return "All tests passed!"
	}
}

// Notifier is the interface for notification services
type Notifier interface {
	// Notify sends a notification about a run
	Notify(ctx context.Context, summary *RunSummary) error

	// Name returns the name of the notifier
	Name() string
}

// Manager manages multiple notifiers
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
	lastState bool // true if last run was successful
}

// NewManager creates a new notification manager
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
		lastState: true,
	}
}

// AddNotifier adds a notifier to the manager
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Len returns the number of registered notifiers
func (m *Manager) Len() int {
	return len(m.notifiers)
}

// SetLastState seeds the recovery policy with the outcome of a previous run
func (m *Manager) SetLastState(success bool) {
	m.lastState = success
}

// ShouldNotify applies the policy to a summary, marking recoveries
func (m *Manager) ShouldNotify(summary *RunSummary) bool {
	current := summary.FailedTests == 0
	defer func() { m.lastState = current }()

	switch m.notifyOn {
	case NotifyAlways:
		return true
	case NotifyFailure:
		return !current
	case NotifySuccess:
		return current
	case NotifyRecovery:
		if !m.lastState && current {
			summary.IsRecovery = true
			return true
		}
		return !current
	}
	return false
}

// Notify sends notifications based on the configured policy. Every notifier
// is tried; their errors are joined.
func (m *Manager) Notify(ctx context.Context, summary *RunSummary) error {
	if !m.ShouldNotify(summary) {
		return nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Report lets a Manager act as a suite reporter
func (m *Manager) Report(r *suite.Report) error {
	return m.Notify(context.Background(), SummaryFromReport(r))
}
