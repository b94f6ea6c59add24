// Package diff compares two speclab reports spec by spec.
//
// Specs are matched by full name. A spec whose status flips between passed
// and failed is improved or regressed; otherwise a duration change beyond
// ten percent in either direction decides. A spec ignored in either run is
// unchanged.
package diff

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// Change classifies one spec between two runs.
type Change string

const (
	Improved  Change = "improved"
	Regressed Change = "regressed"
	Unchanged Change = "unchanged"
	New       Change = "new"
	Removed   Change = "removed"
)

// noiseBand is the duration change, in percent, below which a spec counts
// as unchanged.
const noiseBand = 10.0

// ErrThresholdExceeded is returned by Check when a spec slowed down by more
// than the configured threshold.
var ErrThresholdExceeded = errors.New("threshold exceeded")

// Comparison is one spec across both runs. Durations are milliseconds.
type Comparison struct {
	Name           string       `json:"name"`
	Change         Change       `json:"change"`
	Status1        suite.Status `json:"status1,omitempty"`
	Status2        suite.Status `json:"status2,omitempty"`
	Duration1      float64      `json:"duration1,omitempty"`
	Duration2      float64      `json:"duration2,omitempty"`
	DurationChange float64      `json:"durationChange,omitempty"`
	InFile1        bool         `json:"-"`
	InFile2        bool         `json:"-"`
}

// Summary provides overall statistics.
type Summary struct {
	TotalTests       int     `json:"totalTests"`
	Improved         int     `json:"improved"`
	Regressed        int     `json:"regressed"`
	Unchanged        int     `json:"unchanged"`
	NewTests         int     `json:"newTests"`
	RemovedTests     int     `json:"removedTests"`
	AvgDuration1     float64 `json:"avgDuration1"`
	AvgDuration2     float64 `json:"avgDuration2"`
	TotalDuration1   float64 `json:"totalDuration1"`
	TotalDuration2   float64 `json:"totalDuration2"`
	ThresholdPassed  bool    `json:"thresholdPassed"`
	ThresholdPercent float64 `json:"thresholdPercent,omitempty"`
}

// Result holds the comparison of two reports.
type Result struct {
	File1       string       `json:"file1"`
	File2       string       `json:"file2"`
	Summary     Summary      `json:"summary"`
	Comparisons []Comparison `json:"comparisons"`
}

// ParseThreshold parses "10", "10%" or "12.5 %". Empty disables the check.
func ParseThreshold(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid threshold %q: must not be negative", s)
	}
	return v, nil
}

// Compare matches the specs of two reports by full name. file1 and file2
// only label the result. A threshold of zero disables the regression check.
func Compare(file1, file2 string, r1, r2 *suite.Report, threshold float64) *Result {
	res := &Result{
		File1: file1,
		File2: file2,
		Summary: Summary{
			TotalDuration1:   ms(r1.Root.Duration),
			TotalDuration2:   ms(r2.Root.Duration),
			ThresholdPercent: threshold,
			ThresholdPassed:  true,
		},
	}

	specs1 := index(r1)
	specs2 := index(r2)

	names := make([]string, 0, len(specs1)+len(specs2))
	for name := range specs1 {
		names = append(names, name)
	}
	for name := range specs2 {
		if _, ok := specs1[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var ran1, ran2 int
	for _, name := range names {
		s1, in1 := specs1[name]
		s2, in2 := specs2[name]

		c := Comparison{Name: name, InFile1: in1, InFile2: in2}
		if in1 {
			c.Status1, c.Duration1 = s1.Status, ms(s1.Duration)
			if !s1.Ignored() {
				ran1++
			}
		}
		if in2 {
			c.Status2, c.Duration2 = s2.Status, ms(s2.Duration)
			if !s2.Ignored() {
				ran2++
			}
		}

		switch {
		case in1 && in2:
			c.Change = classify(&c, s1, s2)
			if threshold > 0 && c.DurationChange > threshold {
				res.Summary.ThresholdPassed = false
			}
		case in1:
			c.Change = Removed
		default:
			c.Change = New
		}

		switch c.Change {
		case Improved:
			res.Summary.Improved++
		case Regressed:
			res.Summary.Regressed++
		case Unchanged:
			res.Summary.Unchanged++
		case New:
			res.Summary.NewTests++
		case Removed:
			res.Summary.RemovedTests++
		}
		res.Comparisons = append(res.Comparisons, c)
		res.Summary.TotalTests++
	}

	if ran1 > 0 {
		res.Summary.AvgDuration1 = sumRan(specs1) / float64(ran1)
	}
	if ran2 > 0 {
		res.Summary.AvgDuration2 = sumRan(specs2) / float64(ran2)
	}
	return res
}

// Check returns ErrThresholdExceeded when the threshold check failed.
func (r *Result) Check() error {
	if r.Summary.ThresholdPercent > 0 && !r.Summary.ThresholdPassed {
		return fmt.Errorf("%w: some tests slowed down by more than %.1f%%", ErrThresholdExceeded, r.Summary.ThresholdPercent)
	}
	return nil
}

func classify(c *Comparison, s1, s2 suite.SpecResult) Change {
	if s1.Ignored() || s2.Ignored() {
		return Unchanged
	}

	if c.Duration1 > 0 {
		c.DurationChange = (c.Duration2 - c.Duration1) / c.Duration1 * 100
	}

	switch {
	case s1.Status != s2.Status && s2.Passed():
		return Improved
	case s1.Status != s2.Status:
		return Regressed
	case c.DurationChange < -noiseBand:
		return Improved
	case c.DurationChange > noiseBand:
		return Regressed
	}
	return Unchanged
}

func index(r *suite.Report) map[string]suite.SpecResult {
	out := make(map[string]suite.SpecResult)
	for _, sp := range r.Root.AllSpecs() {
		out[sp.FullName] = sp
	}
	return out
}

func sumRan(specs map[string]suite.SpecResult) float64 {
	var total float64
	for _, sp := range specs {
		if !sp.Ignored() {
			total += ms(sp.Duration)
		}
	}
	return total
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
