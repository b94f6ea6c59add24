package diff

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

func spec(name string, status suite.Status, d time.Duration) suite.SpecResult {
	return suite.SpecResult{Name: name, FullName: "Root " + name, Status: status, Duration: d}
}

func report(specs ...suite.SpecResult) *suite.Report {
	root := suite.SuiteResult{Name: "Root", FullName: "Root", Specs: specs}
	for _, sp := range specs {
		switch sp.Status {
		case suite.StatusPassed:
			root.Passing++
		case suite.StatusFailed:
			root.Failing++
		default:
			root.Ignored++
		}
		root.Duration += sp.Duration
	}
	return &suite.Report{Root: root}
}

func find(t *testing.T, r *Result, name string) Comparison {
	t.Helper()
	for _, c := range r.Comparisons {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no comparison for %q", name)
	return Comparison{}
}

func TestCompare(t *testing.T) {
	before := report(
		spec("fixed", suite.StatusFailed, 10*time.Millisecond),
		spec("broke", suite.StatusPassed, 10*time.Millisecond),
		spec("faster", suite.StatusPassed, 100*time.Millisecond),
		spec("slower", suite.StatusPassed, 100*time.Millisecond),
		spec("steady", suite.StatusPassed, 100*time.Millisecond),
		spec("gone", suite.StatusPassed, 5*time.Millisecond),
		spec("skipped", suite.StatusIgnored, 0),
	)
	after := report(
		spec("fixed", suite.StatusPassed, 10*time.Millisecond),
		spec("broke", suite.StatusFailed, 10*time.Millisecond),
		spec("faster", suite.StatusPassed, 50*time.Millisecond),
		spec("slower", suite.StatusPassed, 150*time.Millisecond),
		spec("steady", suite.StatusPassed, 105*time.Millisecond),
		spec("added", suite.StatusPassed, 7*time.Millisecond),
		spec("skipped", suite.StatusPassed, 3*time.Millisecond),
	)

	r := Compare("a.json", "b.json", before, after, 0)

	assert.Equal(t, Improved, find(t, r, "Root fixed").Change)
	assert.Equal(t, Regressed, find(t, r, "Root broke").Change)
	assert.Equal(t, Improved, find(t, r, "Root faster").Change)
	assert.Equal(t, Regressed, find(t, r, "Root slower").Change)
	assert.Equal(t, Unchanged, find(t, r, "Root steady").Change)
	assert.Equal(t, Removed, find(t, r, "Root gone").Change)
	assert.Equal(t, New, find(t, r, "Root added").Change)
	assert.Equal(t, Unchanged, find(t, r, "Root skipped").Change)

	assert.InDelta(t, 50.0, find(t, r, "Root slower").DurationChange, 0.001)
	assert.InDelta(t, -50.0, find(t, r, "Root faster").DurationChange, 0.001)

	s := r.Summary
	assert.Equal(t, 8, s.TotalTests)
	assert.Equal(t, 2, s.Improved)
	assert.Equal(t, 2, s.Regressed)
	assert.Equal(t, 2, s.Unchanged)
	assert.Equal(t, 1, s.NewTests)
	assert.Equal(t, 1, s.RemovedTests)
	assert.InDelta(t, 325.0/6, s.AvgDuration1, 0.001)
	assert.True(t, s.ThresholdPassed)
	assert.NoError(t, r.Check())

	for i := 1; i < len(r.Comparisons); i++ {
		assert.Less(t, r.Comparisons[i-1].Name, r.Comparisons[i].Name)
	}
}

func TestCompare_Threshold(t *testing.T) {
	before := report(spec("a", suite.StatusPassed, 100*time.Millisecond))
	after := report(spec("a", suite.StatusPassed, 125*time.Millisecond))

	assert.NoError(t, Compare("", "", before, after, 30).Check())

	r := Compare("", "", before, after, 20)
	assert.False(t, r.Summary.ThresholdPassed)
	assert.ErrorIs(t, r.Check(), ErrThresholdExceeded)
}

func TestParseThreshold(t *testing.T) {
	for in, want := range map[string]float64{"": 0, "10": 10, "10%": 10, " 12.5 % ": 12.5} {
		got, err := ParseThreshold(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseThreshold("ten")
	assert.Error(t, err)
	_, err = ParseThreshold("-5%")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	before := report(spec("a", suite.StatusPassed, 100*time.Millisecond), spec("b", suite.StatusPassed, time.Millisecond))
	after := report(spec("a", suite.StatusFailed, 200*time.Millisecond), spec("c", suite.StatusPassed, time.Millisecond))
	r := Compare("old.json", "new.json", before, after, 10)

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteConsole(&buf, r, true))
		out := buf.String()
		assert.Contains(t, out, "File 1: old.json")
		assert.Contains(t, out, "↓ Root a  100ms → 200ms +100.0% [passed → failed]")
		assert.Contains(t, out, "- Root b  (removed)")
		assert.Contains(t, out, "+ Root c  (new, 1ms)")
		assert.Contains(t, out, "✗ Threshold check failed")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, r))
		var decoded Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 3, decoded.Summary.TotalTests)
		assert.Equal(t, Regressed, decoded.Comparisons[0].Change)
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHTML(&buf, r))
		out := buf.String()
		assert.Contains(t, out, "speclab Diff Report")
		assert.Contains(t, out, "Root a")
		assert.Contains(t, out, "+100.0%")
		assert.Contains(t, out, "Threshold check failed")
	})
}
