package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{
  "runId": "abc",
  "stats": {"tests": 3, "passing": 1, "failing": 1, "pending": 1},
  "tests": [
    {"fullTitle": "Calculator adds", "status": "passed", "durationNs": 1200, "attempts": 1},
    {"fullTitle": "Calculator v1.2 divides", "status": "failed", "error": "division by zero", "attempts": 3},
    {"fullTitle": "Calculator pending", "status": "ignored", "attempts": 0}
  ]
}`

func TestParse(t *testing.T) {
	t.Run("plain path", func(t *testing.T) {
		c, err := Parse("stats.failing")
		require.NoError(t, err)
		assert.Equal(t, "stats.failing", c.Name)
		assert.Equal(t, SourcePath, c.Source)
		assert.Equal(t, "stats.failing", c.Path)
	})

	t.Run("named", func(t *testing.T) {
		c, err := Parse("fails = stats.failing")
		require.NoError(t, err)
		assert.Equal(t, "fails", c.Name)
		assert.Equal(t, "stats.failing", c.Path)
	})

	t.Run("query is not a name", func(t *testing.T) {
		c, err := Parse(`tests.#(status=="failed").fullTitle`)
		require.NoError(t, err)
		assert.Equal(t, SourcePath, c.Source)
		assert.Equal(t, `tests.#(status=="failed").fullTitle`, c.Path)
	})

	t.Run("spec selector", func(t *testing.T) {
		c, err := Parse("d=spec[Calculator adds].durationNs")
		require.NoError(t, err)
		assert.Equal(t, SourceSpec, c.Source)
		assert.Equal(t, "Calculator adds", c.Spec)
		assert.Equal(t, "durationNs", c.Path)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Parse("")
		assert.Error(t, err)
		_, err = Parse("x=")
		assert.Error(t, err)
		_, err = Parse("spec[broken")
		assert.Error(t, err)
	})
}

func TestExtractor(t *testing.T) {
	e, err := NewExtractor([]byte(doc))
	require.NoError(t, err)

	t.Run("path", func(t *testing.T) {
		v, ok := e.Extract(&Capture{Source: SourcePath, Path: "stats.failing"})
		require.True(t, ok)
		assert.Equal(t, float64(1), v)
	})

	t.Run("spec field", func(t *testing.T) {
		v, ok := e.Extract(&Capture{Source: SourceSpec, Spec: "Calculator adds", Path: "durationNs"})
		require.True(t, ok)
		assert.Equal(t, float64(1200), v)
	})

	t.Run("spec title with dots", func(t *testing.T) {
		v, ok := e.Extract(&Capture{Source: SourceSpec, Spec: "Calculator v1.2 divides", Path: "attempts"})
		require.True(t, ok)
		assert.Equal(t, float64(3), v)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := e.Extract(&Capture{Source: SourceSpec, Spec: "nope", Path: "attempts"})
		assert.False(t, ok)
		_, ok = e.Extract(&Capture{Source: SourcePath, Path: "stats.nope"})
		assert.False(t, ok)
	})

	t.Run("raw", func(t *testing.T) {
		raw, ok := e.Raw(&Capture{Source: SourcePath, Path: "tests.#.status"})
		require.True(t, ok)
		assert.Equal(t, `["passed","failed","ignored"]`, raw)
	})
}

func TestExtractAll(t *testing.T) {
	caps := make([]*Capture, 0, 3)
	for _, expr := range []string{"id=runId", "failing=stats.failing", "gone=stats.nope"} {
		c, err := Parse(expr)
		require.NoError(t, err)
		caps = append(caps, c)
	}

	got, err := ExtractAll([]byte(doc), caps)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "abc", "failing": float64(1)}, got)

	_, err = ExtractAll([]byte("{nope"), caps)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}
