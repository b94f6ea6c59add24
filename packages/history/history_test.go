package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReport(t *testing.T, name string, failing bool) *suite.Report {
	t.Helper()
	s := suite.Describe(name, func(c *suite.SuiteContext) {
		c.It("stable", nil)
		c.It("flaky", func(*suite.SpecContext) error {
			if failing {
				return errors.New("timed out")
			}
			return nil
		})
		c.ItSkip("later", nil)
	})
	_ = s.Run()
	return s.Report()
}

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite://" + filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, conn := range []string{
		filepath.Join(dir, "plain.db"),
		"sqlite:" + filepath.Join(dir, "colon.db"),
		"sqlite://" + filepath.Join(dir, "slashes.db"),
	} {
		store, err := Open(conn)
		require.NoError(t, err, conn)
		require.NoError(t, store.Close())
	}

	_, err := Open("postgres://localhost/db")
	assert.Error(t, err)

	_, err = Open("  ")
	assert.Error(t, err)
}

func TestStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	first := runReport(t, "checkout", true)
	second := runReport(t, "checkout", false)
	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].ID, "newest first")
	assert.Equal(t, "checkout", runs[0].Name)
	assert.Equal(t, 2, runs[0].Passed)
	assert.Equal(t, 0, runs[0].Failed)
	assert.Equal(t, 1, runs[0].Ignored)
	assert.Equal(t, 1, runs[1].Failed)
	assert.Equal(t, suite.Nano, runs[0].Precision)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.Error(t, store.Record(ctx, first), "run ids are unique")
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	r := runReport(t, "payments", true)
	require.NoError(t, store.Record(ctx, r))

	t.Run("full id", func(t *testing.T) {
		got, err := store.Get(ctx, r.RunID)
		require.NoError(t, err)
		assert.Equal(t, r.RunID, got.RunID)
		assert.Equal(t, r.Root.AllSpecs(), got.Root.AllSpecs())
	})

	t.Run("prefix", func(t *testing.T) {
		got, err := store.Get(ctx, r.RunID[:8])
		require.NoError(t, err)
		assert.Equal(t, r.RunID, got.RunID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		for _, id := range []string{"%", "_", r.RunID[:2] + "%", "________"} {
			_, err := store.Get(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, id)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		require.NoError(t, store.Record(ctx, runReport(t, "payments", false)))
		_, err := store.Get(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})
}

func TestStore_SpecHistory(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	require.NoError(t, store.Record(ctx, runReport(t, "api", true)))
	require.NoError(t, store.Record(ctx, runReport(t, "api", false)))

	runs, err := store.SpecHistory(ctx, "api flaky", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, suite.StatusPassed, runs[0].Status)
	assert.Equal(t, suite.StatusFailed, runs[1].Status)
	assert.Equal(t, "timed out", runs[1].Error)

	skipped, err := store.SpecHistory(ctx, "api later", 1)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, suite.StatusIgnored, skipped[0].Status)
	assert.Zero(t, skipped[0].Attempts)
}
