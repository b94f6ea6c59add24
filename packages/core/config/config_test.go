package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "spec", cfg.Reporter)
	assert.Empty(t, cfg.Precision, "precision is left to the suite")
	assert.Empty(t, cfg.HookMode, "hook mode is left to the suite")
	assert.False(t, cfg.GetNoColor())
	assert.False(t, cfg.GetNotify())
	_, ok := cfg.GetRetries()
	assert.False(t, ok)
	assert.NoError(t, cfg.Validate())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		content := `reporter: dot
precision: millis
retries: 2
slow: 75
hookMode: chain
noColor: true
notifyOn: always
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".speclab.yml"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "dot", cfg.Reporter)
		assert.Equal(t, "millis", cfg.Precision)
		assert.Equal(t, "chain", cfg.HookMode)
		assert.True(t, cfg.GetNoColor())
		n, ok := cfg.GetRetries()
		assert.True(t, ok)
		assert.Equal(t, 2, n)
		ms, ok := cfg.GetSlow()
		assert.True(t, ok)
		assert.Equal(t, int64(75), ms)
		assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep defaults")
	})

	t.Run("json file", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"reporter": "json-pretty", "metrics": "prometheus", "metricsFile": "out.prom"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "speclab.config.json"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "json-pretty", cfg.Reporter)
		assert.Equal(t, "prometheus", cfg.Metrics)
		assert.Equal(t, "out.prom", cfg.MetricsFile)
	})

	t.Run("lookup order", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".speclab.yml"), []byte("reporter: min\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "speclab.yml"), []byte("reporter: tap\n"), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "min", cfg.Reporter)
	})

	t.Run("invalid values", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".speclab.yml")
		require.NoError(t, os.WriteFile(path, []byte("precision: weeks\nretries: -1\n"), 0644))

		_, err := FindAndLoadConfig(dir)
		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, path, cfgErr.Path)
		assert.Contains(t, err.Error(), "weeks")
		assert.Contains(t, err.Error(), "retries")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".speclab.yml"), []byte("reporter: [unclosed\n"), 0644))

		_, err := FindAndLoadConfig(dir)
		var cfgErr *Error
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	var cfgErr *Error
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Retries = IntPtr(3)
	base.SlackWebhook = "https://hooks.slack.test/a"

	merged := base.Merge(&Config{
		Reporter: "tap",
		NoColor:  BoolPtr(true),
		Retries:  IntPtr(0),
	})

	assert.Equal(t, "tap", merged.Reporter)
	assert.Empty(t, merged.Precision)
	assert.True(t, merged.GetNoColor())
	n, _ := merged.GetRetries()
	assert.Equal(t, 0, n, "explicit zero overrides")
	assert.Equal(t, "https://hooks.slack.test/a", merged.SlackWebhook)
	assert.Equal(t, "spec", base.Reporter, "merge does not mutate the receiver")

	assert.Same(t, base, base.Merge(nil))
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Precision = "millis"
	cfg.HookMode = "chain"
	cfg.Retries = IntPtr(2)
	cfg.Slow = Int64Ptr(10)

	var sp *suite.Spec
	s := suite.Describe("root", func(c *suite.SuiteContext) {
		sp = c.It("a", nil)
	})
	require.NoError(t, cfg.Apply(s))
	assert.Equal(t, suite.Milli, s.Precision())
	assert.Equal(t, suite.HookChain, s.HookMode())

	require.NoError(t, s.Run())
	assert.Equal(t, 2, sp.Context().Retries())
	th, ok := sp.Context().SlowThreshold()
	assert.True(t, ok)
	assert.Equal(t, int64(10), th.Milliseconds())

	bad := DefaultConfig()
	bad.HookMode = "stack"
	var cfgErr *Error
	assert.ErrorAs(t, bad.Apply(suite.Describe("x", nil)), &cfgErr)
}

func TestApply_KeepsDeclaredSettings(t *testing.T) {
	s := suite.Describe("simple", func(c *suite.SuiteContext) {
		c.It("a", nil)
	}).Millis().ChainHooks()

	require.NoError(t, DefaultConfig().Merge(&Config{}).Apply(s))
	assert.Equal(t, suite.Milli, s.Precision())
	assert.Equal(t, suite.HookChain, s.HookMode())

	require.NoError(t, (&Config{Precision: "micro"}).Apply(s))
	assert.Equal(t, suite.Micro, s.Precision(), "a configured precision still wins")
	assert.Equal(t, suite.HookChain, s.HookMode())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".speclab.yml")
	cfg := DefaultConfig()
	cfg.Reporter = "list"
	cfg.Slow = Int64Ptr(200)
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
