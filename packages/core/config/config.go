package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/logging"
	"gopkg.in/yaml.v3"
)

// Config represents the speclab configuration
type Config struct {
	Reporter     string `yaml:"reporter,omitempty" json:"reporter,omitempty"`
	Precision    string `yaml:"precision,omitempty" json:"precision,omitempty"`
	Retries      *int   `yaml:"retries,omitempty" json:"retries,omitempty"`
	Slow         *int64 `yaml:"slow,omitempty" json:"slow,omitempty"` // milliseconds
	HookMode     string `yaml:"hookMode,omitempty" json:"hookMode,omitempty"`
	NoColor      *bool  `yaml:"noColor,omitempty" json:"noColor,omitempty"`
	OutputFile   string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"`
	LogLevel     string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	HistoryPath  string `yaml:"historyPath,omitempty" json:"historyPath,omitempty"`
	Metrics      string `yaml:"metrics,omitempty" json:"metrics,omitempty"` // json or prometheus
	MetricsFile  string `yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"`
	Notify       *bool  `yaml:"notify,omitempty" json:"notify,omitempty"`
	NotifyOn     string `yaml:"notifyOn,omitempty" json:"notifyOn,omitempty"`
	SlackWebhook string `yaml:"slackWebhook,omitempty" json:"slackWebhook,omitempty"`
	TeamsWebhook string `yaml:"teamsWebhook,omitempty" json:"teamsWebhook,omitempty"`
}

// Error reports a configuration file that could not be read or is invalid.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}

// Int64Ptr returns a pointer to n
func Int64Ptr(n int64) *int64 {
	return &n
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetNotify returns whether notifications are enabled, defaulting to false
func (c *Config) GetNotify() bool {
	return getBool(c.Notify, false)
}

// GetRetries returns the configured retry budget and whether one was set
func (c *Config) GetRetries() (int, bool) {
	if c.Retries == nil {
		return 0, false
	}
	return *c.Retries, true
}

// GetSlow returns the configured slow threshold in milliseconds and whether
// one was set
func (c *Config) GetSlow() (int64, bool) {
	if c.Slow == nil {
		return 0, false
	}
	return *c.Slow, true
}

// ConfigFilenames contains the possible config file names, in lookup order
var ConfigFilenames = []string{
	".speclab.yml",
	".speclab.yaml",
	"speclab.yml",
	"speclab.config.json",
}

// LoadConfig loads configuration from the specified path or searches the
// current directory for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. JSON files
// are parsed with the YAML decoder, which accepts them as-is.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	config := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return config, nil
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if err := config.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	return config, nil
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Reporter: "spec",
		LogLevel: "warn",
		NotifyOn: "failure",
	}
}

// Validate checks enumerated values and numeric ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := suite.ParsePrecision(c.Precision); err != nil {
		errs = append(errs, err)
	}
	if _, err := suite.ParseHookMode(c.HookMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Retries != nil && *c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", *c.Retries))
	}
	if c.Slow != nil && *c.Slow < 0 {
		errs = append(errs, fmt.Errorf("slow must not be negative, got %d", *c.Slow))
	}
	switch c.Metrics {
	case "", "json", "prometheus":
	default:
		errs = append(errs, fmt.Errorf("unknown metrics format %q", c.Metrics))
	}
	switch c.NotifyOn {
	case "", "always", "failure", "success", "recovery":
	default:
		errs = append(errs, fmt.Errorf("unknown notifyOn value %q", c.NotifyOn))
	}
	return errors.Join(errs...)
}

// Apply pushes the engine settings onto a root suite. Only keys that are
// set are applied, so a suite's own precision and hook mode survive an
// empty config. Retries and slow become root-level overrides, so specs and
// nested suites with their own values keep them.
func (c *Config) Apply(s *suite.Suite) error {
	if c.Precision != "" {
		p, err := suite.ParsePrecision(c.Precision)
		if err != nil {
			return &Error{Err: err}
		}
		s.WithPrecision(p)
	}
	if c.HookMode != "" {
		mode, err := suite.ParseHookMode(c.HookMode)
		if err != nil {
			return &Error{Err: err}
		}
		s.WithHookMode(mode)
	}
	if n, ok := c.GetRetries(); ok {
		s.Retries(n)
	}
	if ms, ok := c.GetSlow(); ok {
		s.Slow(ms)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Reporter != "" {
		result.Reporter = other.Reporter
	}
	if other.Precision != "" {
		result.Precision = other.Precision
	}
	if other.HookMode != "" {
		result.HookMode = other.HookMode
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.HistoryPath != "" {
		result.HistoryPath = other.HistoryPath
	}
	if other.Metrics != "" {
		result.Metrics = other.Metrics
	}
	if other.MetricsFile != "" {
		result.MetricsFile = other.MetricsFile
	}
	if other.NotifyOn != "" {
		result.NotifyOn = other.NotifyOn
	}
	if other.SlackWebhook != "" {
		result.SlackWebhook = other.SlackWebhook
	}
	if other.TeamsWebhook != "" {
		result.TeamsWebhook = other.TeamsWebhook
	}

	// Pointer fields - only override if explicitly set in other config
	if other.Retries != nil {
		result.Retries = other.Retries
	}
	if other.Slow != nil {
		result.Slow = other.Slow
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Notify != nil {
		result.Notify = other.Notify
	}

	return &result
}

// SaveConfig saves the configuration to a file as YAML
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
