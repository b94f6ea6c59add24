package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/core/config"
	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/logging"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	logLevelFlag string
	noColorFlag  bool

	// cfg and logger are resolved before any command runs.
	cfg    = config.DefaultConfig()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "speclab",
	Short: "Nested suites, hooks and retries for Go tests.",
	Long: `speclab runs nested suites of specs with hooks, retries, focus and
speed classification, and works with the reports they produce: re-render
them with any reporter, validate, diff, query, keep a history and serve them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the CLI and exits with a code describing the outcome.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var runErr *suite.RunError
		if !errors.As(err, &runErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("SPECLAB_CONFIG", ""), "Path to config file (env: SPECLAB_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("SPECLAB_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: SPECLAB_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("SPECLAB_NO_COLOR", false), "Disable colored output (env: SPECLAB_NO_COLOR)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves the config file, then the flags that override it.
func loadSettings(cmd *cobra.Command, _ []string) error {
	var (
		loaded *config.Config
		err    error
	)
	if configFlag != "" {
		loaded, err = config.LoadConfig(configFlag)
	} else {
		loaded, err = config.FindAndLoadConfig(".")
	}
	if err != nil {
		return err
	}
	cfg = config.DefaultConfig().Merge(loaded)

	if cmd.Flags().Changed("no-color") || noColorFlag {
		cfg.NoColor = config.BoolPtr(noColorFlag)
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &config.Error{Err: err}
	}
	logger = logging.New(level, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
