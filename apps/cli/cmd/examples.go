package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/core/config"
	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/examples"
	"github.com/abdul-hamid-achik/speclab/packages/export/metrics"
	"github.com/abdul-hamid-achik/speclab/packages/history"
	"github.com/abdul-hamid-achik/speclab/packages/notify"
	"github.com/abdul-hamid-achik/speclab/packages/output"
)

var examplesCmd = &cobra.Command{
	Use:   "examples [name...]",
	Short: "Run the bundled example suites",
	Long: `Run one or more bundled example suites. With no names, every example
runs under a single root suite.

Examples:
  speclab examples --list
  speclab examples simple hooks
  speclab examples retry -r rust --precision micro
  speclab examples -o json-pretty --output-file results/run.json
  speclab examples --record history.db --metrics prometheus --metrics-file speclab.prom`,
	RunE: examplesCommand,
}

var (
	listExamplesFlag bool
	reporterFlag     string
	precisionFlag    string
	retriesFlag      int
	slowFlag         int64
	hookModeFlag     string
	outputFileFlag   string
	outputFormatFlag string
	recordFlag       string
	metricsFlag      string
	metricsFileFlag  string
	notifyFlag       bool
	notifyOnFlag     string
	slackWebhookFlag string
	slackChannelFlag string
	teamsWebhookFlag string
)

func init() {
	f := examplesCmd.Flags()
	f.BoolVar(&listExamplesFlag, "list", false, "List the available examples and exit")

	f.StringVarP(&reporterFlag, "reporter", "r", getEnvString("SPECLAB_REPORTER", ""), "Reporter: "+strings.Join(output.Formats(), ", ")+" (env: SPECLAB_REPORTER)")
	f.StringVar(&precisionFlag, "precision", getEnvString("SPECLAB_PRECISION", ""), "Duration precision: nano, micro, millis, sec (env: SPECLAB_PRECISION)")
	f.IntVar(&retriesFlag, "retries", getEnvInt("SPECLAB_RETRIES", -1), "Root retry budget, -1 keeps the config value (env: SPECLAB_RETRIES)")
	f.Int64Var(&slowFlag, "slow", int64(getEnvInt("SPECLAB_SLOW", -1)), "Root slow threshold in ms, -1 keeps the config value (env: SPECLAB_SLOW)")
	f.StringVar(&hookModeFlag, "hook-mode", getEnvString("SPECLAB_HOOK_MODE", ""), "before_each/after_each mode: inherit, chain (env: SPECLAB_HOOK_MODE)")

	f.StringVar(&outputFileFlag, "output-file", getEnvString("SPECLAB_OUTPUT_FILE", ""), "Also write the report to this file (env: SPECLAB_OUTPUT_FILE)")
	f.StringVar(&outputFormatFlag, "output-format", getEnvString("SPECLAB_OUTPUT_FORMAT", "json"), "Reporter used for --output-file (env: SPECLAB_OUTPUT_FORMAT)")
	f.StringVar(&recordFlag, "record", getEnvString("SPECLAB_RECORD", ""), "Record the run in this SQLite history database (env: SPECLAB_RECORD)")

	f.StringVar(&metricsFlag, "metrics", getEnvString("SPECLAB_METRICS", ""), "Metrics export format: json, prometheus (env: SPECLAB_METRICS)")
	f.StringVar(&metricsFileFlag, "metrics-file", getEnvString("SPECLAB_METRICS_FILE", ""), "Output file for metrics, stdout when empty (env: SPECLAB_METRICS_FILE)")

	f.BoolVar(&notifyFlag, "notify", getEnvBool("SPECLAB_NOTIFY", false), "Send webhook notifications (env: SPECLAB_NOTIFY)")
	f.StringVar(&notifyOnFlag, "notify-on", getEnvString("SPECLAB_NOTIFY_ON", ""), "When to notify: always, failure, success, recovery (env: SPECLAB_NOTIFY_ON)")
	f.StringVar(&slackWebhookFlag, "slack-webhook", getEnvString("SLACK_WEBHOOK", ""), "Slack webhook URL (env: SLACK_WEBHOOK)")
	f.StringVar(&slackChannelFlag, "slack-channel", getEnvString("SLACK_CHANNEL", ""), "Slack channel override (env: SLACK_CHANNEL)")
	f.StringVar(&teamsWebhookFlag, "teams-webhook", getEnvString("TEAMS_WEBHOOK", ""), "Microsoft Teams webhook URL (env: TEAMS_WEBHOOK)")
}

// examplesConfig layers the command's flags over the loaded config.
func examplesConfig() (*config.Config, error) {
	flags := &config.Config{
		Reporter:     reporterFlag,
		Precision:    precisionFlag,
		HookMode:     hookModeFlag,
		OutputFile:   outputFileFlag,
		HistoryPath:  recordFlag,
		Metrics:      metricsFlag,
		MetricsFile:  metricsFileFlag,
		NotifyOn:     notifyOnFlag,
		SlackWebhook: slackWebhookFlag,
		TeamsWebhook: teamsWebhookFlag,
	}
	if retriesFlag >= 0 {
		flags.Retries = config.IntPtr(retriesFlag)
	}
	if slowFlag >= 0 {
		flags.Slow = config.Int64Ptr(slowFlag)
	}
	if notifyFlag {
		flags.Notify = config.BoolPtr(true)
	}

	merged := cfg.Merge(flags)
	if err := merged.Validate(); err != nil {
		return nil, &config.Error{Err: err}
	}
	return merged, nil
}

func examplesCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if listExamplesFlag {
		for _, ex := range examples.All() {
			fmt.Fprintf(out, "  %-10s %s\n", ex.Name, ex.Description)
		}
		return nil
	}

	c, err := examplesConfig()
	if err != nil {
		return err
	}

	s, err := buildExamples(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if err := c.Apply(s); err != nil {
		return err
	}

	reporters, closers, err := runReporters(cmd.Context(), c, out)
	defer func() {
		for _, closeFn := range closers {
			if cerr := closeFn(); cerr != nil {
				logger.Warn("failed to close exporter", "err", cerr)
			}
		}
	}()
	if err != nil {
		return err
	}

	runErr := s.WithLogger(logger).WithReporter(suite.MultiReporter(reporters...)).Run()

	if c.HistoryPath != "" {
		if err := recordRun(cmd.Context(), c.HistoryPath, s.Report()); err != nil {
			logger.Error("failed to record run", "path", c.HistoryPath, "err", err)
		}
	}
	return runErr
}

func buildExamples(names []string) (*suite.Suite, error) {
	if len(names) == 1 {
		ex, err := examples.Get(names[0])
		if err != nil {
			return nil, err
		}
		return ex.Build(), nil
	}
	return examples.Combined("speclab examples", names...)
}

// runReporters assembles the reporters a run hands its report to: the
// console reporter, an optional file copy, metrics and notifications.
func runReporters(ctx context.Context, c *config.Config, out io.Writer) ([]suite.Reporter, []func() error, error) {
	opts := []output.Option{
		output.WithWriter(out),
		output.WithNoColor(c.GetNoColor()),
		output.WithVersion(version),
	}

	console, err := output.New(c.Reporter, opts...)
	if err != nil {
		return nil, nil, withExitCode(ExitUsageError, err)
	}
	reporters := []suite.Reporter{console}
	var closers []func() error

	if c.OutputFile != "" {
		file, err := output.NewFile(outputFormatFlag, c.OutputFile, output.WithVersion(version))
		if err != nil {
			return nil, nil, withExitCode(ExitUsageError, err)
		}
		reporters = append(reporters, file)
	}

	if c.Metrics != "" {
		var exp metrics.Exporter
		switch c.Metrics {
		case "json":
			jsonOpts := []metrics.JSONOption{metrics.WithJSONVersion(version)}
			if c.MetricsFile != "" {
				jsonOpts = append(jsonOpts, metrics.WithJSONFile(c.MetricsFile))
			} else {
				jsonOpts = append(jsonOpts, metrics.WithJSONWriter(out))
			}
			exp = metrics.NewJSONExporter(jsonOpts...)
		case "prometheus":
			if c.MetricsFile != "" {
				exp = metrics.NewPrometheusExporter(metrics.WithPrometheusFile(c.MetricsFile))
			} else {
				exp = metrics.NewPrometheusExporter(metrics.WithPrometheusWriter(out))
			}
		}
		collector := metrics.NewCollector(exp)
		reporters = append(reporters, collector)
		closers = append(closers, collector.Close)
	}

	if c.GetNotify() {
		mgr, err := notifyManager(ctx, c)
		if err != nil {
			return nil, closers, err
		}
		if mgr.Len() == 0 {
			logger.Warn("notifications enabled but no webhook configured")
		} else {
			reporters = append(reporters, mgr)
		}
	}

	return reporters, closers, nil
}

func notifyManager(ctx context.Context, c *config.Config) (*notify.Manager, error) {
	on, err := notify.ParseNotifyOn(c.NotifyOn)
	if err != nil {
		return nil, &config.Error{Err: err}
	}
	mgr := notify.NewManager(on)
	if c.SlackWebhook != "" {
		var opts []notify.SlackOption
		if slackChannelFlag != "" {
			opts = append(opts, notify.WithSlackChannel(slackChannelFlag))
		}
		mgr.AddNotifier(notify.NewSlackNotifier(c.SlackWebhook, opts...))
	}
	if c.TeamsWebhook != "" {
		mgr.AddNotifier(notify.NewTeamsNotifier(c.TeamsWebhook))
	}

	// Recovery needs the previous outcome, which only the history knows.
	if on == notify.NotifyRecovery && c.HistoryPath != "" {
		if last, ok := lastRunSucceeded(ctx, c.HistoryPath); ok {
			mgr.SetLastState(last)
		}
	}
	return mgr, nil
}

func recordRun(ctx context.Context, path string, r *suite.Report) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, r)
}

func lastRunSucceeded(ctx context.Context, path string) (bool, bool) {
	store, err := history.Open(path)
	if err != nil {
		logger.Debug("history unavailable", "path", path, "err", err)
		return false, false
	}
	defer store.Close()

	runs, err := store.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return false, false
	}
	return runs[0].Failed == 0, true
}
