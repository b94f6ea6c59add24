package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/output"
	"github.com/abdul-hamid-achik/speclab/packages/watch"
)

var (
	reportReporterFlag string
	reportWatchFlag    bool
)

var reportCmd = &cobra.Command{
	Use:   "report <result.json>",
	Short: "Re-render an exported JSON report",
	Long: `Load a report written by the json or json-pretty reporter and render it
again with any reporter.

Examples:
  speclab report results/run.json
  speclab report results/run.json -r tap
  speclab report results/run.json -r html > report.html
  speclab report results/run.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: reportCommand,
}

func init() {
	reportCmd.Flags().StringVarP(&reportReporterFlag, "reporter", "r", getEnvString("SPECLAB_REPORTER", ""), "Reporter: "+strings.Join(output.Formats(), ", ")+" (env: SPECLAB_REPORTER)")
	reportCmd.Flags().BoolVarP(&reportWatchFlag, "watch", "w", false, "Re-render whenever the file changes")
}

// loadReport reads a report file, mapping every failure to the parse exit code.
func loadReport(path string) (*suite.Report, error) {
	r, err := output.LoadReport(path)
	if err != nil {
		return nil, withExitCode(ExitParseError, err)
	}
	return r, nil
}

func reportCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	format := reportReporterFlag
	if format == "" {
		format = cfg.Reporter
	}
	out := cmd.OutOrStdout()

	render := func() error {
		r, err := loadReport(path)
		if err != nil {
			return err
		}
		return renderReport(out, format, r)
	}

	if err := render(); err != nil {
		if !reportWatchFlag {
			return err
		}
		logger.Error("failed to render report", "path", path, "err", err)
	}
	if !reportWatchFlag {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)
	w := watch.New([]string{path}, watch.WithLogger(logger))
	err := w.Run(ctx, func(string) error {
		fmt.Fprintf(out, "\nReport changed: %s\n\n", path)
		return render()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderReport(w io.Writer, format string, r *suite.Report) error {
	rep, err := output.New(format,
		output.WithWriter(w),
		output.WithNoColor(cfg.GetNoColor()),
		output.WithVersion(version),
	)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	return rep.Report(r)
}
