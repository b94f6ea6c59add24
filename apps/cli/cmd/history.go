package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/history"
)

var (
	historyDBFlag       string
	historyLimitFlag    int
	historyReporterFlag string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse runs recorded in the history database",
	Long: `Browse runs recorded with 'speclab examples --record'.

Examples:
  speclab history list --db history.db
  speclab history show 3f2a --db history.db -r rust
  speclab history spec "math addOne() should return 1 when passed 0"`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render a recorded run; the id may be any unique prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

var historySpecCmd = &cobra.Command{
	Use:   "spec <full name>",
	Short: "Show the recorded outcomes of one spec",
	Args:  cobra.ExactArgs(1),
	RunE:  historySpecCommand,
}

var errNoHistory = errors.New("no history database: pass --db or set historyPath in the config")

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBFlag, "db", getEnvString("SPECLAB_HISTORY", ""), "History database path (env: SPECLAB_HISTORY)")
	historyCmd.PersistentFlags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of rows, 0 for all")
	historyShowCmd.Flags().StringVarP(&historyReporterFlag, "reporter", "r", "", "Reporter used to render the run")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historySpecCmd)
}

func openHistory() (*history.Store, error) {
	path := historyDBFlag
	if path == "" {
		path = cfg.HistoryPath
	}
	if path == "" {
		return nil, withExitCode(ExitUsageError, errNoHistory)
	}
	return history.Open(path)
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	if cfg.GetNoColor() {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleColoredDark)
	}
	return t
}

func historyListCommand(cmd *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Run", "Suite", "Started", "Passed", "Failed", "Ignored", "Duration"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.Name,
			run.StartedAt.Local().Format(time.DateTime),
			run.Passed,
			run.Failed,
			run.Ignored,
			run.Duration.Round(time.Microsecond),
		})
	}
	t.Render()
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	format := historyReporterFlag
	if format == "" {
		format = cfg.Reporter
	}
	return renderReport(cmd.OutOrStdout(), format, r)
}

func historySpecCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.SpecHistory(cmd.Context(), args[0], historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No recorded outcomes for %q.\n", args[0])
		return nil
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Run", "Started", "Status", "Attempts", "Duration", "Error"})
	for _, sr := range runs {
		t.AppendRow(table.Row{
			shortID(sr.RunID),
			sr.StartedAt.Local().Format(time.DateTime),
			sr.Status,
			sr.Attempts,
			sr.Duration.Round(time.Microsecond),
			sr.Error,
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
