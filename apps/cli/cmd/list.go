package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

var listFailedFlag bool

var listCmd = &cobra.Command{
	Use:   "list <result.json>",
	Short: "List the suites and specs in a report",
	Long: `Print the suite tree of a JSON report with each spec's execution order
and status.

Examples:
  speclab list results/run.json
  speclab list results/run.json --failed`,
	Args: cobra.ExactArgs(1),
	RunE: listCommand,
}

func init() {
	listCmd.Flags().BoolVar(&listFailedFlag, "failed", false, "Only list failed specs")
}

func listCommand(cmd *cobra.Command, args []string) error {
	r, err := loadReport(args[0])
	if err != nil {
		return err
	}
	if listFailedFlag {
		for _, sp := range r.Root.Failures() {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s: %s\n", sp.Order, sp.FullName, sp.Error)
		}
		return nil
	}
	writeTree(cmd.OutOrStdout(), &r.Root)
	return nil
}

func writeTree(w io.Writer, s *suite.SuiteResult) {
	indent := strings.Repeat("  ", s.Depth)
	label := s.Name
	if s.Skipped {
		label += " (skipped)"
	}
	fmt.Fprintf(w, "%s%s\n", indent, label)
	for _, sp := range s.Specs {
		fmt.Fprintf(w, "%s  [%d] %s (%s)\n", indent, sp.Order, sp.Name, sp.Status)
	}
	for i := range s.Suites {
		writeTree(w, &s.Suites[i])
	}
}
