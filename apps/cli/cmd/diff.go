package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/diff"
)

var (
	diffOutputFlag    string
	diffThresholdFlag string
)

var diffCmd = &cobra.Command{
	Use:   "diff <results1.json> <results2.json>",
	Short: "Compare two JSON reports",
	Long: `Compare two JSON reports spec by spec and show the differences.

This command helps identify performance regressions or improvements
between runs.

Examples:
  speclab diff results1.json results2.json
  speclab diff results1.json results2.json --output html
  speclab diff results1.json results2.json --threshold 10%`,
	Args: cobra.ExactArgs(2),
	RunE: diffCommand,
}

func init() {
	diffCmd.Flags().StringVarP(&diffOutputFlag, "output", "o", "console", "Output format: console, json, html")
	diffCmd.Flags().StringVar(&diffThresholdFlag, "threshold", getEnvString("SPECLAB_DIFF_THRESHOLD", ""), "Fail if any spec is slower by this percentage, e.g. 10% (env: SPECLAB_DIFF_THRESHOLD)")
}

func diffCommand(cmd *cobra.Command, args []string) error {
	file1, file2 := args[0], args[1]

	threshold, err := diff.ParseThreshold(diffThresholdFlag)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	r1, err := loadReport(file1)
	if err != nil {
		return err
	}
	r2, err := loadReport(file2)
	if err != nil {
		return err
	}

	result := diff.Compare(file1, file2, r1, r2, threshold)

	out := cmd.OutOrStdout()
	switch strings.ToLower(diffOutputFlag) {
	case "json":
		err = diff.WriteJSON(out, result)
	case "html":
		err = diff.WriteHTML(out, result)
	case "console", "":
		err = diff.WriteConsole(out, result, cfg.GetNoColor())
	default:
		return withExitCode(ExitUsageError, fmt.Errorf("unknown diff output %q (want console, json or html)", diffOutputFlag))
	}
	if err != nil {
		return err
	}
	return result.Check()
}
