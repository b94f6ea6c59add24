package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/capture"
)

var queryCmd = &cobra.Command{
	Use:   "query <result.json> <path...>",
	Short: "Extract values from a JSON report",
	Long: `Extract values from a JSON report with gjson paths. A path may be named
with name=path, and spec[Full Title].field addresses one spec.

Examples:
  speclab query results/run.json stats.failing
  speclab query results/run.json 'tests.#(status=="failed")#.fullTitle'
  speclab query results/run.json 'd=spec[Calculator adds].durationNs' runId`,
	Args: cobra.MinimumNArgs(2),
	RunE: queryCommand,
}

func queryCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("reading report: %w", err))
	}
	ex, err := capture.NewExtractor(data)
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("%s: %w", args[0], err))
	}

	exprs := args[1:]
	var missing []string
	for _, expr := range exprs {
		c, err := capture.Parse(expr)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		raw, ok := ex.Raw(c)
		if !ok {
			missing = append(missing, c.Name)
			continue
		}
		if len(exprs) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), raw)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Name, raw)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("no value at %v", missing)
	}
	return nil
}
