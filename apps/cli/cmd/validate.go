package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/output"
)

var validateSchemaFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate <result.json...>",
	Short: "Validate JSON reports against the report schema",
	Long: `Validate JSON report files against the embedded JSON schema without
rendering them.

Examples:
  speclab validate results/run.json
  speclab validate results/*.json
  speclab validate --schema > report.schema.json`,
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSchemaFlag, "schema", false, "Print the report JSON schema and exit")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if validateSchemaFlag {
		_, err := cmd.OutOrStdout().Write(output.Schema())
		return err
	}
	if len(args) == 0 {
		return withExitCode(ExitUsageError, errors.New("at least one report file is required"))
	}

	hasErrors := false
	for _, file := range args {
		data, err := os.ReadFile(file)
		if err == nil {
			err = output.Validate(data)
		}
		if err != nil {
			hasErrors = true
			var valErr *output.ValidationError
			if errors.As(err, &valErr) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Invalid: %s\n", file)
				for _, p := range valErr.Problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
	}

	if hasErrors {
		return withExitCode(ExitParseError, errors.New("validation failed"))
	}
	return nil
}
