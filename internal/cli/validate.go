package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationReport holds validation results for the validate command.
type ValidationReport struct {
	Valid     bool     `json:"valid"`
	Scenarios []string `json:"scenarios,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml|dir>...",
		Short: "Check scenario files without running them",
		Long: `Load and statically check scenario files: YAML syntax, unknown fields,
required fields, and that the referenced rule book exists.

Faster than run for development feedback; no rules are evaluated.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	report := ValidationReport{Valid: true}
	scenarios, err := loadScenarioArgs(args)
	if err != nil {
		// Loading already validates; a load error is the validation result.
		report.Valid = false
		report.Errors = append(report.Errors, err.Error())
	} else {
		for _, scenario := range scenarios {
			report.Scenarios = append(report.Scenarios, scenario.Name)
		}
	}

	if formatter.JSON() {
		if err := formatter.EncodeJSON(report); err != nil {
			return err
		}
	} else if report.Valid {
		formatter.Printf("%d scenarios valid\n", len(report.Scenarios))
		for _, name := range report.Scenarios {
			formatter.Printf("  %s\n", name)
		}
	} else {
		for _, msg := range report.Errors {
			formatter.Printf("invalid: %s\n", msg)
		}
	}

	if !report.Valid {
		return NewExitError(ExitCommandError, fmt.Sprintf("%d validation errors", len(report.Errors)))
	}
	return nil
}
