package cli

import (
	"github.com/spf13/cobra"

	"github.com/rulekit/rulekit"
	"github.com/rulekit/rulekit/internal/harness"
)

// TraceReport is the JSON output of the trace command.
type TraceReport struct {
	Scenario   string               `json:"scenario"`
	RuleBook   string               `json:"rulebook"`
	Pass       bool                 `json:"pass"`
	Conclusion string               `json:"conclusion"`
	Hint       string               `json:"hint,omitempty"`
	Trace      []rulekit.TraceEvent `json:"trace"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <scenario.yaml>",
		Short: "Evaluate one scenario and print its trace",
		Long: `Evaluate a single scenario and print every when/then trace call in
evaluation order.

Condition lines show the condition's description and outcome; action lines
show the action's description and whether it stopped evaluation. Nested
group conditions carry their gating condition as an AND prefix.

Examples:
  rulekit trace scenarios/whale_grouped.yaml
  rulekit trace scenarios/cow.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTrace(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	report := TraceReport{
		Scenario:   result.ScenarioName,
		RuleBook:   result.RuleBook,
		Pass:       result.Pass,
		Conclusion: result.Conclusion,
		Hint:       result.Hint,
		Trace:      result.Trace,
	}

	if formatter.JSON() {
		return formatter.EncodeJSON(report)
	}

	formatter.Printf("scenario: %s (%s)\n", report.Scenario, report.RuleBook)
	for _, event := range report.Trace {
		switch event.Phase {
		case rulekit.PhaseWhen:
			formatter.Printf("%3d WHEN %q was %t\n", event.Seq, event.Description, event.Value)
		case rulekit.PhaseThen:
			formatter.Printf("%3d THEN %q stop %t\n", event.Seq, event.Description, event.Value)
		}
	}
	formatter.Printf("conclusion: %s\n", report.Conclusion)
	if report.Hint != "" {
		formatter.Printf("hint: %s\n", report.Hint)
	}

	if !report.Pass {
		return NewExitError(ExitFailure, "scenario expectation failed")
	}
	return nil
}
