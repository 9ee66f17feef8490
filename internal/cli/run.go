package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rulekit/rulekit"
	"github.com/rulekit/rulekit/internal/harness"
	"github.com/rulekit/rulekit/internal/tracestore"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // optional SQLite path for persisting traces
}

// RunReport is the JSON output of the run command.
type RunReport struct {
	Scenarios []ScenarioReport `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
}

// ScenarioReport summarizes one scenario execution.
type ScenarioReport struct {
	Name         string   `json:"name"`
	RuleBook     string   `json:"rulebook"`
	Pass         bool     `json:"pass"`
	Conclusion   string   `json:"conclusion"`
	Hint         string   `json:"hint,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	EvaluationID string   `json:"evaluation_id,omitempty"` // set when --db is used
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir>...",
		Short: "Evaluate scenario files",
		Long: `Evaluate scenario files against their rule books and check expectations.

Each scenario names a rule book, input facts, and the expected result. The
command exits non-zero if any scenario's expectation fails.

Examples:
  rulekit run scenarios/
  rulekit run scenarios/whale.yaml --format json
  rulekit run scenarios/ --db ./traces.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "persist evaluation traces to this SQLite database")

	return cmd
}

func runScenarios(opts *RunOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	scenarios, err := loadScenarioArgs(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	slog.Debug("scenarios loaded", "count", len(scenarios))

	var store *tracestore.Store
	if opts.Database != "" {
		store, err = tracestore.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
	}

	report := RunReport{}
	for _, scenario := range scenarios {
		result, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s failed to run", scenario.Name), err)
		}

		scenarioReport := ScenarioReport{
			Name:       result.ScenarioName,
			RuleBook:   result.RuleBook,
			Pass:       result.Pass,
			Conclusion: result.Conclusion,
			Hint:       result.Hint,
			Errors:     result.Errors,
		}

		if store != nil {
			id, err := persistTrace(cmd, store, result)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to persist trace", err)
			}
			scenarioReport.EvaluationID = id
		}

		if result.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Scenarios = append(report.Scenarios, scenarioReport)
	}

	if formatter.JSON() {
		if err := formatter.EncodeJSON(report); err != nil {
			return err
		}
	} else {
		printRunReport(formatter, report)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(scenarios)))
	}
	return nil
}

// persistTrace replays a result's recorded events into the trace store.
func persistTrace(cmd *cobra.Command, store *tracestore.Store, result *harness.Result) (string, error) {
	eval, err := store.Begin(cmd.Context(), result.ScenarioName)
	if err != nil {
		return "", err
	}
	for _, event := range result.Trace {
		switch event.Phase {
		case rulekit.PhaseWhen:
			eval.When(event.Description, event.Value)
		case rulekit.PhaseThen:
			eval.Then(event.Description, event.Value)
		}
	}
	return eval.ID(), eval.Err()
}

func printRunReport(formatter *OutputFormatter, report RunReport) {
	for _, s := range report.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		formatter.Printf("%s  %s (%s)\n", status, s.Name, s.RuleBook)
		formatter.Printf("      conclusion: %s\n", s.Conclusion)
		if s.Hint != "" {
			formatter.Printf("      hint: %s\n", s.Hint)
		}
		for _, msg := range s.Errors {
			formatter.Printf("      error: %s\n", msg)
		}
		if s.EvaluationID != "" {
			formatter.Printf("      trace: %s\n", s.EvaluationID)
		}
	}
	formatter.Printf("%d passed, %d failed\n", report.Passed, report.Failed)
}
