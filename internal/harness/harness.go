package harness

import (
	"fmt"

	"github.com/rulekit/rulekit"
	"github.com/rulekit/rulekit/internal/demo"
)

// Run executes one scenario and returns its result.
//
// The named rule book is built fresh for every run, so scenario executions
// never share rule or result state. Evaluation errors (misconfigured rules)
// are returned as errors; expectation mismatches are reported on the Result.
func Run(scenario *Scenario) (*Result, error) {
	book, err := demo.Build(scenario.RuleBook)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	facts := demo.AnimalFacts{
		Name:     scenario.Facts.Name,
		Mammal:   scenario.Facts.Mammal,
		WeightKg: scenario.Facts.WeightKg,
	}

	recorder := &rulekit.TraceRecorder{}
	outcome, err := book.EvaluateWithTrace(facts, &demo.AnalysisResult{}, recorder.When, recorder.Then)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: evaluate: %w", scenario.Name, err)
	}

	result := &Result{
		ScenarioName: scenario.Name,
		RuleBook:     scenario.RuleBook,
		Pass:         true,
		Conclusion:   outcome.Result.Conclusion,
		Hint:         outcome.Result.Hint,
		Trace:        recorder.Events(),
	}

	if result.Conclusion != scenario.Expect.Conclusion {
		result.AddError(fmt.Sprintf("conclusion mismatch: got %q, want %q",
			result.Conclusion, scenario.Expect.Conclusion))
	}
	if result.Hint != scenario.Expect.Hint {
		result.AddError(fmt.Sprintf("hint mismatch: got %q, want %q",
			result.Hint, scenario.Expect.Hint))
	}

	return result, nil
}

// RunAll executes scenarios in order and returns their results. Execution
// continues past failing expectations; only load/evaluate errors abort.
func RunAll(scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := Run(scenario)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
