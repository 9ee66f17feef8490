package harness

import "github.com/rulekit/rulekit"

// Result captures one scenario execution: the final result values, the full
// evaluation trace, and any expectation mismatches.
type Result struct {
	ScenarioName string
	RuleBook     string

	// Pass is true when the expect clause matched exactly.
	Pass bool

	// Errors lists expectation mismatches, one message per field.
	Errors []string

	// Conclusion and Hint are the final result values.
	Conclusion string
	Hint       string

	// Trace holds every when/then trace call in evaluation order.
	Trace []rulekit.TraceEvent
}

// AddError records an expectation mismatch and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
