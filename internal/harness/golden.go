package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/rulekit/rulekit"
)

// TraceSnapshot is the canonical, JSON-serializable form of one scenario's
// evaluation trace, compared against golden files.
type TraceSnapshot struct {
	ScenarioName string               `json:"scenario_name"`
	RuleBook     string               `json:"rulebook"`
	Trace        []rulekit.TraceEvent `json:"trace"`
}

// Snapshot builds the canonical trace snapshot for a result. Descriptions
// are NFC-normalized so golden comparison is stable regardless of how the
// rule author's editor encoded combining characters.
func Snapshot(result *Result) *TraceSnapshot {
	trace := make([]rulekit.TraceEvent, len(result.Trace))
	for i, event := range result.Trace {
		event.Description = norm.NFC.String(event.Description)
		trace[i] = event
	}
	return &TraceSnapshot{
		ScenarioName: result.ScenarioName,
		RuleBook:     result.RuleBook,
		Trace:        trace,
	}
}

// RunWithGolden executes a scenario and compares its trace snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.AssertJson(t, scenario.Name, Snapshot(result))

	return result
}
