package rulekit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit"
	"github.com/rulekit/rulekit/internal/demo"
)

// steps is the result type of the property tests: actions append their
// rule's marker so insertion order is observable.
type steps struct {
	fired []string
}

type propRule = rulekit.Rule[int, *steps]
type propOutcome = rulekit.Outcome[int, *steps]

func always(int) bool { return true }

func never(int) bool { return false }

func fire(marker string) func(*propOutcome) {
	return func(o *propOutcome) { o.Result.fired = append(o.Result.fired, marker) }
}

func newPropRule() *propRule { return rulekit.NewRule[int, *steps]() }

func TestEvaluate_EmptyRuleBook(t *testing.T) {
	rec := &rulekit.TraceRecorder{}
	result := &steps{}

	outcome, err := rulekit.New[int, *steps]().EvaluateWithTrace(42, result, rec.When, rec.Then)
	require.NoError(t, err)

	assert.Equal(t, 42, outcome.Facts)
	assert.Same(t, result, outcome.Result)
	assert.Empty(t, result.fired, "empty book leaves the result untouched")
	assert.Empty(t, rec.Events(), "empty book makes no trace calls")
}

func TestEvaluate_InsertionOrder(t *testing.T) {
	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().When(always).ThenProceed(fire("first"))).
		AddRule(newPropRule().When(never).ThenProceed(fire("skipped"))).
		AddRule(newPropRule().When(always).ThenProceed(fire("second"))).
		AddRule(newPropRule().When(always).ThenProceed(fire("third")))

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, outcome.Result.fired)
}

func TestEvaluate_AddRulesPreservesOrder(t *testing.T) {
	rules := []*propRule{
		newPropRule().When(always).ThenProceed(fire("a")),
		newPropRule().When(always).ThenProceed(fire("b")),
	}
	book := rulekit.New[int, *steps]().
		AddRules(rules).
		AddRule(newPropRule().When(always).ThenProceed(fire("c")))

	require.Equal(t, 3, book.Len())

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, outcome.Result.fired)
}

func TestEvaluate_StopHaltsLaterRules(t *testing.T) {
	laterConditionCalls := 0
	rec := &rulekit.TraceRecorder{}

	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().WhenDescription("stopper").When(always).ThenStop(fire("stop"))).
		AddRule(newPropRule().
			WhenDescription("after stop").
			When(func(int) bool { laterConditionCalls++; return true }).
			ThenProceed(fire("late")))

	outcome, err := book.EvaluateWithTrace(0, &steps{}, rec.When, rec.Then)
	require.NoError(t, err)

	assert.Equal(t, []string{"stop"}, outcome.Result.fired)
	assert.Zero(t, laterConditionCalls, "rules after a stop are not evaluated")

	events := rec.Events()
	require.Len(t, events, 2, "rules after a stop are not traced")
	assert.Equal(t, "stopper", events[0].Description)
	assert.Equal(t, rulekit.PhaseThen, events[1].Phase)
	assert.True(t, events[1].Value, "then trace reports that the action stopped")
}

func TestEvaluate_ProceedNeverHalts(t *testing.T) {
	// The first action's mutation would satisfy a stop condition checked by
	// the next rule; proceeding must still reach it.
	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().When(always).ThenProceed(fire("marker"))).
		AddRule(newPropRule().When(always).
			AndWhenResult(func(r *steps) bool { return len(r.fired) > 0 }).
			ThenStop(fire("reached")))

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"marker", "reached"}, outcome.Result.fired)
}

func TestEvaluate_ResultConditionShortCircuit(t *testing.T) {
	resultConditionCalls := 0
	rec := &rulekit.TraceRecorder{}

	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().
			WhenDescription("never matches").
			When(never).
			AndWhenResultDescription("must not be traced").
			AndWhenResult(func(*steps) bool { resultConditionCalls++; return true }).
			ThenProceed(fire("never")))

	outcome, err := book.EvaluateWithTrace(0, &steps{}, rec.When, rec.Then)
	require.NoError(t, err)

	assert.Empty(t, outcome.Result.fired)
	assert.Zero(t, resultConditionCalls, "result-condition must not run when the facts-condition failed")

	events := rec.Events()
	require.Len(t, events, 1, "only the facts-condition is traced")
	assert.Equal(t, "never matches", events[0].Description)
	assert.False(t, events[0].Value)
}

func TestEvaluate_ResultConditionSeesCurrentResult(t *testing.T) {
	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().When(always).ThenProceed(fire("one"))).
		AddRule(newPropRule().When(always).
			AndWhenResult(func(r *steps) bool { return len(r.fired) == 1 }).
			ThenProceed(fire("two")))

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, outcome.Result.fired)
}

func TestEvaluate_GroupGatedByOuterCondition(t *testing.T) {
	nestedConditionCalls := 0

	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().
			When(never).
			ThenGroup(func(group *rulekit.RuleBook[int, *steps]) {
				group.AddRule(newPropRule().
					When(func(int) bool { nestedConditionCalls++; return true }).
					ThenProceed(fire("nested")))
			})).
		AddRule(newPropRule().When(always).ThenProceed(fire("after")))

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)

	assert.Zero(t, nestedConditionCalls, "unmatched group must not evaluate nested rules")
	assert.Equal(t, []string{"after"}, outcome.Result.fired)
}

func TestEvaluate_StopInsideGroupHaltsOuterSequence(t *testing.T) {
	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().
			When(always).
			ThenGroup(func(group *rulekit.RuleBook[int, *steps]) {
				group.
					AddRule(newPropRule().When(always).ThenStop(fire("inner stop"))).
					AddRule(newPropRule().When(always).ThenProceed(fire("inner after")))
			})).
		AddRule(newPropRule().When(always).ThenProceed(fire("outer after")))

	outcome, err := book.Evaluate(0, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"inner stop"}, outcome.Result.fired,
		"a stop inside a group halts both the group and the enclosing sequence")
}

func TestEvaluate_GroupTracePrefix(t *testing.T) {
	rec := &rulekit.TraceRecorder{}

	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().
			WhenDescription("outer").
			When(always).
			ThenGroup(func(group *rulekit.RuleBook[int, *steps]) {
				group.AddRule(newPropRule().
					WhenDescription("inner").
					When(always).
					ThenDescription("act").
					ThenProceed(fire("x")))
			}))

	_, err := book.EvaluateWithTrace(0, &steps{}, rec.When, rec.Then)
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "outer", events[0].Description)
	assert.Equal(t, "outer AND inner", events[1].Description)
	assert.Equal(t, "act", events[2].Description)
}

func TestEvaluate_MissingDescriptionsTraceAsEmpty(t *testing.T) {
	rec := &rulekit.TraceRecorder{}

	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().
			When(always).
			AndWhenResult(func(*steps) bool { return true }).
			ThenProceed(fire("x")))

	_, err := book.EvaluateWithTrace(0, &steps{}, rec.When, rec.Then)
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Empty(t, ev.Description)
	}
}

func TestEvaluate_AnimalAnalysis(t *testing.T) {
	testCases := []struct {
		animal             string
		mammal             bool
		weightKg           int
		expectedConclusion string
		expectedHint       string
	}{
		{"virus", true, 0, "A virus cannot be analyzed.", "You must set a positive weight."},
		{"sea hawk", false, 9, "A sea hawk does not produce milk.", ""},
		{"cow", true, 750, "A cow cannot fly.", ""},
		{"whale", true, 200000, "A whale must live in water. A whale cannot fly.", ""},
	}

	books := map[string]func() *demo.Book{
		"flat":    demo.FlatRuleBook,
		"grouped": demo.GroupedRuleBook,
	}

	// Grouping must be behaviorally transparent: both editions produce
	// identical results for every case, with and without tracing.
	for edition, build := range books {
		for _, tc := range testCases {
			t.Run(edition+"/"+tc.animal, func(t *testing.T) {
				facts := demo.AnimalFacts{Name: tc.animal, Mammal: tc.mammal, WeightKg: tc.weightKg}

				outcome, err := build().Evaluate(facts, &demo.AnalysisResult{})
				require.NoError(t, err)
				assert.Equal(t, tc.expectedConclusion, outcome.Result.Conclusion)
				assert.Equal(t, tc.expectedHint, outcome.Result.Hint)

				rec := &rulekit.TraceRecorder{}
				traced, err := build().EvaluateWithTrace(facts, &demo.AnalysisResult{}, rec.When, rec.Then)
				require.NoError(t, err)
				assert.Equal(t, outcome.Result.Conclusion, traced.Result.Conclusion)
				assert.Equal(t, outcome.Result.Hint, traced.Result.Hint)
				assert.NotEmpty(t, rec.Events())
			})
		}
	}
}

func TestEvaluate_AnimalResultConditions(t *testing.T) {
	testCases := []struct {
		animal             string
		mammal             bool
		weightKg           int
		expectedConclusion string
		expectedHint       string
	}{
		{"whale", true, 200000, "A whale is not a fish.", "super-heavy"},
		{"whale shark", false, 200000, "The weight for whale shark is wrong!", "super-heavy"},
	}

	for _, tc := range testCases {
		t.Run(tc.animal, func(t *testing.T) {
			facts := demo.AnimalFacts{Name: tc.animal, Mammal: tc.mammal, WeightKg: tc.weightKg}

			outcome, err := demo.ResultConditionRuleBook().Evaluate(facts, &demo.AnalysisResult{})
			require.NoError(t, err)
			assert.Equal(t, tc.expectedConclusion, outcome.Result.Conclusion)
			assert.Equal(t, tc.expectedHint, outcome.Result.Hint)
		})
	}
}

func TestEvaluate_FreshStateAcrossCalls(t *testing.T) {
	// A stop in one evaluation must not leak into the next: each call gets
	// its own outcome and stop flag.
	book := rulekit.New[int, *steps]().
		AddRule(newPropRule().When(func(n int) bool { return n == 1 }).ThenStop(fire("stopped"))).
		AddRule(newPropRule().When(always).ThenProceed(fire("ran")))

	first, err := book.Evaluate(1, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"stopped"}, first.Result.fired)

	second, err := book.Evaluate(2, &steps{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ran"}, second.Result.fired)
}
