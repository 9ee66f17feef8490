// Package demo provides the animal-analysis rule sets used by the scenario
// harness, the CLI, and the end-to-end tests.
//
// The domain is deliberately small: facts describe an animal, the result
// accumulates conclusions about it. The same rule set exists in a flat and a
// grouped edition; the two must be behaviorally identical.
package demo

import (
	"fmt"
	"sort"

	"github.com/rulekit/rulekit"
)

// AnimalFacts is the read-only input of one analysis.
type AnimalFacts struct {
	Name     string
	Mammal   bool
	WeightKg int
}

// AnalysisResult accumulates conclusions about the animal. Conclusions are
// appended space-separated; the hint is a single replaceable value.
type AnalysisResult struct {
	Conclusion string
	Hint       string
}

// AddConclusion appends a conclusion, space-separated from any earlier ones.
func (r *AnalysisResult) AddConclusion(conclusion string) *AnalysisResult {
	if r.Conclusion == "" {
		r.Conclusion = conclusion
	} else {
		r.Conclusion += " " + conclusion
	}
	return r
}

// SetConclusion replaces the accumulated conclusion.
func (r *AnalysisResult) SetConclusion(conclusion string) *AnalysisResult {
	r.Conclusion = conclusion
	return r
}

// SetHint sets the hint for the caller.
func (r *AnalysisResult) SetHint(hint string) *AnalysisResult {
	r.Hint = hint
	return r
}

// Book is the rule book type of the demo domain.
type Book = rulekit.RuleBook[AnimalFacts, *AnalysisResult]

// DemoRule is a rule of the demo domain.
type DemoRule = rulekit.Rule[AnimalFacts, *AnalysisResult]

func newRule() *DemoRule {
	return rulekit.NewRule[AnimalFacts, *AnalysisResult]()
}

// noWeightRule stops the analysis when no positive weight was given.
// It opens both the flat and the grouped rule book.
func noWeightRule() *DemoRule {
	return newRule().
		WhenDescription("If there is no weight given?").
		When(func(facts AnimalFacts) bool { return facts.WeightKg <= 0 }).
		ThenDescription("Stop processing and give a hint to set the weight.").
		ThenStop(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
			outcome.Result.AddConclusion("A " + outcome.Facts.Name + " cannot be analyzed.")
			outcome.Result.SetHint("You must set a positive weight.")
		})
}

// FlatRuleBook builds the animal analysis as a flat rule sequence.
func FlatRuleBook() *Book {
	return rulekit.New[AnimalFacts, *AnalysisResult]().
		AddRule(noWeightRule()).
		AddRule(newRule().
			WhenDescription("If animal is no mammal?").
			When(func(facts AnimalFacts) bool { return !facts.Mammal }).
			ThenDescription("Stop processing and conclude, that the animal does not give milk.").
			ThenStop(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
				outcome.Result.AddConclusion("A " + outcome.Facts.Name + " does not produce milk.")
			})).
		AddRule(newRule().
			WhenDescription("If animal weights over 100 tons?").
			When(func(facts AnimalFacts) bool { return facts.Mammal && facts.WeightKg > 100000 }).
			ThenDescription("Conclude, that the animal must live in water, because otherwise its weight would crush it.").
			ThenProceed(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
				outcome.Result.AddConclusion("A " + outcome.Facts.Name + " must live in water.")
			})).
		AddRule(newRule().
			WhenDescription("If animal is mammal and weights more than 2kg?").
			When(func(facts AnimalFacts) bool { return facts.Mammal && facts.WeightKg > 2 }).
			ThenDescription("Conclude, that the animal cannot fly, because the largest flying mammals weigh less than 2kg.").
			ThenProceed(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
				outcome.Result.AddConclusion("A " + outcome.Facts.Name + " cannot fly.")
			}))
}

// GroupedRuleBook builds the same analysis with the mammal checks gated by
// shared group conditions. Must produce identical output to FlatRuleBook.
func GroupedRuleBook() *Book {
	return rulekit.New[AnimalFacts, *AnalysisResult]().
		AddRule(noWeightRule()).
		AddRule(newRule().
			WhenDescription("If animal is a mammal?").
			When(func(facts AnimalFacts) bool { return facts.Mammal }).
			ThenGroup(func(group *Book) {
				group.
					AddRule(newRule().
						WhenDescription("If mammal weights over 100 tons?").
						When(func(facts AnimalFacts) bool { return facts.WeightKg > 100000 }).
						ThenDescription("Conclude, that the animal must live in water, because otherwise its weight would crush it.").
						ThenProceed(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
							outcome.Result.AddConclusion("A " + outcome.Facts.Name + " must live in water.")
						})).
					AddRule(newRule().
						WhenDescription("If mammal weights more than 2kg?").
						When(func(facts AnimalFacts) bool { return facts.WeightKg > 2 }).
						ThenDescription("Conclude, that the animal cannot fly, because the largest flying mammals weigh less than 2kg.").
						ThenProceed(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
							outcome.Result.AddConclusion("A " + outcome.Facts.Name + " cannot fly.")
						}))
			})).
		AddRule(newRule().
			WhenDescription("If animal is no mammal?").
			When(func(facts AnimalFacts) bool { return !facts.Mammal }).
			ThenGroup(func(group *Book) {
				group.AddRule(newRule().
					WhenDescription("true").
					When(func(AnimalFacts) bool { return true }).
					ThenDescription("Stop processing and conclude, that the animal does not give milk.").
					ThenStop(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
						outcome.Result.AddConclusion("A " + outcome.Facts.Name + " does not produce milk.")
					}))
			}))
}

// ResultConditionRuleBook exercises secondary conditions over the evolving
// result: a plausibility check that only fires when an earlier rule already
// marked the animal super-heavy.
func ResultConditionRuleBook() *Book {
	return rulekit.New[AnimalFacts, *AnalysisResult]().
		AddRule(newRule().
			WhenDescription("If animal weights more than 20 tons?").
			When(func(facts AnimalFacts) bool { return facts.WeightKg > 20000 }).
			ThenProceed(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
				outcome.Result.AddConclusion("A " + outcome.Facts.Name + " is not a fish.")
				outcome.Result.SetHint("super-heavy")
			})).
		AddRule(newRule().
			WhenDescription("If animal is not a mammal?").
			When(func(facts AnimalFacts) bool { return !facts.Mammal }).
			AndWhenResultDescription("and if it is super heavy, like whales only").
			AndWhenResult(func(result *AnalysisResult) bool { return result.Hint == "super-heavy" }).
			ThenDescription("then something with the data is wrong!").
			ThenStop(func(outcome *rulekit.Outcome[AnimalFacts, *AnalysisResult]) {
				outcome.Result.SetConclusion("The weight for " + outcome.Facts.Name + " is wrong!")
			}))
}

// catalog maps scenario rulebook keys to builders. Each call builds a fresh
// rule book, so evaluations never share builder state.
var catalog = map[string]func() *Book{
	"animal_flat":             FlatRuleBook,
	"animal_grouped":          GroupedRuleBook,
	"animal_result_condition": ResultConditionRuleBook,
}

// Build returns a fresh rule book for the given catalog key.
func Build(name string) (*Book, error) {
	builder, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown rulebook %q (known: %v)", name, Names())
	}
	return builder(), nil
}

// Names returns the catalog keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
