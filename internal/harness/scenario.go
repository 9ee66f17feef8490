// Package harness runs conformance scenarios against the demo rule books.
//
// Scenarios are YAML documents naming a rule book from the demo catalog, the
// input facts, and the expected result:
//
//	name: whale
//	description: "Heavy mammal hits both proceed rules in order"
//	rulebook: animal_flat
//	facts:
//	  name: whale
//	  mammal: true
//	  weight_kg: 200000
//	expect:
//	  conclusion: "A whale must live in water. A whale cannot fly."
//	  hint: ""
//
// Run evaluates the rule book with a recording trace sink and checks the
// expect clause. Because evaluation is fully synchronous and rule order is
// fixed, the recorded trace is deterministic and suitable for golden file
// comparison (see RunWithGolden).
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rulekit/rulekit/internal/demo"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// RuleBook is the demo catalog key of the rule book to evaluate.
	RuleBook string `yaml:"rulebook"`

	// Facts is the read-only input of the evaluation.
	Facts FactsSpec `yaml:"facts"`

	// Expect is the expected final result.
	Expect ExpectClause `yaml:"expect"`
}

// FactsSpec mirrors demo.AnimalFacts in scenario files.
type FactsSpec struct {
	Name     string `yaml:"name"`
	Mammal   bool   `yaml:"mammal"`
	WeightKg int    `yaml:"weight_kg"`
}

// ExpectClause is the expected result after all rules ran. Both fields are
// compared exactly; an absent hint means "must stay empty".
type ExpectClause struct {
	Conclusion string `yaml:"conclusion"`
	Hint       string `yaml:"hint,omitempty"`
}

// LoadScenario reads and validates a single scenario file.
// Unknown YAML fields are rejected to catch typos in scenario documents.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var scenario Scenario
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios reads all *.yaml scenario files in a directory, sorted by
// file name for deterministic run order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// Validate checks the scenario for static problems: missing name, missing
// facts, or a rule book key not present in the demo catalog.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if s.Facts.Name == "" {
		return fmt.Errorf("scenario %s: facts.name is required", s.Name)
	}
	if _, err := demo.Build(s.RuleBook); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return nil
}
