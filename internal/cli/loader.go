package cli

import (
	"fmt"
	"os"

	"github.com/rulekit/rulekit/internal/harness"
)

// loadScenarioArgs loads scenarios from each argument, which may be a
// scenario file or a directory of *.yaml files. Order is preserved: files in
// argument order, directory contents sorted by file name.
func loadScenarioArgs(args []string) ([]*harness.Scenario, error) {
	var scenarios []*harness.Scenario
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if info.IsDir() {
			loaded, err := harness.LoadScenarios(arg)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, loaded...)
			continue
		}
		scenario, err := harness.LoadScenario(arg)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files found in %v", args)
	}
	return scenarios, nil
}
