package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/internal/tracestore"
)

func TestRun_SingleScenarioPasses(t *testing.T) {
	out, err := execute(t, "run", "testdata/cow.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  cow (animal_flat)")
	assert.Contains(t, out, "conclusion: A cow cannot fly.")
	assert.Contains(t, out, "1 passed, 0 failed")
}

func TestRun_DirectoryRunsAllScenarios(t *testing.T) {
	// The directory contains the failing scenario, so run exits non-zero
	// but still reports every scenario.
	out, err := execute(t, "run", "testdata")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "PASS  cow")
	assert.Contains(t, out, "FAIL  failing")
	assert.Contains(t, out, "conclusion mismatch")
}

func TestRun_JSONOutput(t *testing.T) {
	out, err := execute(t, "--format", "json", "run", "testdata/whale_grouped.yaml")
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Scenarios, 1)
	assert.Equal(t, "whale_grouped", report.Scenarios[0].Name)
	assert.Equal(t, "A whale must live in water. A whale cannot fly.", report.Scenarios[0].Conclusion)
}

func TestRun_UnknownRuleBookIsCommandError(t *testing.T) {
	_, err := execute(t, "run", "testdata/unknown_book.yml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_MissingPathIsCommandError(t *testing.T) {
	_, err := execute(t, "run", "testdata/does_not_exist.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_PersistsTraces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "traces.db")

	out, err := execute(t, "--format", "json", "run", "testdata/cow.yaml", "--db", dbPath)
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Scenarios, 1)
	evalID := report.Scenarios[0].EvaluationID
	require.NotEmpty(t, evalID)

	store, err := tracestore.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	events, err := store.ReadEvents(context.Background(), evalID)
	require.NoError(t, err)
	// Flat book, cow: four conditions traced plus one fired action.
	assert.Len(t, events, 5)

	infos, err := store.ListEvaluations(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "cow", infos[0].Label)
}
