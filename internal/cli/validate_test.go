package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidFiles(t *testing.T) {
	out, err := execute(t, "validate", "testdata/cow.yaml", "testdata/whale_grouped.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "2 scenarios valid")
	assert.Contains(t, out, "cow")
	assert.Contains(t, out, "whale_grouped")
}

func TestValidate_UnknownRuleBook(t *testing.T) {
	out, err := execute(t, "validate", "testdata/unknown_book.yml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "unknown rulebook")
}

func TestValidate_UnknownFieldJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: typo\nrulebok: animal_flat\n"), 0o644))

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)

	var report ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Errors)
}
