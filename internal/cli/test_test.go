package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func TestTestCommandPasses(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), harnessScenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ records")
	assert.Contains(t, out, "5 passed, 0 failed, 5 total")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), harnessScenarios, "--filter", "rec*")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["passed"])
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	goldenDir := filepath.Join(t.TempDir(), "golden")
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), harnessScenarios,
		"--filter", "records", "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(goldenDir, "records.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("../harness/testdata/golden/records.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
description: "expects the wrong storage class"
ir: |
  <XcodeProgram><globalSymbols><id sclass="extern" type="int"><name>x</name></id></globalSymbols></XcodeProgram>
expect:
  - type: contains
    text: "static int x;"
`), 0o644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommandEmptyDirectory(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingDirectory(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
