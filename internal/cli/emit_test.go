package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const progDecls = `typedef int (*handler_t)(int);
class Widget;
void Widget::reset();
extern int count;
`

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestEmitText(t *testing.T) {
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "text"}), "testdata/prog.xml")
	require.NoError(t, err)
	assert.Equal(t, progDecls, out)
}

func TestEmitJSON(t *testing.T) {
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/prog.xml")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, progDecls, data["text"])
	assert.Equal(t, false, data["cached"])
	decls, ok := data["decls"].([]any)
	require.True(t, ok)
	assert.Len(t, decls, 4)
}

func TestEmitOutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.h")
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "text"}), "testdata/prog.xml", "-o", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, progDecls, string(written))
}

func TestEmitRecordsAndReusesRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "declgen.db")

	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/prog.xml", "--db", db)
	require.NoError(t, err)
	_, first := decodeResponse(t, out)
	runID, _ := first["run_id"].(string)
	require.NotEmpty(t, runID)

	out, err = execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/prog.xml", "--db", db, "--cache")
	require.NoError(t, err)
	_, second := decodeResponse(t, out)
	assert.Equal(t, true, second["cached"])
	assert.Equal(t, runID, second["run_id"])
	assert.Equal(t, progDecls, second["text"])

	// A different configuration misses the cache.
	out, err = execute(t, NewEmitCommand(&RootOptions{Format: "json", Indent: 8}), "testdata/prog.xml", "--db", db, "--cache")
	require.NoError(t, err)
	_, third := decodeResponse(t, out)
	assert.Equal(t, false, third["cached"])
	assert.NotEqual(t, runID, third["run_id"])
}

func TestEmitCachedRunKeepsIncompleteTypes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "declgen.db")

	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/incomplete.xml", "--db", db)
	require.NoError(t, err)
	_, fresh := decodeResponse(t, out)
	assert.Equal(t, []any{"S9", "X7"}, fresh["incomplete"])

	out, err = execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/incomplete.xml", "--db", db, "--cache")
	require.NoError(t, err)
	_, cached := decodeResponse(t, out)
	assert.Equal(t, true, cached["cached"])
	assert.Equal(t, fresh["incomplete"], cached["incomplete"])
	assert.Equal(t, fresh["text"], cached["text"])
}

func TestEmitCacheRequiresDB(t *testing.T) {
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "text"}), "testdata/prog.xml", "--cache")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeConfig)
}

func TestEmitMissingFile(t *testing.T) {
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "text"}), "testdata/absent.xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestEmitMalformedDocument(t *testing.T) {
	out, err := execute(t, NewEmitCommand(&RootOptions{Format: "json"}), "testdata/malformed.xml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMalformed, resp.Error.Code)
}
