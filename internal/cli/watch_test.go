package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchEmitsOnceBeforeWatching(t *testing.T) {
	src, err := os.ReadFile("testdata/prog.xml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "prog.xml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	opts := &WatchOptions{RootOptions: &RootOptions{Format: "text"}}
	cmd := NewWatchCommand(opts.RootOptions)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runWatch(ctx, opts, path, cmd))

	assert.Equal(t, progDecls+"---\n", buf.String())
}

func TestWatchReportsTranslationErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	emitOnce(context.Background(), nil, "testdata/malformed.xml", mustDefaultConfig(t), formatter)
	assert.Contains(t, buf.String(), "Error [E003]")
}

func TestWatchMissingFile(t *testing.T) {
	opts := &WatchOptions{RootOptions: &RootOptions{Format: "text"}}
	_, err := execute(t, NewWatchCommand(opts.RootOptions), "/nonexistent/ir.xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
