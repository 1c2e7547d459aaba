package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNnsClass(t *testing.T) {
	out, err := execute(t, NewNnsCommand(&RootOptions{Format: "text"}), "testdata/prog.xml", "N0")
	require.NoError(t, err)
	assert.Equal(t, "Widget::\n", out)
}

func TestNnsGlobal(t *testing.T) {
	out, err := execute(t, NewNnsCommand(&RootOptions{Format: "json"}), "testdata/prog.xml", "global")
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Equal(t, "::", data["text"])
}

func TestNnsUnsupportedKind(t *testing.T) {
	out, err := execute(t, NewNnsCommand(&RootOptions{Format: "text"}), "testdata/prog.xml", "N1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeUnsupported+"]")
}

func TestNnsUnknownIdentifier(t *testing.T) {
	out, err := execute(t, NewNnsCommand(&RootOptions{Format: "text"}), "testdata/prog.xml", "N7")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeUnknownIdent)
}
