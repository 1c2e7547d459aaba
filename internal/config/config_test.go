package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultIndentWidth, cfg.IndentWidth)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "unsigned", cfg.TypeNames["unsigned_int"])
}

func TestParseCUEOverridesBase(t *testing.T) {
	src := []byte(`
indent: 4
max_depth: 32
typenames: {
	size_t: "unsigned long"
	"long_long": "long long int"
}
`)
	cfg, err := ParseCUE(src, "declgen.cue", Default())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.IndentWidth)
	assert.Equal(t, 32, cfg.MaxDepth)
	assert.Equal(t, "unsigned long", cfg.TypeNames["size_t"])
	assert.Equal(t, "long long int", cfg.TypeNames["long_long"])
	assert.Equal(t, "unsigned", cfg.TypeNames["unsigned_int"], "base entries survive")
}

func TestParseCUEDoesNotMutateBase(t *testing.T) {
	base := Default()
	_, err := ParseCUE([]byte(`typenames: { unsigned_int: "unsigned int" }`), "x.cue", base)
	require.NoError(t, err)
	assert.Equal(t, "unsigned", base.TypeNames["unsigned_int"])
}

func TestParseCUEEmptyFileKeepsBase(t *testing.T) {
	cfg, err := ParseCUE([]byte(``), "empty.cue", Default())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseCUERejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `indent: `},
		{"unknown field", `indnet: 4`},
		{"wrong type", `indent: "four"`},
		{"negative depth", `max_depth: -1`},
		{"non-string typename", `typenames: { size_t: 4 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "bad.cue", Default())
			require.Error(t, err)
			var cfgErr *Error
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestLoadCUE(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "declgen.cue")
	require.NoError(t, os.WriteFile(path, []byte(`indent: 8`), 0o644))

	cfg, err := LoadCUE(path, Default())
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.IndentWidth)

	_, err = LoadCUE(filepath.Join(dir, "missing.cue"), Default())
	assert.Error(t, err)
}

func TestCanonicalIsDeterministic(t *testing.T) {
	a := Config{TypeNames: map[string]string{"b": "2", "a": "1"}, IndentWidth: 2, MaxDepth: 10}
	b := Config{TypeNames: map[string]string{"a": "1", "b": "2"}, IndentWidth: 2, MaxDepth: 10}

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, "indent=2\nmax_depth=10\ntypename \"a\"=\"1\"\ntypename \"b\"=\"2\"\n", string(a.Canonical()))

	b.MaxDepth = 11
	assert.NotEqual(t, a.Canonical(), b.Canonical())
}

func TestParseTypeNameMap(t *testing.T) {
	m, err := ParseTypeNameMap([]byte(`
# builtin spellings
unsigned_int   unsigned
size_t unsigned   long

`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"unsigned_int": "unsigned",
		"size_t":       "unsigned long",
	}, m)
}

func TestParseTypeNameMapRejectsSingleField(t *testing.T) {
	_, err := ParseTypeNameMap([]byte("ok fine\nlonely\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typename-map:2")
}

func TestLoadTypeNameMapMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typenames")
	require.NoError(t, os.WriteFile(path, []byte("unsigned_int unsigned int\nbool _Bool\n"), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadTypeNameMap(path))
	assert.Equal(t, "unsigned int", cfg.TypeNames["unsigned_int"])
	assert.Equal(t, "_Bool", cfg.TypeNames["bool"])

	var empty Config
	require.NoError(t, empty.LoadTypeNameMap(path))
	assert.Len(t, empty.TypeNames, 2)
}
