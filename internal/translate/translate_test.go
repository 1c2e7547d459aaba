package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/xcodeml"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestTranslateGolden(t *testing.T) {
	tests := []struct {
		name       string
		maxDepth   int
		incomplete []xcodeml.DataTypeIdent
	}{
		{name: "declarators"},
		{name: "records"},
		{name: "incomplete", maxDepth: 4, incomplete: []xcodeml.DataTypeIdent{"P1", "S9", "X1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.maxDepth > 0 {
				cfg.MaxDepth = tt.maxDepth
			}
			res, err := TranslateFile(filepath.Join("testdata", tt.name+".xml"), cfg)
			require.NoError(t, err)

			newGoldie(t).Assert(t, tt.name, []byte(res.Text))
			if tt.incomplete == nil {
				assert.Empty(t, res.Incomplete)
			} else {
				assert.Equal(t, tt.incomplete, res.Incomplete)
			}
		})
	}
}

func TestTranslateHashes(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "declarators.xml"))
	require.NoError(t, err)

	a, err := Translate(data, config.Default())
	require.NoError(t, err)
	b, err := Translate(data, config.Default())
	require.NoError(t, err)

	assert.Equal(t, a.InputHash, b.InputHash)
	assert.Equal(t, a.ConfigHash, b.ConfigHash)
	assert.Equal(t, a.OutputHash, b.OutputHash)
	assert.Equal(t, xcodeml.DocumentHash(data), a.InputHash)
	assert.Equal(t, xcodeml.OutputHash(a.Text), a.OutputHash)

	cfg := config.Default()
	cfg.IndentWidth = 4
	c, err := Translate(data, cfg)
	require.NoError(t, err)
	assert.Equal(t, a.InputHash, c.InputHash)
	assert.NotEqual(t, a.ConfigHash, c.ConfigHash)
}

func TestTranslateIndentWidth(t *testing.T) {
	cfg := config.Default()
	cfg.IndentWidth = 4
	res, err := Translate([]byte(`<XcodeProgram>
  <typeTable>
    <structType type="S0"><symbols><id type="int"><name>x</name></id></symbols></structType>
  </typeTable>
  <globalSymbols><id sclass="tagname" type="S0"><name>s</name></id></globalSymbols>
</XcodeProgram>`), cfg)
	require.NoError(t, err)

	assert.Equal(t, "struct s {\n    int x;\n};\n", res.Text)
	require.Len(t, res.Decls, 1)
	assert.Equal(t, "struct s {\n    int x;\n};", res.Decls[0].Text)
}

func TestTranslateIgnoresFunctionScopeSymbols(t *testing.T) {
	res, err := Translate([]byte(`<XcodeProgram>
  <globalSymbols><id sclass="extern" type="int"><name>g</name></id></globalSymbols>
  <globalDeclarations>
    <functionDefinition>
      <symbols><id sclass="static" type="int"><name>local</name></id></symbols>
    </functionDefinition>
  </globalDeclarations>
</XcodeProgram>`), config.Default())
	require.NoError(t, err)

	assert.Equal(t, "extern int g;\n", res.Text)
}

func TestTranslateSelfReferentialAnonymousStruct(t *testing.T) {
	res, err := Translate([]byte(`<XcodeProgram>
  <typeTable>
    <pointerType type="P0" ref="S0"/>
    <structType type="S0">
      <symbols>
        <id type="P0"><name>next</name></id>
        <id type="P0"><name>prev</name></id>
      </symbols>
    </structType>
  </typeTable>
  <globalSymbols><id sclass="typedef_name" type="S0"><name>node_t</name></id></globalSymbols>
</XcodeProgram>`), config.Default())
	require.NoError(t, err)

	assert.Equal(t, "typedef struct {\n  INCOMPLETE_TYPE *next;\n  INCOMPLETE_TYPE *prev;\n} node_t;\n", res.Text)
	assert.Equal(t, []xcodeml.DataTypeIdent{"S0"}, res.Incomplete)
}

func TestTranslateErrors(t *testing.T) {
	_, err := Translate([]byte(`<XcodeProgram version=1.0/>`), config.Default())
	assert.Error(t, err)

	_, err = Translate([]byte(`<XcodeProgram><typeTable><pointerType type="P0"/></typeTable></XcodeProgram>`), config.Default())
	assert.True(t, xcodeml.IsMalformedInput(err))

	_, err = TranslateFile(filepath.Join(t.TempDir(), "missing.xml"), config.Default())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	unit, err := LoadFile(filepath.Join("testdata", "records.xml"), config.Default())
	require.NoError(t, err)

	got, err := xcodeml.NewSynthesizer(unit.Env).NestedNameSpec("NNS1")
	require.NoError(t, err)
	assert.Equal(t, "Outer::Inner::", got.String())
}
