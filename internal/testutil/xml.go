package testutil

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// ParseXML parses src and returns its root element, failing the test on error.
func ParseXML(t testing.TB, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(src))
	require.NotNil(t, doc.Root(), "document has no root element")
	return doc.Root()
}

// Program wraps a typeTable body and a globalSymbols body in an
// XcodeProgram element.
func Program(typeTable, globalSymbols string) string {
	return `<XcodeProgram version="1.0"><typeTable>` + typeTable +
		`</typeTable><globalSymbols>` + globalSymbols + `</globalSymbols></XcodeProgram>`
}
