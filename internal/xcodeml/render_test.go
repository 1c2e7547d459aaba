package xcodeml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/declgen/internal/codegen"
)

func newTestEnv(t *testing.T, types ...Type) *Environment {
	t.Helper()
	env := NewEnvironment()
	require.NoError(t, RegisterBuiltins(env, nil))
	for _, typ := range types {
		require.NoError(t, env.AddType(typ))
	}
	return env
}

func tok(s string) codegen.Fragment { return codegen.Token(s) }

func render(env *Environment, ident DataTypeIdent, v string) string {
	return Render(env, ident, tok(v)).String()
}

func TestRenderReserved(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "int x", render(env, "int", "x"))
	assert.Equal(t, "unsigned long long n", render(env, "unsigned_long_long", "n"))
	assert.Equal(t, "int", render(env, "int", ""))
}

func TestRenderFunction(t *testing.T) {
	env := newTestEnv(t,
		NewFunction("F0", "int", []Param{{Type: "int"}}, false),
	)
	assert.Equal(t, "int foo(int)", render(env, "F0", "foo"))
}

func TestRenderPointerToFunction(t *testing.T) {
	env := newTestEnv(t,
		NewFunction("F0", "int", []Param{{Type: "int"}}, false),
		NewPointer("P0", "F0"),
	)
	assert.Equal(t, "int (*pf)(int)", render(env, "P0", "pf"))
}

func TestRenderArray(t *testing.T) {
	env := newTestEnv(t,
		NewArray("A0", "int", IntegerSize(10)),
		NewArray("A1", "int", VariableSize()),
	)
	assert.Equal(t, "int arr [10]", render(env, "A0", "arr"))
	assert.Equal(t, "int vla [*]", render(env, "A1", "vla"))
}

func TestRenderUnresolvedPointee(t *testing.T) {
	env := newTestEnv(t, NewPointer("P1", "S9"))

	var missing []DataTypeIdent
	s := NewSynthesizer(env)
	s.OnIncomplete = func(ident DataTypeIdent) { missing = append(missing, ident) }

	assert.Equal(t, "INCOMPLETE_TYPE *p", s.Decl("P1", tok("p")).String())
	assert.Equal(t, []DataTypeIdent{"S9"}, missing)
}

func TestRenderUnboundIdentifier(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "INCOMPLETE_TYPE x", render(env, "nope", "x"))
}

func TestRenderPlaceholderIsIncomplete(t *testing.T) {
	env := newTestEnv(t, NewPointer("P0", "S0"))
	require.NoError(t, env.Declare("S0"))

	assert.Equal(t, "INCOMPLETE_TYPE *p", render(env, "P0", "p"))
}

func TestRenderPointerChain(t *testing.T) {
	env := newTestEnv(t,
		NewPointer("P0", "char"),
		NewPointer("P1", "P0"),
	)
	assert.Equal(t, "char **argv", render(env, "P1", "argv"))
}

func TestRenderPointerToArray(t *testing.T) {
	env := newTestEnv(t,
		NewArray("A0", "int", IntegerSize(3)),
		NewPointer("P0", "A0"),
	)
	assert.Equal(t, "int (*p) [3]", render(env, "P0", "p"))
}

func TestRenderReferences(t *testing.T) {
	env := newTestEnv(t,
		NewReference("R0", "int", RefLValue),
		NewReference("R1", "int", RefRValue),
	)
	assert.Equal(t, "int &r", render(env, "R0", "r"))
	assert.Equal(t, "int &&rv", render(env, "R1", "rv"))
}

func TestRenderQualifiers(t *testing.T) {
	ci := CloneAs(NewReserved("int", tok("int")), "CI")
	ci.SetConst(true)

	cp := NewPointer("CP", "int")
	cp.SetConst(true)

	fn := NewFunction("F0", "int", []Param{{Type: "int"}}, false)
	cpf := NewPointer("CPF", "F0")
	cpf.SetConst(true)

	cv := NewPointer("CV", "int")
	cv.SetConst(true)
	cv.SetVolatile(true)

	ca := NewArray("CA", "int", IntegerSize(3))
	ca.SetConst(true)

	env := newTestEnv(t, ci, cp, fn, cpf, cv, ca)

	assert.Equal(t, "int const x", render(env, "CI", "x"))
	assert.Equal(t, "int *const p", render(env, "CP", "p"))
	assert.Equal(t, "int (*const pf)(int)", render(env, "CPF", "pf"))
	assert.Equal(t, "int *const volatile p", render(env, "CV", "p"))
	assert.Equal(t, "int a [const 3]", render(env, "CA", "a"))
}

func TestRenderFunctionParameterLists(t *testing.T) {
	env := newTestEnv(t,
		NewPointer("P0", "char"),
		NewFunction("F0", "void", []Param{{Type: "void"}}, false),
		NewFunction("F1", "void", nil, false),
		NewFunction("F2", "int", []Param{{Type: "int", Name: tok("a")}, {Type: "P0", Name: tok("s")}}, false),
		NewFunction("F3", "int", []Param{{Type: "P0"}}, true),
	)

	assert.Equal(t, "void f()", render(env, "F0", "f"))
	assert.Equal(t, "void g()", render(env, "F1", "g"))
	assert.Equal(t, "int h(int a, char *s)", render(env, "F2", "h"))
	assert.Equal(t, "int printf(char *, ...)", render(env, "F3", "printf"))
}

func TestRenderFunctionWithUnresolvedParts(t *testing.T) {
	env := newTestEnv(t,
		NewFunction("F0", "int", []Param{{Type: "int"}, {Type: "S9"}}, false),
		NewFunction("F1", "S9", []Param{{Type: "int"}}, false),
	)

	assert.Equal(t, "INCOMPLETE_TYPE f", render(env, "F0", "f"))
	assert.Equal(t, "INCOMPLETE_TYPE g(int)", render(env, "F1", "g"))
}

func TestRenderFunctionReturningPointer(t *testing.T) {
	env := newTestEnv(t,
		NewPointer("P0", "char"),
		NewFunction("F0", "P0", []Param{{Type: "int"}}, false),
	)
	assert.Equal(t, "char *f(int)", render(env, "F0", "f"))
}

func TestRenderRecords(t *testing.T) {
	members := []Member{NewMember("int", tok("a"))}
	env := newTestEnv(t,
		NewStruct("S0", tok("point"), members),
		NewStruct("S1", codegen.Fragment{}, members),
		NewUnion("U0", tok("value"), members),
		NewUnion("U1", codegen.Fragment{}, members),
	)

	assert.Equal(t, "struct point p", render(env, "S0", "p"))
	assert.Equal(t, "struct {\n  int a;\n} s", render(env, "S1", "s"))
	assert.Equal(t, "union value v", render(env, "U0", "v"))
	assert.Equal(t, "union {\n  int a;\n} u", render(env, "U1", "u"))
}

func TestRenderNestedAnonymousRecord(t *testing.T) {
	inner := NewStruct("S1", codegen.Fragment{}, []Member{NewMember("int", tok("x"))})
	outer := NewStruct("S0", tok("outer"), []Member{NewMember("S1", tok("in"))})
	env := newTestEnv(t, inner, outer)

	s := NewSynthesizer(env)
	want := "struct outer {\n  struct {\n    int x;\n  } in;\n};"
	assert.Equal(t, want, s.StructDefinition(outer).String())
}

func TestRenderSelfReferentialAnonymousRecord(t *testing.T) {
	node := NewStruct("S0", codegen.Fragment{}, []Member{
		NewMember("P0", tok("next")),
		NewMember("P0", tok("prev")),
	})
	env := newTestEnv(t, node, NewPointer("P0", "S0"))

	var missing []DataTypeIdent
	s := NewSynthesizer(env)
	s.OnIncomplete = func(ident DataTypeIdent) { missing = append(missing, ident) }

	want := "struct {\n  INCOMPLETE_TYPE *next;\n  INCOMPLETE_TYPE *prev;\n} n"
	assert.Equal(t, want, s.Decl("S0", tok("n")).String())
	assert.Equal(t, []DataTypeIdent{"S0", "S0"}, missing)

	// The record may be inlined again once its first rendering is done.
	assert.Equal(t, want, s.Decl("S0", tok("n")).String())
}

func TestStructDefinitionWithBitField(t *testing.T) {
	st := NewStruct("S0", tok("flags"), []Member{
		NewMember("int", tok("a")),
		NewBitField("unsigned_int", tok("b"), 3),
	})
	env := newTestEnv(t, st)

	s := NewSynthesizer(env)
	assert.Equal(t, "struct flags {\n  int a;\n  unsigned int b: 3;\n};", s.StructDefinition(st).String())
}

func TestUnionDefinition(t *testing.T) {
	u := NewUnion("U0", tok("num"), []Member{
		NewMember("int", tok("i")),
		NewMember("double", tok("d")),
	})
	env := newTestEnv(t, u)

	assert.Equal(t, "union num {\n  int i;\n  double d;\n};", NewSynthesizer(env).UnionDefinition(u).String())
}

func TestRenderEnums(t *testing.T) {
	named := NewEnum("E0", tok("color"), []Enumerator{{Name: tok("RED")}, {Name: tok("BLUE"), Value: tok("4")}})
	anon := NewEnum("E1", codegen.Fragment{}, []Enumerator{{Name: tok("A")}})
	env := newTestEnv(t, named, anon)
	s := NewSynthesizer(env)

	assert.Equal(t, "enum color c", render(env, "E0", "c"))
	assert.Equal(t, "enum { A } e", render(env, "E1", "e"))
	assert.Equal(t, "enum color { RED, BLUE = 4 };", s.EnumDefinition(named).String())
}

func TestRenderClass(t *testing.T) {
	c := NewClass("C0", tok("Widget"), "", nil)
	env := newTestEnv(t, c, NewPointer("P0", "C0"))
	s := NewSynthesizer(env)

	assert.Equal(t, "Widget w", render(env, "C0", "w"))
	assert.Equal(t, "Widget *w", render(env, "P0", "w"))
	assert.Equal(t, "class Widget;", s.ClassForwardDeclaration(c).String())

	st := NewClass("C1", tok("Pod"), "struct", nil)
	assert.Equal(t, "struct Pod;", s.ClassForwardDeclaration(st).String())
}

func TestRenderOther(t *testing.T) {
	env := newTestEnv(t, NewOther("O0", "vectorType"))
	assert.Equal(t, "/*x*/", render(env, "O0", "x"))
}

func TestRenderSelfReferentialPointerHitsDepthGuard(t *testing.T) {
	env := newTestEnv(t, NewPointer("P0", "P0"))

	var missing []DataTypeIdent
	s := &Synthesizer{Env: env, MaxDepth: 3, OnIncomplete: func(ident DataTypeIdent) {
		missing = append(missing, ident)
	}}

	assert.Equal(t, "INCOMPLETE_TYPE ****p", s.Decl("P0", tok("p")).String())
	assert.Equal(t, []DataTypeIdent{"P0"}, missing)
}

func TestRenderDefaultDepthGuardTerminates(t *testing.T) {
	env := newTestEnv(t, NewPointer("P0", "P0"))
	out := render(env, "P0", "p")

	assert.True(t, strings.HasPrefix(out, IncompleteMarker+" "))
	assert.Equal(t, DefaultMaxDepth+1, strings.Count(out, "*"))
}

func TestRenderDoesNotModifyArguments(t *testing.T) {
	env := newTestEnv(t,
		NewFunction("F0", "int", []Param{{Type: "int"}}, false),
		NewPointer("P0", "F0"),
	)
	v := tok("pf")

	first := Render(env, "P0", v).String()
	second := Render(env, "P0", v).String()

	assert.Equal(t, first, second)
	assert.Equal(t, "pf", v.String())
	assert.Equal(t, "int pf(int)", Render(env, "F0", v).String())
}

func TestDeclOfUnboundType(t *testing.T) {
	env := newTestEnv(t)
	p := NewPointer("P9", "int")
	assert.Equal(t, "int *q", NewSynthesizer(env).DeclOf(p, tok("q")).String())
}

func TestNestedNameSpec(t *testing.T) {
	env := newTestEnv(t,
		NewClass("T0", tok("C0"), "", nil),
		NewClass("T1", tok("C1"), "", nil),
	)
	require.NoError(t, env.AddNns(NewClassNns("N0", "T0")))
	require.NoError(t, env.AddNns(NewNestedClassNns("N1", "N0", "T1")))
	require.NoError(t, env.AddNns(NewNestedClassNns("N2", GlobalNnsIdent, "T0")))
	s := NewSynthesizer(env)

	tests := []struct {
		name  string
		ident NnsIdent
		want  string
	}{
		{"global", GlobalNnsIdent, "::"},
		{"class", "N0", "C0::"},
		{"nested class", "N1", "C0::C1::"},
		{"under global", "N2", "::C0::"},
		{"missing", "N9", "INCOMPLETE_TYPE::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.NestedNameSpec(tt.ident)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNestedNameSpecUnresolvedClass(t *testing.T) {
	env := newTestEnv(t, NewPointer("P0", "int"))
	require.NoError(t, env.AddNns(NewClassNns("N0", "T9")))
	require.NoError(t, env.AddNns(NewClassNns("N1", "P0")))
	s := NewSynthesizer(env)

	got, err := s.NestedNameSpec("N0")
	require.NoError(t, err)
	assert.Equal(t, "INCOMPLETE_TYPE::", got.String())

	got, err = s.NestedNameSpec("N1")
	require.NoError(t, err)
	assert.Equal(t, "INCOMPLETE_TYPE::", got.String())
}

func TestNestedNameSpecUnsupportedKind(t *testing.T) {
	env := newTestEnv(t, NewClass("T0", tok("C0"), "", nil))
	require.NoError(t, env.AddNns(NewUnsupportedNns("N0", NnsNamespace, GlobalNnsIdent)))
	require.NoError(t, env.AddNns(NewNestedClassNns("N1", "N0", "T0")))
	s := NewSynthesizer(env)

	_, err := s.NestedNameSpec("N0")
	require.Error(t, err)
	assert.True(t, IsUnsupportedConstruct(err))
	assert.Contains(t, err.Error(), "namespace")

	_, err = s.NestedNameSpec("N1")
	assert.True(t, IsUnsupportedConstruct(err), "error propagates from the parent")
}
