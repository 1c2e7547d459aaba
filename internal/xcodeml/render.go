package xcodeml

import (
	"fmt"
	"strconv"

	"github.com/roach88/declgen/internal/codegen"
)

// IncompleteMarker replaces any part of a declaration whose type cannot be
// resolved. Callers can grep generated code for it.
const IncompleteMarker = "INCOMPLETE_TYPE"

// DefaultMaxDepth bounds declarator recursion when Synthesizer.MaxDepth is 0.
const DefaultMaxDepth = 256

// Synthesizer renders declarations from the types of an Environment.
//
// Recursion follows the IR's type graph (pointer to pointer to ...). Anything
// nested deeper than MaxDepth, which includes cyclic graphs such as a pointer
// referring to itself, renders as the incomplete marker. An anonymous record
// reached again from inside its own body also renders as the marker.
type Synthesizer struct {
	Env      *Environment
	MaxDepth int

	// OnIncomplete, if set, is called with every identifier rendered as the
	// incomplete marker.
	OnIncomplete func(ident DataTypeIdent)

	// inlining holds the anonymous records whose bodies are being rendered.
	inlining map[DataTypeIdent]bool
}

// NewSynthesizer creates a Synthesizer with the default depth limit.
func NewSynthesizer(env *Environment) *Synthesizer {
	return &Synthesizer{Env: env, MaxDepth: DefaultMaxDepth}
}

// Render declares v with the type bound to ident in env.
func Render(env *Environment, ident DataTypeIdent, v codegen.Fragment) codegen.Fragment {
	return NewSynthesizer(env).Decl(ident, v)
}

// Decl declares v with the type bound to ident. v is the declarator built so
// far; for a top-level call it is the variable name, possibly empty.
func (s *Synthesizer) Decl(ident DataTypeIdent, v codegen.Fragment) codegen.Fragment {
	return s.decl(ident, v, 0)
}

// DeclOf declares v with t, which need not be bound in the environment.
func (s *Synthesizer) DeclOf(t Type, v codegen.Fragment) codegen.Fragment {
	return s.declOf(t, v, 0)
}

func (s *Synthesizer) maxDepth() int {
	if s.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return s.MaxDepth
}

func (s *Synthesizer) incomplete(ident DataTypeIdent) {
	if s.OnIncomplete != nil {
		s.OnIncomplete(ident)
	}
}

// resolve looks ident up, reporting misses through OnIncomplete.
func (s *Synthesizer) resolve(ident DataTypeIdent) (Type, bool) {
	t, ok := s.Env.LookupType(ident)
	if !ok {
		s.incomplete(ident)
	}
	return t, ok
}

func incompleteDecl(v codegen.Fragment) codegen.Fragment {
	return codegen.Cat(codegen.Token(IncompleteMarker), codegen.Space, v)
}

func (s *Synthesizer) decl(ident DataTypeIdent, v codegen.Fragment, depth int) codegen.Fragment {
	t, ok := s.resolve(ident)
	if !ok {
		return incompleteDecl(v)
	}
	return s.declOf(t, v, depth)
}

// declOf applies cv-qualifiers to the declarator and dispatches on the variant.
// Arrays take their qualifiers inside the brackets instead.
func (s *Synthesizer) declOf(t Type, v codegen.Fragment, depth int) codegen.Fragment {
	if depth > s.maxDepth() {
		s.incomplete(t.Ident())
		return incompleteDecl(v)
	}
	if t.Kind() != KindArray {
		v = qualify(t, v)
	}
	switch t := t.(type) {
	case *Reserved:
		return codegen.Cat(t.name, codegen.Space, v)
	case *Pointer:
		return s.pointerDecl(t, v, depth)
	case *Function:
		return s.functionDecl(t, v, depth)
	case *Array:
		return s.arrayDecl(t, v, depth)
	case *Struct:
		return s.recordRef("struct", t.Ident(), t.TagName(), t.members, v, depth)
	case *Union:
		return s.recordRef("union", t.Ident(), t.Name(), t.members, v, depth)
	case *Enum:
		return s.enumRef(t, v)
	case *Class:
		return codegen.Cat(t.Name(), codegen.Space, v)
	case *Other:
		return codegen.Cat(codegen.Token("/*"), v, codegen.Token("*/"))
	}
	panic(fmt.Sprintf("xcodeml: unhandled type %T", t))
}

func qualify(t Type, v codegen.Fragment) codegen.Fragment {
	if t.IsVolatile() {
		v = codegen.Cat(codegen.Token("volatile"), codegen.Space, v)
	}
	if t.IsConst() {
		v = codegen.Cat(codegen.Token("const"), codegen.Space, v)
	}
	return v
}

// pointerDecl wraps the declarator in parentheses when the pointee is a
// function or an array, so `int (*pf)(int)` does not read as a function
// returning `int *`.
func (s *Synthesizer) pointerDecl(t *Pointer, v codegen.Fragment, depth int) codegen.Fragment {
	sigil := codegen.Token(t.refKind.sigil())
	ref, ok := s.resolve(t.ref)
	if !ok {
		return codegen.Cat(codegen.Token(IncompleteMarker), codegen.Space, sigil, v)
	}
	switch ref.Kind() {
	case KindFunction, KindArray:
		return s.declOf(ref, codegen.Cat(codegen.Token("("), sigil, v, codegen.Token(")")), depth+1)
	}
	return s.declOf(ref, codegen.Cat(sigil, v), depth+1)
}

func (s *Synthesizer) functionDecl(t *Function, v codegen.Fragment, depth int) codegen.Fragment {
	for _, p := range t.params {
		if _, ok := s.resolve(p.Type); !ok {
			return incompleteDecl(v)
		}
	}
	var params []codegen.Fragment
	if !s.isVoidParamList(t.params) {
		for _, p := range t.params {
			params = append(params, s.decl(p.Type, p.Name, depth+1))
		}
	}
	if t.variadic {
		params = append(params, codegen.Token("..."))
	}
	wrapped := codegen.Cat(
		v,
		codegen.Token("("),
		codegen.Join(params, codegen.Cat(codegen.Token(","), codegen.Space)),
		codegen.Token(")"),
	)
	ret, ok := s.resolve(t.returnType)
	if !ok {
		return incompleteDecl(wrapped)
	}
	return s.declOf(ret, wrapped, depth+1)
}

// isVoidParamList reports an empty list or a single unnamed `void`.
func (s *Synthesizer) isVoidParamList(params []Param) bool {
	if len(params) == 0 {
		return true
	}
	if len(params) != 1 || !params[0].Name.IsEmpty() {
		return false
	}
	t, ok := s.Env.LookupType(params[0].Type)
	if !ok || t.IsConst() || t.IsVolatile() {
		return false
	}
	r, ok := t.(*Reserved)
	return ok && r.name.String() == "void"
}

func (s *Synthesizer) arrayDecl(t *Array, v codegen.Fragment, depth int) codegen.Fragment {
	elem, ok := s.resolve(t.element)
	if !ok {
		return incompleteDecl(v)
	}
	bracket := codegen.Token("[")
	if t.IsConst() {
		bracket = codegen.Cat(bracket, codegen.Token("const"), codegen.Space)
	}
	if t.IsVolatile() {
		bracket = codegen.Cat(bracket, codegen.Token("volatile"), codegen.Space)
	}
	switch t.size.Kind {
	case SizeInteger:
		bracket = bracket.Then(codegen.Token(strconv.FormatUint(t.size.N, 10)))
	case SizeVariable:
		bracket = bracket.Then(codegen.Token("*"))
	}
	bracket = bracket.Then(codegen.Token("]"))
	return s.declOf(elem, codegen.Cat(v, codegen.Space, bracket), depth+1)
}

// recordRef renders a struct or union used as a type. A named record is
// referenced by its tag; an anonymous one carries its body inline, which is
// the only way to spell it, so it cannot be inlined again inside itself.
func (s *Synthesizer) recordRef(key string, ident DataTypeIdent, name codegen.Fragment, members []Member, v codegen.Fragment, depth int) codegen.Fragment {
	head := codegen.Token(key)
	if !name.IsEmpty() {
		return codegen.Cat(head, codegen.Space, name, codegen.Space, v)
	}
	if s.inlining[ident] {
		s.incomplete(ident)
		return incompleteDecl(v)
	}
	if s.inlining == nil {
		s.inlining = make(map[DataTypeIdent]bool)
	}
	s.inlining[ident] = true
	body := s.memberBlock(members, depth+1)
	delete(s.inlining, ident)
	return codegen.Cat(head, codegen.Space, body, codegen.Space, v)
}

func (s *Synthesizer) enumRef(t *Enum, v codegen.Fragment) codegen.Fragment {
	name := t.Name()
	var body codegen.Fragment
	if name.IsEmpty() {
		body = t.body
	}
	return codegen.Cat(codegen.Token("enum"), codegen.Space, name, codegen.Space, body, codegen.Space, v)
}

// memberBlock renders `{`, one member declaration per line, `}`.
func (s *Synthesizer) memberBlock(members []Member, depth int) codegen.Fragment {
	frag := codegen.Cat(codegen.Token("{"), codegen.Newline, codegen.Indent)
	for _, m := range members {
		frag = codegen.Cat(frag, s.memberDecl(m, depth), codegen.Token(";"), codegen.Newline)
	}
	return codegen.Cat(frag, codegen.Unindent, codegen.Token("}"))
}

func (s *Synthesizer) memberDecl(m Member, depth int) codegen.Fragment {
	d := s.decl(m.Type, m.Name, depth)
	if m.bitField {
		d = codegen.Cat(d, codegen.Token(":"), codegen.Space, codegen.Token(strconv.FormatUint(m.width, 10)))
	}
	return d
}

// MemberDecl renders a single struct or union member without the trailing
// semicolon.
func (s *Synthesizer) MemberDecl(m Member) codegen.Fragment {
	return s.memberDecl(m, 0)
}

// StructDefinition renders `struct tag { members };`.
func (s *Synthesizer) StructDefinition(t *Struct) codegen.Fragment {
	return s.recordDefinition("struct", t.TagName(), t.members)
}

// UnionDefinition renders `union name { members };`.
func (s *Synthesizer) UnionDefinition(t *Union) codegen.Fragment {
	return s.recordDefinition("union", t.Name(), t.members)
}

func (s *Synthesizer) recordDefinition(key string, name codegen.Fragment, members []Member) codegen.Fragment {
	return codegen.Cat(
		codegen.Token(key), codegen.Space, name, codegen.Space,
		s.memberBlock(members, 0),
		codegen.Token(";"),
	)
}

// EnumDefinition renders `enum name { A, B = 2 };`.
func (s *Synthesizer) EnumDefinition(t *Enum) codegen.Fragment {
	return codegen.Cat(codegen.Token("enum"), codegen.Space, t.Name(), codegen.Space, t.body, codegen.Token(";"))
}

// ClassForwardDeclaration renders `class name;`.
func (s *Synthesizer) ClassForwardDeclaration(t *Class) codegen.Fragment {
	return codegen.Cat(codegen.Token(t.key), codegen.Space, t.Name(), codegen.Token(";"))
}

// NestedNameSpec renders the qualified-name prefix bound to ident, outermost
// scope first. Missing identifiers and class scopes whose type does not
// resolve to a named Class render as the incomplete marker. Unsupported
// specifier kinds are an error.
func (s *Synthesizer) NestedNameSpec(ident NnsIdent) (codegen.Fragment, error) {
	return s.nestedNameSpec(ident, 0)
}

func (s *Synthesizer) nestedNameSpec(ident NnsIdent, depth int) (codegen.Fragment, error) {
	n, ok := s.Env.LookupNns(ident)
	if !ok || depth > s.maxDepth() {
		return incompleteScope(), nil
	}
	var prefix codegen.Fragment
	if parent, ok := n.Parent(); ok {
		p, err := s.nestedNameSpec(parent, depth+1)
		if err != nil {
			return codegen.Fragment{}, err
		}
		prefix = p
	}
	own, err := s.nnsSpecifier(n)
	if err != nil {
		return codegen.Fragment{}, err
	}
	return prefix.Then(own), nil
}

func (s *Synthesizer) nnsSpecifier(n Nns) (codegen.Fragment, error) {
	switch n := n.(type) {
	case *GlobalNns:
		return codegen.Token("::"), nil
	case *ClassNns:
		t, ok := s.resolve(n.classType)
		if !ok {
			return incompleteScope(), nil
		}
		c, ok := t.(*Class)
		if !ok || c.Name().IsEmpty() {
			s.incomplete(n.classType)
			return incompleteScope(), nil
		}
		return c.Name().Then(codegen.Token("::")), nil
	case *UnsupportedNns:
		return codegen.Fragment{}, &Error{
			Code:    ErrCodeUnsupported,
			Ident:   string(n.Ident()),
			Message: fmt.Sprintf("unsupported nested-name-specifier kind: %s", n.Kind()),
		}
	}
	panic(fmt.Sprintf("xcodeml: unhandled nns %T", n))
}

func incompleteScope() codegen.Fragment {
	return codegen.Token(IncompleteMarker + "::")
}
