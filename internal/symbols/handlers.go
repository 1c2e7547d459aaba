package symbols

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/walker"
	"github.com/roach88/declgen/internal/xcodeml"
)

// Storage classes with a handler.
const (
	SclassTypedefName = "typedef_name"
	SclassTagname     = "tagname"
	SclassExtern      = "extern"
	SclassExternDef   = "extern_def"
	SclassStatic      = "static"
)

// NewBuilder returns the handler set, keyed on `sclass`.
func NewBuilder() *walker.Walker[*Emitter] {
	w := walker.NewByAttr[*Emitter]("sclass")
	w.Register(SclassTypedefName, typedefNameProc)
	w.Register(SclassTagname, tagnameProc)
	w.Register(SclassExtern, storageProc("extern"))
	w.Register(SclassStatic, storageProc("static"))
	w.Register(SclassExternDef, storageProc(""))
	return w
}

// Build walks root with the default handler set.
func Build(root *etree.Element, e *Emitter) {
	NewBuilder().Walk(root, e)
}

// symbol is the parsed form of an `id` entry.
type symbol struct {
	sclass string
	name   string
	typ    xcodeml.DataTypeIdent
	// declarator is the name, qualified by its nested-name-specifier.
	declarator codegen.Fragment
}

func parseSymbol(el *etree.Element, e *Emitter) (symbol, bool) {
	s := symbol{
		sclass: el.SelectAttrValue("sclass", ""),
		typ:    xcodeml.DataTypeIdent(el.SelectAttrValue("type", "")),
	}
	n := el.SelectElement("name")
	if n != nil {
		s.name = norm.NFC.String(strings.TrimSpace(n.Text()))
	}
	if s.name == "" {
		e.Fail(fmt.Errorf("%s: %s symbol has no name", el.GetPath(), s.sclass))
		return s, false
	}
	if s.typ == "" {
		// XcodeML-C places the type on <name>.
		s.typ = xcodeml.DataTypeIdent(n.SelectAttrValue("type", ""))
	}
	if s.typ == "" {
		e.Fail(fmt.Errorf("%s: symbol %q has no type", el.GetPath(), s.name))
		return s, false
	}
	s.declarator = codegen.Token(s.name)
	if nns := n.SelectAttrValue("nns", ""); nns != "" {
		prefix, err := e.synth.NestedNameSpec(xcodeml.NnsIdent(nns))
		if err != nil {
			e.Fail(fmt.Errorf("%s: %w", el.GetPath(), err))
			return s, false
		}
		s.declarator = prefix.Then(s.declarator)
	}
	slog.Debug("handler fired", "sclass", s.sclass, "name", s.name, "type", s.typ)
	return s, true
}

// typedefNameProc emits `typedef <decl>;`.
func typedefNameProc(_ *walker.Walker[*Emitter], el *etree.Element, e *Emitter) {
	s, ok := parseSymbol(el, e)
	if !ok {
		return
	}
	f := codegen.Cat(
		codegen.Token("typedef"), codegen.Space,
		e.synth.Decl(s.typ, s.declarator),
		codegen.Token(";"),
	)
	e.Emit(s.sclass, s.name, s.typ, f)
}

// tagnameProc emits the definition of a struct, union or enum, or a forward
// declaration for a class or for a record without members.
func tagnameProc(_ *walker.Walker[*Emitter], el *etree.Element, e *Emitter) {
	s, ok := parseSymbol(el, e)
	if !ok {
		return
	}
	t, ok := e.synth.Env.LookupType(s.typ)
	if !ok {
		if e.synth.OnIncomplete != nil {
			e.synth.OnIncomplete(s.typ)
		}
		e.Emit(s.sclass, s.name, s.typ, codegen.Cat(
			codegen.Token(xcodeml.IncompleteMarker), codegen.Space, s.declarator, codegen.Token(";"),
		))
		return
	}
	var f codegen.Fragment
	switch t := t.(type) {
	case *xcodeml.Struct:
		if len(t.Members()) == 0 {
			f = forward("struct", s.declarator)
		} else {
			f = e.synth.StructDefinition(t)
		}
	case *xcodeml.Union:
		if len(t.Members()) == 0 {
			f = forward("union", s.declarator)
		} else {
			f = e.synth.UnionDefinition(t)
		}
	case *xcodeml.Enum:
		f = e.synth.EnumDefinition(t)
	case *xcodeml.Class:
		f = e.synth.ClassForwardDeclaration(t)
	default:
		e.Fail(&xcodeml.Error{
			Code:    xcodeml.ErrCodeUnsupported,
			Ident:   string(s.typ),
			Message: fmt.Sprintf("tagname symbol %q names a %s type", s.name, t.Kind()),
		})
		return
	}
	e.Emit(s.sclass, s.name, s.typ, f)
}

func forward(key string, name codegen.Fragment) codegen.Fragment {
	return codegen.Cat(codegen.Token(key), codegen.Space, name, codegen.Token(";"))
}

// storageProc emits `<keyword> <decl>;`; an empty keyword emits `<decl>;`.
func storageProc(keyword string) walker.Procedure[*Emitter] {
	return func(_ *walker.Walker[*Emitter], el *etree.Element, e *Emitter) {
		s, ok := parseSymbol(el, e)
		if !ok {
			return
		}
		f := codegen.Cat(
			codegen.Token(keyword), codegen.Space,
			e.synth.Decl(s.typ, s.declarator),
			codegen.Token(";"),
		)
		e.Emit(s.sclass, s.name, s.typ, f)
	}
}
