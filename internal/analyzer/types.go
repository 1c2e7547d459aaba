package analyzer

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/walker"
	"github.com/roach88/declgen/internal/xcodeml"
)

// otherKinds are IR type elements bound as opaque Other types.
var otherKinds = []string{
	"otherType",
	"typedefType",
	"vectorType",
	"complexType",
	"unknownRecordType",
}

func newTypeWalker() *walker.Walker[*state] {
	w := walkerFor()
	w.Register("basicType", basicTypeProc)
	w.Register("pointerType", pointerTypeProc)
	w.Register("functionType", functionTypeProc)
	w.Register("arrayType", arrayTypeProc)
	w.Register("structType", recordTypeProc)
	w.Register("unionType", recordTypeProc)
	w.Register("enumType", enumTypeProc)
	w.Register("classType", classTypeProc)
	for _, k := range otherKinds {
		w.Register(k, otherTypeProc)
	}
	return w
}

// defineTypes runs the define pass over every entry except qualified
// aliases, which are returned for defineAliases.
func defineTypes(st *state, entries []*etree.Element) []*etree.Element {
	for _, el := range entries {
		if _, ok := typeProcs.Lookup(el.Tag); !ok {
			slog.Warn("unsupported type entry", "tag", el.Tag, "ident", ident(el))
			continue
		}
		typeProcs.Walk(el, st)
		if st.err != nil {
			return nil
		}
	}
	return st.aliases
}

// basicTypeProc defers the entry: a qualified alias copies the type it names,
// which may be defined later in the table.
func basicTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	if _, ok := st.requireAttr(el, "name"); !ok {
		return
	}
	st.aliases = append(st.aliases, el)
}

// defineAliases binds basicType entries. An alias of a bound type is a
// structural copy carrying the entry's qualifiers; an alias of a name that is
// not an identifier is a Reserved type spelled with that name. Aliases are
// resolved in rounds so chains of aliases work in any order; entries whose
// target never gets defined stay placeholders.
func defineAliases(st *state, aliases []*etree.Element) error {
	pending := aliases
	for len(pending) > 0 {
		var next []*etree.Element
		for _, el := range pending {
			target := el.SelectAttrValue("name", "")
			var t xcodeml.Type
			if base, ok := st.env.LookupType(xcodeml.DataTypeIdent(target)); ok {
				t = xcodeml.CloneAs(base, ident(el))
			} else if st.env.IsPlaceholder(xcodeml.DataTypeIdent(target)) {
				next = append(next, el)
				continue
			} else {
				spelling := xcodeml.DisplayName(norm.NFC.String(target), st.cfg.TypeNames)
				t = xcodeml.NewReserved(ident(el), codegen.Token(spelling))
			}
			if err := qualify(el, t); err != nil {
				return err
			}
			st.define(el, t)
			if st.err != nil {
				return st.err
			}
		}
		if len(next) == len(pending) {
			for _, el := range next {
				slog.Warn("qualified alias of an undefined type", "ident", ident(el), "name", el.SelectAttrValue("name", ""))
			}
			break
		}
		pending = next
	}
	return nil
}

func qualify(el *etree.Element, t xcodeml.Type) error {
	c, err := boolAttr(el, "is_const")
	if err != nil {
		return err
	}
	v, err := boolAttr(el, "is_volatile")
	if err != nil {
		return err
	}
	if c {
		t.SetConst(true)
	}
	if v {
		t.SetVolatile(true)
	}
	return nil
}

func pointerTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	ref, ok := st.requireAttr(el, "ref")
	if !ok {
		return
	}
	var kind xcodeml.RefKind
	switch r := el.SelectAttrValue("reference", ""); r {
	case "":
		kind = xcodeml.RefNone
	case "lvalue":
		kind = xcodeml.RefLValue
	case "rvalue":
		kind = xcodeml.RefRValue
	default:
		st.fail(malformed(el, "reference", "unknown reference kind %q", r))
		return
	}
	st.define(el, xcodeml.NewReference(ident(el), xcodeml.DataTypeIdent(ref), kind))
}

// functionTypeProc reads the parameter list from <params>. Parameters are
// either <paramTypeName type=...> (abstract) or <name type=...>text</name>.
func functionTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	ret, ok := st.requireAttr(el, "return_type")
	if !ok {
		return
	}
	var params []xcodeml.Param
	variadic := false
	if ps := el.SelectElement("params"); ps != nil {
		for _, p := range ps.ChildElements() {
			switch p.Tag {
			case "paramTypeName", "name":
				typ, ok := st.requireAttr(p, "type")
				if !ok {
					return
				}
				param := xcodeml.Param{Type: xcodeml.DataTypeIdent(typ)}
				if p.Tag == "name" {
					param.Name = codegen.Token(norm.NFC.String(strings.TrimSpace(p.Text())))
				}
				params = append(params, param)
			case "ellipsis":
				variadic = true
			}
		}
	}
	st.define(el, xcodeml.NewFunction(ident(el), xcodeml.DataTypeIdent(ret), params, variadic))
}

func arrayTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	elem, ok := st.requireAttr(el, "element_type")
	if !ok {
		return
	}
	size := xcodeml.VariableSize()
	if raw := el.SelectAttrValue("array_size", "*"); raw != "*" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			st.fail(malformed(el, "array_size", "invalid array size %q", raw))
			return
		}
		size = xcodeml.IntegerSize(n)
	}
	st.define(el, xcodeml.NewArray(ident(el), xcodeml.DataTypeIdent(elem), size))
}

// members reads <symbols><id type=...><name>..</name></id>...</symbols>.
// Unnamed members (`int : 0;`) keep an empty name.
func members(el *etree.Element, st *state) ([]xcodeml.Member, bool) {
	var out []xcodeml.Member
	syms := el.SelectElement("symbols")
	if syms == nil {
		return nil, true
	}
	for _, id := range syms.SelectElements("id") {
		typ, ok := st.requireAttr(id, "type")
		if !ok {
			return nil, false
		}
		mname := codegen.Token(nameOf(id))
		raw := id.SelectAttrValue("bit_field", "")
		if raw == "" {
			out = append(out, xcodeml.NewMember(xcodeml.DataTypeIdent(typ), mname))
			continue
		}
		width, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			st.fail(malformed(id, "bit_field", "invalid bit-field width %q", raw))
			return nil, false
		}
		out = append(out, xcodeml.NewBitField(xcodeml.DataTypeIdent(typ), mname, width))
	}
	return out, true
}

func recordTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	ms, ok := members(el, st)
	if !ok {
		return
	}
	if el.Tag == "unionType" {
		st.define(el, xcodeml.NewUnion(ident(el), codegen.Fragment{}, ms))
		return
	}
	st.define(el, xcodeml.NewStruct(ident(el), codegen.Fragment{}, ms))
}

func enumTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	var enumerators []xcodeml.Enumerator
	if syms := el.SelectElement("symbols"); syms != nil {
		for _, id := range syms.SelectElements("id") {
			n := nameOf(id)
			if n == "" {
				st.fail(malformed(id, "name", "enumerator has no name"))
				return
			}
			e := xcodeml.Enumerator{Name: codegen.Token(n)}
			if v := id.SelectElement("value"); v != nil {
				e.Value = codegen.Token(strings.TrimSpace(v.Text()))
			}
			enumerators = append(enumerators, e)
		}
	}
	st.define(el, xcodeml.NewEnum(ident(el), codegen.Fragment{}, enumerators))
}

func classTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	var bases []xcodeml.BaseClass
	if inh := el.SelectElement("inheritedFrom"); inh != nil {
		for _, tn := range inh.SelectElements("typeName") {
			ref, ok := st.requireAttr(tn, "ref")
			if !ok {
				return
			}
			access, err := xcodeml.ParseAccessSpec(tn.SelectAttrValue("access", "public"))
			if err != nil {
				st.fail(wrap(tn, "access", err))
				return
			}
			virtual, err := boolAttr(tn, "is_virtual")
			if err != nil {
				st.fail(err)
				return
			}
			bases = append(bases, xcodeml.BaseClass{Type: xcodeml.DataTypeIdent(ref), Access: access, Virtual: virtual})
		}
	}
	key := el.SelectAttrValue("cxx_class_kind", "class")
	st.define(el, xcodeml.NewClass(ident(el), codegen.Token(nameOf(el)), key, bases))
}

func otherTypeProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	st.define(el, xcodeml.NewOther(ident(el), el.Tag))
}
