package analyzer

import (
	"github.com/beevik/etree"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/xcodeml"
)

// applyTagNames names tagged types from `tagname` symbols. A type named twice
// with the same name is fine; two different names violate define-once.
func applyTagNames(st *state, root *etree.Element) error {
	var syms []*etree.Element
	for _, tag := range []string{TagGlobalSymbols, TagSymbols} {
		for _, table := range findAll(root, tag) {
			if table.Parent() != nil && isTypeEntry(table.Parent()) {
				// member lists of struct/union/enum/class entries
				continue
			}
			syms = append(syms, table.SelectElements("id")...)
		}
	}
	for _, id := range syms {
		if id.SelectAttrValue("sclass", "") != "tagname" {
			continue
		}
		if err := applyTagName(st.env, id); err != nil {
			return err
		}
	}
	return nil
}

func isTypeEntry(el *etree.Element) bool {
	_, ok := typeProcs.Lookup(el.Tag)
	return ok && el.Parent() != nil && el.Parent().Tag == TagTypeTable
}

func applyTagName(env *xcodeml.Environment, id *etree.Element) error {
	n := nameOf(id)
	if n == "" {
		return malformed(id, "name", "tagname symbol has no name")
	}
	t, ok := env.LookupType(ident(id))
	if !ok {
		return nil
	}

	var current codegen.Fragment
	var set func(codegen.Fragment) error
	switch t := t.(type) {
	case *xcodeml.Struct:
		current, set = t.TagName(), t.SetTagName
	case *xcodeml.Union:
		current, set = t.Name(), t.SetName
	case *xcodeml.Enum:
		current, set = t.Name(), t.SetName
	case *xcodeml.Class:
		current, set = t.Name(), t.SetName
	default:
		return malformed(id, "type", "tagname symbol names a %s type", t.Kind())
	}
	if current.String() == n {
		return nil
	}
	if err := set(codegen.Token(n)); err != nil {
		return wrap(id, "name", err)
	}
	return nil
}
