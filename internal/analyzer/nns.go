package analyzer

import (
	"github.com/beevik/etree"

	"github.com/roach88/declgen/internal/walker"
	"github.com/roach88/declgen/internal/xcodeml"
)

// unsupportedNns lists specifier elements that are bound but cannot render.
var unsupportedNns = map[string]xcodeml.NnsKind{
	"identifierNNS":     xcodeml.NnsIdentifier,
	"namespaceNNS":      xcodeml.NnsNamespace,
	"namespaceAliasNNS": xcodeml.NnsNamespaceAlias,
	"templateNNS":       xcodeml.NnsTemplate,
	"superNNS":          xcodeml.NnsSuper,
}

func newNnsWalker() *walker.Walker[*state] {
	w := walkerFor()
	w.Register("classNNS", classNnsProc)
	for tag := range unsupportedNns {
		w.Register(tag, unsupportedNnsProc)
	}
	return w
}

func nnsIdent(el *etree.Element, st *state) (xcodeml.NnsIdent, bool) {
	id, ok := st.requireAttr(el, "nns")
	return xcodeml.NnsIdent(id), ok
}

func (s *state) addNns(el *etree.Element, n xcodeml.Nns) {
	if err := s.env.AddNns(n); err != nil {
		s.fail(malformed(el, "nns", "duplicate nns identifier %q", n.Ident()))
	}
}

func classNnsProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	id, ok := nnsIdent(el, st)
	if !ok {
		return
	}
	typ, ok := st.requireAttr(el, "type")
	if !ok {
		return
	}
	if parent := el.SelectAttrValue("parent", ""); parent != "" {
		st.addNns(el, xcodeml.NewNestedClassNns(id, xcodeml.NnsIdent(parent), xcodeml.DataTypeIdent(typ)))
		return
	}
	st.addNns(el, xcodeml.NewClassNns(id, xcodeml.DataTypeIdent(typ)))
}

func unsupportedNnsProc(_ *walker.Walker[*state], el *etree.Element, st *state) {
	id, ok := nnsIdent(el, st)
	if !ok {
		return
	}
	parent := xcodeml.NnsIdent(el.SelectAttrValue("parent", ""))
	st.addNns(el, xcodeml.NewUnsupportedNns(id, unsupportedNns[el.Tag], parent))
}
