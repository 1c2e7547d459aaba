package walker

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trace struct {
	events []string
}

func parse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func record(label string) Procedure[*trace] {
	return func(_ *Walker[*trace], el *etree.Element, tr *trace) {
		tr.events = append(tr.events, label+":"+el.SelectAttrValue("id", el.Tag))
	}
}

func TestUnhandledElementDescendsIntoChildren(t *testing.T) {
	root := parse(t, `<root><foo><bar id="1"/><baz id="2"/><bar id="3"/></foo></root>`)

	w := New[*trace]()
	w.Register("bar", record("bar"))
	w.Register("baz", record("baz"))

	tr := &trace{}
	w.Walk(root, tr)

	assert.Equal(t, []string{"bar:1", "baz:2", "bar:3"}, tr.events)
}

func TestHandlerOwnsItsSubtree(t *testing.T) {
	root := parse(t, `<root><outer id="o"><inner id="i"/></outer><inner id="j"/></root>`)

	w := New[*trace]()
	w.Register("outer", record("outer"))
	w.Register("inner", record("inner"))

	tr := &trace{}
	w.Walk(root, tr)

	assert.Equal(t, []string{"outer:o", "inner:j"}, tr.events)
}

func TestHandlerCanReenterTraversal(t *testing.T) {
	root := parse(t, `<root><outer id="o"><inner id="i"/></outer></root>`)

	w := New[*trace]()
	w.Register("outer", func(w *Walker[*trace], el *etree.Element, tr *trace) {
		tr.events = append(tr.events, "enter")
		w.WalkChildren(el, tr)
		tr.events = append(tr.events, "leave")
	})
	w.Register("inner", record("inner"))

	tr := &trace{}
	w.Walk(root, tr)

	assert.Equal(t, []string{"enter", "inner:i", "leave"}, tr.events)
}

func TestPreOrderLeftToRight(t *testing.T) {
	root := parse(t, `<a id="a"><b id="b"><c id="c"/></b><d id="d"/></a>`)

	w := New[*trace]()
	w.Register("c", record("x"))
	w.Register("d", record("x"))

	tr := &trace{}
	w.Walk(root, tr)
	assert.Equal(t, []string{"x:c", "x:d"}, tr.events)

	w.Register("a", record("x"))
	tr = &trace{}
	w.Walk(root, tr)
	assert.Equal(t, []string{"x:a"}, tr.events, "the root itself is dispatched")
}

func TestFirstRegistrationWins(t *testing.T) {
	root := parse(t, `<root><foo id="1"/></root>`)

	w := New[*trace]()
	assert.True(t, w.Register("foo", record("first")))
	assert.False(t, w.Register("foo", record("second")))

	tr := &trace{}
	w.Walk(root, tr)
	assert.Equal(t, []string{"first:1"}, tr.events)
}

func TestMergeKeepsExistingBindings(t *testing.T) {
	root := parse(t, `<root><foo id="1"/><bar id="2"/></root>`)

	base := New[*trace]()
	base.Register("foo", record("base"))

	extra := New[*trace]()
	extra.Register("foo", record("extra"))
	extra.Register("bar", record("extra"))

	base.Merge(extra)
	assert.Equal(t, []string{"bar", "foo"}, base.Keys())

	tr := &trace{}
	base.Walk(root, tr)
	assert.Equal(t, []string{"base:1", "extra:2"}, tr.events)
}

func TestNewByAttrDispatchesOnAttributeValue(t *testing.T) {
	root := parse(t, `<symbols>
  <id id="T" sclass="typedef_name"/>
  <id id="S" sclass="tagname"/>
  <id id="V" sclass="auto"/>
  <group><id id="G" sclass="typedef_name"/></group>
</symbols>`)

	w := NewByAttr[*trace]("sclass")
	w.Register("typedef_name", record("typedef"))
	w.Register("tagname", record("tag"))

	tr := &trace{}
	w.Walk(root, tr)

	assert.Equal(t, []string{"typedef:T", "tag:S", "typedef:G"}, tr.events)
}

func TestLookup(t *testing.T) {
	w := New[*trace]()
	w.Register("foo", record("foo"))

	_, ok := w.Lookup("foo")
	assert.True(t, ok)
	_, ok = w.Lookup("bar")
	assert.False(t, ok)
}

func TestWalkNilAndWalkAll(t *testing.T) {
	w := New[*trace]()
	w.Register("x", record("x"))
	tr := &trace{}

	w.Walk(nil, tr)
	w.WalkChildren(nil, tr)
	assert.Empty(t, tr.events)

	a := parse(t, `<x id="1"/>`)
	b := parse(t, `<y><x id="2"/></y>`)
	w.WalkAll([]*etree.Element{a, b}, tr)
	assert.Equal(t, []string{"x:1", "x:2"}, tr.events)
}
