// Package walker dispatches over an XML element tree.
//
// A Walker maps keys to procedures. By default an element's key is its tag;
// NewByAttr keys elements on an attribute instead, which is how symbol
// entries are dispatched on their storage class. Traversal is depth-first,
// pre-order and left to right. When an element's key has a procedure, the
// procedure owns the subtree and the walker does not descend; otherwise its
// children are visited.
package walker

import (
	"sort"

	"github.com/beevik/etree"
)

// Procedure handles one element. It receives the walker so it can re-enter
// traversal on sub-elements, and the ambient context shared by the walk.
type Procedure[C any] func(w *Walker[C], el *etree.Element, ctx C)

// KeyFunc computes the dispatch key of an element. ok is false when the
// element has no key and can only be descended into.
type KeyFunc func(el *etree.Element) (key string, ok bool)

// Walker is a dispatch table over element keys. Build it once, then walk any
// number of trees. Walking does not modify the table, so a built Walker may
// be shared by concurrent walks as long as nobody registers in the meantime.
type Walker[C any] struct {
	key   KeyFunc
	procs map[string]Procedure[C]
	order []string
}

// New creates a Walker keyed on element tags.
func New[C any]() *Walker[C] {
	return NewWithKey[C](tagKey)
}

// NewByAttr creates a Walker keyed on the value of attr. Elements without the
// attribute are descended into.
func NewByAttr[C any](attr string) *Walker[C] {
	return NewWithKey[C](func(el *etree.Element) (string, bool) {
		a := el.SelectAttr(attr)
		if a == nil {
			return "", false
		}
		return a.Value, true
	})
}

// NewWithKey creates a Walker with a custom key function.
func NewWithKey[C any](key KeyFunc) *Walker[C] {
	return &Walker[C]{key: key, procs: make(map[string]Procedure[C])}
}

func tagKey(el *etree.Element) (string, bool) {
	return el.Tag, true
}

// Register binds proc to key. The first registration wins: registering an
// already bound key leaves the table unchanged and reports false.
func (w *Walker[C]) Register(key string, proc Procedure[C]) bool {
	if _, ok := w.procs[key]; ok {
		return false
	}
	w.procs[key] = proc
	w.order = append(w.order, key)
	return true
}

// Merge registers every entry of other in its registration order. Keys
// already bound in w keep their procedure.
func (w *Walker[C]) Merge(other *Walker[C]) {
	for _, k := range other.order {
		w.Register(k, other.procs[k])
	}
}

// Lookup returns the procedure bound to key.
func (w *Walker[C]) Lookup(key string) (Procedure[C], bool) {
	p, ok := w.procs[key]
	return p, ok
}

// Keys returns the registered keys in sorted order.
func (w *Walker[C]) Keys() []string {
	keys := append([]string(nil), w.order...)
	sort.Strings(keys)
	return keys
}

// Walk visits el and, unless a procedure claims it, its descendants.
// Walking a nil element is a no-op.
func (w *Walker[C]) Walk(el *etree.Element, ctx C) {
	if el == nil {
		return
	}
	if k, ok := w.key(el); ok {
		if proc, ok := w.procs[k]; ok {
			proc(w, el, ctx)
			return
		}
	}
	w.WalkChildren(el, ctx)
}

// WalkChildren walks each child element of el in document order.
func (w *Walker[C]) WalkChildren(el *etree.Element, ctx C) {
	if el == nil {
		return
	}
	for _, child := range el.ChildElements() {
		w.Walk(child, ctx)
	}
}

// WalkAll walks each element of els in order.
func (w *Walker[C]) WalkAll(els []*etree.Element, ctx C) {
	for _, el := range els {
		w.Walk(el, ctx)
	}
}
