package codegen

import "strings"

type nodeKind uint8

const (
	kindToken nodeKind = iota
	kindSpace
	kindNewline
	kindIndent
	kindUnindent
	kindCat
)

type node struct {
	kind  nodeKind
	text  string
	left  *node
	right *node
}

// Fragment is an immutable piece of generated code.
// The zero value is the empty fragment.
type Fragment struct {
	root *node
}

// Pseudo tokens.
var (
	Space    = Fragment{&node{kind: kindSpace}}
	Newline  = Fragment{&node{kind: kindNewline}}
	Indent   = Fragment{&node{kind: kindIndent}}
	Unindent = Fragment{&node{kind: kindUnindent}}
)

// Token returns a fragment holding a single text token.
// An empty string yields the empty fragment.
func Token(s string) Fragment {
	if s == "" {
		return Fragment{}
	}
	return Fragment{&node{kind: kindToken, text: s}}
}

// Then returns f followed by g. Neither operand is modified.
func (f Fragment) Then(g Fragment) Fragment {
	if f.root == nil {
		return g
	}
	if g.root == nil {
		return f
	}
	return Fragment{&node{kind: kindCat, left: f.root, right: g.root}}
}

// Cat concatenates fragments left to right.
func Cat(parts ...Fragment) Fragment {
	var acc Fragment
	for _, p := range parts {
		acc = acc.Then(p)
	}
	return acc
}

// Join concatenates parts with sep between each pair.
func Join(parts []Fragment, sep Fragment) Fragment {
	var acc Fragment
	for i, p := range parts {
		if i > 0 {
			acc = acc.Then(sep)
		}
		acc = acc.Then(p)
	}
	return acc
}

// InsertNewLines terminates every part with a newline.
func InsertNewLines(parts []Fragment) Fragment {
	var acc Fragment
	for _, p := range parts {
		acc = Cat(acc, p, Newline)
	}
	return acc
}

// SeparateByBlankLines terminates every part with a blank line.
func SeparateByBlankLines(parts []Fragment) Fragment {
	var acc Fragment
	for _, p := range parts {
		acc = Cat(acc, p, Newline, Newline)
	}
	return acc
}

// IsEmpty reports whether f contains no text tokens.
// Pseudo tokens alone do not make a fragment non-empty.
func (f Fragment) IsEmpty() bool {
	empty := true
	f.walk(func(n *node) bool {
		if n.kind == kindToken {
			empty = false
			return false
		}
		return true
	})
	return empty
}

// Tokens returns the text tokens of f in order, without pseudo tokens.
func (f Fragment) Tokens() []string {
	var toks []string
	f.walk(func(n *node) bool {
		if n.kind == kindToken {
			toks = append(toks, n.text)
		}
		return true
	})
	return toks
}

// Flush writes f to s.
func (f Fragment) Flush(s *Stream) {
	f.walk(func(n *node) bool {
		switch n.kind {
		case kindToken:
			s.Token(n.text)
		case kindSpace:
			s.Space()
		case kindNewline:
			s.Newline()
		case kindIndent:
			s.Indent()
		case kindUnindent:
			s.Unindent()
		}
		return true
	})
}

// String linearises f with the default indentation width.
func (f Fragment) String() string {
	s := NewStream(DefaultIndentWidth)
	f.Flush(s)
	return s.String()
}

// GoString is used by %#v and test failure messages.
func (f Fragment) GoString() string {
	return "codegen.Fragment{" + strings.Join(f.Tokens(), "|") + "}"
}

// walk visits leaves left to right until visit returns false.
// Left-deep trees come from repeated Then calls, so the traversal keeps its
// own stack instead of recursing.
func (f Fragment) walk(visit func(*node) bool) {
	if f.root == nil {
		return
	}
	stack := []*node{f.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.kind == kindCat {
			stack = append(stack, n.right, n.left)
			continue
		}
		if !visit(n) {
			return
		}
	}
}
