package xcodeml

import "sort"

// NnsIdent is the front end's identifier for a nested-name-specifier.
type NnsIdent string

// GlobalNnsIdent is the identifier always bound to the global namespace.
const GlobalNnsIdent NnsIdent = "global"

// Environment maps identifiers to types and nested-name-specifiers.
//
// Bindings are append-only. An identifier can be declared ahead of its
// definition; until it is defined, lookups treat it exactly like an absent
// identifier.
//
// An Environment is not safe for concurrent mutation. Once loading is done it
// may be shared read-only; parallel translation units each need their own.
type Environment struct {
	types    map[DataTypeIdent]Type
	nnss     map[NnsIdent]Nns
	declared map[DataTypeIdent]bool
	order    []DataTypeIdent
	nnsOrder []NnsIdent
}

// NewEnvironment creates an environment with `global` bound to the global
// namespace.
func NewEnvironment() *Environment {
	env := &Environment{
		types:    make(map[DataTypeIdent]Type),
		nnss:     make(map[NnsIdent]Nns),
		declared: make(map[DataTypeIdent]bool),
	}
	env.nnss[GlobalNnsIdent] = NewGlobalNns()
	env.nnsOrder = append(env.nnsOrder, GlobalNnsIdent)
	return env
}

// Declare reserves ident for a later Define. Declaring a bound or already
// declared identifier is a protocol violation.
func (e *Environment) Declare(ident DataTypeIdent) error {
	if _, ok := e.types[ident]; ok || e.declared[ident] {
		return newProtocolViolation(string(ident), "type identifier is already bound")
	}
	e.declared[ident] = true
	e.order = append(e.order, ident)
	return nil
}

// Define binds t to its identifier, which must have been declared and not yet
// defined.
func (e *Environment) Define(t Type) error {
	ident := t.Ident()
	if _, ok := e.types[ident]; ok {
		return newProtocolViolation(string(ident), "type identifier is already defined")
	}
	if !e.declared[ident] {
		return newProtocolViolation(string(ident), "type identifier was not declared")
	}
	delete(e.declared, ident)
	e.types[ident] = t
	return nil
}

// AddType declares and defines t in one step.
func (e *Environment) AddType(t Type) error {
	if err := e.Declare(t.Ident()); err != nil {
		return err
	}
	return e.Define(t)
}

// LookupType returns the type bound to ident. Absent and declared-only
// identifiers both report false.
func (e *Environment) LookupType(ident DataTypeIdent) (Type, bool) {
	t, ok := e.types[ident]
	return t, ok
}

// IsPlaceholder reports whether ident is declared but not defined.
func (e *Environment) IsPlaceholder(ident DataTypeIdent) bool {
	return e.declared[ident]
}

// TypeIdents returns every declared or defined type identifier in the order
// it was first bound.
func (e *Environment) TypeIdents() []DataTypeIdent {
	return append([]DataTypeIdent(nil), e.order...)
}

// AddNns binds n. Rebinding an identifier is a protocol violation.
func (e *Environment) AddNns(n Nns) error {
	ident := n.Ident()
	if _, ok := e.nnss[ident]; ok {
		return newProtocolViolation(string(ident), "nns identifier is already bound")
	}
	e.nnss[ident] = n
	e.nnsOrder = append(e.nnsOrder, ident)
	return nil
}

// LookupNns returns the nested-name-specifier bound to ident.
func (e *Environment) LookupNns(ident NnsIdent) (Nns, bool) {
	n, ok := e.nnss[ident]
	return n, ok
}

// NnsIdents returns every nns identifier in binding order.
func (e *Environment) NnsIdents() []NnsIdent {
	return append([]NnsIdent(nil), e.nnsOrder...)
}

// Dangling is a reference from a bound entity to an identifier that does not
// resolve.
type Dangling struct {
	From        string
	To          string
	Placeholder bool
}

// DanglingReferences lists every unresolved reference, sorted by source and
// target identifier.
func (e *Environment) DanglingReferences() []Dangling {
	var out []Dangling
	for ident, t := range e.types {
		for _, ref := range References(t) {
			if _, ok := e.types[ref]; ok {
				continue
			}
			out = append(out, Dangling{From: string(ident), To: string(ref), Placeholder: e.declared[ref]})
		}
	}
	for ident, n := range e.nnss {
		if parent, ok := n.Parent(); ok {
			if _, bound := e.nnss[parent]; !bound {
				out = append(out, Dangling{From: string(ident), To: string(parent)})
			}
		}
		if c, ok := n.(*ClassNns); ok {
			if _, bound := e.types[c.ClassType()]; !bound {
				out = append(out, Dangling{From: string(ident), To: string(c.ClassType()), Placeholder: e.declared[c.ClassType()]})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
