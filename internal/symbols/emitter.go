// Package symbols emits declarations for the entries of XcodeML symbol
// tables. Entries are dispatched on their `sclass` attribute.
package symbols

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/xcodeml"
)

// Decl records one emitted declaration.
type Decl struct {
	Sclass string
	Name   string
	Type   xcodeml.DataTypeIdent
	Text   string
}

// Emitter is the ambient context handlers write to. It is not safe for
// concurrent use.
type Emitter struct {
	synth       *xcodeml.Synthesizer
	indentWidth int
	out         []codegen.Fragment
	decls       []Decl
	incomplete  map[xcodeml.DataTypeIdent]bool
	errs        []error
}

// NewEmitter creates an Emitter rendering types from env.
func NewEmitter(env *xcodeml.Environment, cfg config.Config) *Emitter {
	e := &Emitter{
		indentWidth: cfg.IndentWidth,
		incomplete:  make(map[xcodeml.DataTypeIdent]bool),
	}
	e.synth = &xcodeml.Synthesizer{
		Env:      env,
		MaxDepth: cfg.MaxDepth,
		OnIncomplete: func(ident xcodeml.DataTypeIdent) {
			if !e.incomplete[ident] {
				slog.Warn("incomplete type emitted", "ident", ident)
			}
			e.incomplete[ident] = true
		},
	}
	return e
}

// Synthesizer returns the synthesizer handlers render with.
func (e *Emitter) Synthesizer() *xcodeml.Synthesizer {
	return e.synth
}

// Emit appends a declaration.
func (e *Emitter) Emit(sclass, name string, typ xcodeml.DataTypeIdent, f codegen.Fragment) {
	e.out = append(e.out, f)
	e.decls = append(e.decls, Decl{
		Sclass: sclass,
		Name:   name,
		Type:   typ,
		Text:   codegen.NewStream(e.indentWidth).Write(f).String(),
	})
}

// Fail records a handler error. Traversal continues so every problem in a
// document is reported.
func (e *Emitter) Fail(err error) {
	e.errs = append(e.errs, err)
}

// Fragment returns every emitted declaration, one per line.
func (e *Emitter) Fragment() codegen.Fragment {
	return codegen.InsertNewLines(e.out)
}

// Text linearises Fragment with the configured indentation.
func (e *Emitter) Text() string {
	return codegen.NewStream(e.indentWidth).Write(e.Fragment()).String()
}

// Decls returns the emitted declarations in order.
func (e *Emitter) Decls() []Decl {
	return append([]Decl(nil), e.decls...)
}

// Incomplete returns the sorted identifiers rendered as the incomplete marker.
func (e *Emitter) Incomplete() []xcodeml.DataTypeIdent {
	out := make([]xcodeml.DataTypeIdent, 0, len(e.incomplete))
	for ident := range e.incomplete {
		out = append(out, ident)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Err returns the recorded handler errors joined, or nil.
func (e *Emitter) Err() error {
	return errors.Join(e.errs...)
}
