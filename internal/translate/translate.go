// Package translate runs the whole pipeline: IR document to environment to
// declaration text.
package translate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/beevik/etree"

	"github.com/roach88/declgen/internal/analyzer"
	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/symbols"
	"github.com/roach88/declgen/internal/xcodeml"
)

// Result is the outcome of translating one document.
type Result struct {
	Text       string
	Decls      []symbols.Decl
	Incomplete []xcodeml.DataTypeIdent

	// InputHash identifies the document, ConfigHash the options and
	// OutputHash the generated text.
	InputHash  string
	ConfigHash string
	OutputHash string
}

// Unit is a parsed and analysed document.
type Unit struct {
	Doc *etree.Document
	Env *xcodeml.Environment
}

// Load parses data and analyses its tables.
func Load(data []byte, cfg config.Config) (*Unit, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &analyzer.AnalyzeError{
			Field:   "document",
			Message: err.Error(),
			Err:     &xcodeml.Error{Code: xcodeml.ErrCodeMalformedInput, Message: err.Error()},
		}
	}
	env, err := analyzer.AnalyzeDocument(doc, cfg)
	if err != nil {
		return nil, err
	}
	return &Unit{Doc: doc, Env: env}, nil
}

// LoadFile reads and loads path.
func LoadFile(path string, cfg config.Config) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data, cfg)
}

// Translate emits the declarations of every global symbol in data.
func Translate(data []byte, cfg config.Config) (*Result, error) {
	unit, err := Load(data, cfg)
	if err != nil {
		return nil, err
	}

	e := symbols.NewEmitter(unit.Env, cfg)
	builder := symbols.NewBuilder()
	for _, table := range symbolTables(unit.Doc.Root()) {
		builder.Walk(table, e)
	}
	if err := e.Err(); err != nil {
		return nil, err
	}

	text := e.Text()
	res := &Result{
		Text:       text,
		Decls:      e.Decls(),
		Incomplete: e.Incomplete(),
		InputHash:  xcodeml.DocumentHash(data),
		ConfigHash: xcodeml.ConfigHash(cfg.Canonical()),
		OutputHash: xcodeml.OutputHash(text),
	}
	slog.Info("translation complete",
		"decls", len(res.Decls),
		"incomplete", len(res.Incomplete),
		"input_hash", res.InputHash[:12],
	)
	return res, nil
}

// TranslateFile reads and translates path.
func TranslateFile(path string, cfg config.Config) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Translate(data, cfg)
}

// symbolTables returns the global symbol tables of the document. Function
// bodies carry their own <symbols>; those are not declarations at file scope.
func symbolTables(root *etree.Element) []*etree.Element {
	if root == nil {
		return nil
	}
	if root.Tag == analyzer.TagGlobalSymbols {
		return []*etree.Element{root}
	}
	return root.FindElements(".//" + analyzer.TagGlobalSymbols)
}
