package analyzer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/walker"
	"github.com/roach88/declgen/internal/xcodeml"
)

// SupportedVersions is the range of IR `version` attributes accepted.
// Documents without the attribute are accepted.
const SupportedVersions = ">= 1.0, < 2.0"

// Table and symbol element tags.
const (
	TagTypeTable     = "typeTable"
	TagNnsTable      = "nnsTable"
	TagGlobalSymbols = "globalSymbols"
	TagSymbols       = "symbols"
)

// state is the ambient context of a load.
type state struct {
	env     *xcodeml.Environment
	cfg     config.Config
	aliases []*etree.Element
	err     error
}

func (s *state) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

var (
	typeProcs = newTypeWalker()
	nnsProcs  = newNnsWalker()
)

// Analyze loads the tables under root into a new Environment.
func Analyze(root *etree.Element, cfg config.Config) (*xcodeml.Environment, error) {
	if root == nil {
		return nil, malformed(nil, "document", "document has no root element")
	}
	if err := CheckVersion(root); err != nil {
		return nil, err
	}

	st := &state{env: xcodeml.NewEnvironment(), cfg: cfg}
	typeTables := findAll(root, TagTypeTable)

	entries, err := declareTypes(st.env, typeTables)
	if err != nil {
		return nil, err
	}
	if err := xcodeml.RegisterBuiltins(st.env, cfg.TypeNames); err != nil {
		return nil, err
	}

	aliases := defineTypes(st, entries)
	if st.err != nil {
		return nil, st.err
	}
	// Names first: qualified aliases copy the named type.
	if err := applyTagNames(st, root); err != nil {
		return nil, err
	}
	if err := defineAliases(st, aliases); err != nil {
		return nil, err
	}

	for _, table := range findAll(root, TagNnsTable) {
		nnsProcs.WalkAll(table.ChildElements(), st)
		if st.err != nil {
			return nil, st.err
		}
	}

	for _, ident := range st.env.TypeIdents() {
		if st.env.IsPlaceholder(ident) {
			slog.Warn("type entry left undefined", "ident", ident)
		}
	}
	slog.Debug("environment loaded",
		"types", len(st.env.TypeIdents()),
		"nns", len(st.env.NnsIdents()),
	)
	return st.env, nil
}

// AnalyzeDocument is Analyze applied to the document's root element.
func AnalyzeDocument(doc *etree.Document, cfg config.Config) (*xcodeml.Environment, error) {
	return Analyze(doc.Root(), cfg)
}

// CheckVersion validates the optional `version` attribute of root.
func CheckVersion(root *etree.Element) error {
	raw := root.SelectAttrValue("version", "")
	if raw == "" {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return malformed(root, "version", "invalid IR version %q: %v", raw, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("version constraint: %w", err)
	}
	if !c.Check(v) {
		return malformed(root, "version", "IR version %s is outside the supported range %s", v, SupportedVersions)
	}
	return nil
}

// findAll returns root itself if it has the tag, otherwise every descendant
// with it in document order.
func findAll(root *etree.Element, tag string) []*etree.Element {
	if root.Tag == tag {
		return []*etree.Element{root}
	}
	return root.FindElements(".//" + tag)
}

// declareTypes binds a placeholder for every table entry. Duplicate
// identifiers are malformed input.
func declareTypes(env *xcodeml.Environment, tables []*etree.Element) ([]*etree.Element, error) {
	var entries []*etree.Element
	for _, table := range tables {
		for _, el := range table.ChildElements() {
			ident := el.SelectAttrValue("type", "")
			if ident == "" {
				return nil, malformed(el, "type", "<%s> has no type attribute", el.Tag)
			}
			if err := env.Declare(xcodeml.DataTypeIdent(ident)); err != nil {
				return nil, malformed(el, "type", "duplicate type identifier %q", ident)
			}
			entries = append(entries, el)
		}
	}
	return entries, nil
}

// define binds t, recording the first failure.
func (s *state) define(el *etree.Element, t xcodeml.Type) {
	if err := s.env.Define(t); err != nil {
		s.fail(wrap(el, "type", err))
	}
}

// nameOf returns the NFC-normalised text of el's <name> child.
func nameOf(el *etree.Element) string {
	n := el.SelectElement("name")
	if n == nil {
		return ""
	}
	return norm.NFC.String(strings.TrimSpace(n.Text()))
}

// boolAttr parses the IR's boolean attributes, which use 0/1 or false/true.
func boolAttr(el *etree.Element, attr string) (bool, error) {
	switch v := el.SelectAttrValue(attr, ""); v {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, malformed(el, attr, "invalid boolean %q", v)
	}
}

// requireAttr returns attr or records a malformed-input failure.
func (s *state) requireAttr(el *etree.Element, attr string) (string, bool) {
	v := el.SelectAttrValue(attr, "")
	if v == "" {
		s.fail(malformed(el, attr, "<%s> has no %s attribute", el.Tag, attr))
		return "", false
	}
	return v, true
}

func ident(el *etree.Element) xcodeml.DataTypeIdent {
	return xcodeml.DataTypeIdent(el.SelectAttrValue("type", ""))
}

// walkerFor is shorthand for a tag-keyed walker over load state.
func walkerFor() *walker.Walker[*state] {
	return walker.New[*state]()
}
