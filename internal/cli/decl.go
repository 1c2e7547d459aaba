package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/translate"
	"github.com/roach88/declgen/internal/xcodeml"
)

// DeclResult is the JSON payload of the decl command.
type DeclResult struct {
	Type       string   `json:"type"`
	Kind       string   `json:"kind"`
	Text       string   `json:"text"`
	Incomplete []string `json:"incomplete,omitempty"`
}

// NewDeclCommand creates the decl command.
func NewDeclCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decl <ir.xml> <type-id> [name]",
		Short: "Render the declaration of one type",
		Long: `Render a single declarator for a type identifier of the document.

The optional name is the declared entity; without it the abstract
declarator is printed. Identifiers missing from the document render as
INCOMPLETE_TYPE.

Examples:
  declgen decl prog.xml P0 handler
  declgen decl prog.xml S1`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			return runDecl(rootOpts, args[0], args[1], name, cmd)
		},
	}
	return cmd
}

func runDecl(opts *RootOptions, path, typeID, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fail(formatter, err)
	}
	unit, err := translate.LoadFile(path, cfg)
	if err != nil {
		return fail(formatter, err)
	}

	ident := xcodeml.DataTypeIdent(typeID)
	kind := "unbound"
	if t, ok := unit.Env.LookupType(ident); ok {
		kind = t.Kind().String()
	}

	incomplete := map[xcodeml.DataTypeIdent]bool{}
	synth := xcodeml.NewSynthesizer(unit.Env)
	synth.MaxDepth = cfg.MaxDepth
	synth.OnIncomplete = func(id xcodeml.DataTypeIdent) { incomplete[id] = true }

	frag := synth.Decl(ident, codegen.Token(name))
	text := codegen.NewStream(cfg.IndentWidth).Write(frag).String()

	result := DeclResult{Type: typeID, Kind: kind, Text: text}
	for id := range incomplete {
		result.Incomplete = append(result.Incomplete, string(id))
	}
	sort.Strings(result.Incomplete)

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, text)
	formatter.VerboseLog("kind: %s", kind)
	return nil
}
