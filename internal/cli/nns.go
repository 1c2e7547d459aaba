package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/codegen"
	"github.com/roach88/declgen/internal/translate"
	"github.com/roach88/declgen/internal/xcodeml"
)

// NnsResult is the JSON payload of the nns command.
type NnsResult struct {
	Nns  string `json:"nns"`
	Text string `json:"text"`
}

// NewNnsCommand creates the nns command.
func NewNnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nns <ir.xml> <nns-id>",
		Short: "Render a nested-name-specifier",
		Long: `Render the scope qualifier for a nested-name-specifier identifier,
outermost scope first, for example "Outer::Inner::".

Only the global scope and class scopes are supported. Other kinds
fail with an unsupported-construct error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNns(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runNns(opts *RootOptions, path, nnsID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fail(formatter, err)
	}
	unit, err := translate.LoadFile(path, cfg)
	if err != nil {
		return fail(formatter, err)
	}

	ident := xcodeml.NnsIdent(nnsID)
	if _, ok := unit.Env.LookupNns(ident); !ok {
		return failWith(formatter, ErrCodeUnknownIdent, ExitFailure,
			fmt.Sprintf("nested-name-specifier %q is not defined", nnsID), nil)
	}

	synth := xcodeml.NewSynthesizer(unit.Env)
	synth.MaxDepth = cfg.MaxDepth
	frag, err := synth.NestedNameSpec(ident)
	if err != nil {
		return fail(formatter, err)
	}
	text := codegen.NewStream(cfg.IndentWidth).Write(frag).String()

	if opts.Format == "json" {
		return formatter.Success(NnsResult{Nns: nnsID, Text: text})
	}
	fmt.Fprintln(formatter.Writer, text)
	return nil
}
