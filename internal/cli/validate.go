package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/translate"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Types    int               `json:"types"`
	Nns      int               `json:"nns"`
	Dangling []DanglingReport `json:"dangling,omitempty"`
}

// DanglingReport is one unresolved type reference.
type DanglingReport struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Placeholder bool   `json:"placeholder"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <ir.xml>",
		Short: "Check an IR document for malformed tables and dangling references",
		Long: `Load the type and nested-name-specifier tables of an XcodeML document
without emitting declarations.

Reports malformed elements, define-once violations and every type
reference that resolves to nothing or to a declared-but-undefined type.
Dangling references would render as INCOMPLETE_TYPE.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fail(formatter, err)
	}

	unit, err := translate.LoadFile(path, cfg)
	if err != nil {
		return fail(formatter, err)
	}

	result := ValidationResult{
		Valid: true,
		Types: len(unit.Env.TypeIdents()),
		Nns:   len(unit.Env.NnsIdents()),
	}
	for _, d := range unit.Env.DanglingReferences() {
		result.Dangling = append(result.Dangling, DanglingReport{From: d.From, To: d.To, Placeholder: d.Placeholder})
	}
	formatter.VerboseLog("Loaded %d type(s) and %d nested-name-specifier(s) from %s", result.Types, result.Nns, path)

	if len(result.Dangling) > 0 {
		result.Valid = false
		return outputValidationErrors(formatter, result)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, "✓ Document valid")
	return nil
}

// outputValidationErrors outputs dangling references.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	first := result.Dangling[0]
	msg := fmt.Sprintf("%s references unresolved type %s", first.From, first.To)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeDangling,
				Message: msg,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d dangling reference(s)", len(result.Dangling)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, d := range result.Dangling {
		reason := "not defined"
		if d.Placeholder {
			reason = "declared but never defined"
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s -> %s (%s)\n", ErrCodeDangling, d.From, d.To, reason)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d dangling reference(s)", len(result.Dangling)))
}
