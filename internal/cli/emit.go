package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/store"
	"github.com/roach88/declgen/internal/translate"
	"github.com/roach88/declgen/internal/xcodeml"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	DBPath string // translation log
	Cache  bool   // reuse a logged run with the same input and config hashes
	Output string // write declarations to this file instead of stdout
}

// EmitResult is the JSON payload of the emit command.
type EmitResult struct {
	RunID      string     `json:"run_id,omitempty"`
	Cached     bool       `json:"cached"`
	InputHash  string     `json:"input_hash"`
	ConfigHash string     `json:"config_hash"`
	OutputHash string     `json:"output_hash"`
	Decls      []DeclView `json:"decls"`
	Incomplete []string   `json:"incomplete,omitempty"`
	Text       string     `json:"text"`
}

// DeclView is one emitted declaration.
type DeclView struct {
	Sclass string `json:"sclass"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Text   string `json:"text"`
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <ir.xml>",
		Short: "Emit the declarations of every global symbol",
		Long: `Translate an XcodeML document into C/C++ declarations.

Walks the global symbol table and emits one declaration per typedef,
tag definition and variable or function symbol, in document order.

With --db the run is recorded in a SQLite translation log. With --cache
a previous run with identical input and configuration is reused; its
declarations and incomplete types are returned as first recorded.

Exit codes:
  0 - Declarations emitted
  1 - The document is malformed or violates the IR protocol
  2 - Command error (missing file, bad config, database error)

Examples:
  declgen emit prog.xml
  declgen emit prog.xml --db declgen.db --cache
  declgen emit prog.xml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.Cache, "cache", false, "reuse a recorded run with the same input and config (requires --db)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write declarations to a file")

	return cmd
}

func runEmit(ctx context.Context, opts *EmitOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	if opts.Cache && opts.DBPath == "" {
		return failWith(formatter, ErrCodeConfig, ExitCommandError, "--cache requires --db", nil)
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fail(formatter, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(formatter, err)
	}

	var st *store.Store
	if opts.DBPath != "" {
		st, err = store.Open(opts.DBPath)
		if err != nil {
			return failWith(formatter, ErrCodeStore, ExitCommandError, err.Error(), nil)
		}
		defer st.Close()
	}

	result, err := emitDocument(ctx, st, opts.Cache, path, data, cfg)
	if err != nil {
		if st != nil && isStoreError(err) {
			return failWith(formatter, ErrCodeStore, ExitCommandError, err.Error(), nil)
		}
		return fail(formatter, err)
	}

	if result.Cached {
		formatter.VerboseLog("Reused run %s", result.RunID)
	} else if result.RunID != "" {
		formatter.VerboseLog("Recorded run %s", result.RunID)
	}
	formatter.VerboseLog("%d declaration(s), %d incomplete type(s)", len(result.Decls), len(result.Incomplete))

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result.Text), 0o644); err != nil {
			return failWith(formatter, ErrCodeGeneric, ExitCommandError, fmt.Sprintf("write %s: %v", opts.Output, err), nil)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	if opts.Output == "" {
		fmt.Fprint(formatter.Writer, result.Text)
	}
	return nil
}

// storeError marks failures of the translation log.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func isStoreError(err error) bool {
	var se *storeError
	return errors.As(err, &se)
}

// emitDocument translates data, consulting and updating st when non-nil.
func emitDocument(ctx context.Context, st *store.Store, useCache bool, source string, data []byte, cfg config.Config) (*EmitResult, error) {
	if st != nil && useCache {
		inputHash := xcodeml.DocumentHash(data)
		configHash := xcodeml.ConfigHash(cfg.Canonical())
		run, found, err := st.LatestRunByHash(ctx, inputHash, configHash)
		if err != nil {
			return nil, &storeError{err}
		}
		if found {
			return resultFromRun(run), nil
		}
	}

	res, err := translate.Translate(data, cfg)
	if err != nil {
		return nil, err
	}

	out := resultFromTranslation(res)
	if st == nil {
		return out, nil
	}

	run, err := st.RecordRun(ctx, runFromResult(source, res))
	if err != nil {
		return nil, &storeError{err}
	}
	out.RunID = run.ID
	return out, nil
}

func resultFromTranslation(res *translate.Result) *EmitResult {
	out := &EmitResult{
		InputHash:  res.InputHash,
		ConfigHash: res.ConfigHash,
		OutputHash: res.OutputHash,
		Decls:      make([]DeclView, 0, len(res.Decls)),
		Text:       res.Text,
	}
	for _, d := range res.Decls {
		out.Decls = append(out.Decls, DeclView{Sclass: d.Sclass, Name: d.Name, Type: string(d.Type), Text: d.Text})
	}
	for _, id := range res.Incomplete {
		out.Incomplete = append(out.Incomplete, string(id))
	}
	return out
}

func resultFromRun(run store.Run) *EmitResult {
	out := &EmitResult{
		RunID:      run.ID,
		Cached:     true,
		InputHash:  run.InputHash,
		ConfigHash: run.ConfigHash,
		OutputHash: run.OutputHash,
		Decls:      make([]DeclView, 0, len(run.Decls)),
		Text:       run.Output,
	}
	for _, d := range run.Decls {
		out.Decls = append(out.Decls, DeclView{Sclass: d.Sclass, Name: d.Name, Type: d.TypeID, Text: d.Text})
	}
	out.Incomplete = append(out.Incomplete, run.IncompleteTypes...)
	return out
}

func runFromResult(source string, res *translate.Result) store.Run {
	run := store.Run{
		Source:     source,
		InputHash:  res.InputHash,
		ConfigHash: res.ConfigHash,
		OutputHash: res.OutputHash,
		Output:     res.Text,
		Incomplete: len(res.Incomplete),
		Decls:      make([]store.Declaration, 0, len(res.Decls)),
	}
	for _, id := range res.Incomplete {
		run.IncompleteTypes = append(run.IncompleteTypes, string(id))
	}
	for _, d := range res.Decls {
		run.Decls = append(run.Decls, store.Declaration{
			Sclass: d.Sclass,
			Name:   d.Name,
			TypeID: string(d.Type),
			Text:   d.Text,
		})
	}
	return run
}
