package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
	RunID  string
}

// RunView is a recorded run in JSON output.
type RunView struct {
	ID         string     `json:"id"`
	Seq        int64      `json:"seq"`
	Source     string     `json:"source"`
	InputHash  string     `json:"input_hash"`
	ConfigHash string     `json:"config_hash"`
	OutputHash string     `json:"output_hash"`
	Incomplete int        `json:"incomplete"`
	Decls      []DeclView `json:"decls,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded translation runs",
		Long: `List the runs recorded by "declgen emit --db", oldest first.

With --run, print the declarations of a single run.

Examples:
  declgen history --db declgen.db
  declgen history --db declgen.db --limit 5
  declgen history --db declgen.db --run 0192...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of most recent runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the declarations of this run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(opts.DBPath); err != nil {
		return failWith(formatter, ErrCodeNotFound, ExitCommandError, fmt.Sprintf("database not found: %s", opts.DBPath), nil)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return failWith(formatter, ErrCodeStore, ExitCommandError, err.Error(), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return failWith(formatter, ErrCodeStore, ExitCommandError, err.Error(), nil)
	}

	if opts.Format == "json" {
		views := make([]RunView, 0, len(runs))
		for _, r := range runs {
			views = append(views, runView(r))
		}
		return formatter.Success(views)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tSOURCE\tOUTPUT\tINCOMPLETE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", r.Seq, r.ID, r.Source, shortHash(r.OutputHash), r.Incomplete)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, st *store.Store, id string, formatter *OutputFormatter) error {
	run, err := st.GetRun(ctx, id)
	if err != nil {
		return failWith(formatter, ErrCodeNotFound, ExitCommandError, err.Error(), nil)
	}
	run.Decls, err = st.RunDeclarations(ctx, id)
	if err != nil {
		return failWith(formatter, ErrCodeStore, ExitCommandError, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(runView(run))
	}

	fmt.Fprintf(formatter.Writer, "run %s (seq %d) from %s\n\n", run.ID, run.Seq, run.Source)
	for _, d := range run.Decls {
		fmt.Fprintf(formatter.Writer, "%-12s %s\n", d.Sclass, d.Text)
	}
	return nil
}

func runView(r store.Run) RunView {
	v := RunView{
		ID:         r.ID,
		Seq:        r.Seq,
		Source:     r.Source,
		InputHash:  r.InputHash,
		ConfigHash: r.ConfigHash,
		OutputHash: r.OutputHash,
		Incomplete: r.Incomplete,
	}
	for _, d := range r.Decls {
		v.Decls = append(v.Decls, DeclView{Sclass: d.Sclass, Name: d.Name, Type: d.TypeID, Text: d.Text})
	}
	return v
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
