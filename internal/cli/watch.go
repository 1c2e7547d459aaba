package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/store"
	"github.com/roach88/declgen/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	DBPath   string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <ir.xml>",
		Short: "Re-emit declarations whenever the document changes",
		Long: `Translate the document once, then again after every save until
interrupted. Translation errors are reported and watching continues.

With --db every successful translation is recorded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record each run in this SQLite database")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before re-translating")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fail(formatter, err)
	}
	if _, err := os.Stat(path); err != nil {
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

	w, err := watch.New(path, opts.Debounce)
	if err != nil {
		return failWith(formatter, ErrCodeGeneric, ExitCommandError, err.Error(), nil)
	}
	defer w.Close()

	emitOnce(ctx, st, path, cfg, formatter)
	formatter.VerboseLog("Watching %s", w.Path())

	if err := w.Run(ctx, func(string) { emitOnce(ctx, st, path, cfg, formatter) }); err != nil {
		return failWith(formatter, ErrCodeGeneric, ExitCommandError, err.Error(), nil)
	}
	return nil
}

// emitOnce translates path and prints the result. Failures are reported
// without ending the watch.
func emitOnce(ctx context.Context, st *store.Store, path string, cfg config.Config, formatter *OutputFormatter) {
	result, err := emitPath(ctx, st, path, cfg)
	if err != nil {
		code, _ := classify(err)
		_ = formatter.Error(code, err.Error(), nil)
		return
	}

	if formatter.Format == "json" {
		_ = formatter.Success(result)
		return
	}
	fmt.Fprint(formatter.Writer, result.Text)
	fmt.Fprintln(formatter.Writer, "---")
}

func emitPath(ctx context.Context, st *store.Store, path string, cfg config.Config) (*EmitResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return emitDocument(ctx, st, false, path, data, cfg)
}
