package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/declgen/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string // CUE configuration file
	TypeNameMap string // legacy `lhs rhs` typename map
	Indent      int    // member indentation; 0 keeps the configured value
	MaxDepth    int    // declarator depth guard; 0 keeps the configured value
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the declgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "declgen",
		Short: "declgen - C/C++ declarations from XcodeML",
		Long:  "Synthesizes C/C++ declarations from the type and symbol tables of an XcodeML document.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Indent < 0 || opts.MaxDepth < 0 {
				return NewExitError(ExitCommandError, "--indent and --max-depth must be non-negative")
			}
			setupLogging(cmd, opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "CUE configuration file")
	cmd.PersistentFlags().StringVar(&opts.TypeNameMap, "typename-map", "", "typename map file (`name replacement` per line)")
	cmd.PersistentFlags().IntVar(&opts.Indent, "indent", 0, "member indentation width (default from config)")
	cmd.PersistentFlags().IntVar(&opts.MaxDepth, "max-depth", 0, "declarator recursion limit (default from config)")

	// Add subcommands
	cmd.AddCommand(NewEmitCommand(opts))
	cmd.AddCommand(NewDeclCommand(opts))
	cmd.AddCommand(NewNnsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// LoadConfig builds the translation configuration: defaults, then the CUE
// file, then the typename map, then flags.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	cfg := config.Default()

	if o.ConfigPath != "" {
		var err error
		cfg, err = config.LoadCUE(o.ConfigPath, cfg)
		if err != nil {
			return cfg, err
		}
		slog.Debug("config loaded", "path", o.ConfigPath)
	}

	if o.TypeNameMap != "" {
		if err := cfg.LoadTypeNameMap(o.TypeNameMap); err != nil {
			return cfg, err
		}
		slog.Debug("typename map loaded", "path", o.TypeNameMap, "entries", len(cfg.TypeNames))
	}

	if o.Indent > 0 {
		cfg.IndentWidth = o.Indent
	}
	if o.MaxDepth > 0 {
		cfg.MaxDepth = o.MaxDepth
	}
	return cfg, nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// setupLogging installs a text handler on stderr: Debug when verbose,
// Warn otherwise.
func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
