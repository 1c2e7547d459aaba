package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/roach88/declgen/internal/config"
	"github.com/roach88/declgen/internal/xcodeml"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Translation/validation failure (malformed IR, dangling references, failed scenarios)
	ExitCommandError = 2 // Command error (invalid paths, bad config, database errors, etc.)
)

// Error codes reported in text and JSON output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Configuration file or flag error
	ErrCodeMalformed    = "E003" // Malformed IR document
	ErrCodeProtocol     = "E004" // Define-once violation in the IR
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeUnsupported  = "E006" // Construct the synthesizer does not implement
	ErrCodeStore        = "E007" // Translation log error
	ErrCodeUnknownIdent = "E008" // Identifier not bound in the document
	ErrCodeDangling     = "E009" // Unresolved type reference
)

// classify maps an error to its output code and exit code.
func classify(err error) (string, int) {
	if code, ok := xcodeml.CodeOf(err); ok {
		switch code {
		case xcodeml.ErrCodeMalformedInput:
			return ErrCodeMalformed, ExitFailure
		case xcodeml.ErrCodeProtocolViolation:
			return ErrCodeProtocol, ExitFailure
		case xcodeml.ErrCodeUnsupported:
			return ErrCodeUnsupported, ExitFailure
		case xcodeml.ErrCodeUnresolved:
			return ErrCodeUnknownIdent, ExitFailure
		}
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return ErrCodeConfig, ExitCommandError
	}
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)
	return failWith(f, code, exit, err.Error(), nil)
}

// failWith reports an error with an explicit code.
func failWith(f *OutputFormatter, code string, exit int, message string, details interface{}) error {
	_ = f.Error(code, message, details)
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`            // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`    // success payload
	Error   *CLIError   `json:"error,omitempty"`   // error details
	TraceID string      `json:"trace_id,omitempty"` // optional trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
