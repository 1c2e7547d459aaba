package xcodeml

import (
	"errors"
	"fmt"
)

// ErrorCode categorises failures raised by this package.
type ErrorCode string

const (
	// ErrCodeUnresolved is an identifier that is absent from the Environment
	// or bound only to a placeholder. Rendering turns it into the incomplete
	// marker; the code is reported for diagnostics.
	ErrCodeUnresolved ErrorCode = "UNRESOLVED_IDENTIFIER"

	// ErrCodeMalformedInput is an enum-like string with no safe default,
	// such as an unknown access specifier.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// ErrCodeProtocolViolation is a broken define-once rule: a second tag or
	// name assignment, or a second binding of the same identifier.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"

	// ErrCodeUnsupported is a construct the synthesiser does not implement.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_CONSTRUCT"
)

// Error is the error type returned by this package.
type Error struct {
	Code    ErrorCode
	Ident   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Ident != "" {
		return fmt.Sprintf("%s: %s (ident=%s)", e.Code, e.Message, e.Ident)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsUnresolved reports whether err is an unresolved-identifier error.
func IsUnresolved(err error) bool { return hasCode(err, ErrCodeUnresolved) }

// IsMalformedInput reports whether err is a malformed-input error.
func IsMalformedInput(err error) bool { return hasCode(err, ErrCodeMalformedInput) }

// IsProtocolViolation reports whether err is a define-once violation.
func IsProtocolViolation(err error) bool { return hasCode(err, ErrCodeProtocolViolation) }

// IsUnsupportedConstruct reports whether err is an unsupported-construct error.
func IsUnsupportedConstruct(err error) bool { return hasCode(err, ErrCodeUnsupported) }

// NewUnresolvedError creates an Error for a missing identifier.
func NewUnresolvedError(ident string) *Error {
	return &Error{
		Code:    ErrCodeUnresolved,
		Ident:   ident,
		Message: "identifier is not bound in the environment",
	}
}

func newMalformedInput(ident, format string, args ...any) *Error {
	return &Error{Code: ErrCodeMalformedInput, Ident: ident, Message: fmt.Sprintf(format, args...)}
}

func newProtocolViolation(ident, format string, args ...any) *Error {
	return &Error{Code: ErrCodeProtocolViolation, Ident: ident, Message: fmt.Sprintf(format, args...)}
}
