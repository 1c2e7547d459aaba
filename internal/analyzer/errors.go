package analyzer

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/roach88/declgen/internal/xcodeml"
)

// AnalyzeError reports a malformed IR element.
type AnalyzeError struct {
	Field   string
	Message string
	// Path is the element's location in the document.
	Path string
	// Err is the underlying error, if any.
	Err error
}

func (e *AnalyzeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *AnalyzeError) Unwrap() error { return e.Err }

// malformed builds an AnalyzeError that classifies as MALFORMED_INPUT.
func malformed(el *etree.Element, field, format string, args ...any) *AnalyzeError {
	msg := fmt.Sprintf(format, args...)
	ident := ""
	path := ""
	if el != nil {
		ident = el.SelectAttrValue("type", el.SelectAttrValue("nns", ""))
		path = el.GetPath()
	}
	return &AnalyzeError{
		Field:   field,
		Message: msg,
		Path:    path,
		Err:     &xcodeml.Error{Code: xcodeml.ErrCodeMalformedInput, Ident: ident, Message: msg},
	}
}

// wrap attaches an element location to an error from the xcodeml package.
func wrap(el *etree.Element, field string, err error) *AnalyzeError {
	return &AnalyzeError{Field: field, Message: err.Error(), Path: el.GetPath(), Err: err}
}
