package codegen

import (
	"io"
	"strings"
)

// DefaultIndentWidth is the number of spaces per indentation level.
const DefaultIndentWidth = 2

// Stream linearises fragments into text.
//
// Spacing policy: a requested Space is held back until the next text token.
// It is dropped when the last written character is already a separator
// (space, tab, newline), when nothing has been written yet, or when the next
// token opens with a closing punctuator (`)`, `]`, `,`, `;`).
type Stream struct {
	buf          strings.Builder
	last         byte
	pendingSpace bool
	lineStart    bool
	level        int
	width        int
}

// NewStream creates a Stream indenting by width spaces per level.
// A negative width is treated as zero.
func NewStream(width int) *Stream {
	if width < 0 {
		width = 0
	}
	return &Stream{width: width, lineStart: true}
}

// Token writes a text token. Whitespace-only tokens are folded into the
// separator logic so callers can never produce doubled blanks.
func (s *Stream) Token(tok string) {
	if tok == "" {
		return
	}
	if strings.Trim(tok, " \t\n") == "" {
		if strings.Contains(tok, "\n") {
			s.Newline()
		} else {
			s.Space()
		}
		return
	}
	if s.lineStart {
		s.lineStart = false
		if pad := s.level * s.width; pad > 0 {
			s.buf.WriteString(strings.Repeat(" ", pad))
			s.last = ' '
		}
	}
	if s.pendingSpace {
		s.pendingSpace = false
		if s.last != 0 && !isSeparator(s.last) && !closesTight(tok[0]) {
			s.buf.WriteByte(' ')
			s.last = ' '
		}
	}
	s.buf.WriteString(tok)
	s.last = tok[len(tok)-1]
}

// Space requests a single separator before the next token.
func (s *Stream) Space() {
	s.pendingSpace = true
}

// Newline ends the current line. Indentation is applied lazily, so blank
// lines carry no trailing spaces.
func (s *Stream) Newline() {
	s.pendingSpace = false
	s.buf.WriteByte('\n')
	s.last = '\n'
	s.lineStart = true
}

// Indent raises the indentation level.
func (s *Stream) Indent() {
	s.level++
}

// Unindent lowers the indentation level, never below zero.
func (s *Stream) Unindent() {
	if s.level > 0 {
		s.level--
	}
}

// Level returns the current indentation level.
func (s *Stream) Level() int {
	return s.level
}

// Write flushes f into the stream and returns the stream for chaining.
func (s *Stream) Write(f Fragment) *Stream {
	f.Flush(s)
	return s
}

// String returns everything written so far.
func (s *Stream) String() string {
	return s.buf.String()
}

// WriteTo implements io.WriterTo.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.buf.String())
	return int64(n), err
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func closesTight(c byte) bool {
	switch c {
	case ')', ']', ',', ';':
		return true
	}
	return false
}
