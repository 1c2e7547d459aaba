// Package config holds translation options and loads them from CUE files
// and legacy typename-map files.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Defaults.
const (
	DefaultIndentWidth = 2
	DefaultMaxDepth    = 256
)

// Config is threaded explicitly through a translation; nothing here is
// process-wide.
type Config struct {
	// TypeNames rewrites type names on output, keyed by front-end spelling
	// (`unsigned_int`) or by name.
	TypeNames map[string]string

	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int

	// MaxDepth bounds declarator and scope recursion.
	MaxDepth int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TypeNames:   map[string]string{"unsigned_int": "unsigned"},
		IndentWidth: DefaultIndentWidth,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.TypeNames = make(map[string]string, len(c.TypeNames))
	for k, v := range c.TypeNames {
		out.TypeNames[k] = v
	}
	return out
}

// Canonical returns a deterministic encoding of c, used for content hashing.
func (c Config) Canonical() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "indent=%d\n", c.IndentWidth)
	fmt.Fprintf(&b, "max_depth=%d\n", c.MaxDepth)
	keys := make([]string, 0, len(c.TypeNames))
	for k := range c.TypeNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "typename %s=%s\n", strconv.Quote(k), strconv.Quote(c.TypeNames[k]))
	}
	return []byte(b.String())
}

// Error is a configuration error, positioned when it comes from CUE.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const schema = `
#Config: {
	typenames?: [string]: string
	indent?:    int & >=0 & <=16
	max_depth?: int & >0
}
`

// LoadCUE reads path and applies it on top of base.
func LoadCUE(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &Error{Field: "config", Message: err.Error()}
	}
	return ParseCUE(data, path, base)
}

// ParseCUE applies the CUE source src on top of base. filename is used in
// error positions only.
func ParseCUE(src []byte, filename string, base Config) (Config, error) {
	ctx := cuecontext.New()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return base, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return base, formatCUEError(err)
	}
	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return base, formatCUEError(err)
	}

	cfg := base.Clone()

	if iv := v.LookupPath(cue.ParsePath("indent")); iv.Exists() {
		n, err := iv.Int64()
		if err != nil {
			return base, formatCUEError(err)
		}
		cfg.IndentWidth = int(n)
	}

	if dv := v.LookupPath(cue.ParsePath("max_depth")); dv.Exists() {
		n, err := dv.Int64()
		if err != nil {
			return base, formatCUEError(err)
		}
		cfg.MaxDepth = int(n)
	}

	if tv := v.LookupPath(cue.ParsePath("typenames")); tv.Exists() {
		iter, err := tv.Fields()
		if err != nil {
			return base, formatCUEError(err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return base, &Error{Field: "typenames." + iter.Label(), Message: err.Error(), Pos: iter.Value().Pos()}
			}
			cfg.TypeNames[iter.Label()] = s
		}
	}

	return cfg, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
