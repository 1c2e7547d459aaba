package xcodeml

import (
	"sort"

	"github.com/roach88/declgen/internal/codegen"
)

// builtinSpellings maps the front end's builtin type identifiers to their
// C/C++ spelling. The front end never emits table entries for these; the
// identifier is the clang spelling with non-alphanumerics replaced by `_`.
var builtinSpellings = map[string]string{
	"void":               "void",
	"bool":               "bool",
	"_Bool":              "_Bool",
	"char":               "char",
	"signed_char":        "signed char",
	"unsigned_char":      "unsigned char",
	"wchar_t":            "wchar_t",
	"char16_t":           "char16_t",
	"char32_t":           "char32_t",
	"short":              "short",
	"unsigned_short":     "unsigned short",
	"int":                "int",
	"unsigned_int":       "unsigned int",
	"long":               "long",
	"unsigned_long":      "unsigned long",
	"long_long":          "long long",
	"unsigned_long_long": "unsigned long long",
	"__int128":           "__int128",
	"unsigned___int128":  "unsigned __int128",
	"float":              "float",
	"double":             "double",
	"long_double":        "long double",
	"__float128":         "__float128",
	"nullptr_t":          "std::nullptr_t",
}

// BuiltinIdents returns the builtin type identifiers in sorted order.
func BuiltinIdents() []DataTypeIdent {
	out := make([]DataTypeIdent, 0, len(builtinSpellings))
	for k := range builtinSpellings {
		out = append(out, DataTypeIdent(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DisplayName returns the spelling used for a type name. typeNames overrides
// take precedence, then builtin spellings; any other name is returned as is.
func DisplayName(name string, typeNames map[string]string) string {
	if s, ok := typeNames[name]; ok {
		return s
	}
	if s, ok := builtinSpellings[name]; ok {
		return s
	}
	return name
}

// RegisterBuiltins binds every builtin identifier not already bound in env to
// a Reserved type.
func RegisterBuiltins(env *Environment, typeNames map[string]string) error {
	for _, ident := range BuiltinIdents() {
		if _, ok := env.LookupType(ident); ok || env.IsPlaceholder(ident) {
			continue
		}
		name := codegen.Token(DisplayName(string(ident), typeNames))
		if err := env.AddType(NewReserved(ident, name)); err != nil {
			return err
		}
	}
	return nil
}
