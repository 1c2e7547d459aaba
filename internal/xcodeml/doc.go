// Package xcodeml models the types and nested-name-specifiers of an XcodeML
// program and synthesises C/C++ declarations from them.
//
// Types and nested-name-specifiers live in an Environment keyed by the opaque
// identifiers the front end assigned (`P0`, `F3`, `NNS1`, ...). Variants refer
// to each other only through those identifiers, never through Go pointers, so
// self-referential and mutually recursive type graphs need no special care:
// a struct holding a pointer to itself is just a Pointer whose ref names the
// struct's identifier.
//
// The Environment is filled once by the analyzer and is read-only afterwards.
// The only mutation a Type allows after construction is the one-time tag or
// name assignment, because the XcodeML symbol table names tagged types after
// the type table has introduced them.
//
// Rendering never fails on a missing identifier. It emits the
// INCOMPLETE_TYPE marker in place of the unresolved part so the rest of the
// translation unit still produces output.
package xcodeml
