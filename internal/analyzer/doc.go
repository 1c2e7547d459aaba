// Package analyzer loads the type and scope tables of an XcodeML document
// into an xcodeml.Environment.
//
// Loading is two-pass. The first pass declares every identifier of every
// <typeTable> so entries may refer to each other in any order; the second
// defines them. Builtin types, which the front end never lists, are bound
// after the declare pass. Struct, union, enum and class names are applied
// from the `tagname` symbols before qualified aliases are copied, and
// <nnsTable> entries are bound last.
//
// Table entries are dispatched on their element tag through a walker. An
// entry whose tag has no procedure stays a placeholder and renders as the
// incomplete marker.
package analyzer
