// Package codegen builds declaration text as immutable token trees.
//
// A Fragment is a persistent tree: concatenation allocates one new inner node
// that points at both operands and never touches them, so a fragment built
// once (a base type, a member list) can be spliced into any number of
// declarations.
//
// Fragments are linearised through a Stream. The Stream is the only place that
// decides inter-token spacing: variant rendering code asks for a Space and the
// Stream collapses it against whatever was written last. Indentation is carried
// by Indent/Unindent pseudo tokens that adjust a counter applied after each
// Newline.
package codegen
