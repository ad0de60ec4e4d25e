// Package analyze derives the current struct table from Go struct
// declarations, the way a makesdna step derives it from C headers.
//
// It uses golang.org/x/tools/go/packages and go/types to read every
// exported struct, maps Go field types onto DNA primitives, pointers and
// fixed arrays, and inserts explicit char padding members wherever the
// compiler's layout has gaps, so the packed DNA layout matches memory.
//
// Field names come from the `dna:"name"` tag when present; `dna:"-"`
// excludes a field, leaving padding in its place.
package analyze
