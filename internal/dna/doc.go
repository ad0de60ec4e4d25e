// Package dna provides the symbol table that describes struct layouts:
// primitive types, struct types and their members, as decoded from an
// encoded schema blob or built in-process from the current definitions.
//
// Key types:
//   - Table: immutable, index-addressed type and struct arrays plus name lookups
//   - Type: one entry of the combined primitive+struct+opaque type space
//   - Member: a struct member (type index + decorated name)
//   - Name: parsed member name (pointer, function pointer, array dimensions)
//
// Struct sizes, member offsets and alignments are computed once when a
// table is constructed, so every query on a built table is a pure read and
// safe for concurrent use.
package dna
