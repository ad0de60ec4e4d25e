package dna

import "errors"

var (
	// ErrMalformedSchema reports an internally inconsistent schema.
	// Nothing built from it can be trusted.
	ErrMalformedSchema = errors.New("malformed schema")
	// ErrUnknownTypeIndex reports a struct whose layout cites a type without
	// a usable definition. It only invalidates that struct.
	ErrUnknownTypeIndex = errors.New("unknown type index")
	// ErrRecursiveStruct reports a struct that embeds itself by value.
	ErrRecursiveStruct = errors.New("recursive struct")
)
