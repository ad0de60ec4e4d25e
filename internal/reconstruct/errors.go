package reconstruct

import "errors"

var (
	// ErrCorruptData is returned when a block count disagrees with the data length.
	ErrCorruptData = errors.New("corrupt data")
	// ErrAllocationFailure wraps an allocator error or a buffer of the wrong size.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrUnknownStruct is returned for a struct the old table does not define.
	ErrUnknownStruct = errors.New("unknown struct")
)
