// Package reconstruct turns arrays of old-format struct instances into
// new-format instances.
//
// A Session owns the comparison and the plan cache for one (old, new)
// table pair. Equal structs are copied verbatim, NotEqual structs are
// rebuilt member by member into a zeroed buffer from the allocator, and
// Removed structs produce no data. Every struct-level problem is returned
// in Result.Warnings.
package reconstruct
