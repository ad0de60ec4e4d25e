// Package plan precomputes, for every old struct that is NotEqual to its
// new counterpart, the ordered member actions that turn one old instance
// into one new instance.
//
// Planning pipeline:
//  1. Compare old and new tables (package compare)
//  2. For each new member, in declared order, find the old member with the
//     same base name
//  3. Choose a step: copy, convert, pointer cast, nested plan, or zero
//  4. Merge adjacent contiguous copies
//
// Plans hold only offsets, sizes and kinds; they never own data and are
// cached per old struct index for the lifetime of a Planner.
package plan
