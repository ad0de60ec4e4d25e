// Package match ranks struct and member names by edit distance so that
// removed or dropped names can be reported with likely renames.
//
// Key functions:
//   - Normalize: folds DNA identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Rank: scores every candidate against a name
//   - Suggest: returns the best candidates above a threshold
package match
