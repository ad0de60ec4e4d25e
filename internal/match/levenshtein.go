package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions that turn
// one into the other. DNA identifiers are ASCII, so bytes are compared.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	// One row of the matrix, indexed by position in the shorter string.
	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			up := row[i]

			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			row[i] = min(up+1, row[i-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(a)]
}

// Similarity maps the edit distance onto [0,1], where 1 means identical:
// 1 - distance / max(len(a), len(b)).
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Score is the similarity of two identifiers after normalization, taking
// the better of the plain and the affix-stripped forms.
func Score(a, b string) float64 {
	return max(
		Similarity(Normalize(a), Normalize(b)),
		Similarity(NormalizeStripped(a), NormalizeStripped(b)),
	)
}
