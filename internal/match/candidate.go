package match

import "sort"

// Candidate is a name scored against the name being matched.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates sorted best first.
type CandidateList []Candidate

// Rank scores every candidate against name. Results are sorted by score
// descending, then by name for determinism. Exact matches are skipped.
func Rank(name string, candidates []string) CandidateList {
	list := make(CandidateList, 0, len(candidates))

	for _, c := range candidates {
		if c == name {
			continue
		}

		list = append(list, Candidate{Name: c, Score: Score(name, c)})
	}

	sort.Sort(list)

	return list
}

// Suggest returns up to limit candidate names scoring at least threshold.
func Suggest(name string, candidates []string, limit int, threshold float64) []string {
	var out []string

	for _, c := range Rank(name, candidates).AboveThreshold(threshold).Top(limit) {
		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// IsAmbiguous reports whether the top two candidates are within gap.
func (c CandidateList) IsAmbiguous(gap float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < gap
}
