package compare

import "sort"

// topoSort returns node indices so that every node comes after its
// dependencies. deps(i) yields indices that must precede i; out-of-range
// indices are ignored.
//
// The result is deterministic: when multiple nodes are available, the
// smallest index goes first. Nodes on or behind a cycle are returned in
// cyclic, in ascending order, instead of failing the whole sort.
func topoSort(n int, deps func(i int) []int) (order, cyclic []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				continue
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) == n {
		return order, nil
	}

	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return order, cyclic
}
