package kmeans

import "sort"

// CanonicalRelabel renumbers block ids by the order their first member
// appears when points are visited in globalIndex order (nil falls back to
// local order, valid on a single rank or after the caller has already
// gathered a globally-ordered assignment). Two assignments that differ only
// by a permutation of block ids compare equal after relabeling, which is
// what lets tests and convergence checks treat "same partition, different
// numbering" as identical.
func CanonicalRelabel(assignment []int32, globalIndex []int64, k int) []int32 {
	order := make([]int, len(assignment))
	for i := range order {
		order[i] = i
	}
	if globalIndex != nil {
		sort.Slice(order, func(a, b int) bool { return globalIndex[order[a]] < globalIndex[order[b]] })
	}

	newID := make([]int32, k)
	for i := range newID {
		newID[i] = -1
	}
	var next int32
	for _, i := range order {
		b := assignment[i]
		if b >= 0 && newID[b] == -1 {
			newID[b] = next
			next++
		}
	}

	out := make([]int32, len(assignment))
	for i, b := range assignment {
		if b < 0 {
			out[i] = -1
			continue
		}
		out[i] = newID[b]
	}
	return out
}
