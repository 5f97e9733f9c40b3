package model

// Assignment maps each local point to the block (processor/partition)
// index it currently belongs to. int32 keeps it compact for point clouds
// in the tens of millions; partitioner block counts never approach the
// int32 range.
type Assignment []int32

// NewAssignment allocates an assignment for n points, all initially
// unassigned (block -1).
func NewAssignment(n int) Assignment {
	a := make(Assignment, n)
	for i := range a {
		a[i] = -1
	}
	return a
}

// Counts returns, for the given block count k, how many points are
// currently assigned to each block.
func (a Assignment) Counts(k int) []int64 {
	counts := make([]int64, k)
	for _, block := range a {
		if block >= 0 && int(block) < k {
			counts[block]++
		}
	}
	return counts
}

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}
