package model

// Centers holds the current set of block centers for one level of
// hierarchical partitioning. When a level recurses, every block from the
// previous level spawns its own independent group of sub-centers; rather
// than a [][]Center nested structure, all centers across every previous
// block are packed into one flat array, with Offsets giving a prefix-sum
// index into the per-previous-block ranges. This keeps center lookups a
// single slice index instead of a map traversal in the hot assignment loop.
type Centers[T Float] struct {
	D int

	// Offsets has one more entry than there are previous blocks; centers belonging to previous
	// block p occupy the half-open range [Offsets[p], Offsets[p+1]).
	Offsets []int

	// Coords is row-major over all centers: Coords[c*D+d].
	Coords []T

	// Influence holds the adaptive Lagrange-multiplier-style weight applied
	// to each center's distance term, one row per weight criterion.
	Influence [][]T

	// AccumWeight[w][c] accumulates the weight, under criterion w, of every
	// point currently assigned to center c; used to recompute centers and
	// drive the influence update.
	AccumWeight [][]T

	// Count[c] is the number of points currently assigned to center c.
	Count []int64
}

// NewCenters allocates centers for groups whose sizes are given by
// blockCenterCounts (one entry per previous-level block, or a single entry
// of the total block count for a flat, non-hierarchical partition).
func NewCenters[T Float](d, numWeights int, blockCenterCounts []int) *Centers[T] {
	offsets := make([]int, len(blockCenterCounts)+1)
	for i, c := range blockCenterCounts {
		offsets[i+1] = offsets[i] + c
	}
	total := offsets[len(offsets)-1]

	c := &Centers[T]{
		D:           d,
		Offsets:     offsets,
		Coords:      make([]T, total*d),
		Influence:   make([][]T, numWeights),
		AccumWeight: make([][]T, numWeights),
		Count:       make([]int64, total),
	}
	for w := 0; w < numWeights; w++ {
		c.Influence[w] = make([]T, total)
		for i := range c.Influence[w] {
			c.Influence[w][i] = 1
		}
		c.AccumWeight[w] = make([]T, total)
	}
	return c
}

// Total returns the total number of centers across all previous blocks.
func (c *Centers[T]) Total() int {
	return len(c.Count)
}

// Range returns the half-open [start, end) index range of centers
// belonging to previous-level block p.
func (c *Centers[T]) Range(p int) (int, int) {
	return c.Offsets[p], c.Offsets[p+1]
}

// Coord returns center idx's coordinate on axis d.
func (c *Centers[T]) Coord(idx, d int) T {
	return c.Coords[idx*c.D+d]
}

// SetCoord sets center idx's coordinate on axis d.
func (c *Centers[T]) SetCoord(idx, d int, v T) {
	c.Coords[idx*c.D+d] = v
}

// ResetAccumulators zeroes the weight and count accumulators before a new
// assignment pass recomputes them.
func (c *Centers[T]) ResetAccumulators() {
	for w := range c.AccumWeight {
		for i := range c.AccumWeight[w] {
			c.AccumWeight[w][i] = 0
		}
	}
	for i := range c.Count {
		c.Count[i] = 0
	}
}
