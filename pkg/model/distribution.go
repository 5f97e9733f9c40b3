package model

// Distribution maps global point indices to owning ranks. The partitioner
// starts from whatever distribution the input arrived in (typically a
// contiguous block per rank) and, after the SFC redistribution pass,
// switches to a distribution keyed by Hilbert-curve order so that
// geometrically nearby points end up rank-adjacent.
type Distribution interface {
	// NumPoints returns the total number of points across all ranks.
	NumPoints() int64

	// NumRanks returns the number of ranks the points are distributed over.
	NumRanks() int

	// Owner returns the rank owning the given global point index.
	Owner(globalIndex int64) int

	// LocalIndices returns the global indices owned by the given rank, in
	// the order they appear locally.
	LocalIndices(rank int) []int64
}

// BlockDistribution splits NumPoints points into NumRanks contiguous
// blocks of near-equal size, the natural distribution of data read
// straight off disk in global-index order. This is the input distribution
// before SFC redistribution runs.
type BlockDistribution struct {
	total    int64
	numRanks int
	starts   []int64 // starts[r] is the first global index owned by rank r; starts[numRanks] = total
}

// NewBlockDistribution builds a block distribution of total points over
// numRanks ranks, with the remainder spread across the first ranks.
func NewBlockDistribution(total int64, numRanks int) *BlockDistribution {
	starts := make([]int64, numRanks+1)
	base := total / int64(numRanks)
	rem := total % int64(numRanks)
	cursor := int64(0)
	for r := 0; r < numRanks; r++ {
		starts[r] = cursor
		size := base
		if int64(r) < rem {
			size++
		}
		cursor += size
	}
	starts[numRanks] = total
	return &BlockDistribution{total: total, numRanks: numRanks, starts: starts}
}

func (bd *BlockDistribution) NumPoints() int64 { return bd.total }
func (bd *BlockDistribution) NumRanks() int     { return bd.numRanks }

func (bd *BlockDistribution) Owner(globalIndex int64) int {
	for r := 0; r < bd.numRanks; r++ {
		if globalIndex >= bd.starts[r] && globalIndex < bd.starts[r+1] {
			return r
		}
	}
	return bd.numRanks - 1
}

func (bd *BlockDistribution) LocalIndices(rank int) []int64 {
	start, end := bd.starts[rank], bd.starts[rank+1]
	out := make([]int64, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// LocalRange returns the half-open [start, end) global index range owned
// by rank, a convenience for callers that only need the bounds.
func (bd *BlockDistribution) LocalRange(rank int) (int64, int64) {
	return bd.starts[rank], bd.starts[rank+1]
}

// GeneralDistribution records an arbitrary, explicit assignment of global
// indices to ranks, e.g. the result of sorting points by Hilbert index and
// cutting the sorted order into per-rank chunks. Unlike BlockDistribution
// it carries the permutation directly rather than deriving it from a
// formula.
type GeneralDistribution struct {
	total    int64
	numRanks int
	owner    []int32   // owner[globalIndex] = rank
	local    [][]int64 // local[r] = global indices owned by rank r, in local order
}

// NewGeneralDistribution builds a distribution directly from a per-rank
// listing of the global indices each rank owns, as produced by the SFC
// redistribution's global sort.
func NewGeneralDistribution(total int64, perRank [][]int64) *GeneralDistribution {
	owner := make([]int32, total)
	for r, indices := range perRank {
		for _, gi := range indices {
			owner[gi] = int32(r)
		}
	}
	return &GeneralDistribution{
		total:    total,
		numRanks: len(perRank),
		owner:    owner,
		local:    perRank,
	}
}

func (gd *GeneralDistribution) NumPoints() int64 { return gd.total }
func (gd *GeneralDistribution) NumRanks() int     { return gd.numRanks }

func (gd *GeneralDistribution) Owner(globalIndex int64) int {
	return int(gd.owner[globalIndex])
}

func (gd *GeneralDistribution) LocalIndices(rank int) []int64 {
	return gd.local[rank]
}
