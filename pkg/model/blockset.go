package model

// BlockSet describes the target partition shape: how many blocks, and how
// much weight each block should receive under every weight criterion.
// Uniform partitioning (every block gets 1/K of the total weight) is the
// common case, but hierarchical partitioning and custom block-sizes files
// both produce non-uniform TargetWeight tables.
type BlockSet[T Float] struct {
	K int

	// TargetWeight[w][b] is the weight criterion w assigned to block b.
	// Rows sum to the total weight of the point set under that criterion
	// (up to rounding).
	TargetWeight [][]T
}

// NewUniformBlockSet builds a BlockSet where every block receives an equal
// share of totalWeight under each of numWeights criteria.
func NewUniformBlockSet[T Float](k, numWeights int, totalWeight []T) *BlockSet[T] {
	bs := &BlockSet[T]{
		K:            k,
		TargetWeight: make([][]T, numWeights),
	}
	for w := 0; w < numWeights; w++ {
		row := make([]T, k)
		share := totalWeight[w] / T(k)
		for b := range row {
			row[b] = share
		}
		bs.TargetWeight[w] = row
	}
	return bs
}

// Target returns the target weight for block b under criterion w.
func (bs *BlockSet[T]) Target(b, w int) T {
	return bs.TargetWeight[w][b]
}
