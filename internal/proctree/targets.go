package proctree

import "github.com/kit-parco/geographer-go/pkg/model"

// TargetWeightsAtLevel derives per-node target weights at depth h,
// proportioning totalWeight (one entry per weight axis) by each node's
// capacity share of the root's total capacity on that axis.
func (t *Tree) TargetWeightsAtLevel(h int, totalWeight []float64) [][]float64 {
	nodes := t.LevelNodes(h)
	numW := len(totalWeight)
	out := make([][]float64, numW)
	for w := 0; w < numW; w++ {
		row := make([]float64, len(nodes))
		rootCap := t.Root.Capacity[w]
		for i, n := range nodes {
			if rootCap == 0 {
				continue
			}
			row[i] = totalWeight[w] * (n.Capacity[w] / rootCap)
		}
		out[w] = row
	}
	return out
}

// LeafBlockSet derives a model.BlockSet for the leaf level, proportioning
// totalWeight by each leaf's capacity share of the root's.
func LeafBlockSet[T model.Float](t *Tree, totalWeight []T) *model.BlockSet[T] {
	k := len(t.Leaves)
	numW := len(totalWeight)
	bs := &model.BlockSet[T]{K: k, TargetWeight: make([][]T, numW)}
	for w := 0; w < numW; w++ {
		row := make([]T, k)
		rootCap := t.Root.Capacity[w]
		for i, leaf := range t.Leaves {
			if rootCap == 0 {
				continue
			}
			row[i] = totalWeight[w] * T(leaf.Capacity[w]/rootCap)
		}
		bs.TargetWeight[w] = row
	}
	return bs
}
