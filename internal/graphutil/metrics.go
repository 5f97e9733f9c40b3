package graphutil

import (
	"context"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// LocalCut returns this rank's contribution to the edge cut: the
// weight-sum of every local vertex's edges to a neighbor in a different
// block. Each cross-block edge is counted once per endpoint present in the
// graph, so GlobalCut halves the globally-reduced total for undirected
// input.
func LocalCut(g *model.LocalGraph, assignment model.Assignment, ownIndex map[int64]int, neighborLabels map[int64]int32) float64 {
	var cut float64
	for i := 0; i < g.N; i++ {
		myBlock := assignment[i]
		s, e := g.NeighborRange(i)
		for e0 := s; e0 < e; e0++ {
			nb, ok := blockOf(ownIndex, neighborLabels, assignment, g.Neighbors[e0])
			if !ok || nb == myBlock {
				continue
			}
			cut += g.EdgeWeight(e0)
		}
	}
	return cut
}

// GlobalCut reduces every rank's LocalCut into the partition's total edge
// cut.
func GlobalCut(ctx context.Context, c comm.Communicator, localCut float64) (float64, error) {
	sum, err := c.AllReduceSum(ctx, []float64{localCut})
	if err != nil {
		return 0, err
	}
	return sum[0] / 2, nil
}

// Imbalance returns, for each weight axis, the worst (most overloaded)
// block's (weight-target)/target ratio. blockWeight and target are both
// indexed [axis][block].
func Imbalance[T model.Float](blockWeight, target [][]T) []T {
	numW := len(blockWeight)
	out := make([]T, numW)
	for w := 0; w < numW; w++ {
		var worst T
		for j := range blockWeight[w] {
			t := target[w][j]
			if t == 0 {
				continue
			}
			imb := (blockWeight[w][j] - t) / t
			if imb > worst {
				worst = imb
			}
		}
		out[w] = worst
	}
	return out
}

// BorderInnerCounts partitions local vertices into border (at least one
// neighbor in a different block) and inner (all neighbors in the same
// block) counts.
func BorderInnerCounts(g *model.LocalGraph, assignment model.Assignment, ownIndex map[int64]int, neighborLabels map[int64]int32) (border, inner int) {
	for i := 0; i < g.N; i++ {
		myBlock := assignment[i]
		isBorder := false
		s, e := g.NeighborRange(i)
		for e0 := s; e0 < e; e0++ {
			nb, ok := blockOf(ownIndex, neighborLabels, assignment, g.Neighbors[e0])
			if ok && nb != myBlock {
				isBorder = true
				break
			}
		}
		if isBorder {
			border++
		} else {
			inner++
		}
	}
	return border, inner
}

// CommVolume returns, for each block, the sum over its local vertices of
// the number of distinct foreign blocks among that vertex's neighbors --
// the data a distributed solver would need to exchange per halo update.
func CommVolume(g *model.LocalGraph, assignment model.Assignment, k int, ownIndex map[int64]int, neighborLabels map[int64]int32) []int64 {
	vol := make([]int64, k)
	seen := make(map[int32]bool)
	for i := 0; i < g.N; i++ {
		myBlock := assignment[i]
		for key := range seen {
			delete(seen, key)
		}
		s, e := g.NeighborRange(i)
		for e0 := s; e0 < e; e0++ {
			nb, ok := blockOf(ownIndex, neighborLabels, assignment, g.Neighbors[e0])
			if !ok || nb == myBlock {
				continue
			}
			seen[nb] = true
		}
		vol[myBlock] += int64(len(seen))
	}
	return vol
}
