package kmeans

import (
	"context"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// reduceAccumulators globally sums a centers set's per-block weight
// accumulators and the parallel coordinate-weighted sums in one collective,
// returning both as [axis][block] / [axis][block*D] tables.
func reduceAccumulators[T model.Float](ctx context.Context, c comm.Communicator, centers *model.Centers[T], coordSum [][]T) (blockWeight, globalCoordSum [][]T, err error) {
	numW := len(centers.AccumWeight)
	k := centers.Total()
	d := centers.D

	flat := make([]float64, numW*k+numW*k*d)
	off := 0
	for w := 0; w < numW; w++ {
		for _, v := range centers.AccumWeight[w] {
			flat[off] = float64(v)
			off++
		}
	}
	for w := 0; w < numW; w++ {
		for _, v := range coordSum[w] {
			flat[off] = float64(v)
			off++
		}
	}

	summed, err := c.AllReduceSum(ctx, flat)
	if err != nil {
		return nil, nil, err
	}

	blockWeight = make([][]T, numW)
	off = 0
	for w := 0; w < numW; w++ {
		blockWeight[w] = make([]T, k)
		for i := range blockWeight[w] {
			blockWeight[w][i] = T(summed[off])
			off++
		}
	}
	globalCoordSum = make([][]T, numW)
	for w := 0; w < numW; w++ {
		globalCoordSum[w] = make([]T, k*d)
		for i := range globalCoordSum[w] {
			globalCoordSum[w][i] = T(summed[off])
			off++
		}
	}
	return blockWeight, globalCoordSum, nil
}

// RecomputeResult reports each center's geometric shift from its previous
// position after a recomputation pass.
type RecomputeResult[T model.Float] struct {
	Movement    []T
	MaxMovement T
}

// Recompute replaces every center with the weighted centroid of its
// currently assigned points, averaged across weight axes, from globally
// reduced coordinate sums and weight totals. A center with no assigned
// weight on any axis (an empty block) keeps its previous position.
func Recompute[T model.Float](centers *model.Centers[T], coordSum, weightTotal [][]T) *RecomputeResult[T] {
	total := centers.Total()
	d := centers.D
	numW := len(coordSum)

	old := make([]T, len(centers.Coords))
	copy(old, centers.Coords)

	accum := make([]T, d)
	for c := 0; c < total; c++ {
		for i := range accum {
			accum[i] = 0
		}
		axesUsed := 0
		for w := 0; w < numW; w++ {
			wt := weightTotal[w][c]
			if wt == 0 {
				continue
			}
			axesUsed++
			base := c * d
			for dd := 0; dd < d; dd++ {
				accum[dd] += coordSum[w][base+dd] / wt
			}
		}
		if axesUsed == 0 {
			continue
		}
		for dd := 0; dd < d; dd++ {
			centers.SetCoord(c, dd, accum[dd]/T(axesUsed))
		}
	}

	movement := make([]T, total)
	var maxMovement T
	for c := 0; c < total; c++ {
		var sq T
		for dd := 0; dd < d; dd++ {
			diff := centers.Coord(c, dd) - old[c*d+dd]
			sq += diff * diff
		}
		mv := sqrtT(sq)
		movement[c] = mv
		if mv > maxMovement {
			maxMovement = mv
		}
	}
	return &RecomputeResult[T]{Movement: movement, MaxMovement: maxMovement}
}
