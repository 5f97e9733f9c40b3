package kmeans

import (
	"sort"

	"github.com/kit-parco/geographer-go/pkg/model"
)

// sortedCenter pairs a center index with the pruning key the bounded
// assignment loop scans centers in order of: a lower bound on the true
// effective distance from any point in the local bounding box to that
// center, so once the key exceeds a point's current second-best effective
// distance no later center in the order can improve on it.
type sortedCenter[T model.Float] struct {
	idx int
	key T
}

// sortedScanOrder orders the centers in [start,end) -- one previous-block
// group -- by their pruning key against box.
func sortedScanOrder[T model.Float](centers *model.Centers[T], box *model.BoundingBox[T], start, end int) []sortedCenter[T] {
	out := make([]sortedCenter[T], 0, end-start)
	coords := make([]T, centers.D)
	for idx := start; idx < end; idx++ {
		for d := 0; d < centers.D; d++ {
			coords[d] = centers.Coord(idx, d)
		}
		dmin2 := distanceToBox(box, coords)

		var minInfluence T
		first := true
		for w := range centers.Influence {
			inf := centers.Influence[w][idx]
			if first || inf < minInfluence {
				minInfluence = inf
				first = false
			}
		}
		out = append(out, sortedCenter[T]{idx: idx, key: dmin2 * minInfluence})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].key != out[j].key {
			return out[i].key < out[j].key
		}
		return out[i].idx < out[j].idx
	})
	return out
}

// newCoordSum allocates a zeroed scratch buffer, one row per weight axis,
// row length k*d, for AssignPass to accumulate weighted coordinate sums
// into ahead of a global reduction.
func newCoordSum[T model.Float](numW, k, d int) [][]T {
	out := make([][]T, numW)
	for w := range out {
		out[w] = make([]T, k*d)
	}
	return out
}

func accumulate[T model.Float](points *model.PointSet[T], centers *model.Centers[T], coordSum [][]T, i int, block int32) {
	base := int(block) * points.D
	for w := 0; w < points.NumWeights(); w++ {
		wt := points.Weight(i, w)
		centers.AccumWeight[w][block] += wt
		for d := 0; d < points.D; d++ {
			coordSum[w][base+d] += wt * points.Coord(i, d)
		}
	}
	centers.Count[block]++
}

// AssignPass runs one bounded-assignment pass over indices (the full local
// point set, or a sampled subset), updating assignment, bounds and the
// centers' weight/coordinate accumulators in place. previous gives each
// point's previous-level block (nil means every point competes among all
// centers, previous block 0).
func AssignPass[T model.Float](
	points *model.PointSet[T],
	indices []int,
	centers *model.Centers[T],
	coordSum [][]T,
	previous []int32,
	assignment model.Assignment,
	bounds *model.Bounds[T],
	box *model.BoundingBox[T],
	guard T,
) {
	numGroups := len(centers.Offsets) - 1
	scanOrders := make([][]sortedCenter[T], numGroups)
	for b := 0; b < numGroups; b++ {
		start, end := centers.Range(b)
		scanOrders[b] = sortedScanOrder(centers, box, start, end)
	}

	for _, i := range indices {
		b := 0
		if previous != nil {
			b = int(previous[i])
		}
		order := scanOrders[b]
		cur := assignment[i]

		if cur >= 0 && bounds.Lower[i] > bounds.Upper[i]+guard {
			accumulate(points, centers, coordSum, i, cur)
			continue
		}

		if cur >= 0 {
			eff := EffectiveDistance(points, i, centers, int(cur))
			bounds.Upper[i] = eff
			if bounds.Lower[i] > bounds.Upper[i]+guard {
				accumulate(points, centers, coordSum, i, cur)
				continue
			}
		}

		var best, second int32 = -1, -1
		var bestEff, secondEff T
		firstBest, firstSecond := true, true
		for _, sc := range order {
			if !firstSecond && sc.key > secondEff {
				break
			}
			eff := EffectiveDistance(points, i, centers, sc.idx)
			switch {
			case firstBest || eff < bestEff:
				second, secondEff, firstSecond = best, bestEff, firstBest
				best, bestEff, firstBest = int32(sc.idx), eff, false
			case firstSecond || eff < secondEff:
				second, secondEff, firstSecond = int32(sc.idx), eff, false
			}
		}
		_ = second

		assignment[i] = best
		bounds.Upper[i] = bestEff
		bounds.Lower[i] = secondEff
		accumulate(points, centers, coordSum, i, best)
	}
}
