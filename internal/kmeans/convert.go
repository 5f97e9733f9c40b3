// Package kmeans implements the balanced k-means partitioning core:
// initial-center selection, the bounded-assignment loop with adaptive
// per-block influences, the sampled iteration schedule, center
// recomputation, the hierarchical driver, and the rebalance pass.
package kmeans

import "github.com/kit-parco/geographer-go/pkg/model"

func toFloat64[T model.Float](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func fromFloat64[T model.Float](v []float64) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = T(x)
	}
	return out
}

// epsGuard returns the small tolerance added before bound comparisons to
// absorb floating-point round-off, scaled by the point dimension.
func epsGuard[T model.Float](d int) T {
	return T(1e-6 * float64(d))
}

func maxOf[T model.Float](v []T) T {
	var m T
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

func withinEpsilon[T model.Float](imb, eps []T) bool {
	for w := range imb {
		if imb[w] > eps[w] {
			return false
		}
	}
	return true
}

// totalInfluence sums every weight axis' influence for each center,
// giving a single scalar per center to compare before/after an influence
// update.
func totalInfluence[T model.Float](centers *model.Centers[T]) []T {
	k := centers.Total()
	out := make([]T, k)
	for w := range centers.Influence {
		for c := 0; c < k; c++ {
			out[c] += centers.Influence[w][c]
		}
	}
	return out
}

// groupMinMovement returns, for each center, the minimum geometric
// movement among every center sharing its previous-block group (including
// itself) -- a conservative stand-in for "movement of the nearest other
// center", since including the center's own movement can only make the
// minimum smaller or equal, never larger, keeping bound relaxation safe.
func groupMinMovement[T model.Float](centers *model.Centers[T], movement []T) []T {
	out := make([]T, len(movement))
	numGroups := len(centers.Offsets) - 1
	for g := 0; g < numGroups; g++ {
		start, end := centers.Range(g)
		if end <= start {
			continue
		}
		min := movement[start]
		for i := start + 1; i < end; i++ {
			if movement[i] < min {
				min = movement[i]
			}
		}
		for i := start; i < end; i++ {
			out[i] = min
		}
	}
	return out
}
