package kmeans

import "github.com/kit-parco/geographer-go/pkg/model"

// EffectiveDistance returns the influence-weighted squared distance between
// local point i and center c: the squared Euclidean distance scaled by the
// weight-normalized sum of that center's per-axis influences. This product,
// not a true metric distance, is what the bounded-assignment loop sorts,
// bounds and compares centers by.
func EffectiveDistance[T model.Float](points *model.PointSet[T], i int, centers *model.Centers[T], c int) T {
	var sq T
	for d := 0; d < points.D; d++ {
		diff := points.Coord(i, d) - centers.Coord(c, d)
		sq += diff * diff
	}

	numW := points.NumWeights()
	var total T
	for w := 0; w < numW; w++ {
		total += points.Weight(i, w)
	}
	if total == 0 {
		total = 1
	}

	var weighted T
	for w := 0; w < numW; w++ {
		norm := points.Weight(i, w) / total
		weighted += centers.Influence[w][c] * norm
	}
	return sq * weighted
}

// distanceToBox returns the minimum possible squared distance from any
// point inside box to the coordinate coords -- zero if coords already lies
// within box on every axis.
func distanceToBox[T model.Float](box *model.BoundingBox[T], coords []T) T {
	var sq T
	for d, v := range coords {
		if v < box.Min[d] {
			diff := box.Min[d] - v
			sq += diff * diff
		} else if v > box.Max[d] {
			diff := v - box.Max[d]
			sq += diff * diff
		}
	}
	return sq
}

// ApplyInfluenceChange relaxes bounds after an influence update, the way an
// inner balance iteration does: the upper bound for point i's assigned
// center scales by that center's influence ratio, and the lower bound
// shrinks by the smallest ratio seen across any center this pass, with a
// small guard to absorb round-off.
func ApplyInfluenceChange[T model.Float](bounds *model.Bounds[T], assignment model.Assignment, newTotal, oldTotal []T, globalMinRatio, guard T) {
	for i := range bounds.Upper {
		c := assignment[i]
		if c < 0 {
			continue
		}
		if oldTotal[c] == 0 {
			continue
		}
		bounds.Upper[i] = bounds.Upper[i]*(newTotal[c]/oldTotal[c]) + guard
		bounds.Lower[i] = bounds.Lower[i]*globalMinRatio - guard
		if bounds.Lower[i] < 0 {
			bounds.Lower[i] = 0
		}
	}
}

// LoosenForCenterMovement relaxes bounds after centers are recomputed to
// new positions, using each point's assigned center's own movement and the
// smallest movement among centers competing for the same previous block.
func LoosenForCenterMovement[T model.Float](bounds *model.Bounds[T], assignment model.Assignment, centerMovement, minOtherMovement []T) {
	for i := range bounds.Upper {
		c := assignment[i]
		if c < 0 {
			continue
		}
		bounds.Loosen(i, centerMovement[c], minOtherMovement[c])
	}
}
