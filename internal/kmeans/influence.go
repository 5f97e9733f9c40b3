package kmeans

import (
	"math"

	"github.com/kit-parco/geographer-go/pkg/model"
)

func powT[T model.Float](base, exp T) T {
	return T(math.Pow(float64(base), float64(exp)))
}

func absT[T model.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func sqrtT[T model.Float](v T) T {
	return T(math.Sqrt(float64(v)))
}

// InfluenceState tracks each center's adaptive per-axis influence and the
// bookkeeping the optional tightenBounds and freezeBalanced modes need
// across successive updates.
type InfluenceState[T model.Float] struct {
	Exponent      T
	ChangeCap     T
	TightenBounds bool
	FreezeBalanced bool
	FreezeEpsilon T
	Erode         bool

	// LastMinRatio is the smallest multiplicative change applied to any
	// center's influence during the most recent Update call -- the
	// globalMinRatio a caller passes to ApplyInfluenceChange.
	LastMinRatio T

	prevSign [][]int8 // [axis][block]: sign of the last ratio-1 seen, 0 if unset
}

// erosionRate is the per-iteration fraction an eroded influence value moves
// back towards 1 (neutral), applied to every center regardless of whether
// its weight ratio triggered an update this pass.
const erosionRate = 0.02

// NewInfluenceState allocates influence-update state for numWeights axes
// and k centers. erode enables influence erosion: a gentle per-iteration
// pull of every center's influence back towards 1, keeping long runs from
// letting influence drift arbitrarily far from neutral once a block has
// been out of balance for many iterations.
func NewInfluenceState[T model.Float](numWeights, k int, exponent, changeCap T, tightenBounds, freezeBalanced, erode bool, freezeEpsilon T) *InfluenceState[T] {
	prevSign := make([][]int8, numWeights)
	for w := range prevSign {
		prevSign[w] = make([]int8, k)
	}
	return &InfluenceState[T]{
		Exponent:       exponent,
		ChangeCap:      changeCap,
		TightenBounds:  tightenBounds,
		FreezeBalanced: freezeBalanced,
		Erode:          erode,
		FreezeEpsilon:  freezeEpsilon,
		prevSign:       prevSign,
	}
}

// Update applies one influence-update pass: for every (axis, block) whose
// weight ratio to its target departs the freeze tolerance, the block's
// influence is multiplied by ratio^exponent, clamped to [1-changeCap,
// 1+changeCap]. When tightenBounds is set, a block whose ratio crosses 1
// from the direction it crossed last time (oscillation) has its change cap
// multiplied by 0.9, shrinking it geometrically towards 0 to damp the
// oscillation.
func (s *InfluenceState[T]) Update(centers *model.Centers[T], blockWeight, target [][]T) {
	var minRatio T = 1
	first := true

	for w := 0; w < len(centers.Influence); w++ {
		for b := 0; b < centers.Total(); b++ {
			t := target[w][b]
			if t == 0 {
				continue
			}
			ratio := blockWeight[w][b] / t

			if s.FreezeBalanced && absT(ratio-1) < s.FreezeEpsilon {
				continue
			}

			mult := powT(ratio, s.Exponent)
			if mult > 1+s.ChangeCap {
				mult = 1 + s.ChangeCap
			}
			if mult < 1-s.ChangeCap {
				mult = 1 - s.ChangeCap
			}

			if s.TightenBounds {
				var sign int8
				if ratio > 1 {
					sign = 1
				} else if ratio < 1 {
					sign = -1
				}
				if sign != 0 && s.prevSign[w][b] != 0 && sign != s.prevSign[w][b] {
					s.ChangeCap = 0.9 * s.ChangeCap
				}
				if sign != 0 {
					s.prevSign[w][b] = sign
				}
			}

			centers.Influence[w][b] *= mult
			if first || mult < minRatio {
				minRatio = mult
				first = false
			}
		}
	}

	if s.Erode {
		for w := 0; w < len(centers.Influence); w++ {
			for b := 0; b < centers.Total(); b++ {
				inf := centers.Influence[w][b]
				centers.Influence[w][b] = inf - erosionRate*(inf-1)
			}
		}
	}

	s.LastMinRatio = minRatio
}
