package kmeans

import (
	"context"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// SamplingSchedule derives the sequence of local sample sizes an outer
// iteration runs on: starting from minSamplingNodes*(k/p) points, doubling
// until the full local set size is reached, with the full set always the
// final (and possibly only) entry. If the starting size already covers or
// exceeds the local set, sampling is skipped and every round uses every
// local point.
func SamplingSchedule(localN, k, p, minSamplingNodes int) []int {
	start := minSamplingNodes * k / p
	if start <= 0 || start >= localN {
		return []int{localN}
	}
	var sizes []int
	for size := start; size < localN; size *= 2 {
		sizes = append(sizes, size)
	}
	return append(sizes, localN)
}

func reverseBits(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// CantorOrder returns a bit-reversal (Van der Corput / Cantor-style)
// permutation of [0,n): any prefix of the permutation is a low-discrepancy
// spread across the full index range rather than a contiguous run, which is
// what lets a sampled iteration use a small prefix of local points and
// still see a representative cross-section of the local cloud.
func CantorOrder(n int) []int {
	bitsNeeded := 0
	for (1 << bitsNeeded) < n {
		bitsNeeded++
	}

	seen := make([]bool, n)
	out := make([]int, 0, n)
	for i := 0; i < (1 << bitsNeeded); i++ {
		v := reverseBits(i, bitsNeeded)
		if v < n && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}

// sampleRatio computes, per weight axis, the ratio of this sample's global
// total weight to the full point cloud's global total weight -- the factor
// a sampled iteration scales its target block weights by, so a partial
// sample is still judged against a proportionally partial target. Computed
// per axis against the global (not just local) totals, since a per-rank
// ratio would drift from the true sampling fraction whenever ranks hold
// uneven shares of the weight.
func sampleRatio[T model.Float](ctx context.Context, c comm.Communicator, points *model.PointSet[T], indices []int, numW int) ([]T, error) {
	inSample := make([]bool, points.N)
	for _, i := range indices {
		inSample[i] = true
	}

	combined := make([]float64, 2*numW)
	for i := 0; i < points.N; i++ {
		for w := 0; w < numW; w++ {
			wt := float64(points.Weight(i, w))
			combined[numW+w] += wt
			if inSample[i] {
				combined[w] += wt
			}
		}
	}

	summed, err := c.AllReduceSum(ctx, combined)
	if err != nil {
		return nil, err
	}

	out := make([]T, numW)
	for w := 0; w < numW; w++ {
		g := summed[numW+w]
		if g == 0 {
			out[w] = 1
			continue
		}
		out[w] = T(summed[w] / g)
	}
	return out, nil
}

// ScaleTargets multiplies every block's target weight on axis w by ratio[w].
func ScaleTargets[T model.Float](target [][]T, ratio []T) [][]T {
	out := make([][]T, len(target))
	for w := range target {
		out[w] = make([]T, len(target[w]))
		for b := range target[w] {
			out[w][b] = target[w][b] * ratio[w]
		}
	}
	return out
}
