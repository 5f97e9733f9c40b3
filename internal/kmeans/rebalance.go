package kmeans

import (
	"context"
	"sort"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// RebalanceConfig configures the post-convergence repartition pass.
type RebalanceConfig[T model.Float] struct {
	// NearestCount bounds both the membership-score neighborhood and the
	// number of alternative centers a point considers when looking for a
	// better home.
	NearestCount int

	// BatchFraction is the share of local points processed between each
	// global weight-delta correction (a cheap local estimate is used for
	// move decisions between corrections).
	BatchFraction T

	MaxRounds        int
	MinMovedFraction T
}

func imbalanceOf[T model.Float](weight, target T) T {
	if target == 0 {
		return 0
	}
	imb := (weight - target) / target
	if imb < 0 {
		return 0
	}
	return imb
}

func worstImbalance[T model.Float](weight, target [][]T) T {
	var worst T
	for w := range weight {
		for b := range weight[w] {
			imb := imbalanceOf(weight[w][b], target[w][b])
			if imb > worst {
				worst = imb
			}
		}
	}
	return worst
}

// membershipScores scores each local point by how deep inside its block it
// sits: one minus the ratio of its effective distance to the nearest center
// against the sum of effective distances to the next nearestCount-1 nearest
// centers, normalized per
// block by the largest local score observed in that block. Low scores
// (near a boundary) are visited first when looking for profitable moves.
func membershipScores[T model.Float](points *model.PointSet[T], centers *model.Centers[T], previous []int32, assignment model.Assignment, nearestCount int) []T {
	n := points.N
	scores := make([]T, n)

	type cd struct {
		idx int
		eff T
	}

	for i := 0; i < n; i++ {
		b := 0
		if previous != nil {
			b = int(previous[i])
		}
		start, end := centers.Range(b)
		cands := make([]cd, 0, end-start)
		for idx := start; idx < end; idx++ {
			cands = append(cands, cd{idx, EffectiveDistance(points, i, centers, idx)})
		}
		sort.Slice(cands, func(a, b2 int) bool { return cands[a].eff < cands[b2].eff })

		k := nearestCount
		if k > len(cands) {
			k = len(cands)
		}
		if k < 2 {
			continue
		}
		nearest := cands[0].eff
		var rest T
		for j := 1; j < k; j++ {
			rest += cands[j].eff
		}
		if rest == 0 {
			scores[i] = 0
		} else {
			scores[i] = 1 - nearest/rest
		}
	}

	maxPerBlock := make(map[int32]T)
	for i := 0; i < n; i++ {
		blk := assignment[i]
		if blk < 0 {
			continue
		}
		if cur, ok := maxPerBlock[blk]; !ok || scores[i] > cur {
			maxPerBlock[blk] = scores[i]
		}
	}
	for i := 0; i < n; i++ {
		blk := assignment[i]
		if blk < 0 {
			continue
		}
		if m := maxPerBlock[blk]; m > 0 {
			scores[i] /= m
		}
	}
	return scores
}

// wouldImprove reports whether moving point i from block "from" to block
// "to" improves at least one weight axis' imbalance without pushing any
// axis' imbalance for "to" past the current worst imbalance anywhere.
func wouldImprove[T model.Float](points *model.PointSet[T], i int, from, to int32, currentWeight, target [][]T, numW int) bool {
	worstBefore := worstImbalance(currentWeight, target)
	improved := false
	worsened := false
	for w := 0; w < numW; w++ {
		wt := points.Weight(i, w)
		fromAfter := currentWeight[w][from] - wt
		toAfter := currentWeight[w][to] + wt

		imbFromBefore := imbalanceOf(currentWeight[w][from], target[w][from])
		imbFromAfter := imbalanceOf(fromAfter, target[w][from])
		imbToBefore := imbalanceOf(currentWeight[w][to], target[w][to])
		imbToAfter := imbalanceOf(toAfter, target[w][to])

		if imbToAfter > worstBefore {
			worsened = true
		}
		if imbFromAfter < imbFromBefore || imbToAfter < imbToBefore {
			improved = true
		}
	}
	return improved && !worsened
}

// Rebalance runs the repartition pass after the bounded-assignment loop has
// converged: points are visited in ascending membership-score order (those
// nearest a boundary first) and greedily reassigned to a better-fitting
// nearby center, with weight-delta corrections batched across a fraction of
// local points and globally summed between batches. The best (lowest
// worst-axis imbalance) snapshot seen across every round is returned,
// regardless of where the final round landed.
func Rebalance[T model.Float](
	ctx context.Context,
	c comm.Communicator,
	points *model.PointSet[T],
	centers *model.Centers[T],
	previous []int32,
	assignment model.Assignment,
	target [][]T,
	eps []T,
	cfg RebalanceConfig[T],
) (model.Assignment, []T, error) {
	numW := points.NumWeights()
	k := centers.Total()

	currentWeight := make([][]T, numW)
	for w := 0; w < numW; w++ {
		local := make([]T, k)
		for i := 0; i < points.N; i++ {
			if blk := assignment[i]; blk >= 0 {
				local[blk] += points.Weight(i, w)
			}
		}
		summed, err := c.AllReduceSum(ctx, toFloat64(local))
		if err != nil {
			return nil, nil, err
		}
		currentWeight[w] = fromFloat64[T](summed)
	}

	imb := imbalanceVector(currentWeight, target)
	bestAssignment := assignment.Clone()
	bestImb := imb
	bestWorst := maxOf(imb)

	batchSize := int(float64(points.N) * float64(cfg.BatchFraction))
	if batchSize < 1 {
		batchSize = 1
	}

	for round := 0; round < cfg.MaxRounds; round++ {
		if withinEpsilon(imb, eps) {
			break
		}

		scores := membershipScores(points, centers, previous, assignment, cfg.NearestCount)
		order := make([]int, points.N)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

		moved := 0
		pendingDelta := make([][]T, numW)
		for w := range pendingDelta {
			pendingDelta[w] = make([]T, k)
		}
		sinceBatch := 0

		flush := func() error {
			for w := 0; w < numW; w++ {
				summed, err := c.AllReduceSum(ctx, toFloat64(pendingDelta[w]))
				if err != nil {
					return err
				}
				delta := fromFloat64[T](summed)
				for b := range delta {
					currentWeight[w][b] += delta[b] - pendingDelta[w][b]
					pendingDelta[w][b] = 0
				}
			}
			return nil
		}

		for _, i := range order {
			b := 0
			if previous != nil {
				b = int(previous[i])
			}
			start, end := centers.Range(b)
			cur := assignment[i]

			type cd struct {
				idx int
				eff T
			}
			cands := make([]cd, 0, end-start)
			for idx := start; idx < end; idx++ {
				cands = append(cands, cd{idx, EffectiveDistance(points, i, centers, idx)})
			}
			sort.Slice(cands, func(a, b2 int) bool { return cands[a].eff < cands[b2].eff })

			limit := cfg.NearestCount
			if limit > len(cands) {
				limit = len(cands)
			}
			for j := 0; j < limit; j++ {
				cand := int32(cands[j].idx)
				if cand == cur {
					continue
				}
				if wouldImprove(points, i, cur, cand, currentWeight, target, numW) {
					for w := 0; w < numW; w++ {
						wt := points.Weight(i, w)
						currentWeight[w][cur] -= wt
						currentWeight[w][cand] += wt
						pendingDelta[w][cur] -= wt
						pendingDelta[w][cand] += wt
					}
					assignment[i] = cand
					moved++
					break
				}
			}

			sinceBatch++
			if sinceBatch >= batchSize {
				if err := flush(); err != nil {
					return nil, nil, err
				}
				sinceBatch = 0
			}
		}
		if err := flush(); err != nil {
			return nil, nil, err
		}

		imb = imbalanceVector(currentWeight, target)
		if worst := maxOf(imb); worst < bestWorst {
			bestWorst = worst
			bestImb = imb
			bestAssignment = assignment.Clone()
		}

		if T(moved)/T(points.N) < cfg.MinMovedFraction {
			break
		}
	}

	return bestAssignment, bestImb, nil
}

func imbalanceVector[T model.Float](weight, target [][]T) []T {
	numW := len(weight)
	out := make([]T, numW)
	for w := 0; w < numW; w++ {
		var worst T
		for b := range weight[w] {
			imb := imbalanceOf(weight[w][b], target[w][b])
			if imb > worst {
				worst = imb
			}
		}
		out[w] = worst
	}
	return out
}
