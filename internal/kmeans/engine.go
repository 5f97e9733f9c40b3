package kmeans

import (
	"context"
	"math"
	"time"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/sfc"
	"github.com/kit-parco/geographer-go/pkg/model"
	"github.com/kit-parco/geographer-go/pkg/telemetry"
	"github.com/kit-parco/geographer-go/pkg/utils"
)

// EngineConfig collects every knob the bounded-assignment loop and its
// surrounding schedule need. It is independent of pkg/config's
// viper-facing shape so the engine itself has no dependency on the
// configuration-loading layer; a caller translates validated config into
// this struct once at startup.
type EngineConfig[T model.Float] struct {
	Epsilon []T // per weight axis, imbalance tolerance

	MinSamplingNodes    int
	MaxKMeansIterations int
	BalanceIterations   int

	InfluenceExponent  T
	InfluenceChangeCap T
	TightenBounds      bool
	FreezeBalanced     bool
	ErodeInfluence     bool
	FreezeEpsilon      T

	KeepMostBalanced           bool
	ConvergenceThresholdFactor T // fraction of the domain diagonal below which center movement counts as converged

	Rebalance *RebalanceConfig[T] // nil disables the rebalance pass

	NumRanks int
}

// Result is the outcome of running the partitioner to completion or to its
// iteration caps.
type Result[T model.Float] struct {
	Assignment     model.Assignment
	Imbalance      []T
	Iterations     int
	Converged      bool
	PhaseDurations map[string]time.Duration
}

func boxDiagonal[T model.Float](box *model.BoundingBox[T]) T {
	var sq T
	for d := 0; d < box.Dims(); d++ {
		e := box.Extent(d)
		sq += e * e
	}
	return T(math.Sqrt(float64(sq)))
}

// RunFlat executes one (non-hierarchical) balanced k-means partition over
// points against centers/target: the bounded-assignment loop with adaptive
// influences, the sampled early-iteration schedule, center recomputation,
// repeated until geometric convergence or the iteration caps are hit, and
// finally the optional rebalance pass.
func RunFlat[T model.Float](
	ctx context.Context,
	c comm.Communicator,
	points *model.PointSet[T],
	previous []int32,
	centers *model.Centers[T],
	target [][]T,
	cfg EngineConfig[T],
) (*Result[T], error) {
	ctx, span := telemetry.StartSpan(ctx, "kmeans.RunFlat")
	defer span.End()

	// A Timer is created fresh for every call rather than shared across
	// ranks: internal/comm.LocalWorld runs one goroutine per rank, and a
	// shared Timer's phase map is keyed by name, so concurrent Start calls
	// for the same phase from different ranks would stomp each other.
	timer := utils.NewTimer("kmeans.RunFlat")

	n := points.N
	k := centers.Total()
	d := points.D
	numW := points.NumWeights()

	assignment := model.NewAssignment(n)
	bounds := model.NewBounds[T](n)
	bounds.Reset(T(math.MaxFloat32))

	box, err := sfc.GlobalBounds(ctx, c, points)
	if err != nil {
		return nil, err
	}
	threshold := boxDiagonal(box) * cfg.ConvergenceThresholdFactor
	guard := epsGuard[T](d)

	influenceState := NewInfluenceState[T](numW, k, cfg.InfluenceExponent, cfg.InfluenceChangeCap, cfg.TightenBounds, cfg.FreezeBalanced, cfg.ErodeInfluence, cfg.FreezeEpsilon)

	schedule := SamplingSchedule(n, k, cfg.NumRanks, cfg.MinSamplingNodes)
	fullOnly := []int{n}
	order := CantorOrder(n)

	var imb []T
	var bestAssignment model.Assignment
	var bestImb []T
	bestWorst := T(-1)

	iteration := 0
	converged := false
	fullReached := false
	var lastRecompute *RecomputeResult[T]

	iteratePhase := timer.Start("kmeans-iterate")
	for iteration < cfg.MaxKMeansIterations && !converged {
		var lastCoordSum, lastBlockWeight [][]T
		lastRoundWasFull := false

		// Once the schedule has reached the full set, every later outer pass
		// runs on the full set only -- sampling is an early-iteration ramp,
		// not something to restart each time centers are recomputed.
		rounds := schedule
		if fullReached {
			rounds = fullOnly
		}

		for _, sampleSize := range rounds {
			if iteration >= cfg.MaxKMeansIterations {
				break
			}
			indices := order[:sampleSize]

			roundTarget := target
			if sampleSize != n {
				ratio, err := sampleRatio(ctx, c, points, indices, numW)
				if err != nil {
					return nil, err
				}
				roundTarget = ScaleTargets(target, ratio)
			}

			var blockWeight, coordSum [][]T
			for bi := 0; bi < cfg.BalanceIterations; bi++ {
				centers.ResetAccumulators()
				coordSum = newCoordSum[T](numW, k, d)

				AssignPass(points, indices, centers, coordSum, previous, assignment, bounds, box, guard)

				blockWeight, coordSum, err = reduceAccumulators(ctx, c, centers, coordSum)
				if err != nil {
					return nil, err
				}

				imb = imbalanceVector(blockWeight, roundTarget)
				if withinEpsilon(imb, cfg.Epsilon) {
					break
				}

				oldTotal := totalInfluence(centers)
				influenceState.Update(centers, blockWeight, roundTarget)
				newTotal := totalInfluence(centers)
				ApplyInfluenceChange(bounds, assignment, newTotal, oldTotal, influenceState.LastMinRatio, guard)
			}

			worst := maxOf(imb)
			if bestWorst < 0 || worst < bestWorst {
				bestWorst = worst
				bestAssignment = assignment.Clone()
				bestImb = imb
			}

			iteration++
			lastCoordSum, lastBlockWeight = coordSum, blockWeight
			lastRoundWasFull = sampleSize == n

			if withinEpsilon(imb, cfg.Epsilon) {
				converged = true
				break
			}
		}

		if lastRoundWasFull {
			fullReached = true
		}

		if lastRoundWasFull && lastCoordSum != nil {
			lastRecompute = Recompute(centers, lastCoordSum, lastBlockWeight)
			LoosenForCenterMovement(bounds, assignment, lastRecompute.Movement, groupMinMovement(centers, lastRecompute.Movement))
			if !converged && lastRecompute.MaxMovement < threshold {
				converged = true
			}
		}
	}
	iteratePhase.Stop()

	final := assignment
	finalImb := imb
	if cfg.KeepMostBalanced && bestAssignment != nil {
		final = bestAssignment
		finalImb = bestImb
	}

	if cfg.Rebalance != nil {
		rebalPhase := timer.Start("rebalance")
		rebalanced, rebalImb, err := Rebalance(ctx, c, points, centers, previous, final, target, cfg.Epsilon, *cfg.Rebalance)
		rebalPhase.Stop()
		if err != nil {
			return nil, err
		}
		final = rebalanced
		finalImb = rebalImb
	}

	durations := make(map[string]time.Duration)
	for _, p := range timer.GetPhases() {
		durations[p.Name] = p.Duration
	}

	return &Result[T]{
		Assignment:     final,
		Imbalance:      finalImb,
		Iterations:     iteration,
		Converged:      converged,
		PhaseDurations: durations,
	}, nil
}
