package kmeans

import (
	"context"
	"time"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/proctree"
	"github.com/kit-parco/geographer-go/pkg/model"
	"github.com/kit-parco/geographer-go/pkg/telemetry"
	"github.com/kit-parco/geographer-go/pkg/utils"
)

// RunHierarchical partitions points level by level against tree: at depth
// h, every node from depth h-1 spawns its own independent group of
// children, and only points already assigned to that parent compete for
// its children's centers. The root level (h=0, a single group covering
// every point) seeds previous as nil; every subsequent level's previous is
// the prior level's resulting assignment.
func RunHierarchical[T model.Float](
	ctx context.Context,
	c comm.Communicator,
	points *model.PointSet[T],
	tree *proctree.Tree,
	totalWeight []T,
	cfg EngineConfig[T],
) (*Result[T], error) {
	ctx, span := telemetry.StartSpan(ctx, "kmeans.RunHierarchical")
	defer span.End()

	var previous []int32
	var result *Result[T]
	iterations := 0
	durations := make(map[string]time.Duration)

	// One Timer per call, local to this rank's invocation -- see the
	// matching note in RunFlat about why a Timer must never be shared
	// across the per-rank goroutines internal/comm.LocalWorld spawns.
	timer := utils.NewTimer("kmeans.RunHierarchical")

	for h := 1; h <= tree.Depth; h++ {
		parents := tree.LevelNodes(h - 1)
		childCounts := make([]int, len(parents))
		for i, p := range parents {
			childCounts[i] = len(p.Children)
		}

		levelTargets := tree.TargetWeightsAtLevel(h, toFloat64(totalWeight))
		target := make([][]T, len(levelTargets))
		for w := range levelTargets {
			target[w] = fromFloat64[T](levelTargets[w])
		}

		selectPhase := timer.Start("select-centers")
		centers, err := SelectInitialCenters[T](ctx, c, points, previous, childCounts)
		durations["select-centers"] += selectPhase.Stop()
		if err != nil {
			return nil, err
		}

		levelResult, err := RunFlat(ctx, c, points, previous, centers, target, cfg)
		if err != nil {
			return nil, err
		}
		for name, d := range levelResult.PhaseDurations {
			durations[name] += d
		}

		previous = levelResult.Assignment
		result = levelResult
		iterations += levelResult.Iterations
	}

	if result == nil {
		return &Result[T]{Assignment: model.NewAssignment(points.N)}, nil
	}
	result.Iterations = iterations
	result.PhaseDurations = durations
	return result, nil
}
