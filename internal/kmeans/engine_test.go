package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/testutil"
	"github.com/kit-parco/geographer-go/pkg/model"
)

func gridPoints2D(n int) *model.PointSet[float64] {
	return testutil.UniformGrid2D(n)
}

func defaultEngineConfig(eps float64, numRanks int) EngineConfig[float64] {
	return EngineConfig[float64]{
		Epsilon:                    []float64{eps},
		MinSamplingNodes:           0, // disable sampling for deterministic small tests
		MaxKMeansIterations:        20,
		BalanceIterations:          5,
		InfluenceExponent:          1,
		InfluenceChangeCap:         0.5,
		ConvergenceThresholdFactor: 1e-4,
		NumRanks:                   numRanks,
	}
}

func TestRunFlat_AssignsEveryPoint(t *testing.T) {
	points := gridPoints2D(10)
	box := model.NewBoundingBox[float64](2)
	box.Extend([]float64{0, 0})
	box.Extend([]float64{9, 9})
	centers := SelectInitialCentersFromSFC[float64](box, 4, 8)
	target := [][]float64{{25, 25, 25, 25}}

	var result *Result[float64]
	world := comm.NewLocalWorld(1)
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		result, err = RunFlat(ctx, c, points, nil, centers, target, defaultEngineConfig(0.1, 1))
		return err
	})
	require.NoError(t, err)

	for _, b := range result.Assignment {
		assert.GreaterOrEqual(t, b, int32(0))
		assert.Less(t, b, int32(4))
	}
	assert.Contains(t, result.PhaseDurations, "kmeans-iterate")
}

func TestRunFlat_ConservesPointCount(t *testing.T) {
	points := gridPoints2D(8)
	box := model.NewBoundingBox[float64](2)
	box.Extend([]float64{0, 0})
	box.Extend([]float64{7, 7})
	centers := SelectInitialCentersFromSFC[float64](box, 4, 8)
	target := [][]float64{{16, 16, 16, 16}}

	var result *Result[float64]
	world := comm.NewLocalWorld(1)
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		result, err = RunFlat(ctx, c, points, nil, centers, target, defaultEngineConfig(0.2, 1))
		return err
	})
	require.NoError(t, err)
	assert.Len(t, result.Assignment, points.N)
}

func TestRunFlat_SampledScheduleStaysOnFullSetAfterReached(t *testing.T) {
	points := gridPoints2D(12)
	box := model.NewBoundingBox[float64](2)
	box.Extend([]float64{0, 0})
	box.Extend([]float64{11, 11})
	centers := SelectInitialCentersFromSFC[float64](box, 4, 8)
	target := [][]float64{{36, 36, 36, 36}}

	cfg := defaultEngineConfig(0.1, 1)
	cfg.MinSamplingNodes = 4 // start := 4*4/1 = 16, schedule still ends on the full 144 points
	cfg.BalanceIterations = 2
	cfg.MaxKMeansIterations = 30

	var result *Result[float64]
	world := comm.NewLocalWorld(1)
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		result, err = RunFlat(ctx, c, points, nil, centers, target, cfg)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, result.Assignment, points.N)
	for _, b := range result.Assignment {
		assert.GreaterOrEqual(t, b, int32(0))
		assert.Less(t, b, int32(4))
	}
}

func TestRunFlat_MultiRankAssignsEveryPoint(t *testing.T) {
	full := gridPoints2D(6)
	box := model.NewBoundingBox[float64](2)
	box.Extend([]float64{0, 0})
	box.Extend([]float64{5, 5})

	half := full.N / 2
	a := model.NewPointSet[float64](half, 2, 1)
	b := model.NewPointSet[float64](full.N-half, 2, 1)
	copy(a.Coords, full.Coords[:half*2])
	copy(b.Coords, full.Coords[half*2:])
	shards := []*model.PointSet[float64]{a, b}
	target := [][]float64{{float64(full.N) / 4, float64(full.N) / 4, float64(full.N) / 4, float64(full.N) / 4}}

	results := make([]*Result[float64], 2)
	world := comm.NewLocalWorld(2)
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		centers := SelectInitialCentersFromSFC[float64](box, 4, 8)
		local := shards[c.Rank()]
		result, err := RunFlat(ctx, c, local, nil, centers, target, defaultEngineConfig(0.3, 2))
		if err != nil {
			return err
		}
		results[c.Rank()] = result
		return nil
	})
	require.NoError(t, err)
	totalAssigned := 0
	for _, r := range results {
		require.NotNil(t, r)
		totalAssigned += len(r.Assignment)
	}
	assert.Equal(t, full.N, totalAssigned)
}
