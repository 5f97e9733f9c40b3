package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/proctree"
)

func TestRunHierarchical_ProducesLeafAssignment(t *testing.T) {
	points := gridPoints2D(8)
	tree := proctree.BuildUniform([]int{2, 2}, 1)
	totalWeight := []float64{float64(points.N)}

	cfg := defaultEngineConfig(0.3, 1)

	var result *Result[float64]
	world := comm.NewLocalWorld(1)
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		result, err = RunHierarchical(ctx, c, points, tree, totalWeight, cfg)
		return err
	})
	require.NoError(t, err)

	for _, b := range result.Assignment {
		assert.GreaterOrEqual(t, b, int32(0))
		assert.Less(t, b, int32(4))
	}

	assert.Contains(t, result.PhaseDurations, "select-centers")
	assert.Contains(t, result.PhaseDurations, "kmeans-iterate")
}
