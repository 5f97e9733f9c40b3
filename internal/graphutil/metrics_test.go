package graphutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/testutil"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// pathGraph builds a single-rank path graph 0-1-2-3 (global ids = local
// indices) with unit edge weights.
func pathGraph() *model.LocalGraph {
	return testutil.PathGraph(4)
}

func TestLocalCut_SingleRankPath(t *testing.T) {
	g := pathGraph()
	assignment := model.Assignment{0, 0, 1, 1}
	ownIndex := NeighborIndex(g)

	cut := LocalCut(g, assignment, ownIndex, nil)
	// Only the 1-2 edge crosses blocks, counted once per endpoint (1->2, 2->1).
	assert.Equal(t, 2.0, cut)
}

func TestGlobalCut_HalvesReducedSum(t *testing.T) {
	world := comm.NewLocalWorld(1)
	var cutOut float64
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		g := pathGraph()
		assignment := model.Assignment{0, 0, 1, 1}
		ownIndex := NeighborIndex(g)
		local := LocalCut(g, assignment, ownIndex, nil)
		var err error
		cutOut, err = GlobalCut(ctx, c, local)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, cutOut)
}

func TestImbalance_WorstOverloadedBlock(t *testing.T) {
	weight := [][]float64{{120, 80, 100}}
	target := [][]float64{{100, 100, 100}}
	imb := Imbalance(weight, target)
	require.Len(t, imb, 1)
	assert.InDelta(t, 0.2, imb[0], 1e-9)
}

func TestImbalance_PerfectBalanceIsZero(t *testing.T) {
	weight := [][]float64{{100, 100, 100}}
	target := [][]float64{{100, 100, 100}}
	imb := Imbalance(weight, target)
	assert.Equal(t, []float64{0}, imb)
}

func TestBorderInnerCounts(t *testing.T) {
	g := pathGraph()
	assignment := model.Assignment{0, 0, 1, 1}
	ownIndex := NeighborIndex(g)

	border, inner := BorderInnerCounts(g, assignment, ownIndex, nil)
	// Vertices 1 and 2 straddle the cut edge; 0 and 3 are purely internal.
	assert.Equal(t, 2, border)
	assert.Equal(t, 2, inner)
}

func TestCommVolume(t *testing.T) {
	g := pathGraph()
	assignment := model.Assignment{0, 0, 1, 1}
	ownIndex := NeighborIndex(g)

	vol := CommVolume(g, assignment, 2, ownIndex, nil)
	// Block 0's vertex 1 sees one foreign block (1); block 1's vertex 2
	// sees one foreign block (0).
	assert.Equal(t, []int64{1, 1}, vol)
}
