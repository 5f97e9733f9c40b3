package graphutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

func TestBuildBlockGraph_SingleRank(t *testing.T) {
	g := pathGraph() // 0-1-2-3, blocks 0,0,1,1 => only block 0-1 interact
	assignment := model.Assignment{0, 0, 1, 1}
	ownIndex := NeighborIndex(g)

	world := comm.NewLocalWorld(1)
	var bg *BlockGraph
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		bg, err = BuildBlockGraph(ctx, c, g, assignment, 2, ownIndex, nil)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, bg.Neighbors[0])
	assert.Equal(t, []int{0}, bg.Neighbors[1])
}

func TestBuildBlockGraph_NoCutEdges(t *testing.T) {
	g := pathGraph()
	assignment := model.Assignment{0, 0, 0, 0}
	ownIndex := NeighborIndex(g)

	world := comm.NewLocalWorld(1)
	var bg *BlockGraph
	err := world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		var err error
		bg, err = BuildBlockGraph(ctx, c, g, assignment, 1, ownIndex, nil)
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, bg.Neighbors[0])
}

func TestBlockGraph_DegreeVectorAndLaplacian(t *testing.T) {
	bg := &BlockGraph{
		K: 3,
		Neighbors: [][]int{
			{1, 2},
			{0},
			{0},
		},
	}
	assert.Equal(t, []int{2, 1, 1}, bg.DegreeVector())

	l := bg.Laplacian()
	assert.Equal(t, []float64{2, -1, -1}, l[0])
	assert.Equal(t, []float64{-1, 1, 0}, l[1])
	assert.Equal(t, []float64{-1, 0, 1}, l[2])
}
