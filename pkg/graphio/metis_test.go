package graphio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-parco/geographer-go/pkg/model"
)

func TestReadMETISGraph_PlainAdjacency(t *testing.T) {
	src := "4 4\n2 4\n1 3\n2 4\n1 3\n"
	g, weights, err := ReadMETISGraph(bytes.NewBufferString(src))
	require.NoError(t, err)
	assert.Nil(t, weights)
	assert.Equal(t, 4, g.N)
	assert.Equal(t, int64(2), g.Degree(0))
	s, e := g.NeighborRange(0)
	assert.Equal(t, []int64{1, 3}, g.Neighbors[s:e])
}

func TestReadMETISGraph_WithVertexAndEdgeWeights(t *testing.T) {
	src := "2 1 011 1\n5 2 2.5\n7 1 2.5\n"
	g, weights, err := ReadMETISGraph(bytes.NewBufferString(src))
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.Equal(t, []float64{5, 7}, weights[0])
	assert.Equal(t, []float64{2.5, 2.5}, g.EdgeWeights)
}

func TestWriteMETISGraph_RoundTrips(t *testing.T) {
	g := &model.LocalGraph{
		N:         3,
		XAdj:      []int64{0, 1, 2, 3},
		Neighbors: []int64{1, 2, 0},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMETISGraph(&buf, g, nil))

	got, weights, err := ReadMETISGraph(&buf)
	require.NoError(t, err)
	assert.Nil(t, weights)
	assert.Equal(t, g.N, got.N)
	assert.Equal(t, g.Neighbors, got.Neighbors)
}
