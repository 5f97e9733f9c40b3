package proctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUniform_LeafCount(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)
	assert.Len(t, tree.Leaves, 8)
	assert.Equal(t, 2, tree.Depth)
	for i, leaf := range tree.Leaves {
		assert.Equal(t, i, leaf.LeafIndex())
	}
}

func TestBuildUniform_CapacityPropagation(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)
	assert.Equal(t, []float64{8}, tree.Root.Capacity)
	for _, child := range tree.Root.Children {
		assert.Equal(t, []float64{4}, child.Capacity)
	}
}

func TestLevelNodes(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)
	assert.Len(t, tree.LevelNodes(0), 1)
	assert.Len(t, tree.LevelNodes(1), 2)
	assert.Len(t, tree.LevelNodes(2), 8)
}

func TestGroupLeavesByAncestor(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)

	groups1 := tree.GroupLeavesByAncestor(1)
	require.Len(t, groups1, 2)
	assert.Equal(t, []int{0, 1, 2, 3}, groups1[0])
	assert.Equal(t, []int{4, 5, 6, 7}, groups1[1])

	groups2 := tree.GroupLeavesByAncestor(2)
	require.Len(t, groups2, 8)
	for i, g := range groups2 {
		assert.Equal(t, []int{i}, g)
	}
}

func TestTargetWeightsAtLevel_UniformSplit(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)
	targets := tree.TargetWeightsAtLevel(1, []float64{800})
	require.Len(t, targets, 1)
	assert.Equal(t, []float64{400, 400}, targets[0])
}

func TestLeafBlockSet_UniformSplit(t *testing.T) {
	tree := BuildUniform([]int{2, 4}, 1)
	bs := LeafBlockSet[float64](tree, []float64{800})
	assert.Equal(t, 8, bs.K)
	for b := 0; b < 8; b++ {
		assert.Equal(t, 100.0, bs.Target(b, 0))
	}
}
