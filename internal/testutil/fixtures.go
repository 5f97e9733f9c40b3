// Package testutil supplies synthetic point-set and graph fixtures shared
// across the module's tests: uniform lines and grids for deterministic
// geometric assertions, a seeded random cloud for stress tests, and small
// path/cycle graphs for cut and block-graph tests.
package testutil

import (
	"math/rand"

	"github.com/kit-parco/geographer-go/pkg/model"
)

// UniformLine builds n points spaced at unit intervals along a single axis,
// each carrying weight 1.
func UniformLine(n int) *model.PointSet[float64] {
	ps := model.NewPointSet[float64](n, 1, 1)
	for i := 0; i < n; i++ {
		ps.Coords[i] = float64(i)
	}
	return ps
}

// UniformGrid2D builds an n x n grid of points in 2 dimensions, row-major,
// each carrying weight 1.
func UniformGrid2D(n int) *model.PointSet[float64] {
	ps := model.NewPointSet[float64](n*n, 2, 1)
	idx := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ps.SetCoord(idx, 0, float64(i))
			ps.SetCoord(idx, 1, float64(j))
			idx++
		}
	}
	return ps
}

// RandomCloud generates n points in d dimensions uniformly at random in
// [0, extent) on every axis. seed makes the cloud reproducible across runs.
func RandomCloud(n, d int, extent float64, seed int64) *model.PointSet[float64] {
	rng := rand.New(rand.NewSource(seed))
	ps := model.NewPointSet[float64](n, d, 1)
	for i := range ps.Coords {
		ps.Coords[i] = rng.Float64() * extent
	}
	return ps
}

// PathGraph builds an undirected path graph 0-1-...-(n-1) with unit edge
// weights.
func PathGraph(n int) *model.LocalGraph {
	adj := make([][]int64, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			adj[i] = append(adj[i], int64(i-1))
		}
		if i < n-1 {
			adj[i] = append(adj[i], int64(i+1))
		}
	}
	return graphFromAdjacency(adj)
}

// CycleGraph builds an undirected cycle graph 0-1-...-(n-1)-0 with unit edge
// weights.
func CycleGraph(n int) *model.LocalGraph {
	adj := make([][]int64, n)
	for i := 0; i < n; i++ {
		adj[i] = append(adj[i], int64((i+1)%n), int64((i-1+n)%n))
	}
	return graphFromAdjacency(adj)
}

func graphFromAdjacency(adj [][]int64) *model.LocalGraph {
	xadj := make([]int64, len(adj)+1)
	var neighbors []int64
	for i, nbrs := range adj {
		xadj[i+1] = xadj[i] + int64(len(nbrs))
		neighbors = append(neighbors, nbrs...)
	}
	return &model.LocalGraph{N: len(adj), XAdj: xadj, Neighbors: neighbors}
}
