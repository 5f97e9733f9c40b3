package graphutil

// DegreeVector returns the degree of each block in the block-interaction
// graph: the number of distinct blocks it shares at least one cut edge
// with.
func (bg *BlockGraph) DegreeVector() []int {
	deg := make([]int, bg.K)
	for i, nbrs := range bg.Neighbors {
		deg[i] = len(nbrs)
	}
	return deg
}

// Laplacian returns the combinatorial graph Laplacian L = D - A of the
// block-interaction graph as a dense k*k matrix. k is bounded by the
// partition's block count, small enough that a dense matrix is simpler
// than a sparse one for the spectral diagnostics it feeds.
func (bg *BlockGraph) Laplacian() [][]float64 {
	k := bg.K
	l := make([][]float64, k)
	deg := bg.DegreeVector()
	for i := range l {
		l[i] = make([]float64, k)
		l[i][i] = float64(deg[i])
	}
	for i, nbrs := range bg.Neighbors {
		for _, j := range nbrs {
			l[i][j] = -1
		}
	}
	return l
}
