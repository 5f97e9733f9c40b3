package model

// LocalGraph is one rank's share of the input graph in compressed sparse
// row form. Vertex ids are local to this rank; each vertex's neighbor list
// references neighbors by global id, which may or may not be locally
// owned -- resolving the block of a non-local neighbor is the halo
// exchange's job, not this type's.
type LocalGraph struct {
	N int

	// XAdj has N+1 entries; vertex i's neighbors occupy the half-open
	// range [XAdj[i], XAdj[i+1]) of Neighbors/EdgeWeights.
	XAdj []int64

	// Neighbors holds the global ids referenced by every vertex's
	// adjacency list, concatenated in vertex order.
	Neighbors []int64

	// EdgeWeights is parallel to Neighbors; nil means every edge has
	// weight 1.
	EdgeWeights []float64

	// GlobalIndex maps local vertex i to its global id; nil means local
	// index equals global index.
	GlobalIndex []int64
}

// Degree returns the number of edges incident to local vertex i.
func (g *LocalGraph) Degree(i int) int64 {
	return g.XAdj[i+1] - g.XAdj[i]
}

// NeighborRange returns the half-open [start, end) range into Neighbors
// and EdgeWeights holding local vertex i's adjacency list.
func (g *LocalGraph) NeighborRange(i int) (int64, int64) {
	return g.XAdj[i], g.XAdj[i+1]
}

// EdgeWeight returns the weight of the edge at position e in Neighbors.
func (g *LocalGraph) EdgeWeight(e int64) float64 {
	if g.EdgeWeights == nil {
		return 1
	}
	return g.EdgeWeights[e]
}

// Global returns local vertex i's global identity.
func (g *LocalGraph) Global(i int) int64 {
	if g.GlobalIndex == nil {
		return int64(i)
	}
	return g.GlobalIndex[i]
}
