// Package model defines the core data types shared across the partitioner:
// point sets, distributions, block sets, centers, assignments, and bounds.
package model

// Float is the constraint satisfied by the two precisions the partitioning
// core is generic over. Every numeric structure in this package -- point
// coordinates, center positions, bound arrays -- is parameterized by Float
// so that the same algorithm compiles against float32 (lower memory, lower
// precision) and float64 (default) without duplicated code.
type Float interface {
	~float32 | ~float64
}
