// Package collections provides generic data structures used by the
// partitioner's graph utilities.
package collections

import (
	"sync"
)

// ============================================================================
// Generic Slice Pools - Reduce allocation churn in the per-iteration hot loop
// ============================================================================

// SlicePool is a generic pool for slices of any type, letting a caller that
// needs a fresh scratch buffer on every iteration reuse earlier buffers
// instead of allocating. No package in this module draws from it.
type SlicePool[T any] struct {
	pool       sync.Pool
	initialCap int
}

// NewSlicePool creates a new slice pool with the given initial capacity.
func NewSlicePool[T any](initialCap int) *SlicePool[T] {
	if initialCap <= 0 {
		initialCap = 256
	}
	return &SlicePool[T]{
		initialCap: initialCap,
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]T, 0, initialCap)
				return &s
			},
		},
	}
}

// Get gets a slice from the pool.
func (p *SlicePool[T]) Get() *[]T {
	return p.pool.Get().(*[]T)
}

// Put returns a slice to the pool after clearing it.
func (p *SlicePool[T]) Put(s *[]T) {
	*s = (*s)[:0]
	p.pool.Put(s)
}

// ============================================================================
// Pre-defined Slice Pools for Common Types
// ============================================================================

// Int32SlicePool is a pool for []int32 slices, sized for assignment buffers.
var Int32SlicePool = NewSlicePool[int32](256)

// GetInt32Slice gets a slice from the pool.
func GetInt32Slice() *[]int32 {
	return Int32SlicePool.Get()
}

// PutInt32Slice returns a slice to the pool after clearing it.
func PutInt32Slice(s *[]int32) {
	Int32SlicePool.Put(s)
}

// Float64SlicePool is a pool for []float64 slices, such as
// double-precision center, bound, and influence buffers.
var Float64SlicePool = NewSlicePool[float64](256)

// GetFloat64Slice gets a slice from the pool.
func GetFloat64Slice() *[]float64 {
	return Float64SlicePool.Get()
}

// PutFloat64Slice returns a slice to the pool after clearing it.
func PutFloat64Slice(s *[]float64) {
	Float64SlicePool.Put(s)
}

// Float32SlicePool is a pool for []float32 slices, such as
// single-precision center, bound, and influence buffers.
var Float32SlicePool = NewSlicePool[float32](256)

// GetFloat32Slice gets a slice from the pool.
func GetFloat32Slice() *[]float32 {
	return Float32SlicePool.Get()
}

// PutFloat32Slice returns a slice to the pool after clearing it.
func PutFloat32Slice(s *[]float32) {
	Float32SlicePool.Put(s)
}
