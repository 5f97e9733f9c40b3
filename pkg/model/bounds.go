package model

// Bounds holds per-point triangle-inequality bounds used to skip distance
// recomputation during bounded assignment: Upper[i] bounds the distance
// from point i to its currently assigned center from above, Lower[i]
// bounds the distance to the second-nearest center from below. A point
// whose Upper bound still falls under its Lower bound after a center
// moves cannot have changed its nearest center and is skipped entirely.
type Bounds[T Float] struct {
	Upper []T
	Lower []T
}

// NewBounds allocates bounds for n points, both arrays zeroed.
func NewBounds[T Float](n int) *Bounds[T] {
	return &Bounds[T]{
		Upper: make([]T, n),
		Lower: make([]T, n),
	}
}

// Reset sets Upper to the given sentinel (conventionally +inf) and Lower
// to zero for every point, forcing a full recomputation on the next pass.
func (b *Bounds[T]) Reset(upperSentinel T) {
	for i := range b.Upper {
		b.Upper[i] = upperSentinel
		b.Lower[i] = 0
	}
}

// Loosen relaxes point i's bounds after its assigned center moved by delta
// and the nearest other center moved by at least minOtherDelta (a lower
// bound on how far any other center could have moved towards it).
func (b *Bounds[T]) Loosen(i int, delta, minOtherDelta T) {
	b.Upper[i] += delta
	b.Lower[i] -= minOtherDelta
	if b.Lower[i] < 0 {
		b.Lower[i] = 0
	}
}
