package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHilbertIndex_RoundTrip2D(t *testing.T) {
	const bits = 6
	seen := make(map[uint64]bool)
	for x := uint64(0); x < 1<<bits; x += 3 {
		for y := uint64(0); y < 1<<bits; y += 3 {
			idx := HilbertIndex([]uint64{x, y}, bits)
			assert.False(t, seen[idx], "duplicate Hilbert index %d for (%d,%d)", idx, x, y)
			seen[idx] = true

			got := HilbertPoint(idx, 2, bits)
			assert.Equal(t, []uint64{x, y}, got)
		}
	}
}

func TestHilbertIndex_RoundTrip3D(t *testing.T) {
	const bits = 4
	for x := uint64(0); x < 1<<bits; x++ {
		for y := uint64(0); y < 1<<bits; y++ {
			for z := uint64(0); z < 1<<bits; z++ {
				idx := HilbertIndex([]uint64{x, y, z}, bits)
				got := HilbertPoint(idx, 3, bits)
				assert.Equal(t, []uint64{x, y, z}, got)
			}
		}
	}
}

func TestHilbertIndex_Locality(t *testing.T) {
	// Adjacent curve positions should be adjacent in space: consecutive
	// Hilbert indices always differ by a unit step on exactly one axis.
	const bits = 5
	total := uint64(1) << uint(2*bits)
	prev := HilbertPoint(0, 2, bits)
	for idx := uint64(1); idx < total; idx++ {
		cur := HilbertPoint(idx, 2, bits)
		dx := absDiff(cur[0], prev[0])
		dy := absDiff(cur[1], prev[1])
		assert.True(t, (dx == 1 && dy == 0) || (dx == 0 && dy == 1),
			"non-adjacent step at index %d: %v -> %v", idx, prev, cur)
		prev = cur
	}
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
