package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRelabel_RenumbersByFirstOccurrence(t *testing.T) {
	assignment := []int32{2, 2, 0, 1}
	out := CanonicalRelabel(assignment, nil, 3)
	assert.Equal(t, []int32{0, 0, 1, 2}, out)
}

func TestCanonicalRelabel_AgreesAfterPermutation(t *testing.T) {
	a := []int32{0, 0, 1, 2, 2}
	// b is a permutes b's block ids relative to a but describes the same
	// partition.
	b := []int32{5, 5, 7, 3, 3}
	ra := CanonicalRelabel(a, nil, 3)
	rb := CanonicalRelabel(b, nil, 8)
	assert.Equal(t, ra, rb)
}

func TestCanonicalRelabel_RespectsGlobalIndexOrder(t *testing.T) {
	assignment := []int32{1, 0}
	globalIndex := []int64{10, 1} // point 1 (global id 1) actually comes first
	out := CanonicalRelabel(assignment, globalIndex, 2)
	// visiting global order: point1 (block0) first -> newID 0; point0 (block1) -> newID 1
	assert.Equal(t, []int32{1, 0}, out)
}

func TestCanonicalRelabel_LeavesUnassignedAlone(t *testing.T) {
	assignment := []int32{-1, 0, -1}
	out := CanonicalRelabel(assignment, nil, 1)
	assert.Equal(t, []int32{-1, 0, -1}, out)
}
