package graphio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMatrixMarket_SymmetricTriangleExpandsBothDirections(t *testing.T) {
	src := `%%MatrixMarket matrix coordinate real symmetric
% 3-cycle
3 3 3
2 1 1.0
3 1 2.0
3 2 3.0
`
	g, err := ReadMatrixMarket(bytes.NewBufferString(src))
	require.NoError(t, err)
	assert.Equal(t, 3, g.N)
	assert.Equal(t, int64(2), g.Degree(0))
	assert.Equal(t, int64(2), g.Degree(1))
	assert.Equal(t, int64(2), g.Degree(2))
}

func TestReadMatrixMarket_DropsDiagonal(t *testing.T) {
	src := `%%MatrixMarket matrix coordinate real symmetric
2 2 2
1 1 9.0
2 1 1.0
`
	g, err := ReadMatrixMarket(bytes.NewBufferString(src))
	require.NoError(t, err)
	assert.Equal(t, int64(1), g.Degree(0))
	assert.Equal(t, int64(1), g.Degree(1))
}
