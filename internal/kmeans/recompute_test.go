package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kit-parco/geographer-go/pkg/model"
)

func TestRecompute_MovesToWeightedCentroid(t *testing.T) {
	centers := model.NewCenters[float64](1, 1, []int{2})
	centers.Coords = []float64{0, 100}

	coordSum := [][]float64{{10, 200}} // block0: sum=10 over weight 5; block1: sum=200 over weight 20
	weightTotal := [][]float64{{5, 20}}

	result := Recompute(centers, coordSum, weightTotal)
	assert.InDelta(t, 2.0, centers.Coord(0, 0), 1e-9)
	assert.InDelta(t, 10.0, centers.Coord(1, 0), 1e-9)
	assert.InDelta(t, 2.0, result.Movement[0], 1e-9)
	assert.InDelta(t, 90.0, result.Movement[1], 1e-9)
	assert.InDelta(t, 90.0, result.MaxMovement, 1e-9)
}

func TestRecompute_EmptyBlockKeepsPosition(t *testing.T) {
	centers := model.NewCenters[float64](1, 1, []int{2})
	centers.Coords = []float64{5, 9}

	coordSum := [][]float64{{10, 0}}
	weightTotal := [][]float64{{2, 0}}

	result := Recompute(centers, coordSum, weightTotal)
	assert.InDelta(t, 5.0, centers.Coord(0, 0), 1e-9)
	assert.InDelta(t, 9.0, centers.Coord(1, 0), 1e-9) // untouched
	assert.InDelta(t, 0.0, result.Movement[1], 1e-9)
}

func TestRecompute_AveragesAcrossWeightAxes(t *testing.T) {
	centers := model.NewCenters[float64](1, 2, []int{1})
	centers.Coords = []float64{0}

	coordSum := [][]float64{{10}, {40}}
	weightTotal := [][]float64{{5}, {10}}

	Recompute(centers, coordSum, weightTotal)
	// axis0 centroid = 2, axis1 centroid = 4, averaged = 3
	assert.InDelta(t, 3.0, centers.Coord(0, 0), 1e-9)
}
