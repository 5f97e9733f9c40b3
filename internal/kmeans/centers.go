package kmeans

import (
	"context"
	"encoding/binary"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/sfc"
	"github.com/kit-parco/geographer-go/pkg/model"
)

func encodeInts(v []int) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(x))
	}
	return buf
}

func decodeInts(buf []byte) []int {
	out := make([]int, len(buf)/4)
	for i := range out {
		out[i] = int(binary.BigEndian.Uint32(buf[i*4:]))
	}
	return out
}

// SelectInitialCenters picks one center per desired within-block index for
// every previous-level group: the j-th of k_b centers for group b is the
// point whose position within the group, counted in the group's existing
// local order across every rank, is floor(j*N_b/k_b + N_b/(2*k_b)). Ranks
// first exchange their per-group local counts to learn their own group-local
// prefix offset, then each rank's candidate coordinates are summed globally
// -- exactly one rank holds each desired index, so the sum reproduces that
// rank's contribution on every rank without a dedicated broadcast.
func SelectInitialCenters[T model.Float](ctx context.Context, c comm.Communicator, points *model.PointSet[T], previous []int32, groupChildCounts []int) (*model.Centers[T], error) {
	numGroups := len(groupChildCounts)
	d := points.D
	numW := points.NumWeights()

	localCount := make([]int, numGroups)
	localPos := make([]int, points.N)
	for i := 0; i < points.N; i++ {
		b := 0
		if previous != nil {
			b = int(previous[i])
		}
		localPos[i] = localCount[b]
		localCount[b]++
	}

	gathered, err := c.Gather(ctx, encodeInts(localCount))
	if err != nil {
		return nil, err
	}
	allCounts := make([][]int, len(gathered))
	for r, blob := range gathered {
		allCounts[r] = decodeInts(blob)
	}

	myRank := c.Rank()
	prefixOffset := make([]int, numGroups)
	groupTotal := make([]int, numGroups)
	for b := 0; b < numGroups; b++ {
		for r := 0; r < myRank; r++ {
			prefixOffset[b] += allCounts[r][b]
		}
		for r := 0; r < len(allCounts); r++ {
			groupTotal[b] += allCounts[r][b]
		}
	}

	centers := model.NewCenters[T](d, numW, groupChildCounts)
	contribution := make([]T, centers.Total()*d)

	for i := 0; i < points.N; i++ {
		b := 0
		if previous != nil {
			b = int(previous[i])
		}
		kb := groupChildCounts[b]
		nb := groupTotal[b]
		if kb == 0 || nb == 0 {
			continue
		}
		start, _ := centers.Range(b)
		globalPos := prefixOffset[b] + localPos[i]
		for j := 0; j < kb; j++ {
			desired := (2*j*nb + nb) / (2 * kb)
			if desired != globalPos {
				continue
			}
			idx := start + j
			for dd := 0; dd < d; dd++ {
				contribution[idx*d+dd] = points.Coord(i, dd)
			}
		}
	}

	summed, err := c.AllReduceSum(ctx, toFloat64(contribution))
	if err != nil {
		return nil, err
	}
	centers.Coords = fromFloat64[T](summed)

	return centers, nil
}

// SelectInitialCentersFromSFC places k centers directly along the Hilbert
// curve spanning box, at parameters (i+0.5)/k, without reference to any
// point set. Used when points have not yet been redistributed into Hilbert
// order and the cheaper index-based selection above cannot apply.
func SelectInitialCentersFromSFC[T model.Float](box *model.BoundingBox[T], k, bits int) *model.Centers[T] {
	d := box.Dims()
	centers := model.NewCenters[T](d, 1, []int{k})
	maxVal := float64((uint64(1) << uint(bits)) - 1)
	span := uint64(1) << uint(d*bits)

	for i := 0; i < k; i++ {
		param := (float64(i) + 0.5) / float64(k)
		idx := uint64(param * float64(span))
		if idx >= span {
			idx = span - 1
		}
		coord := sfc.HilbertPoint(idx, d, bits)
		for dd := 0; dd < d; dd++ {
			frac := float64(coord[dd]) / maxVal
			centers.SetCoord(i, dd, box.Min[dd]+T(frac)*box.Extent(dd))
		}
	}
	return centers
}
