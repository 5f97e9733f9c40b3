package sfc

import (
	"context"
	"encoding/binary"
	"math"
	"sort"

	"github.com/kit-parco/geographer-go/internal/comm"
	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
	"github.com/kit-parco/geographer-go/pkg/model"
	"github.com/kit-parco/geographer-go/pkg/telemetry"
)

// GlobalBounds computes the bounding box of the point cloud across every
// rank by extending a local box and reducing it with AllReduceMin/Max.
func GlobalBounds[T model.Float](ctx context.Context, c comm.Communicator, local *model.PointSet[T]) (*model.BoundingBox[T], error) {
	d := local.D
	box := model.NewBoundingBox[T](d)
	for i := 0; i < local.N; i++ {
		box.Extend(local.Coords[i*d : (i+1)*d])
	}

	minLocal := make([]float64, d)
	maxLocal := make([]float64, d)
	for i := 0; i < d; i++ {
		minLocal[i] = float64(box.Min[i])
		maxLocal[i] = float64(box.Max[i])
	}

	globalMin, err := c.AllReduceMin(ctx, minLocal)
	if err != nil {
		return nil, err
	}
	globalMax, err := c.AllReduceMax(ctx, maxLocal)
	if err != nil {
		return nil, err
	}
	for i := 0; i < d; i++ {
		box.Min[i] = T(globalMin[i])
		box.Max[i] = T(globalMax[i])
	}
	return box, nil
}

// hilbertKey scales a point's coordinates into [0, 2^bits) on each axis
// using box as the global extent, then maps the scaled coordinate onto the
// Hilbert curve. An axis with zero extent (every point shares the same
// coordinate) maps to 0 on that axis rather than dividing by zero.
func hilbertKey[T model.Float](box *model.BoundingBox[T], coords []T, bits int) uint64 {
	maxVal := float64((uint64(1) << uint(bits)) - 1)
	scaled := make([]uint64, len(coords))
	for i, v := range coords {
		extent := box.Extent(i)
		if extent == 0 {
			continue
		}
		frac := float64(v-box.Min[i]) / float64(extent)
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		scaled[i] = uint64(frac * maxVal)
	}
	return HilbertIndex(scaled, bits)
}

// pointRecord is the wire form of one point exchanged during redistribution:
// its Hilbert key (the sort key), global identity, coordinates, weights and
// previous-block label. Coordinates and weights travel as float64 on the
// wire regardless of T so float32 and float64 callers share one codec.
type pointRecord[T model.Float] struct {
	Hilbert  uint64
	Global   int64
	Previous int32
	Coords   []T
	Weights  []T
}

func encodeRecord[T model.Float](r pointRecord[T]) []byte {
	d := len(r.Coords)
	numW := len(r.Weights)
	buf := make([]byte, 8+8+4+4+4+8*d+8*numW)
	off := 0
	binary.BigEndian.PutUint64(buf[off:], r.Hilbert)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(r.Global))
	off += 8
	binary.BigEndian.PutUint32(buf[off:], uint32(r.Previous))
	off += 4
	binary.BigEndian.PutUint32(buf[off:], uint32(d))
	off += 4
	binary.BigEndian.PutUint32(buf[off:], uint32(numW))
	off += 4
	for _, v := range r.Coords {
		binary.BigEndian.PutUint64(buf[off:], math.Float64bits(float64(v)))
		off += 8
	}
	for _, w := range r.Weights {
		binary.BigEndian.PutUint64(buf[off:], math.Float64bits(float64(w)))
		off += 8
	}
	return buf
}

func decodeRecord[T model.Float](buf []byte) pointRecord[T] {
	off := 0
	hilbert := binary.BigEndian.Uint64(buf[off:])
	off += 8
	global := int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	previous := int32(binary.BigEndian.Uint32(buf[off:]))
	off += 4
	d := int(binary.BigEndian.Uint32(buf[off:]))
	off += 4
	numW := int(binary.BigEndian.Uint32(buf[off:]))
	off += 4
	coords := make([]T, d)
	for i := range coords {
		coords[i] = T(math.Float64frombits(binary.BigEndian.Uint64(buf[off:])))
		off += 8
	}
	weights := make([]T, numW)
	for i := range weights {
		weights[i] = T(math.Float64frombits(binary.BigEndian.Uint64(buf[off:])))
		off += 8
	}
	return pointRecord[T]{Hilbert: hilbert, Global: global, Previous: previous, Coords: coords, Weights: weights}
}

// concatRecords frames each encoded record with a 4-byte length prefix so a
// batch of variable-length records can travel as one []byte payload.
func concatRecords(encoded [][]byte) []byte {
	total := 0
	for _, e := range encoded {
		total += 4 + len(e)
	}
	buf := make([]byte, 0, total)
	var lenBuf [4]byte
	for _, e := range encoded {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, e...)
	}
	return buf
}

func decodeRecords[T model.Float](blob []byte) []pointRecord[T] {
	var out []pointRecord[T]
	off := 0
	for off < len(blob) {
		n := int(binary.BigEndian.Uint32(blob[off:]))
		off += 4
		out = append(out, decodeRecord[T](blob[off:off+n]))
		off += n
	}
	return out
}

func anyPrevious[T model.Float](recs []pointRecord[T]) bool {
	for _, r := range recs {
		if r.Previous >= 0 {
			return true
		}
	}
	return false
}

// Redistribute reorders the point cloud across all ranks by Hilbert-curve
// position: every rank's points are merged into one globally sorted order
// and cut into contiguous, near-equal chunks, one per rank. The returned
// PointSet is this rank's new chunk; the returned GeneralDistribution
// records which rank now owns every global index.
func Redistribute[T model.Float](ctx context.Context, c comm.Communicator, local *model.PointSet[T], bits int) (*model.PointSet[T], *model.GeneralDistribution, error) {
	ctx, span := telemetry.StartSpan(ctx, "sfc.Redistribute")
	defer span.End()

	box, err := GlobalBounds(ctx, c, local)
	if err != nil {
		return nil, nil, err
	}
	for d := 0; d < box.Dims(); d++ {
		if box.Degenerate(d) {
			return nil, nil, apperrors.Newf(apperrors.CodeDegenerateRange, "axis %d has zero global range, cannot assign Hilbert keys", d)
		}
	}

	numWeights := local.NumWeights()
	records := make([]pointRecord[T], local.N)
	for i := 0; i < local.N; i++ {
		coords := make([]T, local.D)
		copy(coords, local.Coords[i*local.D:(i+1)*local.D])
		weights := make([]T, numWeights)
		for w := 0; w < numWeights; w++ {
			weights[w] = local.Weight(i, w)
		}
		prev := int32(-1)
		if local.Previous != nil {
			prev = local.Previous[i]
		}
		records[i] = pointRecord[T]{
			Hilbert:  hilbertKey(box, coords, bits),
			Global:   local.Global(i),
			Previous: prev,
			Coords:   coords,
			Weights:  weights,
		}
	}

	encoded := make([][]byte, len(records))
	for i, r := range records {
		encoded[i] = encodeRecord(r)
	}

	gathered, err := c.Gather(ctx, concatRecords(encoded))
	if err != nil {
		return nil, nil, err
	}

	var all []pointRecord[T]
	for _, blob := range gathered {
		all = append(all, decodeRecords[T](blob)...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Hilbert != all[j].Hilbert {
			return all[i].Hilbert < all[j].Hilbert
		}
		return all[i].Global < all[j].Global
	})

	total := int64(len(all))
	numRanks := c.Size()
	base := int(total) / numRanks
	rem := int(total) % numRanks
	bounds := make([][2]int, numRanks)
	cursor := 0
	for r := 0; r < numRanks; r++ {
		size := base
		if r < rem {
			size++
		}
		bounds[r] = [2]int{cursor, cursor + size}
		cursor += size
	}

	perRank := make([][]int64, numRanks)
	for r := 0; r < numRanks; r++ {
		s, e := bounds[r][0], bounds[r][1]
		ids := make([]int64, e-s)
		for i := s; i < e; i++ {
			ids[i-s] = all[i].Global
		}
		perRank[r] = ids
	}
	dist := model.NewGeneralDistribution(total, perRank)

	myRank := c.Rank()
	s, e := bounds[myRank][0], bounds[myRank][1]
	mine := all[s:e]

	out := model.NewPointSet[T](len(mine), local.D, numWeights)
	out.GlobalIndex = make([]int64, len(mine))
	if anyPrevious(mine) {
		out.Previous = make([]int32, len(mine))
	}
	for i, rec := range mine {
		copy(out.Coords[i*local.D:(i+1)*local.D], rec.Coords)
		for w := 0; w < numWeights; w++ {
			out.Weights[w][i] = rec.Weights[w]
		}
		out.GlobalIndex[i] = rec.Global
		if out.Previous != nil {
			out.Previous[i] = rec.Previous
		}
	}

	return out, dist, nil
}
