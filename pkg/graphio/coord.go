package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// CoordVariant selects the column layout of a coordinate text file.
type CoordVariant int

const (
	// CoordPlain is "x1 x2 ... xd" per line, one line per point.
	CoordPlain CoordVariant = iota
	// CoordOCEAN is "id x1 x2 ... xd", an explicit leading point id.
	CoordOCEAN
	// CoordTEEC is "x1 x2 ... xd weight", a trailing node weight column.
	CoordTEEC
)

// ReadCoordText parses a coordinate text file with d spatial dimensions
// under the given variant into a PointSet with a single weight
// criterion (1 for CoordPlain/CoordOCEAN, the trailing column for
// CoordTEEC).
func ReadCoordText(r io.Reader, d int, variant CoordVariant) (*model.PointSet[float64], error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var coords []float64
	var weights []float64
	var globalIDs []int64
	hasIDs := variant == CoordOCEAN

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tok := strings.Fields(line)
		pos := 0
		if hasIDs {
			if len(tok) < 1 {
				return nil, apperrors.New(apperrors.CodeParseError, "missing point id")
			}
			id, err := strconv.ParseInt(tok[0], 10, 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid point id", err)
			}
			globalIDs = append(globalIDs, id)
			pos = 1
		}
		if len(tok) < pos+d {
			return nil, apperrors.Newf(apperrors.CodeParseError, "expected %d coordinates, got %q", d, line)
		}
		for i := 0; i < d; i++ {
			v, err := strconv.ParseFloat(tok[pos+i], 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid coordinate", err)
			}
			coords = append(coords, v)
		}
		pos += d
		weight := 1.0
		if variant == CoordTEEC {
			if pos >= len(tok) {
				return nil, apperrors.New(apperrors.CodeParseError, "missing TEEC weight column")
			}
			v, err := strconv.ParseFloat(tok[pos], 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid weight column", err)
			}
			weight = v
		}
		weights = append(weights, weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading coordinate text file", err)
	}

	n := len(weights)
	ps := &model.PointSet[float64]{
		N:       n,
		D:       d,
		Coords:  coords,
		Weights: [][]float64{weights},
	}
	if hasIDs {
		ps.GlobalIndex = globalIDs
	}
	return ps, nil
}

// WriteCoordText writes ps back out in the given variant's column layout,
// using weight criterion 0 as the TEEC weight column when requested.
func WriteCoordText(w io.Writer, ps *model.PointSet[float64], variant CoordVariant) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < ps.N; i++ {
		var sb strings.Builder
		if variant == CoordOCEAN {
			fmt.Fprintf(&sb, "%d ", ps.Global(i))
		}
		for d := 0; d < ps.D; d++ {
			fmt.Fprintf(&sb, "%v ", ps.Coord(i, d))
		}
		if variant == CoordTEEC {
			fmt.Fprintf(&sb, "%v ", ps.Weight(i, 0))
		}
		if _, err := fmt.Fprintln(bw, strings.TrimSpace(sb.String())); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writing coordinate text file", err)
		}
	}
	return bw.Flush()
}

// ReadCoordBinary parses the binary coordinate format: an 8-byte header
// (point count uint32, dimension count uint32, big-endian) followed by
// N*D float64 coordinates in row-major order and N float64 weights.
func ReadCoordBinary(r io.Reader) (*model.PointSet[float64], error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading coordinate binary header", err)
	}
	n := int(binary.BigEndian.Uint32(header[0:4]))
	d := int(binary.BigEndian.Uint32(header[4:8]))

	coords := make([]float64, n*d)
	if err := binary.Read(r, binary.BigEndian, coords); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading coordinates", err)
	}
	weights := make([]float64, n)
	if err := binary.Read(r, binary.BigEndian, weights); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading weights", err)
	}
	return &model.PointSet[float64]{
		N:       n,
		D:       d,
		Coords:  coords,
		Weights: [][]float64{weights},
	}, nil
}

// WriteCoordBinary writes ps in the binary format ReadCoordBinary accepts,
// using weight criterion 0 (defaulting to 1 when ps carries none).
func WriteCoordBinary(w io.Writer, ps *model.PointSet[float64]) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(ps.N))
	binary.BigEndian.PutUint32(header[4:8], uint32(ps.D))
	if _, err := w.Write(header[:]); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing coordinate binary header", err)
	}
	if err := binary.Write(w, binary.BigEndian, ps.Coords); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing coordinates", err)
	}
	weights := make([]float64, ps.N)
	for i := range weights {
		weights[i] = ps.Weight(i, 0)
	}
	if err := binary.Write(w, binary.BigEndian, weights); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing weights", err)
	}
	return nil
}
