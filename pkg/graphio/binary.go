package graphio

import (
	"encoding/binary"
	"io"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// binaryMagic tags the 24-byte header of the CSR binary graph format so a
// misidentified file fails fast instead of silently misparsing.
const binaryMagic uint32 = 0x47524831 // "GRH1"

const binaryEdgeWeightFlag uint32 = 1

// ReadBinaryGraph parses the binary CSR graph format: a 24-byte header
// (magic uint32, flags uint32, vertex count uint64, edge-entry count
// uint64, big-endian) followed by XAdj (N+1 int64), Neighbors (E int64,
// 0-based) and, when binaryEdgeWeightFlag is set, E float64 edge weights.
func ReadBinaryGraph(r io.Reader) (*model.LocalGraph, error) {
	var header [24]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading binary graph header", err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	if magic != binaryMagic {
		return nil, apperrors.Newf(apperrors.CodeParseError, "unrecognized binary graph magic %#x", magic)
	}
	flags := binary.BigEndian.Uint32(header[4:8])
	n := binary.BigEndian.Uint64(header[8:16])
	e := binary.BigEndian.Uint64(header[16:24])

	g := &model.LocalGraph{N: int(n), XAdj: make([]int64, n+1)}
	if err := binary.Read(r, binary.BigEndian, g.XAdj); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading xadj", err)
	}
	g.Neighbors = make([]int64, e)
	if err := binary.Read(r, binary.BigEndian, g.Neighbors); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading neighbors", err)
	}
	if flags&binaryEdgeWeightFlag != 0 {
		g.EdgeWeights = make([]float64, e)
		if err := binary.Read(r, binary.BigEndian, g.EdgeWeights); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeIOError, "reading edge weights", err)
		}
	}
	return g, nil
}

// WriteBinaryGraph writes g in the binary CSR format ReadBinaryGraph
// accepts.
func WriteBinaryGraph(w io.Writer, g *model.LocalGraph) error {
	var header [24]byte
	flags := uint32(0)
	if g.EdgeWeights != nil {
		flags |= binaryEdgeWeightFlag
	}
	binary.BigEndian.PutUint32(header[0:4], binaryMagic)
	binary.BigEndian.PutUint32(header[4:8], flags)
	binary.BigEndian.PutUint64(header[8:16], uint64(g.N))
	binary.BigEndian.PutUint64(header[16:24], uint64(len(g.Neighbors)))
	if _, err := w.Write(header[:]); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing binary graph header", err)
	}
	if err := binary.Write(w, binary.BigEndian, g.XAdj); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing xadj", err)
	}
	if err := binary.Write(w, binary.BigEndian, g.Neighbors); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "writing neighbors", err)
	}
	if g.EdgeWeights != nil {
		if err := binary.Write(w, binary.BigEndian, g.EdgeWeights); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writing edge weights", err)
		}
	}
	return nil
}
