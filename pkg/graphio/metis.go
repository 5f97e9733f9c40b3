package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// metisFormat decodes the 3-digit fmt field of a METIS header line: the
// hundreds digit flags vertex sizes (unused here, present for format
// compatibility only), the tens digit flags vertex weights, the ones
// digit flags edge weights.
type metisFormat struct {
	hasVertexWeights bool
	hasEdgeWeights   bool
}

func parseMETISFormat(s string) metisFormat {
	n, _ := strconv.Atoi(s)
	return metisFormat{
		hasVertexWeights: (n/10)%10 != 0,
		hasEdgeWeights:   n%10 != 0,
	}
}

// ReadMETISGraph parses the METIS text graph format: a header line
// "nvtxs nedges [fmt [ncon]]" followed by one line per vertex listing its
// (optional) vertex weights and its 1-based neighbor ids (each optionally
// followed by an edge weight). Returns the graph with 0-based neighbor
// ids and, when present, the per-vertex weight columns.
func ReadMETISGraph(r io.Reader) (*model.LocalGraph, [][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	header, ok := nextNonCommentLine(scanner)
	if !ok {
		return nil, nil, apperrors.New(apperrors.CodeParseError, "empty METIS graph file")
	}
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return nil, nil, apperrors.Newf(apperrors.CodeParseError, "malformed METIS header: %q", header)
	}
	nvtxs, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeParseError, "invalid vertex count in METIS header", err)
	}
	var fmtFlags metisFormat
	ncon := 1
	if len(fields) >= 3 {
		fmtFlags = parseMETISFormat(fields[2])
	}
	if len(fields) >= 4 {
		ncon, err = strconv.Atoi(fields[3])
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.CodeParseError, "invalid ncon in METIS header", err)
		}
	}

	g := &model.LocalGraph{N: nvtxs, XAdj: make([]int64, nvtxs+1)}
	var weights [][]float64
	if fmtFlags.hasVertexWeights {
		weights = make([][]float64, ncon)
		for w := range weights {
			weights[w] = make([]float64, nvtxs)
		}
	}

	var neighbors []int64
	var edgeWeights []float64
	haveEdgeWeights := fmtFlags.hasEdgeWeights

	for v := 0; v < nvtxs; v++ {
		line, ok := nextNonCommentLine(scanner)
		if !ok {
			return nil, nil, apperrors.Newf(apperrors.CodeParseError, "METIS graph truncated at vertex %d", v)
		}
		tok := strings.Fields(line)
		pos := 0
		if fmtFlags.hasVertexWeights {
			for w := 0; w < ncon; w++ {
				if pos >= len(tok) {
					return nil, nil, apperrors.Newf(apperrors.CodeParseError, "missing vertex weight on line %d", v+2)
				}
				val, err := strconv.ParseFloat(tok[pos], 64)
				if err != nil {
					return nil, nil, apperrors.Wrap(apperrors.CodeParseError, "invalid vertex weight", err)
				}
				weights[w][v] = val
				pos++
			}
		}
		for pos < len(tok) {
			nb, err := strconv.Atoi(tok[pos])
			if err != nil {
				return nil, nil, apperrors.Wrap(apperrors.CodeParseError, "invalid neighbor id", err)
			}
			neighbors = append(neighbors, int64(nb-1))
			pos++
			if haveEdgeWeights {
				if pos >= len(tok) {
					return nil, nil, apperrors.Newf(apperrors.CodeParseError, "missing edge weight on line %d", v+2)
				}
				ew, err := strconv.ParseFloat(tok[pos], 64)
				if err != nil {
					return nil, nil, apperrors.Wrap(apperrors.CodeParseError, "invalid edge weight", err)
				}
				edgeWeights = append(edgeWeights, ew)
				pos++
			}
		}
		g.XAdj[v+1] = int64(len(neighbors))
	}
	g.Neighbors = neighbors
	if haveEdgeWeights {
		g.EdgeWeights = edgeWeights
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeIOError, "reading METIS graph", err)
	}
	return g, weights, nil
}

// WriteMETISGraph writes g (with 0-based neighbor ids) back out in METIS
// text format, including vertexWeights and g.EdgeWeights when present.
func WriteMETISGraph(w io.Writer, g *model.LocalGraph, vertexWeights [][]float64) error {
	bw := bufio.NewWriter(w)
	nedges := len(g.Neighbors) / 2
	fmtFlag := 0
	if len(vertexWeights) > 0 {
		fmtFlag += 10
	}
	if g.EdgeWeights != nil {
		fmtFlag++
	}
	if len(vertexWeights) > 0 {
		fmt.Fprintf(bw, "%d %d %03d %d\n", g.N, nedges, fmtFlag, len(vertexWeights))
	} else if fmtFlag != 0 {
		fmt.Fprintf(bw, "%d %d %03d\n", g.N, nedges, fmtFlag)
	} else {
		fmt.Fprintf(bw, "%d %d\n", g.N, nedges)
	}

	for v := 0; v < g.N; v++ {
		var sb strings.Builder
		for w := range vertexWeights {
			fmt.Fprintf(&sb, "%v ", vertexWeights[w][v])
		}
		s, e := g.NeighborRange(v)
		for i := s; i < e; i++ {
			fmt.Fprintf(&sb, "%d ", g.Neighbors[i]+1)
			if g.EdgeWeights != nil {
				fmt.Fprintf(&sb, "%v ", g.EdgeWeights[i])
			}
		}
		fmt.Fprintln(bw, strings.TrimSpace(sb.String()))
	}
	return bw.Flush()
}

// nextNonCommentLine returns the next scanner line that is neither blank
// nor a METIS "%" comment line.
func nextNonCommentLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, true
	}
	return "", false
}
