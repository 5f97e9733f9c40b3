package graphio

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// ReadMatrixMarket parses a Matrix Market coordinate real symmetric
// matrix as an adjacency graph: the banner line, any "%"-prefixed
// comments, a "rows cols nnz" size line, then nnz "row col value" entries
// (1-based). Symmetric entries are expanded into both directions;
// diagonal entries are treated as vertex self-loops and dropped, since
// the partitioner has no use for them.
func ReadMatrixMarket(r io.Reader) (*model.LocalGraph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 32*1024*1024)

	if !scanner.Scan() {
		return nil, apperrors.New(apperrors.CodeParseError, "empty Matrix Market file")
	}
	banner := strings.ToLower(scanner.Text())
	if !strings.HasPrefix(banner, "%%matrixmarket") {
		return nil, apperrors.Newf(apperrors.CodeParseError, "missing MatrixMarket banner: %q", banner)
	}
	if !strings.Contains(banner, "coordinate") {
		return nil, apperrors.New(apperrors.CodeParseError, "only coordinate Matrix Market format is supported")
	}
	symmetric := strings.Contains(banner, "symmetric")

	var sizeLine string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		sizeLine = line
		break
	}
	if sizeLine == "" {
		return nil, apperrors.New(apperrors.CodeParseError, "missing Matrix Market size line")
	}
	sizeFields := strings.Fields(sizeLine)
	if len(sizeFields) < 3 {
		return nil, apperrors.Newf(apperrors.CodeParseError, "malformed Matrix Market size line: %q", sizeLine)
	}
	n, err := strconv.Atoi(sizeFields[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid row count", err)
	}
	nnz, err := strconv.Atoi(sizeFields[2])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid nnz count", err)
	}

	type edge struct {
		u, v int
		w    float64
	}
	edges := make([]edge, 0, nnz*2)
	for i := 0; i < nnz; i++ {
		if !scanner.Scan() {
			return nil, apperrors.Newf(apperrors.CodeParseError, "Matrix Market truncated at entry %d", i)
		}
		tok := strings.Fields(scanner.Text())
		if len(tok) < 2 {
			return nil, apperrors.Newf(apperrors.CodeParseError, "malformed Matrix Market entry: %q", scanner.Text())
		}
		row, err := strconv.Atoi(tok[0])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid row index", err)
		}
		col, err := strconv.Atoi(tok[1])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid column index", err)
		}
		if row == col {
			continue
		}
		val := 1.0
		if len(tok) >= 3 {
			val, err = strconv.ParseFloat(tok[2], 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid entry value", err)
			}
		}
		edges = append(edges, edge{u: row - 1, v: col - 1, w: val})
		if symmetric {
			edges = append(edges, edge{u: col - 1, v: row - 1, w: val})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading Matrix Market file", err)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	g := &model.LocalGraph{N: n, XAdj: make([]int64, n+1)}
	g.Neighbors = make([]int64, len(edges))
	g.EdgeWeights = make([]float64, len(edges))
	for i, e := range edges {
		g.Neighbors[i] = int64(e.v)
		g.EdgeWeights[i] = e.w
	}
	for _, e := range edges {
		g.XAdj[e.u+1]++
	}
	for v := 0; v < n; v++ {
		g.XAdj[v+1] += g.XAdj[v]
	}
	return g, nil
}
