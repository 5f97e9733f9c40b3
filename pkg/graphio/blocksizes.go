package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/kit-parco/geographer-go/pkg/errors"
)

// ReadBlockSizes parses a block-sizes file: one line per block, each
// holding numWeights space-separated target weights for that block.
// Returns TargetWeight laid out [weight axis][block], matching
// pkg/model.BlockSet.TargetWeight.
func ReadBlockSizes(r io.Reader, numWeights int) ([][]float64, error) {
	scanner := bufio.NewScanner(r)
	var rows [][]float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tok := strings.Fields(line)
		if len(tok) < numWeights {
			return nil, apperrors.Newf(apperrors.CodeParseError, "expected %d weights per block, got %q", numWeights, line)
		}
		row := make([]float64, numWeights)
		for w := 0; w < numWeights; w++ {
			v, err := strconv.ParseFloat(tok[w], 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid block-size value", err)
			}
			row[w] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading block-sizes file", err)
	}

	target := make([][]float64, numWeights)
	for w := 0; w < numWeights; w++ {
		target[w] = make([]float64, len(rows))
		for b, row := range rows {
			target[w][b] = row[w]
		}
	}
	return target, nil
}

// WriteBlockSizes writes target (laid out [weight axis][block]) as one
// line per block, the inverse of ReadBlockSizes.
func WriteBlockSizes(w io.Writer, target [][]float64) error {
	bw := bufio.NewWriter(w)
	if len(target) == 0 {
		return bw.Flush()
	}
	k := len(target[0])
	for b := 0; b < k; b++ {
		var sb strings.Builder
		for axis := range target {
			fmt.Fprintf(&sb, "%v ", target[axis][b])
		}
		if _, err := fmt.Fprintln(bw, strings.TrimSpace(sb.String())); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writing block-sizes file", err)
		}
	}
	return bw.Flush()
}
