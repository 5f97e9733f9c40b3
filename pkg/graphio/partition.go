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

// WritePartition writes one block id per line, in local point order, the
// format METIS-family tools expect as a partition file.
func WritePartition(w io.Writer, assignment model.Assignment) error {
	bw := bufio.NewWriter(w)
	for _, b := range assignment {
		if _, err := fmt.Fprintln(bw, b); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writing partition file", err)
		}
	}
	return bw.Flush()
}

// ReadPartition parses a partition file back into an Assignment, the
// inverse of WritePartition.
func ReadPartition(r io.Reader) (model.Assignment, error) {
	scanner := bufio.NewScanner(r)
	var out model.Assignment
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		b, err := strconv.Atoi(line)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "invalid block id in partition file", err)
		}
		out = append(out, int32(b))
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading partition file", err)
	}
	return out, nil
}
