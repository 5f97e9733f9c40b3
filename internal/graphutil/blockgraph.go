package graphutil

import (
	"context"
	"encoding/binary"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/collections"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// BlockGraph is the sparse k*k adjacency of blocks that share at least one
// cut edge, aggregated across every rank's local edges.
type BlockGraph struct {
	K         int
	Neighbors [][]int // Neighbors[i] is block i's distinct adjacent blocks, ascending.
}

// BuildBlockGraph computes the global block-interaction graph: each rank
// first marks every cross-block edge it can see into a Bitset over the
// k*k ordered-pair index space, then the bitmaps are ring-shifted around
// the communicator and OR-ed into an accumulator so that after Size()-1
// shifts every rank holds the union of all ranks' local bitmaps.
func BuildBlockGraph(ctx context.Context, c comm.Communicator, g *model.LocalGraph, assignment model.Assignment, k int, ownIndex map[int64]int, neighborLabels map[int64]int32) (*BlockGraph, error) {
	local := collections.NewBitset(k * k)
	for i := 0; i < g.N; i++ {
		myBlock := int(assignment[i])
		s, e := g.NeighborRange(i)
		for e0 := s; e0 < e; e0++ {
			nb, ok := blockOf(ownIndex, neighborLabels, assignment, g.Neighbors[e0])
			if !ok || int(nb) == myBlock {
				continue
			}
			local.Set(myBlock*k + int(nb))
			local.Set(int(nb)*k + myBlock)
		}
	}

	acc := local.Clone()
	payload := bitsetToBytes(local)
	for step := 1; step < c.Size(); step++ {
		recv, err := c.Shift(ctx, 1, payload)
		if err != nil {
			return nil, err
		}
		acc.Or(bytesToBitset(recv, k*k))
		payload = recv
	}

	bg := &BlockGraph{K: k, Neighbors: make([][]int, k)}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i != j && acc.Test(i*k+j) {
				bg.Neighbors[i] = append(bg.Neighbors[i], j)
			}
		}
	}
	return bg, nil
}

// bitsetToBytes serializes a bitset as its sorted list of set indices
// rather than its raw word array, since Bitset does not expose the latter.
func bitsetToBytes(b *collections.Bitset) []byte {
	idx := b.ToSlice()
	buf := make([]byte, 4+4*len(idx))
	binary.BigEndian.PutUint32(buf, uint32(len(idx)))
	off := 4
	for _, i := range idx {
		binary.BigEndian.PutUint32(buf[off:], uint32(i))
		off += 4
	}
	return buf
}

func bytesToBitset(data []byte, size int) *collections.Bitset {
	b := collections.NewBitset(size)
	if len(data) < 4 {
		return b
	}
	n := binary.BigEndian.Uint32(data)
	off := 4
	for i := uint32(0); i < n; i++ {
		b.Set(int(binary.BigEndian.Uint32(data[off:])))
		off += 4
	}
	return b
}
