// Package graphutil provides the read-only graph analysis the k-means
// engine and external metric reporters need: cut, imbalance, border/inner
// counts, communication volume, and the aggregated block-interaction graph.
// None of it mutates an assignment; it only observes one.
package graphutil

import (
	"context"
	"encoding/binary"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/pkg/model"
)

// NeighborIndex maps a LocalGraph's locally-owned global ids back to local
// vertex indices, letting a caller decide whether a referenced neighbor is
// local (look it up directly) or remote (resolve it through a halo
// exchange).
func NeighborIndex(g *model.LocalGraph) map[int64]int {
	idx := make(map[int64]int, g.N)
	for i := 0; i < g.N; i++ {
		idx[g.Global(i)] = i
	}
	return idx
}

// ExchangeNeighborBlocks resolves the block label of every global id
// referenced in g's adjacency lists that this rank does not own locally.
// It is the one place a graph utility reads another rank's assignment: a
// request round routes each remote id to its owner via dist.Owner, then a
// reply round returns the label, both via one AllToAll apiece.
func ExchangeNeighborBlocks(ctx context.Context, c comm.Communicator, g *model.LocalGraph, dist model.Distribution, assignment model.Assignment, ownIndex map[int64]int) (map[int64]int32, error) {
	size := c.Size()

	requestsPerRank := make([][]int64, size)
	requested := make(map[int64]bool)
	for i := 0; i < g.N; i++ {
		s, e := g.NeighborRange(i)
		for e0 := s; e0 < e; e0++ {
			gid := g.Neighbors[e0]
			if _, local := ownIndex[gid]; local {
				continue
			}
			if requested[gid] {
				continue
			}
			requested[gid] = true
			owner := dist.Owner(gid)
			requestsPerRank[owner] = append(requestsPerRank[owner], gid)
		}
	}

	encodedReq := make([][]byte, size)
	for r := range requestsPerRank {
		encodedReq[r] = encodeInt64s(requestsPerRank[r])
	}
	recvReq, err := c.AllToAll(ctx, encodedReq)
	if err != nil {
		return nil, err
	}

	replies := make([][]byte, size)
	for src, blob := range recvReq {
		ids := decodeInt64s(blob)
		labels := make([]int32, len(ids))
		for i, gid := range ids {
			labels[i] = assignment[ownIndex[gid]]
		}
		replies[src] = encodeLabelPairs(ids, labels)
	}
	recvReplies, err := c.AllToAll(ctx, replies)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]int32)
	for _, blob := range recvReplies {
		ids, labels := decodeLabelPairs(blob)
		for i, gid := range ids {
			result[gid] = labels[i]
		}
	}
	return result, nil
}

// blockOf resolves the block of a neighbor referenced by global id, whether
// it is locally owned or was fetched by ExchangeNeighborBlocks.
func blockOf(ownIndex map[int64]int, neighborLabels map[int64]int32, assignment model.Assignment, gid int64) (int32, bool) {
	if li, ok := ownIndex[gid]; ok {
		return assignment[li], true
	}
	lbl, ok := neighborLabels[gid]
	return lbl, ok
}

func encodeInt64s(vals []int64) []byte {
	buf := make([]byte, 4+8*len(vals))
	binary.BigEndian.PutUint32(buf, uint32(len(vals)))
	off := 4
	for _, v := range vals {
		binary.BigEndian.PutUint64(buf[off:], uint64(v))
		off += 8
	}
	return buf
}

func decodeInt64s(buf []byte) []int64 {
	if len(buf) < 4 {
		return nil
	}
	n := binary.BigEndian.Uint32(buf)
	out := make([]int64, n)
	off := 4
	for i := range out {
		out[i] = int64(binary.BigEndian.Uint64(buf[off:]))
		off += 8
	}
	return out
}

func encodeLabelPairs(ids []int64, labels []int32) []byte {
	buf := make([]byte, 4+12*len(ids))
	binary.BigEndian.PutUint32(buf, uint32(len(ids)))
	off := 4
	for i, gid := range ids {
		binary.BigEndian.PutUint64(buf[off:], uint64(gid))
		off += 8
		binary.BigEndian.PutUint32(buf[off:], uint32(labels[i]))
		off += 4
	}
	return buf
}

func decodeLabelPairs(buf []byte) ([]int64, []int32) {
	if len(buf) < 4 {
		return nil, nil
	}
	n := binary.BigEndian.Uint32(buf)
	ids := make([]int64, n)
	labels := make([]int32, n)
	off := 4
	for i := range ids {
		ids[i] = int64(binary.BigEndian.Uint64(buf[off:]))
		off += 8
		labels[i] = int32(binary.BigEndian.Uint32(buf[off:]))
		off += 4
	}
	return ids, labels
}
