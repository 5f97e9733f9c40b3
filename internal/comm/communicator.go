// Package comm simulates the SPMD collective operations a distributed
// partitioner runs across ranks, using in-process goroutines instead of a
// real MPI binding (none is available in the Go ecosystem this module draws
// on). Every rank is a goroutine; every collective is a barrier that all
// ranks must enter before any of them can leave.
package comm

import "context"

// Communicator is the transport-agnostic view of the collective
// operations available to one rank. Every method must be called by every
// rank in the communicator for the call to complete; a rank that never
// calls it blocks the rest forever, exactly as a real MPI collective would.
type Communicator interface {
	// Rank returns this rank's 0-based index.
	Rank() int

	// Size returns the total number of ranks in the communicator.
	Size() int

	// Barrier blocks until every rank has entered the barrier.
	Barrier(ctx context.Context) error

	// AllReduceSum returns the element-wise sum of local across all ranks.
	AllReduceSum(ctx context.Context, local []float64) ([]float64, error)

	// AllReduceMin returns the element-wise minimum of local across all ranks.
	AllReduceMin(ctx context.Context, local []float64) ([]float64, error)

	// AllReduceMax returns the element-wise maximum of local across all ranks.
	AllReduceMax(ctx context.Context, local []float64) ([]float64, error)

	// Broadcast distributes root's data to every rank. Only the value
	// passed by root is used; other ranks may pass nil.
	Broadcast(ctx context.Context, root int, data []byte) ([]byte, error)

	// Gather collects every rank's local data, in rank order, and returns
	// the full list to every rank (an allgather, for simulation simplicity).
	Gather(ctx context.Context, local []byte) ([][]byte, error)

	// Scatter splits root's per-rank chunks and returns each rank its
	// chunk. chunks must have Size() entries when called by root; other
	// ranks may pass nil.
	Scatter(ctx context.Context, root int, chunks [][]byte) ([]byte, error)

	// Shift performs a ring shift: rank r receives the data that rank
	// (r-delta+Size())%Size() sent.
	Shift(ctx context.Context, delta int, send []byte) ([]byte, error)

	// AllToAll exchanges per-destination data between every pair of ranks.
	// send must have Size() entries, send[d] being the payload for rank d.
	// Returns recv where recv[s] is the payload received from rank s.
	AllToAll(ctx context.Context, send [][]byte) ([][]byte, error)
}
