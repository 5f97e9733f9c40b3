package comm

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kit-parco/geographer-go/pkg/telemetry"
)

// barrier holds the shared state for one in-flight collective call. A new
// barrier replaces the previous one the instant it completes, so a rank
// that calls two different collectives in a row cannot accidentally
// rendezvous with stragglers still finishing the first one.
type barrier struct {
	size          int
	mu            sync.Mutex
	arrived       int
	contributions []any
	results       []any
	done          chan struct{}
}

func newBarrier(size int) *barrier {
	return &barrier{
		size:          size,
		contributions: make([]any, size),
		done:          make(chan struct{}),
	}
}

// LocalWorld is the shared rendezvous point for a fixed set of ranks
// simulated as goroutines in this process.
type LocalWorld struct {
	size int
	mu   sync.Mutex
	cur  *barrier
}

// NewLocalWorld creates a world of size ranks. Use Rank to obtain each
// rank's Communicator view before spawning the rank goroutines, or call
// Run to have the world manage goroutine lifecycle via errgroup.
func NewLocalWorld(size int) *LocalWorld {
	return &LocalWorld{
		size: size,
		cur:  newBarrier(size),
	}
}

// Size returns the number of ranks in the world.
func (w *LocalWorld) Size() int { return w.size }

// Rank returns rank r's Communicator handle into this world.
func (w *LocalWorld) Rank(r int) Communicator {
	return &rankComm{world: w, rank: r}
}

// Run spawns one goroutine per rank via errgroup, invoking fn with each
// rank's Communicator. If any rank's fn returns an error, the group's
// context is canceled; ranks blocked in a collective observe the
// cancellation through ctx.Done() and return the context error rather
// than hanging forever.
func (w *LocalWorld) Run(ctx context.Context, fn func(ctx context.Context, c Communicator) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for r := 0; r < w.size; r++ {
		r := r
		g.Go(func() error {
			return fn(gctx, w.Rank(r))
		})
	}
	return g.Wait()
}

// enter runs one rank's contribution through the current barrier and
// returns that rank's slot of the reduced results. reduce receives every
// rank's contribution, in rank order, and must return one result per rank.
func (w *LocalWorld) enter(ctx context.Context, rank int, contribution any, reduce func([]any) []any) (any, error) {
	w.mu.Lock()
	b := w.cur
	b.mu.Lock()
	b.contributions[rank] = contribution
	b.arrived++
	last := b.arrived == b.size
	if last {
		w.cur = newBarrier(b.size)
	}
	w.mu.Unlock()

	if last {
		b.results = reduce(b.contributions)
		close(b.done)
		b.mu.Unlock()
		return b.results[rank], nil
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return b.results[rank], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type rankComm struct {
	world *LocalWorld
	rank  int
}

func (r *rankComm) Rank() int { return r.rank }
func (r *rankComm) Size() int { return r.world.size }

func (r *rankComm) Barrier(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "comm.Barrier")
	defer span.End()
	_, err := r.world.enter(ctx, r.rank, nil, func(contribs []any) []any {
		return make([]any, len(contribs))
	})
	return err
}

func (r *rankComm) AllReduceSum(ctx context.Context, local []float64) ([]float64, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.AllReduceSum")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, local, func(contribs []any) []any {
		sum := make([]float64, len(local))
		for _, c := range contribs {
			v := c.([]float64)
			for i, x := range v {
				sum[i] += x
			}
		}
		out := make([]any, len(contribs))
		for i := range out {
			out[i] = sum
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([]float64), nil
}

func (r *rankComm) AllReduceMin(ctx context.Context, local []float64) ([]float64, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.AllReduceMin")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, local, func(contribs []any) []any {
		out := extremum(contribs, local, func(a, b float64) bool { return b < a })
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([]float64), nil
}

func (r *rankComm) AllReduceMax(ctx context.Context, local []float64) ([]float64, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.AllReduceMax")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, local, func(contribs []any) []any {
		out := extremum(contribs, local, func(a, b float64) bool { return b > a })
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([]float64), nil
}

// extremum reduces contribs element-wise by replacing the accumulator
// value whenever better(acc, candidate) is true, sharing the result
// across every rank's return slot.
func extremum(contribs []any, shape []float64, better func(acc, candidate float64) bool) []any {
	result := make([]float64, len(shape))
	copy(result, contribs[0].([]float64))
	for _, c := range contribs[1:] {
		v := c.([]float64)
		for i, x := range v {
			if better(result[i], x) {
				result[i] = x
			}
		}
	}
	out := make([]any, len(contribs))
	for i := range out {
		out[i] = result
	}
	return out
}

func (r *rankComm) Broadcast(ctx context.Context, root int, data []byte) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.Broadcast")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, data, func(contribs []any) []any {
		rootData, _ := contribs[root].([]byte)
		out := make([]any, len(contribs))
		for i := range out {
			out[i] = rootData
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	b, _ := res.([]byte)
	return b, nil
}

func (r *rankComm) Gather(ctx context.Context, local []byte) ([][]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.Gather")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, local, func(contribs []any) []any {
		gathered := make([][]byte, len(contribs))
		for i, c := range contribs {
			gathered[i], _ = c.([]byte)
		}
		out := make([]any, len(contribs))
		for i := range out {
			out[i] = gathered
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([][]byte), nil
}

func (r *rankComm) Scatter(ctx context.Context, root int, chunks [][]byte) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.Scatter")
	defer span.End()
	res, err := r.world.enter(ctx, r.rank, chunks, func(contribs []any) []any {
		rootChunks, _ := contribs[root].([][]byte)
		out := make([]any, len(contribs))
		for i := range out {
			if i < len(rootChunks) {
				out[i] = rootChunks[i]
			}
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	b, _ := res.([]byte)
	return b, nil
}

func (r *rankComm) Shift(ctx context.Context, delta int, send []byte) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.Shift")
	defer span.End()
	size := r.world.size
	res, err := r.world.enter(ctx, r.rank, send, func(contribs []any) []any {
		out := make([]any, len(contribs))
		for dest := 0; dest < size; dest++ {
			src := ((dest-delta)%size + size) % size
			out[dest] = contribs[src]
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	b, _ := res.([]byte)
	return b, nil
}

func (r *rankComm) AllToAll(ctx context.Context, send [][]byte) ([][]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "comm.AllToAll")
	defer span.End()
	size := r.world.size
	res, err := r.world.enter(ctx, r.rank, send, func(contribs []any) []any {
		out := make([]any, size)
		for dest := 0; dest < size; dest++ {
			recv := make([][]byte, size)
			for src := 0; src < size; src++ {
				fromSrc, _ := contribs[src].([][]byte)
				if dest < len(fromSrc) {
					recv[src] = fromSrc[dest]
				}
			}
			out[dest] = recv
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([][]byte), nil
}
