package generator

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/matzehuels/graphgen/pkg/graph"
)

// expander grows the Gray tree below a vertex, depth-first and
// single-threaded within one call. Several expanders may run concurrently
// on the same store; only the inserts are serialized.
type expander struct {
	store    *graph.Store
	maxDepth int
	attempts int

	// maxVertices bounds the store size, root included. 0 means no bound.
	maxVertices int
	grown       atomic.Int64 // accepted draws below the root, across all jobs
}

// acceptance is the probability that an attempt below a vertex at depth
// creates a child. It falls linearly from 1 at the root to 0 at maxDepth.
func (x *expander) acceptance(depth int) float64 {
	return 1 - float64(depth)/float64(x.maxDepth)
}

// full reports whether the vertex budget is spent.
func (x *expander) full() bool {
	return x.maxVertices > 0 && int(x.grown.Load())+1 >= x.maxVertices
}

// reserve claims one vertex of the budget.
func (x *expander) reserve() bool {
	if x.maxVertices == 0 {
		return true
	}
	return int(x.grown.Add(1)) < x.maxVertices
}

// grow makes a single attempt to add a child below parent, which sits at
// depth. It returns the new child and true when the draw was accepted.
func (x *expander) grow(rng *rand.Rand, parent graph.VertexID, depth int) (graph.VertexID, bool) {
	if depth >= x.maxDepth {
		return 0, false
	}
	if rng.Float64() >= x.acceptance(depth) {
		return 0, false
	}
	if !x.reserve() {
		return 0, false
	}
	child, _, err := x.store.InsertChild(parent)
	if err != nil {
		panic(err)
	}
	return child, true
}

// expand makes up to attempts growth attempts below vertex and recurses into
// every accepted child. It stops once depth reaches maxDepth, the budget is
// spent or ctx is done.
func (x *expander) expand(ctx context.Context, rng *rand.Rand, vertex graph.VertexID, depth int) {
	if depth >= x.maxDepth {
		return
	}
	for range x.attempts {
		if ctx.Err() != nil || x.full() {
			return
		}
		if child, ok := x.grow(rng, vertex, depth); ok {
			x.expand(ctx, rng, child, depth+1)
		}
	}
}

// branch is the body of one tree-phase job: one attempt to grow a child of
// the root followed by the expansion of that child's whole sub-tree.
func (x *expander) branch(ctx context.Context, rng *rand.Rand, root graph.VertexID) {
	if ctx.Err() != nil {
		return
	}
	if child, ok := x.grow(rng, root, 0); ok {
		x.expand(ctx, rng, child, 1)
	}
}
