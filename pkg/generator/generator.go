package generator

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/graph"
	"github.com/matzehuels/graphgen/pkg/observability"
)

// Stats summarizes a finished generation run.
type Stats struct {
	Vertices        int            `json:"vertices" bson:"vertices"`
	Edges           int            `json:"edges" bson:"edges"`
	MaxDepthReached int            `json:"max_depth_reached" bson:"max_depth_reached"`
	Colors          map[string]int `json:"colors" bson:"colors"`
	DepthCounts     []int          `json:"depth_counts" bson:"depth_counts"`
	Passes          []PassStats    `json:"passes" bson:"passes"`

	// ExhaustedCandidates counts accepted color draws skipped because no
	// candidate vertex was left to link to.
	ExhaustedCandidates int `json:"exhausted_candidates" bson:"exhausted_candidates"`

	// VertexLimitReached is set when tree growth stopped at
	// Params.MaxVertices.
	VertexLimitReached bool `json:"vertex_limit_reached,omitempty" bson:"vertex_limit_reached,omitempty"`

	TreeJobs      int           `json:"tree_jobs" bson:"tree_jobs"`
	Workers       int           `json:"workers" bson:"workers"`
	TreeDuration  time.Duration `json:"tree_duration" bson:"tree_duration"`
	ColorDuration time.Duration `json:"color_duration" bson:"color_duration"`
}

// Result is the outcome of [Generate].
type Result struct {
	// Graph is the finished store. No further mutation happens after
	// Generate returns.
	Graph *graph.Store

	// Params are the effective parameters, defaults and seed included.
	Params Params

	Stats Stats
}

// MaxDepthReached returns the deepest level holding a vertex.
func (r *Result) MaxDepthReached() int { return r.Stats.MaxDepthReached }

// DepthUnreached reports whether the tree stopped short of MaxDepth.
// This is informational: the graph is still valid.
func (r *Result) DepthUnreached() bool {
	return r.Stats.MaxDepthReached < r.Params.MaxDepth
}

// Warning returns a DEPTH_UNREACHED error describing how far the tree got,
// or nil when MaxDepth was reached.
func (r *Result) Warning() error {
	if !r.DepthUnreached() {
		return nil
	}
	return errs.New(errs.ErrCodeDepthUnreached,
		"max depth couldn't be reached: generated depth %d of %d", r.Stats.MaxDepthReached, r.Params.MaxDepth)
}

// Generate builds a new random graph.
//
// It inserts the root, grows the Gray tree with a pool of Params.Workers
// workers running one job per root child attempt, waits for every worker to
// exit, then runs the Green, Blue, Yellow and Red passes concurrently.
// A run with no tree jobs returns the bare root without any edge.
//
// Generate fails with INVALID_PARAMS for invalid parameters and with the
// context error when ctx is cancelled. Running tree jobs stop at their next
// growth attempt and no color pass starts. A tree shallower than MaxDepth is not a failure, see
// [Result.Warning].
func Generate(ctx context.Context, params Params) (*Result, error) {
	if err := params.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := params.Logger
	hooks := observability.Generator()

	store := graph.New()
	root := store.InsertVertex(0)

	// Tree phase.
	x := &expander{
		store:       store,
		maxDepth:    params.MaxDepth,
		attempts:    params.NewVerticesNum,
		maxVertices: params.MaxVertices,
	}
	pool := NewPool(params.Workers)
	pool.OnJobComplete(func(completed, total int) {
		hooks.OnJobComplete(ctx, completed, total)
	})
	for i := range params.NewVerticesNum {
		stream := uint64(i)
		if err := pool.Submit(func() { x.branch(ctx, newRand(params.Seed, stream), root) }); err != nil {
			return nil, err
		}
	}

	logger.Debug("growing tree", "jobs", params.NewVerticesNum, "workers", pool.Workers(), "max_depth", params.MaxDepth)
	hooks.OnTreeStart(ctx, params.NewVerticesNum, pool.Workers())
	treeStart := time.Now()
	err := pool.Run(ctx)
	if err == nil {
		// Jobs return early on cancellation, so the pool may still finish.
		err = ctx.Err()
	}
	treeDuration := time.Since(treeStart)
	hooks.OnTreeComplete(ctx, store.VertexCount(), treeDuration, err)
	if err != nil {
		return nil, fmt.Errorf("tree phase: %w", err)
	}
	logger.Debug("tree complete", "vertices", store.VertexCount(), "depth", store.MaxDepthReached(), "took", treeDuration)

	// Color phase. A lone root is left bare.
	var passes []PassStats
	colorStart := time.Now()
	if store.VertexCount() > 1 {
		p := &painter{store: store, probs: *params.Probabilities, maxReached: store.MaxDepthReached()}
		if passes, err = p.paint(ctx, params.Seed); err != nil {
			return nil, fmt.Errorf("color phase: %w", err)
		}
	}
	colorDuration := time.Since(colorStart)
	logger.Debug("color passes complete", "edges", store.EdgeCount(), "took", colorDuration)
	for _, st := range passes {
		if w := st.Warning(); w != nil {
			logger.Debug(errs.UserMessage(w), "code", errs.GetCode(w))
		}
	}

	result := &Result{
		Graph:  store,
		Params: params,
		Stats:  collectStats(store, passes),
	}
	result.Stats.VertexLimitReached = x.full()
	result.Stats.TreeJobs = params.NewVerticesNum
	result.Stats.Workers = pool.Workers()
	result.Stats.TreeDuration = treeDuration
	result.Stats.ColorDuration = colorDuration

	if result.Stats.VertexLimitReached {
		logger.Warn("vertex limit reached", "max_vertices", params.MaxVertices)
	}
	if result.DepthUnreached() {
		logger.Warn("max depth couldn't be reached",
			"reached", result.Stats.MaxDepthReached, "max_depth", params.MaxDepth)
	}
	return result, nil
}

func collectStats(store *graph.Store, passes []PassStats) Stats {
	colors := make(map[string]int, len(graph.Colors))
	for c, n := range store.ColorCounts() {
		colors[c.String()] = n
	}
	exhausted := 0
	for _, p := range passes {
		exhausted += p.Exhausted
	}
	return Stats{
		Vertices:            store.VertexCount(),
		Edges:               store.EdgeCount(),
		MaxDepthReached:     store.MaxDepthReached(),
		Colors:              colors,
		DepthCounts:         store.DepthCounts(),
		Passes:              passes,
		ExhaustedCandidates: exhausted,
	}
}
