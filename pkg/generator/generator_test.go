package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/graph"
)

// requireInvariants asserts every structural property of a generated graph.
func requireInvariants(t *testing.T, res *Result) {
	t.Helper()
	s := res.Graph
	require.NoError(t, s.Validate())

	vertices := s.Vertices()
	for i, v := range vertices {
		require.Equal(t, graph.VertexID(i), v.ID, "vertex ids must be 0..N-1")
		require.LessOrEqual(t, v.Depth, res.Params.MaxDepth)
	}

	type pair struct{ a, b graph.VertexID }
	seen := map[pair]bool{}
	grayParents := make([]int, len(vertices))
	for _, e := range s.Edges() {
		da, db := vertices[e.A].Depth, vertices[e.B].Depth
		switch e.Color {
		case graph.Green:
			require.Equal(t, e.A, e.B, "green edge %d is not a loop", e.ID)
			continue
		case graph.Gray:
			require.Equal(t, 1, db-da)
			grayParents[e.B]++
		case graph.Blue:
			require.Equal(t, 0, db-da)
		case graph.Yellow:
			require.Equal(t, 1, db-da)
		case graph.Red:
			require.Equal(t, 2, db-da)
		}
		require.NotEqual(t, e.A, e.B, "%s edge %d is a loop", e.Color, e.ID)
		p := pair{min(e.A, e.B), max(e.A, e.B)}
		require.False(t, seen[p], "duplicate edge between %d and %d", e.A, e.B)
		seen[p] = true
	}
	for v := 1; v < len(grayParents); v++ {
		require.Equal(t, 1, grayParents[v], "vertex %d gray parents", v)
	}

	require.Equal(t, s.VertexCount(), res.Stats.Vertices)
	require.Equal(t, s.EdgeCount(), res.Stats.Edges)
	require.Equal(t, s.VertexCount()-1, res.Stats.Colors["gray"])
}

func TestGenerateInvariants(t *testing.T) {
	tests := []struct {
		maxDepth, newVertices, workers int
	}{
		{1, 1, 1},
		{2, 2, 4},
		{3, 3, 4},
		{4, 3, 2},
		{5, 2, 8},
		{6, 3, 4},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("depth=%d/n=%d/workers=%d", tt.maxDepth, tt.newVertices, tt.workers)
		t.Run(name, func(t *testing.T) {
			params := Params{MaxDepth: tt.maxDepth, NewVerticesNum: tt.newVertices, Workers: tt.workers}
			// Two runs: the output differs, the invariants do not.
			for range 2 {
				res, err := Generate(context.Background(), params)
				require.NoError(t, err)
				requireInvariants(t, res)
			}
		})
	}
}

func TestGenerateWithoutNewVertices(t *testing.T) {
	res, err := Generate(context.Background(), Params{MaxDepth: 3, NewVerticesNum: 0})
	require.NoError(t, err)

	require.Equal(t, 1, res.Graph.VertexCount())
	require.Equal(t, 0, res.Graph.EdgeCount())
	require.Equal(t, 0, res.MaxDepthReached())
	require.True(t, res.DepthUnreached())
	require.True(t, errs.Is(res.Warning(), errs.ErrCodeDepthUnreached))
}

func TestGenerateMaxDepthOne(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		res, err := Generate(context.Background(), Params{MaxDepth: 1, NewVerticesNum: 3, Seed: seed})
		require.NoError(t, err)
		requireInvariants(t, res)

		s := res.Graph
		require.LessOrEqual(t, s.VertexCount(), 4)
		require.Len(t, s.VerticesAtDepth(1), s.VertexCount()-1)
		for _, v := range s.VerticesAtDepth(1) {
			require.True(t, s.AreConnected(0, v))
		}
		require.Equal(t, 0, res.Stats.Colors["yellow"])
		require.Equal(t, 0, res.Stats.Colors["red"])
		require.False(t, res.DepthUnreached())
		require.NoError(t, res.Warning())
	}
}

func TestGeneratePoolSizeDoesNotAffectTree(t *testing.T) {
	base := Params{MaxDepth: 6, NewVerticesNum: 3, Seed: 2024}

	single := base
	single.Workers = 1
	one, err := Generate(context.Background(), single)
	require.NoError(t, err)
	requireInvariants(t, one)

	many := base
	many.Workers = 8
	eight, err := Generate(context.Background(), many)
	require.NoError(t, err)
	requireInvariants(t, eight)

	require.Equal(t, one.Graph.VertexCount(), eight.Graph.VertexCount())
	require.Equal(t, one.Graph.DepthCounts(), eight.Graph.DepthCounts())
	require.Equal(t, 1, one.Stats.Workers)
	require.Equal(t, 8, eight.Stats.Workers)
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"ZeroMaxDepth", Params{MaxDepth: 0, NewVerticesNum: 2}},
		{"NegativeMaxDepth", Params{MaxDepth: -1, NewVerticesNum: 2}},
		{"NegativeNewVertices", Params{MaxDepth: 2, NewVerticesNum: -1}},
		{"NegativeMaxVertices", Params{MaxDepth: 2, NewVerticesNum: 2, MaxVertices: -1}},
		{"NegativeWorkers", Params{MaxDepth: 2, NewVerticesNum: 2, Workers: -1}},
		{"ProbabilityAboveOne", Params{MaxDepth: 2, NewVerticesNum: 2, Probabilities: &Probabilities{Green: 1.5}}},
		{"ProbabilityNaN", Params{MaxDepth: 2, NewVerticesNum: 2, Probabilities: &Probabilities{Red: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(context.Background(), tt.params)
			require.Nil(t, res)
			require.True(t, errs.Is(err, errs.ErrCodeInvalidParams), "err = %v", err)
		})
	}
}

func TestGenerateDefaults(t *testing.T) {
	res, err := Generate(context.Background(), Params{MaxDepth: 2, NewVerticesNum: 2})
	require.NoError(t, err)
	require.Equal(t, DefaultWorkers, res.Params.Workers)
	require.NotZero(t, res.Params.Seed)
	require.NotNil(t, res.Params.Probabilities)
	require.Equal(t, DefaultProbabilities(), *res.Params.Probabilities)
	require.Len(t, res.Stats.Passes, 4)
	require.Equal(t, 2, res.Stats.TreeJobs)
}

func TestGenerateDoesNotAliasProbabilities(t *testing.T) {
	probs := &Probabilities{Green: 0.5}
	res, err := Generate(context.Background(), Params{MaxDepth: 2, NewVerticesNum: 1, Probabilities: probs})
	require.NoError(t, err)
	require.NotSame(t, probs, res.Params.Probabilities)
	require.Equal(t, *probs, *res.Params.Probabilities)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a cancelled context either the tree phase or the color phase
	// notices, depending on how fast the jobs drain.
	res, err := Generate(ctx, Params{MaxDepth: 4, NewVerticesNum: 3})
	require.Nil(t, res)
	require.True(t, errors.Is(err, context.Canceled), "err = %v", err)
}

func TestResultWarningMessage(t *testing.T) {
	res := &Result{Params: Params{MaxDepth: 5}, Stats: Stats{MaxDepthReached: 3}}
	err := res.Warning()
	require.Error(t, err)
	require.Equal(t, "max depth couldn't be reached: generated depth 3 of 5", errs.UserMessage(err))
}

func TestGenerateDeadlineStopsRunningJobs(t *testing.T) {
	// Unbounded, this tree would not fit in memory. A single worker makes
	// sure the deadline lands while the first job is still growing.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := Generate(ctx, Params{MaxDepth: 14, NewVerticesNum: 8, Workers: 1, Seed: 7})
	require.Nil(t, res)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestGenerateVertexLimit(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			res, err := Generate(context.Background(), Params{
				MaxDepth:       14,
				NewVerticesNum: 8,
				Workers:        workers,
				MaxVertices:    500,
			})
			require.NoError(t, err)
			requireInvariants(t, res)
			require.Equal(t, 500, res.Graph.VertexCount())
			require.True(t, res.Stats.VertexLimitReached)
		})
	}
}

func TestGenerateVertexLimitNotReached(t *testing.T) {
	res, err := Generate(context.Background(), Params{MaxDepth: 2, NewVerticesNum: 2, MaxVertices: 100})
	require.NoError(t, err)
	require.LessOrEqual(t, res.Graph.VertexCount(), 7)
	require.False(t, res.Stats.VertexLimitReached)
}
