package generator

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/graph"
	"github.com/matzehuels/graphgen/pkg/observability"
)

// PassStats summarizes one color pass.
type PassStats struct {
	Color graph.Color `json:"color" bson:"color"`
	Edges int         `json:"edges" bson:"edges"`
	// Exhausted counts accepted draws that found no candidate to link to.
	Exhausted int           `json:"exhausted" bson:"exhausted"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// Warning returns an EXHAUSTED_CANDIDATES error when some accepted draws of
// the pass found nothing to link to, or nil.
func (s PassStats) Warning() error {
	if s.Exhausted == 0 {
		return nil
	}
	return errs.New(errs.ErrCodeExhaustedCandidates,
		"%s pass: %d accepted draws found no candidate", s.Color, s.Exhausted)
}

// painter adds the non-tree edge families over a completed Gray tree.
// maxReached is fixed when the painter is built: the tree no longer grows.
type painter struct {
	store      *graph.Store
	probs      Probabilities
	maxReached int
}

type colorPass struct {
	color graph.Color
	run   func(p *painter, rng *rand.Rand, st *PassStats)
}

var colorPasses = []colorPass{
	{graph.Green, (*painter).green},
	{graph.Blue, (*painter).blue},
	{graph.Yellow, (*painter).yellow},
	{graph.Red, (*painter).red},
}

// paint runs the four color passes concurrently, one goroutine each, and
// joins them. It must only be called once the tree phase has fully finished.
func (p *painter) paint(ctx context.Context, seed uint64) ([]PassStats, error) {
	hooks := observability.Generator()
	stats := make([]PassStats, len(colorPasses))

	g, ctx := errgroup.WithContext(ctx)
	for i, pass := range colorPasses {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := newRand(seed, passStreamBase+uint64(pass.color))
			st := &stats[i]
			st.Color = pass.color

			start := time.Now()
			pass.run(p, rng, st)
			st.Duration = time.Since(start)

			hooks.OnPassComplete(ctx, pass.color.String(), st.Edges, st.Duration)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// link inserts a color edge. The passes only propose pairs they have checked,
// so a store rejection is a programming error.
func (p *painter) link(a, b graph.VertexID, color graph.Color, st *PassStats) {
	if _, err := p.store.InsertEdge(a, b, color); err != nil {
		panic(err)
	}
	st.Edges++
}

// green adds a self-loop to each vertex with the green probability.
func (p *painter) green(rng *rand.Rand, st *PassStats) {
	for _, v := range p.store.Vertices() {
		if rng.Float64() < p.probs.Green {
			p.link(v.ID, v.ID, graph.Green, st)
		}
	}
}

// blue links consecutive vertices of each depth level, in creation order.
func (p *painter) blue(rng *rand.Rand, st *PassStats) {
	for d := 0; d <= p.maxReached; d++ {
		level := p.store.VerticesAtDepth(d)
		for i := 0; i+1 < len(level); i++ {
			if rng.Float64() >= p.probs.Blue {
				continue
			}
			a, b := level[i], level[i+1]
			if p.store.AreConnected(a, b) {
				st.Exhausted++
				continue
			}
			p.link(a, b, graph.Blue, st)
		}
	}
}

// yellowProbability grows linearly from 0 at the root to probs.Yellow at the
// level just above the deepest one.
func (p *painter) yellowProbability(depth int) float64 {
	if p.maxReached <= 1 {
		return 0
	}
	return p.probs.Yellow * float64(depth) / float64(p.maxReached-1)
}

// yellow links vertices to a random not-yet-connected vertex one level down.
func (p *painter) yellow(rng *rand.Rand, st *PassStats) {
	for d := 0; d < p.maxReached; d++ {
		prob := p.yellowProbability(d)
		if prob == 0 {
			continue
		}
		next := p.store.VerticesAtDepth(d + 1)
		for _, v := range p.store.VerticesAtDepth(d) {
			if rng.Float64() >= prob {
				continue
			}
			candidates := make([]graph.VertexID, 0, len(next))
			for _, w := range next {
				if !p.store.AreConnected(v, w) {
					candidates = append(candidates, w)
				}
			}
			if len(candidates) == 0 {
				st.Exhausted++
				continue
			}
			p.link(v, candidates[rng.IntN(len(candidates))], graph.Yellow, st)
		}
	}
}

// red links vertices to a random vertex two levels down.
func (p *painter) red(rng *rand.Rand, st *PassStats) {
	for d := 0; d+2 <= p.maxReached; d++ {
		targets := p.store.VerticesAtDepth(d + 2)
		if len(targets) == 0 {
			continue
		}
		for _, v := range p.store.VerticesAtDepth(d) {
			if rng.Float64() >= p.probs.Red {
				continue
			}
			w := targets[rng.IntN(len(targets))]
			if p.store.AreConnected(v, w) {
				st.Exhausted++
				continue
			}
			p.link(v, w, graph.Red, st)
		}
	}
}
