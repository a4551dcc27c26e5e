package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphgen/pkg/archive"
	"github.com/matzehuels/graphgen/pkg/cache"
	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/graph"
	graphio "github.com/matzehuels/graphgen/pkg/io"
	"github.com/matzehuels/graphgen/pkg/observability"
)

// Runner encapsulates pipeline execution with caching and archiving.
// Both CLI and API use it so that runs stored by one are readable by the
// other.
//
// The Runner is stateless except for its backends and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Archive // optional
	Logger  *log.Logger
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The archive may be nil.
func NewRunner(c cache.Cache, keyer cache.Keyer, a archive.Archive, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: a,
		Logger:  logger,
	}
}

// runEntry is the cached form of a run.
type runEntry struct {
	Params  generator.Params `json:"params"`
	Stats   generator.Stats  `json:"stats"`
	Warning string           `json:"warning,omitempty"`
	Graph   graphio.Document `json:"graph"`
}

// Execute runs the complete generate → validate → store → render pipeline.
//
// A seeded run whose options were executed before is served from the cache
// unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var result *Result
	if opts.Seed != 0 && !opts.Refresh {
		result = r.lookupSeeded(ctx, opts)
	}
	if result == nil {
		var err error
		if result, err = r.Generate(ctx, opts); err != nil {
			return nil, err
		}
	}

	artifacts, err := r.Render(ctx, result.RunID, result.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	return result, nil
}

// Generate builds a new graph, validates it and stores it under a fresh
// run ID. It does not render anything.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	runID := uuid.NewString()
	hooks.OnGenerateStart(ctx, runID)
	start := time.Now()

	res, err := generator.Generate(ctx, opts.GeneratorParams())
	if err == nil {
		if verr := res.Graph.Validate(); verr != nil {
			err = errs.Wrap(errs.ErrCodeInternal, verr, "generated graph is invalid")
		}
	}
	duration := time.Since(start)
	if err != nil {
		hooks.OnGenerateComplete(ctx, runID, 0, 0, duration, err)
		return nil, fmt.Errorf("generate: %w", err)
	}
	hooks.OnGenerateComplete(ctx, runID, res.Graph.VertexCount(), res.Graph.EdgeCount(), duration, nil)

	result := &Result{
		RunID:  runID,
		Graph:  res.Graph,
		Params: res.Params,
		Stats:  res.Stats,
	}
	result.Params.Logger = nil
	if w := res.Warning(); w != nil {
		result.Warning = errs.UserMessage(w)
	}

	r.Logger.Info("generated graph",
		"run", runID,
		"vertices", res.Graph.VertexCount(),
		"edges", res.Graph.EdgeCount(),
		"depth", res.MaxDepthReached(),
		"duration", duration)

	r.store(ctx, result)
	if r.Archive != nil {
		if err := r.Archive.Save(ctx, archive.NewRecord(runID, res)); err != nil {
			r.Logger.Warn("archive run failed", "run", runID, "err", err)
		}
	}
	if opts.Seed != 0 {
		key := r.Keyer.ParamsKey(opts.keyParams())
		if err := r.Cache.Set(ctx, key, []byte(runID), cache.TTLParams); err == nil {
			observability.Cache().OnCacheSet(ctx, "params", len(runID))
		}
	}
	return result, nil
}

// Load returns a stored run by ID. It reads the cache first and falls back
// to the archive; a run found only in the archive is cached again.
// It fails with INVALID_RUN_ID for malformed IDs and NOT_FOUND for unknown
// runs.
func (r *Runner) Load(ctx context.Context, runID string) (*Result, error) {
	if err := errs.ValidateRunID(runID); err != nil {
		return nil, err
	}
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, r.Keyer.GraphKey(runID)); err == nil && hit {
		var entry runEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if g, err := entry.Graph.ToStore(); err == nil {
				hooks.OnCacheHit(ctx, "graph")
				return &Result{
					RunID:    runID,
					Graph:    g,
					Params:   entry.Params,
					Stats:    entry.Stats,
					Warning:  entry.Warning,
					CacheHit: true,
				}, nil
			}
		}
		// If decoding fails, fall through to the archive
	}
	hooks.OnCacheMiss(ctx, "graph")

	if r.Archive == nil {
		return nil, errs.New(errs.ErrCodeNotFound, "run %s not found", runID)
	}
	rec, err := r.Archive.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	g, err := rec.Graph.ToStore()
	if err != nil {
		return nil, fmt.Errorf("archived run %s: %w", runID, err)
	}
	result := &Result{
		RunID:   runID,
		Graph:   g,
		Params:  rec.Params,
		Stats:   rec.Stats,
		Warning: rec.Warning,
	}
	r.store(ctx, result)
	return result, nil
}

// History lists the most recent archived runs.
func (r *Runner) History(ctx context.Context, limit int) ([]archive.Summary, error) {
	if r.Archive == nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "no archive configured")
	}
	return r.Archive.List(ctx, limit)
}

// lookupSeeded returns the cached run for seeded options, or nil.
func (r *Runner) lookupSeeded(ctx context.Context, opts Options) *Result {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ParamsKey(opts.keyParams()))
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "params")
		return nil
	}
	hooks.OnCacheHit(ctx, "params")

	result, err := r.Load(ctx, string(data))
	if err != nil {
		r.Logger.Debug("cached run unavailable", "run", string(data), "err", err)
		return nil
	}
	result.CacheHit = true
	r.Logger.Info("reusing cached run", "run", result.RunID)
	return result
}

// store caches a run's graph document.
func (r *Runner) store(ctx context.Context, result *Result) {
	data, err := json.Marshal(runEntry{
		Params:  result.Params,
		Stats:   result.Stats,
		Warning: result.Warning,
		Graph:   graphio.FromStore(result.Graph),
	})
	if err != nil {
		r.Logger.Warn("encode run failed", "run", result.RunID, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.GraphKey(result.RunID), data, cache.TTLGraph); err != nil {
		r.Logger.Warn("cache run failed", "run", result.RunID, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// Render produces the requested artifacts for a graph. When runID is set,
// artifacts are read from and written to the cache; an empty runID renders
// without caching.
func (r *Runner) Render(ctx context.Context, runID string, g *graph.Store, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.validateFormats(); err != nil {
		return nil, err
	}
	hooks := observability.Cache()

	// Try to get all formats from cache
	if runID != "" {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(runID, artifactVariant(format, opts.Detailed))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	rendered, err := RenderArtifacts(ctx, g, opts.Formats, opts.Detailed)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", time.Since(start))

	if runID != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(runID, artifactVariant(format, opts.Detailed))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				hooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return rendered, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Archive != nil {
		if aerr := r.Archive.Close(ctx); err == nil {
			err = aerr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// artifactVariant distinguishes detailed renderings in artifact keys.
func artifactVariant(format string, detailed bool) string {
	if detailed && format != "json" {
		return format + "+detailed"
	}
	return format
}
