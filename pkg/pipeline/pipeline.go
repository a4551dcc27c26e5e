// Package pipeline runs graph generation end to end for the CLI and the
// HTTP API.
//
// A run goes through four stages:
//
//  1. Generate: build the random graph with [generator.Generate]
//  2. Validate: check every structural invariant of the result
//  3. Store: cache the run under a fresh run ID and archive it if configured
//  4. Render: produce the requested artifacts (JSON, DOT, SVG)
//
// Finished runs stay retrievable by run ID through [Runner.Load], which
// reads the cache first and falls back to the archive.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    MaxDepth: 5,
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/graph"
	"github.com/matzehuels/graphgen/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultMaxDepth is the tree depth bound used when none is given.
	DefaultMaxDepth = 4

	// DefaultNewVerticesNum is the number of child attempts per vertex.
	DefaultNewVerticesNum = 3

	// DefaultWorkers is the tree-phase pool size.
	DefaultWorkers = generator.DefaultWorkers

	// MaxMaxDepth caps MaxDepth for requests that come from the network.
	MaxMaxDepth = 32

	// MaxNewVerticesNum caps NewVerticesNum for requests that come from the
	// network.
	MaxNewVerticesNum = 16

	// MaxVerticesLimit caps MaxVertices for requests that come from the
	// network. A request without a bound gets this one.
	MaxVerticesLimit = 100_000
)

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{string(render.FormatJSON)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a generation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	MaxDepth       int                      `json:"max_depth,omitempty"`
	NewVerticesNum *int                     `json:"new_vertices_num,omitempty"` // nil selects the default; 0 is valid
	Workers        int                      `json:"workers,omitempty"`
	MaxVertices    int                      `json:"max_vertices,omitempty"` // 0 means no bound
	Seed           uint64                   `json:"seed,omitempty"`
	Probabilities  *generator.Probabilities `json:"probabilities,omitempty"`
	Refresh        bool                     `json:"refresh,omitempty"` // Ignore a cached run for the same seeded options

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Label vertices with id and depth

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in the cache and the archive.
	RunID string

	// Graph is the generated graph.
	Graph *graph.Store

	// Params are the effective generator parameters, seed included.
	Params generator.Params

	// Stats are the generator's statistics.
	Stats generator.Stats

	// Warning is set when the tree stopped short of MaxDepth.
	Warning string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// CacheHit is true when the run was served from the cache instead of
	// being generated.
	CacheHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// Ints returns a pointer to n, for filling Options.NewVerticesNum.
func Ints(n int) *int { return &n }

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxDepth < 1 {
		return errs.New(errs.ErrCodeInvalidParams, "max depth must be at least 1, got %d", o.MaxDepth)
	}
	if o.NewVerticesNum == nil {
		o.NewVerticesNum = Ints(DefaultNewVerticesNum)
	}
	if *o.NewVerticesNum < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "new vertices num must not be negative, got %d", *o.NewVerticesNum)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "workers must not be negative, got %d", o.Workers)
	}
	if o.MaxVertices < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "max vertices must not be negative, got %d", o.MaxVertices)
	}
	if o.Probabilities != nil {
		if err := o.Probabilities.Validate(); err != nil {
			return err
		}
	}
	if err := o.validateFormats(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateLimits rejects options above the network limits and bounds the
// vertex count of requests that set none. The HTTP API calls it before
// running anything.
func (o *Options) ValidateLimits() error {
	if o.MaxDepth > MaxMaxDepth {
		return errs.New(errs.ErrCodeInvalidParams, "max depth must be at most %d, got %d", MaxMaxDepth, o.MaxDepth)
	}
	if o.NewVerticesNum != nil && *o.NewVerticesNum > MaxNewVerticesNum {
		return errs.New(errs.ErrCodeInvalidParams, "new vertices num must be at most %d, got %d", MaxNewVerticesNum, *o.NewVerticesNum)
	}
	if o.MaxVertices > MaxVerticesLimit {
		return errs.New(errs.ErrCodeInvalidParams, "max vertices must be at most %d, got %d", MaxVerticesLimit, o.MaxVertices)
	}
	if o.MaxVertices == 0 {
		o.MaxVertices = MaxVerticesLimit
	}
	return nil
}

// validateFormats normalizes the format list and applies the default.
func (o *Options) validateFormats() error {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
		return nil
	}
	seen := make(map[render.Format]bool, len(o.Formats))
	formats := make([]string, 0, len(o.Formats))
	for _, s := range o.Formats {
		f, err := render.ParseFormat(s)
		if err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, string(f))
		}
	}
	o.Formats = formats
	return nil
}

// GeneratorParams converts the options into generator parameters.
func (o *Options) GeneratorParams() generator.Params {
	p := generator.Params{
		MaxDepth:    o.MaxDepth,
		Workers:     o.Workers,
		MaxVertices: o.MaxVertices,
		Seed:        o.Seed,
		Logger:      o.Logger,
	}
	if o.NewVerticesNum != nil {
		p.NewVerticesNum = *o.NewVerticesNum
	}
	if o.Probabilities != nil {
		probs := *o.Probabilities
		p.Probabilities = &probs
	}
	return p
}

// cacheKeyParams are the options that determine a seeded run's graph.
type cacheKeyParams struct {
	MaxDepth       int                     `json:"max_depth"`
	NewVerticesNum int                     `json:"new_vertices_num"`
	MaxVertices    int                     `json:"max_vertices,omitempty"`
	Seed           uint64                  `json:"seed"`
	Probabilities  generator.Probabilities `json:"probabilities"`
}

// keyParams returns the parameters a seeded run is cached under.
// Worker count is left out: it changes vertex order but not the number of
// vertices per depth, so runs that differ only in workers share an entry.
func (o *Options) keyParams() cacheKeyParams {
	probs := generator.DefaultProbabilities()
	if o.Probabilities != nil {
		probs = *o.Probabilities
	}
	return cacheKeyParams{
		MaxDepth:       o.MaxDepth,
		NewVerticesNum: *o.NewVerticesNum,
		MaxVertices:    o.MaxVertices,
		Seed:           o.Seed,
		Probabilities:  probs,
	}
}
