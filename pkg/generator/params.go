package generator

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

// Default generation settings.
const (
	DefaultWorkers = 4

	DefaultGreenProbability  = 0.1
	DefaultBlueProbability   = 0.25
	DefaultYellowProbability = 1.0
	DefaultRedProbability    = 0.33
)

// Probabilities holds the per-family edge probabilities of the color phase.
//
// Green, Blue and Red are flat per-candidate probabilities. Yellow is the
// ceiling of a schedule that grows linearly with depth: a vertex at depth d
// links one level down with probability Yellow * d / (maxReached - 1).
type Probabilities struct {
	Green  float64 `json:"green" toml:"green" bson:"green"`
	Blue   float64 `json:"blue" toml:"blue" bson:"blue"`
	Yellow float64 `json:"yellow" toml:"yellow" bson:"yellow"`
	Red    float64 `json:"red" toml:"red" bson:"red"`
}

// DefaultProbabilities returns the standard color-phase probabilities.
func DefaultProbabilities() Probabilities {
	return Probabilities{
		Green:  DefaultGreenProbability,
		Blue:   DefaultBlueProbability,
		Yellow: DefaultYellowProbability,
		Red:    DefaultRedProbability,
	}
}

// Validate checks that every probability lies in [0, 1].
func (p Probabilities) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"green", p.Green},
		{"blue", p.Blue},
		{"yellow", p.Yellow},
		{"red", p.Red},
	} {
		if err := errs.ValidateProbability(f.name, f.val); err != nil {
			return err
		}
	}
	return nil
}

// Params configures a single generation run. Params is supplied once per
// [Generate] call and is not modified by the run except for defaults being
// filled in on the copy stored in [Result].
type Params struct {
	// MaxDepth bounds the tree: no vertex is created below this depth.
	// Must be at least 1.
	MaxDepth int `json:"max_depth" bson:"max_depth"`

	// NewVerticesNum is the number of child attempts per expanding vertex,
	// and the number of tree-phase jobs seeded from the root. May be 0.
	NewVerticesNum int `json:"new_vertices_num" bson:"new_vertices_num"`

	// Workers is the tree-phase pool size. 0 selects DefaultWorkers.
	Workers int `json:"workers,omitempty" bson:"workers,omitempty"`

	// MaxVertices bounds the number of vertices, root included. Tree growth
	// stops once it is reached. 0 means no bound.
	MaxVertices int `json:"max_vertices,omitempty" bson:"max_vertices,omitempty"`

	// Seed drives every random stream of the run. 0 picks a random seed,
	// which is recorded in the result. The same seed reproduces the number
	// of vertices per depth; with more than one worker, vertex IDs and the
	// color edges that depend on creation order may differ between runs.
	Seed uint64 `json:"seed,omitempty" bson:"-"`

	// Probabilities overrides the color-phase probabilities.
	// nil selects DefaultProbabilities.
	Probabilities *Probabilities `json:"probabilities,omitempty" bson:"probabilities,omitempty"`

	// Logger receives progress and warning messages. nil discards them.
	Logger *log.Logger `json:"-" bson:"-"`
}

// ValidateAndSetDefaults checks the parameters and fills in defaults for
// unset optional fields. It fails with an INVALID_PARAMS error when MaxDepth
// is below 1, a count is negative, or a probability lies outside [0, 1].
func (p *Params) ValidateAndSetDefaults() error {
	if p.MaxDepth < 1 {
		return errs.New(errs.ErrCodeInvalidParams, "max depth must be at least 1, got %d", p.MaxDepth)
	}
	if p.NewVerticesNum < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "new vertices num must not be negative, got %d", p.NewVerticesNum)
	}
	if p.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "workers must not be negative, got %d", p.Workers)
	}
	if p.MaxVertices < 0 {
		return errs.New(errs.ErrCodeInvalidParams, "max vertices must not be negative, got %d", p.MaxVertices)
	}
	if p.Workers == 0 {
		p.Workers = DefaultWorkers
	}
	if p.Probabilities == nil {
		probs := DefaultProbabilities()
		p.Probabilities = &probs
	} else {
		probs := *p.Probabilities
		p.Probabilities = &probs
	}
	if err := p.Probabilities.Validate(); err != nil {
		return err
	}
	for p.Seed == 0 {
		p.Seed = rand.Uint64()
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return nil
}
