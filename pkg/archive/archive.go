// Package archive keeps a durable history of generation runs.
//
// Unlike [github.com/matzehuels/graphgen/pkg/cache], whose entries expire,
// an [Archive] stores every run's parameters, statistics and graph document
// until it is removed explicitly. [MongoArchive] is the only backend.
package archive

import (
	"context"
	"strconv"
	"time"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/io"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Record is one archived run.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Params    generator.Params `json:"params" bson:"params"`
	// Seed is Params.Seed in decimal; BSON has no unsigned 64-bit integer.
	Seed    string          `json:"-" bson:"seed"`
	Stats   generator.Stats `json:"stats" bson:"stats"`
	Warning string          `json:"warning,omitempty" bson:"warning,omitempty"`
	Graph   io.Document     `json:"graph" bson:"graph"`
}

// NewRecord builds a record from a finished generation.
func NewRecord(runID string, res *generator.Result) Record {
	r := Record{
		ID:        runID,
		CreatedAt: time.Now().UTC(),
		Params:    res.Params,
		Seed:      strconv.FormatUint(res.Params.Seed, 10),
		Stats:     res.Stats,
		Graph:     io.FromStore(res.Graph),
	}
	r.Params.Logger = nil
	if w := res.Warning(); w != nil {
		r.Warning = errs.UserMessage(w)
	}
	return r
}

// restoreSeed copies the decimal seed back into Params after decoding.
func (r *Record) restoreSeed() {
	if seed, err := strconv.ParseUint(r.Seed, 10, 64); err == nil {
		r.Params.Seed = seed
	}
}

// Summary is the listing view of a record, without the graph.
type Summary struct {
	ID              string    `json:"id" bson:"_id"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	MaxDepth        int       `json:"max_depth" bson:"max_depth"`
	NewVerticesNum  int       `json:"new_vertices_num" bson:"new_vertices_num"`
	Vertices        int       `json:"vertices" bson:"vertices"`
	Edges           int       `json:"edges" bson:"edges"`
	MaxDepthReached int       `json:"max_depth_reached" bson:"max_depth_reached"`
}

// Summarize returns the listing view of r.
func (r Record) Summarize() Summary {
	return Summary{
		ID:              r.ID,
		CreatedAt:       r.CreatedAt,
		MaxDepth:        r.Params.MaxDepth,
		NewVerticesNum:  r.Params.NewVerticesNum,
		Vertices:        r.Stats.Vertices,
		Edges:           r.Stats.Edges,
		MaxDepthReached: r.Stats.MaxDepthReached,
	}
}

// Archive stores run records.
type Archive interface {
	// Save inserts or replaces the record with r.ID.
	Save(ctx context.Context, r Record) error

	// Get returns the record with the given run ID, or a NOT_FOUND error.
	Get(ctx context.Context, runID string) (*Record, error)

	// List returns the most recent records first. limit <= 0 selects
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}
