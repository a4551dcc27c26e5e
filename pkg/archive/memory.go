package archive

import (
	"context"
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

// MemoryArchive keeps records in process memory. It backs the HTTP server's
// history when no MongoDB is configured, and tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{records: make(map[string]Record)}
}

func (a *MemoryArchive) Save(ctx context.Context, r Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[r.ID] = r
	return nil
}

func (a *MemoryArchive) Get(ctx context.Context, runID string) (*Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.records[runID]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "run %s not found", runID)
	}
	return &r, nil
}

func (a *MemoryArchive) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	a.mu.RLock()
	out := make([]Summary, 0, len(a.records))
	for _, r := range a.records {
		out = append(out, r.Summarize())
	}
	a.mu.RUnlock()

	slices.SortFunc(out, func(x, y Summary) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *MemoryArchive) Close(ctx context.Context) error { return nil }

var _ Archive = (*MemoryArchive)(nil)
