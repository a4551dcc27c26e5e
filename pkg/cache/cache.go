// Package cache stores generated graphs and rendered artifacts by run ID.
//
// # Backends
//
// Three [Cache] implementations are provided:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, when caching is disabled
//
// # Keys
//
// A [Keyer] derives cache keys. [DefaultKeyer] produces readable keys such as
// "graph:<run-id>" and "artifact:<run-id>:svg"; [ScopedKeyer] prefixes every
// key to isolate namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry type.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLParams   = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer derives cache keys for the entries of a generation run.
type Keyer interface {
	// GraphKey is the key of a run's graph document.
	GraphKey(runID string) string

	// ArtifactKey is the key of a run's rendered artifact in the given format.
	ArtifactKey(runID, format string) string

	// ParamsKey is the key mapping a set of generation parameters to the
	// run that produced them.
	ParamsKey(params any) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<runID>".
func (DefaultKeyer) GraphKey(runID string) string {
	return "graph:" + runID
}

// ArtifactKey returns "artifact:<runID>:<format>".
func (DefaultKeyer) ArtifactKey(runID, format string) string {
	return "artifact:" + runID + ":" + format
}

// ParamsKey returns "params:" followed by a hash of the JSON encoding of params.
func (DefaultKeyer) ParamsKey(params any) string {
	return hashKey("params", params)
}
