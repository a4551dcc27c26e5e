// Package observability provides hooks for metrics, progress reporting and
// logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph generation, pipeline execution, cache
// operations and HTTP requests.
//
// # Architecture
//
// Each event category has an interface and a no-op default. Setting hooks
// returns the previous ones; a nil value restores the no-op.
//
// Hooks are registered by main, not by libraries, which keeps the generator
// free of import cycles and of any particular metrics backend. The CLI
// progress view is itself a [GeneratorHooks] implementation.
//
// # Usage
//
// Register hooks for the duration of an operation:
//
//	prev := observability.SetGeneratorHooks(progressHooks{})
//	defer observability.SetGeneratorHooks(prev)
//
// Libraries call hooks to emit events:
//
//	observability.Generator().OnTreeStart(ctx, jobs, workers)
//	// ... grow the tree ...
//	observability.Generator().OnTreeComplete(ctx, vertexCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generator Hooks
// =============================================================================

// GeneratorHooks receives events from the graph generator.
// Implementations must be safe for concurrent use: job and pass events are
// emitted from worker goroutines.
type GeneratorHooks interface {
	// Tree phase events
	OnTreeStart(ctx context.Context, jobs, workers int)
	OnJobComplete(ctx context.Context, completed, total int)
	OnTreeComplete(ctx context.Context, vertexCount int, duration time.Duration, err error)

	// Color phase events
	OnPassComplete(ctx context.Context, color string, edges int, duration time.Duration)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	// Generate events
	OnGenerateStart(ctx context.Context, runID string)
	OnGenerateComplete(ctx context.Context, runID string, vertexCount, edgeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnTreeStart(context.Context, int, int)                      {}
func (NoopGeneratorHooks) OnJobComplete(context.Context, int, int)                    {}
func (NoopGeneratorHooks) OnTreeComplete(context.Context, int, time.Duration, error)  {}
func (NoopGeneratorHooks) OnPassComplete(context.Context, string, int, time.Duration) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set and falls back to noop.
type slot[T any] struct {
	mu   sync.RWMutex
	h    T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{h: noop, noop: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

// swap installs h, or the no-op for a nil h, and returns the previous hooks.
func (s *slot[T]) swap(h T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.h
	if any(h) == nil {
		h = s.noop
	}
	s.h = h
	return prev
}

var (
	generatorSlot = newSlot[GeneratorHooks](NoopGeneratorHooks{})
	pipelineSlot  = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot     = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot      = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetGeneratorHooks installs h and returns the hooks it replaces, so a
// caller can restore them when done. A nil h restores the no-op.
func SetGeneratorHooks(h GeneratorHooks) GeneratorHooks { return generatorSlot.swap(h) }

// SetPipelineHooks installs h and returns the hooks it replaces.
func SetPipelineHooks(h PipelineHooks) PipelineHooks { return pipelineSlot.swap(h) }

// SetCacheHooks installs h and returns the hooks it replaces.
func SetCacheHooks(h CacheHooks) CacheHooks { return cacheSlot.swap(h) }

// SetHTTPHooks installs h and returns the hooks it replaces.
func SetHTTPHooks(h HTTPHooks) HTTPHooks { return httpSlot.swap(h) }

// Generator returns the registered generator hooks.
func Generator() GeneratorHooks { return generatorSlot.get() }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores every no-op default.
func Reset() {
	generatorSlot.swap(nil)
	pipelineSlot.swap(nil)
	cacheSlot.swap(nil)
	httpSlot.swap(nil)
}
