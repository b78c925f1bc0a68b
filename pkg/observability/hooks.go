// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, search trials, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnTrialStart(ctx, trial)
//	// ... run trial ...
//	observability.Search().OnTrialComplete(ctx, trial, steps, score, duration, err)
//
// Hook getters take a read lock, so they belong at operation boundaries
// (trials, stages, cache calls), not inside per-pixel or per-neighbor loops.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the fitting pipeline.
type PipelineHooks interface {
	// Target resolution events
	OnTargetStart(ctx context.Context, target string)
	OnTargetComplete(ctx context.Context, target string, w, h int, duration time.Duration, err error)

	// Search events
	OnSearchStart(ctx context.Context, target, strategy string)
	OnSearchComplete(ctx context.Context, target string, trials int, score float64, duration time.Duration, err error)

	// Artifact rendering events
	OnArtifactsStart(ctx context.Context, formats []string)
	OnArtifactsComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from restart-search trials.
type SearchHooks interface {
	// OnTrialStart records the start of one hillclimb trial.
	OnTrialStart(ctx context.Context, trial int)

	// OnTrialComplete records a finished trial with its final score.
	OnTrialComplete(ctx context.Context, trial, steps int, score float64, duration time.Duration, err error)

	// OnConverged records the trial that reached an exact fit.
	OnConverged(ctx context.Context, trial int, score float64)
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
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnTargetStart(context.Context, string) {}
func (NoopPipelineHooks) OnTargetComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSearchStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, string, int, float64, time.Duration, error) {
}
func (NoopPipelineHooks) OnArtifactsStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnArtifactsComplete(context.Context, []string, time.Duration, error) {}

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnTrialStart(context.Context, int) {}
func (NoopSearchHooks) OnTrialComplete(context.Context, int, int, float64, time.Duration, error) {
}
func (NoopSearchHooks) OnConverged(context.Context, int, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	searchHooks   SearchHooks   = NoopSearchHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any search runs.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
}
