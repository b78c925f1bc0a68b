package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/observability"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete resolve → search → render pipeline with caching.
//
// When the trial budget runs out before an exact fit, the returned error
// wraps ErrCodeSearchExhausted and the Result still carries the best
// candidate found along with its rendered artifacts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Resolve target
	resolveStart := time.Now()
	hooks.OnTargetStart(ctx, opts.Target)
	target, targetHit, err := r.ResolveTargetWithCacheInfo(ctx, opts)
	result.Stats.ResolveTime = time.Since(resolveStart)
	if err != nil {
		hooks.OnTargetComplete(ctx, opts.Target, 0, 0, result.Stats.ResolveTime, err)
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	hooks.OnTargetComplete(ctx, opts.Target, target.W, target.H, result.Stats.ResolveTime, nil)
	result.Target = target
	result.CacheInfo.TargetHit = targetHit

	r.Logger.Info("resolved target",
		"target", opts.Target,
		"width", target.W,
		"height", target.H,
		"cached", targetHit,
		"duration", result.Stats.ResolveTime)

	// Stage 2: Search
	searchStart := time.Now()
	hooks.OnSearchStart(ctx, opts.Target, opts.Strategy)
	outcome, resultHit, searchErr := r.SearchWithCacheInfo(ctx, target, opts)
	result.Stats.SearchTime = time.Since(searchStart)
	hooks.OnSearchComplete(ctx, opts.Target, outcome.Trials, outcome.Score, result.Stats.SearchTime, searchErr)
	if searchErr != nil && !errors.Is(searchErr, errors.ErrCodeSearchExhausted) {
		return nil, fmt.Errorf("search: %w", searchErr)
	}
	result.Outcome = outcome
	result.CacheInfo.ResultHit = resultHit

	r.Logger.Info("search finished",
		"trials", outcome.Trials,
		"steps", outcome.Steps,
		"evals", outcome.Evals,
		"score", outcome.Score,
		"duration", result.Stats.SearchTime)

	// Stage 3: Render artifacts. Exhausted searches still carry their best
	// candidate, so their artifacts are rendered too.
	renderStart := time.Now()
	hooks.OnArtifactsStart(ctx, opts.Formats)
	artifacts, err := r.RenderArtifacts(ctx, target, outcome, result.RunID, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnArtifactsComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, searchErr
}

// ResolveTargetWithCacheInfo resolves the target with caching and reports
// whether the raster came from cache. Only builtin targets are cached:
// file-backed targets are re-read every run so edits are picked up.
func (r *Runner) ResolveTargetWithCacheInfo(ctx context.Context, opts Options) (*raster.Raster, bool, error) {
	if err := opts.ValidateForTarget(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if !IsBuiltin(opts.Target) {
		t, err := ResolveTarget(ctx, opts)
		return t, false, err
	}

	if opts.Backend == "" {
		opts.Backend = render.BackendVector
	}
	cacheKey := r.Keyer.TargetKey(opts.Target, opts.TargetKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached raster.Raster
			if err := json.Unmarshal(data, &cached); err == nil && cached.W > 0 && len(cached.Pix) == cached.W*cached.H {
				return &cached, true, nil // Cache hit
			}
			// Corrupt entries fall through to recompute
		}
	}

	target, err := ResolveTarget(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(target); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLTarget)
	}

	return target, false, nil // Cache miss
}

// ResolveTarget is a convenience wrapper that calls ResolveTargetWithCacheInfo and discards the cache hit info.
func (r *Runner) ResolveTarget(ctx context.Context, opts Options) (*raster.Raster, error) {
	t, _, err := r.ResolveTargetWithCacheInfo(ctx, opts)
	return t, err
}

// SearchWithCacheInfo runs the search stage with result caching and reports
// whether the outcome came from cache. Only deterministic runs are cached:
// caching a random run would freeze one roll of the dice and replay it
// forever. Keys derive from the target's pixel content, so an edited
// manifest or image never serves a stale result.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, target *raster.Raster, opts Options) (search.Outcome, bool, error) {
	if err := opts.ValidateForSearch(); err != nil {
		return search.Outcome{}, false, err
	}
	r.applyLogger(&opts)

	cacheable := opts.Deterministic()
	var cacheKey string
	if cacheable {
		cacheKey = r.Keyer.ResultKey(cache.Hash(target.Pix), opts.ResultKeyOpts())
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached search.Outcome
				if err := json.Unmarshal(data, &cached); err == nil {
					return cached, true, nil // Cache hit
				}
			}
		}
	}

	outcome, err := Search(ctx, target, opts)
	if err != nil {
		return outcome, false, err
	}

	if cacheable {
		if data, err := json.Marshal(outcome); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLResult)
		}
	}

	return outcome, false, nil // Cache miss
}

// Search is a convenience wrapper that calls SearchWithCacheInfo and discards the cache hit info.
func (r *Runner) Search(ctx context.Context, target *raster.Raster, opts Options) (search.Outcome, error) {
	out, _, err := r.SearchWithCacheInfo(ctx, target, opts)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
