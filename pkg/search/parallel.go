package search

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// ParallelConfig configures a fan-out restart search.
type ParallelConfig struct {
	// Workers is the number of concurrent searchers. Zero or negative means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Points is the number of polygon vertices per candidate.
	Points int

	// Strategy selects trial seeding; Samples applies to StrategyBestOf.
	Strategy Strategy
	Samples  int

	// Seed fixes per-worker candidate streams: worker i draws from Seed+i.
	// Zero seeds every worker randomly. Even with a fixed seed the winning
	// worker depends on scheduling, so only per-worker streams are
	// reproducible, not the overall outcome.
	Seed uint64

	// MaxTrials bounds the total restart budget; it is split evenly across
	// workers. Zero means unbounded.
	MaxTrials int

	// Backend names the rasterizer backend. Empty selects the default.
	// Each worker constructs its own rasterizer; backends are not shared.
	Backend string

	// Memo optionally shares a score memo across workers. The cache must be
	// safe for concurrent use.
	Memo cache.Cache
}

// RunParallel races independent restart searches and returns as soon as any
// worker finds an exact fit, cancelling the rest. Trial, step and eval
// counters aggregate over every worker, including partial work from
// cancelled ones.
func RunParallel(ctx context.Context, target *raster.Raster, cfg ParallelConfig) (Outcome, error) {
	if target == nil {
		return Outcome{}, errors.New(errors.ErrCodeInvalidInput, "target raster is nil")
	}
	if cfg.Points < 1 {
		return Outcome{}, errors.New(errors.ErrCodeInvalidInput, "candidate needs at least one vertex, got %d", cfg.Points)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxTrials > 0 && workers > cfg.MaxTrials {
		workers = cfg.MaxTrials
	}
	backend := cfg.Backend
	if backend == "" {
		backend = render.BackendVector
	}
	perWorker := 0
	if cfg.MaxTrials > 0 {
		perWorker = (cfg.MaxTrials + workers - 1) / workers
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type workerResult struct {
		out Outcome
		err error
	}
	results := make(chan workerResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ras, err := render.New(backend, target.W, target.H)
			if err != nil {
				results <- workerResult{err: err}
				return
			}
			eval, err := NewEvaluator(target, ras)
			if err != nil {
				results <- workerResult{err: err}
				return
			}
			eval.Memo = cfg.Memo

			seed := cfg.Seed
			if seed != 0 {
				seed += uint64(idx)
			}
			src := NewSource(cfg.Strategy, eval, cfg.Points, seed, cfg.Samples)
			ctrl := &Controller{Eval: eval, Source: src, MaxTrials: perWorker}
			out, err := ctrl.Run(runCtx)
			results <- workerResult{out: out, err: err}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	agg := Outcome{Score: math.Inf(1)}
	var (
		solved   bool
		firstErr error
	)
	for r := range results {
		agg.Trials += r.out.Trials
		agg.Steps += r.out.Steps
		agg.Evals += r.out.Evals
		if r.out.Solution != nil && (agg.Solution == nil || r.out.Score < agg.Score) {
			agg.Solution = r.out.Solution
			agg.Score = r.out.Score
		}

		switch {
		case r.err == nil:
			if !solved && r.out.Score == 0 {
				solved = true
				cancel()
			}
		case errors.Is(r.err, errors.ErrCodeSearchExhausted):
			// This worker spent its trial budget; the others may still win.
		case runCtx.Err() != nil:
			// Shutdown noise: the run was already cancelled, either by a
			// winning worker or by the caller.
		default:
			if firstErr == nil {
				firstErr = r.err
			}
			cancel()
		}
	}

	agg.Elapsed = time.Since(start)
	switch {
	case solved:
		return agg, nil
	case firstErr != nil:
		return agg, firstErr
	case ctx.Err() != nil:
		return agg, ctx.Err()
	case cfg.MaxTrials > 0:
		return agg, errors.New(errors.ErrCodeSearchExhausted,
			"no exact fit in %d trials across %d workers (best score %.3f)",
			agg.Trials, workers, agg.Score)
	default:
		return agg, errors.New(errors.ErrCodeInternal, "search workers stopped without a result")
	}
}
