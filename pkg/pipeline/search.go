package pipeline

import (
	"context"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// scoreMemoEntries bounds the per-run score memo. Neighborhoods of
// successive candidates overlap heavily, so even a small memo saves a large
// share of renders.
const scoreMemoEntries = 1 << 16

// Search runs the configured hillclimb search against a resolved target.
// Workers selects between the single-goroutine controller and the parallel
// first-success fan-out; both share one in-memory score memo.
func Search(ctx context.Context, target *raster.Raster, opts Options) (search.Outcome, error) {
	if err := opts.ValidateForSearch(); err != nil {
		return search.Outcome{}, err
	}

	memo := cache.NewMemoryCache(scoreMemoEntries)

	if opts.Workers == 1 {
		ras, err := render.New(opts.Backend, target.W, target.H)
		if err != nil {
			return search.Outcome{}, err
		}
		eval, err := search.NewEvaluator(target, ras)
		if err != nil {
			return search.Outcome{}, err
		}
		eval.Memo = memo
		src := search.NewSource(search.Strategy(opts.Strategy), eval, opts.Points, opts.Seed, opts.Samples)
		ctrl := &search.Controller{Eval: eval, Source: src, MaxTrials: opts.MaxTrials}
		return ctrl.Run(ctx)
	}

	return search.RunParallel(ctx, target, search.ParallelConfig{
		Workers:   opts.Workers,
		Points:    opts.Points,
		Strategy:  search.Strategy(opts.Strategy),
		Samples:   opts.Samples,
		Seed:      opts.Seed,
		MaxTrials: opts.MaxTrials,
		Backend:   opts.Backend,
		Memo:      memo,
	})
}
