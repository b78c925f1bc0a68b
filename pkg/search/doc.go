// Package search implements randomized-restart hillclimbing over polygon
// candidates scored against a target raster.
//
// # Overview
//
// Shapefit approximates a grayscale target image with a closed polygon of K
// integer vertices. The search space is the set of all K-point polygons on
// the canvas grid; the objective is the mean squared pixel error between the
// rendered candidate and the target. A score of 0 means the candidate
// reproduces the target exactly.
//
// The package is organized around four collaborators:
//
//   - [Evaluator]: renders a candidate and scores it against the target,
//     optionally memoizing scores through a cache.
//   - [Climber]: a first-improvement hillclimber over the 8-direction
//     unit-move neighborhood, run to a local optimum.
//   - [Source]: a stream of starting candidates ([UniformSource] for the
//     baseline strategy, [BestOfSource] for the improved one).
//   - [Controller]: restarts climbs from fresh starting candidates until one
//     reaches score 0.
//
// # Basic Usage
//
// Build an evaluator from a target raster and a rasterizer of matching size,
// then run the restart controller:
//
//	ras := render.Default(12, 12)
//	eval, _ := search.NewEvaluator(target, ras)
//	src := search.NewSource(search.StrategyUniform, eval, 5, 42, 0)
//	ctrl := &search.Controller{Eval: eval, Source: src}
//	out, err := ctrl.Run(ctx)
//
// [RunParallel] fans the same loop out across workers and returns as soon as
// any worker finds an exact fit.
//
// # Determinism
//
// Scoring is deterministic: a fixed candidate against a fixed target always
// produces the same score. The neighbor scan order is fixed (vertex index
// ascending, then the unit-move table), so a climb from a given start is
// fully reproducible. Sources are seeded; a fixed non-zero seed reproduces
// the same candidate stream, and with it the same sequence of trials. Only
// the parallel controller is nondeterministic, because the winning worker
// depends on scheduling.
//
// # Termination
//
// Scores are drawn from a finite set (sums of squared byte differences over
// a fixed pixel count) and each climber step strictly decreases the score,
// so every climb terminates. The restart loop terminates on the first exact
// fit, on trial exhaustion when MaxTrials is set, or on context
// cancellation.
//
// # Concurrency
//
// Evaluators, climbers and sources are single-goroutine objects; parallel
// searches give each worker its own. The target raster is shared read-only
// across workers. Score memos attached via [Evaluator.Memo] may be shared
// when the cache implementation is safe for concurrent use.
package search
