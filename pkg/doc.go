// Package pkg provides the core libraries for Shapefit polygon fitting.
//
// # Overview
//
// Shapefit reconstructs the polygon behind a grayscale raster: given a
// target image, it searches for the K vertices whose filled rendering
// reproduces the image pixel for pixel. The pkg directory is organized
// into four main areas:
//
//  1. [poly], [raster] - Domain types (integer polygons, grayscale canvases)
//  2. [render], [search] - Fitting engine (rasterization, scoring, restart hillclimbing)
//  3. [pipeline], [history], [cache] - Orchestration, run records, caching
//  4. [display], [io], [bench] - Terminal output, file interchange, measurement
//
// # Architecture
//
// The typical data flow through Shapefit:
//
//	Target (builtin name / TOML manifest / PNG image)
//	         ↓
//	    [io] package (decode manifests and images)
//	         ↓
//	    [render] package (polygon → anti-aliased raster)
//	         ↓
//	    [search] package (hillclimb candidates on [raster] MSE)
//	         ↓
//	    [pipeline] package (caching, artifacts, run records)
//	         ↓
//	    ASCII/PNG/JSON output
//
// # Quick Start
//
// Fit a polygon to a rasterized shape:
//
//	import (
//	    "context"
//	    "github.com/ckski/Evolution-Tutorials/pkg/render"
//	    "github.com/ckski/Evolution-Tutorials/pkg/search"
//	)
//
//	// 1. Rasterize the shape to reproduce
//	ras := render.Default(12, 12)
//	target, _ := ras.Rasterize(star)
//
//	// 2. Score candidates against it
//	eval, _ := search.NewEvaluator(target, ras)
//
//	// 3. Restart hillclimbs until one reproduces the target
//	ctrl := &search.Controller{
//	    Eval:      eval,
//	    Source:    search.NewUniformSource(12, 12, 5, 42),
//	    MaxTrials: 10000,
//	}
//	out, _ := ctrl.Run(context.Background())
//	fmt.Printf("fit in %d trials: %s\n", out.Trials, out.Solution)
//
// # Main Packages
//
// ## Domain Types
//
// [poly] - Integer-vertex polygons: the candidate representation the search
// mutates. Parsing, text notation, canonical hashing, geometry helpers.
//
// [raster] - Fixed-size grayscale canvases and the mean squared error
// metric that scores a rendering against the target.
//
// ## Fitting Engine
//
// [render] - Pluggable rasterizer backends behind a driver-style registry:
// a scanline vector backend (default) and a gg canvas backend. Rendering is
// deterministic per backend, which makes scores reproducible.
//
// [search] - First-improvement hillclimbing over vertex mutations, restart
// control with trial budgets, start-candidate strategies (uniform,
// best-of-N), and a parallel fan-out that races workers to the first exact
// fit. Exhaustion returns the best candidate found, never a silent success.
//
// ## Orchestration
//
// [pipeline] - The complete fit pipeline (resolve target → search → render
// artifacts) used by CLI and server alike, so both entry points behave
// identically. Deterministic runs are served from cache when possible.
//
// [history] - Run records and a file-backed store under the XDG data
// directory. A saved run carries everything needed to re-render or re-score
// its solution later.
//
// [cache] - Caching backends behind one interface: null, memory, file, and
// Redis. Includes key derivation for targets and search parameters plus
// retry helpers for flaky backends.
//
// ## Presentation and Measurement
//
// [display] - Terminal renderers (ANSI half-blocks, plain ASCII) and scaled
// PNG export for rasters.
//
// [io] - TOML target manifests, PNG target images, and JSON result
// documents. Everything decoded is validated before the search sees it.
//
// [bench] - Wall-clock and trial-count measurement for comparing start
// strategies, with summary statistics and gonum plots.
//
// [errors] - Coded errors shared across the module; codes drive HTTP status
// mapping and CLI exit behavior.
//
// [observability] - Process-wide hook points (search trials, cache traffic)
// that metrics or progress UIs can subscribe to without the core packages
// knowing about them.
//
// [buildinfo] - Version metadata stamped at link time.
//
// # Common Workflows
//
// Run the full pipeline with caching and artifacts:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Target:  "star",
//	    Formats: []string{pipeline.FormatASCII, pipeline.FormatPNG},
//	})
//	os.Stdout.Write(res.Artifacts[pipeline.FormatASCII])
//
// Race parallel workers to the first exact fit:
//
//	out, _ := search.RunParallel(ctx, target, search.ParallelConfig{
//	    Workers:  8,
//	    Points:   5,
//	    Strategy: search.StrategyBestOf,
//	})
//
// Persist a run and load it back:
//
//	store, _ := history.NewFileStore("")
//	_ = store.Save(ctx, rec)
//	rec, _ = store.Get(ctx, rec.ID)
//
// Compare start strategies:
//
//	base, _ := bench.Measure(ctx, "uniform", 8, fitWith(search.StrategyUniform))
//	best, _ := bench.Measure(ctx, "bestof", 8, fitWith(search.StrategyBestOf))
//	fmt.Printf("%.2fx\n", bench.Compare(base, best).SpeedupWall)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/search/...   # Specific package
//	go test -run Example       # Examples only
//
// [poly]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/poly
// [raster]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/raster
// [render]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/render
// [search]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/search
// [pipeline]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/pipeline
// [history]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/history
// [cache]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/cache
// [display]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/display
// [io]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/io
// [bench]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/bench
// [errors]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/errors
// [observability]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/ckski/Evolution-Tutorials/pkg/buildinfo
package pkg
