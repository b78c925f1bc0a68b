// Package pipeline provides the core fitting pipeline for shapefit.
//
// This package implements the complete resolve → search → render pipeline
// that can be used by CLI, API, and benchmark components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: Turn a target reference (builtin name, TOML manifest, PNG
//     file) into the grayscale raster the search fits
//  2. Search: Run the restart hillclimber until an exact fit or the trial
//     budget runs out
//  3. Render: Generate output artifacts (ASCII, PNG, JSON) from the best
//     candidate
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Target:  "star",
//	    Formats: []string{"ascii"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Artifacts["ascii"]))
//
// Run individual stages:
//
//	// Resolve only
//	target, err := runner.ResolveTarget(ctx, opts)
//
//	// Search an already resolved target
//	outcome, err := runner.Search(ctx, target, opts)
//
//	// Render artifacts for a finished search
//	artifacts, err := runner.RenderArtifacts(ctx, target, outcome, runID, opts)
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/display"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSize is the default square canvas edge. The classic fitting
	// exercise runs on a 12x12 grid.
	DefaultSize = 12

	// DefaultPoints is the default candidate vertex count.
	DefaultPoints = 5

	// DefaultMaxTrials bounds a run so an unreachable target still
	// terminates. Generous next to the dozens of trials a builtin target
	// typically needs.
	DefaultMaxTrials = 10000

	// maxPoints caps the vertex count accepted from external inputs.
	maxPoints = 256
)

// Format constants for output artifacts.
const (
	FormatASCII = "ascii"
	FormatPNG   = "png"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatASCII: true,
	FormatPNG:   true,
	FormatJSON:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the fitting pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Target selection. Target is a builtin name, a .toml manifest path,
	// or a .png image path. Width and Height size the canvas for builtin
	// targets; manifests and images carry their own dimensions.
	Target string `json:"target"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Search options. Workers 0 means one per CPU; 1 runs the search on
	// the calling goroutine. MaxTrials 0 means the default budget,
	// negative means unbounded. Seed 0 draws a fresh seed per run.
	Points    int    `json:"points,omitempty"`
	Backend   string `json:"backend,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	Samples   int    `json:"samples,omitempty"`
	Workers   int    `json:"workers,omitempty"`
	MaxTrials int    `json:"max_trials,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"` // bypass cache reads

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   int      `json:"scale,omitempty"` // PNG pixel multiplier

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Target is the resolved raster the search fitted.
	Target *raster.Raster

	// Outcome is the search result: best candidate, score, counters.
	Outcome search.Outcome

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ResolveTime time.Duration
	SearchTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TargetHit bool // target raster came from cache
	ResultHit bool // search outcome came from cache
}

// Record converts the result into a run history record.
func (res *Result) Record(opts Options) *history.Record {
	return &history.Record{
		ID:        res.RunID,
		CreatedAt: time.Now().UTC(),
		Target:    opts.Target,
		Width:     res.Target.W,
		Height:    res.Target.H,
		Points:    opts.Points,
		Backend:   opts.Backend,
		Strategy:  opts.Strategy,
		Seed:      opts.Seed,
		Workers:   opts.Workers,
		Solution:  res.Outcome.Solution.String(),
		Score:     res.Outcome.Score,
		Trials:    res.Outcome.Trials,
		Steps:     res.Outcome.Steps,
		Evals:     res.Outcome.Evals,
		Elapsed:   res.Outcome.Elapsed,
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an artifact format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: ascii, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTarget(); err != nil {
		return err
	}
	if err := o.ValidateForSearch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForTarget checks required fields for target resolution.
func (o *Options) ValidateForTarget() error {
	if o.Target == "" {
		return errors.New(errors.ErrCodeInvalidInput, "target is required")
	}
	if o.Width == 0 {
		o.Width = DefaultSize
	}
	if o.Height == 0 {
		o.Height = DefaultSize
	}
	if o.Width < 1 || o.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be at least 1x1, got %dx%d", o.Width, o.Height)
	}
	if o.Width > raster.MaxSide || o.Height > raster.MaxSide {
		return errors.New(errors.ErrCodeInvalidInput, "canvas %dx%d exceeds the %d pixel limit", o.Width, o.Height, raster.MaxSide)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForSearch validates and sets defaults for the search stage.
func (o *Options) ValidateForSearch() error {
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.Points < 1 || o.Points > maxPoints {
		return errors.New(errors.ErrCodeInvalidInput, "points must be 1..%d, got %d", maxPoints, o.Points)
	}
	if o.Backend == "" {
		o.Backend = render.BackendVector
	}
	if !render.IsRegistered(o.Backend) {
		return errors.New(errors.ErrCodeInvalidBackend,
			"unknown backend %q (valid: %s)", o.Backend, strings.Join(render.Backends(), ", "))
	}
	strategy, err := search.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(strategy)
	if o.Samples == 0 {
		o.Samples = search.DefaultSamples
	}
	if o.Samples < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "samples must be positive, got %d", o.Samples)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative, got %d", o.Workers)
	}
	if o.MaxTrials == 0 {
		o.MaxTrials = DefaultMaxTrials
	}
	if o.MaxTrials < 0 {
		o.MaxTrials = 0 // unbounded
	}
	return nil
}

// ValidateForRender validates and sets defaults for artifact rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatASCII}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = display.DefaultScale
	}
	if o.Scale < 1 || o.Scale > 256 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be 1..256, got %d", o.Scale)
	}
	return nil
}

// Deterministic reports whether two runs with these options must produce
// identical outcomes. Seeded single-worker runs replay the same trial
// stream; with several workers the race for first success picks the winner.
func (o *Options) Deterministic() bool {
	return o.Seed != 0 && o.Workers == 1
}

// TargetKeyOpts returns cache key options for target resolution.
func (o *Options) TargetKeyOpts() cache.TargetKeyOpts {
	return cache.TargetKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		Backend: o.Backend,
	}
}

// ResultKeyOpts returns cache key options for a complete fit result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Points:    o.Points,
		Backend:   o.Backend,
		Strategy:  o.Strategy,
		Samples:   o.Samples,
		Workers:   o.Workers,
		MaxTrials: o.MaxTrials,
		Seed:      o.Seed,
	}
}

// =============================================================================
// Builtin Targets
// =============================================================================

// Builtin target names.
const (
	TargetStar     = "star"
	TargetTriangle = "triangle"
	TargetSquare   = "square"
)

var builtins = map[string]poly.Polygon{
	TargetStar:     {{X: 6, Y: 1}, {X: 3, Y: 11}, {X: 11, Y: 5}, {X: 1, Y: 5}, {X: 9, Y: 11}},
	TargetTriangle: {{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 12}},
	TargetSquare:   {{X: 2, Y: 2}, {X: 9, Y: 2}, {X: 9, Y: 9}, {X: 2, Y: 9}},
}

// Builtins lists the builtin target names in stable order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinPolygon returns the vertex list of a builtin target.
func BuiltinPolygon(name string) (poly.Polygon, bool) {
	p, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}
