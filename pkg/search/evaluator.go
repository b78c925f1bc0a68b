package search

import (
	"context"
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/observability"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// scoreKeyType tags score lookups in cache observability hooks.
const scoreKeyType = "score"

// Evaluator scores polygon candidates against a fixed target raster.
//
// The target is copied at construction and never mutated afterwards, so a
// single target may back many evaluators across goroutines. The evaluator
// itself owns a rasterizer and is not safe for concurrent use; parallel
// workers each construct their own.
type Evaluator struct {
	// Memo optionally memoizes scores by candidate. Nil disables
	// memoization. Cache failures are ignored and the score is recomputed,
	// so a flaky cache can slow a search down but never corrupt it.
	Memo cache.Cache

	// Keyer builds memo keys. Nil falls back to cache.DefaultKeyer.
	Keyer cache.Keyer

	target     *raster.Raster
	targetHash string
	ras        render.Rasterizer
	evals      atomic.Int64
}

// NewEvaluator builds an evaluator for target using ras. The rasterizer
// canvas must match the target dimensions exactly.
func NewEvaluator(target *raster.Raster, ras render.Rasterizer) (*Evaluator, error) {
	if target == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "target raster is nil")
	}
	if ras == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rasterizer is nil")
	}
	w, h := ras.Bounds()
	if target.W != w || target.H != h {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"target size %dx%d does not match %s canvas %dx%d",
			target.W, target.H, ras.Name(), w, h)
	}
	return &Evaluator{
		target:     target.Clone(),
		targetHash: cache.Hash(target.Pix),
		ras:        ras,
	}, nil
}

// Bounds returns the canvas dimensions.
func (e *Evaluator) Bounds() (w, h int) { return e.ras.Bounds() }

// TargetHash returns a stable content hash of the target raster, suitable
// for cache keys.
func (e *Evaluator) TargetHash() string { return e.targetHash }

// Evals returns the number of renders performed so far. Memo hits do not
// count; the counter tracks actual rasterization work.
func (e *Evaluator) Evals() int64 { return e.evals.Load() }

// Score renders p and returns its mean squared error against the target.
// A score of 0 means p reproduces the target pixel for pixel. Render
// failures propagate to the caller; they are never reported as a score.
func (e *Evaluator) Score(ctx context.Context, p poly.Polygon) (float64, error) {
	if e.Memo != nil {
		if score, ok := e.memoGet(ctx, p); ok {
			return score, nil
		}
	}

	img, err := e.ras.Rasterize(p)
	if err != nil {
		return 0, err
	}
	e.evals.Add(1)

	score, err := raster.MSE(img, e.target)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "scoring candidate %s", p)
	}

	if e.Memo != nil {
		e.memoSet(ctx, p, score)
	}
	return score, nil
}

func (e *Evaluator) memoKey(p poly.Polygon) string {
	k := e.Keyer
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return k.ScoreKey(e.targetHash, p.String())
}

func (e *Evaluator) memoGet(ctx context.Context, p poly.Polygon) (float64, bool) {
	data, hit, err := e.Memo.Get(ctx, e.memoKey(p))
	if err != nil || !hit || len(data) != 8 {
		observability.Cache().OnCacheMiss(ctx, scoreKeyType)
		return 0, false
	}
	observability.Cache().OnCacheHit(ctx, scoreKeyType)
	return math.Float64frombits(binary.BigEndian.Uint64(data)), true
}

func (e *Evaluator) memoSet(ctx context.Context, p poly.Polygon, score float64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(score))
	if err := e.Memo.Set(ctx, e.memoKey(p), buf[:], cache.TTLScore); err == nil {
		observability.Cache().OnCacheSet(ctx, scoreKeyType, len(buf))
	}
}
