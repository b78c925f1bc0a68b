package search

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
)

// Source yields starting candidates for restart trials. Sources are
// stateful streams owned by a single goroutine.
type Source interface {
	Next(ctx context.Context) (poly.Polygon, error)
}

// newRNG builds a deterministic PCG generator. Seed 0 draws a random seed,
// so zero means "different run every time" rather than a fixed stream.
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// UniformSource is an infinite stream of candidates with every vertex drawn
// uniformly from the canvas grid. This is the baseline seeding strategy.
type UniformSource struct {
	w, h, k int
	rng     *rand.Rand
}

// NewUniformSource returns a uniform source of k-vertex candidates on a
// w x h grid. A non-zero seed fixes the stream.
func NewUniformSource(w, h, k int, seed uint64) *UniformSource {
	return &UniformSource{w: w, h: h, k: k, rng: newRNG(seed)}
}

// Next returns a fresh uniform candidate. It never fails.
func (s *UniformSource) Next(context.Context) (poly.Polygon, error) {
	p := make(poly.Polygon, s.k)
	for i := range p {
		p[i] = poly.Point{X: s.rng.IntN(s.w), Y: s.rng.IntN(s.h)}
	}
	return p, nil
}

// BestOfSource draws a batch of candidates from an inner source, scores
// each once, and yields the best. Seeding a climb from the best of a batch
// is the improved restart strategy: the climb itself is unchanged, only the
// starting point is better.
type BestOfSource struct {
	src     Source
	eval    *Evaluator
	samples int
}

// NewBestOfSource wraps src so each Next draws samples candidates and
// returns the lowest scoring one. Fewer than one sample is treated as one.
func NewBestOfSource(src Source, eval *Evaluator, samples int) *BestOfSource {
	if samples < 1 {
		samples = 1
	}
	return &BestOfSource{src: src, eval: eval, samples: samples}
}

// Next returns the best of a fresh batch. Scoring errors propagate.
func (s *BestOfSource) Next(ctx context.Context) (poly.Polygon, error) {
	var best poly.Polygon
	bestScore := math.Inf(1)
	for i := 0; i < s.samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cand, err := s.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		score, err := s.eval.Score(ctx, cand)
		if err != nil {
			return nil, err
		}
		if score < bestScore {
			best, bestScore = cand, score
		}
		if bestScore == 0 {
			break
		}
	}
	return best, nil
}

// Enumerate returns the first limit candidates of the full k-vertex
// candidate space on a w x h grid, in lexicographic order: the last vertex
// varies fastest, and each vertex walks the grid row by row. The space has
// (w*h)^k members, so this exists for inspection and tests, not search.
func Enumerate(w, h, k, limit int) ([]poly.Polygon, error) {
	if w <= 0 || h <= 0 || k <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"enumeration needs positive dimensions and vertex count, got %dx%d k=%d", w, h, k)
	}
	if limit <= 0 {
		return nil, nil
	}

	cells := w * h
	idx := make([]int, k)
	out := make([]poly.Polygon, 0, limit)
	for len(out) < limit {
		p := make(poly.Polygon, k)
		for i, ci := range idx {
			p[i] = poly.Point{X: ci % w, Y: ci / w}
		}
		out = append(out, p)

		pos := k - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < cells {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out, nil
}
