package search

import (
	"strings"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

// Strategy selects how restart trials are seeded. The climb itself is
// identical across strategies.
type Strategy string

const (
	// StrategyUniform seeds every trial with a uniform random candidate.
	StrategyUniform Strategy = "uniform"
	// StrategyBestOf seeds every trial with the best of a sampled batch.
	StrategyBestOf Strategy = "bestof"
)

// DefaultSamples is the batch size StrategyBestOf uses when the caller does
// not set one.
const DefaultSamples = 32

// Strategies returns the valid strategy names.
func Strategies() []string {
	return []string{string(StrategyUniform), string(StrategyBestOf)}
}

// ParseStrategy normalizes a strategy name. The empty string maps to the
// baseline.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StrategyUniform):
		return StrategyUniform, nil
	case string(StrategyBestOf), "best-of":
		return StrategyBestOf, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStrategy,
			"unknown strategy %q (valid: %s)", s, strings.Join(Strategies(), ", "))
	}
}

// String returns the strategy name.
func (s Strategy) String() string { return string(s) }

// NewSource builds the seeding source for a strategy on eval's canvas.
// samples only applies to StrategyBestOf; zero or negative means
// DefaultSamples.
func NewSource(strategy Strategy, eval *Evaluator, k int, seed uint64, samples int) Source {
	w, h := eval.Bounds()
	uniform := NewUniformSource(w, h, k, seed)
	if strategy != StrategyBestOf {
		return uniform
	}
	if samples <= 0 {
		samples = DefaultSamples
	}
	return NewBestOfSource(uniform, eval, samples)
}
