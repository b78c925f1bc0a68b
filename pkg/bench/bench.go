// Package bench measures repeated full searches and compares seeding
// strategies. It backs the bench command: run the baseline and the improved
// strategy against the same target, summarize wall-clock and trial counts,
// and render a comparison plot.
package bench

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// SearchFunc runs one complete search and reports its outcome. Measure
// calls it once per run; implementations should build a fresh search each
// time so runs stay independent.
type SearchFunc func(ctx context.Context) (search.Outcome, error)

// Summary holds timings for repeated runs of one strategy.
type Summary struct {
	Name      string          `json:"name"`
	Runs      int             `json:"runs"`
	Durations []time.Duration `json:"durations"`
	Trials    []int           `json:"trials"`

	Mean   time.Duration `json:"mean"`
	Median time.Duration `json:"median"`
	StdDev time.Duration `json:"stddev"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	P95    time.Duration `json:"p95"`

	MeanTrials float64 `json:"mean_trials"`
}

// Measure times runs executions of fn. Every run must succeed; the first
// failure aborts the measurement and propagates unchanged.
func Measure(ctx context.Context, name string, runs int, fn SearchFunc) (*Summary, error) {
	if runs < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bench needs at least one run, got %d", runs)
	}
	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bench needs a search function")
	}

	s := &Summary{
		Name:      name,
		Runs:      runs,
		Durations: make([]time.Duration, 0, runs),
		Trials:    make([]int, 0, runs),
	}
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		out, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		s.Durations = append(s.Durations, time.Since(start))
		s.Trials = append(s.Trials, out.Trials)
	}
	if err := s.summarize(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Summary) summarize() error {
	secs := make([]float64, len(s.Durations))
	for i, d := range s.Durations {
		secs[i] = d.Seconds()
	}
	trials := make([]float64, len(s.Trials))
	for i, n := range s.Trials {
		trials[i] = float64(n)
	}

	type agg struct {
		dst *time.Duration
		fn  func(stats.Float64Data) (float64, error)
	}
	aggs := []agg{
		{&s.Mean, stats.Mean},
		{&s.Median, stats.Median},
		{&s.StdDev, stats.StandardDeviation},
		{&s.Min, stats.Min},
		{&s.Max, stats.Max},
		{&s.P95, func(d stats.Float64Data) (float64, error) { return stats.Percentile(d, 95) }},
	}
	for _, a := range aggs {
		v, err := a.fn(secs)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "summarizing %q durations", s.Name)
		}
		*a.dst = time.Duration(v * float64(time.Second))
	}

	mean, err := stats.Mean(trials)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "summarizing %q trials", s.Name)
	}
	s.MeanTrials = mean
	return nil
}

// Comparison relates an improved strategy to a baseline.
type Comparison struct {
	Baseline *Summary `json:"baseline"`
	Improved *Summary `json:"improved"`

	// SpeedupWall is baseline mean wall-clock over improved mean: 2 means
	// twice as fast. Ratio is the inverse, the improved mean as a fraction
	// of the baseline mean.
	SpeedupWall   float64 `json:"speedup_wall"`
	SpeedupTrials float64 `json:"speedup_trials"`
	Ratio         float64 `json:"ratio"`
}

// Compare relates two summaries measured on the same target.
func Compare(baseline, improved *Summary) Comparison {
	c := Comparison{Baseline: baseline, Improved: improved}
	if improved.Mean > 0 {
		c.SpeedupWall = float64(baseline.Mean) / float64(improved.Mean)
	}
	if improved.MeanTrials > 0 {
		c.SpeedupTrials = baseline.MeanTrials / improved.MeanTrials
	}
	if baseline.Mean > 0 {
		c.Ratio = float64(improved.Mean) / float64(baseline.Mean)
	}
	return c
}

// MeetsTarget reports whether the improved mean wall-clock came in under
// maxRatio of the baseline, e.g. 0.5 for "at least twice as fast".
func (c Comparison) MeetsTarget(maxRatio float64) bool {
	return c.Ratio > 0 && c.Ratio < maxRatio
}
