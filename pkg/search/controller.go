package search

import (
	"context"
	"math"
	"time"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/observability"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
)

// Outcome summarizes a finished restart search. Counters aggregate across
// every trial the search ran, successful or not.
type Outcome struct {
	// Solution is the best candidate seen. Score 0 means it reproduces the
	// target exactly; on exhaustion it is the best local optimum found.
	Solution poly.Polygon `json:"solution,omitempty"`

	Score   float64       `json:"score"`
	Trials  int           `json:"trials"`
	Steps   int           `json:"steps"`
	Evals   int64         `json:"evals"`
	Elapsed time.Duration `json:"elapsed"`
}

// Controller restarts hillclimbs from fresh starting candidates until one
// reaches score 0.
//
// Trials are independent: each draws a start from Source, climbs it to
// convergence, and keeps the result only if it is the best so far. The loop
// stops on the first exact fit.
type Controller struct {
	Eval   *Evaluator
	Source Source

	// MaxTrials bounds the number of restarts. Zero or negative means
	// unbounded; the search then stops only on an exact fit or context
	// cancellation.
	MaxTrials int
}

// Run executes the restart loop. Exhausting MaxTrials without an exact fit
// returns the best Outcome found together with an ErrCodeSearchExhausted
// error; a non-zero score is never silently passed off as success.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	if c.Eval == nil || c.Source == nil {
		return Outcome{}, errors.New(errors.ErrCodeInvalidInput, "controller needs an evaluator and a source")
	}

	start := time.Now()
	startEvals := c.Eval.Evals()
	hooks := observability.Search()

	out := Outcome{Score: math.Inf(1)}
	finish := func() {
		out.Evals = c.Eval.Evals() - startEvals
		out.Elapsed = time.Since(start)
	}

	for trial := 1; c.MaxTrials <= 0 || trial <= c.MaxTrials; trial++ {
		if err := ctx.Err(); err != nil {
			finish()
			return out, err
		}

		hooks.OnTrialStart(ctx, trial)
		trialStart := time.Now()

		seed, err := c.Source.Next(ctx)
		if err != nil {
			finish()
			return out, err
		}
		climber, err := NewClimber(ctx, c.Eval, seed)
		if err != nil {
			finish()
			return out, err
		}
		res, err := climber.Run(ctx)
		out.Trials = trial
		out.Steps += res.Steps
		hooks.OnTrialComplete(ctx, trial, res.Steps, res.Score, time.Since(trialStart), err)
		if err != nil {
			finish()
			return out, err
		}

		if out.Solution == nil || res.Score < out.Score {
			out.Solution = res.Best
			out.Score = res.Score
		}
		if res.Score == 0 {
			hooks.OnConverged(ctx, trial, res.Score)
			finish()
			return out, nil
		}
	}

	finish()
	return out, errors.New(errors.ErrCodeSearchExhausted,
		"no exact fit in %d trials (best score %.3f)", out.Trials, out.Score)
}
