package search

import (
	"context"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
)

// State is the lifecycle of a Climber.
type State int

const (
	// StateSearching means the climber may still have improving neighbors.
	StateSearching State = iota
	// StateConverged means the climber holds a local optimum, or an exact
	// fit with score 0.
	StateConverged
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// Result summarizes a finished climb.
type Result struct {
	Best  poly.Polygon `json:"best"`
	Score float64      `json:"score"`
	State State        `json:"state"`
	Steps int          `json:"steps"`
	Evals int64        `json:"evals"`
}

// Climber walks a single candidate downhill to a local optimum.
//
// Each step scans the 8*K neighborhood in deterministic order (vertex index
// ascending, then the unit-move table) and accepts the first neighbor with a
// strictly lower score. No randomness, no backtracking: the trajectory from
// a given start is fully determined.
type Climber struct {
	eval       *Evaluator
	cur        poly.Polygon
	score      float64
	state      State
	steps      int
	startEvals int64
}

// NewClimber seeds a climb at start, scoring it once. A start that already
// reproduces the target converges immediately.
func NewClimber(ctx context.Context, eval *Evaluator, start poly.Polygon) (*Climber, error) {
	if eval == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "evaluator is nil")
	}
	if len(start) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "start candidate is empty")
	}
	startEvals := eval.Evals()
	score, err := eval.Score(ctx, start)
	if err != nil {
		return nil, err
	}
	c := &Climber{
		eval:       eval,
		cur:        start.Clone(),
		score:      score,
		state:      StateSearching,
		startEvals: startEvals,
	}
	if score == 0 {
		c.state = StateConverged
	}
	return c, nil
}

// State returns the current lifecycle state.
func (c *Climber) State() State { return c.state }

// Current returns a copy of the current candidate.
func (c *Climber) Current() poly.Polygon { return c.cur.Clone() }

// Score returns the current candidate's score.
func (c *Climber) Score() float64 { return c.score }

// Steps returns the number of accepted transitions so far.
func (c *Climber) Steps() int { return c.steps }

// Step performs one first-improvement transition. It reports whether the
// climber moved; a false return with a nil error means the climb converged.
// Scoring errors abort the step and leave the climber on its current
// candidate.
func (c *Climber) Step(ctx context.Context) (bool, error) {
	if c.state == StateConverged {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var (
		moved   bool
		stepErr error
	)
	poly.VisitNeighbors(c.cur, func(n poly.Polygon) bool {
		score, err := c.eval.Score(ctx, n)
		if err != nil {
			stepErr = err
			return false
		}
		if score < c.score {
			c.cur = n
			c.score = score
			c.steps++
			moved = true
			return false
		}
		return true
	})
	if stepErr != nil {
		return false, stepErr
	}
	if !moved {
		c.state = StateConverged
		return false, nil
	}
	if c.score == 0 {
		c.state = StateConverged
	}
	return true, nil
}

// Run drives the climb to convergence. The score sequence across accepted
// steps is strictly decreasing and scores are drawn from a finite set, so
// Run always terminates. Cancelling ctx aborts with the partial result and
// ctx.Err().
func (c *Climber) Run(ctx context.Context) (Result, error) {
	for c.state == StateSearching {
		if _, err := c.Step(ctx); err != nil {
			return c.result(), err
		}
	}
	return c.result(), nil
}

func (c *Climber) result() Result {
	return Result{
		Best:  c.cur.Clone(),
		Score: c.score,
		State: c.state,
		Steps: c.steps,
		Evals: c.eval.Evals() - c.startEvals,
	}
}
