package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/observability"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

// runFitWatch runs the fit inside a live dashboard. Search hooks feed trial
// completions into the bubbletea program; quitting the dashboard cancels
// the search.
func (c *CLI) runFitWatch(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, flags fitFlags) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(opts.Target, opts.MaxTrials, cancel))

	observability.SetSearchHooks(programHooks{p: p})
	defer observability.Reset()

	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(watchDoneMsg{res: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	m := final.(watchModel)
	exhausted := m.err != nil && errors.Is(m.err, errors.ErrCodeSearchExhausted)
	if m.err != nil && !exhausted {
		return m.err
	}
	if m.res == nil {
		return ctx.Err()
	}
	return c.finishFit(ctx, m.res, opts, flags, false)
}

// programHooks forwards search events into the bubbletea program. Sends are
// safe from the worker goroutines running the trials.
type programHooks struct {
	observability.NoopSearchHooks
	p *tea.Program
}

func (h programHooks) OnTrialComplete(_ context.Context, trial, steps int, score float64, _ time.Duration, _ error) {
	h.p.Send(watchTrialMsg{trial: trial, steps: steps, score: score})
}

func (h programHooks) OnConverged(_ context.Context, trial int, score float64) {
	h.p.Send(watchConvergedMsg{trial: trial, score: score})
}

// =============================================================================
// WatchModel - Live fit dashboard
// =============================================================================

type watchTrialMsg struct {
	trial int
	steps int
	score float64
}

type watchConvergedMsg struct {
	trial int
	score float64
}

type watchDoneMsg struct {
	res *pipeline.Result
	err error
}

type watchTickMsg time.Time

// watchModel is the bubbletea model for the live fit dashboard. Trials are
// counted as completion messages arrive, which stays exact when several
// workers interleave.
type watchModel struct {
	target string
	budget int
	cancel context.CancelFunc

	start     time.Time
	frame     int
	trials    int
	steps     int
	best      float64
	converged bool
	cancelled bool

	done bool
	res  *pipeline.Result
	err  error
}

// newWatchModel creates a dashboard model for one fit run.
func newWatchModel(target string, budget int, cancel context.CancelFunc) watchModel {
	return watchModel{
		target: target,
		budget: budget,
		cancel: cancel,
		start:  time.Now(),
		best:   math.Inf(1),
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The search notices the cancelled context and sends
			// watchDoneMsg; quitting happens there.
			m.cancelled = true
			m.cancel()
		}
	case watchTickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, watchTick()
	case watchTrialMsg:
		m.trials++
		m.steps += msg.steps
		if msg.score < m.best {
			m.best = msg.score
		}
	case watchConvergedMsg:
		m.converged = true
		if msg.score < m.best {
			m.best = msg.score
		}
	case watchDoneMsg:
		m.done = true
		m.res = msg.res
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.done {
		return m.finalView()
	}

	var b strings.Builder

	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	b.WriteString(styleIconSpinner.Render(frame) + " " + StyleTitle.Render("Fitting "+m.target))
	b.WriteString("\n\n")

	best := "—"
	if !math.IsInf(m.best, 1) {
		best = formatScore(m.best)
	}
	budget := "unbounded"
	if m.budget > 0 {
		budget = fmt.Sprintf("%d", m.budget)
	}

	rows := [][2]string{
		{"trials", fmt.Sprintf("%d / %s", m.trials, budget)},
		{"steps", fmt.Sprintf("%d", m.steps)},
		{"best", best},
		{"elapsed", time.Since(m.start).Round(100 * time.Millisecond).String()},
	}
	for _, row := range rows {
		b.WriteString("  " + StyleDim.Render(fmt.Sprintf("%-8s", row[0])) + StyleValue.Render(row[1]) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.cancelled:
		b.WriteString(StyleWarning.Render("  cancelling..."))
	case m.converged:
		b.WriteString(StyleSuccess.Render("  converged, collecting workers..."))
	default:
		b.WriteString(StyleDim.Render("  q to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// finalView is what remains in the terminal after the dashboard exits. A
// hard failure or cancellation renders nothing; the error path reports it.
func (m watchModel) finalView() string {
	if m.res == nil {
		return ""
	}

	var b strings.Builder
	if m.err != nil {
		msg := fmt.Sprintf("No exact fit in %d trials (best score %s)", m.res.Outcome.Trials, formatScore(m.res.Outcome.Score))
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
	} else {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + fmt.Sprintf(" Exact fit in %d trials", m.res.Outcome.Trials))
	}
	b.WriteString("\n")

	if art := m.res.Artifacts[pipeline.FormatASCII]; len(art) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(string(art), "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
