package bench

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

// WritePlot renders per-run wall-clock lines for each summary to a PNG (or
// any format gonum/plot infers from the path extension).
func WritePlot(path string, summaries ...*Summary) error {
	if len(summaries) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Search wall-clock per run"
	p.X.Label.Text = "Run"
	p.Y.Label.Text = "Seconds"

	for i, s := range summaries {
		pts := make(plotter.XYs, len(s.Durations))
		for j, d := range s.Durations {
			pts[j].X = float64(j + 1)
			pts[j].Y = d.Seconds()
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "plotting %q", s.Name)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing plot %s", path)
	}
	return nil
}
