package pipeline

import (
	"bytes"
	"context"

	"github.com/ckski/Evolution-Tutorials/pkg/display"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	shapeio "github.com/ckski/Evolution-Tutorials/pkg/io"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// RenderArtifacts renders the requested output formats for a finished
// search. The JSON artifact is the same document ExportResult writes, so a
// saved artifact can be re-imported.
func (r *Runner) RenderArtifacts(ctx context.Context, target *raster.Raster, outcome search.Outcome, runID string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(outcome.Solution) == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "no candidate to render")
	}

	backend := opts.Backend
	if backend == "" {
		backend = render.BackendVector
	}
	ras, err := render.New(backend, target.W, target.H)
	if err != nil {
		return nil, err
	}
	best, err := ras.Rasterize(outcome.Solution)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatASCII:
			artifacts[format] = []byte(best.ASCII())
		case FormatPNG:
			var buf bytes.Buffer
			if err := display.EncodePNG(&buf, best, opts.Scale); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatJSON:
			res := &Result{RunID: runID, Target: target, Outcome: outcome}
			var buf bytes.Buffer
			if err := shapeio.WriteResult(res.Record(opts), &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		}
	}
	return artifacts, nil
}
