package render

import (
	"github.com/fogleman/gg"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

func init() {
	Register(BackendGG, func(w, h int) Rasterizer {
		return &ggBackend{w: w, h: h}
	})
}

// ggBackend rasterizes polygons with fogleman/gg. It exists as a second,
// independent implementation of the same contract: useful for cross-checking
// the default backend and for canvases that later grow strokes or text.
type ggBackend struct {
	w, h int
}

// Name returns the backend identifier.
func (b *ggBackend) Name() string { return BackendGG }

// Bounds returns the canvas dimensions.
func (b *ggBackend) Bounds() (w, h int) { return b.w, b.h }

// Rasterize draws the filled polygon as dark-on-white with anti-aliasing.
// Vertices are clamped into the pixel grid before the path is built.
func (b *ggBackend) Rasterize(p poly.Polygon) (*raster.Raster, error) {
	if len(p) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot rasterize an empty polygon")
	}

	dc := gg.NewContext(b.w, b.h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	first := p[0].Clamp(b.w, b.h)
	dc.MoveTo(float64(first.X), float64(first.Y))
	for _, pt := range p[1:] {
		q := pt.Clamp(b.w, b.h)
		dc.LineTo(float64(q.X), float64(q.Y))
	}
	dc.ClosePath()
	dc.Fill()

	return raster.FromImage(dc.Image()), nil
}
