package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

func init() {
	Register(BackendVector, func(w, h int) Rasterizer {
		return newVectorBackend(w, h)
	})
}

// vectorBackend rasterizes polygons with golang.org/x/image/vector.
// The rasterizer and the alpha scratch image are reused across calls.
type vectorBackend struct {
	w, h int
	ras  *vector.Rasterizer
	dst  *image.Alpha
}

func newVectorBackend(w, h int) *vectorBackend {
	return &vectorBackend{
		w:   w,
		h:   h,
		ras: vector.NewRasterizer(w, h),
		dst: image.NewAlpha(image.Rect(0, 0, w, h)),
	}
}

// Name returns the backend identifier.
func (b *vectorBackend) Name() string { return BackendVector }

// Bounds returns the canvas dimensions.
func (b *vectorBackend) Bounds() (w, h int) { return b.w, b.h }

// Rasterize draws the filled polygon as dark-on-white with anti-aliasing.
// Vertices are clamped into the pixel grid before the path is built.
func (b *vectorBackend) Rasterize(p poly.Polygon) (*raster.Raster, error) {
	if len(p) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot rasterize an empty polygon")
	}

	b.ras.Reset(b.w, b.h)
	b.ras.DrawOp = draw.Src

	first := p[0].Clamp(b.w, b.h)
	b.ras.MoveTo(float32(first.X), float32(first.Y))
	for _, pt := range p[1:] {
		q := pt.Clamp(b.w, b.h)
		b.ras.LineTo(float32(q.X), float32(q.Y))
	}
	b.ras.ClosePath()

	clear(b.dst.Pix)
	b.ras.Draw(b.dst, b.dst.Bounds(), image.Opaque, image.Point{})

	// Coverage becomes darkness: full coverage is black, none is white.
	out := raster.New(b.w, b.h)
	for i, a := range b.dst.Pix {
		out.Pix[i] = raster.White - a
	}
	return out, nil
}
