package display

import (
	"io"
	"os"

	"github.com/fogleman/gg"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// DefaultScale is the PNG upscaling factor when none is set. Search canvases
// are tiny, so pixels are blown up for inspection.
const DefaultScale = 32

// EncodePNG writes r to w as a PNG, each pixel drawn as a filled square of
// scale x scale device pixels. Nearest neighbor: no smoothing, the blocky
// structure is the point.
func EncodePNG(w io.Writer, r *raster.Raster, scale int) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to display")
	}
	if scale <= 0 {
		scale = DefaultScale
	}

	dc := gg.NewContext(r.W*scale, r.H*scale)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := float64(r.At(x, y)) / 255
			dc.SetRGB(v, v, v)
			dc.DrawRectangle(float64(x*scale), float64(y*scale), float64(scale), float64(scale))
			dc.Fill()
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encoding png")
	}
	return nil
}

// PNG writes the raster to a file via [EncodePNG].
type PNG struct {
	Path  string
	Scale int
}

// Show writes r to Path.
func (d PNG) Show(r *raster.Raster) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to display")
	}
	if d.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "png display needs a path")
	}
	f, err := os.Create(d.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "writing png %s", d.Path)
	}
	defer f.Close()
	return EncodePNG(f, r, d.Scale)
}
