// Package raster provides the fixed-size grayscale pixel grid that candidate
// polygons are rendered into, plus the pixel-error metric driving the search.
//
// Intensities are 8-bit: 0 is black, 255 is white. The background convention
// throughout the system is white, with filled geometry dark and anti-aliased
// edge pixels carrying intermediate values.
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
)

// White is the background intensity.
const White uint8 = 255

// MaxSide bounds the dimensions accepted from external inputs (manifests,
// API requests), keeping one bad value from allocating a giant grid.
const MaxSide = 4096

// ErrSizeMismatch is returned when comparing rasters of different dimensions.
var ErrSizeMismatch = errors.New("raster dimensions do not match")

// Raster is a W x H grid of 8-bit intensities stored in row-major order.
type Raster struct {
	W   int
	H   int
	Pix []uint8
}

// New creates a raster filled with the white background.
func New(w, h int) *Raster {
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = White
	}
	return &Raster{W: w, H: h, Pix: pix}
}

// At returns the intensity at (x, y). The caller must stay in bounds.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.W+x]
}

// Set writes the intensity at (x, y). The caller must stay in bounds.
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.W+x] = v
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	return &Raster{W: r.W, H: r.H, Pix: bytes.Clone(r.Pix)}
}

// Equal reports whether two rasters are pixel-identical.
func (r *Raster) Equal(o *Raster) bool {
	return r.W == o.W && r.H == o.H && bytes.Equal(r.Pix, o.Pix)
}

// Gray exports the raster as a standard library grayscale image.
func (r *Raster) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.W, r.H))
	copy(img.Pix, r.Pix)
	return img
}

// FromGray wraps a grayscale image's pixels in a Raster. The pixel data is
// copied; the image's stride is honored.
func FromGray(img *image.Gray) *Raster {
	b := img.Bounds()
	r := New(b.Dx(), b.Dy())
	for y := 0; y < r.H; y++ {
		copy(r.Pix[y*r.W:(y+1)*r.W], img.Pix[y*img.Stride:y*img.Stride+r.W])
	}
	return r
}

// FromImage converts any image to a grayscale raster using the standard
// luminance model.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := New(b.Dx(), b.Dy())
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			r.Set(x, y, g.Y)
		}
	}
	return r
}

// asciiRamp maps intensity to glyphs, light to dark.
const asciiRamp = " .:-=+*#%@"

// ASCII renders the raster as a line-per-row glyph dump for terminals and
// test logs. White maps to space, black to '@'.
func (r *Raster) ASCII() string {
	var b strings.Builder
	b.Grow((r.W + 1) * r.H)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := r.At(x, y)
			idx := int(White-v) * (len(asciiRamp) - 1) / int(White)
			b.WriteByte(asciiRamp[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
