// Package display renders rasters for humans. ANSI draws half-block
// pixels for terminals, ASCII dumps a character ramp, PNG writes an
// upscaled image file, Null discards everything.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// Displayer shows a raster somewhere: a terminal, a file, nowhere.
type Displayer interface {
	Show(r *raster.Raster) error
}

// ASCII writes the raster as a character ramp, one line per pixel row.
type ASCII struct {
	// Writer receives the dump. Nil means os.Stdout.
	Writer io.Writer
}

// Show dumps r line by line.
func (d ASCII) Show(r *raster.Raster) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to display")
	}
	w := d.Writer
	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprintln(w, r.ASCII()); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "writing ascii dump")
	}
	return nil
}

// Null discards rasters. It stands in for a display in headless runs.
type Null struct{}

// Show does nothing.
func (Null) Show(*raster.Raster) error { return nil }
