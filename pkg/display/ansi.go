package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// ANSI draws the raster with unicode half blocks, two pixel rows per
// terminal line: the upper pixel becomes the foreground of '▀', the lower
// one the background. A 12x12 raster lands as a 12x6 block of cells, close
// to square in most terminal fonts.
type ANSI struct {
	// Writer receives the output. Nil means os.Stdout.
	Writer io.Writer
}

// Show renders r to the terminal.
func (d ANSI) Show(r *raster.Raster) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to display")
	}
	w := d.Writer
	if w == nil {
		w = os.Stdout
	}

	var b strings.Builder
	for y := 0; y < r.H; y += 2 {
		for x := 0; x < r.W; x++ {
			top := r.At(x, y)
			bottom := raster.White
			if y+1 < r.H {
				bottom = r.At(x, y+1)
			}
			style := lipgloss.NewStyle().
				Foreground(grayColor(top)).
				Background(grayColor(bottom))
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "writing ansi blocks")
	}
	return nil
}

func grayColor(v uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}
