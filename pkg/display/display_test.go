package display

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

func testRaster() *raster.Raster {
	r := raster.New(4, 3)
	r.Set(0, 0, 0)
	r.Set(1, 0, 128)
	r.Set(2, 1, 64)
	return r
}

func TestASCIIShow(t *testing.T) {
	var buf bytes.Buffer
	if err := (ASCII{Writer: &buf}).Show(testRaster()); err != nil {
		t.Fatalf("Show: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if lines[0][0] != '@' {
		t.Errorf("black pixel rendered as %q, want '@'", lines[0][0])
	}
	if lines[2] != "    " {
		t.Errorf("white row rendered as %q", lines[2])
	}
}

func TestANSIShowHalfBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := (ANSI{Writer: &buf}).Show(testRaster()); err != nil {
		t.Fatalf("Show: %v", err)
	}
	out := buf.String()

	// 3 pixel rows pack into 2 terminal lines.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%q", len(lines), out)
	}
	for i, line := range lines {
		if got := strings.Count(line, "▀"); got != 4 {
			t.Errorf("line %d has %d blocks, want 4", i, got)
		}
	}
}

func TestPNGShowWritesScaledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := (PNG{Path: path, Scale: 8}).Show(testRaster()); err != nil {
		t.Fatalf("Show: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 4*8 || b.Dy() != 3*8 {
		t.Errorf("png is %dx%d, want %dx%d", b.Dx(), b.Dy(), 4*8, 3*8)
	}
}

func TestPNGShowDefaultsScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := (PNG{Path: path}).Show(raster.New(2, 2)); err != nil {
		t.Fatalf("Show: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if img.Bounds().Dx() != 2*DefaultScale {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), 2*DefaultScale)
	}
}

func TestShowValidation(t *testing.T) {
	if err := (ASCII{}).Show(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ascii nil raster: %v", err)
	}
	if err := (ANSI{}).Show(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ansi nil raster: %v", err)
	}
	if err := (PNG{Path: "x.png"}).Show(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("png nil raster: %v", err)
	}
	if err := (PNG{}).Show(raster.New(1, 1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("png empty path: %v", err)
	}
}

func TestNullShow(t *testing.T) {
	if err := (Null{}).Show(nil); err != nil {
		t.Errorf("null display errored: %v", err)
	}
	if err := (Null{}).Show(testRaster()); err != nil {
		t.Errorf("null display errored: %v", err)
	}
}
