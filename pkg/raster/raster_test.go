package raster

import (
	"image"
	"strings"
	"testing"
)

func TestNewIsWhite(t *testing.T) {
	r := New(12, 12)
	if len(r.Pix) != 144 {
		t.Fatalf("pixel buffer has %d entries, want 144", len(r.Pix))
	}
	for i, v := range r.Pix {
		if v != White {
			t.Fatalf("pixel %d = %d, want white (%d)", i, v, White)
		}
	}
}

func TestSetAt(t *testing.T) {
	r := New(4, 3)
	r.Set(2, 1, 0)
	if got := r.At(2, 1); got != 0 {
		t.Errorf("At(2,1) = %d, want 0", got)
	}
	if got := r.At(1, 2); got != White {
		t.Errorf("At(1,2) = %d, want white", got)
	}
}

func TestEqualAndClone(t *testing.T) {
	a := New(5, 5)
	a.Set(3, 3, 10)

	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone is not equal to original")
	}

	b.Set(0, 0, 0)
	if a.Equal(b) {
		t.Errorf("mutating the clone affected equality with the original")
	}
	if a.At(0, 0) != White {
		t.Errorf("mutating the clone changed the original")
	}

	c := New(5, 6)
	if a.Equal(c) {
		t.Errorf("rasters with different dimensions compare equal")
	}
}

func TestGrayRoundTrip(t *testing.T) {
	r := New(3, 2)
	r.Set(1, 0, 42)
	r.Set(2, 1, 0)

	back := FromGray(r.Gray())
	if !r.Equal(back) {
		t.Errorf("Gray round trip changed pixels")
	}
}

func TestFromGrayHonorsStride(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	sub, ok := img.SubImage(image.Rect(2, 1, 5, 3)).(*image.Gray)
	if !ok {
		t.Fatalf("SubImage did not return *image.Gray")
	}

	r := FromGray(sub)
	if r.W != 3 || r.H != 2 {
		t.Fatalf("raster is %dx%d, want 3x2", r.W, r.H)
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			want := img.Pix[(y+1)*img.Stride+(x+2)]
			if got := r.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestSumSquaredDiff(t *testing.T) {
	a := New(2, 2)
	b := New(2, 2)

	sum, err := SumSquaredDiff(a, b)
	if err != nil {
		t.Fatalf("SumSquaredDiff returned error: %v", err)
	}
	if sum != 0 {
		t.Errorf("identical rasters have sum %d, want 0", sum)
	}

	b.Set(0, 0, 250) // diff 5
	b.Set(1, 1, 245) // diff 10
	sum, err = SumSquaredDiff(a, b)
	if err != nil {
		t.Fatalf("SumSquaredDiff returned error: %v", err)
	}
	if want := int64(5*5 + 10*10); sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
}

func TestMSEZeroIdentity(t *testing.T) {
	a := New(12, 12)
	b := New(12, 12)

	mse, err := MSE(a, b)
	if err != nil {
		t.Fatalf("MSE returned error: %v", err)
	}
	if mse != 0 {
		t.Errorf("MSE of identical rasters = %g, want 0", mse)
	}

	b.Set(6, 6, 254)
	mse, err = MSE(a, b)
	if err != nil {
		t.Fatalf("MSE returned error: %v", err)
	}
	if mse == 0 {
		t.Errorf("MSE of differing rasters must be non-zero")
	}
	if want := 1.0 / 144.0; mse != want {
		t.Errorf("MSE = %g, want %g", mse, want)
	}
}

func TestMSESizeMismatch(t *testing.T) {
	a := New(12, 12)
	b := New(11, 12)
	if _, err := MSE(a, b); err == nil {
		t.Errorf("MSE on mismatched sizes expected error, got nil")
	}
}

func TestASCII(t *testing.T) {
	r := New(3, 2)
	r.Set(0, 0, 0)

	s := r.ASCII()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("ASCII produced %d lines, want 2", len(lines))
	}
	if lines[0][0] != '@' {
		t.Errorf("black pixel rendered as %q, want '@'", lines[0][0])
	}
	if lines[1] != "   " {
		t.Errorf("white row rendered as %q, want spaces", lines[1])
	}
}
