package render

import (
	"testing"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

var starPolygon = poly.Polygon{{X: 6, Y: 1}, {X: 3, Y: 11}, {X: 11, Y: 5}, {X: 1, Y: 5}, {X: 9, Y: 11}}

func backendsUnderTest(t *testing.T, w, h int) []Rasterizer {
	t.Helper()
	var out []Rasterizer
	for _, name := range []string{BackendVector, BackendGG} {
		ras, err := New(name, w, h)
		if err != nil {
			t.Fatalf("New(%q, %d, %d) error: %v", name, w, h, err)
		}
		out = append(out, ras)
	}
	return out
}

func TestRegistry(t *testing.T) {
	names := Backends()
	want := map[string]bool{BackendVector: false, BackendGG: false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("Backends() = %v, missing %q", names, n)
		}
	}

	if !IsRegistered(BackendVector) {
		t.Error("IsRegistered(vector) = false")
	}

	if _, err := New("no-such-backend", 12, 12); !errors.Is(err, errors.ErrCodeInvalidBackend) {
		t.Errorf("New(unknown) error = %v, want %s", err, errors.ErrCodeInvalidBackend)
	}

	if _, err := New(BackendVector, 0, 12); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New with zero width error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	def := Default(12, 12)
	if def.Name() != DefaultBackend {
		t.Errorf("Default().Name() = %q, want %q", def.Name(), DefaultBackend)
	}
}

func TestBoundsAndName(t *testing.T) {
	for _, ras := range backendsUnderTest(t, 12, 12) {
		w, h := ras.Bounds()
		if w != 12 || h != 12 {
			t.Errorf("%s: Bounds() = %dx%d, want 12x12", ras.Name(), w, h)
		}
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	for _, ras := range backendsUnderTest(t, 12, 12) {
		t.Run(ras.Name(), func(t *testing.T) {
			a, err := ras.Rasterize(starPolygon)
			if err != nil {
				t.Fatalf("Rasterize() error: %v", err)
			}
			b, err := ras.Rasterize(starPolygon)
			if err != nil {
				t.Fatalf("Rasterize() error: %v", err)
			}
			if !a.Equal(b) {
				t.Error("two renders of the same polygon differ")
			}
		})
	}
}

// A right triangle spanning the full canvas must darken the covered corner
// while leaving the opposite corner pixel untouched background.
func TestCornerTriangleCoverage(t *testing.T) {
	tri := poly.Polygon{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 12}}

	for _, ras := range backendsUnderTest(t, 12, 12) {
		t.Run(ras.Name(), func(t *testing.T) {
			img, err := ras.Rasterize(tri)
			if err != nil {
				t.Fatalf("Rasterize() error: %v", err)
			}

			// (0,0) sits on the hypotenuse: roughly half covered.
			if got := img.At(0, 0); got == raster.White {
				t.Errorf("At(0,0) = %d, want non-background", got)
			}

			// The clamped triangle never reaches into pixel (11,11).
			if got := img.At(11, 11); got != raster.White {
				t.Errorf("At(11,11) = %d, want %d", got, raster.White)
			}

			// Deep interior is solidly dark.
			if got := img.At(9, 3); got >= 128 {
				t.Errorf("At(9,3) = %d, want dark interior", got)
			}
		})
	}
}

// Vertices outside the canvas clamp onto the pixel grid, so a polygon with
// off-canvas vertices renders identically to its clamped form.
func TestOffCanvasVerticesClamp(t *testing.T) {
	outside := poly.Polygon{{X: -3, Y: -5}, {X: 14, Y: 0}, {X: 12, Y: 12}}
	clamped := poly.Polygon{{X: 0, Y: 0}, {X: 11, Y: 0}, {X: 11, Y: 11}}

	for _, ras := range backendsUnderTest(t, 12, 12) {
		t.Run(ras.Name(), func(t *testing.T) {
			a, err := ras.Rasterize(outside)
			if err != nil {
				t.Fatalf("Rasterize(outside) error: %v", err)
			}
			b, err := ras.Rasterize(clamped)
			if err != nil {
				t.Fatalf("Rasterize(clamped) error: %v", err)
			}
			if !a.Equal(b) {
				t.Error("off-canvas polygon does not match its clamped form")
			}
		})
	}
}

func TestDegeneratePolygons(t *testing.T) {
	tests := []struct {
		name string
		p    poly.Polygon
	}{
		{"single point", poly.Polygon{{X: 5, Y: 5}}},
		{"two points", poly.Polygon{{X: 2, Y: 2}, {X: 9, Y: 9}}},
		{"collinear", poly.Polygon{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 5, Y: 5}, {X: 7, Y: 7}, {X: 9, Y: 9}}},
		{"coincident", poly.Polygon{{X: 4, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 4}}},
	}

	for _, ras := range backendsUnderTest(t, 12, 12) {
		for _, tt := range tests {
			t.Run(ras.Name()+"/"+tt.name, func(t *testing.T) {
				img, err := ras.Rasterize(tt.p)
				if err != nil {
					t.Fatalf("Rasterize() error: %v", err)
				}
				for y := 0; y < 12; y++ {
					for x := 0; x < 12; x++ {
						if img.At(x, y) != raster.White {
							t.Fatalf("At(%d,%d) = %d, want all-background", x, y, img.At(x, y))
						}
					}
				}
			})
		}
	}
}

func TestEmptyPolygonIsInvalid(t *testing.T) {
	for _, ras := range backendsUnderTest(t, 12, 12) {
		if _, err := ras.Rasterize(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s: Rasterize(nil) error = %v, want %s", ras.Name(), err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestStarRendersInk(t *testing.T) {
	for _, ras := range backendsUnderTest(t, 12, 12) {
		t.Run(ras.Name(), func(t *testing.T) {
			img, err := ras.Rasterize(starPolygon)
			if err != nil {
				t.Fatalf("Rasterize() error: %v", err)
			}
			ink := 0
			for _, px := range img.Pix {
				if px != raster.White {
					ink++
				}
			}
			if ink == 0 {
				t.Error("star rendered as all-background")
			}
		})
	}
}
