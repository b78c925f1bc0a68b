// Package render turns polygons into grayscale rasters.
//
// # Overview
//
// A [Rasterizer] draws a filled polygon onto a fixed-size canvas and returns
// the result as a [raster.Raster]: white background, dark fill, anti-aliased
// edges. Rendering is a pure function of the polygon, so the same input
// always produces byte-identical output on the same backend.
//
// # Backends
//
// Backends register themselves on import via [Register], following the usual
// driver-registry convention:
//
//   - "vector": golang.org/x/image/vector scanline rasterizer (default)
//   - "gg": github.com/fogleman/gg canvas
//
// Select one with [New], or take the default:
//
//	ras, err := render.New("gg", 12, 12)
//	ras = render.Default(12, 12)
//
// Both backends use the non-zero winding rule, map a vertex (x, y) to the
// top-left corner of pixel (x, y), and clamp vertices into the pixel grid
// [0, w-1] x [0, h-1] before building the path. Clamping at the render
// boundary keeps every polygon drawable no matter how far a search strays
// off-canvas.
package render

import (
	"sort"
	"sync"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// Backend name constants.
const (
	// BackendVector is the golang.org/x/image/vector backend.
	BackendVector = "vector"
	// BackendGG is the fogleman/gg backend.
	BackendGG = "gg"

	// DefaultBackend is used when no backend is named.
	DefaultBackend = BackendVector
)

// Rasterizer renders polygons onto a fixed-size grayscale canvas.
//
// Implementations may reuse internal buffers between calls, so a Rasterizer
// is not safe for concurrent use. Parallel workers create one instance each.
type Rasterizer interface {
	// Rasterize draws the filled polygon and returns the resulting raster.
	// Degenerate polygons (fewer than three distinct vertices, or all
	// vertices collinear) produce an all-background raster rather than
	// an error. An empty polygon is invalid input.
	Rasterize(p poly.Polygon) (*raster.Raster, error)

	// Bounds returns the canvas dimensions.
	Bounds() (w, h int)

	// Name returns the backend identifier (e.g. "vector").
	Name() string
}

// Factory creates a Rasterizer with the given canvas size.
type Factory func(w, h int) Rasterizer

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend files.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a Rasterizer for the named backend with the given canvas size.
// An unknown name or a non-positive size is an error.
func New(name string, w, h int) (Rasterizer, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid canvas size %dx%d", w, h)
	}

	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidBackend, "unknown rasterizer backend: %q", name)
	}
	return factory(w, h), nil
}

// Default returns the default backend with the given canvas size.
// It panics on a non-positive size.
func Default(w, h int) Rasterizer {
	r, err := New(DefaultBackend, w, h)
	if err != nil {
		panic(err)
	}
	return r
}
