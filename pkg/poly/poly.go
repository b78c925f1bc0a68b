// Package poly defines the candidate geometry for polygon fitting: integer
// points and fixed-length closed polygons, plus the unit-step neighborhood
// used by the local search.
//
// Coordinates follow image conventions: x increases to the right, y increases
// down the page, and the nominal domain is [0, W-1] x [0, H-1] for a WxH
// raster. Points outside the domain are representable; rasterization decides
// how off-grid geometry is drawn (see the render package).
//
// A Polygon is an ordered vertex list traversed in order and implicitly
// closed back to the first vertex. Vertex order matters (it defines the
// edges); duplicate vertices are allowed. Polygons are treated as immutable
// values: every transformation returns a fresh Polygon.
package poly

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Sentinel errors for polygon parsing and validation.
var (
	// ErrEmptyPolygon is returned when a polygon has no vertices.
	ErrEmptyPolygon = errors.New("polygon must have at least one vertex")

	// ErrMalformedPoint is returned when a point string is not "x,y".
	ErrMalformedPoint = errors.New("point must be formatted as x,y")
)

// Point is an integer 2D coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// In reports whether the point lies inside the [0,w) x [0,h) pixel domain.
func (p Point) In(w, h int) bool {
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}

// Clamp returns the point projected onto the [0,w-1] x [0,h-1] domain.
func (p Point) Clamp(w, h int) Point {
	q := p
	if q.X < 0 {
		q.X = 0
	}
	if q.X > w-1 {
		q.X = w - 1
	}
	if q.Y < 0 {
		q.Y = 0
	}
	if q.Y > h-1 {
		q.Y = h - 1
	}
	return q
}

// String formats the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Polygon is an ordered list of vertices forming a closed polygon.
type Polygon []Point

// Clone returns an independent copy of the polygon.
func (p Polygon) Clone() Polygon {
	return slices.Clone(p)
}

// Equal reports whether two polygons have identical vertices in identical
// order. Polygons that trace the same shape from different starting vertices
// are not equal.
func (p Polygon) Equal(q Polygon) bool {
	return slices.Equal(p, q)
}

// In reports whether every vertex lies inside the [0,w) x [0,h) domain.
func (p Polygon) In(w, h int) bool {
	for _, pt := range p {
		if !pt.In(w, h) {
			return false
		}
	}
	return true
}

// WithVertex returns a copy of the polygon with vertex i replaced.
// The receiver is not modified.
func (p Polygon) WithVertex(i int, pt Point) Polygon {
	q := slices.Clone(p)
	q[i] = pt
	return q
}

// String formats the polygon as space-separated "x,y" pairs, the same
// notation accepted by Parse.
func (p Polygon) String() string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = fmt.Sprintf("%d,%d", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

// Parse reads a polygon from space-separated "x,y" pairs, e.g.
// "6,1 3,11 11,5 1,5 9,11".
func Parse(s string) (Polygon, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, ErrEmptyPolygon
	}

	p := make(Polygon, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPoint, f)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPoint, f)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPoint, f)
		}
		p = append(p, Point{X: x, Y: y})
	}
	return p, nil
}
