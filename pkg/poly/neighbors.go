package poly

// Deltas is the unit-step move table, enumerated in row-major order over
// (dx, dy) with the zero move removed. The order is part of the search
// contract: first-improvement hillclimbing accepts the first improving
// neighbor, so reordering this table changes search trajectories.
var Deltas = [8]Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// VisitNeighbors calls fn for each neighbor of p in deterministic order:
// vertex index ascending, then Deltas order. A neighbor differs from p at
// exactly one vertex, moved by one unit step. Coordinates are not clamped;
// neighbors may leave the raster domain. Visiting stops early when fn
// returns false.
//
// The polygon passed to fn is freshly allocated and owned by the callee.
func VisitNeighbors(p Polygon, fn func(Polygon) bool) {
	for i := range p {
		for _, d := range Deltas {
			n := p.WithVertex(i, p[i].Add(d.X, d.Y))
			if !fn(n) {
				return
			}
		}
	}
}

// Neighbors materializes the full neighborhood of p: exactly 8*len(p)
// polygons in VisitNeighbors order.
func Neighbors(p Polygon) []Polygon {
	out := make([]Polygon, 0, 8*len(p))
	VisitNeighbors(p, func(n Polygon) bool {
		out = append(out, n)
		return true
	})
	return out
}
