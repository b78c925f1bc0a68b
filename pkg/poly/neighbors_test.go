package poly

import "testing"

// diffVertices returns the indices at which two equal-length polygons differ.
func diffVertices(a, b Polygon) []int {
	var idx []int
	for i := range a {
		if a[i] != b[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestNeighborsSizeAndShape(t *testing.T) {
	p := Polygon{{6, 1}, {3, 11}, {11, 5}, {1, 5}, {9, 11}}
	ns := Neighbors(p)

	if want := 8 * len(p); len(ns) != want {
		t.Fatalf("got %d neighbors, want %d", len(ns), want)
	}

	seen := make(map[string]bool, len(ns))
	for _, n := range ns {
		if len(n) != len(p) {
			t.Fatalf("neighbor has %d vertices, want %d", len(n), len(p))
		}

		key := n.String()
		if seen[key] {
			t.Errorf("duplicate neighbor %s", key)
		}
		seen[key] = true

		diff := diffVertices(p, n)
		if len(diff) != 1 {
			t.Fatalf("neighbor %s differs at %d vertices, want 1", key, len(diff))
		}

		i := diff[0]
		dx, dy := n[i].X-p[i].X, n[i].Y-p[i].Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Errorf("neighbor %s moved vertex %d by (%d,%d), want a unit step", key, i, dx, dy)
		}
	}
}

func TestNeighborsDeterministicOrder(t *testing.T) {
	p := Polygon{{2, 3}, {7, 8}}

	first := Neighbors(p)
	second := Neighbors(p)

	if len(first) != len(second) {
		t.Fatalf("neighborhood size changed between calls: %d != %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("neighbor %d differs between calls: %s != %s", i, first[i], second[i])
		}
	}

	// The very first neighbor moves vertex 0 by Deltas[0].
	want := p.WithVertex(0, p[0].Add(Deltas[0].X, Deltas[0].Y))
	if !first[0].Equal(want) {
		t.Errorf("first neighbor = %s, want %s", first[0], want)
	}
}

func TestNeighborsNoClamping(t *testing.T) {
	p := Polygon{{0, 0}}
	ns := Neighbors(p)

	var offGrid int
	for _, n := range ns {
		if !n.In(12, 12) {
			offGrid++
		}
	}
	// Moves with dx or dy = -1 leave the grid at the origin: 5 of 8.
	if offGrid != 5 {
		t.Errorf("got %d off-grid neighbors at the origin, want 5", offGrid)
	}
}

func TestVisitNeighborsEarlyStop(t *testing.T) {
	p := Polygon{{5, 5}, {6, 6}}

	var calls int
	VisitNeighbors(p, func(Polygon) bool {
		calls++
		return calls < 3
	})

	if calls != 3 {
		t.Errorf("VisitNeighbors made %d calls after early stop, want 3", calls)
	}
}
