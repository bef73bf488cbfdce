package geometry

import "testing"

func TestPolygonArea(t *testing.T) {
	unit := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if got := PolygonArea(unit); got != 1.0 {
		t.Fatalf("unit square area = %v, want 1", got)
	}

	triangle := []Point{{0, 0}, {4, 0}, {0, 3}}
	if got := PolygonArea(triangle); got != 6.0 {
		t.Fatalf("triangle area = %v, want 6", got)
	}

	// Winding direction must not flip the sign.
	reversed := []Point{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	if got := PolygonArea(reversed); got != 1.0 {
		t.Fatalf("reversed square area = %v, want 1", got)
	}

	if got := PolygonArea([]Point{{0, 0}, {1, 1}}); got != 0 {
		t.Fatalf("degenerate polygon area = %v, want 0", got)
	}
}

func TestPolygonToBBox(t *testing.T) {
	x, y, w, h := PolygonToBBox([]Point{{0, 0}, {100, 0}, {50, 80}})
	if x != 0 || y != 0 || w != 100 || h != 80 {
		t.Fatalf("bbox = (%v,%v,%v,%v), want (0,0,100,80)", x, y, w, h)
	}

	x, y, w, h = PolygonToBBox(nil)
	if x != 0 || y != 0 || w != 0 || h != 0 {
		t.Fatalf("empty bbox = (%v,%v,%v,%v), want zeros", x, y, w, h)
	}
}

func TestNormalizeBBox(t *testing.T) {
	cx, cy, nw, nh := NormalizeBBox(10, 20, 30, 40, 100, 200)
	if cx != 0.25 || cy != 0.2 || nw != 0.3 || nh != 0.2 {
		t.Fatalf("normalized = (%v,%v,%v,%v)", cx, cy, nw, nh)
	}

	cx, cy, nw, nh = NormalizeBBox(10, 20, 30, 40, 0, 200)
	if cx != 0 || cy != 0 || nw != 0 || nh != 0 {
		t.Fatalf("zero-width image should normalize to zeros, got (%v,%v,%v,%v)", cx, cy, nw, nh)
	}
}

func TestFlattenPolygon(t *testing.T) {
	flat := FlattenPolygon([]Point{{1, 2}, {3, 4}})
	want := []float64{1, 2, 3, 4}
	if len(flat) != len(want) {
		t.Fatalf("flat length = %d, want %d", len(flat), len(want))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("flat[%d] = %v, want %v", i, flat[i], want[i])
		}
	}
}
