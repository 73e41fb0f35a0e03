package pack

import (
	"reflect"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

var canvas540 = geom.Rect{W: 540, H: 675}

func TestCirclesNonOverlap(t *testing.T) {
	res := Circles(rng.New(7), CircleOptions{
		Bounds: canvas540, Target: 400, MaxAttempts: 20000,
		MinR: 4, MaxR: 60, Padding: 3, Margin: 2,
	})
	if res.Accepted == 0 {
		t.Fatal("no circles accepted")
	}
	for i, a := range res.Circles {
		if a.C.X-a.R < 2-1e-9 || a.C.X+a.R > 538+1e-9 || a.C.Y-a.R < 2-1e-9 || a.C.Y+a.R > 673+1e-9 {
			t.Fatalf("circle %d escapes bounds: %+v", i, a)
		}
		for j := i + 1; j < len(res.Circles); j++ {
			b := res.Circles[j]
			if d := geom.Dist(a.C, b.C); d < a.R+b.R+3-1e-9 {
				t.Fatalf("circles %d and %d too close: d=%v r1+r2+pad=%v", i, j, d, a.R+b.R+3)
			}
		}
	}
}

func TestCirclesLargestFirst(t *testing.T) {
	res := Circles(rng.New(3), CircleOptions{
		Bounds: canvas540, Target: 200, MaxAttempts: 5000, MinR: 5, MaxR: 80, Padding: 2,
	})
	if len(res.Circles) < 10 {
		t.Fatalf("too few circles: %d", len(res.Circles))
	}
	first, last := res.Circles[0].R, res.Circles[len(res.Circles)-1].R
	if first <= last {
		t.Errorf("first radius %v should exceed last %v", first, last)
	}
}

func TestContainersNonOverlap(t *testing.T) {
	res := Containers(rng.New(32), ShapeOptions{
		Bounds: canvas540, Target: 20, MaxAttempts: 75000,
		MinR: 8, MaxR: 200, Padding: 6,
	})
	if res.Accepted == 0 {
		t.Fatal("no containers accepted")
	}
	for i, a := range res.Shapes {
		for j := i + 1; j < len(res.Shapes); j++ {
			b := res.Shapes[j]
			if geom.EdgesIntersect(a.Poly, b.Poly) {
				t.Fatalf("containers %d and %d intersect", i, j)
			}
			if a.Poly.Contains(b.Poly[0]) || b.Poly.Contains(a.Poly[0]) {
				t.Fatalf("container %d contains %d", i, j)
			}
			if d := geom.PolygonDistance(a.Poly, b.Poly); d < 6-1e-9 {
				t.Fatalf("containers %d and %d closer than padding: %v", i, j, d)
			}
		}
	}
}

func TestBudgetTermination(t *testing.T) {
	// Only a handful of 200-radius shapes fit on a 540x675 canvas.
	res := Containers(rng.New(1), ShapeOptions{
		Bounds: canvas540, Target: 20, MaxAttempts: 2000,
		MinR: 200, MaxR: 200, Padding: 6,
	})
	if res.Accepted >= 20 {
		t.Fatalf("impossible density reached target: %d", res.Accepted)
	}
	if res.Attempts != 2000 {
		t.Errorf("Attempts = %d, want full budget 2000", res.Attempts)
	}
	if !res.Exhausted() {
		t.Error("Exhausted() should be true")
	}

	c := Circles(rng.New(1), CircleOptions{Bounds: geom.Rect{W: 10, H: 10}, Target: 5, MaxAttempts: 100, MinR: 20, MaxR: 20})
	if c.Accepted != 0 || c.Attempts != 100 {
		t.Errorf("oversized circles: accepted=%d attempts=%d", c.Accepted, c.Attempts)
	}
}

func TestPackingDeterministic(t *testing.T) {
	opts := ShapeOptions{Bounds: canvas540, Target: 20, MaxAttempts: 20000, MinR: 8, MaxR: 200, Padding: 6}
	a := Containers(rng.New(32), opts)
	b := Containers(rng.New(32), opts)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different containers")
	}
}

func TestFillStaysInside(t *testing.T) {
	container := geom.RegularPolygon(geom.Pt(200, 200), 150, 6, 0.2)
	res := Fill(rng.New(5), container, FillerOptions{
		Target: 30, MaxAttempts: 3000, MinR: 4, MaxR: 25, Padding: 2, Margin: 3,
	})
	if res.Accepted == 0 {
		t.Fatal("no fillers accepted")
	}
	for i, s := range res.Shapes {
		if !geom.Inset(container, s.Poly, 3) {
			t.Fatalf("filler %d not inset in container", i)
		}
		for j := i + 1; j < len(res.Shapes); j++ {
			if !geom.PolygonsClear(s.Poly, res.Shapes[j].Poly, 2) {
				t.Fatalf("fillers %d and %d overlap", i, j)
			}
		}
	}
}

func TestZeroTarget(t *testing.T) {
	if res := Circles(rng.New(1), CircleOptions{Bounds: canvas540, MaxAttempts: 10}); res.Attempts != 0 {
		t.Errorf("zero target should not sample, attempts=%d", res.Attempts)
	}
}
