package geom

import (
	"math"
	"testing"
)

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		want       bool
	}{
		{"crossing", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true},
		{"parallel", Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1), false},
		{"touching endpoint", Pt(0, 0), Pt(5, 5), Pt(5, 5), Pt(10, 0), true},
		{"collinear disjoint", Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), false},
		{"collinear overlap", Pt(0, 0), Pt(2, 0), Pt(1, 0), Pt(3, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsIntersect(tt.a, tt.b, tt.c, tt.d); got != tt.want {
				t.Errorf("SegmentsIntersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonContains(t *testing.T) {
	sq := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if !sq.Contains(Pt(5, 5)) {
		t.Error("center should be inside")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("outside point reported inside")
	}
}

func TestPolygonsOverlap(t *testing.T) {
	big := RegularPolygon(Pt(0, 0), 50, 6, 0)
	small := RegularPolygon(Pt(0, 0), 10, 4, 0.3)
	far := RegularPolygon(Pt(200, 0), 10, 5, 0)
	crossing := RegularPolygon(Pt(55, 0), 20, 3, 0)

	if !PolygonsOverlap(big, small) {
		t.Error("containment should count as overlap")
	}
	if PolygonsOverlap(big, far) {
		t.Error("distant polygons should not overlap")
	}
	if !PolygonsOverlap(big, crossing) {
		t.Error("crossing edges should overlap")
	}
	if d := PolygonDistance(big, far); d < 130 {
		t.Errorf("PolygonDistance = %v, want >= 130", d)
	}
	if !PolygonsClear(big, far, 6) {
		t.Error("far polygons should be clear at padding 6")
	}
}

func TestInset(t *testing.T) {
	outer := RegularPolygon(Pt(0, 0), 100, 6, 0)
	if !Inset(outer, RegularPolygon(Pt(0, 0), 20, 5, 0), 2) {
		t.Error("small centred polygon should be inset")
	}
	if Inset(outer, RegularPolygon(Pt(95, 0), 20, 5, 0), 2) {
		t.Error("polygon crossing the border should not be inset")
	}
}

func TestRegularPolygonArea(t *testing.T) {
	sq := RegularPolygon(Pt(0, 0), math.Sqrt2, 4, math.Pi/4)
	if a := sq.Area(); math.Abs(a-4) > 1e-9 {
		t.Errorf("area = %v, want 4", a)
	}
}

func TestAffine(t *testing.T) {
	p := Pt(1, 0)
	got := Rotate(math.Pi / 2).Then(Translate(10, 0)).Apply(p)
	if math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y-1) > 1e-9 {
		t.Errorf("rotate then translate = %v, want (10,1)", got)
	}
	if MirrorX().Det() >= 0 {
		t.Error("mirror should flip orientation")
	}
	twice := Rotate(math.Pi).Then(Rotate(math.Pi))
	if !twice.Approx(Identity(), 1e-9) {
		t.Errorf("two half turns should be identity, got %+v", twice)
	}
}

func TestIsoProjection(t *testing.T) {
	iso := Iso{Origin: Pt(100, 0), TileW: 20, TileH: 10}
	if got := iso.Project(1, 0, 0); got != Pt(110, 5) {
		t.Errorf("Project(1,0,0) = %v", got)
	}
	if got := iso.Project(0, 0, 7); got != Pt(100, -7) {
		t.Errorf("Project(0,0,7) = %v", got)
	}
	if iso.Depth(1, 2) <= iso.Depth(0, 1) {
		t.Error("depth should grow toward the viewer")
	}
}
