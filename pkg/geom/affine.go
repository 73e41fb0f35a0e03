package geom

import "math"

// Affine is a 2D affine transform in the SVG matrix order:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine { return Affine{A: 1, D: 1} }

// Translate returns a translation by (x, y).
func Translate(x, y float64) Affine { return Affine{A: 1, D: 1, E: x, F: y} }

// Rotate returns a rotation by rad radians about the origin.
func Rotate(rad float64) Affine {
	s, c := math.Sincos(rad)
	return Affine{A: c, B: s, C: -s, D: c}
}

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Affine { return Affine{A: sx, D: sy} }

// MirrorX returns a reflection across the vertical axis (x → -x).
func MirrorX() Affine { return Affine{A: -1, D: 1} }

// Then returns the transform that applies m first and n second.
func (m Affine) Then(n Affine) Affine {
	return Affine{
		A: n.A*m.A + n.C*m.B,
		B: n.B*m.A + n.D*m.B,
		C: n.A*m.C + n.C*m.D,
		D: n.B*m.C + n.D*m.D,
		E: n.A*m.E + n.C*m.F + n.E,
		F: n.B*m.E + n.D*m.F + n.F,
	}
}

// Apply transforms p.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyPolygon transforms every vertex of p into a new polygon.
func (m Affine) ApplyPolygon(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = m.Apply(v)
	}
	return out
}

// Det returns the determinant of the linear part. A negative determinant
// means the transform flips orientation.
func (m Affine) Det() float64 { return m.A*m.D - m.B*m.C }

// Approx reports whether m and n agree within eps on every coefficient.
func (m Affine) Approx(n Affine, eps float64) bool {
	return math.Abs(m.A-n.A) < eps && math.Abs(m.B-n.B) < eps &&
		math.Abs(m.C-n.C) < eps && math.Abs(m.D-n.D) < eps &&
		math.Abs(m.E-n.E) < eps && math.Abs(m.F-n.F) < eps
}
