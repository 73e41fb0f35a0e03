package geom

import "math"

// Polygon is a closed ring of vertices. The last vertex connects to the first.
type Polygon []Point

// RegularPolygon returns the n-gon centred at c with circumradius r, its
// first vertex at angle rotation (radians).
func RegularPolygon(c Point, r float64, n int, rotation float64) Polygon {
	if n < 3 {
		n = 3
	}
	p := make(Polygon, n)
	step := 2 * math.Pi / float64(n)
	for i := range n {
		a := rotation + float64(i)*step
		p[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return p
}

// Edges calls fn with each edge of p.
func (p Polygon) Edges(fn func(a, b Point)) {
	n := len(p)
	for i := range n {
		fn(p[i], p[(i+1)%n])
	}
}

// Bounds returns the axis-aligned bounding box of p.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := minX, minY
	for _, v := range p[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Centroid returns the vertex average of p.
func (p Polygon) Centroid() Point {
	var c Point
	if len(p) == 0 {
		return c
	}
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p)))
}

// Area returns the unsigned area of p.
func (p Polygon) Area() float64 {
	s := 0.0
	p.Edges(func(a, b Point) { s += a.X*b.Y - b.X*a.Y })
	return math.Abs(s) / 2
}

// Contains reports whether pt is inside p using the even-odd ray cast.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// SegmentsIntersect reports whether segment ab and segment cd cross or touch.
func SegmentsIntersect(a, b, c, d Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(c, d, a)) ||
		(d2 == 0 && onSegment(c, d, b)) ||
		(d3 == 0 && onSegment(a, b, c)) ||
		(d4 == 0 && onSegment(a, b, d))
}

// SegmentDistance returns the minimum distance between segments ab and cd.
func SegmentDistance(a, b, c, d Point) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(PointSegmentDistance(a, c, d), PointSegmentDistance(b, c, d)),
		math.Min(PointSegmentDistance(c, a, b), PointSegmentDistance(d, a, b)),
	)
}

// PointSegmentDistance returns the distance from p to segment ab.
func PointSegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return Dist(p, a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return Dist(p, a.Add(ab.Mul(t)))
}

// EdgesIntersect reports whether any edge of p crosses any edge of q.
func EdgesIntersect(p, q Polygon) bool {
	n, m := len(p), len(q)
	for i := range n {
		a, b := p[i], p[(i+1)%n]
		for j := range m {
			if SegmentsIntersect(a, b, q[j], q[(j+1)%m]) {
				return true
			}
		}
	}
	return false
}

// PolygonsOverlap reports whether p and q share any area: their edges
// cross, or one lies entirely inside the other.
func PolygonsOverlap(p, q Polygon) bool {
	if len(p) == 0 || len(q) == 0 {
		return false
	}
	if EdgesIntersect(p, q) {
		return true
	}
	return p.Contains(q[0]) || q.Contains(p[0])
}

// PolygonDistance returns the minimum distance between the edges of p and q.
// It is 0 when the polygons overlap.
func PolygonDistance(p, q Polygon) float64 {
	if PolygonsOverlap(p, q) {
		return 0
	}
	best := math.Inf(1)
	n, m := len(p), len(q)
	for i := range n {
		a, b := p[i], p[(i+1)%n]
		for j := range m {
			if d := SegmentDistance(a, b, q[j], q[(j+1)%m]); d < best {
				best = d
			}
		}
	}
	return best
}

// PolygonsClear reports whether p and q neither overlap nor come closer than
// padding.
func PolygonsClear(p, q Polygon, padding float64) bool {
	return PolygonDistance(p, q) >= padding
}

// Inset reports whether every vertex of inner lies inside outer and the
// edges of inner stay at least margin away from the edges of outer.
func Inset(outer, inner Polygon, margin float64) bool {
	for _, v := range inner {
		if !outer.Contains(v) {
			return false
		}
	}
	if EdgesIntersect(outer, inner) {
		return false
	}
	n, m := len(outer), len(inner)
	for i := range n {
		a, b := outer[i], outer[(i+1)%n]
		for j := range m {
			if SegmentDistance(a, b, inner[j], inner[(j+1)%m]) < margin {
				return false
			}
		}
	}
	return true
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
