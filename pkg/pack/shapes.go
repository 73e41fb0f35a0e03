package pack

import (
	"math"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

// Shape is an accepted regular polygon.
type Shape struct {
	Center   geom.Point
	R        float64
	Sides    int
	Rotation float64
	Poly     geom.Polygon
}

func newShape(c geom.Point, r float64, sides int, rot float64) Shape {
	return Shape{Center: c, R: r, Sides: sides, Rotation: rot, Poly: geom.RegularPolygon(c, r, sides, rot)}
}

// inradius returns the apothem of the shape.
func (s Shape) inradius() float64 {
	return s.R * math.Cos(math.Pi/float64(s.Sides))
}

// ShapeOptions configures [Containers].
type ShapeOptions struct {
	Bounds      geom.Rect
	Target      int
	MaxAttempts int
	MinR, MaxR  float64
	// Padding is the minimum edge-to-edge distance between shapes.
	Padding float64
	// Margin is the minimum distance from any vertex to the bounds.
	Margin float64
	// SidesMin and SidesMax bound the polygon side count (default 3..8).
	SidesMin, SidesMax int
	// Obstacles are pre-placed polygons new shapes must clear.
	Obstacles []geom.Polygon
}

// ShapeResult holds accepted shapes in acceptance order.
type ShapeResult struct {
	Shapes []Shape
	Stats
}

// Containers packs rotated regular polygons into opts.Bounds. Two shapes are
// clear when their edges do not intersect, neither contains the other, and
// their minimum edge distance is at least opts.Padding.
func Containers(r *rng.RNG, opts ShapeOptions) ShapeResult {
	lo, hi := sidesRange(opts.SidesMin, opts.SidesMax)
	res := ShapeResult{Stats: Stats{Target: opts.Target}}
	if opts.Target <= 0 || opts.MaxAttempts <= 0 {
		return res
	}

	for k := 0; k < opts.MaxAttempts && len(res.Shapes) < opts.Target; k++ {
		res.Attempts++
		rad := radiusAt(r, k, opts.MaxAttempts, opts.MinR, opts.MaxR)
		sides := r.IntRange(lo, hi)
		rot := r.Angle()
		x0, x1, okX := insetRange(opts.Bounds.X, opts.Bounds.W, rad, opts.Margin)
		y0, y1, okY := insetRange(opts.Bounds.Y, opts.Bounds.H, rad, opts.Margin)
		x, y := r.Range(x0, x1), r.Range(y0, y1)
		if !okX || !okY {
			continue
		}
		cand := newShape(geom.Pt(x, y), rad, sides, rot)
		if !shapeClear(cand, res.Shapes, opts.Padding) || !obstaclesClear(cand, opts.Obstacles, opts.Padding) {
			continue
		}
		res.Shapes = append(res.Shapes, cand)
	}
	res.Accepted = len(res.Shapes)
	return res
}

// FillerOptions configures [Fill].
type FillerOptions struct {
	Target      int
	MaxAttempts int
	MinR, MaxR  float64
	Padding     float64
	// Margin is the minimum distance between a filler and the container edge.
	Margin             float64
	SidesMin, SidesMax int
}

// Fill packs small regular polygons inside container with the same bounded
// retry as [Containers]. Candidates are sampled in the container's bounding
// box and must lie fully inside it with opts.Margin clearance.
func Fill(r *rng.RNG, container geom.Polygon, opts FillerOptions) ShapeResult {
	lo, hi := sidesRange(opts.SidesMin, opts.SidesMax)
	res := ShapeResult{Stats: Stats{Target: opts.Target}}
	if opts.Target <= 0 || opts.MaxAttempts <= 0 || len(container) < 3 {
		return res
	}
	b := container.Bounds()

	for k := 0; k < opts.MaxAttempts && len(res.Shapes) < opts.Target; k++ {
		res.Attempts++
		rad := radiusAt(r, k, opts.MaxAttempts, opts.MinR, opts.MaxR)
		sides := r.IntRange(lo, hi)
		rot := r.Angle()
		c := geom.Pt(r.Range(b.X, b.X+b.W), r.Range(b.Y, b.Y+b.H))
		if !container.Contains(c) {
			continue
		}
		cand := newShape(c, rad, sides, rot)
		if !geom.Inset(container, cand.Poly, opts.Margin) {
			continue
		}
		if !shapeClear(cand, res.Shapes, opts.Padding) {
			continue
		}
		res.Shapes = append(res.Shapes, cand)
	}
	res.Accepted = len(res.Shapes)
	return res
}

func sidesRange(lo, hi int) (int, int) {
	if lo < 3 {
		lo = 3
	}
	if hi < lo {
		hi = max(lo, 8)
	}
	return lo, hi
}

func shapeClear(cand Shape, accepted []Shape, padding float64) bool {
	for _, s := range accepted {
		d := geom.Dist(cand.Center, s.Center)
		// Circumcircles apart by padding: trivially clear.
		if d >= cand.R+s.R+padding {
			continue
		}
		// Incircles overlap: certainly not clear.
		if d < cand.inradius()+s.inradius() {
			return false
		}
		if !geom.PolygonsClear(cand.Poly, s.Poly, padding) {
			return false
		}
	}
	return true
}

func obstaclesClear(cand Shape, obstacles []geom.Polygon, padding float64) bool {
	for _, o := range obstacles {
		if !geom.PolygonsClear(cand.Poly, o, padding) {
			return false
		}
	}
	return true
}
