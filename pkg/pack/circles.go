package pack

import (
	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

// CircleOptions configures [Circles].
type CircleOptions struct {
	Bounds      geom.Rect
	Target      int
	MaxAttempts int
	MinR, MaxR  float64
	// Padding is the minimum gap between accepted circles.
	Padding float64
	// Margin is the minimum gap between a circle and the bounds.
	Margin float64
	// Obstacles are pre-placed circles new circles must clear.
	Obstacles []geom.Circle
}

// CircleResult holds accepted circles in acceptance order.
type CircleResult struct {
	Circles []geom.Circle
	Stats
}

// Circles packs non-overlapping circles into opts.Bounds.
func Circles(r *rng.RNG, opts CircleOptions) CircleResult {
	res := CircleResult{Stats: Stats{Target: opts.Target}}
	if opts.Target <= 0 || opts.MaxAttempts <= 0 {
		return res
	}
	res.Circles = make([]geom.Circle, 0, opts.Target)

	for k := 0; k < opts.MaxAttempts && len(res.Circles) < opts.Target; k++ {
		res.Attempts++
		rad := radiusAt(r, k, opts.MaxAttempts, opts.MinR, opts.MaxR)
		x0, x1, okX := insetRange(opts.Bounds.X, opts.Bounds.W, rad, opts.Margin)
		y0, y1, okY := insetRange(opts.Bounds.Y, opts.Bounds.H, rad, opts.Margin)
		// Draw the position even when it cannot fit so the stream advances
		// identically for every attempt.
		x, y := r.Range(x0, x1), r.Range(y0, y1)
		if !okX || !okY {
			continue
		}
		cand := geom.Circle{C: geom.Pt(x, y), R: rad}
		if collides(cand, res.Circles, opts.Padding) || collides(cand, opts.Obstacles, opts.Padding) {
			continue
		}
		res.Circles = append(res.Circles, cand)
	}
	res.Accepted = len(res.Circles)
	return res
}

func collides(c geom.Circle, others []geom.Circle, padding float64) bool {
	for _, o := range others {
		if geom.CirclesOverlap(c, o, padding) {
			return true
		}
	}
	return false
}
