// Package pack implements bounded-retry stochastic packing.
//
// Every packer follows the same loop: sample a candidate (position, size,
// rotation) within bounds, reject it if it comes closer than the configured
// clearance to anything already accepted, accept it otherwise, and stop when
// either the target count is reached or the attempt budget is spent. There is
// no backtracking. When the budget runs out first the partial result is
// returned as-is; callers record the shortfall in the composition stats and
// move on.
//
// Sizes follow a largest-first schedule: the candidate radius at attempt k of
// N decays geometrically from MaxR to MinR, so big shapes claim space early
// and small ones fill the gaps later.
package pack

import (
	"math"

	"github.com/matzehuels/sketchbook/pkg/rng"
)

// Stats reports how a packing pass went.
type Stats struct {
	Target   int
	Accepted int
	Attempts int
}

// Exhausted reports whether the pass stopped on budget rather than target.
func (s Stats) Exhausted() bool { return s.Accepted < s.Target }

// radiusAt returns the scheduled radius for attempt k of n, jittered by up to
// 15% downward so equal-sized runs do not tile too regularly.
func radiusAt(r *rng.RNG, k, n int, minR, maxR float64) float64 {
	if maxR <= minR || n <= 1 {
		return math.Max(minR, maxR)
	}
	t := float64(k) / float64(n-1)
	base := maxR * math.Pow(minR/maxR, t)
	return math.Max(minR, base*r.Range(0.85, 1))
}

// insetRange returns the valid center interval for a shape of radius rad
// inside [lo, lo+size] with margin.
func insetRange(lo, size, rad, margin float64) (float64, float64, bool) {
	a := lo + rad + margin
	b := lo + size - rad - margin
	return a, b, b >= a
}
