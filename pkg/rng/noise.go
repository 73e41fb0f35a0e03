package rng

import "math"

const noiseSize = 256

// Noise is a seeded 2D value-noise field with smooth interpolation.
//
// Fields built from the same seed return the same values. Sketches sample
// noise during generation (building heights, jitter amplitudes) where it is
// part of the reproducible composition, and a few sample it at render time
// with a time offset for live effects, which is deliberately not reproducible.
type Noise struct {
	perm   [noiseSize * 2]int
	values [noiseSize]float64
}

// NewNoise builds a noise field from r. It consumes noiseSize draws.
func NewNoise(r *RNG) *Noise {
	n := &Noise{}
	p := make([]int, noiseSize)
	for i := range p {
		p[i] = i
		n.values[i] = r.Float64()
	}
	r.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
	for i := range n.perm {
		n.perm[i] = p[i%noiseSize]
	}
	return n
}

// At returns the noise value at (x, y) in [0, 1].
func (n *Noise) At(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix := int(x0) & (noiseSize - 1)
	iy := int(y0) & (noiseSize - 1)
	ix1 := (ix + 1) & (noiseSize - 1)
	iy1 := (iy + 1) & (noiseSize - 1)

	v00 := n.lattice(ix, iy)
	v10 := n.lattice(ix1, iy)
	v01 := n.lattice(ix, iy1)
	v11 := n.lattice(ix1, iy1)

	sx := smoothstep(fx)
	sy := smoothstep(fy)
	top := lerp(v00, v10, sx)
	bottom := lerp(v01, v11, sx)
	return lerp(top, bottom, sy)
}

// Octaves sums count layers of noise, each at double the frequency and
// falloff times the amplitude of the previous one. The result is normalised
// back into [0, 1].
func (n *Noise) Octaves(x, y float64, count int, falloff float64) float64 {
	if count < 1 {
		count = 1
	}
	sum, amp, norm, freq := 0.0, 1.0, 0.0, 1.0
	for range count {
		sum += n.At(x*freq, y*freq) * amp
		norm += amp
		amp *= falloff
		freq *= 2
	}
	return sum / norm
}

func (n *Noise) lattice(x, y int) float64 {
	return n.values[n.perm[n.perm[x]+y]]
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
