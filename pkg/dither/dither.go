// Package dither converts continuous luminance fields into binary patterns.
//
// A [Field] holds luminance in [0, 255]. It is built from an image with
// [FromImage] or procedurally with [Placeholder], then quantized by one of:
//
//   - [Ordered]: threshold against a recursive Bayer matrix
//   - [Diffuse]: error diffusion with a [Kernel] (Floyd–Steinberg family)
//   - [RandomThreshold]: threshold against seeded noise
//   - [Halftone]: dot radius proportional to darkness
//
// Error diffusion visits cells in raster order and only pushes error to cells
// later in that order. The returned [DiffuseResult] accounts for every unit
// of error: QuantError equals Distributed plus Dropped, where Dropped is the
// share a kernel tap aimed outside the field.
package dither

import (
	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

// Weights are the RGB coefficients of a luminance formula.
type Weights struct {
	R, G, B float64
}

var (
	// Rec601 are the ITU-R BT.601 luma weights.
	Rec601 = Weights{R: 0.299, G: 0.587, B: 0.114}
	// Rec709 are the ITU-R BT.709 luma weights.
	Rec709 = Weights{R: 0.2126, G: 0.7152, B: 0.0722}
)

// ParseWeights resolves "rec601" or "rec709".
func ParseWeights(name string) (Weights, error) {
	switch name {
	case "", "rec601":
		return Rec601, nil
	case "rec709":
		return Rec709, nil
	}
	return Weights{}, errors.New(errors.ErrCodeInvalidConfig, "unknown luminance weights %q", name)
}

// Luminance returns the weighted sum of 8-bit channel values.
func Luminance(r, g, b float64, w Weights) float64 {
	return w.R*r + w.G*g + w.B*b
}

// Field is a row-major luminance grid.
type Field struct {
	W, H int
	V    []float64
}

// NewField returns a w×h field filled with v.
func NewField(w, h int, v float64) *Field {
	f := &Field{W: w, H: h, V: make([]float64, w*h)}
	for i := range f.V {
		f.V[i] = v
	}
	return f
}

// At returns the luminance at (x, y).
func (f *Field) At(x, y int) float64 { return f.V[y*f.W+x] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float64) { f.V[y*f.W+x] = v }

// Bayer returns the 2^n × 2^n Bayer threshold matrix with entries
// 0..4^n-1, built by the quadrant recurrence
//
//	M(2k) = [[4M, 4M+2], [4M+3, 4M+1]]
//
// starting from M(1) = [[0]].
func Bayer(n int) [][]int {
	m := [][]int{{0}}
	for range n {
		size := len(m)
		next := make([][]int, size*2)
		for i := range next {
			next[i] = make([]int, size*2)
		}
		for y := range size {
			for x := range size {
				v := 4 * m[y][x]
				next[y][x] = v
				next[y][x+size] = v + 2
				next[y+size][x] = v + 3
				next[y+size][x+size] = v + 1
			}
		}
		m = next
	}
	return m
}

// Ordered dithers f against a Bayer matrix of the given level. threshold
// shifts the matrix: 127.5 centres it, lower values produce more lit cells.
func Ordered(f *Field, level int, threshold float64) []uint8 {
	m := Bayer(level)
	n := len(m)
	cells := float64(n * n)
	bias := threshold - 127.5
	bits := make([]uint8, len(f.V))
	for y := range f.H {
		for x := range f.W {
			t := (float64(m[y%n][x%n])+0.5)/cells*255 + bias
			if f.At(x, y) > t {
				bits[y*f.W+x] = 1
			}
		}
	}
	return bits
}

// RandomThreshold compares each cell against a uniform draw in [0, 255).
func RandomThreshold(f *Field, r *rng.RNG) []uint8 {
	bits := make([]uint8, len(f.V))
	for i, v := range f.V {
		if v > r.Range(0, 255) {
			bits[i] = 1
		}
	}
	return bits
}

// Halftone returns one dot radius per cell, proportional to darkness:
// black cells get maxRadius, white cells get 0.
func Halftone(f *Field, maxRadius float64) []float64 {
	out := make([]float64, len(f.V))
	for i, v := range f.V {
		d := 1 - clamp(v, 0, 255)/255
		out[i] = d * maxRadius
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
