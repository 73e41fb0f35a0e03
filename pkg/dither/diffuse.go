package dither

import (
	"slices"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// Tap is one kernel weight at an offset from the current cell.
type Tap struct {
	DX, DY int
	W      float64
}

// Kernel is an error-diffusion kernel. Weights are divided by Divisor, so
// they sum to one.
type Kernel struct {
	Name    string
	Divisor float64
	Taps    []Tap
}

var (
	FloydSteinberg = Kernel{Name: "floyd-steinberg", Divisor: 16, Taps: []Tap{
		{1, 0, 7},
		{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
	}}
	JarvisJudiceNinke = Kernel{Name: "jarvis-judice-ninke", Divisor: 48, Taps: []Tap{
		{1, 0, 7}, {2, 0, 5},
		{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
		{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
	}}
	Stucki = Kernel{Name: "stucki", Divisor: 42, Taps: []Tap{
		{1, 0, 8}, {2, 0, 4},
		{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
	}}
	Burkes = Kernel{Name: "burkes", Divisor: 32, Taps: []Tap{
		{1, 0, 8}, {2, 0, 4},
		{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
	}}
	Sierra = Kernel{Name: "sierra", Divisor: 32, Taps: []Tap{
		{1, 0, 5}, {2, 0, 3},
		{-2, 1, 2}, {-1, 1, 4}, {0, 1, 5}, {1, 1, 4}, {2, 1, 2},
		{-1, 2, 2}, {0, 2, 3}, {1, 2, 2},
	}}
)

// Kernels lists the built-in kernels.
func Kernels() []Kernel {
	return []Kernel{FloydSteinberg, JarvisJudiceNinke, Stucki, Burkes, Sierra}
}

// KernelByName resolves a built-in kernel.
func KernelByName(name string) (Kernel, error) {
	for _, k := range Kernels() {
		if k.Name == name {
			return k, nil
		}
	}
	return Kernel{}, errors.New(errors.ErrCodeInvalidConfig, "unknown diffusion kernel %q", name)
}

// Causal reports whether every tap points later in raster order.
func (k Kernel) Causal() bool {
	for _, t := range k.Taps {
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return false
		}
	}
	return true
}

// DiffuseResult is the output of [Diffuse].
type DiffuseResult struct {
	// Bits holds 1 for lit (white) cells, 0 otherwise.
	Bits []uint8
	// QuantError is the sum over all cells of value minus quantized value.
	QuantError float64
	// Distributed is the error delivered to cells inside the field.
	Distributed float64
	// Dropped is the error aimed at offsets outside the field.
	Dropped float64
}

// Diffuse quantizes f with error diffusion. A cell is lit when its
// accumulated value exceeds threshold. f is not modified.
func Diffuse(f *Field, threshold float64, k Kernel) DiffuseResult {
	v := slices.Clone(f.V)
	res := DiffuseResult{Bits: make([]uint8, len(v))}
	for y := range f.H {
		for x := range f.W {
			i := y*f.W + x
			q := 0.0
			if v[i] > threshold {
				q = 255
				res.Bits[i] = 1
			}
			e := v[i] - q
			res.QuantError += e
			for _, t := range k.Taps {
				share := e * t.W / k.Divisor
				nx, ny := x+t.DX, y+t.DY
				if nx < 0 || ny < 0 || nx >= f.W || ny >= f.H {
					res.Dropped += share
					continue
				}
				v[ny*f.W+nx] += share
				res.Distributed += share
			}
		}
	}
	return res
}
