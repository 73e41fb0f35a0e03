// Package dithering is the image dithering sketch (Genuary day 13).
//
// A source image (or a procedural placeholder when none loads) is reduced
// to a luminance field of one value per cell and quantized to two tones
// with one of four algorithms. Pixel algorithms store their bits in the
// composition grid; halftone stores one dot entity per cell.
package dithering

import (
	"image"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/dither"
	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

const Name = "dither"

const (
	KeyImage     = "image"
	KeyCell      = "cell"
	KeyAlgorithm = "algorithm"
	KeyKernel    = "kernel"
	KeyBayer     = "bayer"
	KeyThreshold = "threshold"
	KeyWeights   = "weights"
	KeyContrast  = "contrast"
)

// Algorithms.
const (
	Ordered   = "ordered"
	Diffusion = "diffusion"
	Random    = "random"
	Halftone  = "halftone"
)

const KindDot = "dot"

// placeholderSize is the resolution of the stand-in image.
const placeholderSize = 256

// Option configures a Sketch.
type Option func(*Sketch)

// WithLogger sets where asset fallbacks are reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Sketch) { s.logger = l }
}

type Sketch struct {
	logger *log.Logger
}

func New(opts ...Option) *Sketch {
	s := &Sketch{logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Dithering",
		Description: "Two-tone reduction of an image by ordered, diffusion, random or halftone dithering.",
		Days:        []int{13},
	}
}

func (*Sketch) Params() []sketch.Param {
	kernels := make([]string, 0, 5)
	for _, k := range dither.Kernels() {
		kernels = append(kernels, k.Name)
	}
	return append(sketch.CanvasParams(540, 675),
		sketch.Param{Key: KeyImage, Type: sketch.ParamString, Default: "", Description: "source image path; empty uses a radial placeholder", Asset: true},
		sketch.Param{Key: KeyCell, Type: sketch.ParamFloat, Default: "6", Description: "cell size in composition units", Min: 1, HasMin: true, Max: 64, HasMax: true},
		sketch.Param{Key: KeyAlgorithm, Type: sketch.ParamString, Default: Diffusion, Choices: []string{Ordered, Diffusion, Random, Halftone}},
		sketch.Param{Key: KeyKernel, Type: sketch.ParamString, Default: dither.FloydSteinberg.Name, Choices: kernels},
		sketch.Param{Key: KeyBayer, Type: sketch.ParamInt, Default: "3", Description: "Bayer matrix level (2^n side)", Min: 0, HasMin: true, Max: 5, HasMax: true},
		sketch.Param{Key: KeyThreshold, Type: sketch.ParamFloat, Default: "127", Min: 0, HasMin: true, Max: 255, HasMax: true},
		sketch.Param{Key: KeyWeights, Type: sketch.ParamString, Default: "rec601", Choices: []string{"rec601", "rec709"}},
		sketch.Param{Key: KeyContrast, Type: sketch.ParamFloat, Default: "0", Min: -100, HasMin: true, Max: 100, HasMax: true},
	)
}

func (s *Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	c := sketch.NewComposition(cfg)
	cell := cfg.Float(KeyCell, 6)
	cols := max(1, int(c.Width/cell))
	rows := max(1, int(c.Height/cell))

	w, err := dither.ParseWeights(cfg.String(KeyWeights, "rec601"))
	if err != nil {
		return nil, err
	}
	field := dither.FromImage(s.source(cfg.String(KeyImage, "")), cols, rows, w, cfg.Float(KeyContrast, 0))
	threshold := cfg.Float(KeyThreshold, 127)

	var bits []uint8
	switch algo := cfg.String(KeyAlgorithm, Diffusion); algo {
	case Ordered:
		bits = dither.Ordered(field, cfg.Int(KeyBayer, 3), threshold)
	case Diffusion:
		k, err := dither.KernelByName(cfg.String(KeyKernel, dither.FloydSteinberg.Name))
		if err != nil {
			return nil, err
		}
		bits = dither.Diffuse(field, threshold, k).Bits
	case Random:
		bits = dither.RandomThreshold(field, r.Fork("threshold"))
	case Halftone:
		radii := dither.Halftone(field, cell/2*math.Sqrt2)
		for i, rad := range radii {
			if rad <= 0 {
				continue
			}
			row, col := i/cols, i%cols
			c.Entities = append(c.Entities, sketch.Entity{
				Kind: KindDot,
				X:    (float64(col) + 0.5) * cell,
				Y:    (float64(row) + 0.5) * cell,
				R:    min(rad, cell/2),
				Row:  row, Col: col,
				Color: 1,
			})
		}
		c.Stats = sketch.Stats{Target: cols * rows, Accepted: len(c.Entities), Attempts: cols * rows}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown dither algorithm %q", algo)
	}

	c.Grid = sketch.NewGrid(cols, rows, cell)
	copy(c.Grid.Cells, bits)
	lit := 0
	for _, b := range bits {
		lit += int(b)
	}
	c.Stats = sketch.Stats{Target: cols * rows, Accepted: lit, Attempts: cols * rows}
	return c, nil
}

// source loads the configured image, falling back to the placeholder.
func (s *Sketch) source(path string) image.Image {
	if path == "" {
		return dither.Placeholder(placeholderSize, placeholderSize)
	}
	loaded, err := dither.LoadImage(path)
	if err != nil {
		s.logger.Warn("using placeholder image", "path", path, "err", err)
		return dither.Placeholder(placeholderSize, placeholderSize)
	}
	return loaded
}

func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	cv.Clear(p.RGBA(0))
	cv.NoStroke()
	cv.SetFill(p.RGBA(1))

	if g := c.Grid; g != nil {
		// Dark cells are drawn as horizontal runs.
		for y := range g.H {
			start := -1
			for x := 0; x <= g.W; x++ {
				dark := x < g.W && g.At(x, y) == 0
				switch {
				case dark && start < 0:
					start = x
				case !dark && start >= 0:
					cv.Rect(float64(start)*g.CellSize, float64(y)*g.CellSize, float64(x-start)*g.CellSize, g.CellSize)
					start = -1
				}
			}
		}
		return
	}
	for _, e := range c.Entities {
		cv.Circle(e.X, e.Y, e.R)
	}
}
