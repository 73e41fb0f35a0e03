// Package cells is the cellular automaton sketch (Genuary day 9).
package cells

import (
	"github.com/matzehuels/sketchbook/pkg/automaton"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

const Name = "automaton"

const (
	KeyCell           = "cell"
	KeyRule           = "rule"
	KeySteps          = "steps"
	KeyMutationPeriod = "mutationPeriod"
	KeyBorderNoise    = "borderNoise"
)

type Sketch struct{}

func New() *Sketch { return &Sketch{} }

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Nine States",
		Description: "A 9-state cellular automaton advanced a fixed number of generations.",
		Days:        []int{9},
	}
}

func (*Sketch) Params() []sketch.Param {
	return append(sketch.CanvasParams(540, 675),
		sketch.Param{Key: KeyCell, Type: sketch.ParamFloat, Default: "9", Description: "cell size in composition units", Min: 1, HasMin: true},
		sketch.Param{Key: KeyRule, Type: sketch.ParamString, Default: "b", Choices: []string{"a", "b", "c"}},
		sketch.Param{Key: KeySteps, Type: sketch.ParamInt, Default: "40", Min: 0, HasMin: true, Max: 10000, HasMax: true},
		sketch.Param{Key: KeyMutationPeriod, Type: sketch.ParamInt, Default: "16", Description: "rule b: steps between random mutations (0 disables)", Min: 0, HasMin: true},
		sketch.Param{Key: KeyBorderNoise, Type: sketch.ParamFloat, Default: "0.05", Description: "rule c: border reseed probability", Min: 0, HasMin: true, Max: 1, HasMax: true},
	)
}

func (*Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	rule, err := automaton.ParseRule(cfg.String(KeyRule, "b"))
	if err != nil {
		return nil, err
	}
	c := sketch.NewComposition(cfg)
	cell := cfg.Float(KeyCell, 9)
	cols := max(1, int(c.Width/cell))
	rows := max(1, int(c.Height/cell))

	a := automaton.New(cols, rows, rule, r.Fork("automaton").Seed(),
		automaton.WithMutationPeriod(cfg.Int(KeyMutationPeriod, automaton.DefaultMutationPeriod)),
		automaton.WithBorderNoise(cfg.Float(KeyBorderNoise, automaton.DefaultBorderNoise)),
	)
	steps := cfg.Int(KeySteps, 40)
	a.Run(steps)

	c.Grid = sketch.NewGrid(cols, rows, cell)
	copy(c.Grid.Cells, a.Cells())
	c.Stats = sketch.Stats{Target: steps, Accepted: a.Steps(), Attempts: a.Steps()}
	return c, nil
}

// Render paints state k with palette colour k. Runs of equal state along a
// row are drawn as one rect.
func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	cv.Clear(p.RGBA(0))
	cv.NoStroke()
	g := c.Grid
	if g == nil {
		return
	}
	for y := range g.H {
		x := 0
		for x < g.W {
			s := g.At(x, y)
			end := x + 1
			for end < g.W && g.At(end, y) == s {
				end++
			}
			if s != 0 {
				cv.SetFill(p.RGBA(int(s)))
				cv.Rect(float64(x)*g.CellSize, float64(y)*g.CellSize, float64(end-x)*g.CellSize, g.CellSize)
			}
			x = end
		}
	}
}
