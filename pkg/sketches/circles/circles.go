// Package circles is the circle-packing sketch (Genuary days 5, 16 and 20).
//
// Circles are packed largest first and drawn as concentric rings. With
// jitter enabled each ring is nudged by a value-noise field sampled at the
// configured phase, which the live viewer advances every frame; at phase 0
// the picture matches the packed layout exactly.
package circles

import (
	"fmt"
	"math"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/pack"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

const Name = "circles"

const (
	KeyTarget   = "target"
	KeyAttempts = "attempts"
	KeyMinR     = "minR"
	KeyMaxR     = "maxR"
	KeyPadding  = "padding"
	KeyMargin   = "margin"
	KeyRings    = "rings"
	KeyBlend    = "blend"
	KeyJitter   = "jitter"
	KeyPhase    = "phase"
)

const (
	LayerCircles = "circles"
	LayerOverlay = "overlay"
)

type Sketch struct{}

func New() *Sketch { return &Sketch{} }

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Circles",
		Description: "Largest-first circle packing drawn as concentric rings.",
		Days:        []int{5, 16, 20},
	}
}

func (*Sketch) Params() []sketch.Param {
	return append(sketch.CanvasParams(540, 675),
		sketch.Param{Key: KeyTarget, Type: sketch.ParamInt, Default: "400", Description: "circles to place", Min: 0, HasMin: true, Max: 20000, HasMax: true},
		sketch.Param{Key: KeyAttempts, Type: sketch.ParamInt, Default: "20000", Description: "attempt budget", Min: 0, HasMin: true, Max: 1_000_000, HasMax: true},
		sketch.Param{Key: KeyMinR, Type: sketch.ParamFloat, Default: "3", Min: 0.5, HasMin: true},
		sketch.Param{Key: KeyMaxR, Type: sketch.ParamFloat, Default: "60", Min: 0.5, HasMin: true},
		sketch.Param{Key: KeyPadding, Type: sketch.ParamFloat, Default: "2", Min: 0, HasMin: true},
		sketch.Param{Key: KeyMargin, Type: sketch.ParamFloat, Default: "10", Min: 0, HasMin: true},
		sketch.Param{Key: KeyRings, Type: sketch.ParamInt, Default: "3", Description: "concentric rings per circle", Min: 1, HasMin: true, Max: 12, HasMax: true},
		sketch.Param{Key: KeyBlend, Type: sketch.ParamString, Default: "normal", Description: "overlay blend mode",
			Choices: []string{"normal", "difference", "multiply", "screen"}},
		sketch.Param{Key: KeyJitter, Type: sketch.ParamFloat, Default: "0", Description: "noise displacement in units", Min: 0, HasMin: true},
		sketch.Param{Key: KeyPhase, Type: sketch.ParamFloat, Default: "0", Description: "noise phase for jitter"},
	)
}

// colorWeights biases circle colours toward the first foreground entries.
var colorWeights = []float64{4, 3, 2, 1}

func (*Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	c := sketch.NewComposition(cfg)
	blend, err := canvas.ParseBlend(cfg.String(KeyBlend, "normal"))
	if err != nil {
		return nil, err
	}
	res := pack.Circles(r, pack.CircleOptions{
		Bounds:      geom.Rect{W: c.Width, H: c.Height},
		Target:      cfg.Int(KeyTarget, 400),
		MaxAttempts: cfg.Int(KeyAttempts, 20000),
		MinR:        cfg.Float(KeyMinR, 3),
		MaxR:        cfg.Float(KeyMaxR, 60),
		Padding:     cfg.Float(KeyPadding, 2),
		Margin:      cfg.Float(KeyMargin, 10),
	})
	c.Stats = sketch.Stats{Target: res.Target, Accepted: res.Accepted, Attempts: res.Attempts}
	for _, ci := range res.Circles {
		c.Entities = append(c.Entities, sketch.Entity{
			Kind: "circle", X: ci.C.X, Y: ci.C.Y, R: ci.R,
			Color:    1 + r.Weighted(colorWeights),
			Rotation: r.Angle(),
		})
	}
	c.Layers = []sketch.Layer{
		{Name: LayerCircles, Blend: canvas.Normal, Visible: true},
		{Name: LayerOverlay, Blend: blend, Visible: blend != canvas.Normal},
	}
	return c, nil
}

// Render draws each circle as alternating concentric rings. The overlay
// layer, when visible, repeats the innermost discs in its blend mode.
func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	rings := max(c.Config.Int(KeyRings, 3), 1)
	jitter := c.Config.Float(KeyJitter, 0)
	phase := c.Config.Float(KeyPhase, 0)

	var noise *rng.Noise
	if jitter > 0 {
		noise = rng.NewNoise(rng.New(c.Seed).Fork("jitter"))
	}
	offset := func(e sketch.Entity, k int) (float64, float64) {
		if noise == nil {
			return 0, 0
		}
		n := noise.At(e.X/40+phase, e.Y/40+float64(k))
		a := e.Rotation + n*2*math.Pi
		d := jitter * n
		return math.Cos(a) * d, math.Sin(a) * d
	}

	cv.Clear(p.RGBA(0))
	cv.NoStroke()
	if c.LayerVisible(LayerCircles) {
		for _, e := range c.Entities {
			for k := range rings {
				dx, dy := offset(e, k)
				cv.SetFill(p.RGBA(e.Color + k))
				cv.Circle(e.X+dx, e.Y+dy, e.R*float64(rings-k)/float64(rings))
			}
		}
	}
	if l, ok := c.Layer(LayerOverlay); ok && l.Visible {
		cv.BeginLayer(l.Blend)
		for _, e := range c.Entities {
			cv.SetFill(p.RGBA(e.Color + rings))
			cv.Circle(e.X, e.Y, e.R/float64(rings+1))
		}
		cv.EndLayer()
	}
	if c.Config.Bool(sketch.KeyDebug, false) {
		cv.SetFill(p.RGBA(1))
		cv.Text(fmt.Sprintf("%d/%d circles in %d attempts", c.Stats.Accepted, c.Stats.Target, c.Stats.Attempts),
			c.Width/2, c.Height-6, 9)
	}
}
