// Package packing is the container-and-filler sketch (Genuary days 3, 14,
// 18 and 26).
//
// Rotated regular polygons are packed into the canvas first, largest first,
// each is then filled with smaller polygons, and free-floating fillers take
// the space left between containers. An optional overlay redraws every
// container a half step rotated in difference mode, which inverts the
// colours wherever the two passes overlap.
package packing

import (
	"fmt"
	"math"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/pack"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Name is the registry name.
const Name = "packing"

// Parameter keys and their defaults.
const (
	KeyTarget         = "containerTargetCount"
	KeyMinR           = "minR"
	KeyMaxR           = "maxR"
	KeyPadding        = "padding"
	KeyAttempts       = "attempts"
	KeyFillers        = "fillersPerContainer"
	KeyFillerAttempts = "fillerAttempts"
	KeyFillerMinR     = "fillerMinR"
	KeyFillerMaxR     = "fillerMaxR"
	KeyFree           = "freeFillers"
	KeyFreeAttempts   = "freeAttempts"
	KeySidesMin       = "sidesMin"
	KeySidesMax       = "sidesMax"
	KeyOverlay        = "overlay"

	DefaultWidth    = 540
	DefaultHeight   = 675
	DefaultTarget   = 20
	DefaultMinR     = 8
	DefaultMaxR     = 200
	DefaultPadding  = 6
	DefaultAttempts = 75000
)

// Layer names.
const (
	LayerContainers = "containers"
	LayerFillers    = "fillers"
	LayerFree       = "free"
	LayerOverlay    = "overlay"
)

// Entity kinds.
const (
	KindContainer = "container"
	KindFiller    = "filler"
)

// Sketch implements [sketch.Sketch].
type Sketch struct{}

// New returns the packing sketch.
func New() *Sketch { return &Sketch{} }

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Containers",
		Description: "Rotated polygons packed largest first, each filled with smaller polygons.",
		Days:        []int{3, 14, 18, 26},
	}
}

func (*Sketch) Params() []sketch.Param {
	return append(sketch.CanvasParams(DefaultWidth, DefaultHeight),
		sketch.Param{Key: KeyTarget, Type: sketch.ParamInt, Default: "20", Description: "containers to place", Min: 0, HasMin: true, Max: 500, HasMax: true},
		sketch.Param{Key: KeyMinR, Type: sketch.ParamFloat, Default: "8", Description: "smallest container circumradius", Min: 1, HasMin: true},
		sketch.Param{Key: KeyMaxR, Type: sketch.ParamFloat, Default: "200", Description: "largest container circumradius", Min: 1, HasMin: true},
		sketch.Param{Key: KeyPadding, Type: sketch.ParamFloat, Default: "6", Description: "minimum gap between containers", Min: 0, HasMin: true},
		sketch.Param{Key: KeyAttempts, Type: sketch.ParamInt, Default: "75000", Description: "container attempt budget", Min: 0, HasMin: true, Max: 1_000_000, HasMax: true},
		sketch.Param{Key: KeyFillers, Type: sketch.ParamInt, Default: "40", Description: "fillers per container", Min: 0, HasMin: true},
		sketch.Param{Key: KeyFillerAttempts, Type: sketch.ParamInt, Default: "1500", Description: "filler attempt budget per container", Min: 0, HasMin: true},
		sketch.Param{Key: KeyFillerMinR, Type: sketch.ParamFloat, Default: "3", Description: "smallest filler circumradius", Min: 0.5, HasMin: true},
		sketch.Param{Key: KeyFillerMaxR, Type: sketch.ParamFloat, Default: "24", Description: "largest filler circumradius", Min: 0.5, HasMin: true},
		sketch.Param{Key: KeyFree, Type: sketch.ParamInt, Default: "60", Description: "free fillers between containers", Min: 0, HasMin: true},
		sketch.Param{Key: KeyFreeAttempts, Type: sketch.ParamInt, Default: "5000", Description: "free filler attempt budget", Min: 0, HasMin: true},
		sketch.Param{Key: KeySidesMin, Type: sketch.ParamInt, Default: "3", Description: "fewest polygon sides", Min: 3, HasMin: true, Max: 12, HasMax: true},
		sketch.Param{Key: KeySidesMax, Type: sketch.ParamInt, Default: "8", Description: "most polygon sides", Min: 3, HasMin: true, Max: 12, HasMax: true},
		sketch.Param{Key: KeyOverlay, Type: sketch.ParamBool, Default: "true", Description: "draw the difference overlay"},
	)
}

// Generate packs containers, fills them and scatters free fillers.
func (*Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	c := sketch.NewComposition(cfg)
	sidesMin, sidesMax := cfg.Int(KeySidesMin, 3), cfg.Int(KeySidesMax, 8)
	padding := cfg.Float(KeyPadding, DefaultPadding)

	containers := pack.Containers(r, pack.ShapeOptions{
		Bounds:      geom.Rect{W: c.Width, H: c.Height},
		Target:      cfg.Int(KeyTarget, DefaultTarget),
		MaxAttempts: cfg.Int(KeyAttempts, DefaultAttempts),
		MinR:        cfg.Float(KeyMinR, DefaultMinR),
		MaxR:        cfg.Float(KeyMaxR, DefaultMaxR),
		Padding:     padding,
		SidesMin:    sidesMin,
		SidesMax:    sidesMax,
	})
	c.Stats = sketch.Stats{Target: containers.Target, Accepted: containers.Accepted, Attempts: containers.Attempts}

	fillOpts := pack.FillerOptions{
		Target:      cfg.Int(KeyFillers, 40),
		MaxAttempts: cfg.Int(KeyFillerAttempts, 1500),
		MinR:        cfg.Float(KeyFillerMinR, 3),
		MaxR:        cfg.Float(KeyFillerMaxR, 24),
		Padding:     padding / 2,
		Margin:      padding / 2,
		SidesMin:    sidesMin,
		SidesMax:    sidesMax,
	}
	polys := make([]geom.Polygon, 0, len(containers.Shapes))
	for _, s := range containers.Shapes {
		e := shapeEntity(KindContainer, s, r.IntRange(1, 4))
		for _, f := range pack.Fill(r, s.Poly, fillOpts).Shapes {
			e.Children = append(e.Children, shapeEntity(KindFiller, f, r.IntRange(1, 4)))
		}
		c.Entities = append(c.Entities, e)
		polys = append(polys, s.Poly)
	}

	free := pack.Containers(r, pack.ShapeOptions{
		Bounds:      geom.Rect{W: c.Width, H: c.Height},
		Target:      cfg.Int(KeyFree, 60),
		MaxAttempts: cfg.Int(KeyFreeAttempts, 5000),
		MinR:        fillOpts.MinR,
		MaxR:        fillOpts.MaxR,
		Padding:     padding,
		Margin:      padding,
		SidesMin:    sidesMin,
		SidesMax:    sidesMax,
		Obstacles:   polys,
	})
	for _, s := range free.Shapes {
		c.Entities = append(c.Entities, shapeEntity(KindFiller, s, r.IntRange(1, 4)))
	}

	c.Layers = []sketch.Layer{
		{Name: LayerContainers, Blend: canvas.Normal, Visible: true},
		{Name: LayerFillers, Blend: canvas.Normal, Visible: true},
		{Name: LayerFree, Blend: canvas.Normal, Visible: true},
		{Name: LayerOverlay, Blend: canvas.Difference, Visible: cfg.Bool(KeyOverlay, true)},
	}
	return c, nil
}

func shapeEntity(kind string, s pack.Shape, color int) sketch.Entity {
	return sketch.Entity{
		Kind: kind, X: s.Center.X, Y: s.Center.Y, R: s.R,
		Sides: s.Sides, Rotation: s.Rotation, Color: color,
	}
}

// Polygon rebuilds an entity's outline.
func Polygon(e sketch.Entity) geom.Polygon {
	return geom.RegularPolygon(geom.Pt(e.X, e.Y), e.R, e.Sides, e.Rotation)
}

// Render draws background, containers, their fillers, free fillers and the
// overlay, in that order.
func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	cv.Clear(p.RGBA(0))
	cv.NoStroke()

	if c.LayerVisible(LayerContainers) {
		for _, e := range containers(c) {
			cv.SetFill(p.RGBA(e.Color))
			cv.Polygon(Polygon(e))
		}
	}
	if c.LayerVisible(LayerFillers) {
		for _, e := range containers(c) {
			for _, f := range e.Children {
				// Fillers take the next colour so they stand out from their
				// container.
				cv.SetFill(p.RGBA(f.Color + e.Color))
				cv.Polygon(Polygon(f))
			}
		}
	}
	if c.LayerVisible(LayerFree) {
		for _, e := range c.Entities {
			if e.Kind == KindFiller {
				cv.SetFill(p.RGBA(e.Color))
				cv.Polygon(Polygon(e))
			}
		}
	}
	if l, ok := c.Layer(LayerOverlay); ok && l.Visible {
		cv.BeginLayer(l.Blend)
		cv.SetFill(p.RGBA(1))
		for _, e := range containers(c) {
			o := e
			o.Rotation += math.Pi / float64(max(e.Sides, 3))
			o.R *= 0.5
			cv.Polygon(Polygon(o))
		}
		cv.EndLayer()
	}
	if c.Config.Bool(sketch.KeyDebug, false) {
		debug(c, cv)
	}
}

func containers(c *sketch.Composition) []sketch.Entity {
	out := make([]sketch.Entity, 0, len(c.Entities))
	for _, e := range c.Entities {
		if e.Kind == KindContainer {
			out = append(out, e)
		}
	}
	return out
}

func debug(c *sketch.Composition, cv canvas.Canvas) {
	cv.Push()
	defer cv.Pop()
	cv.NoFill()
	cv.SetStroke(canvas.Fade(c.Palette.RGBA(1), 0.5), 1)
	for _, e := range containers(c) {
		cv.Circle(e.X, e.Y, e.R)
	}
	cv.SetFill(c.Palette.RGBA(1))
	cv.NoStroke()
	cv.Text(fmt.Sprintf("%d/%d containers in %d attempts", c.Stats.Accepted, c.Stats.Target, c.Stats.Attempts),
		c.Width/2, c.Height-12, 11)
}
