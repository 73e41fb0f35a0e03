// Package tiling is the wallpaper-group sketch (Genuary days 17 and 19).
//
// One asymmetric motif is generated and then repeated across the canvas by
// the transforms of a wallpaper group. The motif is deliberately without
// symmetry of its own so every rotation and reflection of the group stays
// visible.
package tiling

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
	"github.com/matzehuels/sketchbook/pkg/wallpaper"
)

const Name = "wallpaper"

const (
	KeyGroup = "group"
	KeyCell  = "cell"
	KeyMotif = "motif"
)

// Motif styles.
const (
	MotifPolygon = "polygon"
	MotifGlyph   = "glyph"
)

const (
	KindMotif = "motif"
	KindCopy  = "copy"
)

// glyphs have no mirror or rotational symmetry.
var glyphs = []string{"F", "G", "J", "L", "P", "R", "7", "?"}

type Sketch struct{}

func New() *Sketch { return &Sketch{} }

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Wallpaper Groups",
		Description: "An asymmetric motif repeated by one of the 17 plane symmetry groups.",
		Days:        []int{17, 19},
	}
}

func (*Sketch) Params() []sketch.Param {
	return append(sketch.CanvasParams(540, 675),
		sketch.Param{Key: KeyGroup, Type: sketch.ParamString, Default: "", Description: "wallpaper group; empty picks one from the seed", Choices: append([]string{""}, wallpaper.Names()...)},
		sketch.Param{Key: KeyCell, Type: sketch.ParamFloat, Default: "90", Description: "lattice cell width", Min: 16, HasMin: true},
		sketch.Param{Key: KeyMotif, Type: sketch.ParamString, Default: MotifPolygon, Choices: []string{MotifPolygon, MotifGlyph}},
	)
}

// Group returns the wallpaper group a composition was generated with.
func Group(c *sketch.Composition) (wallpaper.Group, bool) {
	return wallpaper.Lookup(c.Config.String(KeyGroup, ""))
}

func (*Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	name := cfg.String(KeyGroup, "")
	if name == "" {
		name = rng.Pick(r.Fork("group"), wallpaper.Names())
		cfg = cfg.Clone()
		cfg[KeyGroup] = name
	}
	g, _ := wallpaper.Lookup(name)

	c := sketch.NewComposition(cfg)
	c.Config = cfg
	cell := cfg.Float(KeyCell, 90)
	size := cell * 0.22

	motif := sketch.Entity{Kind: KindMotif, Color: 1}
	if cfg.String(KeyMotif, MotifPolygon) == MotifGlyph {
		// Sides indexes glyphs for glyph motifs.
		motif.Sides = r.IntN(len(glyphs))
		motif.R = size * 2
	} else {
		motif.Points = asymmetricPolygon(r, size)
		motif.R = size
	}
	c.Entities = append(c.Entities, motif)

	cols := int(math.Ceil(c.Width/cell)) + 1
	rows := int(math.Ceil(c.Height/(cell*0.75))) + 1
	for _, pl := range wallpaper.Tile(g, cols, rows, cell) {
		m := pl.Transform
		c.Entities = append(c.Entities, sketch.Entity{
			Kind:      KindCopy,
			X:         pl.Center.X,
			Y:         pl.Center.Y,
			Row:       pl.Row,
			Col:       pl.Col,
			Color:     1 + pl.Op%2 + pl.Row%2,
			Transform: &m,
		})
	}
	n := len(c.Entities) - 1
	c.Stats = sketch.Stats{Target: n, Accepted: n, Attempts: n}
	return c, nil
}

// asymmetricPolygon returns a star-shaped polygon around the origin with
// irregular angles and radii.
func asymmetricPolygon(r *rng.RNG, size float64) []geom.Point {
	k := r.IntRange(5, 8)
	angles := make([]float64, k)
	for i := range angles {
		angles[i] = r.Angle()
	}
	slices.SortFunc(angles, cmp.Compare)
	pts := make([]geom.Point, k)
	for i, a := range angles {
		rad := size * r.Range(0.35, 1)
		pts[i] = geom.Pt(math.Cos(a)*rad, math.Sin(a)*rad)
	}
	return pts
}

func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	cv.Clear(p.RGBA(0))
	cv.NoStroke()
	if len(c.Entities) == 0 {
		return
	}
	motif := c.Entities[0]
	for _, e := range c.Entities[1:] {
		if e.Transform == nil {
			continue
		}
		cv.Push()
		cv.Transform(*e.Transform)
		cv.SetFill(p.RGBA(e.Color))
		if motif.Points != nil {
			cv.Polygon(motif.Points)
		} else {
			cv.Text(glyphs[motif.Sides%len(glyphs)], 0, 0, motif.R)
		}
		cv.Pop()
	}

	if c.Config.Bool(sketch.KeyDebug, false) {
		cv.SetStroke(p.RGBA(1), 1)
		cv.NoFill()
		for _, e := range c.Entities[1:] {
			cv.Circle(e.X, e.Y, 2)
		}
		cv.SetFill(p.RGBA(1))
		if g, ok := Group(c); ok {
			cv.Text(g.Name+" "+g.Lattice.String(), 8, c.Height-8, 12)
		}
	}
}
