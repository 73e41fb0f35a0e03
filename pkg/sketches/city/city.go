// Package city is the isometric city sketch (Genuary day 8).
//
// Buildings stand on an N×N ground grid. Each occupied cell gets a box whose
// height mixes fractal noise with a per-building draw, some carry a smaller
// rooftop box, and the faces are shaded from one palette colour so the light
// appears to come from the upper right. Entities are stored in painter's
// order, so rendering is a single front-to-back-free pass.
package city

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

const Name = "city"

const (
	KeyGrid       = "grid"
	KeyTile       = "tile"
	KeyMinHeight  = "minHeight"
	KeyMaxHeight  = "maxHeight"
	KeyDensity    = "density"
	KeyNoiseScale = "noiseScale"
	KeyRoofs      = "roofs"
	KeyWindows    = "windows"
)

const (
	KindBuilding = "building"
	KindRoof     = "roof"
)

const (
	floorHeight = 12.0
	windowRatio = 0.5

	// Rooftop boxes are normally distributed around 9 units, clamped.
	roofMinH = 4.0
	roofMaxH = 14.0
)

var black = colorful.Color{}

type Sketch struct{}

func New() *Sketch { return &Sketch{} }

func (*Sketch) Info() sketch.Info {
	return sketch.Info{
		Name:        Name,
		Title:       "Isometric City",
		Description: "Noise-driven skyline on an isometric grid, drawn back to front.",
		Days:        []int{8},
	}
}

func (*Sketch) Params() []sketch.Param {
	return append(sketch.CanvasParams(540, 675),
		sketch.Param{Key: KeyGrid, Type: sketch.ParamInt, Default: "10", Description: "ground cells per side", Min: 1, HasMin: true, Max: 64, HasMax: true},
		sketch.Param{Key: KeyTile, Type: sketch.ParamFloat, Default: "0", Description: "tile width; 0 fits the grid to the canvas", Min: 0, HasMin: true},
		sketch.Param{Key: KeyMinHeight, Type: sketch.ParamFloat, Default: "10", Min: 0, HasMin: true},
		sketch.Param{Key: KeyMaxHeight, Type: sketch.ParamFloat, Default: "180", Min: 1, HasMin: true},
		sketch.Param{Key: KeyDensity, Type: sketch.ParamFloat, Default: "0.8", Description: "chance a cell holds a building", Min: 0, HasMin: true, Max: 1, HasMax: true},
		sketch.Param{Key: KeyNoiseScale, Type: sketch.ParamFloat, Default: "0.25", Min: 0, HasMin: true},
		sketch.Param{Key: KeyRoofs, Type: sketch.ParamFloat, Default: "0.3", Description: "chance of a rooftop box", Min: 0, HasMin: true, Max: 1, HasMax: true},
		sketch.Param{Key: KeyWindows, Type: sketch.ParamBool, Default: "true"},
	)
}

// Projection returns the isometric projection a composition is drawn with.
func Projection(c *sketch.Composition) geom.Iso {
	n := float64(c.Config.Int(KeyGrid, 10))
	tile := c.Config.Float(KeyTile, 0)
	if tile <= 0 {
		tile = c.Width * 0.85 / n
	}
	maxH := c.Config.Float(KeyMaxHeight, 180)
	tileH := tile / 2
	return geom.Iso{
		Origin: geom.Pt(c.Width/2, (c.Height-n*tileH)/2+maxH/2),
		TileW:  tile,
		TileH:  tileH,
	}
}

func (*Sketch) Generate(r *rng.RNG, cfg sketch.Config) (*sketch.Composition, error) {
	c := sketch.NewComposition(cfg)
	n := cfg.Int(KeyGrid, 10)
	minH, maxH := cfg.Float(KeyMinHeight, 10), cfg.Float(KeyMaxHeight, 180)
	density := cfg.Float(KeyDensity, 0.8)
	scale := cfg.Float(KeyNoiseScale, 0.25)
	roofs := cfg.Float(KeyRoofs, 0.3)
	noise := rng.NewNoise(r.Fork("heights"))

	for gy := range n {
		for gx := range n {
			if !r.Chance(density) {
				continue
			}
			w := r.Range(0.55, 0.9)
			ox, oy := r.Range(0, 1-w), r.Range(0, 1-w)
			h := minH + (maxH-minH)*noise.Octaves(float64(gx)*scale, float64(gy)*scale, 3, 0.5)*r.Range(0.6, 1)
			b := sketch.Entity{
				Kind: KindBuilding,
				X:    float64(gx) + ox, Y: float64(gy) + oy,
				W: w, H: h,
				Row: gy, Col: gx,
				Depth: float64(gx+gy) + ox + oy,
				Color: r.IntRange(1, 4),
			}
			if r.Chance(roofs) {
				rw := w * r.Range(0.3, 0.6)
				b.Children = []sketch.Entity{{
					Kind: KindRoof,
					X:    b.X + r.Range(0, w-rw), Y: b.Y + r.Range(0, w-rw),
					W: rw, H: math.Max(roofMinH, math.Min(roofMaxH, r.Gaussian(9, 2.5))),
					Color: b.Color + 1,
				}}
			}
			c.Entities = append(c.Entities, b)
		}
	}
	slices.SortStableFunc(c.Entities, func(a, b sketch.Entity) int {
		return cmp.Compare(a.Depth, b.Depth)
	})
	c.Stats = sketch.Stats{Target: n * n, Accepted: len(c.Entities), Attempts: n * n}
	return c, nil
}

func (*Sketch) Render(c *sketch.Composition, cv canvas.Canvas) {
	p := c.Palette
	iso := Projection(c)
	n := c.Config.Int(KeyGrid, 10)
	windows := c.Config.Bool(KeyWindows, true)

	cv.Clear(p.RGBA(0))
	cv.NoStroke()

	ground := p.Color(0).BlendLab(black, 0.08).Clamped()
	groundAlt := p.Color(0).BlendLab(black, 0.14).Clamped()
	for gy := range n {
		for gx := range n {
			if (gx+gy)%2 == 0 {
				cv.SetFill(ground)
			} else {
				cv.SetFill(groundAlt)
			}
			x, y := float64(gx), float64(gy)
			cv.Polygon([]geom.Point{
				iso.Project(x, y, 0), iso.Project(x+1, y, 0),
				iso.Project(x+1, y+1, 0), iso.Project(x, y+1, 0),
			})
		}
	}

	for i, b := range c.Entities {
		drawBox(cv, iso, b, p.Color(b.Color), 0)
		if windows {
			drawWindows(cv, iso, b, p.Color(0), c.Seed+int64(i))
		}
		for _, roof := range b.Children {
			drawBox(cv, iso, roof, p.Color(roof.Color), b.H)
		}
		if c.Config.Bool(sketch.KeyDebug, false) {
			top := iso.Project(b.X+b.W/2, b.Y+b.W/2, b.H)
			cv.SetFill(p.RGBA(1))
			cv.Text(strconv.Itoa(i), top.X, top.Y-6, 8)
		}
	}
}

// drawBox draws a shaded box raised by base.
func drawBox(cv canvas.Canvas, iso geom.Iso, e sketch.Entity, col colorful.Color, base float64) {
	cv.Push()
	defer cv.Pop()
	cv.Translate(0, -base)
	left, right, top := iso.Box(e.X, e.Y, e.W, e.W, e.H)
	cv.SetFill(col.BlendLab(black, 0.25).Clamped())
	cv.Polygon(left)
	cv.SetFill(col.BlendLab(black, 0.45).Clamped())
	cv.Polygon(right)
	cv.SetFill(col.Clamped())
	cv.Polygon(top)
}

// drawWindows puts a grid of windows on both visible faces. Which windows
// are lit is a pure function of the building, so every render agrees.
func drawWindows(cv canvas.Canvas, iso geom.Iso, b sketch.Entity, light colorful.Color, salt int64) {
	floors := int((b.H - floorHeight/2) / floorHeight)
	if floors < 1 {
		return
	}
	lit := light.Clamped()
	dark := light.BlendLab(black, 0.7).Clamped()
	const cols = 3
	step := b.W / cols
	ww := step * windowRatio
	wh := floorHeight * windowRatio
	for f := range floors {
		z := floorHeight*float64(f) + floorHeight/2
		for k := range cols {
			t := float64(k)*step + (step-ww)/2
			if hash(salt, f, k, 0)%3 == 0 {
				cv.SetFill(lit)
			} else {
				cv.SetFill(dark)
			}
			// Left face runs along x at the front edge.
			y := b.Y + b.W
			cv.Polygon([]geom.Point{
				iso.Project(b.X+t, y, z), iso.Project(b.X+t+ww, y, z),
				iso.Project(b.X+t+ww, y, z+wh), iso.Project(b.X+t, y, z+wh),
			})
			if hash(salt, f, k, 1)%3 == 0 {
				cv.SetFill(lit)
			} else {
				cv.SetFill(dark)
			}
			// Right face runs along y at the far x edge.
			x := b.X + b.W
			cv.Polygon([]geom.Point{
				iso.Project(x, b.Y+t+ww, z), iso.Project(x, b.Y+t, z),
				iso.Project(x, b.Y+t, z+wh), iso.Project(x, b.Y+t+ww, z+wh),
			})
		}
	}
}

func hash(salt int64, a, b, c int) uint64 {
	h := uint64(salt)*0x9e3779b97f4a7c15 ^ uint64(a)*0xbf58476d1ce4e5b9 ^ uint64(b)*0x94d049bb133111eb ^ uint64(c+1)
	h ^= h >> 31
	h *= 0xd6e8feb86659fd93
	h ^= h >> 32
	return h
}
