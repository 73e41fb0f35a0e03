package sketch

import (
	"slices"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
)

// Entity is one placed element of a composition: a container, filler,
// circle, building, motif or similar. Color is a palette index.
type Entity struct {
	Kind     string       `json:"kind"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	R        float64      `json:"r,omitempty"`
	W        float64      `json:"w,omitempty"`
	H        float64      `json:"h,omitempty"`
	Rotation float64      `json:"rotation,omitempty"`
	Color    int          `json:"color"`
	Row      int          `json:"row,omitempty"`
	Col      int          `json:"col,omitempty"`
	Sides    int          `json:"sides,omitempty"`
	Depth    float64      `json:"depth,omitempty"`
	Points   []geom.Point `json:"points,omitempty"`
	Children []Entity     `json:"children,omitempty"`
	// Transform places the entity when it is drawn through an affine map
	// (wallpaper motifs).
	Transform *geom.Affine `json:"transform,omitempty"`
}

// Clone deep-copies e.
func (e Entity) Clone() Entity {
	out := e
	out.Points = slices.Clone(e.Points)
	if e.Transform != nil {
		m := *e.Transform
		out.Transform = &m
	}
	if e.Children != nil {
		out.Children = make([]Entity, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Grid is a row-major grid of small integer values, used by raster-valued
// compositions (dither bits, automaton states, luminance levels).
type Grid struct {
	W        int     `json:"w"`
	H        int     `json:"h"`
	Cells    []uint8 `json:"cells"`
	CellSize float64 `json:"cellSize"`
}

// NewGrid allocates a zeroed w×h grid.
func NewGrid(w, h int, cellSize float64) *Grid {
	return &Grid{W: w, H: h, Cells: make([]uint8, w*h), CellSize: cellSize}
}

// Index converts (x, y) to a linear index.
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// At returns the value at (x, y).
func (g *Grid) At(x, y int) uint8 { return g.Cells[g.Index(x, y)] }

// Set stores v at (x, y).
func (g *Grid) Set(x, y int, v uint8) { g.Cells[g.Index(x, y)] = v }

// Clone deep-copies g.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := *g
	out.Cells = slices.Clone(g.Cells)
	return &out
}

// Layer names a render pass and how it blends.
type Layer struct {
	Name    string       `json:"name"`
	Blend   canvas.Blend `json:"blend"`
	Visible bool         `json:"visible"`
}

// Stats records how a packing pass went.
type Stats struct {
	Target   int `json:"target"`
	Accepted int `json:"accepted"`
	Attempts int `json:"attempts"`
}

// Composition is the complete deterministic output of one generation pass.
// It is produced by Generate and never modified by rendering.
type Composition struct {
	Sketch   string          `json:"sketch"`
	Seed     int64           `json:"seed"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Palette  palette.Palette `json:"palette"`
	Config   Config          `json:"config"`
	Entities []Entity        `json:"entities"`
	Grid     *Grid           `json:"grid,omitempty"`
	Layers   []Layer         `json:"layers,omitempty"`
	Stats    Stats           `json:"stats"`
}

// Clone deep-copies c.
func (c *Composition) Clone() *Composition {
	if c == nil {
		return nil
	}
	out := *c
	out.Palette.Colors = slices.Clone(c.Palette.Colors)
	out.Config = c.Config.Clone()
	out.Grid = c.Grid.Clone()
	out.Layers = slices.Clone(c.Layers)
	if c.Entities != nil {
		out.Entities = make([]Entity, len(c.Entities))
		for i, e := range c.Entities {
			out.Entities[i] = e.Clone()
		}
	}
	return &out
}

// Layer returns the named layer.
func (c *Composition) Layer(name string) (Layer, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// LayerVisible reports whether the named layer should be drawn. Undeclared
// layers are visible.
func (c *Composition) LayerVisible(name string) bool {
	l, ok := c.Layer(name)
	return !ok || l.Visible
}

// WithLayerToggled returns a clone with the named layer's visibility flipped.
func (c *Composition) WithLayerToggled(name string) *Composition {
	out := c.Clone()
	for i := range out.Layers {
		if out.Layers[i].Name == name {
			out.Layers[i].Visible = !out.Layers[i].Visible
		}
	}
	return out
}

// WithPalette returns a clone drawing with p. Palette indices on entities are
// unchanged.
func (c *Composition) WithPalette(p palette.Palette) *Composition {
	out := c.Clone()
	out.Palette = p
	out.Palette.Colors = slices.Clone(p.Colors)
	return out
}

// Count returns the number of entities including nested children.
func (c *Composition) Count() int {
	n := 0
	var walk func([]Entity)
	walk = func(es []Entity) {
		for _, e := range es {
			n++
			walk(e.Children)
		}
	}
	walk(c.Entities)
	return n
}
