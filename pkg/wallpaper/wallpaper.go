// Package wallpaper tabulates the 17 plane symmetry groups as motif
// transforms on a lattice.
//
// Each [Group] lists the copies of a motif drawn inside one lattice cell. A
// copy is the motif, optionally mirrored across the cell's vertical axis,
// rotated about the cell centre, then shifted by a fractional [Op.Offset].
// [Tile] expands the table over a grid of cells into placement transforms.
//
// The table is fixed. Symmorphic groups are generated as the orbit of one
// base offset under the group's point group; groups with glides carry an
// extra half-cell shift on their mirrored copies.
package wallpaper

import (
	"math"
	"slices"

	"github.com/matzehuels/sketchbook/pkg/geom"
)

// Lattice is the shape of a group's unit cell.
type Lattice int

const (
	Rectangular Lattice = iota
	Square
	Rhombic
	Hexagonal
)

func (l Lattice) String() string {
	switch l {
	case Square:
		return "square"
	case Rhombic:
		return "rhombic"
	case Hexagonal:
		return "hexagonal"
	default:
		return "rectangular"
	}
}

// aspect is the cell height as a fraction of its width.
func (l Lattice) aspect() float64 {
	if l == Rectangular {
		return 0.75
	}
	return 1
}

// rowStep is the vertical distance between lattice rows in cell widths.
func (l Lattice) rowStep() float64 {
	switch l {
	case Hexagonal:
		return math.Sqrt(3) / 2
	case Rectangular:
		return 0.75
	default:
		return 1
	}
}

// stagger reports whether odd rows shift by half a cell.
func (l Lattice) stagger() bool { return l == Rhombic || l == Hexagonal }

// Op is one motif copy inside a cell.
type Op struct {
	// Rotate is a clockwise rotation in degrees (y points down).
	Rotate float64
	// Mirror reflects across the cell's vertical axis before rotating.
	Mirror bool
	// Offset is the copy's position relative to the cell centre, in cell
	// widths.
	Offset geom.Point
}

// Linear returns the op's transform without the offset.
func (o Op) Linear() geom.Affine {
	m := geom.Identity()
	if o.Mirror {
		m = geom.MirrorX()
	}
	return m.Then(geom.Rotate(geom.DegToRad(o.Rotate)))
}

// Group is a wallpaper group entry.
type Group struct {
	Name    string
	Lattice Lattice
	Ops     []Op
}

// Rotations returns the distinct rotation angles used by the group.
func (g Group) Rotations() []float64 {
	var out []float64
	for _, op := range g.Ops {
		if !slices.Contains(out, op.Rotate) {
			out = append(out, op.Rotate)
		}
	}
	slices.Sort(out)
	return out
}

// HasMirror reports whether any copy is reflected.
func (g Group) HasMirror() bool {
	return slices.ContainsFunc(g.Ops, func(o Op) bool { return o.Mirror })
}

// orbit generates the copies of a motif placed at base under an n-fold
// rotation, plus mirror images across an axis tilted axis degrees from
// vertical when mirror is set. glide is added to every mirrored copy.
func orbit(n int, mirror bool, axis float64, base, glide geom.Point) []Op {
	ops := make([]Op, 0, 2*n)
	for k := range n {
		op := Op{Rotate: float64(k) * 360 / float64(n)}
		op.Offset = wrap(op.Linear().Apply(base))
		ops = append(ops, op)
	}
	if !mirror {
		return ops
	}
	for k := range n {
		op := Op{Mirror: true, Rotate: math.Mod(float64(k)*360/float64(n)+2*axis, 360)}
		op.Offset = wrap(op.Linear().Apply(base).Add(glide))
		ops = append(ops, op)
	}
	return ops
}

// wrap folds an offset back into [-0.5, 0.5) and rounds off float noise.
func wrap(p geom.Point) geom.Point {
	f := func(v float64) float64 {
		v = math.Round(v*1e9) / 1e9
		v = math.Mod(v+0.5, 1)
		if v < 0 {
			v++
		}
		return v - 0.5
	}
	return geom.Pt(f(p.X), f(p.Y))
}

var (
	quad  = geom.Pt(-0.25, -0.25)
	side  = geom.Pt(-0.25, 0)
	skew  = geom.Pt(-0.28, -0.12)
	apex  = geom.Pt(-0.08, -0.28)
	none  = geom.Point{}
	halfY = geom.Pt(0, 0.5)
	halfX = geom.Pt(0.5, 0)
	diag  = geom.Pt(0.5, 0.5)
)

var groups = []Group{
	{Name: "p1", Lattice: Rectangular, Ops: orbit(1, false, 0, none, none)},
	{Name: "p2", Lattice: Rectangular, Ops: orbit(2, false, 0, side, none)},
	{Name: "pm", Lattice: Rectangular, Ops: orbit(1, true, 0, side, none)},
	{Name: "pg", Lattice: Rectangular, Ops: orbit(1, true, 0, quad, halfY)},
	{Name: "cm", Lattice: Rhombic, Ops: orbit(1, true, 0, side, none)},
	{Name: "pmm", Lattice: Rectangular, Ops: orbit(2, true, 0, quad, none)},
	{Name: "pmg", Lattice: Rectangular, Ops: []Op{
		{Rotate: 0, Offset: geom.Pt(-0.25, -0.25)},
		{Rotate: 0, Mirror: true, Offset: geom.Pt(0.25, -0.25)},
		{Rotate: 180, Offset: geom.Pt(-0.25, 0.25)},
		{Rotate: 180, Mirror: true, Offset: geom.Pt(0.25, 0.25)},
	}},
	{Name: "pgg", Lattice: Rectangular, Ops: orbit(2, true, 0, quad, diag)},
	{Name: "cmm", Lattice: Rhombic, Ops: orbit(2, true, 0, quad, none)},
	{Name: "p4", Lattice: Square, Ops: orbit(4, false, 0, quad, none)},
	{Name: "p4m", Lattice: Square, Ops: orbit(4, true, 0, skew, none)},
	{Name: "p4g", Lattice: Square, Ops: orbit(4, true, 45, skew, halfX)},
	{Name: "p3", Lattice: Hexagonal, Ops: orbit(3, false, 0, apex, none)},
	{Name: "p3m1", Lattice: Hexagonal, Ops: orbit(3, true, 0, apex, none)},
	{Name: "p31m", Lattice: Hexagonal, Ops: orbit(3, true, 30, apex, none)},
	{Name: "p6", Lattice: Hexagonal, Ops: orbit(6, false, 0, apex, none)},
	{Name: "p6m", Lattice: Hexagonal, Ops: orbit(6, true, 0, apex, none)},
}

// Groups returns all 17 groups in the conventional order.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		g.Ops = slices.Clone(g.Ops)
		out[i] = g
	}
	return out
}

// Names returns the group names in the conventional order.
func Names() []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}

// Lookup finds a group by name.
func Lookup(name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			g.Ops = slices.Clone(g.Ops)
			return g, true
		}
	}
	return Group{}, false
}

// Placement is one motif copy on the canvas.
type Placement struct {
	Row, Col int
	// Op indexes the group's Ops.
	Op int
	// Center is the lattice cell centre.
	Center geom.Point
	// Transform maps motif coordinates (centred on the origin, in canvas
	// units) to canvas coordinates.
	Transform geom.Affine
}

// CellCenter returns the centre of lattice cell (row, col) for cells of
// width cell.
func CellCenter(l Lattice, row, col int, cell float64) geom.Point {
	x := (float64(col) + 0.5) * cell
	if l.stagger() && row%2 == 1 {
		x += cell / 2
	}
	y := (float64(row) + 0.5) * cell * l.rowStep()
	return geom.Pt(x, y)
}

// Tile expands g over a cols×rows grid of cells of width cell. Placements
// are ordered by row, then column, then op.
func Tile(g Group, cols, rows int, cell float64) []Placement {
	out := make([]Placement, 0, cols*rows*len(g.Ops))
	sy := cell * g.Lattice.aspect()
	for row := range rows {
		for col := range cols {
			c := CellCenter(g.Lattice, row, col, cell)
			for i, op := range g.Ops {
				off := geom.Pt(op.Offset.X*cell, op.Offset.Y*sy)
				t := op.Linear().Then(geom.Translate(c.X+off.X, c.Y+off.Y))
				out = append(out, Placement{Row: row, Col: col, Op: i, Center: c, Transform: t})
			}
		}
	}
	return out
}
