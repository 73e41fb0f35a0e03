package geom

// Iso projects grid coordinates onto the screen with a 2:1 isometric
// projection. Origin is the screen position of grid cell (0, 0, 0); TileW and
// TileH are the screen width and height of one ground tile.
type Iso struct {
	Origin Point
	TileW  float64
	TileH  float64
}

// Project maps grid position (gx, gy) at height z to screen space.
func (p Iso) Project(gx, gy, z float64) Point {
	return Point{
		X: p.Origin.X + (gx-gy)*p.TileW/2,
		Y: p.Origin.Y + (gx+gy)*p.TileH/2 - z,
	}
}

// Depth returns the painter's-order key for a cell: cells with a smaller
// depth are further away and must be drawn first.
func (p Iso) Depth(gx, gy float64) float64 { return gx + gy }

// Box returns the three visible faces (left, right, top) of a w×d×h box whose
// ground-front corner sits at grid cell (gx, gy).
func (p Iso) Box(gx, gy, w, d, h float64) (left, right, top Polygon) {
	b0 := p.Project(gx, gy+d, 0)
	b1 := p.Project(gx+w, gy+d, 0)
	b2 := p.Project(gx+w, gy, 0)
	t0 := p.Project(gx, gy+d, h)
	t1 := p.Project(gx+w, gy+d, h)
	t2 := p.Project(gx+w, gy, h)
	t3 := p.Project(gx, gy, h)
	left = Polygon{b0, b1, t1, t0}
	right = Polygon{b1, b2, t2, t1}
	top = Polygon{t0, t1, t2, t3}
	return left, right, top
}
