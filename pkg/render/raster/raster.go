// Package raster implements [canvas.Canvas] on top of fogleman/gg.
//
// Geometry is transformed on the CPU with the canvas's own affine stack and
// handed to gg in device pixels, so arbitrary transforms (including mirrors
// from wallpaper groups) apply uniformly to every primitive. Layers are
// separate RGBA buffers composited with [canvas.Composite] when closed.
package raster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
)

const ellipseSegments = 64

// Option configures a raster Canvas.
type Option func(*Canvas)

// WithFont sets the font used for Text.
func WithFont(f *fonts.Font) Option { return func(c *Canvas) { c.font = f } }

// WithAntialias toggles antialiasing of filled shapes. It is on by default;
// pixel-grid sketches turn it off to keep cell edges crisp.
func WithAntialias(on bool) Option { return func(c *Canvas) { c.antialias = on } }

type state struct {
	paint canvas.Paint
	m     geom.Affine
}

type layer struct {
	img   *image.RGBA
	dc    *gg.Context
	blend canvas.Blend
}

// Canvas draws into an RGBA image.
type Canvas struct {
	w, h      float64
	scale     float64
	font      *fonts.Font
	antialias bool

	base   layer
	layers []layer
	paint  canvas.Paint
	m      geom.Affine
	stack  []state
}

var _ canvas.Canvas = (*Canvas)(nil)

// New creates a canvas of logical size w×h at the given scale. The backing
// image is ceil(w*scale)×ceil(h*scale) pixels.
func New(w, h, scale float64, opts ...Option) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{
		w: w, h: h, scale: scale,
		font:      fonts.Default(),
		antialias: true,
		paint:     canvas.DefaultPaint(),
		m:         geom.Identity(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.base = c.newLayer(canvas.Normal)
	return c
}

func (c *Canvas) newLayer(b canvas.Blend) layer {
	pw := int(math.Ceil(c.w * c.scale))
	ph := int(math.Ceil(c.h * c.scale))
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	return layer{img: img, dc: gg.NewContextForRGBA(img), blend: b}
}

func (c *Canvas) top() *gg.Context {
	if n := len(c.layers); n > 0 {
		return c.layers[n-1].dc
	}
	return c.base.dc
}

// device returns the full logical-to-pixel transform.
func (c *Canvas) device() geom.Affine {
	return c.m.Then(geom.Scale(c.scale, c.scale))
}

// Image returns the composited image. Open layers are not included.
func (c *Canvas) Image() *image.RGBA { return c.base.img }

// EncodePNG writes the composited image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.base.dc.EncodePNG(w) }

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }
func (c *Canvas) Scale() float64           { return c.scale }

func (c *Canvas) Clear(col color.Color) {
	dc := c.top()
	dc.Push()
	dc.Identity()
	dc.SetColor(col)
	dc.Clear()
	dc.Pop()
}

func (c *Canvas) SetFill(col color.Color) { c.paint.Fill = col }

func (c *Canvas) SetStroke(col color.Color, width float64) {
	c.paint.Stroke = col
	c.paint.StrokeWidth = width
}

func (c *Canvas) NoFill()   { c.paint.Fill = nil }
func (c *Canvas) NoStroke() { c.paint.Stroke = nil }

func (c *Canvas) Rect(x, y, w, h float64) {
	c.path(geom.Polygon{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, true)
}

func (c *Canvas) Circle(x, y, r float64) {
	d := c.device()
	if d.B == 0 && d.C == 0 && math.Abs(d.A) == math.Abs(d.D) {
		p := d.Apply(geom.Pt(x, y))
		dc := c.top()
		dc.DrawCircle(p.X, p.Y, r*math.Abs(d.A))
		c.paintPath(dc, d)
		return
	}
	c.Ellipse(x, y, r, r)
}

func (c *Canvas) Ellipse(x, y, rx, ry float64) {
	pts := make(geom.Polygon, ellipseSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = geom.Pt(x+rx*math.Cos(a), y+ry*math.Sin(a))
	}
	c.path(pts, true)
}

func (c *Canvas) Polygon(pts []geom.Point) { c.path(pts, true) }

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	if c.paint.Stroke == nil {
		return
	}
	d := c.device()
	a := d.Apply(geom.Pt(x1, y1))
	b := d.Apply(geom.Pt(x2, y2))
	dc := c.top()
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.SetColor(c.paint.Stroke)
	dc.SetLineWidth(c.paint.StrokeWidth * lineScale(d))
	dc.Stroke()
}

func (c *Canvas) Text(s string, x, y, size float64) {
	if c.paint.Fill == nil {
		return
	}
	d := c.device()
	p := d.Apply(geom.Pt(x, y))
	dc := c.top()
	dc.SetFontFace(c.font.Face(size * lineScale(d)))
	dc.SetColor(c.paint.Fill)
	dc.DrawStringAnchored(s, p.X, p.Y, 0.5, 0.35)
}

func (c *Canvas) Push() { c.stack = append(c.stack, state{paint: c.paint, m: c.m}) }

func (c *Canvas) Pop() {
	if len(c.stack) == 0 {
		return
	}
	s := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.paint, c.m = s.paint, s.m
}

func (c *Canvas) Translate(x, y float64)  { c.m = geom.Translate(x, y).Then(c.m) }
func (c *Canvas) Rotate(rad float64)      { c.m = geom.Rotate(rad).Then(c.m) }
func (c *Canvas) ScaleBy(sx, sy float64)  { c.m = geom.Scale(sx, sy).Then(c.m) }
func (c *Canvas) Transform(m geom.Affine) { c.m = m.Then(c.m) }

func (c *Canvas) BeginLayer(b canvas.Blend) {
	c.layers = append(c.layers, c.newLayer(b))
}

func (c *Canvas) EndLayer() {
	n := len(c.layers)
	if n == 0 {
		return
	}
	l := c.layers[n-1]
	c.layers = c.layers[:n-1]
	dst := c.base.img
	if n > 1 {
		dst = c.layers[n-2].img
	}
	canvas.Composite(dst, l.img, l.blend)
}

func (c *Canvas) path(pts []geom.Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	d := c.device()
	dc := c.top()
	dc.NewSubPath()
	for i, p := range pts {
		q := d.Apply(p)
		if i == 0 {
			dc.MoveTo(q.X, q.Y)
		} else {
			dc.LineTo(q.X, q.Y)
		}
	}
	if closed {
		dc.ClosePath()
	}
	c.paintPath(dc, d)
}

func (c *Canvas) paintPath(dc *gg.Context, d geom.Affine) {
	switch {
	case c.paint.Fill != nil && c.paint.Stroke != nil:
		dc.SetColor(c.paint.Fill)
		c.fill(dc, true)
		dc.SetColor(c.paint.Stroke)
		dc.SetLineWidth(c.paint.StrokeWidth * lineScale(d))
		dc.Stroke()
	case c.paint.Fill != nil:
		dc.SetColor(c.paint.Fill)
		c.fill(dc, false)
	case c.paint.Stroke != nil:
		dc.SetColor(c.paint.Stroke)
		dc.SetLineWidth(c.paint.StrokeWidth * lineScale(d))
		dc.Stroke()
	default:
		dc.ClearPath()
	}
}

func (c *Canvas) fill(dc *gg.Context, preserve bool) {
	if !c.antialias {
		// gg has no antialias switch; a hairline stroke in the fill color
		// closes the seams between adjacent cells.
		dc.SetLineWidth(1)
		dc.FillPreserve()
		if preserve {
			return
		}
		dc.Stroke()
		return
	}
	if preserve {
		dc.FillPreserve()
		return
	}
	dc.Fill()
}

func lineScale(d geom.Affine) float64 {
	return math.Sqrt(math.Abs(d.Det()))
}
