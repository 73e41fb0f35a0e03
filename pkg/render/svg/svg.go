// Package svg implements [canvas.Canvas] by writing SVG markup into a buffer.
//
// The document's viewBox is the logical canvas size and its width and height
// attributes are the scaled size, so the scale factor never touches element
// coordinates. Transforms are emitted as matrix() attributes and layers as
// groups with a mix-blend-mode style.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
)

// Option configures an SVG Canvas.
type Option func(*Canvas)

// WithEmbeddedFont embeds f as a base64 @font-face so text renders the same
// in any viewer.
func WithEmbeddedFont(f *fonts.Font) Option { return func(c *Canvas) { c.font = f } }

// WithTitle sets the document <title>.
func WithTitle(s string) Option { return func(c *Canvas) { c.title = s } }

type state struct {
	paint canvas.Paint
	m     geom.Affine
}

// Canvas accumulates SVG elements.
type Canvas struct {
	w, h  float64
	scale float64
	font  *fonts.Font
	title string

	buf   bytes.Buffer
	paint canvas.Paint
	m     geom.Affine
	stack []state
	depth int
}

var _ canvas.Canvas = (*Canvas)(nil)

// New creates an SVG canvas with logical size w×h.
func New(w, h, scale float64, opts ...Option) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{w: w, h: h, scale: scale, paint: canvas.DefaultPaint(), m: geom.Identity()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bytes returns the complete SVG document. Open layers are closed.
func (c *Canvas) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" style="isolation:isolate">`+"\n",
		num(c.w), num(c.h), num(c.w*c.scale), num(c.h*c.scale))
	if c.title != "" {
		out.WriteString("  <title>")
		_ = xml.EscapeText(&out, []byte(c.title))
		out.WriteString("</title>\n")
	}
	if c.font != nil {
		fmt.Fprintf(&out, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s); }</style></defs>\n",
			fonts.FontFamily, c.font.Base64())
	}
	out.Write(c.buf.Bytes())
	for range c.depth {
		out.WriteString("</g>\n")
	}
	out.WriteString("</svg>\n")
	return out.Bytes()
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }
func (c *Canvas) Scale() float64           { return c.scale }

func (c *Canvas) Clear(col color.Color) {
	hex, op := paint(col)
	fmt.Fprintf(&c.buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"%s/>`+"\n",
		num(c.w), num(c.h), hex, opacity("fill-opacity", op))
}

func (c *Canvas) SetFill(col color.Color) { c.paint.Fill = col }

func (c *Canvas) SetStroke(col color.Color, width float64) {
	c.paint.Stroke = col
	c.paint.StrokeWidth = width
}

func (c *Canvas) NoFill()   { c.paint.Fill = nil }
func (c *Canvas) NoStroke() { c.paint.Stroke = nil }

func (c *Canvas) Rect(x, y, w, h float64) {
	fmt.Fprintf(&c.buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		num(x), num(y), num(w), num(h), c.attrs())
}

func (c *Canvas) Circle(x, y, r float64) {
	fmt.Fprintf(&c.buf, `  <circle cx="%s" cy="%s" r="%s"%s/>`+"\n", num(x), num(y), num(r), c.attrs())
}

func (c *Canvas) Ellipse(x, y, rx, ry float64) {
	fmt.Fprintf(&c.buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
		num(x), num(y), num(rx), num(ry), c.attrs())
}

func (c *Canvas) Polygon(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(',')
		sb.WriteString(num(p.Y))
	}
	fmt.Fprintf(&c.buf, `  <polygon points="%s"%s/>`+"\n", sb.String(), c.attrs())
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	if c.paint.Stroke == nil {
		return
	}
	fmt.Fprintf(&c.buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), c.attrs())
}

func (c *Canvas) Text(s string, x, y, size float64) {
	if c.paint.Fill == nil {
		return
	}
	hex, op := paint(c.paint.Fill)
	fmt.Fprintf(&c.buf, `  <text x="%s" y="%s" font-size="%s" font-family="%s" text-anchor="middle" dominant-baseline="central" fill="%s"%s%s>`,
		num(x), num(y), num(size), fonts.FallbackFontFamily, hex, opacity("fill-opacity", op), c.transform())
	_ = xml.EscapeText(&c.buf, []byte(s))
	c.buf.WriteString("</text>\n")
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
	c.depth++
	if b == canvas.Normal {
		c.buf.WriteString("  <g>\n")
		return
	}
	fmt.Fprintf(&c.buf, "  <g style=\"mix-blend-mode:%s\">\n", b)
}

func (c *Canvas) EndLayer() {
	if c.depth == 0 {
		return
	}
	c.depth--
	c.buf.WriteString("  </g>\n")
}

func (c *Canvas) attrs() string {
	var sb strings.Builder
	if c.paint.Fill == nil {
		sb.WriteString(` fill="none"`)
	} else {
		hex, op := paint(c.paint.Fill)
		fmt.Fprintf(&sb, ` fill="%s"%s`, hex, opacity("fill-opacity", op))
	}
	if c.paint.Stroke != nil {
		hex, op := paint(c.paint.Stroke)
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%s"%s`, hex, num(c.paint.StrokeWidth), opacity("stroke-opacity", op))
	}
	sb.WriteString(c.transform())
	return sb.String()
}

func (c *Canvas) transform() string {
	m := c.m
	if m.Approx(geom.Identity(), 1e-12) {
		return ""
	}
	if m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 {
		return fmt.Sprintf(` transform="translate(%s %s)"`, num(m.E), num(m.F))
	}
	return fmt.Sprintf(` transform="matrix(%s %s %s %s %s %s)"`,
		num(m.A), num(m.B), num(m.C), num(m.D), num(m.E), num(m.F))
}

// paint converts c to a #rrggbb string and an opacity in [0, 1].
func paint(c color.Color) (string, float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}

func opacity(attr string, op float64) string {
	if op >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, attr, num(op))
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
