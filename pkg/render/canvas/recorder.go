package canvas

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/sketchbook/pkg/geom"
)

// Op is one recorded drawing call.
type Op struct {
	Name string
	Args []float64
	Text string
	Fill color.Color
	// Transform is the accumulated transform when the op was issued.
	Transform geom.Affine
	Blend     Blend
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s(%q %v)", o.Name, o.Text, o.Args)
	}
	return fmt.Sprintf("%s%v", o.Name, o.Args)
}

// Recorder is a Canvas that records calls instead of drawing. It is used to
// test render routines without a raster backend and to count what a
// composition would draw.
type Recorder struct {
	W, H  float64
	S     float64
	Ops   []Op
	paint Paint
	m     geom.Affine
	stack []recState
	layer []Blend
}

type recState struct {
	paint Paint
	m     geom.Affine
}

// NewRecorder returns an empty recorder of the given logical size.
func NewRecorder(w, h, scale float64) *Recorder {
	if scale <= 0 {
		scale = 1
	}
	return &Recorder{W: w, H: h, S: scale, paint: DefaultPaint(), m: geom.Identity()}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }
func (r *Recorder) Scale() float64           { return r.S }

func (r *Recorder) Clear(c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "clear", Fill: c, Transform: r.m})
}

func (r *Recorder) SetFill(c color.Color) { r.paint.Fill = c }

func (r *Recorder) SetStroke(c color.Color, width float64) {
	r.paint.Stroke = c
	r.paint.StrokeWidth = width
}

func (r *Recorder) NoFill()   { r.paint.Fill = nil }
func (r *Recorder) NoStroke() { r.paint.Stroke = nil }

func (r *Recorder) Rect(x, y, w, h float64)     { r.record("rect", x, y, w, h) }
func (r *Recorder) Circle(x, y, rad float64)    { r.record("circle", x, y, rad) }
func (r *Recorder) Ellipse(x, y, rx, ry float64) { r.record("ellipse", x, y, rx, ry) }
func (r *Recorder) Line(x1, y1, x2, y2 float64) { r.record("line", x1, y1, x2, y2) }

func (r *Recorder) Polygon(pts []geom.Point) {
	args := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		args = append(args, p.X, p.Y)
	}
	r.record("polygon", args...)
}

func (r *Recorder) Text(s string, x, y, size float64) {
	r.Ops = append(r.Ops, Op{Name: "text", Text: s, Args: []float64{x, y, size}, Fill: r.paint.Fill, Transform: r.m, Blend: r.current()})
}

func (r *Recorder) Push() { r.stack = append(r.stack, recState{paint: r.paint, m: r.m}) }

func (r *Recorder) Pop() {
	if len(r.stack) == 0 {
		return
	}
	s := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.paint, r.m = s.paint, s.m
}

func (r *Recorder) Translate(x, y float64)  { r.m = geom.Translate(x, y).Then(r.m) }
func (r *Recorder) Rotate(rad float64)      { r.m = geom.Rotate(rad).Then(r.m) }
func (r *Recorder) ScaleBy(sx, sy float64)  { r.m = geom.Scale(sx, sy).Then(r.m) }
func (r *Recorder) Transform(m geom.Affine) { r.m = m.Then(r.m) }

func (r *Recorder) BeginLayer(b Blend) {
	r.layer = append(r.layer, b)
	r.Ops = append(r.Ops, Op{Name: "begin", Blend: b})
}

func (r *Recorder) EndLayer() {
	if len(r.layer) == 0 {
		return
	}
	b := r.layer[len(r.layer)-1]
	r.layer = r.layer[:len(r.layer)-1]
	r.Ops = append(r.Ops, Op{Name: "end", Blend: b})
}

// Count returns how many ops with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, o := range r.Ops {
		if o.Name == name {
			n++
		}
	}
	return n
}

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args, Fill: r.paint.Fill, Transform: r.m, Blend: r.current()})
}

func (r *Recorder) current() Blend {
	if len(r.layer) == 0 {
		return Normal
	}
	return r.layer[len(r.layer)-1]
}
