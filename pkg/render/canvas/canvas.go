// Package canvas defines the draw target every sketch renders into.
//
// Sketches never draw to a concrete surface directly. Render routines take a
// [Canvas] argument and issue drawing calls in composition units; the
// implementation decides where the result lands (a raster image in
// [github.com/matzehuels/sketchbook/pkg/render/raster], SVG markup in
// [github.com/matzehuels/sketchbook/pkg/render/svg], or a [Recorder] in
// tests). The same render routine therefore produces the screen picture and
// every export.
//
// # Scale
//
// A canvas carries a uniform scale factor (1 for screen and 1x PNG, 2 for
// high-resolution PNG). Implementations multiply all geometry by it, so
// layout math in sketches never changes with output density.
//
// # Layers
//
// [Canvas.BeginLayer] starts an offscreen group that is composited onto
// everything drawn so far when [Canvas.EndLayer] is called, using the given
// [Blend]. Raster canvases composite per pixel with [Composite]; SVG canvases
// emit a group with a mix-blend-mode style.
package canvas

import (
	"image/color"

	"github.com/matzehuels/sketchbook/pkg/geom"
)

// Canvas is a late-bound 2D drawing target.
type Canvas interface {
	// Size returns the logical size in composition units.
	Size() (w, h float64)
	// Scale returns the output density multiplier.
	Scale() float64

	// Clear fills the whole canvas with c, ignoring the transform.
	Clear(c color.Color)

	SetFill(c color.Color)
	SetStroke(c color.Color, width float64)
	NoFill()
	NoStroke()

	Rect(x, y, w, h float64)
	Circle(x, y, r float64)
	Ellipse(x, y, rx, ry float64)
	Polygon(pts []geom.Point)
	Line(x1, y1, x2, y2 float64)
	Text(s string, x, y, size float64)

	// Push saves the transform and paint state; Pop restores it.
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(rad float64)
	ScaleBy(sx, sy float64)
	Transform(m geom.Affine)

	BeginLayer(b Blend)
	EndLayer()
}

// Paint is the fill and stroke state shared by canvas implementations.
type Paint struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// DefaultPaint returns black fill, no stroke.
func DefaultPaint() Paint {
	return Paint{Fill: color.Black, StrokeWidth: 1}
}

// Fade returns c with its alpha multiplied by a in [0, 1].
func Fade(c color.Color, a float64) color.Color {
	r, g, b, al := c.RGBA()
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA64{
		R: uint16(unpremul(r, al)),
		G: uint16(unpremul(g, al)),
		B: uint16(unpremul(b, al)),
		A: uint16(float64(al) * a),
	}
}

func unpremul(v, a uint32) uint32 {
	if a == 0 {
		return 0
	}
	return v * 0xffff / a
}
