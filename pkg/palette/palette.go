// Package palette models the color palettes sketches draw with.
//
// A [Palette] is an ordered list of hex colors. Index 0 is the background;
// the remaining indices are foreground and accent colors, and entity records
// refer to them by index. Palettes are loaded from a JSON asset (see [Parse]
// for the accepted shapes), narrowed with [Set.Filter] by color count, and
// chosen per composition with [Set.Select] from the composition's RNG.
//
// Loading never fails hard for callers that use [LoadOrDefault]: a missing or
// malformed asset logs a warning and the embedded default set is used, and an
// empty selection falls back to [Monochrome].
package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// Palette is a named, ordered set of colors.
type Palette struct {
	Name      string   `json:"name,omitempty"`
	NumColors int      `json:"numColors,omitempty"`
	Colors    []string `json:"colors"`
}

// Monochrome is the fallback palette used when nothing else is available.
var Monochrome = Palette{
	Name:      "monochrome",
	NumColors: 2,
	Colors:    []string{"#f4f1ea", "#111111"},
}

// Len returns the number of colors.
func (p Palette) Len() int { return len(p.Colors) }

// Hex returns color i as a hex string. Foreground indices past the end wrap
// around the foreground range, so index 1..Len()-1 repeat; an empty palette
// yields the monochrome ink.
func (p Palette) Hex(i int) string {
	n := len(p.Colors)
	switch {
	case n == 0:
		return Monochrome.Colors[1]
	case i <= 0 || n == 1:
		return p.Colors[0]
	case i < n:
		return p.Colors[i]
	default:
		return p.Colors[1+(i-1)%(n-1)]
	}
}

// Color returns color i as a colorful.Color. Unparsable entries resolve to
// black so a bad asset degrades to a visible but wrong picture.
func (p Palette) Color(i int) colorful.Color {
	c, err := colorful.Hex(p.Hex(i))
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// RGBA returns color i as an opaque color.RGBA.
func (p Palette) RGBA(i int) color.RGBA {
	r, g, b := p.Color(i).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Background returns color 0.
func (p Palette) Background() string { return p.Hex(0) }

// Foreground returns the hex colors after the background.
func (p Palette) Foreground() []string {
	if len(p.Colors) < 2 {
		return []string{p.Hex(1)}
	}
	return p.Colors[1:]
}

// Validate reports the first malformed color.
func (p Palette) Validate() error {
	if len(p.Colors) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "palette %q has no colors", p.Name)
	}
	for _, c := range p.Colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Rotate returns a copy of p whose foreground colors are shifted by n
// positions. The background stays at index 0.
func (p Palette) Rotate(n int) Palette {
	if len(p.Colors) < 3 {
		return p
	}
	fg := p.Colors[1:]
	out := make([]string, len(p.Colors))
	out[0] = p.Colors[0]
	k := len(fg)
	n = ((n % k) + k) % k
	for i := range fg {
		out[1+i] = fg[(i+n)%k]
	}
	q := p
	q.Colors = out
	return q
}

// Blend mixes color i and color j in Lab space at t in [0, 1].
func (p Palette) Blend(i, j int, t float64) string {
	return p.Color(i).BlendLab(p.Color(j), t).Clamped().Hex()
}

// Luminance returns the relative luminance of color i in [0, 1].
func (p Palette) Luminance(i int) float64 {
	r, g, b := p.Color(i).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
