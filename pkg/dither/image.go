package dither

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// LoadImage opens an image file in any format imaging supports.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "open image %s", path)
	}
	return img, nil
}

// FromImage resamples img to cols×rows and returns its luminance field.
// contrast is a percentage in [-100, 100] applied before sampling.
func FromImage(img image.Image, cols, rows int, w Weights, contrast float64) *Field {
	src := img
	if contrast != 0 {
		src = imaging.AdjustContrast(src, contrast)
	}
	small := imaging.Resize(src, cols, rows, imaging.Box)
	f := NewField(cols, rows, 0)
	for y := range rows {
		for x := range cols {
			c := small.NRGBAAt(x, y)
			f.Set(x, y, Luminance(float64(c.R), float64(c.G), float64(c.B), w))
		}
	}
	return f
}

// Placeholder returns a w×h radial gradient, light in the centre and dark at
// the corners. It stands in for a source image that could not be loaded.
func Placeholder(w, h int) image.Image {
	img := imaging.New(w, h, color.Black)
	cx, cy := float64(w)/2, float64(h)/2
	maxD := math.Hypot(cx, cy)
	for y := range h {
		for x := range w {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / maxD
			v := uint8(255 * (1 - d))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}
