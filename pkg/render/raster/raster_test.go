package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/render/canvas"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func TestScaleDoublesPixels(t *testing.T) {
	c := New(50, 40, 2)
	b := c.Image().Bounds()
	if b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("bounds = %v, want 100x80", b)
	}
	w, h := c.Size()
	if w != 50 || h != 40 {
		t.Errorf("Size() = %v,%v, want logical 50,40", w, h)
	}
}

func TestRectFill(t *testing.T) {
	c := New(20, 20, 1)
	c.Clear(white)
	c.SetFill(red)
	c.NoStroke()
	c.Rect(5, 5, 10, 10)

	if got := c.Image().RGBAAt(10, 10); got != red {
		t.Errorf("inside pixel = %+v, want red", got)
	}
	if got := c.Image().RGBAAt(1, 1); got != white {
		t.Errorf("outside pixel = %+v, want white", got)
	}
}

func TestTranslateIsScaled(t *testing.T) {
	c := New(20, 20, 2)
	c.Clear(white)
	c.SetFill(red)
	c.NoStroke()
	c.Push()
	c.Translate(10, 10)
	c.Rect(0, 0, 5, 5)
	c.Pop()

	if got := c.Image().RGBAAt(25, 25); got != red {
		t.Errorf("pixel at device (25,25) = %+v, want red", got)
	}
	if got := c.Image().RGBAAt(5, 5); got != white {
		t.Errorf("pixel at device (5,5) = %+v, want white", got)
	}
}

func TestDifferenceLayer(t *testing.T) {
	c := New(10, 10, 1)
	c.Clear(white)
	c.BeginLayer(canvas.Difference)
	c.SetFill(red)
	c.NoStroke()
	c.Rect(0, 0, 10, 10)
	c.EndLayer()

	want := color.RGBA{0, 255, 255, 255}
	if got := c.Image().RGBAAt(5, 5); got != want {
		t.Errorf("difference pixel = %+v, want %+v", got, want)
	}
}

func TestEncodePNG(t *testing.T) {
	c := New(8, 8, 1)
	c.Clear(white)
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}
