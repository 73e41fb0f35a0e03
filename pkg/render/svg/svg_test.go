package svg

import (
	"encoding/xml"
	"errors"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/render/canvas"
)

func TestDocumentIsWellFormed(t *testing.T) {
	c := New(100, 50, 2, WithTitle("a < b"))
	c.Clear(color.White)
	c.SetFill(color.RGBA{255, 0, 0, 255})
	c.SetStroke(color.Black, 2)
	c.Rect(1, 2, 3, 4)
	c.Circle(10, 10, 5)
	c.Text("x & y", 50, 25, 12)
	c.BeginLayer(canvas.Difference)
	c.Ellipse(20, 20, 3, 4)

	out := c.Bytes()
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}

	s := string(out)
	for _, want := range []string{
		`viewBox="0 0 100 50"`,
		`width="200"`,
		`fill="#ff0000"`,
		`stroke-width="2"`,
		`mix-blend-mode:difference`,
		`x &amp; y`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestTransformAttribute(t *testing.T) {
	c := New(10, 10, 1)
	c.Push()
	c.Translate(3, 4)
	c.Rect(0, 0, 1, 1)
	c.Pop()
	c.Rect(0, 0, 1, 1)

	s := string(c.Bytes())
	if !strings.Contains(s, `transform="translate(3 4)"`) {
		t.Errorf("missing translate:\n%s", s)
	}
	if strings.Count(s, "transform=") != 1 {
		t.Errorf("Pop should drop the transform:\n%s", s)
	}
}

func TestOpacity(t *testing.T) {
	c := New(10, 10, 1)
	c.SetFill(canvas.Fade(color.Black, 0.5))
	c.NoStroke()
	c.Circle(1, 1, 1)
	if s := string(c.Bytes()); !strings.Contains(s, `fill-opacity="0.5"`) {
		t.Errorf("missing fill-opacity:\n%s", s)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{1: "1", 1.5: "1.5", 1.234: "1.23", -0.001: "0", 0: "0"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
