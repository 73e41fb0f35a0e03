package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/geom"
)

func TestBlendChannel(t *testing.T) {
	tests := []struct {
		blend Blend
		d, s  uint8
		want  uint8
	}{
		{Normal, 10, 200, 200},
		{Difference, 10, 200, 190},
		{Difference, 200, 10, 190},
		{Multiply, 255, 128, 128},
		{Multiply, 0, 200, 0},
		{Screen, 0, 128, 128},
		{Screen, 255, 10, 255},
	}
	for _, tt := range tests {
		t.Run(tt.blend.String(), func(t *testing.T) {
			if got := tt.blend.Channel(tt.d, tt.s); got != tt.want {
				t.Errorf("%v.Channel(%d,%d) = %d, want %d", tt.blend, tt.d, tt.s, got, tt.want)
			}
		})
	}
}

func TestParseBlend(t *testing.T) {
	for i, name := range blendNames {
		b, err := ParseBlend(name)
		if err != nil || b != Blend(i) {
			t.Errorf("ParseBlend(%q) = %v, %v", name, b, err)
		}
	}
	if b, err := ParseBlend(""); err != nil || b != Normal {
		t.Errorf("ParseBlend(\"\") = %v, %v", b, err)
	}
	if _, err := ParseBlend("overlay"); err == nil {
		t.Error("ParseBlend(overlay) should fail")
	}
}

func TestCompositeDifference(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	dst.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	dst.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})

	Composite(dst, src, Difference)

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{0, 255, 255, 255}) {
		t.Errorf("difference pixel = %+v, want cyan", got)
	}
	if got := dst.RGBAAt(1, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("transparent source changed pixel: %+v", got)
	}
}

func TestRecorderTransformStack(t *testing.T) {
	r := NewRecorder(100, 100, 2)
	r.Push()
	r.Translate(10, 0)
	r.Circle(0, 0, 5)
	r.Pop()
	r.Circle(0, 0, 5)

	if len(r.Ops) != 2 {
		t.Fatalf("ops = %d, want 2", len(r.Ops))
	}
	p := r.Ops[0].Transform.Apply(geom.Pt(0, 0))
	if p.X != 10 {
		t.Errorf("translated circle at %v, want x=10", p)
	}
	if q := r.Ops[1].Transform.Apply(geom.Pt(0, 0)); q.X != 0 {
		t.Errorf("Pop did not restore transform: %v", q)
	}
	if r.Scale() != 2 {
		t.Errorf("Scale = %v", r.Scale())
	}
}

func TestRecorderLayers(t *testing.T) {
	r := NewRecorder(10, 10, 1)
	r.BeginLayer(Difference)
	r.Rect(0, 0, 1, 1)
	r.EndLayer()
	r.Rect(0, 0, 1, 1)

	if r.Ops[1].Blend != Difference {
		t.Errorf("rect in layer has blend %v", r.Ops[1].Blend)
	}
	if r.Ops[3].Blend != Normal {
		t.Errorf("rect after layer has blend %v", r.Ops[3].Blend)
	}
	if r.Count("rect") != 2 {
		t.Errorf("Count(rect) = %d", r.Count("rect"))
	}
}
