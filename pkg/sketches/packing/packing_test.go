package packing

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

var update = flag.Bool("update", false, "rewrite golden files")

func TestGoldenContainers(t *testing.T) {
	c, err := sketch.Generate(New(), 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 540 || c.Height != 675 || c.Stats.Target != 20 {
		t.Fatalf("unexpected defaults: %vx%v target %d", c.Width, c.Height, c.Stats.Target)
	}

	var buf bytes.Buffer
	for _, e := range containers(c) {
		fmt.Fprintf(&buf, "%.6f %.6f %.6f %.6f %d\n", e.X, e.Y, e.R, e.Rotation, e.Sides)
	}
	got := buf.Bytes()

	path := filepath.Join("testdata", "containers_seed32.golden")
	if *update {
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatal(err)
		}
		t.Logf("wrote %s", path)
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file (run with -update to create it): %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("container list for seed 32 changed:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDeterministic(t *testing.T) {
	patch := map[string]string{KeyAttempts: "8000", KeyFillerAttempts: "300"}
	a, err := sketch.Generate(New(), 7, patch)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := sketch.Generate(New(), 7, patch)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and config produced different compositions")
	}
	other, _ := sketch.Generate(New(), 8, patch)
	if reflect.DeepEqual(a.Entities, other.Entities) {
		t.Error("different seeds produced identical entities")
	}
}

func TestNoOverlap(t *testing.T) {
	c, err := sketch.Generate(New(), 11, map[string]string{KeyAttempts: "20000"})
	if err != nil {
		t.Fatal(err)
	}
	var polys []geom.Polygon
	for _, e := range c.Entities {
		polys = append(polys, Polygon(e))
	}
	for i := range polys {
		for j := i + 1; j < len(polys); j++ {
			if !geom.PolygonsClear(polys[i], polys[j], 6-1e-9) {
				t.Fatalf("top-level shapes %d and %d closer than padding", i, j)
			}
		}
	}
	for _, e := range containers(c) {
		outline := Polygon(e)
		for _, f := range e.Children {
			if !geom.Inset(outline, Polygon(f), 3-1e-9) {
				t.Fatalf("filler escapes its container")
			}
		}
	}
}

func TestImpossibleDensityTerminates(t *testing.T) {
	c, err := sketch.Generate(New(), 1, map[string]string{
		KeyMinR: "300", KeyMaxR: "300", KeyAttempts: "500", KeyFree: "0",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Stats.Accepted >= 20 {
		t.Errorf("accepted %d containers of radius 300", c.Stats.Accepted)
	}
	if c.Stats.Attempts != 500 {
		t.Errorf("attempts = %d, want 500", c.Stats.Attempts)
	}
}

func TestRenderLayers(t *testing.T) {
	c, err := sketch.Generate(New(), 3, map[string]string{KeyAttempts: "5000", sketch.KeyDebug: "true"})
	if err != nil {
		t.Fatal(err)
	}
	before, _ := json.Marshal(c)

	rec := canvas.NewRecorder(c.Width, c.Height, 1)
	New().Render(c, rec)
	after, _ := json.Marshal(c)
	if !bytes.Equal(before, after) {
		t.Fatal("Render modified the composition")
	}
	if rec.Count("begin") != 1 || rec.Count("end") != 1 {
		t.Errorf("overlay layer begin/end = %d/%d", rec.Count("begin"), rec.Count("end"))
	}
	if rec.Count("text") != 1 {
		t.Errorf("debug overlay text ops = %d", rec.Count("text"))
	}

	hidden := canvas.NewRecorder(c.Width, c.Height, 1)
	New().Render(c.WithLayerToggled(LayerOverlay), hidden)
	if hidden.Count("begin") != 0 {
		t.Error("toggled overlay still drawn")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := sketch.Generate(New(), 1, map[string]string{KeySidesMin: "2"}); err == nil {
		t.Error("sidesMin below 3 accepted")
	}
}
