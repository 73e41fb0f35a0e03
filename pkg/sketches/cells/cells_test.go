package cells

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/automaton"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

func TestGenerate(t *testing.T) {
	for _, rule := range []string{"a", "b", "c"} {
		t.Run(rule, func(t *testing.T) {
			patch := map[string]string{KeyRule: rule, KeySteps: "12"}
			c, err := sketch.Generate(New(), 9, patch)
			if err != nil {
				t.Fatal(err)
			}
			if c.Grid.W != 60 || c.Grid.H != 75 {
				t.Fatalf("grid %dx%d, want 60x75", c.Grid.W, c.Grid.H)
			}
			for i, s := range c.Grid.Cells {
				if s >= automaton.NumStates {
					t.Fatalf("cell %d state %d", i, s)
				}
			}
			if c.Stats.Accepted != 12 {
				t.Errorf("steps = %d, want 12", c.Stats.Accepted)
			}
			again, _ := sketch.Generate(New(), 9, patch)
			if !reflect.DeepEqual(c, again) {
				t.Error("not deterministic")
			}
		})
	}
}

func TestStepsAdvance(t *testing.T) {
	zero, _ := sketch.Generate(New(), 4, map[string]string{KeySteps: "0"})
	some, _ := sketch.Generate(New(), 4, map[string]string{KeySteps: "5"})
	if reflect.DeepEqual(zero.Grid.Cells, some.Grid.Cells) {
		t.Error("running generations did not change the grid")
	}
}

func TestRenderRuns(t *testing.T) {
	c, err := sketch.Generate(New(), 2, map[string]string{KeyCell: "27", KeySteps: "3"})
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

	covered := 0.0
	for _, op := range rec.Ops {
		if op.Name == "rect" {
			covered += op.Args[2] / c.Grid.CellSize
		}
	}
	nonzero := 0
	for _, s := range c.Grid.Cells {
		if s != 0 {
			nonzero++
		}
	}
	if int(covered+0.5) != nonzero {
		t.Errorf("rects cover %v cells, want %d", covered, nonzero)
	}
}

func TestBadRule(t *testing.T) {
	if _, err := sketch.Generate(New(), 1, map[string]string{KeyRule: "z"}); err == nil {
		t.Error("unknown rule accepted")
	}
}
