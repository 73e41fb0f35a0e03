package sketch

import (
	"reflect"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/geom"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

type dotsSketch struct{}

func (dotsSketch) Info() Info { return Info{Name: "dots", Title: "Dots"} }

func (dotsSketch) Params() []Param {
	return append(CanvasParams(100, 100),
		Param{Key: "count", Type: ParamInt, Default: "5", Min: 0, HasMin: true, Max: 50, HasMax: true},
		Param{Key: "shape", Type: ParamString, Default: "circle", Choices: []string{"circle", "square"}},
		Param{Key: "spread", Type: ParamFloat, Default: "1", Min: 0, HasMin: true},
		Param{Key: "mask", Type: ParamString, Default: "", Asset: true},
	)
}

func (dotsSketch) Generate(r *rng.RNG, cfg Config) (*Composition, error) {
	c := NewComposition(cfg)
	for i := range cfg.Int("count", 5) {
		c.Entities = append(c.Entities, Entity{
			Kind: cfg.String("shape", "circle"), X: r.Range(0, c.Width), Y: r.Range(0, c.Height),
			R: r.Range(1, 5), Color: 1 + i%3,
		})
	}
	return c, nil
}

func (dotsSketch) Render(c *Composition, cv canvas.Canvas) {
	for _, e := range c.Entities {
		cv.Circle(e.X, e.Y, e.R)
	}
}

func TestApplyPatch(t *testing.T) {
	params := dotsSketch{}.Params()
	base := Defaults(params)

	tests := []struct {
		name    string
		patch   map[string]string
		wantErr bool
	}{
		{"valid int", map[string]string{"count": "7"}, false},
		{"valid choice", map[string]string{"shape": "square"}, false},
		{"unknown key", map[string]string{"radius": "3"}, true},
		{"not an int", map[string]string{"count": "many"}, true},
		{"above max", map[string]string{"count": "51"}, true},
		{"bad choice", map[string]string{"shape": "star"}, true},
		{"bad bool", map[string]string{"debug": "maybe"}, true},
		{"valid float", map[string]string{"spread": "2.5"}, false},
		{"NaN float", map[string]string{"spread": "NaN"}, true},
		{"infinite float", map[string]string{"spread": "+Inf"}, true},
		{"negative infinite float", map[string]string{"spread": "-inf"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.ApplyPatch(tt.patch, params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyPatch error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
				}
				if !reflect.DeepEqual(got, base) {
					t.Error("failed patch should return the original config")
				}
			}
		})
	}

	patched, _ := base.ApplyPatch(map[string]string{"count": "9"}, params)
	if base["count"] != "5" {
		t.Error("ApplyPatch mutated the receiver")
	}
	if patched.Int("count", 0) != 9 {
		t.Errorf("patched count = %d", patched.Int("count", 0))
	}
}

func TestRejectAssets(t *testing.T) {
	params := dotsSketch{}.Params()

	if err := RejectAssets(params, map[string]string{"count": "3", "spread": "2"}); err != nil {
		t.Errorf("plain patch rejected: %v", err)
	}
	err := RejectAssets(params, map[string]string{"mask": "/etc/passwd"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("asset patch: err = %v, want INVALID_CONFIG", err)
	}
	if err := RejectAssets(params, nil); err != nil {
		t.Errorf("nil patch: %v", err)
	}
}

func TestTypedAccessors(t *testing.T) {
	c := Config{"i": "3", "f": "2.5", "b": "true", "junk": "x"}
	if c.Int("i", 0) != 3 || c.Int("junk", 4) != 4 || c.Int("missing", 5) != 5 {
		t.Error("Int accessor")
	}
	if c.Float("f", 0) != 2.5 || c.Float("junk", 1.5) != 1.5 {
		t.Error("Float accessor")
	}
	if !c.Bool("b", false) || c.Bool("junk", false) {
		t.Error("Bool accessor")
	}
}

func TestParsePatch(t *testing.T) {
	p, err := ParsePatch([]string{"maxR=200", " minR = 8 "})
	if err != nil {
		t.Fatal(err)
	}
	if p["maxR"] != "200" || p["minR"] != "8" {
		t.Errorf("ParsePatch = %v", p)
	}
	if _, err := ParsePatch([]string{"novalue"}); err == nil {
		t.Error("missing '=' should fail")
	}
	if _, err := ParsePatch([]string{"bad-key=1"}); err == nil {
		t.Error("invalid key should fail")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := dotsSketch{}
	a, err := Generate(s, 42, map[string]string{"count": "10"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(s, 42, map[string]string{"count": "10"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and config produced different compositions")
	}
	if a.Sketch != "dots" || a.Seed != 42 || len(a.Entities) != 10 {
		t.Errorf("composition header = %s/%d/%d", a.Sketch, a.Seed, len(a.Entities))
	}
	if a.Palette.Len() == 0 {
		t.Error("palette not assigned")
	}

	c, _ := Generate(s, 43, map[string]string{"count": "10"})
	if reflect.DeepEqual(a.Entities, c.Entities) {
		t.Error("different seeds produced identical entities")
	}
}

func TestPaletteChoiceDoesNotShiftLayout(t *testing.T) {
	s := dotsSketch{}
	set := palette.Set{
		{Name: "a", NumColors: 3, Colors: []string{"#000", "#111", "#222"}},
		{Name: "b", NumColors: 3, Colors: []string{"#fff", "#eee", "#ddd"}},
	}
	named, err := Generate(s, 9, map[string]string{"palette": "b"}, WithPalettes(set))
	if err != nil {
		t.Fatal(err)
	}
	free, _ := Generate(s, 9, nil, WithPalettes(set))
	if named.Palette.Name != "b" {
		t.Errorf("palette = %q, want b", named.Palette.Name)
	}
	if !reflect.DeepEqual(named.Entities, free.Entities) {
		t.Error("naming a palette changed the layout")
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := Generate(dotsSketch{}, 1, map[string]string{"nope": "1"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := geom.Translate(1, 2)
	c := &Composition{
		Palette:  palette.Palette{Colors: []string{"#000"}},
		Config:   Config{"a": "1"},
		Entities: []Entity{{Kind: "container", Points: []geom.Point{{X: 1}}, Children: []Entity{{Kind: "filler"}}, Transform: &m}},
		Grid:     NewGrid(2, 2, 1),
		Layers:   []Layer{{Name: "overlay", Visible: true}},
	}
	d := c.Clone()
	d.Palette.Colors[0] = "#fff"
	d.Config["a"] = "2"
	d.Entities[0].Points[0].X = 9
	d.Entities[0].Children[0].Kind = "changed"
	d.Entities[0].Transform.E = 99
	d.Grid.Cells[0] = 7
	d.Layers[0].Visible = false

	if c.Palette.Colors[0] != "#000" || c.Config["a"] != "1" || c.Entities[0].Points[0].X != 1 ||
		c.Entities[0].Children[0].Kind != "filler" || c.Entities[0].Transform.E != 1 ||
		c.Grid.Cells[0] != 0 || !c.Layers[0].Visible {
		t.Error("Clone shares state with the original")
	}
	if c.Count() != 2 {
		t.Errorf("Count = %d, want 2", c.Count())
	}
}

func TestLayerToggle(t *testing.T) {
	c := &Composition{Layers: []Layer{{Name: "overlay", Visible: true}}}
	d := c.WithLayerToggled("overlay")
	if d.LayerVisible("overlay") || !c.LayerVisible("overlay") {
		t.Error("toggle should affect only the clone")
	}
	if !c.LayerVisible("undeclared") {
		t.Error("undeclared layers are visible")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(dotsSketch{})
	if _, err := r.Lookup("dots"); err != nil {
		t.Fatalf("Lookup(dots): %v", err)
	}
	for _, name := range []string{"missing", "", "../x"} {
		if _, err := r.Lookup(name); !errors.Is(err, errors.ErrCodeUnknownSketch) {
			t.Errorf("Lookup(%q) code = %v, want UNKNOWN_SKETCH", name, errors.GetCode(err))
		}
	}
	if got := r.Names(); len(got) != 1 || got[0] != "dots" {
		t.Errorf("Names = %v", got)
	}
}
