// Package sketch defines the contract every generative sketch implements and
// the immutable [Composition] value that flows between generation, rendering
// and export.
//
// # Lifecycle
//
// A sketch is a pair of functions. Generate turns a seeded [rng.RNG] and a
// resolved [Config] into a [Composition]; it is the only place randomness is
// consumed, so calling it twice with the same seed and config yields the same
// composition. Render draws a composition onto any [canvas.Canvas] without
// modifying it, which is how one composition becomes a screen image, a 2x PNG
// and an SVG that all agree.
//
// Use the package-level [Generate] rather than calling Sketch.Generate
// directly: it resolves defaults, validates the patch, seeds the RNG, and
// assigns the palette from an independent stream so palette choice never
// perturbs layout.
//
// # Degradation
//
// Generation fails only for invalid configuration. Exhausted packing budgets
// produce sparse compositions (recorded in [Stats]) and missing assets fall
// back to built-in defaults.
package sketch

import (
	"sort"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

// Info is a sketch's showcase metadata.
type Info struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Days        []int  `json:"days,omitempty"`
}

// Sketch is one generative program.
type Sketch interface {
	Info() Info
	Params() []Param
	Generate(r *rng.RNG, cfg Config) (*Composition, error)
	Render(c *Composition, cv canvas.Canvas)
}

// GenerateOption configures [Generate].
type GenerateOption func(*generateOptions)

type generateOptions struct {
	palettes palette.Set
}

// WithPalettes sets the palette library selection draws from. The embedded
// default set is used otherwise.
func WithPalettes(set palette.Set) GenerateOption {
	return func(o *generateOptions) { o.palettes = set }
}

// Generate resolves patch against the sketch's parameter defaults and runs
// the sketch's generation pass with a fresh RNG seeded from seed.
func Generate(s Sketch, seed int64, patch map[string]string, opts ...GenerateOption) (*Composition, error) {
	o := generateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.palettes == nil {
		o.palettes = palette.Default()
	}

	params := s.Params()
	cfg, err := Defaults(params).ApplyPatch(patch, params)
	if err != nil {
		return nil, err
	}

	r := rng.New(seed)
	c, err := s.Generate(r, cfg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New(errors.ErrCodeInternal, "sketch %s returned no composition", s.Info().Name)
	}

	c.Sketch = s.Info().Name
	c.Seed = seed
	// A sketch may return its config with seeded choices resolved.
	if c.Config == nil {
		c.Config = cfg
	}
	if c.Palette.Len() == 0 {
		c.Palette = PickPalette(r.Fork("palette"), cfg, o.palettes)
	}
	return c, nil
}

// PickPalette chooses the palette for a composition: the one named by the
// palette parameter if it exists, otherwise a seeded choice among palettes
// whose size is within [minColors, maxColors].
func PickPalette(r *rng.RNG, cfg Config, set palette.Set) palette.Palette {
	if name := cfg.String(KeyPalette, ""); name != "" {
		if p, ok := set.Find(name); ok {
			return p
		}
	}
	return set.Filter(cfg.Int(KeyMinColors, 0), cfg.Int(KeyMaxColors, 0)).Select(r)
}

// NewComposition returns an empty composition sized from cfg.
func NewComposition(cfg Config) *Composition {
	return &Composition{
		Width:  cfg.Float(KeyWidth, 540),
		Height: cfg.Float(KeyHeight, 675),
	}
}

// Registry is a name-indexed set of sketches.
type Registry struct {
	byName map[string]Sketch
}

// NewRegistry returns a registry holding the given sketches. Later entries
// replace earlier ones with the same name.
func NewRegistry(sketches ...Sketch) *Registry {
	r := &Registry{byName: make(map[string]Sketch, len(sketches))}
	for _, s := range sketches {
		r.byName[s.Info().Name] = s
	}
	return r
}

// Lookup returns the named sketch.
func (r *Registry) Lookup(name string) (Sketch, error) {
	if err := errors.ValidateSketchName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnknownSketch, err, "unknown sketch %q", name)
	}
	s, ok := r.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownSketch, "unknown sketch %q", name)
	}
	return s, nil
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the registered sketches sorted by name.
func (r *Registry) All() []Sketch {
	names := r.Names()
	out := make([]Sketch, len(names))
	for i, n := range names {
		out[i] = r.byName[n]
	}
	return out
}
