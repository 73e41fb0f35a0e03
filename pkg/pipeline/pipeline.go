// Package pipeline runs the generate → render → export pipeline shared by
// the CLI, the HTTP server and the live viewer.
//
// # Stages
//
//  1. Generate: resolve the sketch, apply the config patch, and produce an
//     immutable [sketch.Composition] from the seed
//  2. Render: draw the composition into one artifact per requested format
//     (SVG, PNG, PDF, JSON)
//
// Both stages are cached. A composition is a pure function of its sketch,
// seed, patch and palette set, and an artifact is a pure function of the
// composition and render options, so cached entries never go stale.
//
// # Usage
//
//	runner := pipeline.NewRunner(registry, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sketch:  "packing",
//	    Seed:    32,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// A failed export is logged and reported in [Result.Failed]; the other
// formats are still produced.
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/cache"
	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = sink.FormatSVG

	// DefaultScale is the PNG pixel density.
	DefaultScale = 1
)

// Options configures one pipeline run.
type Options struct {
	// Sketch is the registry name.
	Sketch string `json:"sketch"`
	// Seed drives every random choice. Zero picks a fresh seed from the
	// clock during validation.
	Seed int64 `json:"seed,omitempty"`
	// Patch overrides sketch parameter defaults.
	Patch map[string]string `json:"patch,omitempty"`

	Formats []string `json:"formats,omitempty"`
	// Scale is the PNG density multiplier, 1 or 2.
	Scale int    `json:"scale,omitempty"`
	Title string `json:"title,omitempty"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Palettes palette.Set `json:"-"`
	// Font is used for sketch text; nil uses the embedded default.
	Font   *fonts.Font `json:"-"`
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Composition *sketch.Composition
	// CompositionHash is the content hash of the composition JSON.
	CompositionHash string

	// Artifacts maps format to encoded bytes.
	Artifacts map[string][]byte
	// Failed maps format to the error that skipped it.
	Failed map[string]error

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timings and sizes.
type Stats struct {
	Entities     int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	GenerateHit bool
	RenderHit   bool
}

// NewSeed returns a clock-derived seed for runs that did not ask for one.
func NewSeed() int64 {
	if s := time.Now().UnixNano(); s != 0 {
		return s
	}
	return 1
}

// ValidateFormats checks every format against the supported set.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Sketch == "" {
		return errors.New(errors.ErrCodeInvalidInput, "sketch is required")
	}
	if err := errors.ValidateSketchName(o.Sketch); err != nil {
		return err
	}
	for k := range o.Patch {
		if err := errors.ValidateParamKey(k); err != nil {
			return err
		}
	}
	if o.Seed == 0 {
		o.Seed = NewSeed()
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Palettes == nil {
		o.Palettes = palette.Default()
	}
	o.validated = true
	return nil
}

// ValidateForRender checks and defaults the render options only.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale != 1 && o.Scale != 2 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be 1 or 2, got %d", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// CompositionKeyOpts returns the cache key inputs for the generate stage.
func (o *Options) CompositionKeyOpts() cache.CompositionKeyOpts {
	data, _ := json.Marshal(o.Palettes)
	return cache.CompositionKeyOpts{Patch: o.Patch, Palettes: cache.Hash(data)}
}

// ArtifactKeyOpts returns the cache key inputs for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Title: o.Title}
	if o.Font != nil {
		opts.Font = o.Font.Name()
	}
	if format == sink.FormatPNG || format == sink.FormatPDF {
		opts.Scale = o.Scale
	}
	return opts
}

// SinkOptions converts the render options for the sink package.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithScale(float64(o.Scale)), sink.WithTitle(o.Title)}
	if o.Font != nil {
		opts = append(opts, sink.WithFont(o.Font))
	}
	return opts
}
