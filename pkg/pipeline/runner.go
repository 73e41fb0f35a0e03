package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/cache"
	"github.com/matzehuels/sketchbook/pkg/errors"
	compio "github.com/matzehuels/sketchbook/pkg/io"
	"github.com/matzehuels/sketchbook/pkg/observability"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Runner executes the pipeline against a sketch registry with caching.
//
// A Runner holds no per-run state; several goroutines may share one.
type Runner struct {
	Registry *sketch.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching and a nil keyer
// uses the default.
func NewRunner(reg *sketch.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Registry: reg, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs generate and render. The context is checked between stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	c, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Composition = c
	result.Stats.GenerateTime = time.Since(start)
	result.Stats.Entities = c.Count()
	result.CacheInfo.GenerateHit = hit

	opts.Logger.Info("generated composition",
		"sketch", c.Sketch,
		"seed", c.Seed,
		"palette", c.Palette.Name,
		"entities", result.Stats.Entities,
		"cached", hit,
		"duration", result.Stats.GenerateTime)
	if c.Stats.Target > 0 && c.Stats.Accepted < c.Stats.Target {
		opts.Logger.Debug("placement budget exhausted",
			"accepted", c.Stats.Accepted,
			"target", c.Stats.Target,
			"attempts", c.Stats.Attempts)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts.Artifacts
	result.Failed = artifacts.Failed
	result.CompositionHash = artifacts.Hash
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"failed", len(result.Failed),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// GenerateWithCacheInfo produces the composition for opts, reporting
// whether it came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*sketch.Composition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	s, err := r.Registry.Lookup(opts.Sketch)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.CompositionKey(opts.Sketch, opts.Seed, opts.CompositionKeyOpts())
	if !opts.Refresh {
		if data, err := cache.GetOrMiss(ctx, r.Cache, key); err == nil {
			if c, err := compio.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "composition")
				return c, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "composition")
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Sketch, opts.Seed)
	start := time.Now()
	c, err := sketch.Generate(s, opts.Seed, opts.Patch, sketch.WithPalettes(opts.Palettes))
	n := 0
	if c != nil {
		n = c.Count()
	}
	hooks.OnGenerateComplete(ctx, opts.Sketch, opts.Seed, n, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := compio.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLComposition); err == nil {
			observability.Cache().OnCacheSet(ctx, "composition", len(data))
		}
	}
	return c, false, nil
}

// Generate is GenerateWithCacheInfo without the cache flag.
func (r *Runner) Generate(ctx context.Context, opts Options) (*sketch.Composition, error) {
	c, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return c, err
}

// Rendered is the output of the render stage.
type Rendered struct {
	Artifacts map[string][]byte
	Failed    map[string]error
	// Hash is the content hash of the rendered composition.
	Hash string
}

// RenderWithCacheInfo encodes c in every requested format. The flag is true
// when every artifact came from the cache. Formats that fail to encode are
// logged and skipped; an error is returned only when all of them fail.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *sketch.Composition, opts Options) (Rendered, bool, error) {
	out := Rendered{Artifacts: make(map[string][]byte), Failed: make(map[string]error)}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return out, false, err
	}
	s, err := r.Registry.Lookup(c.Sketch)
	if err != nil {
		return out, false, err
	}

	doc, err := compio.Marshal(c)
	if err != nil {
		return out, false, errors.Wrap(errors.ErrCodeInternal, err, "hash composition")
	}
	out.Hash = cache.Hash(doc)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(out.Hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				out.Artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := RenderFormat(format, s, c, opts)
		if err != nil {
			opts.Logger.Warn("export failed, skipping", "format", format, "err", err)
			out.Failed[format] = err
			continue
		}
		out.Artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	var renderErr error
	if len(out.Artifacts) == 0 && len(out.Failed) > 0 {
		renderErr = errors.New(errors.ErrCodeExportFailed, "every format failed to export")
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return out, false, renderErr
	}
	return out, allCached, nil
}

// Render is RenderWithCacheInfo returning only the artifacts.
func (r *Runner) Render(ctx context.Context, c *sketch.Composition, opts Options) (map[string][]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return out.Artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
