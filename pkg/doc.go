// Package pkg provides the libraries behind sketchbook, a series of seeded
// generative sketches.
//
// # Overview
//
// Every sketch turns a seed and a parameter patch into an immutable
// composition, and every composition can be exported as SVG, PNG, PDF or
// JSON. The same seed and patch always give the same output. The pkg
// directory is organized into four areas:
//
//  1. Algorithms: [geom], [rng], [pack], [automaton], [dither], [wallpaper]
//  2. Sketches: [sketch] (the contract and registry) and [sketches] (the
//     concrete sketches)
//  3. Output: [render] backends, [io] composition documents, [palette] and
//     [fonts] assets
//  4. Orchestration: [pipeline], [cache], [session], [gallery],
//     [observability], [errors]
//
// # Architecture
//
//	seed + patch
//	     ↓
//	[sketch] Generate (pure, deterministic)
//	     ↓
//	Composition  ──→ [session] (reroll, palette, layers)
//	     ↓
//	[render/sink] SVG / PNG / PDF / JSON
//
// [pipeline] runs both stages with caching, and is shared by the CLI, the
// HTTP server and the live viewer.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(sketches.Registry(nil), nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sketch:  "city",
//	    Seed:    7,
//	    Formats: []string{"svg"},
//	})
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/geom
// [rng]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/rng
// [pack]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/pack
// [automaton]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/automaton
// [dither]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/dither
// [wallpaper]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/wallpaper
// [sketch]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/sketch
// [sketches]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/sketches
// [render]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/io
// [palette]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/palette
// [fonts]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/session
// [gallery]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/gallery
// [observability]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/errors
package pkg
