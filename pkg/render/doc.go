// Package render groups the drawing backends used by sketches.
//
// Sketches never draw to a concrete backend. They issue calls against the
// [canvas] interface, and an export picks the implementation:
//
//   - [svg]: vector markup, blend modes kept as mix-blend-mode groups
//   - [raster]: a gg-backed RGBA image at 1x or 2x, blend layers composited
//     per pixel
//   - the canvas recorder: captures calls for tests
//
// Package [sink] ties a backend to an output format:
//
//	data, err := sink.Render(sink.FormatPNG, s, comp, sink.WithScale(2))
//
// [canvas]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render/canvas
// [svg]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render/svg
// [raster]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render/raster
// [sink]: https://pkg.go.dev/github.com/matzehuels/sketchbook/pkg/render/sink
package render
