// Package sink encodes a composition into export artifacts.
//
// Every encoder creates its own canvas, renders the composition into it
// with the sketch's Render method and serializes the result. Export buffers
// are never reused, so the same composition can be exported concurrently
// and in any order.
//
// Supported formats:
//
//   - [RenderSVG]: vector markup, optionally with an embedded font
//   - [RenderPNG]: raster image at 1x or 2x (see [WithScale])
//   - [RenderPDF]: a single-page PDF wrapping the PNG, built with pdfcpu
//   - [RenderJSON]: the composition document (see package io)
//
// [Filename] produces the timestamped export names the keyboard shortcuts
// and the CLI use.
package sink
