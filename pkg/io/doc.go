// Package io provides JSON import and export for compositions.
//
// # Overview
//
// A composition is the complete output of one generation pass, so its JSON
// form is enough to re-render the same image later without re-running the
// sketch: export a composition, import it elsewhere, and render it to any
// canvas. The document also records the seed and resolved config, so the
// composition can be regenerated from scratch and compared.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "composition": {
//	    "sketch": "packing",
//	    "seed": 32,
//	    "width": 540,
//	    "height": 675,
//	    "palette": {"name": "paper", "numColors": 5, "colors": ["#f4efe6", ...]},
//	    "config": {"containerTargetCount": "20", ...},
//	    "entities": [{"kind": "container", "x": 210.4, "y": 318.2, "r": 143.9, ...}],
//	    "layers": [{"name": "overlay", "blend": "difference", "visible": true}],
//	    "stats": {"target": 20, "accepted": 17, "attempts": 75000}
//	  }
//	}
//
// Raster-valued sketches (dither, automaton) add a "grid" object with
// "w", "h", "cells" and "cellSize".
//
// # Import
//
// [ReadJSON] decodes from any reader and [ImportJSON] from a path. Both
// validate the document: the version must be supported, the sketch name
// well formed, the canvas non-empty, the palette valid and the grid sized
// consistently. Failures carry the INVALID_FORMAT code.
//
// # Export
//
// [WriteJSON] and [ExportJSON] are the inverse. [Marshal] returns the bytes
// directly, which is what the render sink and the cache store.
package io
