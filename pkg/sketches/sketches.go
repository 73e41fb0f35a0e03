// Package sketches assembles the built-in sketches into a registry.
package sketches

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/sketch"
	"github.com/matzehuels/sketchbook/pkg/sketches/cells"
	"github.com/matzehuels/sketchbook/pkg/sketches/circles"
	"github.com/matzehuels/sketchbook/pkg/sketches/city"
	"github.com/matzehuels/sketchbook/pkg/sketches/dithering"
	"github.com/matzehuels/sketchbook/pkg/sketches/packing"
	"github.com/matzehuels/sketchbook/pkg/sketches/tiling"
)

// All returns one instance of every built-in sketch. Sketches that load
// assets report fallbacks to logger; a nil logger uses the default.
func All(logger *log.Logger) []sketch.Sketch {
	if logger == nil {
		logger = log.Default()
	}
	return []sketch.Sketch{
		packing.New(),
		circles.New(),
		city.New(),
		dithering.New(dithering.WithLogger(logger)),
		tiling.New(),
		cells.New(),
	}
}

// Registry returns a registry of the built-in sketches.
func Registry(logger *log.Logger) *sketch.Registry {
	return sketch.NewRegistry(All(logger)...)
}
