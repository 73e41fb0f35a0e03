package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// ReadJSON decodes and validates a composition document from r.
//
// ReadJSON returns an INVALID_FORMAT error if:
//   - the JSON is malformed or has no composition
//   - the version is newer than [Version]
//   - the sketch name is not a valid identifier
//   - width or height is not positive
//   - the palette has no colours or a malformed hex value
//   - the grid's cell count does not match its dimensions
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*sketch.Composition, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode composition")
	}
	if doc.Composition == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "document has no composition")
	}
	if doc.Version < 1 || doc.Version > Version {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported composition version %d", doc.Version)
	}
	if err := validate(doc.Composition); err != nil {
		return nil, err
	}
	return doc.Composition, nil
}

// Unmarshal is ReadJSON over a byte slice.
func Unmarshal(data []byte) (*sketch.Composition, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a composition document from the file at path.
func ImportJSON(path string) (*sketch.Composition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func validate(c *sketch.Composition) error {
	if err := errors.ValidateSketchName(c.Sketch); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "composition sketch")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "composition size %vx%v", c.Width, c.Height)
	}
	if err := c.Palette.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "composition palette")
	}
	if g := c.Grid; g != nil && len(g.Cells) != g.W*g.H {
		return errors.New(errors.ErrCodeInvalidFormat, "grid has %d cells, want %dx%d", len(g.Cells), g.W, g.H)
	}
	return nil
}
