package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Version is the composition document version written by this package.
const Version = 1

type document struct {
	Version     int                 `json:"version"`
	Composition *sketch.Composition `json:"composition"`
}

// WriteJSON encodes c as an indented JSON document and writes it to w.
func WriteJSON(c *sketch.Composition, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Version: Version, Composition: c}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON document for c.
func Marshal(c *sketch.Composition) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes c to a JSON file at path.
func ExportJSON(c *sketch.Composition, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(c, f)
}
