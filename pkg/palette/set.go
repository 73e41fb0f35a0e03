package palette

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

//go:embed palettes.json
var defaultJSON []byte

// Set is an ordered collection of palettes.
type Set []Palette

type document struct {
	Palettes Set `json:"palettes"`
}

// Parse decodes a palette asset. Three shapes are accepted:
//
//	{"palettes": [{"name": "...", "numColors": 5, "colors": ["#..."]}]}
//	[{"name": "...", "colors": ["#..."]}]
//	[["#...", "#..."], ["#...", "#..."]]
//
// numColors defaults to len(colors) when omitted.
func Parse(data []byte) (Set, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty palette document")
	}

	var set Set
	switch data[0] {
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode palette document")
		}
		set = doc.Palettes
	case '[':
		if err := json.Unmarshal(data, &set); err != nil {
			var bare [][]string
			if err2 := json.Unmarshal(data, &bare); err2 != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode palette array")
			}
			set = make(Set, len(bare))
			for i, colors := range bare {
				set[i] = Palette{Colors: colors}
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "palette document must be an object or array")
	}

	for i := range set {
		if set[i].NumColors == 0 {
			set[i].NumColors = len(set[i].Colors)
		}
		if err := set[i].Validate(); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Load reads and parses a palette asset from disk.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "read palette %s", path)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "parse palette %s", path)
	}
	return set, nil
}

// Default returns the embedded palette set.
func Default() Set {
	set, err := Parse(defaultJSON)
	if err != nil {
		return Set{Monochrome}
	}
	return set
}

// LoadOrDefault loads path, falling back to the embedded set with a warning
// when path is empty or unreadable.
func LoadOrDefault(path string, logger *log.Logger) Set {
	if path == "" {
		return Default()
	}
	set, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("palette asset unavailable, using defaults", "path", path, "error", err)
		}
		return Default()
	}
	return set
}

// Filter returns palettes whose NumColors is within [min, max]. A max of 0
// means no upper bound.
func (s Set) Filter(min, max int) Set {
	var out Set
	for _, p := range s {
		if p.NumColors < min {
			continue
		}
		if max > 0 && p.NumColors > max {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Select picks one palette using r. An empty set yields Monochrome.
func (s Set) Select(r *rng.RNG) Palette {
	if len(s) == 0 {
		return Monochrome
	}
	return s[r.IntN(len(s))]
}

// Find returns the palette with the given name.
func (s Set) Find(name string) (Palette, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// Names returns the palette names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}
