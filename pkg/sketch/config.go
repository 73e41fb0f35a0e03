package sketch

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamBool   ParamType = "bool"
	ParamString ParamType = "string"
)

// Param describes one tunable value a sketch accepts.
type Param struct {
	Key         string    `json:"key"`
	Type        ParamType `json:"type"`
	Default     string    `json:"default"`
	Description string    `json:"description,omitempty"`
	// Choices restricts string parameters to a fixed set.
	Choices []string `json:"choices,omitempty"`
	// Min and Max bound numeric parameters when HasMin/HasMax are set.
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	HasMin bool    `json:"-"`
	HasMax bool    `json:"-"`
	// Asset marks a parameter naming a local file. Remote callers may not set it.
	Asset bool `json:"asset,omitempty"`
}

// Common parameter keys shared by most sketches.
const (
	KeyWidth     = "width"
	KeyHeight    = "height"
	KeyPalette   = "palette"
	KeyMinColors = "minColors"
	KeyMaxColors = "maxColors"
	KeyDebug     = "debug"
)

// CanvasParams returns the width/height/palette parameters every sketch
// exposes, with the given canvas defaults.
func CanvasParams(w, h int) []Param {
	return []Param{
		{Key: KeyWidth, Type: ParamInt, Default: strconv.Itoa(w), Description: "canvas width in composition units", Min: 16, HasMin: true, Max: 8192, HasMax: true},
		{Key: KeyHeight, Type: ParamInt, Default: strconv.Itoa(h), Description: "canvas height in composition units", Min: 16, HasMin: true, Max: 8192, HasMax: true},
		{Key: KeyPalette, Type: ParamString, Default: "", Description: "palette name; empty selects one from the seed"},
		{Key: KeyMinColors, Type: ParamInt, Default: "3", Description: "minimum palette size considered", Min: 1, HasMin: true},
		{Key: KeyMaxColors, Type: ParamInt, Default: "0", Description: "maximum palette size considered (0 = any)", Min: 0, HasMin: true},
		{Key: KeyDebug, Type: ParamBool, Default: "false", Description: "draw the debug overlay"},
	}
}

// RejectAssets returns an INVALID_CONFIG error when patch sets an asset
// parameter.
func RejectAssets(params []Param, patch map[string]string) error {
	for _, p := range params {
		if _, ok := patch[p.Key]; ok && p.Asset {
			return errors.New(errors.ErrCodeInvalidConfig, "%s names a local file and cannot be set here", p.Key)
		}
	}
	return nil
}

// Validate checks that value parses as the parameter's type and honours its
// bounds and choices.
func (p Param) Validate(value string) error {
	switch p.Type {
	case ParamInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not an integer", p.Key, value)
		}
		return p.checkRange(float64(n), value)
	case ParamFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a finite number", p.Key, value)
		}
		return p.checkRange(f, value)
	case ParamBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a boolean", p.Key, value)
		}
	case ParamString:
		if len(p.Choices) > 0 && !slices.Contains(p.Choices, value) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not one of %s", p.Key, value, strings.Join(p.Choices, ", "))
		}
	}
	return nil
}

func (p Param) checkRange(v float64, raw string) error {
	if p.HasMin && v < p.Min {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %s is below minimum %v", p.Key, raw, p.Min)
	}
	if p.HasMax && v > p.Max {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %s is above maximum %v", p.Key, raw, p.Max)
	}
	return nil
}

// Config holds a sketch's parameter values as strings, keyed by parameter key.
// A Config is treated as immutable: [Config.ApplyPatch] returns a new value.
type Config map[string]string

// Defaults builds a Config from the parameter declarations.
func Defaults(params []Param) Config {
	c := make(Config, len(params))
	for _, p := range params {
		c[p.Key] = p.Default
	}
	return c
}

// Clone returns a copy of c.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	return maps.Clone(c)
}

// ApplyPatch returns c with patch applied. Every patched key must be declared
// in params and its value must validate; the first violation is returned and
// c is left unchanged. This is the single mutation entry point for sketch
// configuration.
func (c Config) ApplyPatch(patch map[string]string, params []Param) (Config, error) {
	byKey := make(map[string]Param, len(params))
	for _, p := range params {
		byKey[p.Key] = p
	}
	keys := slices.Sorted(maps.Keys(patch))
	out := c.Clone()
	for _, k := range keys {
		p, ok := byKey[k]
		if !ok {
			return c, errors.New(errors.ErrCodeInvalidConfig, "unknown parameter %q", k)
		}
		v := strings.TrimSpace(patch[k])
		if err := p.Validate(v); err != nil {
			return c, err
		}
		out[k] = v
	}
	return out, nil
}

// Keys returns the config keys in sorted order.
func (c Config) Keys() []string { return slices.Sorted(maps.Keys(c)) }

// String returns the raw value for key, or def when absent.
func (c Config) String(key, def string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return def
}

// Int returns key parsed as int, or def when absent or malformed.
func (c Config) Int(key string, def int) int {
	if v, ok := c[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns key parsed as float64, or def when absent or malformed.
func (c Config) Float(key string, def float64) float64 {
	if v, ok := c[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns key parsed as bool, or def when absent or malformed.
func (c Config) Bool(key string, def bool) bool {
	if v, ok := c[key]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// ParsePatch turns "key=value" pairs (as given to --set) into a patch map.
func ParsePatch(pairs []string) (map[string]string, error) {
	patch := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected key=value, got %q", pair)
		}
		if err := errors.ValidateParamKey(k); err != nil {
			return nil, err
		}
		patch[k] = strings.TrimSpace(v)
	}
	return patch, nil
}
