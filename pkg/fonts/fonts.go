// Package fonts provides the typefaces sketches draw text with.
//
// The default face is Go Regular, embedded through golang.org/x/image so a
// binary never depends on system fonts. A sketch or project config may point
// at a TTF/OTF file instead; if that file cannot be loaded a warning is logged
// and the default face is used, and if the default itself cannot be parsed
// the fixed-size basicfont face is the last resort.
package fonts

import (
	"encoding/base64"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// FontFamily is the CSS font-family name used in SVG output.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for viewers without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

// Font is a parsed scalable font with a per-size face cache.
type Font struct {
	name  string
	data  []byte
	otf   *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face

	b64     string
	b64Once sync.Once
}

// Parse parses TTF or OTF data.
func Parse(name string, data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "parse font %s", name)
	}
	return &Font{name: name, data: data, otf: f, faces: make(map[float64]font.Face)}, nil
}

// Load reads and parses a font file.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "read font %s", path)
	}
	return Parse(path, data)
}

var (
	defaultFont     *Font
	defaultFontOnce sync.Once
)

// Default returns the embedded Go Regular font. It returns nil only if the
// embedded data fails to parse.
func Default() *Font {
	defaultFontOnce.Do(func() {
		defaultFont, _ = Parse("goregular", goregular.TTF)
	})
	return defaultFont
}

// LoadOrDefault loads path, logging a warning and returning [Default] when
// path is empty or cannot be loaded.
func LoadOrDefault(path string, logger *log.Logger) *Font {
	if path == "" {
		return Default()
	}
	f, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("font unavailable, using default", "path", path, "error", err)
		}
		return Default()
	}
	return f
}

// Name returns the font's source name.
func (f *Font) Name() string {
	if f == nil {
		return "basicfont"
	}
	return f.name
}

// Face returns a face at the given pixel size. A nil Font yields the
// fixed 7x13 basicfont face.
func (f *Font) Face(size float64) font.Face {
	if f == nil || f.otf == nil {
		return basicfont.Face7x13
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[size] = face
	return face
}

// Base64 returns the raw font data as a base64 string for SVG @font-face
// embedding. The result is cached after first computation.
func (f *Font) Base64() string {
	if f == nil {
		return ""
	}
	f.b64Once.Do(func() {
		f.b64 = base64.StdEncoding.EncodeToString(f.data)
	})
	return f.b64
}
