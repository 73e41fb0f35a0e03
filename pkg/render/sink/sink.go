package sink

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/fonts"
	compio "github.com/matzehuels/sketchbook/pkg/io"
	"github.com/matzehuels/sketchbook/pkg/render/canvas"
	"github.com/matzehuels/sketchbook/pkg/render/raster"
	"github.com/matzehuels/sketchbook/pkg/render/svg"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Format names.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Renderer draws a composition onto a canvas. Every [sketch.Sketch] is a
// Renderer.
type Renderer interface {
	Render(c *sketch.Composition, cv canvas.Canvas)
}

// Option configures an encoder.
type Option func(*options)

type options struct {
	scale float64
	font  *fonts.Font
	title string
}

// WithScale sets the PNG and PDF pixel density. Only 1 and 2 are accepted;
// the default is 1.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithFont sets the font used for text. SVG output embeds it.
func WithFont(f *fonts.Font) Option { return func(o *options) { o.font = f } }

// WithTitle sets the SVG document title.
func WithTitle(s string) Option { return func(o *options) { o.title = s } }

func newOptions(opts []Option) (options, error) {
	o := options{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale != 1 && o.scale != 2 {
		return o, errors.New(errors.ErrCodeInvalidInput, "scale must be 1 or 2, got %v", o.scale)
	}
	if o.font == nil {
		o.font = fonts.Default()
	}
	return o, nil
}

// RenderSVG draws c into an SVG document.
func RenderSVG(r Renderer, c *sketch.Composition, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	svgOpts := []svg.Option{svg.WithTitle(o.title)}
	if hasText(r, c) {
		svgOpts = append(svgOpts, svg.WithEmbeddedFont(o.font))
	}
	cv := svg.New(c.Width, c.Height, 1, svgOpts...)
	r.Render(c, cv)
	return cv.Bytes(), nil
}

// RenderPNG rasterizes c at the configured scale.
func RenderPNG(r Renderer, c *sketch.Composition, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	cv := raster.New(c.Width, c.Height, o.scale, raster.WithFont(o.font))
	r.Render(c, cv)
	var buf bytes.Buffer
	if err := cv.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderPDF rasterizes c and wraps the image in a one-page PDF.
func RenderPDF(r Renderer, c *sketch.Composition, opts ...Option) ([]byte, error) {
	png, err := RenderPNG(r, c, opts...)
	if err != nil {
		return nil, err
	}
	return PNGToPDF(png)
}

var pdfOnce sync.Once

// PNGToPDF converts an encoded PNG into a one-page PDF.
func PNGToPDF(png []byte) ([]byte, error) {
	pdfOnce.Do(api.DisableConfigDir)
	var out bytes.Buffer
	imp := pdfcpu.DefaultImportConfig()
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(png)}, imp, conf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "build pdf")
	}
	return out.Bytes(), nil
}

// RenderJSON returns the composition document.
func RenderJSON(c *sketch.Composition) ([]byte, error) {
	data, err := compio.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "encode json")
	}
	return data, nil
}

// Render encodes c in one format.
func Render(format string, r Renderer, c *sketch.Composition, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(r, c, opts...)
	case FormatPNG:
		return RenderPNG(r, c, opts...)
	case FormatPDF:
		return RenderPDF(r, c, opts...)
	case FormatJSON:
		return RenderJSON(c)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Filename returns the export name for an artifact created at t:
// "genuary-" followed by the UTC ISO-8601 timestamp with colons replaced by
// dashes.
func Filename(t time.Time, ext string) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return "genuary-" + strings.ReplaceAll(stamp, ":", "-") + "." + strings.TrimPrefix(ext, ".")
}

// hasText reports whether rendering c draws any text, so fonts are only
// embedded when needed.
func hasText(r Renderer, c *sketch.Composition) bool {
	rec := canvas.NewRecorder(c.Width, c.Height, 1)
	r.Render(c, rec)
	return rec.Count("text") > 0
}
