package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// RenderFormat encodes c in one format with the options' scale and title.
func RenderFormat(format string, s sketch.Sketch, c *sketch.Composition, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return sink.Render(format, s, c, opts.SinkOptions()...)
}

// WriteArtifacts saves each artifact into dir as genuary-<timestamp>.<ext>.
// Formats are written in a fixed order. A file that cannot be written is
// logged and skipped; the error is returned only when nothing was written.
func WriteArtifacts(dir string, t time.Time, artifacts map[string][]byte, logger *log.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create output dir %s", dir)
	}
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	var paths []string
	var lastErr error
	for _, f := range formats {
		path := filepath.Join(dir, sink.Filename(t, f))
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			lastErr = errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
			if logger != nil {
				logger.Warn("could not save artifact", "format", f, "err", err)
			}
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return paths, nil
}
