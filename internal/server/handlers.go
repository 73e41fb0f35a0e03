package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sketchbook/pkg/buildinfo"
	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/gallery"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Query parameters that configure the export rather than patching the
// sketch config.
const (
	queryScale   = "scale"
	queryTitle   = "title"
	queryRefresh = "refresh"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status via its code. Gallery misses are 404.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if stderrors.Is(err, gallery.ErrNotFound) {
		status, code = http.StatusNotFound, string(errors.ErrCodeNotFound)
	}
	msg := http.StatusText(status)
	if status < 500 {
		msg = errors.UserMessage(err)
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code, RequestID: middleware.GetReqID(r.Context())})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.palettes)
}

func (s *Server) handleSketches(w http.ResponseWriter, r *http.Request) {
	all := s.runner.Registry.All()
	out := make([]sketch.Info, len(all))
	for i, sk := range all {
		out[i] = sk.Info()
	}
	writeJSON(w, http.StatusOK, out)
}

type sketchDetail struct {
	sketch.Info
	Params   []sketch.Param `json:"params"`
	Defaults sketch.Config  `json:"defaults"`
}

func (s *Server) handleSketch(w http.ResponseWriter, r *http.Request) {
	sk, err := s.runner.Registry.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	params := sk.Params()
	writeJSON(w, http.StatusOK, sketchDetail{Info: sk.Info(), Params: params, Defaults: sketch.Defaults(params)})
}

// parseArtifact splits "{seed}.{ext}".
func parseArtifact(file string) (int64, string, error) {
	i := strings.LastIndexByte(file, '.')
	if i <= 0 {
		return 0, "", errors.New(errors.ErrCodeInvalidInput, "want {seed}.{ext}, got %q", file)
	}
	seed, err := strconv.ParseInt(file[:i], 10, 64)
	if err != nil || seed == 0 {
		return 0, "", errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", file[:i])
	}
	ext := strings.ToLower(file[i+1:])
	if err := sink.ValidateFormat(ext); err != nil {
		return 0, "", err
	}
	return seed, ext, nil
}

// renderOptions builds pipeline options from the URL.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	seed, ext, err := parseArtifact(chi.URLParam(r, "file"))
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Sketch:   chi.URLParam(r, "name"),
		Seed:     seed,
		Formats:  []string{ext},
		Palettes: s.palettes,
		Font:     s.font,
		Logger:   s.logger,
		Patch:    map[string]string{},
	}
	for key, values := range r.URL.Query() {
		v := values[len(values)-1]
		switch key {
		case queryScale:
			if opts.Scale, err = strconv.Atoi(v); err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
			}
		case queryTitle:
			opts.Title = v
		case queryRefresh:
			opts.Refresh = v == "1" || v == "true"
		default:
			opts.Patch[key] = v
		}
	}
	return opts, s.checkPatch(opts.Sketch, opts.Patch)
}

// checkPatch refuses patches that name local files. Unknown sketches pass
// through so the pipeline reports them.
func (s *Server) checkPatch(name string, patch map[string]string) error {
	sk, err := s.runner.Registry.Lookup(name)
	if err != nil {
		return nil
	}
	return sketch.RejectAssets(sk.Params(), patch)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	data, ok := result.Artifacts[format]
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeExportFailed, "%s export failed", format))
		return
	}

	etag := fmt.Sprintf(`"%s-%s-%d"`, result.CompositionHash[:16], format, opts.Scale)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Sketch-Seed", strconv.FormatInt(result.Composition.Seed, 10))
	w.Header().Set("X-Sketch-Palette", result.Composition.Palette.Name)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleGalleryList(w http.ResponseWriter, r *http.Request) {
	opts := gallery.ListOptions{Sketch: r.URL.Query().Get("sketch")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		opts.Limit = n
	}
	entries, err := s.gallery.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*gallery.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type addRequest struct {
	Sketch      string            `json:"sketch"`
	Seed        int64             `json:"seed"`
	Patch       map[string]string `json:"patch"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Order       int               `json:"order"`
	// Thumbnail renders and stores a PNG thumbnail.
	Thumbnail bool `json:"thumbnail"`
}

// handleGalleryAdd generates the composition to validate the request and
// resolve a missing seed, then stores the entry.
func (s *Server) handleGalleryAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	if err := s.checkPatch(req.Sketch, req.Patch); err != nil {
		writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Sketch:   req.Sketch,
		Seed:     req.Seed,
		Patch:    req.Patch,
		Formats:  []string{sink.FormatPNG},
		Palettes: s.palettes,
		Font:     s.font,
		Logger:   s.logger,
	}
	entry := &gallery.Entry{Title: req.Title, Description: req.Description, Order: req.Order}
	if req.Thumbnail {
		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			writeError(w, r, err)
			return
		}
		entry.Sketch, entry.Seed = result.Composition.Sketch, result.Composition.Seed
		if png, ok := result.Artifacts[sink.FormatPNG]; ok {
			if entry.Thumbnail, err = gallery.Thumbnail(png, gallery.DefaultThumbnailSize); err != nil {
				s.logger.Warn("thumbnail failed, saving without", "err", err)
			}
		}
	} else {
		c, err := s.runner.Generate(r.Context(), opts)
		if err != nil {
			writeError(w, r, err)
			return
		}
		entry.Sketch, entry.Seed = c.Sketch, c.Seed
	}
	entry.Patch = req.Patch

	if err := s.gallery.Add(r.Context(), entry); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/gallery/"+entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGalleryGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleGalleryThumbnail(w http.ResponseWriter, r *http.Request) {
	e, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(e.Thumbnail) == 0 {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "entry %s has no thumbnail", e.ID))
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatPNG))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(e.Thumbnail)
}
