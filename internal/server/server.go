// Package server serves sketches over HTTP, rendering on demand.
//
// Routes:
//
//	GET  /healthz
//	GET  /sketches                       list sketches
//	GET  /sketches/{name}                parameters and defaults
//	GET  /sketches/{name}/{seed}.{ext}   render; query parameters patch the config
//	GET  /palettes
//	GET  /gallery                        showcase entries (?sketch=, ?limit=)
//	POST /gallery                        save an entry
//	GET  /gallery/{id}
//	GET  /gallery/{id}/thumbnail.png
//
// Renders go through a [pipeline.Runner], so a shared Redis cache lets
// several replicas reuse each other's work. A composition is a pure
// function of its URL, so responses carry an ETag and are cacheable
// forever.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sketchbook/pkg/buildinfo"
	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/gallery"
	"github.com/matzehuels/sketchbook/pkg/observability"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config wires a Server.
type Config struct {
	Runner   *pipeline.Runner
	Palettes palette.Set
	Font     *fonts.Font
	// Gallery is optional; without it the gallery routes answer 501.
	Gallery gallery.Store
	Logger  *log.Logger
}

// Server is the render-on-demand HTTP server.
type Server struct {
	runner   *pipeline.Runner
	palettes palette.Set
	font     *fonts.Font
	gallery  gallery.Store
	logger   *log.Logger
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		palettes: cfg.Palettes,
		font:     cfg.Font,
		gallery:  cfg.Gallery,
		logger:   cfg.Logger,
	}
	if s.palettes == nil {
		s.palettes = palette.Default()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)
	r.Get("/palettes", s.handlePalettes)

	r.Route("/sketches", func(r chi.Router) {
		r.Get("/", s.handleSketches)
		r.Get("/{name}", s.handleSketch)
		r.Get("/{name}/{file}", s.handleRender)
	})

	r.Route("/gallery", func(r chi.Router) {
		r.Use(s.requireGallery)
		r.Get("/", s.handleGalleryList)
		r.Post("/", s.handleGalleryAdd)
		r.Get("/{id}", s.handleGalleryGet)
		r.Get("/{id}/thumbnail.png", s.handleGalleryThumbnail)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// logRequests logs each request and reports it to the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= 500 {
			s.logger.Error("request", fields...)
		} else {
			s.logger.Debug("request", fields...)
		}
	})
}

func (s *Server) requireGallery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.gallery == nil {
			writeJSON(w, http.StatusNotImplemented, errorBody{Error: "gallery is not configured", Code: "UNSUPPORTED"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
