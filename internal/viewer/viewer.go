// Package viewer shows a session in a desktop window and maps key presses
// to session actions.
//
// The window itself needs the ebiten build tag; without it [Run] returns an
// UNSUPPORTED error. Key handling, frame rendering and saving live in the
// tag-independent host so they work the same in both builds.
package viewer

import (
	"bytes"
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/session"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Options configures the viewer.
type Options struct {
	Runner *pipeline.Runner
	Font   *fonts.Font
	// Output is where saved artifacts are written.
	Output string
	Keymap session.Keymap
	// Scale is the window pixel density, 1 or 2.
	Scale  int
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Keymap == nil {
		o.Keymap = session.DefaultKeymap()
	}
	if o.Scale != 2 {
		o.Scale = 1
	}
	if o.Output == "" {
		o.Output = "."
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// host owns the session on behalf of the window loop. The loop polls keys
// and draws frames; actions run on their own goroutine so a slow generate
// never stalls the window.
type host struct {
	sess *session.Session
	opts Options

	busy atomic.Bool
	quit atomic.Bool

	mu      sync.Mutex
	frame   image.Image
	version int
	status  string
	saved   []string
}

func newHost(sess *session.Session, opts Options) *host {
	opts.setDefaults()
	return &host{sess: sess, opts: opts}
}

// start generates the first composition unless the session already has one.
func (h *host) start() error {
	c := h.sess.Composition()
	if c == nil {
		var err error
		if c, err = h.sess.Reroll(); err != nil {
			return err
		}
	}
	return h.setFrame(c)
}

// press reports whether key started an action. Keys pressed while an action
// is running are dropped.
func (h *host) press(ctx context.Context, key string) bool {
	a := h.opts.Keymap.Lookup(key)
	switch {
	case a == session.ActionNone:
		return false
	case a == session.ActionQuit:
		h.quit.Store(true)
		return true
	case !h.busy.CompareAndSwap(false, true):
		return false
	}
	go func() {
		defer h.busy.Store(false)
		h.handle(ctx, key)
	}()
	return true
}

// handle dispatches key and updates the frame or saves an artifact.
func (h *host) handle(ctx context.Context, key string) {
	out, err := h.sess.Dispatch(h.opts.Keymap, key)
	if err != nil {
		h.setStatus(err.Error())
		return
	}
	if out.Format != "" {
		h.save(ctx, out.Composition, out.Format)
		return
	}
	if out.Composition != nil {
		if err := h.setFrame(out.Composition); err != nil {
			h.setStatus(err.Error())
			return
		}
		h.setStatus(out.Action.String())
	}
}

func (h *host) save(ctx context.Context, c *sketch.Composition, format string) {
	opts := pipeline.Options{Formats: []string{format}, Font: h.opts.Font, Logger: h.opts.Logger}
	r, _, err := h.opts.Runner.RenderWithCacheInfo(ctx, c, opts)
	if err != nil {
		h.setStatus(err.Error())
		return
	}
	paths, err := pipeline.WriteArtifacts(h.opts.Output, time.Now(), r.Artifacts, h.opts.Logger)
	if err != nil {
		h.setStatus(err.Error())
		return
	}
	h.mu.Lock()
	h.saved = append(h.saved, paths...)
	h.mu.Unlock()
	for _, p := range paths {
		h.opts.Logger.Info("saved", "path", p)
	}
	h.setStatus("saved " + format)
}

// setFrame rasterises c at the window scale.
func (h *host) setFrame(c *sketch.Composition) error {
	data, err := pipeline.RenderFormat(sink.FormatPNG, h.sess.Sketch(), c, pipeline.Options{Scale: h.opts.Scale, Font: h.opts.Font})
	if err != nil {
		return err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.frame = img
	h.version++
	h.mu.Unlock()
	return nil
}

func (h *host) setStatus(s string) {
	h.mu.Lock()
	h.status = s
	h.mu.Unlock()
}

// current returns the latest frame, its version and the status line.
func (h *host) current() (image.Image, int, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, h.version, h.status
}

// Saved returns the paths written so far.
func (h *host) Saved() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.saved...)
}
