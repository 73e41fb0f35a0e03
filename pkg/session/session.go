// Package session holds the current composition of an interactive host.
//
// A [Session] owns one sketch, the composition generated for it, and the
// patch that produced it. Hosts (the terminal picker, the live viewer and
// the HTTP server's preview) never mutate a composition: every change goes
// through the session and yields a new one.
//
// # States
//
//	Uninitialized --Generate--> Generating --ok--> Ready
//	                                \--error--> previous state
//	Ready --Reroll/Patch/...--> Generating --> Ready
//
// A session is safe for concurrent use. Only one generation runs at a time;
// a second request while Generating fails with [ErrBusy].
package session

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

var (
	// ErrBusy is returned when a generation is already in progress.
	ErrBusy = errors.New("generation in progress")

	// ErrNotReady is returned by operations that need a composition.
	ErrNotReady = errors.New("no composition yet")
)

// State is the session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Generating
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a Session.
type Option func(*Session)

// WithPalettes sets the palette library used for selection and cycling.
func WithPalettes(set palette.Set) Option { return func(s *Session) { s.palettes = set } }

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// WithSeedSource replaces the clock-based seed source used by Reroll.
func WithSeedSource(fn func() int64) Option { return func(s *Session) { s.newSeed = fn } }

// WithPatch sets the initial config patch.
func WithPatch(p map[string]string) Option {
	return func(s *Session) { s.patch = maps.Clone(p) }
}

// Session is the holder of one sketch's current composition.
type Session struct {
	mu       sync.RWMutex
	id       string
	sk       sketch.Sketch
	palettes palette.Set
	logger   *log.Logger
	newSeed  func() int64

	state State
	comp  *sketch.Composition
	patch map[string]string
}

// New returns an uninitialized session for s.
func New(s sketch.Sketch, opts ...Option) *Session {
	sess := &Session{
		id:       uuid.NewString(),
		sk:       s,
		palettes: palette.Default(),
		logger:   log.Default(),
		newSeed:  func() int64 { return time.Now().UnixNano() },
		patch:    map[string]string{},
	}
	for _, opt := range opts {
		opt(sess)
	}
	return sess
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Sketch returns the session's sketch.
func (s *Session) Sketch() sketch.Sketch { return s.sk }

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Composition returns the current composition, or nil before the first
// successful generation. The returned value must not be modified.
func (s *Session) Composition() *sketch.Composition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comp
}

// Patch returns a copy of the current config patch.
func (s *Session) Patch() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.patch)
}

// Generate replaces the composition with one generated from seed and the
// current patch.
func (s *Session) Generate(seed int64) (*sketch.Composition, error) {
	s.mu.RLock()
	patch := maps.Clone(s.patch)
	s.mu.RUnlock()
	return s.generate(seed, patch)
}

// Reroll generates with a fresh seed.
func (s *Session) Reroll() (*sketch.Composition, error) {
	return s.Generate(s.newSeed())
}

// ApplyPatch merges p into the current patch and regenerates with the same
// seed. On error the session keeps its previous patch and composition.
func (s *Session) ApplyPatch(p map[string]string) (*sketch.Composition, error) {
	s.mu.RLock()
	if s.comp == nil {
		s.mu.RUnlock()
		return nil, ErrNotReady
	}
	seed := s.comp.Seed
	merged := maps.Clone(s.patch)
	s.mu.RUnlock()
	maps.Copy(merged, p)
	return s.generate(seed, merged)
}

// ToggleDebug flips the debug overlay parameter.
func (s *Session) ToggleDebug() (*sketch.Composition, error) {
	c := s.Composition()
	if c == nil {
		return nil, ErrNotReady
	}
	on := c.Config.Bool(sketch.KeyDebug, false)
	return s.ApplyPatch(map[string]string{sketch.KeyDebug: strconv.FormatBool(!on)})
}

// CyclePalette swaps in the palette after the current one in the library.
// Entities keep their palette indices, so the picture is recoloured
// without regenerating.
func (s *Session) CyclePalette() (*sketch.Composition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Generating {
		return nil, ErrBusy
	}
	if s.comp == nil {
		return nil, ErrNotReady
	}
	if len(s.palettes) == 0 {
		return s.comp, nil
	}
	next := s.palettes[0]
	for i, p := range s.palettes {
		if p.Name == s.comp.Palette.Name {
			next = s.palettes[(i+1)%len(s.palettes)]
			break
		}
	}
	s.comp = s.comp.WithPalette(next)
	s.logger.Debug("palette cycled", "palette", next.Name)
	return s.comp, nil
}

// ToggleLayer flips the visibility of a named layer.
func (s *Session) ToggleLayer(name string) (*sketch.Composition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Generating {
		return nil, ErrBusy
	}
	if s.comp == nil {
		return nil, ErrNotReady
	}
	s.comp = s.comp.WithLayerToggled(name)
	return s.comp, nil
}

func (s *Session) generate(seed int64, patch map[string]string) (*sketch.Composition, error) {
	s.mu.Lock()
	if s.state == Generating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	prev := s.state
	s.state = Generating
	s.mu.Unlock()

	start := time.Now()
	c, err := sketch.Generate(s.sk, seed, patch, sketch.WithPalettes(s.palettes))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prev
		return nil, err
	}
	s.comp = c
	s.patch = patch
	s.state = Ready
	s.logger.Debug("composition ready",
		"sketch", c.Sketch,
		"seed", c.Seed,
		"entities", c.Count(),
		"took", time.Since(start))
	return c, nil
}
