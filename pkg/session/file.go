package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// ErrNoSnapshot is returned when no snapshot matches.
var ErrNoSnapshot = errors.New("no saved session")

// Snapshot is the reproducible part of a session: enough to regenerate the
// same composition later.
type Snapshot struct {
	ID      string            `json:"id"`
	Sketch  string            `json:"sketch"`
	Seed    int64             `json:"seed"`
	Patch   map[string]string `json:"patch,omitempty"`
	Palette string            `json:"palette,omitempty"`
	SavedAt time.Time         `json:"saved_at"`
}

// Snapshot captures the session's current composition.
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.comp == nil {
		return nil, ErrNotReady
	}
	return &Snapshot{
		ID:      s.id,
		Sketch:  s.comp.Sketch,
		Seed:    s.comp.Seed,
		Patch:   maps.Clone(s.patch),
		Palette: s.comp.Palette.Name,
		SavedAt: time.Now().UTC(),
	}, nil
}

// Restore regenerates the snapshot's composition in s. The snapshot's
// patch replaces the session's.
func (s *Session) Restore(snap *Snapshot) (*sketch.Composition, error) {
	if snap.Sketch != s.sk.Info().Name {
		return nil, fmt.Errorf("snapshot is for sketch %q, session runs %q", snap.Sketch, s.sk.Info().Name)
	}
	return s.generate(snap.Seed, maps.Clone(snap.Patch))
}

// FileStore keeps snapshots as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based snapshot store. If baseDir is empty it
// defaults to ~/.config/sketchbook/sessions/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "sketchbook", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save writes snap, assigning an ID and timestamp when missing.
func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(snap.ID), data, 0600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Load reads the snapshot with the given ID.
func (s *FileStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: bad id %q", ErrNoSnapshot, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.snapshotPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// List returns all readable snapshots, newest first. Unparsable files are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}
	var out []*Snapshot
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		out = append(out, &snap)
	}
	slices.SortFunc(out, func(a, b *Snapshot) int { return b.SavedAt.Compare(a.SavedAt) })
	return out, nil
}

// Latest returns the most recently saved snapshot, optionally restricted to
// one sketch.
func (s *FileStore) Latest(ctx context.Context, sketchName string) (*Snapshot, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, snap := range all {
		if sketchName == "" || snap.Sketch == sketchName {
			return snap, nil
		}
	}
	return nil, ErrNoSnapshot
}

// Delete removes a snapshot. Missing snapshots are not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

// Cleanup removes snapshots older than maxAge and returns how many.
func (s *FileStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	n := 0
	for _, snap := range all {
		if snap.SavedAt.Before(cutoff) {
			if err := s.Delete(ctx, snap.ID); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Path returns the base directory for snapshot files.
func (s *FileStore) Path() string {
	return s.baseDir
}
