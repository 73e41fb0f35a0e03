package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/sketchbook/pkg/cache"
	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/sketches"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr errors.Code
	}{
		{"missing sketch", Options{}, errors.ErrCodeInvalidInput},
		{"bad sketch name", Options{Sketch: "Bad Name"}, errors.ErrCodeInvalidInput},
		{"bad patch key", Options{Sketch: "city", Patch: map[string]string{"no-dash": "1"}}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{Sketch: "city", Formats: []string{"gif"}}, errors.ErrCodeInvalidInput},
		{"bad scale", Options{Sketch: "city", Scale: 3}, errors.ErrCodeInvalidInput},
		{"ok", Options{Sketch: "city"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.opts.Seed == 0 || tt.opts.Scale != 1 || len(tt.opts.Formats) != 1 || tt.opts.Palettes == nil {
					t.Errorf("defaults not applied: %+v", tt.opts)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want code %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png", "pdf", "json"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "SVG"}); err == nil {
		t.Error("formats are case-sensitive")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func newTestRunner(t *testing.T) (*Runner, *cache.FileCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(sketches.Registry(nil), fc, nil, nil), fc
}

func TestExecuteCaches(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Sketch: "city", Seed: 8, Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.GenerateHit || first.CacheInfo.RenderHit {
		t.Error("cold run reported cache hits")
	}
	if len(first.Artifacts) != 2 || len(first.Failed) != 0 {
		t.Fatalf("artifacts = %d, failed = %v", len(first.Artifacts), first.Failed)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.GenerateHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm run cache info = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if first.CompositionHash != second.CompositionHash {
		t.Error("composition hash changed between runs")
	}

	refreshed, err := r.Execute(ctx, Options{Sketch: "city", Seed: 8, Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.GenerateHit {
		t.Error("refresh read from cache")
	}
}

func TestExecuteUnknownSketch(t *testing.T) {
	r, _ := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Sketch: "nope"})
	if !errors.Is(err, errors.ErrCodeUnknownSketch) {
		t.Errorf("err = %v, want UNKNOWN_SKETCH", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Execute(ctx, Options{Sketch: "automaton", Seed: 1}); err == nil {
		t.Error("cancelled context should stop before rendering")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC)
	paths, err := WriteArtifacts(dir, at, map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "genuary-2025-01-13T09-30-00.000Z.json"),
		filepath.Join(dir, "genuary-2025-01-13T09-30-00.000Z.svg"),
	}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(paths[1])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg file = %q, %v", data, err)
	}
}
