package gallery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// testStore exercises the Store contract against a fresh, empty store.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("add and get", func(t *testing.T) {
		s := newStore(t)
		e := &Entry{
			Sketch:      "packing",
			Seed:        32,
			Patch:       map[string]string{"containerTargetCount": "12"},
			Title:       "  Containers  ",
			Description: "day 3",
			Thumbnail:   []byte{1, 2, 3},
			Order:       2,
		}
		require.NoError(t, s.Add(ctx, e))
		require.NotEmpty(t, e.ID)
		assert.Equal(t, "Containers", e.Title)

		got, err := s.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Sketch, got.Sketch)
		assert.Equal(t, e.Seed, got.Seed)
		assert.Equal(t, e.Patch, got.Patch)
		assert.Equal(t, e.Description, got.Description)
		assert.Equal(t, e.Thumbnail, got.Thumbnail)
		assert.Equal(t, e.Order, got.Order)
		assert.True(t, e.CreatedAt.Equal(got.CreatedAt), "created %v, got %v", e.CreatedAt, got.CreatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "2d3c9a4e-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "2d3c9a4e-0000-4000-8000-000000000000"), ErrNotFound)
	})

	t.Run("showcase order", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
		entries := []*Entry{
			{Sketch: "city", Seed: 1, Order: 1, CreatedAt: base},
			{Sketch: "city", Seed: 2, Order: 0, CreatedAt: base},
			{Sketch: "dither", Seed: 3, Order: 1, CreatedAt: base.Add(time.Hour)},
			{Sketch: "city", Seed: 4, Order: 0, CreatedAt: base.Add(time.Minute)},
		}
		for _, e := range entries {
			require.NoError(t, s.Add(ctx, e))
		}

		all, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2, 3, 1}, seeds(all))

		city, err := s.List(ctx, ListOptions{Sketch: "city", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2}, seeds(city))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		e := &Entry{Sketch: "automaton", Seed: 9}
		require.NoError(t, s.Add(ctx, e))
		require.NoError(t, s.Delete(ctx, e.ID))
		_, err := s.Get(ctx, e.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		s := newStore(t)
		err := s.Add(ctx, &Entry{Sketch: "Bad Name", Seed: 1})
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
		err = s.Add(ctx, &Entry{Sketch: "city"})
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
	})
}

func seeds(es []*Entry) []int64 {
	out := make([]int64, len(es))
	for i, e := range es {
		out[i] = e.Seed
	}
	return out
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := OpenSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/nested/gallery.db"

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	e := &Entry{Sketch: "wallpaper", Seed: 17, Title: "p4m"}
	require.NoError(t, s.Add(ctx, e))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "p4m", got.Title)
	assert.Nil(t, got.Thumbnail)
}

func TestPrepareDefaults(t *testing.T) {
	e := &Entry{Sketch: "city", Seed: 8}
	require.NoError(t, e.Prepare())
	assert.Equal(t, "city", e.Title)
	assert.False(t, e.CreatedAt.IsZero())

	bad := &Entry{Sketch: "city", Seed: 8, ID: "not-a-uuid"}
	assert.Error(t, bad.Prepare())

	patch := &Entry{Sketch: "city", Seed: 8, Patch: map[string]string{"no-dash": "1"}}
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(patch.Prepare()))
}

func TestFromComposition(t *testing.T) {
	c := &sketch.Composition{Sketch: "circles", Seed: 5}
	patch := map[string]string{"target": "10"}
	e := FromComposition(c, patch, "Bubbles")
	patch["target"] = "20"
	assert.Equal(t, "circles", e.Sketch)
	assert.Equal(t, int64(5), e.Seed)
	assert.Equal(t, "10", e.Patch["target"])
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 540, 675))
	for y := range 675 {
		for x := range 540 {
			src.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	tests := []struct {
		name string
		size int
		w, h int
	}{
		{"fit", 100, 80, 100},
		{"default size", 0, 256, 320},
		{"no upscale", 1000, 540, 675},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Thumbnail(buf.Bytes(), tt.size)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.w, img.Bounds().Dx())
			assert.Equal(t, tt.h, img.Bounds().Dy())
		})
	}

	_, err := Thumbnail([]byte("not an image"), 10)
	assert.Error(t, err)
}
