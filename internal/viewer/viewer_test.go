package viewer

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/session"
	"github.com/matzehuels/sketchbook/pkg/sketches"
)

func newTestHost(t *testing.T) *host {
	t.Helper()
	logger := log.New(io.Discard)
	reg := sketches.Registry(logger)
	s, err := reg.Lookup("automaton")
	require.NoError(t, err)

	seed := int64(0)
	sess := session.New(s,
		session.WithLogger(logger),
		session.WithPatch(map[string]string{"steps": "1"}),
		session.WithSeedSource(func() int64 { seed++; return seed }))
	return newHost(sess, Options{
		Runner: pipeline.NewRunner(reg, nil, nil, logger),
		Output: t.TempDir(),
		Logger: logger,
	})
}

func TestHostStartAndReroll(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.start())

	frame, version, _ := h.current()
	require.NotNil(t, frame)
	assert.Equal(t, 1, version)
	c := h.sess.Composition()
	assert.Equal(t, int(c.Width), frame.Bounds().Dx())

	h.handle(context.Background(), "r")
	_, version, status := h.current()
	assert.Equal(t, 2, version)
	assert.Equal(t, "reroll", status)
	assert.Equal(t, int64(2), h.sess.Composition().Seed)
}

func TestHostSave(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.start())

	h.handle(context.Background(), "s")
	saved := h.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, h.opts.Output, filepath.Dir(saved[0]))
	assert.True(t, strings.HasSuffix(saved[0], ".svg"))

	_, version, _ := h.current()
	assert.Equal(t, 1, version, "saving must not change the frame")
}

func TestHostPress(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	assert.False(t, h.press(ctx, "x"), "unbound key")

	h.busy.Store(true)
	assert.False(t, h.press(ctx, "r"), "key accepted while busy")
	h.busy.Store(false)

	assert.True(t, h.press(ctx, "q"))
	assert.True(t, h.quit.Load())
}

func TestHostSaveBeforeStart(t *testing.T) {
	h := newTestHost(t)
	h.handle(context.Background(), "p")
	_, _, status := h.current()
	assert.Equal(t, session.ErrNotReady.Error(), status)
	assert.Empty(t, h.Saved())
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Scale: 3}
	o.setDefaults()
	assert.Equal(t, 1, o.Scale)
	assert.Equal(t, ".", o.Output)
	assert.NotNil(t, o.Keymap)
	assert.NotNil(t, o.Logger)
}
