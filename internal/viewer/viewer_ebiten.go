//go:build ebiten

package viewer

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/matzehuels/sketchbook/pkg/session"
)

// keyNames translates the polled keys to keymap names.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyS:      "s",
	ebiten.KeyP:      "p",
	ebiten.KeyR:      "r",
	ebiten.KeyC:      "c",
	ebiten.KeyD:      "d",
	ebiten.KeyL:      "l",
	ebiten.KeyQ:      "q",
	ebiten.KeyEscape: "esc",
}

// game adapts a host to the ebiten.Game interface.
type game struct {
	ctx  context.Context
	host *host

	img     *ebiten.Image
	version int
}

func (g *game) Update() error {
	if g.host.quit.Load() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	for k, name := range keyNames {
		if inpututil.IsKeyJustPressed(k) {
			g.host.press(g.ctx, name)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, version, status := g.host.current()
	if frame != nil && version != g.version {
		g.img = ebiten.NewImageFromImage(frame)
		g.version = version
	}
	if g.img != nil {
		screen.DrawImage(g.img, nil)
	}
	if g.host.busy.Load() {
		status = "working..."
	}
	if status != "" {
		ebitenutil.DebugPrint(screen, status)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	c := g.host.sess.Composition()
	if c == nil {
		return outsideWidth, outsideHeight
	}
	return int(c.Width) * g.host.opts.Scale, int(c.Height) * g.host.opts.Scale
}

// Run opens a window on sess and blocks until it is closed or ctx ends.
// It returns the paths of artifacts saved from the window.
func Run(ctx context.Context, sess *session.Session, opts Options) ([]string, error) {
	h := newHost(sess, opts)
	if err := h.start(); err != nil {
		return nil, err
	}
	c := sess.Composition()
	ebiten.SetWindowSize(int(c.Width), int(c.Height))
	ebiten.SetWindowTitle(fmt.Sprintf("%s · seed %d", c.Sketch, c.Seed))
	if err := ebiten.RunGame(&game{ctx: ctx, host: h}); err != nil {
		return h.Saved(), err
	}
	return h.Saved(), nil
}
