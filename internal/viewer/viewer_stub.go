//go:build !ebiten

package viewer

import (
	"context"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/session"
)

// Run needs the ebiten build tag; this build only reports that.
func Run(ctx context.Context, sess *session.Session, opts Options) ([]string, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "the live viewer needs a build with -tags ebiten")
}
