package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/session"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// rerollCommand re-generates the last rendered sketch with fresh seeds.
func (c *CLI) rerollCommand() *cobra.Command {
	var (
		opts  renderOpts
		count int
	)
	cmd := &cobra.Command{
		Use:   "reroll [sketch]",
		Short: "Render the last sketch again with a new seed",
		Long: `Render the most recently rendered sketch again with a fresh seed, keeping
its parameters. Naming a sketch rerolls the last render of that sketch, or
starts from its defaults.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeSketches,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runReroll(cmd.Context(), name, count, &opts)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of rerolls")
	opts.addRenderFlags(cmd)
	c.completeParams(cmd)
	return cmd
}

func (c *CLI) runReroll(ctx context.Context, name string, count int, o *renderOpts) error {
	store, err := session.NewFileStore("")
	if err != nil {
		return err
	}
	if n, err := store.Cleanup(ctx, snapshotMaxAge); err == nil && n > 0 {
		c.Logger.Debug("removed old sessions", "count", n)
	}

	patch := map[string]string{}
	snap, err := store.Latest(ctx, name)
	switch {
	case err == nil:
		name = snap.Sketch
		maps.Copy(patch, snap.Patch)
	case errors.Is(err, session.ErrNoSnapshot) && name != "":
		maps.Copy(patch, c.cfg().Sketches[name])
	case errors.Is(err, session.ErrNoSnapshot):
		return fmt.Errorf("nothing to reroll yet: render a sketch first or name one")
	default:
		return err
	}
	set, err := sketch.ParsePatch(o.set)
	if err != nil {
		return err
	}
	maps.Copy(patch, set)

	s, err := c.registry().Lookup(name)
	if err != nil {
		return err
	}
	sess := session.New(s,
		session.WithPalettes(c.palettes()),
		session.WithLogger(c.Logger),
		session.WithPatch(patch))

	opts, err := c.pipelineOptions(name, o)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	n := max(count, 1)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rerolling %s %d/%d...", name, i+1, n))
		spinner.Start()
		comp, err := sess.Reroll()
		var out pipeline.Rendered
		if err == nil {
			spinner.SetMessage(fmt.Sprintf("Rendering %s seed %d...", name, comp.Seed))
			out, _, err = runner.RenderWithCacheInfo(ctx, comp, opts)
		}
		spinner.Stop()
		if err != nil {
			return err
		}
		printComposition(comp, false)
		if err := c.writeResult(o, out.Artifacts, out.Failed); err != nil {
			return err
		}
		c.saveSnapshot(ctx, store, sess)
	}
	return nil
}

// snapshotMaxAge bounds how long render history is kept.
const snapshotMaxAge = 30 * 24 * time.Hour

// recordRender saves a snapshot of a finished render for reroll.
func (c *CLI) recordRender(ctx context.Context, comp *sketch.Composition, patch map[string]string) {
	store, err := session.NewFileStore("")
	if err == nil {
		err = store.Save(ctx, &session.Snapshot{
			Sketch:  comp.Sketch,
			Seed:    comp.Seed,
			Patch:   patch,
			Palette: comp.Palette.Name,
		})
	}
	if err != nil {
		c.Logger.Warn("could not save session", "err", err)
	}
}

// saveSnapshot records the session so a later reroll can continue from it.
// Failures are logged, not returned: the render itself succeeded.
func (c *CLI) saveSnapshot(ctx context.Context, store *session.FileStore, sess *session.Session) {
	snap, err := sess.Snapshot()
	if err == nil {
		snap.ID = ""
		err = store.Save(ctx, snap)
	}
	if err != nil {
		c.Logger.Warn("could not save session", "err", err)
	}
}
