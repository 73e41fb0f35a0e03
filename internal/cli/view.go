package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/internal/viewer"
	"github.com/matzehuels/sketchbook/pkg/session"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// viewCommand opens the live viewer window.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		seed   int64
		set    []string
		output string
		scale  int
	)
	cmd := &cobra.Command{
		Use:   "view [sketch]",
		Short: "Open a sketch in a live window",
		Long: `Open a sketch in a window and explore it from the keyboard:

  s  save SVG         p  save PNG        r  reroll
  c  cycle palette    d  toggle debug    l  toggle overlay
  q  quit

The window needs a build with -tags ebiten.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSketches,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.registry().Lookup(args[0])
			if err != nil {
				return err
			}
			patch, err := sketch.ParsePatch(set)
			if err != nil {
				return err
			}
			if output == "" {
				output = c.cfg().Output
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			sess := session.New(s,
				session.WithPalettes(c.palettes()),
				session.WithLogger(c.Logger),
				session.WithPatch(c.cfg().patchFor(args[0], patch)))
			if seed != 0 {
				if _, err := sess.Generate(seed); err != nil {
					return err
				}
			}
			saved, err := viewer.Run(ctx, sess, viewer.Options{
				Runner: runner,
				Font:   c.font(),
				Output: output,
				Scale:  scale,
				Logger: c.Logger,
			})
			for _, p := range saved {
				printFile(p)
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "initial seed (0 picks one)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "override a sketch parameter (key=value, repeatable)")
	c.completeParams(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory for saved artifacts")
	cmd.Flags().IntVar(&scale, "scale", 1, "window pixel density (1 or 2)")
	return cmd
}
