package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/gallery"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// galleryCommand manages saved compositions.
func (c *CLI) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage the showcase gallery",
	}
	cmd.AddCommand(c.galleryListCommand())
	cmd.AddCommand(c.galleryAddCommand())
	cmd.AddCommand(c.galleryRenderCommand())
	cmd.AddCommand(c.galleryRemoveCommand())
	return cmd
}

func (c *CLI) galleryListCommand() *cobra.Command {
	var opts gallery.ListOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List gallery entries in showcase order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openGallery(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Gallery is empty")
				printNextStep("Add one", appName+" gallery add packing --seed 32")
				return nil
			}
			fmt.Println(entryTable(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Sketch, "sketch", "", "only entries of this sketch")
	cmd.Flags().IntVar(&opts.Limit, "limit", gallery.DefaultLimit, "maximum entries")
	return cmd
}

func entryTable(entries []*gallery.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		thumb := ""
		if len(e.Thumbnail) > 0 {
			thumb = "✓"
		}
		rows = append(rows, []string{
			e.ID[:8], strconv.Itoa(e.Order), e.Title, e.Sketch,
			strconv.FormatInt(e.Seed, 10), thumb, e.CreatedAt.Format("2006-01-02"),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "#", "Title", "Sketch", "Seed", "Thumb", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 0 || col == 6:
				return StyleDim
			case col == 2:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) galleryAddCommand() *cobra.Command {
	var (
		seed        int64
		set         []string
		title       string
		description string
		order       int
		noThumb     bool
	)
	cmd := &cobra.Command{
		Use:   "add <sketch>",
		Short: "Save a composition to the gallery",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSketches,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			patch, err := sketch.ParsePatch(set)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Sketch:   name,
				Seed:     seed,
				Patch:    c.cfg().patchFor(name, patch),
				Formats:  []string{sink.FormatPNG},
				Palettes: c.palettes(),
				Font:     c.font(),
				Logger:   c.Logger,
			}
			entry, err := c.buildEntry(ctx, opts, !noThumb)
			if err != nil {
				return err
			}
			entry.Title = title
			entry.Description = description
			entry.Order = order

			store, err := c.openGallery(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Add(ctx, entry); err != nil {
				return err
			}
			printSuccess("Saved %s to the gallery", StyleHighlight.Render(entry.Title))
			printKeyValue("id", entry.ID)
			printKeyValue("seed", strconv.FormatInt(entry.Seed, 10))
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "override a sketch parameter (key=value, repeatable)")
	c.completeParams(cmd)
	cmd.Flags().StringVar(&title, "title", "", "showcase title (default: sketch name)")
	cmd.Flags().StringVar(&description, "description", "", "showcase description")
	cmd.Flags().IntVar(&order, "order", 0, "showcase position (ascending)")
	cmd.Flags().BoolVar(&noThumb, "no-thumbnail", false, "do not store a thumbnail")
	return cmd
}

// buildEntry generates the composition for opts, resolving a random seed,
// and optionally renders a thumbnail.
func (c *CLI) buildEntry(ctx context.Context, opts pipeline.Options, thumb bool) (*gallery.Entry, error) {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if !thumb {
		comp, err := runner.Generate(ctx, opts)
		if err != nil {
			return nil, err
		}
		return gallery.FromComposition(comp, opts.Patch, ""), nil
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	entry := gallery.FromComposition(result.Composition, opts.Patch, "")
	if png, ok := result.Artifacts[sink.FormatPNG]; ok {
		if entry.Thumbnail, err = gallery.Thumbnail(png, gallery.DefaultThumbnailSize); err != nil {
			c.Logger.Warn("thumbnail failed, saving without", "err", err)
		}
	}
	return entry, nil
}

func (c *CLI) galleryRenderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Regenerate and export a gallery entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openGallery(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			entry, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			popts, err := c.pipelineOptions(entry.Sketch, &opts)
			if err != nil {
				return err
			}
			popts.Seed = entry.Seed
			popts.Patch = entry.Patch
			if popts.Title == "" {
				popts.Title = entry.Title
			}
			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			result, err := runner.Execute(ctx, popts)
			if err != nil {
				return err
			}
			printInfo("%s", StyleHighlight.Render(entry.Title))
			printComposition(result.Composition, result.CacheInfo.GenerateHit && result.CacheInfo.RenderHit)
			return c.writeResult(&opts, result.Artifacts, result.Failed)
		},
	}
	opts.addRenderFlags(cmd)
	return cmd
}

func (c *CLI) galleryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a gallery entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openGallery(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}
