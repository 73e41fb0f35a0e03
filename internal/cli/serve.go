package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/internal/server"
	"github.com/matzehuels/sketchbook/pkg/gallery"
)

// serveCommand starts the render-on-demand HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noGallery bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sketches over HTTP",
		Long: `Start an HTTP server that renders sketches on demand.

  GET /sketches/{name}/{seed}.{svg|png|pdf|json}?key=value

Query parameters patch the sketch config, except scale, title and refresh
which configure the export. Renders share the configured cache, so several
servers behind one Redis reuse each other's work.`,
		Example: `  sketchbook serve --addr :8080
  curl localhost:8080/sketches/packing/32.svg?overlay=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg().Server.Addr
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			var store gallery.Store
			if !noGallery {
				if store, err = c.openGallery(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			srv := server.New(server.Config{
				Runner:   runner,
				Palettes: c.palettes(),
				Font:     c.font(),
				Gallery:  store,
				Logger:   c.Logger,
			})
			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noGallery, "no-gallery", false, "disable the gallery routes")
	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
