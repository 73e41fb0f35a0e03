// Package cli implements the sketchbook command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/buildinfo"
	"github.com/matzehuels/sketchbook/pkg/cache"
	"github.com/matzehuels/sketchbook/pkg/fonts"
	"github.com/matzehuels/sketchbook/pkg/gallery"
	"github.com/matzehuels/sketchbook/pkg/observability"
	"github.com/matzehuels/sketchbook/pkg/palette"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/sketch"
	"github.com/matzehuels/sketchbook/pkg/sketches"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sketchbook"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and server hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
		observability.SetSessionHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sketchbook generates seeded procedural compositions",
		Long:         `Sketchbook is a CLI for a series of generative sketches: seeded packing, isometric cities, dithering, wallpaper symmetries and cellular automata, exported as SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "project file (default: sketchbook.toml or sketchbook.yaml in the working directory)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sketchesCommand())
	root.AddCommand(c.palettesCommand())
	root.AddCommand(c.rerollCommand())
	root.AddCommand(c.galleryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cfg returns the loaded project config, or defaults outside a command run.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = defaultConfig()
	}
	return c.config
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) registry() *sketch.Registry {
	return sketches.Registry(c.Logger)
}

func (c *CLI) palettes() palette.Set {
	return palette.LoadOrDefault(c.cfg().Palettes, c.Logger)
}

func (c *CLI) font() *fonts.Font {
	if c.cfg().Font == "" {
		return nil
	}
	return fonts.LoadOrDefault(c.cfg().Font, c.Logger)
}

// newRunner creates a pipeline runner for CLI use. Keys are scoped to the
// build version so an upgrade never serves stale renders.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version)
	return pipeline.NewRunner(c.registry(), cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg().Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == backendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cache.WithPrefix(cfg.Prefix))
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openGallery opens the configured gallery store.
func (c *CLI) openGallery(ctx context.Context) (gallery.Store, error) {
	cfg := c.cfg().Gallery
	if cfg.Backend == backendMongo {
		return gallery.OpenMongo(ctx, cfg.URI, cfg.Database)
	}
	path := cfg.Path
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, fmt.Errorf("get data dir: %w", err)
		}
		path = filepath.Join(dir, "gallery.db")
	}
	return gallery.OpenSQLite(path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sketchbook/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/sketchbook/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
