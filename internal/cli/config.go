package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// configNames are searched in the working directory, in order, when no
// --config flag is given.
var configNames = []string{"sketchbook.toml", "sketchbook.yaml", "sketchbook.yml"}

// Cache and gallery backends.
const (
	backendFile   = "file"
	backendRedis  = "redis"
	backendNone   = "none"
	backendSQLite = "sqlite"
	backendMongo  = "mongo"
)

// Config is the project file.
type Config struct {
	// Output is the directory artifacts are written to.
	Output string `toml:"output" yaml:"output"`
	// Palettes is a palette JSON asset; empty uses the embedded set.
	Palettes string `toml:"palettes" yaml:"palettes"`
	// Font is a TTF file for sketch text; empty uses the embedded face.
	Font string `toml:"font" yaml:"font"`

	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Gallery GalleryConfig `toml:"gallery" yaml:"gallery"`
	Server  ServerConfig  `toml:"server" yaml:"server"`

	// Sketches holds per-sketch parameter patches applied before --set.
	Sketches map[string]map[string]string `toml:"sketches" yaml:"sketches"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// GalleryConfig selects the gallery store.
type GalleryConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Path     string `toml:"path" yaml:"path"`
	URI      string `toml:"uri" yaml:"uri"`
	Database string `toml:"database" yaml:"database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// defaultConfig returns the configuration used when no project file exists.
func defaultConfig() *Config {
	return &Config{
		Output:  ".",
		Cache:   CacheConfig{Backend: backendFile},
		Gallery: GalleryConfig{Backend: backendSQLite},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads the project file at path. An empty path searches the
// working directory and falls back to defaults when nothing is found.
func loadConfig(path string) (*Config, string, error) {
	if path == "" {
		for _, name := range configNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return defaultConfig(), "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	cfg := defaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "config %s: want .toml, .yaml or .yml", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, path, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (valid: file, redis, none)", c.Cache.Backend)
	}
	switch c.Gallery.Backend {
	case "", backendSQLite:
	case backendMongo:
		if c.Gallery.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "gallery.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown gallery backend %q (valid: sqlite, mongo)", c.Gallery.Backend)
	}
	for name, patch := range c.Sketches {
		if err := errors.ValidateSketchName(name); err != nil {
			return err
		}
		for k := range patch {
			if err := errors.ValidateParamKey(k); err != nil {
				return fmt.Errorf("sketches.%s: %w", name, err)
			}
		}
	}
	return nil
}

// patchFor merges the project patch for sketch with command-line pairs,
// which win.
func (c *Config) patchFor(sketch string, set map[string]string) map[string]string {
	out := make(map[string]string, len(c.Sketches[sketch])+len(set))
	for k, v := range c.Sketches[sketch] {
		out[k] = v
	}
	for k, v := range set {
		out[k] = v
	}
	return out
}
