package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "sketchbook.toml", `
output = "out"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
prefix = "sb"

[gallery]
backend = "mongo"
uri = "mongodb://localhost:27017"

[sketches.city]
grid = "14"
windows = "false"
`},
		{"yaml", "sketchbook.yaml", `
output: out
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
  prefix: sb
gallery:
  backend: mongo
  uri: mongodb://localhost:27017
sketches:
  city:
    grid: "14"
    windows: "false"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, got, err := loadConfig(path)
			if err != nil {
				t.Fatal(err)
			}
			if got != path {
				t.Errorf("path = %q", got)
			}
			if cfg.Output != "out" {
				t.Errorf("Output = %q", cfg.Output)
			}
			if cfg.Cache.Backend != backendRedis || cfg.Cache.Prefix != "sb" {
				t.Errorf("Cache = %+v", cfg.Cache)
			}
			if cfg.Gallery.Backend != backendMongo {
				t.Errorf("Gallery = %+v", cfg.Gallery)
			}
			if cfg.Server.Addr != ":8080" {
				t.Errorf("Server.Addr default lost: %q", cfg.Server.Addr)
			}
			if cfg.Sketches["city"]["grid"] != "14" {
				t.Errorf("Sketches = %v", cfg.Sketches)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"malformed toml", "sketchbook.toml", "output = ", errors.ErrCodeInvalidFormat},
		{"unknown extension", "sketchbook.ini", "output=out", errors.ErrCodeInvalidFormat},
		{"unknown cache backend", "sketchbook.toml", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"redis without url", "sketchbook.toml", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "sketchbook.yaml", "gallery:\n  backend: mongo", errors.ErrCodeInvalidConfig},
		{"bad sketch name", "sketchbook.toml", "[sketches.\"Bad Name\"]\ngrid = \"1\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadConfig(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if cfg.Cache.Backend != backendFile || cfg.Gallery.Backend != backendSQLite {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestPatchFor(t *testing.T) {
	cfg := defaultConfig()
	cfg.Sketches = map[string]map[string]string{"city": {"grid": "12", "windows": "false"}}

	got := cfg.patchFor("city", map[string]string{"grid": "14"})
	if got["grid"] != "14" || got["windows"] != "false" || len(got) != 2 {
		t.Errorf("patchFor = %v", got)
	}
	if got := cfg.patchFor("packing", nil); len(got) != 0 {
		t.Errorf("patchFor(packing) = %v", got)
	}
	if cfg.Sketches["city"]["grid"] != "12" {
		t.Error("patchFor mutated the project config")
	}
}
