package cli

import (
	"path/filepath"
	"testing"
)

func TestUserDirs(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name   string
		fn     func() (string, error)
		envKey string
		envVal string
		want   string
	}{
		{"cache default", cacheDir, "XDG_CACHE_HOME", "", filepath.Join(home, ".cache", appName)},
		{"cache xdg", cacheDir, "XDG_CACHE_HOME", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
		{"data default", dataDir, "XDG_DATA_HOME", "", filepath.Join(home, ".local", "share", appName)},
		{"data xdg", dataDir, "XDG_DATA_HOME", "/tmp/custom-data", filepath.Join("/tmp/custom-data", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv(tt.envKey, tt.envVal)

			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Run("from config", func(t *testing.T) {
		c := &CLI{config: defaultConfig()}
		c.config.Cache.Dir = "/srv/sketch-cache"

		dir, err := c.fileCacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/srv/sketch-cache" {
			t.Errorf("fileCacheDir() = %q", dir)
		}
	})

	t.Run("falls back to user cache", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		c := &CLI{config: defaultConfig()}
		c.config.Cache.Dir = ""

		dir, err := c.fileCacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
			t.Errorf("fileCacheDir() = %q, want %q", dir, want)
		}
	})
}
