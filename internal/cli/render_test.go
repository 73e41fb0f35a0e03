package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sketchbook/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "pdf", "png", "json"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.config = defaultConfig()
	c.config.Sketches = map[string]map[string]string{"city": {"grid": "12", "windows": "false"}}

	o := &renderOpts{seed: 7, set: []string{"grid=14"}, formats: "svg,png", scale: 2}
	opts, err := c.pipelineOptions("city", o)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Patch["grid"] != "14" || opts.Patch["windows"] != "false" {
		t.Errorf("patch = %v", opts.Patch)
	}
	if opts.Seed != 7 || opts.Scale != 2 || len(opts.Formats) != 2 {
		t.Errorf("options = %+v", opts)
	}

	if _, err := c.pipelineOptions("city", &renderOpts{formats: "gif"}); err == nil {
		t.Error("gif accepted")
	}
	if _, err := c.pipelineOptions("city", &renderOpts{set: []string{"grid"}}); err == nil {
		t.Error("malformed --set accepted")
	}
}

func TestRenderCommandWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "automaton", "--seed", "5", "--set", "steps=2", "-f", "svg,json", "-o", dir, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	svgs, _ := filepath.Glob(filepath.Join(dir, "*.svg"))
	jsons, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(svgs) != 1 || len(jsons) != 1 {
		t.Fatalf("wrote svg=%v json=%v", svgs, jsons)
	}
	data, err := os.ReadFile(svgs[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("empty svg")
	}
}
