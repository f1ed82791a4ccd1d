package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/floating"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codeOf(err error) string {
	var pe *errors.PopoverError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Popover.Placement != "bottom" {
		t.Errorf("Popover.Placement = %q, want bottom", cfg.Popover.Placement)
	}
	if cfg.Popover.ArrowSize != 8 {
		t.Errorf("Popover.ArrowSize = %d, want 8", cfg.Popover.ArrowSize)
	}
	if len(cfg.Popover.Triggers) != len(DefaultTriggers) {
		t.Errorf("Popover.Triggers = %v", cfg.Popover.Triggers)
	}
	if !cfg.TUI.AltScreen || cfg.TUI.FPS != DefaultFPS {
		t.Errorf("unexpected TUI defaults %+v", cfg.TUI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{
  "server": {"addr": ":9000", "metrics": true},
  "popover": {"placement": "top-end", "arrowSize": 12, "flip": false, "triggers": ["One"]},
  "log": {"level": "debug", "format": "json"}
}
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || !cfg.Server.Metrics {
		t.Errorf("unexpected server %+v", cfg.Server)
	}
	if cfg.Server.FrameTimeout != DefaultFrameTimeout {
		t.Errorf("missing fields should take defaults, got %q", cfg.Server.FrameTimeout)
	}
	if len(cfg.Popover.Triggers) != 1 || cfg.Popover.Triggers[0] != "One" {
		t.Errorf("Triggers = %v", cfg.Popover.Triggers)
	}

	pos := cfg.Positioning()
	if pos.Placement != floating.TopEnd || pos.ArrowSize != 12 || pos.Flip {
		t.Errorf("unexpected positioning %+v", pos)
	}
	if pos.Gutter != floating.DefaultGutter {
		t.Errorf("Gutter = %v, want default", pos.Gutter)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, YAMLFileName, `
server:
  frameTimeout: 250ms
popover:
  placement: left
  gutter: 0
  open: true
tui:
  altScreen: false
  fps: 60
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FrameTimeout() != 250*time.Millisecond {
		t.Errorf("FrameTimeout() = %v", cfg.FrameTimeout())
	}
	if !cfg.Popover.Open {
		t.Error("Popover.Open should be true")
	}
	if cfg.TUI.AltScreen || cfg.TUI.FPS != 60 {
		t.Errorf("unexpected TUI %+v", cfg.TUI)
	}

	pos := cfg.Positioning()
	if pos.Placement != floating.Left || pos.Gutter != 0 {
		t.Errorf("an explicit zero gutter must be kept, got %+v", pos)
	}
	if !pos.Flip {
		t.Error("flip defaults to true")
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), "E100"},
		{"bad json", writeFile(t, dir, "bad.json", `{"popover": }`), "E102"},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "popover:\n\tplacement: top\n"), "E103"},
		{"unknown ext", writeFile(t, dir, "popover.toml", "x = 1"), "E104"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			if got := codeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadFileJSONLocation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "popover.json", "{\n  \"popover\": {\n    \"arrowSize\": \"big\"\n  }\n}\n")

	_, err := LoadFile(path)
	var pe *errors.PopoverError
	if !stderrors.As(err, &pe) {
		t.Fatalf("expected a PopoverError, got %v", err)
	}
	if pe.Location == nil || pe.Location.Line != 3 {
		t.Errorf("expected the error on line 3, got %+v", pe.Location)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"bad addr", func(c *Config) { c.Server.Addr = "nohost" }, "E115"},
		{"bad timeout", func(c *Config) { c.Server.FrameTimeout = "soon" }, "E116"},
		{"negative timeout", func(c *Config) { c.Server.FrameTimeout = "-1s" }, "E116"},
		{"bad metrics path", func(c *Config) { c.Server.MetricsPath = "metrics" }, "E118"},
		{"bad placement", func(c *Config) { c.Popover.Placement = "sideways" }, "E110"},
		{"bad arrow", func(c *Config) { c.Popover.ArrowSize = -1 }, "E111"},
		{"negative gutter", func(c *Config) { g := -1.0; c.Popover.Gutter = &g }, "E112"},
		{"no triggers", func(c *Config) { c.Popover.Triggers = nil }, "E117"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "E113"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "E114"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if got := codeOf(cfg.Validate()); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	for _, name := range []string{"popover.yaml", "popover.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := New()
			cfg.Popover.Placement = "right-start"
			cfg.TUI.AltScreen = false
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q", cfg.Path())
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if loaded.Popover.Placement != "right-start" {
				t.Errorf("Placement = %q", loaded.Popover.Placement)
			}
			if loaded.TUI.AltScreen {
				t.Error("altScreen=false must survive a round trip")
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf strings.Builder
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}
