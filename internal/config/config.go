package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/popover"
)

const (
	// JSONFileName and YAMLFileName are looked up by Load, in that order.
	JSONFileName = "popover.json"
	YAMLFileName = "popover.yaml"

	// DefaultAddr is the live server listen address.
	DefaultAddr = "localhost:8080"

	// DefaultFrameTimeout bounds how long the server waits for a browser
	// animation frame before positioning anyway.
	DefaultFrameTimeout = "100ms"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultReadLimit is the largest accepted websocket message in bytes.
	DefaultReadLimit = 64 * 1024

	// DefaultFPS is the terminal frame rate.
	DefaultFPS = 30
)

// DefaultTriggers are the trigger labels used when none are configured.
var DefaultTriggers = []string{"Profile", "Settings", "Help"}

// Config is the complete popover configuration.
type Config struct {
	// Server configures the live web host.
	Server ServerConfig `json:"server" yaml:"server"`

	// Popover configures the popover instance shown by both hosts.
	Popover PopoverConfig `json:"popover" yaml:"popover"`

	// Log configures structured logging.
	Log LogConfig `json:"log" yaml:"log"`

	// TUI configures the terminal host.
	TUI TUIConfig `json:"tui" yaml:"tui"`

	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// FrameTimeout is a duration such as "100ms".
	FrameTimeout string `json:"frameTimeout,omitempty" yaml:"frameTimeout,omitempty"`

	// Metrics enables the Prometheus endpoint.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// MetricsPath is the Prometheus endpoint path.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// ReadLimit caps incoming websocket messages, in bytes.
	ReadLimit int64 `json:"readLimit,omitempty" yaml:"readLimit,omitempty"`
}

// PopoverConfig contains the popover options.
type PopoverConfig struct {
	Placement       string   `json:"placement,omitempty" yaml:"placement,omitempty"`
	ArrowSize       int      `json:"arrowSize,omitempty" yaml:"arrowSize,omitempty"`
	Gutter          *float64 `json:"gutter,omitempty" yaml:"gutter,omitempty"`
	Flip            *bool    `json:"flip,omitempty" yaml:"flip,omitempty"`
	OverflowPadding *float64 `json:"overflowPadding,omitempty" yaml:"overflowPadding,omitempty"`

	// Open makes the popover start open, anchored to the first trigger.
	Open bool `json:"open,omitempty" yaml:"open,omitempty"`

	// Triggers are the labels of the trigger buttons.
	Triggers []string `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TUIConfig contains terminal host settings.
type TUIConfig struct {
	AltScreen bool `json:"altScreen" yaml:"altScreen"`
	FPS       int  `json:"fps,omitempty" yaml:"fps,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{
		TUI: TUIConfig{AltScreen: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads popover.json, popover.yaml or popover.yml from dir. Without
// any of them it returns the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName, "popover.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the
// extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path).
				WithSuggestion("Run 'popover init' to write a default popover.yaml")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E102").
				WithLocationFromError(path, data, err).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON").
				Wrap(err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E103").
				WithLocationFromError(path, data, err).
				WithSuggestion("Indent nested keys with spaces, not tabs").
				Wrap(err)
		}
	default:
		return nil, errors.New("E104").
			WithDetail(fmt.Sprintf("%q is not a supported config format.", ext))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("E104").WithDetail("Cannot write " + path)
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.FrameTimeout == "" {
		c.Server.FrameTimeout = DefaultFrameTimeout
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}

	if c.Popover.Placement == "" {
		c.Popover.Placement = string(floating.Bottom)
	}
	if c.Popover.ArrowSize == 0 {
		c.Popover.ArrowSize = popover.DefaultArrowSize
	}
	if c.Popover.Gutter == nil {
		g := float64(floating.DefaultGutter)
		c.Popover.Gutter = &g
	}
	if c.Popover.OverflowPadding == nil {
		p := float64(floating.DefaultOverflowPadding)
		c.Popover.OverflowPadding = &p
	}
	if c.Popover.Flip == nil {
		flip := true
		c.Popover.Flip = &flip
	}
	if len(c.Popover.Triggers) == 0 {
		c.Popover.Triggers = append([]string(nil), DefaultTriggers...)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.TUI.FPS == 0 {
		c.TUI.FPS = DefaultFPS
	}
}

// Validate checks the configuration. It reports the first problem found.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("E115").
			WithDetail(fmt.Sprintf("%q is not a host:port address.", c.Server.Addr)).
			WithSuggestion(`Use an address such as "localhost:8080" or ":8080"`).
			Wrap(err)
	}
	if d, err := time.ParseDuration(c.Server.FrameTimeout); err != nil || d <= 0 {
		return errors.New("E116").
			WithSuggestion(`Use a duration such as "100ms"`)
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.New("E118")
	}

	if _, err := floating.ParsePlacement(c.Popover.Placement); err != nil {
		return errors.New("E110").
			WithSuggestion("Use bottom, bottom-start, top-end and so on").
			WithExample("popover:\n  placement: bottom-start").
			Wrap(err)
	}
	if c.Popover.ArrowSize <= 0 {
		return errors.New("E111")
	}
	if *c.Popover.Gutter < 0 || *c.Popover.OverflowPadding < 0 {
		return errors.New("E112")
	}
	if len(c.Popover.Triggers) == 0 {
		return errors.New("E117")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("E113").Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E114").
			WithDetail(fmt.Sprintf("%q is not a log format. Use text or json.", c.Log.Format))
	}
	return nil
}

// FrameTimeout returns the parsed frame timeout, falling back to the
// default for unparsable values.
func (c *Config) FrameTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.FrameTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultFrameTimeout)
	}
	return d
}

// Positioning returns the popover positioning options.
func (c *Config) Positioning() popover.Positioning {
	pos := popover.DefaultPositioning()
	if placement, err := floating.ParsePlacement(c.Popover.Placement); err == nil {
		pos.Placement = placement
	}
	if c.Popover.ArrowSize > 0 {
		pos.ArrowSize = c.Popover.ArrowSize
	}
	if c.Popover.Gutter != nil {
		pos.Gutter = *c.Popover.Gutter
	}
	if c.Popover.OverflowPadding != nil {
		pos.OverflowPadding = *c.Popover.OverflowPadding
	}
	if c.Popover.Flip != nil {
		pos.Flip = *c.Popover.Flip
	}
	return pos
}

// Logger builds a slog logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if l.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}
