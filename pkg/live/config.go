package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/popover/pkg/popover"
)

// Config configures the live server.
type Config struct {
	// Title is the page title.
	Title string

	// Triggers are the labels of the trigger buttons. All of them share
	// one popover.
	Triggers []string

	// Positioning is passed to every session's popover.
	Positioning popover.Positioning

	// Open makes new sessions start with the popover open.
	Open bool

	// FrameTimeout is how long a session waits for the browser to answer
	// a frame request before positioning with the geometry it has.
	FrameTimeout time.Duration

	// ReadLimit caps incoming websocket messages, in bytes.
	ReadLimit int64

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// CheckOrigin validates websocket upgrades. nil allows same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// Registry receives popover and session metrics. nil disables metrics.
	Registry *prometheus.Registry

	// MetricsPath serves Registry when both are set.
	MetricsPath string

	// TracerProvider creates session and popover spans. nil uses the
	// global provider.
	TracerProvider trace.TracerProvider

	// Logger is the server logger.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with three triggers and default
// positioning.
func DefaultConfig() *Config {
	return &Config{
		Title:        "Popover",
		Triggers:     []string{"Profile", "Settings", "Help"},
		Positioning:  popover.DefaultPositioning(),
		FrameTimeout: 100 * time.Millisecond,
		ReadLimit:    64 * 1024,
		WriteTimeout: 5 * time.Second,
		MetricsPath:  "/metrics",
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if len(c.Triggers) == 0 {
		c.Triggers = def.Triggers
	}
	if !c.Positioning.Placement.Valid() {
		c.Positioning = def.Positioning
	}
	if c.FrameTimeout <= 0 {
		c.FrameTimeout = def.FrameTimeout
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = def.ReadLimit
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
