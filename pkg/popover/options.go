package popover

import (
	"log/slog"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/host"
)

// DefaultArrowSize is the arrow width and height in pixels.
const DefaultArrowSize = 8

// Positioning is the per-instance floating configuration. It is fixed when
// the popover is created.
type Positioning struct {
	Placement       floating.Placement
	ArrowSize       int
	Gutter          float64
	Flip            bool
	OverflowPadding float64
}

// DefaultPositioning returns bottom placement with an 8px arrow.
func DefaultPositioning() Positioning {
	return Positioning{
		Placement:       floating.Bottom,
		ArrowSize:       DefaultArrowSize,
		Gutter:          floating.DefaultGutter,
		Flip:            true,
		OverflowPadding: floating.DefaultOverflowPadding,
	}
}

func (p Positioning) floatingOptions() floating.Options {
	return floating.Options{
		Placement:       p.Placement,
		Gutter:          p.Gutter,
		Flip:            p.Flip,
		OverflowPadding: p.OverflowPadding,
		ArrowSize:       float64(p.ArrowSize),
	}
}

// Positioner anchors a content element to the element in req.
// floating.Engine implements it.
type Positioner interface {
	Anchor(content dom.Element, req floating.Request) (floating.Handle, error)
}

// Option configures a Popover.
type Option func(*config)

type config struct {
	positioning Positioning
	open        bool
	host        host.Host
	positioner  Positioner
	ids         IDGenerator
	logger      *slog.Logger
	observer    Observer
}

func defaultConfig() config {
	return config{
		positioning: DefaultPositioning(),
		host:        host.Static{},
		ids:         NewULIDGenerator("popover-content"),
		logger:      slog.Default(),
		observer:    NopObserver{},
	}
}

// WithPlacement sets the preferred placement. Invalid placements keep the
// default.
func WithPlacement(placement floating.Placement) Option {
	return func(c *config) {
		if placement.Valid() {
			c.positioning.Placement = placement
		}
	}
}

// WithArrowSize sets the arrow size in pixels.
func WithArrowSize(px int) Option {
	return func(c *config) {
		if px > 0 {
			c.positioning.ArrowSize = px
		}
	}
}

// WithPositioning replaces the whole positioning configuration.
func WithPositioning(p Positioning) Option {
	return func(c *config) {
		if !p.Placement.Valid() {
			p.Placement = floating.Bottom
		}
		if p.ArrowSize <= 0 {
			p.ArrowSize = DefaultArrowSize
		}
		c.positioning = p
	}
}

// WithOpen sets the initial open state.
func WithOpen(open bool) Option {
	return func(c *config) {
		c.open = open
	}
}

// WithHost sets the scheduling host. The default is host.Static, which
// never positions and never moves focus.
func WithHost(h host.Host) Option {
	return func(c *config) {
		if h != nil {
			c.host = h
		}
	}
}

// WithPositioner sets the floating-position integration.
func WithPositioner(p Positioner) Option {
	return func(c *config) {
		c.positioner = p
	}
}

// WithIDGenerator sets the generator used for the content id.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *config) {
		if g != nil {
			c.ids = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the observer notified of lifecycle events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}
