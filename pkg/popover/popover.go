package popover

import (
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/popover/pkg/host"
	"github.com/vango-dev/popover/pkg/reactive"
)

// Popover is one popover instance: its parts and the state they share.
type Popover struct {
	// Trigger toggles the popover.
	Trigger *TriggerPart
	// Open is the read/write open state.
	Open *State
	// Content is the overlay element.
	Content *ContentPart
	// Arrow is the optional arrow element.
	Arrow *ArrowPart
	// Close closes the popover from any element.
	Close *CloseAction

	id          string
	positioning Positioning
	host        host.Host
	positioner  Positioner
	logger      *slog.Logger
	observer    Observer

	owner    *reactive.Owner
	disposed atomic.Bool
}

// New creates a popover.
func New(opts ...Option) *Popover {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Popover{
		id:          cfg.ids.NewID(),
		positioning: cfg.positioning,
		host:        cfg.host,
		positioner:  cfg.positioner,
		logger:      cfg.logger,
		observer:    cfg.observer,
		owner:       reactive.NewOwner(nil),
	}
	p.Open = newState(p, cfg.open)
	p.Arrow = newArrowPart(cfg.positioning.ArrowSize)
	p.Close = &CloseAction{p: p}

	reactive.WithOwner(p.owner, func() {
		p.Trigger = newTriggerPart(p)
		p.Content = newContentPart(p)
		if p.host.Interactive() {
			startFocusWatcher(p)
		}
	})

	p.logger.Debug("popover created",
		"popover", p.id,
		"placement", string(p.positioning.Placement),
		"arrow_size", p.positioning.ArrowSize,
		"open", cfg.open,
	)
	return p
}

// ID returns the content id. Triggers reference it via aria-controls.
func (p *Popover) ID() string {
	return p.id
}

// Positioning returns the positioning configuration.
func (p *Popover) Positioning() Positioning {
	return p.positioning
}

// Dispose releases every binding, effect and positioning handle. Later
// state changes are ignored.
func (p *Popover) Dispose() {
	if p.disposed.Swap(true) {
		return
	}
	p.owner.Dispose()
	p.Content.disposeHandle()
}
