package floating

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/vango-dev/popover/pkg/dom"
)

var (
	// ErrNoAnchor is returned when a request carries no anchor element.
	ErrNoAnchor = errors.New("floating: no anchor element")

	// ErrNotMeasurable is returned when the anchor or content cannot report
	// its geometry.
	ErrNotMeasurable = errors.New("floating: element cannot be measured")

	// ErrNotPlaceable is returned when the content cannot accept a position.
	ErrNotPlaceable = errors.New("floating: element cannot be placed")

	// ErrDetached is returned when the anchor is no longer connected.
	ErrDetached = errors.New("floating: anchor is detached")
)

// Measurable elements report their box.
type Measurable interface {
	Rect() dom.Rect
}

// Placeable elements accept a computed position.
type Placeable interface {
	Place(dom.Position)
}

// Viewport reports the visible bounds and layout changes.
type Viewport interface {
	Viewport() dom.Rect
	OnLayoutChange(fn func()) (remove func())
}

// Request asks for content to be anchored.
type Request struct {
	Anchor  dom.Element
	Open    bool
	Options Options
}

// Handle is a live positioning subscription.
type Handle interface {
	// Dispose stops updating the position. It is idempotent.
	Dispose()
}

// Engine anchors Placeable content to Measurable anchors and re-applies
// the position on every layout change until the handle is disposed.
type Engine struct {
	viewport Viewport
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the engine logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine bound to a viewport.
func NewEngine(viewport Viewport, opts ...EngineOption) *Engine {
	e := &Engine{
		viewport: viewport,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Anchor positions content next to req.Anchor and returns a handle that
// keeps it positioned. A closed request produces no handle and no error.
func (e *Engine) Anchor(content dom.Element, req Request) (Handle, error) {
	if !req.Open {
		return nil, nil
	}
	if req.Anchor == nil {
		return nil, ErrNoAnchor
	}
	if !req.Anchor.Connected() {
		return nil, ErrDetached
	}
	anchor, ok := req.Anchor.(Measurable)
	if !ok {
		return nil, ErrNotMeasurable
	}
	floating, ok := content.(Measurable)
	if !ok {
		return nil, ErrNotMeasurable
	}
	target, ok := content.(Placeable)
	if !ok {
		return nil, ErrNotPlaceable
	}

	h := &autoUpdate{
		engine:   e,
		anchorEl: req.Anchor,
		anchor:   anchor,
		floating: floating,
		target:   target,
		opts:     req.Options,
	}
	h.update()
	if e.viewport != nil {
		h.remove = e.viewport.OnLayoutChange(h.update)
	}
	return h, nil
}

// autoUpdate is the Handle returned by Engine.Anchor.
type autoUpdate struct {
	engine   *Engine
	anchorEl dom.Element
	anchor   Measurable
	floating Measurable
	target   Placeable
	opts     Options

	mu       sync.Mutex
	remove   func()
	disposed bool
	last     dom.Position
}

func (h *autoUpdate) update() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	if !h.anchorEl.Connected() {
		h.engine.logger.Debug("floating anchor detached, skipping update", "anchor", h.anchorEl.ID())
		return
	}

	var viewport dom.Rect
	if h.engine.viewport != nil {
		viewport = h.engine.viewport.Viewport()
	}
	pos := Compute(h.anchor.Rect(), h.floating.Rect(), viewport, h.opts)

	h.mu.Lock()
	if h.disposed || pos == h.last {
		h.mu.Unlock()
		return
	}
	h.last = pos
	h.mu.Unlock()

	h.target.Place(pos)
}

// Position returns the last applied position.
func (h *autoUpdate) Position() dom.Position {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *autoUpdate) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	remove := h.remove
	h.remove = nil
	h.mu.Unlock()

	if remove != nil {
		remove()
	}
}
