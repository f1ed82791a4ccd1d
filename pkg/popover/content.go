package popover

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/reactive"
)

// ErrPositionDeclined is reported to the Observer when the positioner
// returns neither a handle nor an error.
var ErrPositionDeclined = errors.New("popover: positioner declined to anchor")

// ContentPart is the overlay. It is hidden while closed and, while open
// with an anchor, owns the single positioning handle.
type ContentPart struct {
	p     *Popover
	attrs *reactive.Memo[dom.Attrs]

	mu      sync.Mutex
	handle  floating.Handle
	gen     uint64
	binding *Binding
}

func newContentPart(p *Popover) *ContentPart {
	c := &ContentPart{p: p}
	c.attrs = reactive.NewMemo(func() dom.Attrs {
		return contentAttrs(p.id, p.Open.Get())
	}).WithEquals(dom.Attrs.Equal)
	return c
}

func contentAttrs(id string, open bool) dom.Attrs {
	attrs := dom.Attrs{
		"id":         id,
		"data-state": stateName(open),
	}
	if !open {
		attrs["hidden"] = ""
		attrs["tabindex"] = "-1"
		attrs["style"] = dom.Style{{Property: "display", Value: "none"}}.String()
	}
	return attrs
}

// Attrs returns the current content attributes.
func (c *ContentPart) Attrs() dom.Attrs {
	return c.attrs.Get()
}

// HasHandle reports whether a positioning handle is live.
func (c *ContentPart) HasHandle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

// Bind makes el the content element. A previous content binding is
// released first.
func (c *ContentPart) Bind(el dom.Element) *Binding {
	c.mu.Lock()
	prev := c.binding
	c.mu.Unlock()
	prev.Release()

	p := c.p
	stopAttrs := applyAttrs(p.owner, el, c.attrs)

	owner := reactive.NewOwner(p.owner)
	reactive.WithOwner(owner, func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			return c.activate(el, p.Open.Get(), p.Open.ActiveTrigger())
		})
	})

	b := newBinding(stopAttrs, func() {
		owner.Dispose()
		c.disposeHandle()
	})

	c.mu.Lock()
	c.binding = b
	c.mu.Unlock()
	return b
}

// activate runs on every change of the open state or anchor. It disposes
// the current handle and, when open with an anchor, requests a new one on
// the next frame. The returned cleanup supersedes that request.
func (c *ContentPart) activate(el dom.Element, open bool, anchor dom.Element) reactive.Cleanup {
	c.disposeHandle()
	if !open || anchor == nil || c.p.positioner == nil {
		return nil
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	req := floating.Request{
		Anchor:  anchor,
		Open:    open,
		Options: c.p.positioning.floatingOptions(),
	}
	cancel := c.p.host.NextFrame(func() {
		c.install(el, req, gen)
	})

	return func() {
		cancel()
		c.mu.Lock()
		if c.gen == gen {
			c.gen++
		}
		c.mu.Unlock()
	}
}

func (c *ContentPart) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

// install requests positioning for generation gen. Failures leave the
// content unpositioned.
func (c *ContentPart) install(el dom.Element, req floating.Request, gen uint64) {
	if !c.current(gen) {
		return
	}
	p := c.p
	p.observer.PositionRequested(p.id)

	h, err := c.anchor(el, req)
	if err == nil && h == nil {
		err = ErrPositionDeclined
	}
	if err != nil {
		p.logger.Debug("popover positioning unavailable", "popover", p.id, "anchor", elementID(req.Anchor), "error", err)
		p.observer.PositionFailed(p.id, err)
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		h.Dispose()
		return
	}
	stale := c.handle
	c.handle = h
	c.mu.Unlock()

	if stale != nil {
		stale.Dispose()
		p.observer.HandleDisposed(p.id)
	}
	p.observer.HandleInstalled(p.id)
}

// anchor calls the positioner, turning a panic into an error.
func (c *ContentPart) anchor(el dom.Element, req floating.Request) (h floating.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("popover: positioner panicked: %v", r)
		}
	}()
	return c.p.positioner.Anchor(el, req)
}

func (c *ContentPart) disposeHandle() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()

	if h != nil {
		h.Dispose()
		c.p.observer.HandleDisposed(c.p.id)
	}
}
