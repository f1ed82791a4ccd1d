// Package popovertest provides test doubles for code built on the popover
// core: a recording positioner and a recording observer.
package popovertest

import (
	"fmt"
	"sync"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
)

// Call records one Anchor request.
type Call struct {
	Content string
	Anchor  string
	Request floating.Request
}

// Positioner records anchor requests and tracks live handles.
type Positioner struct {
	mu      sync.Mutex
	calls   []Call
	handles []*Handle
	live    int
	maxLive int

	err     error
	decline bool
	panics  bool
}

// NewPositioner creates a positioner that always succeeds.
func NewPositioner() *Positioner {
	return &Positioner{}
}

// FailWith makes subsequent requests fail with err. nil restores success.
func (p *Positioner) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Decline makes subsequent requests return no handle and no error.
func (p *Positioner) Decline(decline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decline = decline
}

// Panic makes subsequent requests panic.
func (p *Positioner) Panic(panics bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panics = panics
}

// Anchor records the request and returns a new handle.
func (p *Positioner) Anchor(content dom.Element, req floating.Request) (floating.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	call := Call{Content: content.ID(), Request: req}
	if req.Anchor != nil {
		call.Anchor = req.Anchor.ID()
	}
	p.calls = append(p.calls, call)

	switch {
	case p.panics:
		panic(fmt.Sprintf("positioner failure for %s", call.Content))
	case p.err != nil:
		return nil, p.err
	case p.decline:
		return nil, nil
	}

	h := &Handle{owner: p, call: call}
	p.handles = append(p.handles, h)
	p.live++
	if p.live > p.maxLive {
		p.maxLive = p.live
	}
	return h, nil
}

// Calls returns the recorded requests.
func (p *Positioner) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// Handles returns every handle created so far.
func (p *Positioner) Handles() []*Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Handle, len(p.handles))
	copy(out, p.handles)
	return out
}

// Live returns the number of handles not yet disposed.
func (p *Positioner) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// MaxLive returns the highest number of simultaneously live handles.
func (p *Positioner) MaxLive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxLive
}

// Handle is a recorded positioning handle.
type Handle struct {
	owner    *Positioner
	call     Call
	disposes int
}

// Dispose marks the handle released. Repeated calls are counted but only
// the first changes the live count.
func (h *Handle) Dispose() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.disposes++
	if h.disposes == 1 {
		h.owner.live--
	}
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	return h.disposes > 0
}

// Anchor returns the id of the anchor the handle was created for.
func (h *Handle) Anchor() string {
	return h.call.Anchor
}
