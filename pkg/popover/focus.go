package popover

import (
	"sync"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/reactive"
)

// focusWatcher returns focus to the trigger that opened the popover once it
// closes. The target is captured when the close is observed and focused on
// the next tick, after the closing event has finished.
type focusWatcher struct {
	p *Popover

	wasOpen bool
	target  dom.Element

	mu      sync.Mutex
	pending map[uint64]func()
	nextID  uint64
}

func startFocusWatcher(p *Popover) {
	w := &focusWatcher{
		p:       p,
		pending: make(map[uint64]func()),
	}
	reactive.CreateEffect(func() reactive.Cleanup {
		w.observe(p.Open.Get(), p.Open.ActiveTrigger())
		return nil
	})
	reactive.OnCleanup(w.cancelAll)
}

func (w *focusWatcher) observe(open bool, active dom.Element) {
	if open {
		w.wasOpen = true
		w.target = active
		return
	}
	if !w.wasOpen {
		return
	}
	target := w.target
	w.wasOpen = false
	w.target = nil
	if target != nil {
		w.schedule(target)
	}
}

func (w *focusWatcher) schedule(target dom.Element) {
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.mu.Unlock()

	cancel := w.p.host.Defer(func() {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()

		if !target.Connected() {
			return
		}
		target.Focus()
		w.p.observer.FocusRestored(w.p.id)
	})

	w.mu.Lock()
	w.pending[id] = cancel
	w.mu.Unlock()
}

func (w *focusWatcher) cancelAll() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[uint64]func())
	w.mu.Unlock()

	for _, cancel := range pending {
		cancel()
	}
}
