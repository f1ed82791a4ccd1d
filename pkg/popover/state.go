package popover

import (
	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/reactive"
)

// State is the single source of truth for whether the popover is open and
// which trigger opened it.
type State struct {
	p *Popover

	open   *reactive.Signal[bool]
	active *reactive.Signal[dom.Element]
}

func newState(p *Popover, initial bool) *State {
	return &State{
		p:      p,
		open:   reactive.NewSignal(initial),
		active: reactive.NewSignal[dom.Element](nil),
	}
}

// Get returns whether the popover is open and tracks the read.
func (s *State) Get() bool {
	return s.open.Get()
}

// Peek returns whether the popover is open without tracking.
func (s *State) Peek() bool {
	return s.open.Peek()
}

// ActiveTrigger returns the trigger that opened the popover, or nil, and
// tracks the read.
func (s *State) ActiveTrigger() dom.Element {
	return s.active.Get()
}

// PeekActiveTrigger returns the active trigger without tracking.
func (s *State) PeekActiveTrigger() dom.Element {
	return s.active.Peek()
}

// Set opens or closes the popover. Opening keeps the current anchor or
// falls back to the most recently bound trigger.
func (s *State) Set(open bool) {
	if !open {
		s.commit(false, nil)
		return
	}
	anchor := s.active.Peek()
	if anchor == nil {
		anchor = s.p.Trigger.last()
	}
	s.commit(true, anchor)
}

// Update sets the state to fn(current).
func (s *State) Update(fn func(open bool) bool) {
	s.Set(fn(s.open.Peek()))
}

// Toggle flips the state as if trigger had been clicked.
func (s *State) Toggle(trigger dom.Element) {
	if s.open.Peek() {
		s.commit(false, nil)
		return
	}
	s.commit(true, trigger)
}

// commit applies open and anchor as one transition, then runs the effects
// that depend on them.
func (s *State) commit(open bool, anchor dom.Element) {
	if s.p.disposed.Load() {
		return
	}
	wasOpen := s.open.Peek()

	reactive.Batch(func() {
		s.open.Set(open)
		s.active.Set(anchor)
	})
	s.p.owner.RunPendingEffects()

	if wasOpen != open {
		s.p.logger.Debug("popover state changed", "popover", s.p.id, "open", open, "anchor", elementID(anchor))
		s.p.observer.OpenChanged(s.p.id, open)
	}
}

func elementID(el dom.Element) string {
	if el == nil {
		return ""
	}
	return el.ID()
}
