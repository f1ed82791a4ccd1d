// Package host provides the scheduling surface the popover core defers work
// onto: the next layout frame and the next tick.
package host

import "sync/atomic"

// Host is the capability set a popover needs from its environment.
type Host interface {
	// NextFrame runs fn after the surface has laid out pending attribute
	// changes. The returned function cancels fn if it has not run yet.
	NextFrame(fn func()) (cancel func())

	// Defer runs fn no earlier than the next tick, after the current event
	// has finished. The returned function cancels fn if it has not run yet.
	Defer(fn func()) (cancel func())

	// Interactive reports whether a real user surface is attached. Focus
	// management is skipped when it is false.
	Interactive() bool
}

// task is a cancellable callback.
type task struct {
	fn       func()
	canceled atomic.Bool
}

func newTask(fn func()) *task {
	return &task{fn: fn}
}

func (t *task) cancel() {
	t.canceled.Store(true)
}

func (t *task) run() bool {
	if t.canceled.Swap(true) {
		return false
	}
	t.fn()
	return true
}

// Static is a Host without a live surface, used when rendering markup
// ahead of time. Frames and ticks never arrive, so positioning and focus
// management never run.
type Static struct{}

var _ Host = Static{}

func (Static) NextFrame(func()) func() { return func() {} }
func (Static) Defer(func()) func()     { return func() {} }
func (Static) Interactive() bool       { return false }
