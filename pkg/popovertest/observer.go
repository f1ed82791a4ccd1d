package popovertest

import (
	"fmt"
	"sync"
)

// Observer records popover lifecycle events as strings such as
// "open:true" or "position-failed".
type Observer struct {
	mu     sync.Mutex
	events []string
}

// Events returns the recorded events.
func (o *Observer) Events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	copy(out, o.events)
	return out
}

// Count returns how many times event was recorded.
func (o *Observer) Count(event string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e == event {
			n++
		}
	}
	return n
}

func (o *Observer) record(event string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *Observer) OpenChanged(_ string, open bool) { o.record(fmt.Sprintf("open:%t", open)) }
func (o *Observer) PositionRequested(string)        { o.record("position-requested") }
func (o *Observer) PositionFailed(string, error)    { o.record("position-failed") }
func (o *Observer) HandleInstalled(string)          { o.record("handle-installed") }
func (o *Observer) HandleDisposed(string)           { o.record("handle-disposed") }
func (o *Observer) FocusRestored(string)            { o.record("focus-restored") }
