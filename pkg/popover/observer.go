package popover

// Observer receives popover lifecycle events. Implementations must not
// mutate popover state.
type Observer interface {
	OpenChanged(id string, open bool)
	PositionRequested(id string)
	PositionFailed(id string, err error)
	HandleInstalled(id string)
	HandleDisposed(id string)
	FocusRestored(id string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OpenChanged(string, bool)     {}
func (NopObserver) PositionRequested(string)     {}
func (NopObserver) PositionFailed(string, error) {}
func (NopObserver) HandleInstalled(string)       {}
func (NopObserver) HandleDisposed(string)        {}
func (NopObserver) FocusRestored(string)         {}
