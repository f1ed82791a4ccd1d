package observe

import "github.com/vango-dev/popover/pkg/popover"

// Multi fans events out to every observer in order. Nil entries are
// skipped.
func Multi(observers ...popover.Observer) popover.Observer {
	list := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multi []popover.Observer

func (m multi) OpenChanged(id string, open bool) {
	for _, o := range m {
		o.OpenChanged(id, open)
	}
}

func (m multi) PositionRequested(id string) {
	for _, o := range m {
		o.PositionRequested(id)
	}
}

func (m multi) PositionFailed(id string, err error) {
	for _, o := range m {
		o.PositionFailed(id, err)
	}
}

func (m multi) HandleInstalled(id string) {
	for _, o := range m {
		o.HandleInstalled(id)
	}
}

func (m multi) HandleDisposed(id string) {
	for _, o := range m {
		o.HandleDisposed(id)
	}
}

func (m multi) FocusRestored(id string) {
	for _, o := range m {
		o.FocusRestored(id)
	}
}
