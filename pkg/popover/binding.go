package popover

import "sync"

// Binding ties a part to one element. Release undoes the binding and may be
// called any number of times.
type Binding struct {
	once    sync.Once
	release []func()
}

func newBinding(release ...func()) *Binding {
	return &Binding{release: release}
}

// Release removes listeners and stops attribute updates, in reverse order
// of setup.
func (b *Binding) Release() {
	if b == nil {
		return
	}
	b.once.Do(func() {
		for i := len(b.release) - 1; i >= 0; i-- {
			b.release[i]()
		}
	})
}
