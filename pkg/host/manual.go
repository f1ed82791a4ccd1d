package host

import "sync"

// Manual is a Host whose frames and ticks advance only when the caller
// says so. Tests and the terminal host use it.
type Manual struct {
	mu          sync.Mutex
	frames      []*task
	ticks       []*task
	interactive bool
}

var _ Host = (*Manual)(nil)

// NewManual creates a manual host.
func NewManual(interactive bool) *Manual {
	return &Manual{interactive: interactive}
}

// NextFrame queues fn for the next Frame call.
func (m *Manual) NextFrame(fn func()) func() {
	t := newTask(fn)
	m.mu.Lock()
	m.frames = append(m.frames, t)
	m.mu.Unlock()
	return t.cancel
}

// Defer queues fn for the next Tick call.
func (m *Manual) Defer(fn func()) func() {
	t := newTask(fn)
	m.mu.Lock()
	m.ticks = append(m.ticks, t)
	m.mu.Unlock()
	return t.cancel
}

// Interactive reports the value given to NewManual.
func (m *Manual) Interactive() bool {
	return m.interactive
}

// Frame runs the frame callbacks queued before the call and returns how
// many ran. Callbacks queued while running wait for the next frame.
func (m *Manual) Frame() int {
	m.mu.Lock()
	tasks := m.frames
	m.frames = nil
	m.mu.Unlock()
	return runTasks(tasks)
}

// Tick runs the deferred callbacks queued before the call and returns how
// many ran.
func (m *Manual) Tick() int {
	m.mu.Lock()
	tasks := m.ticks
	m.ticks = nil
	m.mu.Unlock()
	return runTasks(tasks)
}

// Flush alternates ticks and frames until both queues are empty or limit
// rounds have passed.
func (m *Manual) Flush(limit int) {
	for i := 0; i < limit; i++ {
		if m.Pending() == 0 {
			return
		}
		m.Tick()
		m.Frame()
	}
}

// PendingFrames returns the number of live frame callbacks.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countLive(m.frames)
}

// PendingTicks returns the number of live deferred callbacks.
func (m *Manual) PendingTicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countLive(m.ticks)
}

// Pending returns the number of live callbacks of either kind.
func (m *Manual) Pending() int {
	return m.PendingFrames() + m.PendingTicks()
}

func runTasks(tasks []*task) int {
	n := 0
	for _, t := range tasks {
		if t.run() {
			n++
		}
	}
	return n
}

func countLive(tasks []*task) int {
	n := 0
	for _, t := range tasks {
		if !t.canceled.Load() {
			n++
		}
	}
	return n
}
