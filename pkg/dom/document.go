package dom

import (
	"sync"
)

// MutationKind identifies what changed on a node.
type MutationKind uint8

const (
	MutationAttrs MutationKind = iota + 1
	MutationFocus
	MutationPosition
)

// String returns the mutation kind name.
func (k MutationKind) String() string {
	switch k {
	case MutationAttrs:
		return "attrs"
	case MutationFocus:
		return "focus"
	case MutationPosition:
		return "position"
	default:
		return "unknown"
	}
}

// Mutation describes one change a host must mirror to its surface.
type Mutation struct {
	Kind MutationKind
	Node *Node

	// Set and Removed are filled for MutationAttrs.
	Set     Attrs
	Removed []string

	// Position is filled for MutationPosition.
	Position Position
}

// Document owns the nodes of one surface, its viewport and the focused
// element.
type Document struct {
	mu sync.Mutex

	nodes  map[string]*Node
	active *Node

	viewport Rect

	layoutSubs map[uint64]func()
	nextSubID  uint64

	sink func(Mutation)
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		nodes:      make(map[string]*Node),
		layoutSubs: make(map[uint64]func()),
	}
}

// SetMutationSink registers fn to receive every mutation. Passing nil
// disables reporting.
func (d *Document) SetMutationSink(fn func(Mutation)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = fn
}

func (d *Document) emit(m Mutation) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink != nil {
		sink(m)
	}
}

// Create adds a connected node. An existing node with the same id is
// returned as is.
func (d *Document) Create(id string) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.nodes[id]; ok {
		return n
	}
	n := &Node{
		id:        id,
		doc:       d,
		attrs:     Attrs{},
		listeners: make(map[string][]listenerEntry),
		connected: true,
	}
	d.nodes[id] = n
	return n
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (*Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.nodes[id]
	return n, ok
}

// Remove disconnects a node. A focused node loses focus.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	n, ok := d.nodes[id]
	if ok {
		delete(d.nodes, id)
		if d.active == n {
			d.active = nil
		}
	}
	d.mu.Unlock()

	if ok {
		n.mu.Lock()
		n.connected = false
		n.mu.Unlock()
	}
}

// ActiveElement returns the focused node, or nil.
func (d *Document) ActiveElement() *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Dispatch delivers ev to the listeners of the node with the given id and
// reports whether the node exists.
func (d *Document) Dispatch(id string, ev Event) bool {
	n, ok := d.Node(id)
	if !ok {
		return false
	}
	n.dispatch(ev)
	return true
}

// Click dispatches a click event to the node with the given id.
func (d *Document) Click(id string) bool {
	return d.Dispatch(id, Event{Type: EventClick})
}

// SetViewport updates the visible bounds and notifies layout subscribers.
func (d *Document) SetViewport(r Rect) {
	d.mu.Lock()
	changed := d.viewport != r
	d.viewport = r
	d.mu.Unlock()

	if changed {
		d.NotifyLayout()
	}
}

// Viewport returns the visible bounds.
func (d *Document) Viewport() Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// OnLayoutChange registers fn to run after node geometry or the viewport
// change. The returned function unsubscribes and is idempotent.
func (d *Document) OnLayoutChange(fn func()) (remove func()) {
	d.mu.Lock()
	d.nextSubID++
	id := d.nextSubID
	d.layoutSubs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.layoutSubs, id)
		d.mu.Unlock()
	}
}

// LayoutSubscribers returns the number of layout subscriptions.
func (d *Document) LayoutSubscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.layoutSubs)
}

// NotifyLayout runs the layout subscribers. Hosts call it after reporting
// new geometry.
func (d *Document) NotifyLayout() {
	d.mu.Lock()
	subs := make([]func(), 0, len(d.layoutSubs))
	for _, fn := range d.layoutSubs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (d *Document) focus(n *Node) {
	d.mu.Lock()
	if d.active == n {
		d.mu.Unlock()
		return
	}
	d.active = n
	d.mu.Unlock()

	d.emit(Mutation{Kind: MutationFocus, Node: n})
}
