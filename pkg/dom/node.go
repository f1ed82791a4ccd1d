package dom

import "sync"

type listenerEntry struct {
	id uint64
	fn Listener
}

// Node is an in-memory Element.
type Node struct {
	id  string
	doc *Document

	mu        sync.Mutex
	attrs     Attrs
	rect      Rect
	position  *Position
	listeners map[string][]listenerEntry
	nextID    uint64
	connected bool
}

var _ Element = (*Node)(nil)
var _ AttrSetter = (*Node)(nil)

// ID returns the node id.
func (n *Node) ID() string {
	return n.id
}

// AddEventListener registers fn for typ.
func (n *Node) AddEventListener(typ string, fn Listener) (remove func()) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners[typ] = append(n.listeners[typ], listenerEntry{id: id, fn: fn})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		entries := n.listeners[typ]
		for i, e := range entries {
			if e.id == id {
				n.listeners[typ] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[typ])
}

func (n *Node) dispatch(ev Event) {
	if ev.Target == nil {
		ev.Target = n
	}

	n.mu.Lock()
	entries := make([]listenerEntry, len(n.listeners[ev.Type]))
	copy(entries, n.listeners[ev.Type])
	n.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

// Focus makes the node the document's active element.
func (n *Node) Focus() {
	if !n.Connected() {
		return
	}
	n.doc.focus(n)
}

// Focused reports whether the node holds keyboard focus.
func (n *Node) Focused() bool {
	return n.doc.ActiveElement() == n
}

// Connected reports whether the node is still in its document.
func (n *Node) Connected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.connected
}

// SetAttrs replaces the node's attributes and reports the difference.
func (n *Node) SetAttrs(next Attrs) {
	n.mu.Lock()
	set, removed := n.attrs.Diff(next)
	n.attrs = next.Clone()
	n.mu.Unlock()

	if len(set) == 0 && len(removed) == 0 {
		return
	}
	n.doc.emit(Mutation{Kind: MutationAttrs, Node: n, Set: set, Removed: removed})
}

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() Attrs {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attrs.Clone()
}

// Attr returns a single attribute value.
func (n *Node) Attr(key string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attrs.Get(key)
}

// SetRect records the node's measured box.
func (n *Node) SetRect(r Rect) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rect = r
}

// Rect returns the measured box. Hidden nodes measure empty.
func (n *Node) Rect() Rect {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.attrs.Has("hidden") {
		return Rect{X: n.rect.X, Y: n.rect.Y}
	}
	return n.rect
}

// Place records a computed floating position.
func (n *Node) Place(p Position) {
	n.mu.Lock()
	n.position = &p
	n.mu.Unlock()

	n.doc.emit(Mutation{Kind: MutationPosition, Node: n, Position: p})
}

// Position returns the last placed position.
func (n *Node) Position() (Position, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.position == nil {
		return Position{}, false
	}
	return *n.position, true
}
