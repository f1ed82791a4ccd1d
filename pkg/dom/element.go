package dom

// Event types dispatched by hosts.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
)

// Event is a user interaction delivered to element listeners.
type Event struct {
	Type   string
	Target Element
	// Key is the key name for keyboard events ("Escape", "Enter").
	Key string
}

// Listener handles an event.
type Listener func(Event)

// Element is a mounted element the popover can bind to.
type Element interface {
	// ID returns the element's stable id.
	ID() string

	// AddEventListener registers fn for events of type typ. The returned
	// function removes the listener and may be called any number of times.
	AddEventListener(typ string, fn Listener) (remove func())

	// Focus moves keyboard focus to the element. It is a no-op for
	// elements that are no longer connected.
	Focus()

	// Connected reports whether the element is still on the surface.
	Connected() bool
}

// AttrSetter is implemented by elements that accept derived attributes.
// Bindings push attribute updates to elements that implement it.
type AttrSetter interface {
	SetAttrs(Attrs)
}

// Position is a computed floating position for an element.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Side is the final placement side after flipping.
	Side string `json:"side"`
	// Align is "start", "center" or "end".
	Align string `json:"align"`
	// ArrowX and ArrowY offset the arrow inside the floating element.
	ArrowX float64 `json:"arrowX"`
	ArrowY float64 `json:"arrowY"`
}
