package popover

import "github.com/vango-dev/popover/pkg/dom"

// CloseAction closes the popover from any element.
type CloseAction struct {
	p *Popover
}

// Attrs returns the close button attributes.
func (c *CloseAction) Attrs() dom.Attrs {
	return dom.Attrs{"type": "button"}
}

// Handler returns a listener that closes the popover. It never toggles:
// closing an already closed popover changes nothing.
func (c *CloseAction) Handler() dom.Listener {
	return func(dom.Event) {
		c.p.Open.Set(false)
	}
}

// Bind marks el as a button and closes the popover when it is clicked.
func (c *CloseAction) Bind(el dom.Element) *Binding {
	if setter, ok := el.(dom.AttrSetter); ok {
		setter.SetAttrs(c.Attrs())
	}
	return newBinding(el.AddEventListener(dom.EventClick, c.Handler()))
}
