package popover

import (
	"strconv"

	"github.com/vango-dev/popover/pkg/dom"
)

// ArrowPart styles the arrow element from the configured size.
type ArrowPart struct {
	attrs dom.Attrs
}

func newArrowPart(size int) *ArrowPart {
	dim := "var(--arrow-size, " + strconv.Itoa(size) + "px)"
	return &ArrowPart{
		attrs: dom.Attrs{
			"data-arrow": "true",
			"style": dom.Style{
				{Property: "position", Value: "absolute"},
				{Property: "width", Value: dim},
				{Property: "height", Value: dim},
			}.String(),
		},
	}
}

// Attrs returns the arrow attributes.
func (a *ArrowPart) Attrs() dom.Attrs {
	return a.attrs.Clone()
}

// Bind applies the arrow attributes to el once.
func (a *ArrowPart) Bind(el dom.Element) *Binding {
	if setter, ok := el.(dom.AttrSetter); ok {
		setter.SetAttrs(a.Attrs())
	}
	return newBinding()
}
