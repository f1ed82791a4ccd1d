package popover

import (
	"slices"
	"strconv"
	"sync"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/reactive"
)

// TriggerPart toggles the popover and carries the popup state attributes.
type TriggerPart struct {
	p     *Popover
	attrs *reactive.Memo[dom.Attrs]

	mu    sync.Mutex
	bound []dom.Element
}

func newTriggerPart(p *Popover) *TriggerPart {
	t := &TriggerPart{p: p}
	t.attrs = reactive.NewMemo(func() dom.Attrs {
		return triggerAttrs(p.id, p.Open.Get())
	}).WithEquals(dom.Attrs.Equal)
	return t
}

func triggerAttrs(contentID string, open bool) dom.Attrs {
	return dom.Attrs{
		"role":          "button",
		"aria-haspopup": "dialog",
		"aria-expanded": strconv.FormatBool(open),
		"data-state":    stateName(open),
		"aria-controls": contentID,
	}
}

func stateName(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

// Attrs returns the current trigger attributes.
func (t *TriggerPart) Attrs() dom.Attrs {
	return t.attrs.Get()
}

// Bind makes el a trigger. If the popover is already open without an
// anchor, el becomes the anchor. Binding an element that is already bound
// returns an empty Binding; the first binding stays in charge.
func (t *TriggerPart) Bind(el dom.Element) *Binding {
	p := t.p

	t.mu.Lock()
	if slices.Contains(t.bound, el) {
		t.mu.Unlock()
		return newBinding()
	}
	t.bound = append(t.bound, el)
	t.mu.Unlock()

	remove := el.AddEventListener(dom.EventClick, func(dom.Event) {
		p.Open.Toggle(el)
	})

	stop := applyAttrs(p.owner, el, t.attrs)

	if p.Open.Peek() && p.Open.PeekActiveTrigger() == nil {
		p.Open.commit(true, el)
	}

	return newBinding(remove, stop, func() { t.unbind(el) })
}

func (t *TriggerPart) unbind(el dom.Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, b := range t.bound {
		if b == el {
			t.bound = append(t.bound[:i], t.bound[i+1:]...)
			return
		}
	}
}

// last returns the most recently bound trigger, or nil.
func (t *TriggerPart) last() dom.Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.bound) == 0 {
		return nil
	}
	return t.bound[len(t.bound)-1]
}

// applyAttrs pushes attrs to el while the returned stop function has not
// been called. Elements that do not accept attributes are left alone.
func applyAttrs(parent *reactive.Owner, el dom.Element, attrs *reactive.Memo[dom.Attrs]) (stop func()) {
	setter, ok := el.(dom.AttrSetter)
	if !ok {
		return func() {}
	}
	owner := reactive.NewOwner(parent)
	reactive.WithOwner(owner, func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			setter.SetAttrs(attrs.Get())
			return nil
		})
	})
	return owner.Dispose
}
