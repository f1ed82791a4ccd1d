package dom

import (
	"html"
	"maps"
	"slices"
	"strings"
)

// Attrs is a set of derived presentation attributes. A key that is present
// with an empty value is a boolean attribute (e.g. hidden).
type Attrs map[string]string

// Get returns the value of key and whether it is present.
func (a Attrs) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is present.
func (a Attrs) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Equal reports whether both sets hold the same keys and values.
func (a Attrs) Equal(b Attrs) bool {
	return maps.Equal(a, b)
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Clone returns an independent copy.
func (a Attrs) Clone() Attrs {
	return maps.Clone(a)
}

// Diff returns the attributes of next that differ from a, and the names
// present in a but missing from next.
func (a Attrs) Diff(next Attrs) (set Attrs, removed []string) {
	set = Attrs{}
	for k, v := range next {
		if old, ok := a[k]; !ok || old != v {
			set[k] = v
		}
	}
	for _, k := range a.Keys() {
		if _, ok := next[k]; !ok {
			removed = append(removed, k)
		}
	}
	return set, removed
}

// String renders the attributes as HTML, sorted by name.
func (a Attrs) String() string {
	var b strings.Builder
	for i, k := range a.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		if v := a[k]; v != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(v))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// Decl is one CSS declaration.
type Decl struct {
	Property string
	Value    string
}

// Style is an ordered list of CSS declarations.
type Style []Decl

// String formats the declarations as an inline style, skipping empty
// values. An empty style formats as "".
func (s Style) String() string {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		if d.Value == "" {
			continue
		}
		parts = append(parts, d.Property+": "+d.Value)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}
