package dom

// Rect is an axis-aligned box in surface coordinates (CSS pixels in a
// browser, cells in a terminal).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the box has no area. Hidden elements measure empty.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
