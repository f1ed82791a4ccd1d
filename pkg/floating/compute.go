package floating

import (
	"math"

	"github.com/vango-dev/popover/pkg/dom"
)

// Defaults applied by DefaultOptions.
const (
	DefaultGutter          = 5
	DefaultOverflowPadding = 8
	DefaultArrowSize       = 8
)

// Options control position computation.
type Options struct {
	Placement Placement
	// Gutter is the gap between anchor and floating element.
	Gutter float64
	// Flip moves the element to the opposite side when it overflows the
	// viewport and the opposite side has more room.
	Flip bool
	// OverflowPadding keeps the element this far from the viewport edges.
	OverflowPadding float64
	// ArrowSize is used to center the arrow on the anchor.
	ArrowSize float64
}

// DefaultOptions returns bottom placement with flipping enabled.
func DefaultOptions() Options {
	return Options{
		Placement:       Bottom,
		Gutter:          DefaultGutter,
		Flip:            true,
		OverflowPadding: DefaultOverflowPadding,
		ArrowSize:       DefaultArrowSize,
	}
}

// Compute positions a floating box of the given size next to anchor. An
// empty viewport disables flipping and shifting.
func Compute(anchor, floating, viewport dom.Rect, opts Options) dom.Position {
	placement := opts.Placement
	if !placement.Valid() {
		placement = Bottom
	}
	side, align := placement.Side(), placement.Align()

	x, y := place(anchor, floating, side, align, opts.Gutter)

	bounded := !viewport.Empty()
	if bounded && opts.Flip {
		over := overflow(x, y, floating, viewport, side, opts.OverflowPadding)
		if over > 0 {
			alt := opposite(side)
			ax, ay := place(anchor, floating, alt, align, opts.Gutter)
			if overflow(ax, ay, floating, viewport, alt, opts.OverflowPadding) < over {
				side, x, y = alt, ax, ay
			}
		}
	}

	if bounded {
		pad := opts.OverflowPadding
		if vertical(side) {
			x = shift(x, floating.Width, viewport.Left()+pad, viewport.Right()-pad)
		} else {
			y = shift(y, floating.Height, viewport.Top()+pad, viewport.Bottom()-pad)
		}
	}

	pos := dom.Position{X: x, Y: y, Side: side, Align: align}
	pos.ArrowX, pos.ArrowY = arrow(anchor, floating, x, y, side, opts.ArrowSize)
	return pos
}

// place returns the unconstrained coordinates for side and align.
func place(anchor, floating dom.Rect, side, align string, gutter float64) (x, y float64) {
	switch side {
	case SideTop:
		y = anchor.Top() - floating.Height - gutter
	case SideBottom:
		y = anchor.Bottom() + gutter
	case SideLeft:
		x = anchor.Left() - floating.Width - gutter
	case SideRight:
		x = anchor.Right() + gutter
	}

	if vertical(side) {
		switch align {
		case AlignStart:
			x = anchor.Left()
		case AlignEnd:
			x = anchor.Right() - floating.Width
		default:
			x = anchor.Left() + (anchor.Width-floating.Width)/2
		}
	} else {
		switch align {
		case AlignStart:
			y = anchor.Top()
		case AlignEnd:
			y = anchor.Bottom() - floating.Height
		default:
			y = anchor.Top() + (anchor.Height-floating.Height)/2
		}
	}
	return x, y
}

// overflow returns how far the box crosses the viewport edge on side.
func overflow(x, y float64, floating, viewport dom.Rect, side string, pad float64) float64 {
	var over float64
	switch side {
	case SideTop:
		over = viewport.Top() + pad - y
	case SideBottom:
		over = y + floating.Height - (viewport.Bottom() - pad)
	case SideLeft:
		over = viewport.Left() + pad - x
	case SideRight:
		over = x + floating.Width - (viewport.Right() - pad)
	}
	return math.Max(over, 0)
}

// shift clamps a coordinate so a box of the given size stays within
// [lo, hi]. Boxes larger than the range are pinned to lo.
func shift(v, size, lo, hi float64) float64 {
	if v+size > hi {
		v = hi - size
	}
	if v < lo {
		v = lo
	}
	return v
}

// arrow centers the arrow on the anchor, clamped inside the floating box,
// and pushes it half out of the edge facing the anchor.
func arrow(anchor, floating dom.Rect, x, y float64, side string, size float64) (ax, ay float64) {
	half := size / 2
	if vertical(side) {
		center := anchor.Left() + anchor.Width/2
		ax = clamp(center-x-half, 0, math.Max(floating.Width-size, 0))
		if side == SideBottom {
			ay = -half
		} else {
			ay = floating.Height - half
		}
		return ax, ay
	}
	center := anchor.Top() + anchor.Height/2
	ay = clamp(center-y-half, 0, math.Max(floating.Height-size, 0))
	if side == SideRight {
		ax = -half
	} else {
		ax = floating.Width - half
	}
	return ax, ay
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
