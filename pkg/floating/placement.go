// Package floating computes positions for elements anchored to other
// elements and keeps them updated while the layout changes.
package floating

import (
	"errors"
	"fmt"
	"strings"
)

// Placement is a preferred side with an optional alignment, e.g. "bottom"
// or "top-start".
type Placement string

const (
	Top         Placement = "top"
	TopStart    Placement = "top-start"
	TopEnd      Placement = "top-end"
	Right       Placement = "right"
	RightStart  Placement = "right-start"
	RightEnd    Placement = "right-end"
	Bottom      Placement = "bottom"
	BottomStart Placement = "bottom-start"
	BottomEnd   Placement = "bottom-end"
	Left        Placement = "left"
	LeftStart   Placement = "left-start"
	LeftEnd     Placement = "left-end"
)

// Sides and alignments.
const (
	SideTop    = "top"
	SideRight  = "right"
	SideBottom = "bottom"
	SideLeft   = "left"

	AlignStart  = "start"
	AlignCenter = "center"
	AlignEnd    = "end"
)

// ErrInvalidPlacement is returned for placements outside the supported set.
var ErrInvalidPlacement = errors.New("floating: invalid placement")

// ParsePlacement validates s. Surrounding space and case are ignored.
func ParsePlacement(s string) (Placement, error) {
	p := Placement(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlacement, s)
	}
	return p, nil
}

// Valid reports whether p is a supported placement.
func (p Placement) Valid() bool {
	side, align, _ := strings.Cut(string(p), "-")
	switch side {
	case SideTop, SideRight, SideBottom, SideLeft:
	default:
		return false
	}
	switch align {
	case "", AlignStart, AlignEnd:
		return true
	default:
		return false
	}
}

// Side returns the main side ("bottom" for "bottom-start").
func (p Placement) Side() string {
	side, _, _ := strings.Cut(string(p), "-")
	return side
}

// Align returns the alignment, "center" when none is given.
func (p Placement) Align() string {
	_, align, ok := strings.Cut(string(p), "-")
	if !ok {
		return AlignCenter
	}
	return align
}

// vertical reports whether the side places the element above or below.
func vertical(side string) bool {
	return side == SideTop || side == SideBottom
}

func opposite(side string) string {
	switch side {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}
