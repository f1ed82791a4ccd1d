package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size grid of styled lines.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, lines: make([]string, height)}
	for i := range c.lines {
		c.lines[i] = strings.Repeat(" ", width)
	}
	return c
}

// draw writes block with its top-left cell at (x, y), replacing what was
// underneath. Parts outside the canvas are clipped.
func (c *canvas) draw(x, y int, block string) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		c.lines[row] = splice(c.lines[row], x, line, c.width)
	}
}

// splice replaces the cells of base starting at column x with over.
func splice(base string, x int, over string, width int) string {
	if x < 0 {
		over = ansi.TruncateLeft(over, -x, "")
		x = 0
	}
	if x >= width {
		return base
	}
	over = ansi.Truncate(over, width-x, "")
	w := ansi.StringWidth(over)

	left := ansi.Truncate(base, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := ansi.TruncateLeft(base, x+w, "")
	return left + over + right
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}
