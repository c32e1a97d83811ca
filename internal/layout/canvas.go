package layout

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Setter is anything cells can be drawn on, a tcell.Screen included.
type Setter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type cell struct {
	r     rune
	comb  []rune
	style tcell.Style
}

// Canvas is an off-screen cell buffer the full window is drawn into before
// the visible slice is copied to the terminal.
type Canvas struct {
	width, height int
	cells         []cell
}

// NewCanvas allocates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Reset(width, height)
	return c
}

// Reset resizes the canvas and blanks every cell, reusing storage.
func (c *Canvas) Reset(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.width, c.height = width, height
	n := width * height
	if cap(c.cells) < n {
		c.cells = make([]cell, n)
	}
	c.cells = c.cells[:n]
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// SetContent sets one cell. Coordinates outside the canvas are ignored.
func (c *Canvas) SetContent(x, y int, r rune, comb []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, comb: comb, style: style}
}

// Content returns the rune and style at x, y.
func (c *Canvas) Content(x, y int) (rune, tcell.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, tcell.StyleDefault
	}
	cl := c.cells[y*c.width+x]
	return cl.r, cl.style
}

// Fill paints rows [y, y+h) with style, keeping their runes.
func (c *Canvas) Fill(y, h int, style tcell.Style) {
	for row := max(y, 0); row < min(y+h, c.height); row++ {
		for x := 0; x < c.width; x++ {
			c.cells[row*c.width+x].style = style
		}
	}
}

// Print writes text on row y starting at x, clipped at maxWidth columns,
// and returns the number of columns used.
func (c *Canvas) Print(x, y, maxWidth int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		c.SetContent(x+used, y, r, nil, style)
		for i := 1; i < w; i++ {
			c.SetContent(x+used+i, y, 0, nil, style)
		}
		used += w
	}
	return used
}

// Blit copies the visible slice of w onto dst, whose viewport starts at
// x, y. Rows above bottom-aligned content are left untouched.
func (c *Canvas) Blit(dst Setter, x, y int, w Window) {
	rows := min(w.SliceRows(), c.height)
	for row := 0; row < rows; row++ {
		vy := y + w.ViewportRow(row)
		base := row * c.width
		for col := 0; col < c.width; col++ {
			cl := c.cells[base+col]
			if cl.r == 0 {
				continue
			}
			dst.SetContent(x+col, vy, cl.r, cl.comb, cl.style)
		}
	}
}
