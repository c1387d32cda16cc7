package viz

import "strings"

const blank = 0x2800

// Braille dot bits, indexed by [row][column] inside one 2×4 cell.
var dots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells addressed in sub-pixels: each cell
// holds 2×4 dots, so the drawable area is 2·Width by 4·Height.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = blank
		}
	}
}

// Set lights the dot at sub-pixel (x, y). Points off the canvas are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[y/4][x/2] |= dots[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dots[y%4][x%2] != 0
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Dot draws a small plus centred on (x, y).
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
