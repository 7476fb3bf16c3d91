package tui

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/sim"
)

// Braille patterns give each cell 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille grid addressed in dots, (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine is Bresenham over dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

// Empty reports whether no dot is set.
func (c *Canvas) Empty() bool {
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				return false
			}
		}
	}
	return true
}

// Side projects world x (right) and y (up) onto the canvas with the ground
// plane on the bottom row, centred on CentreX.
type Side struct {
	// Scale is dots per metre.
	Scale   float64
	CentreX float64
}

func (s Side) Project(c *Canvas, p mgl64.Vec3) (int, int) {
	x := float64(c.Width) + (p.X()-s.CentreX)*s.Scale
	y := float64(c.Height*4-1) - p.Y()*s.Scale
	return int(x + 0.5), int(y + 0.5)
}

// DrawBones draws a segment from each bone to its parent, a ground line,
// and a cross at com.
func (s Side) DrawBones(c *Canvas, bones []sim.BoneSample, com mgl64.Vec3) {
	pos := make(map[string]mgl64.Vec3, len(bones))
	for _, b := range bones {
		pos[b.Name] = b.World.Col(3).Vec3()
	}
	ground := c.Height*4 - 1
	c.DrawLine(0, ground, c.Width*2-1, ground)
	for _, b := range bones {
		x0, y0 := s.Project(c, pos[b.Name])
		parent, ok := pos[b.Parent]
		if !ok {
			c.Set(x0, y0)
			continue
		}
		x1, y1 := s.Project(c, parent)
		c.DrawLine(x0, y0, x1, y1)
	}
	cx, cy := s.Project(c, com)
	c.DrawLine(cx-1, cy, cx+1, cy)
	c.DrawLine(cx, cy-1, cx, cy+1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
