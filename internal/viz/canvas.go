package viz

import (
	"strings"

	"github.com/san-kum/bikeswarm/internal/geom"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights one sub-pixel. The canvas holds (Width*2) x (Height*4)
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line in sub-pixel coordinates using Bresenham's
// algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
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
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto the canvas sub-pixel grid. World
// y grows upward; sub-pixel y grows downward.
type Viewport struct {
	Min, Max geom.Vec
	canvas   *Canvas
}

// NewViewport fits the given world bounds onto the canvas with a margin
// so vehicles at the edge stay visible.
func NewViewport(c *Canvas, min, max geom.Vec, margin float64) *Viewport {
	span := max.Sub(min)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	return &Viewport{
		Min:    min.Sub(geom.Vec{X: span.X * margin, Y: span.Y * margin}),
		Max:    max.Add(geom.Vec{X: span.X * margin, Y: span.Y * margin}),
		canvas: c,
	}
}

func (v *Viewport) project(p geom.Vec) (int, int) {
	w := float64(v.canvas.Width*2 - 1)
	h := float64(v.canvas.Height*4 - 1)
	x := (p.X - v.Min.X) / (v.Max.X - v.Min.X) * w
	y := h - (p.Y-v.Min.Y)/(v.Max.Y-v.Min.Y)*h
	return int(x), int(y)
}

func (v *Viewport) DrawSegment(a, b geom.Vec) {
	x0, y0 := v.project(a)
	x1, y1 := v.project(b)
	v.canvas.DrawLine(x0, y0, x1, y1)
}

func (v *Viewport) DrawPoint(p geom.Vec) {
	x, y := v.project(p)
	v.canvas.Set(x, y)
}

// DrawCross marks a target with a small x shape.
func (v *Viewport) DrawCross(p geom.Vec) {
	x, y := v.project(p)
	v.canvas.DrawLine(x-2, y-2, x+2, y+2)
	v.canvas.DrawLine(x-2, y+2, x+2, y-2)
}
