package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille dot bits for a 2x4 cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Ink selects the color a cell is drawn in. The last ink set on a cell wins.
type Ink uint8

const (
	InkNone Ink = iota
	InkWall
	InkLid
	InkFirst
	InkSecond
)

// Canvas is a braille pixel grid of Width x Height cells, i.e.
// 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Inks          [][]Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Inks:   make([][]Ink, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Inks[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

// DotsX and DotsY are the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set lights the dot at (x, y). y grows downward.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Inks[row][col] = ink
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Inks[i][j] = InkNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink Ink) {
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
		c.Set(x0, y0, ink)
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

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colors each cell with the theme style for its ink.
func (c *Canvas) Render(th Theme) string {
	styles := map[Ink]lipgloss.Style{
		InkNone:   lipgloss.NewStyle(),
		InkWall:   lipgloss.NewStyle().Foreground(th.Wall),
		InkLid:    lipgloss.NewStyle().Foreground(th.Lid),
		InkFirst:  lipgloss.NewStyle().Foreground(th.First),
		InkSecond: lipgloss.NewStyle().Foreground(th.Second),
	}
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Inks[i][j] == c.Inks[i][start] {
				continue
			}
			b.WriteString(styles[c.Inks[i][start]].Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates in picometers onto canvas dots. The
// world y axis points up.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
	canvas                 *Canvas
}

func (c *Canvas) Viewport(minX, minY, maxX, maxY float64) Viewport {
	return Viewport{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, canvas: c}
}

func (v Viewport) Dot(x, y float64) (int, int) {
	dx, dy := v.canvas.DotsX()-1, v.canvas.DotsY()-1
	px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(dx)
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(dy)
	return int(px + 0.5), int(py + 0.5)
}

func (v Viewport) Line(x0, y0, x1, y1 float64, ink Ink) {
	a, b := v.Dot(x0, y0)
	c, d := v.Dot(x1, y1)
	v.canvas.DrawLine(a, b, c, d, ink)
}

func (v Viewport) Point(x, y float64, ink Ink) {
	px, py := v.Dot(x, y)
	v.canvas.Set(px, py, ink)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
