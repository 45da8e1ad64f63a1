package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

const blank = 0x2800

// Ink identifies what was drawn into a cell; it selects the cell's style.
type Ink uint8

const (
	InkNone Ink = iota
	InkTarget
	InkEntity
)

// Canvas is a braille dot grid. Each cell holds 2x4 dots, so the canvas
// is (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	ink           [][]Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ink:    make([][]Ink, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.ink[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// Set turns on the dot at (x, y) in dot coordinates. Later ink wins the cell.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.ink[row][col] = ink
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.ink[i][j] = InkNone
		}
	}
}

// FillEllipse sets every dot whose center lies inside the ellipse centered
// at (cx, cy) with radii rx and ry, all in dot units.
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, ink Ink) {
	if rx <= 0 || ry <= 0 {
		c.Set(int(cx), int(cy), ink)
		return
	}
	x0, x1 := int(cx-rx), int(cx+rx)+1
	y0, y1 := int(cy-ry), int(cy+ry)+1
	for y := y0; y <= y1; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				c.Set(x, y, ink)
			}
		}
	}
	// keep very small circles visible
	c.Set(int(cx), int(cy), ink)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of same-ink cells wrapped in its style.
func (c *Canvas) Render(styles map[Ink]lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.ink[i][j] == c.ink[i][start] {
				continue
			}
			run := string(row[start:j])
			if st, ok := styles[c.ink[i][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}
