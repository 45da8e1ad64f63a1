package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/pidlab/internal/geom"
)

// Circle is a filled disc in world coordinates.
type Circle struct {
	Center geom.Point
	Radius float64
}

// Renderer draws the controlled entity and the target as two filled circles.
type Renderer interface {
	Draw(entity, target Circle) string
}

// Viewport maps a world rectangle of the given size, origin top-left, onto
// a grid of terminal cells.
type Viewport struct {
	WorldWidth  float64
	WorldHeight float64
	Cols, Rows  int
}

func (v Viewport) dotScale() (float64, float64) {
	return float64(v.Cols*2) / v.WorldWidth, float64(v.Rows*4) / v.WorldHeight
}

// ToDots converts a world point to dot coordinates.
func (v Viewport) ToDots(p geom.Point) (float64, float64) {
	sx, sy := v.dotScale()
	return p.X * sx, p.Y * sy
}

// CellToWorld returns the world point at the center of a terminal cell.
// Cells outside the grid map outside the world.
func (v Viewport) CellToWorld(col, row int) geom.Point {
	return geom.Pt(
		(float64(col)+0.5)*v.WorldWidth/float64(v.Cols),
		(float64(row)+0.5)*v.WorldHeight/float64(v.Rows),
	)
}

func (v Viewport) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < v.Cols && row < v.Rows
}

// BrailleRenderer draws onto a braille Canvas.
type BrailleRenderer struct {
	View   Viewport
	Theme  Theme
	canvas *Canvas
}

func NewBrailleRenderer(v Viewport, theme Theme) *BrailleRenderer {
	return &BrailleRenderer{View: v, Theme: theme, canvas: NewCanvas(v.Cols, v.Rows)}
}

func (r *BrailleRenderer) Canvas() *Canvas { return r.canvas }

func (r *BrailleRenderer) Resize(cols, rows int) {
	r.View.Cols, r.View.Rows = cols, rows
	r.canvas = NewCanvas(cols, rows)
}

func (r *BrailleRenderer) Draw(entity, target Circle) string {
	r.canvas.Clear()
	r.fill(target, InkTarget)
	r.fill(entity, InkEntity)
	return r.canvas.Render(map[Ink]lipgloss.Style{
		InkTarget: lipgloss.NewStyle().Foreground(r.Theme.Target),
		InkEntity: lipgloss.NewStyle().Foreground(r.Theme.Entity),
		InkNone:   lipgloss.NewStyle().Foreground(r.Theme.Muted),
	})
}

func (r *BrailleRenderer) fill(c Circle, ink Ink) {
	sx, sy := r.View.dotScale()
	cx, cy := r.View.ToDots(c.Center)
	r.canvas.FillEllipse(cx, cy, c.Radius*sx, c.Radius*sy, ink)
}
