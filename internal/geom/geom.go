package geom

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return p.Sub(o).Norm()
}

func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// MovableArea returns the clamp rectangle [0, width-2r] x [0, height-2r] for
// a circle of the given radius. Positions are circle centres; the range is
// kept as the classic demo had it, so the circle can overlap the left and top
// edges and stops short of the right and bottom ones.
func MovableArea(width, height, radius float64) Rect {
	return Rect{
		MinX: 0,
		MinY: 0,
		MaxX: math.Max(0, width-2*radius),
		MaxY: math.Max(0, height-2*radius),
	}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Clamp moves p onto the nearest point inside r.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, r.MinX, r.MaxX),
		Y: Clamp(p.Y, r.MinY, r.MaxY),
	}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
