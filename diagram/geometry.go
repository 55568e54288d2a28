package diagram

import "math"

// Point is a position in world units. Y increases upwards.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Positions maps node ids to world coordinates. It is computed per render and never persisted.
type Positions map[string]Point

// Bounds is an axis-aligned rectangle in world units.
type Bounds struct {
	Min, Max Point
}

// NewBounds creates bounds from x and y limits.
func NewBounds(xmin, xmax, ymin, ymax float64) Bounds {
	return Bounds{Min: Point{xmin, ymin}, Max: Point{xmax, ymax}}
}

// Width returns the width of the bounds.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Center returns the center of the bounds.
func (b Bounds) Center() Point {
	return Midpoint(b.Min, b.Max)
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Point{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Expand grows the bounds by m on every side.
func (b Bounds) Expand(m float64) Bounds {
	return Bounds{
		Min: Point{b.Min.X - m, b.Min.Y - m},
		Max: Point{b.Max.X + m, b.Max.Y + m},
	}
}

// Around returns bounds of half-size (hw, hh) centered at p.
func Around(p Point, hw, hh float64) Bounds {
	return Bounds{Min: Point{p.X - hw, p.Y - hh}, Max: Point{p.X + hw, p.Y + hh}}
}
