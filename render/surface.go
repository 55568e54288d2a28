// Package render draws a laid-out diagram onto an abstract drawing surface.
//
// The renderer works in world units with y increasing upwards. Surfaces map
// world units to their own device space; see Transform.
package render

import (
	"image"
	"image/color"

	"lexdraw/diagram"
)

// Dash is a line pattern.
type Dash int

// Dash patterns
const (
	DashSolid Dash = iota
	DashDashed
	DashDotted
)

// Stroke describes how an outline or line is drawn. Width is in points.
type Stroke struct {
	Color color.NRGBA
	Width float64
	Dash  Dash
}

// Font describes text. Size is in points.
type Font struct {
	Size  float64
	Bold  bool
	Color color.NRGBA
}

// Align is the horizontal anchor of a text block.
type Align int

// Alignments
const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Surface is a device a diagram can be drawn on. Multi-line strings are
// centered on their anchor point. Errors are collected and reported by End.
type Surface interface {
	Begin(view diagram.Bounds, title string)
	RoundedRect(r diagram.Bounds, radius float64, fill color.NRGBA, stroke Stroke)
	Polygon(pts []diagram.Point, fill color.NRGBA, stroke Stroke)
	Circle(center diagram.Point, radius float64, fill color.NRGBA, stroke Stroke)
	Line(p1, p2 diagram.Point, stroke Stroke)
	Curve(p1, ctrl, p2 diagram.Point, stroke Stroke)
	Arrowhead(tip, from diagram.Point, size float64, stroke Stroke)
	Text(p diagram.Point, s string, font Font, align Align)
	LabelBox(p diagram.Point, s string, font Font, background color.NRGBA)
	Image(img image.Image, r diagram.Bounds)
	End() error
}

// ArrowPoints returns the wing points of an arrowhead of the given length
// ending at tip and pointing away from from.
func ArrowPoints(tip, from diagram.Point, size float64) (diagram.Point, diagram.Point) {
	d := tip.Sub(from)
	l := d.Len()
	if l == 0 {
		d, l = diagram.Point{X: 0, Y: -1}, 1
	}
	u := d.Scale(1 / l)
	n := diagram.Point{X: -u.Y, Y: u.X}
	base := tip.Sub(u.Scale(size))
	half := size * 0.4
	return base.Add(n.Scale(half)), base.Sub(n.Scale(half))
}

// QuadPoint returns the point at t on the quadratic Bézier p1, ctrl, p2.
func QuadPoint(p1, ctrl, p2 diagram.Point, t float64) diagram.Point {
	mt := 1 - t
	return diagram.Point{
		X: mt*mt*p1.X + 2*mt*t*ctrl.X + t*t*p2.X,
		Y: mt*mt*p1.Y + 2*mt*t*ctrl.Y + t*t*p2.Y,
	}
}
