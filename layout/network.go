package layout

import (
	"math"

	"lexdraw/diagram"
)

// RingLayout spaces network members evenly on a circle.
type RingLayout struct {
	radius float64
}

// NewRingLayout creates a RingLayout with default settings.
func NewRingLayout() *RingLayout {
	return &RingLayout{radius: 5}
}

// Layout places member i of N at angle 2πi/N. Each member links to its
// successor; the last does not wrap around to the first.
func (l *RingLayout) Layout(d *diagram.Diagram) *Result {
	n := len(d.Nodes)
	r := newResult(diagram.TypeNetwork, diagram.NewBounds(-8, 8, -8, 8), n)

	for i, node := range d.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := diagram.Point{X: l.radius * math.Cos(angle), Y: l.radius * math.Sin(angle)}
		r.place(node.ID, p, RoleMember, diagram.ShapeCircle, Circle)
	}
	r.Links = chain(d.Nodes, LinkStraight)

	return r
}

// Name returns the name of this layout algorithm.
func (l *RingLayout) Name() string {
	return "RingLayout"
}

// GridLayout arranges network members on a near-square grid centered on the origin.
type GridLayout struct {
	colSpacing float64
	rowSpacing float64
}

// NewGridLayout creates a GridLayout with default settings.
func NewGridLayout() *GridLayout {
	return &GridLayout{colSpacing: 3, rowSpacing: 2}
}

// Layout uses cols = ceil(√N) and rows = ceil(N/cols); member i sits at
// ((col - cols/2) * 3, (rows/2 - row) * 2).
func (g *GridLayout) Layout(d *diagram.Diagram) *Result {
	n := len(d.Nodes)
	r := newResult(diagram.TypeNetwork, diagram.NewBounds(-8, 8, -8, 8), n)
	if n == 0 {
		return r
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := ceilDiv(n, cols)

	for i, node := range d.Nodes {
		col, row := i%cols, i/cols
		p := diagram.Point{
			X: (float64(col) - float64(cols)/2) * g.colSpacing,
			Y: (float64(rows)/2 - float64(row)) * g.rowSpacing,
		}
		r.place(node.ID, p, RoleMember, diagram.ShapeCircle, Circle)
	}
	r.Links = chain(d.Nodes, LinkStraight)

	return r
}

// Name returns the name of this layout algorithm.
func (g *GridLayout) Name() string {
	return "GridLayout"
}
