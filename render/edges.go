package render

import (
	"math"

	"lexdraw/diagram"
	"lexdraw/layout"
)

// curveRad is the control point offset of a curved edge as a fraction of its chord.
const curveRad = 0.2

type pendingLabel struct {
	at   diagram.Point
	text string
}

func (r *Renderer) drawLinks(res *layout.Result, s Surface) int {
	width := r.cfg.EdgeWidth
	if res.Type == diagram.TypeNetwork {
		width = r.cfg.NetworkWidth
	}
	stroke := Stroke{Color: r.cfg.Ink, Width: width}

	drawn := 0
	for _, l := range res.Links {
		p1, ok1 := res.Positions[l.From]
		p2, ok2 := res.Positions[l.To]
		if !ok1 || !ok2 {
			continue
		}

		// Vertical drop from the parent to the child's row, then across.
		corner := diagram.Point{X: p1.X, Y: p2.Y}
		if l.Style == layout.LinkElbow && corner != p1 && corner != p2 {
			a := boundary(res, l.From, corner)
			b := boundary(res, l.To, corner)
			s.Line(a, corner, stroke)
			s.Line(corner, b, stroke)
			s.Arrowhead(b, corner, r.cfg.ArrowSize, stroke)
		} else {
			a := boundary(res, l.From, p2)
			b := boundary(res, l.To, p1)
			s.Line(a, b, stroke)
			s.Arrowhead(b, a, r.cfg.ArrowSize, stroke)
		}
		drawn++
	}
	return drawn
}

func (r *Renderer) drawEdges(d *diagram.Diagram, res *layout.Result, s Surface) (drawn, dropped int, labels []pendingLabel) {
	idx := diagram.NewIndex(d)

	for _, e := range d.Edges {
		from, to, ok := idx.ResolveEdge(e)
		if !ok || from.ID == to.ID {
			dropped++
			continue
		}
		p1, ok1 := res.Positions[from.ID]
		p2, ok2 := res.Positions[to.ID]
		if !ok1 || !ok2 {
			dropped++
			continue
		}

		kind := e.Kind()
		stroke := Stroke{Color: r.cfg.Ink, Width: r.cfg.EdgeWidth}
		switch kind {
		case diagram.EdgeThick:
			stroke.Width *= 2
		case diagram.EdgeDashed:
			stroke.Dash = DashDashed
		case diagram.EdgeDotted:
			stroke.Dash = DashDotted
		}
		head := stroke
		head.Dash = DashSolid

		labelAt := diagram.Midpoint(p1, p2)

		if kind == diagram.EdgeCurved {
			ctrl := CurveControl(p1, p2)
			a := boundary(res, from.ID, ctrl)
			b := boundary(res, to.ID, ctrl)
			s.Curve(a, ctrl, b, stroke)
			s.Arrowhead(b, ctrl, r.cfg.ArrowSize, head)
			labelAt.Y += 0.3
		} else {
			a := boundary(res, from.ID, p2)
			b := boundary(res, to.ID, p1)
			s.Line(a, b, stroke)
			s.Arrowhead(b, a, r.cfg.ArrowSize, head)
			if kind == diagram.EdgeDouble {
				s.Arrowhead(a, b, r.cfg.ArrowSize, head)
			}
		}

		if e.Label != "" {
			labels = append(labels, pendingLabel{at: labelAt, text: e.Label})
		}
		drawn++
	}
	return drawn, dropped, labels
}

// CurveControl returns the quadratic control point of a curved edge from p1
// to p2. It sits off the chord midpoint by curveRad of the chord length,
// to the right of the direction of travel.
func CurveControl(p1, p2 diagram.Point) diagram.Point {
	mid := diagram.Midpoint(p1, p2)
	d := p2.Sub(p1)
	return diagram.Point{X: mid.X + curveRad*d.Y, Y: mid.Y - curveRad*d.X}
}

// boundary returns where a ray from the center of node id towards target
// leaves the node's shape.
func boundary(res *layout.Result, id string, target diagram.Point) diagram.Point {
	c := res.Positions[id]
	size := res.Sizes[id]
	d := target.Sub(c)
	l := d.Len()
	if l == 0 {
		return c
	}
	ux, uy := d.X/l, d.Y/l
	hw, hh := size.W/2, size.H/2

	var t float64
	switch res.Shapes[id] {
	case diagram.ShapeCircle:
		t = hh
	case diagram.ShapeDiamond:
		t = 1 / (math.Abs(ux)/hw + math.Abs(uy)/hh)
	default:
		t = math.Inf(1)
		if ux != 0 {
			t = math.Min(t, hw/math.Abs(ux))
		}
		if uy != 0 {
			t = math.Min(t, hh/math.Abs(uy))
		}
	}
	if t >= l {
		return c
	}
	return c.Add(diagram.Point{X: ux * t, Y: uy * t})
}
