package layout

import "lexdraw/diagram"

// VerticalLayout stacks flowchart steps top to bottom at x = 0.
type VerticalLayout struct {
	top     float64
	spacing float64
}

// NewVerticalLayout creates a VerticalLayout with default settings.
func NewVerticalLayout() *VerticalLayout {
	return &VerticalLayout{
		top:     10,
		spacing: 2,
	}
}

// Layout places step i at (0, 10 - 2i). The first step is the start, the
// last the end; a single step is only a start.
func (v *VerticalLayout) Layout(d *diagram.Diagram) *Result {
	r := newResult(diagram.TypeFlowchart, diagram.NewBounds(-5, 5, 0, 12), len(d.Nodes))

	for i, n := range d.Nodes {
		p := diagram.Point{X: 0, Y: v.top - v.spacing*float64(i)}
		r.place(n.ID, p, flowRole(i, len(d.Nodes)), diagram.ShapeBox, WideBox)
	}
	r.Links = chain(d.Nodes, LinkStraight)

	return r
}

// Name returns the name of this layout algorithm.
func (v *VerticalLayout) Name() string {
	return "VerticalLayout"
}

func flowRole(i, n int) Role {
	switch {
	case i == 0:
		return RoleStart
	case i == n-1:
		return RoleEnd
	default:
		return RoleProcess
	}
}
