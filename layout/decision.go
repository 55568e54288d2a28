package layout

import "lexdraw/diagram"

// DecisionLayout alternates questions and outcomes down a single column.
type DecisionLayout struct {
	top     float64
	spacing float64
}

// NewDecisionLayout creates a DecisionLayout with default settings.
func NewDecisionLayout() *DecisionLayout {
	return &DecisionLayout{top: 10, spacing: 1.5}
}

// Layout places node i at (0, 10 - 1.5i). Even positions are decision
// diamonds, odd positions result boxes.
func (l *DecisionLayout) Layout(d *diagram.Diagram) *Result {
	r := newResult(diagram.TypeDecisionTree, diagram.NewBounds(-5, 5, 0, 12), len(d.Nodes))

	for i, n := range d.Nodes {
		p := diagram.Point{X: 0, Y: l.top - l.spacing*float64(i)}
		if i%2 == 0 {
			r.place(n.ID, p, RoleDecision, diagram.ShapeDiamond, Diamond)
		} else {
			r.place(n.ID, p, RoleResult, diagram.ShapeBox, ResultBox)
		}
	}
	r.Links = chain(d.Nodes, LinkStraight)

	return r
}

// Name returns the name of this layout algorithm.
func (l *DecisionLayout) Name() string {
	return "DecisionLayout"
}
