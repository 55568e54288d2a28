package layout

import "lexdraw/diagram"

// HorizontalLayout lines flowchart steps up left to right, centered on x = 0.
type HorizontalLayout struct {
	spacing float64
}

// NewHorizontalLayout creates a HorizontalLayout with default settings.
func NewHorizontalLayout() *HorizontalLayout {
	return &HorizontalLayout{spacing: 3}
}

// Layout places step i at (3i - 1.5(n-1), 0).
func (h *HorizontalLayout) Layout(d *diagram.Diagram) *Result {
	n := len(d.Nodes)
	r := newResult(diagram.TypeFlowchart, diagram.NewBounds(-5, 5, -2, 2), n)

	offset := h.spacing / 2 * float64(n-1)
	for i, node := range d.Nodes {
		p := diagram.Point{X: h.spacing*float64(i) - offset, Y: 0}
		r.place(node.ID, p, flowRole(i, n), diagram.ShapeBox, WideBox)
	}
	r.Links = chain(d.Nodes, LinkStraight)

	return r
}

// Name returns the name of this layout algorithm.
func (h *HorizontalLayout) Name() string {
	return "HorizontalLayout"
}
