package layout

import "lexdraw/diagram"

// FrameworkLayout fills a three-column grid row by row.
type FrameworkLayout struct {
	columns    int
	colSpacing float64
	rowSpacing float64
	top        float64
}

// NewFrameworkLayout creates a FrameworkLayout with default settings.
func NewFrameworkLayout() *FrameworkLayout {
	return &FrameworkLayout{
		columns:    3,
		colSpacing: 4,
		rowSpacing: 2,
		top:        8,
	}
}

// Layout places node i at ((col - 1) * 4, 8 - 2 * row). Framework components
// are not connected.
func (l *FrameworkLayout) Layout(d *diagram.Diagram) *Result {
	r := newResult(diagram.TypeFramework, diagram.NewBounds(-6, 6, 0, 10), len(d.Nodes))

	for i, n := range d.Nodes {
		col, row := i%l.columns, i/l.columns
		p := diagram.Point{
			X: float64(col-1) * l.colSpacing,
			Y: l.top - l.rowSpacing*float64(row),
		}
		r.place(n.ID, p, RoleComponent, diagram.ShapeBox, WideBox)
	}

	return r
}

// Name returns the name of this layout algorithm.
func (l *FrameworkLayout) Name() string {
	return "FrameworkLayout"
}
