package layout

import (
	"sort"

	"lexdraw/diagram"
)

// HierarchyLayout puts each level on its own row, most general at the top.
type HierarchyLayout struct {
	top        float64
	rowSpacing float64
	colSpacing float64
}

// NewHierarchyLayout creates a HierarchyLayout with default settings.
func NewHierarchyLayout() *HierarchyLayout {
	return &HierarchyLayout{
		top:        10,
		rowSpacing: 2,
		colSpacing: 3,
	}
}

// Layout places the i-th node of level L (n nodes on that level) at
// ((i - n/2) * 3, 10 - 2L). When the diagram has no edges and more than one
// node, consecutive nodes are joined with elbow connectors.
func (h *HierarchyLayout) Layout(d *diagram.Diagram) *Result {
	r := newResult(diagram.TypeHierarchy, diagram.NewBounds(-10, 10, 0, 12), len(d.Nodes))

	byLevel := make(map[int][]diagram.Node)
	for _, n := range d.Nodes {
		byLevel[n.Level] = append(byLevel[n.Level], n)
	}

	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	for _, level := range levels {
		row := byLevel[level]
		half := float64(len(row)) / 2
		y := h.top - h.rowSpacing*float64(level)
		for i, n := range row {
			p := diagram.Point{X: (float64(i) - half) * h.colSpacing, Y: y}
			r.place(n.ID, p, RoleLevel, diagram.ShapeBox, HierarchyBox)
		}
	}

	if len(d.Edges) == 0 && len(d.Nodes) > 1 {
		r.Links = chain(d.Nodes, LinkElbow)
	}

	return r
}

// Name returns the name of this layout algorithm.
func (h *HierarchyLayout) Name() string {
	return "HierarchyLayout"
}
