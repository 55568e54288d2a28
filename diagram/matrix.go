package diagram

// Matrix is an adjacency matrix over a diagram's nodes in input order.
type Matrix struct {
	IDs   []string
	Cells [][]int
}

// NewMatrix creates an empty adjacency matrix for the diagram's nodes.
func NewMatrix(d *Diagram) *Matrix {
	n := len(d.Nodes)
	m := &Matrix{
		IDs:   make([]string, n),
		Cells: make([][]int, n),
	}
	for i, node := range d.Nodes {
		m.IDs[i] = node.ID
		m.Cells[i] = make([]int, n)
	}
	return m
}

// Apply counts every resolvable edge of d into the matrix. Unresolved edges are skipped.
func (m *Matrix) Apply(d *Diagram) *Matrix {
	idx := NewIndex(d)
	for _, e := range d.Edges {
		from, to, ok := idx.ResolveEdge(e)
		if !ok {
			continue
		}
		fi, ti := idx.Position(from.ID), idx.Position(to.ID)
		if fi < 0 || ti < 0 {
			continue
		}
		m.Cells[fi][ti]++
	}
	return m
}

// Connected reports whether there is at least one edge from node i to node j.
func (m *Matrix) Connected(i, j int) bool {
	if i < 0 || j < 0 || i >= len(m.Cells) || j >= len(m.Cells) {
		return false
	}
	return m.Cells[i][j] > 0
}
