package diagram

// Index resolves edge endpoints to nodes.
//
// Text lookup is exact string equality. When two nodes share the same text
// only the first one in input order is reachable; callers rely on this
// first-match behaviour so it is kept as is.
type Index struct {
	source Source
	byID   map[string]int
	byText map[string]int
	nodes  []Node
}

// NewIndex builds an index over the diagram's nodes.
func NewIndex(d *Diagram) *Index {
	idx := &Index{
		source: d.Source,
		byID:   make(map[string]int, len(d.Nodes)),
		byText: make(map[string]int, len(d.Nodes)),
		nodes:  d.Nodes,
	}
	for i, n := range d.Nodes {
		if _, ok := idx.byID[n.ID]; !ok {
			idx.byID[n.ID] = i
		}
		if _, ok := idx.byText[n.Text]; !ok {
			idx.byText[n.Text] = i
		}
	}
	return idx
}

// Resolve returns the node an endpoint refers to.
// AI payloads and imported definitions carry ids, so ids are tried first
// for them. Free-text diagrams only know node text.
func (idx *Index) Resolve(ref string) (Node, bool) {
	if ref == "" {
		return Node{}, false
	}
	if idx.source != SourceText {
		if i, ok := idx.byID[ref]; ok {
			return idx.nodes[i], true
		}
	}
	if i, ok := idx.byText[ref]; ok {
		return idx.nodes[i], true
	}
	return Node{}, false
}

// ResolveEdge resolves both ends of an edge. ok is false if either end is unknown.
func (idx *Index) ResolveEdge(e Edge) (from, to Node, ok bool) {
	from, okFrom := idx.Resolve(e.From)
	to, okTo := idx.Resolve(e.To)
	return from, to, okFrom && okTo
}

// ByID returns the node with the given id.
func (idx *Index) ByID(id string) (Node, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return Node{}, false
	}
	return idx.nodes[i], true
}

// Position returns the input-order index of a node id, or -1.
func (idx *Index) Position(id string) int {
	if i, ok := idx.byID[id]; ok {
		return i
	}
	return -1
}
