package export

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"lexdraw/diagram"
	"lexdraw/layout"
	"lexdraw/render"
)

// Errors shared by the definition exporters.
var (
	ErrNilDiagram   = errors.New("diagram is nil")
	ErrEmptyDiagram = errors.New("diagram has no nodes")
)

// graphNode is a node as the definition exporters see it.
type graphNode struct {
	Key   string // identifier in the target syntax
	Node  diagram.Node
	Shape diagram.Shape
	Fill  color.NRGBA
}

// graphEdge is an edge whose endpoints resolved to nodes.
type graphEdge struct {
	From string
	To   string
	Edge diagram.Edge
}

// graph is the resolved view of a diagram shared by the text exporters.
// Unresolved edges are left out, as they are when drawing.
type graph struct {
	Title string
	Type  diagram.Type
	Nodes []graphNode
	Edges []graphEdge
}

func buildGraph(d *diagram.Diagram) (*graph, error) {
	if d == nil {
		return nil, ErrNilDiagram
	}
	if len(d.Nodes) == 0 {
		return nil, ErrEmptyDiagram
	}

	res := layout.Compute(d, layout.Options{})
	cfg := render.DefaultConfig()

	g := &graph{Title: d.Title, Type: d.GetType()}
	keys := make(map[string]string, len(d.Nodes))
	for i, n := range d.Nodes {
		key := fmt.Sprintf("N%d", i+1)
		if _, dup := keys[n.ID]; !dup {
			keys[n.ID] = key
		}
		shape := res.Shapes[n.ID]
		if n.Shape != diagram.ShapeNone {
			shape = n.Shape
		}
		if shape == diagram.ShapeNone {
			shape = diagram.ShapeBox
		}
		g.Nodes = append(g.Nodes, graphNode{
			Key:   key,
			Node:  n,
			Shape: shape,
			Fill:  cfg.NodeColor(res.Roles[n.ID], n.Level),
		})
	}

	idx := diagram.NewIndex(d)
	for _, e := range d.Edges {
		from, to, ok := idx.ResolveEdge(e)
		if !ok {
			continue
		}
		g.Edges = append(g.Edges, graphEdge{From: keys[from.ID], To: keys[to.ID], Edge: e})
	}
	return g, nil
}

// lines splits node text into its display lines.
func lines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
