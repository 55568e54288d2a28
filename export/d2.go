package export

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
	"lexdraw/render"
)

// D2Exporter exports diagrams to D2 syntax
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the diagram to D2 syntax
func (e *D2Exporter) Export(d *diagram.Diagram) (string, error) {
	g, err := buildGraph(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", g.Title))
	}
	if g.Type == diagram.TypeFramework || g.Type == diagram.TypeNetwork {
		sb.WriteString("direction: right\n\n")
	}

	for _, n := range g.Nodes {
		sb.WriteString(fmt.Sprintf("%s: %s\n", n.Key, e.getNodeLabel(n.Node)))
		if shape := e.mapShapeToD2(n.Shape); shape != "" {
			sb.WriteString(fmt.Sprintf("%s.shape: %s\n", n.Key, shape))
		}
		sb.WriteString(fmt.Sprintf("%s.style.fill: \"%s\"\n", n.Key, render.Hex(n.Fill)))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for i, edge := range g.Edges {
		arrow := "->"
		if edge.Edge.Kind() == diagram.EdgeDouble {
			arrow = "<->"
		}
		if edge.Edge.Label != "" {
			sb.WriteString(fmt.Sprintf("%s %s %s: %s\n", edge.From, arrow, edge.To, e.escapeLabel(edge.Edge.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", edge.From, arrow, edge.To))
		}
		e.writeConnectionStyle(&sb, fmt.Sprintf("(%s %s %s)[%d]", edge.From, arrow, edge.To, e.occurrence(g.Edges, i)), edge.Edge.Kind())
	}

	return sb.String(), nil
}

// occurrence returns how many earlier edges share the endpoints and
// direction of edge i. D2 indexes repeated connections that way.
func (e *D2Exporter) occurrence(edges []graphEdge, i int) int {
	n := 0
	for _, prev := range edges[:i] {
		if prev.From == edges[i].From && prev.To == edges[i].To &&
			(prev.Edge.Kind() == diagram.EdgeDouble) == (edges[i].Edge.Kind() == diagram.EdgeDouble) {
			n++
		}
	}
	return n
}

func (e *D2Exporter) writeConnectionStyle(sb *strings.Builder, connID string, t diagram.EdgeType) {
	switch t {
	case diagram.EdgeThick:
		sb.WriteString(fmt.Sprintf("%s.style.stroke-width: 4\n", connID))
	case diagram.EdgeDashed:
		sb.WriteString(fmt.Sprintf("%s.style.stroke-dash: 5\n", connID))
	case diagram.EdgeDotted:
		sb.WriteString(fmt.Sprintf("%s.style.stroke-dash: 2\n", connID))
	}
}

// getNodeLabel extracts a label from a node
func (e *D2Exporter) getNodeLabel(node diagram.Node) string {
	return e.escapeLabel(strings.Join(lines(node.Text), `\n`))
}

// escapeLabel quotes labels that contain D2 syntax characters
func (e *D2Exporter) escapeLabel(label string) string {
	if !strings.ContainsAny(label, ":-><|{}[]()\"#;") {
		return label
	}
	label = strings.ReplaceAll(label, `"`, `\"`)
	return fmt.Sprintf("\"%s\"", label)
}

func (e *D2Exporter) mapShapeToD2(shape diagram.Shape) string {
	switch shape {
	case diagram.ShapeCircle:
		return "circle"
	case diagram.ShapeDiamond:
		return "diamond"
	default:
		return ""
	}
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
