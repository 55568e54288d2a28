package export

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
	"lexdraw/render"
)

// MermaidExporter exports diagrams to Mermaid flowchart syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the diagram to Mermaid syntax
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	g, err := buildGraph(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", e.escapeLabel(g.Title)))
	}
	sb.WriteString(fmt.Sprintf("graph %s\n", e.direction(g.Type)))

	for _, n := range g.Nodes {
		sb.WriteString(fmt.Sprintf("    %s%s\n", n.Key, e.formatNodeWithShape(e.getNodeLabel(n.Node), n.Shape)))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range g.Edges {
		arrow := e.arrow(edge.Edge.Kind())
		if edge.Edge.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", edge.From, arrow, e.escapeLabel(edge.Edge.Label), edge.To))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", edge.From, arrow, edge.To))
		}
	}

	// Fill colors follow the rendered picture.
	sb.WriteString("\n")
	for _, n := range g.Nodes {
		sb.WriteString(fmt.Sprintf("    style %s fill:%s,stroke:#000,stroke-width:2px\n", n.Key, render.Hex(n.Fill)))
	}

	return sb.String(), nil
}

func (e *MermaidExporter) direction(t diagram.Type) string {
	switch t {
	case diagram.TypeNetwork, diagram.TypeFramework:
		return "LR"
	default:
		return "TD"
	}
}

// arrow maps an edge type to Mermaid link syntax
func (e *MermaidExporter) arrow(t diagram.EdgeType) string {
	switch t {
	case diagram.EdgeThick:
		return "==>"
	case diagram.EdgeDouble:
		return "<-->"
	case diagram.EdgeDashed, diagram.EdgeDotted:
		return "-.->"
	default:
		return "-->"
	}
}

// getNodeLabel joins multi-line node text with <br/>
func (e *MermaidExporter) getNodeLabel(node diagram.Node) string {
	parts := lines(node.Text)
	for i, line := range parts {
		parts[i] = e.escapeLabel(line)
	}
	return `"` + strings.Join(parts, "<br/>") + `"`
}

// escapeLabel replaces characters Mermaid treats as syntax
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, `|`, "#124;")
	return label
}

// formatNodeWithShape formats a node with its shape for Mermaid
func (e *MermaidExporter) formatNodeWithShape(label string, shape diagram.Shape) string {
	switch shape {
	case diagram.ShapeCircle:
		return fmt.Sprintf("((%s))", label)
	case diagram.ShapeDiamond:
		return fmt.Sprintf("{%s}", label)
	default:
		return fmt.Sprintf("(%s)", label)
	}
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
