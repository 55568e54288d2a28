package export

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
	"lexdraw/render"
)

// GraphvizExporter exports diagrams to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the diagram to Graphviz DOT syntax
func (e *GraphvizExporter) Export(d *diagram.Diagram) (string, error) {
	g, err := buildGraph(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")

	// Global attributes
	sb.WriteString(fmt.Sprintf("  rankdir=%s;\n", e.rankdir(g.Type)))
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("  label=\"%s\";\n  labelloc=t;\n", e.escapeLabel(g.Title)))
	}
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", penwidth=2];\n")
	sb.WriteString("  edge [arrowhead=normal, penwidth=2];\n\n")

	for _, n := range g.Nodes {
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", n.Key, e.getNodeAttributes(n)))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range g.Edges {
		if attrs := e.getEdgeAttributes(edge.Edge); attrs != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", edge.From, edge.To, attrs))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", edge.From, edge.To))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) rankdir(t diagram.Type) string {
	if t == diagram.TypeFramework {
		return "LR"
	}
	return "TB"
}

// escapeLabel escapes quotes and backslashes
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// getNodeAttributes builds DOT node attributes
func (e *GraphvizExporter) getNodeAttributes(n graphNode) string {
	parts := lines(n.Node.Text)
	for i, line := range parts {
		parts[i] = e.escapeLabel(line)
	}
	attrs := []string{
		fmt.Sprintf("label=\"%s\"", strings.Join(parts, `\n`)),
		fmt.Sprintf("fillcolor=\"%s\"", render.Hex(n.Fill)),
	}
	switch n.Shape {
	case diagram.ShapeCircle:
		attrs = append(attrs, "shape=circle")
	case diagram.ShapeDiamond:
		attrs = append(attrs, "shape=diamond")
	}
	return strings.Join(attrs, ", ")
}

// getEdgeAttributes builds DOT edge attributes
func (e *GraphvizExporter) getEdgeAttributes(edge diagram.Edge) string {
	var attrs []string
	if edge.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", e.escapeLabel(edge.Label)))
	}

	switch edge.Kind() {
	case diagram.EdgeThick:
		attrs = append(attrs, "penwidth=4")
	case diagram.EdgeDouble:
		attrs = append(attrs, "dir=both")
	case diagram.EdgeDashed:
		attrs = append(attrs, "style=dashed")
	case diagram.EdgeDotted:
		attrs = append(attrs, "style=dotted")
	}

	return strings.Join(attrs, ", ")
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
