package export

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
	"lexdraw/render"
)

// PlantUMLExporter exports diagrams to PlantUML component syntax
type PlantUMLExporter struct{}

// NewPlantUMLExporter creates a new PlantUML exporter
func NewPlantUMLExporter() *PlantUMLExporter {
	return &PlantUMLExporter{}
}

// Export converts the diagram to PlantUML syntax
func (e *PlantUMLExporter) Export(d *diagram.Diagram) (string, error) {
	g, err := buildGraph(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("@startuml\n")
	sb.WriteString("!theme plain\n")
	sb.WriteString("skinparam backgroundColor white\n")
	sb.WriteString("skinparam componentStyle rectangle\n")
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("title %s\n", g.Title))
	}
	sb.WriteString("\n")

	for _, n := range g.Nodes {
		sb.WriteString(fmt.Sprintf("%s \"%s\" as %s %s\n",
			e.element(n.Shape), e.getNodeLabel(n.Node), n.Key, render.Hex(n.Fill)))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range g.Edges {
		arrow := e.arrow(edge.Edge.Kind())
		if edge.Edge.Label != "" {
			sb.WriteString(fmt.Sprintf("%s %s %s : %s\n", edge.From, arrow, edge.To, edge.Edge.Label))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", edge.From, arrow, edge.To))
		}
	}

	sb.WriteString("\n@enduml\n")
	return sb.String(), nil
}

// element maps a node shape to a PlantUML element keyword
func (e *PlantUMLExporter) element(shape diagram.Shape) string {
	switch shape {
	case diagram.ShapeCircle:
		return "circle"
	case diagram.ShapeDiamond:
		return "hexagon"
	default:
		return "rectangle"
	}
}

// arrow maps an edge type to PlantUML arrow syntax
func (e *PlantUMLExporter) arrow(t diagram.EdgeType) string {
	switch t {
	case diagram.EdgeThick:
		return "-[bold]->"
	case diagram.EdgeDouble:
		return "<-->"
	case diagram.EdgeDashed:
		return "..>"
	case diagram.EdgeDotted:
		return "-[dotted]->"
	default:
		return "-->"
	}
}

// getNodeLabel joins multi-line node text with \n
func (e *PlantUMLExporter) getNodeLabel(node diagram.Node) string {
	label := strings.Join(lines(node.Text), `\n`)
	return strings.ReplaceAll(label, `"`, `'`)
}

// GetFileExtension returns the recommended file extension
func (e *PlantUMLExporter) GetFileExtension() string {
	return ".puml"
}

// GetFormatName returns the format name
func (e *PlantUMLExporter) GetFormatName() string {
	return "PlantUML"
}
