package importer

import (
	"fmt"
	"regexp"
	"strings"

	"lexdraw/diagram"
)

var (
	plantElement = regexp.MustCompile(`^(rectangle|component|node|card|agent|usecase|actor|circle|hexagon|diamond|storage|database)\s+(?:"([^"]*)"\s+as\s+([\w.]+)|([\w.]+)(?:\s+as\s+"([^"]*)")?)(?:\s+(#\w+|<<\w+>>))*\s*$`)
	plantEdge    = regexp.MustCompile(`^([\w.]+)\s+(<-->|<->|-\[bold\]->|-\[dotted\]->|-\[dashed\]->|\.\.>|-->|->|\.\.|--)\s+([\w.]+)(?:\s*:\s*(.*))?$`)
)

// PlantUMLImporter imports PlantUML component and deployment diagrams.
type PlantUMLImporter struct{}

// NewPlantUMLImporter creates a new PlantUML importer
func NewPlantUMLImporter() *PlantUMLImporter {
	return &PlantUMLImporter{}
}

// CanImport checks for the @startuml marker.
func (p *PlantUMLImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "@startuml")
}

// Import converts a PlantUML definition to a diagram.
func (p *PlantUMLImporter) Import(content string) (*diagram.Diagram, error) {
	b := newBuilder()
	for n, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || p.ignored(line) {
			continue
		}
		if line == "@enduml" {
			break
		}
		if title, ok := strings.CutPrefix(line, "title "); ok {
			b.d.Title = strings.TrimSpace(title)
			continue
		}
		if line == "left to right direction" {
			b.horizontal = true
			continue
		}
		if match := plantEdge.FindStringSubmatch(line); match != nil {
			b.edge(match[1], match[3], p.edgeType(match[2]), strings.TrimSpace(match[4]))
			continue
		}
		if match := plantElement.FindStringSubmatch(line); match != nil {
			shape := p.shape(match[1])
			if match[3] != "" {
				b.node(match[3], newlines(match[2]), shape)
			} else {
				b.node(match[4], newlines(match[5]), shape)
			}
			continue
		}
		return nil, fmt.Errorf("plantuml line %d: cannot read %q", n+1, line)
	}
	return b.finish()
}

func (p *PlantUMLImporter) ignored(line string) bool {
	for _, prefix := range []string{"@startuml", "!", "'", "skinparam ", "hide ", "show ", "note "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	switch line {
	case "legend", "endlegend", "end note":
		return true
	}
	return false
}

func (p *PlantUMLImporter) shape(element string) diagram.Shape {
	switch element {
	case "circle":
		return diagram.ShapeCircle
	case "hexagon", "diamond":
		return diagram.ShapeDiamond
	default:
		return diagram.ShapeNone
	}
}

func (p *PlantUMLImporter) edgeType(arrow string) diagram.EdgeType {
	switch arrow {
	case "-[bold]->":
		return diagram.EdgeThick
	case "<-->", "<->":
		return diagram.EdgeDouble
	case "..>", "..", "-[dashed]->":
		return diagram.EdgeDashed
	case "-[dotted]->":
		return diagram.EdgeDotted
	default:
		return diagram.EdgeSimple
	}
}

// GetFormatName returns the format name
func (p *PlantUMLImporter) GetFormatName() string {
	return "PlantUML"
}

// GetFileExtensions returns common file extensions
func (p *PlantUMLImporter) GetFileExtensions() []string {
	return []string{".puml", ".plantuml", ".pu"}
}
