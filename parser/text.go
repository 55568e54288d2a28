package parser

import (
	"strings"

	"lexdraw/diagram"
)

// DefaultTitle is used when the input has no lines at all.
const DefaultTitle = "Legal Research Diagram"

// ParseText builds a diagram from free-form text.
//
// The first non-empty line is the title. Later lines containing "->" or "→"
// are simple edges, parsed like ParseConnections so a trailing "[label]" is
// kept; every other line is a node whose level is its 1-based
// position among node lines, so the result is always a strict vertical
// hierarchy.
func ParseText(text string) *diagram.Diagram {
	lines := nonEmptyLines(text)

	d := &diagram.Diagram{
		Title:  DefaultTitle,
		Source: diagram.SourceText,
		Nodes:  []diagram.Node{},
		Edges:  []diagram.Edge{},
	}
	if len(lines) == 0 {
		return d
	}
	d.Title = lines[0]

	level := 0
	for i, line := range lines[1:] {
		lineIndex := i + 1

		if strings.Contains(line, "->") || strings.Contains(line, "→") {
			if edge, ok := parseConnectionLine(strings.ReplaceAll(line, "→", "->")); ok {
				d.Edges = append(d.Edges, edge)
			}
			continue
		}

		level++
		d.Nodes = append(d.Nodes, diagram.NewNode(diagram.NodeID(lineIndex), line, level))
	}

	return d
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
