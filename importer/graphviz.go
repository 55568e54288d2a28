package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lexdraw/diagram"
)

var (
	dotHeader = regexp.MustCompile(`^\s*(?:strict\s+)?(di)?graph\b[^{]*\{`)
	dotID     = regexp.MustCompile(`^(?:[\w.]+|"(?:[^"\\]|\\.)*")$`)
	dotAttr   = regexp.MustCompile(`([\w]+)\s*=\s*("(?:[^"\\]|\\.)*"|[^,;\s\]]+)`)
)

// GraphvizImporter imports Graphviz DOT graphs.
type GraphvizImporter struct{}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{}
}

// CanImport checks for a graph or digraph header.
func (g *GraphvizImporter) CanImport(content string) bool {
	return dotHeader.MatchString(g.stripComments(content))
}

// Import converts a DOT graph to a diagram. Subgraphs are flattened.
func (g *GraphvizImporter) Import(content string) (*diagram.Diagram, error) {
	content = g.stripComments(content)
	header := dotHeader.FindStringSubmatchIndex(content)
	end := strings.LastIndex(content, "}")
	if header == nil || end < header[1] {
		return nil, fmt.Errorf("graphviz: missing graph body")
	}
	arrow := "--"
	if header[2] >= 0 {
		arrow = "->"
	}

	b := newBuilder()
	for _, stmt := range g.statements(content[header[1]:end]) {
		if err := g.statement(b, stmt, arrow); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// statements splits a graph body on semicolons and newlines outside quotes.
func (g *GraphvizImporter) statements(body string) []string {
	var out []string
	for _, line := range splitOutside(body, "\n") {
		for _, stmt := range splitOutside(line, ";") {
			stmt = strings.TrimSpace(stmt)
			stmt = strings.TrimPrefix(stmt, "{")
			stmt = strings.TrimSpace(strings.TrimSuffix(stmt, "}"))
			if stmt == "" || strings.HasPrefix(stmt, "subgraph") {
				continue
			}
			out = append(out, stmt)
		}
	}
	return out
}

func (g *GraphvizImporter) statement(b *builder, stmt, arrow string) error {
	body, attrs := stmt, map[string]string{}
	if open := g.attrStart(stmt); open >= 0 {
		body = strings.TrimSpace(stmt[:open])
		attrs = g.attributes(stmt[open:])
	}

	switch body {
	case "node", "edge":
		return nil
	case "graph":
		if label, ok := attrs["label"]; ok {
			b.d.Title = label
		}
		if rd, ok := attrs["rankdir"]; ok {
			b.horizontal = rd == "LR" || rd == "RL"
		}
		return nil
	}

	if key, value, ok := strings.Cut(body, "="); ok && !strings.Contains(body, arrow) {
		switch strings.TrimSpace(key) {
		case "rankdir":
			v := unquote(value)
			b.horizontal = v == "LR" || v == "RL"
		case "label":
			b.d.Title = newlines(unquote(value))
		}
		return nil
	}

	parts := splitOutside(body, arrow)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !dotID.MatchString(part) {
			return fmt.Errorf("graphviz: cannot read %q", stmt)
		}
		parts[i] = unquote(part)
	}
	if len(parts) == 1 {
		b.node(parts[0], newlines(attrs["label"]), g.shape(attrs["shape"]))
		return nil
	}
	t := g.edgeType(attrs)
	for i := 0; i+1 < len(parts); i++ {
		b.edge(parts[i], parts[i+1], t, newlines(attrs["label"]))
	}
	return nil
}

// attrStart returns the index of the first [ outside quotes, or -1.
func (g *GraphvizImporter) attrStart(stmt string) int {
	inQuote, escaped := false, false
	for i := 0; i < len(stmt); i++ {
		switch c := stmt[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == '[' && !inQuote:
			return i
		}
	}
	return -1
}

func (g *GraphvizImporter) attributes(list string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range dotAttr.FindAllStringSubmatch(list, -1) {
		attrs[m[1]] = unquote(m[2])
	}
	return attrs
}

func (g *GraphvizImporter) shape(s string) diagram.Shape {
	switch s {
	case "circle", "doublecircle", "ellipse", "oval":
		return diagram.ShapeCircle
	case "diamond":
		return diagram.ShapeDiamond
	default:
		return diagram.ShapeNone
	}
}

func (g *GraphvizImporter) edgeType(attrs map[string]string) diagram.EdgeType {
	if attrs["dir"] == "both" {
		return diagram.EdgeDouble
	}
	switch attrs["style"] {
	case "dashed":
		return diagram.EdgeDashed
	case "dotted":
		return diagram.EdgeDotted
	case "bold":
		return diagram.EdgeThick
	}
	if w, err := strconv.ParseFloat(attrs["penwidth"], 64); err == nil && w >= 3 {
		return diagram.EdgeThick
	}
	return diagram.EdgeSimple
}

// stripComments drops // and # line comments.
func (g *GraphvizImporter) stripComments(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// GetFormatName returns the format name
func (g *GraphvizImporter) GetFormatName() string {
	return "Graphviz"
}

// GetFileExtensions returns common file extensions
func (g *GraphvizImporter) GetFileExtensions() []string {
	return []string{".dot", ".gv"}
}
