package importer

import (
	"fmt"
	"regexp"
	"strings"

	"lexdraw/diagram"
)

var (
	mermaidHeader = regexp.MustCompile(`^(graph|flowchart)(\s+(TB|TD|BT|LR|RL))?\s*;?$`)
	mermaidEdge   = regexp.MustCompile(`^(.+?)\s*(<-->|==>|-\.->|-->|---)\s*(?:\|([^|]*)\|)?\s*(.+)$`)
	mermaidNode   = regexp.MustCompile(`^([\w-]+)\s*(\(\((.*)\)\)|\((.*)\)|\[(.*)\]|\{(.*)\})?$`)
)

// MermaidImporter imports Mermaid flowcharts.
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks for a graph or flowchart header after optional front matter.
func (m *MermaidImporter) CanImport(content string) bool {
	_, body := m.frontMatter(content)
	for _, line := range body {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		return mermaidHeader.MatchString(line)
	}
	return false
}

// Import converts a Mermaid flowchart to a diagram.
func (m *MermaidImporter) Import(content string) (*diagram.Diagram, error) {
	title, body := m.frontMatter(content)
	b := newBuilder()
	b.d.Title = title

	header := false
	for n, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if !header {
			match := mermaidHeader.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("mermaid: expected graph or flowchart header, got %q", line)
			}
			b.horizontal = match[3] == "LR" || match[3] == "RL"
			header = true
			continue
		}
		if m.ignored(line) {
			continue
		}
		line = strings.TrimSuffix(line, ";")
		if err := m.statement(b, line); err != nil {
			return nil, fmt.Errorf("mermaid line %d: %w", n+1, err)
		}
	}
	return b.finish()
}

func (m *MermaidImporter) ignored(line string) bool {
	for _, prefix := range []string{"style ", "classDef ", "class ", "linkStyle ", "click ", "subgraph", "direction "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return line == "end"
}

// statement reads a node declaration or an edge chain such as A --> B --> C.
func (m *MermaidImporter) statement(b *builder, line string) error {
	match := mermaidEdge.FindStringSubmatch(line)
	if match == nil {
		_, err := m.declare(b, line)
		return err
	}
	from, err := m.declare(b, match[1])
	if err != nil {
		return err
	}
	rest := match[4]
	target := rest
	if next := mermaidEdge.FindStringSubmatch(rest); next != nil {
		target = next[1]
	}
	to, err := m.declare(b, target)
	if err != nil {
		return err
	}
	b.edge(from, to, m.edgeType(match[2]), m.unescape(strings.TrimSpace(match[3])))
	if target != rest {
		return m.statement(b, rest)
	}
	return nil
}

func (m *MermaidImporter) declare(b *builder, s string) (string, error) {
	match := mermaidNode.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return "", fmt.Errorf("cannot read node %q", s)
	}
	key := match[1]
	shape := diagram.ShapeNone
	label := ""
	switch {
	case match[3] != "":
		shape, label = diagram.ShapeCircle, match[3]
	case match[4] != "":
		label = match[4]
	case match[5] != "":
		label = match[5]
	case match[6] != "":
		shape, label = diagram.ShapeDiamond, match[6]
	}
	b.node(key, m.label(label), shape)
	return key, nil
}

func (m *MermaidImporter) label(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for _, br := range []string{"<br/>", "<br>", "<br />"} {
		s = strings.ReplaceAll(s, br, "\n")
	}
	return m.unescape(s)
}

func (m *MermaidImporter) unescape(s string) string {
	s = strings.ReplaceAll(s, "#quot;", `"`)
	return strings.ReplaceAll(s, "#124;", "|")
}

func (m *MermaidImporter) edgeType(arrow string) diagram.EdgeType {
	switch arrow {
	case "==>":
		return diagram.EdgeThick
	case "<-->":
		return diagram.EdgeDouble
	case "-.->":
		return diagram.EdgeDashed
	default:
		return diagram.EdgeSimple
	}
}

// frontMatter splits off a leading --- block and returns its title.
func (m *MermaidImporter) frontMatter(content string) (string, []string) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", lines
	}
	title := ""
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "---" {
			return title, lines[i+1:]
		}
		if v, ok := strings.CutPrefix(line, "title:"); ok {
			title = m.unescape(strings.TrimSpace(v))
		}
	}
	return title, nil
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}
