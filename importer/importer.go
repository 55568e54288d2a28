// Package importer reads diagram definitions written in other tools'
// languages back into lexdraw diagrams.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lexdraw/diagram"
)

var (
	// ErrUnknownFormat is returned when no importer accepts the content or format name.
	ErrUnknownFormat = errors.New("unknown definition format")
	// ErrNoNodes is returned for definitions that declare nothing.
	ErrNoNodes = errors.New("definition has no nodes")
)

// Importer converts one definition language into a diagram.
type Importer interface {
	// CanImport reports whether content looks like this importer's language.
	CanImport(content string) bool

	// Import converts content into a diagram.
	Import(content string) (*diagram.Diagram, error)

	// GetFormatName returns the human-readable name of the format.
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format.
	GetFileExtensions() []string
}

// Registry holds the available importers in detection order.
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with the Mermaid, PlantUML, Graphviz and D2 importers.
// D2 has no header line, so it is tried last.
func NewRegistry() *Registry {
	return &Registry{
		importers: []Importer{
			NewMermaidImporter(),
			NewPlantUMLImporter(),
			NewGraphvizImporter(),
			NewD2Importer(),
		},
	}
}

// Register adds an importer after the built-in ones.
func (r *Registry) Register(imp Importer) {
	r.importers = append(r.importers, imp)
}

// DetectFormat returns the first importer that accepts content.
func (r *Registry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: unable to detect format", ErrUnknownFormat)
}

// Import converts content using auto-detection.
func (r *Registry) Import(content string) (*diagram.Diagram, error) {
	imp, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}

// ImportWithFormat converts content with the importer whose format name or
// file extension matches format, ignoring case.
func (r *Registry) ImportWithFormat(content, format string) (*diagram.Diagram, error) {
	imp, ok := r.lookup(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return imp.Import(content)
}

// ImportFile reads path and converts it. The extension picks the importer;
// unknown extensions fall back to detection.
func (r *Registry) ImportFile(path string) (*diagram.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	if imp, ok := r.lookup(filepath.Ext(path)); ok {
		return imp.Import(string(data))
	}
	return r.Import(string(data))
}

// Formats returns the format names in detection order.
func (r *Registry) Formats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}

func (r *Registry) lookup(name string) (Importer, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, false
	}
	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == name {
			return imp, true
		}
		for _, ext := range imp.GetFileExtensions() {
			if ext == name || strings.TrimPrefix(ext, ".") == name {
				return imp, true
			}
		}
	}
	return nil, false
}

// builder collects nodes and edges by definition key while a definition is read.
type builder struct {
	d          *diagram.Diagram
	index      map[string]int
	horizontal bool
}

func newBuilder() *builder {
	return &builder{
		d:     &diagram.Diagram{Source: diagram.SourceImport},
		index: make(map[string]int),
	}
}

// node declares key, creating it on first use. A non-empty label replaces
// the text and a shape other than none replaces the shape.
func (b *builder) node(key, label string, shape diagram.Shape) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.d.Nodes)
		b.index[key] = i
		b.d.Nodes = append(b.d.Nodes, diagram.Node{ID: key, Text: key, Level: 1})
	}
	if label != "" {
		b.d.Nodes[i].Text = label
	}
	if shape != diagram.ShapeNone {
		b.d.Nodes[i].Shape = shape
	}
}

func (b *builder) edge(from, to string, t diagram.EdgeType, label string) {
	b.node(from, "", diagram.ShapeNone)
	b.node(to, "", diagram.ShapeNone)
	e := diagram.Edge{From: from, To: to, Label: label}
	if t != diagram.EdgeSimple {
		e.Type = t
	}
	b.d.Edges = append(b.d.Edges, e)
}

// finish assigns levels and the type. Horizontal definitions become frameworks.
func (b *builder) finish() (*diagram.Diagram, error) {
	if len(b.d.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	if b.horizontal {
		b.d.Type = diagram.TypeFramework
	}
	assignLevels(b.d, b.index)
	return b.d, nil
}

// assignLevels sets each node's level to one plus its breadth-first depth
// from the nodes nothing points at. Nodes only reachable through cycles
// start new trees in input order.
func assignLevels(d *diagram.Diagram, index map[string]int) {
	children := make([][]int, len(d.Nodes))
	incoming := make([]int, len(d.Nodes))
	for _, e := range d.Edges {
		from, to := index[e.From], index[e.To]
		if from == to {
			continue
		}
		children[from] = append(children[from], to)
		incoming[to]++
	}

	level := make([]int, len(d.Nodes))
	walk := func(root int) {
		level[root] = 1
		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range children[cur] {
				if level[next] == 0 {
					level[next] = level[cur] + 1
					queue = append(queue, next)
				}
			}
		}
	}
	for i := range d.Nodes {
		if incoming[i] == 0 && level[i] == 0 {
			walk(i)
		}
	}
	for i := range d.Nodes {
		if level[i] == 0 {
			walk(i)
		}
	}
	for i := range d.Nodes {
		d.Nodes[i].Level = level[i]
	}
}

// splitOutside splits s at sep wherever sep is outside double quotes.
func splitOutside(s, sep string) []string {
	var parts []string
	inQuote, escaped := false, false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	return append(parts, s[start:])
}

// unquote strips surrounding double quotes and unescapes \" and \\.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// newlines turns literal \n sequences into line breaks.
func newlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
