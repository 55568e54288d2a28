package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lexdraw/diagram"
)

var (
	d2Arrow      = regexp.MustCompile(`\s*(<->|->|<-|--)\s*`)
	d2Key        = regexp.MustCompile(`^(?:[\w.-]+|"(?:[^"\\]|\\.)*")$`)
	d2Connection = regexp.MustCompile(`^\(\s*([\w-]+|"[^"]*")\s*(<->|->|<-|--)\s*([\w-]+|"[^"]*")\s*\)\[(\d+)\]\.style\.([\w-]+)$`)
	d2Statement  = regexp.MustCompile(`^\s*(?:[\w.-]+|"[^"]*")(?:\s*(?:<->|->|<-|--)\s*(?:[\w.-]+|"[^"]*"))*\s*(?::.*)?$`)
)

// D2Importer imports flat D2 diagrams. Containers are read as plain nodes.
type D2Importer struct{}

// NewD2Importer creates a new D2 importer
func NewD2Importer() *D2Importer {
	return &D2Importer{}
}

// CanImport reports whether every statement looks like D2. D2 has no
// header, so at least one declaration or connection is required.
func (d *D2Importer) CanImport(content string) bool {
	found := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || line == "}" {
			continue
		}
		if !d2Statement.MatchString(line) && !strings.HasPrefix(line, "(") {
			return false
		}
		found = true
	}
	return found
}

// d2Edge remembers an edge by its connection key so that later
// (a -> b)[i].style lines can restyle it.
type d2Edge struct {
	conn  string
	index int
}

// Import converts a D2 definition to a diagram.
func (d *D2Importer) Import(content string) (*diagram.Diagram, error) {
	b := newBuilder()
	var edges []d2Edge
	seen := false
	block := ""
	depth := 0

	for n, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if !seen && b.d.Title == "" {
				b.d.Title = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			}
			continue
		}
		seen = true

		if depth > 0 {
			if line == "}" {
				depth--
				continue
			}
			if strings.HasSuffix(line, "{") {
				depth++
				continue
			}
			if depth == 1 {
				d.property(b, block, line)
			}
			continue
		}

		lhs, rhs, hasValue := d.cut(line)
		lhs = strings.TrimSpace(lhs)
		rhs = strings.TrimSpace(rhs)

		if match := d2Connection.FindStringSubmatch(lhs); match != nil {
			d.restyle(b, edges, match, rhs)
			continue
		}

		if arrows := d2Arrow.FindAllStringSubmatchIndex(lhs, -1); len(arrows) > 0 {
			if err := d.connection(b, &edges, lhs, arrows, d.text(rhs)); err != nil {
				return nil, fmt.Errorf("d2 line %d: %w", n+1, err)
			}
			continue
		}

		switch {
		case lhs == "direction":
			b.horizontal = rhs == "right" || rhs == "left"
		case rhs == "{":
			key := unquote(lhs)
			b.node(key, "", diagram.ShapeNone)
			block, depth = key, 1
		case strings.Contains(lhs, ".") && !strings.HasPrefix(lhs, `"`):
			key, prop, _ := strings.Cut(lhs, ".")
			d.property(b, key, prop+": "+rhs)
		case d2Key.MatchString(lhs):
			label := ""
			if hasValue {
				label = d.text(rhs)
			}
			b.node(unquote(lhs), label, diagram.ShapeNone)
		default:
			return nil, fmt.Errorf("d2 line %d: cannot read %q", n+1, line)
		}
	}
	return b.finish()
}

// cut splits a line at the first colon outside quotes and parentheses.
func (d *D2Importer) cut(line string) (string, string, bool) {
	inQuote, escaped, parens := false, false, 0
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			parens++
		case c == ')':
			parens--
		case c == ':' && parens == 0:
			return line[:i], line[i+1:], true
		}
	}
	return line, "", false
}

func (d *D2Importer) connection(b *builder, edges *[]d2Edge, lhs string, arrows [][]int, label string) error {
	keys := make([]string, 0, len(arrows)+1)
	start := 0
	for _, a := range arrows {
		keys = append(keys, lhs[start:a[0]])
		start = a[1]
	}
	keys = append(keys, lhs[start:])
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if !d2Key.MatchString(k) {
			return fmt.Errorf("cannot read node %q", k)
		}
		keys[i] = unquote(k)
	}

	for i, a := range arrows {
		op := lhs[a[2]:a[3]]
		from, to := keys[i], keys[i+1]
		t := diagram.EdgeSimple
		switch op {
		case "<-":
			from, to = to, from
		case "<->":
			t = diagram.EdgeDouble
		}
		*edges = append(*edges, d2Edge{conn: keys[i] + " " + op + " " + keys[i+1], index: len(b.d.Edges)})
		b.edge(from, to, t, label)
	}
	return nil
}

// restyle applies a (a -> b)[i].style.x: v line to the i-th matching edge.
func (d *D2Importer) restyle(b *builder, edges []d2Edge, match []string, value string) {
	conn := unquote(match[1]) + " " + match[2] + " " + unquote(match[3])
	want, _ := strconv.Atoi(match[4])
	n := 0
	for _, e := range edges {
		if e.conn != conn {
			continue
		}
		if n == want {
			edge := &b.d.Edges[e.index]
			if edge.Kind() == diagram.EdgeDouble {
				return
			}
			if t := d.strokeType(match[5], unquote(value)); t != diagram.EdgeSimple {
				edge.Type = t
			}
			return
		}
		n++
	}
}

func (d *D2Importer) strokeType(prop, value string) diagram.EdgeType {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return diagram.EdgeSimple
	}
	switch prop {
	case "stroke-width":
		if f >= 3 {
			return diagram.EdgeThick
		}
	case "stroke-dash":
		if f >= 4 {
			return diagram.EdgeDashed
		}
		if f > 0 {
			return diagram.EdgeDotted
		}
	}
	return diagram.EdgeSimple
}

// property applies "shape: x" or "label: x" to key. Style properties are ignored.
func (d *D2Importer) property(b *builder, key, line string) {
	prop, value, ok := d.cut(line)
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(prop) {
	case "shape":
		b.node(key, "", d.shape(unquote(value)))
	case "label":
		b.node(key, d.text(value), diagram.ShapeNone)
	}
}

func (d *D2Importer) shape(s string) diagram.Shape {
	switch s {
	case "circle", "oval":
		return diagram.ShapeCircle
	case "diamond":
		return diagram.ShapeDiamond
	default:
		return diagram.ShapeNone
	}
}

func (d *D2Importer) text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "{" {
		return ""
	}
	return newlines(unquote(s))
}

// GetFormatName returns the format name
func (d *D2Importer) GetFormatName() string {
	return "D2"
}

// GetFileExtensions returns common file extensions
func (d *D2Importer) GetFileExtensions() []string {
	return []string{".d2"}
}
