package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"lexdraw/diagram"
)

// DefaultTitle is the title given to every AI-built diagram.
const DefaultTitle = "AI Analysis Diagram"

// Normalize converts a payload into a diagram, filling every missing field
// with its default. It never fails.
func Normalize(p Payload) *diagram.Diagram {
	d := &diagram.Diagram{
		Title:  DefaultTitle,
		Source: diagram.SourceAI,
		Nodes:  make([]diagram.Node, 0, len(p.Concepts)),
		Edges:  make([]diagram.Edge, 0, len(p.Connections)),
	}

	if t, ok := diagram.ParseType(p.SuggestedType); ok {
		d.Type = t
	}

	for i, raw := range p.Concepts {
		d.Nodes = append(d.Nodes, normalizeConcept(i, raw))
	}

	for _, raw := range p.Connections {
		if edge, ok := normalizeConnection(raw); ok {
			d.Edges = append(d.Edges, edge)
		}
	}

	return d
}

func normalizeConcept(i int, raw json.RawMessage) diagram.Node {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return diagram.NewNode(diagram.NodeID(i), scalarText(raw), 1)
	}

	id, ok := stringField(fields["id"])
	if !ok || id == "" {
		id = diagram.NodeID(i)
	}

	text, ok := stringField(fields["text"])
	if !ok {
		text = string(compact(raw))
	}

	level, ok := intField(fields["level"])
	if !ok {
		level = 1
	}

	return diagram.NewNode(id, text, level)
}

func normalizeConnection(raw json.RawMessage) (diagram.Edge, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return diagram.Edge{}, false
	}

	from, _ := stringField(fields["from"])
	to, _ := stringField(fields["to"])
	kind, _ := stringField(fields["type"])
	label, _ := stringField(fields["label"])

	return diagram.Edge{
		From:  from,
		To:    to,
		Type:  diagram.ParseEdgeType(kind),
		Label: label,
	}, true
}

// stringField reads a JSON string, or a number rendered as text.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// intField reads a JSON number or numeric string in [-MaxLevel, MaxLevel].
func intField(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.Abs(f) > diagram.MaxLevel {
		return 0, false
	}
	return int(f), true
}

// scalarText renders a non-object concept as node text.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(compact(raw))
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
