// Package parser turns free-form text into diagram nodes and edges.
package parser

import (
	"strings"

	"lexdraw/diagram"
)

// Symbol is a connector token and the edge type it signals.
type Symbol struct {
	Token string
	Type  diagram.EdgeType
}

// symbols is scanned in order and the first token contained in a line wins.
// Longer tokens that contain an earlier one ("-->" contains "->") therefore
// never win.
var symbols = []Symbol{
	{"->", diagram.EdgeSimple},
	{"→", diagram.EdgeSimple},
	{"=>", diagram.EdgeThick},
	{"⇒", diagram.EdgeThick},
	{"-->", diagram.EdgeDashed},
	{"--->", diagram.EdgeDashed},
	{"==>", diagram.EdgeDouble},
}

// Symbols returns the connector table in scan order.
func Symbols() []Symbol {
	out := make([]Symbol, len(symbols))
	copy(out, symbols)
	return out
}

// ParseConnections extracts typed, optionally labelled edges from text.
// Lines without a connector, or that do not split into exactly two non-empty
// parts, produce nothing. It never fails.
func ParseConnections(text string) []diagram.Edge {
	var edges []diagram.Edge

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if edge, ok := parseConnectionLine(line); ok {
			edges = append(edges, edge)
		}
	}

	return edges
}

func parseConnectionLine(line string) (diagram.Edge, bool) {
	for _, sym := range symbols {
		if !strings.Contains(line, sym.Token) {
			continue
		}

		// Only the first matching symbol is considered for a line.
		parts := strings.Split(line, sym.Token)
		if len(parts) != 2 {
			return diagram.Edge{}, false
		}

		from := strings.TrimSpace(parts[0])
		to := strings.TrimSpace(parts[1])
		if from == "" || to == "" {
			return diagram.Edge{}, false
		}
		// A label-only destination leaves To empty; the renderer drops it.
		to, label := extractLabel(to)

		return diagram.Edge{
			From:  from,
			To:    to,
			Type:  sym.Type,
			Label: label,
		}, true
	}
	return diagram.Edge{}, false
}

// extractLabel pulls a "[label]" out of a destination.
func extractLabel(to string) (string, string) {
	start := strings.Index(to, "[")
	end := strings.Index(to, "]")
	if start < 0 || end < 0 {
		return to, ""
	}

	label := ""
	if end > start {
		label = strings.TrimSpace(to[start+1 : end])
	}
	return strings.TrimSpace(to[:start]), label
}
