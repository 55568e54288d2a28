// Package validation reports problems in diagram definitions and in rendered
// text diagrams. Problems are advisory: a diagram with issues still lays out
// and renders, the affected edges are simply skipped.
package validation

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
)

// Kind classifies an issue.
type Kind string

// Issue kinds
const (
	KindEmptyText     Kind = "empty_text"
	KindDuplicateID   Kind = "duplicate_id"
	KindDuplicateText Kind = "duplicate_text"
	KindUnresolved    Kind = "unresolved_edge"
	KindSelfEdge      Kind = "self_edge"
	KindDuplicateEdge Kind = "duplicate_edge"
)

// Issue is one problem found in a diagram.
type Issue struct {
	Kind    Kind
	Message string
}

// String formats the issue for logs.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Check inspects d and returns its issues in a stable order: node issues in
// input order, then edge issues in input order.
func Check(d *diagram.Diagram) []Issue {
	if d == nil {
		return nil
	}
	var issues []Issue
	add := func(k Kind, format string, args ...any) {
		issues = append(issues, Issue{Kind: k, Message: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]bool, len(d.Nodes))
	texts := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if strings.TrimSpace(n.Text) == "" {
			add(KindEmptyText, "node %d (%s) has no text", i, n.ID)
		}
		if ids[n.ID] {
			add(KindDuplicateID, "node id %q is used more than once", n.ID)
		}
		ids[n.ID] = true
		if n.Text != "" && texts[n.Text] {
			// Edges resolve to the first node with this text.
			add(KindDuplicateText, "node text %q is used more than once, edges reach only the first", n.Text)
		}
		texts[n.Text] = true
	}

	idx := diagram.NewIndex(d)
	for i, e := range d.Edges {
		from, to, ok := idx.ResolveEdge(e)
		if !ok {
			add(KindUnresolved, "edge %d %q -> %q does not match any node", i, e.From, e.To)
			continue
		}
		if from.ID == to.ID {
			add(KindSelfEdge, "edge %d connects %q to itself", i, from.Text)
		}
	}

	m := diagram.NewMatrix(d).Apply(d)
	for i, row := range m.Cells {
		for j, count := range row {
			if count > 1 {
				add(KindDuplicateEdge, "%d edges from %s to %s", count, m.IDs[i], m.IDs[j])
			}
		}
	}

	return issues
}

// Count returns how many issues have the given kind.
func Count(issues []Issue, k Kind) int {
	n := 0
	for _, i := range issues {
		if i.Kind == k {
			n++
		}
	}
	return n
}
