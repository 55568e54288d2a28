// Package analysis normalizes text-analysis payloads returned by the AI collaborator into diagrams.
package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when a reply contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in reply")

// Payload is the analysis shape the AI collaborator is asked to return.
// Every field is optional and items are kept raw so malformed entries can be
// tolerated one by one.
type Payload struct {
	Concepts      []json.RawMessage `json:"concepts"`
	Hierarchy     []json.RawMessage `json:"hierarchy,omitempty"`
	Connections   []json.RawMessage `json:"connections"`
	SuggestedType string            `json:"suggested_type,omitempty"`
	EnhancedText  *string           `json:"enhanced_text,omitempty"`
}

// Enhanced returns the enhanced text, or fallback when the payload has none.
func (p Payload) Enhanced(fallback string) string {
	if p.EnhancedText == nil {
		return fallback
	}
	return *p.EnhancedText
}

// Decode parses a payload leniently. Only input that is not a JSON object
// at all is an error; fields of the wrong type are treated as missing.
func Decode(data []byte) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Payload{}, err
	}
	if fields == nil {
		return Payload{}, ErrNoJSON
	}

	var p Payload
	p.Concepts = rawArray(fields["concepts"])
	p.Hierarchy = rawArray(fields["hierarchy"])
	p.Connections = rawArray(fields["connections"])

	var suggested string
	if raw, ok := fields["suggested_type"]; ok && json.Unmarshal(raw, &suggested) == nil {
		p.SuggestedType = strings.TrimSpace(suggested)
	}

	var enhanced string
	if raw, ok := fields["enhanced_text"]; ok && string(raw) != "null" && json.Unmarshal(raw, &enhanced) == nil {
		p.EnhancedText = &enhanced
	}

	return p, nil
}

func rawArray(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// ExtractJSON finds the JSON object inside a model reply. Replies are often
// wrapped in Markdown code fences or surrounded by prose.
func ExtractJSON(reply string) ([]byte, bool) {
	s := strings.TrimSpace(reply)

	if start := strings.Index(s, "```"); start >= 0 {
		body := s[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		s = strings.TrimSpace(body)
	}

	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first < 0 || last <= first {
		return nil, false
	}

	candidate := []byte(s[first : last+1])
	if !json.Valid(candidate) {
		return nil, false
	}
	return bytes.TrimSpace(candidate), true
}
