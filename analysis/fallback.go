package analysis

import (
	"encoding/json"
	"strings"

	"lexdraw/diagram"
)

// Fallback is the analysis used when the AI collaborator is unavailable or
// its reply cannot be parsed: one level-1 concept per non-empty line, no
// connections, a hierarchy suggestion and the input as enhanced text.
func Fallback(text string) Payload {
	var concepts []json.RawMessage
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		raw, err := json.Marshal(diagram.NewNode(diagram.NodeID(i), line, 1))
		if err != nil {
			continue
		}
		concepts = append(concepts, raw)
	}

	enhanced := text
	return Payload{
		Concepts:      concepts,
		SuggestedType: string(diagram.TypeHierarchy),
		EnhancedText:  &enhanced,
	}
}

// Analyze parses a model reply into a payload. When the reply holds no
// usable JSON object the fallback analysis of input is returned with ok false.
func Analyze(reply, input string) (Payload, bool) {
	data, ok := ExtractJSON(reply)
	if !ok {
		return Fallback(input), false
	}
	p, err := Decode(data)
	if err != nil {
		return Fallback(input), false
	}
	return p, true
}
