package ai

import (
	"fmt"
	"strings"

	"lexdraw/diagram"
)

const probePrompt = "Reply with the single word: ok"

func analyzePrompt(text string) string {
	return fmt.Sprintf(`Analyze the following legal or academic text and extract the key concepts and their relationships.

Text:
%s

Reply with JSON only, in exactly this shape:
{
  "concepts": [{"id": "node_0", "text": "concept", "level": 1}],
  "hierarchy": [],
  "connections": [{"from": "node_0", "to": "node_1", "type": "simple", "label": "relationship"}],
  "suggested_type": "hierarchy",
  "enhanced_text": "the text, clarified for a diagram"
}

Rules:
1. level starts at 1 for the most general concept.
2. type is one of: simple, thick, double, dashed, dotted, curved.
3. suggested_type is one of: %s.
4. Keep concept text short.`, text, typeList())
}

var enhanceHints = map[diagram.Type]string{
	diagram.TypeHierarchy:    "one concept per line, from the most general to the most specific",
	diagram.TypeFlowchart:    "one step per line, in the order the steps happen",
	diagram.TypeNetwork:      "one entity per line, followed by relationships written as A -> B",
	diagram.TypeDecisionTree: "alternating questions and outcomes, one per line",
	diagram.TypeFramework:    "one framework component per line, at most three words each",
}

func enhancePrompt(text string, t diagram.Type) string {
	hint, ok := enhanceHints[t]
	if !ok {
		hint = enhanceHints[diagram.TypeHierarchy]
	}
	return fmt.Sprintf(`Rewrite the following text so it can be drawn as a %s diagram.
Keep the first line as a title. Use %s.
Reply with the rewritten text only.

Text:
%s`, strings.ReplaceAll(string(t), "_", " "), hint, text)
}

func suggestPrompt(text string) string {
	return fmt.Sprintf(`Which diagram type best presents the following text?
Answer with exactly one of: %s.

Text:
%s`, typeList(), text)
}

func typeList() string {
	names := make([]string, 0, len(diagram.Types()))
	for _, t := range diagram.Types() {
		if t == diagram.TypeImageTemplate {
			continue
		}
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
