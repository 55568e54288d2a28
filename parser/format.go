package parser

import "strings"

// DefaultWrapLength is the line length FormatText wraps to when none is given.
const DefaultWrapLength = 20

// FormatText wraps long node text on word boundaries so it fits inside a shape.
// Text without spaces (typical for CJK input) is returned unchanged.
func FormatText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultWrapLength
	}
	if len([]rune(text)) <= maxLength {
		return text
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		if len([]rune(current+word)) <= maxLength {
			current += word + " "
			continue
		}
		if current != "" {
			lines = append(lines, strings.TrimSpace(current))
		}
		current = word + " "
	}
	if current != "" {
		lines = append(lines, strings.TrimSpace(current))
	}

	return strings.Join(lines, "\n")
}
