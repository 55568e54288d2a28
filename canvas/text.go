package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if runewidth.StringWidth(ellipsis) >= maxWidth {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// FitLines splits text into lines and fits it into a w x h cell block. When
// there are more lines than rows, the last visible line ends with ellipsis.
func FitLines(text string, w, h int, ellipsis string) []string {
	if h <= 0 || w <= 0 {
		return nil
	}
	lines := strings.Split(text, "\n")
	truncated := len(lines) > h
	if truncated {
		lines = lines[:h]
	}
	for i, line := range lines {
		lines[i] = FitText(line, w, ellipsis)
	}
	if ew := runewidth.StringWidth(ellipsis); truncated && w > ew {
		last := len(lines) - 1
		lines[last] = runewidth.Truncate(lines[last], w-ew, "") + ellipsis
	}
	return lines
}
