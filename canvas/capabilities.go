package canvas

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// UnicodeLevel represents the level of Unicode support.
type UnicodeLevel int

const (
	UnicodeNone     UnicodeLevel = iota // ASCII only
	UnicodeBasic                        // Basic box-drawing
	UnicodeExtended                     // Full box-drawing with rounded corners
	UnicodeFull                         // Including emoji, complex scripts
)

// TerminalCapabilities represents the features supported by the current terminal.
type TerminalCapabilities struct {
	Name          string
	UnicodeLevel  UnicodeLevel
	SupportsColor bool
	IsCJK         bool // ambiguous-width characters take two cells
}

// DetectCapabilities detects the current terminal's capabilities.
func DetectCapabilities() TerminalCapabilities {
	return detectCapabilities(os.Getenv)
}

func detectCapabilities(getenv func(string) string) TerminalCapabilities {
	// Allow override via environment variable
	switch getenv("LEXDRAW_TERMINAL_MODE") {
	case "ascii":
		return ForceASCII()
	case "unicode":
		return ForceUnicode()
	}

	caps := TerminalCapabilities{
		Name:         "unknown",
		UnicodeLevel: UnicodeBasic,
	}

	term := getenv("TERM")
	switch {
	case getenv("WT_SESSION") != "":
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "windows-terminal", UnicodeFull, true
	case getenv("TERM_PROGRAM") == "iTerm.app":
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "iterm2", UnicodeFull, true
	case getenv("TERM_PROGRAM") == "Apple_Terminal":
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "terminal.app", UnicodeExtended, true
	case getenv("VTE_VERSION") != "":
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "vte-based", UnicodeExtended, true
	case strings.HasPrefix(term, "xterm-kitty"):
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "kitty", UnicodeFull, true
	case getenv("TMUX") != "":
		caps.Name, caps.UnicodeLevel, caps.SupportsColor = "tmux", UnicodeExtended, true
	case term == "dumb" || term == "linux":
		caps.Name, caps.UnicodeLevel = term, UnicodeNone
	default:
		if !detectUTF8Locale(getenv) {
			caps.UnicodeLevel = UnicodeNone
		}
		caps.SupportsColor = strings.Contains(term, "color") || getenv("COLORTERM") != ""
	}

	caps.IsCJK = detectCJKEnvironment(getenv)
	return caps
}

// detectUTF8Locale checks if the locale supports UTF-8.
func detectUTF8Locale(getenv func(string) string) bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := strings.ToUpper(getenv(env))
		if strings.Contains(value, "UTF-8") || strings.Contains(value, "UTF8") {
			return true
		}
	}
	return false
}

// detectCJKEnvironment checks for a Chinese, Japanese or Korean locale.
func detectCJKEnvironment(getenv func(string) string) bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := getenv(env)
		if value == "" {
			continue
		}
		switch strings.Split(value, "_")[0] {
		case "ja", "ko", "zh":
			return true
		}
	}
	return getenv("EAST_ASIAN_AMBIGUOUS") == "2"
}

// ForceASCII returns capabilities configured for ASCII-only output.
func ForceASCII() TerminalCapabilities {
	return TerminalCapabilities{Name: "ascii", UnicodeLevel: UnicodeNone}
}

// ForceUnicode returns capabilities configured for full Unicode support.
func ForceUnicode() TerminalCapabilities {
	return TerminalCapabilities{Name: "unicode", UnicodeLevel: UnicodeFull, SupportsColor: true}
}

// WidthCondition returns the rune width rules matching the capabilities.
func (c TerminalCapabilities) WidthCondition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = c.IsCJK
	return cond
}
