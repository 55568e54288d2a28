package canvas

// BoxStyle defines the characters used to draw a box. VerticalRight, when
// set, replaces Vertical on the right side.
type BoxStyle struct {
	TopLeft       rune
	TopRight      rune
	BottomLeft    rune
	BottomRight   rune
	Horizontal    rune
	Vertical      rune
	VerticalRight rune
}

// Right returns the character for the right side.
func (b BoxStyle) Right() rune {
	if b.VerticalRight != 0 {
		return b.VerticalRight
	}
	return b.Vertical
}

// LineStyle defines the characters used for connectors.
type LineStyle struct {
	Horizontal rune
	Vertical   rune
	Rising     rune // bottom-left to top-right
	Falling    rune // top-left to bottom-right
	Dashed     [2]rune
	Dotted     [2]rune
	Curve      rune
}

// ArrowStyle defines the characters used for arrows in different directions.
type ArrowStyle struct {
	Right rune
	Left  rune
	Up    rune
	Down  rune
}

// Style bundles every character set a text render needs.
type Style struct {
	Box     BoxStyle
	Diamond BoxStyle
	Circle  BoxStyle
	Line    LineStyle
	Arrows  ArrowStyle
}

// Predefined styles
var (
	// UnicodeStyle uses rounded box-drawing characters.
	UnicodeStyle = Style{
		Box: BoxStyle{
			TopLeft:     '╭',
			TopRight:    '╮',
			BottomLeft:  '╰',
			BottomRight: '╯',
			Horizontal:  '─',
			Vertical:    '│',
		},
		Diamond: BoxStyle{
			TopLeft:     '╱',
			TopRight:    '╲',
			BottomLeft:  '╲',
			BottomRight: '╱',
			Horizontal:  '─',
			Vertical:    '│',
		},
		Circle: BoxStyle{
			TopLeft:       '╭',
			TopRight:      '╮',
			BottomLeft:    '╰',
			BottomRight:   '╯',
			Horizontal:    '─',
			Vertical:      '(',
			VerticalRight: ')',
		},
		Line: LineStyle{
			Horizontal: '─',
			Vertical:   '│',
			Rising:     '╱',
			Falling:    '╲',
			Dashed:     [2]rune{'╌', '╎'},
			Dotted:     [2]rune{'┈', '┊'},
			Curve:      '·',
		},
		Arrows: ArrowStyle{
			Right: '▶',
			Left:  '◀',
			Up:    '▲',
			Down:  '▼',
		},
	}

	// ASCIIStyle uses only 7-bit characters.
	ASCIIStyle = Style{
		Box: BoxStyle{
			TopLeft:     '+',
			TopRight:    '+',
			BottomLeft:  '+',
			BottomRight: '+',
			Horizontal:  '-',
			Vertical:    '|',
		},
		Diamond: BoxStyle{
			TopLeft:     '/',
			TopRight:    '\\',
			BottomLeft:  '\\',
			BottomRight: '/',
			Horizontal:  '-',
			Vertical:    '|',
		},
		Circle: BoxStyle{
			TopLeft:       '.',
			TopRight:      '.',
			BottomLeft:    '\'',
			BottomRight:   '\'',
			Horizontal:    '-',
			Vertical:      '(',
			VerticalRight: ')',
		},
		Line: LineStyle{
			Horizontal: '-',
			Vertical:   '|',
			Rising:     '/',
			Falling:    '\\',
			Dashed:     [2]rune{'-', ':'},
			Dotted:     [2]rune{'.', '.'},
			Curve:      '.',
		},
		Arrows: ArrowStyle{
			Right: '>',
			Left:  '<',
			Up:    '^',
			Down:  'v',
		},
	}
)

// StyleFor picks the character set the capabilities can display.
func StyleFor(caps TerminalCapabilities) Style {
	if caps.UnicodeLevel == UnicodeNone {
		return ASCIIStyle
	}
	return UnicodeStyle
}
