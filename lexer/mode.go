package lexer

// Mode selects which scanning rules are active. The Parser switches
// modes around constructs whose following token would otherwise be
// ambiguous (a '#' that starts a hex color vs. an id selector, a run
// of selector components where interior whitespace matters but
// leading/trailing whitespace does not).
type Mode int

const (
	// ModeNormal is the default: digits lex as Number, comments and a
	// single space run lex as Comment/Whitespace tokens.
	ModeNormal Mode = iota
	// ModeColor is entered by the Parser immediately after consuming a
	// '#'; a following hex digit (0-9, a-f, A-F) starts hex-color
	// lexing instead of number or identifier lexing.
	ModeColor
	// ModeSelector makes Peek/PeekNth transparently skip Whitespace in
	// addition to Comment, for terminator lookahead during selector
	// parsing.
	ModeSelector
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeColor:
		return "Color"
	case ModeSelector:
		return "Selector"
	default:
		return "Unknown"
	}
}
