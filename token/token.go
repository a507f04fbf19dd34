// Package token defines the lexical token kinds produced by the lexer.
package token

import "github.com/titpetric/lessfront/span"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Identifier Kind = iota
	AtKeyword
	String
	Number
	Color
	Comment

	LeftParen
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace

	Comma
	Colon
	Semicolon
	Dot
	Hash
	Ampersand
	Bang

	Plus
	Minus
	Asterisk
	Slash
	Percent
	Equals
	GreaterThan

	Tilde
	TildeEquals
	Pipe
	PipeEquals
	Caret
	CaretEquals
	Dollar
	DollarEquals

	Whitespace
	EOF
)

var kindNames = map[Kind]string{
	Identifier:   "Identifier",
	AtKeyword:    "AtKeyword",
	String:       "String",
	Number:       "Number",
	Color:        "Color",
	Comment:      "Comment",
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Colon:        "Colon",
	Semicolon:    "Semicolon",
	Dot:          "Dot",
	Hash:         "Hash",
	Ampersand:    "Ampersand",
	Bang:         "Bang",
	Plus:         "Plus",
	Minus:        "Minus",
	Asterisk:     "Asterisk",
	Slash:        "Slash",
	Percent:      "Percent",
	Equals:       "Equals",
	GreaterThan:  "GreaterThan",
	Tilde:        "Tilde",
	TildeEquals:  "TildeEquals",
	Pipe:         "Pipe",
	PipeEquals:   "PipeEquals",
	Caret:        "Caret",
	CaretEquals:  "CaretEquals",
	Dollar:       "Dollar",
	DollarEquals: "DollarEquals",
	Whitespace:   "Whitespace",
	EOF:          "EOF",
}

// String returns the Kind's name, e.g. "Identifier".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a (Kind, Span) pair: a lexical unit and its location.
type Token struct {
	Kind Kind
	Span span.Span
}

// New returns a Token with the given kind and span.
func New(kind Kind, start, end int) Token {
	return Token{Kind: kind, Span: span.New(start, end)}
}

// Text returns the token's source text.
func (t Token) Text(source string) string {
	return t.Span.Slice(source)
}

func (t Token) String() string {
	return t.Kind.String()
}
