// Package ast defines the typed syntax tree produced by the parser:
// a Stylesheet of top-level items, each ultimately built from spans,
// selectors, and values traced back to the source text.
package ast

import "github.com/titpetric/lessfront/span"

// Node is implemented by every AST node.
type Node interface {
	Span() span.Span
}

// Stylesheet is the root of a parsed document.
type Stylesheet struct {
	Sp    span.Span
	Items []TopItem
}

func (s *Stylesheet) Span() span.Span { return s.Sp }

// TopItem is a top-level construct inside a Stylesheet: a
// QualifiedRule, an AtRule, or a DefinedStatement.
type TopItem interface {
	Node
	topItem()
}

// BlockItem is anything that can appear inside a CurlyBlock.
type BlockItem interface {
	Node
	blockItem()
}

// QualifiedRule is a selector-prefixed block, e.g. ".a, .b { ... }".
type QualifiedRule struct {
	Sp      span.Span
	Prelude SelectorList
	Body    *CurlyBlock
}

func (r *QualifiedRule) Span() span.Span { return r.Sp }
func (r *QualifiedRule) topItem()        {}
func (r *QualifiedRule) blockItem()      {}

// AtRule is an "@name prelude { ... }" or "@name prelude;" construct.
type AtRule struct {
	Sp      span.Span
	Name    AtKeyword
	Prelude ValueList
	Body    *CurlyBlock // nil when there is no block form
}

func (a *AtRule) Span() span.Span { return a.Sp }
func (a *AtRule) topItem()        {}
func (a *AtRule) blockItem()      {}

// DefinedStatement is one of VariableDefinition, MapVariableDefinition,
// or MixinDefinition.
type DefinedStatement interface {
	Node
	topItem()
	blockItem()
	definedStatement()
}

// VariableDefinition is "@name: <value-list>;".
type VariableDefinition struct {
	Sp    span.Span
	Name  AtKeyword
	Value ValueList
}

func (v *VariableDefinition) Span() span.Span    { return v.Sp }
func (v *VariableDefinition) topItem()           {}
func (v *VariableDefinition) blockItem()         {}
func (v *VariableDefinition) definedStatement()  {}

// MapVariableDefinition is "@name: { decl; decl; ... };".
type MapVariableDefinition struct {
	Sp    span.Span
	Name  AtKeyword
	Props []Declaration
}

func (m *MapVariableDefinition) Span() span.Span   { return m.Sp }
func (m *MapVariableDefinition) topItem()          {}
func (m *MapVariableDefinition) blockItem()        {}
func (m *MapVariableDefinition) definedStatement() {}

// MixinDefinition is ".name(params...) { ... }".
type MixinDefinition struct {
	Sp         span.Span
	Name       *SimpleSelector
	Parameters []Parameter
	Body       *CurlyBlock
}

func (m *MixinDefinition) Span() span.Span   { return m.Sp }
func (m *MixinDefinition) topItem()          {}
func (m *MixinDefinition) blockItem()        {}
func (m *MixinDefinition) definedStatement() {}

// Parameter is a single mixin parameter: "@name" or "@name: default".
type Parameter struct {
	Sp      span.Span
	Name    AtKeyword
	Default ValueList // nil when the parameter has no default
}

func (p Parameter) Span() span.Span { return p.Sp }

// CurlyBlock holds the items between '{' and '}'.
type CurlyBlock struct {
	Sp    span.Span
	Items []BlockItem
}

func (c *CurlyBlock) Span() span.Span { return c.Sp }

// DeclarationList is the BlockItem that carries property
// declarations. The parser emits one DeclarationList per declaration;
// consecutive declarations are not merged into a single list.
// MapVariableDefinition keeps its declarations in Props directly.
type DeclarationList struct {
	Sp    span.Span
	Decls []Declaration
}

func (d *DeclarationList) Span() span.Span { return d.Sp }
func (d *DeclarationList) blockItem()      {}

// Declaration is a single "name: value-list" pair.
type Declaration struct {
	Sp    span.Span
	Name  string
	Value ValueList
}

func (d Declaration) Span() span.Span { return d.Sp }

// SelectorList is a comma-separated sequence of SelectorComponentList.
type SelectorList []SelectorComponentList

// SelectorComponentList is an ordered sequence of selector components.
type SelectorComponentList []Selector

// Selector is one of ParentSelector, SimpleSelector, PseudoSelector.
type Selector interface {
	Node
	selector()
}

// ParentSelector is the "&" selector component.
type ParentSelector struct {
	Sp span.Span
}

func (p *ParentSelector) Span() span.Span { return p.Sp }
func (p *ParentSelector) selector()       {}

// SimpleSelector is a type/class/id/combinator selector component,
// stored as its literal source text (e.g. ".foo", "#bar", "h1", ">").
type SimpleSelector struct {
	Sp   span.Span
	Text string
}

func (s *SimpleSelector) Span() span.Span { return s.Sp }
func (s *SimpleSelector) selector()       {}

// PseudoSelector is one of PseudoElement, PseudoFunction.
type PseudoSelector interface {
	Selector
	pseudoSelector()
}

// PseudoElement is ":name" with no argument list.
type PseudoElement struct {
	Sp   span.Span
	Name string
}

func (p *PseudoElement) Span() span.Span  { return p.Sp }
func (p *PseudoElement) selector()        {}
func (p *PseudoElement) pseudoSelector()  {}

// PseudoFunction is ":name(...)", e.g. ":not(.a, .b)".
type PseudoFunction struct {
	Sp     span.Span
	Name   string
	Params SelectorList
}

func (p *PseudoFunction) Span() span.Span { return p.Sp }
func (p *PseudoFunction) selector()       {}
func (p *PseudoFunction) pseudoSelector() {}

// ValueList is a comma-separated sequence of ValueComponentList.
type ValueList []ValueComponentList

// ValueComponentList is a space-separated sequence of ValueAtom.
type ValueComponentList []ValueAtom

// ValueAtom is one of Expression, Identifier, PreservedToken,
// ImportantMarker.
type ValueAtom interface {
	Node
	valueAtom()
}

// Identifier is a bare value-position identifier, e.g. "red" in
// "color: red;".
type Identifier struct {
	Sp   span.Span
	Name string
}

func (i *Identifier) Span() span.Span { return i.Sp }
func (i *Identifier) valueAtom()      {}

// PreservedToken wraps an opaque lexeme that the parser could not (or
// need not) interpret further, keeping its literal text. The token
// kind is not stored.
type PreservedToken struct {
	Sp   span.Span
	Text string
}

func (p *PreservedToken) Span() span.Span        { return p.Sp }
func (p *PreservedToken) valueAtom()             {}
func (p *PreservedToken) expr()                  {}
func (p *PreservedToken) variableReference()     {}

// ImportantMarker is "!important" (or "!" followed by any identifier,
// carrying that identifier's text).
type ImportantMarker struct {
	Sp   span.Span
	Name string
}

func (m *ImportantMarker) Span() span.Span { return m.Sp }
func (m *ImportantMarker) valueAtom()      {}

// Expression is one of BinaryExpression, FunctionExpression,
// MixinCall, VariableReference, ParenthesizedExpression, EscapedString.
// It is itself a ValueAtom.
type Expression interface {
	ValueAtom
	expr()
}

// BinaryOp is one of the four arithmetic operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (o BinaryOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpression is "left op right".
type BinaryExpression struct {
	Sp    span.Span
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (b *BinaryExpression) Span() span.Span { return b.Sp }
func (b *BinaryExpression) valueAtom()      {}
func (b *BinaryExpression) expr()           {}

// FunctionExpression is "name(arguments)".
type FunctionExpression struct {
	Sp        span.Span
	Name      string
	Arguments ValueList
}

func (f *FunctionExpression) Span() span.Span { return f.Sp }
func (f *FunctionExpression) valueAtom()      {}
func (f *FunctionExpression) expr()           {}

// MixinCall is a mixin invocation. It appears both as a BlockItem
// (".mixin();" as a standalone statement) and as an Expression (a
// mixin call used in value position).
type MixinCall struct {
	Sp        span.Span
	Name      SelectorComponentList
	Arguments *ValueList // nil when called with no parens
}

func (m *MixinCall) Span() span.Span { return m.Sp }
func (m *MixinCall) blockItem()      {}
func (m *MixinCall) valueAtom()      {}
func (m *MixinCall) expr()           {}

// NumberLiteral carries the raw source text of a number (not an
// eagerly evaluated float) plus its optional immediately-adjacent
// unit. It is both a ValueAtom and a usable Expression factor.
type NumberLiteral struct {
	Sp   span.Span
	Text string
	Unit string // "" when absent
}

func (n *NumberLiteral) Span() span.Span { return n.Sp }
func (n *NumberLiteral) valueAtom()      {}
func (n *NumberLiteral) expr()           {}

// VariableReference is an Expression that is either a plain "@name",
// a map access "@obj[prop]", a color literal, or a preserved token.
type VariableReference interface {
	Expression
	variableReference()
}

// PlainVariable is "@name" used as a value.
type PlainVariable struct {
	Sp   span.Span
	Name string
}

func (p *PlainVariable) Span() span.Span    { return p.Sp }
func (p *PlainVariable) valueAtom()         {}
func (p *PlainVariable) expr()              {}
func (p *PlainVariable) variableReference() {}

// MapVariable is "@obj[prop]", accessing one property of a map
// variable.
type MapVariable struct {
	Sp   span.Span
	Name string
	Prop string
}

func (m *MapVariable) Span() span.Span    { return m.Sp }
func (m *MapVariable) valueAtom()         {}
func (m *MapVariable) expr()              {}
func (m *MapVariable) variableReference() {}

// ColorLiteral is a hex color used as a value, e.g. "#fff".
type ColorLiteral struct {
	Sp   span.Span
	Text string // includes the leading '#'
}

func (c *ColorLiteral) Span() span.Span    { return c.Sp }
func (c *ColorLiteral) valueAtom()         {}
func (c *ColorLiteral) expr()              {}
func (c *ColorLiteral) variableReference() {}

// ParenthesizedExpression is "(expr)".
type ParenthesizedExpression struct {
	Sp    span.Span
	Inner Expression
}

func (p *ParenthesizedExpression) Span() span.Span { return p.Sp }
func (p *ParenthesizedExpression) valueAtom()      {}
func (p *ParenthesizedExpression) expr()           {}

// EscapedString is "~\"literal text\"": a string whose quotes are
// stripped verbatim into the output with no further interpretation.
type EscapedString struct {
	Sp   span.Span
	Text string
}

func (e *EscapedString) Span() span.Span { return e.Sp }
func (e *EscapedString) valueAtom()      {}
func (e *EscapedString) expr()           {}

// AtKeyword is the name of an at-rule or variable (e.g. "@media",
// "@color"), stored without its leading '@'.
type AtKeyword struct {
	Sp   span.Span
	Name string
}

func (a AtKeyword) Span() span.Span { return a.Sp }
