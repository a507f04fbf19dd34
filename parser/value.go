package parser

import (
	"fmt"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/lexer"
	"github.com/titpetric/lessfront/span"
	"github.com/titpetric/lessfront/token"
)

func spanFromRange(start, end int) span.Span {
	if start == -1 {
		return span.Span{}
	}
	return span.New(start, end)
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// parsePrelude parses an optional ValueList, returning nil immediately
// when the next token already is one of terminators (an at-rule with
// no prelude at all, e.g. a bare "@else {").
func (p *Parser) parsePrelude(terminators ...token.Kind) (ast.ValueList, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if containsKind(terminators, tok.Kind) {
		return nil, nil
	}
	return p.parseValueList(terminators...)
}

// parseValueList parses a comma-separated ValueList, stopping each
// component group at a comma or any of terminators.
func (p *Parser) parseValueList(terminators ...token.Kind) (ast.ValueList, error) {
	groupTerms := append([]token.Kind{token.Comma}, terminators...)

	var list ast.ValueList
	comp, err := p.parseValueComponentList(groupTerms)
	if err != nil {
		return nil, err
	}
	list = append(list, comp)

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Comma {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		comp, err := p.parseValueComponentList(groupTerms)
		if err != nil {
			return nil, err
		}
		list = append(list, comp)
	}
	return list, nil
}

// parseValueComponentList parses one space-separated run of
// ValueAtoms, stopping at the first token whose kind is in
// terminators. Callers decide whether a comma should stop this list
// (pass token.Comma) or chain into another group (parseValueList).
func (p *Parser) parseValueComponentList(terminators []token.Kind) (ast.ValueComponentList, error) {
	var atoms ast.ValueComponentList
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if containsKind(terminators, tok.Kind) {
			break
		}
		atom, err := p.parseValueAtom()
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

// parseValueAtom dispatches a single ValueAtom per the value-atom
// dispatch table: '!'+identifier, identifier(+call), '.'/'#'
// (mixin call or preserved), at-keyword (variable expression),
// string, '~'+string, number (plain or arithmetic), '(' (parenthesized
// expression), else an opaque PreservedToken.
func (p *Parser) parseValueAtom() (ast.ValueAtom, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Bang:
		return p.parseImportantMarker()
	case token.Identifier:
		return p.parseIdentifierOrFunctionCall()
	case token.Dot:
		return p.parseDotValueAtom()
	case token.Hash:
		return p.parseHashValueAtom()
	case token.AtKeyword:
		return p.parseAtKeywordValueAtom()
	case token.String:
		return p.parsePreservedToken()
	case token.Tilde:
		return p.parseEscapedStringExpr()
	case token.Number:
		return p.parseNumberValueAtom()
	case token.LeftParen:
		return p.parseParenthesizedValueAtom()
	default:
		return p.parsePreservedToken()
	}
}

func (p *Parser) parseImportantMarker() (*ast.ImportantMarker, error) {
	bang, err := p.next()
	if err != nil {
		return nil, err
	}
	ident, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	return &ast.ImportantMarker{Sp: bang.Span.Merge(ident.Span), Name: ident.Text(p.lex.Source())}, nil
}

func (p *Parser) parsePreservedToken() (*ast.PreservedToken, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return &ast.PreservedToken{Sp: tok.Span, Text: tok.Text(p.lex.Source())}, nil
}

// parseIdentifierOrFunctionCall implements "Identifier + immediate
// '(' -> speculative FunctionExpression, else bare Identifier".
func (p *Parser) parseIdentifierOrFunctionCall() (ast.ValueAtom, error) {
	identTok, err := p.next()
	if err != nil {
		return nil, err
	}
	name := identTok.Text(p.lex.Source())

	nextTok, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if nextTok.Kind != token.LeftParen {
		return &ast.Identifier{Sp: identTok.Span, Name: name}, nil
	}

	p.lex.Checkpoint()
	fn, err := p.tryParseFunctionCall(identTok, name)
	if err != nil {
		p.lex.Restore()
		return &ast.Identifier{Sp: identTok.Span, Name: name}, nil
	}
	p.lex.Commit()
	return fn, nil
}

func (p *Parser) tryParseFunctionCall(identTok token.Token, name string) (*ast.FunctionExpression, error) {
	if _, err := p.expect(token.LeftParen); err != nil {
		return nil, err
	}
	var args ast.ValueList
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.RightParen {
		args, err = p.parseValueList(token.RightParen)
		if err != nil {
			return nil, err
		}
	}
	closeTok, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{Sp: identTok.Span.Merge(closeTok.Span), Name: name, Arguments: args}, nil
}

// parseDotValueAtom implements the '.' branch: speculative MixinCall,
// else a raw PreservedToken.
func (p *Parser) parseDotValueAtom() (ast.ValueAtom, error) {
	p.lex.Checkpoint()
	if call, err := p.tryParseMixinCallValue(); err == nil {
		p.lex.Commit()
		return call, nil
	}
	p.lex.Restore()
	return p.parsePreservedToken()
}

// parseHashValueAtom implements the '#' branch: speculative MixinCall
// first (an id-based mixin namespace), then speculative ColorLiteral,
// else a raw PreservedToken.
func (p *Parser) parseHashValueAtom() (ast.ValueAtom, error) {
	p.lex.Checkpoint()
	if call, err := p.tryParseMixinCallValue(); err == nil {
		p.lex.Commit()
		return call, nil
	}
	p.lex.Restore()

	p.lex.Checkpoint()
	if color, err := p.parseColorLiteral(); err == nil {
		p.lex.Commit()
		return color, nil
	}
	p.lex.Restore()

	return p.parsePreservedToken()
}

// tryParseMixinCallValue parses a SelectorComponentList name
// immediately followed by a parenthesized (possibly empty) argument
// list. Arguments is always non-nil once the parens are seen — nil
// is reserved for a mixin call written without any parens, which
// this production never produces.
func (p *Parser) tryParseMixinCallValue() (*ast.MixinCall, error) {
	nameComponents, err := p.parseSelectorComponentList()
	if err != nil {
		return nil, err
	}
	if len(nameComponents) == 0 {
		tok, _ := p.lex.Peek()
		return nil, &UnexpectedTokenError{Found: tok.Kind, Pos: tok.Span.Start}
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.LeftParen {
		return nil, &UnexpectedTokenError{Found: tok.Kind, Expected: []token.Kind{token.LeftParen}, Pos: tok.Span.Start}
	}
	if _, err := p.next(); err != nil {
		return nil, err
	}

	args := ast.ValueList{}
	tok2, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok2.Kind != token.RightParen {
		args, err = p.parseValueList(token.RightParen)
		if err != nil {
			return nil, err
		}
	}
	closeTok, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}

	sp := nameComponents[0].Span().Merge(closeTok.Span)
	return &ast.MixinCall{Sp: sp, Name: nameComponents, Arguments: &args}, nil
}

// parseAtKeywordValueAtom implements the AtKeyword branch: a
// speculative arithmetic Expression rooted at a VariableReference,
// kept even when it reduces to the bare reference with no operator.
func (p *Parser) parseAtKeywordValueAtom() (ast.ValueAtom, error) {
	p.lex.Checkpoint()
	expr, err := p.parseExpression()
	if err != nil {
		p.lex.Restore()
		return p.parsePreservedToken()
	}
	p.lex.Commit()
	return expr, nil
}

// parseNumberValueAtom implements the Number branch: a speculative
// arithmetic Expression, kept only when an operator chain is actually
// present; otherwise a bare NumberLiteral ValueAtom.
func (p *Parser) parseNumberValueAtom() (ast.ValueAtom, error) {
	p.lex.Checkpoint()
	expr, err := p.parseExpression()
	if err == nil {
		if bin, ok := expr.(*ast.BinaryExpression); ok {
			p.lex.Commit()
			return bin, nil
		}
	}
	p.lex.Restore()

	numTok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.finishNumberLiteral(numTok), nil
}

// parseParenthesizedValueAtom implements the '(' branch: a
// speculative ParenthesizedExpression, else a raw PreservedToken.
func (p *Parser) parseParenthesizedValueAtom() (ast.ValueAtom, error) {
	p.lex.Checkpoint()
	expr, err := p.parseParenthesizedExpression()
	if err != nil {
		p.lex.Restore()
		return p.parsePreservedToken()
	}
	p.lex.Commit()
	return expr, nil
}

// parseExpression is the entry point for precedence-climbing binary
// expression parsing: '*' and '/' bind tighter than '+' and '-', all
// four are left-associative.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAddSub()
}

func (p *Parser) parseAddSub() (ast.Expression, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch tok.Kind {
		case token.Plus:
			op = ast.OpAdd
		case token.Minus:
			op = ast.OpSub
		default:
			return left, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Sp: left.Span().Merge(right.Span()), Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseMulDiv() (ast.Expression, error) {
	left, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch tok.Kind {
		case token.Asterisk:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		default:
			return left, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Sp: left.Span().Merge(right.Span()), Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parsePrimaryExpression() (ast.Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Number:
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		return p.finishNumberLiteral(t), nil
	case token.AtKeyword:
		return p.parseVariableReference()
	case token.Hash:
		return p.parseColorLiteral()
	case token.LeftParen:
		return p.parseParenthesizedExpression()
	case token.Tilde:
		return p.parseEscapedStringExpr()
	case token.Dot:
		return p.tryParseMixinCallValue()
	case token.Identifier:
		atom, err := p.parseIdentifierOrFunctionCall()
		if err != nil {
			return nil, err
		}
		expr, ok := atom.(ast.Expression)
		if !ok {
			return nil, &UnexpectedTokenError{Found: tok.Kind, Pos: tok.Span.Start}
		}
		return expr, nil
	default:
		return nil, &UnexpectedTokenError{Found: tok.Kind, Pos: tok.Span.Start}
	}
}

// finishNumberLiteral absorbs an immediately adjacent (no whitespace)
// '%' or identifier as the number's unit.
func (p *Parser) finishNumberLiteral(numTok token.Token) *ast.NumberLiteral {
	sp := numTok.Span
	text := numTok.Text(p.lex.Source())
	unit := ""

	next, err := p.lex.Peek()
	if err == nil && (next.Kind == token.Percent || next.Kind == token.Identifier) {
		if unitTok, err2 := p.lex.Next(); err2 == nil {
			unit = unitTok.Text(p.lex.Source())
			sp = sp.Merge(unitTok.Span)
		}
	}
	return &ast.NumberLiteral{Sp: sp, Text: text, Unit: unit}
}

func (p *Parser) parseVariableReference() (ast.Expression, error) {
	atTok, err := p.next()
	if err != nil {
		return nil, err
	}
	name := atTok.Text(p.lex.Source())[1:]
	sp := atTok.Span

	next, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if next.Kind != token.LeftBracket {
		return &ast.PlainVariable{Sp: sp, Name: name}, nil
	}

	if _, err := p.lex.Next(); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	propTok, err := p.lex.Next()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if propTok.Kind != token.Identifier {
		return nil, &UnexpectedTokenError{Found: propTok.Kind, Expected: []token.Kind{token.Identifier}, Pos: propTok.Span.Start}
	}
	closeTok, err := p.expectRaw(token.RightBracket)
	if err != nil {
		return nil, err
	}
	sp = sp.Merge(closeTok.Span)
	return &ast.MapVariable{Sp: sp, Name: name, Prop: propTok.Text(p.lex.Source())}, nil
}

// parseColorLiteral parses '#' then switches the lexer to ModeColor
// for exactly the hex run that follows.
func (p *Parser) parseColorLiteral() (ast.Expression, error) {
	hashTok, err := p.next()
	if err != nil {
		return nil, err
	}
	p.lex.SetMode(lexer.ModeColor)
	colorTok, err := p.lex.Next()
	p.lex.SetMode(lexer.ModeNormal)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if colorTok.Kind != token.Color {
		return nil, &UnexpectedTokenError{Found: colorTok.Kind, Expected: []token.Kind{token.Color}, Pos: colorTok.Span.Start}
	}
	sp := hashTok.Span.Merge(colorTok.Span)
	return &ast.ColorLiteral{Sp: sp, Text: "#" + colorTok.Text(p.lex.Source())}, nil
}

func (p *Parser) parseParenthesizedExpression() (ast.Expression, error) {
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}
	return &ast.ParenthesizedExpression{Sp: open.Span.Merge(closeTok.Span), Inner: inner}, nil
}

func (p *Parser) parseEscapedStringExpr() (ast.Expression, error) {
	tilde, err := p.next()
	if err != nil {
		return nil, err
	}
	strTok, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	return &ast.EscapedString{Sp: tilde.Span.Merge(strTok.Span), Text: strTok.Text(p.lex.Source())}, nil
}
