package parser

import (
	"fmt"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/lexer"
	"github.com/titpetric/lessfront/token"
)

// expectRaw consumes the lexer's very next token (no whitespace
// skipping) and errors if its kind does not match. Used inside
// selector parsing, which must see Whitespace tokens directly in
// order to fold them into descendant-combinator components.
func (p *Parser) expectRaw(kind token.Kind) (token.Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return token.Token{}, fmt.Errorf("parser: %w", err)
	}
	if tok.Kind != kind {
		return token.Token{}, &UnexpectedTokenError{Found: tok.Kind, Expected: []token.Kind{kind}, Pos: tok.Span.Start}
	}
	return tok, nil
}

func isSelectorTerminator(k token.Kind) bool {
	switch k {
	case token.LeftBrace, token.RightBrace, token.LeftParen, token.RightParen,
		token.Semicolon, token.Comma, token.EOF:
		return true
	}
	return false
}

// parseSelectorList parses a comma-separated SelectorList. It uses
// ModeSelector only at the terminator-lookahead point (is the next
// significant token a comma, meaning another component group
// follows), never inside the component-consumption loop itself, which
// needs to see raw Whitespace to recognize descendant combinators.
func (p *Parser) parseSelectorList() (ast.SelectorList, error) {
	var list ast.SelectorList
	for {
		comps, err := p.parseSelectorComponentList()
		if err != nil {
			return nil, err
		}
		list = append(list, comps)

		p.lex.SetMode(lexer.ModeSelector)
		tok, err := p.lex.Peek()
		p.lex.SetMode(lexer.ModeNormal)
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		if tok.Kind != token.Comma {
			break
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
	}
	return list, nil
}

// parseSelectorListUntilRightParen parses the comma-separated
// SelectorList inside a PseudoFunction's parameter list, e.g.
// ":not(.a, .b)".
func (p *Parser) parseSelectorListUntilRightParen() (ast.SelectorList, error) {
	var list ast.SelectorList
	for {
		comps, err := p.parseSelectorComponentList()
		if err != nil {
			return nil, err
		}
		list = append(list, comps)

		p.lex.SetMode(lexer.ModeSelector)
		tok, err := p.lex.Peek()
		p.lex.SetMode(lexer.ModeNormal)
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		if tok.Kind != token.Comma {
			break
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
	}
	return list, nil
}

// parseSelectorComponentList consumes selector components until a
// lookahead of one of '{ } ( ) ; ,' (or EOF). Whitespace before the
// first component (e.g. after a comma or '{') is dropped.
func (p *Parser) parseSelectorComponentList() (ast.SelectorComponentList, error) {
	var comps ast.SelectorComponentList
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		if isSelectorTerminator(tok.Kind) {
			break
		}
		if tok.Kind == token.Whitespace && len(comps) == 0 {
			if _, err := p.lex.Next(); err != nil {
				return nil, fmt.Errorf("parser: %w", err)
			}
			continue
		}
		comp, err := p.parseSelectorComponent()
		if err != nil {
			return nil, err
		}
		if comp != nil {
			comps = append(comps, comp)
		}
	}
	return comps, nil
}

func (p *Parser) parseSelectorComponent() (ast.Selector, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	switch tok.Kind {
	case token.Whitespace:
		return p.parseDescendantCombinator()
	case token.Ampersand:
		t, err := p.lex.Next()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		return &ast.ParentSelector{Sp: t.Span}, nil
	case token.Colon:
		return p.parsePseudoSelector()
	case token.Dot, token.Hash:
		return p.parsePrefixedSimpleSelector()
	case token.Identifier, token.Number:
		t, err := p.lex.Next()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		return &ast.SimpleSelector{Sp: t.Span, Text: t.Text(p.lex.Source())}, nil
	case token.GreaterThan, token.Plus, token.Tilde, token.Pipe, token.Caret:
		t, err := p.lex.Next()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		return &ast.SimpleSelector{Sp: t.Span, Text: t.Text(p.lex.Source())}, nil
	default:
		return nil, &UnexpectedTokenError{Found: tok.Kind, Pos: tok.Span.Start}
	}
}

// parseDescendantCombinator folds a run of plain Whitespace into a
// combinator SimpleSelector, unless it sits directly against a
// terminator, in which case it is insignificant trailing space and is
// dropped (nil, nil).
func (p *Parser) parseDescendantCombinator() (ast.Selector, error) {
	start, end := -1, -1
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		if tok.Kind != token.Whitespace {
			break
		}
		t, err := p.lex.Next()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		if start == -1 {
			start = t.Span.Start
		}
		end = t.Span.End
	}
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if isSelectorTerminator(tok.Kind) {
		return nil, nil
	}
	return &ast.SimpleSelector{Sp: spanFromRange(start, end), Text: " "}, nil
}

// parsePrefixedSimpleSelector parses a '.'/'#' prefix, optionally
// immediately followed (no whitespace) by an identifier or number,
// into one SimpleSelector, e.g. ".foo", "#bar1", or a bare ".".
// Whitespace before the prefix is skipped.
func (p *Parser) parsePrefixedSimpleSelector() (ast.Selector, error) {
	prefix, err := p.next()
	if err != nil {
		return nil, err
	}
	sp := prefix.Span
	text := prefix.Text(p.lex.Source())

	next, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if next.Kind == token.Identifier || next.Kind == token.Number {
		identTok, err := p.lex.Next()
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		sp = sp.Merge(identTok.Span)
		text += identTok.Text(p.lex.Source())
	}
	return &ast.SimpleSelector{Sp: sp, Text: text}, nil
}

// parsePseudoSelector parses ":name" or ":name(params)".
func (p *Parser) parsePseudoSelector() (ast.Selector, error) {
	colon, err := p.lex.Next()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	nameTok, err := p.lex.Next()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if nameTok.Kind != token.Identifier {
		return nil, &UnexpectedTokenError{Found: nameTok.Kind, Expected: []token.Kind{token.Identifier}, Pos: nameTok.Span.Start}
	}
	name := nameTok.Text(p.lex.Source())
	sp := colon.Span.Merge(nameTok.Span)

	next, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if next.Kind != token.LeftParen {
		return &ast.PseudoElement{Sp: sp, Name: name}, nil
	}
	if _, err := p.lex.Next(); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	params, err := p.parseSelectorListUntilRightParen()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expectRaw(token.RightParen)
	if err != nil {
		return nil, err
	}
	sp = sp.Merge(closeTok.Span)
	return &ast.PseudoFunction{Sp: sp, Name: name, Params: params}, nil
}

// parseParameterList parses a MixinDefinition's parameter list,
// accepting either ',' or ';' as the separator. Each default is a
// single ValueComponentList that stops at ',', ';' or ')', so a
// default never holds a comma-separated ValueList, whichever
// separator the list uses.
func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	var params []ast.Parameter
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.RightParen {
		return params, nil
	}
	for {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		sep, err := p.peek()
		if err != nil {
			return nil, err
		}
		if sep.Kind == token.Comma || sep.Kind == token.Semicolon {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseParameter() (ast.Parameter, error) {
	nameTok, err := p.expect(token.AtKeyword)
	if err != nil {
		return ast.Parameter{}, err
	}
	name := nameTok.Text(p.lex.Source())[1:]
	sp := nameTok.Span

	var def ast.ValueList
	tok, err := p.peek()
	if err != nil {
		return ast.Parameter{}, err
	}
	if tok.Kind == token.Colon {
		if _, err := p.next(); err != nil {
			return ast.Parameter{}, err
		}
		comp, err := p.parseValueComponentList([]token.Kind{token.Comma, token.Semicolon, token.RightParen})
		if err != nil {
			return ast.Parameter{}, err
		}
		def = ast.ValueList{comp}
		if len(comp) > 0 {
			sp = sp.Merge(comp[len(comp)-1].Span())
		}
	}
	return ast.Parameter{Sp: sp, Name: ast.AtKeyword{Sp: nameTok.Span, Name: name}, Default: def}, nil
}
