// Package parser implements a hand-written recursive-descent parser
// that consumes a lexer.Lexer directly and builds a typed ast.Stylesheet.
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/lexer"
	"github.com/titpetric/lessfront/span"
	"github.com/titpetric/lessfront/token"
)

// Parser builds an ast.Stylesheet from Less source text, driving a
// lexer.Lexer one token at a time and using its checkpoint/restore
// support to resolve the grammar's few ambiguous productions.
type Parser struct {
	lex *lexer.Lexer
	log *slog.Logger
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithDebugLog attaches a logger used to trace grammar decisions.
// Pass nil (the default) to disable tracing entirely.
func WithDebugLog(logger *slog.Logger) Option {
	return func(p *Parser) { p.log = logger }
}

// New returns a Parser over source.
func New(source string, opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	lexOpts := []lexer.Option(nil)
	if p.log != nil {
		lexOpts = append(lexOpts, lexer.WithDebugLog(p.log))
	}
	p.lex = lexer.New(source, lexOpts...)
	return p
}

// Parse consumes the entire source and returns the resulting
// Stylesheet, or the first error encountered.
func (p *Parser) Parse() (*ast.Stylesheet, error) {
	var items []ast.TopItem
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			break
		}
		item, err := p.parseTopItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ast.Stylesheet{Sp: span.New(0, len(p.lex.Source())), Items: items}, nil
}

// next consumes and returns the next non-whitespace token, wrapping
// any lexer error so errors.As still reaches the underlying type.
func (p *Parser) next() (token.Token, error) {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return token.Token{}, fmt.Errorf("parser: %w", err)
		}
		if tok.Kind != token.Whitespace {
			if p.log != nil {
				p.log.Debug("parser: consume", "kind", tok.Kind.String())
			}
			return tok, nil
		}
	}
}

// peekNth looks ahead to the (n+1)th non-whitespace token without
// consuming anything.
func (p *Parser) peekNth(n int) (token.Token, error) {
	idx := 0
	count := -1
	for {
		tok, err := p.lex.PeekNth(idx)
		if err != nil {
			return token.Token{}, fmt.Errorf("parser: %w", err)
		}
		if tok.Kind != token.Whitespace {
			count++
			if count == n {
				return tok, nil
			}
		}
		idx++
	}
}

func (p *Parser) peek() (token.Token, error) {
	return p.peekNth(0)
}

// expect consumes the next non-whitespace token and errors if its
// kind does not match.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Kind != kind {
		return token.Token{}, &UnexpectedTokenError{Found: tok.Kind, Expected: []token.Kind{kind}, Pos: tok.Span.Start}
	}
	return tok, nil
}

// parseTopItem dispatches a single top-level construct: an at-keyword
// led item (AtRule or a DefinedStatement) or a selector-led one
// (MixinDefinition or QualifiedRule).
func (p *Parser) parseTopItem() (ast.TopItem, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	var n ast.Node
	if tok.Kind == token.AtKeyword {
		n, err = p.parseAtKeywordConstruct()
	} else {
		n, err = p.parseSelectorLedConstruct()
	}
	if err != nil {
		return nil, err
	}
	return n.(ast.TopItem), nil
}

// parseBlockItem dispatches a single construct inside a CurlyBlock,
// mirroring the top-level dispatch: an AtKeyword leads to an AtRule or
// DefinedStatement, '.'/'#' lead to the mixin-definition/mixin-call
// ambiguities, a bare Identifier leads to the declaration-vs.-nested-
// qualified-rule ambiguity, and anything else that can begin a
// selector ('&', ':', a bare Number, or a combinator token) can't
// start a declaration or a mixin name, so it goes straight to
// QualifiedRule.
func (p *Parser) parseBlockItem() (ast.BlockItem, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.AtKeyword:
		n, err := p.parseAtKeywordConstruct()
		if err != nil {
			return nil, err
		}
		return n.(ast.BlockItem), nil
	case token.Dot, token.Hash:
		return p.parseDotHashBlockItem()
	case token.Identifier:
		return p.parseIdentifierLedBlockItem()
	default:
		n, err := p.parseQualifiedRule()
		if err != nil {
			return nil, err
		}
		return n.(ast.BlockItem), nil
	}
}

// parseIdentifierLedBlockItem resolves ambiguity #3: a bare Identifier
// leads either a Declaration ("color: red;") or a nested QualifiedRule
// ("div { ... }"). It speculatively attempts a DeclarationList, and on
// failure restores and falls back to a nested QualifiedRule with the
// identifier parsed as a bare-tag SimpleSelector.
func (p *Parser) parseIdentifierLedBlockItem() (ast.BlockItem, error) {
	p.lex.Checkpoint()
	if decl, err := p.parseDeclarationList(); err == nil {
		p.lex.Commit()
		return decl, nil
	}
	p.lex.Restore()

	n, err := p.parseQualifiedRule()
	if err != nil {
		return nil, err
	}
	return n.(ast.BlockItem), nil
}

// parseAtKeywordConstruct parses whichever of AtRule,
// VariableDefinition, or MapVariableDefinition begins at an AtKeyword
// token — all three implement both ast.TopItem and ast.BlockItem, so
// callers assert to whichever interface their context needs.
func (p *Parser) parseAtKeywordConstruct() (ast.Node, error) {
	atTok, err := p.next()
	if err != nil {
		return nil, err
	}
	name := atTok.Text(p.lex.Source())[1:]

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.Colon {
		return p.parseAtRule(atTok, name)
	}
	if _, err := p.next(); err != nil {
		return nil, err
	}

	tok2, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok2.Kind == token.LeftBrace {
		return p.parseMapVariableDefinition(atTok, name)
	}
	return p.parseVariableDefinition(atTok, name)
}

func (p *Parser) parseVariableDefinition(atTok token.Token, name string) (*ast.VariableDefinition, error) {
	value, err := p.parseValueList(token.Semicolon)
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	sp := atTok.Span.Merge(semi.Span)
	return &ast.VariableDefinition{
		Sp:    sp,
		Name:  ast.AtKeyword{Sp: atTok.Span, Name: name},
		Value: value,
	}, nil
}

func (p *Parser) parseMapVariableDefinition(atTok token.Token, name string) (*ast.MapVariableDefinition, error) {
	if _, err := p.expect(token.LeftBrace); err != nil {
		return nil, err
	}
	decls, err := p.parseDeclarationsUntilRightBrace()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightBrace); err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	sp := atTok.Span.Merge(semi.Span)
	return &ast.MapVariableDefinition{
		Sp:    sp,
		Name:  ast.AtKeyword{Sp: atTok.Span, Name: name},
		Props: decls,
	}, nil
}

func (p *Parser) parseAtRule(atTok token.Token, name string) (*ast.AtRule, error) {
	prelude, err := p.parsePrelude(token.Semicolon, token.LeftBrace)
	if err != nil {
		return nil, annotateAtRuleError(err, name)
	}

	tok, err := p.peek()
	if err != nil {
		return nil, annotateAtRuleError(err, name)
	}

	var body *ast.CurlyBlock
	var endSpan span.Span
	if tok.Kind == token.LeftBrace {
		body, err = p.parseCurlyBlock()
		if err != nil {
			return nil, annotateAtRuleError(err, name)
		}
		endSpan = body.Sp
	} else {
		semi, err := p.expect(token.Semicolon)
		if err != nil {
			return nil, annotateAtRuleError(err, name)
		}
		endSpan = semi.Span
	}

	sp := atTok.Span.Merge(endSpan)
	return &ast.AtRule{
		Sp:      sp,
		Name:    ast.AtKeyword{Sp: atTok.Span, Name: name},
		Prelude: prelude,
		Body:    body,
	}, nil
}

func annotateAtRuleError(err error, name string) error {
	var tokErr *UnexpectedTokenError
	if errors.As(err, &tokErr) {
		tokErr.AtRule = name
	}
	return err
}

// parseSelectorLedConstruct resolves ambiguity #1 (mixin definition
// vs. qualified rule) at the top level, where a mixin call statement
// cannot appear.
func (p *Parser) parseSelectorLedConstruct() (ast.Node, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if tok.Kind == token.Dot || tok.Kind == token.Hash {
		p.lex.Checkpoint()
		if def, err := p.tryParseMixinDefinition(); err == nil {
			p.lex.Commit()
			return def, nil
		}
		p.lex.Restore()
	}
	return p.parseQualifiedRule()
}

// parseDotHashBlockItem resolves ambiguities #1 and #2 (mixin
// definition, then mixin call, then qualified rule) for a block item
// starting with '.' or '#'.
func (p *Parser) parseDotHashBlockItem() (ast.BlockItem, error) {
	p.lex.Checkpoint()
	if def, err := p.tryParseMixinDefinition(); err == nil {
		p.lex.Commit()
		return def, nil
	}
	p.lex.Restore()

	p.lex.Checkpoint()
	if call, err := p.tryParseMixinCallStatement(); err == nil {
		p.lex.Commit()
		return call, nil
	}
	p.lex.Restore()

	return p.parseQualifiedRule()
}

func (p *Parser) tryParseMixinDefinition() (*ast.MixinDefinition, error) {
	nameSel, err := p.parsePrefixedSimpleSelector()
	if err != nil {
		return nil, err
	}
	simple, ok := nameSel.(*ast.SimpleSelector)
	if !ok {
		return nil, &UnexpectedTokenError{Pos: nameSel.Span().Start}
	}

	if _, err := p.expectRaw(token.LeftParen); err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectRaw(token.RightParen); err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.LeftBrace {
		return nil, &UnexpectedTokenError{Found: tok.Kind, Expected: []token.Kind{token.LeftBrace}, Pos: tok.Span.Start}
	}
	body, err := p.parseCurlyBlock()
	if err != nil {
		return nil, err
	}

	sp := simple.Sp.Merge(body.Sp)
	return &ast.MixinDefinition{Sp: sp, Name: simple, Parameters: params, Body: body}, nil
}

func (p *Parser) tryParseMixinCallStatement() (*ast.MixinCall, error) {
	call, err := p.tryParseMixinCallValue()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	call.Sp = call.Sp.Merge(semi.Span)
	return call, nil
}

func (p *Parser) parseQualifiedRule() (ast.Node, error) {
	startTok, err := p.lex.Peek()
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	prelude, err := p.parseSelectorList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseCurlyBlock()
	if err != nil {
		return nil, err
	}
	sp := span.New(startTok.Span.Start, body.Sp.End)
	return &ast.QualifiedRule{Sp: sp, Prelude: prelude, Body: body}, nil
}

func (p *Parser) parseCurlyBlock() (*ast.CurlyBlock, error) {
	open, err := p.expect(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	var items []ast.BlockItem
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.RightBrace {
			break
		}
		if tok.Kind == token.EOF {
			return nil, &UnexpectedTokenError{Found: token.EOF, Expected: []token.Kind{token.RightBrace}, Pos: tok.Span.Start}
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	closeTok, err := p.expect(token.RightBrace)
	if err != nil {
		return nil, err
	}
	return &ast.CurlyBlock{Sp: open.Span.Merge(closeTok.Span), Items: items}, nil
}

func (p *Parser) parseDeclarationList() (*ast.DeclarationList, error) {
	decl, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}
	sp := decl.Sp
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Semicolon {
		semi, err := p.next()
		if err != nil {
			return nil, err
		}
		sp = sp.Merge(semi.Span)
	}
	return &ast.DeclarationList{Sp: sp, Decls: []ast.Declaration{decl}}, nil
}

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return ast.Declaration{}, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return ast.Declaration{}, err
	}
	value, err := p.parseValueList(token.Semicolon, token.RightBrace)
	if err != nil {
		return ast.Declaration{}, err
	}
	sp := nameTok.Span
	if last := lastAtomSpan(value); last != nil {
		sp = sp.Merge(*last)
	}
	return ast.Declaration{Sp: sp, Name: nameTok.Text(p.lex.Source()), Value: value}, nil
}

func (p *Parser) parseDeclarationsUntilRightBrace() ([]ast.Declaration, error) {
	var decls []ast.Declaration
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.RightBrace {
			break
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		tok2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok2.Kind == token.Semicolon {
			if _, err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	return decls, nil
}

func lastAtomSpan(list ast.ValueList) *span.Span {
	if len(list) == 0 {
		return nil
	}
	last := list[len(list)-1]
	if len(last) == 0 {
		return nil
	}
	sp := last[len(last)-1].Span()
	return &sp
}
