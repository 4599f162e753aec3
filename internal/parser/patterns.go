package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// parsePattern parses a pattern starting at curToken, including
// or-alternatives `A | B`.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.curToken
	first := p.parseAtPattern()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.PIPE) {
		return first
	}
	or := &ast.OrPattern{Token: start, Alternatives: []ast.Pattern{first}}
	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		alt := p.parseAtPattern()
		if alt == nil {
			return nil
		}
		or.Alternatives = append(or.Alternatives, alt)
	}
	or.Span = p.spanFrom(start)
	return or
}

func (p *Parser) parseAtPattern() ast.Pattern {
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.AT) {
		start := p.curToken
		p.nextToken()
		p.nextToken()
		inner := p.parsePrimaryPattern()
		if inner == nil {
			return nil
		}
		return &ast.AtPattern{Token: start, Span: start.Span.Merge(inner.GetSpan()), Name: start.Lexeme, Inner: inner}
	}
	return p.parsePrimaryPattern()
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	start := p.curToken
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseNamedPattern()

	case token.MUT:
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		return &ast.IdentifierPattern{Token: p.curToken, Span: p.spanFrom(start), Name: p.curToken.Lexeme, Mutable: true}

	case token.AMPERSAND:
		// &x matches like x
		p.nextToken()
		return p.parsePrimaryPattern()

	case token.LPAREN:
		return p.parseTuplePattern()

	case token.LBRACKET:
		return p.parseListPattern()

	case token.LBRACE:
		return p.parseStructPatternBody(start, "")

	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.BYTE,
		token.TRUE, token.FALSE, token.NULL, token.ATOM, token.MINUS:
		return p.parseLiteralOrRangePattern()

	case token.DOT_DOT:
		p.errorAt(diagnostics.ErrP003, p.curToken, "rest pattern is only allowed inside a list pattern")
		return nil
	}
	p.errorAt(diagnostics.ErrP002, p.curToken, "expected pattern, got %s", describe(p.curToken))
	return nil
}

// parseNamedPattern handles bindings, `_`, Ok/Err, variants and struct
// patterns, all of which start with an identifier.
func (p *Parser) parseNamedPattern() ast.Pattern {
	start := p.curToken
	name := start.Lexeme
	if name == "_" {
		return &ast.WildcardPattern{Token: start, Span: start.Span}
	}

	path := []string{name}
	for p.peekTokenIs(token.DOUBLE_COLON) {
		p.nextToken()
		if !memberName(p.peekToken) {
			p.peekError(token.IDENT)
			return nil
		}
		p.nextToken()
		path = append(path, p.curToken.Lexeme)
	}
	last := path[len(path)-1]

	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		args, ok := p.parsePatternList(token.RPAREN)
		if !ok {
			return nil
		}
		if len(path) == 1 && (name == "Ok" || name == "Err") {
			if len(args) != 1 {
				p.errorAt(diagnostics.ErrP003, start, "%s pattern takes exactly one argument", name)
				return nil
			}
			return &ast.ResultPattern{Token: start, Span: p.spanFrom(start), IsOk: name == "Ok", Inner: args[0]}
		}
		return &ast.VariantPattern{Token: start, Span: p.spanFrom(start), Path: path, Args: args}

	case p.peekTokenIs(token.LBRACE) && isCapitalized(last) && !p.noStructLiteral:
		p.nextToken()
		return p.parseStructPatternBody(start, last)

	case len(path) > 1 || isCapitalized(name):
		// Unit variants such as None or Color::Red.
		return &ast.VariantPattern{Token: start, Span: p.spanFrom(start), Path: path}
	}
	return &ast.IdentifierPattern{Token: start, Span: start.Span, Name: name}
}

// parsePatternList parses comma separated patterns up to closer; curToken
// is the opening bracket.
func (p *Parser) parsePatternList(closer token.TokenType) ([]ast.Pattern, bool) {
	elems, _, ok := p.parsePatternListTrailing(closer)
	return elems, ok
}

func (p *Parser) parsePatternListTrailing(closer token.TokenType) ([]ast.Pattern, bool, bool) {
	p.pushNL(false)
	defer p.popNL()
	prevStruct := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = prevStruct }()

	elems := []ast.Pattern{}
	trailing := false
	for !p.peekTokenIs(closer) {
		p.nextToken()
		var elem ast.Pattern
		if p.curTokenIs(token.DOT_DOT) {
			rest := &ast.RestPattern{Token: p.curToken, Span: p.curToken.Span}
			if p.peekTokenIs(token.IDENT) {
				p.nextToken()
				rest.Name = p.curToken.Lexeme
				rest.Span = p.spanFrom(rest.Token)
			}
			elem = rest
		} else if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.AT) && p.peekAt(0).Type == token.DOT_DOT {
			// name @ .. binds the rest like ..name
			tok := p.curToken
			p.nextToken()
			p.nextToken()
			elem = &ast.RestPattern{Token: tok, Span: p.spanFrom(tok), Name: tok.Lexeme}
		} else {
			elem = p.parsePattern()
			if elem == nil {
				return nil, false, false
			}
		}
		elems = append(elems, elem)
		trailing = false
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		trailing = true
	}
	if !p.expectPeek(closer) {
		return nil, false, false
	}
	return elems, trailing, true
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TuplePattern{Token: start, Span: p.spanFrom(start), Elements: []ast.Pattern{}}
	}
	elems, trailingComma, ok := p.parsePatternListTrailing(token.RPAREN)
	if !ok {
		return nil
	}
	for _, e := range elems {
		if _, isRest := e.(*ast.RestPattern); isRest {
			p.errorAt(diagnostics.ErrP003, e.GetToken(), "rest pattern is only allowed inside a list pattern")
			return nil
		}
	}
	if len(elems) == 1 && !trailingComma {
		return elems[0]
	}
	return &ast.TuplePattern{Token: start, Span: p.spanFrom(start), Elements: elems}
}

func (p *Parser) parseListPattern() ast.Pattern {
	start := p.curToken
	elems, ok := p.parsePatternList(token.RBRACKET)
	if !ok {
		return nil
	}
	rests := 0
	for _, e := range elems {
		if _, isRest := e.(*ast.RestPattern); isRest {
			rests++
			if rests > 1 {
				p.errorAt(diagnostics.ErrP004, e.GetToken(), "list pattern may contain at most one rest")
				return nil
			}
		}
	}
	return &ast.ListPattern{Token: start, Span: p.spanFrom(start), Elements: elems}
}

// parseStructPatternBody parses `{ a, b: p, .. }`; curToken is '{'. An
// empty name matches any object with the listed fields.
func (p *Parser) parseStructPatternBody(start token.Token, name string) ast.Pattern {
	p.pushNL(false)
	defer p.popNL()
	sp := &ast.StructPattern{Token: start, Name: name}
	seen := map[string]bool{}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if p.curTokenIs(token.DOT_DOT) {
			sp.HasRest = true
			if !p.peekTokenIs(token.RBRACE) {
				p.errorAt(diagnostics.ErrP003, p.peekToken, "'..' must be the last item in a struct pattern")
				return nil
			}
			break
		}
		mutable := false
		if p.curTokenIs(token.MUT) {
			mutable = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(diagnostics.ErrP002, p.curToken, "expected field name, got %s", describe(p.curToken))
			return nil
		}
		field := &ast.FieldPattern{Token: p.curToken, Name: p.curToken.Lexeme}
		if seen[field.Name] {
			p.errorAt(diagnostics.ErrP005, p.curToken, "field %q appears more than once in pattern", field.Name)
			return nil
		}
		seen[field.Name] = true
		if p.peekTokenIs(token.COLON) && !mutable {
			p.nextToken()
			p.nextToken()
			field.Pattern = p.parsePattern()
			if field.Pattern == nil {
				return nil
			}
		} else if mutable {
			field.Pattern = &ast.IdentifierPattern{Token: field.Token, Span: field.Token.Span, Name: field.Name, Mutable: true}
		}
		field.Span = p.spanFrom(field.Token)
		sp.Fields = append(sp.Fields, field)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	sp.Span = p.spanFrom(start)
	return sp
}

// patternLiteral parses a literal, folding a leading minus into numbers.
func (p *Parser) patternLiteral() ast.Expression {
	if p.curTokenIs(token.MINUS) {
		minus := p.curToken
		p.nextToken()
		switch p.curToken.Type {
		case token.INT:
			lit, _ := p.parseIntegerLiteral().(*ast.IntegerLiteral)
			if lit == nil {
				return nil
			}
			lit.Value = -lit.Value
			lit.Span = minus.Span.Merge(lit.Span)
			return lit
		case token.FLOAT:
			lit, _ := p.parseFloatLiteral().(*ast.FloatLiteral)
			if lit == nil {
				return nil
			}
			lit.Value = -lit.Value
			lit.Span = minus.Span.Merge(lit.Span)
			return lit
		}
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected number after '-', got %s", describe(p.curToken))
		return nil
	}
	switch p.curToken.Type {
	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.BYTE,
		token.TRUE, token.FALSE, token.NULL, token.ATOM:
		return p.prefixParseFns[p.curToken.Type]()
	}
	p.errorAt(diagnostics.ErrP002, p.curToken, "expected literal, got %s", describe(p.curToken))
	return nil
}

func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	start := p.curToken
	lo := p.patternLiteral()
	if lo == nil {
		return nil
	}
	if !p.peekTokenIs(token.DOT_DOT) && !p.peekTokenIs(token.DOT_DOT_EQ) {
		return &ast.LiteralPattern{Token: start, Span: lo.GetSpan(), Value: lo}
	}
	p.nextToken()
	rp := &ast.RangePattern{Token: start, Lo: lo, Inclusive: p.curTokenIs(token.DOT_DOT_EQ)}
	p.nextToken()
	rp.Hi = p.patternLiteral()
	if rp.Hi == nil {
		return nil
	}
	rp.Span = start.Span.Merge(rp.Hi.GetSpan())
	return rp
}
