package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Span: p.curToken.Span, Value: p.curToken.Lexeme}

	// x => x + 1
	if p.peekTokenIs(token.FAT_ARROW) && !p.noArrowLambda {
		params := []*ast.Parameter{{Token: ident.Token, Span: ident.Span, Name: ident.Value}}
		p.nextToken()
		return p.parseLambdaBody(ident.Token, params, false)
	}
	// println!(...) style macro calls are plain calls.
	if p.peekTokenIs(token.BANG) && p.peekToken.Span.Start == ident.Span.End && p.peekAt(0).Type == token.LPAREN {
		p.nextToken()
	}
	return ident
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(int64)
	return &ast.IntegerLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v, Suffix: p.curToken.Suffix}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(float64)
	return &ast.FloatLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(rune)
	return &ast.CharLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v}
}

func (p *Parser) parseByteLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(byte)
	return &ast.ByteLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v}
}

func (p *Parser) parseAtomLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(string)
	return &ast.AtomLiteral{Token: p.curToken, Span: p.curToken.Span, Name: v}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Span: p.curToken.Span, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken, Span: p.curToken.Span}
}

// parseInterpolatedString consumes FSTRING_START (TEXT | INTERP_START expr
// INTERP_END)* FSTRING_END.
func (p *Parser) parseInterpolatedString() ast.Expression {
	start := p.curToken
	str := &ast.InterpolatedString{Token: start}
	p.pushNL(false)
	defer p.popNL()
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.FSTRING_END:
			str.Span = p.spanFrom(start)
			return str
		case token.FSTRING_TEXT:
			v, _ := p.curToken.Literal.(string)
			str.Parts = append(str.Parts, &ast.StringLiteral{Token: p.curToken, Span: p.curToken.Span, Value: v})
		case token.INTERP_START:
			if p.peekTokenIs(token.INTERP_END) {
				p.errorAt(diagnostics.ErrP003, p.peekToken, "empty interpolation in f-string")
				return nil
			}
			p.nextToken()
			e := p.parseExpression(LOWEST)
			if e == nil {
				return nil
			}
			if !p.expectPeek(token.INTERP_END) {
				return nil
			}
			str.Parts = append(str.Parts, e)
		default:
			if !p.curTokenIs(token.ILLEGAL) {
				p.errorAt(diagnostics.ErrP002, p.curToken, "unterminated f-string")
			}
			return nil
		}
	}
}

// parseGroupedExpression handles (), (e), (a, b) and (a, b) => body.
func (p *Parser) parseGroupedExpression() ast.Expression {
	start := p.curToken
	p.pushNL(false)
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		p.popNL()
		if p.peekTokenIs(token.FAT_ARROW) && !p.noArrowLambda {
			p.nextToken()
			return p.parseLambdaBody(start, nil, false)
		}
		return &ast.UnitLiteral{Token: start, Span: p.spanFrom(start)}
	}

	var elements []ast.Expression
	trailingComma := false
	for {
		p.nextToken()
		saved := p.noStructLiteral
		p.noStructLiteral = false
		e := p.parseExpression(LOWEST)
		p.noStructLiteral = saved
		if e == nil {
			p.popNL()
			return nil
		}
		elements = append(elements, e)
		trailingComma = false
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		trailingComma = true
		if p.peekTokenIs(token.RPAREN) {
			break
		}
	}
	if !p.expectPeek(token.RPAREN) {
		p.popNL()
		return nil
	}
	p.popNL()

	if p.peekTokenIs(token.FAT_ARROW) && !p.noArrowLambda {
		params := make([]*ast.Parameter, 0, len(elements))
		for _, e := range elements {
			id, ok := e.(*ast.Identifier)
			if !ok {
				p.errorAt(diagnostics.ErrP003, e.GetToken(), "lambda parameters must be identifiers")
				return nil
			}
			params = append(params, &ast.Parameter{Token: id.Token, Span: id.Span, Name: id.Value})
		}
		p.nextToken()
		return p.parseLambdaBody(start, params, false)
	}

	if len(elements) == 1 && !trailingComma {
		return elements[0]
	}
	return &ast.TupleLiteral{Token: start, Span: p.spanFrom(start), Elements: elements}
}

// parseListLiteral handles [a, b], [] and [expr for x in xs if c].
func (p *Parser) parseListLiteral() ast.Expression {
	start := p.curToken
	p.pushNL(false)
	defer p.popNL()
	list := &ast.ListLiteral{Token: start}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		list.Span = p.spanFrom(start)
		return list
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.FOR) {
		return p.parseComprehension(start, ast.ListComprehension, nil, first, token.RBRACKET)
	}
	list.Elements = append(list.Elements, first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		e := p.parseExpression(LOWEST)
		if e == nil {
			return nil
		}
		list.Elements = append(list.Elements, e)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	list.Span = p.spanFrom(start)
	return list
}

// parseComprehension parses the `for ... in ... if ...` clauses; curToken
// is the last token of the element expression.
func (p *Parser) parseComprehension(start token.Token, kind ast.ComprehensionKind, key, elem ast.Expression, closer token.TokenType) ast.Expression {
	comp := &ast.ComprehensionExpression{Token: start, Kind: kind, Key: key, Element: elem}
	for p.peekTokenIs(token.FOR) {
		p.nextToken()
		clause := &ast.CompClause{Token: p.curToken}
		p.nextToken()
		clause.Pattern = p.parsePattern()
		if clause.Pattern == nil {
			return nil
		}
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		clause.Iterable = p.parseExpression(LOWEST)
		if clause.Iterable == nil {
			return nil
		}
		for p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			cond := p.parseExpression(LOWEST)
			if cond == nil {
				return nil
			}
			clause.Conditions = append(clause.Conditions, cond)
		}
		clause.Span = p.spanFrom(clause.Token)
		comp.Clauses = append(comp.Clauses, clause)
	}
	if !p.expectPeek(closer) {
		return nil
	}
	comp.Span = p.spanFrom(start)
	return comp
}

// parseBraceExpression disambiguates `{`: an object literal when it opens
// with `key:`, a set or dict comprehension when the first expression is
// followed by `for` or `:`, and a block otherwise.
func (p *Parser) parseBraceExpression() ast.Expression {
	next, after := p.peekToken, p.peekAt(0)
	if (next.Type == token.IDENT || next.Type == token.STRING) && after.Type == token.COLON {
		return p.parseObjectLiteral()
	}
	if next.Type == token.RBRACE {
		return p.parseBlockExpression()
	}

	start := p.curToken
	block := &ast.BlockExpression{Token: start}
	p.pushNL(true)
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		p.popNL()
		return nil
	}
	if p.peekTokenIs(token.FOR) {
		p.popNL()
		p.pushNL(false)
		defer p.popNL()
		return p.parseComprehension(start, ast.SetComprehension, nil, first, token.RBRACE)
	}
	if p.peekTokenIs(token.COLON) {
		p.popNL()
		p.pushNL(false)
		defer p.popNL()
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if !p.peekTokenIs(token.FOR) {
			p.peekError(token.FOR)
			return nil
		}
		return p.parseComprehension(start, ast.DictComprehension, first, value, token.RBRACE)
	}
	block.Expressions = append(block.Expressions, first)
	defer p.popNL()
	if !p.finishBlockForm() {
		return nil
	}
	return p.parseBlockRest(block)
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	start := p.curToken
	p.pushNL(false)
	defer p.popNL()
	obj := &ast.ObjectLiteral{Token: start}
	seen := map[string]bool{}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.STRING) {
			p.errorAt(diagnostics.ErrP002, p.curToken, "expected field name, got %s", describe(p.curToken))
			return nil
		}
		field := &ast.ObjectField{Token: p.curToken, Key: p.curToken.Lexeme}
		if p.curTokenIs(token.STRING) {
			field.Key, _ = p.curToken.Literal.(string)
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if field.Value == nil {
			return nil
		}
		field.Span = p.spanFrom(field.Token)

		// {k: v for k in ...}
		if len(obj.Fields) == 0 && p.peekTokenIs(token.FOR) {
			var key ast.Expression = &ast.StringLiteral{Token: field.Token, Span: field.Token.Span, Value: field.Key}
			if field.Token.Type == token.IDENT {
				key = &ast.Identifier{Token: field.Token, Span: field.Token.Span, Value: field.Key}
			}
			return p.parseComprehension(start, ast.DictComprehension, key, field.Value, token.RBRACE)
		}
		if seen[field.Key] {
			p.errorAt(diagnostics.ErrP003, field.Token, "duplicate field %q in object literal", field.Key)
		}
		seen[field.Key] = true
		obj.Fields = append(obj.Fields, field)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	obj.Span = p.spanFrom(start)
	return obj
}

// parseStructLiteral parses Name { a: 1, b, ..base }; curToken is '{'.
func (p *Parser) parseStructLiteral(left ast.Expression) ast.Expression {
	lit := &ast.StructLiteral{Token: left.GetToken()}
	switch l := left.(type) {
	case *ast.Identifier:
		lit.Name = l.Value
	case *ast.PathExpression:
		lit.Name = l.Segments[len(l.Segments)-1]
	}
	p.pushNL(false)
	defer p.popNL()
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if p.curTokenIs(token.DOT_DOT) {
			p.nextToken()
			lit.Base = p.parseExpression(LOWEST)
			if lit.Base == nil {
				return nil
			}
			break
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(diagnostics.ErrP002, p.curToken, "expected field name, got %s", describe(p.curToken))
			return nil
		}
		field := &ast.ObjectField{Token: p.curToken, Key: p.curToken.Lexeme}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			field.Value = p.parseExpression(LOWEST)
			if field.Value == nil {
				return nil
			}
		} else {
			field.Value = &ast.Identifier{Token: p.curToken, Span: p.curToken.Span, Value: p.curToken.Lexeme}
		}
		field.Span = p.spanFrom(field.Token)
		lit.Fields = append(lit.Fields, field)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	lit.Span = left.GetSpan().Merge(p.curToken.Span)
	return lit
}

// parseBlockExpression parses `{ e1; e2 \n e3 }`; curToken is '{'.
func (p *Parser) parseBlockExpression() *ast.BlockExpression {
	block := &ast.BlockExpression{Token: p.curToken}
	if !p.curTokenIs(token.LBRACE) {
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected '{', got %s", describe(p.curToken))
		return nil
	}
	p.pushNL(true)
	defer p.popNL()
	return p.parseBlockRest(block)
}

// parseBlockRest parses forms until the closing brace. curToken is the
// opening brace or the separator after the last parsed form.
func (p *Parser) parseBlockRest(block *ast.BlockExpression) *ast.BlockExpression {
	failed := false
	for {
		for p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
			return nil
		}
		p.nextToken()
		before := p.curToken
		e := p.parseExpression(LOWEST)
		if e == nil {
			failed = true
			if p.curToken == before && !p.curTokenIs(token.RBRACE) {
				p.nextToken()
			}
			p.skipToStatementBoundary(true)
			if p.curTokenIs(token.RBRACE) {
				break
			}
			if p.curTokenIs(token.EOF) {
				return nil
			}
			// skipToStatementBoundary leaves curToken on the next form;
			// step back is impossible, so parse it here.
			if e2 := p.parseExpression(LOWEST); e2 != nil {
				block.Expressions = append(block.Expressions, e2)
				if !p.finishBlockForm() {
					return nil
				}
			}
			continue
		}
		block.Expressions = append(block.Expressions, e)
		if !p.finishBlockForm() {
			return nil
		}
	}
	if failed {
		return nil
	}
	block.Span = p.spanFrom(block.Token)
	return block
}

// finishBlockForm checks that the form just parsed is followed by a
// separator or the closing brace.
func (p *Parser) finishBlockForm() bool {
	switch {
	case p.peekTokenIs(token.SEMICOLON), p.peekTokenIs(token.RBRACE), p.peekToken.NewlineBefore:
		return true
	}
	p.errorAt(diagnostics.ErrP001, p.peekToken, "expected ';' or newline, got %s", describe(p.peekToken))
	return false
}
