package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.errorAt(diagnostics.ErrP003, p.curToken, "expression too complex: recursion depth limit exceeded")
			p.inRecursionRecovery = true
		}
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for {
		if p.peekEndsExpression() {
			break
		}
		if p.peekTokenIs(token.LBRACE) {
			if precedence < CALL && p.structLiteralAllowed(leftExp) {
				p.nextToken()
				leftExp = p.parseStructLiteral(leftExp)
				if leftExp == nil {
					return nil
				}
				continue
			}
			break
		}
		// `f (x)` across a line break was handled above; a call must
		// start on the callee's line even inside parentheses.
		if (p.peekTokenIs(token.LPAREN) || p.peekTokenIs(token.LBRACKET)) && p.peekToken.NewlineBefore {
			break
		}
		// x..y is non-associative.
		if isRangeToken(p.peekToken.Type) && precedence == RANGE {
			p.errorAt(diagnostics.ErrP003, p.peekToken, "range operators cannot be chained")
			return nil
		}

		if precedence >= p.peekPrecedence() {
			break
		}

		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil {
			return nil
		}
		leftExp = nextExp
	}

	return leftExp
}

func isRangeToken(t token.TokenType) bool {
	return t == token.DOT_DOT || t == token.DOT_DOT_EQ
}

// structLiteralAllowed reports whether `left {` starts a struct literal:
// left must be a capitalised name and we must not be in a control head.
func (p *Parser) structLiteralAllowed(left ast.Expression) bool {
	if p.noStructLiteral || p.peekToken.NewlineBefore {
		return false
	}
	var name string
	switch l := left.(type) {
	case *ast.Identifier:
		name = l.Value
	case *ast.PathExpression:
		name = l.Segments[len(l.Segments)-1]
	default:
		return false
	}
	if name == "" || !(name[0] >= 'A' && name[0] <= 'Z') {
		return false
	}
	// `Name { }` is an empty literal; otherwise expect `field:`, `field,`,
	// `field }` or `..base`.
	next, after := p.peekAt(0), p.peekAt(1)
	switch next.Type {
	case token.RBRACE, token.DOT_DOT:
		return true
	case token.IDENT:
		return after.Type == token.COLON || after.Type == token.COMMA || after.Type == token.RBRACE
	}
	return false
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	start := p.curToken
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	expression.Span = start.Span.Merge(expression.Right.GetSpan())
	return expression
}

// parseReferenceExpression handles &x and &mut x. References are
// transparent at runtime, so the operator is kept only for display.
func (p *Parser) parseReferenceExpression() ast.Expression {
	start := p.curToken
	op := "&"
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		op = "&mut"
	}
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpression{Token: start, Span: start.Span.Merge(right.GetSpan()), Operator: op, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	expression.Span = left.GetSpan().Merge(expression.Right.GetSpan())
	return expression
}

// parsePowerExpression is right-associative: 2 ** 3 ** 2 == 2 ** 9.
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{Token: p.curToken, Operator: "**", Left: left}
	p.nextToken()
	expression.Right = p.parseExpression(POWER - 1)
	if expression.Right == nil {
		return nil
	}
	expression.Span = left.GetSpan().Merge(expression.Right.GetSpan())
	return expression
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpression, *ast.IndexExpression:
		return true
	case *ast.PrefixExpression:
		return e.(*ast.PrefixExpression).Operator == "*"
	}
	return false
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isAssignable(left) {
		p.errorAt(diagnostics.ErrP003, tok, "invalid assignment target")
		return nil
	}
	p.nextToken()
	// right-associative: a = b = c
	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}
	return &ast.AssignExpression{Token: tok, Span: left.GetSpan().Merge(value.GetSpan()), Target: left, Value: value}
}

func (p *Parser) parseCompoundAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isAssignable(left) {
		p.errorAt(diagnostics.ErrP003, tok, "invalid assignment target")
		return nil
	}
	op := tok.Lexeme[:len(tok.Lexeme)-1]
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}
	return &ast.CompoundAssignExpression{Token: tok, Span: left.GetSpan().Merge(value.GetSpan()), Target: left, Operator: op, Value: value}
}

// rangeEndFollows reports whether the token after a range operator can
// start its upper bound; `xs[2..]` and `for i in 0.. {` have none.
func (p *Parser) rangeEndFollows() bool {
	if p.peekEndsExpression() {
		return false
	}
	switch p.peekToken.Type {
	case token.RBRACKET, token.RPAREN, token.RBRACE, token.COMMA, token.SEMICOLON, token.EOF, token.FAT_ARROW:
		return false
	case token.LBRACE:
		return !p.noStructLiteral
	}
	return true
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{Token: p.curToken, Start: left, Inclusive: p.curTokenIs(token.DOT_DOT_EQ)}
	span := left.GetSpan().Merge(p.curToken.Span)
	if p.rangeEndFollows() {
		p.nextToken()
		expr.End = p.parseExpression(RANGE)
		if expr.End == nil {
			return nil
		}
		span = span.Merge(expr.End.GetSpan())
	} else if expr.Inclusive {
		p.errorAt(diagnostics.ErrP003, p.curToken, "inclusive range requires an upper bound")
		return nil
	}
	expr.Span = span
	return expr
}

// parsePrefixRange handles `..end` and `..=end`.
func (p *Parser) parsePrefixRange() ast.Expression {
	expr := &ast.RangeExpression{Token: p.curToken, Inclusive: p.curTokenIs(token.DOT_DOT_EQ)}
	span := p.curToken.Span
	if p.rangeEndFollows() {
		p.nextToken()
		expr.End = p.parseExpression(RANGE)
		if expr.End == nil {
			return nil
		}
		span = span.Merge(expr.End.GetSpan())
	}
	expr.Span = span
	return expr
}

// parseSendExpression handles `actor ! Msg` and `actor <? Msg`.
func (p *Parser) parseSendExpression(left ast.Expression) ast.Expression {
	expr := &ast.SendExpression{Token: p.curToken, Actor: left, Ask: p.curTokenIs(token.ASK)}
	p.nextToken()
	expr.Message = p.parseExpression(SEND)
	if expr.Message == nil {
		return nil
	}
	expr.Span = left.GetSpan().Merge(expr.Message.GetSpan())
	return expr
}

func (p *Parser) parseCastExpression(left ast.Expression) ast.Expression {
	expr := &ast.CastExpression{Token: p.curToken, Value: left}
	p.nextToken()
	expr.Type = p.parseType()
	if expr.Type == nil {
		return nil
	}
	expr.Span = left.GetSpan().Merge(expr.Type.GetSpan())
	return expr
}
