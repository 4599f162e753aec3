package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// parseHead parses the condition of if/while/match or the iterable of for,
// where `Name {` must open the body.
func (p *Parser) parseHead() ast.Expression {
	prev := p.noStructLiteral
	p.noStructLiteral = true
	p.pushNL(false)
	e := p.parseExpression(LOWEST)
	p.popNL()
	p.noStructLiteral = prev
	return e
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}
	start := p.curToken

	p.nextToken() // consume 'if'
	expression.Condition = p.parseHead()
	if expression.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Consequence = p.parseBlockExpression()
	if expression.Consequence == nil {
		return nil
	}

	// else may start the next line
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			alt := p.parseIfExpression()
			if alt == nil {
				return nil
			}
			expression.Alternative = alt
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			alt := p.parseBlockExpression()
			if alt == nil {
				return nil
			}
			expression.Alternative = alt
		}
	}
	expression.Span = p.spanFrom(start)
	return expression
}

func (p *Parser) parseMatchExpression() ast.Expression {
	start := p.curToken
	expr := &ast.MatchExpression{Token: start}
	p.nextToken()
	expr.Subject = p.parseHead()
	if expr.Subject == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	arms := p.parseMatchArms()
	if arms == nil {
		return nil
	}
	expr.Arms = arms
	expr.Span = p.spanFrom(start)
	return expr
}

// parseMatchArms parses `pattern [if guard] => body` arms up to the
// closing brace; curToken is '{'. Arms are separated by ',', ';' or newlines.
func (p *Parser) parseMatchArms() []*ast.MatchArm {
	p.pushNL(true)
	defer p.popNL()
	arms := []*ast.MatchArm{}
	for {
		for p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			return arms
		}
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
			return nil
		}
		p.nextToken()
		arm := &ast.MatchArm{Token: p.curToken}
		arm.Pattern = p.parsePattern()
		if arm.Pattern == nil {
			return nil
		}
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			prev := p.noArrowLambda
			p.noArrowLambda = true
			arm.Guard = p.parseExpression(LOWEST)
			p.noArrowLambda = prev
			if arm.Guard == nil {
				return nil
			}
		}
		if !p.expectPeek(token.FAT_ARROW) {
			return nil
		}
		p.nextToken()
		arm.Body = p.parseExpression(LOWEST)
		if arm.Body == nil {
			return nil
		}
		arm.Span = p.spanFrom(arm.Token)
		arms = append(arms, arm)
		switch {
		case p.peekTokenIs(token.COMMA), p.peekTokenIs(token.SEMICOLON), p.peekTokenIs(token.RBRACE), p.peekToken.NewlineBefore:
		default:
			p.errorAt(diagnostics.ErrP001, p.peekToken, "expected ',' or newline after match arm, got %s", describe(p.peekToken))
			return nil
		}
	}
}

func (p *Parser) parseWhileExpression() ast.Expression {
	start := p.curToken
	expr := &ast.WhileExpression{Token: start}
	p.nextToken()
	expr.Condition = p.parseHead()
	if expr.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockExpression()
	if expr.Body == nil {
		return nil
	}
	expr.Span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseForExpression() ast.Expression {
	start := p.curToken
	expr := &ast.ForExpression{Token: start}
	p.nextToken() // consume 'for'
	expr.Pattern = p.parsePattern()
	if expr.Pattern == nil {
		return nil
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	expr.Iterable = p.parseHead()
	if expr.Iterable == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockExpression()
	if expr.Body == nil {
		return nil
	}
	expr.Span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseLoopExpression() ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpression()
	if body == nil {
		return nil
	}
	return &ast.LoopExpression{Token: start, Span: p.spanFrom(start), Body: body}
}

// parseLabeledLoop handles 'label: for/while/loop.
func (p *Parser) parseLabeledLoop() ast.Expression {
	start := p.curToken
	label, _ := p.curToken.Literal.(string)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	var loop ast.Expression
	switch p.curToken.Type {
	case token.FOR:
		loop = p.parseForExpression()
	case token.WHILE:
		loop = p.parseWhileExpression()
	case token.LOOP:
		loop = p.parseLoopExpression()
	default:
		p.errorAt(diagnostics.ErrP003, p.curToken, "a label must be followed by a loop")
		return nil
	}
	switch l := loop.(type) {
	case *ast.ForExpression:
		l.Label, l.Token, l.Span = label, start, p.spanFrom(start)
	case *ast.WhileExpression:
		l.Label, l.Token, l.Span = label, start, p.spanFrom(start)
	case *ast.LoopExpression:
		l.Label, l.Token, l.Span = label, start, p.spanFrom(start)
	default:
		return nil
	}
	return loop
}

// valueFollows reports whether peekToken can start an optional operand of
// break/return/throw on the same line.
func (p *Parser) valueFollows() bool {
	if p.peekToken.NewlineBefore && p.newlineSignificant() {
		return false
	}
	switch p.peekToken.Type {
	case token.RBRACE, token.RPAREN, token.RBRACKET, token.SEMICOLON, token.COMMA, token.EOF, token.ELSE:
		return false
	}
	return p.prefixParseFns[p.peekToken.Type] != nil
}

func (p *Parser) parseBreakExpression() ast.Expression {
	start := p.curToken
	expr := &ast.BreakExpression{Token: start}
	if p.peekTokenIs(token.LABEL) {
		p.nextToken()
		expr.Label, _ = p.curToken.Literal.(string)
	}
	if p.valueFollows() {
		p.nextToken()
		expr.Value = p.parseExpression(LOWEST)
		if expr.Value == nil {
			return nil
		}
	}
	expr.Span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseContinueExpression() ast.Expression {
	start := p.curToken
	expr := &ast.ContinueExpression{Token: start}
	if p.peekTokenIs(token.LABEL) {
		p.nextToken()
		expr.Label, _ = p.curToken.Literal.(string)
	}
	expr.Span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseReturnExpression() ast.Expression {
	start := p.curToken
	expr := &ast.ReturnExpression{Token: start}
	if p.valueFollows() {
		p.nextToken()
		expr.Value = p.parseExpression(LOWEST)
		if expr.Value == nil {
			return nil
		}
	}
	expr.Span = p.spanFrom(start)
	return expr
}

// parseLetExpression handles
//
//	let [mut] pattern [: Type] = value [in body]
//	var pattern [: Type] = value
func (p *Parser) parseLetExpression() ast.Expression {
	start := p.curToken
	expr := &ast.LetExpression{Token: start, Mutable: p.curTokenIs(token.VAR)}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		expr.Mutable = true
	}
	p.nextToken()
	expr.Pattern = p.parsePattern()
	if expr.Pattern == nil {
		return nil
	}
	if ip, ok := expr.Pattern.(*ast.IdentifierPattern); ok && expr.Mutable {
		ip.Mutable = true
	}
	if ip, ok := expr.Pattern.(*ast.IdentifierPattern); ok && ip.Mutable {
		expr.Mutable = true
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		expr.Type = p.parseType()
		if expr.Type == nil {
			return nil
		}
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	expr.Value = p.parseExpression(LOWEST)
	if expr.Value == nil {
		return nil
	}
	if p.peekTokenIs(token.IN) {
		p.nextToken()
		p.nextToken()
		expr.Body = p.parseExpression(LOWEST)
		if expr.Body == nil {
			return nil
		}
	}
	expr.Span = p.spanFrom(start)
	return expr
}

// parseTryCatchExpression handles
//
//	try { } catch [(]pattern[)] { } [finally { }]
func (p *Parser) parseTryCatchExpression() ast.Expression {
	start := p.curToken
	expr := &ast.TryCatchExpression{Token: start}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockExpression()
	if expr.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		if !p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			parens := p.curTokenIs(token.LPAREN)
			if parens {
				p.nextToken()
			}
			expr.CatchPattern = p.parsePattern()
			if expr.CatchPattern == nil {
				return nil
			}
			if parens && !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Handler = p.parseBlockExpression()
		if expr.Handler == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Finally = p.parseBlockExpression()
		if expr.Finally == nil {
			return nil
		}
	}
	if expr.Handler == nil && expr.Finally == nil {
		p.errorAt(diagnostics.ErrP002, p.peekToken, "try requires a catch or finally block")
		return nil
	}
	expr.Span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseThrowExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.ThrowExpression{Token: start, Span: p.spanFrom(start), Value: value}
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	value := p.parseExpression(PREFIX)
	if value == nil {
		return nil
	}
	return &ast.AwaitExpression{Token: start, Span: start.Span.Merge(value.GetSpan()), Value: value}
}

// parseAsync handles `async { }`, `async fn` and `async |x| ...`.
func (p *Parser) parseAsync() ast.Expression {
	start := p.curToken
	switch {
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		body := p.parseBlockExpression()
		if body == nil {
			return nil
		}
		return &ast.AsyncExpression{Token: start, Span: p.spanFrom(start), Body: body}
	case p.peekTokenIs(token.FN):
		p.nextToken()
		e := p.parseFunction()
		switch f := e.(type) {
		case *ast.FunctionDeclaration:
			f.IsAsync, f.Token, f.Span = true, start, p.spanFrom(start)
		case *ast.FunctionLiteral:
			f.IsAsync, f.Token, f.Span = true, start, p.spanFrom(start)
		default:
			return nil
		}
		return e
	case p.peekTokenIs(token.PIPE), p.peekTokenIs(token.OR):
		p.nextToken()
		e := p.parsePipeLambda()
		if f, ok := e.(*ast.FunctionLiteral); ok {
			f.IsAsync, f.Token, f.Span = true, start, p.spanFrom(start)
			return f
		}
		return nil
	}
	p.peekError(token.LBRACE, token.FN)
	return nil
}

func (p *Parser) parseSpawnExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	target := p.parseExpression(SEND)
	if target == nil {
		return nil
	}
	return &ast.SpawnExpression{Token: start, Span: start.Span.Merge(target.GetSpan()), Target: target}
}
