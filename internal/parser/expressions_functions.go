package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// parseFunction parses `fn name(params) -> T { body }` or, without a name,
// the anonymous form `fn(params) { body }`.
func (p *Parser) parseFunction() ast.Expression {
	start := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		params, _ := p.parseFunctionParameters(false)
		if params == nil {
			return nil
		}
		lit := &ast.FunctionLiteral{Token: start, Parameters: params}
		if p.peekTokenIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			lit.ReturnType = p.parseType()
			if lit.ReturnType == nil {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		body := p.parseBlockExpression()
		if body == nil {
			return nil
		}
		lit.Body = body
		lit.Span = p.spanFrom(start)
		return lit
	}
	fn := p.parseFunctionDeclaration()
	if fn == nil {
		return nil
	}
	return fn
}

// parseFunctionDeclaration parses a named function; curToken is `fn`.
// A leading self / &self / &mut self parameter becomes the receiver.
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	start := p.curToken
	p.nextToken()
	if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.NEW) {
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected function name, got %s", describe(p.curToken))
		return nil
	}
	fn := &ast.FunctionDeclaration{Token: start, Name: p.curToken.Lexeme}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if p.parseTypeParams() == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, receiver := p.parseFunctionParameters(true)
	if params == nil {
		return nil
	}
	fn.Parameters, fn.Receiver = params, receiver
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
		if fn.ReturnType == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		// fn square(x) = x * x
		p.nextToken()
		p.nextToken()
		tok := p.curToken
		e := p.parseExpression(LOWEST)
		if e == nil {
			return nil
		}
		fn.Body = &ast.BlockExpression{Token: tok, Span: e.GetSpan(), Expressions: []ast.Expression{e}}
	} else {
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		fn.Body = p.parseBlockExpression()
		if fn.Body == nil {
			return nil
		}
	}
	fn.Span = p.spanFrom(start)
	return fn
}

// parseTypeParams skips `<T, U: Bound>`; curToken is '<'. Type parameters
// are inferred, so only their names are kept.
func (p *Parser) parseTypeParams() []string {
	names := []string{}
	for {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(diagnostics.ErrP002, p.curToken, "expected type parameter, got %s", describe(p.curToken))
			return nil
		}
		names = append(names, p.curToken.Lexeme)
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			if p.parseType() == nil {
				return nil
			}
			for p.peekTokenIs(token.PLUS) {
				p.nextToken()
				p.nextToken()
				if p.parseType() == nil {
					return nil
				}
			}
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectCloseAngle() {
		return nil
	}
	return names
}

// parseFunctionParameters parses `(a, b: Int, c = 1)`; curToken is '('.
// It returns a non-nil slice on success.
func (p *Parser) parseFunctionParameters(allowSelf bool) ([]*ast.Parameter, string) {
	p.pushNL(false)
	defer p.popNL()
	params := []*ast.Parameter{}
	receiver := ""
	seenDefault := false
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if allowSelf && len(params) == 0 && receiver == "" {
			if r, ok := p.parseReceiver(); ok {
				receiver = r
				if !p.peekTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
				continue
			}
		}
		param := p.parseParameter()
		if param == nil {
			return nil, ""
		}
		if param.Default != nil {
			seenDefault = true
		} else if seenDefault {
			p.errorAt(diagnostics.ErrP003, param.Token, "parameter %q without default follows a defaulted parameter", param.Name)
			return nil, ""
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, ""
	}
	return params, receiver
}

// parseReceiver recognises self, &self, &mut self and mut self.
func (p *Parser) parseReceiver() (string, bool) {
	isSelf := func(t token.Token) bool { return t.Type == token.IDENT && t.Lexeme == "self" }
	switch {
	case isSelf(p.curToken):
		if p.peekTokenIs(token.COLON) {
			// self: Type
			p.nextToken()
			p.nextToken()
			p.parseType()
		}
		return ast.ReceiverValue, true
	case p.curTokenIs(token.AMPERSAND) && isSelf(p.peekToken):
		p.nextToken()
		return ast.ReceiverRef, true
	case p.curTokenIs(token.AMPERSAND) && p.peekTokenIs(token.MUT) && isSelf(p.peekAt(0)):
		p.nextToken()
		p.nextToken()
		return ast.ReceiverMutRef, true
	case p.curTokenIs(token.MUT) && isSelf(p.peekToken):
		p.nextToken()
		return ast.ReceiverMutValue, true
	}
	return "", false
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.curToken
	param := &ast.Parameter{Token: start}
	if p.curTokenIs(token.MUT) {
		param.Mutable = true
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected parameter name, got %s", describe(p.curToken))
		return nil
	}
	param.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseType()
		if param.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(LOWEST)
		if param.Default == nil {
			return nil
		}
	}
	param.Span = p.spanFrom(start)
	return param
}

// parsePipeLambda parses |a, b| body and || body.
func (p *Parser) parsePipeLambda() ast.Expression {
	start := p.curToken
	params := []*ast.Parameter{}
	if p.curTokenIs(token.PIPE) {
		p.pushNL(false)
		for !p.peekTokenIs(token.PIPE) {
			p.nextToken()
			param := p.parseLambdaParam()
			if param == nil {
				p.popNL()
				return nil
			}
			params = append(params, param)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		p.popNL()
		if !p.expectPeek(token.PIPE) {
			return nil
		}
	}
	return p.parseLambdaBody(start, params, true)
}

// parseLambdaParam is like parseParameter but a default value stops at
// '|' instead of treating it as bit-or.
func (p *Parser) parseLambdaParam() *ast.Parameter {
	start := p.curToken
	param := &ast.Parameter{Token: start}
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected parameter name, got %s", describe(p.curToken))
		return nil
	}
	param.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseType()
		if param.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(BIT_OR)
		if param.Default == nil {
			return nil
		}
	}
	param.Span = p.spanFrom(start)
	return param
}

// parseLambdaBody parses the body after `|params|` or `=>`. With
// allowReturnType, `-> T { body }` is accepted.
func (p *Parser) parseLambdaBody(start token.Token, params []*ast.Parameter, allowReturnType bool) ast.Expression {
	lit := &ast.FunctionLiteral{Token: start, Parameters: params}
	if allowReturnType && p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		lit.ReturnType = p.parseType()
		if lit.ReturnType == nil {
			return nil
		}
		if !p.peekTokenIs(token.LBRACE) {
			p.peekError(token.LBRACE)
			return nil
		}
	}
	p.nextToken()
	lit.Body = p.parseExpression(ASSIGN)
	if lit.Body == nil {
		return nil
	}
	lit.Span = start.Span.Merge(lit.Body.GetSpan())
	return lit
}

// parsePub accepts `pub` before a declaration; visibility has no runtime
// effect inside a single unit.
func (p *Parser) parsePub() ast.Expression {
	start := p.curToken
	p.nextToken()
	if p.curTokenIs(token.LPAREN) {
		// pub(crate)
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			p.nextToken()
		}
		p.nextToken()
	}
	switch p.curToken.Type {
	case token.FN, token.ASYNC, token.STRUCT, token.CLASS, token.ACTOR, token.ENUM, token.MODULE, token.LET, token.USE:
	default:
		p.errorAt(diagnostics.ErrP003, p.curToken, "pub must precede a declaration")
		return nil
	}
	e := p.parseExpression(LOWEST)
	if fn, ok := e.(*ast.FunctionDeclaration); ok {
		fn.IsPub = true
		fn.Span = start.Span.Merge(fn.Span)
	}
	return e
}
