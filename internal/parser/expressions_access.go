package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	exp.Arguments = args
	exp.Span = function.GetSpan().Merge(p.curToken.Span)
	return exp
}

// parseCallArguments parses `(a, name: b, ...)`; curToken is '('. The
// result is non-nil on success.
func (p *Parser) parseCallArguments() []ast.Expression {
	p.pushNL(false)
	defer p.popNL()
	prevStruct := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = prevStruct }()

	args := []ast.Expression{}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		var arg ast.Expression
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			tok := p.curToken
			p.nextToken()
			p.nextToken()
			v := p.parseExpression(LOWEST)
			if v == nil {
				return nil
			}
			arg = &ast.NamedArgument{Token: tok, Span: tok.Span.Merge(v.GetSpan()), Name: tok.Lexeme, Value: v}
		} else {
			arg = p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.pushNL(false)
	prevStruct := p.noStructLiteral
	p.noStructLiteral = false
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	p.noStructLiteral = prevStruct
	p.popNL()
	if exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	exp.Span = left.GetSpan().Merge(p.curToken.Span)
	return exp
}

// memberName accepts identifiers and keywords after '.', so `x.match()`
// or `Point.new` still read as member names.
func memberName(t token.Token) bool {
	if t.Type == token.IDENT {
		return true
	}
	return token.IsKeyword(t.Type)
}

// parseDotExpression handles field access, method calls, tuple indexing
// (`t.0`) and postfix `.await`.
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	dot := p.curToken
	switch {
	case p.peekTokenIs(token.INT):
		p.nextToken()
		return &ast.FieldAccessExpression{Token: dot, Span: left.GetSpan().Merge(p.curToken.Span), Object: left, Field: p.curToken.Lexeme}
	case p.peekTokenIs(token.AWAIT):
		p.nextToken()
		return &ast.AwaitExpression{Token: p.curToken, Span: left.GetSpan().Merge(p.curToken.Span), Value: left}
	case memberName(p.peekToken):
	default:
		p.peekError(token.IDENT)
		return nil
	}
	p.nextToken()
	name := p.curToken
	if p.peekTokenIs(token.LPAREN) && !p.peekToken.NewlineBefore {
		p.nextToken()
		args := p.parseCallArguments()
		if args == nil {
			return nil
		}
		return &ast.MethodCallExpression{
			Token:     name,
			Span:      left.GetSpan().Merge(p.curToken.Span),
			Receiver:  left,
			Method:    name.Lexeme,
			Arguments: args,
		}
	}
	return &ast.FieldAccessExpression{Token: name, Span: left.GetSpan().Merge(name.Span), Object: left, Field: name.Lexeme}
}

// parseTryOperator handles postfix `expr?`.
func (p *Parser) parseTryOperator(left ast.Expression) ast.Expression {
	return &ast.TryOperatorExpression{Token: p.curToken, Span: left.GetSpan().Merge(p.curToken.Span), Value: left}
}

// parsePathExpression extends `A` or `A::b` by one segment. A turbofish
// (`Vec::<Int>::new`) is accepted and discarded.
func (p *Parser) parsePathExpression(left ast.Expression) ast.Expression {
	var segments []string
	switch l := left.(type) {
	case *ast.Identifier:
		segments = []string{l.Value}
	case *ast.PathExpression:
		segments = append([]string{}, l.Segments...)
	default:
		p.errorAt(diagnostics.ErrP003, p.curToken, "'::' must follow a name")
		return nil
	}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		for {
			p.nextToken()
			if p.parseType() == nil {
				return nil
			}
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectCloseAngle() {
			return nil
		}
		if !p.peekTokenIs(token.DOUBLE_COLON) {
			return &ast.PathExpression{Token: left.GetToken(), Span: p.spanFrom(left.GetToken()), Segments: segments}
		}
		p.nextToken()
	}
	if !memberName(p.peekToken) {
		p.peekError(token.IDENT)
		return nil
	}
	p.nextToken()
	segments = append(segments, p.curToken.Lexeme)
	return &ast.PathExpression{Token: left.GetToken(), Span: left.GetSpan().Merge(p.curToken.Span), Segments: segments}
}
