package parser

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// parseType parses a surface type annotation starting at curToken.
func (p *Parser) parseType() ast.TypeExpr {
	t := p.parseTypeAtom()
	if t == nil {
		return nil
	}
	// T? is Option<T>
	for p.peekTokenIs(token.QUESTION) {
		p.nextToken()
		t = &ast.OptionalType{Token: p.curToken, Span: t.GetSpan().Merge(p.curToken.Span), Inner: t}
	}
	return t
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	start := p.curToken
	switch p.curToken.Type {
	case token.AMPERSAND:
		ref := &ast.ReferenceType{Token: start}
		if p.peekTokenIs(token.MUT) {
			p.nextToken()
			ref.Mutable = true
		}
		p.nextToken()
		ref.Inner = p.parseType()
		if ref.Inner == nil {
			return nil
		}
		ref.Span = start.Span.Merge(ref.Inner.GetSpan())
		return ref

	case token.LBRACKET:
		arr := &ast.ArrayType{Token: start}
		p.nextToken()
		arr.Elem = p.parseType()
		if arr.Elem == nil {
			return nil
		}
		if p.peekTokenIs(token.SEMICOLON) {
			// [T; N]: the length is not part of the type.
			p.nextToken()
			if !p.expectPeek(token.INT) {
				return nil
			}
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		arr.Span = p.spanFrom(start)
		return arr

	case token.LPAREN:
		elems, ok := p.parseTypeList(token.RPAREN)
		if !ok {
			return nil
		}
		if p.peekTokenIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			result := p.parseType()
			if result == nil {
				return nil
			}
			return &ast.FunctionType{Token: start, Span: start.Span.Merge(result.GetSpan()), Params: elems, Result: result}
		}
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleType{Token: start, Span: p.spanFrom(start), Elements: elems}

	case token.FN:
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		params, ok := p.parseTypeList(token.RPAREN)
		if !ok {
			return nil
		}
		ft := &ast.FunctionType{Token: start, Params: params}
		if p.peekTokenIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			ft.Result = p.parseType()
			if ft.Result == nil {
				return nil
			}
		} else {
			ft.Result = &ast.TupleType{Token: p.curToken, Span: p.curToken.Span}
		}
		ft.Span = p.spanFrom(start)
		return ft

	case token.IMPL:
		// impl Trait
		p.nextToken()
		return p.parseTypeAtom()

	case token.IDENT:
		if p.curToken.Lexeme == "dyn" && p.peekTokenIs(token.IDENT) {
			p.nextToken()
			return p.parseTypeAtom()
		}
		named := &ast.NamedType{Token: start, Name: p.curToken.Lexeme}
		for p.peekTokenIs(token.DOUBLE_COLON) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			named.Name = p.curToken.Lexeme
		}
		if p.peekTokenIs(token.LT) {
			p.nextToken()
			for {
				p.nextToken()
				arg := p.parseType()
				if arg == nil {
					return nil
				}
				named.Args = append(named.Args, arg)
				if !p.peekTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
			}
			if !p.expectCloseAngle() {
				return nil
			}
		}
		named.Span = p.spanFrom(start)
		return named
	}
	p.errorAt(diagnostics.ErrP002, p.curToken, "expected type, got %s", describe(p.curToken))
	return nil
}

// parseTypeList parses `(A, B, ...)` with curToken on the opening paren.
func (p *Parser) parseTypeList(closer token.TokenType) ([]ast.TypeExpr, bool) {
	p.pushNL(false)
	defer p.popNL()
	elems := []ast.TypeExpr{}
	for !p.peekTokenIs(closer) {
		p.nextToken()
		t := p.parseType()
		if t == nil {
			return nil, false
		}
		elems = append(elems, t)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(closer) {
		return nil, false
	}
	return elems, true
}

// expectCloseAngle consumes a '>' closing a generic argument list. A '>>'
// token closes two lists, so it is split and the second half is left as
// peekToken.
func (p *Parser) expectCloseAngle() bool {
	switch p.peekToken.Type {
	case token.GT:
		p.nextToken()
		return true
	case token.RSHIFT:
		t := p.peekToken
		first := t
		first.Type, first.Lexeme = token.GT, ">"
		first.Span = token.NewSpan(int(t.Span.Start), int(t.Span.Start)+1)
		second := first
		second.Span = token.NewSpan(int(t.Span.Start)+1, int(t.Span.End))
		second.Column++
		second.NewlineBefore = false
		p.curToken, p.peekToken = first, second
		return true
	}
	p.peekError(token.GT)
	return false
}
