package parser

import (
	"strconv"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// parseDeclBody drives `{ item; item, item }` bodies. curToken is '{'.
// Each call to item starts on the item's first token and must leave
// curToken on its last one.
func (p *Parser) parseDeclBody(item func() bool) bool {
	p.pushNL(true)
	defer p.popNL()
	prevStruct := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = prevStruct }()
	for {
		for p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			return true
		}
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
			return false
		}
		p.nextToken()
		if !item() {
			return false
		}
	}
}

// parseDeclName reads the name after struct/class/actor/enum and an
// optional `<T, ...>` list.
func (p *Parser) parseDeclName() (string, []string, bool) {
	if !p.expectPeek(token.IDENT) {
		return "", nil, false
	}
	name := p.curToken.Lexeme
	var params []string
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		params = p.parseTypeParams()
		if params == nil {
			return "", nil, false
		}
	}
	return name, params, true
}

// parseFieldDecl parses `[pub] [mut] name[: Type] [= default]`.
func (p *Parser) parseFieldDecl() *ast.FieldDecl {
	start := p.curToken
	f := &ast.FieldDecl{Token: start}
	if p.curTokenIs(token.PUB) {
		f.IsPub = true
		p.nextToken()
	}
	if p.curTokenIs(token.MUT) || p.curTokenIs(token.VAR) || p.curTokenIs(token.LET) {
		f.Mutable = !p.curTokenIs(token.LET)
		if p.curTokenIs(token.LET) && p.peekTokenIs(token.MUT) {
			p.nextToken()
			f.Mutable = true
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP002, p.curToken, "expected field name, got %s", describe(p.curToken))
		return nil
	}
	f.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		f.Type = p.parseType()
		if f.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		f.Default = p.parseExpression(LOWEST)
		if f.Default == nil {
			return nil
		}
	}
	if f.Type == nil && f.Default == nil {
		p.errorAt(diagnostics.ErrP002, p.peekToken, "field %q needs a type or a default value", f.Name)
		return nil
	}
	f.Span = p.spanFrom(start)
	return f
}

// isFieldStart reports whether curToken begins a field declaration.
func (p *Parser) isFieldStart() bool {
	switch p.curToken.Type {
	case token.MUT, token.VAR, token.LET:
		return true
	case token.IDENT:
		return p.peekTokenIs(token.COLON) || p.peekTokenIs(token.ASSIGN)
	case token.PUB:
		next := p.peekToken.Type
		return next == token.MUT || (next == token.IDENT && (p.peekAt(0).Type == token.COLON || p.peekAt(0).Type == token.ASSIGN))
	}
	return false
}

// parseMethod parses `[pub] [async] [override] fn ...` inside a type body.
func (p *Parser) parseMethod() *ast.FunctionDeclaration {
	start := p.curToken
	isPub, isAsync, isOverride := false, false, false
	for {
		switch {
		case p.curTokenIs(token.PUB):
			isPub = true
		case p.curTokenIs(token.ASYNC):
			isAsync = true
		case p.curTokenIs(token.OVERRIDE):
			isOverride = true
		case p.curTokenIs(token.IDENT) && p.curToken.Lexeme == "static":
		default:
			if !p.curTokenIs(token.FN) {
				p.errorAt(diagnostics.ErrP002, p.curToken, "expected fn, got %s", describe(p.curToken))
				return nil
			}
			fn := p.parseFunctionDeclaration()
			if fn == nil {
				return nil
			}
			fn.Token = start
			fn.IsPub, fn.IsAsync, fn.IsOverride = isPub, isAsync, isOverride
			fn.Span = p.spanFrom(start)
			return fn
		}
		p.nextToken()
	}
}

// parseConstructor parses `new(params) { body }`; curToken is `new`.
func (p *Parser) parseConstructor() *ast.FunctionDeclaration {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, _ := p.parseFunctionParameters(false)
	if params == nil {
		return nil
	}
	fn := &ast.FunctionDeclaration{Token: start, Name: "new", Parameters: params}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		if fn.ReturnType = p.parseType(); fn.ReturnType == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if fn.Body = p.parseBlockExpression(); fn.Body == nil {
		return nil
	}
	fn.Span = p.spanFrom(start)
	return fn
}

func (p *Parser) parseStructDeclaration() ast.Expression {
	start := p.curToken
	name, typeParams, ok := p.parseDeclName()
	if !ok {
		return nil
	}
	decl := &ast.StructDeclaration{Token: start, Name: name, TypeParams: typeParams, Fields: []*ast.FieldDecl{}}
	switch {
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		ok = p.parseDeclBody(func() bool {
			f := p.parseFieldDecl()
			if f == nil {
				return false
			}
			decl.Fields = append(decl.Fields, f)
			return true
		})
		if !ok {
			return nil
		}
	case p.peekTokenIs(token.LPAREN):
		// struct Pair(Int, Int) has positional fields named 0, 1, ...
		p.nextToken()
		types, ok := p.parseTypeList(token.RPAREN)
		if !ok {
			return nil
		}
		for i, t := range types {
			decl.Fields = append(decl.Fields, &ast.FieldDecl{Token: t.GetToken(), Span: t.GetSpan(), Name: strconv.Itoa(i), Type: t})
		}
	}
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseClassDeclaration() ast.Expression {
	start := p.curToken
	name, typeParams, ok := p.parseDeclName()
	if !ok {
		return nil
	}
	decl := &ast.ClassDeclaration{Token: start, Name: name, TypeParams: typeParams}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	ok = p.parseDeclBody(func() bool {
		switch {
		case p.curTokenIs(token.NEW):
			ctor := p.parseConstructor()
			if ctor == nil {
				return false
			}
			decl.Constructors = append(decl.Constructors, ctor)
		case p.isFieldStart():
			f := p.parseFieldDecl()
			if f == nil {
				return false
			}
			decl.Fields = append(decl.Fields, f)
		default:
			m := p.parseMethod()
			if m == nil {
				return false
			}
			if m.Name == "new" && m.Receiver == "" {
				decl.Constructors = append(decl.Constructors, m)
			} else {
				decl.Methods = append(decl.Methods, m)
			}
		}
		return true
	})
	if !ok {
		return nil
	}
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseActorDeclaration() ast.Expression {
	start := p.curToken
	name, _, ok := p.parseDeclName()
	if !ok {
		return nil
	}
	decl := &ast.ActorDeclaration{Token: start, Name: name}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	ok = p.parseDeclBody(func() bool {
		switch {
		case p.curTokenIs(token.RECEIVE):
			handlers := p.parseReceive()
			if handlers == nil {
				return false
			}
			decl.Handlers = append(decl.Handlers, handlers...)
		case p.curTokenIs(token.NEW):
			ctor := p.parseConstructor()
			if ctor == nil {
				return false
			}
			decl.Constructors = append(decl.Constructors, ctor)
		case p.curTokenIs(token.IDENT) && p.curToken.Lexeme == "state" && p.peekTokenIs(token.LBRACE):
			// state { count: Int = 0 }
			p.nextToken()
			return p.parseDeclBody(func() bool {
				f := p.parseFieldDecl()
				if f == nil {
					return false
				}
				f.Mutable = true
				decl.Fields = append(decl.Fields, f)
				return true
			})
		case p.isFieldStart():
			f := p.parseFieldDecl()
			if f == nil {
				return false
			}
			decl.Fields = append(decl.Fields, f)
		default:
			m := p.parseMethod()
			if m == nil {
				return false
			}
			if m.Name == "new" && m.Receiver == "" {
				decl.Constructors = append(decl.Constructors, m)
			} else {
				decl.Methods = append(decl.Methods, m)
			}
		}
		return true
	})
	if !ok {
		return nil
	}
	decl.Span = p.spanFrom(start)
	return decl
}

// parseReceive handles the two handler forms:
//
//	receive Increment(n: Int) { ... }      one named handler
//	receive Ping => { ... }                 named handler, arrow body
//	receive { Inc(n) => ..., Get => ... }   pattern handlers
func (p *Parser) parseReceive() []*ast.ReceiveHandler {
	start := p.curToken
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		arms := p.parseMatchArms()
		if arms == nil {
			return nil
		}
		handlers := make([]*ast.ReceiveHandler, 0, len(arms))
		for _, arm := range arms {
			h := &ast.ReceiveHandler{Token: arm.Token, Span: arm.Span, Pattern: arm.Pattern, Body: arm.Body}
			if arm.Guard != nil {
				p.errorAt(diagnostics.ErrP003, arm.Guard.GetToken(), "receive arms do not take guards")
				return nil
			}
			h.MessageName = patternMessageName(arm.Pattern)
			handlers = append(handlers, h)
		}
		return handlers
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	h := &ast.ReceiveHandler{Token: start, MessageName: p.curToken.Lexeme, Parameters: []*ast.Parameter{}}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		params, _ := p.parseFunctionParameters(false)
		if params == nil {
			return nil
		}
		h.Parameters = params
	}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		if p.parseType() == nil {
			return nil
		}
	}
	switch {
	case p.peekTokenIs(token.FAT_ARROW):
		p.nextToken()
		p.nextToken()
		h.Body = p.parseExpression(LOWEST)
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		if b := p.parseBlockExpression(); b != nil {
			h.Body = b
		}
	default:
		p.peekError(token.LBRACE, token.FAT_ARROW)
		return nil
	}
	if h.Body == nil {
		return nil
	}
	h.Span = p.spanFrom(start)
	return []*ast.ReceiveHandler{h}
}

// patternMessageName extracts the message tag a receive arm matches on,
// or "" when the arm matches arbitrary values.
func patternMessageName(pat ast.Pattern) string {
	switch pt := pat.(type) {
	case *ast.VariantPattern:
		return pt.Name()
	case *ast.StructPattern:
		return pt.Name
	case *ast.AtPattern:
		return patternMessageName(pt.Inner)
	}
	return ""
}

func (p *Parser) parseEnumDeclaration() ast.Expression {
	start := p.curToken
	name, typeParams, ok := p.parseDeclName()
	if !ok {
		return nil
	}
	decl := &ast.EnumDeclaration{Token: start, Name: name, TypeParams: typeParams}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	seen := map[string]bool{}
	ok = p.parseDeclBody(func() bool {
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(diagnostics.ErrP002, p.curToken, "expected variant name, got %s", describe(p.curToken))
			return false
		}
		v := &ast.EnumVariantDecl{Token: p.curToken, Name: p.curToken.Lexeme}
		if seen[v.Name] {
			p.errorAt(diagnostics.ErrP003, p.curToken, "duplicate variant %q", v.Name)
			return false
		}
		seen[v.Name] = true
		switch {
		case p.peekTokenIs(token.LPAREN):
			p.nextToken()
			types, ok := p.parseTypeList(token.RPAREN)
			if !ok {
				return false
			}
			v.Fields = types
		case p.peekTokenIs(token.LBRACE):
			// struct-like variants keep only their field types
			p.nextToken()
			if !p.parseDeclBody(func() bool {
				f := p.parseFieldDecl()
				if f == nil {
					return false
				}
				v.Fields = append(v.Fields, f.Type)
				return true
			}) {
				return false
			}
		case p.peekTokenIs(token.ASSIGN):
			p.nextToken()
			p.nextToken()
			if v.Discriminant = p.parseExpression(LOWEST); v.Discriminant == nil {
				return false
			}
		}
		v.Span = p.spanFrom(v.Token)
		decl.Variants = append(decl.Variants, v)
		return true
	})
	if !ok {
		return nil
	}
	decl.Span = p.spanFrom(start)
	return decl
}

// parseImplBlock handles `impl Type { }` and `impl Trait for Type { }`.
func (p *Parser) parseImplBlock() ast.Expression {
	start := p.curToken
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if p.parseTypeParams() == nil {
			return nil
		}
	}
	p.nextToken()
	first := p.parseType()
	if first == nil {
		return nil
	}
	decl := &ast.ImplBlock{Token: start, TypeName: typeName(first)}
	if p.peekTokenIs(token.FOR) {
		p.nextToken()
		p.nextToken()
		target := p.parseType()
		if target == nil {
			return nil
		}
		decl.Trait, decl.TypeName = decl.TypeName, typeName(target)
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	ok := p.parseDeclBody(func() bool {
		m := p.parseMethod()
		if m == nil {
			return false
		}
		decl.Methods = append(decl.Methods, m)
		return true
	})
	if !ok {
		return nil
	}
	decl.Span = p.spanFrom(start)
	return decl
}

func typeName(t ast.TypeExpr) string {
	switch tt := t.(type) {
	case *ast.NamedType:
		return tt.Name
	case *ast.ReferenceType:
		return typeName(tt.Inner)
	}
	return ""
}

// parseUseDeclaration handles
//
//	use a::b::c          import a.b
//	use a::b::{c, d as e}
//	use a::b::*
//	use a::b as c
func (p *Parser) parseUseDeclaration() ast.Expression {
	start := p.curToken
	decl := &ast.UseDeclaration{Token: start, IsImport: p.curTokenIs(token.IMPORT)}
	if p.peekTokenIs(token.STRING) {
		// import "path/to/file"
		p.nextToken()
		decl.Path = []string{p.curToken.Literal.(string)}
		decl.Span = p.spanFrom(start)
		return decl
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Path = []string{p.curToken.Lexeme}
	for p.peekTokenIs(token.DOUBLE_COLON) || p.peekTokenIs(token.DOT) {
		p.nextToken()
		switch {
		case p.peekTokenIs(token.ASTERISK):
			p.nextToken()
			decl.Wildcard = true
		case p.peekTokenIs(token.LBRACE):
			p.nextToken()
			items := p.parseUseItems()
			if items == nil {
				return nil
			}
			decl.Items = items
		case memberName(p.peekToken):
			p.nextToken()
			decl.Path = append(decl.Path, p.curToken.Lexeme)
			continue
		default:
			p.peekError(token.IDENT, token.LBRACE, token.ASTERISK)
			return nil
		}
		break
	}
	if decl.Items == nil && !decl.Wildcard && p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		last := len(decl.Path) - 1
		decl.Items = []*ast.UseItem{{Token: p.curToken, Span: p.curToken.Span, Name: decl.Path[last], Alias: p.curToken.Lexeme}}
		decl.Path = decl.Path[:last]
	}
	decl.Span = p.spanFrom(start)
	return decl
}

// parseUseItems parses `{a, b as c}`; curToken is '{'.
func (p *Parser) parseUseItems() []*ast.UseItem {
	p.pushNL(false)
	defer p.popNL()
	items := []*ast.UseItem{}
	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		item := &ast.UseItem{Token: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			item.Alias = p.curToken.Lexeme
		}
		item.Span = p.spanFrom(item.Token)
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return items
}

func (p *Parser) parseModuleDeclaration() ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := &ast.ModuleDeclaration{Token: start, Name: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if decl.Body = p.parseBlockExpression(); decl.Body == nil {
		return nil
	}
	decl.Span = p.spanFrom(start)
	return decl
}
