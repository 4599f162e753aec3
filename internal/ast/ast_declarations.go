package ast

import (
	"github.com/funvibe/ruchy/internal/token"
)

// Receiver kinds for methods.
const (
	ReceiverNone     = ""
	ReceiverValue    = "self"
	ReceiverRef      = "&self"
	ReceiverMutRef   = "&mut self"
	ReceiverMutValue = "mut self"
)

type FunctionDeclaration struct {
	Token      token.Token
	Span       token.Span
	Name       string
	Receiver   string
	Parameters []*Parameter
	ReturnType TypeExpr
	Body       *BlockExpression
	IsAsync    bool
	IsPub      bool
	IsOverride bool
}

func (fd *FunctionDeclaration) Accept(v Visitor) { v.VisitFunctionDeclaration(fd) }
func (fd *FunctionDeclaration) expressionNode() {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}
func (fd *FunctionDeclaration) GetSpan() token.Span {
	if fd == nil {
		return token.Span{}
	}
	return fd.Span
}

// FieldDecl is a struct, class or actor field. Default is evaluated lazily
// in the defining environment.
type FieldDecl struct {
	Token   token.Token
	Span    token.Span
	Name    string
	Type    TypeExpr
	Default Expression
	Mutable bool
	IsPub   bool
}

func (fd *FieldDecl) Accept(v Visitor) { v.VisitFieldDecl(fd) }
func (fd *FieldDecl) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FieldDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}
func (fd *FieldDecl) GetSpan() token.Span {
	if fd == nil {
		return token.Span{}
	}
	return fd.Span
}

type StructDeclaration struct {
	Token      token.Token
	Span       token.Span
	Name       string
	TypeParams []string
	Fields     []*FieldDecl
}

func (sd *StructDeclaration) Accept(v Visitor) { v.VisitStructDeclaration(sd) }
func (sd *StructDeclaration) expressionNode() {}
func (sd *StructDeclaration) TokenLiteral() string { return sd.Token.Lexeme }
func (sd *StructDeclaration) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}
func (sd *StructDeclaration) GetSpan() token.Span {
	if sd == nil {
		return token.Span{}
	}
	return sd.Span
}

type ClassDeclaration struct {
	Token        token.Token
	Span         token.Span
	Name         string
	TypeParams   []string
	Fields       []*FieldDecl
	Constructors []*FunctionDeclaration
	Methods      []*FunctionDeclaration
}

func (cd *ClassDeclaration) Accept(v Visitor) { v.VisitClassDeclaration(cd) }
func (cd *ClassDeclaration) expressionNode() {}
func (cd *ClassDeclaration) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}
func (cd *ClassDeclaration) GetSpan() token.Span {
	if cd == nil {
		return token.Span{}
	}
	return cd.Span
}

// ReceiveHandler handles one message. Pattern is set when the message
// shape is more than a name and identifier parameters, e.g. Ping(0).
type ReceiveHandler struct {
	Token       token.Token
	Span        token.Span
	MessageName string
	Parameters  []*Parameter
	Pattern     Pattern
	Body        Expression
}

func (rh *ReceiveHandler) Accept(v Visitor) { v.VisitReceiveHandler(rh) }
func (rh *ReceiveHandler) TokenLiteral() string { return rh.Token.Lexeme }
func (rh *ReceiveHandler) GetToken() token.Token {
	if rh == nil {
		return token.Token{}
	}
	return rh.Token
}
func (rh *ReceiveHandler) GetSpan() token.Span {
	if rh == nil {
		return token.Span{}
	}
	return rh.Span
}

type ActorDeclaration struct {
	Token        token.Token
	Span         token.Span
	Name         string
	Fields       []*FieldDecl
	Constructors []*FunctionDeclaration
	Handlers     []*ReceiveHandler
	Methods      []*FunctionDeclaration
}

func (ad *ActorDeclaration) Accept(v Visitor) { v.VisitActorDeclaration(ad) }
func (ad *ActorDeclaration) expressionNode() {}
func (ad *ActorDeclaration) TokenLiteral() string { return ad.Token.Lexeme }
func (ad *ActorDeclaration) GetToken() token.Token {
	if ad == nil {
		return token.Token{}
	}
	return ad.Token
}
func (ad *ActorDeclaration) GetSpan() token.Span {
	if ad == nil {
		return token.Span{}
	}
	return ad.Span
}

type EnumVariantDecl struct {
	Token        token.Token
	Span         token.Span
	Name         string
	Fields       []TypeExpr
	Discriminant Expression
}

func (evd *EnumVariantDecl) Accept(v Visitor) { v.VisitEnumVariantDecl(evd) }
func (evd *EnumVariantDecl) TokenLiteral() string { return evd.Token.Lexeme }
func (evd *EnumVariantDecl) GetToken() token.Token {
	if evd == nil {
		return token.Token{}
	}
	return evd.Token
}
func (evd *EnumVariantDecl) GetSpan() token.Span {
	if evd == nil {
		return token.Span{}
	}
	return evd.Span
}

type EnumDeclaration struct {
	Token      token.Token
	Span       token.Span
	Name       string
	TypeParams []string
	Variants   []*EnumVariantDecl
}

func (ed *EnumDeclaration) Accept(v Visitor) { v.VisitEnumDeclaration(ed) }
func (ed *EnumDeclaration) expressionNode() {}
func (ed *EnumDeclaration) TokenLiteral() string { return ed.Token.Lexeme }
func (ed *EnumDeclaration) GetToken() token.Token {
	if ed == nil {
		return token.Token{}
	}
	return ed.Token
}
func (ed *EnumDeclaration) GetSpan() token.Span {
	if ed == nil {
		return token.Span{}
	}
	return ed.Span
}

// ImplBlock attaches methods to a named struct, class or enum.
type ImplBlock struct {
	Token    token.Token
	Span     token.Span
	TypeName string
	Trait    string
	Methods  []*FunctionDeclaration
}

func (ib *ImplBlock) Accept(v Visitor) { v.VisitImplBlock(ib) }
func (ib *ImplBlock) expressionNode() {}
func (ib *ImplBlock) TokenLiteral() string { return ib.Token.Lexeme }
func (ib *ImplBlock) GetToken() token.Token {
	if ib == nil {
		return token.Token{}
	}
	return ib.Token
}
func (ib *ImplBlock) GetSpan() token.Span {
	if ib == nil {
		return token.Span{}
	}
	return ib.Span
}

type UseItem struct {
	Token token.Token
	Span  token.Span
	Name  string
	Alias string
}

func (ui *UseItem) Accept(v Visitor) { v.VisitUseItem(ui) }
func (ui *UseItem) TokenLiteral() string { return ui.Token.Lexeme }
func (ui *UseItem) GetToken() token.Token {
	if ui == nil {
		return token.Token{}
	}
	return ui.Token
}
func (ui *UseItem) GetSpan() token.Span {
	if ui == nil {
		return token.Span{}
	}
	return ui.Span
}

// UseDeclaration is `use a::b`, `use a::{b, c as d}`, `use a::*` or `import a.b`.
type UseDeclaration struct {
	Token    token.Token
	Span     token.Span
	Path     []string
	Items    []*UseItem
	Wildcard bool
	IsImport bool
}

func (ud *UseDeclaration) Accept(v Visitor) { v.VisitUseDeclaration(ud) }
func (ud *UseDeclaration) expressionNode() {}
func (ud *UseDeclaration) TokenLiteral() string { return ud.Token.Lexeme }
func (ud *UseDeclaration) GetToken() token.Token {
	if ud == nil {
		return token.Token{}
	}
	return ud.Token
}
func (ud *UseDeclaration) GetSpan() token.Span {
	if ud == nil {
		return token.Span{}
	}
	return ud.Span
}

type ModuleDeclaration struct {
	Token token.Token
	Span  token.Span
	Name  string
	Body  *BlockExpression
}

func (md *ModuleDeclaration) Accept(v Visitor) { v.VisitModuleDeclaration(md) }
func (md *ModuleDeclaration) expressionNode() {}
func (md *ModuleDeclaration) TokenLiteral() string { return md.Token.Lexeme }
func (md *ModuleDeclaration) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}
func (md *ModuleDeclaration) GetSpan() token.Span {
	if md == nil {
		return token.Span{}
	}
	return md.Span
}
