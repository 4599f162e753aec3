package ast

import (
	"github.com/funvibe/ruchy/internal/token"
)

// NamedType is Int, String, Vec<T>, Result<T, E>, DataFrame...
type NamedType struct {
	Token token.Token
	Span  token.Span
	Name  string
	Args  []TypeExpr
}

func (nt *NamedType) Accept(v Visitor) { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode() {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token {
	if nt == nil {
		return token.Token{}
	}
	return nt.Token
}
func (nt *NamedType) GetSpan() token.Span {
	if nt == nil {
		return token.Span{}
	}
	return nt.Span
}

type FunctionType struct {
	Token  token.Token
	Span   token.Span
	Params []TypeExpr
	Result TypeExpr
}

func (ft *FunctionType) Accept(v Visitor) { v.VisitFunctionType(ft) }
func (ft *FunctionType) typeNode() {}
func (ft *FunctionType) TokenLiteral() string { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token {
	if ft == nil {
		return token.Token{}
	}
	return ft.Token
}
func (ft *FunctionType) GetSpan() token.Span {
	if ft == nil {
		return token.Span{}
	}
	return ft.Span
}

type TupleType struct {
	Token    token.Token
	Span     token.Span
	Elements []TypeExpr
}

func (tt *TupleType) Accept(v Visitor) { v.VisitTupleType(tt) }
func (tt *TupleType) typeNode() {}
func (tt *TupleType) TokenLiteral() string { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token {
	if tt == nil {
		return token.Token{}
	}
	return tt.Token
}
func (tt *TupleType) GetSpan() token.Span {
	if tt == nil {
		return token.Span{}
	}
	return tt.Span
}

// ArrayType is [T].
type ArrayType struct {
	Token token.Token
	Span  token.Span
	Elem  TypeExpr
}

func (at *ArrayType) Accept(v Visitor) { v.VisitArrayType(at) }
func (at *ArrayType) typeNode() {}
func (at *ArrayType) TokenLiteral() string { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token {
	if at == nil {
		return token.Token{}
	}
	return at.Token
}
func (at *ArrayType) GetSpan() token.Span {
	if at == nil {
		return token.Span{}
	}
	return at.Span
}

// OptionalType is T?.
type OptionalType struct {
	Token token.Token
	Span  token.Span
	Inner TypeExpr
}

func (ot *OptionalType) Accept(v Visitor) { v.VisitOptionalType(ot) }
func (ot *OptionalType) typeNode() {}
func (ot *OptionalType) TokenLiteral() string { return ot.Token.Lexeme }
func (ot *OptionalType) GetToken() token.Token {
	if ot == nil {
		return token.Token{}
	}
	return ot.Token
}
func (ot *OptionalType) GetSpan() token.Span {
	if ot == nil {
		return token.Span{}
	}
	return ot.Span
}

// ReferenceType is &T or &mut T.
type ReferenceType struct {
	Token   token.Token
	Span    token.Span
	Inner   TypeExpr
	Mutable bool
}

func (rt *ReferenceType) Accept(v Visitor) { v.VisitReferenceType(rt) }
func (rt *ReferenceType) typeNode() {}
func (rt *ReferenceType) TokenLiteral() string { return rt.Token.Lexeme }
func (rt *ReferenceType) GetToken() token.Token {
	if rt == nil {
		return token.Token{}
	}
	return rt.Token
}
func (rt *ReferenceType) GetSpan() token.Span {
	if rt == nil {
		return token.Span{}
	}
	return rt.Span
}
