package ast

import (
	"github.com/funvibe/ruchy/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	GetSpan() token.Span
	Accept(v Visitor)
}

// Expression is a Node that represents an expression. The language is
// expression-oriented, so declarations are expressions too.
type Expression interface {
	Node
	expressionNode()
}

// Pattern deconstructs a value in let, for, match and catch.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a surface type annotation.
type TypeExpr interface {
	Node
	typeNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	Token token.Token
	Span  token.Span
	File  string
	Forms []Expression
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string { return p.Token.Lexeme }
func (p *Program) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}
func (p *Program) GetSpan() token.Span {
	if p == nil {
		return token.Span{}
	}
	return p.Span
}

// Identifier represents a variable or function name.
type Identifier struct {
	Token token.Token
	Span  token.Span
	Value string
}

func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode() {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) GetSpan() token.Span {
	if i == nil {
		return token.Span{}
	}
	return i.Span
}

type IntegerLiteral struct {
	Token  token.Token
	Span   token.Span
	Value  int64
	Suffix string
}

func (il *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}
func (il *IntegerLiteral) GetSpan() token.Span {
	if il == nil {
		return token.Span{}
	}
	return il.Span
}

type FloatLiteral struct {
	Token token.Token
	Span  token.Span
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode() {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}
func (fl *FloatLiteral) GetSpan() token.Span {
	if fl == nil {
		return token.Span{}
	}
	return fl.Span
}

type StringLiteral struct {
	Token token.Token
	Span  token.Span
	Value string
}

func (sl *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StringLiteral) GetSpan() token.Span {
	if sl == nil {
		return token.Span{}
	}
	return sl.Span
}

type CharLiteral struct {
	Token token.Token
	Span  token.Span
	Value rune
}

func (cl *CharLiteral) Accept(v Visitor) { v.VisitCharLiteral(cl) }
func (cl *CharLiteral) expressionNode() {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Lexeme }
func (cl *CharLiteral) GetToken() token.Token {
	if cl == nil {
		return token.Token{}
	}
	return cl.Token
}
func (cl *CharLiteral) GetSpan() token.Span {
	if cl == nil {
		return token.Span{}
	}
	return cl.Span
}

type ByteLiteral struct {
	Token token.Token
	Span  token.Span
	Value byte
}

func (bl *ByteLiteral) Accept(v Visitor) { v.VisitByteLiteral(bl) }
func (bl *ByteLiteral) expressionNode() {}
func (bl *ByteLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *ByteLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}
func (bl *ByteLiteral) GetSpan() token.Span {
	if bl == nil {
		return token.Span{}
	}
	return bl.Span
}

type BooleanLiteral struct {
	Token token.Token
	Span  token.Span
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode() {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}
func (bl *BooleanLiteral) GetSpan() token.Span {
	if bl == nil {
		return token.Span{}
	}
	return bl.Span
}

// AtomLiteral is a symbol such as :ok.
type AtomLiteral struct {
	Token token.Token
	Span  token.Span
	Name  string
}

func (al *AtomLiteral) Accept(v Visitor) { v.VisitAtomLiteral(al) }
func (al *AtomLiteral) expressionNode() {}
func (al *AtomLiteral) TokenLiteral() string { return al.Token.Lexeme }
func (al *AtomLiteral) GetToken() token.Token {
	if al == nil {
		return token.Token{}
	}
	return al.Token
}
func (al *AtomLiteral) GetSpan() token.Span {
	if al == nil {
		return token.Span{}
	}
	return al.Span
}

type NullLiteral struct {
	Token token.Token
	Span  token.Span
}

func (nl *NullLiteral) Accept(v Visitor) { v.VisitNullLiteral(nl) }
func (nl *NullLiteral) expressionNode() {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}
func (nl *NullLiteral) GetSpan() token.Span {
	if nl == nil {
		return token.Span{}
	}
	return nl.Span
}

// UnitLiteral is the empty tuple ().
type UnitLiteral struct {
	Token token.Token
	Span  token.Span
}

func (ul *UnitLiteral) Accept(v Visitor) { v.VisitUnitLiteral(ul) }
func (ul *UnitLiteral) expressionNode() {}
func (ul *UnitLiteral) TokenLiteral() string { return ul.Token.Lexeme }
func (ul *UnitLiteral) GetToken() token.Token {
	if ul == nil {
		return token.Token{}
	}
	return ul.Token
}
func (ul *UnitLiteral) GetSpan() token.Span {
	if ul == nil {
		return token.Span{}
	}
	return ul.Span
}

// InterpolatedString holds f-string parts in source order. Literal
// fragments are *StringLiteral; everything else is an embedded expression.
type InterpolatedString struct {
	Token token.Token
	Span  token.Span
	Parts []Expression
}

func (is *InterpolatedString) Accept(v Visitor) { v.VisitInterpolatedString(is) }
func (is *InterpolatedString) expressionNode() {}
func (is *InterpolatedString) TokenLiteral() string { return is.Token.Lexeme }
func (is *InterpolatedString) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *InterpolatedString) GetSpan() token.Span {
	if is == nil {
		return token.Span{}
	}
	return is.Span
}
