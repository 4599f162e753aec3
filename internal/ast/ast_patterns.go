package ast

import (
	"github.com/funvibe/ruchy/internal/token"
)

type WildcardPattern struct {
	Token token.Token
	Span  token.Span
}

func (wp *WildcardPattern) Accept(v Visitor) { v.VisitWildcardPattern(wp) }
func (wp *WildcardPattern) patternNode() {}
func (wp *WildcardPattern) TokenLiteral() string { return wp.Token.Lexeme }
func (wp *WildcardPattern) GetToken() token.Token {
	if wp == nil {
		return token.Token{}
	}
	return wp.Token
}
func (wp *WildcardPattern) GetSpan() token.Span {
	if wp == nil {
		return token.Span{}
	}
	return wp.Span
}

type IdentifierPattern struct {
	Token   token.Token
	Span    token.Span
	Name    string
	Mutable bool
}

func (ip *IdentifierPattern) Accept(v Visitor) { v.VisitIdentifierPattern(ip) }
func (ip *IdentifierPattern) patternNode() {}
func (ip *IdentifierPattern) TokenLiteral() string { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token {
	if ip == nil {
		return token.Token{}
	}
	return ip.Token
}
func (ip *IdentifierPattern) GetSpan() token.Span {
	if ip == nil {
		return token.Span{}
	}
	return ip.Span
}

// LiteralPattern matches by value equality; Value is a literal expression
// (possibly a negated numeric literal).
type LiteralPattern struct {
	Token token.Token
	Span  token.Span
	Value Expression
}

func (lp *LiteralPattern) Accept(v Visitor) { v.VisitLiteralPattern(lp) }
func (lp *LiteralPattern) patternNode() {}
func (lp *LiteralPattern) TokenLiteral() string { return lp.Token.Lexeme }
func (lp *LiteralPattern) GetToken() token.Token {
	if lp == nil {
		return token.Token{}
	}
	return lp.Token
}
func (lp *LiteralPattern) GetSpan() token.Span {
	if lp == nil {
		return token.Span{}
	}
	return lp.Span
}

type TuplePattern struct {
	Token    token.Token
	Span     token.Span
	Elements []Pattern
}

func (tp *TuplePattern) Accept(v Visitor) { v.VisitTuplePattern(tp) }
func (tp *TuplePattern) patternNode() {}
func (tp *TuplePattern) TokenLiteral() string { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token {
	if tp == nil {
		return token.Token{}
	}
	return tp.Token
}
func (tp *TuplePattern) GetSpan() token.Span {
	if tp == nil {
		return token.Span{}
	}
	return tp.Span
}

// RestPattern is `..` or `..name`; it may only appear inside a ListPattern.
type RestPattern struct {
	Token token.Token
	Span  token.Span
	Name  string
}

func (rp *RestPattern) Accept(v Visitor) { v.VisitRestPattern(rp) }
func (rp *RestPattern) patternNode() {}
func (rp *RestPattern) TokenLiteral() string { return rp.Token.Lexeme }
func (rp *RestPattern) GetToken() token.Token {
	if rp == nil {
		return token.Token{}
	}
	return rp.Token
}
func (rp *RestPattern) GetSpan() token.Span {
	if rp == nil {
		return token.Span{}
	}
	return rp.Span
}

type ListPattern struct {
	Token    token.Token
	Span     token.Span
	Elements []Pattern
}

func (lp *ListPattern) Accept(v Visitor) { v.VisitListPattern(lp) }
func (lp *ListPattern) patternNode() {}
func (lp *ListPattern) TokenLiteral() string { return lp.Token.Lexeme }
func (lp *ListPattern) GetToken() token.Token {
	if lp == nil {
		return token.Token{}
	}
	return lp.Token
}
func (lp *ListPattern) GetSpan() token.Span {
	if lp == nil {
		return token.Span{}
	}
	return lp.Span
}

// RestIndex returns the position of the rest element or -1.
func (lp *ListPattern) RestIndex() int {
	for i, e := range lp.Elements {
		if _, ok := e.(*RestPattern); ok {
			return i
		}
	}
	return -1
}

type FieldPattern struct {
	Token   token.Token
	Span    token.Span
	Name    string
	Pattern Pattern // nil for shorthand `{ x }`
}

func (fp *FieldPattern) Accept(v Visitor) { v.VisitFieldPattern(fp) }
func (fp *FieldPattern) TokenLiteral() string { return fp.Token.Lexeme }
func (fp *FieldPattern) GetToken() token.Token {
	if fp == nil {
		return token.Token{}
	}
	return fp.Token
}
func (fp *FieldPattern) GetSpan() token.Span {
	if fp == nil {
		return token.Span{}
	}
	return fp.Span
}

type StructPattern struct {
	Token   token.Token
	Span    token.Span
	Name    string
	Fields  []*FieldPattern
	HasRest bool
}

func (sp *StructPattern) Accept(v Visitor) { v.VisitStructPattern(sp) }
func (sp *StructPattern) patternNode() {}
func (sp *StructPattern) TokenLiteral() string { return sp.Token.Lexeme }
func (sp *StructPattern) GetToken() token.Token {
	if sp == nil {
		return token.Token{}
	}
	return sp.Token
}
func (sp *StructPattern) GetSpan() token.Span {
	if sp == nil {
		return token.Span{}
	}
	return sp.Span
}

type RangePattern struct {
	Token     token.Token
	Span      token.Span
	Lo        Expression
	Hi        Expression
	Inclusive bool
}

func (rp *RangePattern) Accept(v Visitor) { v.VisitRangePattern(rp) }
func (rp *RangePattern) patternNode() {}
func (rp *RangePattern) TokenLiteral() string { return rp.Token.Lexeme }
func (rp *RangePattern) GetToken() token.Token {
	if rp == nil {
		return token.Token{}
	}
	return rp.Token
}
func (rp *RangePattern) GetSpan() token.Span {
	if rp == nil {
		return token.Span{}
	}
	return rp.Span
}

// ResultPattern is Ok(p) or Err(p).
type ResultPattern struct {
	Token token.Token
	Span  token.Span
	IsOk  bool
	Inner Pattern
}

func (rp *ResultPattern) Accept(v Visitor) { v.VisitResultPattern(rp) }
func (rp *ResultPattern) patternNode() {}
func (rp *ResultPattern) TokenLiteral() string { return rp.Token.Lexeme }
func (rp *ResultPattern) GetToken() token.Token {
	if rp == nil {
		return token.Token{}
	}
	return rp.Token
}
func (rp *ResultPattern) GetSpan() token.Span {
	if rp == nil {
		return token.Span{}
	}
	return rp.Span
}

// VariantPattern matches an enum variant: Some(x), None, Shape::Circle(r).
type VariantPattern struct {
	Token token.Token
	Span  token.Span
	Path  []string
	Args  []Pattern
}

func (vp *VariantPattern) Accept(v Visitor) { v.VisitVariantPattern(vp) }
func (vp *VariantPattern) patternNode() {}
func (vp *VariantPattern) TokenLiteral() string { return vp.Token.Lexeme }
func (vp *VariantPattern) GetToken() token.Token {
	if vp == nil {
		return token.Token{}
	}
	return vp.Token
}
func (vp *VariantPattern) GetSpan() token.Span {
	if vp == nil {
		return token.Span{}
	}
	return vp.Span
}

// Name is the variant name without its enum prefix.
func (vp *VariantPattern) Name() string {
	if len(vp.Path) == 0 {
		return ""
	}
	return vp.Path[len(vp.Path)-1]
}

// AtPattern is name @ inner.
type AtPattern struct {
	Token token.Token
	Span  token.Span
	Name  string
	Inner Pattern
}

func (ap *AtPattern) Accept(v Visitor) { v.VisitAtPattern(ap) }
func (ap *AtPattern) patternNode() {}
func (ap *AtPattern) TokenLiteral() string { return ap.Token.Lexeme }
func (ap *AtPattern) GetToken() token.Token {
	if ap == nil {
		return token.Token{}
	}
	return ap.Token
}
func (ap *AtPattern) GetSpan() token.Span {
	if ap == nil {
		return token.Span{}
	}
	return ap.Span
}

// OrPattern is p1 | p2; every alternative must bind the same names.
type OrPattern struct {
	Token        token.Token
	Span         token.Span
	Alternatives []Pattern
}

func (op *OrPattern) Accept(v Visitor) { v.VisitOrPattern(op) }
func (op *OrPattern) patternNode() {}
func (op *OrPattern) TokenLiteral() string { return op.Token.Lexeme }
func (op *OrPattern) GetToken() token.Token {
	if op == nil {
		return token.Token{}
	}
	return op.Token
}
func (op *OrPattern) GetSpan() token.Span {
	if op == nil {
		return token.Span{}
	}
	return op.Span
}
