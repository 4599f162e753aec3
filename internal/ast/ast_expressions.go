package ast

import (
	"github.com/funvibe/ruchy/internal/token"
)

type PrefixExpression struct {
	Token    token.Token
	Span     token.Span
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor) { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PrefixExpression) GetSpan() token.Span {
	if pe == nil {
		return token.Span{}
	}
	return pe.Span
}

type InfixExpression struct {
	Token    token.Token
	Span     token.Span
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor) { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode() {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *InfixExpression) GetSpan() token.Span {
	if ie == nil {
		return token.Span{}
	}
	return ie.Span
}

// LetExpression binds Pattern to Value. With Body set it is the scoped
// form `let p = v in body`; otherwise it binds into the enclosing frame.
type LetExpression struct {
	Token   token.Token
	Span    token.Span
	Pattern Pattern
	Mutable bool
	Type    TypeExpr
	Value   Expression
	Body    Expression
}

func (le *LetExpression) Accept(v Visitor) { v.VisitLetExpression(le) }
func (le *LetExpression) expressionNode() {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LetExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LetExpression) GetSpan() token.Span {
	if le == nil {
		return token.Span{}
	}
	return le.Span
}

// BlockExpression evaluates to its last expression, or unit when empty.
type BlockExpression struct {
	Token       token.Token
	Span        token.Span
	Expressions []Expression
}

func (be *BlockExpression) Accept(v Visitor) { v.VisitBlockExpression(be) }
func (be *BlockExpression) expressionNode() {}
func (be *BlockExpression) TokenLiteral() string { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}
func (be *BlockExpression) GetSpan() token.Span {
	if be == nil {
		return token.Span{}
	}
	return be.Span
}

type IfExpression struct {
	Token       token.Token
	Span        token.Span
	Condition   Expression
	Consequence *BlockExpression
	Alternative Expression // *BlockExpression, *IfExpression or nil
}

func (ie *IfExpression) Accept(v Visitor) { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode() {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IfExpression) GetSpan() token.Span {
	if ie == nil {
		return token.Span{}
	}
	return ie.Span
}

type MatchArm struct {
	Token   token.Token
	Span    token.Span
	Pattern Pattern
	Guard   Expression
	Body    Expression
}

func (ma *MatchArm) Accept(v Visitor) { v.VisitMatchArm(ma) }
func (ma *MatchArm) TokenLiteral() string { return ma.Token.Lexeme }
func (ma *MatchArm) GetToken() token.Token {
	if ma == nil {
		return token.Token{}
	}
	return ma.Token
}
func (ma *MatchArm) GetSpan() token.Span {
	if ma == nil {
		return token.Span{}
	}
	return ma.Span
}

type MatchExpression struct {
	Token   token.Token
	Span    token.Span
	Subject Expression
	Arms    []*MatchArm
}

func (me *MatchExpression) Accept(v Visitor) { v.VisitMatchExpression(me) }
func (me *MatchExpression) expressionNode() {}
func (me *MatchExpression) TokenLiteral() string { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token {
	if me == nil {
		return token.Token{}
	}
	return me.Token
}
func (me *MatchExpression) GetSpan() token.Span {
	if me == nil {
		return token.Span{}
	}
	return me.Span
}

type WhileExpression struct {
	Token     token.Token
	Span      token.Span
	Label     string
	Condition Expression
	Body      *BlockExpression
}

func (we *WhileExpression) Accept(v Visitor) { v.VisitWhileExpression(we) }
func (we *WhileExpression) expressionNode() {}
func (we *WhileExpression) TokenLiteral() string { return we.Token.Lexeme }
func (we *WhileExpression) GetToken() token.Token {
	if we == nil {
		return token.Token{}
	}
	return we.Token
}
func (we *WhileExpression) GetSpan() token.Span {
	if we == nil {
		return token.Span{}
	}
	return we.Span
}

type ForExpression struct {
	Token    token.Token
	Span     token.Span
	Label    string
	Pattern  Pattern
	Iterable Expression
	Body     *BlockExpression
}

func (fe *ForExpression) Accept(v Visitor) { v.VisitForExpression(fe) }
func (fe *ForExpression) expressionNode() {}
func (fe *ForExpression) TokenLiteral() string { return fe.Token.Lexeme }
func (fe *ForExpression) GetToken() token.Token {
	if fe == nil {
		return token.Token{}
	}
	return fe.Token
}
func (fe *ForExpression) GetSpan() token.Span {
	if fe == nil {
		return token.Span{}
	}
	return fe.Span
}

type LoopExpression struct {
	Token token.Token
	Span  token.Span
	Label string
	Body  *BlockExpression
}

func (le *LoopExpression) Accept(v Visitor) { v.VisitLoopExpression(le) }
func (le *LoopExpression) expressionNode() {}
func (le *LoopExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LoopExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LoopExpression) GetSpan() token.Span {
	if le == nil {
		return token.Span{}
	}
	return le.Span
}

type BreakExpression struct {
	Token token.Token
	Span  token.Span
	Label string
	Value Expression
}

func (be *BreakExpression) Accept(v Visitor) { v.VisitBreakExpression(be) }
func (be *BreakExpression) expressionNode() {}
func (be *BreakExpression) TokenLiteral() string { return be.Token.Lexeme }
func (be *BreakExpression) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}
func (be *BreakExpression) GetSpan() token.Span {
	if be == nil {
		return token.Span{}
	}
	return be.Span
}

type ContinueExpression struct {
	Token token.Token
	Span  token.Span
	Label string
}

func (ce *ContinueExpression) Accept(v Visitor) { v.VisitContinueExpression(ce) }
func (ce *ContinueExpression) expressionNode() {}
func (ce *ContinueExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *ContinueExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *ContinueExpression) GetSpan() token.Span {
	if ce == nil {
		return token.Span{}
	}
	return ce.Span
}

type ReturnExpression struct {
	Token token.Token
	Span  token.Span
	Value Expression
}

func (re *ReturnExpression) Accept(v Visitor) { v.VisitReturnExpression(re) }
func (re *ReturnExpression) expressionNode() {}
func (re *ReturnExpression) TokenLiteral() string { return re.Token.Lexeme }
func (re *ReturnExpression) GetToken() token.Token {
	if re == nil {
		return token.Token{}
	}
	return re.Token
}
func (re *ReturnExpression) GetSpan() token.Span {
	if re == nil {
		return token.Span{}
	}
	return re.Span
}

type AssignExpression struct {
	Token  token.Token
	Span   token.Span
	Target Expression
	Value  Expression
}

func (ae *AssignExpression) Accept(v Visitor) { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode() {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AssignExpression) GetSpan() token.Span {
	if ae == nil {
		return token.Span{}
	}
	return ae.Span
}

// CompoundAssignExpression is `target op= value`; Operator is the binary
// operator without the trailing '='.
type CompoundAssignExpression struct {
	Token    token.Token
	Span     token.Span
	Target   Expression
	Operator string
	Value    Expression
}

func (cae *CompoundAssignExpression) Accept(v Visitor) { v.VisitCompoundAssignExpression(cae) }
func (cae *CompoundAssignExpression) expressionNode() {}
func (cae *CompoundAssignExpression) TokenLiteral() string { return cae.Token.Lexeme }
func (cae *CompoundAssignExpression) GetToken() token.Token {
	if cae == nil {
		return token.Token{}
	}
	return cae.Token
}
func (cae *CompoundAssignExpression) GetSpan() token.Span {
	if cae == nil {
		return token.Span{}
	}
	return cae.Span
}

// Parameter keeps its default value unevaluated; it runs at call time.
type Parameter struct {
	Token   token.Token
	Span    token.Span
	Name    string
	Type    TypeExpr
	Default Expression
	Mutable bool
}

func (p *Parameter) Accept(v Visitor) { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}
func (p *Parameter) GetSpan() token.Span {
	if p == nil {
		return token.Span{}
	}
	return p.Span
}

// FunctionLiteral is an anonymous function: |x| x + 1, x => x + 1, fn(x) { x }.
type FunctionLiteral struct {
	Token      token.Token
	Span       token.Span
	Parameters []*Parameter
	ReturnType TypeExpr
	Body       Expression
	IsAsync    bool
}

func (fl *FunctionLiteral) Accept(v Visitor) { v.VisitFunctionLiteral(fl) }
func (fl *FunctionLiteral) expressionNode() {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}
func (fl *FunctionLiteral) GetSpan() token.Span {
	if fl == nil {
		return token.Span{}
	}
	return fl.Span
}

// NamedArgument is `name: value` inside a call argument list.
type NamedArgument struct {
	Token token.Token
	Span  token.Span
	Name  string
	Value Expression
}

func (na *NamedArgument) Accept(v Visitor) { v.VisitNamedArgument(na) }
func (na *NamedArgument) expressionNode() {}
func (na *NamedArgument) TokenLiteral() string { return na.Token.Lexeme }
func (na *NamedArgument) GetToken() token.Token {
	if na == nil {
		return token.Token{}
	}
	return na.Token
}
func (na *NamedArgument) GetSpan() token.Span {
	if na == nil {
		return token.Span{}
	}
	return na.Span
}

type CallExpression struct {
	Token     token.Token
	Span      token.Span
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor) { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) GetSpan() token.Span {
	if ce == nil {
		return token.Span{}
	}
	return ce.Span
}

type MethodCallExpression struct {
	Token     token.Token
	Span      token.Span
	Receiver  Expression
	Method    string
	Arguments []Expression
}

func (mce *MethodCallExpression) Accept(v Visitor) { v.VisitMethodCallExpression(mce) }
func (mce *MethodCallExpression) expressionNode() {}
func (mce *MethodCallExpression) TokenLiteral() string { return mce.Token.Lexeme }
func (mce *MethodCallExpression) GetToken() token.Token {
	if mce == nil {
		return token.Token{}
	}
	return mce.Token
}
func (mce *MethodCallExpression) GetSpan() token.Span {
	if mce == nil {
		return token.Span{}
	}
	return mce.Span
}

// FieldAccessExpression is obj.field; tuple indexing t.0 uses Field "0".
type FieldAccessExpression struct {
	Token  token.Token
	Span   token.Span
	Object Expression
	Field  string
}

func (fae *FieldAccessExpression) Accept(v Visitor) { v.VisitFieldAccessExpression(fae) }
func (fae *FieldAccessExpression) expressionNode() {}
func (fae *FieldAccessExpression) TokenLiteral() string { return fae.Token.Lexeme }
func (fae *FieldAccessExpression) GetToken() token.Token {
	if fae == nil {
		return token.Token{}
	}
	return fae.Token
}
func (fae *FieldAccessExpression) GetSpan() token.Span {
	if fae == nil {
		return token.Span{}
	}
	return fae.Span
}

type IndexExpression struct {
	Token token.Token
	Span  token.Span
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor) { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode() {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IndexExpression) GetSpan() token.Span {
	if ie == nil {
		return token.Span{}
	}
	return ie.Span
}

// PathExpression is a `::`-separated name such as Shape::Circle.
type PathExpression struct {
	Token    token.Token
	Span     token.Span
	Segments []string
}

func (pe *PathExpression) Accept(v Visitor) { v.VisitPathExpression(pe) }
func (pe *PathExpression) expressionNode() {}
func (pe *PathExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PathExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PathExpression) GetSpan() token.Span {
	if pe == nil {
		return token.Span{}
	}
	return pe.Span
}

type RangeExpression struct {
	Token     token.Token
	Span      token.Span
	Start     Expression
	End       Expression
	Inclusive bool
}

func (re *RangeExpression) Accept(v Visitor) { v.VisitRangeExpression(re) }
func (re *RangeExpression) expressionNode() {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Lexeme }
func (re *RangeExpression) GetToken() token.Token {
	if re == nil {
		return token.Token{}
	}
	return re.Token
}
func (re *RangeExpression) GetSpan() token.Span {
	if re == nil {
		return token.Span{}
	}
	return re.Span
}

type ListLiteral struct {
	Token    token.Token
	Span     token.Span
	Elements []Expression
}

func (ll *ListLiteral) Accept(v Visitor) { v.VisitListLiteral(ll) }
func (ll *ListLiteral) expressionNode() {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token {
	if ll == nil {
		return token.Token{}
	}
	return ll.Token
}
func (ll *ListLiteral) GetSpan() token.Span {
	if ll == nil {
		return token.Span{}
	}
	return ll.Span
}

type TupleLiteral struct {
	Token    token.Token
	Span     token.Span
	Elements []Expression
}

func (tl *TupleLiteral) Accept(v Visitor) { v.VisitTupleLiteral(tl) }
func (tl *TupleLiteral) expressionNode() {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token {
	if tl == nil {
		return token.Token{}
	}
	return tl.Token
}
func (tl *TupleLiteral) GetSpan() token.Span {
	if tl == nil {
		return token.Span{}
	}
	return tl.Span
}

type ObjectField struct {
	Token token.Token
	Span  token.Span
	Key   string
	Value Expression
}

func (of *ObjectField) Accept(v Visitor) { v.VisitObjectField(of) }
func (of *ObjectField) TokenLiteral() string { return of.Token.Lexeme }
func (of *ObjectField) GetToken() token.Token {
	if of == nil {
		return token.Token{}
	}
	return of.Token
}
func (of *ObjectField) GetSpan() token.Span {
	if of == nil {
		return token.Span{}
	}
	return of.Span
}

// ObjectLiteral is an anonymous record {k: v}.
type ObjectLiteral struct {
	Token  token.Token
	Span   token.Span
	Fields []*ObjectField
}

func (ol *ObjectLiteral) Accept(v Visitor) { v.VisitObjectLiteral(ol) }
func (ol *ObjectLiteral) expressionNode() {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Lexeme }
func (ol *ObjectLiteral) GetToken() token.Token {
	if ol == nil {
		return token.Token{}
	}
	return ol.Token
}
func (ol *ObjectLiteral) GetSpan() token.Span {
	if ol == nil {
		return token.Span{}
	}
	return ol.Span
}

// StructLiteral is Name { field: value, ..base }.
type StructLiteral struct {
	Token  token.Token
	Span   token.Span
	Name   string
	Fields []*ObjectField
	Base   Expression
}

func (sl *StructLiteral) Accept(v Visitor) { v.VisitStructLiteral(sl) }
func (sl *StructLiteral) expressionNode() {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StructLiteral) GetSpan() token.Span {
	if sl == nil {
		return token.Span{}
	}
	return sl.Span
}

type TryCatchExpression struct {
	Token        token.Token
	Span         token.Span
	Body         *BlockExpression
	CatchPattern Pattern
	Handler      *BlockExpression
	Finally      *BlockExpression
}

func (tce *TryCatchExpression) Accept(v Visitor) { v.VisitTryCatchExpression(tce) }
func (tce *TryCatchExpression) expressionNode() {}
func (tce *TryCatchExpression) TokenLiteral() string { return tce.Token.Lexeme }
func (tce *TryCatchExpression) GetToken() token.Token {
	if tce == nil {
		return token.Token{}
	}
	return tce.Token
}
func (tce *TryCatchExpression) GetSpan() token.Span {
	if tce == nil {
		return token.Span{}
	}
	return tce.Span
}

type ThrowExpression struct {
	Token token.Token
	Span  token.Span
	Value Expression
}

func (te *ThrowExpression) Accept(v Visitor) { v.VisitThrowExpression(te) }
func (te *ThrowExpression) expressionNode() {}
func (te *ThrowExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *ThrowExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}
func (te *ThrowExpression) GetSpan() token.Span {
	if te == nil {
		return token.Span{}
	}
	return te.Span
}

// TryOperatorExpression is the postfix `expr?` early-return operator.
type TryOperatorExpression struct {
	Token token.Token
	Span  token.Span
	Value Expression
}

func (toe *TryOperatorExpression) Accept(v Visitor) { v.VisitTryOperatorExpression(toe) }
func (toe *TryOperatorExpression) expressionNode() {}
func (toe *TryOperatorExpression) TokenLiteral() string { return toe.Token.Lexeme }
func (toe *TryOperatorExpression) GetToken() token.Token {
	if toe == nil {
		return token.Token{}
	}
	return toe.Token
}
func (toe *TryOperatorExpression) GetSpan() token.Span {
	if toe == nil {
		return token.Span{}
	}
	return toe.Span
}

type AwaitExpression struct {
	Token token.Token
	Span  token.Span
	Value Expression
}

func (ae *AwaitExpression) Accept(v Visitor) { v.VisitAwaitExpression(ae) }
func (ae *AwaitExpression) expressionNode() {}
func (ae *AwaitExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AwaitExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AwaitExpression) GetSpan() token.Span {
	if ae == nil {
		return token.Span{}
	}
	return ae.Span
}

type AsyncExpression struct {
	Token token.Token
	Span  token.Span
	Body  *BlockExpression
}

func (ae *AsyncExpression) Accept(v Visitor) { v.VisitAsyncExpression(ae) }
func (ae *AsyncExpression) expressionNode() {}
func (ae *AsyncExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AsyncExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AsyncExpression) GetSpan() token.Span {
	if ae == nil {
		return token.Span{}
	}
	return ae.Span
}

type ComprehensionKind int

const (
	ListComprehension ComprehensionKind = iota
	SetComprehension
	DictComprehension
)

func (k ComprehensionKind) String() string {
	switch k {
	case SetComprehension:
		return "set"
	case DictComprehension:
		return "dict"
	}
	return "list"
}

// CompClause is one `for pattern in iterable if cond` clause.
type CompClause struct {
	Token      token.Token
	Span       token.Span
	Pattern    Pattern
	Iterable   Expression
	Conditions []Expression
}

func (cc *CompClause) Accept(v Visitor) { v.VisitCompClause(cc) }
func (cc *CompClause) TokenLiteral() string { return cc.Token.Lexeme }
func (cc *CompClause) GetToken() token.Token {
	if cc == nil {
		return token.Token{}
	}
	return cc.Token
}
func (cc *CompClause) GetSpan() token.Span {
	if cc == nil {
		return token.Span{}
	}
	return cc.Span
}

type ComprehensionExpression struct {
	Token   token.Token
	Span    token.Span
	Kind    ComprehensionKind
	Key     Expression // dict comprehensions only
	Element Expression
	Clauses []*CompClause
}

func (ce *ComprehensionExpression) Accept(v Visitor) { v.VisitComprehensionExpression(ce) }
func (ce *ComprehensionExpression) expressionNode() {}
func (ce *ComprehensionExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *ComprehensionExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *ComprehensionExpression) GetSpan() token.Span {
	if ce == nil {
		return token.Span{}
	}
	return ce.Span
}

type SpawnExpression struct {
	Token  token.Token
	Span   token.Span
	Target Expression
}

func (se *SpawnExpression) Accept(v Visitor) { v.VisitSpawnExpression(se) }
func (se *SpawnExpression) expressionNode() {}
func (se *SpawnExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SpawnExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SpawnExpression) GetSpan() token.Span {
	if se == nil {
		return token.Span{}
	}
	return se.Span
}

// SendExpression is `actor ! msg` or, with Ask set, `actor <? msg`.
type SendExpression struct {
	Token   token.Token
	Span    token.Span
	Actor   Expression
	Message Expression
	Ask     bool
}

func (se *SendExpression) Accept(v Visitor) { v.VisitSendExpression(se) }
func (se *SendExpression) expressionNode() {}
func (se *SendExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SendExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SendExpression) GetSpan() token.Span {
	if se == nil {
		return token.Span{}
	}
	return se.Span
}

// CastExpression is `value as Type`.
type CastExpression struct {
	Token token.Token
	Span  token.Span
	Value Expression
	Type  TypeExpr
}

func (ce *CastExpression) Accept(v Visitor) { v.VisitCastExpression(ce) }
func (ce *CastExpression) expressionNode() {}
func (ce *CastExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CastExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CastExpression) GetSpan() token.Span {
	if ce == nil {
		return token.Span{}
	}
	return ce.Span
}
