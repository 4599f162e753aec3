package ast

import "reflect"

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}
	addExprs := func(es []Expression) {
		for _, e := range es {
			add(e)
		}
	}
	addPats := func(ps []Pattern) {
		for _, p := range ps {
			add(p)
		}
	}
	addTypes := func(ts []TypeExpr) {
		for _, t := range ts {
			add(t)
		}
	}
	addParams := func(ps []*Parameter) {
		for _, p := range ps {
			add(p)
		}
	}
	addFields := func(fs []*FieldDecl) {
		for _, f := range fs {
			add(f)
		}
	}
	addFuncs := func(fs []*FunctionDeclaration) {
		for _, f := range fs {
			add(f)
		}
	}

	switch n := n.(type) {
	case *Program:
		addExprs(n.Forms)
	case *InterpolatedString:
		addExprs(n.Parts)
	case *PrefixExpression:
		add(n.Right)
	case *InfixExpression:
		add(n.Left, n.Right)
	case *LetExpression:
		add(n.Pattern, n.Type, n.Value, n.Body)
	case *BlockExpression:
		addExprs(n.Expressions)
	case *IfExpression:
		add(n.Condition, n.Consequence, n.Alternative)
	case *MatchArm:
		add(n.Pattern, n.Guard, n.Body)
	case *MatchExpression:
		add(n.Subject)
		for _, a := range n.Arms {
			add(a)
		}
	case *WhileExpression:
		add(n.Condition, n.Body)
	case *ForExpression:
		add(n.Pattern, n.Iterable, n.Body)
	case *LoopExpression:
		add(n.Body)
	case *BreakExpression:
		add(n.Value)
	case *ReturnExpression:
		add(n.Value)
	case *AssignExpression:
		add(n.Target, n.Value)
	case *CompoundAssignExpression:
		add(n.Target, n.Value)
	case *Parameter:
		add(n.Type, n.Default)
	case *FunctionLiteral:
		addParams(n.Parameters)
		add(n.ReturnType, n.Body)
	case *NamedArgument:
		add(n.Value)
	case *CallExpression:
		add(n.Function)
		addExprs(n.Arguments)
	case *MethodCallExpression:
		add(n.Receiver)
		addExprs(n.Arguments)
	case *FieldAccessExpression:
		add(n.Object)
	case *IndexExpression:
		add(n.Left, n.Index)
	case *RangeExpression:
		add(n.Start, n.End)
	case *ListLiteral:
		addExprs(n.Elements)
	case *TupleLiteral:
		addExprs(n.Elements)
	case *ObjectField:
		add(n.Value)
	case *ObjectLiteral:
		for _, f := range n.Fields {
			add(f)
		}
	case *StructLiteral:
		for _, f := range n.Fields {
			add(f)
		}
		add(n.Base)
	case *TryCatchExpression:
		add(n.Body, n.CatchPattern, n.Handler, n.Finally)
	case *ThrowExpression:
		add(n.Value)
	case *TryOperatorExpression:
		add(n.Value)
	case *AwaitExpression:
		add(n.Value)
	case *AsyncExpression:
		add(n.Body)
	case *CompClause:
		add(n.Pattern, n.Iterable)
		addExprs(n.Conditions)
	case *ComprehensionExpression:
		add(n.Key, n.Element)
		for _, c := range n.Clauses {
			add(c)
		}
	case *SpawnExpression:
		add(n.Target)
	case *SendExpression:
		add(n.Actor, n.Message)
	case *CastExpression:
		add(n.Value, n.Type)
	case *FunctionDeclaration:
		addParams(n.Parameters)
		add(n.ReturnType, n.Body)
	case *FieldDecl:
		add(n.Type, n.Default)
	case *StructDeclaration:
		addFields(n.Fields)
	case *ClassDeclaration:
		addFields(n.Fields)
		addFuncs(n.Constructors)
		addFuncs(n.Methods)
	case *ReceiveHandler:
		addParams(n.Parameters)
		add(n.Pattern, n.Body)
	case *ActorDeclaration:
		addFields(n.Fields)
		addFuncs(n.Constructors)
		for _, h := range n.Handlers {
			add(h)
		}
		addFuncs(n.Methods)
	case *EnumVariantDecl:
		addTypes(n.Fields)
		add(n.Discriminant)
	case *EnumDeclaration:
		for _, v := range n.Variants {
			add(v)
		}
	case *ImplBlock:
		addFuncs(n.Methods)
	case *UseDeclaration:
		for _, it := range n.Items {
			add(it)
		}
	case *ModuleDeclaration:
		add(n.Body)
	case *LiteralPattern:
		add(n.Value)
	case *TuplePattern:
		addPats(n.Elements)
	case *ListPattern:
		addPats(n.Elements)
	case *FieldPattern:
		add(n.Pattern)
	case *StructPattern:
		for _, f := range n.Fields {
			add(f)
		}
	case *RangePattern:
		add(n.Lo, n.Hi)
	case *ResultPattern:
		add(n.Inner)
	case *VariantPattern:
		addPats(n.Args)
	case *AtPattern:
		add(n.Inner)
	case *OrPattern:
		addPats(n.Alternatives)
	case *NamedType:
		addTypes(n.Args)
	case *FunctionType:
		addTypes(n.Params)
		add(n.Result)
	case *TupleType:
		addTypes(n.Elements)
	case *ArrayType:
		add(n.Elem)
	case *OptionalType:
		add(n.Inner)
	case *ReferenceType:
		add(n.Inner)
	}
	return out
}

// isNilNode catches typed nils such as an absent *BlockExpression.
func isNilNode(n Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Inspect walks the tree depth-first, calling f for every node. Returning
// false from f skips that node's children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// DeclaredNames lists the top-level names a program introduces.
func DeclaredNames(p *Program) []string {
	c := &declCollector{}
	for _, f := range p.Forms {
		f.Accept(c)
	}
	return c.names
}

type declCollector struct {
	BaseVisitor
	names []string
}

func (c *declCollector) VisitLetExpression(n *LetExpression) {
	if n.Body != nil {
		return
	}
	Inspect(n.Pattern, func(p Node) bool {
		switch p := p.(type) {
		case *IdentifierPattern:
			c.names = append(c.names, p.Name)
		case *AtPattern:
			c.names = append(c.names, p.Name)
		case *RestPattern:
			if p.Name != "" {
				c.names = append(c.names, p.Name)
			}
		case *FieldPattern:
			if p.Pattern == nil {
				c.names = append(c.names, p.Name)
			}
		}
		return true
	})
}

func (c *declCollector) VisitFunctionDeclaration(n *FunctionDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitStructDeclaration(n *StructDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitClassDeclaration(n *ClassDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitActorDeclaration(n *ActorDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitEnumDeclaration(n *EnumDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitModuleDeclaration(n *ModuleDeclaration) {
	c.names = append(c.names, n.Name)
}
func (c *declCollector) VisitUseDeclaration(n *UseDeclaration) {
	for _, it := range n.Items {
		if it.Alias != "" {
			c.names = append(c.names, it.Alias)
		} else {
			c.names = append(c.names, it.Name)
		}
	}
	if len(n.Items) == 0 && !n.Wildcard && len(n.Path) > 0 {
		c.names = append(c.names, n.Path[len(n.Path)-1])
	}
}
