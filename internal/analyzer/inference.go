package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// Infer infers the type of node under env with a fresh context.
func Infer(node ast.Expression, env *ts.TypeEnv) (ts.Type, ts.Subst, error) {
	ctx := NewInferenceContext()
	ctx.gen.Reserve(maxTVarNumber(env))
	return ctx.Infer(node, env)
}

// Infer returns the type of node with the accumulated substitution applied,
// together with that substitution.
func (ctx *InferenceContext) Infer(node ast.Expression, env *ts.TypeEnv) (ts.Type, ts.Subst, error) {
	t, err := ctx.infer(node, env)
	if err != nil {
		return nil, nil, err
	}
	return t, ctx.subst, nil
}

func (ctx *InferenceContext) infer(node ast.Expression, env *ts.TypeEnv) (ts.Type, error) {
	t, err := ctx.inferNode(node, env)
	if err != nil {
		return nil, inferError(node, err)
	}
	return ctx.apply(t), nil
}

func (ctx *InferenceContext) inferNode(node ast.Expression, env *ts.TypeEnv) (ts.Type, error) {
	switch n := node.(type) {
	case nil:
		return ts.Unit, nil
	case *ast.IntegerLiteral:
		switch ts.Aliases[n.Suffix] {
		case ts.FloatName:
			return ts.Float, nil
		case ts.ByteName:
			return ts.Byte, nil
		}
		return ts.Int, nil
	case *ast.FloatLiteral:
		return ts.Float, nil
	case *ast.StringLiteral:
		return ts.String, nil
	case *ast.CharLiteral:
		return ts.Char, nil
	case *ast.ByteLiteral:
		return ts.Byte, nil
	case *ast.BooleanLiteral:
		return ts.Bool, nil
	case *ast.AtomLiteral:
		return ts.Atom, nil
	case *ast.NullLiteral:
		return ts.Any, nil
	case *ast.UnitLiteral:
		return ts.Unit, nil
	case *ast.InterpolatedString:
		for _, part := range n.Parts {
			if _, err := ctx.infer(part, env); err != nil {
				return nil, err
			}
		}
		return ts.String, nil
	case *ast.Identifier:
		return ctx.inferIdentifier(n, env)
	case *ast.PathExpression:
		return ctx.inferPath(n, env)
	case *ast.PrefixExpression:
		return ctx.inferPrefix(n, env)
	case *ast.InfixExpression:
		return ctx.inferInfix(n, env)
	case *ast.LetExpression:
		return ctx.inferLet(n, env)
	case *ast.BlockExpression:
		return ctx.inferBlock(n, env)

	case *ast.IfExpression:
		return ctx.inferIf(n, env)
	case *ast.MatchExpression:
		return ctx.inferMatch(n, env)
	case *ast.WhileExpression:
		return ctx.inferWhile(n, env)
	case *ast.ForExpression:
		return ctx.inferFor(n, env)
	case *ast.LoopExpression:
		return ctx.inferLoop(n, env)
	case *ast.BreakExpression:
		return ctx.inferBreak(n, env)
	case *ast.ContinueExpression:
		return ctx.FreshVar(), nil
	case *ast.ReturnExpression:
		return ctx.inferReturn(n, env)
	case *ast.AssignExpression:
		return ctx.inferAssign(n, env)
	case *ast.CompoundAssignExpression:
		return ctx.inferCompoundAssign(n, env)
	case *ast.TryCatchExpression:
		return ctx.inferTryCatch(n, env)
	case *ast.ThrowExpression:
		if _, err := ctx.infer(n.Value, env); err != nil {
			return nil, err
		}
		return ctx.FreshVar(), nil
	case *ast.TryOperatorExpression:
		return ctx.inferTryOperator(n, env)
	case *ast.AwaitExpression:
		t, err := ctx.infer(n.Value, env)
		if err != nil {
			return nil, err
		}
		if app, ok := t.(ts.TApp); ok && ts.AppliedName(app) == ts.FutureName {
			return app.Args[0], nil
		}
		return t, nil
	case *ast.AsyncExpression:
		t, err := ctx.inferBlock(n.Body, env)
		if err != nil {
			return nil, err
		}
		return ts.Future(t), nil
	case *ast.ComprehensionExpression:
		return ctx.inferComprehension(n, env)

	case *ast.FunctionLiteral:
		return ctx.inferFunction(&funcSig{params: n.Parameters, ret: n.ReturnType, body: n.Body, async: n.IsAsync}, env)
	case *ast.NamedArgument:
		return ctx.infer(n.Value, env)
	case *ast.CallExpression:
		return ctx.inferCall(n, env)
	case *ast.MethodCallExpression:
		return ctx.inferMethodCall(n, env)
	case *ast.FieldAccessExpression:
		return ctx.inferFieldAccess(n, env)
	case *ast.IndexExpression:
		return ctx.inferIndex(n, env)
	case *ast.RangeExpression:
		return ctx.inferRange(n, env)
	case *ast.ListLiteral:
		elem := ts.Type(ctx.FreshVar())
		for _, e := range n.Elements {
			t, err := ctx.infer(e, env)
			if err != nil {
				return nil, err
			}
			if err := ctx.unify(e, elem, t); err != nil {
				return nil, err
			}
		}
		return ts.List(elem), nil
	case *ast.TupleLiteral:
		if len(n.Elements) == 0 {
			return ts.Unit, nil
		}
		elems := make([]ts.Type, len(n.Elements))
		for i, e := range n.Elements {
			t, err := ctx.infer(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return ts.TTuple{Elements: elems}, nil
	case *ast.ObjectLiteral:
		fields := map[string]ts.Type{}
		for _, f := range n.Fields {
			t, err := ctx.infer(f.Value, env)
			if err != nil {
				return nil, err
			}
			fields[f.Key] = t
		}
		return ts.TRecord{Fields: fields}, nil
	case *ast.StructLiteral:
		return ctx.inferStructLiteral(n, env)
	case *ast.SpawnExpression:
		t, err := ctx.infer(n.Target, env)
		if err != nil {
			return nil, err
		}
		if tt, ok := t.(ts.TType); ok {
			return tt.Type, nil
		}
		return t, nil
	case *ast.SendExpression:
		if _, err := ctx.infer(n.Actor, env); err != nil {
			return nil, err
		}
		if _, err := ctx.infer(n.Message, env); err != nil {
			return nil, err
		}
		if n.Ask {
			return ctx.FreshVar(), nil
		}
		return ts.Unit, nil
	case *ast.CastExpression:
		if _, err := ctx.infer(n.Value, env); err != nil {
			return nil, err
		}
		return ctx.lowerType(n.Type, typeScope{})

	case *ast.FunctionDeclaration:
		return ctx.inferFunctionDecl(n, env)
	case *ast.StructDeclaration:
		return ctx.inferStructDecl(n, env)
	case *ast.ClassDeclaration:
		return ctx.inferClassDecl(n, env)
	case *ast.ActorDeclaration:
		return ctx.inferActorDecl(n, env)
	case *ast.EnumDeclaration:
		return ctx.inferEnumDecl(n, env)
	case *ast.ImplBlock:
		return ctx.inferImpl(n, env)
	case *ast.UseDeclaration:
		return ctx.inferUse(n, env)
	case *ast.ModuleDeclaration:
		return ctx.inferModule(n, env)
	}
	return ctx.FreshVar(), nil
}

func isCapitalized(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func (ctx *InferenceContext) inferIdentifier(n *ast.Identifier, env *ts.TypeEnv) (ts.Type, error) {
	if s, ok := env.Lookup(n.Value); ok {
		return ctx.instantiate(s), nil
	}
	// Unknown capitalized names evaluate to tags; `_` names are REPL history.
	if isCapitalized(n.Value) || strings.HasPrefix(n.Value, "_") {
		return ts.Any, nil
	}
	return nil, inferError(n, ts.NewUnboundNameError(n.Value))
}

func (ctx *InferenceContext) inferPath(n *ast.PathExpression, env *ts.TypeEnv) (ts.Type, error) {
	key := strings.Join(n.Segments, "::")
	if s, ok := env.Lookup(key); ok {
		return ctx.instantiate(s), nil
	}
	if len(n.Segments) == 2 {
		if ti, ok := ctx.types[n.Segments[0]]; ok && ti.Kind == kindEnum {
			return nil, inferErrorf(n, ts.UnknownMethod, "no variant %s in enum %s", n.Segments[1], ti.Name)
		}
	}
	return ts.Any, nil
}

func (ctx *InferenceContext) inferPrefix(n *ast.PrefixExpression, env *ts.TypeEnv) (ts.Type, error) {
	rt, err := ctx.infer(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-", "+":
		if err := ctx.requireNumeric(n.Right, rt); err != nil {
			return nil, err
		}
		return rt, nil
	case "!":
		if err := ctx.unify(n.Right, ts.Bool, rt); err != nil {
			return nil, err
		}
		return ts.Bool, nil
	case "~":
		if err := ctx.unify(n.Right, ts.Int, rt); err != nil {
			return nil, err
		}
		return ts.Int, nil
	case "&", "&mut":
		return ts.Reference(rt), nil
	case "*":
		return deref(rt), nil
	}
	return nil, inferErrorf(n, ts.UnifyError, "unknown prefix operator %s", n.Operator)
}

func (ctx *InferenceContext) inferInfix(n *ast.InfixExpression, env *ts.TypeEnv) (ts.Type, error) {
	if n.Operator == "|>" {
		return ctx.inferPipe(n, env)
	}
	lt, err := ctx.infer(n.Left, env)
	if err != nil {
		return nil, err
	}
	rt, err := ctx.infer(n.Right, env)
	if err != nil {
		return nil, err
	}
	return ctx.binaryType(n, n.Operator, lt, rt)
}

// binaryType types `l op r`. Arithmetic is strict: both sides unify and
// must be numeric; `+` also covers strings and lists.
func (ctx *InferenceContext) binaryType(node ast.Node, op string, l, r ts.Type) (ts.Type, error) {
	switch op {
	case "+":
		if err := ctx.unify(node, l, r); err != nil {
			return nil, err
		}
		t := ctx.apply(l)
		if !addable(t) {
			return nil, inferError(node, &ts.TypeError{Kind: ts.TypeMismatch, Expected: ts.Int, Found: t})
		}
		return t, nil
	case "-", "*", "/", "%", "**":
		if op == "*" && ts.Equal(ctx.apply(l), ts.String) && ts.Equal(ctx.apply(r), ts.Int) {
			return ts.String, nil
		}
		if err := ctx.unify(node, l, r); err != nil {
			return nil, err
		}
		t := ctx.apply(l)
		if err := ctx.requireNumeric(node, t); err != nil {
			return nil, err
		}
		return t, nil
	case "==", "!=", "<", ">", "<=", ">=":
		if err := ctx.unify(node, l, r); err != nil {
			return nil, err
		}
		return ts.Bool, nil
	case "&&", "||":
		if err := ctx.unify(node, ts.Bool, l); err != nil {
			return nil, err
		}
		if err := ctx.unify(node, ts.Bool, r); err != nil {
			return nil, err
		}
		return ts.Bool, nil
	case "&", "|", "^", "<<", ">>":
		if err := ctx.unify(node, ts.Int, l); err != nil {
			return nil, err
		}
		if err := ctx.unify(node, ts.Int, r); err != nil {
			return nil, err
		}
		return ts.Int, nil
	case "in":
		return ts.Bool, nil
	case "??":
		if err := ctx.unify(node, l, r); err != nil {
			return nil, err
		}
		return ctx.apply(l), nil
	}
	return nil, inferErrorf(node, ts.UnifyError, "unknown operator %s", op)
}

func addable(t ts.Type) bool {
	switch t := t.(type) {
	case ts.TVar:
		return true
	case ts.TCon:
		switch t.Name {
		case ts.IntName, ts.FloatName, ts.StringName, ts.AnyName:
			return true
		}
	case ts.TApp:
		name := ts.AppliedName(t)
		return name == ts.ListName || name == ts.SeriesName
	}
	return false
}

func (ctx *InferenceContext) requireNumeric(node ast.Node, t ts.Type) error {
	t = ctx.apply(t)
	switch t := t.(type) {
	case ts.TVar:
		return nil
	case ts.TCon:
		if t.Name == ts.AnyName || ts.IsNumeric(t) {
			return nil
		}
	case ts.TApp:
		if ts.AppliedName(t) == ts.SeriesName {
			return nil
		}
	}
	return inferError(node, &ts.TypeError{Kind: ts.TypeMismatch, Expected: ts.Int, Found: t})
}

// deref strips one reference layer.
func deref(t ts.Type) ts.Type {
	if app, ok := t.(ts.TApp); ok && ts.AppliedName(app) == ts.RefName {
		return app.Args[0]
	}
	return t
}

func (ctx *InferenceContext) inferLet(n *ast.LetExpression, env *ts.TypeEnv) (ts.Type, error) {
	vt, err := ctx.infer(n.Value, env)
	if err != nil {
		return nil, err
	}
	if n.Type != nil {
		ann, err := ctx.lowerType(n.Type, typeScope{})
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(n.Value, ann, vt); err != nil {
			return nil, err
		}
		vt = ctx.apply(ann)
	}

	target := env
	if n.Body != nil {
		target = ts.NewEnclosedTypeEnv(env)
	}
	if ip, ok := n.Pattern.(*ast.IdentifierPattern); ok {
		scheme := ts.Mono(vt)
		if _, isFn := n.Value.(*ast.FunctionLiteral); isFn {
			scheme = ctx.generalize(env, vt)
		}
		target.Set(ip.Name, scheme)
	} else if err := ctx.bindPattern(n.Pattern, vt, target); err != nil {
		return nil, err
	}

	if n.Body != nil {
		return ctx.infer(n.Body, target)
	}
	return vt, nil
}

func (ctx *InferenceContext) inferBlock(n *ast.BlockExpression, env *ts.TypeEnv) (ts.Type, error) {
	if n == nil {
		return ts.Unit, nil
	}
	return ctx.inferForms(n.Expressions, ts.NewEnclosedTypeEnv(env))
}

// inferForms infers a sequence, returning the type of the last form.
func (ctx *InferenceContext) inferForms(forms []ast.Expression, env *ts.TypeEnv) (ts.Type, error) {
	ctx.predeclare(forms, env)
	var last ts.Type = ts.Unit
	for _, f := range forms {
		t, err := ctx.infer(f, env)
		if err != nil {
			return nil, err
		}
		last = t
	}
	return last, nil
}

// predeclare binds every free function declared in forms to a fresh
// variable so calls may precede the definition.
func (ctx *InferenceContext) predeclare(forms []ast.Expression, env *ts.TypeEnv) {
	for _, f := range forms {
		if fd, ok := f.(*ast.FunctionDeclaration); ok && fd.Name != "" && fd.Receiver == ast.ReceiverNone {
			env.Set(fd.Name, ts.Mono(ctx.FreshVar()))
		}
	}
}

// maxTVarNumber finds the highest tN variable mentioned in env so a new
// context does not reuse names.
func maxTVarNumber(env *ts.TypeEnv) int {
	if env == nil {
		return 0
	}
	highest := 0
	check := func(v ts.TVar) {
		var num int
		if _, err := fmt.Sscanf(v.Name, "t%d", &num); err == nil && num > highest {
			highest = num
		}
	}
	for _, name := range env.Names() {
		s, _ := env.Lookup(name)
		for _, v := range s.Vars {
			check(v)
		}
		for _, v := range ts.FreeVars(s.Type) {
			check(v)
		}
	}
	return highest
}
