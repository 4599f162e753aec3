package analyzer

import (
	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

func (ctx *InferenceContext) inferIf(n *ast.IfExpression, env *ts.TypeEnv) (ts.Type, error) {
	ct, err := ctx.infer(n.Condition, env)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n.Condition, ts.Bool, ct); err != nil {
		return nil, err
	}
	then, err := ctx.inferBlock(n.Consequence, env)
	if err != nil {
		return nil, err
	}
	if n.Alternative == nil {
		// A missing else yields nil at runtime.
		if ts.Equal(ctx.apply(then), ts.Unit) {
			return ts.Unit, nil
		}
		return ts.Any, nil
	}
	alt, err := ctx.infer(n.Alternative, env)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n.Alternative, then, alt); err != nil {
		return nil, err
	}
	return ctx.apply(then), nil
}

func (ctx *InferenceContext) inferMatch(n *ast.MatchExpression, env *ts.TypeEnv) (ts.Type, error) {
	subject, err := ctx.infer(n.Subject, env)
	if err != nil {
		return nil, err
	}
	if len(n.Arms) == 0 {
		return ts.Unit, nil
	}
	result := ts.Type(ctx.FreshVar())
	for _, arm := range n.Arms {
		armEnv := ts.NewEnclosedTypeEnv(env)
		if err := ctx.bindPattern(arm.Pattern, subject, armEnv); err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			gt, err := ctx.infer(arm.Guard, armEnv)
			if err != nil {
				return nil, err
			}
			if err := ctx.unify(arm.Guard, ts.Bool, gt); err != nil {
				return nil, err
			}
		}
		bt, err := ctx.infer(arm.Body, armEnv)
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(arm.Body, result, bt); err != nil {
			return nil, err
		}
	}
	return ctx.apply(result), nil
}

func (ctx *InferenceContext) pushLoop(label string, breakable bool) *loopFrame {
	f := &loopFrame{label: label, result: ctx.FreshVar(), breakable: breakable}
	ctx.loops = append(ctx.loops, f)
	return f
}

func (ctx *InferenceContext) popLoop() {
	ctx.loops = ctx.loops[:len(ctx.loops)-1]
}

func (ctx *InferenceContext) findLoop(label string) *loopFrame {
	for i := len(ctx.loops) - 1; i >= 0; i-- {
		if label == "" || ctx.loops[i].label == label {
			return ctx.loops[i]
		}
	}
	return nil
}

func (ctx *InferenceContext) inferWhile(n *ast.WhileExpression, env *ts.TypeEnv) (ts.Type, error) {
	ct, err := ctx.infer(n.Condition, env)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n.Condition, ts.Bool, ct); err != nil {
		return nil, err
	}
	ctx.pushLoop(n.Label, false)
	defer ctx.popLoop()
	if _, err := ctx.inferBlock(n.Body, env); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferFor(n *ast.ForExpression, env *ts.TypeEnv) (ts.Type, error) {
	it, err := ctx.infer(n.Iterable, env)
	if err != nil {
		return nil, err
	}
	bodyEnv := ts.NewEnclosedTypeEnv(env)
	if err := ctx.bindPattern(n.Pattern, ctx.elementType(it), bodyEnv); err != nil {
		return nil, err
	}
	ctx.pushLoop(n.Label, false)
	defer ctx.popLoop()
	if _, err := ctx.inferBlock(n.Body, bodyEnv); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferLoop(n *ast.LoopExpression, env *ts.TypeEnv) (ts.Type, error) {
	frame := ctx.pushLoop(n.Label, true)
	defer ctx.popLoop()
	if _, err := ctx.inferBlock(n.Body, env); err != nil {
		return nil, err
	}
	if frame.hasValue {
		return ctx.apply(frame.result), nil
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferBreak(n *ast.BreakExpression, env *ts.TypeEnv) (ts.Type, error) {
	if n.Value != nil {
		vt, err := ctx.infer(n.Value, env)
		if err != nil {
			return nil, err
		}
		if frame := ctx.findLoop(n.Label); frame != nil && frame.breakable {
			if err := ctx.unify(n.Value, frame.result, vt); err != nil {
				return nil, err
			}
			frame.hasValue = true
		}
	}
	return ctx.FreshVar(), nil
}

func (ctx *InferenceContext) inferReturn(n *ast.ReturnExpression, env *ts.TypeEnv) (ts.Type, error) {
	var vt ts.Type = ts.Unit
	if n.Value != nil {
		var err error
		if vt, err = ctx.infer(n.Value, env); err != nil {
			return nil, err
		}
	}
	if len(ctx.returns) > 0 {
		if err := ctx.unify(n, ctx.returns[len(ctx.returns)-1], vt); err != nil {
			return nil, err
		}
	}
	return ctx.FreshVar(), nil
}

func (ctx *InferenceContext) inferAssign(n *ast.AssignExpression, env *ts.TypeEnv) (ts.Type, error) {
	target, err := ctx.infer(n.Target, env)
	if err != nil {
		return nil, err
	}
	vt, err := ctx.infer(n.Value, env)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n.Value, target, vt); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferCompoundAssign(n *ast.CompoundAssignExpression, env *ts.TypeEnv) (ts.Type, error) {
	target, err := ctx.infer(n.Target, env)
	if err != nil {
		return nil, err
	}
	vt, err := ctx.infer(n.Value, env)
	if err != nil {
		return nil, err
	}
	rt, err := ctx.binaryType(n, n.Operator, target, vt)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n, target, rt); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferTryCatch(n *ast.TryCatchExpression, env *ts.TypeEnv) (ts.Type, error) {
	bt, err := ctx.inferBlock(n.Body, env)
	if err != nil {
		return nil, err
	}
	if n.Handler != nil {
		handlerEnv := ts.NewEnclosedTypeEnv(env)
		if n.CatchPattern != nil {
			if err := ctx.bindPattern(n.CatchPattern, ts.Any, handlerEnv); err != nil {
				return nil, err
			}
		}
		ht, err := ctx.inferBlock(n.Handler, handlerEnv)
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(n.Handler, bt, ht); err != nil {
			return nil, err
		}
	}
	if n.Finally != nil {
		if _, err := ctx.inferBlock(n.Finally, env); err != nil {
			return nil, err
		}
	}
	return ctx.apply(bt), nil
}

// inferTryOperator types `e?`: the success payload of a Result or Option.
func (ctx *InferenceContext) inferTryOperator(n *ast.TryOperatorExpression, env *ts.TypeEnv) (ts.Type, error) {
	t, err := ctx.infer(n.Value, env)
	if err != nil {
		return nil, err
	}
	switch typ := t.(type) {
	case ts.TApp:
		switch ts.AppliedName(typ) {
		case ts.ResultName, ts.OptionName:
			return typ.Args[0], nil
		}
	case ts.TVar:
		return ctx.FreshVar(), nil
	case ts.TCon:
		if typ.Name == ts.AnyName {
			return ts.Any, nil
		}
	}
	return nil, inferError(n.Value, &ts.TypeError{Kind: ts.TypeMismatch, Expected: ts.Result(ctx.FreshVar(), ctx.FreshVar()), Found: t})
}

func (ctx *InferenceContext) inferRange(n *ast.RangeExpression, env *ts.TypeEnv) (ts.Type, error) {
	if n.Start == nil && n.End == nil {
		return ts.RangeOf(ts.Int), nil
	}
	elem := ts.Type(ctx.FreshVar())
	for _, bound := range []ast.Expression{n.Start, n.End} {
		if bound == nil {
			continue
		}
		bt, err := ctx.infer(bound, env)
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(bound, elem, bt); err != nil {
			return nil, err
		}
	}
	return ts.RangeOf(ctx.apply(elem)), nil
}

// elementType is the type a for loop or comprehension binds per iteration.
func (ctx *InferenceContext) elementType(t ts.Type) ts.Type {
	t = deref(ctx.apply(t))
	switch typ := t.(type) {
	case ts.TApp:
		switch ts.AppliedName(typ) {
		case ts.ListName, ts.RangeName, ts.SetName, ts.SeriesName, ts.OptionName:
			return typ.Args[0]
		case ts.DictName:
			return ts.TTuple{Elements: []ts.Type{typ.Args[0], typ.Args[1]}}
		}
	case ts.TCon:
		switch typ.Name {
		case ts.StringName:
			return ts.String
		case ts.AnyName:
			return ts.Any
		}
	case ts.TRecord:
		return ts.TTuple{Elements: []ts.Type{ts.String, ts.Any}}
	case ts.TDataFrame:
		return ts.Any
	}
	return ctx.FreshVar()
}

func (ctx *InferenceContext) inferComprehension(n *ast.ComprehensionExpression, env *ts.TypeEnv) (ts.Type, error) {
	scope := env
	for _, clause := range n.Clauses {
		it, err := ctx.infer(clause.Iterable, scope)
		if err != nil {
			return nil, err
		}
		scope = ts.NewEnclosedTypeEnv(scope)
		if err := ctx.bindPattern(clause.Pattern, ctx.elementType(it), scope); err != nil {
			return nil, err
		}
		for _, cond := range clause.Conditions {
			ct, err := ctx.infer(cond, scope)
			if err != nil {
				return nil, err
			}
			if err := ctx.unify(cond, ts.Bool, ct); err != nil {
				return nil, err
			}
		}
	}
	elem, err := ctx.infer(n.Element, scope)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case ast.SetComprehension:
		return ts.SetOf(elem), nil
	case ast.DictComprehension:
		key, err := ctx.infer(n.Key, scope)
		if err != nil {
			return nil, err
		}
		return ts.Dict(key, ctx.apply(elem)), nil
	}
	return ts.List(elem), nil
}
