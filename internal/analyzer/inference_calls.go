package analyzer

import (
	"strconv"

	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// funcSig is the common shape of lambdas, functions, methods and
// constructors.
type funcSig struct {
	params []*ast.Parameter
	ret    ast.TypeExpr
	body   ast.Expression
	async  bool
	self   ts.Type // receiver type, nil for free functions
	scope  typeScope
}

// inferFunction types a function body. With a receiver, self is bound in
// the body and becomes the first parameter of the result.
func (ctx *InferenceContext) inferFunction(sig *funcSig, env *ts.TypeEnv) (ts.Type, error) {
	fnEnv := ts.NewEnclosedTypeEnv(env)
	scope := sig.scope
	if scope == nil {
		scope = typeScope{}
	}

	var params []ts.Type
	if sig.self != nil {
		fnEnv.Set("self", ts.Mono(sig.self))
		params = append(params, sig.self)
	}
	defaults := 0
	for _, p := range sig.params {
		pt, err := ctx.lowerType(p.Type, scope)
		if err != nil {
			return nil, err
		}
		if p.Default != nil {
			dt, err := ctx.infer(p.Default, fnEnv)
			if err != nil {
				return nil, err
			}
			if err := ctx.unify(p.Default, pt, dt); err != nil {
				return nil, err
			}
			defaults++
		} else {
			defaults = 0
		}
		fnEnv.Set(p.Name, ts.Mono(pt))
		params = append(params, pt)
	}

	var ret ts.Type
	if sig.ret != nil {
		var err error
		if ret, err = ctx.lowerType(sig.ret, scope); err != nil {
			return nil, err
		}
	} else {
		ret = ctx.FreshVar()
	}

	ctx.returns = append(ctx.returns, ret)
	loops := ctx.loops
	ctx.loops = nil
	bt, err := ctx.infer(sig.body, fnEnv)
	ctx.loops = loops
	ctx.returns = ctx.returns[:len(ctx.returns)-1]
	if err != nil {
		return nil, err
	}
	if !ts.Equal(ctx.apply(ret), ts.Unit) || sig.ret == nil {
		if err := ctx.unify(sig.body, ret, bt); err != nil {
			return nil, err
		}
	}

	result := ctx.apply(ret)
	if sig.async {
		result = ts.Future(result)
	}
	return ctx.apply(ts.TFunc{Params: params, ReturnType: result, DefaultCount: defaults}), nil
}

func (ctx *InferenceContext) inferArgs(args []ast.Expression, env *ts.TypeEnv) ([]ts.Type, bool, error) {
	out := make([]ts.Type, 0, len(args))
	named := false
	for _, a := range args {
		if _, ok := a.(*ast.NamedArgument); ok {
			named = true
		}
		t, err := ctx.infer(a, env)
		if err != nil {
			return nil, false, err
		}
		out = append(out, t)
	}
	return out, named, nil
}

func (ctx *InferenceContext) inferCall(n *ast.CallExpression, env *ts.TypeEnv) (ts.Type, error) {
	ft, err := ctx.infer(n.Function, env)
	if err != nil {
		return nil, err
	}
	args, named, err := ctx.inferArgs(n.Arguments, env)
	if err != nil {
		return nil, err
	}
	return ctx.applyCall(n, ft, args, named, env)
}

// applyCall types a call of a value of type ft. Named arguments are
// matched at runtime, so only the result type is used for them.
func (ctx *InferenceContext) applyCall(node ast.Node, ft ts.Type, args []ts.Type, named bool, env *ts.TypeEnv) (ts.Type, error) {
	ft = deref(ctx.apply(ft))
	switch f := ft.(type) {
	case ts.TFunc:
		if named {
			return f.ReturnType, nil
		}
		if !f.Accepts(len(args)) {
			return nil, inferErrorf(node, ts.ArityMismatch,
				"arity mismatch: expected %d argument(s), found %d", len(f.Params), len(args))
		}
		for i, a := range args {
			var p ts.Type
			switch {
			case i < len(f.Params):
				p = f.Params[i]
			case f.IsVariadic && len(f.Params) > 0:
				p = f.Params[len(f.Params)-1]
			default:
				continue
			}
			if err := ctx.unify(node, p, a); err != nil {
				return nil, err
			}
		}
		return ctx.apply(f.ReturnType), nil

	case ts.TType:
		name := ts.AppliedName(f.Type)
		if s, ok := env.Lookup(name + "::new"); ok {
			return ctx.applyCall(node, ctx.instantiate(s), args, named, env)
		}
		return f.Type, nil

	case ts.TVar:
		ret := ctx.FreshVar()
		if err := ctx.unify(node, f, ts.TFunc{Params: args, ReturnType: ret}); err != nil {
			return nil, err
		}
		return ctx.apply(ret), nil

	case ts.TCon:
		if f.Name == ts.AnyName {
			return ts.Any, nil
		}
	}
	return nil, inferErrorf(node, ts.TypeMismatch, "%s is not callable", ft)
}

func (ctx *InferenceContext) inferPipe(n *ast.InfixExpression, env *ts.TypeEnv) (ts.Type, error) {
	lt, err := ctx.infer(n.Left, env)
	if err != nil {
		return nil, err
	}
	if call, ok := n.Right.(*ast.CallExpression); ok {
		ft, err := ctx.infer(call.Function, env)
		if err != nil {
			return nil, err
		}
		args, named, err := ctx.inferArgs(call.Arguments, env)
		if err != nil {
			return nil, err
		}
		return ctx.applyCall(n, ft, append([]ts.Type{lt}, args...), named, env)
	}
	ft, err := ctx.infer(n.Right, env)
	if err != nil {
		return nil, err
	}
	return ctx.applyCall(n, ft, []ts.Type{lt}, false, env)
}

func (ctx *InferenceContext) inferMethodCall(n *ast.MethodCallExpression, env *ts.TypeEnv) (ts.Type, error) {
	rt, err := ctx.infer(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, named, err := ctx.inferArgs(n.Arguments, env)
	if err != nil {
		return nil, err
	}
	return ctx.dispatch(n, deref(rt), n.Method, args, named, env)
}

// dispatch resolves recv.name(args): statics and module members first,
// then user methods, builtin method tables, function-valued fields, and
// finally a free function taking the receiver first.
func (ctx *InferenceContext) dispatch(node ast.Node, recv ts.Type, name string, args []ts.Type, named bool, env *ts.TypeEnv) (ts.Type, error) {
	if tt, ok := recv.(ts.TType); ok {
		if s, ok := env.Lookup(ts.AppliedName(tt.Type) + "::" + name); ok {
			return ctx.applyCall(node, ctx.instantiate(s), args, named, env)
		}
		return ctx.FreshVar(), nil
	}

	if ti, ok := ctx.types[ts.AppliedName(recv)]; ok {
		if s, ok := ti.Methods[name]; ok {
			return ctx.callMethod(node, ctx.instantiate(s), recv, args, named, env)
		}
		if f, ok := ti.field(name); ok {
			return ctx.applyCall(node, f.Type.Apply(ti.bindParams(recv)), args, named, env)
		}
	}

	if sig, ok := ctx.lookupBuiltinMethod(recv, name); ok {
		return ctx.applyCall(node, sig, args, named, env)
	}

	if rec, ok := recv.(ts.TRecord); ok {
		if ft, ok := rec.Fields[name]; ok {
			return ctx.applyCall(node, ft, args, named, env)
		}
	}

	if s, ok := env.Lookup(name); ok {
		if fn, ok := ctx.apply(ctx.instantiate(s)).(ts.TFunc); ok && fn.Accepts(len(args)+1) {
			return ctx.applyCall(node, fn, append([]ts.Type{recv}, args...), named, env)
		}
	}
	return ctx.FreshVar(), nil
}

// callMethod applies a method whose first parameter is the receiver.
func (ctx *InferenceContext) callMethod(node ast.Node, mt, recv ts.Type, args []ts.Type, named bool, env *ts.TypeEnv) (ts.Type, error) {
	switch f := ctx.apply(mt).(type) {
	case ts.TFunc:
		if len(f.Params) == 0 {
			return nil, inferErrorf(node, ts.ArityMismatch, "method takes no receiver")
		}
		if err := ctx.unify(node, f.Params[0], recv); err != nil {
			return nil, err
		}
		rest := ts.TFunc{Params: f.Params[1:], ReturnType: f.ReturnType, IsVariadic: f.IsVariadic, DefaultCount: f.DefaultCount}
		return ctx.applyCall(node, rest, args, named, env)
	case ts.TVar:
		// Not inferred yet: a sibling method defined later in the same type.
		ret := ctx.FreshVar()
		if err := ctx.unify(node, f, ts.TFunc{Params: append([]ts.Type{recv}, args...), ReturnType: ret}); err != nil {
			return nil, err
		}
		return ctx.apply(ret), nil
	}
	return ts.Any, nil
}

func (ctx *InferenceContext) inferFieldAccess(n *ast.FieldAccessExpression, env *ts.TypeEnv) (ts.Type, error) {
	ot, err := ctx.infer(n.Object, env)
	if err != nil {
		return nil, err
	}
	ot = deref(ot)
	switch t := ot.(type) {
	case ts.TTuple:
		i, err := strconv.Atoi(n.Field)
		if err != nil || i < 0 || i >= len(t.Elements) {
			return nil, inferErrorf(n, ts.UnknownMethod, "no field %s on %s", n.Field, t)
		}
		return t.Elements[i], nil
	case ts.TRecord:
		if ft, ok := t.Fields[n.Field]; ok {
			return ft, nil
		}
		return ts.Any, nil
	case ts.TDataFrame:
		if ct, ok := t.Column(n.Field); ok {
			return ts.Series(ct), nil
		}
		return ts.Series(ctx.FreshVar()), nil
	case ts.TType:
		if s, ok := env.Lookup(ts.AppliedName(t.Type) + "::" + n.Field); ok {
			return ctx.instantiate(s), nil
		}
		return ts.Any, nil
	case ts.TCon, ts.TApp:
		ti, ok := ctx.types[ts.AppliedName(t)]
		if !ok {
			break
		}
		if f, ok := ti.field(n.Field); ok {
			return f.Type.Apply(ti.bindParams(t)), nil
		}
		if _, ok := ti.Methods[n.Field]; ok {
			return ctx.FreshVar(), nil
		}
		return nil, inferErrorf(n, ts.UnknownMethod, "no field %s on %s", n.Field, t)
	}
	return ctx.FreshVar(), nil
}

func (ctx *InferenceContext) inferIndex(n *ast.IndexExpression, env *ts.TypeEnv) (ts.Type, error) {
	lt, err := ctx.infer(n.Left, env)
	if err != nil {
		return nil, err
	}
	it, err := ctx.infer(n.Index, env)
	if err != nil {
		return nil, err
	}
	lt = deref(lt)
	_, isRange := it.(ts.TApp)
	isRange = isRange && ts.AppliedName(it) == ts.RangeName

	switch t := lt.(type) {
	case ts.TApp:
		switch ts.AppliedName(t) {
		case ts.ListName, ts.SeriesName:
			if isRange {
				return t, nil
			}
			if err := ctx.unify(n.Index, ts.Int, it); err != nil {
				return nil, err
			}
			return t.Args[0], nil
		case ts.DictName:
			if err := ctx.unify(n.Index, t.Args[0], it); err != nil {
				return nil, err
			}
			return ctx.apply(t.Args[1]), nil
		}
	case ts.TCon:
		switch t.Name {
		case ts.StringName:
			return ts.String, nil
		case ts.AnyName:
			return ts.Any, nil
		}
	case ts.TTuple:
		if lit, ok := n.Index.(*ast.IntegerLiteral); ok {
			if lit.Value < 0 || int(lit.Value) >= len(t.Elements) {
				return nil, inferErrorf(n, ts.ArityMismatch, "tuple index %d out of range for %s", lit.Value, t)
			}
			return t.Elements[lit.Value], nil
		}
	case ts.TRecord:
		if lit, ok := n.Index.(*ast.StringLiteral); ok {
			if ft, ok := t.Fields[lit.Value]; ok {
				return ft, nil
			}
		}
		return ts.Any, nil
	case ts.TDataFrame:
		if lit, ok := n.Index.(*ast.StringLiteral); ok {
			if ct, ok := t.Column(lit.Value); ok {
				return ts.Series(ct), nil
			}
		}
		return ts.Any, nil
	}
	return ctx.FreshVar(), nil
}

func (ctx *InferenceContext) inferStructLiteral(n *ast.StructLiteral, env *ts.TypeEnv) (ts.Type, error) {
	ti, ok := ctx.types[n.Name]
	if !ok || ti.Kind == kindEnum {
		for _, f := range n.Fields {
			if _, err := ctx.infer(f.Value, env); err != nil {
				return nil, err
			}
		}
		if ok {
			return ti.selfType(), nil
		}
		return ts.Any, nil
	}

	inst := ts.Subst{}
	for _, p := range ti.Params {
		inst[p.Name] = ctx.FreshVar()
	}
	self := ti.selfType().Apply(inst)
	given := map[string]bool{}
	for _, f := range n.Fields {
		fi, ok := ti.field(f.Key)
		if !ok {
			return nil, inferErrorf(f, ts.UnknownMethod, "no field %s on %s", f.Key, ti.Name)
		}
		vt, err := ctx.infer(f.Value, env)
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(f.Value, fi.Type.Apply(inst), vt); err != nil {
			return nil, err
		}
		given[f.Key] = true
	}
	if n.Base != nil {
		bt, err := ctx.infer(n.Base, env)
		if err != nil {
			return nil, err
		}
		if err := ctx.unify(n.Base, self, bt); err != nil {
			return nil, err
		}
	} else {
		for _, fi := range ti.Fields {
			if !given[fi.Name] && !fi.Default {
				return nil, inferErrorf(n, ts.TypeMismatch, "missing field %s in %s", fi.Name, ti.Name)
			}
		}
	}
	return ctx.apply(self), nil
}
