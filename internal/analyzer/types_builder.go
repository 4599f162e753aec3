package analyzer

import (
	"unicode"

	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// typeScope resolves type parameter names while lowering annotations.
// Single capital letters that are not declared anywhere are taken as
// implicit parameters and added on first use.
type typeScope map[string]ts.Type

var primitives = map[string]ts.Type{
	ts.IntName:    ts.Int,
	ts.FloatName:  ts.Float,
	ts.BoolName:   ts.Bool,
	ts.StringName: ts.String,
	ts.CharName:   ts.Char,
	ts.ByteName:   ts.Byte,
	ts.UnitName:   ts.Unit,
	ts.AtomName:   ts.Atom,
	ts.AnyName:    ts.Any,
}

// lowerType converts a surface annotation. A missing annotation becomes a
// fresh variable.
func (ctx *InferenceContext) lowerType(te ast.TypeExpr, scope typeScope) (ts.Type, error) {
	if te == nil {
		return ctx.FreshVar(), nil
	}
	switch t := te.(type) {
	case *ast.NamedType:
		return ctx.lowerNamed(t, scope)

	case *ast.FunctionType:
		params := make([]ts.Type, len(t.Params))
		for i, p := range t.Params {
			pt, err := ctx.lowerType(p, scope)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		ret := ts.Type(ts.Unit)
		if t.Result != nil {
			var err error
			if ret, err = ctx.lowerType(t.Result, scope); err != nil {
				return nil, err
			}
		}
		return ts.TFunc{Params: params, ReturnType: ret}, nil

	case *ast.TupleType:
		if len(t.Elements) == 0 {
			return ts.Unit, nil
		}
		elems := make([]ts.Type, len(t.Elements))
		for i, e := range t.Elements {
			et, err := ctx.lowerType(e, scope)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return ts.TTuple{Elements: elems}, nil

	case *ast.ArrayType:
		elem, err := ctx.lowerType(t.Elem, scope)
		if err != nil {
			return nil, err
		}
		return ts.List(elem), nil

	case *ast.OptionalType:
		inner, err := ctx.lowerType(t.Inner, scope)
		if err != nil {
			return nil, err
		}
		return ts.Option(inner), nil

	case *ast.ReferenceType:
		inner, err := ctx.lowerType(t.Inner, scope)
		if err != nil {
			return nil, err
		}
		return ts.Reference(inner), nil
	}
	return ctx.FreshVar(), nil
}

func (ctx *InferenceContext) lowerNamed(t *ast.NamedType, scope typeScope) (ts.Type, error) {
	name := t.Name
	if bound, ok := scope[name]; ok && len(t.Args) == 0 {
		return bound, nil
	}
	if name == "_" {
		return ctx.FreshVar(), nil
	}
	if canonical, ok := ts.Aliases[name]; ok {
		name = canonical
	}

	args := make([]ts.Type, len(t.Args))
	for i, a := range t.Args {
		at, err := ctx.lowerType(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = at
	}

	if p, ok := primitives[name]; ok {
		if len(args) > 0 {
			return nil, inferErrorf(t, ts.ArityMismatch, "type %s takes no arguments", name)
		}
		return p, nil
	}
	if name == ts.DataFrameName {
		return ts.DataFrame(), nil
	}
	if con, ok := ts.Constructor(name); ok {
		return ctx.applyConstructor(t, con, ts.Constructors[name], args)
	}
	if ti, ok := ctx.types[name]; ok {
		con := ts.TCon{Name: ti.Name}
		if len(ti.Params) == 0 {
			if len(args) > 0 {
				return nil, inferErrorf(t, ts.ArityMismatch, "type %s takes no arguments", name)
			}
			return con, nil
		}
		con.KindVal = ts.ConstructorKind(len(ti.Params))
		return ctx.applyConstructor(t, con, len(ti.Params), args)
	}
	if len([]rune(name)) == 1 && unicode.IsUpper([]rune(name)[0]) {
		tv := ctx.FreshVar()
		if scope != nil {
			scope[name] = tv
		}
		return tv, nil
	}
	// Types declared elsewhere (another module, a host value) stay nominal.
	if len(args) == 0 {
		return ts.TCon{Name: name}, nil
	}
	con := ts.TCon{Name: name, KindVal: ts.ConstructorKind(len(args))}
	return ts.TApp{Constructor: con, Args: args}, nil
}

// applyConstructor fills missing arguments with fresh variables and rejects
// over-application.
func (ctx *InferenceContext) applyConstructor(node ast.Node, con ts.TCon, arity int, args []ts.Type) (ts.Type, error) {
	if len(args) == 0 {
		args = make([]ts.Type, arity)
		for i := range args {
			args[i] = ctx.FreshVar()
		}
	}
	app := ts.TApp{Constructor: con, Args: args}
	k, err := ts.KindCheck(app)
	if err != nil {
		return nil, inferError(node, err)
	}
	if !k.Equal(ts.Star) {
		return nil, inferErrorf(node, ts.ArityMismatch, "type %s takes %d argument(s), got %d", con.Name, arity, len(args))
	}
	return app, nil
}

// declScope builds the scope for a declaration with type parameters.
func declScope(ti *typeInfo) typeScope {
	scope := typeScope{"Self": ti.selfType()}
	for i, p := range ti.Params {
		if i < len(ti.ParamNames) {
			scope[ti.ParamNames[i]] = p
		}
	}
	return scope
}
