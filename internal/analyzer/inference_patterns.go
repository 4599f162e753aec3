package analyzer

import (
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

func isAny(t ts.Type) bool {
	c, ok := t.(ts.TCon)
	return ok && c.Name == ts.AnyName
}

// bindPattern unifies t with the shape of p and binds the names p
// introduces into env.
func (ctx *InferenceContext) bindPattern(p ast.Pattern, t ts.Type, env *ts.TypeEnv) error {
	t = ctx.apply(t)
	switch pat := p.(type) {
	case nil, *ast.WildcardPattern:
		return nil

	case *ast.IdentifierPattern:
		env.Set(pat.Name, ts.Mono(t))
		return nil

	case *ast.RestPattern:
		if pat.Name != "" {
			env.Set(pat.Name, ts.Mono(t))
		}
		return nil

	case *ast.AtPattern:
		env.Set(pat.Name, ts.Mono(t))
		return ctx.bindPattern(pat.Inner, t, env)

	case *ast.LiteralPattern:
		lt, err := ctx.infer(pat.Value, env)
		if err != nil {
			return err
		}
		return ctx.unify(pat, t, lt)

	case *ast.RangePattern:
		for _, bound := range []ast.Expression{pat.Lo, pat.Hi} {
			if bound == nil {
				continue
			}
			bt, err := ctx.infer(bound, env)
			if err != nil {
				return err
			}
			if err := ctx.unify(pat, t, bt); err != nil {
				return err
			}
		}
		return nil

	case *ast.TuplePattern:
		elems := make([]ts.Type, len(pat.Elements))
		for i := range elems {
			if isAny(t) {
				elems[i] = ts.Any
			} else {
				elems[i] = ctx.FreshVar()
			}
		}
		if !isAny(t) {
			if err := ctx.unify(pat, ts.TTuple{Elements: elems}, t); err != nil {
				return err
			}
		}
		for i, e := range pat.Elements {
			if err := ctx.bindPattern(e, elems[i], env); err != nil {
				return err
			}
		}
		return nil

	case *ast.ListPattern:
		var elem ts.Type = ts.Any
		if !isAny(t) {
			elem = ctx.FreshVar()
			if err := ctx.unify(pat, ts.List(elem), t); err != nil {
				return err
			}
		}
		for _, e := range pat.Elements {
			if rest, ok := e.(*ast.RestPattern); ok {
				if rest.Name != "" {
					env.Set(rest.Name, ts.Mono(ctx.apply(ts.List(elem))))
				}
				continue
			}
			if err := ctx.bindPattern(e, elem, env); err != nil {
				return err
			}
		}
		return nil

	case *ast.StructPattern:
		return ctx.bindStructPattern(pat, t, env)

	case *ast.ResultPattern:
		okT, errT := ts.Type(ts.Any), ts.Type(ts.Any)
		if !isAny(t) {
			okT, errT = ctx.FreshVar(), ctx.FreshVar()
			if err := ctx.unify(pat, ts.Result(okT, errT), t); err != nil {
				return err
			}
		}
		if pat.IsOk {
			return ctx.bindPattern(pat.Inner, okT, env)
		}
		return ctx.bindPattern(pat.Inner, errT, env)

	case *ast.VariantPattern:
		return ctx.bindVariantPattern(pat, t, env)

	case *ast.OrPattern:
		return ctx.bindOrPattern(pat, t, env)
	}
	return nil
}

func (ctx *InferenceContext) bindStructPattern(pat *ast.StructPattern, t ts.Type, env *ts.TypeEnv) error {
	fieldType := func(name string) (ts.Type, error) { return ts.Any, nil }

	if ti, ok := ctx.types[pat.Name]; ok && pat.Name != "" && ti.Kind != kindEnum {
		inst := ts.Subst{}
		for _, p := range ti.Params {
			inst[p.Name] = ctx.FreshVar()
		}
		if err := ctx.unify(pat, ti.selfType().Apply(inst), t); err != nil {
			return err
		}
		fieldType = func(name string) (ts.Type, error) {
			f, ok := ti.field(name)
			if !ok {
				return nil, inferErrorf(pat, ts.UnknownMethod, "no field %s on %s", name, ti.Name)
			}
			return f.Type.Apply(inst), nil
		}
	} else if rec, ok := t.(ts.TRecord); ok {
		fieldType = func(name string) (ts.Type, error) {
			if ft, ok := rec.Fields[name]; ok {
				return ft, nil
			}
			return ts.Any, nil
		}
	}

	for _, f := range pat.Fields {
		ft, err := fieldType(f.Name)
		if err != nil {
			return err
		}
		if f.Pattern == nil {
			env.Set(f.Name, ts.Mono(ctx.apply(ft)))
			continue
		}
		if err := ctx.bindPattern(f.Pattern, ft, env); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *InferenceContext) bindVariantPattern(pat *ast.VariantPattern, t ts.Type, env *ts.TypeEnv) error {
	name := pat.Name()
	bindAll := func(ft ts.Type) error {
		for _, a := range pat.Args {
			if err := ctx.bindPattern(a, ft, env); err != nil {
				return err
			}
		}
		return nil
	}

	if (name == "Some" || name == "None") && len(pat.Path) == 1 {
		if isAny(t) {
			return bindAll(ts.Any)
		}
		inner := ctx.FreshVar()
		if err := ctx.unify(pat, ts.Option(inner), t); err != nil {
			return err
		}
		return bindAll(inner)
	}

	vi, ok := ctx.variants[strings.Join(pat.Path, "::")]
	if !ok {
		vi, ok = ctx.variants[name]
	}
	if !ok {
		return bindAll(ts.Any)
	}
	inst := ts.Subst{}
	for _, p := range vi.Enum.Params {
		inst[p.Name] = ctx.FreshVar()
	}
	if !isAny(t) {
		if err := ctx.unify(pat, vi.Enum.selfType().Apply(inst), t); err != nil {
			return err
		}
	}
	if len(pat.Args) > 0 && len(pat.Args) != len(vi.Fields) {
		return inferErrorf(pat, ts.ArityMismatch, "variant %s has %d field(s), pattern has %d", vi.Name, len(vi.Fields), len(pat.Args))
	}
	for i, a := range pat.Args {
		if err := ctx.bindPattern(a, vi.Fields[i].Apply(inst), env); err != nil {
			return err
		}
	}
	return nil
}

// bindOrPattern binds each alternative separately and requires the names
// they introduce to agree in type.
func (ctx *InferenceContext) bindOrPattern(pat *ast.OrPattern, t ts.Type, env *ts.TypeEnv) error {
	var first *ts.TypeEnv
	for _, alt := range pat.Alternatives {
		altEnv := ts.NewEnclosedTypeEnv(env)
		if err := ctx.bindPattern(alt, t, altEnv); err != nil {
			return err
		}
		if first == nil {
			first = altEnv
			continue
		}
		for _, name := range first.Own() {
			want, _ := first.Lookup(name)
			got, ok := altEnv.Lookup(name)
			if !ok {
				continue
			}
			if err := ctx.unify(alt, want.Type, got.Type); err != nil {
				return err
			}
		}
	}
	if first != nil {
		for _, name := range first.Own() {
			s, _ := first.Lookup(name)
			env.Set(name, ts.Mono(ctx.apply(s.Type)))
		}
	}
	return nil
}
