package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

const (
	kindStruct  = "struct"
	kindClass   = "class"
	kindActor   = "actor"
	kindEnum    = "enum"
	kindBuiltin = "builtin"
)

func (ctx *InferenceContext) inferFunctionDecl(n *ast.FunctionDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	sig := &funcSig{params: n.Parameters, ret: n.ReturnType, body: n.Body, async: n.IsAsync}
	if n.Receiver != ast.ReceiverNone {
		sig.self = ts.Any
	}
	if n.Name == "" {
		return ctx.inferFunction(sig, env)
	}

	var self ts.Type = ctx.FreshVar()
	if s, ok := env.LookupLocal(n.Name); ok && len(s.Vars) == 0 {
		if tv, ok := s.Type.(ts.TVar); ok {
			self = tv // predeclared
		}
	}
	env.Set(n.Name, ts.Mono(self))
	ft, err := ctx.inferFunction(sig, env)
	if err != nil {
		return nil, err
	}
	if err := ctx.unify(n, self, ft); err != nil {
		return nil, err
	}
	env.Remove(n.Name)
	env.Set(n.Name, ctx.generalize(env, ft))
	return ctx.apply(ft), nil
}

// declareType registers a named type. Methods collected by an impl block
// that preceded the declaration are kept.
func (ctx *InferenceContext) declareType(name, kind string, params []string) *typeInfo {
	ti := &typeInfo{Name: name, Kind: kind, ParamNames: params, Methods: map[string]*ts.Scheme{}}
	for range params {
		ti.Params = append(ti.Params, ctx.FreshVar())
	}
	if prev, ok := ctx.types[name]; ok && prev.Kind == kindBuiltin {
		ti.Methods = prev.Methods
	}
	ctx.types[name] = ti
	return ti
}

func (ctx *InferenceContext) lowerFields(ti *typeInfo, decls []*ast.FieldDecl, env *ts.TypeEnv) error {
	scope := declScope(ti)
	for _, f := range decls {
		var ft ts.Type = ts.Any
		if f.Type != nil {
			var err error
			if ft, err = ctx.lowerType(f.Type, scope); err != nil {
				return err
			}
		}
		if f.Default != nil {
			dt, err := ctx.infer(f.Default, env)
			if err != nil {
				return err
			}
			if f.Type == nil {
				ft = dt
			} else if err := ctx.unify(f.Default, ft, dt); err != nil {
				return err
			}
		}
		ti.Fields = append(ti.Fields, fieldInfo{Name: f.Name, Type: ctx.apply(ft), Default: f.Default != nil, Mutable: f.Mutable})
	}
	return nil
}

// autoConstructor takes the fields in declaration order; trailing fields
// with defaults may be omitted.
func (ctx *InferenceContext) autoConstructor(ti *typeInfo) ts.TFunc {
	params := make([]ts.Type, len(ti.Fields))
	defaults := 0
	for i, f := range ti.Fields {
		params[i] = f.Type
		if f.Default {
			defaults++
		} else {
			defaults = 0
		}
	}
	return ts.TFunc{Params: params, ReturnType: ti.selfType(), DefaultCount: defaults}
}

// bindTypeName binds the type descriptor value for ti.
func (ctx *InferenceContext) bindTypeName(ti *typeInfo, env *ts.TypeEnv) {
	env.Set(ti.Name, ctx.generalize(env, ts.TType{Type: ti.selfType()}))
}

func (ctx *InferenceContext) inferStructDecl(n *ast.StructDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	ti := ctx.declareType(n.Name, kindStruct, n.TypeParams)
	if err := ctx.lowerFields(ti, n.Fields, env); err != nil {
		return nil, err
	}
	ctx.bindTypeName(ti, env)
	env.Set(n.Name+"::new", ctx.generalize(env, ctx.autoConstructor(ti)))
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferClassDecl(n *ast.ClassDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	ti := ctx.declareType(n.Name, kindClass, n.TypeParams)
	if err := ctx.lowerFields(ti, n.Fields, env); err != nil {
		return nil, err
	}
	ctx.bindTypeName(ti, env)
	if err := ctx.bindConstructors(ti, n.Constructors, env); err != nil {
		return nil, err
	}
	if err := ctx.inferMethods(ti, n.Methods, env); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferActorDecl(n *ast.ActorDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	ti := ctx.declareType(n.Name, kindActor, nil)
	if err := ctx.lowerFields(ti, n.Fields, env); err != nil {
		return nil, err
	}
	ctx.bindTypeName(ti, env)
	if err := ctx.bindConstructors(ti, n.Constructors, env); err != nil {
		return nil, err
	}
	if err := ctx.inferMethods(ti, n.Methods, env); err != nil {
		return nil, err
	}
	for _, h := range n.Handlers {
		hEnv := ts.NewEnclosedTypeEnv(env)
		hEnv.Set("self", ts.Mono(ti.selfType()))
		for _, p := range h.Parameters {
			pt, err := ctx.lowerType(p.Type, typeScope{})
			if err != nil {
				return nil, err
			}
			hEnv.Set(p.Name, ts.Mono(pt))
		}
		if h.Pattern != nil {
			if err := ctx.bindPattern(h.Pattern, ts.Any, hEnv); err != nil {
				return nil, err
			}
		}
		ctx.returns = append(ctx.returns, ctx.FreshVar())
		_, err := ctx.infer(h.Body, hEnv)
		ctx.returns = ctx.returns[:len(ctx.returns)-1]
		if err != nil {
			return nil, err
		}
	}
	return ts.Unit, nil
}

// bindConstructors binds Type::name for every constructor. Without explicit
// constructors the fields form one. Overloaded names are left untyped.
func (ctx *InferenceContext) bindConstructors(ti *typeInfo, ctors []*ast.FunctionDeclaration, env *ts.TypeEnv) error {
	if len(ctors) == 0 {
		env.Set(ti.Name+"::new", ctx.generalize(env, ctx.autoConstructor(ti)))
		return nil
	}
	counts := map[string]int{}
	for _, c := range ctors {
		counts[ctorName(c)]++
	}
	for _, c := range ctors {
		sig := &funcSig{params: c.Parameters, ret: c.ReturnType, body: c.Body, self: ti.selfType(), scope: declScope(ti)}
		ft, err := ctx.inferFunction(sig, env)
		if err != nil {
			return err
		}
		key := ti.Name + "::" + ctorName(c)
		if counts[ctorName(c)] > 1 {
			env.Set(key, ts.Mono(ts.Any))
			continue
		}
		fn := ft.(ts.TFunc)
		ctor := ts.TFunc{Params: fn.Params[1:], ReturnType: ti.selfType(), DefaultCount: fn.DefaultCount}
		env.Set(key, ctx.generalize(env, ctor))
	}
	return nil
}

func ctorName(c *ast.FunctionDeclaration) string {
	if c.Name == "" {
		return "new"
	}
	return c.Name
}

// inferMethods types the methods of ti. Every method is registered before
// any body is inferred so methods may call each other in any order.
func (ctx *InferenceContext) inferMethods(ti *typeInfo, methods []*ast.FunctionDeclaration, env *ts.TypeEnv) error {
	pending := make([]ts.TVar, len(methods))
	for i, m := range methods {
		pending[i] = ctx.FreshVar()
		if m.Receiver == ast.ReceiverNone {
			env.Set(ti.Name+"::"+m.Name, ts.Mono(pending[i]))
		} else {
			ti.Methods[m.Name] = ts.Mono(pending[i])
		}
	}
	for i, m := range methods {
		sig := &funcSig{params: m.Parameters, ret: m.ReturnType, body: m.Body, async: m.IsAsync, scope: declScope(ti)}
		if m.Receiver != ast.ReceiverNone {
			sig.self = ti.selfType()
		}
		ft, err := ctx.inferFunction(sig, env)
		if err != nil {
			return err
		}
		if err := ctx.unify(m, pending[i], ft); err != nil {
			return err
		}
	}
	for _, m := range methods {
		if m.Receiver == ast.ReceiverNone {
			env.Remove(ti.Name + "::" + m.Name)
		}
	}
	for i, m := range methods {
		scheme := ctx.generalize(env, pending[i])
		if m.Receiver == ast.ReceiverNone {
			env.Set(ti.Name+"::"+m.Name, scheme)
		} else {
			ti.Methods[m.Name] = scheme
		}
	}
	return nil
}

func (ctx *InferenceContext) inferEnumDecl(n *ast.EnumDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	ti := ctx.declareType(n.Name, kindEnum, n.TypeParams)
	scope := declScope(ti)
	self := ti.selfType()
	ctx.bindTypeName(ti, env)
	for _, v := range n.Variants {
		fields := make([]ts.Type, len(v.Fields))
		for i, f := range v.Fields {
			ft, err := ctx.lowerType(f, scope)
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		if v.Discriminant != nil {
			dt, err := ctx.infer(v.Discriminant, env)
			if err != nil {
				return nil, err
			}
			if err := ctx.unify(v.Discriminant, ts.Int, dt); err != nil {
				return nil, err
			}
		}
		vi := &variantInfo{Enum: ti, Name: v.Name, Fields: fields}
		ctx.variants[n.Name+"::"+v.Name] = vi
		ctx.variants[v.Name] = vi

		var ct ts.Type = self
		if len(fields) > 0 {
			ct = ts.TFunc{Params: fields, ReturnType: self}
		}
		env.Set(n.Name+"::"+v.Name, ctx.generalize(env, ct))
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferImpl(n *ast.ImplBlock, env *ts.TypeEnv) (ts.Type, error) {
	name := n.TypeName
	if canonical, ok := ts.Aliases[name]; ok {
		name = canonical
	}
	ti, ok := ctx.types[name]
	if !ok {
		params := make([]string, ts.Constructors[name])
		for i := range params {
			params[i] = string(rune('A' + i))
		}
		ti = ctx.declareType(name, kindBuiltin, params)
	}
	if err := ctx.inferMethods(ti, n.Methods, env); err != nil {
		return nil, err
	}
	return ts.Unit, nil
}

func (ctx *InferenceContext) inferUse(n *ast.UseDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	prefix := strings.Join(n.Path, "::")
	switch {
	case n.Wildcard:
		p := prefix + "::"
		for _, name := range env.Names() {
			if strings.HasPrefix(name, p) {
				s, _ := env.Lookup(name)
				env.Set(name[len(p):], s)
			}
		}
	case len(n.Items) > 0:
		for _, it := range n.Items {
			as := it.Alias
			if as == "" {
				as = it.Name
			}
			ctx.bindImported(prefix+"::"+it.Name, as, env)
		}
	case len(n.Path) > 0:
		last := n.Path[len(n.Path)-1]
		if n.IsImport {
			last = strings.TrimSuffix(filepath.Base(last), filepath.Ext(last))
		}
		ctx.bindImported(prefix, last, env)
	}
	return ts.Unit, nil
}

// bindImported binds src under the name as, along with members such as
// src::new. Unresolvable paths are left to the runtime.
func (ctx *InferenceContext) bindImported(src, as string, env *ts.TypeEnv) {
	s, ok := env.Lookup(src)
	if !ok {
		if _, exists := env.Lookup(as); !exists {
			env.Set(as, ts.Mono(ts.Any))
		}
		return
	}
	env.Set(as, s)
	p := src + "::"
	for _, name := range env.Names() {
		if strings.HasPrefix(name, p) {
			member, _ := env.Lookup(name)
			env.Set(as+"::"+name[len(p):], member)
		}
	}
}

func (ctx *InferenceContext) inferModule(n *ast.ModuleDeclaration, env *ts.TypeEnv) (ts.Type, error) {
	inner := ts.NewEnclosedTypeEnv(env)
	if n.Body != nil {
		if _, err := ctx.inferForms(n.Body.Expressions, inner); err != nil {
			return nil, err
		}
	}
	for _, name := range inner.Own() {
		s, _ := inner.Lookup(name)
		env.Set(n.Name+"::"+name, s)
	}
	env.Set(n.Name, ts.Mono(ts.TType{Type: ts.TCon{Name: n.Name}}))
	return ts.Unit, nil
}
