package analyzer

import (
	"errors"
	"fmt"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
	"github.com/funvibe/ruchy/internal/typesystem"
)

// InferenceContext holds the state for one type inference pass. The
// substitution is global to the pass and grows monotonically.
type InferenceContext struct {
	gen   *typesystem.VarGen
	subst typesystem.Subst

	// types describes user-declared structs, classes, actors and enums,
	// plus impl blocks attached to builtin type names.
	types map[string]*typeInfo
	// variants is keyed both by "Enum::Variant" and by the bare name.
	variants map[string]*variantInfo

	returns []typesystem.Type
	loops   []*loopFrame
}

type loopFrame struct {
	label     string
	result    typesystem.Type
	hasValue  bool
	breakable bool // loop {} may yield a value; while and for may not
}

type fieldInfo struct {
	Name    string
	Type    typesystem.Type
	Default bool
	Mutable bool
}

type typeInfo struct {
	Name       string
	Kind       string
	Params     []typesystem.TVar
	ParamNames []string
	Fields     []fieldInfo
	Methods    map[string]*typesystem.Scheme
}

type variantInfo struct {
	Enum   *typeInfo
	Name   string
	Fields []typesystem.Type
}

func NewInferenceContext() *InferenceContext {
	return &InferenceContext{
		gen:      &typesystem.VarGen{},
		subst:    typesystem.Subst{},
		types:    map[string]*typeInfo{},
		variants: map[string]*variantInfo{},
	}
}

// Fork returns a context that sees every type declared so far. New types
// the fork declares stay out of ctx; the type records themselves are
// shared, so an impl block run in the fork still extends ctx's type. Both
// share one variable supply.
func (ctx *InferenceContext) Fork() *InferenceContext {
	out := &InferenceContext{
		gen:      ctx.gen,
		subst:    typesystem.Subst{},
		types:    make(map[string]*typeInfo, len(ctx.types)),
		variants: make(map[string]*variantInfo, len(ctx.variants)),
	}
	for k, v := range ctx.types {
		out.types[k] = v
	}
	for k, v := range ctx.variants {
		out.variants[k] = v
	}
	return out
}

func (ctx *InferenceContext) FreshVar() typesystem.TVar {
	return ctx.gen.Fresh()
}

// Subst returns the accumulated substitution.
func (ctx *InferenceContext) Subst() typesystem.Subst {
	return ctx.subst
}

func (ctx *InferenceContext) apply(t typesystem.Type) typesystem.Type {
	if t == nil {
		return nil
	}
	return t.Apply(ctx.subst)
}

// unify unifies under the running substitution and extends it.
func (ctx *InferenceContext) unify(node ast.Node, expected, found typesystem.Type) error {
	s, err := typesystem.Unify(ctx.apply(expected), ctx.apply(found))
	if err != nil {
		return inferError(node, err)
	}
	ctx.subst = ctx.subst.Compose(s)
	return nil
}

func (ctx *InferenceContext) instantiate(s *typesystem.Scheme) typesystem.Type {
	return s.Instantiate(ctx.gen)
}

// generalize quantifies t over the variables not free in env, both taken
// under the running substitution.
func (ctx *InferenceContext) generalize(env *typesystem.TypeEnv, t typesystem.Type) *typesystem.Scheme {
	return typesystem.Generalize(env.Apply(ctx.subst), ctx.apply(t))
}

func (ti *typeInfo) selfType() typesystem.Type {
	if ti.Kind == kindBuiltin && ti.Name == typesystem.DataFrameName {
		return typesystem.DataFrame()
	}
	con := typesystem.TCon{Name: ti.Name}
	if len(ti.Params) == 0 {
		return con
	}
	con.KindVal = typesystem.ConstructorKind(len(ti.Params))
	args := make([]typesystem.Type, len(ti.Params))
	for i, p := range ti.Params {
		args[i] = p
	}
	return typesystem.TApp{Constructor: con, Args: args}
}

// bindParams maps the declared parameters onto the arguments of recv.
func (ti *typeInfo) bindParams(recv typesystem.Type) typesystem.Subst {
	s := typesystem.Subst{}
	app, ok := recv.(typesystem.TApp)
	if !ok {
		return s
	}
	for i, p := range ti.Params {
		if i < len(app.Args) {
			s[p.Name] = app.Args[i]
		}
	}
	return s
}

func (ti *typeInfo) field(name string) (fieldInfo, bool) {
	for _, f := range ti.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return fieldInfo{}, false
}

// InferError anchors a type error on the node it was found at.
type InferError struct {
	Node ast.Node
	Err  error
}

func (e *InferError) Error() string { return e.Err.Error() }
func (e *InferError) Unwrap() error { return e.Err }

func inferError(node ast.Node, err error) error {
	var ie *InferError
	if errors.As(err, &ie) {
		return err
	}
	return &InferError{Node: node, Err: err}
}

func inferErrorf(node ast.Node, kind typesystem.ErrorKind, format string, args ...interface{}) error {
	return &InferError{Node: node, Err: &typesystem.TypeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}}
}

// toDiagnostic converts an inference failure into a diagnostic.
func toDiagnostic(err error, fallback ast.Node) *diagnostics.DiagnosticError {
	node := fallback
	var ie *InferError
	if errors.As(err, &ie) && ie.Node != nil {
		node = ie.Node
	}
	code := diagnostics.ErrT005
	var te *typesystem.TypeError
	if errors.As(err, &te) {
		code = te.Kind.Code()
	}
	var d *diagnostics.DiagnosticError
	if node != nil {
		d = diagnostics.NewError(code, node.GetToken(), err.Error())
		d.Span = node.GetSpan()
	} else {
		d = diagnostics.NewError(code, token.Token{}, err.Error())
	}
	return d
}
