package analyzer

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// TypeCheck infers every top-level form of prog with a fresh context. See
// (*InferenceContext).TypeCheck.
func TypeCheck(prog *ast.Program, env *ts.TypeEnv) (*ts.Scheme, *ts.TypeEnv, []*diagnostics.DiagnosticError) {
	return NewInferenceContext().TypeCheck(prog, env)
}

// TypeCheck infers every top-level form of prog, extending env in place
// with the bindings they introduce. A form that fails to type reports one
// diagnostic and binds its declared names to Any, so later forms still
// check. The returned scheme is the generalized type of the last form.
//
// Declared types persist in the context, so one context can serve a
// sequence of programs sharing env, as the REPL does.
func (ctx *InferenceContext) TypeCheck(prog *ast.Program, env *ts.TypeEnv) (*ts.Scheme, *ts.TypeEnv, []*diagnostics.DiagnosticError) {
	if env == nil {
		env = ts.NewEnclosedTypeEnv(PreludeEnv())
	}
	if prog == nil {
		return ts.Mono(ts.Unit), env, nil
	}
	ctx.gen.Reserve(maxTVarNumber(env))
	ctx.predeclare(prog.Forms, env)

	var errs []*diagnostics.DiagnosticError
	var last ts.Type = ts.Unit
	for _, form := range prog.Forms {
		t, err := ctx.infer(form, env)
		if err != nil {
			d := toDiagnostic(err, form)
			d.File = prog.File
			errs = append(errs, d)
			for _, name := range ast.DeclaredNames(&ast.Program{Forms: []ast.Expression{form}}) {
				env.Set(name, ts.Mono(ts.Any))
			}
			ctx.returns, ctx.loops = nil, nil
			last = ts.Any
			continue
		}
		last = t
	}

	last = ctx.apply(last)
	env.Refine(ctx.subst)
	scheme := ts.Generalize(env, last)
	ctx.subst = ts.Subst{}
	return scheme, env, errs
}
