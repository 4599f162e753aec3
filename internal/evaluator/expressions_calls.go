package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

// evalArguments splits call arguments into positional values and named
// ones, evaluated left to right.
func (e *Evaluator) evalArguments(exprs []ast.Expression, env *Environment) ([]Object, map[string]Object, Object) {
	args := make([]Object, 0, len(exprs))
	var named map[string]Object
	for _, ex := range exprs {
		if na, ok := ex.(*ast.NamedArgument); ok {
			val := e.Eval(na.Value, env)
			if isSignal(val) {
				return nil, nil, val
			}
			if named == nil {
				named = map[string]Object{}
			}
			if _, dup := named[na.Name]; dup {
				return nil, nil, newError(ArityError, "argument %s given more than once", na.Name)
			}
			named[na.Name] = val
			continue
		}
		val := e.Eval(ex, env)
		if isSignal(val) {
			return nil, nil, val
		}
		args = append(args, val)
	}
	return args, named, nil
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	fn := e.Eval(node.Function, env)
	if isSignal(fn) {
		return fn
	}
	args, named, sig := e.evalArguments(node.Arguments, env)
	if sig != nil {
		return sig
	}
	res := e.ApplyFunction(fn, args, named)
	if err, ok := res.(*Error); ok && err.Line == 0 {
		tok := node.Token
		err.Line, err.Column, err.Span = tok.Line, tok.Column, node.Span
	}
	return res
}
