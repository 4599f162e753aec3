package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

// evalLetExpression binds into env itself for statement lets, or into a
// fresh frame scoping Body for `let x = v in body`.
func (e *Evaluator) evalLetExpression(node *ast.LetExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	target := env
	if node.Body != nil {
		target = NewEnclosedEnvironment(env)
	}
	bindings, ok := e.TryMatch(node.Pattern, val, env)
	if !ok {
		return newError(NonExhaustiveMatch, "let pattern does not match %s", val.Inspect())
	}
	for _, b := range bindings {
		if err := target.Define(b.Name, b.Value, node.Mutable || b.Mutable); err != nil {
			return newError(ImmutableAssignment, "cannot bind %s: %v", b.Name, err)
		}
	}
	if node.Body != nil {
		return e.Eval(node.Body, target)
	}
	return val
}

func (e *Evaluator) condition(node ast.Expression, env *Environment) (bool, Object) {
	val := e.Eval(node, env)
	if isSignal(val) {
		return false, val
	}
	b, err := boolArg("condition", val)
	if err != nil {
		err.Message = "condition must be a Bool, got " + typeName(val)
		return false, err
	}
	return b, nil
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *Environment) Object {
	ok, sig := e.condition(node.Condition, env)
	if sig != nil {
		return sig
	}
	if ok {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return NIL
}

func (e *Evaluator) evalMatchExpression(node *ast.MatchExpression, env *Environment) Object {
	subject := e.Eval(node.Subject, env)
	if isSignal(subject) {
		return subject
	}
	for _, arm := range node.Arms {
		bindings, ok := e.TryMatch(arm.Pattern, subject, env)
		if !ok {
			continue
		}
		armEnv := NewEnclosedEnvironment(env)
		bindAll(armEnv, bindings, false)
		if arm.Guard != nil {
			pass, sig := e.condition(arm.Guard, armEnv)
			if sig != nil {
				return sig
			}
			if !pass {
				continue
			}
		}
		return e.Eval(arm.Body, armEnv)
	}
	return newError(NonExhaustiveMatch, "no match arm matched %s", subject.Inspect())
}

func (e *Evaluator) evalBreakExpression(node *ast.BreakExpression, env *Environment) Object {
	var val Object = NIL
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
	}
	return &BreakSignal{Label: node.Label, Value: val}
}

func (e *Evaluator) evalReturnExpression(node *ast.ReturnExpression, env *Environment) Object {
	var val Object = NIL
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
	}
	return &ReturnValue{Value: val}
}

// caughtValue is what a catch clause binds: the thrown payload for user
// errors, an error object otherwise.
func caughtValue(err *Error) Object {
	if err.Kind == UserError && err.Payload != nil {
		return err.Payload
	}
	return &ErrorValue{Err: err}
}

func (e *Evaluator) evalTryCatch(node *ast.TryCatchExpression, env *Environment) Object {
	res := e.Eval(node.Body, env)
	if err, ok := res.(*Error); ok && err.Catchable() && node.Handler != nil {
		caught := caughtValue(err)
		handlerEnv := NewEnclosedEnvironment(env)
		matched := true
		if node.CatchPattern != nil {
			var bindings []Binding
			bindings, matched = e.TryMatch(node.CatchPattern, caught, env)
			bindAll(handlerEnv, bindings, false)
		}
		if matched {
			res = e.Eval(node.Handler, handlerEnv)
		}
	}
	if node.Finally != nil {
		if fin := e.Eval(node.Finally, env); isSignal(fin) {
			return fin
		}
	}
	return res
}

func (e *Evaluator) evalThrowExpression(node *ast.ThrowExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return userError(val)
}

func userError(val Object) *Error {
	if ev, ok := val.(*ErrorValue); ok {
		return ev.Err
	}
	return &Error{Kind: UserError, Message: Display(val), Payload: val}
}

// evalTryOperator unwraps Ok and Some; Err and None return from the
// enclosing function unchanged.
func (e *Evaluator) evalTryOperator(node *ast.TryOperatorExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	v, ok := val.(*Variant)
	if !ok {
		if _, isNil := val.(*Nil); isNil {
			return &ReturnValue{Value: val}
		}
		return typeError("Result or Option", val, "? applied to %s", typeName(val))
	}
	switch {
	case v.is(ResultTypeName, "Ok"), v.is(OptionTypeName, "Some"):
		return v.Fields[0]
	case v.is(ResultTypeName, "Err"), v.is(OptionTypeName, "None"):
		return &ReturnValue{Value: v}
	}
	return typeError("Result or Option", val, "? applied to %s", typeName(val))
}

func (e *Evaluator) evalAwaitExpression(node *ast.AwaitExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	if f, ok := val.(*Future); ok {
		return f.Value
	}
	return val
}
