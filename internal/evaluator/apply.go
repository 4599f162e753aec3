package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

// ApplyFunction calls any callable value with positional and named
// arguments.
func (e *Evaluator) ApplyFunction(fn Object, args []Object, named map[string]Object) Object {
	switch f := fn.(type) {
	case *Function:
		res, _ := e.callFunction(f, nil, args, named)
		return res
	case *Builtin:
		if len(named) > 0 {
			return newError(ArityError, "%s does not take named arguments", f.Name)
		}
		return f.Fn(e, args...)
	case *BoundMethod:
		res, _ := e.callFunction(f.Method, f.Receiver, args, named)
		return res
	case *TypeDescriptor:
		return e.instantiate(f, args, named)
	case *Variant:
		// Calling a tag attaches a payload: Increment(5).
		if f.Enum == "" && len(f.Fields) == 0 {
			return &Variant{Name: f.Name, Fields: append([]Object(nil), args...)}
		}
	}
	return typeError(RUNTIME_TYPE_FUNCTION, fn, "not a function: %s", typeName(fn))
}

func (f *Function) displayName() string {
	if f.Name == "" {
		return "<closure>"
	}
	if f.Owner != nil {
		return f.Owner.Name + "::" + f.Name
	}
	return f.Name
}

// callFunction runs fn with self bound when given. It returns the result
// and the final value of self, which callers write back for `&mut self`
// methods on value-typed receivers.
func (e *Evaluator) callFunction(fn *Function, self Object, args []Object, named map[string]Object) (Object, Object) {
	if len(e.CallStack) >= e.maxDepth() {
		return newError(StackOverflow, "maximum call depth %d exceeded in %s", e.maxDepth(), fn.displayName()), self
	}

	env := NewEnclosedEnvironment(fn.Env)
	if fn.Receiver != ast.ReceiverNone {
		if self == nil {
			if len(args) == 0 {
				return newError(ArityError, "method %s called without a receiver", fn.displayName()), nil
			}
			self, args = args[0], args[1:]
		}
		env.Define("self", self, fn.Receiver == ast.ReceiverMutRef || fn.Receiver == ast.ReceiverMutValue)
	} else if self != nil {
		env.Define("self", self, false)
	}
	if fn.Owner != nil {
		env.Define("Self", fn.Owner, false)
	}
	if err := e.bindParameters(fn, env, args, named); err != nil {
		return err, self
	}

	frame := StackFrame{Name: fn.displayName(), File: e.CurrentFile, Line: fn.Line}
	e.CallStack = append(e.CallStack, frame)
	result := e.Eval(fn.Body, env)
	e.CallStack = e.CallStack[:len(e.CallStack)-1]

	switch r := result.(type) {
	case *ReturnValue:
		result = r.Value
	case *BreakSignal, *ContinueSignal:
		result = newError(TypeMismatch, "%s outside of a loop", r.Inspect())
	case *Error:
		r.StackTrace = append(r.StackTrace, frame)
	}

	finalSelf := self
	if self != nil {
		if v, ok := env.GetLocal("self"); ok {
			finalSelf = v
		}
	}
	if fn.IsAsync && !isError(result) {
		result = &Future{Value: result}
	}
	return result, finalSelf
}

// bindParameters binds arguments into env. Missing trailing arguments take
// their default, evaluated in env so earlier parameters are visible.
func (e *Evaluator) bindParameters(fn *Function, env *Environment, args []Object, named map[string]Object) *Error {
	if len(args) > len(fn.Parameters) {
		return newError(ArityError, "%s expects %d argument(s), got %d", fn.displayName(), len(fn.Parameters), len(args))
	}
	usedNamed := 0
	for i, p := range fn.Parameters {
		var val Object
		switch v, ok := named[p.Name]; {
		case i < len(args):
			if ok {
				return newError(ArityError, "argument %s given both positionally and by name", p.Name)
			}
			val = args[i]
		case ok:
			val = v
			usedNamed++
		case p.Default != nil:
			val = e.Eval(p.Default, env)
			if err, isErr := val.(*Error); isErr {
				return err
			}
			val = unwrapReturnValue(val)
		default:
			return newError(ArityError, "%s expects %d argument(s), got %d",
				fn.displayName(), fn.requiredParams(), len(args)+len(named))
		}
		env.Define(p.Name, val, p.Mutable)
	}
	if usedNamed != len(named) {
		for name := range named {
			if !hasParameter(fn.Parameters, name) {
				return newError(ArityError, "%s has no parameter named %s", fn.displayName(), name)
			}
		}
	}
	return nil
}

func hasParameter(params []*ast.Parameter, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
