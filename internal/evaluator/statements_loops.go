package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

// loopControl interprets the result of one iteration. stop reports whether
// the loop ends; out is then the loop's value or a signal to propagate.
func loopControl(res Object, label string) (stop bool, out Object) {
	switch r := res.(type) {
	case *BreakSignal:
		if r.Label == "" || r.Label == label {
			return true, r.Value
		}
		return true, r
	case *ContinueSignal:
		if r.Label == "" || r.Label == label {
			return false, nil
		}
		return true, r
	case *ReturnValue, *Error:
		return true, res
	}
	return false, nil
}

// interrupted checks for cancellation between iterations, since an empty
// loop body evaluates no nodes.
func (e *Evaluator) interrupted() *Error {
	if e.Context == nil {
		return nil
	}
	select {
	case <-e.Context.Done():
		return e.cancelled()
	default:
	}
	return nil
}

func (e *Evaluator) evalWhileExpression(node *ast.WhileExpression, env *Environment) Object {
	for {
		if err := e.interrupted(); err != nil {
			return err
		}
		ok, sig := e.condition(node.Condition, env)
		if sig != nil {
			return sig
		}
		if !ok {
			return NIL
		}
		res := e.evalBlock(node.Body, NewEnclosedEnvironment(env))
		if stop, out := loopControl(res, node.Label); stop {
			return out
		}
	}
}

func (e *Evaluator) evalLoopExpression(node *ast.LoopExpression, env *Environment) Object {
	for {
		if err := e.interrupted(); err != nil {
			return err
		}
		res := e.evalBlock(node.Body, NewEnclosedEnvironment(env))
		if stop, out := loopControl(res, node.Label); stop {
			return out
		}
	}
}

func (e *Evaluator) evalForExpression(node *ast.ForExpression, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isSignal(iterable) {
		return iterable
	}
	var result Object = NIL
	err := eachValue(iterable, func(item Object) bool {
		if err := e.interrupted(); err != nil {
			result = err
			return false
		}
		bindings, ok := e.TryMatch(node.Pattern, item, env)
		if !ok {
			result = newError(NonExhaustiveMatch, "for pattern does not match %s", item.Inspect())
			return false
		}
		iterEnv := NewEnclosedEnvironment(env)
		bindAll(iterEnv, bindings, false)
		res := e.evalBlock(node.Body, iterEnv)
		stop, out := loopControl(res, node.Label)
		if stop {
			result = out
		}
		return !stop
	})
	if err != nil {
		return err
	}
	return result
}

// evalComprehension runs the clauses as nested loops feeding one
// accumulator. Items that do not match a clause pattern are skipped.
func (e *Evaluator) evalComprehension(node *ast.ComprehensionExpression, env *Environment) Object {
	var list []Object
	set := NewSet()
	dict := NewDict()

	var run func(i int, env *Environment) Object
	run = func(i int, env *Environment) Object {
		if i == len(node.Clauses) {
			if err := e.charge(wordSize * 2); err != nil {
				return err
			}
			val := e.Eval(node.Element, env)
			if isSignal(val) {
				return val
			}
			switch node.Kind {
			case ast.DictComprehension:
				key := e.Eval(node.Key, env)
				if isSignal(key) {
					return key
				}
				dict.Set(key, val)
			case ast.SetComprehension:
				set.Add(val)
			default:
				list = append(list, val)
			}
			return nil
		}

		clause := node.Clauses[i]
		iterable := e.Eval(clause.Iterable, env)
		if isSignal(iterable) {
			return iterable
		}
		var sig Object
		if err := eachValue(iterable, func(item Object) bool {
			bindings, ok := e.TryMatch(clause.Pattern, item, env)
			if !ok {
				return true
			}
			iterEnv := NewEnclosedEnvironment(env)
			bindAll(iterEnv, bindings, false)
			for _, cond := range clause.Conditions {
				pass, s := e.condition(cond, iterEnv)
				if s != nil {
					sig = s
					return false
				}
				if !pass {
					return true
				}
			}
			if s := run(i+1, iterEnv); s != nil {
				sig = s
				return false
			}
			return true
		}); err != nil {
			return err
		}
		return sig
	}

	if sig := run(0, env); sig != nil {
		return sig
	}
	switch node.Kind {
	case ast.DictComprehension:
		return dict
	case ast.SetComprehension:
		return set
	}
	return newList(list)
}
