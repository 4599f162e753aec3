package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

// methodFunc implements a builtin method; args exclude the receiver.
type methodFunc func(e *Evaluator, recv Object, args []Object) Object

// mutatorFunc implements a builtin method that changes its receiver. It
// returns the call result and the updated receiver.
type mutatorFunc func(e *Evaluator, recv Object, args []Object) (Object, Object)

// Method tables are filled in init because their entries call back into
// the evaluator.
var (
	listMethods      map[string]methodFunc
	listMutators     map[string]mutatorFunc
	stringMethods    map[string]methodFunc
	charMethods      map[string]methodFunc
	dictMethods      map[string]methodFunc
	dictMutators     map[string]mutatorFunc
	setMethods       map[string]methodFunc
	setMutators      map[string]mutatorFunc
	tupleMethods     map[string]methodFunc
	rangeMethods     map[string]methodFunc
	intMethods       map[string]methodFunc
	floatMethods     map[string]methodFunc
	optionMethods    map[string]methodFunc
	resultMethods    map[string]methodFunc
	seriesMethods    map[string]methodFunc
	dataFrameMethods map[string]methodFunc
)

func methodTables(recv Object) (map[string]methodFunc, map[string]mutatorFunc) {
	switch r := recv.(type) {
	case *List:
		return listMethods, listMutators
	case *String:
		return stringMethods, nil
	case *Char:
		return charMethods, nil
	case *Dict:
		return dictMethods, dictMutators
	case *Set:
		return setMethods, setMutators
	case *Tuple:
		return tupleMethods, nil
	case *Range:
		return rangeMethods, nil
	case *Integer, *Byte:
		return intMethods, nil
	case *Float:
		return floatMethods, nil
	case *Series:
		return seriesMethods, nil
	case *DataFrame:
		return dataFrameMethods, nil
	case *Variant:
		switch r.Enum {
		case OptionTypeName:
			return optionMethods, nil
		case ResultTypeName:
			return resultMethods, nil
		}
	}
	return nil, nil
}

func (e *Evaluator) builtinMethod(recv Object, name string, args []Object, named map[string]Object, place ast.Expression, env *Environment) (Object, bool) {
	methods, mutators := methodTables(recv)
	if m, ok := mutators[name]; ok {
		if len(named) > 0 {
			return newError(ArityError, "%s does not take named arguments", name), true
		}
		res, updated := m(e, recv, args)
		if isError(res) {
			return res, true
		}
		if err := e.writeBack(place, updated, env); err != nil {
			return err, true
		}
		return res, true
	}
	if m, ok := methods[name]; ok {
		if len(named) > 0 {
			return newError(ArityError, "%s does not take named arguments", name), true
		}
		return m(e, recv, args), true
	}
	return nil, false
}

// call1 and call2 apply callbacks passed to builtin methods.
func (e *Evaluator) call1(fn Object, a Object) Object {
	return e.ApplyFunction(fn, []Object{a}, nil)
}

func (e *Evaluator) call2(fn Object, a, b Object) Object {
	return e.ApplyFunction(fn, []Object{a, b}, nil)
}

// predicate applies fn and requires a Bool result.
func (e *Evaluator) predicate(fn Object, a Object) (bool, Object) {
	res := e.call1(fn, a)
	if isError(res) {
		return false, res
	}
	b, ok := res.(*Boolean)
	if !ok {
		return false, typeError(RUNTIME_TYPE_BOOL, res, "predicate must return a Bool, got %s", typeName(res))
	}
	return b.Value, nil
}

func callableArg(name string, obj Object) *Error {
	if isCallable(obj) || isTag(obj) {
		return nil
	}
	return typeError(RUNTIME_TYPE_FUNCTION, obj, "%s expects a function, got %s", name, typeName(obj))
}
