package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalMethodCall(node *ast.MethodCallExpression, env *Environment) Object {
	recv := e.Eval(node.Receiver, env)
	if isSignal(recv) {
		return recv
	}
	args, named, sig := e.evalArguments(node.Arguments, env)
	if sig != nil {
		return sig
	}
	return e.callMethod(recv, node.Method, args, named, node.Receiver, env)
}

// callMethod dispatches recv.name(args). place is the receiver expression
// used to write back updated value-typed receivers; nil disables that.
//
// Lookup order: type statics and module members, user methods and actor
// handlers, function-valued fields, builtin method tables, impl blocks on
// builtin types, generic methods, then a function of that name called with
// the receiver first.
func (e *Evaluator) callMethod(recv Object, name string, args []Object, named map[string]Object, place ast.Expression, env *Environment) Object {
	switch r := recv.(type) {
	case *TypeDescriptor:
		return e.callTypeMember(r, name, args, named)
	case *Module:
		member, ok := r.Member(name)
		if !ok {
			return newError(UndefinedName, "module %s has no member %s", r.Name, name)
		}
		return e.ApplyFunction(member, args, named)
	case *ObjectMut:
		if r.Desc.Kind == ActorType {
			if res, ok := e.actorMethod(r, name, args, named); ok {
				return res
			}
		}
		if m, ok := r.Desc.Methods[name]; ok {
			res, _ := e.callFunction(m, r, args, named)
			return res
		}
		if fv, ok := r.Fields.Get(name); ok && isCallable(fv) {
			return e.ApplyFunction(fv, args, named)
		}
	case *Struct:
		if m, ok := r.Desc.Methods[name]; ok {
			return e.callValueMethod(m, r, args, named, place, env)
		}
		if fv, ok := r.Fields.Get(name); ok && isCallable(fv) {
			return e.ApplyFunction(fv, args, named)
		}
	case *Record:
		if fv, ok := r.Fields.Get(name); ok && isCallable(fv) {
			return e.ApplyFunction(fv, args, named)
		}
	case *Variant:
		if r.Enum != "" && r.Enum != OptionTypeName && r.Enum != ResultTypeName {
			if obj, ok := env.Get(r.Enum); ok {
				if desc, ok := obj.(*TypeDescriptor); ok {
					if m, ok := desc.Methods[name]; ok {
						return e.callValueMethod(m, r, args, named, place, env)
					}
				}
			}
		}
	}

	if res, ok := e.builtinMethod(recv, name, args, named, place, env); ok {
		return res
	}
	if desc, ok := e.Impls[typeName(recv)]; ok {
		if m, ok := desc.Methods[name]; ok {
			return e.callValueMethod(m, recv, args, named, place, env)
		}
	}
	if res, ok := e.genericMethod(recv, name, args); ok {
		return res
	}
	if fn, ok := env.Get(name); ok && isCallable(fn) {
		return e.ApplyFunction(fn, append([]Object{recv}, args...), named)
	}
	return newError(UndefinedName, "no method named %s found for %s", name, typeName(recv))
}

// callValueMethod runs a method on a value-typed receiver. A `&mut self`
// method writes its final self back to the receiver's place.
func (e *Evaluator) callValueMethod(m *Function, recv Object, args []Object, named map[string]Object, place ast.Expression, env *Environment) Object {
	res, self := e.callFunction(m, recv, args, named)
	if isError(res) || m.Receiver != ast.ReceiverMutRef || self == recv {
		return res
	}
	if err := e.writeBack(place, self, env); err != nil {
		return err
	}
	return res
}

// writeBack stores an updated receiver when the receiver expression is a
// place; temporaries are dropped.
func (e *Evaluator) writeBack(place ast.Expression, val Object, env *Environment) *Error {
	switch p := place.(type) {
	case *ast.Identifier, *ast.FieldAccessExpression, *ast.IndexExpression:
		return e.assignPlace(p, val, env)
	case *ast.PrefixExpression:
		if p.Operator == "*" || p.Operator == "&mut" || p.Operator == "&" {
			return e.writeBack(p.Right, val, env)
		}
	}
	return nil
}

func (e *Evaluator) callTypeMember(desc *TypeDescriptor, name string, args []Object, named map[string]Object) Object {
	if fn, ok := desc.Statics[name]; ok {
		return e.ApplyFunction(fn, args, named)
	}
	if name == "new" && desc.Kind != EnumType && desc.Kind != BuiltinType {
		return e.instantiate(desc, args, named)
	}
	if v, ok := desc.variant(name); ok {
		if err := checkArgs(desc.Name+"::"+name, args, v.Arity, v.Arity); err != nil {
			return err
		}
		return &Variant{Enum: desc.Name, Name: v.Name, Fields: append([]Object(nil), args...)}
	}
	if fn, ok := desc.Methods[name]; ok {
		return e.ApplyFunction(fn, args, named)
	}
	return newError(UndefinedName, "%s has no associated function %s", desc.Name, name)
}

// genericMethod covers methods every value has.
func (e *Evaluator) genericMethod(recv Object, name string, args []Object) (Object, bool) {
	switch name {
	case "to_string":
		return e.newString(Display(recv)), true
	case "debug":
		return e.newString(recv.Inspect()), true
	case "clone":
		return cloneValue(recv), true
	case "type_of":
		return &String{Value: typeName(recv)}, true
	case "eq":
		if err := checkArgs("eq", args, 1, 1); err != nil {
			return err, true
		}
		return nativeBool(objectsEqual(recv, args[0])), true
	}
	return nil, false
}

// cloneValue copies the outer container; mutable cells get a fresh cell.
func cloneValue(obj Object) Object {
	switch o := obj.(type) {
	case *List:
		return newList(append([]Object(nil), o.Elements...))
	case *Dict:
		return o.Copy()
	case *Set:
		return o.Copy()
	case *Record:
		return &Record{Fields: o.Fields.Copy()}
	case *ObjectMut:
		return &ObjectMut{Desc: o.Desc, Fields: o.Fields.Copy()}
	}
	return obj
}
