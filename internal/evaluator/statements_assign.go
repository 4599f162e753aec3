package evaluator

import (
	"errors"
	"strconv"

	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	if err := e.assignPlace(node.Target, val, env); err != nil {
		return err
	}
	return NIL
}

func (e *Evaluator) evalCompoundAssign(node *ast.CompoundAssignExpression, env *Environment) Object {
	cur := e.Eval(node.Target, env)
	if isSignal(cur) {
		return cur
	}
	rhs := e.Eval(node.Value, env)
	if isSignal(rhs) {
		return rhs
	}
	val := e.binaryOp(node.Operator, cur, rhs)
	if isError(val) {
		return val
	}
	if err := e.assignPlace(node.Target, val, env); err != nil {
		return err
	}
	return NIL
}

// assignPlace stores val into the place target denotes. Value-typed
// containers are copied and the copy is written back to their own place;
// mutable cells are updated in place.
func (e *Evaluator) assignPlace(target ast.Expression, val Object, env *Environment) *Error {
	switch t := target.(type) {
	case *ast.Identifier:
		return assignName(env, t.Value, val)

	case *ast.PrefixExpression:
		if t.Operator == "*" {
			return e.assignPlace(t.Right, val, env)
		}

	case *ast.TupleLiteral:
		tuple, ok := val.(*Tuple)
		if !ok || len(tuple.Elements) != len(t.Elements) {
			return typeError(RUNTIME_TYPE_TUPLE, val, "cannot destructure %s into %d targets", typeName(val), len(t.Elements))
		}
		for i, el := range t.Elements {
			if err := e.assignPlace(el, tuple.Elements[i], env); err != nil {
				return err
			}
		}
		return nil

	case *ast.FieldAccessExpression:
		container := e.Eval(t.Object, env)
		if err, ok := container.(*Error); ok {
			return err
		}
		if cell, ok := container.(*ObjectMut); ok {
			return setCellField(cell, t.Field, val)
		}
		updated, err := withField(container, t.Field, val)
		if err != nil {
			return err
		}
		return e.assignPlace(t.Object, updated, env)

	case *ast.IndexExpression:
		container := e.Eval(t.Left, env)
		if err, ok := container.(*Error); ok {
			return err
		}
		index := e.Eval(t.Index, env)
		if err, ok := index.(*Error); ok {
			return err
		}
		updated, err := e.withIndex(container, index, val)
		if err != nil {
			return err
		}
		if updated == nil {
			return nil
		}
		return e.assignPlace(t.Left, updated, env)
	}
	return newError(TypeMismatch, "invalid assignment target")
}

func assignName(env *Environment, name string, val Object) *Error {
	err := env.Assign(name, val)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errUndefined):
		return newError(UndefinedName, "undefined variable: %s", name)
	case errors.Is(err, errSealed):
		return newError(ImmutableAssignment, "cannot assign to %s: environment is sealed", name)
	}
	return newError(ImmutableAssignment, "cannot assign twice to immutable variable %s", name)
}

func setCellField(cell *ObjectMut, field string, val Object) *Error {
	spec, declared := cell.Desc.field(field)
	if !declared {
		if _, ok := cell.Fields.Get(field); !ok {
			return newError(KeyNotFound, "%s has no field %s", cell.Desc.Name, field)
		}
	}
	if declared && !spec.Mutable && !cell.initializing {
		return newError(ImmutableAssignment, "field %s of %s is not mutable", field, cell.Desc.Name)
	}
	cell.Fields.Set(field, val)
	return nil
}

// withField returns a copy of a value-typed container with field set.
func withField(container Object, field string, val Object) (Object, *Error) {
	switch c := container.(type) {
	case *Struct:
		if _, ok := c.Fields.Get(field); !ok {
			return nil, newError(KeyNotFound, "%s has no field %s", c.Desc.Name, field)
		}
		fields := c.Fields.Copy()
		fields.Set(field, val)
		return &Struct{Desc: c.Desc, Fields: fields}, nil
	case *Record:
		fields := c.Fields.Copy()
		fields.Set(field, val)
		return &Record{Fields: fields}, nil
	case *Dict:
		d := c.Copy()
		d.Set(&String{Value: field}, val)
		return d, nil
	case *Tuple:
		i, err := strconv.Atoi(field)
		if err != nil || i >= len(c.Elements) {
			return nil, newError(IndexOutOfBounds, "tuple has no field %s", field)
		}
		elems := append([]Object(nil), c.Elements...)
		elems[i] = val
		return &Tuple{Elements: elems}, nil
	}
	return nil, typeError("object", container, "cannot assign field %s on %s", field, typeName(container))
}

// withIndex returns an updated copy of container, or nil when the
// container was a mutable cell updated in place.
func (e *Evaluator) withIndex(container, index, val Object) (Object, *Error) {
	switch c := container.(type) {
	case *List:
		i, err := e.position(index, len(c.Elements))
		if err != nil {
			return nil, err
		}
		elems := append([]Object(nil), c.Elements...)
		elems[i] = val
		return newList(elems), nil
	case *Dict:
		d := c.Copy()
		d.Set(index, val)
		return d, nil
	case *Record:
		key, err := stringArg("object index", index)
		if err != nil {
			return nil, err
		}
		return withField(c, key, val)
	case *ObjectMut:
		key, err := stringArg("field index", index)
		if err != nil {
			return nil, err
		}
		return nil, setCellField(c, key, val)
	}
	return nil, typeError("indexable", container, "cannot assign through index on %s", typeName(container))
}
