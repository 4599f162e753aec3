package evaluator

import (
	"strconv"

	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccessExpression, env *Environment) Object {
	obj := e.Eval(node.Object, env)
	if isSignal(obj) {
		return obj
	}
	return e.getField(obj, node.Field, env)
}

func (e *Evaluator) getField(obj Object, field string, env *Environment) Object {
	if idx, err := strconv.Atoi(field); err == nil {
		switch o := obj.(type) {
		case *Tuple:
			if idx < len(o.Elements) {
				return o.Elements[idx]
			}
			return newError(IndexOutOfBounds, "tuple index %d out of bounds for length %d", idx, len(o.Elements))
		case *Variant:
			if idx < len(o.Fields) {
				return o.Fields[idx]
			}
			return newError(IndexOutOfBounds, "variant %s has no field %d", o.Name, idx)
		}
	}

	switch o := obj.(type) {
	case *Struct:
		if v, ok := o.Fields.Get(field); ok {
			return v
		}
		if m, ok := o.Desc.Methods[field]; ok {
			return &BoundMethod{Receiver: o, Method: m}
		}
		return newError(KeyNotFound, "%s has no field %s", o.Desc.Name, field)
	case *ObjectMut:
		if v, ok := o.Fields.Get(field); ok {
			return v
		}
		if m, ok := o.Desc.Methods[field]; ok {
			return &BoundMethod{Receiver: o, Method: m}
		}
		return newError(KeyNotFound, "%s has no field %s", o.Desc.Name, field)
	case *Record:
		if v, ok := o.Fields.Get(field); ok {
			return v
		}
		return newError(KeyNotFound, "object has no field %s", field)
	case *Dict:
		if v, ok := o.Get(&String{Value: field}); ok {
			return v
		}
		return newError(KeyNotFound, "key not found: %s", field)
	case *ErrorValue:
		if v, ok := o.field(field); ok {
			return v
		}
		return newError(KeyNotFound, "error has no field %s", field)
	case *Module, *TypeDescriptor:
		val, err := e.member(obj, field)
		if err != nil {
			return err
		}
		return val
	case *DataFrame:
		if c, ok := o.Column(field); ok {
			return c
		}
		return newError(KeyNotFound, "DataFrame has no column %s", field)
	case *Series:
		if field == "name" {
			return &String{Value: o.Name}
		}
	}
	return typeError("object", obj, "cannot access field %s on %s", field, typeName(obj))
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isSignal(index) {
		return index
	}
	return e.index(left, index)
}

func (e *Evaluator) index(left, index Object) Object {
	if r, ok := index.(*Range); ok {
		return e.slice(left, r)
	}
	switch l := left.(type) {
	case *List:
		i, err := e.position(index, len(l.Elements))
		if err != nil {
			return err
		}
		return l.Elements[i]
	case *Tuple:
		i, err := e.position(index, len(l.Elements))
		if err != nil {
			return err
		}
		return l.Elements[i]
	case *Series:
		i, err := e.position(index, len(l.Values))
		if err != nil {
			return err
		}
		return l.Values[i]
	case *String:
		runes := []rune(l.Value)
		i, err := e.position(index, len(runes))
		if err != nil {
			return err
		}
		return &Char{Value: runes[i]}
	case *Dict:
		if v, ok := l.Get(index); ok {
			return v
		}
		return newError(KeyNotFound, "key not found: %s", index.Inspect())
	case *Record:
		key, err := stringArg("object index", index)
		if err != nil {
			return err
		}
		if v, ok := l.Fields.Get(key); ok {
			return v
		}
		return newError(KeyNotFound, "key not found: %s", key)
	case *DataFrame:
		key, err := stringArg("DataFrame index", index)
		if err != nil {
			return err
		}
		if c, ok := l.Column(key); ok {
			return c
		}
		return newError(KeyNotFound, "DataFrame has no column %s", key)
	}
	return typeError("indexable", left, "cannot index %s", typeName(left))
}

// position resolves an index against length n; negative values count from
// the end.
func (e *Evaluator) position(index Object, n int) (int, *Error) {
	i, err := intArg("index", index)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, newError(IndexOutOfBounds, "index %d out of bounds for length %d", i, n)
	}
	return int(i), nil
}

// sliceBounds clamps a range to [0, n].
func sliceBounds(r *Range, n int) (int, int) {
	start, end := int64(0), int64(n)
	if r.HasStart {
		start = r.Start
	}
	if r.HasEnd {
		end = r.End
		if r.Inclusive {
			end++
		}
	}
	if start < 0 {
		start += int64(n)
	}
	if end < 0 {
		end += int64(n)
	}
	start = clamp(start, 0, int64(n))
	end = clamp(end, 0, int64(n))
	if start > end {
		start = end
	}
	return int(start), int(end)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Evaluator) slice(left Object, r *Range) Object {
	switch l := left.(type) {
	case *List:
		s, t := sliceBounds(r, len(l.Elements))
		return e.newList(append([]Object(nil), l.Elements[s:t]...))
	case *Tuple:
		s, t := sliceBounds(r, len(l.Elements))
		return e.newTuple(append([]Object(nil), l.Elements[s:t]...))
	case *String:
		runes := []rune(l.Value)
		s, t := sliceBounds(r, len(runes))
		return e.newString(string(runes[s:t]))
	case *Series:
		s, t := sliceBounds(r, len(l.Values))
		return &Series{Name: l.Name, Values: append([]Object(nil), l.Values[s:t]...)}
	}
	return typeError("sliceable", left, "cannot slice %s", typeName(left))
}
