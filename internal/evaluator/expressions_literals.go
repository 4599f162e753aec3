package evaluator

import (
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalIntegerLiteral(node *ast.IntegerLiteral) Object {
	switch {
	case strings.HasPrefix(node.Suffix, "f"):
		return &Float{Value: float64(node.Value)}
	case node.Suffix == "u8":
		if node.Value < 0 || node.Value > 255 {
			return newError(TypeMismatch, "literal %d out of range for u8", node.Value)
		}
		return &Byte{Value: byte(node.Value)}
	}
	return &Integer{Value: node.Value}
}

func (e *Evaluator) evalInterpolatedString(node *ast.InterpolatedString, env *Environment) Object {
	var b strings.Builder
	for _, part := range node.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			b.WriteString(lit.Value)
			continue
		}
		val := e.Eval(part, env)
		if isSignal(val) {
			return val
		}
		b.WriteString(Display(val))
	}
	return e.newString(b.String())
}

// evalExpressions evaluates exprs left to right, stopping at the first
// error or signal.
func (e *Evaluator) evalExpressions(exprs []ast.Expression, env *Environment) ([]Object, Object) {
	result := make([]Object, 0, len(exprs))
	for _, ex := range exprs {
		val := e.Eval(ex, env)
		if isSignal(val) {
			return nil, val
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	elems, sig := e.evalExpressions(node.Elements, env)
	if sig != nil {
		return sig
	}
	return e.newList(elems)
}

func (e *Evaluator) evalTupleLiteral(node *ast.TupleLiteral, env *Environment) Object {
	elems, sig := e.evalExpressions(node.Elements, env)
	if sig != nil {
		return sig
	}
	return e.newTuple(elems)
}

func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *Environment) Object {
	fields := NewFieldMap()
	for _, f := range node.Fields {
		val := e.Eval(f.Value, env)
		if isSignal(val) {
			return val
		}
		fields.Set(f.Key, val)
	}
	if err := e.charge(objectOverhead + wordSize*int64(fields.Len())); err != nil {
		return err
	}
	return &Record{Fields: fields}
}

// evalStructLiteral builds `Name { f: v, ..base }`. Missing fields come from
// base, then from declared defaults.
func (e *Evaluator) evalStructLiteral(node *ast.StructLiteral, env *Environment) Object {
	obj, ok := env.Get(node.Name)
	if !ok {
		return newError(UndefinedName, "undefined type: %s", node.Name)
	}
	desc, ok := obj.(*TypeDescriptor)
	if !ok || desc.Kind == EnumType || desc.Kind == BuiltinType {
		return typeError("struct type", obj, "%s is not a struct type", node.Name)
	}
	named := map[string]Object{}
	if node.Base != nil {
		base := e.Eval(node.Base, env)
		if isSignal(base) {
			return base
		}
		var baseFields *FieldMap
		switch b := base.(type) {
		case *Struct:
			baseFields = b.Fields
		case *ObjectMut:
			baseFields = b.Fields
		case *Record:
			baseFields = b.Fields
		default:
			return typeError(desc.Name, base, "struct update base must be a %s, got %s", desc.Name, typeName(base))
		}
		for _, name := range baseFields.Names() {
			named[name], _ = baseFields.Get(name)
		}
	}
	for _, f := range node.Fields {
		val := e.Eval(f.Value, env)
		if isSignal(val) {
			return val
		}
		if _, declared := desc.field(f.Key); !declared {
			return newError(KeyNotFound, "%s has no field %s", desc.Name, f.Key)
		}
		named[f.Key] = val
	}
	return e.newInstance(desc, nil, named)
}

func (e *Evaluator) evalRangeExpression(node *ast.RangeExpression, env *Environment) Object {
	r := &Range{Inclusive: node.Inclusive}
	if node.Start != nil {
		start := e.Eval(node.Start, env)
		if isSignal(start) {
			return start
		}
		n, err := intArg("range start", start)
		if err != nil {
			return err
		}
		r.Start, r.HasStart = n, true
	}
	if node.End != nil {
		end := e.Eval(node.End, env)
		if isSignal(end) {
			return end
		}
		n, err := intArg("range end", end)
		if err != nil {
			return err
		}
		r.End, r.HasEnd = n, true
	}
	return r
}
