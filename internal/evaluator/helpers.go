package evaluator

import (
	"unicode"
	"unicode/utf8"
)

func isNumeric(obj Object) bool {
	switch obj.(type) {
	case *Integer, *Float, *Byte:
		return true
	}
	return false
}

func toInt(obj Object) (int64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return o.Value, true
	case *Byte:
		return int64(o.Value), true
	}
	return 0, false
}

func toFloat(obj Object) (float64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Float:
		return o.Value, true
	case *Byte:
		return float64(o.Value), true
	}
	return 0, false
}

func isCallable(obj Object) bool {
	switch obj.(type) {
	case *Function, *Builtin, *BoundMethod, *TypeDescriptor:
		return true
	}
	return false
}

func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// isTag reports whether obj is a bare message tag such as Increment.
func isTag(obj Object) bool {
	v, ok := obj.(*Variant)
	return ok && v.Enum == ""
}

func checkArgs(name string, args []Object, min, max int) *Error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		switch {
		case min == max:
			return newError(ArityError, "%s expects %d argument(s), got %d", name, min, len(args))
		case max < 0:
			return newError(ArityError, "%s expects at least %d argument(s), got %d", name, min, len(args))
		}
		return newError(ArityError, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

func intArg(name string, obj Object) (int64, *Error) {
	if n, ok := toInt(obj); ok {
		return n, nil
	}
	return 0, typeError(RUNTIME_TYPE_INT, obj, "%s expects an Int, got %s", name, typeName(obj))
}

func floatArg(name string, obj Object) (float64, *Error) {
	if f, ok := toFloat(obj); ok {
		return f, nil
	}
	return 0, typeError(RUNTIME_TYPE_FLOAT, obj, "%s expects a number, got %s", name, typeName(obj))
}

func stringArg(name string, obj Object) (string, *Error) {
	switch o := obj.(type) {
	case *String:
		return o.Value, nil
	case *Char:
		return string(o.Value), nil
	}
	return "", typeError(RUNTIME_TYPE_STRING, obj, "%s expects a String, got %s", name, typeName(obj))
}

func boolArg(name string, obj Object) (bool, *Error) {
	if b, ok := obj.(*Boolean); ok {
		return b.Value, nil
	}
	return false, typeError(RUNTIME_TYPE_BOOL, obj, "%s expects a Bool, got %s", name, typeName(obj))
}

// eachValue walks the elements an iterable yields, without materializing
// ranges. fn returns false to stop early.
func eachValue(obj Object, fn func(Object) bool) *Error {
	switch o := obj.(type) {
	case *List:
		for _, el := range o.Elements {
			if !fn(el) {
				return nil
			}
		}
	case *Tuple:
		for _, el := range o.Elements {
			if !fn(el) {
				return nil
			}
		}
	case *Range:
		if !o.HasStart || !o.HasEnd {
			return newError(TypeMismatch, "cannot iterate an open range %s", o.Inspect())
		}
		for i := o.Start; i <= o.Last(); i++ {
			if !fn(&Integer{Value: i}) {
				return nil
			}
		}
	case *String:
		for _, r := range o.Value {
			if !fn(&String{Value: string(r)}) {
				return nil
			}
		}
	case *Dict:
		for _, en := range o.entries {
			if !fn(&Tuple{Elements: []Object{en.Key, en.Value}}) {
				return nil
			}
		}
	case *Set:
		for _, el := range o.elements {
			if !fn(el) {
				return nil
			}
		}
	case *Series:
		for _, el := range o.Values {
			if !fn(el) {
				return nil
			}
		}
	case *Record:
		for _, name := range o.Fields.Names() {
			v, _ := o.Fields.Get(name)
			if !fn(&Tuple{Elements: []Object{&String{Value: name}, v}}) {
				return nil
			}
		}
	case *DataFrame:
		for i := 0; i < o.Rows(); i++ {
			if !fn(o.row(i)) {
				return nil
			}
		}
	case *Variant:
		if o.is(OptionTypeName, "Some") {
			fn(o.Fields[0])
			return nil
		}
		if o.is(OptionTypeName, "None") {
			return nil
		}
		return typeError("iterable", obj, "%s is not iterable", typeName(obj))
	default:
		return typeError("iterable", obj, "%s is not iterable", typeName(obj))
	}
	return nil
}

// collect materializes an iterable.
func collect(obj Object) ([]Object, *Error) {
	if l, ok := obj.(*List); ok {
		return l.Elements, nil
	}
	var out []Object
	err := eachValue(obj, func(v Object) bool {
		out = append(out, v)
		return true
	})
	return out, err
}
