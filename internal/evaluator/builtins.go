package evaluator

import (
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/funvibe/ruchy/internal/config"
)

var (
	preludeOnce sync.Once
	prelude     *Environment
)

// Builtins maps every builtin function name to its implementation.
var Builtins map[string]*Builtin

func init() {
	Builtins = map[string]*Builtin{}
	register := func(name string, fn BuiltinFunction) {
		Builtins[name] = &Builtin{Name: name, Fn: fn}
	}
	register(config.PrintlnFuncName, builtinPrintln)
	register(config.PrintFuncName, builtinPrint)
	register("eprintln", builtinEprintln)
	register("dbg", builtinDbg)
	register("format", builtinFormat)
	register(config.LenFuncName, builtinLen)
	register(config.TypeOfFuncName, builtinTypeOf)
	register("str", builtinStr)
	register("int", func(e *Evaluator, args ...Object) Object { return convertWith("int", args, convertToInt) })
	register("float", func(e *Evaluator, args ...Object) Object { return convertWith("float", args, convertToFloat) })
	register("bool", func(e *Evaluator, args ...Object) Object { return convertWith("bool", args, convertToBool) })
	register("range", builtinRange)
	register("assert", builtinAssert)
	register("assert_eq", builtinAssertEq)
	register(config.ErrorFuncName, builtinError)
	register(config.PanicFuncName, builtinPanic)
	register(config.InputFuncName, builtinInput)
	register(config.ReadFileName, builtinReadFile)
	register(config.WriteFileName, builtinWriteFile)
	register("min", func(e *Evaluator, args ...Object) Object { return builtinExtreme(e, "min", -1, args) })
	register("max", func(e *Evaluator, args ...Object) Object { return builtinExtreme(e, "max", 1, args) })
	register("abs", builtinAbs)
	register("sqrt", builtinSqrt)
	register("pow", builtinPow)
	register(config.ExitFuncName, builtinExit)
	register("sleep", builtinSleep)
	register(config.SomeCtorName, builtinSome)
	register(config.OkCtorName, builtinOk)
	register(config.ErrCtorName, builtinErr)
	register("DataFrame", builtinDataFrame)
	register("DataFrame::new", builtinDataFrame)
	register("Series", builtinSeries)
	register("Vec::new", func(e *Evaluator, args ...Object) Object { return emptyCtor("Vec::new", args, newList(nil)) })
	register("Vec::with_capacity", builtinVecWithCapacity)
	register("HashMap::new", func(e *Evaluator, args ...Object) Object { return emptyCtor("HashMap::new", args, NewDict()) })
	register("HashSet::new", func(e *Evaluator, args ...Object) Object { return emptyCtor("HashSet::new", args, NewSet()) })
	register("String::new", func(e *Evaluator, args ...Object) Object { return emptyCtor("String::new", args, &String{}) })
	register("String::from", builtinStringFrom)
}

// NewGlobalEnvironment returns a fresh top-level frame over the shared
// builtin frame.
func NewGlobalEnvironment() *Environment {
	preludeOnce.Do(func() {
		prelude = NewEnvironment()
		for name, b := range Builtins {
			prelude.Set(name, b)
		}
		prelude.Set(config.NoneCtorName, NONE)
		prelude.Freeze()
	})
	return NewEnclosedEnvironment(prelude)
}

// IsBuiltinName reports whether name is bound by the builtin frame.
func IsBuiltinName(name string) bool {
	_, ok := Builtins[name]
	return ok || name == config.NoneCtorName
}

// usesTemplate reports whether println-style arguments are a format
// template followed by its values.
func usesTemplate(args []Object) bool {
	if len(args) < 2 {
		return false
	}
	s, ok := args[0].(*String)
	return ok && strings.Contains(s.Value, "{")
}

func (e *Evaluator) render(args []Object) (string, Object) {
	if usesTemplate(args) {
		out, err := formatTemplate(args[0].(*String).Value, args[1:])
		if err != nil {
			return "", newError(TypeMismatch, "%v", err)
		}
		return out, nil
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Display(a)
	}
	return strings.Join(parts, " "), nil
}

func (e *Evaluator) write(w io.Writer, s string) Object {
	if _, err := w.Write([]byte(s)); err != nil {
		return newError(IOError, "write failed: %v", err)
	}
	return NIL
}

func builtinPrintln(e *Evaluator, args ...Object) Object {
	s, err := e.render(args)
	if err != nil {
		return err
	}
	return e.write(e.Out, s+"\n")
}

func builtinPrint(e *Evaluator, args ...Object) Object {
	s, err := e.render(args)
	if err != nil {
		return err
	}
	return e.write(e.Out, s)
}

func builtinEprintln(e *Evaluator, args ...Object) Object {
	s, err := e.render(args)
	if err != nil {
		return err
	}
	return e.write(e.ErrOut, s+"\n")
}

// builtinDbg prints the debug form to stderr and returns its argument.
func builtinDbg(e *Evaluator, args ...Object) Object {
	if err := checkArgs("dbg", args, 1, 1); err != nil {
		return err
	}
	if res := e.write(e.ErrOut, "[dbg] "+args[0].Inspect()+"\n"); isError(res) {
		return res
	}
	return args[0]
}

func builtinFormat(e *Evaluator, args ...Object) Object {
	if err := checkArgs("format", args, 1, -1); err != nil {
		return err
	}
	tmpl, err := stringArg("format", args[0])
	if err != nil {
		return err
	}
	out, ferr := formatTemplate(tmpl, args[1:])
	if ferr != nil {
		return newError(TypeMismatch, "%v", ferr)
	}
	return e.newString(out)
}

func builtinLen(e *Evaluator, args ...Object) Object {
	if err := checkArgs("len", args, 1, 1); err != nil {
		return err
	}
	var n int
	switch a := args[0].(type) {
	case *String:
		n = len([]rune(a.Value))
	case *List:
		n = len(a.Elements)
	case *Tuple:
		n = len(a.Elements)
	case *Dict:
		n = a.Len()
	case *Set:
		n = a.Len()
	case *Record:
		n = a.Fields.Len()
	case *Series:
		n = len(a.Values)
	case *DataFrame:
		n = a.Rows()
	case *Range:
		if err := bounded(a); err != nil {
			return err
		}
		return &Integer{Value: a.Len()}
	default:
		return typeError("collection", a, "len of %s", typeName(a))
	}
	return &Integer{Value: int64(n)}
}

func builtinTypeOf(e *Evaluator, args ...Object) Object {
	if err := checkArgs("type_of", args, 1, 1); err != nil {
		return err
	}
	return &String{Value: typeName(args[0])}
}

func builtinStr(e *Evaluator, args ...Object) Object {
	if err := checkArgs("str", args, 1, 1); err != nil {
		return err
	}
	return e.newString(Display(args[0]))
}

func convertWith(name string, args []Object, conv func(Object) Object) Object {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return err
	}
	return conv(args[0])
}

// convertToInt truncates floats and parses strings.
func convertToInt(obj Object) Object {
	switch o := obj.(type) {
	case *Integer:
		return o
	case *Byte:
		return &Integer{Value: int64(o.Value)}
	case *Float:
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return typeError(RUNTIME_TYPE_INT, obj, "cannot convert %s to Int", formatFloat(o.Value))
		}
		return &Integer{Value: int64(o.Value)}
	case *Boolean:
		if o.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *Char:
		return &Integer{Value: int64(o.Value)}
	case *String:
		s := strings.TrimSpace(o.Value)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &Integer{Value: n}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &Integer{Value: int64(f)}
		}
		return typeError(RUNTIME_TYPE_INT, obj, "cannot convert %s to Int", quoteString(o.Value))
	}
	return typeError(RUNTIME_TYPE_INT, obj, "cannot convert %s to Int", typeName(obj))
}

func convertToFloat(obj Object) Object {
	switch o := obj.(type) {
	case *Float:
		return o
	case *Integer:
		return &Float{Value: float64(o.Value)}
	case *Byte:
		return &Float{Value: float64(o.Value)}
	case *Boolean:
		if o.Value {
			return &Float{Value: 1}
		}
		return &Float{Value: 0}
	case *String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(o.Value), 64); err == nil {
			return &Float{Value: f}
		}
		return typeError(RUNTIME_TYPE_FLOAT, obj, "cannot convert %s to Float", quoteString(o.Value))
	}
	return typeError(RUNTIME_TYPE_FLOAT, obj, "cannot convert %s to Float", typeName(obj))
}

// convertToBool follows truthiness: zero, empty and absent values are false.
func convertToBool(obj Object) Object {
	switch o := obj.(type) {
	case *Boolean:
		return o
	case *Integer:
		return nativeBool(o.Value != 0)
	case *Float:
		return nativeBool(o.Value != 0)
	case *Byte:
		return nativeBool(o.Value != 0)
	case *String:
		if b, err := strconv.ParseBool(o.Value); err == nil {
			return nativeBool(b)
		}
		return nativeBool(o.Value != "")
	case *Nil:
		return FALSE
	case *List:
		return nativeBool(len(o.Elements) > 0)
	case *Variant:
		if o.Enum == OptionTypeName {
			return nativeBool(o.Name == "Some")
		}
	}
	return TRUE
}

// builtinRange returns a lazy range, or a list when a step is given.
func builtinRange(e *Evaluator, args ...Object) Object {
	if err := checkArgs("range", args, 2, 3); err != nil {
		return err
	}
	lo, err := intArg("range", args[0])
	if err != nil {
		return err
	}
	hi, err := intArg("range", args[1])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		return &Range{Start: lo, End: hi, HasStart: true, HasEnd: true}
	}
	step, err := intArg("range", args[2])
	if err != nil {
		return err
	}
	if step == 0 {
		return newError(IndexOutOfBounds, "range step must not be zero")
	}
	var out []Object
	for i := lo; (step > 0 && i < hi) || (step < 0 && i > hi); i += step {
		out = append(out, &Integer{Value: i})
	}
	return e.newList(out)
}

func builtinAssert(e *Evaluator, args ...Object) Object {
	if err := checkArgs("assert", args, 1, 2); err != nil {
		return err
	}
	ok, err := boolArg("assert", args[0])
	if err != nil {
		return err
	}
	if ok {
		return NIL
	}
	msg := "assertion failed"
	if len(args) == 2 {
		msg += ": " + Display(args[1])
	}
	return newError(UserError, "%s", msg)
}

func builtinAssertEq(e *Evaluator, args ...Object) Object {
	if err := checkArgs("assert_eq", args, 2, 3); err != nil {
		return err
	}
	if objectsEqual(args[0], args[1]) {
		return NIL
	}
	msg := "assertion failed: " + args[0].Inspect() + " != " + args[1].Inspect()
	if len(args) == 3 {
		msg += ": " + Display(args[2])
	}
	return newError(UserError, "%s", msg)
}

// builtinError raises its argument as a catchable error.
func builtinError(e *Evaluator, args ...Object) Object {
	if err := checkArgs("error", args, 1, 1); err != nil {
		return err
	}
	return userError(args[0])
}

func builtinPanic(e *Evaluator, args ...Object) Object {
	if err := checkArgs("panic", args, 0, 1); err != nil {
		return err
	}
	msg := "explicit panic"
	var payload Object
	if len(args) == 1 {
		msg, payload = Display(args[0]), args[0]
	}
	return &Error{Kind: UserError, Message: "panic: " + msg, Payload: payload}
}

// builtinExtreme takes two or more values, or one collection; an empty
// collection yields ().
func builtinExtreme(e *Evaluator, name string, dir int, args []Object) Object {
	if err := checkArgs(name, args, 1, -1); err != nil {
		return err
	}
	if len(args) == 1 {
		xs, err := collect(args[0])
		if err != nil {
			return err
		}
		args = xs
	}
	return listExtreme(e, newList(args), nil, name, dir)
}

func builtinAbs(e *Evaluator, args ...Object) Object {
	if err := checkArgs("abs", args, 1, 1); err != nil {
		return err
	}
	switch a := args[0].(type) {
	case *Integer:
		if a.Value < 0 {
			return &Integer{Value: -a.Value}
		}
		return a
	case *Float:
		return &Float{Value: math.Abs(a.Value)}
	}
	return typeError("number", args[0], "abs of %s", typeName(args[0]))
}

func builtinSqrt(e *Evaluator, args ...Object) Object {
	if err := checkArgs("sqrt", args, 1, 1); err != nil {
		return err
	}
	f, err := floatArg("sqrt", args[0])
	if err != nil {
		return err
	}
	return &Float{Value: math.Sqrt(f)}
}

func builtinPow(e *Evaluator, args ...Object) Object {
	if err := checkArgs("pow", args, 2, 2); err != nil {
		return err
	}
	return e.binaryOp("**", args[0], args[1])
}

// builtinExit asks the host to stop; it cannot be caught.
func builtinExit(e *Evaluator, args ...Object) Object {
	if err := checkArgs("exit", args, 0, 1); err != nil {
		return err
	}
	code := int64(0)
	if len(args) == 1 {
		c, err := intArg("exit", args[0])
		if err != nil {
			return err
		}
		code = c
	}
	return &Error{Kind: ExitRequested, Message: "exit requested", ExitCode: int(code)}
}

func builtinSome(e *Evaluator, args ...Object) Object {
	if err := checkArgs(config.SomeCtorName, args, 1, 1); err != nil {
		return err
	}
	return someValue(args[0])
}

func builtinOk(e *Evaluator, args ...Object) Object {
	if err := checkArgs(config.OkCtorName, args, 0, 1); err != nil {
		return err
	}
	if len(args) == 0 {
		return okValue(NIL)
	}
	return okValue(args[0])
}

func builtinErr(e *Evaluator, args ...Object) Object {
	if err := checkArgs(config.ErrCtorName, args, 1, 1); err != nil {
		return err
	}
	return errValue(args[0])
}

func emptyCtor(name string, args []Object, val Object) Object {
	if err := checkArgs(name, args, 0, 0); err != nil {
		return err
	}
	return val
}

func builtinVecWithCapacity(e *Evaluator, args ...Object) Object {
	if err := checkArgs("Vec::with_capacity", args, 1, 1); err != nil {
		return err
	}
	if _, err := intArg("Vec::with_capacity", args[0]); err != nil {
		return err
	}
	return newList(nil)
}

func builtinStringFrom(e *Evaluator, args ...Object) Object {
	if err := checkArgs("String::from", args, 1, 1); err != nil {
		return err
	}
	return e.newString(Display(args[0]))
}

// builtinSeries accepts Series(values) or Series(name, values).
func builtinSeries(e *Evaluator, args ...Object) Object {
	if err := checkArgs("Series", args, 1, 2); err != nil {
		return err
	}
	name := ""
	src := args[0]
	if len(args) == 2 {
		n, err := stringArg("Series", args[0])
		if err != nil {
			return err
		}
		name, src = n, args[1]
	}
	vals, err := collect(src)
	if err != nil {
		return err
	}
	if err := e.charge(objectOverhead + wordSize*int64(len(vals))); err != nil {
		return err
	}
	return &Series{Name: name, Values: append([]Object(nil), vals...)}
}

// builtinDataFrame builds a frame from a record or dict of columns, or
// from a list of Series or (name, values) pairs. All columns must have
// the same length.
func builtinDataFrame(e *Evaluator, args ...Object) Object {
	if err := checkArgs("DataFrame", args, 0, 1); err != nil {
		return err
	}
	df := &DataFrame{}
	if len(args) == 0 {
		return df
	}
	addColumn := func(name string, values Object) *Error {
		if s, ok := values.(*Series); ok {
			df.Columns = append(df.Columns, &Series{Name: name, Values: s.Values})
			return nil
		}
		vals, err := collect(values)
		if err != nil {
			return err
		}
		df.Columns = append(df.Columns, &Series{Name: name, Values: append([]Object(nil), vals...)})
		return nil
	}

	switch src := args[0].(type) {
	case *Record:
		for _, name := range src.Fields.Names() {
			v, _ := src.Fields.Get(name)
			if err := addColumn(name, v); err != nil {
				return err
			}
		}
	case *Dict:
		for _, en := range src.Entries() {
			if err := addColumn(Display(en.Key), en.Value); err != nil {
				return err
			}
		}
	case *List:
		for i, el := range src.Elements {
			switch c := el.(type) {
			case *Series:
				name := c.Name
				if name == "" {
					name = "column_" + strconv.Itoa(i)
				}
				if err := addColumn(name, c); err != nil {
					return err
				}
			case *Tuple:
				if len(c.Elements) != 2 {
					return typeError("(name, values)", el, "DataFrame column must be a (name, values) pair")
				}
				name, err := stringArg("DataFrame", c.Elements[0])
				if err != nil {
					return err
				}
				if err := addColumn(name, c.Elements[1]); err != nil {
					return err
				}
			default:
				return typeError(RUNTIME_TYPE_SERIES, el, "DataFrame column must be a Series, got %s", typeName(el))
			}
		}
	default:
		return typeError(RUNTIME_TYPE_DATAFRAME, src, "cannot build a DataFrame from %s", typeName(src))
	}

	for _, c := range df.Columns[min(1, len(df.Columns)):] {
		if len(c.Values) != len(df.Columns[0].Values) {
			return newError(IndexOutOfBounds, "column %s has %d rows, expected %d", c.Name, len(c.Values), len(df.Columns[0].Values))
		}
	}
	if err := e.charge(SizeOf(df)); err != nil {
		return err
	}
	return df
}
