package analyzer

import (
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// Method tables are keyed by (receiver shape, method name). Signatures
// exclude the receiver. T is the receiver's element type, K and V a dict's
// key and value types, E a result's error type; any other variable is
// instantiated fresh per call.
var (
	mT = ts.TVar{Name: "T"}
	mK = ts.TVar{Name: "K"}
	mV = ts.TVar{Name: "V"}
	mU = ts.TVar{Name: "U"}
	mF = ts.TVar{Name: "F"}
)

type methodTable map[string]ts.TFunc

func fn(ret ts.Type, params ...ts.Type) ts.TFunc {
	return ts.TFunc{Params: params, ReturnType: ret}
}

func pred(t ts.Type) ts.Type { return ts.Func(ts.Bool, t) }

var listMethods = methodTable{
	"len":       fn(ts.Int),
	"length":    fn(ts.Int),
	"size":      fn(ts.Int),
	"is_empty":  fn(ts.Bool),
	"push":      fn(ts.Unit, mT),
	"append":    fn(ts.Unit, mT),
	"pop":       fn(ts.Option(mT)),
	"insert":    fn(ts.Unit, ts.Int, mT),
	"remove":    fn(mT, ts.Int),
	"clear":     fn(ts.Unit),
	"extend":    fn(ts.Unit, ts.List(mT)),
	"first":     fn(ts.Option(mT)),
	"last":      fn(ts.Option(mT)),
	"get":       fn(ts.Option(mT), ts.Int),
	"contains":  fn(ts.Bool, mT),
	"index_of":  fn(ts.Option(ts.Int), mT),
	"map":       fn(ts.List(mU), ts.Func(mU, mT)),
	"filter":    fn(ts.List(mT), pred(mT)),
	"flat_map":  fn(ts.List(mU), ts.Func(ts.List(mU), mT)),
	"for_each":  fn(ts.Unit, ts.Func(mU, mT)),
	"each":      fn(ts.Unit, ts.Func(mU, mT)),
	"fold":      fn(mU, mU, ts.Func(mU, mU, mT)),
	"reduce":    fn(mT, ts.Func(mT, mT, mT)),
	"any":       fn(ts.Bool, pred(mT)),
	"all":       fn(ts.Bool, pred(mT)),
	"find":      fn(ts.Option(mT), pred(mT)),
	"position":  fn(ts.Option(ts.Int), pred(mT)),
	"count":     fn(ts.Int),
	"sum":       fn(mT),
	"product":   fn(mT),
	"min":       fn(mT),
	"max":       fn(mT),
	"reverse":   fn(ts.List(mT)),
	"rev":       fn(ts.List(mT)),
	"sort":      fn(ts.List(mT)),
	"sorted":    fn(ts.List(mT)),
	"sort_by":   fn(ts.List(mT), ts.Func(mU, mT)),
	"unique":    fn(ts.List(mT)),
	"dedup":     fn(ts.List(mT)),
	"take":      fn(ts.List(mT), ts.Int),
	"skip":      fn(ts.List(mT), ts.Int),
	"slice":     fn(ts.List(mT), ts.Int, ts.Int),
	"concat":    fn(ts.List(mT), ts.List(mT)),
	"chunks":    fn(ts.List(ts.List(mT)), ts.Int),
	"windows":   fn(ts.List(ts.List(mT)), ts.Int),
	"enumerate": fn(ts.List(ts.TTuple{Elements: []ts.Type{ts.Int, mT}})),
	"zip":       fn(ts.List(ts.TTuple{Elements: []ts.Type{mT, mU}}), ts.List(mU)),
	"partition": fn(ts.TTuple{Elements: []ts.Type{ts.List(mT), ts.List(mT)}}, pred(mT)),
	"join":      ts.TFunc{Params: []ts.Type{ts.String}, ReturnType: ts.String, DefaultCount: 1},
	"iter":      fn(ts.List(mT)),
	"into_iter": fn(ts.List(mT)),
	"collect":   fn(ts.List(mT)),
	"to_list":   fn(ts.List(mT)),
	"to_vec":    fn(ts.List(mT)),
	"clone":     fn(ts.List(mT)),
}

var stringMethods = methodTable{
	"len":              fn(ts.Int),
	"length":           fn(ts.Int),
	"is_empty":         fn(ts.Bool),
	"to_upper":         fn(ts.String),
	"to_uppercase":     fn(ts.String),
	"upper":            fn(ts.String),
	"to_lower":         fn(ts.String),
	"to_lowercase":     fn(ts.String),
	"lower":            fn(ts.String),
	"capitalize":       fn(ts.String),
	"trim":             fn(ts.String),
	"trim_start":       fn(ts.String),
	"trim_end":         fn(ts.String),
	"split":            fn(ts.List(ts.String), ts.String),
	"split_whitespace": fn(ts.List(ts.String)),
	"lines":            fn(ts.List(ts.String)),
	"chars":            fn(ts.List(ts.Char)),
	"bytes":            fn(ts.List(ts.Byte)),
	"contains":         fn(ts.Bool, ts.String),
	"starts_with":      fn(ts.Bool, ts.String),
	"ends_with":        fn(ts.Bool, ts.String),
	"replace":          fn(ts.String, ts.String, ts.String),
	"repeat":           fn(ts.String, ts.Int),
	"reverse":          fn(ts.String),
	"concat":           fn(ts.String, ts.String),
	"find":             fn(ts.Option(ts.Int), ts.String),
	"index_of":         fn(ts.Option(ts.Int), ts.String),
	"substring":        fn(ts.String, ts.Int, ts.Int),
	"slice":            fn(ts.String, ts.Int, ts.Int),
	"char_at":          fn(ts.Option(ts.Char), ts.Int),
	"is_numeric":       fn(ts.Bool),
	"parse_int":        fn(ts.Result(ts.Int, ts.String)),
	"parse_float":      fn(ts.Result(ts.Float, ts.String)),
	"to_int":           fn(ts.Int),
	"to_float":         fn(ts.Float),
	"to_string":        fn(ts.String),
	"clone":            fn(ts.String),
}

var seriesMethods = methodTable{
	"len":     fn(ts.Int),
	"count":   fn(ts.Int),
	"sum":     fn(mT),
	"mean":    fn(ts.Float),
	"std":     fn(ts.Float),
	"min":     fn(mT),
	"max":     fn(mT),
	"get":     fn(mT, ts.Int),
	"map":     fn(ts.Series(mU), ts.Func(mU, mT)),
	"filter":  fn(ts.Series(mT), pred(mT)),
	"to_list": fn(ts.List(mT)),
	"unique":  fn(ts.Series(mT)),
}

// DataFrame methods returning a frame are resolved against the receiver's
// own column set, marked here with dfSelf.
var dfSelf = ts.TCon{Name: "$self"}

var dataFrameMethods = methodTable{
	"columns":     fn(ts.List(ts.String)),
	"rows":        fn(ts.Int),
	"row_count":   fn(ts.Int),
	"len":         fn(ts.Int),
	"count":       fn(ts.Int),
	"shape":       fn(ts.TTuple{Elements: []ts.Type{ts.Int, ts.Int}}),
	"head":        ts.TFunc{Params: []ts.Type{ts.Int}, ReturnType: dfSelf, DefaultCount: 1},
	"tail":        ts.TFunc{Params: []ts.Type{ts.Int}, ReturnType: dfSelf, DefaultCount: 1},
	"filter":      fn(dfSelf, pred(ts.Any)),
	"sort_by":     fn(dfSelf, ts.String),
	"select":      fn(ts.DataFrame(), ts.List(ts.String)),
	"column":      fn(ts.Series(mU), ts.String),
	"col":         fn(ts.Series(mU), ts.String),
	"with_column": fn(ts.DataFrame(), ts.String, ts.Series(mU)),
	"group_by":    fn(ts.DataFrame(), ts.String),
	"sum":         fn(ts.Float, ts.String),
	"mean":        fn(ts.Float, ts.String),
	"to_string":   fn(ts.String),
}

var dictMethods = methodTable{
	"len":          fn(ts.Int),
	"is_empty":     fn(ts.Bool),
	"keys":         fn(ts.List(mK)),
	"values":       fn(ts.List(mV)),
	"items":        fn(ts.List(ts.TTuple{Elements: []ts.Type{mK, mV}})),
	"get":          fn(ts.Option(mV), mK),
	"contains_key": fn(ts.Bool, mK),
	"has":          fn(ts.Bool, mK),
	"insert":       fn(ts.Unit, mK, mV),
	"set":          fn(ts.Unit, mK, mV),
	"remove":       fn(ts.Option(mV), mK),
	"clone":        fn(ts.Dict(mK, mV)),
}

var setMethods = methodTable{
	"len":          fn(ts.Int),
	"is_empty":     fn(ts.Bool),
	"contains":     fn(ts.Bool, mT),
	"insert":       fn(ts.Unit, mT),
	"add":          fn(ts.Unit, mT),
	"remove":       fn(ts.Bool, mT),
	"union":        fn(ts.SetOf(mT), ts.SetOf(mT)),
	"intersection": fn(ts.SetOf(mT), ts.SetOf(mT)),
	"difference":   fn(ts.SetOf(mT), ts.SetOf(mT)),
	"to_list":      fn(ts.List(mT)),
}

var optionMethods = methodTable{
	"is_some":   fn(ts.Bool),
	"is_none":   fn(ts.Bool),
	"unwrap":    fn(mT),
	"expect":    fn(mT, ts.String),
	"unwrap_or": fn(mT, mT),
	"map":       fn(ts.Option(mU), ts.Func(mU, mT)),
	"and_then":  fn(ts.Option(mU), ts.Func(ts.Option(mU), mT)),
	"ok_or":     fn(ts.Result(mT, mU), mU),
}

var resultMethods = methodTable{
	"is_ok":      fn(ts.Bool),
	"is_err":     fn(ts.Bool),
	"unwrap":     fn(mT),
	"expect":     fn(mT, ts.String),
	"unwrap_or":  fn(mT, mT),
	"unwrap_err": fn(mV),
	"map":        fn(ts.Result(mU, mV), ts.Func(mU, mT)),
	"map_err":    fn(ts.Result(mT, mF), ts.Func(mF, mV)),
	"and_then":   fn(ts.Result(mU, mV), ts.Func(ts.Result(mU, mV), mT)),
	"ok":         fn(ts.Option(mT)),
	"err":        fn(ts.Option(mV)),
}

var rangeMethods = methodTable{
	"len":      fn(ts.Int),
	"contains": fn(ts.Bool, mT),
	"to_list":  fn(ts.List(mT)),
	"collect":  fn(ts.List(mT)),
	"iter":     fn(ts.List(mT)),
	"rev":      fn(ts.List(mT)),
	"reverse":  fn(ts.List(mT)),
	"step_by":  fn(ts.List(mT), ts.Int),
	"map":      fn(ts.List(mU), ts.Func(mU, mT)),
	"filter":   fn(ts.List(mT), pred(mT)),
	"for_each": fn(ts.Unit, ts.Func(mU, mT)),
	"sum":      fn(mT),
}

var intMethods = methodTable{
	"abs":       fn(ts.Int),
	"pow":       fn(ts.Int, ts.Int),
	"min":       fn(ts.Int, ts.Int),
	"max":       fn(ts.Int, ts.Int),
	"clamp":     fn(ts.Int, ts.Int, ts.Int),
	"sqrt":      fn(ts.Float),
	"to_float":  fn(ts.Float),
	"to_string": fn(ts.String),
	"is_even":   fn(ts.Bool),
	"is_odd":    fn(ts.Bool),
}

var floatMethods = methodTable{
	"abs":       fn(ts.Float),
	"floor":     fn(ts.Float),
	"ceil":      fn(ts.Float),
	"round":     fn(ts.Float),
	"sqrt":      fn(ts.Float),
	"sin":       fn(ts.Float),
	"cos":       fn(ts.Float),
	"ln":        fn(ts.Float),
	"exp":       fn(ts.Float),
	"pow":       fn(ts.Float, ts.Float),
	"powf":      fn(ts.Float, ts.Float),
	"min":       fn(ts.Float, ts.Float),
	"max":       fn(ts.Float, ts.Float),
	"to_int":    fn(ts.Int),
	"is_nan":    fn(ts.Bool),
	"to_string": fn(ts.String),
}

// genericMethods apply to every receiver; T is the receiver itself.
var genericMethods = methodTable{
	"to_string": fn(ts.String),
	"clone":     fn(mT),
	"type_of":   fn(ts.String),
	"debug":     fn(ts.String),
	"eq":        fn(ts.Bool, mT),
}

// methodShape picks the table for a receiver and the bindings for its
// placeholder variables.
func methodShape(recv ts.Type) (methodTable, ts.Subst) {
	switch t := recv.(type) {
	case ts.TCon:
		switch t.Name {
		case ts.StringName:
			return stringMethods, ts.Subst{}
		case ts.IntName:
			return intMethods, ts.Subst{}
		case ts.FloatName:
			return floatMethods, ts.Subst{}
		}
	case ts.TDataFrame:
		return dataFrameMethods, ts.Subst{}
	case ts.TApp:
		args := t.Args
		switch ts.AppliedName(t) {
		case ts.ListName:
			return listMethods, ts.Subst{"T": args[0]}
		case ts.SeriesName:
			return seriesMethods, ts.Subst{"T": args[0]}
		case ts.SetName:
			return setMethods, ts.Subst{"T": args[0]}
		case ts.RangeName:
			return rangeMethods, ts.Subst{"T": args[0]}
		case ts.OptionName:
			return optionMethods, ts.Subst{"T": args[0]}
		case ts.ResultName:
			return resultMethods, ts.Subst{"T": args[0], "V": args[1]}
		case ts.DictName:
			return dictMethods, ts.Subst{"K": args[0], "V": args[1]}
		}
	}
	return nil, nil
}

// lookupBuiltinMethod returns the instantiated signature for recv.name.
func (ctx *InferenceContext) lookupBuiltinMethod(recv ts.Type, name string) (ts.TFunc, bool) {
	table, bind := methodShape(recv)
	sig, ok := table[name]
	if !ok {
		if sig, ok = genericMethods[name]; !ok {
			return ts.TFunc{}, false
		}
		bind = ts.Subst{"T": recv}
	}
	for _, v := range sig.FreeTypeVariables() {
		if _, bound := bind[v.Name]; !bound {
			bind[v.Name] = ctx.FreshVar()
		}
	}
	out := sig.Apply(bind).(ts.TFunc)
	if out.ReturnType == dfSelf {
		out.ReturnType = recv
	}
	return out, true
}
