package analyzer

import (
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// Placeholder variables used in builtin signatures. They are renamed to
// fresh variables whenever a signature is instantiated.
var (
	vA = ts.TVar{Name: "A"}
	vB = ts.TVar{Name: "B"}
	vE = ts.TVar{Name: "E"}
)

func forall(t ts.Type, vars ...ts.TVar) *ts.Scheme {
	return &ts.Scheme{Vars: vars, Type: t}
}

func variadic(ret ts.Type, params ...ts.Type) ts.TFunc {
	return ts.TFunc{Params: params, ReturnType: ret, IsVariadic: true}
}

func withDefaults(n int, ret ts.Type, params ...ts.Type) ts.TFunc {
	return ts.TFunc{Params: params, ReturnType: ret, DefaultCount: n}
}

// Prelude returns the schemes of every builtin function and constructor.
func Prelude() map[string]*ts.Scheme {
	return map[string]*ts.Scheme{
		"println":    ts.Mono(variadic(ts.Unit, ts.Any)),
		"print":      ts.Mono(variadic(ts.Unit, ts.Any)),
		"eprintln":   ts.Mono(variadic(ts.Unit, ts.Any)),
		"dbg":        forall(ts.Func(vA, vA), vA),
		"format":     ts.Mono(variadic(ts.String, ts.String, ts.Any)),
		"len":        ts.Mono(ts.Func(ts.Int, ts.Any)),
		"type_of":    ts.Mono(ts.Func(ts.String, ts.Any)),
		"str":        ts.Mono(ts.Func(ts.String, ts.Any)),
		"int":        ts.Mono(ts.Func(ts.Int, ts.Any)),
		"float":      ts.Mono(ts.Func(ts.Float, ts.Any)),
		"bool":       ts.Mono(ts.Func(ts.Bool, ts.Any)),
		"range":      ts.Mono(withDefaults(2, ts.RangeOf(ts.Int), ts.Int, ts.Int, ts.Int)),
		"assert":     ts.Mono(withDefaults(1, ts.Unit, ts.Bool, ts.String)),
		"assert_eq":  forall(withDefaults(1, ts.Unit, vA, vA, ts.String), vA),
		"error":      forall(ts.Func(vA, ts.Any), vA),
		"panic":      forall(ts.Func(vA, ts.Any), vA),
		"input":      ts.Mono(withDefaults(1, ts.String, ts.String)),
		"read_file":  ts.Mono(ts.Func(ts.String, ts.String)),
		"write_file": ts.Mono(ts.Func(ts.Unit, ts.String, ts.String)),
		"min":        forall(ts.Func(vA, vA, vA), vA),
		"max":        forall(ts.Func(vA, vA, vA), vA),
		"abs":        forall(ts.Func(vA, vA), vA),
		"sqrt":       ts.Mono(ts.Func(ts.Float, ts.Any)),
		"pow":        forall(ts.Func(vA, vA, vA), vA),
		"exit":       forall(withDefaults(1, vA, ts.Int), vA),
		"sleep":      ts.Mono(ts.Func(ts.Unit, ts.Int)),
		"Some":       forall(ts.Func(ts.Option(vA), vA), vA),
		"None":       forall(ts.Option(vA), vA),
		"Ok":         forall(ts.Func(ts.Result(vA, vE), vA), vA, vE),
		"Err":        forall(ts.Func(ts.Result(vA, vE), vE), vA, vE),
		"DataFrame":  ts.Mono(ts.Func(ts.DataFrame(), ts.Any)),
		"Series":     forall(ts.Func(ts.Series(vA), ts.List(vA)), vA),

		"Vec::new":       forall(ts.Func(ts.List(vA)), vA),
		"HashMap::new":   forall(ts.Func(ts.Dict(vA, vB)), vA, vB),
		"HashSet::new":   forall(ts.Func(ts.SetOf(vA)), vA),
		"String::new":    ts.Mono(ts.Func(ts.String)),
		"String::from":   ts.Mono(ts.Func(ts.String, ts.String)),
		"DataFrame::new": ts.Mono(ts.Func(ts.DataFrame(), ts.Any)),

		"Vec::with_capacity": forall(ts.Func(ts.List(vA), ts.Int), vA),
	}
}

// PreludeEnv builds a fresh typing environment holding the prelude.
func PreludeEnv() *ts.TypeEnv {
	env := ts.NewTypeEnv()
	for name, s := range Prelude() {
		env.Set(name, s)
	}
	return env
}
