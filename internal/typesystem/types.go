package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all monotypes in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	Kind() Kind
}

// TVar represents a type variable (e.g. 't1').
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }
func (t TVar) Kind() Kind     { return Star }

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		return replacement
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// TCon represents a type constant (Int, Bool, a user struct) or a type
// constructor (List, Option) when used as the head of a TApp.
type TCon struct {
	Name    string
	KindVal Kind
}

func (t TCon) String() string {
	if t.Name == UnitName {
		return "()"
	}
	return t.Name
}

func (t TCon) Kind() Kind {
	if t.KindVal == nil {
		return Star
	}
	return t.KindVal
}

func (t TCon) Apply(Subst) Type            { return t }
func (t TCon) FreeTypeVariables() []TVar { return nil }

// TApp represents a type application (e.g. List<Int>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) Kind() Kind {
	k := t.Constructor.Kind()
	for range t.Args {
		arrow, ok := k.(KArrow)
		if !ok {
			return Star
		}
		k = arrow.Right
	}
	return k
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	if con, ok := t.Constructor.(TCon); ok {
		switch {
		case con.Name == ListName && len(args) == 1:
			return "[" + args[0] + "]"
		case con.Name == RefName && len(args) == 1:
			return "&" + args[0]
		}
	}
	if len(args) == 0 {
		return t.Constructor.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	args := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.Apply(s)
	}
	return TApp{Constructor: t.Constructor.Apply(s), Args: args}
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := t.Constructor.FreeTypeVariables()
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TTuple represents a tuple type (e.g. (Int, Bool)).
type TTuple struct {
	Elements []Type
}

func (t TTuple) Kind() Kind { return Star }

func (t TTuple) String() string {
	args := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		args[i] = el.String()
	}
	if len(args) == 1 {
		return "(" + args[0] + ",)"
	}
	return fmt.Sprintf("(%s)", strings.Join(args, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	els := make([]Type, len(t.Elements))
	for i, el := range t.Elements {
		els[i] = el.Apply(s)
	}
	return TTuple{Elements: els}
}

func (t TTuple) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TRecord is the closed type of an anonymous object literal {x: Int}.
type TRecord struct {
	Fields map[string]Type
}

func (t TRecord) Kind() Kind { return Star }

func (t TRecord) keys() []string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t TRecord) String() string {
	keys := t.keys()
	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s: %s", k, t.Fields[k])
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (t TRecord) Apply(s Subst) Type {
	fields := make(map[string]Type, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v.Apply(s)
	}
	return TRecord{Fields: fields}
}

func (t TRecord) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, k := range t.keys() {
		vars = append(vars, t.Fields[k].FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Column is one named DataFrame column.
type Column struct {
	Name string
	Type Type
}

// TDataFrame is a table type with ordered, typed columns. A frame whose
// columns are not known statically has Columns == nil.
type TDataFrame struct {
	Columns []Column
}

func (t TDataFrame) Kind() Kind { return Star }

func (t TDataFrame) String() string {
	if t.Columns == nil {
		return DataFrameName
	}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("%s: %s", c.Name, c.Type)
	}
	return fmt.Sprintf("%s[%s]", DataFrameName, strings.Join(cols, ", "))
}

func (t TDataFrame) Apply(s Subst) Type {
	if t.Columns == nil {
		return t
	}
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type.Apply(s)}
	}
	return TDataFrame{Columns: cols}
}

func (t TDataFrame) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, c := range t.Columns {
		vars = append(vars, c.Type.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Column returns the type of the named column.
func (t TDataFrame) Column(name string) (Type, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return nil, false
}

// TFunc represents an n-ary function type (e.g. (Int, Int) -> Bool).
// The trailing DefaultCount parameters may be omitted at call sites. A
// variadic function accepts any number of arguments of its last
// parameter's type.
type TFunc struct {
	Params       []Type
	ReturnType   Type
	IsVariadic   bool
	DefaultCount int
}

func (t TFunc) Kind() Kind { return Star }

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	defaultStart := len(t.Params) - t.DefaultCount
	for i, p := range t.Params {
		params[i] = p.String()
		if i >= defaultStart {
			params[i] += "?"
		}
	}
	if t.IsVariadic && len(params) > 0 {
		params[len(params)-1] = "..." + params[len(params)-1]
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return TFunc{Params: params, ReturnType: t.ReturnType.Apply(s), IsVariadic: t.IsVariadic, DefaultCount: t.DefaultCount}
}

func (t TFunc) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// Accepts reports whether a call with n arguments fits the parameter list.
func (t TFunc) Accepts(n int) bool {
	if t.IsVariadic {
		return n >= len(t.Params)-1-t.DefaultCount
	}
	return n >= len(t.Params)-t.DefaultCount && n <= len(t.Params)
}

// TType is the type of a type descriptor value: the value bound to a
// struct, class, actor, enum or module name. Static members resolve
// through it.
type TType struct {
	Type Type
}

func (t TType) Kind() Kind                { return Star }
func (t TType) String() string            { return fmt.Sprintf("Type<%s>", t.Type.String()) }
func (t TType) Apply(s Subst) Type        { return TType{Type: t.Type.Apply(s)} }
func (t TType) FreeTypeVariables() []TVar { return t.Type.FreeTypeVariables() }

// Subst is a mapping from type variable names to types.
type Subst map[string]Type

// Compose returns the substitution that applies s1 and then s2:
// apply(s1.Compose(s2), t) == apply(s2, apply(s1, t)).
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// Compose is the functional form: Compose(s2, s1) applies s1 first.
func Compose(s2, s1 Subst) Subst {
	return s1.Compose(s2)
}

// FreeVars collects the free type variables of t in traversal order.
func FreeVars(t Type) []TVar {
	if t == nil {
		return nil
	}
	return t.FreeTypeVariables()
}

// Occurs reports whether tv appears free in t.
func Occurs(tv TVar, t Type) bool {
	for _, v := range FreeVars(t) {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}

// Equal compares two types structurally.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Name == y.Name
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TApp:
		y, ok := b.(TApp)
		return ok && Equal(x.Constructor, y.Constructor) && equalAll(x.Args, y.Args)
	case TTuple:
		y, ok := b.(TTuple)
		return ok && equalAll(x.Elements, y.Elements)
	case TFunc:
		y, ok := b.(TFunc)
		return ok && x.IsVariadic == y.IsVariadic && equalAll(x.Params, y.Params) && Equal(x.ReturnType, y.ReturnType)
	case TRecord:
		y, ok := b.(TRecord)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for k, v := range x.Fields {
			w, ok := y.Fields[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case TType:
		y, ok := b.(TType)
		return ok && Equal(x.Type, y.Type)
	case TDataFrame:
		y, ok := b.(TDataFrame)
		if !ok || len(x.Columns) != len(y.Columns) {
			return false
		}
		for i := range x.Columns {
			if x.Columns[i].Name != y.Columns[i].Name || !Equal(x.Columns[i].Type, y.Columns[i].Type) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
