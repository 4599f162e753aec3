package evaluator

import (
	"math"

	"github.com/funvibe/ruchy/internal/ast"
)

// Binding is one name bound by a successful pattern match.
type Binding struct {
	Name    string
	Value   Object
	Mutable bool
}

// TryMatch matches v against p. Literal and range bounds are evaluated in
// env. On success the bindings name exactly the identifiers in p.
func (e *Evaluator) TryMatch(p ast.Pattern, v Object, env *Environment) ([]Binding, bool) {
	var out []Binding
	if !e.match(p, v, env, &out) {
		return nil, false
	}
	return out, true
}

// bindAll defines bindings in env; mutable forces every binding mutable.
func bindAll(env *Environment, bindings []Binding, mutable bool) {
	for _, b := range bindings {
		env.Define(b.Name, b.Value, mutable || b.Mutable)
	}
}

func (e *Evaluator) match(p ast.Pattern, v Object, env *Environment, out *[]Binding) bool {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		*out = append(*out, Binding{Name: pt.Name, Value: v, Mutable: pt.Mutable})
		return true

	case *ast.LiteralPattern:
		lit := e.Eval(pt.Value, env)
		if isSignal(lit) {
			return false
		}
		if lf, ok := lit.(*Float); ok {
			vf, ok := v.(*Float)
			return ok && math.Float64bits(lf.Value) == math.Float64bits(vf.Value)
		}
		return objectsEqual(lit, v)

	case *ast.RangePattern:
		return e.matchRange(pt, v, env)

	case *ast.TuplePattern:
		t, ok := v.(*Tuple)
		if !ok {
			return false
		}
		return e.matchSequence(pt.Elements, t.Elements, env, out, func(rest []Object) Object {
			return &Tuple{Elements: rest}
		})

	case *ast.ListPattern:
		var elems []Object
		switch l := v.(type) {
		case *List:
			elems = l.Elements
		case *Series:
			elems = l.Values
		default:
			return false
		}
		return e.matchSequence(pt.Elements, elems, env, out, func(rest []Object) Object {
			return newList(rest)
		})

	case *ast.RestPattern:
		// Only meaningful inside a sequence; alone it matches anything.
		if pt.Name != "" {
			*out = append(*out, Binding{Name: pt.Name, Value: v})
		}
		return true

	case *ast.StructPattern:
		return e.matchStruct(pt, v, env, out)

	case *ast.ResultPattern:
		rv, ok := v.(*Variant)
		if !ok || rv.Enum != ResultTypeName {
			return false
		}
		want := "Err"
		if pt.IsOk {
			want = "Ok"
		}
		return rv.Name == want && len(rv.Fields) == 1 && e.match(pt.Inner, rv.Fields[0], env, out)

	case *ast.VariantPattern:
		return e.matchVariant(pt, v, env, out)

	case *ast.AtPattern:
		if !e.match(pt.Inner, v, env, out) {
			return false
		}
		*out = append(*out, Binding{Name: pt.Name, Value: v})
		return true

	case *ast.OrPattern:
		for _, alt := range pt.Alternatives {
			var trial []Binding
			if e.match(alt, v, env, &trial) {
				*out = append(*out, trial...)
				return true
			}
		}
		return false
	}
	return false
}

// matchSequence matches element patterns with at most one rest position.
func (e *Evaluator) matchSequence(pats []ast.Pattern, vals []Object, env *Environment, out *[]Binding, mk func([]Object) Object) bool {
	restAt := -1
	for i, p := range pats {
		if _, ok := p.(*ast.RestPattern); ok {
			restAt = i
			break
		}
	}
	if restAt < 0 {
		if len(pats) != len(vals) {
			return false
		}
		for i, p := range pats {
			if !e.match(p, vals[i], env, out) {
				return false
			}
		}
		return true
	}

	prefix, suffix := pats[:restAt], pats[restAt+1:]
	if len(prefix)+len(suffix) > len(vals) {
		return false
	}
	for i, p := range prefix {
		if !e.match(p, vals[i], env, out) {
			return false
		}
	}
	tail := len(vals) - len(suffix)
	for i, p := range suffix {
		if !e.match(p, vals[tail+i], env, out) {
			return false
		}
	}
	if rest := pats[restAt].(*ast.RestPattern); rest.Name != "" {
		middle := append([]Object(nil), vals[len(prefix):tail]...)
		*out = append(*out, Binding{Name: rest.Name, Value: mk(middle)})
	}
	return true
}

func (e *Evaluator) matchRange(pt *ast.RangePattern, v Object, env *Environment) bool {
	lo := e.Eval(pt.Lo, env)
	if isSignal(lo) {
		return false
	}
	var hi Object
	if pt.Hi != nil {
		hi = e.Eval(pt.Hi, env)
		if isSignal(hi) {
			return false
		}
	}
	if c, ok := v.(*Char); ok {
		v = &Integer{Value: int64(c.Value)}
		if lc, ok := lo.(*Char); ok {
			lo = &Integer{Value: int64(lc.Value)}
		}
		if hc, ok := hi.(*Char); ok {
			hi = &Integer{Value: int64(hc.Value)}
		}
	}
	if !isNumeric(v) {
		return false
	}
	if c, ok := compareObjects(v, lo); !ok || c < 0 {
		return false
	}
	if hi == nil {
		return true
	}
	c, ok := compareObjects(v, hi)
	if !ok {
		return false
	}
	if pt.Inclusive {
		return c <= 0
	}
	return c < 0
}

func (e *Evaluator) matchStruct(pt *ast.StructPattern, v Object, env *Environment, out *[]Binding) bool {
	var fields *FieldMap
	switch s := v.(type) {
	case *Struct:
		if s.Desc.Name != pt.Name {
			return false
		}
		fields = s.Fields
	case *ObjectMut:
		if s.Desc.Name != pt.Name {
			return false
		}
		fields = s.Fields
	case *Record:
		fields = s.Fields
	case *Variant:
		// A bare tag matches `Tag {}`.
		if s.Name != pt.Name || len(pt.Fields) > 0 {
			return false
		}
		return true
	default:
		return false
	}
	if !pt.HasRest && fields.Len() != len(pt.Fields) {
		return false
	}
	for _, fp := range pt.Fields {
		fv, ok := fields.Get(fp.Name)
		if !ok {
			return false
		}
		if fp.Pattern == nil {
			*out = append(*out, Binding{Name: fp.Name, Value: fv})
			continue
		}
		if !e.match(fp.Pattern, fv, env, out) {
			return false
		}
	}
	return true
}

func (e *Evaluator) matchVariant(pt *ast.VariantPattern, v Object, env *Environment, out *[]Binding) bool {
	name := pt.Name()
	switch val := v.(type) {
	case *Variant:
		if val.Name != name {
			return false
		}
		if len(pt.Path) > 1 && val.Enum != "" && val.Enum != pt.Path[len(pt.Path)-2] {
			return false
		}
		if len(pt.Args) == 0 {
			return true
		}
		return e.matchSequence(pt.Args, val.Fields, env, out, func(rest []Object) Object {
			return newList(rest)
		})
	case *Struct:
		return len(pt.Args) == 0 && val.Desc.Name == name
	case *ObjectMut:
		return len(pt.Args) == 0 && val.Desc.Name == name
	case *Nil:
		// None also matches a null value.
		return name == "None" && len(pt.Args) == 0
	}
	return false
}
