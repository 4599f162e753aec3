package typesystem

// Unify attempts to find the most general substitution that makes t1 and t2
// equal. t1 is treated as the expected type in error messages.
func Unify(t1, t2 Type) (Subst, error) {
	if t1 == nil || t2 == nil {
		return Subst{}, nil
	}
	if c, ok := t1.(TCon); ok && c.Name == AnyName {
		return Subst{}, nil
	}
	if c, ok := t2.(TCon); ok && c.Name == AnyName {
		return Subst{}, nil
	}

	switch a := t1.(type) {
	case TVar:
		return Bind(a, t2)
	case TCon:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TCon:
			if a.Name == b.Name {
				return Subst{}, nil
			}
		}
	case TApp:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TApp:
			if len(a.Args) != len(b.Args) {
				return nil, errMismatch(a, b)
			}
			return unifyPairs(append([]Type{a.Constructor}, a.Args...), append([]Type{b.Constructor}, b.Args...), a, b)
		}
	case TTuple:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TTuple:
			if len(a.Elements) != len(b.Elements) {
				return nil, errArity(a, b)
			}
			return unifyPairs(a.Elements, b.Elements, a, b)
		}
	case TFunc:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TFunc:
			if len(a.Params) != len(b.Params) {
				return nil, errArity(a, b)
			}
			return unifyPairs(append(append([]Type{}, a.Params...), a.ReturnType), append(append([]Type{}, b.Params...), b.ReturnType), a, b)
		}
	case TRecord:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TRecord:
			if len(a.Fields) != len(b.Fields) {
				return nil, errMismatch(a, b)
			}
			var left, right []Type
			for _, k := range a.keys() {
				other, ok := b.Fields[k]
				if !ok {
					return nil, errMismatch(a, b)
				}
				left, right = append(left, a.Fields[k]), append(right, other)
			}
			return unifyPairs(left, right, a, b)
		}
	case TType:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TType:
			return Unify(a.Type, b.Type)
		}
	case TDataFrame:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TDataFrame:
			// an unknown column set is compatible with any frame
			if a.Columns == nil || b.Columns == nil {
				return Subst{}, nil
			}
			if len(a.Columns) != len(b.Columns) {
				return nil, errMismatch(a, b)
			}
			var left, right []Type
			for i := range a.Columns {
				if a.Columns[i].Name != b.Columns[i].Name {
					return nil, errMismatch(a, b)
				}
				left, right = append(left, a.Columns[i].Type), append(right, b.Columns[i].Type)
			}
			return unifyPairs(left, right, a, b)
		}
	}
	return nil, errMismatch(t1, t2)
}

// unifyPairs unifies components left to right, applying the running
// substitution to the remaining components before each step.
func unifyPairs(left, right []Type, whole1, whole2 Type) (Subst, error) {
	subst := Subst{}
	for i := range left {
		s, err := Unify(left[i].Apply(subst), right[i].Apply(subst))
		if err != nil {
			if te, ok := err.(*TypeError); ok && te.Kind == TypeMismatch {
				// report the mismatch on the enclosing types
				return nil, errMismatch(whole1.Apply(subst), whole2.Apply(subst))
			}
			return nil, err
		}
		subst = subst.Compose(s)
	}
	return subst, nil
}

// Bind binds a type variable, failing the occurs check on infinite types.
func Bind(tv TVar, t Type) (Subst, error) {
	// If t is the same variable, return empty substitution
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}
	if Occurs(tv, t) {
		return nil, &TypeError{Kind: OccursCheck, Expected: tv, Found: t}
	}
	return Subst{tv.Name: t}, nil
}
