package typesystem

import "fmt"

// Kind represents the "type of a type".
// * (Star) is the kind of proper types (Int, Bool, List<Int>).
// * -> * is the kind of type constructors (List, Option).
type Kind interface {
	String() string
	Equal(Kind) bool
}

// KStar represents the kind of a value type (*).
type KStar struct{}

func (k KStar) String() string { return "*" }
func (k KStar) Equal(other Kind) bool {
	_, ok := other.(KStar)
	return ok
}

// KArrow represents a type constructor kind (k1 -> k2).
type KArrow struct {
	Left  Kind
	Right Kind
}

func (k KArrow) String() string {
	return fmt.Sprintf("(%s -> %s)", k.Left.String(), k.Right.String())
}

func (k KArrow) Equal(other Kind) bool {
	o, ok := other.(KArrow)
	if !ok {
		return false
	}
	return k.Left.Equal(o.Left) && k.Right.Equal(o.Right)
}

var Star Kind = KStar{}

// MakeArrow builds an n-ary arrow: MakeArrow(*, *, *) is * -> * -> *.
func MakeArrow(args ...Kind) Kind {
	if len(args) == 0 {
		return Star
	}
	if len(args) == 1 {
		return args[0]
	}
	return KArrow{Left: args[0], Right: MakeArrow(args[1:]...)}
}

// ConstructorKind is the kind of a constructor taking arity proper types.
func ConstructorKind(arity int) Kind {
	ks := make([]Kind, arity+1)
	for i := range ks {
		ks[i] = Star
	}
	return MakeArrow(ks...)
}

// KindCheck validates that a type is well-kinded and returns its kind.
// Over-applied constructors such as List<Int, Int> are rejected.
func KindCheck(t Type) (Kind, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot check kind of nil type")
	}
	switch typ := t.(type) {
	case TCon, TVar:
		return typ.Kind(), nil
	case TApp:
		k, err := KindCheck(typ.Constructor)
		if err != nil {
			return nil, err
		}
		for _, arg := range typ.Args {
			arrow, ok := k.(KArrow)
			if !ok {
				return nil, &TypeError{Kind: ArityMismatch, Msg: fmt.Sprintf("type %s takes %d argument(s), got %d",
					typ.Constructor, arityOf(typ.Constructor.Kind()), len(typ.Args))}
			}
			ak, err := KindCheck(arg)
			if err != nil {
				return nil, err
			}
			if !ak.Equal(arrow.Left) {
				return nil, fmt.Errorf("kind mismatch: expected %s, got %s", arrow.Left, ak)
			}
			k = arrow.Right
		}
		return k, nil
	case TTuple:
		for _, el := range typ.Elements {
			if err := expectStar(el); err != nil {
				return nil, err
			}
		}
		return Star, nil
	case TFunc:
		for _, p := range typ.Params {
			if err := expectStar(p); err != nil {
				return nil, err
			}
		}
		if err := expectStar(typ.ReturnType); err != nil {
			return nil, err
		}
		return Star, nil
	}
	return Star, nil
}

func expectStar(t Type) error {
	k, err := KindCheck(t)
	if err != nil {
		return err
	}
	if !k.Equal(Star) {
		return &TypeError{Kind: ArityMismatch, Msg: fmt.Sprintf("type constructor %s is missing %d type argument(s)", t, arityOf(k))}
	}
	return nil
}

func arityOf(k Kind) int {
	n := 0
	for {
		arrow, ok := k.(KArrow)
		if !ok {
			return n
		}
		n++
		k = arrow.Right
	}
}
