package evaluator

import (
	"math"
	"strings"
)

// objectsEqual is structural equality. Integers and floats compare by
// numeric value; mutable cells compare by identity.
func objectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if x, ok := toFloat(a); ok && isNumeric(a) {
		if y, ok := toFloat(b); ok && isNumeric(b) {
			if ai, ok := a.(*Integer); ok {
				if bi, ok := b.(*Integer); ok {
					return ai.Value == bi.Value
				}
			}
			return x == y
		}
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *Boolean:
		return x.Value == b.(*Boolean).Value
	case *String:
		return x.Value == b.(*String).Value
	case *Char:
		return x.Value == b.(*Char).Value
	case *Atom:
		return x.Name == b.(*Atom).Name
	case *Nil:
		return true
	case *List:
		return elementsEqual(x.Elements, b.(*List).Elements)
	case *Tuple:
		return elementsEqual(x.Elements, b.(*Tuple).Elements)
	case *Range:
		y := b.(*Range)
		return *x == *y
	case *Dict:
		y := b.(*Dict)
		if x.Len() != y.Len() {
			return false
		}
		for _, en := range x.entries {
			v, ok := y.Get(en.Key)
			if !ok || !objectsEqual(en.Value, v) {
				return false
			}
		}
		return true
	case *Set:
		y := b.(*Set)
		if x.Len() != y.Len() {
			return false
		}
		for _, el := range x.elements {
			if !y.Has(el) {
				return false
			}
		}
		return true
	case *Record:
		return fieldsEqual(x.Fields, b.(*Record).Fields)
	case *Struct:
		y := b.(*Struct)
		return x.Desc.Name == y.Desc.Name && fieldsEqual(x.Fields, y.Fields)
	case *Variant:
		y := b.(*Variant)
		return x.Enum == y.Enum && x.Name == y.Name && elementsEqual(x.Fields, y.Fields)
	case *Series:
		return elementsEqual(x.Values, b.(*Series).Values)
	case *TypeDescriptor:
		return x.Name == b.(*TypeDescriptor).Name
	}
	return false
}

func elementsEqual(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !objectsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func fieldsEqual(a, b *FieldMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, name := range a.Names() {
		av, _ := a.Get(name)
		bv, ok := b.Get(name)
		if !ok || !objectsEqual(av, bv) {
			return false
		}
	}
	return true
}

// compareObjects orders values of the same kind. ok is false when the
// values have no natural ordering.
func compareObjects(a, b Object) (int, bool) {
	if isNumeric(a) && isNumeric(b) {
		if ai, ok := a.(*Integer); ok {
			if bi, ok := b.(*Integer); ok {
				return cmpInt(ai.Value, bi.Value), true
			}
		}
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	switch x := a.(type) {
	case *String:
		if y, ok := b.(*String); ok {
			return strings.Compare(x.Value, y.Value), true
		}
	case *Char:
		if y, ok := b.(*Char); ok {
			return cmpInt(int64(x.Value), int64(y.Value)), true
		}
	case *Boolean:
		if y, ok := b.(*Boolean); ok {
			return cmpInt(boolRank(x.Value), boolRank(y.Value)), true
		}
	case *List:
		if y, ok := b.(*List); ok {
			return compareElements(x.Elements, y.Elements)
		}
	case *Tuple:
		if y, ok := b.(*Tuple); ok {
			return compareElements(x.Elements, y.Elements)
		}
	}
	return 0, false
}

func compareElements(a, b []Object) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, ok := compareObjects(a[i], b[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	return cmpInt(int64(len(a)), int64(len(b))), true
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolRank(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
