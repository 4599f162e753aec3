package evaluator

// Approximate per-value costs used by the allocation budget and by
// SizeOf. They track growth, not exact heap usage.
const (
	objectOverhead int64 = 16
	wordSize       int64 = 8
)

// charge records n bytes of allocation against the budget.
func (e *Evaluator) charge(n int64) *Error {
	e.allocated += n
	if e.allocated > e.peak {
		e.peak = e.allocated
	}
	if e.MaxMemory > 0 && e.allocated > e.MaxMemory {
		return newError(ResourceExceeded, "memory limit of %d bytes exceeded", e.MaxMemory)
	}
	return nil
}

func (e *Evaluator) newString(s string) Object {
	if err := e.charge(objectOverhead + int64(len(s))); err != nil {
		return err
	}
	return &String{Value: s}
}

func (e *Evaluator) newList(elems []Object) Object {
	if err := e.charge(objectOverhead + wordSize*int64(len(elems))); err != nil {
		return err
	}
	return newList(elems)
}

func (e *Evaluator) newTuple(elems []Object) Object {
	if err := e.charge(objectOverhead + wordSize*int64(len(elems))); err != nil {
		return err
	}
	return &Tuple{Elements: elems}
}

// SizeOf estimates the retained size of a value. Shared mutable cells are
// counted once.
func SizeOf(obj Object) int64 {
	return sizeOf(obj, map[*ObjectMut]bool{})
}

func sizeOf(obj Object, seen map[*ObjectMut]bool) int64 {
	switch o := obj.(type) {
	case nil:
		return 0
	case *String:
		return objectOverhead + int64(len(o.Value))
	case *List:
		return objectOverhead + sizeOfAll(o.Elements, seen)
	case *Tuple:
		return objectOverhead + sizeOfAll(o.Elements, seen)
	case *Dict:
		n := objectOverhead
		for _, en := range o.entries {
			n += wordSize + sizeOf(en.Key, seen) + sizeOf(en.Value, seen)
		}
		return n
	case *Set:
		return objectOverhead + sizeOfAll(o.elements, seen)
	case *Record:
		return objectOverhead + sizeOfFields(o.Fields, seen)
	case *Struct:
		return objectOverhead + sizeOfFields(o.Fields, seen)
	case *ObjectMut:
		if seen[o] {
			return wordSize
		}
		seen[o] = true
		return objectOverhead + sizeOfFields(o.Fields, seen)
	case *Variant:
		return objectOverhead + sizeOfAll(o.Fields, seen)
	case *Future:
		return objectOverhead + sizeOf(o.Value, seen)
	case *Series:
		return objectOverhead + int64(len(o.Name)) + sizeOfAll(o.Values, seen)
	case *DataFrame:
		n := objectOverhead
		for _, c := range o.Columns {
			n += sizeOf(c, seen)
		}
		return n
	case *Function:
		return objectOverhead + wordSize*int64(len(o.Parameters))
	}
	return objectOverhead
}

func sizeOfAll(elems []Object, seen map[*ObjectMut]bool) int64 {
	var n int64
	for _, el := range elems {
		n += wordSize + sizeOf(el, seen)
	}
	return n
}

func sizeOfFields(fields *FieldMap, seen map[*ObjectMut]bool) int64 {
	var n int64
	for _, name := range fields.Names() {
		v, _ := fields.Get(name)
		n += int64(len(name)) + sizeOf(v, seen)
	}
	return n
}
