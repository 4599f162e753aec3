package evaluator

func init() {
	dictMethods = map[string]methodFunc{
		"len":          func(e *Evaluator, recv Object, args []Object) Object { return &Integer{Value: int64(recv.(*Dict).Len())} },
		"is_empty":     func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Dict).Len() == 0) },
		"keys":         dictKeys,
		"values":       dictValues,
		"items":        dictItems,
		"get":          dictGet,
		"contains_key": dictHas,
		"has":          dictHas,
		"clone":        func(e *Evaluator, recv Object, args []Object) Object { return recv.(*Dict).Copy() },
	}
	dictMutators = map[string]mutatorFunc{
		"insert": dictInsert,
		"set":    dictInsert,
		"remove": dictRemove,
	}

	setMethods = map[string]methodFunc{
		"len":          func(e *Evaluator, recv Object, args []Object) Object { return &Integer{Value: int64(recv.(*Set).Len())} },
		"is_empty":     func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Set).Len() == 0) },
		"contains":     setContains,
		"union":        setOp("union", setUnion),
		"intersection": setOp("intersection", setIntersection),
		"difference":   setOp("difference", setDifference),
		"to_list":      func(e *Evaluator, recv Object, args []Object) Object { return e.newList(append([]Object(nil), recv.(*Set).Elements()...)) },
		"clone":        func(e *Evaluator, recv Object, args []Object) Object { return recv.(*Set).Copy() },
	}
	setMutators = map[string]mutatorFunc{
		"insert": setInsert,
		"add":    setInsert,
		"remove": setRemove,
	}

	tupleMethods = map[string]methodFunc{
		"len":      listLen,
		"first":    listFirst,
		"last":     listLast,
		"contains": listContains,
		"to_list":  listCopy,
	}

	rangeMethods = map[string]methodFunc{
		"len":      rangeLen,
		"contains": rangeContains,
		"to_list":  rangeList,
		"collect":  rangeList,
		"iter":     rangeList,
		"rev":      rangeRev,
		"reverse":  rangeRev,
		"step_by":  rangeStepBy,
		"map":      viaList(listMap),
		"filter":   viaList(listFilter),
		"for_each": viaList(listForEach),
		"sum":      rangeSum,
		"fold":     viaList(listFold),
		"any":      viaList(listAny),
		"all":      viaList(listAll),
		"zip":      viaList(listZip),
	}
}

func dictKeys(e *Evaluator, recv Object, args []Object) Object {
	d := recv.(*Dict)
	out := make([]Object, 0, d.Len())
	for _, en := range d.Entries() {
		out = append(out, en.Key)
	}
	return e.newList(out)
}

func dictValues(e *Evaluator, recv Object, args []Object) Object {
	d := recv.(*Dict)
	out := make([]Object, 0, d.Len())
	for _, en := range d.Entries() {
		out = append(out, en.Value)
	}
	return e.newList(out)
}

func dictItems(e *Evaluator, recv Object, args []Object) Object {
	d := recv.(*Dict)
	out := make([]Object, 0, d.Len())
	for _, en := range d.Entries() {
		out = append(out, &Tuple{Elements: []Object{en.Key, en.Value}})
	}
	return e.newList(out)
}

func dictGet(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("get", args, 1, 2); err != nil {
		return err
	}
	v, ok := recv.(*Dict).Get(args[0])
	if len(args) == 2 {
		if ok {
			return v
		}
		return args[1]
	}
	return optionOf(v, ok)
}

func dictHas(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("contains_key", args, 1, 1); err != nil {
		return err
	}
	_, ok := recv.(*Dict).Get(args[0])
	return nativeBool(ok)
}

func dictInsert(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("insert", args, 2, 2); err != nil {
		return err, nil
	}
	if err := e.charge(wordSize * 2); err != nil {
		return err, nil
	}
	d := recv.(*Dict).Copy()
	d.Set(args[0], args[1])
	return NIL, d
}

func dictRemove(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("remove", args, 1, 1); err != nil {
		return err, nil
	}
	d := recv.(*Dict).Copy()
	old, ok := d.Delete(args[0])
	return optionOf(old, ok), d
}

func setContains(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("contains", args, 1, 1); err != nil {
		return err
	}
	return nativeBool(recv.(*Set).Has(args[0]))
}

func setOp(name string, op func(a, b *Set) *Set) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs(name, args, 1, 1); err != nil {
			return err
		}
		other, ok := args[0].(*Set)
		if !ok {
			return typeError(RUNTIME_TYPE_SET, args[0], "%s expects a Set, got %s", name, typeName(args[0]))
		}
		return op(recv.(*Set), other)
	}
}

func setInsert(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("insert", args, 1, 1); err != nil {
		return err, nil
	}
	if err := e.charge(wordSize); err != nil {
		return err, nil
	}
	s := recv.(*Set).Copy()
	s.Add(args[0])
	return NIL, s
}

func setRemove(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("remove", args, 1, 1); err != nil {
		return err, nil
	}
	s := recv.(*Set).Copy()
	return nativeBool(s.Remove(args[0])), s
}

// bounded rejects open ranges, which only make sense as slice indices.
func bounded(r *Range) *Error {
	if !r.HasStart || !r.HasEnd {
		return newError(TypeMismatch, "open range %s has no elements", r.Inspect())
	}
	return nil
}

func rangeLen(e *Evaluator, recv Object, args []Object) Object {
	r := recv.(*Range)
	if err := bounded(r); err != nil {
		return err
	}
	return &Integer{Value: r.Len()}
}

func rangeContains(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("contains", args, 1, 1); err != nil {
		return err
	}
	n, ok := toInt(args[0])
	if !ok {
		return FALSE
	}
	r := recv.(*Range)
	if r.HasStart && n < r.Start {
		return FALSE
	}
	if r.HasEnd && n > r.Last() {
		return FALSE
	}
	return TRUE
}

func rangeList(e *Evaluator, recv Object, args []Object) Object {
	r := recv.(*Range)
	if err := bounded(r); err != nil {
		return err
	}
	if err := e.charge(objectOverhead + wordSize*r.Len()); err != nil {
		return err
	}
	return r.ToList()
}

func rangeRev(e *Evaluator, recv Object, args []Object) Object {
	l := rangeList(e, recv, args)
	if isError(l) {
		return l
	}
	return listReverse(e, l, nil)
}

func rangeStepBy(e *Evaluator, recv Object, args []Object) Object {
	r := recv.(*Range)
	if err := bounded(r); err != nil {
		return err
	}
	n, err := countArg("step_by", args)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(IndexOutOfBounds, "step_by step must be positive")
	}
	var out []Object
	for i := r.Start; i <= r.Last(); i += int64(n) {
		out = append(out, &Integer{Value: i})
	}
	return e.newList(out)
}

func rangeSum(e *Evaluator, recv Object, args []Object) Object {
	r := recv.(*Range)
	if err := bounded(r); err != nil {
		return err
	}
	n := r.Len()
	if n == 0 {
		return &Integer{Value: 0}
	}
	return &Integer{Value: (r.Start + r.Last()) * n / 2}
}

// viaList materializes the range and reuses a list method.
func viaList(m methodFunc) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		l := rangeList(e, recv, nil)
		if isError(l) {
			return l
		}
		return m(e, l, args)
	}
}
