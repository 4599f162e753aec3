package evaluator

import (
	"sort"
	"strings"
)

func init() {
	listMethods = map[string]methodFunc{
		"len":       listLen,
		"length":    listLen,
		"size":      listLen,
		"is_empty":  func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(len(elems(recv)) == 0) },
		"first":     listFirst,
		"last":      listLast,
		"get":       listGet,
		"contains":  listContains,
		"index_of":  listIndexOf,
		"map":       listMap,
		"filter":    listFilter,
		"flat_map":  listFlatMap,
		"for_each":  listForEach,
		"each":      listForEach,
		"fold":      listFold,
		"reduce":    listReduce,
		"any":       listAny,
		"all":       listAll,
		"find":      listFind,
		"position":  listPosition,
		"count":     listCount,
		"sum":       listSum,
		"product":   listProduct,
		"min":       func(e *Evaluator, recv Object, args []Object) Object { return listExtreme(e, recv, args, "min", -1) },
		"max":       func(e *Evaluator, recv Object, args []Object) Object { return listExtreme(e, recv, args, "max", 1) },
		"reverse":   listReverse,
		"rev":       listReverse,
		"sort":      listSort,
		"sorted":    listSort,
		"sort_by":   listSortBy,
		"unique":    listUnique,
		"dedup":     listDedup,
		"take":      listTake,
		"skip":      listSkip,
		"slice":     listSlice,
		"concat":    listConcat,
		"chunks":    func(e *Evaluator, recv Object, args []Object) Object { return listChunks(e, recv, args, false) },
		"windows":   func(e *Evaluator, recv Object, args []Object) Object { return listChunks(e, recv, args, true) },
		"enumerate": listEnumerate,
		"zip":       listZip,
		"partition": listPartition,
		"join":      listJoin,
		"iter":      listCopy,
		"into_iter": listCopy,
		"collect":   listCopy,
		"to_list":   listCopy,
		"to_vec":    listCopy,
		"clone":     listCopy,
	}
	listMutators = map[string]mutatorFunc{
		"push":   listPush,
		"append": listPush,
		"pop":    listPop,
		"insert": listInsert,
		"remove": listRemove,
		"clear":  listClear,
		"extend": listExtend,
	}
}

// elems returns the elements of a list-like receiver.
func elems(recv Object) []Object {
	switch r := recv.(type) {
	case *List:
		return r.Elements
	case *Tuple:
		return r.Elements
	case *Series:
		return r.Values
	}
	return nil
}

func listLen(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("len", args, 0, 0); err != nil {
		return err
	}
	return &Integer{Value: int64(len(elems(recv)))}
}

func listFirst(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	if len(xs) == 0 {
		return NONE
	}
	return someValue(xs[0])
}

func listLast(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	if len(xs) == 0 {
		return NONE
	}
	return someValue(xs[len(xs)-1])
}

func listGet(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("get", args, 1, 1); err != nil {
		return err
	}
	i, err := intArg("get", args[0])
	if err != nil {
		return err
	}
	xs := elems(recv)
	if i < 0 || i >= int64(len(xs)) {
		return NONE
	}
	return someValue(xs[i])
}

func listContains(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("contains", args, 1, 1); err != nil {
		return err
	}
	return nativeBool(containsObject(elems(recv), args[0]))
}

func listIndexOf(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("index_of", args, 1, 1); err != nil {
		return err
	}
	for i, el := range elems(recv) {
		if objectsEqual(el, args[0]) {
			return someValue(&Integer{Value: int64(i)})
		}
	}
	return NONE
}

// mapElems applies the single callback argument to every element.
func mapElems(e *Evaluator, name string, xs []Object, args []Object) ([]Object, Object) {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return nil, err
	}
	if err := callableArg(name, args[0]); err != nil {
		return nil, err
	}
	out := make([]Object, len(xs))
	for i, el := range xs {
		v := e.call1(args[0], el)
		if isError(v) {
			return nil, v
		}
		out[i] = v
	}
	return out, nil
}

// filterElems keeps the elements the predicate argument accepts.
func filterElems(e *Evaluator, name string, xs []Object, args []Object) ([]Object, Object) {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return nil, err
	}
	if err := callableArg(name, args[0]); err != nil {
		return nil, err
	}
	var out []Object
	for _, el := range xs {
		keep, err := e.predicate(args[0], el)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, el)
		}
	}
	return out, nil
}

func listMap(e *Evaluator, recv Object, args []Object) Object {
	out, err := mapElems(e, "map", elems(recv), args)
	if err != nil {
		return err
	}
	return e.newList(out)
}

func listFilter(e *Evaluator, recv Object, args []Object) Object {
	out, err := filterElems(e, "filter", elems(recv), args)
	if err != nil {
		return err
	}
	return e.newList(out)
}

func listFlatMap(e *Evaluator, recv Object, args []Object) Object {
	mapped, err := mapElems(e, "flat_map", elems(recv), args)
	if err != nil {
		return err
	}
	var out []Object
	for _, m := range mapped {
		inner, err := collect(m)
		if err != nil {
			return err
		}
		out = append(out, inner...)
	}
	return e.newList(out)
}

func listForEach(e *Evaluator, recv Object, args []Object) Object {
	if _, err := mapElems(e, "for_each", elems(recv), args); err != nil {
		return err
	}
	return NIL
}

func listFold(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("fold", args, 2, 2); err != nil {
		return err
	}
	if err := callableArg("fold", args[1]); err != nil {
		return err
	}
	acc := args[0]
	for _, el := range elems(recv) {
		acc = e.call2(args[1], acc, el)
		if isError(acc) {
			return acc
		}
	}
	return acc
}

func listReduce(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("reduce", args, 1, 1); err != nil {
		return err
	}
	if err := callableArg("reduce", args[0]); err != nil {
		return err
	}
	xs := elems(recv)
	if len(xs) == 0 {
		return newError(IndexOutOfBounds, "reduce of an empty list")
	}
	acc := xs[0]
	for _, el := range xs[1:] {
		acc = e.call2(args[0], acc, el)
		if isError(acc) {
			return acc
		}
	}
	return acc
}

// findIndex returns the index of the first element the predicate accepts,
// or -1.
func findIndex(e *Evaluator, name string, xs []Object, args []Object) (int, Object) {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return -1, err
	}
	if err := callableArg(name, args[0]); err != nil {
		return -1, err
	}
	for i, el := range xs {
		ok, err := e.predicate(args[0], el)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func listAny(e *Evaluator, recv Object, args []Object) Object {
	i, err := findIndex(e, "any", elems(recv), args)
	if err != nil {
		return err
	}
	return nativeBool(i >= 0)
}

func listAll(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("all", args, 1, 1); err != nil {
		return err
	}
	if err := callableArg("all", args[0]); err != nil {
		return err
	}
	for _, el := range elems(recv) {
		ok, err := e.predicate(args[0], el)
		if err != nil {
			return err
		}
		if !ok {
			return FALSE
		}
	}
	return TRUE
}

func listFind(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	i, err := findIndex(e, "find", xs, args)
	if err != nil {
		return err
	}
	if i < 0 {
		return NONE
	}
	return someValue(xs[i])
}

func listPosition(e *Evaluator, recv Object, args []Object) Object {
	i, err := findIndex(e, "position", elems(recv), args)
	if err != nil {
		return err
	}
	if i < 0 {
		return NONE
	}
	return someValue(&Integer{Value: int64(i)})
}

// listCount counts all elements, or those matching an optional predicate.
func listCount(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("count", args, 0, 1); err != nil {
		return err
	}
	if len(args) == 0 {
		return &Integer{Value: int64(len(elems(recv)))}
	}
	out, err := filterElems(e, "count", elems(recv), args)
	if err != nil {
		return err
	}
	return &Integer{Value: int64(len(out))}
}

// numericFold adds or multiplies numbers, staying integral until a Float
// appears.
func numericFold(name string, xs []Object, product bool) Object {
	var ai int64
	var af float64
	if product {
		ai, af = 1, 1
	}
	isFloat := false
	for _, el := range xs {
		switch v := el.(type) {
		case *Integer, *Byte:
			n, _ := toInt(v)
			if product {
				ai *= n
				af *= float64(n)
			} else {
				ai += n
				af += float64(n)
			}
		case *Float:
			isFloat = true
			if product {
				af *= v.Value
			} else {
				af += v.Value
			}
		default:
			return typeError("number", el, "%s over non-numeric element %s", name, typeName(el))
		}
	}
	if isFloat {
		return &Float{Value: af}
	}
	return &Integer{Value: ai}
}

func listSum(e *Evaluator, recv Object, args []Object) Object {
	return numericFold("sum", elems(recv), false)
}

func listProduct(e *Evaluator, recv Object, args []Object) Object {
	return numericFold("product", elems(recv), true)
}

// listExtreme returns the smallest (dir -1) or largest (dir 1) element; an
// empty list yields ().
func listExtreme(e *Evaluator, recv Object, args []Object, name string, dir int) Object {
	if err := checkArgs(name, args, 0, 0); err != nil {
		return err
	}
	xs := elems(recv)
	if len(xs) == 0 {
		return NIL
	}
	best := xs[0]
	for _, el := range xs[1:] {
		c, ok := compareObjects(el, best)
		if !ok {
			return typeError(typeName(best), el, "cannot compare %s with %s", typeName(el), typeName(best))
		}
		if c == dir {
			best = el
		}
	}
	return best
}

func listReverse(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	out := make([]Object, len(xs))
	for i, el := range xs {
		out[len(xs)-1-i] = el
	}
	return e.newList(out)
}

// sortObjects orders keys stably; the returned error reports the first pair
// that could not be compared.
func sortObjects(xs []Object, keys []Object) *Error {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	var failure *Error
	sort.SliceStable(idx, func(a, b int) bool {
		c, ok := compareObjects(keys[idx[a]], keys[idx[b]])
		if !ok && failure == nil {
			failure = typeError(typeName(keys[idx[a]]), keys[idx[b]], "cannot compare %s with %s", typeName(keys[idx[a]]), typeName(keys[idx[b]]))
		}
		return c < 0
	})
	if failure != nil {
		return failure
	}
	sorted := make([]Object, len(xs))
	for i, j := range idx {
		sorted[i] = xs[j]
	}
	copy(xs, sorted)
	return nil
}

func listSort(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("sort", args, 0, 0); err != nil {
		return err
	}
	out := append([]Object(nil), elems(recv)...)
	if err := sortObjects(out, out); err != nil {
		return err
	}
	return e.newList(out)
}

func listSortBy(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	keys, err := mapElems(e, "sort_by", xs, args)
	if err != nil {
		return err
	}
	out := append([]Object(nil), xs...)
	if err := sortObjects(out, append([]Object(nil), keys...)); err != nil {
		return err
	}
	return e.newList(out)
}

func listUnique(e *Evaluator, recv Object, args []Object) Object {
	seen := NewSet()
	var out []Object
	for _, el := range elems(recv) {
		if seen.Add(el) {
			out = append(out, el)
		}
	}
	return e.newList(out)
}

// listDedup drops consecutive duplicates.
func listDedup(e *Evaluator, recv Object, args []Object) Object {
	var out []Object
	for _, el := range elems(recv) {
		if len(out) > 0 && objectsEqual(out[len(out)-1], el) {
			continue
		}
		out = append(out, el)
	}
	return e.newList(out)
}

func countArg(name string, args []Object) (int, *Error) {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return 0, err
	}
	n, err := intArg(name, args[0])
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, newError(IndexOutOfBounds, "%s expects a non-negative count, got %d", name, n)
	}
	return int(n), nil
}

func listTake(e *Evaluator, recv Object, args []Object) Object {
	n, err := countArg("take", args)
	if err != nil {
		return err
	}
	xs := elems(recv)
	if n > len(xs) {
		n = len(xs)
	}
	return e.newList(append([]Object(nil), xs[:n]...))
}

func listSkip(e *Evaluator, recv Object, args []Object) Object {
	n, err := countArg("skip", args)
	if err != nil {
		return err
	}
	xs := elems(recv)
	if n > len(xs) {
		n = len(xs)
	}
	return e.newList(append([]Object(nil), xs[n:]...))
}

func listSlice(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("slice", args, 2, 2); err != nil {
		return err
	}
	lo, err := intArg("slice", args[0])
	if err != nil {
		return err
	}
	hi, err := intArg("slice", args[1])
	if err != nil {
		return err
	}
	return e.slice(newList(elems(recv)), &Range{Start: lo, End: hi, HasStart: true, HasEnd: true})
}

func listConcat(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("concat", args, 1, 1); err != nil {
		return err
	}
	other, err := collect(args[0])
	if err != nil {
		return err
	}
	out := append(append([]Object(nil), elems(recv)...), other...)
	return e.newList(out)
}

// listChunks splits into consecutive chunks, or sliding windows when
// sliding is set.
func listChunks(e *Evaluator, recv Object, args []Object, sliding bool) Object {
	name := "chunks"
	if sliding {
		name = "windows"
	}
	n, err := countArg(name, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(IndexOutOfBounds, "%s size must be positive", name)
	}
	xs := elems(recv)
	var out []Object
	if sliding {
		for i := 0; i+n <= len(xs); i++ {
			out = append(out, newList(append([]Object(nil), xs[i:i+n]...)))
		}
	} else {
		for i := 0; i < len(xs); i += n {
			end := i + n
			if end > len(xs) {
				end = len(xs)
			}
			out = append(out, newList(append([]Object(nil), xs[i:end]...)))
		}
	}
	return e.newList(out)
}

func listEnumerate(e *Evaluator, recv Object, args []Object) Object {
	xs := elems(recv)
	out := make([]Object, len(xs))
	for i, el := range xs {
		out[i] = &Tuple{Elements: []Object{&Integer{Value: int64(i)}, el}}
	}
	return e.newList(out)
}

func listZip(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("zip", args, 1, 1); err != nil {
		return err
	}
	other, err := collect(args[0])
	if err != nil {
		return err
	}
	xs := elems(recv)
	n := len(xs)
	if len(other) < n {
		n = len(other)
	}
	out := make([]Object, n)
	for i := 0; i < n; i++ {
		out[i] = &Tuple{Elements: []Object{xs[i], other[i]}}
	}
	return e.newList(out)
}

func listPartition(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("partition", args, 1, 1); err != nil {
		return err
	}
	if err := callableArg("partition", args[0]); err != nil {
		return err
	}
	var yes, no []Object
	for _, el := range elems(recv) {
		ok, err := e.predicate(args[0], el)
		if err != nil {
			return err
		}
		if ok {
			yes = append(yes, el)
		} else {
			no = append(no, el)
		}
	}
	return &Tuple{Elements: []Object{newList(yes), newList(no)}}
}

func listJoin(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("join", args, 0, 1); err != nil {
		return err
	}
	sep := ""
	if len(args) == 1 {
		s, err := stringArg("join", args[0])
		if err != nil {
			return err
		}
		sep = s
	}
	xs := elems(recv)
	parts := make([]string, len(xs))
	for i, el := range xs {
		parts[i] = Display(el)
	}
	return e.newString(strings.Join(parts, sep))
}

func listCopy(e *Evaluator, recv Object, args []Object) Object {
	return e.newList(append([]Object(nil), elems(recv)...))
}

func listPush(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("push", args, 1, 1); err != nil {
		return err, nil
	}
	xs := elems(recv)
	out := make([]Object, len(xs), len(xs)+1)
	copy(out, xs)
	updated := e.newList(append(out, args[0]))
	if isError(updated) {
		return updated, nil
	}
	return NIL, updated
}

func listPop(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("pop", args, 0, 0); err != nil {
		return err, nil
	}
	xs := elems(recv)
	if len(xs) == 0 {
		return NONE, recv
	}
	return someValue(xs[len(xs)-1]), newList(append([]Object(nil), xs[:len(xs)-1]...))
}

func listInsert(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("insert", args, 2, 2); err != nil {
		return err, nil
	}
	i, err := intArg("insert", args[0])
	if err != nil {
		return err, nil
	}
	xs := elems(recv)
	if i < 0 || i > int64(len(xs)) {
		return newError(IndexOutOfBounds, "insert index %d out of bounds for length %d", i, len(xs)), nil
	}
	out := make([]Object, 0, len(xs)+1)
	out = append(out, xs[:i]...)
	out = append(out, args[1])
	out = append(out, xs[i:]...)
	updated := e.newList(out)
	if isError(updated) {
		return updated, nil
	}
	return NIL, updated
}

func listRemove(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("remove", args, 1, 1); err != nil {
		return err, nil
	}
	xs := elems(recv)
	i, err := e.position(args[0], len(xs))
	if err != nil {
		return err, nil
	}
	out := append(append([]Object(nil), xs[:i]...), xs[i+1:]...)
	return xs[i], newList(out)
}

func listClear(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("clear", args, 0, 0); err != nil {
		return err, nil
	}
	return NIL, newList(nil)
}

func listExtend(e *Evaluator, recv Object, args []Object) (Object, Object) {
	if err := checkArgs("extend", args, 1, 1); err != nil {
		return err, nil
	}
	res := listConcat(e, recv, args)
	if isError(res) {
		return res, nil
	}
	return NIL, res
}
