package evaluator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"sort"
)

const defaultPreviewRows = 5

func init() {
	seriesMethods = map[string]methodFunc{
		"len":   listLen,
		"count": listLen,
		"sum":   listSum,
		"mean":  seriesMean,
		"std":   seriesStd,
		"min":   func(e *Evaluator, recv Object, args []Object) Object { return listExtreme(e, recv, args, "min", -1) },
		"max":   func(e *Evaluator, recv Object, args []Object) Object { return listExtreme(e, recv, args, "max", 1) },
		"get": func(e *Evaluator, recv Object, args []Object) Object {
			if err := checkArgs("get", args, 1, 1); err != nil {
				return err
			}
			return e.index(recv, args[0])
		},
		"map": func(e *Evaluator, recv Object, args []Object) Object {
			s := recv.(*Series)
			out, err := mapElems(e, "map", s.Values, args)
			if err != nil {
				return err
			}
			return &Series{Name: s.Name, Values: out}
		},
		"filter": func(e *Evaluator, recv Object, args []Object) Object {
			s := recv.(*Series)
			out, err := filterElems(e, "filter", s.Values, args)
			if err != nil {
				return err
			}
			return &Series{Name: s.Name, Values: out}
		},
		"unique": func(e *Evaluator, recv Object, args []Object) Object {
			s := recv.(*Series)
			seen := NewSet()
			for _, v := range s.Values {
				seen.Add(v)
			}
			return &Series{Name: s.Name, Values: append([]Object(nil), seen.Elements()...)}
		},
		"to_list": listCopy,
	}

	dataFrameMethods = map[string]methodFunc{
		"columns":      dfColumnNames,
		"column_names": dfColumnNames,
		"rows":         dfRows,
		"row_count":    dfRows,
		"len":          dfRows,
		"count":        dfRows,
		"shape": func(e *Evaluator, recv Object, args []Object) Object {
			df := recv.(*DataFrame)
			return &Tuple{Elements: []Object{&Integer{Value: int64(df.Rows())}, &Integer{Value: int64(len(df.Columns))}}}
		},
		"head":        func(e *Evaluator, recv Object, args []Object) Object { return dfPreview(recv, args, "head", false) },
		"tail":        func(e *Evaluator, recv Object, args []Object) Object { return dfPreview(recv, args, "tail", true) },
		"filter":      dfFilter,
		"sort_by":     dfSortBy,
		"select":      dfSelect,
		"column":      dfColumn,
		"col":         dfColumn,
		"with_column": dfWithColumn,
		"group_by":    dfGroupBy,
		"groupby":     dfGroupBy,
		"sum":         func(e *Evaluator, recv Object, args []Object) Object { return dfAggregate(recv, args, "sum") },
		"mean":        func(e *Evaluator, recv Object, args []Object) Object { return dfAggregate(recv, args, "mean") },
		"get":         dfGet,
		"to_csv":      dfToCSV,
		"to_json":     dfToJSON,
	}
}

// numbers extracts the numeric values of xs, skipping the rest.
func numbers(xs []Object) []float64 {
	var out []float64
	for _, x := range xs {
		if f, ok := toFloat(x); ok {
			out = append(out, f)
		}
	}
	return out
}

func mean(fs []float64) float64 {
	if len(fs) == 0 {
		return 0
	}
	var total float64
	for _, f := range fs {
		total += f
	}
	return total / float64(len(fs))
}

func seriesMean(e *Evaluator, recv Object, args []Object) Object {
	return &Float{Value: mean(numbers(recv.(*Series).Values))}
}

// seriesStd is the population standard deviation.
func seriesStd(e *Evaluator, recv Object, args []Object) Object {
	fs := numbers(recv.(*Series).Values)
	if len(fs) < 2 {
		return &Float{Value: 0}
	}
	m := mean(fs)
	var sq float64
	for _, f := range fs {
		sq += (f - m) * (f - m)
	}
	return &Float{Value: math.Sqrt(sq / float64(len(fs)))}
}

func dfColumnNames(e *Evaluator, recv Object, args []Object) Object {
	df := recv.(*DataFrame)
	names := make([]string, len(df.Columns))
	for i, c := range df.Columns {
		names[i] = c.Name
	}
	return stringList(e, names)
}

func dfRows(e *Evaluator, recv Object, args []Object) Object {
	return &Integer{Value: int64(recv.(*DataFrame).Rows())}
}

func dfPreview(recv Object, args []Object, name string, fromEnd bool) Object {
	if err := checkArgs(name, args, 0, 1); err != nil {
		return err
	}
	n := defaultPreviewRows
	if len(args) == 1 {
		c, err := countArg(name, args)
		if err != nil {
			return err
		}
		n = c
	}
	df := recv.(*DataFrame)
	total := df.Rows()
	if n > total {
		n = total
	}
	start := 0
	if fromEnd {
		start = total - n
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = start + i
	}
	return df.selectRows(rows)
}

// dfFilter keeps the rows whose record the predicate accepts.
func dfFilter(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("filter", args, 1, 1); err != nil {
		return err
	}
	if err := callableArg("filter", args[0]); err != nil {
		return err
	}
	df := recv.(*DataFrame)
	var rows []int
	for i := 0; i < df.Rows(); i++ {
		keep, err := e.predicate(args[0], df.row(i))
		if err != nil {
			return err
		}
		if keep {
			rows = append(rows, i)
		}
	}
	return df.selectRows(rows)
}

func columnArg(df *DataFrame, name string, arg Object) (*Series, *Error) {
	col, err := stringArg(name, arg)
	if err != nil {
		return nil, err
	}
	s, ok := df.Column(col)
	if !ok {
		return nil, newError(KeyNotFound, "column %s not found in DataFrame", quoteString(col))
	}
	return s, nil
}

// dfSortBy orders rows by one column; incomparable values keep their order.
func dfSortBy(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("sort_by", args, 1, 2); err != nil {
		return err
	}
	df := recv.(*DataFrame)
	col, err := columnArg(df, "sort_by", args[0])
	if err != nil {
		return err
	}
	descending := false
	if len(args) == 2 {
		d, err := boolArg("sort_by", args[1])
		if err != nil {
			return err
		}
		descending = d
	}
	rows := make([]int, df.Rows())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		c, _ := compareObjects(col.Values[rows[a]], col.Values[rows[b]])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return df.selectRows(rows)
}

func dfSelect(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("select", args, 1, 1); err != nil {
		return err
	}
	df := recv.(*DataFrame)
	names := []Object{args[0]}
	if l, ok := args[0].(*List); ok {
		names = l.Elements
	}
	out := &DataFrame{}
	for _, n := range names {
		s, err := columnArg(df, "select", n)
		if err != nil {
			return err
		}
		out.Columns = append(out.Columns, s)
	}
	return out
}

func dfColumn(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("column", args, 1, 1); err != nil {
		return err
	}
	s, err := columnArg(recv.(*DataFrame), "column", args[0])
	if err != nil {
		return err
	}
	return s
}

// dfWithColumn returns a frame with the named column added or replaced.
func dfWithColumn(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("with_column", args, 2, 2); err != nil {
		return err
	}
	name, err := stringArg("with_column", args[0])
	if err != nil {
		return err
	}
	vals, err := collect(args[1])
	if err != nil {
		return err
	}
	df := recv.(*DataFrame)
	if len(df.Columns) > 0 && len(vals) != df.Rows() {
		return newError(IndexOutOfBounds, "column %s has %d rows, DataFrame has %d", name, len(vals), df.Rows())
	}
	col := &Series{Name: name, Values: vals}
	out := &DataFrame{Columns: append([]*Series(nil), df.Columns...)}
	for i, c := range out.Columns {
		if c.Name == name {
			out.Columns[i] = col
			return out
		}
	}
	out.Columns = append(out.Columns, col)
	return out
}

// dfGroupBy groups rows by a key column, in order of first appearance. Every
// other numeric column becomes a <name>_sum column.
func dfGroupBy(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("group_by", args, 1, 1); err != nil {
		return err
	}
	df := recv.(*DataFrame)
	key, err := columnArg(df, "group_by", args[0])
	if err != nil {
		return err
	}
	groups := NewDict()
	var order []Object
	for i, k := range key.Values {
		prev, ok := groups.Get(k)
		if !ok {
			order = append(order, k)
			groups.Set(k, newList([]Object{&Integer{Value: int64(i)}}))
			continue
		}
		l := prev.(*List)
		groups.Set(k, newList(append(l.Elements, &Integer{Value: int64(i)})))
	}

	out := &DataFrame{Columns: []*Series{{Name: key.Name, Values: order}}}
	for _, c := range df.Columns {
		if c == key || len(numbers(c.Values)) == 0 {
			continue
		}
		sums := make([]Object, len(order))
		for gi, k := range order {
			idx, _ := groups.Get(k)
			var picked []Object
			for _, i := range idx.(*List).Elements {
				picked = append(picked, c.Values[i.(*Integer).Value])
			}
			sums[gi] = numericFold("sum", numericOnly(picked), false)
		}
		out.Columns = append(out.Columns, &Series{Name: c.Name + "_sum", Values: sums})
	}
	return out
}

func numericOnly(xs []Object) []Object {
	var out []Object
	for _, x := range xs {
		if isNumeric(x) {
			out = append(out, x)
		}
	}
	return out
}

// dfAggregate sums or averages one column, or every numeric value in the
// frame when no column is named.
func dfAggregate(recv Object, args []Object, op string) Object {
	if err := checkArgs(op, args, 0, 1); err != nil {
		return err
	}
	df := recv.(*DataFrame)
	var vals []Object
	if len(args) == 1 {
		col, err := columnArg(df, op, args[0])
		if err != nil {
			return err
		}
		vals = col.Values
	} else {
		for _, c := range df.Columns {
			vals = append(vals, c.Values...)
		}
	}
	fs := numbers(vals)
	if op == "mean" {
		return &Float{Value: mean(fs)}
	}
	var total float64
	for _, f := range fs {
		total += f
	}
	return &Float{Value: total}
}

func dfGet(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("get", args, 2, 2); err != nil {
		return err
	}
	col, err := columnArg(recv.(*DataFrame), "get", args[0])
	if err != nil {
		return err
	}
	return e.index(col, args[1])
}

func dfToCSV(e *Evaluator, recv Object, args []Object) Object {
	df := recv.(*DataFrame)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, len(df.Columns))
	for i, c := range df.Columns {
		header[i] = c.Name
	}
	if len(header) > 0 {
		_ = w.Write(header)
	}
	for r := 0; r < df.Rows(); r++ {
		record := make([]string, len(df.Columns))
		for i, c := range df.Columns {
			record[i] = Display(c.Values[r])
		}
		_ = w.Write(record)
	}
	w.Flush()
	return e.newString(buf.String())
}

// dfToJSON renders the rows as an array of objects, keeping column order.
func dfToJSON(e *Evaluator, recv Object, args []Object) Object {
	df := recv.(*DataFrame)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r := 0; r < df.Rows(); r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, c := range df.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(c.Name)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(jsonValue(c.Values[r]))
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return e.newString(buf.String())
}

func jsonValue(obj Object) []byte {
	var v interface{}
	switch o := obj.(type) {
	case *Integer:
		v = o.Value
	case *Float:
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return []byte("null")
		}
		v = o.Value
	case *Boolean:
		v = o.Value
	case *Nil:
		return []byte("null")
	default:
		v = Display(obj)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return out
}
