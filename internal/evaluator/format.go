package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Display renders the top-level form of a value: strings and chars print
// as-is, everything else uses the nested form.
func Display(obj Object) string {
	switch o := obj.(type) {
	case nil:
		return "()"
	case *String:
		return o.Value
	case *Char:
		return string(o.Value)
	case *ErrorValue:
		return o.Err.Message
	}
	return obj.Inspect()
}

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }

// formatFloat renders the shortest round-trip form in positional notation,
// always with a decimal point so 3.0 stays distinguishable from 3.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string { return strconv.Quote(s) }
func quoteChar(r rune) string     { return strconv.QuoteRune(r) }

// TypeName is the user-facing type of a value, as type_of reports it.
func TypeName(obj Object) string { return typeName(obj) }

func typeName(obj Object) string {
	switch o := obj.(type) {
	case nil:
		return RUNTIME_TYPE_NIL
	case *Integer:
		return RUNTIME_TYPE_INT
	case *Float:
		return RUNTIME_TYPE_FLOAT
	case *Boolean:
		return RUNTIME_TYPE_BOOL
	case *String:
		return RUNTIME_TYPE_STRING
	case *Char:
		return RUNTIME_TYPE_CHAR
	case *Byte:
		return RUNTIME_TYPE_BYTE
	case *Atom:
		return RUNTIME_TYPE_ATOM
	case *Nil:
		return RUNTIME_TYPE_NIL
	case *List:
		return RUNTIME_TYPE_LIST
	case *Tuple:
		return RUNTIME_TYPE_TUPLE
	case *Dict:
		return RUNTIME_TYPE_DICT
	case *Set:
		return RUNTIME_TYPE_SET
	case *Range:
		return RUNTIME_TYPE_RANGE
	case *Record:
		return RUNTIME_TYPE_OBJECT
	case *Struct:
		return o.Desc.Name
	case *ObjectMut:
		return o.Desc.Name
	case *Variant:
		if o.Enum != "" {
			return o.Enum
		}
		return o.Name
	case *Future:
		return RUNTIME_TYPE_FUTURE
	case *Series:
		return RUNTIME_TYPE_SERIES
	case *DataFrame:
		return RUNTIME_TYPE_DATAFRAME
	case *Function, *Builtin, *BoundMethod:
		return RUNTIME_TYPE_FUNCTION
	case *TypeDescriptor:
		return RUNTIME_TYPE_TYPE
	case *Module:
		return RUNTIME_TYPE_MODULE
	case *Error, *ErrorValue:
		return RUNTIME_TYPE_ERROR
	}
	return string(obj.Type())
}

// formatTemplate expands `{}` (display) and `{:?}` (debug) placeholders.
// `{{` and `}}` are literal braces.
func formatTemplate(template string, args []Object) (string, error) {
	var b strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && strings.HasPrefix(template[i:], "{{"):
			b.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(template[i:], "}}"):
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder in format string")
			}
			spec := template[i+1 : i+end]
			if next >= len(args) {
				return "", fmt.Errorf("format string has more placeholders than arguments (%d)", len(args))
			}
			switch spec {
			case "":
				b.WriteString(Display(args[next]))
			case ":?", ":#?":
				b.WriteString(args[next].Inspect())
			default:
				s, err := formatSpec(spec, args[next])
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			}
			next++
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// formatSpec handles `{:.N}` precision and `{:N}` width.
func formatSpec(spec string, arg Object) (string, error) {
	if !strings.HasPrefix(spec, ":") {
		return "", fmt.Errorf("unsupported placeholder {%s}", spec)
	}
	spec = spec[1:]
	if strings.HasPrefix(spec, ".") {
		prec, err := strconv.Atoi(spec[1:])
		if err != nil {
			return "", fmt.Errorf("invalid precision in {:%s}", spec)
		}
		if f, ok := toFloat(arg); ok {
			return strconv.FormatFloat(f, 'f', prec, 64), nil
		}
		return Display(arg), nil
	}
	width, err := strconv.Atoi(spec)
	if err != nil {
		return "", fmt.Errorf("unsupported placeholder {:%s}", spec)
	}
	return fmt.Sprintf("%*s", width, Display(arg)), nil
}
