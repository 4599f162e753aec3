package evaluator

import (
	"strconv"
	"strings"
	"unicode"
)

func init() {
	stringMethods = map[string]methodFunc{
		"len":              strLen,
		"length":           strLen,
		"is_empty":         func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(str(recv) == "") },
		"to_upper":         strMap(strings.ToUpper),
		"to_uppercase":     strMap(strings.ToUpper),
		"upper":            strMap(strings.ToUpper),
		"to_lower":         strMap(strings.ToLower),
		"to_lowercase":     strMap(strings.ToLower),
		"lower":            strMap(strings.ToLower),
		"capitalize":       strMap(capitalize),
		"trim":             strMap(strings.TrimSpace),
		"trim_start":       strMap(func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }),
		"trim_end":         strMap(func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }),
		"reverse":          strMap(reverseString),
		"split":            strSplit,
		"split_whitespace": func(e *Evaluator, recv Object, args []Object) Object { return stringList(e, strings.Fields(str(recv))) },
		"lines":            strLines,
		"chars":            strChars,
		"bytes":            strBytes,
		"contains":         strTest("contains", strings.Contains),
		"starts_with":      strTest("starts_with", strings.HasPrefix),
		"ends_with":        strTest("ends_with", strings.HasSuffix),
		"replace":          strReplace,
		"repeat":           strRepeat,
		"concat":           strConcat,
		"find":             strFind,
		"index_of":         strFind,
		"substring":        strSubstring,
		"slice":            strSubstring,
		"char_at":          strCharAt,
		"is_numeric":       strIsNumeric,
		"parse_int":        strParseInt,
		"parse_float":      strParseFloat,
		"to_int":           strToInt,
		"to_float":         strToFloat,
		"clone":            func(e *Evaluator, recv Object, args []Object) Object { return recv },
	}

	charMethods = map[string]methodFunc{
		"is_alphabetic": charTest(unicode.IsLetter),
		"is_numeric":    charTest(unicode.IsDigit),
		"is_digit":      charTest(unicode.IsDigit),
		"is_whitespace": charTest(unicode.IsSpace),
		"is_uppercase":  charTest(unicode.IsUpper),
		"is_lowercase":  charTest(unicode.IsLower),
		"is_alphanumeric": charTest(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}),
		"to_uppercase": charMap(unicode.ToUpper),
		"to_upper":     charMap(unicode.ToUpper),
		"to_lowercase": charMap(unicode.ToLower),
		"to_lower":     charMap(unicode.ToLower),
		"to_int": func(e *Evaluator, recv Object, args []Object) Object {
			return &Integer{Value: int64(recv.(*Char).Value)}
		},
	}
}

func str(recv Object) string {
	if s, ok := recv.(*String); ok {
		return s.Value
	}
	return ""
}

func strLen(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("len", args, 0, 0); err != nil {
		return err
	}
	return &Integer{Value: int64(len([]rune(str(recv))))}
}

func strMap(f func(string) string) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if len(args) > 0 {
			return newError(ArityError, "method takes no arguments, got %d", len(args))
		}
		return e.newString(f(str(recv)))
	}
}

func strTest(name string, f func(s, sub string) bool) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs(name, args, 1, 1); err != nil {
			return err
		}
		sub, err := stringArg(name, args[0])
		if err != nil {
			return err
		}
		return nativeBool(f(str(recv), sub))
	}
}

func capitalize(s string) string {
	rs := []rune(s)
	if len(rs) == 0 {
		return s
	}
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

func reverseString(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

func stringList(e *Evaluator, parts []string) Object {
	out := make([]Object, len(parts))
	for i, p := range parts {
		out[i] = &String{Value: p}
	}
	return e.newList(out)
}

func strSplit(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("split", args, 0, 1); err != nil {
		return err
	}
	if len(args) == 0 {
		return stringList(e, strings.Fields(str(recv)))
	}
	sep, err := stringArg("split", args[0])
	if err != nil {
		return err
	}
	return stringList(e, strings.Split(str(recv), sep))
}

func strLines(e *Evaluator, recv Object, args []Object) Object {
	s := strings.TrimSuffix(str(recv), "\n")
	if s == "" {
		return e.newList(nil)
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return stringList(e, lines)
}

func strChars(e *Evaluator, recv Object, args []Object) Object {
	rs := []rune(str(recv))
	out := make([]Object, len(rs))
	for i, r := range rs {
		out[i] = &Char{Value: r}
	}
	return e.newList(out)
}

func strBytes(e *Evaluator, recv Object, args []Object) Object {
	bs := []byte(str(recv))
	out := make([]Object, len(bs))
	for i, b := range bs {
		out[i] = &Byte{Value: b}
	}
	return e.newList(out)
}

func strReplace(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("replace", args, 2, 2); err != nil {
		return err
	}
	from, err := stringArg("replace", args[0])
	if err != nil {
		return err
	}
	to, err := stringArg("replace", args[1])
	if err != nil {
		return err
	}
	return e.newString(strings.ReplaceAll(str(recv), from, to))
}

func strRepeat(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("repeat", args, 1, 1); err != nil {
		return err
	}
	n, err := intArg("repeat", args[0])
	if err != nil {
		return err
	}
	if n < 0 {
		return newError(IndexOutOfBounds, "repeat count must be non-negative, got %d", n)
	}
	if err := e.charge(int64(len(str(recv))) * n); err != nil {
		return err
	}
	return &String{Value: strings.Repeat(str(recv), int(n))}
}

func strConcat(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("concat", args, 1, 1); err != nil {
		return err
	}
	other, err := stringArg("concat", args[0])
	if err != nil {
		return err
	}
	return e.newString(str(recv) + other)
}

// strFind reports the character index of the first occurrence.
func strFind(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("find", args, 1, 1); err != nil {
		return err
	}
	sub, err := stringArg("find", args[0])
	if err != nil {
		return err
	}
	s := str(recv)
	i := strings.Index(s, sub)
	if i < 0 {
		return NONE
	}
	return someValue(&Integer{Value: int64(len([]rune(s[:i])))})
}

func strSubstring(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("substring", args, 1, 2); err != nil {
		return err
	}
	lo, err := intArg("substring", args[0])
	if err != nil {
		return err
	}
	r := &Range{Start: lo, HasStart: true}
	if len(args) == 2 {
		hi, err := intArg("substring", args[1])
		if err != nil {
			return err
		}
		r.End, r.HasEnd = hi, true
	}
	return e.slice(recv, r)
}

func strCharAt(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("char_at", args, 1, 1); err != nil {
		return err
	}
	i, err := intArg("char_at", args[0])
	if err != nil {
		return err
	}
	rs := []rune(str(recv))
	if i < 0 || i >= int64(len(rs)) {
		return NONE
	}
	return someValue(&Char{Value: rs[i]})
}

func strIsNumeric(e *Evaluator, recv Object, args []Object) Object {
	s := str(recv)
	if s == "" {
		return FALSE
	}
	_, err := strconv.ParseFloat(s, 64)
	return nativeBool(err == nil)
}

func strParseInt(e *Evaluator, recv Object, args []Object) Object {
	n, err := strconv.ParseInt(strings.TrimSpace(str(recv)), 10, 64)
	if err != nil {
		return errValue(&String{Value: "invalid integer: " + quoteString(str(recv))})
	}
	return okValue(&Integer{Value: n})
}

func strParseFloat(e *Evaluator, recv Object, args []Object) Object {
	f, err := strconv.ParseFloat(strings.TrimSpace(str(recv)), 64)
	if err != nil {
		return errValue(&String{Value: "invalid float: " + quoteString(str(recv))})
	}
	return okValue(&Float{Value: f})
}

func strToInt(e *Evaluator, recv Object, args []Object) Object {
	return convertToInt(recv)
}

func strToFloat(e *Evaluator, recv Object, args []Object) Object {
	return convertToFloat(recv)
}

func charTest(f func(rune) bool) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		return nativeBool(f(recv.(*Char).Value))
	}
}

func charMap(f func(rune) rune) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		return &Char{Value: f(recv.(*Char).Value)}
	}
}
