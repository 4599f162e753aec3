package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	switch node.Operator {
	case "-":
		switch r := right.(type) {
		case *Integer:
			return &Integer{Value: -r.Value}
		case *Float:
			return &Float{Value: -r.Value}
		case *Byte:
			return &Integer{Value: -int64(r.Value)}
		}
		return typeError("number", right, "unary - on %s", typeName(right))
	case "!":
		if b, ok := right.(*Boolean); ok {
			return nativeBool(!b.Value)
		}
		return typeError(RUNTIME_TYPE_BOOL, right, "unary ! on %s", typeName(right))
	case "~":
		if n, ok := toInt(right); ok {
			return &Integer{Value: ^n}
		}
		return typeError(RUNTIME_TYPE_INT, right, "unary ~ on %s", typeName(right))
	case "&", "&mut", "*":
		// References are transparent.
		return right
	}
	return newError(InternalError, "unknown operator: %s", node.Operator)
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	switch node.Operator {
	case "&&", "||":
		return e.evalLogical(node, env)
	case "|>":
		return e.evalPipe(node, env)
	case "??":
		left := e.Eval(node.Left, env)
		if isSignal(left) {
			return left
		}
		switch l := left.(type) {
		case *Nil:
			return e.Eval(node.Right, env)
		case *Variant:
			if l.is(OptionTypeName, "None") {
				return e.Eval(node.Right, env)
			}
			if l.is(OptionTypeName, "Some") {
				return l.Fields[0]
			}
		}
		return left
	}

	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	return e.binaryOp(node.Operator, left, right)
}

func (e *Evaluator) evalLogical(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	l, err := boolArg(node.Operator, left)
	if err != nil {
		return err
	}
	if (node.Operator == "&&" && !l) || (node.Operator == "||" && l) {
		return nativeBool(l)
	}
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	r, err := boolArg(node.Operator, right)
	if err != nil {
		return err
	}
	return nativeBool(r)
}

// evalPipe evaluates `x |> f` as f(x) and `x |> f(a)` as f(x, a).
func (e *Evaluator) evalPipe(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	switch call := node.Right.(type) {
	case *ast.CallExpression:
		fn := e.Eval(call.Function, env)
		if isSignal(fn) {
			return fn
		}
		args, named, sig := e.evalArguments(call.Arguments, env)
		if sig != nil {
			return sig
		}
		return e.ApplyFunction(fn, append([]Object{left}, args...), named)
	case *ast.MethodCallExpression:
		recv := e.Eval(call.Receiver, env)
		if isSignal(recv) {
			return recv
		}
		args, named, sig := e.evalArguments(call.Arguments, env)
		if sig != nil {
			return sig
		}
		return e.callMethod(recv, call.Method, append([]Object{left}, args...), named, nil, env)
	}
	fn := e.Eval(node.Right, env)
	if isSignal(fn) {
		return fn
	}
	return e.ApplyFunction(fn, []Object{left}, nil)
}

func (e *Evaluator) binaryOp(op string, left, right Object) Object {
	switch op {
	case "==":
		return nativeBool(objectsEqual(left, right))
	case "!=":
		return nativeBool(!objectsEqual(left, right))
	case "<", ">", "<=", ">=":
		c, ok := compareObjects(left, right)
		if !ok {
			if isNaNCompare(left, right) {
				return FALSE
			}
			return typeError(typeName(left), right, "cannot compare %s with %s", typeName(left), typeName(right))
		}
		switch op {
		case "<":
			return nativeBool(c < 0)
		case ">":
			return nativeBool(c > 0)
		case "<=":
			return nativeBool(c <= 0)
		}
		return nativeBool(c >= 0)
	case "in":
		return e.membership(left, right)
	}

	li, lInt := toInt(left)
	ri, rInt := toInt(right)
	if lInt && rInt {
		return e.intOp(op, li, ri)
	}
	if isNumeric(left) && isNumeric(right) {
		lf, _ := toFloat(left)
		rf, _ := toFloat(right)
		return floatOp(op, lf, rf)
	}

	switch l := left.(type) {
	case *String:
		return e.stringOp(op, l, right)
	case *Char:
		if r, ok := right.(*String); ok && op == "+" {
			return e.newString(string(l.Value) + r.Value)
		}
	case *List:
		if r, ok := right.(*List); ok && op == "+" {
			out := make([]Object, 0, len(l.Elements)+len(r.Elements))
			return e.newList(append(append(out, l.Elements...), r.Elements...))
		}
		if n, ok := right.(*Integer); ok && op == "*" {
			return e.repeatList(l, n.Value)
		}
	case *Boolean:
		if r, ok := right.(*Boolean); ok {
			switch op {
			case "&":
				return nativeBool(l.Value && r.Value)
			case "|":
				return nativeBool(l.Value || r.Value)
			case "^":
				return nativeBool(l.Value != r.Value)
			}
		}
	case *Set:
		if r, ok := right.(*Set); ok {
			switch op {
			case "|":
				return setUnion(l, r)
			case "&":
				return setIntersection(l, r)
			case "-":
				return setDifference(l, r)
			}
		}
	}
	return typeError(typeName(left), right, "unsupported operand types for %s: %s and %s", op, typeName(left), typeName(right))
}

func isNaNCompare(a, b Object) bool {
	if fa, ok := a.(*Float); ok && math.IsNaN(fa.Value) {
		return isNumeric(b)
	}
	if fb, ok := b.(*Float); ok && math.IsNaN(fb.Value) {
		return isNumeric(a)
	}
	return false
}

func (e *Evaluator) intOp(op string, a, b int64) Object {
	switch op {
	case "+":
		return &Integer{Value: a + b}
	case "-":
		return &Integer{Value: a - b}
	case "*":
		return &Integer{Value: a * b}
	case "/":
		if b == 0 {
			return newError(DivisionByZero, "integer division by zero")
		}
		return &Integer{Value: a / b}
	case "%":
		if b == 0 {
			return newError(DivisionByZero, "integer modulo by zero")
		}
		return &Integer{Value: a % b}
	case "**":
		if b < 0 {
			return &Float{Value: math.Pow(float64(a), float64(b))}
		}
		return &Integer{Value: intPow(a, b)}
	case "&":
		return &Integer{Value: a & b}
	case "|":
		return &Integer{Value: a | b}
	case "^":
		return &Integer{Value: a ^ b}
	case "<<":
		if b < 0 {
			return newError(TypeMismatch, "negative shift count %d", b)
		}
		return &Integer{Value: a << uint64(b)}
	case ">>":
		if b < 0 {
			return newError(TypeMismatch, "negative shift count %d", b)
		}
		return &Integer{Value: a >> uint64(b)}
	}
	return newError(TypeMismatch, "unsupported operator %s for Int", op)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func floatOp(op string, a, b float64) Object {
	switch op {
	case "+":
		return &Float{Value: a + b}
	case "-":
		return &Float{Value: a - b}
	case "*":
		return &Float{Value: a * b}
	case "/":
		return &Float{Value: a / b}
	case "%":
		return &Float{Value: math.Mod(a, b)}
	case "**":
		return &Float{Value: math.Pow(a, b)}
	}
	return newError(TypeMismatch, "unsupported operator %s for Float", op)
}

func (e *Evaluator) stringOp(op string, l *String, right Object) Object {
	switch r := right.(type) {
	case *String:
		if op == "+" {
			return e.newString(l.Value + r.Value)
		}
	case *Char:
		if op == "+" {
			return e.newString(l.Value + string(r.Value))
		}
	case *Integer:
		if op == "*" {
			if r.Value < 0 {
				return newError(TypeMismatch, "negative repeat count %d", r.Value)
			}
			if err := e.charge(int64(len(l.Value)) * r.Value); err != nil {
				return err
			}
			return &String{Value: strings.Repeat(l.Value, int(r.Value))}
		}
	}
	return typeError(RUNTIME_TYPE_STRING, right, "unsupported operand types for %s: String and %s", op, typeName(right))
}

func (e *Evaluator) repeatList(l *List, n int64) Object {
	if n < 0 {
		return newError(TypeMismatch, "negative repeat count %d", n)
	}
	if err := e.charge(wordSize * int64(len(l.Elements)) * n); err != nil {
		return err
	}
	out := make([]Object, 0, int64(len(l.Elements))*n)
	for i := int64(0); i < n; i++ {
		out = append(out, l.Elements...)
	}
	return newList(out)
}

func (e *Evaluator) membership(item, container Object) Object {
	switch c := container.(type) {
	case *List:
		return nativeBool(containsObject(c.Elements, item))
	case *Tuple:
		return nativeBool(containsObject(c.Elements, item))
	case *Set:
		return nativeBool(c.Has(item))
	case *Dict:
		_, ok := c.Get(item)
		return nativeBool(ok)
	case *Record:
		if s, ok := item.(*String); ok {
			_, found := c.Fields.Get(s.Value)
			return nativeBool(found)
		}
		return FALSE
	case *String:
		s, err := stringArg("in", item)
		if err != nil {
			return err
		}
		return nativeBool(strings.Contains(c.Value, s))
	case *Range:
		n, ok := toInt(item)
		return nativeBool(ok && c.Contains(n))
	}
	return typeError("collection", container, "'in' is not supported for %s", typeName(container))
}

func containsObject(elems []Object, item Object) bool {
	for _, el := range elems {
		if objectsEqual(el, item) {
			return true
		}
	}
	return false
}

func setUnion(a, b *Set) *Set {
	out := a.Copy()
	for _, el := range b.elements {
		out.Add(el)
	}
	return out
}

func setIntersection(a, b *Set) *Set {
	out := NewSet()
	for _, el := range a.elements {
		if b.Has(el) {
			out.Add(el)
		}
	}
	return out
}

func setDifference(a, b *Set) *Set {
	out := NewSet()
	for _, el := range a.elements {
		if !b.Has(el) {
			out.Add(el)
		}
	}
	return out
}

// evalCastExpression converts between numeric and string forms for
// `x as T`.
func (e *Evaluator) evalCastExpression(node *ast.CastExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	named, ok := node.Type.(*ast.NamedType)
	if !ok {
		return val
	}
	switch named.Name {
	case "Int", "i8", "i16", "i32", "i64", "isize", "u16", "u32", "u64", "usize":
		return convertToInt(val)
	case "Float", "f32", "f64":
		return convertToFloat(val)
	case "u8", "Byte":
		n, ok := toInt(val)
		if !ok {
			if c, isChar := val.(*Char); isChar {
				n, ok = int64(c.Value), true
			}
		}
		if !ok {
			return typeError("u8", val, "cannot cast %s to u8", typeName(val))
		}
		return &Byte{Value: byte(n)}
	case "char", "Char":
		if n, ok := toInt(val); ok {
			return &Char{Value: rune(n)}
		}
		return typeError("char", val, "cannot cast %s to char", typeName(val))
	case "String", "str":
		return e.newString(Display(val))
	}
	return val
}
