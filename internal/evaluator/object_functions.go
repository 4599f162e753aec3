package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

// Function is a user closure. Env is the defining frame, shared by
// reference; default parameter expressions are evaluated at call time.
type Function struct {
	Name       string // empty for lambdas
	Parameters []*ast.Parameter
	Body       ast.Expression
	Env        *Environment
	IsAsync    bool
	// Receiver is the self form of a method, ast.ReceiverNone otherwise.
	Receiver string
	// Owner is the type a method belongs to.
	Owner *TypeDescriptor
	Line  int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Name
	}
	if f.Name == "" {
		return fmt.Sprintf("<closure(%s)>", strings.Join(params, ", "))
	}
	return fmt.Sprintf("fn %s(%s)", f.Name, strings.Join(params, ", "))
}

// requiredParams is the number of leading parameters without a default.
func (f *Function) requiredParams() int {
	n := 0
	for _, p := range f.Parameters {
		if p.Default != nil {
			break
		}
		n++
	}
	return n
}

// BuiltinFunction receives positional arguments only.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Fn   BuiltinFunction
	Name string
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<builtin fn " + b.Name + ">" }

// BoundMethod is a method value with its receiver already attached.
type BoundMethod struct {
	Receiver Object
	Method   *Function
}

func (bm *BoundMethod) Type() ObjectType { return BOUND_METHOD }
func (bm *BoundMethod) Inspect() string  { return bm.Method.Inspect() }

// Future is the result of async code, which runs to completion
// immediately.
type Future struct {
	Value Object
}

func (f *Future) Type() ObjectType { return FUTURE_OBJ }
func (f *Future) Inspect() string  { return "Future(" + f.Value.Inspect() + ")" }
