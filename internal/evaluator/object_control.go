package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/ruchy/internal/token"
)

// ErrorKind classifies runtime errors.
type ErrorKind string

const (
	UndefinedName       ErrorKind = "UndefinedName"
	TypeMismatch        ErrorKind = "TypeError"
	ArityError          ErrorKind = "ArityError"
	ImmutableAssignment ErrorKind = "ImmutableAssignment"
	IndexOutOfBounds    ErrorKind = "IndexOutOfBounds"
	KeyNotFound         ErrorKind = "KeyNotFound"
	NonExhaustiveMatch  ErrorKind = "NonExhaustiveMatch"
	DivisionByZero      ErrorKind = "DivisionByZero"
	UserError           ErrorKind = "UserError"
	AliasingViolation   ErrorKind = "AliasingViolation"
	PermissionDenied    ErrorKind = "PermissionDenied"
	IOError             ErrorKind = "IOError"
	ModuleError         ErrorKind = "ModuleError"
	ResourceExceeded    ErrorKind = "ResourceExceeded"
	StackOverflow       ErrorKind = "StackOverflow"
	ExitRequested       ErrorKind = "Exit"
	InternalError       ErrorKind = "InternalError"
)

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

// Error is a runtime error travelling up the evaluation as an object.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    token.Span
	Line    int
	Column  int
	// Expected and Found describe TypeMismatch errors.
	Expected string
	Found    string
	// Payload is the value given to throw or error().
	Payload    Object
	StackTrace []StackFrame
	// ExitCode is set for ExitRequested.
	ExitCode int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
	} else {
		result = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if len(e.StackTrace) > 0 {
		var b strings.Builder
		b.WriteString(result)
		b.WriteString("\nStack trace:")
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			frame := e.StackTrace[i]
			fmt.Fprintf(&b, "\n  at %s (%s:%d)", frame.Name, frame.File, frame.Line)
		}
		result = b.String()
	}
	return result
}

func (e *Error) Error() string { return e.Inspect() }

// Catchable reports whether try/catch may intercept the error. Resource
// limits, exit requests and internal faults always propagate.
func (e *Error) Catchable() bool {
	switch e.Kind {
	case ResourceExceeded, StackOverflow, ExitRequested, InternalError:
		return false
	}
	return true
}

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func typeError(expected string, found Object, format string, a ...interface{}) *Error {
	err := newError(TypeMismatch, format, a...)
	err.Expected = expected
	if found != nil {
		err.Found = typeName(found)
	}
	return err
}

// ReturnValue wraps a value that is being returned prematurely
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal is an internal object used to signal a break from a loop.
type BreakSignal struct {
	Label string
	Value Object
}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal is an internal object used to signal a continue in a loop.
type ContinueSignal struct {
	Label string
}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// ErrorValue is a caught runtime error as seen by a catch handler.
type ErrorValue struct {
	Err *Error
}

func (ev *ErrorValue) Type() ObjectType { return ERROR_VALUE }
func (ev *ErrorValue) Inspect() string {
	return fmt.Sprintf("Error(%s: %s)", ev.Err.Kind, ev.Err.Message)
}

func (ev *ErrorValue) field(name string) (Object, bool) {
	switch name {
	case "message":
		return &String{Value: ev.Err.Message}, true
	case "kind":
		return &String{Value: string(ev.Err.Kind)}, true
	case "line":
		return &Integer{Value: int64(ev.Err.Line)}, true
	}
	return nil, false
}
