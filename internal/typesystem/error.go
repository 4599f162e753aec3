package typesystem

import (
	"fmt"

	"github.com/funvibe/ruchy/internal/diagnostics"
)

type ErrorKind int

const (
	UnifyError ErrorKind = iota
	OccursCheck
	UnboundName
	TypeMismatch
	ArityMismatch
	UnknownMethod
)

func (k ErrorKind) String() string {
	switch k {
	case OccursCheck:
		return "OccursCheck"
	case UnboundName:
		return "UnboundName"
	case TypeMismatch:
		return "TypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case UnknownMethod:
		return "UnknownMethod"
	}
	return "UnifyError"
}

// Code maps the kind onto its diagnostic code.
func (k ErrorKind) Code() diagnostics.ErrorCode {
	switch k {
	case TypeMismatch:
		return diagnostics.ErrT001
	case OccursCheck:
		return diagnostics.ErrT002
	case UnboundName:
		return diagnostics.ErrT003
	case ArityMismatch:
		return diagnostics.ErrT004
	}
	return diagnostics.ErrT005
}

// TypeError is returned by unification and inference.
type TypeError struct {
	Kind     ErrorKind
	Expected Type
	Found    Type
	Name     string
	Msg      string
}

func (e *TypeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	switch e.Kind {
	case OccursCheck:
		return fmt.Sprintf("infinite type: %s occurs in %s", e.Expected, e.Found)
	case UnboundName:
		return fmt.Sprintf("unbound name: %s", e.Name)
	case ArityMismatch:
		return fmt.Sprintf("arity mismatch: expected %s, found %s", e.Expected, e.Found)
	case UnknownMethod:
		return fmt.Sprintf("no method %s on %s", e.Name, e.Found)
	}
	return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
}

func NewUnboundNameError(name string) *TypeError {
	return &TypeError{Kind: UnboundName, Name: name}
}

func errMismatch(expected, found Type) error {
	return &TypeError{Kind: TypeMismatch, Expected: expected, Found: found}
}

func errArity(expected, found Type) error {
	return &TypeError{Kind: ArityMismatch, Expected: expected, Found: found}
}
