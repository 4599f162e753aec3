package repl

import (
	"errors"
	"strings"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
)

// ErrUnknownCheckpoint is returned by Restore for an id it never issued.
var ErrUnknownCheckpoint = errors.New("unknown checkpoint")

// EvalError is a line that failed to parse, or that failed at runtime.
// Runtime is set in the second case.
type EvalError struct {
	Source      string
	Diagnostics []*diagnostics.DiagnosticError
	Runtime     *evaluator.Error
}

func (e *EvalError) Error() string {
	if e.Runtime != nil {
		return e.Runtime.Error()
	}
	if len(e.Diagnostics) > 0 {
		return e.Diagnostics[0].Error()
	}
	return "evaluation failed"
}

func (e *EvalError) Unwrap() []error {
	var errs []error
	if e.Runtime != nil {
		errs = append(errs, e.Runtime)
	}
	for _, d := range e.Diagnostics {
		errs = append(errs, d)
	}
	return errs
}

// Render formats every diagnostic against the failed source.
func (e *EvalError) Render(colored bool) string {
	if len(e.Diagnostics) == 0 {
		return e.Error()
	}
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = diagnostics.Render(e.Source, d, colored)
	}
	return strings.Join(parts, "\n")
}

// ExitCode reports whether err is a request to leave the session, and
// with which status.
func ExitCode(err error) (int, bool) {
	var rerr *evaluator.Error
	if err != nil && errors.As(err, &rerr) && rerr.Kind == evaluator.ExitRequested {
		return rerr.ExitCode, true
	}
	return 0, false
}

// Kind returns the runtime error kind of err, or "" for front-end errors.
func Kind(err error) evaluator.ErrorKind {
	var rerr *evaluator.Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}
