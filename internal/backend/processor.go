package backend

import (
	"errors"
	"strconv"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/pipeline"
	"github.com/funvibe/ruchy/internal/token"
)

// ExecutionProcessor is the pipeline stage that runs a Backend.
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || diagnostics.HasErrors(ctx.Errors) {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		var rerr *evaluator.Error
		var derr *diagnostics.DiagnosticError
		switch {
		case errors.As(err, &rerr):
			ctx.Errors = append(ctx.Errors, RuntimeDiagnostic(rerr, ctx.FilePath))
			ctx.Result = rerr
		case errors.As(err, &derr):
			ctx.Errors = append(ctx.Errors, derr)
		default:
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error()))
		}
		return ctx
	}
	ctx.Result = result
	return ctx
}

// RuntimeDiagnostic converts a runtime error to a diagnostic. Resource
// limits get their own code.
func RuntimeDiagnostic(err *evaluator.Error, file string) *diagnostics.DiagnosticError {
	code := diagnostics.ErrR001
	switch err.Kind {
	case evaluator.ResourceExceeded, evaluator.StackOverflow:
		code = diagnostics.ErrX001
	}
	msg := string(err.Kind) + ": " + err.Message
	for i := len(err.StackTrace) - 1; i >= 0; i-- {
		frame := err.StackTrace[i]
		f := frame.File
		if f == "" {
			f = file
		}
		msg += "\n  at " + frame.Name + " (" + f + ":" + strconv.Itoa(frame.Line) + ")"
	}
	d := diagnostics.NewSpanError(code, err.Span, err.Line, err.Column, msg)
	d.File = file
	return d
}
