// Package backend runs a parsed program as the last pipeline stage.
package backend

import (
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the result
	Run(ctx *pipeline.PipelineContext) (evaluator.Object, error)

	// Name returns the backend name for display
	Name() string
}
