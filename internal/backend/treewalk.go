package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/pipeline"
)

// TreeWalkBackend evaluates programs with the tree-walking interpreter.
// Evaluator and Env persist across Run calls, so a REPL can feed it one
// line at a time.
type TreeWalkBackend struct {
	Evaluator *evaluator.Evaluator
	Env       *evaluator.Environment
}

// NewTreeWalk creates a backend with a fresh evaluator and global frame.
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{Evaluator: evaluator.New(), Env: evaluator.NewGlobalEnvironment()}
}

// NewTreeWalkWith runs against an existing evaluator and frame.
func NewTreeWalkWith(ev *evaluator.Evaluator, env *evaluator.Environment) *TreeWalkBackend {
	return &TreeWalkBackend{Evaluator: ev, Env: env}
}

// Run executes the program using tree-walk interpretation. A runtime
// error is returned as the *evaluator.Error it was raised as.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}

	ev := b.Evaluator
	if ev.BaseDir == "" {
		ev.BaseDir = "."
		if ctx.FilePath != "" {
			ev.BaseDir = filepath.Dir(ctx.FilePath)
		}
	}
	if ctx.FilePath != "" {
		ev.CurrentFile = ctx.FilePath
	} else if ev.CurrentFile == "" {
		ev.CurrentFile = "<stdin>"
	}

	result := ev.Eval(ctx.AstRoot, b.Env)
	if err, ok := result.(*evaluator.Error); ok {
		return nil, err
	}
	return result, nil
}

// RunWithContext runs under ctx, which bounds the evaluation time.
func (b *TreeWalkBackend) RunWithContext(c context.Context, ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	prev := b.Evaluator.Context
	b.Evaluator.Context = c
	defer func() { b.Evaluator.Context = prev }()
	return b.Run(ctx)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
