package pipeline

import (
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
	"github.com/funvibe/ruchy/internal/typesystem"
)

// PipelineContext carries one compilation unit through the stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Program

	// TypeEnv is the typing environment the analyzer starts from; it is
	// extended in place with the unit's top-level bindings.
	TypeEnv *typesystem.TypeEnv
	// Scheme is the generalized type of the last top-level form.
	Scheme *typesystem.Scheme
	// AdvisoryTypes keeps type errors out of Errors so evaluation still
	// runs (REPL mode). They are collected in Warnings instead.
	AdvisoryTypes bool

	Errors   []*diagnostics.DiagnosticError
	Warnings []*diagnostics.DiagnosticError

	// Result is set by the execution stage.
	Result interface{}
}

func NewPipelineContext(source, file string) *PipelineContext {
	return &PipelineContext{SourceCode: source, FilePath: file}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
