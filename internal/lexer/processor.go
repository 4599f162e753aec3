package lexer

import (
	"github.com/funvibe/ruchy/internal/pipeline"
)

// LexerProcessor tokenizes ctx.SourceCode eagerly so later stages can
// report every lex error alongside parse errors.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks, errs := Tokenize(ctx.SourceCode)
	ctx.Tokens = toks
	for _, e := range errs {
		d := e.Diagnostic()
		d.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, d)
	}
	return ctx
}
