package parser

import (
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	var stream lexer.TokenStream
	if ctx.Tokens != nil {
		stream = lexer.NewSliceStream(ctx.Tokens)
	} else {
		// No lexer stage ran; lex lazily and surface its errors here.
		l := lexer.New(ctx.SourceCode)
		stream = lexer.NewTokenStream(l)
		defer func() {
			for _, e := range l.Errors() {
				d := e.Diagnostic()
				d.File = ctx.FilePath
				ctx.Errors = append(ctx.Errors, d)
			}
		}()
	}

	parser := New(stream, ctx)
	ctx.AstRoot = parser.ParseProgram()
	ctx.AstRoot.File = ctx.FilePath

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
