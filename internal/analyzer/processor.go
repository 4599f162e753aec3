package analyzer

import (
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/pipeline"
)

// AnalyzerProcessor runs type inference over ctx.AstRoot. The processor
// keeps its inference context, so reusing one instance across REPL lines
// keeps declared types visible.
type AnalyzerProcessor struct {
	inference *InferenceContext
}

func NewAnalyzerProcessor() *AnalyzerProcessor {
	return &AnalyzerProcessor{inference: NewInferenceContext()}
}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || diagnostics.HasErrors(ctx.Errors) {
		return ctx
	}
	if ap.inference == nil {
		ap.inference = NewInferenceContext()
	}
	if ctx.TypeEnv == nil {
		ctx.TypeEnv = PreludeEnv()
	}

	scheme, _, errs := ap.inference.TypeCheck(ctx.AstRoot, ctx.TypeEnv)
	ctx.Scheme = scheme
	for _, d := range errs {
		if d.File == "" {
			d.File = ctx.FilePath
		}
		if ctx.AdvisoryTypes {
			d.Severity = diagnostics.SeverityWarning
			ctx.Warnings = append(ctx.Warnings, d)
		} else {
			ctx.Errors = append(ctx.Errors, d)
		}
	}
	return ctx
}

// Fork returns a processor whose declarations do not leak back into ap.
// The REPL uses it for checkpoints and for :type.
func (ap *AnalyzerProcessor) Fork() *AnalyzerProcessor {
	if ap.inference == nil {
		return NewAnalyzerProcessor()
	}
	return &AnalyzerProcessor{inference: ap.inference.Fork()}
}
