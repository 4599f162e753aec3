package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/parser"
	"github.com/funvibe/ruchy/internal/pipeline"
)

func run(t *testing.T, src string, b Backend) *pipeline.PipelineContext {
	t.Helper()
	pc := pipeline.NewPipelineContext(src, "main.ruchy")
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, NewExecutionProcessor(b)).Run(pc)
}

func TestExecutionProcessor(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		pc := run(t, "let a = 40\na + 2", NewTreeWalk())
		obj, ok := pc.Result.(evaluator.Object)
		if !ok || obj.Inspect() != "42" {
			t.Fatalf("result = %v, errors %v", pc.Result, pc.Errors)
		}
	})

	t.Run("runtime error", func(t *testing.T) {
		pc := run(t, "let a = 1\nlet b = a / 0", NewTreeWalk())
		rerr, ok := pc.Result.(*evaluator.Error)
		if !ok || rerr.Kind != evaluator.DivisionByZero {
			t.Fatalf("result = %v, want DivisionByZero", pc.Result)
		}
		if len(pc.Errors) != 1 || pc.Errors[0].Code != diagnostics.ErrR001 || pc.Errors[0].File != "main.ruchy" {
			t.Fatalf("errors = %v", pc.Errors)
		}
		if pc.Errors[0].Token.Line != 2 && pc.Errors[0].Span.End == 0 {
			t.Errorf("diagnostic has no position: %+v", pc.Errors[0])
		}
	})

	t.Run("front-end errors skip execution", func(t *testing.T) {
		b := NewTreeWalk()
		var out strings.Builder
		b.Evaluator.Out = &out
		pc := run(t, "println(\"ran\")\nlet = 1", b)
		if pc.Result != nil || out.Len() != 0 {
			t.Errorf("program ran despite parse errors: %q", out.String())
		}
	})
}

func TestRunWithContext(t *testing.T) {
	b := NewTreeWalk()
	pc := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext("loop { }", ""))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.RunWithContext(ctx, pc)
	rerr, ok := err.(*evaluator.Error)
	if !ok || rerr.Kind != evaluator.ResourceExceeded {
		t.Fatalf("err = %v, want ResourceExceeded", err)
	}
	if b.Evaluator.Context != nil {
		t.Error("context not restored after the run")
	}

	d := RuntimeDiagnostic(rerr, "x.ruchy")
	if d.Code != diagnostics.ErrX001 || !strings.HasPrefix(d.Message, "ResourceExceeded: ") {
		t.Errorf("diagnostic = %+v", d)
	}
}
