package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/parser"
	"github.com/funvibe/ruchy/internal/pipeline"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, errs := parser.Parse(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parse %q failed:\n%s", input, strings.Join(msgs, "\n"))
	}
	return prog
}

func single(t *testing.T, input string) ast.Expression {
	t.Helper()
	prog := mustParse(t, input)
	if len(prog.Forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(prog.Forms))
	}
	return prog.Forms[0]
}

func TestOperatorPrecedence(t *testing.T) {
	e := single(t, "2 + 3 * 4")
	add, ok := e.(*ast.InfixExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("expected + at root, got %T", e)
	}
	if mul, ok := add.Right.(*ast.InfixExpression); !ok || mul.Operator != "*" {
		t.Fatalf("expected * on the right, got %T", add.Right)
	}

	pow := single(t, "2 ** 3 ** 2").(*ast.InfixExpression)
	if _, ok := pow.Right.(*ast.InfixExpression); !ok {
		t.Fatalf("** should be right-associative")
	}

	assign := single(t, "a = b = 1").(*ast.AssignExpression)
	if _, ok := assign.Value.(*ast.AssignExpression); !ok {
		t.Fatalf("= should be right-associative")
	}

	rng := single(t, "1 + 1..5 * 2").(*ast.RangeExpression)
	if _, ok := rng.Start.(*ast.InfixExpression); !ok {
		t.Fatalf("range should bind looser than +")
	}
	if cmp := single(t, "a == b && c < d"); cmp.(*ast.InfixExpression).Operator != "&&" {
		t.Fatalf("&& should be the root")
	}
}

func TestTopLevelForms(t *testing.T) {
	tests := []struct {
		input string
		forms int
	}{
		{"let x = 5; let y = x + 1; y * 2", 3},
		{"fun add(a, b) { a + b }; add(10, 32)", 2},
		{"let mut c = 0; for i in 1..=4 { c = c + i }; c", 3},
		{"let a = 1\nlet b = 2\na +\n b", 3},
		{"xs\n  .map(|x| x * 2)\n  .filter(|x| x > 2)", 1},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			if len(prog.Forms) != tt.forms {
				t.Fatalf("expected %d forms, got %d", tt.forms, len(prog.Forms))
			}
		})
	}
}

func TestFunctionDeclaration(t *testing.T) {
	fn, ok := single(t, "fn greet(name: String, greeting = \"hi\") -> String { greeting }").(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected function declaration")
	}
	if fn.Name != "greet" || len(fn.Parameters) != 2 {
		t.Fatalf("unexpected function %q with %d params", fn.Name, len(fn.Parameters))
	}
	if fn.Parameters[0].Type == nil {
		t.Errorf("first parameter should carry its annotation")
	}
	if fn.Parameters[1].Default == nil {
		t.Errorf("default value expression should be kept")
	}
	if fn.ReturnType == nil {
		t.Errorf("return type missing")
	}

	short := single(t, "fn square(x) = x * x").(*ast.FunctionDeclaration)
	if len(short.Body.Expressions) != 1 {
		t.Errorf("expression-bodied function should have one body form")
	}

	_, errs := parser.Parse("fn f(a = 1, b) { a }")
	if !hasCode(errs, diagnostics.ErrP003) {
		t.Errorf("expected error for non-default parameter after default, got %v", errs)
	}
}

func TestLambdas(t *testing.T) {
	for _, input := range []string{"|a, b| a + b", "x => x + 1", "(a, b) => a * b", "fn(x) { x }", "|| 42"} {
		t.Run(input, func(t *testing.T) {
			if _, ok := single(t, input).(*ast.FunctionLiteral); !ok {
				t.Fatalf("expected lambda")
			}
		})
	}
	call := single(t, "xs.map(|x| x * 2)").(*ast.MethodCallExpression)
	if call.Method != "map" || len(call.Arguments) != 1 {
		t.Fatalf("unexpected method call %q", call.Method)
	}
}

func TestMatchPatterns(t *testing.T) {
	m := single(t, "match [1, 2, 3] { [a, ..rest] => a + rest.len() }").(*ast.MatchExpression)
	lp, ok := m.Arms[0].Pattern.(*ast.ListPattern)
	if !ok {
		t.Fatalf("expected list pattern, got %T", m.Arms[0].Pattern)
	}
	if lp.RestIndex() != 1 || lp.Elements[1].(*ast.RestPattern).Name != "rest" {
		t.Fatalf("rest element not parsed")
	}

	input := `match v {
    0 => "zero",
    1 | 2 => "small",
    3..=9 => "digit",
    n if n < 0 => "negative",
    Ok(x) => "ok",
    Point { x, y: 0, .. } => "on axis",
    Some(v) => "some",
    whole @ (a, b) => "pair",
    _ => "other"
}`
	m = single(t, input).(*ast.MatchExpression)
	if len(m.Arms) != 9 {
		t.Fatalf("expected 9 arms, got %d", len(m.Arms))
	}
	checks := []func(ast.Pattern) bool{
		func(p ast.Pattern) bool { _, ok := p.(*ast.LiteralPattern); return ok },
		func(p ast.Pattern) bool { _, ok := p.(*ast.OrPattern); return ok },
		func(p ast.Pattern) bool { r, ok := p.(*ast.RangePattern); return ok && r.Inclusive },
		func(p ast.Pattern) bool { _, ok := p.(*ast.IdentifierPattern); return ok },
		func(p ast.Pattern) bool { r, ok := p.(*ast.ResultPattern); return ok && r.IsOk },
		func(p ast.Pattern) bool { s, ok := p.(*ast.StructPattern); return ok && s.HasRest && len(s.Fields) == 2 },
		func(p ast.Pattern) bool { v, ok := p.(*ast.VariantPattern); return ok && v.Name() == "Some" },
		func(p ast.Pattern) bool { _, ok := p.(*ast.AtPattern); return ok },
		func(p ast.Pattern) bool { _, ok := p.(*ast.WildcardPattern); return ok },
	}
	for i, check := range checks {
		if !check(m.Arms[i].Pattern) {
			t.Errorf("arm %d: unexpected pattern %T", i, m.Arms[i].Pattern)
		}
	}
	if m.Arms[3].Guard == nil {
		t.Errorf("guard not parsed")
	}
}

func TestPatternErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{"match xs { [a, ..b, ..c] => a }", diagnostics.ErrP004},
		{"match p { Point { x, x } => 1 }", diagnostics.ErrP005},
		{"let (a, ..b) = t", diagnostics.ErrP003},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, errs := parser.Parse(tt.input)
			if !hasCode(errs, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, errs)
			}
		})
	}
}

func TestInterpolatedString(t *testing.T) {
	s := single(t, `f"Hello {1 + 1}!"`).(*ast.InterpolatedString)
	if len(s.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(s.Parts))
	}
	if lit, ok := s.Parts[0].(*ast.StringLiteral); !ok || lit.Value != "Hello " {
		t.Errorf("bad leading fragment %#v", s.Parts[0])
	}
	if _, ok := s.Parts[1].(*ast.InfixExpression); !ok {
		t.Errorf("embedded expression should parse with full precedence, got %T", s.Parts[1])
	}
}

func TestComprehensions(t *testing.T) {
	tests := []struct {
		input   string
		kind    ast.ComprehensionKind
		clauses int
	}{
		{"[x * x for x in 1..=3]", ast.ListComprehension, 1},
		{"[(x, y) for x in xs if x > 0 for y in ys]", ast.ListComprehension, 2},
		{"{x % 3 for x in xs}", ast.SetComprehension, 1},
		{"{k: v for (k, v) in pairs if v}", ast.DictComprehension, 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := single(t, tt.input).(*ast.ComprehensionExpression)
			if !ok {
				t.Fatalf("expected comprehension")
			}
			if c.Kind != tt.kind || len(c.Clauses) != tt.clauses {
				t.Fatalf("got kind %v with %d clauses", c.Kind, len(c.Clauses))
			}
		})
	}
}

func TestClassAndActor(t *testing.T) {
	prog := mustParse(t, "class Counter { mut n: Int = 0; fn inc(&mut self) { self.n = self.n + 1 }; fn get(&self) -> Int { self.n } }; let k = Counter::new(); k.inc(); k.inc(); k.get()")
	cls := prog.Forms[0].(*ast.ClassDeclaration)
	if len(cls.Fields) != 1 || !cls.Fields[0].Mutable || cls.Fields[0].Default == nil {
		t.Fatalf("field not parsed: %+v", cls.Fields)
	}
	if len(cls.Methods) != 2 || cls.Methods[0].Receiver != ast.ReceiverMutRef || cls.Methods[1].Receiver != ast.ReceiverRef {
		t.Fatalf("methods not parsed")
	}
	let := prog.Forms[1].(*ast.LetExpression)
	call := let.Value.(*ast.CallExpression)
	if path, ok := call.Function.(*ast.PathExpression); !ok || strings.Join(path.Segments, "::") != "Counter::new" {
		t.Fatalf("expected Counter::new path, got %T", call.Function)
	}

	actor := single(t, `actor Greeter {
    mut count: Int = 0
    name: String = "x"
    receive Greet(who: String) {
        self.count += 1
    }
    receive Reset => { self.count = 0 }
    fn total(&self) -> Int { self.count }
}`).(*ast.ActorDeclaration)
	if len(actor.Fields) != 2 || len(actor.Handlers) != 2 || len(actor.Methods) != 1 {
		t.Fatalf("actor parsed as %d fields, %d handlers, %d methods", len(actor.Fields), len(actor.Handlers), len(actor.Methods))
	}
	if actor.Handlers[0].MessageName != "Greet" || len(actor.Handlers[0].Parameters) != 1 {
		t.Errorf("bad handler %+v", actor.Handlers[0])
	}

	arms := single(t, "actor A { receive { Inc(n) => 1, Get => 2 } }").(*ast.ActorDeclaration)
	if len(arms.Handlers) != 2 || arms.Handlers[1].MessageName != "Get" {
		t.Errorf("pattern handlers not parsed")
	}
}

func TestDeclarations(t *testing.T) {
	st := single(t, "struct Point<T> { x: T, pub y: T = 0 }").(*ast.StructDeclaration)
	if len(st.Fields) != 2 || st.TypeParams[0] != "T" || !st.Fields[1].IsPub {
		t.Errorf("struct not parsed: %+v", st)
	}
	en := single(t, "enum Shape { Circle(Float), Rect(Float, Float), Empty }").(*ast.EnumDeclaration)
	if len(en.Variants) != 3 || len(en.Variants[1].Fields) != 2 {
		t.Errorf("enum not parsed")
	}
	impl := single(t, "impl Display for Point { fn show(&self) -> String { \"p\" } }").(*ast.ImplBlock)
	if impl.TypeName != "Point" || impl.Trait != "Display" || len(impl.Methods) != 1 {
		t.Errorf("impl not parsed: %+v", impl)
	}
	mod := single(t, "module math { fn sq(x) { x * x } }").(*ast.ModuleDeclaration)
	if mod.Name != "math" || len(mod.Body.Expressions) != 1 {
		t.Errorf("module not parsed")
	}
}

func TestUseDeclarations(t *testing.T) {
	tests := []struct {
		input    string
		path     string
		items    int
		wildcard bool
	}{
		{"use std::collections::HashMap", "std::collections::HashMap", 0, false},
		{"use math.utils", "math::utils", 0, false},
		{"use math::{sq, cube as c}", "math", 2, false},
		{"use math::*", "math", 0, true},
		{"use math::sq as square", "math", 1, false},
		{"import math", "math", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u := single(t, tt.input).(*ast.UseDeclaration)
			if got := strings.Join(u.Path, "::"); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
			if len(u.Items) != tt.items || u.Wildcard != tt.wildcard {
				t.Errorf("items = %d wildcard = %v", len(u.Items), u.Wildcard)
			}
		})
	}
}

func TestAccessForms(t *testing.T) {
	if fa := single(t, "t.0").(*ast.FieldAccessExpression); fa.Field != "0" {
		t.Errorf("tuple index not parsed")
	}
	if _, ok := single(t, "fetch().await").(*ast.AwaitExpression); !ok {
		t.Errorf("postfix await not parsed")
	}
	if _, ok := single(t, "parse(s)?").(*ast.TryOperatorExpression); !ok {
		t.Errorf("try operator not parsed")
	}
	call := single(t, "Point::new(x: 1, y: 2)").(*ast.CallExpression)
	if _, ok := call.Arguments[0].(*ast.NamedArgument); !ok {
		t.Errorf("named argument not parsed")
	}
	if _, ok := single(t, "Point { x: 1, y }").(*ast.StructLiteral); !ok {
		t.Errorf("struct literal not parsed")
	}
	if _, ok := single(t, "if ok { 1 } else { 2 }").(*ast.IfExpression); !ok {
		t.Errorf("if head must not take a struct literal")
	}
	if _, ok := single(t, "{ name: \"a\", age: 3 }").(*ast.ObjectLiteral); !ok {
		t.Errorf("object literal not parsed")
	}
	if _, ok := single(t, "counter ! Increment(1)").(*ast.SendExpression); !ok {
		t.Errorf("send not parsed")
	}
	if v := single(t, "let v: Vec<Option<Int>> = []").(*ast.LetExpression); v.Type == nil {
		t.Errorf(">> should close two generic lists")
	}
}

func TestErrorRecovery(t *testing.T) {
	prog, errs := parser.Parse("let = 5\nlet y = 2\n(1 +\nlet z = 3")
	if len(errs) == 0 {
		t.Fatalf("expected errors")
	}
	if len(prog.Forms) < 1 {
		t.Fatalf("recovery should keep later forms, got %d", len(prog.Forms))
	}
	if let, ok := prog.Forms[0].(*ast.LetExpression); !ok || let.Pattern.(*ast.IdentifierPattern).Name != "y" {
		t.Fatalf("expected `let y` to survive, got %T", prog.Forms[0])
	}
	for _, e := range errs {
		if e.Span.Start > e.Span.End {
			t.Errorf("bad span %v", e.Span)
		}
	}

	_, errs = parser.Parse("a..b..c")
	if !hasCode(errs, diagnostics.ErrP003) {
		t.Errorf("chained range should be rejected, got %v", errs)
	}

	_, errs = parser.Parse("let x = ")
	if len(errs) != 1 || len(errs[0].Expected) == 0 || errs[0].Found == "" {
		t.Errorf("expected one diagnostic with expected/found set, got %v", errs)
	}
}

func TestParserTotality(t *testing.T) {
	inputs := []string{
		"((((", "}}}", "fn (", "match { =>", "let [a, ..", "f\"{", "class { new(",
		"actor X { receive", "use ::", "x.", "1 +", "|a", "[x for", "{a: 1, a: 2}",
		strings.Repeat("(", 1000), strings.Repeat("-", 1000) + "1", "\"unterminated", "'a", "0x",
		"@#$", "a as", "enum E { A(", "impl for {", "struct S { x }",
	}
	for _, input := range inputs {
		t.Run(input[:min(len(input), 20)], func(t *testing.T) {
			prog, _ := parser.Parse(input)
			if prog == nil {
				t.Fatalf("nil program")
			}
		})
	}
}

func TestSpanContainment(t *testing.T) {
	inputs := []string{
		"let x = 5; let y = x + 1; y * 2",
		"fun add(a, b) { a + b }; add(10, 32)",
		"match [1, 2, 3] { [a, ..rest] => a + rest.len() }",
		"let mut c = 0; for i in 1..=4 { c = c + i }; c",
		`f"Hello {1 + 1}"`,
		"class Counter { mut n: Int = 0; fn inc(&mut self) { self.n = self.n + 1 } }",
		"[x*x for x in 1..=3]",
		"try { risky() } catch (e) { 0 } finally { done() }",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			prog := mustParse(t, input)
			ast.Inspect(prog, func(n ast.Node) bool {
				outer := n.GetSpan()
				if outer.Start > outer.End {
					t.Errorf("%T has inverted span %v", n, outer)
				}
				for _, c := range ast.Children(n) {
					if !outer.Contains(c.GetSpan()) {
						t.Errorf("%T %v does not contain child %T %v", n, outer, c, c.GetSpan())
					}
				}
				return true
			})
		})
	}
}

func TestProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("let a = 1\na", "main.ruchy")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if ctx.AstRoot.File != "main.ruchy" || len(ctx.AstRoot.Forms) != 2 {
		t.Fatalf("bad program %+v", ctx.AstRoot)
	}

	// without a lexer stage the parser lexes on its own
	ctx = pipeline.NewPipelineContext("\"open", "bad.ruchy")
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 || ctx.Errors[0].File != "bad.ruchy" {
		t.Fatalf("lex errors should be reported with the file, got %v", ctx.Errors)
	}
}

func hasCode(errs []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}
