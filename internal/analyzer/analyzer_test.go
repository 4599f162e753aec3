package analyzer

import (
	"testing"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/parser"
	"github.com/funvibe/ruchy/internal/pipeline"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

func check(t *testing.T, ctx *InferenceContext, env *ts.TypeEnv, src string) (*ts.Scheme, []*diagnostics.DiagnosticError) {
	t.Helper()
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs[0])
	}
	scheme, _, typeErrs := ctx.TypeCheck(prog, env)
	return scheme, typeErrs
}

func typeOf(t *testing.T, src string) string {
	t.Helper()
	scheme, errs := check(t, NewInferenceContext(), PreludeEnv(), src)
	if len(errs) > 0 {
		t.Fatalf("type check %q: %v", src, errs[0])
	}
	return scheme.String()
}

func TestScenarioTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "2 + 3 * 4", "Int"},
		{"lets", "let x = 5; let y = x + 1; y * 2", "Int"},
		{"function", "fun add(a, b) { a + b }; add(10, 32)", "Int"},
		{"list pattern", "match [1, 2, 3] { [a, ..rest] => a + rest.len() }", "Int"},
		{"for loop", "let mut c = 0; for i in 1..=4 { c = c + i }; c", "Int"},
		{"fstring", `f"Hello {1 + 1}"`, "String"},
		{"class", "class Counter { mut n: Int = 0; fn inc(&mut self) { self.n = self.n + 1 }; fn get(&self) -> Int { self.n } }; let k = Counter::new(); k.inc(); k.inc(); k.get()", "Int"},
		{"comprehension", "[x*x for x in 1..=3]", "[Int]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typeOf(t, tt.src); got != tt.want {
				t.Errorf("type of %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestInferredTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"identity", "fun id(x) { x }", "forall a. (a) -> a"},
		{"let polymorphism", "let id = x => x; (id(1), id(true))", "(Int, Bool)"},
		{"declared polymorphism", `fun id(x) { x }; (id(1), id("a"))`, "(Int, String)"},
		{"forward reference", "fun a() { b() }; fun b() { 1 }; a()", "Int"},
		{"recursion", "fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }; fact(5)", "Int"},
		{"if without else", "if true { println(1) }", "()"},
		{"loop break value", "loop { break 5 }", "Int"},
		{"while", "let mut i = 0; while i < 3 { i += 1 }", "()"},
		{"range", "1..10", "Range<Int>"},
		{"tuple field", "let p = (1, \"a\"); p.1", "String"},
		{"object", "{ name: \"x\", n: 1 }.n", "Int"},
		{"struct literal", "struct P { x: Int, y: Int }; let p = P { x: 1, y: 2 }; p.x", "Int"},
		{"struct ctor", "struct P { x: Float }; P::new(2.0).x", "Float"},
		{"enum match", "enum Shape { Circle(Float), Square(Float) }; fun area(s) { match s { Shape::Circle(r) => r * r, Shape::Square(w) => w * w } }; area(Shape::Circle(2.0))", "Float"},
		{"option", "Some(1).unwrap_or(0)", "Int"},
		{"result pattern", "match Ok(1) { Ok(v) => v, Err(e) => 0 }", "Int"},
		{"try catch", "try { 1 } catch e { 2 }", "Int"},
		{"reference", "let x = 1; &x", "&Int"},
		{"deref", "let x = 1; let r = &x; *r + 1", "Int"},
		{"async", "async { 1 }", "Future<Int>"},
		{"await", "await async { 1 }", "Int"},
		{"default params", "fun greet(name, greeting = \"hi\") { greeting + name }; greet(\"bob\")", "String"},
		{"pipeline", "fun double(x) { x * 2 }; 3 |> double", "Int"},
		{"dict comprehension", "{x: x * 2 for x in [1, 2]}", "Dict<Int, Int>"},
		{"module", "module m { fun f() { 1 } }; m::f()", "Int"},
		{"impl", "struct P { x: Int }; impl P { fn double(&self) -> Int { self.x * 2 } }; P { x: 2 }.double()", "Int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typeOf(t, tt.src); got != tt.want {
				t.Errorf("type of %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestMethodTables(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"abc".to_upper()`, "String"},
		{`"a,b".split(",")`, "[String]"},
		{`"abc".len()`, "Int"},
		{"[1, 2, 3].len()", "Int"},
		{"[1, 2, 3].map(x => x * 2)", "[Int]"},
		{"[1, 2, 3].filter(x => x > 1)", "[Int]"},
		{"[1, 2, 3].first()", "Option<Int>"},
		{"[1, 2, 3].fold(0, (acc, x) => acc + x)", "Int"},
		{"[\"a\", \"b\"].join(\",\")", "String"},
		{"(1..4).to_list()", "[Int]"},
		{"[1, 2].enumerate()", "[(Int, Int)]"},
		{"1.5.floor()", "Float"},
		{"[1, 2].to_string()", "String"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := typeOf(t, tt.src); got != tt.want {
				t.Errorf("type of %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"unbound", "y + 1", diagnostics.ErrT003},
		{"mismatch", `1 + "a"`, diagnostics.ErrT001},
		{"branches", `if true { 1 } else { "a" }`, diagnostics.ErrT001},
		{"match arms", `match 1 { 0 => "zero", _ => 1 }`, diagnostics.ErrT001},
		{"condition", "if 1 { 2 }", diagnostics.ErrT001},
		{"arity", "fun f(a) { a }; f(1, 2)", diagnostics.ErrT004},
		{"occurs", "fun f(x) { x(x) }", diagnostics.ErrT002},
		{"not numeric", `-"a"`, diagnostics.ErrT001},
		{"missing field", "struct P { x: Int }; P { x: 1 }.z", diagnostics.ErrT005},
		{"unknown variant", "enum E { A }; E::B", diagnostics.ErrT005},
		{"annotation", `let x: Int = "a"`, diagnostics.ErrT001},
		{"over applied", "let x: Vec<Int, Int> = []", diagnostics.ErrT004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := check(t, NewInferenceContext(), PreludeEnv(), tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected %s for %q", tt.code, tt.src)
			}
			if errs[0].Code != tt.code {
				t.Errorf("code = %s (%s), want %s", errs[0].Code, errs[0].Message, tt.code)
			}
		})
	}
}

func TestFailedFormBindsAny(t *testing.T) {
	env := PreludeEnv()
	scheme, errs := check(t, NewInferenceContext(), env, `let a = 1 + "x"; let b = 2; b`)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
	if scheme.String() != "Int" {
		t.Errorf("last form type = %s, want Int", scheme)
	}
	s, ok := env.Lookup("a")
	if !ok || s.Type.String() != "Any" {
		t.Errorf("a should be bound to Any, got %v", s)
	}
}

func TestContextPersistsAcrossPrograms(t *testing.T) {
	ctx := NewInferenceContext()
	env := PreludeEnv()
	if _, errs := check(t, ctx, env, "struct P { x: Int }; let p = P { x: 1 }"); len(errs) > 0 {
		t.Fatal(errs[0])
	}
	scheme, errs := check(t, ctx, env, "p.x + P { x: 2 }.x")
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}
	if scheme.String() != "Int" {
		t.Errorf("got %s, want Int", scheme)
	}

	if _, errs := check(t, ctx, env, "let xs = []"); len(errs) > 0 {
		t.Fatal(errs[0])
	}
	if _, errs := check(t, ctx, env, "xs.push(1)"); len(errs) > 0 {
		t.Fatal(errs[0])
	}
	s, _ := env.Lookup("xs")
	if got := s.Type.String(); got != "[Int]" {
		t.Errorf("xs refined to %s, want [Int]", got)
	}
}

func TestProcessorAdvisoryMode(t *testing.T) {
	for _, advisory := range []bool{true, false} {
		ctx := pipeline.NewPipelineContext(`1 + "a"`, "test.ruchy")
		ctx.AdvisoryTypes = advisory
		ctx = pipeline.New(&parser.ParserProcessor{}, NewAnalyzerProcessor()).Run(ctx)
		if advisory {
			if len(ctx.Errors) != 0 || len(ctx.Warnings) != 1 {
				t.Errorf("advisory: errors=%d warnings=%d", len(ctx.Errors), len(ctx.Warnings))
			}
			continue
		}
		if len(ctx.Errors) != 1 || ctx.Errors[0].File != "test.ruchy" {
			t.Errorf("strict: errors=%v", ctx.Errors)
		}
	}
}

func TestMethodShapeBindsPlaceholders(t *testing.T) {
	ctx := NewInferenceContext()
	sig, ok := ctx.lookupBuiltinMethod(ts.Dict(ts.String, ts.Int), "get")
	if !ok {
		t.Fatal("dict get missing")
	}
	if got := sig.String(); got != "(String) -> Option<Int>" {
		t.Errorf("dict get = %s", got)
	}
	if _, ok := ctx.lookupBuiltinMethod(ts.Int, "nonexistent"); ok {
		t.Error("unexpected method")
	}
	head, _ := ctx.lookupBuiltinMethod(ts.DataFrame(ts.Column{Name: "a", Type: ts.Int}), "head")
	if _, ok := head.ReturnType.(ts.TDataFrame); !ok {
		t.Errorf("head should return the receiver frame, got %s", head.ReturnType)
	}
}
