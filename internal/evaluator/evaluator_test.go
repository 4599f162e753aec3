package evaluator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/funvibe/ruchy/internal/parser"
)

func newTestEvaluator() (*Evaluator, *bytes.Buffer) {
	var out bytes.Buffer
	e := New()
	e.Out = &out
	e.ErrOut = &out
	e.In = strings.NewReader("")
	return e, &out
}

func evalIn(t *testing.T, e *Evaluator, env *Environment, src string) Object {
	t.Helper()
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs[0])
	}
	return e.Eval(prog, env)
}

func run(t *testing.T, src string) (Object, string) {
	t.Helper()
	e, out := newTestEvaluator()
	return evalIn(t, e, NewGlobalEnvironment(), src), out.String()
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	res, _ := run(t, src)
	if err, ok := res.(*Error); ok {
		t.Fatalf("eval %q: %s", src, err.Inspect())
	}
	return Display(res)
}

func runError(t *testing.T, src string) *Error {
	t.Helper()
	res, _ := run(t, src)
	err, ok := res.(*Error)
	if !ok {
		t.Fatalf("eval %q = %s, want an error", src, Display(res))
	}
	return err
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "2 + 3 * 4", "14"},
		{"lets", "let x = 5; let y = x + 1; y * 2", "12"},
		{"function", "fun add(a, b) { a + b }; add(10, 32)", "42"},
		{"list pattern", "match [1, 2, 3] { [a, ..rest] => a + rest.len() }", "3"},
		{"for loop", "let mut c = 0; for i in 1..=4 { c = c + i }; c", "10"},
		{"fstring", `f"Hello {1 + 1}"`, "Hello 2"},
		{"class", "class Counter { mut n: Int = 0; fn inc(&mut self) { self.n = self.n + 1 }; fn get(&self) -> Int { self.n } }; let k = Counter::new(); k.inc(); k.inc(); k.get()", "2"},
		{"comprehension", "[x*x for x in 1..=3]", "[1, 4, 9]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"float display", "1.5 + 1.5", "3.0"},
		{"string concat", `"ab" + "cd"`, "abcd"},
		{"comparison", "1 < 2 && 3 >= 3", "true"},
		{"if without else", "if false { 1 }", "()"},
		{"if else", "if 1 > 2 { 1 } else { 2 }", "2"},
		{"block scope", "let x = 1; { let x = 2; x } + x", "3"},
		{"closure capture", "let mut n = 0; let inc = || { n = n + 1 }; inc(); inc(); n", "2"},
		{"lambda arrow", "let f = x => x * 2; f(21)", "42"},
		{"default parameter", "fun greet(name, greeting = \"hi\") { greeting + \" \" + name }; greet(\"bo\")", "hi bo"},
		{"recursion", "fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }; fact(10)", "3628800"},
		{"while", "let mut i = 0; while i < 5 { i += 1 }; i", "5"},
		{"loop break value", "let mut i = 0; loop { i += 1; if i == 3 { break i * 10 } }", "30"},
		{"continue", "let mut s = 0; for i in 0..6 { if i % 2 == 0 { continue }; s += i }; s", "9"},
		{"labelled break", "let mut n = 0; 'outer: for i in 0..3 { for j in 0..3 { if j == 1 { continue 'outer }; n += 1 } }; n", "3"},
		{"tuple index", "let t = (1, \"a\"); t.1", "a"},
		{"slice", "[1, 2, 3, 4][1..3]", "[2, 3]"},
		{"pipeline", "fun double(x) { x * 2 }; 5 |> double", "10"},
		{"pipeline args", "fun add(a, b) { a + b }; 5 |> add(1)", "6"},
		{"set comprehension", "{x % 2 for x in 0..4}.len()", "2"},
		{"nested comprehension", "[(x, y) for x in 1..=2 for y in 1..=2 if x != y]", "[(1, 2), (2, 1)]"},
		{"object literal", "{name: \"x\", n: 1}.n", "1"},
		{"struct literal", "struct P { x: Int, y: Int }; let p = P { x: 1, y: 2 }; p.x + p.y", "3"},
		{"impl method", "struct P { x: Int }; impl P { fn twice(&self) -> Int { self.x * 2 } }; P { x: 4 }.twice()", "8"},
		{"enum match", "enum Shape { Circle(Float), Square(Float) }; fun area(s) { match s { Shape::Circle(r) => r * r, Shape::Square(w) => w * w } }; area(Shape::Square(3.0))", "9.0"},
		{"option pattern", "match Some(4) { Some(x) => x, None => 0 }", "4"},
		{"result pattern", "match Err(\"bad\") { Ok(v) => v, Err(e) => e }", "bad"},
		{"try operator", "fun f(x) { let v = x?; Ok(v + 1) }; f(Ok(1))", "Ok(2)"},
		{"try operator err", "fun f(x) { let v = x?; Ok(v + 1) }; f(Err(\"no\"))", "Err(\"no\")"},
		{"match guard", "match 5 { n if n > 3 => \"big\", _ => \"small\" }", "big"},
		{"range pattern", "match 7 { 0..5 => 0, 5..=9 => 1, _ => 2 }", "1"},
		{"async await", "let f = async { 41 + 1 }; await f", "42"},
		{"cast", "3.9 as Int", "3"},
		{"interpolation display", `let xs = ["a"]; f"{xs}"`, `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{"undefined", "undefined_name + 1", UndefinedName},
		{"division by zero", "1 / 0", DivisionByZero},
		{"immutable", "let x = 1; x = 2", ImmutableAssignment},
		{"index", "[1, 2][5]", IndexOutOfBounds},
		{"non exhaustive", "match 3 { 1 => 0 }", NonExhaustiveMatch},
		{"arity", "fun f(a) { a }; f(1, 2)", ArityError},
		{"user error", `error("boom")`, UserError},
		{"throw", `throw "boom"`, UserError},
		{"assert", "assert(1 == 2, \"math\")", UserError},
		{"immutable field", "class C { n: Int = 0; fn set(&mut self) { self.n = 1 } }; let c = C::new(); c.set()", ImmutableAssignment},
		{"exit", "exit(3)", ExitRequested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runError(t, tt.src); err.Kind != tt.kind {
				t.Errorf("%q failed with %s, want %s", tt.src, err.Inspect(), tt.kind)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	err := runError(t, "let a = 1\nlet b = a / 0")
	if err.Line != 2 {
		t.Errorf("error line = %d, want 2", err.Line)
	}
}

func TestTryCatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"payload", `try { error("boom") } catch (e) { e }`, "boom"},
		{"runtime error", `try { 1 / 0 } catch (e) { e.kind }`, "DivisionByZero"},
		{"no error", `try { 1 } catch (e) { 2 }`, "1"},
		{"finally", `let mut n = 0; try { 1 } catch (e) { 2 } finally { n = 5 }; n`, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("exit is not catchable", func(t *testing.T) {
		err := runError(t, `try { exit(1) } catch (e) { 0 }`)
		if err.Kind != ExitRequested || err.ExitCode != 1 {
			t.Errorf("got %s (code %d), want exit 1", err.Inspect(), err.ExitCode)
		}
	})
}

func TestOutputBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"println", `println("a", 1, [2])`, "a 1 [2]\n"},
		{"template", `println("{} + {} = {}", 1, 2, 3)`, "1 + 2 = 3\n"},
		{"debug placeholder", `println("{:?}", "q")`, "\"q\"\n"},
		{"print", `print("x"); print("y")`, "xy"},
		{"dbg", `dbg(3)`, "[dbg] 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out := run(t, tt.src)
			if err, ok := res.(*Error); ok {
				t.Fatalf("eval %q: %s", tt.src, err.Inspect())
			}
			if out != tt.want {
				t.Errorf("output of %q = %q, want %q", tt.src, out, tt.want)
			}
		})
	}
}

func TestValueBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"len string", `len("héllo")`, "5"},
		{"len list", "len([1, 2, 3])", "3"},
		{"type_of", `type_of(1.0)`, "Float"},
		{"str", "str(12) + str(true)", "12true"},
		{"int parse", `int("42")`, "42"},
		{"int float", "int(2.7)", "2"},
		{"float", "float(2)", "2.0"},
		{"bool", `bool("")`, "false"},
		{"range", "range(0, 3).to_list()", "[0, 1, 2]"},
		{"range step", "range(10, 0, -3)", "[10, 7, 4, 1]"},
		{"min", "min(3, 1, 2)", "1"},
		{"max list", "max([4, 9, 2])", "9"},
		{"max empty", "max([])", "()"},
		{"abs", "abs(-4)", "4"},
		{"sqrt", "sqrt(16)", "4.0"},
		{"pow", "pow(2, 10)", "1024"},
		{"format", `format("{}-{}", "a", 1)`, "a-1"},
		{"none", "None", "None"},
		{"vec new", "let mut v = Vec::new(); v.push(1); v", "[1]"},
		{"string from", `String::from("s") + "t"`, "st"},
		{"hashmap", "let mut m = HashMap::new(); m.insert(\"k\", 1); m.get(\"k\")", "Some(1)"},
		{"assert_eq", "assert_eq(1 + 1, 2)", "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestConversionErrors(t *testing.T) {
	for _, src := range []string{`int("abc")`, `float("x")`, `"abc" as Int`} {
		t.Run(src, func(t *testing.T) {
			if err := runError(t, src); err.Kind != TypeMismatch {
				t.Errorf("%q failed with %s, want TypeError", src, err.Kind)
			}
		})
	}
}

func TestInput(t *testing.T) {
	e, out := newTestEvaluator()
	e.In = strings.NewReader("alice\nbob\n")
	env := NewGlobalEnvironment()
	res := evalIn(t, e, env, `let a = input("name? "); let b = input(); a + "," + b`)
	if got := Display(res); got != "alice,bob" {
		t.Errorf("input result = %s, want alice,bob", got)
	}
	if out.String() != "name? " {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	e, _ := newTestEvaluator()
	e.BaseDir = dir
	res := evalIn(t, e, NewGlobalEnvironment(), `write_file("out.txt", "data"); read_file("out.txt")`)
	if got := Display(res); got != "data" {
		t.Errorf("read back %s, want data", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.txt")); err != nil {
		t.Errorf("file not written under BaseDir: %v", err)
	}

	res = evalIn(t, e, NewGlobalEnvironment(), `read_file("missing.txt")`)
	if err, ok := res.(*Error); !ok || err.Kind != IOError {
		t.Errorf("missing file gave %s, want IOError", res.Inspect())
	}
}

func TestSandbox(t *testing.T) {
	for _, src := range []string{`read_file("x")`, `write_file("x", "y")`, `input()`, `use helpers`} {
		t.Run(src, func(t *testing.T) {
			e, _ := newTestEvaluator()
			e.Sandboxed = true
			res := evalIn(t, e, NewGlobalEnvironment(), src)
			if err, ok := res.(*Error); !ok || err.Kind != PermissionDenied {
				t.Errorf("%q in sandbox gave %s, want PermissionDenied", src, res.Inspect())
			}
		})
	}
}

func TestResourceLimits(t *testing.T) {
	t.Run("depth", func(t *testing.T) {
		e, _ := newTestEvaluator()
		e.MaxDepth = 50
		res := evalIn(t, e, NewGlobalEnvironment(), "fun f(n) { f(n + 1) }; f(0)")
		err, ok := res.(*Error)
		if !ok || err.Kind != StackOverflow {
			t.Fatalf("got %s, want StackOverflow", res.Inspect())
		}
		if err.Catchable() {
			t.Error("stack overflow must not be catchable")
		}
	})

	t.Run("memory", func(t *testing.T) {
		e, _ := newTestEvaluator()
		e.MaxMemory = 4096
		res := evalIn(t, e, NewGlobalEnvironment(), "let mut s = \"\"; while true { s = s + \"xxxxxxxxxxxxxxxx\" }")
		if err, ok := res.(*Error); !ok || err.Kind != ResourceExceeded {
			t.Fatalf("got %s, want ResourceExceeded", res.Inspect())
		}
		if e.PeakAllocated() <= 4096 {
			t.Errorf("peak = %d, want above the limit", e.PeakAllocated())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		e, _ := newTestEvaluator()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		e.Context = ctx
		res := evalIn(t, e, NewGlobalEnvironment(), "loop { }")
		if err, ok := res.(*Error); !ok || err.Kind != ResourceExceeded {
			t.Fatalf("got %s, want ResourceExceeded", res.Inspect())
		}
	})
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: -3}, "-3"},
		{&Float{Value: 2}, "2.0"},
		{&Float{Value: 0.1}, "0.1"},
		{&Float{Value: 1e20}, "100000000000000000000.0"},
		{&Float{Value: -1e16}, "-10000000000000000.0"},
		{&Float{Value: 1.5e-7}, "0.00000015"},
		{&String{Value: "top"}, "top"},
		{newList([]Object{&String{Value: "a"}, &Char{Value: 'b'}}), `["a", 'b']`},
		{&Tuple{Elements: []Object{&Integer{Value: 1}}}, "(1,)"},
		{NIL, "()"},
		{someValue(&Integer{Value: 1}), "Some(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Display(tt.obj); got != tt.want {
				t.Errorf("Display = %s, want %s", got, tt.want)
			}
		})
	}
}
