package evaluator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentScoping(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1}, true)
	inner := NewEnclosedEnvironment(outer)
	inner.Define("y", &Integer{Value: 2}, false)

	if _, ok := outer.Get("y"); ok {
		t.Error("inner binding visible from outer frame")
	}
	if err := inner.Assign("x", &Integer{Value: 5}); err != nil {
		t.Fatalf("assign through chain: %v", err)
	}
	if v, _ := outer.Get("x"); v.(*Integer).Value != 5 {
		t.Errorf("outer x = %s, want 5", v.Inspect())
	}
	if err := inner.Assign("y", &Integer{Value: 3}); err == nil {
		t.Error("assigning an immutable binding succeeded")
	}
	if err := inner.Assign("z", NIL); err == nil {
		t.Error("assigning an unbound name succeeded")
	}

	inner.Seal()
	if err := inner.Define("w", NIL, false); err == nil {
		t.Error("define in a sealed frame succeeded")
	}
	if diff := cmp.Diff([]string{"x", "y"}, inner.AllNames()); diff != "" {
		t.Errorf("AllNames mismatch (-want +got):\n%s", diff)
	}
}

func TestGlobalEnvironmentSharesPrelude(t *testing.T) {
	a, b := NewGlobalEnvironment(), NewGlobalEnvironment()
	if a == b || a.Outer() != b.Outer() {
		t.Fatal("global frames should be distinct over one prelude")
	}
	if err := a.Outer().Define("println", NIL, false); err == nil {
		t.Error("prelude frame accepted a redefinition")
	}
	a.Define("println", &Integer{Value: 1}, false)
	if v, _ := b.Get("println"); v.Type() != BUILTIN_OBJ {
		t.Error("shadowing in one session leaked into another")
	}
	if !IsBuiltinName("Vec::new") || !IsBuiltinName("None") || IsBuiltinName("nope") {
		t.Error("IsBuiltinName disagrees with the prelude")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment()
	evalIn(t, e, env, `
class Box { mut v: Int = 1 }
let b = Box::new()
let alias = b
let mut xs = [1, 2]
let mut n = 10
let get = || n
`)
	snap := env.Clone()

	evalIn(t, e, env, "b.v = 99; xs.push(3); n = 20")

	tests := []struct {
		src  string
		want string
	}{
		{"b.v", "1"},
		{"xs", "[1, 2]"},
		{"get()", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := Display(evalIn(t, e, snap, tt.src)); got != tt.want {
				t.Errorf("snapshot %s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	// Aliases of one cell stay aliased in the copy.
	evalIn(t, e, snap, "alias.v = 7")
	if got := Display(evalIn(t, e, snap, "b.v")); got != "7" {
		t.Errorf("aliased cell b.v = %s, want 7", got)
	}
	if got := Display(evalIn(t, e, env, "b.v")); got != "99" {
		t.Errorf("original b.v = %s, want 99", got)
	}
	if snap.Outer() != env.Outer() {
		t.Error("prelude frame was copied rather than shared")
	}
}

func TestCloneUnseals(t *testing.T) {
	env := NewGlobalEnvironment()
	env.Define("x", &Integer{Value: 1}, true)
	env.Seal()
	c := env.Clone()
	if c.Sealed() {
		t.Fatal("clone of a sealed frame is sealed")
	}
	if err := c.Assign("x", &Integer{Value: 2}); err != nil {
		t.Fatalf("assign in clone: %v", err)
	}
	if v, _ := env.Get("x"); v.(*Integer).Value != 1 {
		t.Error("writing the clone changed the sealed original")
	}
}

func TestActors(t *testing.T) {
	const counter = `
actor Counter {
    mut count: Int = 0
    receive Inc(n: Int) {
        self.count = self.count + n
    }
    receive Get => { self.count }
    receive { Reset => { self.count = 0 } }
    fn peek(&self) -> Int { self.count }
}
`
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"send and ask", "let c = spawn Counter; c ! Inc(2); c ! Inc(3); c <? Get", "5"},
		{"send returns unit", "let c = spawn Counter; c ! Inc(1)", "()"},
		{"method form", "let c = Counter::new(); c.send(Inc(4)); c.ask(Get)", "4"},
		{"handler by name", "let c = Counter::new(); c.Inc(6); c.peek()", "6"},
		{"pattern handler", "let c = spawn Counter; c ! Inc(2); c ! Reset; c <? Get", "0"},
		{"shared cell", "let c = spawn Counter; let d = c; d ! Inc(1); c <? Get", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, counter+tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("unknown message", func(t *testing.T) {
		if err := runError(t, counter+"let c = spawn Counter; c ! Nope"); err.Kind != NonExhaustiveMatch {
			t.Errorf("got %s, want NonExhaustiveMatch", err.Kind)
		}
	})
	t.Run("reentrant handler", func(t *testing.T) {
		src := `actor Loop { receive Ping => { self ! Ping } }; let l = spawn Loop; l ! Ping`
		if err := runError(t, src); err.Kind != AliasingViolation {
			t.Errorf("got %s, want AliasingViolation", err.Kind)
		}
	})
}

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helpers.ruchy", "fun sq(x) { x * x }\nlet base = 10\n")
	writeModule(t, dir, "cyc_a.ruchy", "use cyc_b\n")
	writeModule(t, dir, "cyc_b.ruchy", "use cyc_a\n")

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline module", "module math { fun sq(x) { x * x } }; math::sq(3)", "9"},
		{"use inline item", "module math { fun sq(x) { x * x } }; use math::sq; sq(4)", "16"},
		{"use alias", "module math { fun sq(x) { x * x } }; use math::{sq as square}; square(5)", "25"},
		{"file item", "use helpers::sq; sq(6)", "36"},
		{"file module", "use helpers; helpers::base + helpers::sq(2)", "14"},
		{"wildcard", "use helpers::*; base", "10"},
		{"std is ignored", "use std::collections::HashMap; 1", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEvaluator()
			e.BaseDir = dir
			res := evalIn(t, e, NewGlobalEnvironment(), tt.src)
			if err, ok := res.(*Error); ok {
				t.Fatalf("eval %q: %s", tt.src, err.Inspect())
			}
			if got := Display(res); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("loaded once", func(t *testing.T) {
		e, _ := newTestEvaluator()
		e.BaseDir = dir
		evalIn(t, e, NewGlobalEnvironment(), "use helpers; use helpers::sq")
		if len(e.ModuleCache) != 1 {
			t.Errorf("module cache has %d entries, want 1", len(e.ModuleCache))
		}
	})

	errorsTests := []struct {
		name string
		src  string
	}{
		{"missing", "use nowhere"},
		{"cycle", "use cyc_a"},
	}
	for _, tt := range errorsTests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEvaluator()
			e.BaseDir = dir
			res := evalIn(t, e, NewGlobalEnvironment(), tt.src)
			if err, ok := res.(*Error); !ok || err.Kind != ModuleError {
				t.Errorf("%q gave %s, want ModuleError", tt.src, res.Inspect())
			}
		})
	}
}
