package repl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/journal"
)

func testConfig() config.ReplConfig {
	cfg := config.DefaultReplConfig()
	cfg.Color = false
	cfg.HistoryFile = ""
	return cfg
}

func testSession(t *testing.T, cfg config.ReplConfig) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	s, err := WithConfig(t.TempDir(), cfg)
	if err != nil {
		t.Fatalf("WithConfig: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	var out, errOut bytes.Buffer
	s.Out, s.ErrOut = &out, &errOut
	return s, &out, &errOut
}

func mustEval(t *testing.T, s *Session, line string) string {
	t.Helper()
	out, err := s.Eval(line)
	if err != nil {
		t.Fatalf("Eval(%q): %v", line, err)
	}
	return out
}

func evalErr(t *testing.T, s *Session, line string) error {
	t.Helper()
	out, err := s.Eval(line)
	if err == nil {
		t.Fatalf("Eval(%q) = %q, want an error", line, out)
	}
	return err
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"let x = 5; let y = x + 1; y * 2", "12"},
		{"fun add(a, b) { a + b }; add(10, 32)", "42"},
		{"match [1, 2, 3] { [a, ..rest] => a + rest.len() }", "3"},
		{"let mut c = 0; for i in 1..=4 { c = c + i }; c", "10"},
		{`f"Hello {1 + 1}"`, "Hello 2"},
		{"class Counter { mut n: Int = 0; fn inc(&mut self) { self.n = self.n + 1 }; fn get(&self) -> Int { self.n } }; let k = Counter::new(); k.inc(); k.inc(); k.get()", "2"},
		{"[x*x for x in 1..=3]", "[1, 4, 9]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s, _, _ := testSession(t, testConfig())
			if got := mustEval(t, s, tt.src); got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestPersistenceAndHistory(t *testing.T) {
	s, out, _ := testSession(t, testConfig())

	mustEval(t, s, "let x = 5")
	if got := mustEval(t, s, "x"); got != "5" {
		t.Errorf("x = %q, want 5", got)
	}
	mustEval(t, s, "fun double(n) { n * 2 }")
	if got := mustEval(t, s, "double(x)"); got != "10" {
		t.Errorf("double(x) = %q, want 10", got)
	}
	if got := mustEval(t, s, "_ + 1"); got != "11" {
		t.Errorf("_ + 1 = %q, want 11", got)
	}
	// let x, x, double(x), _ + 1 produced results; fun did not.
	if got := mustEval(t, s, "_1 + _3"); got != "15" {
		t.Errorf("_1 + _3 = %q, want 15", got)
	}

	if got := mustEval(t, s, `println("hi")`); got != "" {
		t.Errorf("println result displayed as %q", got)
	}
	if out.String() != "hi\n" {
		t.Errorf("output = %q, want hi", out.String())
	}
}

func TestHistoryLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 2
	s, _, _ := testSession(t, cfg)
	for _, line := range []string{"1", "2", "3"} {
		mustEval(t, s, line)
	}
	if got := mustEval(t, s, "_2 + _3"); got != "5" {
		t.Errorf("_2 + _3 = %q, want 5", got)
	}
	if err := evalErr(t, s, "_1"); Kind(err) != evaluator.UndefinedName {
		t.Errorf("_1 after trimming: got %v, want UndefinedName", err)
	}
}

func TestContinuation(t *testing.T) {
	s, _, _ := testSession(t, testConfig())

	if got := mustEval(t, s, "fun inc(x) {"); got != "" {
		t.Errorf("partial line displayed %q", got)
	}
	if s.Mode() != AwaitingContinuation || s.GetPrompt() != config.ContinuationPrompt {
		t.Fatalf("mode %s prompt %q, want continuation", s.Mode(), s.GetPrompt())
	}
	mustEval(t, s, "  x + 1")
	mustEval(t, s, "}")
	if s.Mode() != Normal {
		t.Fatalf("mode after closing brace = %s", s.Mode())
	}
	if got := mustEval(t, s, "inc(41)"); got != "42" {
		t.Errorf("inc(41) = %q, want 42", got)
	}

	mustEval(t, s, `let s = "open`)
	if got := mustEval(t, s, `string"; s.len()`); got != "11" {
		t.Errorf("multiline string len = %q, want 11", got)
	}
}

func TestNeedsContinuation(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1 + 2", false},
		{"fun f() {", true},
		{"[1, 2,", true},
		{"(1 + (2)", true},
		{"{ [ ( ) ] }", false},
		{`"abc`, true},
		{`"a\"b"`, false},
		{`"(("`, false},
		{`r"c:\dir\"`, false},
		{`f"x = {x}"`, false},
		{`f"{ f(1, "}") }"`, false},
		{`f"x = {x`, true},
		{`f"{{ literal"`, false},
		{`f"{{ {x`, true},
		{"'('", false},
		{"'\\n'", false},
		{"'outer: loop {", true},
		{"// (", false},
		{"/* (", true},
		{"/* ( */ 1", false},
		{")", false},
		{"(]", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := NeedsContinuation(tt.text); got != tt.want {
				t.Errorf("NeedsContinuation(%q) = %t, want %t", tt.text, got, tt.want)
			}
		})
	}
}

func TestFailedModeAndRecover(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let kept = 1")

	err := evalErr(t, s, "missing + 1")
	if Kind(err) != evaluator.UndefinedName {
		t.Errorf("kind = %q, want UndefinedName", Kind(err))
	}
	if s.Mode() != Failed || s.GetPrompt() != config.FailedPrompt {
		t.Fatalf("mode %s prompt %q, want failed", s.Mode(), s.GetPrompt())
	}
	s.Recover()
	if s.Mode() != Normal || s.GetPrompt() != config.DefaultPrompt {
		t.Errorf("after Recover: mode %s prompt %q", s.Mode(), s.GetPrompt())
	}
	if got := mustEval(t, s, "kept"); got != "1" {
		t.Errorf("kept = %q after recover", got)
	}

	// A successful line also leaves the failed state.
	evalErr(t, s, "1 / 0")
	mustEval(t, s, "2")
	if s.Mode() != Normal {
		t.Errorf("mode after success = %s", s.Mode())
	}

	var ee *EvalError
	err = evalErr(t, s, "let = 3")
	if !errors.As(err, &ee) || ee.Runtime != nil || len(ee.Diagnostics) == 0 {
		t.Errorf("parse error = %#v, want front-end diagnostics", err)
	}
}

func TestEvalBounded(t *testing.T) {
	s, _, _ := testSession(t, testConfig())

	t.Run("timeout", func(t *testing.T) {
		_, err := s.EvalBounded("loop { }", 0, 30*time.Millisecond)
		if Kind(err) != evaluator.ResourceExceeded {
			t.Errorf("got %v, want ResourceExceeded", err)
		}
	})
	t.Run("memory", func(t *testing.T) {
		_, err := s.EvalBounded(`let mut t = ""; while true { t = t + "xxxxxxxxxxxxxxxx" }`, 4096, time.Second)
		if Kind(err) != evaluator.ResourceExceeded {
			t.Errorf("got %v, want ResourceExceeded", err)
		}
		if s.PeakMemory() <= 4096 {
			t.Errorf("PeakMemory = %d, want above the limit", s.PeakMemory())
		}
	})
	t.Run("within budget", func(t *testing.T) {
		got, err := s.EvalBounded("[1, 2, 3].sum()", 1<<20, time.Second)
		if err != nil || got != "6" {
			t.Errorf("got %q, %v; want 6", got, err)
		}
	})
}

func TestEvalTransactional(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let mut n = 1")

	if _, err := s.EvalTransactional("n = 5; let extra = 2; nope()"); err == nil {
		t.Fatal("failing line succeeded")
	}
	if got := mustEval(t, s, "n"); got != "1" {
		t.Errorf("n = %q after rollback, want 1", got)
	}
	if err := evalErr(t, s, "extra"); Kind(err) != evaluator.UndefinedName {
		t.Errorf("extra survived the rollback: %v", err)
	}

	if got, err := s.EvalTransactional("n = 7; n"); err != nil || got != "7" {
		t.Errorf("successful transaction = %q, %v", got, err)
	}
	if got := mustEval(t, s, "n"); got != "7" {
		t.Errorf("n = %q after commit, want 7", got)
	}
}

func TestCheckpointRestore(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "class Box { mut v: Int = 1 }")
	mustEval(t, s, "let mut b = Box::new()")
	mustEval(t, s, "let x = 10")
	id := s.Checkpoint()

	mustEval(t, s, "b.v = 99")
	mustEval(t, s, "let x = 20")
	mustEval(t, s, "let later = 1")

	for i := 0; i < 2; i++ {
		if err := s.Restore(id); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if got := mustEval(t, s, "(x, b.v)"); got != "(10, 1)" {
			t.Errorf("restore %d: (x, b.v) = %s, want (10, 1)", i, got)
		}
		if err := evalErr(t, s, "later"); Kind(err) != evaluator.UndefinedName {
			t.Errorf("binding made after the checkpoint survived: %v", err)
		}
		mustEval(t, s, "b.v = 5")
	}

	if err := s.Restore("nope"); !errors.Is(err, ErrUnknownCheckpoint) {
		t.Errorf("Restore(nope) = %v, want ErrUnknownCheckpoint", err)
	}
	if diff := cmp.Diff([]string{id}, s.Checkpoints()); diff != "" {
		t.Errorf("checkpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckpointIdempotence(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let mut xs = [1, 2]")
	if err := s.Restore(s.Checkpoint()); err != nil {
		t.Fatal(err)
	}
	if got := mustEval(t, s, "xs"); got != "[1, 2]" {
		t.Errorf("after restore(checkpoint()) xs = %s", got)
	}
	mustEval(t, s, "xs.push(3)")
	if got := mustEval(t, s, "xs.len()"); got != "3" {
		t.Errorf("restored binding is not mutable: len = %s", got)
	}
}

func TestClearBindings(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let x = 1")
	mustEval(t, s, "struct P { a: Int }")
	s.ClearBindings()
	if err := evalErr(t, s, "x"); Kind(err) != evaluator.UndefinedName {
		t.Errorf("x after clear: %v", err)
	}
	if len(s.GetBindings()) != 0 {
		t.Errorf("bindings after clear: %v", s.GetBindings())
	}
	if got := mustEval(t, s, "len([1])"); got != "1" {
		t.Errorf("builtins lost after clear: %q", got)
	}
}

func TestGetBindings(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let mut count = 3")
	mustEval(t, s, `let name = "ru"`)
	want := []Binding{
		{Name: "count", Type: "Int", Value: "3", Mutable: true},
		{Name: "name", Type: "String", Value: `"ru"`},
	}
	if diff := cmp.Diff(want, s.GetBindings()); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCompletions(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let counter = 1")
	mustEval(t, s, "struct P { x: Int, y: Int }")
	mustEval(t, s, "let point = P { x: 1, y: 2 }")
	mustEval(t, s, "module geo { fn area(r) { r * r } }")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"coun", []string{"counter"}},
		{":he", []string{":help"}},
		{":q", []string{":q", ":quit"}},
		{"point.", []string{"point.x", "point.y"}},
		{"geo::a", []string{"geo::area"}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, s.GetCompletions(tt.prefix)); diff != "" {
				t.Errorf("completions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	got := s.GetCompletions("wh")
	if !contains(got, "while") {
		t.Errorf("keyword while missing from %v", got)
	}
	got = s.GetCompletions("print")
	if !contains(got, "println") || !contains(got, "print") {
		t.Errorf("builtins missing from %v", got)
	}
	for _, c := range s.GetCompletions("_") {
		if isHistoryName(c) {
			t.Errorf("history name %s offered as completion", c)
		}
	}
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func TestMemoryAccounting(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMemory = 1 << 20
	s, _, _ := testSession(t, cfg)
	if s.MemoryUsed() != 0 || s.MemoryPressure() != 0 {
		t.Fatalf("fresh session uses %d bytes", s.MemoryUsed())
	}
	mustEval(t, s, "let xs = [1, 2, 3, 4, 5]")
	used := s.MemoryUsed()
	if used <= 0 {
		t.Fatalf("MemoryUsed = %d after binding a list", used)
	}
	if p := s.MemoryPressure(); p <= 0 || p >= 1 {
		t.Errorf("MemoryPressure = %f, want within (0, 1)", p)
	}
	if s.PeakMemory() < used {
		t.Errorf("PeakMemory %d below MemoryUsed %d", s.PeakMemory(), used)
	}

	unlimited := testConfig()
	unlimited.MaxMemory = 0
	u, _, _ := testSession(t, unlimited)
	mustEval(t, u, "let xs = [1]")
	if u.MemoryPressure() != 0 {
		t.Errorf("unlimited session reports pressure %f", u.MemoryPressure())
	}
}

func TestSandboxed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Sandboxed(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	s.Out, s.ErrOut = &out, &out

	if !s.IsSandboxed() || s.Config().MaxMemory != config.SandboxMaxMemory || s.Config().Timeout != config.SandboxTimeout {
		t.Errorf("sandbox limits not applied: %+v", s.Config())
	}
	if err := evalErr(t, s, `read_file("secret.txt")`); Kind(err) != evaluator.PermissionDenied {
		t.Errorf("read_file: got %v, want PermissionDenied", err)
	}
	if err := evalErr(t, s, `input()`); Kind(err) != evaluator.PermissionDenied {
		t.Errorf("input: got %v, want PermissionDenied", err)
	}
	if _, _, err := s.Command(":load secret.txt"); !errors.Is(err, errSandboxFiles) {
		t.Errorf(":load in sandbox = %v", err)
	}
	if got := mustEval(t, s, "1 + 1"); got != "2" {
		t.Errorf("sandbox evaluates 1 + 1 as %q", got)
	}
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Journal = "transcript.db"
	s, err := WithConfig(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Out, s.ErrOut = &bytes.Buffer{}, &bytes.Buffer{}
	id := s.JournalID()
	if id == "" {
		t.Fatal("no journal session started")
	}
	mustEval(t, s, "let a = 2")
	evalErr(t, s, "a + nope")
	mustEval(t, s, "fun (") // opens a paren: buffered, nothing recorded
	s.Recover()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	j, err := journal.Open(filepath.Join(dir, "transcript.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	entries, err := j.Entries(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("recorded %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Input != "let a = 2" || entries[0].Output != "2" || entries[0].IsError {
		t.Errorf("first entry = %+v", entries[0])
	}
	if !entries[1].IsError || !strings.Contains(entries[1].Output, "UndefinedName") {
		t.Errorf("second entry = %+v", entries[1])
	}
}
