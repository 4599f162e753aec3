package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		line  string
		want  []string
	}{
		{"type", nil, ":type 1 + 2", []string{"Type: Int"}},
		{"type of binding", []string{"let xs = [1, 2]"}, ":type xs", []string{"Type: [Int]"}},
		{"ast", nil, ":ast 1 + 2", []string{"Program", "InfixExpression +", "IntegerLiteral 1"}},
		{"inspect", nil, ":inspect [1, 2]", []string{"Type: List", "Length: 2", "Memory: ~", "Value: [1, 2]"}},
		{"inspect fields", []string{"struct P { x: Int }"}, ":inspect P { x: 3 }", []string{"Fields: x"}},
		{"env", []string{"let mut total = 4"}, ":env", []string{"total", "Int", "mut"}},
		{"env empty", nil, ":vars", []string{"No variables defined"}},
		{"history", []string{"1 + 1", "oops"}, ":history", []string{"1: 1 + 1", "2: oops  (error)"}},
		{"mode", []string{"oops"}, ":mode", []string{"Current mode: Failed"}},
		{"help", nil, ":help", []string{":quit", ":inspect EXPR", "_1 .. _N"}},
		{"checkpoint", nil, ":checkpoint", []string{"Checkpoint "}},
		{"memory", []string{"let s = \"abc\""}, ":memory", []string{"Memory: ", " used, ", "limit "}},
		{"recover", []string{"oops"}, ":recover", []string{"Recovered"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, _ := testSession(t, testConfig())
			for _, line := range tt.setup {
				s.Eval(line)
			}
			out.Reset()
			if s.ProcessLine(tt.line) {
				t.Fatalf("%s ended the session", tt.line)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("%s output missing %q:\n%s", tt.line, w, out.String())
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":bogus", "unknown command :bogus"},
		{":type", "usage: :type EXPR"},
		{":restore", "usage: :restore ID"},
		{":restore zzz", "unknown checkpoint"},
		{":type 1 +", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, out, errOut := testSession(t, testConfig())
			s.ProcessLine(tt.line)
			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}
			if !strings.Contains(errOut.String(), tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", errOut.String(), tt.want)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	for _, line := range []string{":quit", ":q", ":exit", "exit(0)"} {
		s, _, _ := testSession(t, testConfig())
		if !s.ProcessLine(line) {
			t.Errorf("%s did not end the session", line)
		}
	}

	s, _, _ := testSession(t, testConfig())
	if !s.ProcessLine("exit(3)") || s.ExitStatus() != 3 {
		t.Errorf("exit(3): status %d", s.ExitStatus())
	}
}

func TestCommandAfterContinuation(t *testing.T) {
	s, _, errOut := testSession(t, testConfig())
	s.ProcessLine("let xs = [")
	s.ProcessLine(":ok")
	s.ProcessLine("]")
	if s.Mode() != Normal {
		t.Fatalf("mode = %s", s.Mode())
	}
	// ":ok" was part of the expression, an atom, not a command.
	if errOut.Len() != 0 {
		t.Errorf("continuation line was treated as a command: %s", errOut.String())
	}
	if got := mustEval(t, s, "xs"); got != "[:ok]" {
		t.Errorf("xs = %s, want [:ok]", got)
	}
}

func TestRestoreByPrefix(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	s.Eval("let a = 1")
	id := s.Checkpoint()
	s.Eval("let a = 2")
	out, _, err := s.Command(":restore " + id[:8])
	if err != nil {
		t.Fatal(err)
	}
	if out != "Restored "+id {
		t.Errorf(":restore output %q", out)
	}
	if got := mustEval(t, s, "a"); got != "1" {
		t.Errorf("a = %s after restore", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	mustEval(t, s, "let a = 2")
	evalErr(t, s, "a + nope")
	mustEval(t, s, "fun sq(n) { n * n }")

	file := filepath.Join(s.Workdir(), "saved.ruchy")
	out, _, err := s.Command(":save saved.ruchy")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Saved 2 inputs to saved.ruchy" {
		t.Errorf(":save output %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "let a = 2\nfun sq(n) { n * n }\n" {
		t.Errorf("saved file = %q", data)
	}

	fresh, _, _ := testSession(t, testConfig())
	if _, _, err := fresh.Command(":load " + file); err != nil {
		t.Fatalf(":load: %v", err)
	}
	if got := mustEval(t, fresh, "sq(a)"); got != "4" {
		t.Errorf("sq(a) after load = %q, want 4", got)
	}

	if _, _, err := fresh.Command(":load missing.ruchy"); err == nil {
		t.Error(":load of a missing file succeeded")
	}
}

func TestSaveWithoutJournal(t *testing.T) {
	s, _, _ := testSession(t, testConfig())
	if _, _, err := s.Command(":save"); err == nil || !strings.Contains(err.Error(), "no journal") {
		t.Errorf(":save without a journal = %v", err)
	}
}
