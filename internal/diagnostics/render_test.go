package diagnostics

import (
	"strings"
	"testing"

	"github.com/funvibe/ruchy/internal/token"
)

func TestRenderCaret(t *testing.T) {
	source := "let x = 1\nlet y = x +* 2"
	tok := token.Token{Type: token.ASTERISK, Lexeme: "*", Span: token.NewSpan(21, 22), Line: 2, Column: 12}
	got := Render(source, NewError(ErrP006, tok, "unexpected \"*\""), false)
	want := "error[ParseError] at 2:12: unexpected \"*\"\n" +
		"   2 | let y = x +* 2\n" +
		"     | " + strings.Repeat(" ", 11) + "^"
	if got != want {
		t.Fatalf("render mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderFromSpan(t *testing.T) {
	source := "a\n\tbad thing"
	d := NewSpanError(ErrL005, token.NewSpan(3, 6), 0, 0, "unknown")
	got := Render(source, d, false)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, source and caret lines, got %q", got)
	}
	if lines[2] != "     | \t^~~" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestErrorString(t *testing.T) {
	d := NewError(ErrP002, token.Token{Line: 3, Column: 4}, "expected ')'")
	d.Expected = []string{"')'"}
	d.Found = "end of input"
	d.File = "main.ruchy"
	want := "main.ruchy:3:4: error[P002]: expected ')' (expected ')', found end of input)"
	if got := d.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestKindsAndSeverity(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrL001: "LexError", ErrP004: "ParseError", ErrT002: "TypeError",
		ErrR001: "RuntimeError", ErrX001: "ResourceError", ErrorCode("Z9"): "Error",
	}
	for code, want := range tests {
		if got := code.Kind(); got != want {
			t.Errorf("%s.Kind() = %q, want %q", code, got, want)
		}
	}
	warn := NewWarning(ErrT001, token.Token{}, "advisory")
	if HasErrors([]*DiagnosticError{warn}) {
		t.Errorf("warnings alone are not errors")
	}
	if !HasErrors([]*DiagnosticError{warn, NewError(ErrT001, token.Token{}, "x")}) {
		t.Errorf("expected HasErrors")
	}
}

func TestLineColumn(t *testing.T) {
	line, col := LineColumn("ab\ncd", 4)
	if line != 2 || col != 2 {
		t.Fatalf("got %d:%d", line, col)
	}
}
