package lexer

import (
	"testing"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func expectTypes(t *testing.T, input string, want ...token.TokenType) []token.Token {
	t.Helper()
	toks, errs := Tokenize(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, errs)
	}
	got := types(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %s, want %s (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestNextToken(t *testing.T) {
	input := `let five = 5;
var ten = 10.5
fun add(x, y) -> Int { x + y }
a ** 2 |> f <? m ..= ::
`
	expectTypes(t, input,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.VAR, token.IDENT, token.ASSIGN, token.FLOAT,
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.ARROW, token.IDENT, token.LBRACE, token.IDENT, token.PLUS, token.IDENT, token.RBRACE,
		token.IDENT, token.POWER, token.INT, token.PIPE_GT, token.IDENT, token.ASK, token.IDENT,
		token.DOT_DOT_EQ, token.DOUBLE_COLON,
	)
}

func TestFStringTokens(t *testing.T) {
	toks := expectTypes(t, `f"a{x + {1}.len()}b{{c}}"`,
		token.FSTRING_START, token.FSTRING_TEXT, token.INTERP_START,
		token.IDENT, token.PLUS, token.LBRACE, token.INT, token.RBRACE, token.DOT, token.IDENT, token.LPAREN, token.RPAREN,
		token.INTERP_END, token.FSTRING_TEXT, token.FSTRING_END,
	)
	if got := toks[1].Literal; got != "a" {
		t.Errorf("first fragment = %q", got)
	}
	if got := toks[13].Literal; got != "b{c}" {
		t.Errorf("doubled braces should unescape, got %q", got)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input  string
		typ    token.TokenType
		lit    interface{}
		suffix string
	}{
		{"42", token.INT, int64(42), ""},
		{"0xFF", token.INT, int64(255), ""},
		{"0b101", token.INT, int64(5), ""},
		{"0o17", token.INT, int64(15), ""},
		{"1_000_000", token.INT, int64(1000000), ""},
		{"42i32", token.INT, int64(42), "i32"},
		{"2.5", token.FLOAT, 2.5, ""},
		{"2.5e3", token.FLOAT, 2500.0, ""},
		{"1e-2", token.FLOAT, 0.01, ""},
		{"3f64", token.FLOAT, 3.0, "f64"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := expectTypes(t, tt.input, tt.typ)
			if toks[0].Literal != tt.lit {
				t.Errorf("literal = %v (%T), want %v", toks[0].Literal, toks[0].Literal, tt.lit)
			}
			if toks[0].Suffix != tt.suffix {
				t.Errorf("suffix = %q, want %q", toks[0].Suffix, tt.suffix)
			}
		})
	}

	expectTypes(t, "1..3", token.INT, token.DOT_DOT, token.INT)
	expectTypes(t, "t.0.1", token.IDENT, token.DOT, token.INT, token.DOT, token.INT)
}

func TestLiteralsAndKeywords(t *testing.T) {
	toks := expectTypes(t, `'a' b'x' r"a\n" "q\t\u{1F600}" (:ok) nil 'outer loop`,
		token.CHAR, token.BYTE, token.STRING, token.STRING, token.LPAREN, token.ATOM, token.RPAREN, token.NULL, token.LABEL, token.LOOP)
	if toks[0].Literal != 'a' {
		t.Errorf("char literal = %v", toks[0].Literal)
	}
	if toks[1].Literal != byte('x') {
		t.Errorf("byte literal = %v", toks[1].Literal)
	}
	if toks[2].Literal != `a\n` {
		t.Errorf("raw string should keep backslashes, got %q", toks[2].Literal)
	}
	if toks[3].Literal != "q\t\U0001F600" {
		t.Errorf("escapes not decoded: %q", toks[3].Literal)
	}
	if toks[5].Literal != "ok" {
		t.Errorf("atom name = %v", toks[5].Literal)
	}
	if toks[8].Literal != "outer" {
		t.Errorf("label name = %v", toks[8].Literal)
	}

	// after a name, ':' is a type annotation
	expectTypes(t, "x:Int", token.IDENT, token.COLON, token.IDENT)
}

func TestCommentsAndNewlines(t *testing.T) {
	toks := expectTypes(t, "#!/usr/bin/env ruchy\n1 // comment\n/* a /* nested */ b */ 2", token.INT, token.INT)
	if toks[0].NewlineBefore != true {
		t.Errorf("first token follows the shebang line")
	}
	if !toks[1].NewlineBefore {
		t.Errorf("line comment should still mark a newline")
	}
	if toks[1].Line != 3 {
		t.Errorf("line = %d, want 3", toks[1].Line)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{`"abc`, diagnostics.ErrL001},
		{`f"abc{x`, diagnostics.ErrL001},
		{`'ab'`, diagnostics.ErrL002},
		{`'`, diagnostics.ErrL002},
		{`"\q"`, diagnostics.ErrL003},
		{`99999999999999999999`, diagnostics.ErrL004},
		{`12abc`, diagnostics.ErrL004},
		{`#`, diagnostics.ErrL005},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, errs := Tokenize(tt.input)
			if toks[len(toks)-1].Type != token.EOF {
				t.Fatalf("token stream must end with EOF")
			}
			if len(errs) == 0 {
				t.Fatalf("expected %s", tt.code)
			}
			if errs[0].Code != tt.code {
				t.Fatalf("got %s (%s), want %s", errs[0].Code, errs[0].Message, tt.code)
			}
		})
	}
}

func TestTotality(t *testing.T) {
	inputs := []string{
		"", "\x00", "\xff\xfe", "f\"", "f\"{", "f\"{}}\"", "'", "''", "b'", "b'\\u{110000}'",
		"\"\\u{12345678}\"", "0x", "0b2", "1.", "1e", "/*", "/* /* */", "::::", "<<<<=>>>=",
		"f\"{f\"{1}\"}\"", "r\"", "'\\", "\"\\x4\"", "}", "{{{{",
	}
	for _, input := range inputs {
		toks, errs := Tokenize(input)
		if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
			t.Errorf("%q: stream does not end in EOF", input)
		}
		for _, e := range errs {
			if e.Span.Start > e.Span.End || int(e.Span.End) > len(input) {
				t.Errorf("%q: invalid error span %v", input, e.Span)
			}
		}
		for _, tok := range toks {
			if tok.Span.Start > tok.Span.End || int(tok.Span.End) > len(input) {
				t.Errorf("%q: invalid token span %v for %s", input, tok.Span, tok.Type)
			}
		}
	}
}

func TestTokenStreamLookahead(t *testing.T) {
	s := NewTokenStream(New("a b c"))
	if peek := s.Peek(2); len(peek) != 2 || peek[1].Lexeme != "b" {
		t.Fatalf("peek = %v", peek)
	}
	for _, want := range []string{"a", "b", "c", ""} {
		if got := s.Next(); got.Lexeme != want {
			t.Fatalf("next = %q, want %q", got.Lexeme, want)
		}
	}
	if s.Next().Type != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}
