package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/token"
)

// LexError is a span-anchored failure to form a token.
type LexError struct {
	Code    diagnostics.ErrorCode
	Message string
	Span    token.Span
	Line    int
	Column  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *LexError) Diagnostic() *diagnostics.DiagnosticError {
	return diagnostics.NewSpanError(e.Code, e.Span, e.Line, e.Column, e.Message)
}

type modeKind int

const (
	modeFString modeKind = iota // reading literal text of an f-string
	modeInterp                  // reading tokens of an embedded expression
)

type lexMode struct {
	kind  modeKind
	depth int // open braces inside an interpolation
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	sawNewline bool
	lastType   token.TokenType
	modes      []lexMode
	errors     []*LexError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	if strings.HasPrefix(input, "#!") {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}
	return l
}

// Errors returns every lex error produced so far.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

func (l *Lexer) top() *lexMode {
	if len(l.modes) == 0 {
		return nil
	}
	return &l.modes[len(l.modes)-1]
}

func (l *Lexer) pushMode(k modeKind) {
	l.modes = append(l.modes, lexMode{kind: k})
}

func (l *Lexer) popMode() {
	if len(l.modes) > 0 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning EOF.
func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	l.lastType = tok.Type
	return tok
}

func (l *Lexer) next() token.Token {
	if m := l.top(); m != nil && m.kind == modeFString {
		return l.fstringToken()
	}

	l.skipWhitespace()
	nl := l.sawNewline
	l.sawNewline = false

	start, line, col := l.position, l.line, l.column
	mk := func(t token.TokenType, lexeme string) token.Token {
		return token.Token{
			Type: t, Lexeme: lexeme, Literal: lexeme,
			Span: token.NewSpan(start, start+len(lexeme)),
			Line: line, Column: col, NewlineBefore: nl,
		}
	}
	// op consumes an operator of n runes starting at the current char.
	op := func(t token.TokenType, lexeme string) token.Token {
		for i := 0; i < utf8.RuneCountInString(lexeme); i++ {
			l.readChar()
		}
		return mk(t, lexeme)
	}

	if l.atEOF() {
		if len(l.modes) > 0 {
			l.errorAt(diagnostics.ErrL001, start, start, line, col, "unterminated f-string interpolation")
			l.modes = nil
		}
		return token.Token{Type: token.EOF, Span: token.NewSpan(len(l.input), len(l.input)), Line: line, Column: col, NewlineBefore: nl}
	}

	p1, p2 := l.peekChar(), l.peekChar2()
	switch l.ch {
	case '=':
		switch p1 {
		case '=':
			return op(token.EQ, "==")
		case '>':
			return op(token.FAT_ARROW, "=>")
		}
		return op(token.ASSIGN, "=")
	case '+':
		if p1 == '=' {
			return op(token.PLUS_ASSIGN, "+=")
		}
		return op(token.PLUS, "+")
	case '-':
		switch p1 {
		case '>':
			return op(token.ARROW, "->")
		case '=':
			return op(token.MINUS_ASSIGN, "-=")
		}
		return op(token.MINUS, "-")
	case '*':
		if p1 == '*' {
			if p2 == '=' {
				return op(token.POWER_ASSIGN, "**=")
			}
			return op(token.POWER, "**")
		}
		if p1 == '=' {
			return op(token.ASTERISK_ASSIGN, "*=")
		}
		return op(token.ASTERISK, "*")
	case '/':
		if p1 == '=' {
			return op(token.SLASH_ASSIGN, "/=")
		}
		return op(token.SLASH, "/")
	case '%':
		if p1 == '=' {
			return op(token.PERCENT_ASSIGN, "%=")
		}
		return op(token.PERCENT, "%")
	case '!':
		if p1 == '=' {
			return op(token.NOT_EQ, "!=")
		}
		return op(token.BANG, "!")
	case '<':
		switch p1 {
		case '=':
			return op(token.LTE, "<=")
		case '?':
			return op(token.ASK, "<?")
		case '<':
			if p2 == '=' {
				return op(token.LSHIFT_ASSIGN, "<<=")
			}
			return op(token.LSHIFT, "<<")
		}
		return op(token.LT, "<")
	case '>':
		switch p1 {
		case '=':
			return op(token.GTE, ">=")
		case '>':
			if p2 == '=' {
				return op(token.RSHIFT_ASSIGN, ">>=")
			}
			return op(token.RSHIFT, ">>")
		}
		return op(token.GT, ">")
	case '&':
		switch p1 {
		case '&':
			return op(token.AND, "&&")
		case '=':
			return op(token.AND_ASSIGN, "&=")
		}
		return op(token.AMPERSAND, "&")
	case '|':
		switch p1 {
		case '|':
			return op(token.OR, "||")
		case '=':
			return op(token.OR_ASSIGN, "|=")
		case '>':
			return op(token.PIPE_GT, "|>")
		}
		return op(token.PIPE, "|")
	case '^':
		if p1 == '=' {
			return op(token.XOR_ASSIGN, "^=")
		}
		return op(token.CARET, "^")
	case '~':
		return op(token.TILDE, "~")
	case '.':
		if p1 == '.' {
			if p2 == '=' {
				return op(token.DOT_DOT_EQ, "..=")
			}
			return op(token.DOT_DOT, "..")
		}
		return op(token.DOT, ".")
	case ':':
		if p1 == ':' {
			return op(token.DOUBLE_COLON, "::")
		}
		if isLetter(p1) && l.atomAllowed() {
			l.readChar()
			name := l.readIdentifier()
			t := mk(token.ATOM, ":"+name)
			t.Literal = name
			return t
		}
		return op(token.COLON, ":")
	case '?':
		return op(token.QUESTION, "?")
	case '@':
		return op(token.AT, "@")
	case ',':
		return op(token.COMMA, ",")
	case ';':
		return op(token.SEMICOLON, ";")
	case '(':
		return op(token.LPAREN, "(")
	case ')':
		return op(token.RPAREN, ")")
	case '[':
		return op(token.LBRACKET, "[")
	case ']':
		return op(token.RBRACKET, "]")
	case '{':
		if m := l.top(); m != nil && m.kind == modeInterp {
			m.depth++
		}
		return op(token.LBRACE, "{")
	case '}':
		if m := l.top(); m != nil && m.kind == modeInterp {
			if m.depth == 0 {
				l.popMode()
				return op(token.INTERP_END, "}")
			}
			m.depth--
		}
		return op(token.RBRACE, "}")
	case '"':
		return l.readString(start, line, col, nl)
	case '\'':
		return l.readQuote(start, line, col, nl)
	}

	if isLetter(l.ch) {
		switch {
		case l.ch == 'f' && p1 == '"':
			l.readChar()
			l.readChar()
			l.pushMode(modeFString)
			return mk(token.FSTRING_START, `f"`)
		case l.ch == 'r' && p1 == '"':
			l.readChar()
			return l.readRawString(start, line, col, nl)
		case l.ch == 'b' && p1 == '\'':
			l.readChar()
			t := l.readQuote(start, line, col, nl)
			if t.Type == token.CHAR {
				r := t.Literal.(rune)
				if r > 0xFF {
					return l.illegal(diagnostics.ErrL002, start, line, col, nl, "byte literal out of range")
				}
				t.Type = token.BYTE
				t.Literal = byte(r)
				t.Lexeme = l.input[start:l.position]
			}
			return t
		}
		lexeme := l.readIdentifier()
		t := mk(token.LookupIdent(lexeme), lexeme)
		return t
	}
	if isDigit(l.ch) {
		return l.readNumber(start, line, col, nl)
	}

	ch := l.ch
	l.readChar()
	return l.illegal(diagnostics.ErrL005, start, line, col, nl, fmt.Sprintf("unknown character %q", ch))
}

// atomAllowed reports whether a ':' directly followed by a letter starts an
// atom. After a value token (x:Int) it is a type annotation instead.
func (l *Lexer) atomAllowed() bool {
	switch l.lastType {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.CHAR, token.RPAREN,
		token.RBRACKET, token.RBRACE, token.FSTRING_END, token.TRUE, token.FALSE, token.NULL,
		token.ATOM, token.BYTE:
		return false
	}
	if l.lastType == "" {
		return true
	}
	return !token.IsKeyword(l.lastType) || l.lastType == token.RETURN || l.lastType == token.IN ||
		l.lastType == token.MATCH || l.lastType == token.ELSE
}

func (l *Lexer) errorAt(code diagnostics.ErrorCode, start, end, line, col int, msg string) {
	l.errors = append(l.errors, &LexError{Code: code, Message: msg, Span: token.NewSpan(start, end), Line: line, Column: col})
}

func (l *Lexer) illegal(code diagnostics.ErrorCode, start, line, col int, nl bool, msg string) token.Token {
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	l.errorAt(code, start, end, line, col, msg)
	lexeme := ""
	if start < end {
		lexeme = l.input[start:end]
	}
	return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: msg, Span: token.NewSpan(start, end), Line: line, Column: col, NewlineBefore: nl}
}

// fstringToken scans literal text of an f-string up to the next
// interpolation or the closing quote.
func (l *Lexer) fstringToken() token.Token {
	start, line, col := l.position, l.line, l.column
	var b strings.Builder
	for {
		if l.atEOF() {
			if b.Len() > 0 {
				return token.Token{Type: token.FSTRING_TEXT, Lexeme: l.input[start:l.position], Literal: b.String(), Span: token.NewSpan(start, l.position), Line: line, Column: col}
			}
			l.popMode()
			return l.illegal(diagnostics.ErrL001, start, line, col, false, "unterminated f-string")
		}
		switch l.ch {
		case '"':
			if b.Len() > 0 {
				return token.Token{Type: token.FSTRING_TEXT, Lexeme: l.input[start:l.position], Literal: b.String(), Span: token.NewSpan(start, l.position), Line: line, Column: col}
			}
			l.readChar()
			l.popMode()
			return token.Token{Type: token.FSTRING_END, Lexeme: `"`, Literal: `"`, Span: token.NewSpan(start, start+1), Line: line, Column: col}
		case '{':
			if l.peekChar() == '{' {
				l.readChar()
				l.readChar()
				b.WriteRune('{')
				continue
			}
			if b.Len() > 0 {
				return token.Token{Type: token.FSTRING_TEXT, Lexeme: l.input[start:l.position], Literal: b.String(), Span: token.NewSpan(start, l.position), Line: line, Column: col}
			}
			l.readChar()
			l.pushMode(modeInterp)
			return token.Token{Type: token.INTERP_START, Lexeme: "{", Literal: "{", Span: token.NewSpan(start, start+1), Line: line, Column: col}
		case '}':
			if l.peekChar() == '}' {
				l.readChar()
			}
			l.readChar()
			b.WriteRune('}')
		case '\\':
			escStart, escLine, escCol := l.position, l.line, l.column
			r, ok := l.readEscape()
			if !ok {
				l.errorAt(diagnostics.ErrL003, escStart, l.position, escLine, escCol, "invalid escape sequence")
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readEscape consumes a backslash escape and returns the rune it denotes.
// On entry l.ch is the backslash.
func (l *Lexer) readEscape() (rune, bool) {
	l.readChar()
	c := l.ch
	l.readChar()
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '{':
		return '{', true
	case '}':
		return '}', true
	case 'x':
		v, ok := l.readHexDigits(2)
		return rune(v), ok
	case 'u':
		if l.ch != '{' {
			v, ok := l.readHexDigits(4)
			return rune(v), ok
		}
		l.readChar()
		var digits strings.Builder
		for isHexDigit(l.ch) && digits.Len() < 6 {
			digits.WriteRune(l.ch)
			l.readChar()
		}
		if l.ch != '}' || digits.Len() == 0 {
			return 0, false
		}
		l.readChar()
		v, err := strconv.ParseUint(digits.String(), 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, false
		}
		return rune(v), true
	}
	return 0, false
}

func (l *Lexer) readHexDigits(n int) (int64, bool) {
	var v int64
	for i := 0; i < n; i++ {
		if !isHexDigit(l.ch) {
			return 0, false
		}
		d, _ := strconv.ParseInt(string(l.ch), 16, 64)
		v = v*16 + d
		l.readChar()
	}
	return v, true
}

func (l *Lexer) readString(start, line, col int, nl bool) token.Token {
	l.readChar() // opening quote
	var b strings.Builder
	badEscape := false
	for {
		if l.atEOF() {
			return l.illegal(diagnostics.ErrL001, start, line, col, nl, "unterminated string literal")
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			escStart, escLine, escCol := l.position, l.line, l.column
			r, ok := l.readEscape()
			if !ok {
				l.errorAt(diagnostics.ErrL003, escStart, l.position, escLine, escCol, "invalid escape sequence")
				badEscape = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	t := token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Literal: b.String(), Span: token.NewSpan(start, l.position), Line: line, Column: col, NewlineBefore: nl}
	if badEscape {
		t.Type = token.ILLEGAL
		t.Literal = "invalid escape sequence"
	}
	return t
}

func (l *Lexer) readRawString(start, line, col int, nl bool) token.Token {
	l.readChar() // opening quote
	contentStart := l.position
	for !l.atEOF() && l.ch != '"' {
		l.readChar()
	}
	if l.atEOF() {
		return l.illegal(diagnostics.ErrL001, start, line, col, nl, "unterminated raw string literal")
	}
	content := l.input[contentStart:l.position]
	l.readChar()
	return token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Literal: content, Span: token.NewSpan(start, l.position), Line: line, Column: col, NewlineBefore: nl}
}

// readQuote lexes either a char literal ('a', '\n') or a loop label ('outer).
func (l *Lexer) readQuote(start, line, col int, nl bool) token.Token {
	p1, p2 := l.peekChar(), l.peekChar2()
	if isLetter(p1) && p2 != '\'' {
		l.readChar()
		name := l.readIdentifier()
		return token.Token{Type: token.LABEL, Lexeme: "'" + name, Literal: name, Span: token.NewSpan(start, l.position), Line: line, Column: col, NewlineBefore: nl}
	}
	l.readChar() // opening quote
	var r rune
	switch {
	case l.atEOF() || l.ch == '\n':
		return l.illegal(diagnostics.ErrL002, start, line, col, nl, "unterminated character literal")
	case l.ch == '\\':
		v, ok := l.readEscape()
		if !ok {
			return l.illegal(diagnostics.ErrL003, start, line, col, nl, "invalid escape sequence")
		}
		r = v
	case l.ch == '\'':
		l.readChar()
		return l.illegal(diagnostics.ErrL002, start, line, col, nl, "empty character literal")
	default:
		r = l.ch
		l.readChar()
	}
	if l.ch != '\'' {
		return l.illegal(diagnostics.ErrL002, start, line, col, nl, "unterminated character literal, expected '")
	}
	l.readChar()
	return token.Token{Type: token.CHAR, Lexeme: l.input[start:l.position], Literal: r, Span: token.NewSpan(start, l.position), Line: line, Column: col, NewlineBefore: nl}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

var intSuffixes = []string{"i128", "i64", "i32", "i16", "i8", "isize", "u128", "u64", "u32", "u16", "u8", "usize"}

func (l *Lexer) readNumber(start, line, col int, nl bool) token.Token {
	base := 10
	isFloat := false

	// Check for base prefixes: 0x, 0b, 0o
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			l.readChar()
			l.readChar()
		}
	}

	digitsStart := l.position
	for isDigit(l.ch) || l.ch == '_' || (base == 16 && isHexDigit(l.ch)) {
		l.readChar()
	}

	// 1..3 is a range and t.0.1 is nested tuple indexing, not a float.
	if base == 10 && l.ch == '.' && isDigit(l.peekChar()) && l.lastType != token.DOT {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if base == 10 && (l.ch == 'e' || l.ch == 'E') {
		p := l.peekChar()
		if isDigit(p) || ((p == '+' || p == '-') && isDigit(l.peekChar2())) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	digits := strings.ReplaceAll(l.input[digitsStart:l.position], "_", "")

	suffix := ""
	if isLetter(l.ch) {
		sufStart := l.position
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		suffix = l.input[sufStart:l.position]
	}
	lexeme := l.input[start:l.position]
	mk := func(t token.TokenType, lit interface{}) token.Token {
		return token.Token{Type: t, Lexeme: lexeme, Literal: lit, Suffix: suffix, Span: token.NewSpan(start, l.position), Line: line, Column: col, NewlineBefore: nl}
	}

	if suffix == "f32" || suffix == "f64" {
		isFloat = true
	} else if suffix != "" && !contains(intSuffixes, suffix) {
		return l.illegal(diagnostics.ErrL004, start, line, col, nl, fmt.Sprintf("invalid numeric suffix %q", suffix))
	}
	if digits == "" {
		return l.illegal(diagnostics.ErrL004, start, line, col, nl, "invalid numeric literal")
	}

	if isFloat {
		if base != 10 {
			return l.illegal(diagnostics.ErrL004, start, line, col, nl, "float literal must be decimal")
		}
		val, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return l.illegal(diagnostics.ErrL004, start, line, col, nl, "invalid float literal")
		}
		return mk(token.FLOAT, val)
	}
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return l.illegal(diagnostics.ErrL004, start, line, col, nl, "integer literal out of range")
	}
	return mk(token.INT, val)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && ch != utf8.RuneError && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			if l.ch == '\n' {
				l.sawNewline = true
			}
			l.readChar()
		}
		// Handle comments
		if l.ch == '/' {
			if l.peekChar() == '/' {
				for l.ch != '\n' && !l.atEOF() {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar() // consume /
				l.readChar() // consume *
				depth := 1
				for !l.atEOF() && depth > 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar()
						depth--
					} else if l.ch == '/' && l.peekChar() == '*' {
						l.readChar()
						depth++
					} else if l.ch == '\n' {
						l.sawNewline = true
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}

// Tokenize lexes the whole input. The result always ends with EOF.
func Tokenize(input string) ([]token.Token, []*LexError) {
	l := New(input)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return toks, l.Errors()
}
