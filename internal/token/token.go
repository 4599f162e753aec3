package token

import (
	"fmt"
	"sort"
)

type TokenType string

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start uint32
	End   uint32
}

func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: uint32(start), End: uint32(end)}
}

// Merge returns the smallest span covering both a and b.
func (s Span) Merge(o Span) Span {
	out := s
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

func (s Span) Len() int { return int(s.End - s.Start) }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Span    Span
	Line    int
	Column  int
	// Suffix holds a numeric type suffix such as i64 or f32.
	Suffix string
	// NewlineBefore is set when at least one line break separates this
	// token from the previous one.
	NewlineBefore bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"
	CHAR   = "CHAR"
	BYTE   = "BYTE"
	ATOM   = "ATOM"
	LABEL  = "LABEL" // 'outer

	// f"text {expr} text"
	FSTRING_START = "FSTRING_START"
	FSTRING_TEXT  = "FSTRING_TEXT"
	INTERP_START  = "INTERP_START"
	INTERP_END    = "INTERP_END"
	FSTRING_END   = "FSTRING_END"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	POWER    = "**"
	BANG     = "!"
	TILDE    = "~"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="
	AND    = "&&"
	OR     = "||"

	AMPERSAND = "&"
	PIPE      = "|"
	CARET     = "^"
	LSHIFT    = "<<"
	RSHIFT    = ">>"

	PLUS_ASSIGN     = "+="
	MINUS_ASSIGN    = "-="
	ASTERISK_ASSIGN = "*="
	SLASH_ASSIGN    = "/="
	PERCENT_ASSIGN  = "%="
	POWER_ASSIGN    = "**="
	AND_ASSIGN      = "&="
	OR_ASSIGN       = "|="
	XOR_ASSIGN      = "^="
	LSHIFT_ASSIGN   = "<<="
	RSHIFT_ASSIGN   = ">>="

	DOT_DOT      = ".."
	DOT_DOT_EQ   = "..="
	FAT_ARROW    = "=>"
	ARROW        = "->"
	QUESTION     = "?"
	COLON        = ":"
	DOUBLE_COLON = "::"
	DOT          = "."
	COMMA        = ","
	SEMICOLON    = ";"
	PIPE_GT      = "|>"
	ASK          = "<?"
	AT           = "@"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"

	// Keywords
	LET      = "LET"
	VAR      = "VAR"
	MUT      = "MUT"
	FN       = "FN"
	IF       = "IF"
	ELSE     = "ELSE"
	MATCH    = "MATCH"
	FOR      = "FOR"
	WHILE    = "WHILE"
	LOOP     = "LOOP"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	RETURN   = "RETURN"
	STRUCT   = "STRUCT"
	CLASS    = "CLASS"
	ENUM     = "ENUM"
	IMPL     = "IMPL"
	ACTOR    = "ACTOR"
	RECEIVE  = "RECEIVE"
	NEW      = "NEW"
	OVERRIDE = "OVERRIDE"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NULL     = "NULL"
	USE      = "USE"
	IMPORT   = "IMPORT"
	MODULE   = "MODULE"
	PUB      = "PUB"
	ASYNC    = "ASYNC"
	AWAIT    = "AWAIT"
	SPAWN    = "SPAWN"
	TRY      = "TRY"
	CATCH    = "CATCH"
	FINALLY  = "FINALLY"
	THROW    = "THROW"
	IN       = "IN"
	AS       = "AS"
)

var keywords = map[string]TokenType{
	"let":      LET,
	"var":      VAR,
	"mut":      MUT,
	"fn":       FN,
	"fun":      FN,
	"if":       IF,
	"else":     ELSE,
	"match":    MATCH,
	"for":      FOR,
	"while":    WHILE,
	"loop":     LOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"struct":   STRUCT,
	"class":    CLASS,
	"enum":     ENUM,
	"impl":     IMPL,
	"actor":    ACTOR,
	"receive":  RECEIVE,
	"new":      NEW,
	"override": OVERRIDE,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"nil":      NULL,
	"use":      USE,
	"import":   IMPORT,
	"module":   MODULE,
	"pub":      PUB,
	"async":    ASYNC,
	"await":    AWAIT,
	"spawn":    SPAWN,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"throw":    THROW,
	"in":       IN,
	"as":       AS,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the keyword spellings, used by REPL completion.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsKeyword reports whether t is a reserved word token.
func IsKeyword(t TokenType) bool {
	for _, v := range keywords {
		if v == t {
			return true
		}
	}
	return false
}
