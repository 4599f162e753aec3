package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/ruchy/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // unterminated string
	ErrL002 ErrorCode = "L002" // unterminated char literal
	ErrL003 ErrorCode = "L003" // invalid escape
	ErrL004 ErrorCode = "L004" // invalid numeric literal
	ErrL005 ErrorCode = "L005" // unknown character

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing token
	ErrP003 ErrorCode = "P003" // invalid construct
	ErrP004 ErrorCode = "P004" // more than one rest in a list pattern
	ErrP005 ErrorCode = "P005" // duplicate field in struct pattern
	ErrP006 ErrorCode = "P006" // no prefix parse function

	// Types
	ErrT001 ErrorCode = "T001" // type mismatch
	ErrT002 ErrorCode = "T002" // occurs check
	ErrT003 ErrorCode = "T003" // unbound name
	ErrT004 ErrorCode = "T004" // arity mismatch
	ErrT005 ErrorCode = "T005" // unification failure / unknown method shape

	// Runtime
	ErrR001 ErrorCode = "R001"

	// Resource limits
	ErrX001 ErrorCode = "X001"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

var codeKinds = map[ErrorCode]string{
	ErrL001: "LexError", ErrL002: "LexError", ErrL003: "LexError", ErrL004: "LexError", ErrL005: "LexError",
	ErrP001: "ParseError", ErrP002: "ParseError", ErrP003: "ParseError", ErrP004: "ParseError", ErrP005: "ParseError", ErrP006: "ParseError",
	ErrT001: "TypeError", ErrT002: "TypeError", ErrT003: "TypeError", ErrT004: "TypeError", ErrT005: "TypeError",
	ErrR001: "RuntimeError",
	ErrX001: "ResourceError",
}

// Kind is the taxonomy family of the code: LexError, ParseError, TypeError,
// RuntimeError or ResourceError.
func (c ErrorCode) Kind() string {
	if k, ok := codeKinds[c]; ok {
		return k
	}
	return "Error"
}

type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	Span     token.Span
	Message  string
	File     string
	Severity Severity
	// Expected and Found are filled by the parser for unexpected-token errors.
	Expected []string
	Found    string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Span: tok.Span, Message: msg}
}

// NewSpanError builds a diagnostic anchored on a span instead of a token.
func NewSpanError(code ErrorCode, span token.Span, line, column int, msg string) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   token.Token{Span: span, Line: line, Column: column},
		Span:    span,
		Message: msg,
	}
}

func NewWarning(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	d := NewError(code, tok, msg)
	d.Severity = SeverityWarning
	return d
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Token.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Token.Line, e.Token.Column)
	}
	fmt.Fprintf(&b, "%s[%s]: %s", e.Severity, e.Code, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s", strings.Join(e.Expected, " or "))
		if e.Found != "" {
			fmt.Fprintf(&b, ", found %s", e.Found)
		}
		b.WriteString(")")
	}
	return b.String()
}

// WithFile returns the diagnostic tagged with a file path.
func (e *DiagnosticError) WithFile(path string) *DiagnosticError {
	e.File = path
	return e
}

// HasErrors reports whether any diagnostic in errs is an error (not a warning).
func HasErrors(errs []*DiagnosticError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
