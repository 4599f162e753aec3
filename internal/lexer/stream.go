package lexer

import "github.com/funvibe/ruchy/internal/token"

// TokenStream is a lazy token source with bounded lookahead.
type TokenStream interface {
	Next() token.Token
	// Peek returns up to n upcoming tokens without consuming them.
	Peek(n int) []token.Token
}

type lexerStream struct {
	l   *Lexer
	buf []token.Token
	eof bool
}

// NewTokenStream wraps a lexer; tokens are produced on demand.
func NewTokenStream(l *Lexer) TokenStream {
	return &lexerStream{l: l}
}

func (s *lexerStream) fill(n int) {
	for len(s.buf) < n && !s.eof {
		t := s.l.NextToken()
		s.buf = append(s.buf, t)
		if t.Type == token.EOF {
			s.eof = true
		}
	}
}

func (s *lexerStream) Next() token.Token {
	s.fill(1)
	if len(s.buf) == 0 {
		return token.Token{Type: token.EOF}
	}
	t := s.buf[0]
	if t.Type == token.EOF {
		return t
	}
	s.buf = s.buf[1:]
	return t
}

func (s *lexerStream) Peek(n int) []token.Token {
	s.fill(n)
	if n > len(s.buf) {
		n = len(s.buf)
	}
	return s.buf[:n]
}

type sliceStream struct {
	toks []token.Token
	pos  int
}

// NewSliceStream replays an already tokenized input.
func NewSliceStream(toks []token.Token) TokenStream {
	return &sliceStream{toks: toks}
}

func (s *sliceStream) Next() token.Token {
	if s.pos >= len(s.toks) {
		return token.Token{Type: token.EOF}
	}
	t := s.toks[s.pos]
	if t.Type != token.EOF {
		s.pos++
	}
	return t
}

func (s *sliceStream) Peek(n int) []token.Token {
	end := s.pos + n
	if end > len(s.toks) {
		end = len(s.toks)
	}
	return s.toks[s.pos:end]
}
