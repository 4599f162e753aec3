package repl

// Frame kinds of the continuation scanner. Brackets use their own rune.
const (
	inFString = 'f' // literal text of an f-string
	inInterp  = 'i' // an expression inside f-string braces
)

// NeedsContinuation reports whether text ends inside an open bracket, an
// unterminated string or an unterminated block comment. Mismatched
// closers are not a continuation; the parser reports them.
func NeedsContinuation(text string) bool {
	rs := []rune(text)
	var stack []rune
	top := func() rune {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}
	pop := func() { stack = stack[:len(stack)-1] }

	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if top() == inFString {
			switch {
			case c == '\\':
				i++
			case c == '"':
				pop()
			case c == '{' && i+1 < len(rs) && rs[i+1] == '{':
				i++
			case c == '{':
				stack = append(stack, inInterp)
			}
			continue
		}

		switch c {
		case '/':
			if i+1 < len(rs) && rs[i+1] == '/' {
				for i < len(rs) && rs[i] != '\n' {
					i++
				}
			} else if i+1 < len(rs) && rs[i+1] == '*' {
				end := indexFrom(rs, i+2, '*', '/')
				if end < 0 {
					return true
				}
				i = end + 1
			}
		case '"':
			switch prefixOf(rs, i) {
			case 'f':
				stack = append(stack, inFString)
			case 'r':
				end := indexRune(rs, i+1, '"')
				if end < 0 {
					return true
				}
				i = end
			default:
				end := closingQuote(rs, i+1, '"')
				if end < 0 {
					return true
				}
				i = end
			}
		case '\'':
			// 'a' and '\n' are chars; anything else starts a label.
			if i+2 < len(rs) && rs[i+1] != '\\' && rs[i+2] == '\'' {
				i += 2
			} else if i+1 < len(rs) && rs[i+1] == '\\' {
				if end := closingQuote(rs, i+1, '\''); end >= 0 {
					i = end
				}
			}
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			switch {
			case c == '}' && top() == inInterp:
				pop()
			case len(stack) > 0 && top() == opener(c):
				pop()
			default:
				return false
			}
		}
	}
	return len(stack) > 0
}

func opener(c rune) rune {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	}
	return '{'
}

// prefixOf returns the string prefix letter before the quote at i, if it
// is a standalone f or r rather than the end of an identifier.
func prefixOf(rs []rune, i int) rune {
	if i == 0 {
		return 0
	}
	p := rs[i-1]
	if p != 'f' && p != 'r' {
		return 0
	}
	if i >= 2 && isIdentRune(rs[i-2]) {
		return 0
	}
	return p
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// closingQuote finds the unescaped quote q at or after from.
func closingQuote(rs []rune, from int, q rune) int {
	for j := from; j < len(rs); j++ {
		switch rs[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

func indexRune(rs []rune, from int, r rune) int {
	for j := from; j < len(rs); j++ {
		if rs[j] == r {
			return j
		}
	}
	return -1
}

// indexFrom finds the two-rune sequence a b at or after from and returns
// the index of a.
func indexFrom(rs []rune, from int, a, b rune) int {
	for j := from; j+1 < len(rs); j++ {
		if rs[j] == a && rs[j+1] == b {
			return j
		}
	}
	return -1
}
