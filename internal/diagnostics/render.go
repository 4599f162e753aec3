package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether f is a terminal that can show colors.
func ColorEnabled(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render formats a diagnostic as a header line followed, when the source is
// available, by the offending line and a caret under the span start.
func Render(source string, e *DiagnosticError, colored bool) string {
	var b strings.Builder
	header := fmt.Sprintf("%s[%s] %s", e.Severity, e.Code.Kind(), e.Message)
	if e.Token.Line > 0 {
		header = fmt.Sprintf("%s[%s] at %d:%d: %s", e.Severity, e.Code.Kind(), e.Token.Line, e.Token.Column, e.Message)
	}
	if len(e.Expected) > 0 {
		header += " (expected " + strings.Join(e.Expected, " or ")
		if e.Found != "" {
			header += ", found " + e.Found
		}
		header += ")"
	}
	if colored {
		c := color.New(color.FgRed, color.Bold)
		if e.Severity == SeverityWarning {
			c = color.New(color.FgYellow, color.Bold)
		}
		c.EnableColor()
		header = c.Sprint(header)
	}
	b.WriteString(header)

	line, col := e.Token.Line, e.Token.Column
	if line == 0 && e.Span.End > 0 {
		line, col = LineColumn(source, int(e.Span.Start))
	}
	if source == "" || line <= 0 {
		return b.String()
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return b.String()
	}
	text := strings.TrimRight(lines[line-1], "\r")
	fmt.Fprintf(&b, "\n%4d | %s", line, text)
	pad := ""
	if col > 1 {
		pad = caretPad(text, col-1)
	}
	width := e.Span.Len()
	if width < 1 {
		width = 1
	}
	if rest := len(text) - len(pad); width > rest && rest > 0 {
		width = rest
	}
	caret := "^" + strings.Repeat("~", width-1)
	if colored {
		c := color.New(color.FgGreen)
		c.EnableColor()
		caret = c.Sprint(caret)
	}
	fmt.Fprintf(&b, "\n     | %s%s", pad, caret)
	return b.String()
}

// caretPad keeps tabs so the caret lines up with the echoed source.
func caretPad(text string, n int) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if i >= n {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	for ; i < n; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

// LineColumn converts a byte offset to a 1-based line and rune column.
func LineColumn(source string, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, col := 1, 1
	for _, r := range source[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Print writes every diagnostic to w.
func Print(w io.Writer, source string, errs []*DiagnosticError, colored bool) {
	for _, e := range errs {
		fmt.Fprintln(w, Render(source, e, colored))
	}
}
