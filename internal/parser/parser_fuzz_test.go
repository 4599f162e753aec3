package parser

import (
	"testing"

	"github.com/funvibe/ruchy/internal/ast"
)

// FuzzParse checks that arbitrary input never panics the parser and that
// a clean parse yields a tree whose spans stay inside the source.
func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"fun main() { println(\"Hello\") }",
		"let mut x = 1 + 2 * 3",
		"if true { x } else { y }",
		"match xs { [a, ..rest] => a, _ => 0 }",
		"class C { mut n: Int = 0; fn inc(&mut self) { self.n += 1 } }",
		"f\"{a} and {b:?}\"",
		"[x * x for x in 1..=3 if x != 2]",
		"'outer: for i in 0..3 { break 'outer }",
		"((((",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		prog, errs := Parse(src)
		if len(errs) > 0 || prog == nil {
			return
		}
		var walk func(n ast.Node)
		walk = func(n ast.Node) {
			if n == nil {
				return
			}
			sp := n.GetSpan()
			if int(sp.End) > len(src) || sp.Start > sp.End {
				t.Fatalf("%T span %d..%d outside source of length %d", n, sp.Start, sp.End, len(src))
			}
			for _, c := range ast.Children(n) {
				walk(c)
			}
		}
		walk(prog)
	})
}
