package prettyprinter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/ruchy/internal/parser"
)

func TestTreePrinter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "let",
			src:  "let mut x = 1 + 2",
			want: []string{
				"Program",
				"  LetExpression mut",
				"    IdentifierPattern mut x",
				"    InfixExpression +",
				"      IntegerLiteral 1",
				"      IntegerLiteral 2",
			},
		},
		{
			name: "method call",
			src:  `xs.join("-")`,
			want: []string{
				"Program",
				"  MethodCallExpression .join",
				"    Identifier xs",
				`    StringLiteral "-"`,
			},
		},
		{
			name: "inclusive range",
			src:  "1..=3",
			want: []string{
				"Program",
				"  RangeExpression ..=",
				"    IntegerLiteral 1",
				"    IntegerLiteral 3",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, errs := parser.Parse(tt.src)
			if len(errs) > 0 {
				t.Fatalf("parse %q: %v", tt.src, errs[0])
			}
			got := strings.Split(strings.TrimRight(Tree(prog), "\n"), "\n")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTreePrinterPositions(t *testing.T) {
	prog, _ := parser.Parse("a\nb")
	out := NewTreePrinter().WithPositions().Print(prog)
	if !strings.Contains(out, "Identifier b @2:1") {
		t.Errorf("missing position for b:\n%s", out)
	}
}
