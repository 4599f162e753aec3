package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

// --- Tree Printer (one node per line, children indented) ---

type TreePrinter struct {
	buf       bytes.Buffer
	indent    int
	positions bool
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// WithPositions appends the line:column of every node.
func (p *TreePrinter) WithPositions() *TreePrinter {
	p.positions = true
	return p
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

// Print renders n and everything below it. It can be called repeatedly;
// output accumulates.
func (p *TreePrinter) Print(n ast.Node) string {
	p.node(n)
	return p.buf.String()
}

// Tree is a convenience wrapper around a fresh printer.
func Tree(n ast.Node) string {
	return NewTreePrinter().Print(n)
}

func (p *TreePrinter) node(n ast.Node) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	p.buf.WriteString(Label(n))
	if p.positions {
		tok := n.GetToken()
		fmt.Fprintf(&p.buf, " @%d:%d", tok.Line, tok.Column)
	}
	p.buf.WriteByte('\n')

	p.indent++
	for _, c := range ast.Children(n) {
		p.node(c)
	}
	p.indent--
}

// Label names a node by its kind and its most salient scalar fields.
func Label(n ast.Node) string {
	kind := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	detail := ""
	switch n := n.(type) {
	case *ast.Program:
		if n.File != "" {
			detail = n.File
		}
	case *ast.Identifier:
		detail = n.Value
	case *ast.IntegerLiteral:
		detail = strconv.FormatInt(n.Value, 10) + n.Suffix
	case *ast.FloatLiteral:
		detail = strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		detail = strconv.Quote(n.Value)
	case *ast.CharLiteral:
		detail = strconv.QuoteRune(n.Value)
	case *ast.ByteLiteral:
		detail = "b" + strconv.QuoteRune(rune(n.Value))
	case *ast.BooleanLiteral:
		detail = strconv.FormatBool(n.Value)
	case *ast.AtomLiteral:
		detail = ":" + n.Name
	case *ast.PrefixExpression:
		detail = n.Operator
	case *ast.InfixExpression:
		detail = n.Operator
	case *ast.CompoundAssignExpression:
		detail = n.Operator
	case *ast.LetExpression:
		if n.Mutable {
			detail = "mut"
		}
	case *ast.WhileExpression:
		detail = loopLabel(n.Label)
	case *ast.ForExpression:
		detail = loopLabel(n.Label)
	case *ast.LoopExpression:
		detail = loopLabel(n.Label)
	case *ast.BreakExpression:
		detail = loopLabel(n.Label)
	case *ast.ContinueExpression:
		detail = loopLabel(n.Label)
	case *ast.Parameter:
		detail = n.Name
		if n.Mutable {
			detail = "mut " + detail
		}
	case *ast.FunctionLiteral:
		if n.IsAsync {
			detail = "async"
		}
	case *ast.NamedArgument:
		detail = n.Name
	case *ast.MethodCallExpression:
		detail = "." + n.Method
	case *ast.FieldAccessExpression:
		detail = "." + n.Field
	case *ast.PathExpression:
		detail = strings.Join(n.Segments, "::")
	case *ast.RangeExpression:
		detail = ".."
		if n.Inclusive {
			detail = "..="
		}
	case *ast.ObjectField:
		detail = n.Key
	case *ast.StructLiteral:
		detail = n.Name
	case *ast.ComprehensionExpression:
		detail = n.Kind.String()
	case *ast.SendExpression:
		detail = "!"
		if n.Ask {
			detail = "<?"
		}
	case *ast.FunctionDeclaration:
		detail = n.Name
		if n.Receiver != "" {
			detail = n.Receiver + "::" + n.Name
		}
	case *ast.FieldDecl:
		detail = n.Name
	case *ast.StructDeclaration:
		detail = n.Name
	case *ast.ClassDeclaration:
		detail = n.Name
	case *ast.ActorDeclaration:
		detail = n.Name
	case *ast.ReceiveHandler:
		detail = n.MessageName
	case *ast.EnumDeclaration:
		detail = n.Name
	case *ast.EnumVariantDecl:
		detail = n.Name
	case *ast.ImplBlock:
		detail = n.TypeName
		if n.Trait != "" {
			detail = n.Trait + " for " + n.TypeName
		}
	case *ast.UseDeclaration:
		detail = strings.Join(n.Path, "::")
	case *ast.UseItem:
		detail = n.Name
		if n.Alias != "" {
			detail += " as " + n.Alias
		}
	case *ast.ModuleDeclaration:
		detail = n.Name
	case *ast.IdentifierPattern:
		detail = n.Name
		if n.Mutable {
			detail = "mut " + detail
		}
	case *ast.RestPattern:
		detail = ".." + n.Name
	case *ast.FieldPattern:
		detail = n.Name
	case *ast.StructPattern:
		detail = n.Name
	case *ast.ResultPattern:
		detail = "Err"
		if n.IsOk {
			detail = "Ok"
		}
	case *ast.VariantPattern:
		detail = strings.Join(n.Path, "::")
	case *ast.AtPattern:
		detail = n.Name
	case *ast.NamedType:
		detail = n.Name
	case *ast.ReferenceType:
		detail = "&"
		if n.Mutable {
			detail = "&mut"
		}
	}
	if detail == "" {
		return kind
	}
	return kind + " " + detail
}

func loopLabel(l string) string {
	if l == "" {
		return ""
	}
	return "'" + l
}
