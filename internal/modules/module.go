package modules

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

// Source is a parsed module file.
type Source struct {
	Name    string
	Path    string
	Program *ast.Program
	// Exports holds the names declared at the top level of the file.
	Exports map[string]bool
}

func newSource(path string, prog *ast.Program) *Source {
	base := filepath.Base(path)
	src := &Source{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Path:    path,
		Program: prog,
		Exports: make(map[string]bool),
	}
	for _, form := range prog.Forms {
		if name := declaredName(form); name != "" {
			src.Exports[name] = true
		}
	}
	return src
}

// declaredName is the name a top-level form binds, if any.
func declaredName(form ast.Expression) string {
	switch n := form.(type) {
	case *ast.FunctionDeclaration:
		return n.Name
	case *ast.StructDeclaration:
		return n.Name
	case *ast.ClassDeclaration:
		return n.Name
	case *ast.ActorDeclaration:
		return n.Name
	case *ast.EnumDeclaration:
		return n.Name
	case *ast.ModuleDeclaration:
		return n.Name
	case *ast.LetExpression:
		if id, ok := n.Pattern.(*ast.IdentifierPattern); ok && n.Body == nil {
			return id.Name
		}
	}
	return ""
}

// ExportNames returns the exported names in sorted order.
func (s *Source) ExportNames() []string {
	names := make([]string, 0, len(s.Exports))
	for n := range s.Exports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
