package evaluator

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/modules"
)

func (e *Evaluator) evalModuleDeclaration(node *ast.ModuleDeclaration, env *Environment) Object {
	modEnv := NewEnclosedEnvironment(env)
	if node.Body != nil {
		if res := e.evalBlock(node.Body, modEnv); isSignal(res) {
			return res
		}
	}
	if err := env.Define(node.Name, &Module{Name: node.Name, Env: modEnv}, false); err != nil {
		return newError(ImmutableAssignment, "cannot define module %s: %v", node.Name, err)
	}
	return NIL
}

// evalUseDeclaration binds names from a module: the whole target, a list
// of items, or every member for a wildcard. `use std::...` is accepted and
// binds nothing.
func (e *Evaluator) evalUseDeclaration(node *ast.UseDeclaration, env *Environment) Object {
	if len(node.Path) == 0 || node.Path[0] == config.StdModulePrefix {
		return NIL
	}
	target, err := e.resolveUse(node.Path, env)
	if err != nil {
		return err
	}

	bind := func(name string, val Object) *Error {
		if err := env.Define(name, val, false); err != nil {
			return newError(ImmutableAssignment, "cannot bind %s: %v", name, err)
		}
		return nil
	}

	switch {
	case node.Wildcard:
		mod, ok := target.(*Module)
		if !ok {
			return typeError(RUNTIME_TYPE_MODULE, target, "cannot glob-import from %s", typeName(target))
		}
		for _, name := range mod.Env.Names() {
			v, _ := mod.Env.GetLocal(name)
			if err := bind(name, v); err != nil {
				return err
			}
		}
	case len(node.Items) > 0:
		for _, item := range node.Items {
			v, err := e.member(target, item.Name)
			if err != nil {
				return err
			}
			name := item.Name
			if item.Alias != "" {
				name = item.Alias
			}
			if err := bind(name, v); err != nil {
				return err
			}
		}
	default:
		last := node.Path[len(node.Path)-1]
		name := strings.TrimSuffix(filepath.Base(last), filepath.Ext(last))
		if err := bind(name, target); err != nil {
			return err
		}
	}
	return NIL
}

// resolveUse walks a path through modules already in scope, or loads the
// file that names a prefix of it.
func (e *Evaluator) resolveUse(path []string, env *Environment) (Object, *Error) {
	var obj Object
	rest := path
	if head, ok := env.Get(path[0]); ok {
		switch head.(type) {
		case *Module, *TypeDescriptor:
			obj, rest = head, path[1:]
		}
	}
	if obj == nil {
		mod, consumed, err := e.loadModuleFile(path)
		if err != nil {
			return nil, err
		}
		obj, rest = mod, path[consumed:]
	}
	for _, seg := range rest {
		next, err := e.member(obj, seg)
		if err != nil {
			return nil, err
		}
		obj = next
	}
	return obj, nil
}

func (e *Evaluator) moduleLoader() *modules.Loader {
	if e.Loader == nil {
		e.Loader = modules.NewLoader(e.BaseDir)
	}
	return e.Loader
}

// loadModuleFile evaluates the file a use path names in a fresh global
// frame. Each file is evaluated once per evaluator.
func (e *Evaluator) loadModuleFile(path []string) (*Module, int, *Error) {
	if e.Sandboxed {
		return nil, 0, newError(PermissionDenied, "module loading is disabled in the sandbox")
	}
	loader := e.moduleLoader()
	file, consumed, err := loader.Resolve(path)
	if err != nil {
		return nil, 0, newError(ModuleError, "cannot resolve %s: %v", strings.Join(path, "::"), err)
	}
	if mod, ok := e.ModuleCache[file]; ok {
		return mod, consumed, nil
	}
	if err := loader.Begin(file); err != nil {
		return nil, 0, newError(ModuleError, "%v", err)
	}
	defer loader.Finish(file)

	src, err := loader.Load(file)
	if err != nil {
		return nil, 0, newError(ModuleError, "%v", err)
	}
	modEnv := NewGlobalEnvironment()
	prevFile := e.CurrentFile
	res := e.evalProgram(src.Program, modEnv)
	e.CurrentFile = prevFile
	if err, ok := res.(*Error); ok {
		return nil, 0, err
	}
	mod := &Module{Name: src.Name, Env: modEnv}
	e.ModuleCache[file] = mod
	return mod, consumed, nil
}
