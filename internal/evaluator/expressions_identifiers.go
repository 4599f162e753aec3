package evaluator

import (
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	// Unbound capitalised names are message tags.
	if isCapitalized(node.Value) {
		return &Variant{Name: node.Value}
	}
	return newError(UndefinedName, "undefined variable: %s", node.Value)
}

// evalPathExpression resolves A::B::c. Flat builtin names such as
// Vec::new are bound directly; otherwise the head is a type or module.
func (e *Evaluator) evalPathExpression(node *ast.PathExpression, env *Environment) Object {
	full := strings.Join(node.Segments, "::")
	if val, ok := env.Get(full); ok {
		return val
	}
	if node.Segments[0] == "std" {
		return newError(UndefinedName, "undefined name: %s", full)
	}
	head, ok := env.Get(node.Segments[0])
	if !ok {
		return newError(UndefinedName, "undefined name: %s", node.Segments[0])
	}
	cur := head
	for i, seg := range node.Segments[1:] {
		next, err := e.member(cur, seg)
		if err != nil {
			err.Message = strings.Join(node.Segments[:i+2], "::") + ": " + err.Message
			return err
		}
		cur = next
	}
	return cur
}

// member resolves one `::` step.
func (e *Evaluator) member(container Object, name string) (Object, *Error) {
	switch c := container.(type) {
	case *Module:
		if val, ok := c.Member(name); ok {
			return val, nil
		}
		return nil, newError(UndefinedName, "module %s has no member %s", c.Name, name)
	case *TypeDescriptor:
		return e.typeMember(c, name)
	}
	return nil, typeError("module or type", container, "%s has no members", typeName(container))
}

func (e *Evaluator) typeMember(desc *TypeDescriptor, name string) (Object, *Error) {
	if v, ok := desc.variant(name); ok {
		if v.Arity == 0 {
			return &Variant{Enum: desc.Name, Name: v.Name}, nil
		}
		return e.variantConstructor(desc, v), nil
	}
	if fn, ok := desc.Statics[name]; ok {
		return fn, nil
	}
	if fn, ok := desc.Methods[name]; ok {
		return fn, nil
	}
	// Calling a descriptor instantiates it, so Type::new is the type.
	if name == "new" && desc.Kind != EnumType {
		return desc, nil
	}
	return nil, newError(UndefinedName, "%s has no associated item %s", desc.Name, name)
}

func (e *Evaluator) variantConstructor(desc *TypeDescriptor, v *VariantSpec) *Builtin {
	return &Builtin{Name: desc.Name + "::" + v.Name, Fn: func(e *Evaluator, args ...Object) Object {
		if err := checkArgs(desc.Name+"::"+v.Name, args, v.Arity, v.Arity); err != nil {
			return err
		}
		return &Variant{Enum: desc.Name, Name: v.Name, Fields: append([]Object(nil), args...)}
	}}
}
