package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalFunctionDeclaration(node *ast.FunctionDeclaration, env *Environment) Object {
	fn := e.newFunction(node, env, nil)
	if err := env.Define(node.Name, fn, false); err != nil {
		return newError(ImmutableAssignment, "cannot define %s: %v", node.Name, err)
	}
	return NIL
}

func (e *Evaluator) newFunction(node *ast.FunctionDeclaration, env *Environment, owner *TypeDescriptor) *Function {
	fn := &Function{
		Name:       node.Name,
		Parameters: node.Parameters,
		Env:        env,
		IsAsync:    node.IsAsync,
		Receiver:   node.Receiver,
		Owner:      owner,
		Line:       node.Token.Line,
	}
	if node.Body != nil {
		fn.Body = node.Body
	}
	return fn
}

func fieldSpecs(decls []*ast.FieldDecl) []FieldSpec {
	specs := make([]FieldSpec, len(decls))
	for i, f := range decls {
		specs[i] = FieldSpec{Name: f.Name, Default: f.Default, Mutable: f.Mutable}
	}
	return specs
}

// addMethods sorts declarations into instance methods and statics.
func (e *Evaluator) addMethods(desc *TypeDescriptor, methods []*ast.FunctionDeclaration, env *Environment) {
	for _, m := range methods {
		fn := e.newFunction(m, env, desc)
		if m.Receiver == ast.ReceiverNone {
			desc.Statics[m.Name] = fn
		} else {
			desc.Methods[m.Name] = fn
		}
	}
}

func (e *Evaluator) defineType(desc *TypeDescriptor, env *Environment) Object {
	if err := env.Define(desc.Name, desc, false); err != nil {
		return newError(ImmutableAssignment, "cannot define %s: %v", desc.Name, err)
	}
	return NIL
}

func (e *Evaluator) evalStructDeclaration(node *ast.StructDeclaration, env *Environment) Object {
	desc := newTypeDescriptor(StructType, node.Name, env)
	desc.Fields = fieldSpecs(node.Fields)
	return e.defineType(desc, env)
}

func (e *Evaluator) evalClassDeclaration(node *ast.ClassDeclaration, env *Environment) Object {
	desc := newTypeDescriptor(ClassType, node.Name, env)
	desc.Fields = fieldSpecs(node.Fields)
	for _, c := range node.Constructors {
		desc.Constructors = append(desc.Constructors, e.newFunction(c, env, desc))
	}
	e.addMethods(desc, node.Methods, env)
	return e.defineType(desc, env)
}

func (e *Evaluator) evalEnumDeclaration(node *ast.EnumDeclaration, env *Environment) Object {
	desc := newTypeDescriptor(EnumType, node.Name, env)
	next := int64(0)
	for _, v := range node.Variants {
		spec := &VariantSpec{Name: v.Name, Arity: len(v.Fields), Discriminant: next}
		if v.Discriminant != nil {
			d := e.Eval(v.Discriminant, env)
			if isSignal(d) {
				return d
			}
			n, err := intArg("enum discriminant", d)
			if err != nil {
				return err
			}
			spec.Discriminant = n
		}
		next = spec.Discriminant + 1
		desc.Variants = append(desc.Variants, spec)
	}
	return e.defineType(desc, env)
}

// evalImplBlock attaches methods to a user type, or to a builtin type such
// as Int or String.
func (e *Evaluator) evalImplBlock(node *ast.ImplBlock, env *Environment) Object {
	var desc *TypeDescriptor
	if obj, ok := env.Get(node.TypeName); ok {
		if d, isDesc := obj.(*TypeDescriptor); isDesc {
			desc = d
		}
	}
	if desc == nil {
		desc = e.Impls[node.TypeName]
		if desc == nil {
			desc = newTypeDescriptor(BuiltinType, node.TypeName, env)
			e.Impls[node.TypeName] = desc
		}
	}
	e.addMethods(desc, node.Methods, env)
	return NIL
}

// instantiate builds an instance, through a declared constructor when the
// type has one.
func (e *Evaluator) instantiate(desc *TypeDescriptor, args []Object, named map[string]Object) Object {
	switch desc.Kind {
	case EnumType:
		return newError(TypeMismatch, "cannot instantiate enum %s; use one of its variants", desc.Name)
	case BuiltinType:
		return newError(TypeMismatch, "cannot instantiate builtin type %s", desc.Name)
	}
	if ctor := pickConstructor(desc, len(args)+len(named)); ctor != nil {
		return e.runConstructor(desc, ctor, args, named)
	}
	if len(args) == 1 && len(named) == 0 {
		if rec, ok := args[0].(*Record); ok && recordMatchesFields(desc, rec) {
			named = map[string]Object{}
			for _, n := range rec.Fields.Names() {
				named[n], _ = rec.Fields.Get(n)
			}
			args = nil
		}
	}
	return e.newInstance(desc, args, named)
}

// recordMatchesFields reports whether every key of rec names a field, so
// the record is taken as named arguments rather than one positional value.
func recordMatchesFields(desc *TypeDescriptor, rec *Record) bool {
	for _, n := range rec.Fields.Names() {
		if _, ok := desc.field(n); !ok {
			return false
		}
	}
	return true
}

func pickConstructor(desc *TypeDescriptor, argc int) *Function {
	if len(desc.Constructors) == 0 {
		return nil
	}
	for _, c := range desc.Constructors {
		if argc >= c.requiredParams() && argc <= len(c.Parameters) {
			return c
		}
	}
	return desc.Constructors[0]
}

func (e *Evaluator) runConstructor(desc *TypeDescriptor, ctor *Function, args []Object, named map[string]Object) Object {
	fields := NewFieldMap()
	for _, f := range desc.Fields {
		var val Object = NIL
		if f.Default != nil {
			val = e.Eval(f.Default, desc.Env)
			if isSignal(val) {
				return val
			}
		}
		fields.Set(f.Name, val)
	}
	cell := &ObjectMut{Desc: desc, Fields: fields, initializing: true}
	res, _ := e.callFunction(ctor, cell, args, named)
	cell.initializing = false
	if isError(res) {
		return res
	}
	switch r := res.(type) {
	case *Struct:
		if r.Desc == desc {
			return r
		}
	case *ObjectMut:
		if r.Desc == desc {
			return r
		}
	}
	if desc.Kind == StructType {
		return &Struct{Desc: desc, Fields: cell.Fields}
	}
	return cell
}

// newInstance fills fields from positional arguments in declaration order,
// then named ones, then declared defaults.
func (e *Evaluator) newInstance(desc *TypeDescriptor, positional []Object, named map[string]Object) Object {
	if len(positional) > len(desc.Fields) {
		return newError(ArityError, "%s has %d field(s), got %d arguments", desc.Name, len(desc.Fields), len(positional))
	}
	fields := NewFieldMap()
	for i, f := range desc.Fields {
		var val Object
		switch v, ok := named[f.Name]; {
		case i < len(positional):
			if ok {
				return newError(ArityError, "field %s given both positionally and by name", f.Name)
			}
			val = positional[i]
		case ok:
			val = v
		case f.Default != nil:
			val = e.Eval(f.Default, desc.Env)
			if isSignal(val) {
				return val
			}
		default:
			return newError(ArityError, "missing field %s in %s", f.Name, desc.Name)
		}
		fields.Set(f.Name, val)
	}
	for n := range named {
		if _, ok := desc.field(n); !ok {
			return newError(KeyNotFound, "%s has no field %s", desc.Name, n)
		}
	}
	if err := e.charge(objectOverhead + wordSize*int64(fields.Len())); err != nil {
		return err
	}
	if desc.Kind == StructType {
		return &Struct{Desc: desc, Fields: fields}
	}
	return &ObjectMut{Desc: desc, Fields: fields}
}
