package evaluator

import (
	"github.com/funvibe/ruchy/internal/ast"
)

func (e *Evaluator) evalActorDeclaration(node *ast.ActorDeclaration, env *Environment) Object {
	desc := newTypeDescriptor(ActorType, node.Name, env)
	desc.Fields = fieldSpecs(node.Fields)
	for _, c := range node.Constructors {
		desc.Constructors = append(desc.Constructors, e.newFunction(c, env, desc))
	}
	for _, h := range node.Handlers {
		desc.Handlers = append(desc.Handlers, &Handler{
			Message:    h.MessageName,
			Parameters: h.Parameters,
			Pattern:    h.Pattern,
			Body:       h.Body,
		})
	}
	e.addMethods(desc, node.Methods, env)
	return e.defineType(desc, env)
}

// evalSpawnExpression instantiates an actor: spawn Counter, spawn
// Counter(1) or spawn Counter::new(1).
func (e *Evaluator) evalSpawnExpression(node *ast.SpawnExpression, env *Environment) Object {
	if call, ok := node.Target.(*ast.CallExpression); ok {
		callee := e.Eval(call.Function, env)
		if isSignal(callee) {
			return callee
		}
		if desc, ok := callee.(*TypeDescriptor); ok {
			args, named, sig := e.evalArguments(call.Arguments, env)
			if sig != nil {
				return sig
			}
			return e.instantiate(desc, args, named)
		}
	}
	target := e.Eval(node.Target, env)
	if isSignal(target) {
		return target
	}
	switch t := target.(type) {
	case *TypeDescriptor:
		return e.instantiate(t, nil, nil)
	case *ObjectMut:
		return t
	}
	return typeError("actor", target, "cannot spawn %s", typeName(target))
}

// evalSendExpression handles `a ! msg`, which discards the reply, and
// `a <? msg`, which returns it.
func (e *Evaluator) evalSendExpression(node *ast.SendExpression, env *Environment) Object {
	target := e.Eval(node.Actor, env)
	if isSignal(target) {
		return target
	}
	msg := e.Eval(node.Message, env)
	if isSignal(msg) {
		return msg
	}
	cell, ok := target.(*ObjectMut)
	if !ok || cell.Desc.Kind != ActorType {
		return typeError("actor", target, "cannot send a message to %s", typeName(target))
	}
	res := e.dispatchMessage(cell, msg)
	if node.Ask || isError(res) {
		return res
	}
	return NIL
}

// actorMethod resolves send, ask and handlers called by name.
func (e *Evaluator) actorMethod(cell *ObjectMut, name string, args []Object, named map[string]Object) (Object, bool) {
	switch name {
	case "send", "ask":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return err, true
		}
		res := e.dispatchMessage(cell, args[0])
		if name == "send" && !isError(res) {
			return NIL, true
		}
		return res, true
	}
	for _, h := range cell.Desc.Handlers {
		if h.Pattern == nil && h.Message == name {
			return e.runHandler(cell, h, nil, args, named), true
		}
	}
	return nil, false
}

// messageName is the name handlers are selected by.
func messageName(msg Object) (string, []Object) {
	switch m := msg.(type) {
	case *Variant:
		return m.Name, m.Fields
	case *Struct:
		return m.Desc.Name, nil
	case *ObjectMut:
		return m.Desc.Name, nil
	case *String:
		return m.Value, nil
	}
	return "", nil
}

// dispatchMessage runs the first handler that accepts msg: a handler
// declared for the message name, then pattern handlers in order.
func (e *Evaluator) dispatchMessage(cell *ObjectMut, msg Object) Object {
	name, payload := messageName(msg)
	for _, h := range cell.Desc.Handlers {
		if h.Pattern == nil && name != "" && h.Message == name {
			return e.runHandler(cell, h, nil, payload, nil)
		}
	}
	for _, h := range cell.Desc.Handlers {
		if h.Pattern == nil {
			continue
		}
		if h.Message != "" && h.Message != name {
			continue
		}
		if bindings, ok := e.TryMatch(h.Pattern, msg, cell.Desc.Env); ok {
			return e.runHandler(cell, h, bindings, nil, nil)
		}
	}
	return newError(NonExhaustiveMatch, "actor %s has no handler for message %s", cell.Desc.Name, msg.Inspect())
}

// runHandler evaluates one handler to completion with self bound to the
// actor cell. A handler may not re-enter its own actor.
func (e *Evaluator) runHandler(cell *ObjectMut, h *Handler, bindings []Binding, args []Object, named map[string]Object) Object {
	if cell.busy {
		return newError(AliasingViolation, "actor %s is already handling a message", cell.Desc.Name)
	}
	env := cell.Desc.Env
	if len(bindings) > 0 {
		env = NewEnclosedEnvironment(env)
		bindAll(env, bindings, false)
	}
	fn := &Function{
		Name:       h.Message,
		Parameters: h.Parameters,
		Body:       h.Body,
		Env:        env,
		Owner:      cell.Desc,
	}
	cell.busy = true
	res, _ := e.callFunction(fn, cell, args, named)
	cell.busy = false
	return res
}
