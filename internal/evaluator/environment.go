package evaluator

import (
	"errors"
	"sort"
	"sync"
)

var (
	errUndefined = errors.New("undefined name")
	errImmutable = errors.New("immutable binding")
	errSealed    = errors.New("sealed environment")
)

type binding struct {
	value   Object
	mutable bool
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment is one lexical frame. Frames are shared by reference, so
// closures over the same frame observe each other's writes.
type Environment struct {
	mu    sync.RWMutex
	store map[string]*binding
	outer *Environment
	// sealed frames reject writes; checkpoints are stored sealed.
	sealed bool
	// frozen frames (the builtin prelude) are shared rather than copied
	// when an environment is cloned.
	frozen bool
}

func (e *Environment) Outer() *Environment { return e.outer }

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	b, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return b.value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// GetLocal looks name up in this frame only.
func (e *Environment) GetLocal(name string) (Object, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	return nil, false
}

// Set binds name immutably in this frame, shadowing any earlier binding.
func (e *Environment) Set(name string, val Object) Object {
	e.Define(name, val, false)
	return val
}

// SetMutable binds name mutably in this frame.
func (e *Environment) SetMutable(name string, val Object) Object {
	e.Define(name, val, true)
	return val
}

func (e *Environment) Define(name string, val Object, mutable bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sealed {
		return errSealed
	}
	e.store[name] = &binding{value: val, mutable: mutable}
	return nil
}

// Assign updates the nearest binding of name. It fails when the name is
// unbound, bound immutably, or bound in a sealed frame.
func (e *Environment) Assign(name string, val Object) error {
	e.mu.Lock()
	b, ok := e.store[name]
	if ok {
		defer e.mu.Unlock()
		switch {
		case e.sealed:
			return errSealed
		case !b.mutable:
			return errImmutable
		}
		b.value = val
		return nil
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return errUndefined
}

// IsMutable reports whether the nearest binding of name is mutable.
func (e *Environment) IsMutable(name string) (mutable, found bool) {
	for env := e; env != nil; env = env.outer {
		env.mu.RLock()
		b, ok := env.store[name]
		env.mu.RUnlock()
		if ok {
			return b.mutable, true
		}
	}
	return false, false
}

func (e *Environment) Remove(name string) {
	e.mu.Lock()
	delete(e.store, name)
	e.mu.Unlock()
}

// Names returns this frame's own names, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

// AllNames returns every name visible from this frame, sorted.
func (e *Environment) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for env := e; env != nil; env = env.outer {
		for _, n := range env.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// GetStore returns a copy of this frame's bindings.
func (e *Environment) GetStore() map[string]Object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	copy := make(map[string]Object, len(e.store))
	for k, b := range e.store {
		copy[k] = b.value
	}
	return copy
}

func (e *Environment) Seal()        { e.mu.Lock(); e.sealed = true; e.mu.Unlock() }
func (e *Environment) Sealed() bool { e.mu.RLock(); defer e.mu.RUnlock(); return e.sealed }

// Freeze marks the frame as shared prelude state; it is sealed too.
func (e *Environment) Freeze() {
	e.mu.Lock()
	e.frozen = true
	e.sealed = true
	e.mu.Unlock()
}
