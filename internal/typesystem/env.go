package typesystem

import "sort"

// TypeEnv maps names to schemes. Enclosed environments shadow their outer
// environment; lookups walk outward.
type TypeEnv struct {
	store map[string]*Scheme
	outer *TypeEnv
}

func NewTypeEnv() *TypeEnv {
	return &TypeEnv{store: make(map[string]*Scheme)}
}

func NewEnclosedTypeEnv(outer *TypeEnv) *TypeEnv {
	env := NewTypeEnv()
	env.outer = outer
	return env
}

func (e *TypeEnv) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.outer {
		if s, ok := env.store[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// LookupLocal looks name up in this frame only.
func (e *TypeEnv) LookupLocal(name string) (*Scheme, bool) {
	s, ok := e.store[name]
	return s, ok
}

// Set binds name in this frame.
func (e *TypeEnv) Set(name string, s *Scheme) {
	e.store[name] = s
}

func (e *TypeEnv) Remove(name string) {
	delete(e.store, name)
}

// Names lists every visible name, sorted.
func (e *TypeEnv) Names() []string {
	seen := map[string]bool{}
	var names []string
	for env := e; env != nil; env = env.outer {
		for k := range env.store {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Own lists the names bound in this frame only, sorted.
func (e *TypeEnv) Own() []string {
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *TypeEnv) FreeTypeVariables() []TVar {
	var vars []TVar
	for env := e; env != nil; env = env.outer {
		keys := make([]string, 0, len(env.store))
		for k := range env.store {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vars = append(vars, env.store[k].FreeTypeVariables()...)
		}
	}
	return uniqueTVars(vars)
}

// Apply returns a flattened copy with subst applied to every scheme.
func (e *TypeEnv) Apply(subst Subst) *TypeEnv {
	out := NewTypeEnv()
	for _, name := range e.Names() {
		s, _ := e.Lookup(name)
		out.store[name] = s.Apply(subst)
	}
	return out
}

// Refine applies subst to the schemes stored in this frame, in place.
func (e *TypeEnv) Refine(subst Subst) {
	for k, s := range e.store {
		e.store[k] = s.Apply(subst)
	}
}

// Clone copies the whole chain into a single independent frame.
func (e *TypeEnv) Clone() *TypeEnv {
	return e.Apply(Subst{})
}
