package typesystem

import (
	"fmt"
	"strings"
)

// VarGen hands out fresh type variables t1, t2, ...
type VarGen struct {
	next int
}

func (g *VarGen) Fresh() TVar {
	g.next++
	return TVar{Name: fmt.Sprintf("t%d", g.next)}
}

// Reserve makes later fresh variables skip t1..tn.
func (g *VarGen) Reserve(n int) {
	if n > g.next {
		g.next = n
	}
}

// Scheme is a type with universally quantified variables.
type Scheme struct {
	Vars []TVar
	Type Type
}

// Mono wraps a monotype in an empty-quantifier scheme.
func Mono(t Type) *Scheme {
	return &Scheme{Type: t}
}

// Instantiate replaces every quantified variable with a fresh one.
func (s *Scheme) Instantiate(gen *VarGen) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	subst := Subst{}
	for _, v := range s.Vars {
		subst[v.Name] = gen.Fresh()
	}
	return s.Type.Apply(subst)
}

// FreeTypeVariables returns the body's free variables minus the quantified ones.
func (s *Scheme) FreeTypeVariables() []TVar {
	bound := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		bound[v.Name] = true
	}
	var free []TVar
	for _, v := range FreeVars(s.Type) {
		if !bound[v.Name] {
			free = append(free, v)
		}
	}
	return free
}

// Apply substitutes the free variables of the scheme, leaving bound ones.
func (s *Scheme) Apply(subst Subst) *Scheme {
	if len(s.Vars) == 0 {
		return &Scheme{Type: s.Type.Apply(subst)}
	}
	inner := Subst{}
	for k, v := range subst {
		inner[k] = v
	}
	for _, v := range s.Vars {
		delete(inner, v.Name)
	}
	return &Scheme{Vars: s.Vars, Type: s.Type.Apply(inner)}
}

// String prints quantified variables as a, b, c... for readability.
func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	rename := Subst{}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = letterName(i)
		rename[v.Name] = TVar{Name: names[i]}
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Type.Apply(rename))
}

func letterName(i int) string {
	name := string(rune('a' + i%26))
	if i >= 26 {
		name += fmt.Sprint(i / 26)
	}
	return name
}

// Generalize quantifies exactly the free variables of t that are not free
// in env.
func Generalize(env *TypeEnv, t Type) *Scheme {
	envFree := map[string]bool{}
	if env != nil {
		for _, v := range env.FreeTypeVariables() {
			envFree[v.Name] = true
		}
	}
	var vars []TVar
	for _, v := range FreeVars(t) {
		if !envFree[v.Name] {
			vars = append(vars, v)
		}
	}
	return &Scheme{Vars: vars, Type: t}
}
