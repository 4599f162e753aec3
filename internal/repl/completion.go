package repl

import (
	"sort"
	"strings"

	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/token"
)

// GetCompletions returns the candidates starting with prefix, sorted.
// A leading ':' completes commands; "x.f" completes the fields and
// methods of x; "m::f" completes the members of module or type m.
// Otherwise candidates are the names in scope plus the keywords.
func (s *Session) GetCompletions(prefix string) []string {
	if strings.HasPrefix(prefix, ":") {
		return filterPrefix(commandNames(), prefix, "")
	}
	if i := strings.LastIndex(prefix, "::"); i > 0 {
		return filterPrefix(s.pathMembers(prefix[:i]), prefix[i+2:], prefix[:i+2])
	}
	if i := strings.LastIndex(prefix, "."); i > 0 {
		return filterPrefix(s.members(prefix[:i]), prefix[i+1:], prefix[:i+1])
	}

	var names []string
	for _, n := range s.env.AllNames() {
		if !isHistoryName(n) {
			names = append(names, n)
		}
	}
	names = append(names, token.Keywords()...)
	return filterPrefix(names, prefix, "")
}

// filterPrefix keeps the unique names starting with prefix and prepends
// lead to each.
func filterPrefix(names []string, prefix, lead string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) && !seen[n] {
			seen[n] = true
			out = append(out, lead+n)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Session) members(receiver string) []string {
	v, ok := s.env.Get(receiver)
	if !ok {
		return nil
	}
	var out []string
	switch o := v.(type) {
	case *evaluator.Record:
		out = append(out, o.Fields.Names()...)
	case *evaluator.Struct:
		out = append(out, o.Fields.Names()...)
		out = append(out, methodNames(o.Desc)...)
	case *evaluator.ObjectMut:
		out = append(out, o.Fields.Names()...)
		out = append(out, methodNames(o.Desc)...)
	}
	return out
}

func (s *Session) pathMembers(path string) []string {
	v, ok := s.env.Get(path)
	if !ok {
		return nil
	}
	switch o := v.(type) {
	case *evaluator.Module:
		return o.Env.Names()
	case *evaluator.TypeDescriptor:
		out := []string{"new"}
		for name := range o.Statics {
			out = append(out, name)
		}
		for _, vs := range o.Variants {
			out = append(out, vs.Name)
		}
		return out
	}
	return nil
}

func methodNames(d *evaluator.TypeDescriptor) []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Methods))
	for name := range d.Methods {
		out = append(out, name)
	}
	return out
}
