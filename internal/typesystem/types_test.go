package typesystem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tv(name string) TVar { return TVar{Name: name} }

func TestUnifySoundness(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
	}{
		{"var-con", tv("a"), Int},
		{"con-var", String, tv("a")},
		{"same-var", tv("a"), tv("a")},
		{"list", List(tv("a")), List(Bool)},
		{"func", Func(tv("r"), tv("a"), Int), Func(String, Float, tv("b"))},
		{"chained", TTuple{Elements: []Type{tv("a"), tv("b"), tv("a")}}, TTuple{Elements: []Type{tv("b"), Int, tv("c")}}},
		{"nested result", Result(List(tv("a")), tv("e")), Result(tv("x"), String)},
		{"record", TRecord{Fields: map[string]Type{"x": tv("a"), "y": Int}}, TRecord{Fields: map[string]Type{"x": Float, "y": tv("b")}}},
		{"frame", DataFrame(Column{"a", tv("t")}), DataFrame(Column{"a", Int})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Unify(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unify failed: %v", err)
			}
			left, right := tt.a.Apply(s), tt.b.Apply(s)
			if !Equal(left, right) {
				t.Errorf("apply(s, a) = %s, apply(s, b) = %s", left, right)
			}
		})
	}
}

// Any unifies with everything and binds nothing, so it never leaks into
// the substitution.
func TestUnifyAny(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
	}{
		{"any-con", Any, Int},
		{"con-any", List(Bool), Any},
		{"any-var", Any, tv("a")},
		{"inside list", List(Any), List(String)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Unify(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unify failed: %v", err)
			}
			if len(s) != 0 {
				t.Errorf("substitution = %v, want empty", s)
			}
		})
	}
}

func TestUnifyFailures(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		kind ErrorKind
	}{
		{"occurs", tv("a"), List(tv("a")), OccursCheck},
		{"occurs in func", tv("a"), Func(Int, tv("a")), OccursCheck},
		{"prims", Int, String, TypeMismatch},
		{"ctor", List(Int), Option(Int), TypeMismatch},
		{"arity", Func(Int, Int), Func(Int, Int, Int), ArityMismatch},
		{"tuple size", TTuple{Elements: []Type{Int}}, TTuple{Elements: []Type{Int, Int}}, ArityMismatch},
		{"nested", List(Int), List(Bool), TypeMismatch},
		{"record fields", TRecord{Fields: map[string]Type{"x": Int}}, TRecord{Fields: map[string]Type{"y": Int}}, TypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unify(tt.a, tt.b)
			te, ok := err.(*TypeError)
			if !ok {
				t.Fatalf("expected *TypeError, got %v", err)
			}
			if te.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", te.Kind, tt.kind, te)
			}
		})
	}
}

func TestNestedMismatchReportsOuterTypes(t *testing.T) {
	_, err := Unify(List(Int), List(Bool))
	if got := err.Error(); got != "type mismatch: expected [Int], found [Bool]" {
		t.Errorf("got %q", got)
	}
}

func TestAnyIsCompatible(t *testing.T) {
	for _, other := range []Type{Int, List(tv("a")), Func(Int)} {
		s, err := Unify(Any, other)
		if err != nil || len(s) != 0 {
			t.Errorf("Any ~ %s: s=%v err=%v", other, s, err)
		}
	}
}

func TestCompose(t *testing.T) {
	s1 := Subst{"a": List(tv("b")), "c": Int}
	s2 := Subst{"b": String, "a": Bool}
	types := []Type{tv("a"), tv("b"), tv("c"), Func(tv("a"), tv("b"), tv("d"))}
	for _, typ := range types {
		want := typ.Apply(s1).Apply(s2)
		got := typ.Apply(Compose(s2, s1))
		if !Equal(got, want) {
			t.Errorf("%s: compose gives %s, sequential gives %s", typ, got, want)
		}
	}
}

func TestFreeVarsOrderedAndUnique(t *testing.T) {
	typ := Func(tv("c"), tv("b"), List(tv("a")), tv("b"))
	got := FreeVars(typ)
	want := []TVar{tv("b"), tv("a"), tv("c")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free vars (-want +got):\n%s", diff)
	}
}

func TestGeneralizeInstantiate(t *testing.T) {
	gen := &VarGen{}
	env := NewTypeEnv()
	env.Set("x", Mono(tv("e")))

	body := Func(tv("a"), tv("a"), tv("e"))
	scheme := Generalize(env, body)
	if len(scheme.Vars) != 1 || scheme.Vars[0].Name != "a" {
		t.Fatalf("only a should be quantified, got %v", scheme.Vars)
	}

	inst := scheme.Instantiate(gen)
	fn := inst.(TFunc)
	if fn.Params[0].(TVar).Name == "a" {
		t.Errorf("quantified variable was not renamed")
	}
	if fn.Params[1].(TVar).Name != "e" {
		t.Errorf("env variable must stay free")
	}
	// round trip: the instance unifies back to the body by renaming alone
	s, err := Unify(inst, body)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range s {
		if _, ok := v.(TVar); !ok {
			t.Errorf("renaming expected, got %v", s)
		}
	}
}

func TestSchemeString(t *testing.T) {
	s := &Scheme{Vars: []TVar{tv("t7"), tv("t9")}, Type: Func(tv("t9"), tv("t7"), List(tv("t9")))}
	if got := s.String(); got != "forall a b. (a, [b]) -> b" {
		t.Errorf("got %q", got)
	}
	if got := Mono(Result(Int, String)).String(); got != "Result<Int, String>" {
		t.Errorf("got %q", got)
	}
}

func TestTypeEnvScoping(t *testing.T) {
	outer := NewTypeEnv()
	outer.Set("x", Mono(Int))
	inner := NewEnclosedTypeEnv(outer)
	inner.Set("x", Mono(String))
	inner.Set("y", Mono(tv("t1")))

	if s, _ := inner.Lookup("x"); !Equal(s.Type, String) {
		t.Errorf("inner binding should shadow")
	}
	if s, _ := outer.Lookup("x"); !Equal(s.Type, Int) {
		t.Errorf("outer binding changed")
	}
	if diff := cmp.Diff([]string{"x", "y"}, inner.Names()); diff != "" {
		t.Error(diff)
	}
	applied := inner.Apply(Subst{"t1": Bool})
	if s, _ := applied.Lookup("y"); !Equal(s.Type, Bool) {
		t.Errorf("apply did not reach y")
	}
	if s, _ := inner.Lookup("y"); !Equal(s.Type, tv("t1")) {
		t.Errorf("apply must not mutate the original")
	}
}

func TestKindCheck(t *testing.T) {
	if _, err := KindCheck(List(Int)); err != nil {
		t.Errorf("List<Int>: %v", err)
	}
	over := TApp{Constructor: constructor(ListName), Args: []Type{Int, Int}}
	if _, err := KindCheck(over); err == nil {
		t.Errorf("List<Int, Int> should be rejected")
	}
	if _, err := KindCheck(TTuple{Elements: []Type{constructor(OptionName)}}); err == nil {
		t.Errorf("bare constructor inside a tuple should be rejected")
	}
	if got := ConstructorKind(2).String(); got != "(* -> (* -> *))" {
		t.Errorf("kind = %s", got)
	}
}

func TestFuncAccepts(t *testing.T) {
	f := TFunc{Params: []Type{Int, Int, Int}, ReturnType: Int, DefaultCount: 1}
	for n, want := range map[int]bool{1: false, 2: true, 3: true, 4: false} {
		if got := f.Accepts(n); got != want {
			t.Errorf("Accepts(%d) = %v", n, got)
		}
	}
	v := TFunc{Params: []Type{String, Any}, ReturnType: Unit, IsVariadic: true}
	if !v.Accepts(1) || !v.Accepts(5) || v.Accepts(0) {
		t.Errorf("variadic arity wrong")
	}
}
