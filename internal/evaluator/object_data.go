package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
)

type TypeKind string

const (
	StructType  TypeKind = "struct"
	ClassType   TypeKind = "class"
	ActorType   TypeKind = "actor"
	EnumType    TypeKind = "enum"
	BuiltinType TypeKind = "builtin" // impl blocks on Int, String, ...
)

const (
	OptionTypeName = "Option"
	ResultTypeName = "Result"
)

// FieldSpec is a declared field. Default is evaluated lazily in the
// descriptor's defining environment each time an instance needs it.
type FieldSpec struct {
	Name    string
	Default ast.Expression
	Mutable bool
}

// Handler is one receive clause of an actor.
type Handler struct {
	Message    string
	Parameters []*ast.Parameter
	Pattern    ast.Pattern
	Body       ast.Expression
}

type VariantSpec struct {
	Name         string
	Arity        int
	Discriminant int64
}

// TypeDescriptor is the runtime value bound to a struct, class, actor or
// enum name.
type TypeDescriptor struct {
	Kind         TypeKind
	Name         string
	Fields       []FieldSpec
	Methods      map[string]*Function
	Statics      map[string]*Function
	Constructors []*Function
	Handlers     []*Handler
	Variants     []*VariantSpec
	Env          *Environment
}

func newTypeDescriptor(kind TypeKind, name string, env *Environment) *TypeDescriptor {
	return &TypeDescriptor{
		Kind:    kind,
		Name:    name,
		Methods: map[string]*Function{},
		Statics: map[string]*Function{},
		Env:     env,
	}
}

func (td *TypeDescriptor) Type() ObjectType { return TYPE_OBJ }
func (td *TypeDescriptor) Inspect() string  { return fmt.Sprintf("<%s %s>", td.Kind, td.Name) }

func (td *TypeDescriptor) field(name string) (FieldSpec, bool) {
	for _, f := range td.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (td *TypeDescriptor) variant(name string) (*VariantSpec, bool) {
	for _, v := range td.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Struct is an immutable struct instance. Field assignment through a
// mutable binding replaces the whole value.
type Struct struct {
	Desc   *TypeDescriptor
	Fields *FieldMap
}

func (s *Struct) Type() ObjectType { return STRUCT_OBJ }
func (s *Struct) Inspect() string  { return inspectInstance(s.Desc.Name, s.Fields) }

// ObjectMut is the mutable cell behind class and actor instances. Every
// reference to the instance shares the cell.
type ObjectMut struct {
	Desc   *TypeDescriptor
	Fields *FieldMap
	// initializing is set while a constructor runs, so immutable fields
	// can still be assigned.
	initializing bool
	// busy is set while an actor handler runs.
	busy bool
}

func (o *ObjectMut) Type() ObjectType { return OBJECT_MUT_OBJ }
func (o *ObjectMut) Inspect() string  { return inspectInstance(o.Desc.Name, o.Fields) }

func inspectInstance(name string, fields *FieldMap) string {
	if fields.Len() == 0 {
		return name + " {}"
	}
	return name + " { " + fields.inspect(": ") + " }"
}

// Variant is an enum value. Builtin Option and Result values use Enum
// "Option" and "Result"; bare capitalised tags used as actor messages have
// no Enum.
type Variant struct {
	Enum   string
	Name   string
	Fields []Object
}

func (v *Variant) Type() ObjectType { return VARIANT_OBJ }
func (v *Variant) Inspect() string {
	name := v.Name
	if v.Enum != "" && v.Enum != OptionTypeName && v.Enum != ResultTypeName {
		name = v.Enum + "::" + v.Name
	}
	if len(v.Fields) == 0 {
		return name
	}
	return name + "(" + joinInspect(v.Fields) + ")"
}

func (v *Variant) is(enum, name string) bool {
	return v.Enum == enum && v.Name == name
}

func someValue(v Object) *Variant { return &Variant{Enum: OptionTypeName, Name: "Some", Fields: []Object{v}} }
func okValue(v Object) *Variant   { return &Variant{Enum: ResultTypeName, Name: "Ok", Fields: []Object{v}} }
func errValue(v Object) *Variant  { return &Variant{Enum: ResultTypeName, Name: "Err", Fields: []Object{v}} }

var NONE = &Variant{Enum: OptionTypeName, Name: "None"}

func optionOf(v Object, ok bool) *Variant {
	if !ok || v == nil {
		return NONE
	}
	return someValue(v)
}

// Module is a namespace produced by a module declaration or a loaded file.
type Module struct {
	Name string
	Env  *Environment
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return "<module " + m.Name + ">" }

func (m *Module) Member(name string) (Object, bool) {
	return m.Env.GetLocal(name)
}

// Series is a named DataFrame column.
type Series struct {
	Name   string
	Values []Object
}

func (s *Series) Type() ObjectType { return SERIES_OBJ }
func (s *Series) Inspect() string  { return "Series([" + joinInspect(s.Values) + "])" }

type DataFrame struct {
	Columns []*Series
}

func (df *DataFrame) Type() ObjectType { return DATAFRAME_OBJ }
func (df *DataFrame) Inspect() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame with %d columns:", len(df.Columns))
	for _, c := range df.Columns {
		fmt.Fprintf(&b, "\n  %s: %d rows", c.Name, len(c.Values))
	}
	return b.String()
}

func (df *DataFrame) Rows() int {
	if len(df.Columns) == 0 {
		return 0
	}
	return len(df.Columns[0].Values)
}

func (df *DataFrame) Column(name string) (*Series, bool) {
	for _, c := range df.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// row returns row i as a record keyed by column name.
func (df *DataFrame) row(i int) *Record {
	fields := NewFieldMap()
	for _, c := range df.Columns {
		fields.Set(c.Name, c.Values[i])
	}
	return &Record{Fields: fields}
}

// selectRows builds a frame from the given row indices.
func (df *DataFrame) selectRows(rows []int) *DataFrame {
	out := &DataFrame{Columns: make([]*Series, len(df.Columns))}
	for ci, c := range df.Columns {
		vals := make([]Object, len(rows))
		for i, r := range rows {
			vals[i] = c.Values[r]
		}
		out.Columns[ci] = &Series{Name: c.Name, Values: vals}
	}
	return out
}
