package typesystem

const (
	IntName       = "Int"
	FloatName     = "Float"
	BoolName      = "Bool"
	StringName    = "String"
	CharName      = "Char"
	ByteName      = "Byte"
	UnitName      = "Unit"
	AtomName      = "Atom"
	AnyName       = "Any"
	ListName      = "List"
	OptionName    = "Option"
	ResultName    = "Result"
	RefName       = "Ref"
	SeriesName    = "Series"
	SetName       = "Set"
	DictName      = "Dict"
	FutureName    = "Future"
	RangeName     = "Range"
	DataFrameName = "DataFrame"
)

var (
	Int    = TCon{Name: IntName}
	Float  = TCon{Name: FloatName}
	Bool   = TCon{Name: BoolName}
	String = TCon{Name: StringName}
	Char   = TCon{Name: CharName}
	Byte   = TCon{Name: ByteName}
	Unit   = TCon{Name: UnitName}
	Atom   = TCon{Name: AtomName}
	// Any is the gradual escape hatch: it unifies with every type without
	// binding anything. Unannotated host values and unknown shapes use it.
	Any = TCon{Name: AnyName}
)

// Constructors maps builtin type constructor names to their arity.
var Constructors = map[string]int{
	ListName:   1,
	OptionName: 1,
	ResultName: 2,
	RefName:    1,
	SeriesName: 1,
	SetName:    1,
	DictName:   2,
	FutureName: 1,
	RangeName:  1,
}

// Aliases maps surface spellings to canonical constructor or type names.
var Aliases = map[string]string{
	"Vec": ListName, "Array": ListName, "Optional": OptionName,
	"HashSet": SetName, "HashMap": DictName, "Map": DictName, "Object": DictName,
	"i8": IntName, "i16": IntName, "i32": IntName, "i64": IntName, "isize": IntName,
	"u16": IntName, "u32": IntName, "u64": IntName, "usize": IntName, "Integer": IntName,
	"f32": FloatName, "f64": FloatName, "bool": BoolName, "str": StringName, "u8": ByteName,
	"char": CharName, "string": StringName, "Str": StringName, "int": IntName, "float": FloatName,
}

func constructor(name string) TCon {
	return TCon{Name: name, KindVal: ConstructorKind(Constructors[name])}
}

// apply builds a constructor application.
func apply(name string, args ...Type) TApp {
	return TApp{Constructor: constructor(name), Args: args}
}

func List(elem Type) Type           { return apply(ListName, elem) }
func Option(inner Type) Type        { return apply(OptionName, inner) }
func Result(ok, err Type) Type      { return apply(ResultName, ok, err) }
func Reference(inner Type) Type     { return apply(RefName, inner) }
func Series(elem Type) Type         { return apply(SeriesName, elem) }
func SetOf(elem Type) Type          { return apply(SetName, elem) }
func Dict(key, value Type) Type     { return apply(DictName, key, value) }
func Future(inner Type) Type        { return apply(FutureName, inner) }
func RangeOf(elem Type) Type        { return apply(RangeName, elem) }
func DataFrame(cols ...Column) Type { return TDataFrame{Columns: cols} }
func Func(ret Type, params ...Type) Type {
	return TFunc{Params: params, ReturnType: ret}
}

// Constructor returns the builtin constructor for name, if it is one.
func Constructor(name string) (TCon, bool) {
	if _, ok := Constructors[name]; ok {
		return constructor(name), true
	}
	return TCon{}, false
}

// AppliedName returns the constructor name of t when it is an application
// of a named constructor, otherwise the TCon name, otherwise "".
func AppliedName(t Type) string {
	switch typ := t.(type) {
	case TApp:
		if con, ok := typ.Constructor.(TCon); ok {
			return con.Name
		}
	case TCon:
		return typ.Name
	case TDataFrame:
		return DataFrameName
	}
	return ""
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	c, ok := t.(TCon)
	return ok && (c.Name == IntName || c.Name == FloatName)
}
