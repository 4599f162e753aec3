package evaluator

type ObjectType string

const (
	INTEGER_OBJ    = "INTEGER"
	FLOAT_OBJ      = "FLOAT"
	BOOLEAN_OBJ    = "BOOLEAN"
	STRING_OBJ     = "STRING"
	CHAR_OBJ       = "CHAR"
	BYTE_OBJ       = "BYTE"
	ATOM_OBJ       = "ATOM"
	NIL_OBJ        = "NIL"
	LIST_OBJ       = "LIST"
	TUPLE_OBJ      = "TUPLE"
	DICT_OBJ       = "DICT"
	SET_OBJ        = "SET"
	RANGE_OBJ      = "RANGE"
	RECORD_OBJ     = "RECORD"      // object literal {k: v}
	STRUCT_OBJ     = "STRUCT"      // immutable struct instance
	OBJECT_MUT_OBJ = "OBJECT_MUT"  // class and actor instances
	VARIANT_OBJ    = "VARIANT"     // enum variants, Option, Result and message tags
	FUTURE_OBJ     = "FUTURE"
	SERIES_OBJ     = "SERIES"
	DATAFRAME_OBJ  = "DATAFRAME"
	FUNCTION_OBJ   = "FUNCTION"
	BUILTIN_OBJ    = "BUILTIN"
	BOUND_METHOD   = "BOUND_METHOD"
	TYPE_OBJ       = "TYPE"
	MODULE_OBJ     = "MODULE"
	ERROR_VALUE    = "ERROR_VALUE" // a caught error bound by catch

	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

// Runtime type names reported by type_of and used for impl lookup.
const (
	RUNTIME_TYPE_INT       = "Int"
	RUNTIME_TYPE_FLOAT     = "Float"
	RUNTIME_TYPE_BOOL      = "Bool"
	RUNTIME_TYPE_STRING    = "String"
	RUNTIME_TYPE_CHAR      = "Char"
	RUNTIME_TYPE_BYTE      = "Byte"
	RUNTIME_TYPE_ATOM      = "Atom"
	RUNTIME_TYPE_NIL       = "Nil"
	RUNTIME_TYPE_LIST      = "List"
	RUNTIME_TYPE_TUPLE     = "Tuple"
	RUNTIME_TYPE_DICT      = "Dict"
	RUNTIME_TYPE_SET       = "Set"
	RUNTIME_TYPE_RANGE     = "Range"
	RUNTIME_TYPE_OBJECT    = "Object"
	RUNTIME_TYPE_FUNCTION  = "Function"
	RUNTIME_TYPE_FUTURE    = "Future"
	RUNTIME_TYPE_SERIES    = "Series"
	RUNTIME_TYPE_DATAFRAME = "DataFrame"
	RUNTIME_TYPE_MODULE    = "Module"
	RUNTIME_TYPE_TYPE      = "Type"
	RUNTIME_TYPE_ERROR     = "Error"
)

// Object is every runtime value. Inspect renders the nested display form,
// where strings are quoted; Display renders the top-level form.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// isSignal reports whether obj is an error or a control-flow signal that
// must unwind the current evaluation.
func isSignal(obj Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
		return true
	}
	return false
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}
