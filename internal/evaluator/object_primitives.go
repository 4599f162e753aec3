package evaluator

import (
	"fmt"
)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// String values are immutable; operations build new strings.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return quoteString(s.Value) }

type Char struct {
	Value rune
}

func (c *Char) Type() ObjectType { return CHAR_OBJ }
func (c *Char) Inspect() string  { return quoteChar(c.Value) }

type Byte struct {
	Value byte
}

func (b *Byte) Type() ObjectType { return BYTE_OBJ }
func (b *Byte) Inspect() string  { return fmt.Sprintf("%d", b.Value) }

// Atom is a symbol such as :ok.
type Atom struct {
	Name string
}

func (a *Atom) Type() ObjectType { return ATOM_OBJ }
func (a *Atom) Inspect() string  { return ":" + a.Name }

// Nil is the absent value. Null marks a value that came from a null
// literal; everything else (unit, statements, a missing else) shows as ().
type Nil struct {
	Null bool
}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string {
	if n.Null {
		return "null"
	}
	return "()"
}

var (
	NIL  = &Nil{}
	NULL = &Nil{Null: true}
)
