package evaluator

import (
	"strings"
)

// List is an immutable sequence. Mutating methods build a new list and
// rebind the receiver.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string  { return "[" + joinInspect(l.Elements) + "]" }

func newList(elems []Object) *List {
	if elems == nil {
		elems = []Object{}
	}
	return &List{Elements: elems}
}

type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	if len(t.Elements) == 1 {
		return "(" + t.Elements[0].Inspect() + ",)"
	}
	return "(" + joinInspect(t.Elements) + ")"
}

func joinInspect(elems []Object) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.Inspect()
	}
	return strings.Join(parts, ", ")
}

// hashKey identifies a value as a dict key or set member.
func hashKey(obj Object) string {
	return string(obj.Type()) + ":" + obj.Inspect()
}

type DictEntry struct {
	Key   Object
	Value Object
}

// Dict is an insertion-ordered map.
type Dict struct {
	entries []*DictEntry
	index   map[string]int
}

func NewDict() *Dict {
	return &Dict{index: map[string]int{}}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	parts := make([]string, len(d.entries))
	for i, en := range d.entries {
		parts[i] = en.Key.Inspect() + ": " + en.Value.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Len() int              { return len(d.entries) }
func (d *Dict) Entries() []*DictEntry { return d.entries }

func (d *Dict) Get(key Object) (Object, bool) {
	if i, ok := d.index[hashKey(key)]; ok {
		return d.entries[i].Value, true
	}
	return nil, false
}

func (d *Dict) Set(key, value Object) {
	k := hashKey(key)
	if i, ok := d.index[k]; ok {
		d.entries[i] = &DictEntry{Key: key, Value: value}
		return
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, &DictEntry{Key: key, Value: value})
}

func (d *Dict) Delete(key Object) (Object, bool) {
	k := hashKey(key)
	i, ok := d.index[k]
	if !ok {
		return nil, false
	}
	old := d.entries[i].Value
	d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
	d.reindex()
	return old, true
}

func (d *Dict) reindex() {
	d.index = make(map[string]int, len(d.entries))
	for i, en := range d.entries {
		d.index[hashKey(en.Key)] = i
	}
}

func (d *Dict) Copy() *Dict {
	out := &Dict{entries: make([]*DictEntry, len(d.entries)), index: make(map[string]int, len(d.entries))}
	for i, en := range d.entries {
		out.entries[i] = &DictEntry{Key: en.Key, Value: en.Value}
		out.index[hashKey(en.Key)] = i
	}
	return out
}

// Set is an insertion-ordered collection of distinct values.
type Set struct {
	elements []Object
	index    map[string]int
}

func NewSet() *Set {
	return &Set{index: map[string]int{}}
}

func (s *Set) Type() ObjectType { return SET_OBJ }
func (s *Set) Inspect() string {
	if len(s.elements) == 0 {
		return "{}"
	}
	return "{" + joinInspect(s.elements) + "}"
}

func (s *Set) Len() int           { return len(s.elements) }
func (s *Set) Elements() []Object { return s.elements }

func (s *Set) Has(obj Object) bool {
	_, ok := s.index[hashKey(obj)]
	return ok
}

// Add inserts obj and reports whether it was new.
func (s *Set) Add(obj Object) bool {
	k := hashKey(obj)
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.elements)
	s.elements = append(s.elements, obj)
	return true
}

func (s *Set) Remove(obj Object) bool {
	k := hashKey(obj)
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
	s.index = make(map[string]int, len(s.elements))
	for j, el := range s.elements {
		s.index[hashKey(el)] = j
	}
	return true
}

func (s *Set) Copy() *Set {
	out := NewSet()
	for _, el := range s.elements {
		out.Add(el)
	}
	return out
}

// Range is an integer interval. Open ends are only meaningful for slicing.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
	HasStart  bool
	HasEnd    bool
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string {
	var b strings.Builder
	if r.HasStart {
		b.WriteString(formatInt(r.Start))
	}
	if r.Inclusive {
		b.WriteString("..=")
	} else {
		b.WriteString("..")
	}
	if r.HasEnd {
		b.WriteString(formatInt(r.End))
	}
	return b.String()
}

// Last is the final value the range yields.
func (r *Range) Last() int64 {
	if r.Inclusive {
		return r.End
	}
	return r.End - 1
}

func (r *Range) Len() int64 {
	if n := r.Last() - r.Start + 1; n > 0 {
		return n
	}
	return 0
}

func (r *Range) Contains(n int64) bool {
	return n >= r.Start && n <= r.Last()
}

func (r *Range) ToList() *List {
	n := r.Len()
	elems := make([]Object, 0, n)
	for i := r.Start; i <= r.Last(); i++ {
		elems = append(elems, &Integer{Value: i})
	}
	return newList(elems)
}

// FieldMap keeps named fields in declaration order.
type FieldMap struct {
	names  []string
	values map[string]Object
}

func NewFieldMap() *FieldMap {
	return &FieldMap{values: map[string]Object{}}
}

func (m *FieldMap) Get(name string) (Object, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *FieldMap) Set(name string, v Object) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = v
}

func (m *FieldMap) Names() []string { return m.names }
func (m *FieldMap) Len() int        { return len(m.names) }

func (m *FieldMap) Copy() *FieldMap {
	out := &FieldMap{names: append([]string(nil), m.names...), values: make(map[string]Object, len(m.values))}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

func (m *FieldMap) inspect(sep string) string {
	parts := make([]string, len(m.names))
	for i, n := range m.names {
		parts[i] = n + sep + m.values[n].Inspect()
	}
	return strings.Join(parts, ", ")
}

// Record is an anonymous object literal.
type Record struct {
	Fields *FieldMap
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string  { return "{" + r.Fields.inspect(": ") + "}" }
