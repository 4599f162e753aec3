package evaluator

// cloner deep-copies an environment graph. Frames, mutable cells,
// descriptors and functions are copied once each, so sharing within the
// graph is preserved in the copy. Frozen frames are shared.
type cloner struct {
	envs  map[*Environment]*Environment
	cells map[*ObjectMut]*ObjectMut
	descs map[*TypeDescriptor]*TypeDescriptor
	fns   map[*Function]*Function
}

func newCloner() *cloner {
	return &cloner{
		envs:  map[*Environment]*Environment{},
		cells: map[*ObjectMut]*ObjectMut{},
		descs: map[*TypeDescriptor]*TypeDescriptor{},
		fns:   map[*Function]*Function{},
	}
}

// Clone returns an independent copy of the frame chain and every value
// reachable from it. The copy is never sealed; later writes to either side
// are not seen by the other.
func (e *Environment) Clone() *Environment {
	return newCloner().env(e)
}

// CloneState copies an environment together with the impl table that
// refers into it, keeping references between them consistent.
func CloneState(env *Environment, impls map[string]*TypeDescriptor) (*Environment, map[string]*TypeDescriptor) {
	c := newCloner()
	out := c.env(env)
	outImpls := make(map[string]*TypeDescriptor, len(impls))
	for k, d := range impls {
		outImpls[k] = c.desc(d)
	}
	return out, outImpls
}

func (c *cloner) env(e *Environment) *Environment {
	if e == nil {
		return nil
	}
	if e.frozen {
		return e
	}
	if out, ok := c.envs[e]; ok {
		return out
	}
	out := NewEnvironment()
	c.envs[e] = out
	out.outer = c.env(e.outer)

	e.mu.RLock()
	store := make(map[string]*binding, len(e.store))
	for k, b := range e.store {
		store[k] = b
	}
	e.mu.RUnlock()
	for k, b := range store {
		out.store[k] = &binding{value: c.value(b.value), mutable: b.mutable}
	}
	return out
}

func (c *cloner) fields(m *FieldMap) *FieldMap {
	out := NewFieldMap()
	for _, n := range m.Names() {
		v, _ := m.Get(n)
		out.Set(n, c.value(v))
	}
	return out
}

func (c *cloner) all(xs []Object) []Object {
	if xs == nil {
		return nil
	}
	out := make([]Object, len(xs))
	for i, x := range xs {
		out[i] = c.value(x)
	}
	return out
}

func (c *cloner) fn(f *Function) *Function {
	if f == nil {
		return nil
	}
	if out, ok := c.fns[f]; ok {
		return out
	}
	out := *f
	c.fns[f] = &out
	out.Env = c.env(f.Env)
	out.Owner = c.desc(f.Owner)
	return &out
}

func (c *cloner) desc(d *TypeDescriptor) *TypeDescriptor {
	if d == nil {
		return nil
	}
	if out, ok := c.descs[d]; ok {
		return out
	}
	out := *d
	c.descs[d] = &out
	out.Env = c.env(d.Env)
	out.Methods = make(map[string]*Function, len(d.Methods))
	for k, m := range d.Methods {
		out.Methods[k] = c.fn(m)
	}
	out.Statics = make(map[string]*Function, len(d.Statics))
	for k, m := range d.Statics {
		out.Statics[k] = c.fn(m)
	}
	out.Constructors = make([]*Function, len(d.Constructors))
	for i, m := range d.Constructors {
		out.Constructors[i] = c.fn(m)
	}
	return &out
}

func (c *cloner) value(obj Object) Object {
	switch o := obj.(type) {
	case *List:
		return newList(c.all(o.Elements))
	case *Tuple:
		return &Tuple{Elements: c.all(o.Elements)}
	case *Dict:
		out := NewDict()
		for _, en := range o.Entries() {
			out.Set(c.value(en.Key), c.value(en.Value))
		}
		return out
	case *Set:
		out := NewSet()
		for _, el := range o.Elements() {
			out.Add(c.value(el))
		}
		return out
	case *Record:
		return &Record{Fields: c.fields(o.Fields)}
	case *Struct:
		return &Struct{Desc: c.desc(o.Desc), Fields: c.fields(o.Fields)}
	case *ObjectMut:
		if out, ok := c.cells[o]; ok {
			return out
		}
		out := &ObjectMut{Desc: c.desc(o.Desc)}
		c.cells[o] = out
		out.Fields = c.fields(o.Fields)
		return out
	case *Variant:
		return &Variant{Enum: o.Enum, Name: o.Name, Fields: c.all(o.Fields)}
	case *Function:
		return c.fn(o)
	case *BoundMethod:
		return &BoundMethod{Receiver: c.value(o.Receiver), Method: c.fn(o.Method)}
	case *TypeDescriptor:
		return c.desc(o)
	case *Module:
		return &Module{Name: o.Name, Env: c.env(o.Env)}
	case *Series:
		return &Series{Name: o.Name, Values: c.all(o.Values)}
	case *DataFrame:
		out := &DataFrame{Columns: make([]*Series, len(o.Columns))}
		for i, col := range o.Columns {
			out.Columns[i] = &Series{Name: col.Name, Values: c.all(col.Values)}
		}
		return out
	case *Future:
		return &Future{Value: c.value(o.Value)}
	}
	// Scalars, ranges, builtins and error values are immutable.
	return obj
}
