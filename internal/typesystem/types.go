package typesystem

import "fmt"

// Type is one of the variants of spec §3: Primitive, Variable,
// Function, List, Tuple, Record, DataType, Scheme, or Alias. Types are
// immutable once built, except that a DataType's Ctors is set after
// construction by registry.Transaction.FillCtors (a placeholder is
// built with no constructors); the Registry is the only thing that builds
// them, via the constructors below, after it has computed and interned
// the Type's Key.
type Type interface {
	fmt.Stringer

	// TypeKey returns this Type's structural Key. Two Types built by
	// the same Registry are == (pointer identical) iff their keys are
	// Equal — that's the Registry's uniqueness invariant (spec §3),
	// not something any individual Type enforces on its own.
	TypeKey() Key

	// Children returns this Type's immediate component Types, in a
	// fixed order, for generic traversal (substitution, free-variable
	// collection). Leaf types return nil.
	Children() []Type
}

func (t *Primitive) String() string { return t.key.String() }
func (t *Variable) String() string  { return t.key.String() }
func (t *Function) String() string  { return t.key.String() }
func (t *ListType) String() string  { return t.key.String() }
func (t *Tuple) String() string     { return t.key.String() }
func (t *Record) String() string    { return t.key.String() }
func (t *DataType) String() string  { return t.key.String() }
func (t *Scheme) String() string    { return t.key.String() }
func (t *Alias) String() string     { return t.key.String() }

func (t *Primitive) TypeKey() Key { return t.key }
func (t *Variable) TypeKey() Key  { return t.key }
func (t *Function) TypeKey() Key  { return t.key }
func (t *ListType) TypeKey() Key  { return t.key }
func (t *Tuple) TypeKey() Key     { return t.key }
func (t *Record) TypeKey() Key    { return t.key }
func (t *DataType) TypeKey() Key  { return t.key }
func (t *Scheme) TypeKey() Key    { return t.key }
func (t *Alias) TypeKey() Key     { return t.key }

func (t *Primitive) Children() []Type { return nil }
func (t *Variable) Children() []Type  { return nil }
func (t *Function) Children() []Type  { return []Type{t.Arg, t.Ret} }
func (t *ListType) Children() []Type  { return []Type{t.Elem} }
func (t *Tuple) Children() []Type     { return t.Elems }
func (t *Record) Children() []Type    { return t.Fields }
func (t *DataType) Children() []Type {
	out := make([]Type, 0, len(t.Args)+len(t.Ctors))
	out = append(out, t.Args...)
	for _, c := range t.Ctors {
		out = append(out, c.Payload)
	}
	return out
}
func (t *Scheme) Children() []Type { return []Type{t.Body} }
func (t *Alias) Children() []Type  { return []Type{t.Body} }

// Primitive is one of the fixed built-in atoms: bool, char, int, real,
// string, unit. unit is the empty record/tuple (spec §3).
type Primitive struct {
	key  Key
	Name string
}

// NewPrimitive builds a Primitive Type. Only the Registry should call
// this, after interning key.
func NewPrimitive(key Key, name string) *Primitive {
	return &Primitive{key: key, Name: name}
}

// Variable is a type variable identified by a non-negative ordinal
// (spec §3). Distinct ordinals are distinct variables.
type Variable struct {
	key     Key
	Ordinal int
}

// NewVariable builds a Variable Type.
func NewVariable(key Key, ordinal int) *Variable {
	return &Variable{key: key, Ordinal: ordinal}
}

// Function is a function type: parameter then result, right
// associative when printed (spec §3).
type Function struct {
	key      Key
	Arg, Ret Type
}

// NewFunction builds a Function Type.
func NewFunction(key Key, arg, ret Type) *Function {
	return &Function{key: key, Arg: arg, Ret: ret}
}

// ListType is a list type: a single element type (spec §3).
type ListType struct {
	key  Key
	Elem Type
}

// NewList builds a ListType Type.
func NewList(key Key, elem Type) *ListType {
	return &ListType{key: key, Elem: elem}
}

// Tuple is an ordered sequence of element types, length >= 2.
// Semantically a Record whose field labels are "1",...,"n" in numeric
// order (spec §3).
type Tuple struct {
	key   Key
	Elems []Type
}

// NewTuple builds a Tuple Type.
func NewTuple(key Key, elems []Type) *Tuple {
	return &Tuple{key: key, Elems: elems}
}

// Record is a mapping from field label to type. Labels is always in
// the canonical ascending order of §4.1 (numeric labels by value, then
// non-numeric labels lexicographically), aligned with Fields (spec
// §3). A Record whose labels are exactly "1".."n" is canonically a
// Tuple — the Registry never hands back a Record in that shape.
type Record struct {
	key    Key
	Labels []string
	Fields []Type
}

// NewRecord builds a Record Type. Callers (the Registry) are
// responsible for having already canonicalized Labels/Fields order and
// for never calling this when the label set is tuple-shaped.
func NewRecord(key Key, labels []string, fields []Type) *Record {
	return &Record{key: key, Labels: labels, Fields: fields}
}

// FieldByLabel looks up a field by label, returning (type, true) if
// present.
func (t *Record) FieldByLabel(label string) (Type, bool) {
	for i, l := range t.Labels {
		if l == label {
			return t.Fields[i], true
		}
	}
	return nil, false
}

// Ctor is one constructor of a DataType: its name and payload type.
// A Payload of the registry's dummy Primitive (the Type interned under
// DummyKey by registry.New) denotes a nullary constructor.
type Ctor struct {
	Name    string
	Payload Type
}

// DataType is a named algebraic sum: a name, an applied argument-type
// list (possibly empty), and an ordered constructor-name -> payload
// mapping (spec §3). Ctors preserves declaration order; DataTypeKey's
// structural identity does not depend on that order (see key.go).
type DataType struct {
	key   Key
	Name  string
	Arity int
	Args  []Type
	Ctors []Ctor
}

// NewDataType builds a DataType Type.
func NewDataType(key Key, name string, arity int, args []Type, ctors []Ctor) *DataType {
	return &DataType{key: key, Name: name, Arity: arity, Args: args, Ctors: ctors}
}

// CtorByName looks up a constructor's payload type by name.
func (t *DataType) CtorByName(name string) (Type, bool) {
	for _, c := range t.Ctors {
		if c.Name == name {
			return c.Payload, true
		}
	}
	return nil, false
}

// Scheme is a universally quantified type: a body referencing its
// quantified variables by ordinals 0..Arity-1, plus the arity itself
// (spec §3).
type Scheme struct {
	key   Key
	Arity int
	Body  Type
}

// NewScheme builds a Scheme Type.
func NewScheme(key Key, arity int, body Type) *Scheme {
	return &Scheme{key: key, Arity: arity, Body: body}
}

// Alias is a name bound to another type: transparent for unification,
// preserved for display (spec §3, §4.5).
type Alias struct {
	key  Key
	Name string
	Body Type
}

// NewAlias builds an Alias Type.
func NewAlias(key Key, name string, body Type) *Alias {
	return &Alias{key: key, Name: name, Body: body}
}

// Unalias peels every Alias layer off t, returning the first
// non-Alias Type reached. Unification (package unify) always peels
// before matching; display should not call this.
func Unalias(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.Body
	}
}
