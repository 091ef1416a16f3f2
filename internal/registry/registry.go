package registry

import (
	"fmt"

	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// Registry is the hash-consing store of spec §4.2: by_key maps every
// structural Key this Registry has ever resolved to the one Type that
// owns it, and by_name additionally exposes the user-facing names
// (the six primitives, plus whatever datatypes get introduced later;
// AliasType does not bind a name) through Lookup. Two TypeFor calls for equal Keys return the
// identical *pointer* — nothing outside this package ever constructs a
// Type directly, so that invariant holds by construction.
//
// A Registry is not safe for concurrent use (spec §5): it is owned by
// a single inference run, the way the teacher's analyzer owns one
// *Context per compilation.
type Registry struct {
	byName      map[string]typesystem.Type
	byKey       map[string]typesystem.Type
	nextOrdinal int
}

// primitiveNames is the fixed set of built-in atoms spec §3 names.
var primitiveNames = [...]string{"bool", "char", "int", "real", "string", "unit"}

// New builds a Registry pre-populated with the six primitives and the
// distinguished dummy nullary-constructor-payload type (spec §6).
func New() *Registry {
	r := &Registry{
		byName: make(map[string]typesystem.Type),
		byKey:  make(map[string]typesystem.Type),
	}
	for _, name := range primitiveNames {
		key := typesystem.NameKey{Name: name}
		t := typesystem.NewPrimitive(key, name)
		r.byKey[key.Digest()] = t
		r.byName[name] = t
	}
	dummy := typesystem.NewPrimitive(typesystem.DummyKey, "dummy")
	r.byKey[typesystem.DummyKey.Digest()] = dummy
	return r
}

// Lookup resolves a public name — a primitive, or a datatype
// introduced earlier — to its Type (spec §4.2's lookup). Aliases built
// by AliasType are not registered by name and are not found here.
func (r *Registry) Lookup(name string) (typesystem.Type, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, &typesystem.UnknownNameError{Name: name}
	}
	return t, nil
}

// TypeFor returns the canonical Type for key, constructing and
// interning it on first demand (spec §4.2's type_for). Repeated calls
// with structurally equal keys return the identical Type.
//
// TypeFor does not build DataTypeKeys: a datatype's constructor
// payloads can reference the datatype itself (directly or through a
// mutually recursive sibling), and resolving that cycle requires the
// placeholder-then-commit Transaction protocol of spec §4.3.1, which
// lives in package instantiate. Ask for a datatype via
// instantiate.DataTypes or instantiate.Apply instead.
func (r *Registry) TypeFor(key typesystem.Key) (typesystem.Type, error) {
	if t, ok := r.byKey[key.Digest()]; ok {
		return t, nil
	}
	t, err := r.build(key)
	if err != nil {
		return nil, err
	}
	r.byKey[key.Digest()] = t
	return t, nil
}

// TypesFor maps TypeFor over keys, preserving order, and fails on the
// first error (spec §4.2's types_for).
func (r *Registry) TypesFor(keys []typesystem.Key) ([]typesystem.Type, error) {
	out := make([]typesystem.Type, len(keys))
	for i, k := range keys {
		t, err := r.TypeFor(k)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (r *Registry) build(key typesystem.Key) (typesystem.Type, error) {
	switch k := key.(type) {
	case typesystem.NameKey:
		return nil, &typesystem.UnknownNameError{Name: k.Name}
	case typesystem.OrdinalKey:
		return typesystem.NewVariable(k, k.Ordinal), nil
	case typesystem.FnKey:
		arg, err := r.TypeFor(k.Arg)
		if err != nil {
			return nil, err
		}
		ret, err := r.TypeFor(k.Ret)
		if err != nil {
			return nil, err
		}
		return typesystem.NewFunction(k, arg, ret), nil
	case typesystem.ListKey:
		elem, err := r.TypeFor(k.Elem)
		if err != nil {
			return nil, err
		}
		return typesystem.NewList(k, elem), nil
	case typesystem.TupleKey:
		elems, err := r.TypesFor(k.Elems)
		if err != nil {
			return nil, err
		}
		return typesystem.NewTuple(k, elems), nil
	case typesystem.RecordKey:
		fields, err := r.TypesFor(k.Fields)
		if err != nil {
			return nil, err
		}
		return typesystem.NewRecord(k, k.Labels, fields), nil
	case typesystem.ForallKey:
		body, err := r.TypeFor(k.Body)
		if err != nil {
			return nil, err
		}
		return typesystem.NewScheme(k, k.Arity, body), nil
	case typesystem.AliasKey:
		body, err := r.TypeFor(k.Body)
		if err != nil {
			return nil, err
		}
		return typesystem.NewAlias(k, k.Name, body), nil
	case typesystem.DataTypeKey:
		return nil, &typesystem.InternalInvariantError{
			Detail: fmt.Sprintf("datatype %q must be installed through a Transaction (instantiate.DataTypes/Apply), not TypeFor", k.Name),
		}
	default:
		return nil, &typesystem.InternalInvariantError{Detail: fmt.Sprintf("unrecognized key type %T", key)}
	}
}

// FnType, ListType, TupleType, RecordType, FreshVar, ForallType, and
// AliasType are convenience wrappers over TypeFor (spec §4.2).

func (r *Registry) FnType(arg, ret typesystem.Type) (typesystem.Type, error) {
	return r.TypeFor(typesystem.FnKey{Arg: arg.TypeKey(), Ret: ret.TypeKey()})
}

func (r *Registry) ListType(elem typesystem.Type) (typesystem.Type, error) {
	return r.TypeFor(typesystem.ListKey{Elem: elem.TypeKey()})
}

// TupleType builds a Tuple from at least two element types. A single
// element never reaches here as a Tuple — that collapse only happens
// inside RecordType's tuple-shape detection (spec §4.1); asking for a
// one-element (or zero-element) tuple directly is a caller error.
func (r *Registry) TupleType(elems []typesystem.Type) (typesystem.Type, error) {
	if len(elems) < 2 {
		return nil, &typesystem.InternalInvariantError{
			Detail: fmt.Sprintf("tuple_type requires at least 2 elements, got %d", len(elems)),
		}
	}
	keys := make([]typesystem.Key, len(elems))
	for i, e := range elems {
		keys[i] = e.TypeKey()
	}
	return r.TypeFor(typesystem.TupleKey{Elems: keys})
}

// RecordType implements spec §4.2's record_type policy: empty fields
// is unit, tuple-shaped labels collapse to Tuple (or to the bare field
// type when there is exactly one), anything else is a genuine Record.
func (r *Registry) RecordType(fields map[string]typesystem.Type) (typesystem.Type, error) {
	if len(fields) == 0 {
		return r.Lookup("unit")
	}
	keyFields := make(map[string]typesystem.Key, len(fields))
	for label, t := range fields {
		keyFields[label] = t.TypeKey()
	}
	return r.TypeFor(typesystem.NewRecordKey(keyFields))
}

// FreshVar returns a new type Variable with a strictly increasing
// ordinal (spec §6's fresh_var). Each call allocates a new ordinal
// even if an earlier Variable with that ordinal still exists; ordinals
// are never reused within a Registry's lifetime.
func (r *Registry) FreshVar() *typesystem.Variable {
	ordinal := r.nextOrdinal
	r.nextOrdinal++
	key := typesystem.OrdinalKey{Ordinal: ordinal}
	v := typesystem.NewVariable(key, ordinal)
	r.byKey[key.Digest()] = v
	return v
}

func (r *Registry) ForallType(arity int, body typesystem.Type) (typesystem.Type, error) {
	return r.TypeFor(typesystem.ForallKey{Body: body.TypeKey(), Arity: arity})
}

func (r *Registry) AliasType(name string, body typesystem.Type) (typesystem.Type, error) {
	return r.TypeFor(typesystem.AliasKey{Name: name, Body: body.TypeKey()})
}
